/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dfg

import (
    `fmt`

    `github.com/cloudwego/dfgopt/rt`
    `golang.org/x/exp/slices`
)

type FixpointState uint8

const (
    BeforeFixpoint FixpointState = iota
    FixpointNotConverged
    FixpointConverged
)

type GraphForm uint8

const (
    LoadStore GraphForm = iota
    ThreadedCPS
    SSA
)

func (self GraphForm) String() string {
    switch self {
        case LoadStore   : return "LoadStore"
        case ThreadedCPS : return "ThreadedCPS"
        case SSA         : return "SSA"
        default          : return fmt.Sprintf("GraphForm(%d)", self)
    }
}

const (
    _CallFrameHeaderSize    = 5
    _CallerFrameAndPCSize   = 2
    _StackAlignmentRegs     = 2
    _StackAlignmentBytes    = 16
    _RegisterSize           = 8
)

// BasicBlock is an ordered sequence of nodes.
type BasicBlock struct {
    Index int
    nodes []*Node
}

func (self *BasicBlock) Size() int          { return len(self.nodes) }
func (self *BasicBlock) At(i int) *Node     { return self.nodes[i] }
func (self *BasicBlock) Nodes() []*Node     { return self.nodes }
func (self *BasicBlock) Append(n ...*Node)  { self.nodes = append(self.nodes, n...) }

func (self *BasicBlock) IndexOf(n *Node) int {
    return slices.Index(self.nodes, n)
}

// RegisteredStructureSet is a set of structures the graph has registered.
type RegisteredStructureSet struct {
    Structures []*rt.Structure
}

func (self *RegisteredStructureSet) OnlyStructure() *rt.Structure {
    if len(self.Structures) != 1 {
        return nil
    } else {
        return self.Structures[0]
    }
}

// Identifiers interns property names used by the graph.
type Identifiers struct {
    names []string
    index map[string]uint32
}

func (self *Identifiers) Ensure(name string) uint32 {
    if id, ok := self.index[name]; ok {
        return id
    }
    if self.index == nil {
        self.index = make(map[string]uint32)
    }
    id := uint32(len(self.names))
    self.index[name] = id
    self.names = append(self.names, name)
    return id
}

func (self *Identifiers) At(id uint32) string { return self.names[id] }
func (self *Identifiers) Len() int           { return len(self.names) }

// DesiredWatchpoints collects the watchpoint sets compiled code must be
// registered on at link time.
type DesiredWatchpoints struct {
    sets []*rt.WatchpointSet
}

func (self *DesiredWatchpoints) AddLazily(set *rt.WatchpointSet) {
    if !self.Contains(set) {
        self.sets = append(self.sets, set)
    }
}

func (self *DesiredWatchpoints) Contains(set *rt.WatchpointSet) bool {
    return slices.Contains(self.sets, set)
}

func (self *DesiredWatchpoints) Sets() []*rt.WatchpointSet {
    return self.sets
}

// AreStillValid reports whether compiled code depending on these sets may
// still be installed.
func (self *DesiredWatchpoints) AreStillValid() bool {
    for _, s := range self.sets {
        if !s.IsStillValid() {
            return false
        }
    }
    return true
}

type exitSite struct {
    origin CodeOrigin
    kind   ExitKind
}

// Graph is a function under compilation.
type Graph struct {
    Blocks            []*BasicBlock
    FixpointState     FixpointState
    Form              GraphForm
    Plan              Plan
    VarArgChildren    []Edge
    LazyJSValues      []*LazyJSValue
    ParameterSlots    int
    HandlesExceptions bool

    vm               *rt.VM
    global           *rt.GlobalObject
    nextID           uint32
    frozen           map[rt.Value]*FrozenValue
    watchpoints      DesiredWatchpoints
    identifiers      Identifiers
    structures       []*rt.Structure
    structureSets    []*RegisteredStructureSet
    materializations []*ObjectMaterializationData
    exitSites        map[exitSite]struct{}
}

func NewGraph(vm *rt.VM, global *rt.GlobalObject, plan Plan) *Graph {
    return &Graph {
        vm        : vm,
        global    : global,
        Plan      : plan,
        Form      : ThreadedCPS,
        frozen    : make(map[rt.Value]*FrozenValue),
        exitSites : make(map[exitSite]struct{}),
    }
}

func (self *Graph) VM() *rt.VM                          { return self.vm }
func (self *Graph) GlobalObject() *rt.GlobalObject      { return self.global }
func (self *Graph) Watchpoints() *DesiredWatchpoints    { return &self.watchpoints }
func (self *Graph) Identifiers() *Identifiers           { return &self.identifiers }
func (self *Graph) Structures() []*rt.Structure         { return self.structures }
func (self *Graph) NumNodes() int                       { return int(self.nextID) }

func (self *Graph) NewBlock() *BasicBlock {
    bb := &BasicBlock { Index: len(self.Blocks) }
    self.Blocks = append(self.Blocks, bb)
    return bb
}

// NewNode allocates a node with fixed children. Nodes are numbered in
// creation order.
func (self *Graph) NewNode(op Op, origin NodeOrigin, pred SpeculatedType, info OpInfo, children ...Edge) *Node {
    return self.newNode(op, origin, pred, info, Fixed(children...))
}

// NewVarArgNode allocates a node over the window [first, first+count) of
// the vararg buffer.
func (self *Graph) NewVarArgNode(op Op, origin NodeOrigin, pred SpeculatedType, info OpInfo, first int, count int) *Node {
    if first < 0 || first + count > len(self.VarArgChildren) {
        Violate("Graph.NewVarArgNode", "window [%d, %d) is out of the vararg buffer", first, first + count)
    }
    return self.newNode(op, origin, pred, info, Variable(first, count))
}

func (self *Graph) newNode(op Op, origin NodeOrigin, pred SpeculatedType, info OpInfo, children AdjacencyList) *Node {
    nb := &Node { id: self.nextID, Origin: origin, Prediction: pred }
    nb.morph(op, op.DefaultFlags(), children, info)
    self.nextID++
    return nb
}

// AppendVarArgs appends edges to the vararg buffer and returns their window.
func (self *Graph) AppendVarArgs(edges ...Edge) (int, int) {
    first := len(self.VarArgChildren)
    self.VarArgChildren = append(self.VarArgChildren, edges...)
    return first, len(edges)
}

// Child returns the i-th child of a node for in-place mutation, whichever
// way its children are stored.
func (self *Graph) Child(node *Node, i int) *Edge {
    if !node.Children.IsVariable() {
        return node.Children.Child(i)
    } else {
        return self.VarArgChild(node, i)
    }
}

func (self *Graph) VarArgChild(node *Node, i int) *Edge {
    if !node.Children.IsVariable() {
        Violate("Graph.VarArgChild", "@%d: %s does not have vararg children", node.id, node.op)
    }
    if i < 0 || i >= node.Children.NumChildren() {
        Violate("Graph.VarArgChild", "@%d: child %d out of range", node.id, i)
    }
    return &self.VarArgChildren[node.Children.FirstChild() + i]
}

// ForEachChild calls fn with every set child edge of node, in order.
func (self *Graph) ForEachChild(node *Node, fn func(e *Edge)) {
    for i := 0; i < node.NumChildren(); i++ {
        if e := self.Child(node, i); e.IsSet() {
            fn(e)
        }
    }
}

// Freeze returns the pooled constant for v.
func (self *Graph) Freeze(v rt.Value) *FrozenValue {
    if fv, ok := self.frozen[v]; ok {
        return fv
    }
    fv := &FrozenValue { value: v }
    self.frozen[v] = fv
    return fv
}

// FreezeStrong freezes v and keeps the cell alive for as long as the code.
func (self *Graph) FreezeStrong(v rt.Value) *FrozenValue {
    fv := self.Freeze(v)
    fv.strength = StrongValue
    return fv
}

func (self *Graph) FreezeCell(c rt.Cell) *FrozenValue {
    return self.Freeze(rt.CellValue(c))
}

func (self *Graph) AddLazyJSValue(v LazyJSValue) *LazyJSValue {
    p := new(LazyJSValue)
    *p = v
    self.LazyJSValues = append(self.LazyJSValues, p)
    return p
}

// ConvertToConstant folds node to v. Objects are frozen strongly.
func (self *Graph) ConvertToConstant(node *Node, v rt.Value) {
    if v.IsObject() {
        node.ConvertToConstant(self.FreezeStrong(v))
    } else {
        node.ConvertToConstant(self.Freeze(v))
    }
}

func (self *Graph) RegisterStructure(s *rt.Structure) {
    if !slices.Contains(self.structures, s) {
        self.structures = append(self.structures, s)
    }
}

func (self *Graph) AddStructureSet(s ...*rt.Structure) *RegisteredStructureSet {
    for _, v := range s {
        self.RegisterStructure(v)
    }
    set := &RegisteredStructureSet { Structures: s }
    self.structureSets = append(self.structureSets, set)
    return set
}

func (self *Graph) AddObjectMaterializationData() *ObjectMaterializationData {
    data := new(ObjectMaterializationData)
    self.materializations = append(self.materializations, data)
    return data
}

// ParameterSlotsForArgCount is the number of outgoing argument slots a call
// passing argc values (this included) needs, keeping the frame aligned.
func ParameterSlotsForArgCount(argc int) int {
    size := _CallFrameHeaderSize + argc
    size = (size + _StackAlignmentRegs - 1) &^ (_StackAlignmentRegs - 1)
    return size - _CallerFrameAndPCSize
}

// ArgumentCountForStackSize is the number of argument slots covering a
// stack area of the given size in bytes.
func ArgumentCountForStackSize(size int) int {
    return (size + _RegisterSize - 1) / _RegisterSize
}

// AlignStackSize rounds size up to the stack alignment.
func AlignStackSize(size int) int {
    return (size + _StackAlignmentBytes - 1) &^ (_StackAlignmentBytes - 1)
}

func (self *Graph) ReserveParameterSlots(argc int) {
    if n := ParameterSlotsForArgCount(argc); n > self.ParameterSlots {
        self.ParameterSlots = n
    }
}

// WillCatchExceptionInMachineFrame reports whether an exception thrown at
// origin is caught somewhere in the machine frame.
func (self *Graph) WillCatchExceptionInMachineFrame(origin CodeOrigin) bool {
    for fp := origin.Frame; fp != nil; fp = fp.Caller.Frame {
        if fp.HandlesExceptions {
            return true
        }
    }
    return self.HandlesExceptions
}

func (self *Graph) AddExitSite(origin CodeOrigin, kind ExitKind) {
    self.exitSites[exitSite { origin, kind }] = struct{}{}
}

func (self *Graph) HasExitSite(origin CodeOrigin, kind ExitKind) bool {
    _, ok := self.exitSites[exitSite { origin, kind }]
    return ok
}

func (self *Graph) GlobalObjectFor(origin CodeOrigin) *rt.GlobalObject {
    if origin.Frame != nil && origin.Frame.GlobalObject != nil {
        return origin.Frame.GlobalObject
    } else {
        return self.global
    }
}

// Dethread drops the threaded-CPS links so later phases rebuild them.
func (self *Graph) Dethread() {
    if self.Form == ThreadedCPS {
        self.Form = LoadStore
    }
}

// NumBlocks counts the live blocks.
func (self *Graph) NumBlocks() int {
    n := 0
    for _, bb := range self.Blocks {
        if bb != nil {
            n++
        }
    }
    return n
}
