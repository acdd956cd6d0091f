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
    `github.com/cloudwego/dfgopt/rt`
    `golang.org/x/exp/slices`
)

type Insertion struct {
    Index int
    Node  *Node
}

// InsertionSet buffers nodes to be spliced into a block. A node inserted at
// index i ends up before the node currently at i, after every node inserted
// at i earlier.
type InsertionSet struct {
    g   *Graph
    ins []Insertion
}

func NewInsertionSet(g *Graph) *InsertionSet {
    return &InsertionSet { g: g }
}

func (self *InsertionSet) Len() int {
    return len(self.ins)
}

func (self *InsertionSet) Insert(index int, node *Node) *Node {
    self.ins = append(self.ins, Insertion { index, node })
    return node
}

func (self *InsertionSet) InsertNode(index int, pred SpeculatedType, op Op, origin NodeOrigin, info OpInfo, children ...Edge) *Node {
    return self.Insert(index, self.g.NewNode(op, origin, pred, info, children...))
}

func (self *InsertionSet) InsertVarArgNode(index int, pred SpeculatedType, op Op, origin NodeOrigin, info OpInfo, first int, count int) *Node {
    return self.Insert(index, self.g.NewVarArgNode(op, origin, pred, info, first, count))
}

// InsertFrozenConstant inserts a constant node of the given constant op.
func (self *InsertionSet) InsertFrozenConstant(index int, origin NodeOrigin, value *FrozenValue, op Op) *Node {
    if !op.IsConstant() {
        Violate("InsertionSet.InsertFrozenConstant", "%s is not a constant op", op)
    }
    return self.InsertNode(index, SpeculationFromValue(value.Value()), op, origin, OpInfo { Constant: value })
}

func (self *InsertionSet) InsertConstant(index int, origin NodeOrigin, value rt.Value) *Node {
    return self.InsertFrozenConstant(index, origin, self.g.Freeze(value), JSConstant)
}

func (self *InsertionSet) InsertCellConstant(index int, origin NodeOrigin, cell rt.Cell) *Node {
    return self.InsertConstant(index, origin, rt.CellValue(cell))
}

// InsertFrozenConstantForUse inserts a constant in the representation the
// use kind expects and returns the edge reading it.
func (self *InsertionSet) InsertFrozenConstantForUse(index int, origin NodeOrigin, value *FrozenValue, kind UseKind) Edge {
    op := JSConstant
    switch kind {
        case DoubleRepUse, DoubleRepRealUse, DoubleRepAnyIntUse : op = DoubleConstant
        case Int52RepUse                                        : op = Int52Constant
    }
    return NewEdge(self.InsertFrozenConstant(index, origin, value, op), kind)
}

func (self *InsertionSet) InsertConstantForUse(index int, origin NodeOrigin, value rt.Value, kind UseKind) Edge {
    return self.InsertFrozenConstantForUse(index, origin, self.g.Freeze(value), kind)
}

func (self *InsertionSet) InsertLazyConstant(index int, origin NodeOrigin, value LazyJSValue) *Node {
    return self.InsertNode(index, SpecString, LazyJSConstant, origin, OpInfo { Lazy: self.g.AddLazyJSValue(value) })
}

// InsertCheck inserts a Check over the edges that actually check. Nothing is
// inserted when none do.
func (self *InsertionSet) InsertCheck(index int, origin NodeOrigin, edges ...Edge) *Node {
    list := Fixed(edges...)
    return self.InsertCheckChildren(index, origin, list)
}

func (self *InsertionSet) InsertCheckChildren(index int, origin NodeOrigin, children AdjacencyList) *Node {
    if children = children.JustChecks(); children.IsEmpty() {
        return nil
    } else {
        return self.Insert(index, self.g.newNode(Check, origin, SpecNone, OpInfo{}, children))
    }
}

// InsertCheckFor reproduces every check node performs on its children.
func (self *InsertionSet) InsertCheckFor(index int, node *Node) {
    if !node.Children.IsVariable() {
        self.InsertCheckChildren(index, node.Origin, node.Children)
        return
    }

    /* gather the checking edges of the vararg window */
    var edges []Edge
    self.g.ForEachChild(node, func(e *Edge) {
        if e.WillHaveCheck() {
            edges = append(edges, *e)
        }
    })

    /* a Check holds at most three edges */
    for len(edges) != 0 {
        n := len(edges)
        if n > 3 {
            n = 3
        }
        self.InsertCheck(index, node.Origin, edges[:n]...)
        edges = edges[n:]
    }
}

// Execute splices every buffered node into bb and returns how many were
// inserted.
func (self *InsertionSet) Execute(bb *BasicBlock) int {
    n := len(self.ins)
    if n == 0 {
        return 0
    }

    /* stable, so insertions at the same index keep their order */
    slices.SortStableFunc(self.ins, func(a Insertion, b Insertion) bool {
        return a.Index < b.Index
    })

    /* splice from the back so earlier indices stay valid */
    for i := n - 1; i >= 0; {
        j := i
        for j > 0 && self.ins[j - 1].Index == self.ins[i].Index {
            j--
        }
        if idx := self.ins[i].Index; idx < 0 || idx > bb.Size() {
            Violate("InsertionSet.Execute", "insertion index %d out of block of size %d", idx, bb.Size())
        }
        nodes := make([]*Node, 0, i - j + 1)
        for _, v := range self.ins[j:i + 1] {
            nodes = append(nodes, v.Node)
        }
        bb.nodes = slices.Insert(bb.nodes, self.ins[i].Index, nodes...)
        i = j - 1
    }

    /* reset for reuse */
    self.ins = self.ins[:0]
    return n
}
