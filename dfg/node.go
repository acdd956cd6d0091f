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
)

// OpInfo is the op-specific payload of a node. Which fields are meaningful
// depends on the op.
type OpInfo struct {
    Constant        *FrozenValue
    Constant2       *FrozenValue
    Lazy            *LazyJSValue
    ArithMode       ArithMode
    ArrayMode       ArrayMode
    Operand         Operand
    Radix           int32
    Structures      *RegisteredStructureSet
    Materialization *ObjectMaterializationData
    TypeInfo        TypeInfoFlags
    Flag            bool
}

// Node is an operation in the graph. Nodes are created by the graph, which
// numbers them in creation order.
type Node struct {
    id         uint32
    op         Op
    flags      NodeFlags
    info       OpInfo
    Origin     NodeOrigin
    Prediction SpeculatedType
    Children   AdjacencyList
}

// morph replaces everything that defines what the node computes. Every
// conversion goes through here.
func (self *Node) morph(op Op, flags NodeFlags, children AdjacencyList, info OpInfo) {
    if op.HasVarArgs() != children.varargs && !children.IsEmpty() {
        Violate("Node.morph", "@%d: %s cannot take the children of %s", self.id, op, self.op)
    }

    /* the vararg bit follows the children */
    if flags &^= NodeHasVarArgs; children.varargs {
        flags |= NodeHasVarArgs
    }

    /* replace everything at once */
    self.op = op
    self.info = info
    self.flags = flags
    self.Children = children
}

func (self *Node) ID() uint32              { return self.id }
func (self *Node) Op() Op                  { return self.op }
func (self *Node) Flags() NodeFlags        { return self.flags }
func (self *Node) Info() OpInfo            { return self.info }
func (self *Node) Result() NodeFlags       { return self.flags & NodeResultMask }
func (self *Node) HasResult() bool         { return self.Result() != 0 }
func (self *Node) HasDoubleResult() bool   { return self.Result() == NodeResultDouble }
func (self *Node) HasInt52Result() bool    { return self.Result() == NodeResultInt52 }
func (self *Node) MustGenerate() bool      { return self.flags & NodeMustGenerate != 0 }
func (self *Node) ClearFlags(f NodeFlags)  { self.flags &^= f }
func (self *Node) MergeFlags(f NodeFlags)  { self.flags |= f }
func (self *Node) ArithNodeFlags() NodeFlags { return self.flags & NodeArithFlagsMask }

func (self *Node) SetResult(result NodeFlags) {
    self.flags = self.flags &^ NodeResultMask | result & NodeResultMask
}

func (self *Node) ArithMode() ArithMode              { return self.info.ArithMode }
func (self *Node) SetArithMode(m ArithMode)          { self.info.ArithMode = m }
func (self *Node) ArrayMode() ArrayMode              { return self.info.ArrayMode }
func (self *Node) Operand() Operand                  { return self.info.Operand }
func (self *Node) ValidRadixConstant() int           { return int(self.info.Radix) }
func (self *Node) TypeInfoOperand() TypeInfoFlags    { return self.info.TypeInfo }
func (self *Node) LazyValue() *LazyJSValue           { return self.info.Lazy }
func (self *Node) Structures() *RegisteredStructureSet { return self.info.Structures }
func (self *Node) Materialization() *ObjectMaterializationData { return self.info.Materialization }

// CellOperand is the cell carried in the payload of nodes such as NewRegExp,
// NewFunction and the direct call family.
func (self *Node) CellOperand() rt.Cell {
    if self.info.Constant == nil {
        Violate("Node.CellOperand", "@%d: %s has no cell operand", self.id, self.op)
    }
    return self.info.Constant.Value().AsCell()
}

// CellOperand2 is the second cell of the payload, when the op has one.
func (self *Node) CellOperand2() rt.Cell {
    if self.info.Constant2 == nil {
        Violate("Node.CellOperand2", "@%d: %s has no second cell operand", self.id, self.op)
    }
    return self.info.Constant2.Value().AsCell()
}

func (self *Node) Child1() *Edge { return self.Children.Child(0) }
func (self *Node) Child2() *Edge { return self.Children.Child(1) }
func (self *Node) Child3() *Edge { return self.Children.Child(2) }

func (self *Node) NumChildren() int {
    return self.Children.NumChildren()
}

func (self *Node) IsBinaryUseKind(kind UseKind) bool {
    return self.Child1().UseKind() == kind && self.Child2().UseKind() == kind
}

// BinaryUseKind is the use kind shared by both operands, or UntypedUse when
// they disagree.
func (self *Node) BinaryUseKind() UseKind {
    if k := self.Child1().UseKind(); k == self.Child2().UseKind() {
        return k
    } else {
        return UntypedUse
    }
}

// DefaultEdge is an edge reading this node in its own representation.
func (self *Node) DefaultEdge() Edge {
    return NewEdge(self, UseKindForResult(self.Result()))
}

func (self *Node) IsConstant() bool {
    return self.op.IsConstant()
}

func (self *Node) HasConstant() bool {
    return self.op.IsConstant()
}

func (self *Node) Constant() *FrozenValue {
    if !self.op.IsConstant() {
        Violate("Node.Constant", "@%d: %s is not a constant", self.id, self.op)
    }
    return self.info.Constant
}

// AsJSValue is the value of a constant node, or the empty value.
func (self *Node) AsJSValue() rt.Value {
    if self.op.IsConstant() {
        return self.info.Constant.Value()
    } else {
        return rt.Empty
    }
}

func (self *Node) IsInt32Constant() bool  { return self.AsJSValue().IsInt32() }
func (self *Node) IsNumberConstant() bool { return self.AsJSValue().IsNumber() }
func (self *Node) IsCellConstant() bool   { return self.AsJSValue().IsCell() }
func (self *Node) AsInt32() int32         { return self.AsJSValue().AsInt32() }
func (self *Node) AsUInt32() uint32       { return uint32(self.AsJSValue().AsInt32()) }
func (self *Node) AsNumber() float64      { return self.AsJSValue().AsNumber() }
func (self *Node) AsCell() rt.Cell        { return self.AsJSValue().AsCell() }

// DynamicCastConstant returns the constant cell of n when it is a T.
func DynamicCastConstant[T rt.Cell](n *Node) (T, bool) {
    var nb T
    if !n.IsCellConstant() {
        return nb, false
    }
    v, ok := n.AsCell().(T)
    return v, ok
}

// TryGetString returns the string a node is statically known to produce.
func (self *Node) TryGetString() (string, bool) {
    switch self.op {
        case JSConstant     : return self.info.Constant.Value().AsString()
        case LazyJSConstant : return self.info.Lazy.TryGetString()
        default             : return "", false
    }
}

func (self *Node) IsFunctionAllocation() bool {
    return self.op == NewFunction
}

func (self *Node) ShouldSpeculateInt32() bool      { return IsInt32Speculation(self.Prediction) }
func (self *Node) ShouldSpeculateBoolean() bool    { return IsBooleanSpeculation(self.Prediction) }
func (self *Node) ShouldSpeculateNumber() bool     { return IsFullNumberSpeculation(self.Prediction) }
func (self *Node) ShouldSpeculateDoubleReal() bool { return IsDoubleRealSpeculation(self.Prediction) }
func (self *Node) ShouldSpeculateHeapBigInt() bool { return IsHeapBigIntSpeculation(self.Prediction) }

func ShouldSpeculateInt32(a *Node, b *Node) bool {
    return a.ShouldSpeculateInt32() && b.ShouldSpeculateInt32()
}

func ShouldSpeculateBoolean(a *Node, b *Node) bool {
    return a.ShouldSpeculateBoolean() && b.ShouldSpeculateBoolean()
}

func (self *Node) SetOp(op Op) {
    self.morph(op, self.flags, self.Children, self.info)
}

func (self *Node) SetOpAndDefaultFlags(op Op) {
    self.morph(op, op.DefaultFlags(), self.Children, self.info)
}

// ConvertToIdentity turns a node with a single child into a pass-through
// of that child.
func (self *Node) ConvertToIdentity() {
    if !self.Child1().IsSet() || self.Child2().IsSet() {
        Violate("Node.ConvertToIdentity", "@%d: %s needs exactly one child", self.id, self.op)
    }
    res := CanonicalResultRepresentation(self.flags)
    self.morph(Identity, Identity.DefaultFlags() &^ NodeResultMask | res, self.Children, OpInfo{})
}

// ConvertToIdentityOn turns the node into a pass-through of child, adding a
// representation conversion when the two disagree.
func (self *Node) ConvertToIdentityOn(child *Node) {
    edge := child.DefaultEdge()
    want := CanonicalResultRepresentation(self.flags)
    have := CanonicalResultRepresentation(child.flags)

    /* same representation, a plain identity */
    if want == have {
        self.morph(Identity, Identity.DefaultFlags() &^ NodeResultMask | want, Fixed(edge), OpInfo{})
        return
    }

    /* pick the conversion */
    switch want {
        case NodeResultDouble: {
            switch have {
                case NodeResultInt52 : edge.SetUseKind(Int52RepUse)
                case NodeResultJS    : edge.SetUseKind(NumberUse)
                default              : Violate("Node.ConvertToIdentityOn", "@%d: cannot convert %s to Double", self.id, have)
            }
            self.morph(DoubleRep, DoubleRep.DefaultFlags(), Fixed(edge), OpInfo{})
        }
        case NodeResultInt52: {
            switch have {
                case NodeResultDouble : edge.SetUseKind(DoubleRepAnyIntUse)
                case NodeResultJS     : edge.SetUseKind(AnyIntUse)
                default               : Violate("Node.ConvertToIdentityOn", "@%d: cannot convert %s to Int52", self.id, have)
            }
            self.morph(Int52Rep, Int52Rep.DefaultFlags(), Fixed(edge), OpInfo{})
        }
        case NodeResultJS: {
            switch have {
                case NodeResultDouble : edge.SetUseKind(DoubleRepUse)
                case NodeResultInt52  : edge.SetUseKind(Int52RepUse)
                default               : Violate("Node.ConvertToIdentityOn", "@%d: cannot convert %s to JS", self.id, have)
            }
            self.morph(ValueRep, ValueRep.DefaultFlags(), Fixed(edge), OpInfo{})
        }
        default: {
            Violate("Node.ConvertToIdentityOn", "@%d: unexpected result %s", self.id, want)
        }
    }
}

// ConvertToConstant keeps the result kind of the node, which selects the
// constant op.
func (self *Node) ConvertToConstant(value *FrozenValue) {
    op := JSConstant
    switch self.Result() {
        case NodeResultDouble : op = DoubleConstant
        case NodeResultInt52  : op = Int52Constant
    }
    self.morph(op, self.flags &^ NodeMustGenerate, AdjacencyList{}, OpInfo { Constant: value })
}

func (self *Node) ConvertToLazyJSConstant(g *Graph, value LazyJSValue) {
    self.morph(LazyJSConstant, self.flags &^ NodeMustGenerate, AdjacencyList{}, OpInfo { Lazy: g.AddLazyJSValue(value) })
}

var directCallOps = map[Op]Op {
    Call                  : DirectCall,
    Construct             : DirectConstruct,
    TailCall              : DirectTailCall,
    TailCallInlinedCaller : DirectTailCallInlinedCaller,
}

func (self *Node) ConvertToDirectCall(executable *FrozenValue) {
    if op, ok := directCallOps[self.op]; !ok {
        Violate("Node.ConvertToDirectCall", "@%d: %s is not a call", self.id, self.op)
    } else {
        self.morph(op, self.flags, self.Children, OpInfo { Constant: executable })
    }
}

func (self *Node) ConvertToCallWasm(function *FrozenValue) {
    if self.op != Call {
        Violate("Node.ConvertToCallWasm", "@%d: %s is not a Call", self.id, self.op)
    }
    self.morph(CallWasm, self.flags, self.Children, OpInfo { Constant: function })
}

func (self *Node) ConvertToNewRegExp(regExp *FrozenValue, lastIndex Edge) {
    if self.op != NewRegExpUntyped {
        Violate("Node.ConvertToNewRegExp", "@%d: %s is not NewRegExpUntyped", self.id, self.op)
    }
    self.morph(NewRegExp, NewRegExp.DefaultFlags(), Fixed(lastIndex), OpInfo { Constant: regExp })
}

func (self *Node) ConvertToRegExpMatchFastGlobalWithoutChecks(regExp *FrozenValue) {
    if self.op != RegExpMatchFast {
        Violate("Node.ConvertToRegExpMatchFastGlobalWithoutChecks", "@%d: %s is not RegExpMatchFast", self.id, self.op)
    }
    self.morph(RegExpMatchFastGlobal, RegExpMatchFastGlobal.DefaultFlags(), Fixed(
        NewEdge(self.Child1().Node(), KnownCellUse),
        NewEdge(self.Child3().Node(), KnownStringUse),
    ), OpInfo { Constant: regExp })
}

func (self *Node) ConvertToRegExpExecNonGlobalOrStickyWithoutChecks(regExp *FrozenValue) {
    if self.op != RegExpExec {
        Violate("Node.ConvertToRegExpExecNonGlobalOrStickyWithoutChecks", "@%d: %s is not RegExpExec", self.id, self.op)
    }
    self.morph(RegExpExecNonGlobalOrSticky, RegExpExecNonGlobalOrSticky.DefaultFlags(), Fixed(
        NewEdge(self.Child1().Node(), KnownCellUse),
        NewEdge(self.Child3().Node(), KnownStringUse),
    ), OpInfo { Constant: regExp })
}

func (self *Node) ConvertToRegExpTestInline(globalObject *FrozenValue, regExp *FrozenValue) {
    if self.op != RegExpTest {
        Violate("Node.ConvertToRegExpTestInline", "@%d: %s is not RegExpTest", self.id, self.op)
    }
    self.morph(RegExpTestInline, RegExpTestInline.DefaultFlags(), self.Children, OpInfo {
        Constant  : globalObject,
        Constant2 : regExp,
    })
}

func (self *Node) ConvertFlushToPhantomLocal() {
    if self.op != Flush {
        Violate("Node.ConvertFlushToPhantomLocal", "@%d: %s is not Flush", self.id, self.op)
    }
    self.morph(PhantomLocal, PhantomLocal.DefaultFlags(), AdjacencyList{}, OpInfo { Operand: self.info.Operand })
}
