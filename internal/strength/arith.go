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

package strength

import (
    `math`

    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/internal/jsnum`
    `github.com/cloudwego/dfgopt/rt`
)

func foldPurifyNaN(e *dfg.Edge) bool {
    if e.Node().Op() != dfg.PurifyNaN {
        return false
    } else {
        *e = *e.Node().Child1()
        return true
    }
}

func foldPurifyNaNOnBinary(node *dfg.Node) bool {
    ret := false
    if node.IsBinaryUseKind(dfg.DoubleRepUse) {
        ret = foldPurifyNaN(node.Child1()) || ret
        ret = foldPurifyNaN(node.Child2()) || ret
    }
    return ret
}

func foldPurifyNaNOnUnary(node *dfg.Node) bool {
    if node.Child1().UseKind() != dfg.DoubleRepUse {
        return false
    } else {
        return foldPurifyNaN(node.Child1())
    }
}

func isInt32Zero(node *dfg.Node) bool {
    return node.IsInt32Constant() && node.AsInt32() == 0
}

func isBigIntUseKind(kind dfg.UseKind) bool {
    switch kind {
        case dfg.AnyBigIntUse  : return true
        case dfg.BigInt32Use   : return true
        case dfg.HeapBigIntUse : return true
        default                : return false
    }
}

// handleCommutativity puts the operands of a commutative node in canonical
// order: a non-cell constant goes to the right, otherwise the older node goes
// to the left. Untyped operands are never swapped since their conversions may
// be observable.
func (self *Phase) handleCommutativity() {
    c1 := self.node.Child1()
    c2 := self.node.Child2()

    /* swapping may reorder valueOf calls */
    if c1.UseKind() == dfg.UntypedUse || c2.UseKind() == dfg.UntypedUse {
        return
    }

    /* already in `x op const` form */
    if c2.Node().HasConstant() {
        return
    }

    /* constants go to the right */
    if c1.Node().HasConstant() && !c1.Node().AsJSValue().IsCell() {
        *c1, *c2 = *c2, *c1
        self.changed = true
        return
    }

    /* a total order over the operands */
    if c1.Node().ID() > c2.Node().ID() {
        *c1, *c2 = *c2, *c1
        self.changed = true
    }
}

func (self *Phase) handleBigIntCommutativity() {
    if isBigIntUseKind(self.node.BinaryUseKind()) {
        self.handleCommutativity()
    }
}

func (self *Phase) handlePurifyNaNOnUnary() {
    if foldPurifyNaNOnUnary(self.node) {
        self.changed = true
    }
}

func (self *Phase) handleBitOr() {
    self.handleCommutativity()

    /* x | 0 */
    if self.node.Child1().UseKind() != dfg.UntypedUse && isInt32Zero(self.node.Child2().Node()) {
        self.convertToIdentityOverChild1()
    }
}

func (self *Phase) handleShift() {
    c1 := self.node.Child1()
    c2 := self.node.Child2().Node()

    /* shift counts are taken modulo 32 */
    if c1.UseKind() != dfg.UntypedUse && c2.IsInt32Constant() && c2.AsInt32() & 0x1f == 0 {
        self.convertToIdentityOverChild1()
    }
}

func (self *Phase) handleUInt32ToNumber() {
    c1 := self.node.Child1().Node()

    /* a non-zero unsigned shift always fits in an int32 */
    if c1.Op() == dfg.ArithBitURShift {
        if c2 := c1.Child2().Node(); c2.IsInt32Constant() && c2.AsInt32() & 0x1f != 0 && self.node.ArithMode() != dfg.ArithDoOverflow {
            self.node.ConvertToIdentity()
            self.changed = true
            return
        }
    }

    /* the users truncate the result anyway */
    if dfg.BytecodeCanTruncateInteger(self.node.ArithNodeFlags()) {
        self.node.ConvertToIdentity()
        self.changed = true
    }
}

func (self *Phase) handleArithAdd() {
    self.handleCommutativity()
    if foldPurifyNaNOnBinary(self.node) {
        self.changed = true
    }

    /* x + 0 */
    if isInt32Zero(self.node.Child2().Node()) {
        self.convertToIdentityOverChild1()
    }
}

func (self *Phase) handleArithMul() {
    self.handleCommutativity()
    if foldPurifyNaNOnBinary(self.node) {
        self.changed = true
    }

    /* only `x * 2` is interesting */
    c2 := self.node.Child2()
    if !c2.Node().IsNumberConstant() || c2.Node().AsNumber() != 2 {
        return
    }

    /* rewrite to `x + x` when the modes agree */
    switch self.node.BinaryUseKind() {
        case dfg.DoubleRepUse: {
            self.node.SetOp(dfg.ArithAdd)
            c2.SetNode(self.node.Child1().Node())
            self.changed = true
        }
        case dfg.Int52RepUse, dfg.Int32Use: {
            if m := self.node.ArithMode(); m == dfg.ArithCheckOverflow || m == dfg.ArithUnchecked {
                self.node.SetOp(dfg.ArithAdd)
                c2.SetNode(self.node.Child1().Node())
                self.changed = true
            }
        }
    }
}

func (self *Phase) handleArithSub() {
    if foldPurifyNaNOnBinary(self.node) {
        self.changed = true
    }

    /* x - k => x + (-k), and x - 0 is x */
    if c2 := self.node.Child2(); c2.Node().IsInt32Constant() && self.node.IsBinaryUseKind(dfg.Int32Use) {
        if k := c2.Node().AsInt32(); k == 0 {
            self.convertToIdentityOverChild1()
        } else if k != math.MinInt32 {
            self.node.SetOp(dfg.ArithAdd)
            c2.SetNode(self.ins.InsertConstant(self.nodeIndex, self.node.Origin, rt.Int32(-k)))
            self.changed = true
        }
    }
}

func (self *Phase) handleArithPow() {
    if self.node.Child1().UseKind() == dfg.DoubleRepUse && foldPurifyNaN(self.node.Child1()) {
        self.changed = true
    }

    /* only constant exponents */
    c2 := self.node.Child2().Node()
    if !c2.IsNumberConstant() {
        return
    }

    /* pow(x, 1) and pow(x, 2) */
    switch c2.AsNumber() {
        case 1: {
            self.convertToIdentityOverChild1()
        }
        case 2: {
            self.node.SetOp(dfg.ArithMul)
            *self.node.Child2() = *self.node.Child1()
            self.changed = true
        }
    }
}

func (self *Phase) handleArithMod() {
    if foldPurifyNaNOnBinary(self.node) {
        self.changed = true
    }

    /* mod(mod(x, c1), c2) */
    c1 := self.node.Child1().Node()
    c2 := self.node.Child2().Node()
    if self.node.BinaryUseKind() != dfg.Int32Use || !c2.IsInt32Constant() {
        return
    }
    if c1.Op() != dfg.ArithMod || c1.BinaryUseKind() != dfg.Int32Use || !c1.Child2().Node().IsInt32Constant() {
        return
    }

    /* the absolute value of MinInt32 is not an int32 */
    k1 := c1.Child2().Node().AsInt32()
    k2 := c2.AsInt32()
    if k1 == math.MinInt32 || k2 == math.MinInt32 {
        return
    }

    /* the inner result is already in range */
    if jsnum.Abs(k1) <= jsnum.Abs(k2) {
        self.convertToIdentityOverChild1()
    }
}

func (self *Phase) handleArithDiv() {
    if foldPurifyNaNOnBinary(self.node) {
        self.changed = true
    }

    /* x / c => x * (1 / c) */
    if c2 := self.node.Child2().Node(); self.node.IsBinaryUseKind(dfg.DoubleRepUse) && c2.IsNumberConstant() {
        if rcp, ok := jsnum.SafeReciprocalForDivByConst(c2.AsNumber()); ok {
            nb := self.ins.InsertFrozenConstant(self.nodeIndex, self.node.Origin, self.g.Freeze(rt.Double(rcp)), dfg.DoubleConstant)
            self.node.SetOp(dfg.ArithMul)
            *self.node.Child2() = dfg.NewEdge(nb, dfg.DoubleRepUse)
            self.changed = true
        }
    }
}

// handleRepresentation short-circuits conversion chains such as
// ValueRep(Int52Rep(x)) when x already has the wanted representation.
func (self *Phase) handleRepresentation() {
    if self.node.Op() == dfg.ValueRep && foldPurifyNaNOnUnary(self.node) {
        self.changed = true
    }

    /* the Int32 check of an Int52Rep must be kept */
    hadInt32Check := false
    if self.node.Op() == dfg.Int52Rep {
        if self.node.Child1().UseKind() != dfg.Int32Use {
            return
        }
        hadInt32Check = true
    }

    /* walk down the conversion chain */
    want := dfg.CanonicalResultRepresentation(self.node.Flags())
    for node := self.node.Child1().Node(); ; node = node.Child1().Node() {
        if dfg.CanonicalResultRepresentation(node.Flags()) == want {
            if hadInt32Check && dfg.CanonicalResultRepresentation(node.Flags()) != dfg.NodeResultJS {
                return
            }

            /* keep every check of the chain */
            self.insertCheck(self.node)
            if hadInt32Check {
                self.ins.InsertCheck(self.nodeIndex, self.node.Origin, dfg.NewEdge(node, dfg.Int32Use))
            }

            /* read the source directly */
            *self.node.Child1() = node.DefaultEdge()
            self.node.ConvertToIdentity()
            self.changed = true
            return
        }

        /* only conversions are looked through */
        switch node.Op() {
            case dfg.ValueRep: {
                continue
            }
            case dfg.Int52Rep: {
                if node.Child1().UseKind() != dfg.Int32Use {
                    return
                }
                hadInt32Check = true
            }
            default: {
                return
            }
        }
    }
}

func (self *Phase) handleCompare() {
    c1 := self.node.Child1()
    c2 := self.node.Child2()

    /* narrow untyped comparisons using the predictions */
    if c1.UseKind() == dfg.UntypedUse && c2.UseKind() == dfg.UntypedUse {
        switch op := self.node.Op(); {
            case (op == dfg.CompareEq || op == dfg.CompareStrictEq || op == dfg.SameValue) && dfg.ShouldSpeculateBoolean(c1.Node(), c2.Node()): {
                self.narrowCompare(dfg.BooleanUse)
                return
            }
            case dfg.ShouldSpeculateInt32(c1.Node(), c2.Node()): {
                self.narrowCompare(dfg.Int32Use)
                return
            }
        }
    }

    /* comparisons treat every NaN alike */
    if foldPurifyNaNOnBinary(self.node) {
        self.changed = true
    }
}

func (self *Phase) narrowCompare(kind dfg.UseKind) {
    self.node.Child1().SetUseKind(kind)
    self.node.Child2().SetUseKind(kind)

    /* SameValue and === agree on booleans and int32s */
    if self.node.Op() == dfg.SameValue {
        self.node.SetOpAndDefaultFlags(dfg.CompareStrictEq)
    }

    /* no more conversions to run */
    self.node.ClearFlags(dfg.NodeMustGenerate)
    self.changed = true
}

func isInt32OrKnownInt32Use(kind dfg.UseKind) bool {
    return kind == dfg.Int32Use || kind == dfg.KnownInt32Use
}

// handleCheckInBounds folds `(x >> s) < length` into `x < (length << s)`.
func (self *Phase) handleCheckInBounds() {
    idx := self.node.Child1()
    lim := self.node.Child2()

    /* both sides must be int32 */
    if !isInt32OrKnownInt32Use(idx.UseKind()) || !isInt32OrKnownInt32Use(lim.UseKind()) {
        return
    }

    /* the length must be a non-negative constant */
    if !lim.Node().IsInt32Constant() || lim.Node().AsInt32() < 0 {
        return
    }

    /* the index must be an arithmetic right shift by a constant */
    shr := idx.Node()
    if shr.Op() != dfg.ArithBitRShift || !shr.IsBinaryUseKind(dfg.Int32Use) || !shr.Child2().Node().IsInt32Constant() {
        return
    }

    /* the shifted bound must fit */
    amt := shr.Child2().Node().AsInt32()
    if amt < 0 || amt > 31 {
        return
    }
    bound := int64(lim.Node().AsInt32()) << amt
    if bound > math.MaxInt32 {
        return
    }

    /* check the unshifted value */
    *idx = dfg.NewEdge(shr.Child1().Node(), dfg.Int32Use)
    *lim = dfg.NewEdge(self.ins.InsertConstant(self.nodeIndex, self.node.Origin, rt.Int32(int32(bound))), dfg.KnownInt32Use)
    self.changed = true
}
