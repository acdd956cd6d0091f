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
    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/internal/jsnum`
    `github.com/cloudwego/dfgopt/internal/jsstr`
    `github.com/cloudwego/dfgopt/rt`
    `go.uber.org/zap`
)

// primitiveString converts a constant the way `+` does when the other side
// is a string. Empty strings are not folded.
func primitiveString(node *dfg.Node) (string, bool) {
    if s, ok := node.TryGetString(); ok && s != "" {
        return s, true
    }

    /* convert the primitive */
    switch v := node.AsJSValue(); {
        case v.IsInt32()     : return jsnum.FormatInt32(v.AsInt32()), true
        case v.IsNumber()    : return jsnum.Format(v.AsNumber()), true
        case v.IsNull()      : return "null", true
        case v.IsUndefined() : return "undefined", true
        case v.IsBoolean()   : if v.AsBoolean() { return "true", true } else { return "false", true }
        default              : return "", false
    }
}

func (self *Phase) handleValueAdd() {
    c1 := self.node.Child1().Node()
    c2 := self.node.Child2().Node()

    /* fold constant concatenations */
    if c1.IsConstant() && c2.IsConstant() {
        _, ok1 := c1.TryGetString()
        _, ok2 := c2.TryGetString()
        if ok1 || ok2 {
            self.foldValueAdd(c1, c2)
            return
        }
    }

    /* BigInt arithmetic commutes */
    self.handleBigIntCommutativity()
}

func (self *Phase) foldValueAdd(c1 *dfg.Node, c2 *dfg.Node) {
    lhs, ok := primitiveString(c1)
    if !ok {
        return
    }
    rhs, ok := primitiveString(c2)
    if !ok {
        return
    }

    /* concatenate */
    if ret, ok := jsstr.Concat(self.o.MaxStringLength, lhs, rhs); !ok {
        self.giveUp("string too long")
    } else {
        self.convertToLazyJSValue(self.node, dfg.LazyNewString(ret))
        self.changed = true
    }
}

// handleStringConcat folds the known prefix of MakeRope, MakeAtomString and
// StrCat. When only the last two operands are known they are merged into one
// constant operand.
func (self *Phase) handleStringConcat() {
    c1 := self.node.Child1()
    c2 := self.node.Child2()
    c3 := self.node.Child3()

    /* the first operand is dynamic */
    s0, ok := c1.Node().TryGetString()
    if !ok {
        self.foldConcatTail()
        return
    }

    /* a single known operand */
    if !c2.IsSet() {
        self.convertToLazyJSValue(self.node, dfg.LazyNewString(s0))
        self.changed = true
        return
    }

    /* the second operand must be known too */
    s1, ok := c2.Node().TryGetString()
    if !ok {
        return
    }

    /* concatenate the known prefix */
    pfx, ok := jsstr.Concat(self.o.MaxStringLength, s0, s1)
    if !ok {
        self.giveUp("string too long")
        return
    }

    /* two operands, fully known */
    if !c3.IsSet() {
        self.convertToLazyJSValue(self.node, dfg.LazyNewString(pfx))
        self.changed = true
        return
    }

    /* the third one is dynamic, merge the first two */
    s2, ok := c3.Node().TryGetString()
    if !ok {
        c1.SetNode(self.ins.InsertLazyConstant(self.nodeIndex, self.node.Origin, dfg.LazyNewString(pfx)))
        *c2 = *c3
        *c3 = dfg.Edge{}
        self.changed = true
        return
    }

    /* everything is known */
    if ret, ok := jsstr.Concat(self.o.MaxStringLength, pfx, s2); !ok {
        self.giveUp("string too long")
    } else {
        self.convertToLazyJSValue(self.node, dfg.LazyNewString(ret))
        self.changed = true
    }
}

func (self *Phase) foldConcatTail() {
    c2 := self.node.Child2()
    c3 := self.node.Child3()

    /* both trailing operands must be known */
    if !c2.IsSet() || !c3.IsSet() {
        return
    }
    s1, ok := c2.Node().TryGetString()
    if !ok {
        return
    }
    s2, ok := c3.Node().TryGetString()
    if !ok {
        return
    }

    /* merge them into one operand */
    if ret, ok := jsstr.Concat(self.o.MaxStringLength, s1, s2); !ok {
        self.giveUp("string too long")
    } else {
        c2.SetNode(self.ins.InsertLazyConstant(self.nodeIndex, self.node.Origin, dfg.LazyNewString(ret)))
        *c3 = dfg.Edge{}
        self.changed = true
    }
}

func (self *Phase) handleToString() {
    c1 := self.node.Child1()
    switch c1.UseKind() {
        case dfg.Int32Use, dfg.Int52RepUse, dfg.DoubleRepUse: {
            if !c1.Node().HasConstant() {
                return
            }
            switch v := c1.Node().AsJSValue(); {
                case v.IsInt32(): {
                    self.convertToLazyJSValue(self.node, dfg.LazyNewString(jsnum.FormatInt32(v.AsInt32())))
                    self.changed = true
                }
                case v.IsNumber(): {
                    self.convertToLazyJSValue(self.node, dfg.LazyNewString(jsnum.Format(v.AsNumber())))
                    self.changed = true
                }
            }
        }
        case dfg.StringOrOtherUse: {
            if !c1.Node().HasConstant() {
                return
            }
            switch v := c1.Node().AsJSValue(); {
                case v.IsUndefined() : self.convertToConstant(rt.CellValue(self.g.VM().SmallStrings.Undefined))
                case v.IsNull()      : self.convertToConstant(rt.CellValue(self.g.VM().SmallStrings.Null))
                case v.IsString()    : self.convertToConstant(v)
            }
        }
        case dfg.StringObjectUse, dfg.StringOrStringObjectUse: {
            if inner := c1.Node(); inner.Op() == dfg.NewStringObject && inner.Child1().UseKind() == dfg.KnownStringUse {
                self.node.ConvertToIdentityOn(inner.Child1().Node())
                self.changed = true
            }
        }
    }
}

func (self *Phase) handleNumberToStringWithRadix() {
    c1 := self.node.Child1().Node()
    if !c1.HasConstant() || !c1.IsNumberConstant() {
        return
    }

    /* format in the requested radix */
    ret := jsnum.FormatRadix(c1.AsNumber(), self.node.ValidRadixConstant())
    self.convertToLazyJSValue(self.node, dfg.LazyNewString(ret))
    self.changed = true
}

func (self *Phase) handleGetArrayLength() {
    if t := self.node.ArrayMode().Type; t != dfg.ArrayGeneric && t != dfg.ArrayString {
        return
    }

    /* the length of a known string */
    if s, ok := self.node.Child1().Node().TryGetString(); ok {
        self.convertToConstant(rt.Int32(int32(jsstr.Length(s))))
    }
}

func (self *Phase) handleStringReplaceString() {
    subject := self.node.Child1().Node()
    str, ok := subject.TryGetString()
    if !ok {
        return
    }
    search, ok := self.node.Child2().Node().TryGetString()
    if !ok {
        return
    }
    repl, ok := self.node.Child3().Node().TryGetString()
    if !ok {
        return
    }

    /* not found, the subject is returned as is */
    pos := jsstr.IndexOf(str, search)
    if pos < 0 {
        self.insertCheck(self.node)
        self.node.ConvertToIdentityOn(subject)
        self.changed = true
        return
    }

    /* replace the first occurrence */
    ret, ok := jsstr.ReplaceRange(self.o.MaxStringLength, str, repl, pos, pos + jsstr.Length(search))
    if !ok {
        self.giveUp("string too long", zap.Int("position", pos))
        return
    }

    /* fold to the result */
    self.convertToLazyJSValue(self.node, dfg.LazyNewString(ret))
    self.changed = true
}

// handleSubstring folds String.prototype.substring and slice over constant
// offsets.
func (self *Phase) handleSubstring() {
    subject := self.node.Child1().Node()
    if !self.node.Child2().Node().IsInt32Constant() {
        return
    }

    /* the end is optional */
    var end *int32
    start := self.node.Child2().Node().AsInt32()

    /* equal offsets always give an empty string */
    if c3 := self.node.Child3(); c3.IsSet() {
        if !c3.Node().IsInt32Constant() {
            return
        }
        if v := c3.Node().AsInt32(); v != start {
            end = &v
        } else {
            self.convertToLazyJSValue(self.node, dfg.LazyNewString(""))
            self.changed = true
            return
        }
    }

    /* the subject must be known from here on */
    str, ok := subject.TryGetString()
    if !ok {
        return
    }

    /* normalize the offsets */
    var s, e int32
    if n := int32(jsstr.Length(str)); self.node.Op() == dfg.StringSubstring {
        s, e = jsstr.SubstringOffsets(n, start, end)
    } else {
        s, e = jsstr.SliceOffsets(n, start, end)
    }

    /* the whole string */
    if self.insertCheck(self.node); s == 0 && int(e) == jsstr.Length(str) {
        self.node.ConvertToIdentityOn(subject)
        self.changed = true
        return
    }

    /* fold to the substring */
    self.node.ConvertToLazyJSConstant(self.g, dfg.LazyNewString(jsstr.Substring(str, int(s), int(e - s))))
    self.changed = true
}
