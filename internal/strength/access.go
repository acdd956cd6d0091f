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
    `github.com/cloudwego/dfgopt/rt`
)

// atomizeKey builds property keys as atoms right away, since the lookup
// atomizes them anyway.
func (self *Phase) atomizeKey(key *dfg.Edge) {
    if key.Node().Op() == dfg.MakeRope {
        key.Node().SetOp(dfg.MakeAtomString)
        self.changed = true
    }
}

func (self *Phase) handleGetByVal() {
    base := self.g.Child(self.node, 0)
    if base.UseKind() == dfg.ObjectUse && self.node.ArrayMode().Type == dfg.ArrayGeneric {
        self.atomizeKey(self.g.Child(self.node, 1))
    }
}

func (self *Phase) handlePutByVal() {
    base := self.g.Child(self.node, 0)
    switch self.node.ArrayMode().ModeForPut().Type {
        case dfg.ArrayGeneric: {
            if base.UseKind() == dfg.CellUse || base.UseKind() == dfg.KnownCellUse {
                self.atomizeKey(self.g.Child(self.node, 1))
            }
        }

        /* float stores canonicalize NaN themselves */
        case dfg.ArrayFloat16Array, dfg.ArrayFloat32Array, dfg.ArrayFloat64Array: {
            if self.node.Op() != dfg.PutByValMegamorphic {
                if val := self.g.Child(self.node, 2); val.UseKind() == dfg.DoubleRepUse && foldPurifyNaN(val) {
                    self.changed = true
                }
            }
        }

        /* unsigned stores truncate, the widening is useless */
        case dfg.ArrayUint8Array, dfg.ArrayUint16Array, dfg.ArrayUint32Array: {
            if self.node.Op() != dfg.PutByValMegamorphic {
                if val := self.g.Child(self.node, 2); val.UseKind() == dfg.Int32Use {
                    if nb := val.Node(); nb.Op() == dfg.UInt32ToNumber && nb.Child1().UseKind() == dfg.Int32Use {
                        *val = *nb.Child1()
                        self.changed = true
                    }
                }
            }
        }
    }
}

func (self *Phase) handleInByVal() {
    if self.g.Child(self.node, 0).UseKind() == dfg.CellUse {
        self.atomizeKey(self.g.Child(self.node, 1))
    }
}

func (self *Phase) handleHasOwnProperty() {
    self.atomizeKey(self.g.Child(self.node, 1))
}

// handleFlush demotes a Flush to a PhantomLocal when the same block already
// stored the local, with nothing reading or writing it in between.
func (self *Phase) handleFlush() {
    if self.g.Form == dfg.SSA {
        dfg.Violate("Phase.handleFlush", "@%d: Flush in SSA form", self.node.ID())
    }

    /* the handler may observe the stack slot */
    if self.g.WillCatchExceptionInMachineFrame(self.node.Origin.Semantic) {
        return
    }

    /* look for the store */
    var set *dfg.Node
    opnd := self.node.Operand()
    dfg.ScanBackward(self.block, self.nodeIndex, func(_ int, node *dfg.Node) bool {
        if node.Op() == dfg.SetLocal && node.Operand() == opnd {
            set = node
            return false
        } else {
            return !dfg.AccessesOverlap(self.g, node, dfg.StackHeap(opnd))
        }
    })

    /* the slot is already up to date, threading is rebuilt later */
    if set != nil {
        self.node.ConvertFlushToPhantomLocal()
        self.g.Dethread()
        self.changed = true
    }
}

func (self *Phase) handleOverridesHasInstance() {
    fn := self.node.Child2().Node()
    if !fn.IsCellConstant() {
        return
    }

    /* a custom Symbol.hasInstance */
    if fn.AsCell() != self.g.GlobalObjectFor(self.node.Origin.Semantic).FunctionProtoHasInstanceSymbolFunction() {
        self.convertToConstant(rt.Bool(true))
        return
    }

    /* the default one, unless the type info check failed before */
    if !self.g.HasExitSite(self.node.Origin.Semantic, dfg.BadTypeInfoFlags) {
        self.ins.InsertNode(
            self.nodeIndex,
            dfg.SpecNone,
            dfg.CheckTypeInfoFlags,
            self.node.Origin,
            dfg.OpInfo { TypeInfo: dfg.ImplementsDefaultHasInstance },
            dfg.NewEdge(self.node.Child1().Node(), dfg.CellUse),
        )
        self.convertToConstant(rt.Bool(false))
    }
}

func (self *Phase) handleGetGlobalObject() {
    if obj, ok := dfg.DynamicCastConstant[rt.ObjectCell](self.node.Child1().Node()); ok {
        self.convertToConstant(rt.CellValue(obj.GlobalObject()))
    }
}
