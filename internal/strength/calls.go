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
    `math/bits`

    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/rt`
    `go.uber.org/zap`
)

const is64Bit = bits.UintSize == 64

// handleCall turns calls to a statically known callee into direct calls.
func (self *Phase) handleCall() {
    var fn rt.Function
    var exec rt.Executable
    var variant dfg.CallVariant

    /* resolve the callee */
    callee := self.g.VarArgChild(self.node, 0).Node()
    if v, ok := dfg.DynamicCastConstant[rt.Function](callee); ok {
        fn, exec, variant = v, v.Executable(), dfg.FunctionCallVariant(v)
    } else if callee.IsFunctionAllocation() {
        exec = callee.CellOperand().(rt.Executable)
        variant = dfg.ExecutableCallVariant(exec)
    } else {
        return
    }

    /* unlinked code cannot embed the callee */
    if self.g.Plan.IsUnlinked() {
        return
    }

    /* the FTL handles these with data ICs */
    if self.g.Plan.IsFTL() && self.o.DataICInFTL {
        return
    }

    /* WebAssembly exports */
    if exec.Intrinsic() == rt.WasmFunctionIntrinsic && !self.o.ForceICFailure {
        if wf, ok := fn.(*rt.WasmFunction); ok && self.node.Op() == dfg.Call {
            self.convertToCallWasm(wf)
        }
        return
    }

    /* call the target of a bound function directly */
    if exec.Intrinsic() == rt.BoundFunctionCallIntrinsic && fn != nil && self.node.Op() != dfg.Construct {
        if bf, ok := fn.(*rt.BoundFunction); ok && self.unwrapBoundFunction(bf) {
            return
        }
    }

    /* plain JavaScript functions */
    if fe, ok := exec.(*rt.FunctionExecutable); ok {
        if self.node.Op() == dfg.Construct && fe.ConstructAbility == rt.CannotConstruct {
            return
        }
        if argc := fe.ParameterCount + 1; self.o.CanDirectCall(argc) {
            self.g.ReserveParameterSlots(argc)
        }
    }

    /* record the decision and convert */
    self.g.Plan.RecordedStatuses().AddCallLinkStatus(self.node.Origin.Semantic, dfg.NewCallLinkStatus(variant))
    self.node.ConvertToDirectCall(self.g.Freeze(rt.CellValue(exec)))
    self.changed = true
}

// unwrapBoundFunction rewrites the call to pass the bound this and arguments
// to the target directly.
func (self *Phase) unwrapBoundFunction(bf *rt.BoundFunction) bool {
    target, ok := bf.TargetFunction().(rt.Function)
    if !ok {
        return false
    }

    /* the expanded argument list must fit */
    if bf.BoundArgsLength() + self.node.NumChildren() > self.o.MaxDirectCallStackSize {
        self.giveUp("bound call too large", zap.Int("bound", bf.BoundArgsLength()))
        return false
    }

    /* reserve the slots the target declares */
    exec := target.Executable()
    if fe, ok := exec.(*rt.FunctionExecutable); ok {
        if argc := fe.ParameterCount + 1; self.o.CanDirectCall(argc) {
            self.g.ReserveParameterSlots(argc)
        }
    }

    /* callee, this, then the bound arguments */
    edges := []dfg.Edge {
        self.constantEdge(rt.CellValue(target)),
        self.constantEdge(bf.BoundThis()),
    }
    bf.ForEachBoundArg(func(v rt.Value) bool {
        edges = append(edges, self.constantEdge(v))
        return true
    })

    /* followed by the arguments of the call, past callee and this */
    for i := 2; i < self.node.NumChildren(); i++ {
        edges = append(edges, *self.g.Child(self.node, i))
    }

    /* swap the argument list */
    first, count := self.g.AppendVarArgs(edges...)
    self.node.Children = dfg.Variable(first, count)
    self.g.ReserveParameterSlots(self.node.NumChildren() - 1)

    /* the status describes the target, not the bound function */
    self.g.Plan.RecordedStatuses().AddCallLinkStatus(self.node.Origin.Semantic, dfg.NewCallLinkStatus(dfg.ExecutableCallVariant(exec)))
    self.node.ConvertToDirectCall(self.g.Freeze(rt.CellValue(exec)))
    self.changed = true
    return true
}

func (self *Phase) constantEdge(v rt.Value) dfg.Edge {
    return dfg.NewEdge(self.ins.InsertConstant(self.nodeIndex, self.node.Origin, v), dfg.UntypedUse)
}

// wasmArgumentOK reports whether the prediction of an argument matches what
// the parameter type expects.
func wasmArgumentOK(t rt.WasmType, arg *dfg.Node) bool {
    switch t.Kind {
        case rt.WasmI32                                                 : return arg.ShouldSpeculateInt32()
        case rt.WasmI64                                                 : return arg.ShouldSpeculateHeapBigInt()
        case rt.WasmF32, rt.WasmF64                                     : return arg.ShouldSpeculateNumber()
        case rt.WasmRef, rt.WasmRefNull, rt.WasmFuncref, rt.WasmExternref : return t.IsExternref() && t.IsNullable()
        default                                                         : return false
    }
}

func wasmResultOK(t rt.WasmType) bool {
    switch t.Kind {
        case rt.WasmV128, rt.WasmExnref : return false
        default                         : return true
    }
}

// exitAnchor finds the closest node at or before the current one where an
// exit is allowed.
func (self *Phase) exitAnchor() (int, bool) {
    for i := self.nodeIndex; i >= 0; i-- {
        if self.block.At(i).Origin.ExitOK {
            return i, true
        }
    }
    return 0, false
}

// convertToCallWasm calls a WebAssembly export without going through the JS
// to WebAssembly thunk. Every check is validated before anything changes.
func (self *Phase) convertToCallWasm(wf *rt.WasmFunction) {
    sig := wf.Signature
    if sig.ArgumentsOrResultsIncludeV128() || sig.ArgumentsOrResultsIncludeExnref() {
        return
    }

    /* every parameter needs a value, callee and this excluded */
    if sig.ArgumentCount() > self.node.NumChildren() - 2 {
        return
    }
    if !sig.ReturnsVoid() && sig.ReturnCount() != 1 {
        return
    }

    /* the predictions must agree with the signature */
    for i, t := range sig.Args {
        if !wasmArgumentOK(t, self.g.VarArgChild(self.node, i + 2).Node()) {
            self.giveUp("wasm argument does not match", zap.Int("arg", i))
            return
        }
    }
    if !sig.ReturnsVoid() && !wasmResultOK(sig.Results[0]) {
        return
    }

    /* the checks need a place to exit from */
    at, ok := self.exitAnchor()
    if !ok {
        self.giveUp("no exit point for the wasm checks")
        return
    }

    /* only the 64-bit FTL calls wasm directly */
    if !is64Bit || !self.g.Plan.IsFTL() {
        return
    }

    /* the wasm frame has a this slot too */
    self.g.ReserveParameterSlots(sig.ArgumentCount() + 1)

    /* check the arguments and narrow their edges */
    for i, t := range sig.Args {
        e := self.g.VarArgChild(self.node, i + 2)
        arg := e.Node()

        /* per parameter type */
        switch t.Kind {
            case rt.WasmI32: {
                self.ins.InsertCheck(at, self.node.Origin, dfg.NewEdge(arg, dfg.Int32Use))
                *e = dfg.NewEdge(arg, dfg.KnownInt32Use)
            }
            case rt.WasmI64: {
                self.ins.InsertCheck(at, self.node.Origin, dfg.NewEdge(arg, dfg.HeapBigIntUse))
                *e = dfg.NewEdge(arg, dfg.KnownCellUse)
            }
            case rt.WasmF32, rt.WasmF64: {
                kind := dfg.NotCellNorBigIntUse
                if arg.ShouldSpeculateDoubleReal() {
                    kind = dfg.RealNumberUse
                } else if arg.ShouldSpeculateNumber() {
                    kind = dfg.NumberUse
                }
                rep := self.ins.InsertNode(at, dfg.SpecBytecodeDouble, dfg.DoubleRep, self.node.Origin, dfg.OpInfo{}, dfg.NewEdge(arg, kind))
                *e = dfg.NewEdge(rep, dfg.DoubleRepUse)
            }
        }
    }

    /* i32 results come back unboxed */
    if !sig.ReturnsVoid() && sig.Results[0].Kind == rt.WasmI32 {
        self.node.SetResult(dfg.NodeResultInt32)
    }

    /* convert */
    self.node.ConvertToCallWasm(self.g.Freeze(rt.CellValue(wf)))
    self.changed = true
}
