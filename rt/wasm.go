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

package rt

type WasmTypeKind uint8

const (
    WasmI32 WasmTypeKind = iota
    WasmI64
    WasmF32
    WasmF64
    WasmV128
    WasmRef
    WasmRefNull
    WasmFuncref
    WasmExternref
    WasmExnref
)

type WasmHeapType uint8

const (
    HeapNone WasmHeapType = iota
    HeapFunc
    HeapExtern
    HeapAny
    HeapExn
)

type WasmType struct {
    Kind WasmTypeKind
    Heap WasmHeapType
}

func (self WasmType) IsRef() bool {
    switch self.Kind {
        case WasmRef, WasmRefNull, WasmFuncref, WasmExternref, WasmExnref : return true
        default                                                          : return false
    }
}

func (self WasmType) IsNullable() bool {
    return self.IsRef() && self.Kind != WasmRef
}

func (self WasmType) IsExternref() bool {
    switch self.Kind {
        case WasmExternref       : return true
        case WasmRef, WasmRefNull : return self.Heap == HeapExtern
        default                  : return false
    }
}

func (self WasmType) IsExnref() bool {
    switch self.Kind {
        case WasmExnref          : return true
        case WasmRef, WasmRefNull : return self.Heap == HeapExn
        default                  : return false
    }
}

// WasmSignature is the type of a WebAssembly function.
type WasmSignature struct {
    Args    []WasmType
    Results []WasmType
}

func (self *WasmSignature) ArgumentCount() int { return len(self.Args) }
func (self *WasmSignature) ReturnCount() int   { return len(self.Results) }
func (self *WasmSignature) ReturnsVoid() bool  { return len(self.Results) == 0 }

func (self *WasmSignature) ArgumentsOrResultsIncludeV128() bool {
    return self.any(func(t WasmType) bool { return t.Kind == WasmV128 })
}

func (self *WasmSignature) ArgumentsOrResultsIncludeExnref() bool {
    return self.any(WasmType.IsExnref)
}

func (self *WasmSignature) any(pred func(WasmType) bool) bool {
    for _, t := range self.Args {
        if pred(t) {
            return true
        }
    }
    for _, t := range self.Results {
        if pred(t) {
            return true
        }
    }
    return false
}

// WasmFunction is a JavaScript-callable export of a WebAssembly instance.
type WasmFunction struct {
    JSFunction
    Signature *WasmSignature
}

func NewWasmFunction(global *GlobalObject, name string, sig *WasmSignature) *WasmFunction {
    return &WasmFunction {
        Signature  : sig,
        JSFunction : JSFunction {
            Object     : Object { global: global },
            executable : NewNativeExecutable(name, WasmFunctionIntrinsic),
        },
    }
}
