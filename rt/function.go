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

type Intrinsic uint8

const (
    NoIntrinsic Intrinsic = iota
    BoundFunctionCallIntrinsic
    WasmFunctionIntrinsic
)

type ConstructAbility uint8

const (
    CanConstruct ConstructAbility = iota
    CannotConstruct
)

// Executable is the code behind a function object.
type Executable interface {
    Cell
    Intrinsic() Intrinsic
}

// FunctionExecutable is the executable of a function written in JavaScript.
type FunctionExecutable struct {
    Name             string
    ParameterCount   int
    ConstructAbility ConstructAbility
}

func (*FunctionExecutable) cell() {}
func (*FunctionExecutable) Intrinsic() Intrinsic { return NoIntrinsic }

// NativeExecutable is the executable of a host function.
type NativeExecutable struct {
    Name      string
    intrinsic Intrinsic
}

func NewNativeExecutable(name string, intrinsic Intrinsic) *NativeExecutable {
    return &NativeExecutable {
        Name      : name,
        intrinsic : intrinsic,
    }
}

func (*NativeExecutable) cell() {}

func (self *NativeExecutable) Intrinsic() Intrinsic {
    return self.intrinsic
}

// Function is implemented by every function object.
type Function interface {
    ObjectCell
    Executable() Executable
}

type JSFunction struct {
    Object
    executable Executable
}

func NewFunction(global *GlobalObject, executable Executable) *JSFunction {
    return &JSFunction {
        Object     : Object { global: global },
        executable : executable,
    }
}

func (self *JSFunction) Executable() Executable {
    return self.executable
}

func (self *JSFunction) Name() string {
    switch e := self.executable.(type) {
        case *FunctionExecutable : return e.Name
        case *NativeExecutable   : return e.Name
        default                  : return ""
    }
}

// BoundFunction is the result of `Function.prototype.bind`.
type BoundFunction struct {
    JSFunction
    target    Cell
    boundThis Value
    boundArgs []Value
}

func NewBoundFunction(global *GlobalObject, target Cell, boundThis Value, args ...Value) *BoundFunction {
    return &BoundFunction {
        target     : target,
        boundThis  : boundThis,
        boundArgs  : args,
        JSFunction : JSFunction {
            Object     : Object { global: global },
            executable : NewNativeExecutable("bound", BoundFunctionCallIntrinsic),
        },
    }
}

func (self *BoundFunction) TargetFunction() Cell {
    return self.target
}

func (self *BoundFunction) BoundThis() Value {
    return self.boundThis
}

func (self *BoundFunction) BoundArgsLength() int {
    return len(self.boundArgs)
}

// ForEachBoundArg visits the bound arguments in order until fn returns false.
func (self *BoundFunction) ForEachBoundArg(fn func(v Value) bool) {
    for _, v := range self.boundArgs {
        if !fn(v) {
            return
        }
    }
}
