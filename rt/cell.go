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

import (
    `fmt`
)

// Cell is a heap-allocated runtime value.
type Cell interface {
    cell()
}

// ObjectCell is a cell that belongs to a realm.
type ObjectCell interface {
    Cell
    GlobalObject() *GlobalObject
}

type IndexingType uint8

const (
    NonArray IndexingType = iota
    ArrayWithInt32
    ArrayWithDouble
    ArrayWithContiguous
    ArrayWithArrayStorage
    ArrayWithSlowPutArrayStorage
)

func (self IndexingType) String() string {
    switch self {
        case NonArray                     : return "NonArray"
        case ArrayWithInt32               : return "ArrayWithInt32"
        case ArrayWithDouble              : return "ArrayWithDouble"
        case ArrayWithContiguous          : return "ArrayWithContiguous"
        case ArrayWithArrayStorage        : return "ArrayWithArrayStorage"
        case ArrayWithSlowPutArrayStorage : return "ArrayWithSlowPutArrayStorage"
        default                           : return fmt.Sprintf("IndexingType(%d)", self)
    }
}

// Structure is the hidden class of an object.
type Structure struct {
    Name         string
    IndexingType IndexingType
    Properties   []string
}

func (*Structure) cell() {}

// String is an immutable string cell.
type String struct {
    value string
}

func NewString(s string) *String {
    return &String { value: s }
}

func (*String) cell() {}

func (self *String) Value() string {
    return self.value
}

type Symbol struct {
    Description string
}

func (*Symbol) cell() {}

// Object is a plain object.
type Object struct {
    global    *GlobalObject
    structure *Structure
}

func NewObject(global *GlobalObject, structure *Structure) *Object {
    return &Object {
        global    : global,
        structure : structure,
    }
}

func (*Object) cell() {}

func (self *Object) GlobalObject() *GlobalObject {
    return self.global
}

func (self *Object) Structure() *Structure {
    return self.structure
}

// StringObject is the wrapper object produced by `new String(...)`.
type StringObject struct {
    Object
    Inner *String
}

func NewStringObject(global *GlobalObject, inner *String) *StringObject {
    return &StringObject {
        Inner  : inner,
        Object : Object { global: global },
    }
}

func describe(c Cell) string {
    switch v := c.(type) {
        case *String             : return fmt.Sprintf("String(%q)", v.value)
        case *Symbol             : return fmt.Sprintf("Symbol(%s)", v.Description)
        case *Structure          : return fmt.Sprintf("Structure(%s, %s)", v.Name, v.IndexingType)
        case *GlobalObject       : return fmt.Sprintf("GlobalObject(%p)", v)
        case *RegExp             : return fmt.Sprintf("RegExp(/%s/%s)", v.pattern, v.flags)
        case *RegExpObject       : return fmt.Sprintf("RegExpObject(/%s/%s)", v.regExp.pattern, v.regExp.flags)
        case *BoundFunction      : return fmt.Sprintf("BoundFunction(%p)", v)
        case *WasmFunction       : return fmt.Sprintf("WasmFunction(%p)", v)
        case *JSFunction         : return fmt.Sprintf("Function(%s)", v.Name())
        case *FunctionExecutable : return fmt.Sprintf("FunctionExecutable(%s)", v.Name)
        case *NativeExecutable   : return fmt.Sprintf("NativeExecutable(%s)", v.Name)
        default                  : return fmt.Sprintf("%T(%p)", c, c)
    }
}
