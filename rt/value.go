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

// Package rt models the runtime values the compiler reasons about.
//
// Values are opaque to the optimizer except for a handful of queries: the
// numeric value, the string value, and whether a cell is of a particular
// class. The model is deliberately small, it only carries what constant
// folding needs to evaluate an operation at compile time.
package rt

import (
    `fmt`
    `math`

    `github.com/cloudwego/dfgopt/internal/jsnum`
)

// Tag identifies the shape of a Value.
type Tag uint8

const (
    TagEmpty Tag = iota
    TagInt32
    TagDouble
    TagBool
    TagNull
    TagUndefined
    TagCell
)

// Value is a JavaScript value. The zero value is the empty value, which is
// never observable by user code.
//
// Values are comparable. Doubles compare by their bit pattern, which makes
// every NaN payload a distinct key and keeps -0 apart from +0.
type Value struct {
    tag  Tag
    bits uint64
    cell Cell
}

// Empty is the empty value.
var Empty Value

func Int32(v int32) Value {
    return Value { tag: TagInt32, bits: uint64(uint32(v)) }
}

// Double always produces a double-tagged value, even for integral inputs.
func Double(v float64) Value {
    return Value { tag: TagDouble, bits: math.Float64bits(v) }
}

// Number produces an int32-tagged value when v is exactly representable as
// one, and a double otherwise.
func Number(v float64) Value {
    if i := int32(v); float64(i) == v && !(v == 0 && math.Signbit(v)) {
        return Int32(i)
    } else {
        return Double(v)
    }
}

func Bool(v bool) Value {
    if v {
        return Value { tag: TagBool, bits: 1 }
    } else {
        return Value { tag: TagBool }
    }
}

func Null() Value {
    return Value { tag: TagNull }
}

func Undefined() Value {
    return Value { tag: TagUndefined }
}

func CellValue(c Cell) Value {
    if c == nil {
        panic("rt: nil cell")
    } else {
        return Value { tag: TagCell, cell: c }
    }
}

func (self Value) Tag() Tag             { return self.tag }
func (self Value) IsEmpty() bool        { return self.tag == TagEmpty }
func (self Value) IsInt32() bool        { return self.tag == TagInt32 }
func (self Value) IsDouble() bool       { return self.tag == TagDouble }
func (self Value) IsNumber() bool       { return self.tag == TagInt32 || self.tag == TagDouble }
func (self Value) IsBoolean() bool      { return self.tag == TagBool }
func (self Value) IsNull() bool         { return self.tag == TagNull }
func (self Value) IsUndefined() bool    { return self.tag == TagUndefined }
func (self Value) IsUndefinedOrNull() bool { return self.tag == TagNull || self.tag == TagUndefined }
func (self Value) IsCell() bool         { return self.tag == TagCell }

func (self Value) IsString() bool {
    _, ok := self.cell.(*String)
    return ok
}

func (self Value) IsObject() bool {
    _, ok := self.cell.(ObjectCell)
    return ok
}

func (self Value) AsInt32() int32 {
    if self.tag != TagInt32 {
        panic("rt: value is not an int32: " + self.String())
    } else {
        return int32(uint32(self.bits))
    }
}

func (self Value) AsDouble() float64 {
    if self.tag != TagDouble {
        panic("rt: value is not a double: " + self.String())
    } else {
        return math.Float64frombits(self.bits)
    }
}

func (self Value) AsNumber() float64 {
    switch self.tag {
        case TagInt32  : return float64(self.AsInt32())
        case TagDouble : return self.AsDouble()
        default        : panic("rt: value is not a number: " + self.String())
    }
}

func (self Value) AsBoolean() bool {
    if self.tag != TagBool {
        panic("rt: value is not a boolean: " + self.String())
    } else {
        return self.bits != 0
    }
}

func (self Value) AsCell() Cell {
    return self.cell
}

// AsString returns the contents of a string cell.
func (self Value) AsString() (string, bool) {
    if s, ok := self.cell.(*String); ok {
        return s.Value(), true
    } else {
        return "", false
    }
}

func (self Value) String() string {
    switch self.tag {
        case TagEmpty     : return "<empty>"
        case TagInt32     : return fmt.Sprintf("Int32: %d", self.AsInt32())
        case TagDouble    : return "Double: " + jsnum.Format(self.AsDouble())
        case TagBool      : if self.AsBoolean() { return "true" } else { return "false" }
        case TagNull      : return "null"
        case TagUndefined : return "undefined"
        default           : return fmt.Sprintf("Cell: %s", describe(self.cell))
    }
}
