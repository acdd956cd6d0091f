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
    `math`

    `github.com/cloudwego/dfgopt/rt`
)

// SpeculatedType is a set of value shapes, as a bit set.
type SpeculatedType uint64

const SpecNone SpeculatedType = 0

const (
    SpecFinalObject SpeculatedType = 1 << iota
    SpecArray
    SpecFunction
    SpecRegExpObject
    SpecStringObject
    SpecObjectOther
    SpecStringIdent
    SpecStringVar
    SpecSymbol
    SpecCellOther
    SpecHeapBigInt
    SpecBoolInt32
    SpecNonBoolInt32
    SpecNonInt32AsInt52
    SpecAnyIntAsDouble
    SpecNonIntAsDouble
    SpecDoublePureNaN
    SpecDoubleImpureNaN
    SpecBoolean
    SpecOther
    SpecBigInt32
    SpecEmpty
)

const (
    SpecObject       = SpecFinalObject | SpecArray | SpecFunction | SpecRegExpObject | SpecStringObject | SpecObjectOther
    SpecString       = SpecStringIdent | SpecStringVar
    SpecCell         = SpecObject | SpecString | SpecSymbol | SpecCellOther | SpecHeapBigInt
    SpecInt32Only    = SpecBoolInt32 | SpecNonBoolInt32
    SpecInt52Any     = SpecInt32Only | SpecNonInt32AsInt52
    SpecDoubleReal   = SpecNonIntAsDouble | SpecAnyIntAsDouble
    SpecDoubleNaN    = SpecDoublePureNaN | SpecDoubleImpureNaN
    SpecBytecodeDouble = SpecDoubleReal | SpecDoublePureNaN
    SpecFullDouble   = SpecDoubleReal | SpecDoubleNaN
    SpecBytecodeNumber = SpecInt32Only | SpecBytecodeDouble
    SpecFullNumber   = SpecInt32Only | SpecNonInt32AsInt52 | SpecFullDouble
    SpecBigInt       = SpecBigInt32 | SpecHeapBigInt
    SpecPrimitive    = SpecString | SpecSymbol | SpecBytecodeNumber | SpecBoolean | SpecOther | SpecBigInt
    SpecBytecodeTop  = SpecCell | SpecBytecodeNumber | SpecBoolean | SpecOther | SpecBigInt32
    SpecFullTop      = SpecBytecodeTop | SpecFullNumber | SpecEmpty
)

func IsInt32Speculation(v SpeculatedType) bool {
    return v != SpecNone && v & ^SpecInt32Only == 0
}

func IsBooleanSpeculation(v SpeculatedType) bool {
    return v == SpecBoolean
}

func IsFullNumberSpeculation(v SpeculatedType) bool {
    return v & SpecFullNumber != 0 && v & ^SpecFullNumber == 0
}

func IsDoubleRealSpeculation(v SpeculatedType) bool {
    return v != SpecNone && v & ^SpecDoubleReal == 0
}

func IsHeapBigIntSpeculation(v SpeculatedType) bool {
    return v == SpecHeapBigInt
}

// SpeculationFromValue returns the narrowest shape set containing v.
func SpeculationFromValue(v rt.Value) SpeculatedType {
    switch v.Tag() {
        case rt.TagEmpty     : return SpecEmpty
        case rt.TagBool      : return SpecBoolean
        case rt.TagNull      : return SpecOther
        case rt.TagUndefined : return SpecOther
        case rt.TagInt32     : return speculationFromInt32(v.AsInt32())
        case rt.TagDouble    : return speculationFromDouble(v.AsDouble())
        default              : return speculationFromCell(v.AsCell())
    }
}

func speculationFromInt32(v int32) SpeculatedType {
    if v == 0 || v == 1 {
        return SpecBoolInt32
    } else {
        return SpecNonBoolInt32
    }
}

func speculationFromDouble(v float64) SpeculatedType {
    if math.IsNaN(v) {
        if math.Float64bits(v) == math.Float64bits(math.NaN()) {
            return SpecDoublePureNaN
        } else {
            return SpecDoubleImpureNaN
        }
    }
    if v == math.Trunc(v) && math.Abs(v) < 1 << 52 && !(v == 0 && math.Signbit(v)) {
        return SpecAnyIntAsDouble
    } else {
        return SpecNonIntAsDouble
    }
}

func speculationFromCell(c rt.Cell) SpeculatedType {
    switch c.(type) {
        case *rt.String                                         : return SpecStringVar
        case *rt.Symbol                                         : return SpecSymbol
        case *rt.RegExpObject                                   : return SpecRegExpObject
        case *rt.StringObject                                   : return SpecStringObject
        case *rt.JSFunction, *rt.BoundFunction, *rt.WasmFunction : return SpecFunction
        case *rt.Object, *rt.GlobalObject                       : return SpecFinalObject
        default                                                 : return SpecCellOther
    }
}
