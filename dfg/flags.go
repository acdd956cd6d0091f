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
    `fmt`
    `strings`
)

type NodeFlags uint32

const (
    NodeResultMask    NodeFlags = 0x07
    NodeResultJS      NodeFlags = 0x01
    NodeResultNumber  NodeFlags = 0x02
    NodeResultDouble  NodeFlags = 0x03
    NodeResultInt32   NodeFlags = 0x04
    NodeResultInt52   NodeFlags = 0x05
    NodeResultBoolean NodeFlags = 0x06
    NodeResultStorage NodeFlags = 0x07
)

const (
    NodeMustGenerate NodeFlags = 1 << (iota + 3)
    NodeHasVarArgs
    NodeBytecodeUsesAsNumber
    NodeBytecodeNeedsNegZero
    NodeBytecodeNeedsNaNOrInfinity
    NodeBytecodeUsesAsOther
    NodeBytecodeUsesAsInt
    NodeBytecodeUsesAsArrayIndex
)

// NodeArithFlagsMask selects the flags describing how bytecode consumes a
// numeric result.
const NodeArithFlagsMask = NodeBytecodeUsesAsNumber |
    NodeBytecodeNeedsNegZero |
    NodeBytecodeNeedsNaNOrInfinity |
    NodeBytecodeUsesAsOther |
    NodeBytecodeUsesAsInt |
    NodeBytecodeUsesAsArrayIndex

// BytecodeCanTruncateInteger reports whether every consumer of a value would
// truncate it to an integer anyway.
func BytecodeCanTruncateInteger(flags NodeFlags) bool {
    return flags & NodeBytecodeUsesAsNumber == 0
}

// CanonicalResultRepresentation folds the result kinds that share a machine
// representation with boxed values into NodeResultJS.
func CanonicalResultRepresentation(flags NodeFlags) NodeFlags {
    switch flags & NodeResultMask {
        case NodeResultDouble  : return NodeResultDouble
        case NodeResultInt52   : return NodeResultInt52
        case NodeResultStorage : return NodeResultStorage
        default                : return NodeResultJS
    }
}

func (self NodeFlags) String() string {
    var sb []string
    switch self & NodeResultMask {
        case NodeResultJS      : sb = append(sb, "JS")
        case NodeResultNumber  : sb = append(sb, "Number")
        case NodeResultDouble  : sb = append(sb, "Double")
        case NodeResultInt32   : sb = append(sb, "Int32")
        case NodeResultInt52   : sb = append(sb, "Int52")
        case NodeResultBoolean : sb = append(sb, "Boolean")
        case NodeResultStorage : sb = append(sb, "Storage")
    }
    if self & NodeMustGenerate != 0 {
        sb = append(sb, "MustGen")
    }
    if self & NodeHasVarArgs != 0 {
        sb = append(sb, "VarArgs")
    }
    if self & NodeBytecodeUsesAsNumber != 0 {
        sb = append(sb, "UseAsNumber")
    }
    return strings.Join(sb, "|")
}

// ArithMode is the overflow policy of an arithmetic node.
type ArithMode uint8

const (
    ArithNotSet ArithMode = iota
    ArithUnchecked
    ArithCheckOverflow
    ArithCheckOverflowAndNegativeZero
    ArithDoOverflow
)

func (self ArithMode) String() string {
    switch self {
        case ArithNotSet                       : return "NotSet"
        case ArithUnchecked                    : return "Unchecked"
        case ArithCheckOverflow                : return "CheckOverflow"
        case ArithCheckOverflowAndNegativeZero : return "CheckOverflowAndNegativeZero"
        case ArithDoOverflow                   : return "DoOverflow"
        default                                : return fmt.Sprintf("ArithMode(%d)", self)
    }
}

// ArrayType is the kind of storage an element access was speculated on.
type ArrayType uint8

const (
    ArrayGeneric ArrayType = iota
    ArrayString
    ArrayInt32
    ArrayDouble
    ArrayContiguous
    ArrayInt8Array
    ArrayInt16Array
    ArrayInt32Array
    ArrayUint8Array
    ArrayUint8ClampedArray
    ArrayUint16Array
    ArrayUint32Array
    ArrayFloat16Array
    ArrayFloat32Array
    ArrayFloat64Array
)

var arrayTypeNames = [...]string {
    ArrayGeneric           : "Generic",
    ArrayString            : "String",
    ArrayInt32             : "Int32",
    ArrayDouble            : "Double",
    ArrayContiguous        : "Contiguous",
    ArrayInt8Array         : "Int8Array",
    ArrayInt16Array        : "Int16Array",
    ArrayInt32Array        : "Int32Array",
    ArrayUint8Array        : "Uint8Array",
    ArrayUint8ClampedArray : "Uint8ClampedArray",
    ArrayUint16Array       : "Uint16Array",
    ArrayUint32Array       : "Uint32Array",
    ArrayFloat16Array      : "Float16Array",
    ArrayFloat32Array      : "Float32Array",
    ArrayFloat64Array      : "Float64Array",
}

func (self ArrayType) String() string {
    if int(self) < len(arrayTypeNames) {
        return arrayTypeNames[self]
    } else {
        return fmt.Sprintf("ArrayType(%d)", self)
    }
}

type ArrayMode struct {
    Type ArrayType
}

func (self ArrayMode) ModeForPut() ArrayMode {
    return self
}

// Operand names a slot in the call frame.
type Operand int32

func (self Operand) String() string {
    if self < 0 {
        return fmt.Sprintf("arg%d", -self - 1)
    } else {
        return fmt.Sprintf("loc%d", self)
    }
}

// TypeInfoFlags are the bits CheckTypeInfoFlags tests on a cell.
type TypeInfoFlags uint8

const (
    ImplementsDefaultHasInstance TypeInfoFlags = 1 << iota
)

// PromotedLocationKind names a slot of a materialized object.
type PromotedLocationKind uint8

const (
    PublicLengthPLoc PromotedLocationKind = iota + 1
    VectorLengthPLoc
    NamedPropertyPLoc
    IndexedPropertyPLoc
)

type PromotedLocationDescriptor struct {
    Kind PromotedLocationKind
    Info uint32
}

// ObjectMaterializationData lists, in order, which slot each vararg child of
// a materialization node after the structure initializes.
type ObjectMaterializationData struct {
    Properties []PromotedLocationDescriptor
}
