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
)

// UseKind is the speculation an edge imposes on the value flowing through it.
type UseKind uint8

const (
    UntypedUse UseKind = iota
    Int32Use
    KnownInt32Use
    Int52RepUse
    AnyIntUse
    NumberUse
    RealNumberUse
    DoubleRepUse
    DoubleRepRealUse
    DoubleRepAnyIntUse
    BooleanUse
    KnownBooleanUse
    CellUse
    KnownCellUse
    ObjectUse
    FunctionUse
    RegExpObjectUse
    StringUse
    KnownStringUse
    StringObjectUse
    StringOrStringObjectUse
    StringOrOtherUse
    KnownPrimitiveUse
    HeapBigIntUse
    BigInt32Use
    AnyBigIntUse
    NotCellNorBigIntUse
    OtherUse
    _UseKindCount
)

type useKindDesc struct {
    name   string
    checks bool
    filter SpeculatedType
}

var useKindTab = [_UseKindCount]useKindDesc {
    UntypedUse              : { "Untyped"              , false , SpecBytecodeTop                },
    Int32Use                : { "Int32"                , true  , SpecInt32Only                  },
    KnownInt32Use           : { "KnownInt32"           , false , SpecInt32Only                  },
    Int52RepUse             : { "Int52Rep"             , true  , SpecInt52Any                   },
    AnyIntUse               : { "AnyInt"               , true  , SpecInt52Any                   },
    NumberUse               : { "Number"               , true  , SpecBytecodeNumber             },
    RealNumberUse           : { "RealNumber"           , true  , SpecBytecodeNumber &^ SpecDoubleNaN },
    DoubleRepUse            : { "DoubleRep"            , true  , SpecFullDouble                 },
    DoubleRepRealUse        : { "DoubleRepReal"        , true  , SpecDoubleReal                 },
    DoubleRepAnyIntUse      : { "DoubleRepAnyInt"      , true  , SpecAnyIntAsDouble             },
    BooleanUse              : { "Boolean"              , true  , SpecBoolean                    },
    KnownBooleanUse         : { "KnownBoolean"         , false , SpecBoolean                    },
    CellUse                 : { "Cell"                 , true  , SpecCell                       },
    KnownCellUse            : { "KnownCell"            , false , SpecCell                       },
    ObjectUse               : { "Object"               , true  , SpecObject                     },
    FunctionUse             : { "Function"             , true  , SpecFunction                   },
    RegExpObjectUse         : { "RegExpObject"         , true  , SpecRegExpObject               },
    StringUse               : { "String"               , true  , SpecString                     },
    KnownStringUse          : { "KnownString"          , false , SpecString                     },
    StringObjectUse         : { "StringObject"         , true  , SpecStringObject               },
    StringOrStringObjectUse : { "StringOrStringObject" , true  , SpecString | SpecStringObject  },
    StringOrOtherUse        : { "StringOrOther"        , true  , SpecString | SpecOther         },
    KnownPrimitiveUse       : { "KnownPrimitive"       , false , SpecPrimitive                  },
    HeapBigIntUse           : { "HeapBigInt"           , true  , SpecHeapBigInt                 },
    BigInt32Use             : { "BigInt32"             , true  , SpecBigInt32                   },
    AnyBigIntUse            : { "AnyBigInt"            , true  , SpecBigInt                     },
    NotCellNorBigIntUse     : { "NotCellNorBigInt"     , true  , SpecFullTop &^ (SpecCell | SpecBigInt) },
    OtherUse                : { "Other"                , true  , SpecOther                      },
}

func (self UseKind) String() string {
    if self < _UseKindCount {
        return useKindTab[self].name
    } else {
        return fmt.Sprintf("UseKind(%d)", self)
    }
}

// Checks reports whether an edge of this kind performs a speculation check
// at runtime.
func (self UseKind) Checks() bool {
    return useKindTab[self].checks
}

// TypeFilter is the set of shapes a value may have after passing the edge.
func (self UseKind) TypeFilter() SpeculatedType {
    return useKindTab[self].filter
}

// IsDouble reports whether the edge consumes an unboxed double.
func (self UseKind) IsDouble() bool {
    return self == DoubleRepUse || self == DoubleRepRealUse || self == DoubleRepAnyIntUse
}

// UseKindForResult is the use kind an edge reading a value of the given
// result kind naturally carries.
func UseKindForResult(result NodeFlags) UseKind {
    switch result & NodeResultMask {
        case NodeResultDouble : return DoubleRepUse
        case NodeResultInt52  : return Int52RepUse
        default               : return UntypedUse
    }
}
