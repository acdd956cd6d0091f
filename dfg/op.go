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

// Op is the operation a node performs. The set is closed.
type Op uint16

const (
    InvalidOp Op = iota

    /* constants and pass-throughs */
    JSConstant
    DoubleConstant
    Int52Constant
    LazyJSConstant
    Identity
    Check
    CheckTypeInfoFlags

    /* locals */
    GetLocal
    SetLocal
    Flush
    PhantomLocal

    /* control flow */
    Jump
    Branch
    Return

    /* representation conversions */
    ValueRep
    DoubleRep
    Int52Rep
    PurifyNaN
    DoubleAsInt32
    ValueToInt32
    UInt32ToNumber

    /* numeric predicates and coercions */
    GlobalIsNaN
    NumberIsNaN
    GlobalIsFinite
    NumberIsFinite
    NumberIsSafeInteger
    ParseInt
    ToIntegerOrInfinity
    ToLength

    /* arithmetic */
    ArithFRound
    ArithF16Round
    ArithRound
    ArithFloor
    ArithCeil
    ArithTrunc
    ArithSqrt
    ArithAbs
    ArithNegate
    ArithUnary
    ArithBitOr
    ArithBitXor
    ArithBitAnd
    ArithBitLShift
    ArithBitRShift
    ArithBitURShift
    ArithAdd
    ArithSub
    ArithMul
    ArithDiv
    ArithMod
    ArithPow
    ValueAdd
    ValueMul
    ValueBitOr
    ValueBitAnd
    ValueBitXor

    /* strings */
    MakeRope
    MakeAtomString
    StrCat
    ToString
    CallStringConstructor
    NewStringObject
    NumberToStringWithRadix
    NumberToStringWithValidRadixConstant
    StringReplace
    StringReplaceAll
    StringReplaceRegExp
    StringReplaceString
    StringSubstring
    StringSlice

    /* objects */
    OverridesHasInstance
    GetArrayLength
    GetGlobalObject
    NewFunction
    MaterializeNewObject

    /* regular expressions */
    NewRegExpUntyped
    NewRegExp
    RegExpExec
    RegExpExecNonGlobalOrSticky
    RegExpTest
    RegExpTestInline
    RegExpSearch
    RegExpMatchFast
    RegExpMatchFastGlobal
    GetRegExpObjectLastIndex
    SetRegExpObjectLastIndex
    RecordRegExpCachedResult

    /* element access */
    GetByVal
    GetByValMegamorphic
    PutByVal
    PutByValDirect
    PutByValAlias
    PutByValMegamorphic
    InByVal
    InByValMegamorphic
    HasOwnProperty
    CheckInBounds

    /* comparisons */
    CompareStrictEq
    SameValue
    CompareEq
    CompareLess
    CompareLessEq
    CompareGreater
    CompareGreaterEq

    /* calls */
    Call
    Construct
    TailCall
    TailCallInlinedCaller
    DirectCall
    DirectConstruct
    DirectTailCall
    DirectTailCallInlinedCaller
    CallWasm

    _OpCount
)

type opDesc struct {
    name  string
    flags NodeFlags
}

const (
    _R_JS      = NodeResultJS
    _R_Number  = NodeResultNumber
    _R_Double  = NodeResultDouble
    _R_Int32   = NodeResultInt32
    _R_Int52   = NodeResultInt52
    _R_Boolean = NodeResultBoolean
    _MG        = NodeMustGenerate
    _VA        = NodeHasVarArgs
)

var opTab = [_OpCount]opDesc {
    InvalidOp                            : { "InvalidOp"                            , 0                       },
    JSConstant                           : { "JSConstant"                           , _R_JS                   },
    DoubleConstant                       : { "DoubleConstant"                       , _R_Double               },
    Int52Constant                        : { "Int52Constant"                        , _R_Int52                },
    LazyJSConstant                       : { "LazyJSConstant"                       , _R_JS                   },
    Identity                             : { "Identity"                             , _R_JS                   },
    Check                                : { "Check"                                , _MG                     },
    CheckTypeInfoFlags                   : { "CheckTypeInfoFlags"                   , _MG                     },
    GetLocal                             : { "GetLocal"                             , _R_JS                   },
    SetLocal                             : { "SetLocal"                             , _MG                     },
    Flush                                : { "Flush"                                , _MG                     },
    PhantomLocal                         : { "PhantomLocal"                         , _MG                     },
    Jump                                 : { "Jump"                                 , _MG                     },
    Branch                               : { "Branch"                               , _MG                     },
    Return                               : { "Return"                               , _MG                     },
    ValueRep                             : { "ValueRep"                             , _R_JS                   },
    DoubleRep                            : { "DoubleRep"                            , _R_Double               },
    Int52Rep                             : { "Int52Rep"                             , _R_Int52                },
    PurifyNaN                            : { "PurifyNaN"                            , _R_Double               },
    DoubleAsInt32                        : { "DoubleAsInt32"                        , _R_Int32                },
    ValueToInt32                         : { "ValueToInt32"                         , _R_Int32                },
    UInt32ToNumber                       : { "UInt32ToNumber"                       , _R_Number               },
    GlobalIsNaN                          : { "GlobalIsNaN"                          , _R_Boolean              },
    NumberIsNaN                          : { "NumberIsNaN"                          , _R_Boolean              },
    GlobalIsFinite                       : { "GlobalIsFinite"                       , _R_Boolean              },
    NumberIsFinite                       : { "NumberIsFinite"                       , _R_Boolean              },
    NumberIsSafeInteger                  : { "NumberIsSafeInteger"                  , _R_Boolean              },
    ParseInt                             : { "ParseInt"                             , _R_JS                   },
    ToIntegerOrInfinity                  : { "ToIntegerOrInfinity"                  , _R_JS                   },
    ToLength                             : { "ToLength"                             , _R_JS                   },
    ArithFRound                          : { "ArithFRound"                          , _R_Number               },
    ArithF16Round                        : { "ArithF16Round"                        , _R_Number               },
    ArithRound                           : { "ArithRound"                           , _R_Number               },
    ArithFloor                           : { "ArithFloor"                           , _R_Number               },
    ArithCeil                            : { "ArithCeil"                            , _R_Number               },
    ArithTrunc                           : { "ArithTrunc"                           , _R_Number               },
    ArithSqrt                            : { "ArithSqrt"                            , _R_Double               },
    ArithAbs                             : { "ArithAbs"                             , _R_Number               },
    ArithNegate                          : { "ArithNegate"                          , _R_Number               },
    ArithUnary                           : { "ArithUnary"                           , _R_Double               },
    ArithBitOr                           : { "ArithBitOr"                           , _R_Int32                },
    ArithBitXor                          : { "ArithBitXor"                          , _R_Int32                },
    ArithBitAnd                          : { "ArithBitAnd"                          , _R_Int32                },
    ArithBitLShift                       : { "ArithBitLShift"                       , _R_Int32                },
    ArithBitRShift                       : { "ArithBitRShift"                       , _R_Int32                },
    ArithBitURShift                      : { "ArithBitURShift"                      , _R_Int32                },
    ArithAdd                             : { "ArithAdd"                             , _R_Number               },
    ArithSub                             : { "ArithSub"                             , _R_Number               },
    ArithMul                             : { "ArithMul"                             , _R_Number               },
    ArithDiv                             : { "ArithDiv"                             , _R_Number               },
    ArithMod                             : { "ArithMod"                             , _R_Number               },
    ArithPow                             : { "ArithPow"                             , _R_Double               },
    ValueAdd                             : { "ValueAdd"                             , _R_JS | _MG             },
    ValueMul                             : { "ValueMul"                             , _R_JS | _MG             },
    ValueBitOr                           : { "ValueBitOr"                           , _R_JS | _MG             },
    ValueBitAnd                          : { "ValueBitAnd"                          , _R_JS | _MG             },
    ValueBitXor                          : { "ValueBitXor"                          , _R_JS | _MG             },
    MakeRope                             : { "MakeRope"                             , _R_JS                   },
    MakeAtomString                       : { "MakeAtomString"                       , _R_JS                   },
    StrCat                               : { "StrCat"                               , _R_JS | _MG             },
    ToString                             : { "ToString"                             , _R_JS | _MG             },
    CallStringConstructor                : { "CallStringConstructor"                , _R_JS | _MG             },
    NewStringObject                      : { "NewStringObject"                      , _R_JS                   },
    NumberToStringWithRadix              : { "NumberToStringWithRadix"              , _R_JS | _MG             },
    NumberToStringWithValidRadixConstant : { "NumberToStringWithValidRadixConstant" , _R_JS                   },
    StringReplace                        : { "StringReplace"                        , _R_JS | _MG             },
    StringReplaceAll                     : { "StringReplaceAll"                     , _R_JS | _MG             },
    StringReplaceRegExp                  : { "StringReplaceRegExp"                  , _R_JS | _MG             },
    StringReplaceString                  : { "StringReplaceString"                  , _R_JS | _MG             },
    StringSubstring                      : { "StringSubstring"                      , _R_JS                   },
    StringSlice                          : { "StringSlice"                          , _R_JS                   },
    OverridesHasInstance                 : { "OverridesHasInstance"                 , _R_Boolean              },
    GetArrayLength                       : { "GetArrayLength"                       , _R_Int32                },
    GetGlobalObject                      : { "GetGlobalObject"                      , _R_JS                   },
    NewFunction                          : { "NewFunction"                          , _R_JS                   },
    MaterializeNewObject                 : { "MaterializeNewObject"                 , _R_JS | _VA             },
    NewRegExpUntyped                     : { "NewRegExpUntyped"                     , _R_JS | _MG             },
    NewRegExp                            : { "NewRegExp"                            , _R_JS                   },
    RegExpExec                           : { "RegExpExec"                           , _R_JS | _MG             },
    RegExpExecNonGlobalOrSticky          : { "RegExpExecNonGlobalOrSticky"          , _R_JS | _MG             },
    RegExpTest                           : { "RegExpTest"                           , _R_Boolean | _MG        },
    RegExpTestInline                     : { "RegExpTestInline"                     , _R_Boolean | _MG        },
    RegExpSearch                         : { "RegExpSearch"                         , _R_JS | _MG             },
    RegExpMatchFast                      : { "RegExpMatchFast"                      , _R_JS | _MG             },
    RegExpMatchFastGlobal                : { "RegExpMatchFastGlobal"                , _R_JS | _MG             },
    GetRegExpObjectLastIndex             : { "GetRegExpObjectLastIndex"             , _R_JS                   },
    SetRegExpObjectLastIndex             : { "SetRegExpObjectLastIndex"             , _MG                     },
    RecordRegExpCachedResult             : { "RecordRegExpCachedResult"             , _MG | _VA               },
    GetByVal                             : { "GetByVal"                             , _R_JS | _MG | _VA       },
    GetByValMegamorphic                  : { "GetByValMegamorphic"                  , _R_JS | _MG | _VA       },
    PutByVal                             : { "PutByVal"                             , _MG | _VA               },
    PutByValDirect                       : { "PutByValDirect"                       , _MG | _VA               },
    PutByValAlias                        : { "PutByValAlias"                        , _MG | _VA               },
    PutByValMegamorphic                  : { "PutByValMegamorphic"                  , _MG | _VA               },
    InByVal                              : { "InByVal"                              , _R_Boolean | _MG | _VA  },
    InByValMegamorphic                   : { "InByValMegamorphic"                   , _R_Boolean | _MG | _VA  },
    HasOwnProperty                       : { "HasOwnProperty"                       , _R_Boolean | _MG | _VA  },
    CheckInBounds                        : { "CheckInBounds"                        , _R_JS | _MG             },
    CompareStrictEq                      : { "CompareStrictEq"                      , _R_Boolean | _MG        },
    SameValue                            : { "SameValue"                            , _R_Boolean | _MG        },
    CompareEq                            : { "CompareEq"                            , _R_Boolean | _MG        },
    CompareLess                          : { "CompareLess"                          , _R_Boolean | _MG        },
    CompareLessEq                        : { "CompareLessEq"                        , _R_Boolean | _MG        },
    CompareGreater                       : { "CompareGreater"                       , _R_Boolean | _MG        },
    CompareGreaterEq                     : { "CompareGreaterEq"                     , _R_Boolean | _MG        },
    Call                                 : { "Call"                                 , _R_JS | _MG | _VA       },
    Construct                            : { "Construct"                            , _R_JS | _MG | _VA       },
    TailCall                             : { "TailCall"                             , _MG | _VA               },
    TailCallInlinedCaller                : { "TailCallInlinedCaller"                , _R_JS | _MG | _VA       },
    DirectCall                           : { "DirectCall"                           , _R_JS | _MG | _VA       },
    DirectConstruct                      : { "DirectConstruct"                      , _R_JS | _MG | _VA       },
    DirectTailCall                       : { "DirectTailCall"                       , _MG | _VA               },
    DirectTailCallInlinedCaller          : { "DirectTailCallInlinedCaller"          , _R_JS | _MG | _VA       },
    CallWasm                             : { "CallWasm"                             , _R_JS | _MG | _VA       },
}

func (self Op) String() string {
    if self < _OpCount && opTab[self].name != "" {
        return opTab[self].name
    } else {
        return fmt.Sprintf("Op(%d)", self)
    }
}

// DefaultFlags returns the flags a freshly created node of this op carries.
func (self Op) DefaultFlags() NodeFlags {
    return opTab[self].flags
}

// HasVarArgs reports whether nodes of this op address their children in the
// graph's vararg buffer.
func (self Op) HasVarArgs() bool {
    return opTab[self].flags & NodeHasVarArgs != 0
}

func (self Op) IsConstant() bool {
    return self == JSConstant || self == DoubleConstant || self == Int52Constant
}
