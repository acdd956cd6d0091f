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
    `math`
    `sync`
    `testing`

    `github.com/stretchr/testify/require`
)

func TestRegExpFlags_Parse(t *testing.T) {
    tests := []struct {
        in   string
        want RegExpFlags
        ok   bool
    } {
        { ""     , 0                                 , true  },
        { "g"    , FlagGlobal                        , true  },
        { "gimsy", FlagGlobal | FlagIgnoreCase | FlagMultiline | FlagDotAll | FlagSticky, true },
        { "dv"   , FlagHasIndices | FlagUnicodeSets  , true  },
        { "gg"   , 0                                 , false },
        { "x"    , 0                                 , false },
        { "uv"   , 0                                 , false },
    }
    for _, tc := range tests {
        t.Run(tc.in, func(t *testing.T) {
            fl, ok := ParseRegExpFlags(tc.in)
            require.Equal(t, tc.ok, ok)
            require.Equal(t, tc.want, fl)
        })
    }
}

func TestRegExpFlags_String(t *testing.T) {
    fl, ok := ParseRegExpFlags("ygdi")
    require.True(t, ok)
    require.Equal(t, "dgiy", fl.String())
}

func TestRegExp_Compile(t *testing.T) {
    re := NewRegExp(`(a)(b)?c`, 0)
    require.True(t, re.IsValid())
    require.Equal(t, 2, re.NumSubpatterns())
    require.False(t, re.HasNamedCaptures())

    /* named groups */
    named := NewRegExp(`(?<year>\d+)-(\d+)`, 0)
    require.True(t, named.IsValid())
    require.Equal(t, 2, named.NumSubpatterns())
    require.True(t, named.HasNamedCaptures())

    /* a broken pattern never matches */
    bad := NewRegExp(`(`, FlagGlobal)
    require.False(t, bad.IsValid())
    require.Error(t, bad.Err())
    _, ok := bad.MatchConcurrently("(", 0)
    require.False(t, ok)
}

func TestRegExp_MatchUTF16Offsets(t *testing.T) {
    re := NewRegExp(`a(b)`, 0)
    pos, ovec, ok := re.MatchConcurrentlyWithOvector("\U0001F600ab", 0)
    require.True(t, ok)
    require.Equal(t, 2, pos)
    require.Equal(t, []int { 2, 4, 3, 4 }, ovec)

    /* a start between the halves of a pair rounds up */
    res, ok := re.MatchConcurrently("\U0001F600ab", 1)
    require.True(t, ok)
    require.Equal(t, MatchResult { Start: 2, End: 4 }, res)
    require.True(t, res.Found())
    require.False(t, res.Empty())
}

func TestRegExp_UnmatchedGroups(t *testing.T) {
    re := NewRegExp(`(a)|(b)`, 0)
    _, ovec, ok := re.MatchConcurrentlyWithOvector("b", 0)
    require.True(t, ok)
    require.Equal(t, []int { 0, 1, -1, -1, 0, 1 }, ovec)
}

func TestRegExp_NoMatch(t *testing.T) {
    re := NewRegExp(`z`, 0)
    res, ok := re.MatchConcurrently("abc", 0)
    require.True(t, ok)
    require.False(t, res.Found())

    /* starting past the end */
    pos, ovec, ok := re.MatchConcurrentlyWithOvector("abc", 4)
    require.True(t, ok)
    require.Equal(t, -1, pos)
    require.Nil(t, ovec)
}

func TestRegExp_Sticky(t *testing.T) {
    re := NewRegExp(`b`, FlagSticky)
    require.True(t, re.Sticky())
    require.True(t, re.GlobalOrSticky())

    /* only a match exactly at the start counts */
    res, ok := re.MatchConcurrently("ab", 0)
    require.True(t, ok)
    require.False(t, res.Found())
    res, ok = re.MatchConcurrently("ab", 1)
    require.True(t, ok)
    require.Equal(t, MatchResult { Start: 1, End: 2 }, res)
}

func TestRegExp_Flags(t *testing.T) {
    re := NewRegExp(`^B.`, FlagIgnoreCase | FlagMultiline | FlagDotAll)
    res, ok := re.MatchConcurrently("a\nb\n", 0)
    require.True(t, ok)
    require.Equal(t, MatchResult { Start: 2, End: 4 }, res)
    require.Equal(t, "ims", re.Flags().String())
    require.Equal(t, `^B.`, re.Pattern())
}

func TestRegExpCache(t *testing.T) {
    vm := NewVM()
    require.Nil(t, vm.RegExpCache.Lookup("a", FlagGlobal))

    /* created once, then shared */
    re := vm.RegExpCache.Create("a", FlagGlobal)
    require.Same(t, re, vm.RegExpCache.Create("a", FlagGlobal))
    require.Same(t, re, vm.RegExpCache.Lookup("a", FlagGlobal))
    require.NotSame(t, re, vm.RegExpCache.Create("a", 0))
}

func TestRegExpCache_Concurrent(t *testing.T) {
    vm := NewVM()
    wg := sync.WaitGroup{}
    res := make([]*RegExp, 16)
    for i := range res {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            res[i] = vm.RegExpCache.Create(`x+`, 0)
            vm.RegExpCache.Lookup(`x+`, 0)
        }(i)
    }
    wg.Wait()
    for _, re := range res {
        require.Same(t, res[0], re)
    }
}

func TestRegExpObject_LastIndex(t *testing.T) {
    global := NewGlobalObject()
    obj := NewRegExpObject(global, NewRegExp(`a`, FlagGlobal))
    require.Equal(t, Int32(0), obj.LastIndex())
    obj.SetLastIndex(Double(1.5))
    require.Equal(t, 1.5, obj.LastIndex().AsNumber())
    require.Same(t, global, obj.GlobalObject())
    require.True(t, CellValue(obj).IsObject())
}

func TestValue_Number(t *testing.T) {
    require.True(t, Number(3).IsInt32())
    require.True(t, Number(3.5).IsDouble())
    require.True(t, Number(math.Copysign(0, -1)).IsDouble())
    require.True(t, Number(1 << 31).IsDouble())
    require.True(t, Double(3).IsDouble())
    require.Equal(t, int32(-7), Int32(-7).AsInt32())
    require.Panics(t, func() { Double(1).AsInt32() })
    require.Panics(t, func() { CellValue(nil) })
}

func TestValue_Strings(t *testing.T) {
    v := CellValue(NewString("hi"))
    s, ok := v.AsString()
    require.True(t, ok)
    require.Equal(t, "hi", s)
    require.True(t, v.IsString())
    require.False(t, v.IsObject())
    _, ok = Int32(1).AsString()
    require.False(t, ok)
    require.Equal(t, "Int32: 1", Int32(1).String())
    require.Equal(t, "undefined", Undefined().String())
    require.True(t, Null().IsUndefinedOrNull())
}

func TestSmallStrings(t *testing.T) {
    vm := NewVM()
    require.Equal(t, "", vm.SmallStrings.Empty.Value())
    require.Equal(t, "null", vm.SmallStrings.Null.Value())
    require.Equal(t, "undefined", vm.SmallStrings.Undefined.Value())
}

func TestGlobalObject_BadTime(t *testing.T) {
    global := NewGlobalObject()
    require.False(t, global.IsHavingABadTime())
    require.Equal(t, ArrayWithContiguous, global.RegExpMatchesArrayStructure().IndexingType)
    global.HaveABadTime()
    require.True(t, global.IsHavingABadTime())
    require.False(t, global.HavingABadTimeWatchpointSet().IsStillValid())
    require.Equal(t, ArrayWithSlowPutArrayStorage, global.RegExpMatchesArrayStructure().IndexingType)

    /* recompilation is tracked separately */
    require.False(t, global.IsRegExpRecompiled())
    global.RecompileRegExps()
    require.True(t, global.IsRegExpRecompiled())
}

func TestBoundFunction(t *testing.T) {
    global := NewGlobalObject()
    target := NewFunction(global, &FunctionExecutable { Name: "f", ParameterCount: 2 })
    bound := NewBoundFunction(global, target, Int32(1), Int32(2), Int32(3))
    require.Same(t, target, bound.TargetFunction())
    require.Equal(t, Int32(1), bound.BoundThis())
    require.Equal(t, 2, bound.BoundArgsLength())
    require.Equal(t, BoundFunctionCallIntrinsic, bound.Executable().Intrinsic())

    /* visiting stops early */
    var seen []Value
    bound.ForEachBoundArg(func(v Value) bool {
        seen = append(seen, v)
        return false
    })
    require.Equal(t, []Value { Int32(2) }, seen)
}

func TestWasmSignature(t *testing.T) {
    sig := &WasmSignature {
        Args    : []WasmType { { Kind: WasmI32 }, { Kind: WasmRefNull, Heap: HeapExtern } },
        Results : []WasmType { { Kind: WasmF64 } },
    }
    require.Equal(t, 2, sig.ArgumentCount())
    require.Equal(t, 1, sig.ReturnCount())
    require.False(t, sig.ReturnsVoid())
    require.False(t, sig.ArgumentsOrResultsIncludeV128())
    require.False(t, sig.ArgumentsOrResultsIncludeExnref())
    require.True(t, sig.Args[1].IsExternref())
    require.True(t, sig.Args[1].IsNullable())

    /* exnref hides behind a typed reference too */
    sig.Results = append(sig.Results, WasmType { Kind: WasmRef, Heap: HeapExn })
    require.True(t, sig.ArgumentsOrResultsIncludeExnref())
    require.False(t, sig.Results[1].IsNullable())
}

func TestOptimalContiguousVectorLength(t *testing.T) {
    s := &Structure { Name: "Array", IndexingType: ArrayWithContiguous }
    require.Equal(t, 5, OptimalContiguousVectorLength(s, 0))
    require.Equal(t, 3, OptimalContiguousVectorLength(s, 1))
    require.Equal(t, 9, OptimalContiguousVectorLength(s, 9))
    require.Equal(t, 13, OptimalContiguousVectorLength(s, 10))

    /* out-of-line properties share the cell */
    s.Properties = []string { "index", "input" }
    require.GreaterOrEqual(t, OptimalContiguousVectorLength(s, 10), 10)
}
