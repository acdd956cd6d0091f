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
    `testing`

    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/rt`
    `github.com/stretchr/testify/require`
)

func mustFlags(t *testing.T, s string) rt.RegExpFlags {
    fl, ok := rt.ParseRegExpFlags(s)
    require.True(t, ok, s)
    return fl
}

// regExpObject is a constant RegExpObject for pattern and flags.
func (self *testGraph) regExpObject(pattern string, flags string) (*dfg.Node, *rt.RegExp) {
    re := rt.NewRegExp(pattern, mustFlags(self.t, flags))
    require.NoError(self.t, re.Err())
    return self.cell(rt.NewRegExpObject(self.global, re)), re
}

func (self *testGraph) regExpOp(op dfg.Op, object *dfg.Node, subject *dfg.Node) *dfg.Node {
    gl := self.cell(self.global)
    return self.add(op, dfg.SpecFullTop, dfg.OpInfo{}, edge(gl, dfg.KnownCellUse), edge(object, dfg.RegExpObjectUse), edge(subject, dfg.StringUse))
}

func (self *testGraph) nodesOf(op dfg.Op) []*dfg.Node {
    var ret []*dfg.Node
    for _, nb := range self.bb.Nodes() {
        if nb.Op() == op {
            ret = append(ret, nb)
        }
    }
    return ret
}

func TestRegExpTest_Fold(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("b+", "")
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("abbbc"))
    require.True(t, g.runValid())
    require.Equal(t, dfg.JSConstant, n.Op())
    require.Equal(t, rt.Bool(true), n.AsJSValue())
    require.False(t, n.Origin.ExitOK)

    /* the cached result is recorded */
    rec := g.find(dfg.RecordRegExpCachedResult)
    require.NotNil(t, rec)
    require.Equal(t, 5, rec.NumChildren())
    require.Equal(t, int32(1), g.Child(rec, 3).Node().AsInt32())
    require.Equal(t, int32(4), g.Child(rec, 4).Node().AsInt32())

    /* lastIndex is checked since the regexp is not global */
    require.Equal(t, 1, g.count(dfg.GetRegExpObjectLastIndex))
    require.Equal(t, 0, g.count(dfg.SetRegExpObjectLastIndex))

    /* and the fold is guarded */
    require.True(t, g.Watchpoints().Contains(g.global.HavingABadTimeWatchpointSet()))
    require.True(t, g.Watchpoints().Contains(g.global.RegExpRecompiledWatchpointSet()))
}

func TestRegExpTest_NoMatch(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("x", "")
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("abc"))
    require.True(t, g.runValid())
    require.Equal(t, rt.Bool(false), n.AsJSValue())
    require.Equal(t, 0, g.count(dfg.RecordRegExpCachedResult))
}

func TestRegExpSearch_Fold(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("c", "i")
    n1 := g.regExpOp(dfg.RegExpSearch, ro, g.str("abC"))
    n2 := g.regExpOp(dfg.RegExpSearch, ro, g.str("😀c"))
    n3 := g.regExpOp(dfg.RegExpSearch, ro, g.str("xyz"))
    require.True(t, g.runValid())
    require.Equal(t, rt.Int32(2), n1.AsJSValue())
    require.Equal(t, rt.Int32(2), n2.AsJSValue())
    require.Equal(t, rt.Int32(-1), n3.AsJSValue())
}

func TestRegExpExec_Materializes(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("(a)(x)?b", "")
    s := g.str("zab")
    n := g.regExpOp(dfg.RegExpExec, ro, s)
    require.True(t, g.runValid())

    /* the node forwards the allocation */
    mat := g.find(dfg.MaterializeNewObject)
    require.NotNil(t, mat)
    require.Equal(t, dfg.Identity, n.Op())
    require.Equal(t, mat, n.Child1().Node())

    /* structure, lengths, index, input, groups, then the elements */
    require.Equal(t, 9, mat.NumChildren())
    require.Same(t, g.global.RegExpMatchesArrayStructure(), g.Child(mat, 0).Node().AsCell())
    require.Equal(t, int32(3), g.Child(mat, 1).Node().AsInt32())
    require.Equal(t, int32(1), g.Child(mat, 3).Node().AsInt32())
    require.Equal(t, s, g.Child(mat, 4).Node())
    require.True(t, g.Child(mat, 5).Node().AsJSValue().IsUndefined())
    require.Equal(t, "ab", g.lazyString(g.Child(mat, 6).Node()))
    require.Equal(t, "a", g.lazyString(g.Child(mat, 7).Node()))
    require.True(t, g.Child(mat, 8).Node().AsJSValue().IsUndefined())

    /* one descriptor per property */
    props := mat.Materialization().Properties
    require.Len(t, props, 8)
    require.Equal(t, dfg.PublicLengthPLoc, props[0].Kind)
    require.Equal(t, dfg.IndexedPropertyPLoc, props[7].Kind)
    require.Equal(t, uint32(2), props[7].Info)
}

func TestRegExpExec_MatchArray(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("ab+", "")
    s := g.str("xxabbby")
    n := g.regExpOp(dfg.RegExpExec, ro, s)
    require.True(t, g.runValid())

    /* ["abbb"] at index 2 */
    mat := g.find(dfg.MaterializeNewObject)
    require.NotNil(t, mat)
    require.Equal(t, dfg.Identity, n.Op())
    require.Equal(t, mat, n.Child1().Node())
    require.Equal(t, 7, mat.NumChildren())
    require.Equal(t, int32(1), g.Child(mat, 1).Node().AsInt32())
    require.Equal(t, int32(2), g.Child(mat, 3).Node().AsInt32())
    require.Equal(t, s, g.Child(mat, 4).Node())
    require.Equal(t, "abbb", g.lazyString(g.Child(mat, 6).Node()))

    /* lastIndex is left alone */
    require.Equal(t, 0, g.count(dfg.SetRegExpObjectLastIndex))
}

func TestRegExpExec_EmptyCapture(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("a()", "")
    g.regExpOp(dfg.RegExpExec, ro, g.str("a"))
    require.True(t, g.runValid())
    mat := g.find(dfg.MaterializeNewObject)
    require.NotNil(t, mat)
    require.Same(t, g.vm.SmallStrings.Empty, g.Child(mat, 7).Node().AsCell())
}

func TestRegExpExec_NoMatch(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("q", "")
    n := g.regExpOp(dfg.RegExpExec, ro, g.str("abc"))
    require.True(t, g.runValid())
    require.True(t, n.AsJSValue().IsNull())
}

func TestRegExpExec_NamedCapturesBecomeStatic(t *testing.T) {
    g := newTestGraph(t)
    ro, re := g.regExpObject("(?<x>a)", "")
    require.True(t, re.HasNamedCaptures())
    n := g.regExpOp(dfg.RegExpExec, ro, g.str("a"))
    require.True(t, g.runValid())
    require.Equal(t, dfg.RegExpExecNonGlobalOrSticky, n.Op())
    require.Equal(t, 0, g.count(dfg.MaterializeNewObject))
}

func TestRegExpExec_ConvertToStatic(t *testing.T) {
    g := newTestGraph(t)
    ro, re := g.regExpObject("a", "")
    x := g.local(0, dfg.SpecString)
    n := g.regExpOp(dfg.RegExpExec, ro, x)
    require.True(t, g.runValid())
    require.Equal(t, dfg.RegExpExecNonGlobalOrSticky, n.Op())
    require.Same(t, re, n.CellOperand())
    require.Equal(t, dfg.KnownCellUse, n.Child1().UseKind())
    require.Equal(t, x, n.Child2().Node())
    require.Equal(t, dfg.KnownStringUse, n.Child2().UseKind())
    require.Equal(t, 1, g.count(dfg.GetRegExpObjectLastIndex))

    /* the checks that were dropped from the node */
    var kinds []dfg.UseKind
    for _, chk := range g.nodesOf(dfg.Check) {
        g.ForEachChild(chk, func(e *dfg.Edge) {
            kinds = append(kinds, e.UseKind())
        })
    }
    require.Contains(t, kinds, dfg.RegExpObjectUse)
    require.Contains(t, kinds, dfg.StringUse)
    require.Contains(t, kinds, dfg.Int32Use)

    /* and nothing to do after that */
    require.False(t, g.run())
}

func TestRegExpTest_GlobalKnownLastIndex(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("o", "g")
    g.add(dfg.SetRegExpObjectLastIndex, dfg.SpecNone, dfg.OpInfo{}, edge(ro, dfg.RegExpObjectUse), edge(g.int32(5), dfg.UntypedUse))
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("foo boo"))
    require.True(t, g.runValid())
    require.Equal(t, rt.Bool(true), n.AsJSValue())

    /* lastIndex moves past the match */
    sets := g.nodesOf(dfg.SetRegExpObjectLastIndex)
    require.Len(t, sets, 2)
    require.Equal(t, int32(6), sets[1].Child2().Node().AsInt32())
    require.Equal(t, 0, g.count(dfg.GetRegExpObjectLastIndex))
}

func TestRegExpTest_GlobalAdvancesLastIndex(t *testing.T) {
    g := newTestGraph(t)
    ro, re := g.regExpObject("ab+", "g")
    s := g.str("ab ab")
    g.add(dfg.SetRegExpObjectLastIndex, dfg.SpecNone, dfg.OpInfo{}, edge(ro, dfg.RegExpObjectUse), edge(g.int32(0), dfg.UntypedUse))
    n1 := g.regExpOp(dfg.RegExpTest, ro, s)
    n2 := g.regExpOp(dfg.RegExpTest, ro, s)
    n3 := g.regExpOp(dfg.RegExpTest, ro, s)
    require.True(t, g.runValid())

    /* two matches, then a miss */
    require.Equal(t, rt.Bool(true), n1.AsJSValue())
    require.Equal(t, rt.Bool(true), n2.AsJSValue())
    require.Equal(t, rt.Bool(false), n3.AsJSValue())

    /* lastIndex follows the runtime loop */
    var want []int32
    for last, i := 0, 0; i < 3; i++ {
        res, ok := re.MatchConcurrently("ab ab", last)
        require.True(t, ok)
        if last = 0; res.Found() {
            last = res.End
        }
        want = append(want, int32(last))
    }
    require.Equal(t, []int32 { 2, 5, 0 }, want)

    /* one store per fold after the initial one */
    sets := g.nodesOf(dfg.SetRegExpObjectLastIndex)
    require.Len(t, sets, 4)
    for i, w := range want {
        require.Equal(t, w, sets[i + 1].Child2().Node().AsInt32())
    }
    require.Equal(t, 0, g.count(dfg.GetRegExpObjectLastIndex))
}

func TestRegExpTest_GlobalMissResetsLastIndex(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("z", "y")
    g.add(dfg.SetRegExpObjectLastIndex, dfg.SpecNone, dfg.OpInfo{}, edge(ro, dfg.RegExpObjectUse), edge(g.int32(1), dfg.UntypedUse))
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("zz"))
    require.True(t, g.runValid())

    /* sticky matches at lastIndex only */
    require.Equal(t, rt.Bool(true), n.AsJSValue())
    sets := g.nodesOf(dfg.SetRegExpObjectLastIndex)
    require.Equal(t, int32(2), sets[1].Child2().Node().AsInt32())

    /* and fails anywhere else */
    h := newTestGraph(t)
    ro, _ = h.regExpObject("z", "y")
    h.add(dfg.SetRegExpObjectLastIndex, dfg.SpecNone, dfg.OpInfo{}, edge(ro, dfg.RegExpObjectUse), edge(h.int32(0), dfg.UntypedUse))
    m := h.regExpOp(dfg.RegExpTest, ro, h.str("az"))
    require.True(t, h.runValid())
    require.Equal(t, rt.Bool(false), m.AsJSValue())
    sets = h.nodesOf(dfg.SetRegExpObjectLastIndex)
    require.Equal(t, int32(0), sets[1].Child2().Node().AsInt32())
}

func TestRegExpTest_GlobalUnknownLastIndex(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("o", "g")
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("foo"))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
}

func TestRegExpTest_Clobbered(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("o", "g")
    g.add(dfg.SetRegExpObjectLastIndex, dfg.SpecNone, dfg.OpInfo{}, edge(ro, dfg.RegExpObjectUse), edge(g.int32(0), dfg.UntypedUse))
    g.addVarArgs(dfg.Call, dfg.SpecFullTop, dfg.OpInfo{}, edge(g.local(0, dfg.SpecFunction), dfg.UntypedUse))
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("foo"))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
}

func TestRegExpTest_NewRegExpAllocation(t *testing.T) {
    g := newTestGraph(t)
    re := rt.NewRegExp("a", mustFlags(t, "g"))
    obj := g.add(dfg.NewRegExp, dfg.SpecRegExpObject, dfg.OpInfo { Constant: g.FreezeStrong(rt.CellValue(re)) }, edge(g.int32(0), dfg.UntypedUse))
    n := g.regExpOp(dfg.RegExpTest, obj, g.str("banana"))
    require.True(t, g.runValid())

    /* a fresh object starts at zero */
    require.Equal(t, rt.Bool(true), n.AsJSValue())
    sets := g.nodesOf(dfg.SetRegExpObjectLastIndex)
    require.Len(t, sets, 1)
    require.Equal(t, obj, sets[0].Child1().Node())
    require.Equal(t, int32(2), sets[0].Child2().Node().AsInt32())
}

func TestRegExpTest_LastIndexExitedBefore(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("b", "")
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("abc"))
    g.AddExitSite(n.Origin.Semantic, dfg.BadType)
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
}

func TestRegExpTest_NonInt32LastIndex(t *testing.T) {
    g := newTestGraph(t)
    obj := rt.NewRegExpObject(g.global, rt.NewRegExp("b", 0))
    obj.SetLastIndex(rt.Double(1.5))
    n := g.regExpOp(dfg.RegExpTest, g.cell(obj), g.str("abc"))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
}

func TestRegExp_HavingABadTime(t *testing.T) {
    g := newTestGraph(t)
    g.global.HaveABadTime()
    ro, _ := g.regExpObject("b", "")
    n := g.regExpOp(dfg.RegExpTest, ro, g.str("abc"))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
}

func TestRegExp_Recompiled(t *testing.T) {
    g := newTestGraph(t)
    g.global.RecompileRegExps()
    ro, _ := g.regExpObject("b", "")
    n := g.regExpOp(dfg.RegExpExec, ro, g.str("abc"))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpExec, n.Op())
    require.Equal(t, 1, g.logs.FilterMessage("giving up: regexps were recompiled").Len())
}

func TestRegExp_UnlinkedForeignRealm(t *testing.T) {
    g := newTestGraphWithPlan(t, dfg.Plan { Mode: dfg.FTLMode, Unlinked: true })
    other := rt.NewGlobalObject()
    ro, _ := g.regExpObject("b", "")
    n := g.add(dfg.RegExpTest, dfg.SpecBoolean, dfg.OpInfo{}, edge(g.cell(other), dfg.KnownCellUse), edge(ro, dfg.RegExpObjectUse), edge(g.str("abc"), dfg.StringUse))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
}

func TestNewRegExpUntyped(t *testing.T) {
    g := newTestGraph(t)
    re := g.vm.RegExpCache.Create("a+", mustFlags(t, "gi"))
    hit := g.add(dfg.NewRegExpUntyped, dfg.SpecRegExpObject, dfg.OpInfo{}, edge(g.str("a+"), dfg.StringUse), edge(g.str("gi"), dfg.StringUse))
    miss := g.add(dfg.NewRegExpUntyped, dfg.SpecRegExpObject, dfg.OpInfo{}, edge(g.str("b+"), dfg.StringUse), edge(g.str("g"), dfg.StringUse))
    bad := g.add(dfg.NewRegExpUntyped, dfg.SpecRegExpObject, dfg.OpInfo{}, edge(g.str("a+"), dfg.StringUse), edge(g.str("gg"), dfg.StringUse))
    require.True(t, g.runValid())

    /* allocated from the cached regexp */
    require.Equal(t, dfg.NewRegExp, hit.Op())
    require.Same(t, re, hit.CellOperand())
    require.Equal(t, int32(0), hit.Child1().Node().AsInt32())

    /* the others are left alone */
    require.Equal(t, dfg.NewRegExpUntyped, miss.Op())
    require.Equal(t, dfg.NewRegExpUntyped, bad.Op())
}

func TestRegExpMatchFast_Global(t *testing.T) {
    g := newTestGraph(t)
    ro, re := g.regExpObject("a", "g")
    x := g.local(0, dfg.SpecString)
    n := g.regExpOp(dfg.RegExpMatchFast, ro, x)
    require.True(t, g.runValid())
    require.Equal(t, dfg.RegExpMatchFastGlobal, n.Op())
    require.Same(t, re, n.CellOperand())
    require.Equal(t, x, n.Child2().Node())
    require.Equal(t, dfg.KnownStringUse, n.Child2().UseKind())
    require.False(t, n.Origin.ExitOK)

    /* lastIndex is reset first */
    sets := g.nodesOf(dfg.SetRegExpObjectLastIndex)
    require.Len(t, sets, 1)
    require.Equal(t, int32(0), sets[0].Child2().Node().AsInt32())
}

func TestRegExpMatchFast_NonGlobal(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("a", "")
    n := g.regExpOp(dfg.RegExpMatchFast, ro, g.str("cat"))
    require.True(t, g.runValid())
    require.Equal(t, dfg.Identity, n.Op())
    require.NotNil(t, g.find(dfg.MaterializeNewObject))
}

func TestRegExpMatchFast_GlobalSticky(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("a", "gy")
    n := g.regExpOp(dfg.RegExpMatchFast, ro, g.local(0, dfg.SpecString))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpMatchFast, n.Op())
}

func inlinable(re *rt.RegExp, size uint32, stack uint32) {
    re.SetJITCode(&rt.RegExpJITCode {
        Inline8Bit: rt.InlineStats {
            CanInline : true,
            CodeSize  : size,
            StackSize : stack,
        },
    })
}

func TestRegExpTest_Inline(t *testing.T) {
    g := newTestGraph(t)
    ro, re := g.regExpObject("abc", "")
    inlinable(re, 100, 40)
    n := g.regExpOp(dfg.RegExpTest, ro, g.local(0, dfg.SpecString))
    require.True(t, g.runValid())
    require.Equal(t, dfg.RegExpTestInline, n.Op())
    require.Same(t, g.global, n.CellOperand())
    require.Same(t, re, n.CellOperand2())
    require.Equal(t, 6, g.ParameterSlots)
}

func TestRegExpTest_InlineTooLarge(t *testing.T) {
    g := newTestGraph(t)
    ro, re := g.regExpObject("abc", "")
    inlinable(re, 600, 40)
    n := g.regExpOp(dfg.RegExpTest, ro, g.local(0, dfg.SpecString))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
    require.Equal(t, 0, g.ParameterSlots)
}

func TestRegExpTest_InlineUnicode(t *testing.T) {
    g := newTestGraph(t)
    ro, re := g.regExpObject("abc", "u")
    inlinable(re, 100, 0)
    n := g.regExpOp(dfg.RegExpTest, ro, g.local(0, dfg.SpecString))
    require.False(t, g.run())
    require.Equal(t, dfg.RegExpTest, n.Op())
}

func (self *testGraph) replace(op dfg.Op, subject *dfg.Node, object *dfg.Node, repl string) *dfg.Node {
    return self.add(op, dfg.SpecString, dfg.OpInfo{}, edge(subject, dfg.StringUse), edge(object, dfg.RegExpObjectUse), edge(self.str(repl), dfg.StringUse))
}

func TestStringReplace_Fold(t *testing.T) {
    for _, tc := range []struct {
        subject string
        pattern string
        flags   string
        repl    string
        want    string
    } {
        { "aXbX"   , "X"     , "g" , "-"     , "a-b-"      },
        { "aXbX"   , "X"     , ""  , "-"     , "a-bX"      },
        { "abc"    , "b"     , ""  , "[$&]"  , "a[b]c"     },
        { "abc"    , "b"     , ""  , "$`$'"  , "aacc"      },
        { "a1b2"   , "(\\d)" , "g" , "<$1>"  , "a<1>b<2>"  },
        { "abc"    , "x*"    , "g" , "-"     , "-a-b-c-"   },
        { "banana" , "a"     , "g" , ""      , "bnn"       },
        { "😀a😀"  , "a"     , ""  , "b"     , "😀b😀"     },
    } {
        g := newTestGraph(t)
        ro, _ := g.regExpObject(tc.pattern, tc.flags)
        n := g.replace(dfg.StringReplace, g.str(tc.subject), ro, tc.repl)
        require.True(t, g.runValid(), "%q.replace(/%s/%s, %q)", tc.subject, tc.pattern, tc.flags, tc.repl)
        require.Equal(t, tc.want, g.lazyString(n))

        /* global regexps end with lastIndex at zero */
        if tc.flags == "g" {
            require.Equal(t, 1, g.count(dfg.SetRegExpObjectLastIndex))
        } else {
            require.Equal(t, 0, g.count(dfg.SetRegExpObjectLastIndex))
        }
    }
}

func TestStringReplace_NothingReplaced(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("z", "")
    s := g.str("abc")
    n := g.replace(dfg.StringReplaceRegExp, s, ro, "-")
    require.True(t, g.runValid())
    require.Equal(t, dfg.Identity, n.Op())
    require.Equal(t, s, n.Child1().Node())
}

func TestStringReplace_NamedCaptures(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("(?<d>\\d)", "g")
    n := g.replace(dfg.StringReplaceAll, g.str("a1"), ro, "-")
    require.False(t, g.run())
    require.Equal(t, dfg.StringReplaceAll, n.Op())
}

func TestStringReplace_TooLong(t *testing.T) {
    g := newTestGraph(t)
    g.opts.MaxStringLength = 8
    ro, _ := g.regExpObject("a", "g")
    n := g.replace(dfg.StringReplace, g.str("aaaa"), ro, "xyz")
    require.False(t, g.run())
    require.Equal(t, dfg.StringReplace, n.Op())
}

func TestStringReplace_DynamicSubject(t *testing.T) {
    g := newTestGraph(t)
    ro, _ := g.regExpObject("a", "g")
    n := g.replace(dfg.StringReplace, g.local(0, dfg.SpecString), ro, "b")
    require.False(t, g.run())
    require.Equal(t, dfg.StringReplace, n.Op())
}
