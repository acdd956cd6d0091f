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
    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/internal/jsstr`
    `github.com/cloudwego/dfgopt/rt`
    `go.uber.org/zap`
)

// MaxFoldableSubpatterns bounds the number of capture groups of a regexp the
// phase is willing to evaluate at compile time.
const MaxFoldableSubpatterns = 1000

func (self *Phase) handleNewRegExpUntyped() {
    if self.node.Child1().UseKind() != dfg.StringUse || self.node.Child2().UseKind() != dfg.StringUse {
        return
    }

    /* both the pattern and the flags must be known */
    pattern, ok := self.node.Child1().Node().TryGetString()
    if !ok {
        return
    }
    flags, ok := self.node.Child2().Node().TryGetString()
    if !ok {
        return
    }

    /* the flags must parse */
    fl, ok := rt.ParseRegExpFlags(flags)
    if !ok {
        self.giveUp("invalid regexp flags", zap.String("flags", flags))
        return
    }

    /* only regexps the runtime already compiled */
    re := self.g.VM().RegExpCache.Lookup(pattern, fl)
    if re == nil {
        self.giveUp("regexp is not cached", zap.String("pattern", pattern))
        return
    }

    /* allocate from the compiled regexp */
    idx := self.ins.InsertConstantForUse(self.nodeIndex, self.node.Origin, rt.Int32(0), dfg.UntypedUse)
    self.node.ConvertToNewRegExp(self.g.FreezeStrong(rt.CellValue(re)), idx)
    self.changed = true
}

// regExpFold is the state of a single regexp node being reduced.
type regExpFold struct {
    *Phase
    global         *rt.GlobalObject
    object         *dfg.Node
    regExp         *rt.RegExp
    isConstant     bool
    lastIndex      int
    checkLastIndex bool
}

// regExpSource resolves the regexp behind a RegExpObject operand: a constant
// object, or a NewRegExp allocation in the graph.
func (self *Phase) regExpSource(object *dfg.Node) (*rt.RegExp, bool, bool) {
    var re *rt.RegExp
    var global *rt.GlobalObject

    /* find the regexp and its realm */
    if obj, ok := dfg.DynamicCastConstant[*rt.RegExpObject](object); ok {
        re, global = obj.RegExp(), obj.GlobalObject()
    } else if object.Op() == dfg.NewRegExp {
        re, global = object.CellOperand().(*rt.RegExp), self.g.GlobalObjectFor(object.Origin.Semantic)
    } else {
        self.giveUp("the regexp is unknown")
        return nil, false, false
    }

    /* the compiled code must stay valid */
    if global.IsRegExpRecompiled() {
        self.giveUp("regexps were recompiled")
        return nil, false, false
    }

    /* fold under the assumption that they will not be */
    self.g.Watchpoints().AddLazily(global.RegExpRecompiledWatchpointSet())
    return re, object.IsConstant(), true
}

func (self *Phase) handleRegExp() {
    global, ok := dfg.DynamicCastConstant[*rt.GlobalObject](self.node.Child1().Node())
    if !ok {
        self.giveUp("no global object")
        return
    }

    /* arrays may not be what they seem */
    if global.IsHavingABadTime() {
        self.giveUp("having a bad time")
        return
    }

    /* unlinked code cannot embed a foreign realm */
    if self.g.Plan.IsUnlinked() && global != self.g.GlobalObjectFor(self.node.Origin.Semantic) {
        self.giveUp("unlinked code with a foreign global object")
        return
    }

    /* the fold state */
    rf := &regExpFold {
        Phase     : self,
        global    : global,
        lastIndex : -1,
    }

    /* find the regexp */
    if self.node.Op() == dfg.RegExpExecNonGlobalOrSticky {
        rf.regExp = self.node.CellOperand().(*rt.RegExp)
    } else {
        rf.object = self.node.Child2().Node()
        if rf.regExp, rf.isConstant, ok = self.regExpSource(rf.object); !ok {
            return
        }
    }

    /* lower RegExpMatchFast first */
    if self.node.Op() == dfg.RegExpMatchFast {
        if rf.regExp.Global() {
            rf.lowerMatchFastGlobal()
            return
        }
        self.node.SetOp(dfg.RegExpExec)
        self.changed = true
    }

    /* work out the lastIndex the match starts from */
    if self.node.Op() != dfg.RegExpExecNonGlobalOrSticky && !rf.findLastIndex() {
        return
    }
    if !rf.regExp.GlobalOrSticky() {
        rf.lastIndex = 0
    }

    /* try the transforms from the strongest to the weakest */
    if !rf.foldToConstant() && !rf.convertTestToTestInline() {
        rf.convertToStatic()
    }
}

func (self *regExpFold) lowerMatchFastGlobal() {
    if self.regExp.Sticky() {
        return
    }
    if self.node.Child3().UseKind() != dfg.StringUse {
        return
    }

    /* reset lastIndex and match every occurrence */
    origin := self.node.Origin
    self.insertCheck(self.node)
    self.insertSetLastIndex(origin, 0)
    self.node.ConvertToRegExpMatchFastGlobalWithoutChecks(self.g.Freeze(rt.CellValue(self.regExp)))
    self.node.Origin = origin.WithInvalidExit()
    self.changed = true
}

func (self *Phase) insertSetLastIndexOn(object *dfg.Node, origin dfg.NodeOrigin, value int) {
    idx := self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.Int32(int32(value)), dfg.UntypedUse)
    self.ins.InsertNode(self.nodeIndex, dfg.SpecNone, dfg.SetRegExpObjectLastIndex, origin, dfg.OpInfo{}, dfg.NewEdge(object, dfg.RegExpObjectUse), idx)
}

func (self *regExpFold) insertSetLastIndex(origin dfg.NodeOrigin, value int) {
    self.insertSetLastIndexOn(self.object, origin, value)
}

// findLastIndex scans the block backward for the last store to lastIndex.
// When it cannot be proven, a non-global, non-sticky regexp can still be
// folded behind an Int32 check of lastIndex.
func (self *regExpFold) findLastIndex() bool {
    self.executeInsertionSet()
    dfg.ScanBackward(self.block, self.nodeIndex, func(_ int, other *dfg.Node) bool {
        if other == self.object {
            if !self.isConstant {
                self.lastIndex = 0
            }
            return false
        }

        /* a store of a known index */
        if other.Op() == dfg.SetRegExpObjectLastIndex && other.Child1().Node() == self.object {
            if v := other.Child2().Node(); v.IsInt32Constant() && v.AsInt32() >= 0 {
                self.lastIndex = int(v.AsUInt32())
                return false
            }
        }

        /* or anything that may have clobbered it */
        return !dfg.WritesOverlap(self.g, other, dfg.HeapOf(dfg.RegExpObjectLastIndex))
    })

    /* known, nothing else to check */
    if self.lastIndex >= 0 {
        return true
    }

    /* global and sticky regexps depend on the value */
    if self.regExp.GlobalOrSticky() {
        self.giveUp("lastIndex is not known")
        return false
    }

    /* the check has failed before */
    if self.g.HasExitSite(self.node.Origin.Semantic, dfg.BadType) {
        self.giveUp("lastIndex type check may fail")
        return false
    }

    /* a constant object must already hold an int32 */
    if obj, ok := dfg.DynamicCastConstant[*rt.RegExpObject](self.object); ok && !obj.LastIndex().IsInt32() {
        self.giveUp("lastIndex of the constant regexp is not an int32")
        return false
    }

    /* check it at run time */
    self.checkLastIndex = true
    return true
}

func (self *regExpFold) insertLastIndexTypeCheckIfNecessary(origin dfg.NodeOrigin) {
    if self.checkLastIndex {
        li := self.ins.InsertNode(self.nodeIndex, dfg.SpecNone, dfg.GetRegExpObjectLastIndex, origin, dfg.OpInfo{}, dfg.NewEdge(self.object, dfg.RegExpObjectUse))
        self.ins.InsertCheck(self.nodeIndex, origin, dfg.NewEdge(li, dfg.Int32Use))
    }
}

func (self *regExpFold) subject() *dfg.Node {
    if self.node.Op() == dfg.RegExpExecNonGlobalOrSticky {
        return self.node.Child2().Node()
    } else {
        return self.node.Child3().Node()
    }
}

func (self *regExpFold) isExec() bool {
    return self.node.Op() == dfg.RegExpExec || self.node.Op() == dfg.RegExpExecNonGlobalOrSticky
}

// foldToConstant runs the match now and replaces the node with its result,
// keeping the side effects on lastIndex and the cached result.
func (self *regExpFold) foldToConstant() bool {
    str, ok := self.subject().TryGetString()
    if !ok {
        self.giveUp("the string is unknown")
        return false
    }

    /* refuse absurd patterns */
    if self.regExp.NumSubpatterns() > MaxFoldableSubpatterns {
        self.giveUp("too many subpatterns", zap.Int("subpatterns", self.regExp.NumSubpatterns()))
        return false
    }

    /* features the materialization does not model */
    if self.isExec() {
        if self.regExp.HasNamedCaptures() {
            self.giveUp("named capture groups")
            return false
        }
        if self.regExp.HasIndices() {
            self.giveUp("match indices")
            return false
        }
    }

    /* the result array must be contiguous */
    self.g.Watchpoints().AddLazily(self.global.HavingABadTimeWatchpointSet())
    structure := self.global.RegExpMatchesArrayStructure()
    if structure.IndexingType != rt.ArrayWithContiguous {
        self.giveUp("wrong indexing type", zap.Stringer("indexing", structure.IndexingType))
        return false
    }

    /* run the matcher the runtime would run */
    var ovec []int
    var res rt.MatchResult
    self.g.RegisterStructure(structure)
    if self.isExec() {
        if ok = self.matchWithOvector(str, &res, &ovec); !ok {
            self.giveUp("match failed")
            return false
        }
    } else {
        if res, ok = self.regExp.MatchConcurrently(str, self.lastIndex); !ok {
            self.giveUp("match failed")
            return false
        }
    }

    /* committed from here on */
    origin := self.node.Origin
    self.changed = true
    self.insertCheck(self.node)
    self.insertLastIndexTypeCheckIfNecessary(origin)

    /* the value of the node */
    switch self.node.Op() {
        case dfg.RegExpTest: {
            self.g.ConvertToConstant(self.node, rt.Bool(res.Found()))
        }
        case dfg.RegExpSearch: {
            self.g.ConvertToConstant(self.node, rt.Int32(int32(res.Start)))
        }
        default: {
            if !res.Found() {
                self.g.ConvertToConstant(self.node, rt.Null())
            } else {
                self.node.ConvertToIdentityOn(self.materializeMatches(origin, structure, str, res, ovec))
            }
        }
    }

    /* update lastIndex first, it may exit */
    if self.regExp.GlobalOrSticky() {
        end := 0
        if res.Found() {
            end = res.End
        }
        self.insertSetLastIndex(origin, end)
        origin = origin.WithInvalidExit()
    }

    /* then record the cached result */
    if res.Found() {
        self.recordCachedResult(origin, res)
        origin = origin.WithInvalidExit()
    }

    /* the node runs after the side effects */
    self.node.Origin = origin
    return true
}

func (self *regExpFold) matchWithOvector(str string, res *rt.MatchResult, ovec *[]int) bool {
    pos, ov, ok := self.regExp.MatchConcurrentlyWithOvector(str, self.lastIndex)
    if !ok {
        return false
    }

    /* no match */
    if pos < 0 {
        *res = rt.NoMatch
        return true
    }

    /* the whole match is the first pair */
    *ovec = ov
    *res = rt.MatchResult { Start: pos, End: ov[1] }
    return true
}

// materializeMatches builds the array exec would have allocated.
func (self *regExpFold) materializeMatches(origin dfg.NodeOrigin, structure *rt.Structure, str string, res rt.MatchResult, ovec []int) *dfg.Node {
    var vals []*string
    var edges []dfg.Edge

    /* the match and every group, nil for groups that did not participate */
    for i := 0; i <= self.regExp.NumSubpatterns(); i++ {
        if beg := ovec[i * 2]; beg < 0 {
            vals = append(vals, nil)
        } else {
            v := jsstr.Substring(str, beg, ovec[i * 2 + 1] - beg)
            vals = append(vals, &v)
        }
    }

    /* the property names */
    ids := self.g.Identifiers()
    idIndex := ids.Ensure("index")
    idInput := ids.Ensure("input")
    idGroups := ids.Ensure("groups")

    /* the shape of the array */
    pub := len(vals)
    vec := rt.OptimalContiguousVectorLength(structure, pub)
    data := self.g.AddObjectMaterializationData()

    /* the structure, followed by the length fields */
    edges = append(edges, self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.CellValue(structure), dfg.KnownCellUse))
    edges = append(edges, self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.Int32(int32(pub)), dfg.KnownInt32Use))
    edges = append(edges, self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.Int32(int32(vec)), dfg.KnownInt32Use))
    data.Properties = append(data.Properties, dfg.PromotedLocationDescriptor { Kind: dfg.PublicLengthPLoc })
    data.Properties = append(data.Properties, dfg.PromotedLocationDescriptor { Kind: dfg.VectorLengthPLoc })

    /* the named properties */
    edges = append(edges, self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.Int32(int32(res.Start)), dfg.UntypedUse))
    edges = append(edges, dfg.NewEdge(self.subject(), dfg.UntypedUse))
    edges = append(edges, self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.Undefined(), dfg.UntypedUse))
    data.Properties = append(data.Properties, dfg.PromotedLocationDescriptor { Kind: dfg.NamedPropertyPLoc, Info: idIndex })
    data.Properties = append(data.Properties, dfg.PromotedLocationDescriptor { Kind: dfg.NamedPropertyPLoc, Info: idInput })
    data.Properties = append(data.Properties, dfg.PromotedLocationDescriptor { Kind: dfg.NamedPropertyPLoc, Info: idGroups })

    /* the indexed properties */
    for i, v := range vals {
        edges = append(edges, dfg.NewEdge(self.materializeString(origin, v), dfg.UntypedUse))
        data.Properties = append(data.Properties, dfg.PromotedLocationDescriptor { Kind: dfg.IndexedPropertyPLoc, Info: uint32(i) })
    }

    /* allocate the array */
    first, count := self.g.AppendVarArgs(edges...)
    return self.ins.InsertVarArgNode(self.nodeIndex, dfg.SpecArray, dfg.MaterializeNewObject, origin, dfg.OpInfo {
        Structures      : self.g.AddStructureSet(structure),
        Materialization : data,
    }, first, count)
}

func (self *regExpFold) materializeString(origin dfg.NodeOrigin, v *string) *dfg.Node {
    switch {
        case v == nil : return self.ins.InsertConstant(self.nodeIndex, origin, rt.Undefined())
        case *v == "" : return self.ins.InsertCellConstant(self.nodeIndex, origin, self.g.VM().SmallStrings.Empty)
        default       : return self.ins.InsertLazyConstant(self.nodeIndex, origin, dfg.LazyNewString(*v))
    }
}

func (self *regExpFold) recordCachedResult(origin dfg.NodeOrigin, res rt.MatchResult) {
    global := self.g.Freeze(rt.CellValue(self.global))
    regExp := self.g.Freeze(rt.CellValue(self.regExp))

    /* global object, regexp, input and the match range */
    first, count := self.g.AppendVarArgs(
        self.ins.InsertFrozenConstantForUse(self.nodeIndex, origin, global, dfg.KnownCellUse),
        self.ins.InsertFrozenConstantForUse(self.nodeIndex, origin, regExp, dfg.KnownCellUse),
        dfg.NewEdge(self.subject(), dfg.KnownCellUse),
        self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.Int32(int32(res.Start)), dfg.KnownInt32Use),
        self.ins.InsertConstantForUse(self.nodeIndex, origin, rt.Int32(int32(res.End)), dfg.KnownInt32Use),
    )

    /* record it */
    self.ins.InsertVarArgNode(self.nodeIndex, dfg.SpecNone, dfg.RecordRegExpCachedResult, origin, dfg.OpInfo{}, first, count)
}

// convertTestToTestInline switches a test of a small non-global regexp to
// the inlined matcher.
func (self *regExpFold) convertTestToTestInline() bool {
    if self.node.Op() != dfg.RegExpTest {
        return false
    }
    if self.regExp.GlobalOrSticky() || self.regExp.EitherUnicode() {
        return false
    }

    /* the regexp must have inlinable machine code */
    jit := self.regExp.JITCode()
    if jit == nil || !jit.Inline8Bit.CanInline {
        return false
    }

    /* and it must be small enough */
    if !self.o.CanInlineRegExpTest(int(jit.Inline8Bit.CodeSize)) {
        self.giveUp("inline regexp code too large", zap.Uint32("size", jit.Inline8Bit.CodeSize))
        return false
    }

    /* reserve the frame the matcher uses */
    if size := dfg.AlignStackSize(int(jit.Inline8Bit.StackSize)); size != 0 {
        if n := dfg.ArgumentCountForStackSize(size); n > self.g.ParameterSlots {
            self.g.ParameterSlots = n
        }
    }

    /* convert */
    self.insertCheck(self.node)
    self.insertLastIndexTypeCheckIfNecessary(self.node.Origin)
    self.node.ConvertToRegExpTestInline(self.g.Freeze(rt.CellValue(self.global)), self.g.Freeze(rt.CellValue(self.regExp)))
    self.changed = true
    return true
}

// convertToStatic drops the redundant checks of an exec on a non-global,
// non-sticky regexp.
func (self *regExpFold) convertToStatic() bool {
    if self.node.Op() != dfg.RegExpExec || self.regExp.GlobalOrSticky() {
        return false
    }
    if self.node.Child3().UseKind() != dfg.StringUse {
        return false
    }

    /* convert */
    self.insertCheck(self.node)
    self.insertLastIndexTypeCheckIfNecessary(self.node.Origin)
    self.node.ConvertToRegExpExecNonGlobalOrStickyWithoutChecks(self.g.Freeze(rt.CellValue(self.regExp)))
    self.changed = true
    return true
}

// handleStringReplace evaluates replace, replaceAll and the regexp replace
// when the subject, the regexp and the replacement are all known.
func (self *Phase) handleStringReplace() {
    subject := self.node.Child1().Node()
    str, ok := subject.TryGetString()
    if !ok {
        return
    }
    repl, ok := self.node.Child3().Node().TryGetString()
    if !ok {
        return
    }

    /* the regexp must be known and usable in this realm */
    object := self.node.Child2().Node()
    if self.g.Plan.IsUnlinked() && self.realmOf(object) != self.g.GlobalObjectFor(self.node.Origin.Semantic) {
        self.giveUp("unlinked code with a foreign global object")
        return
    }
    re, _, ok := self.regExpSource(object)
    if !ok {
        return
    }

    /* group names in the replacement are not expanded here */
    if re.HasNamedCaptures() {
        self.giveUp("named capture groups")
        return
    }

    /* run the replace loop */
    ret, same, ok := self.replaceAll(re, str, repl)
    if !ok {
        return
    }

    /* committed from here on */
    origin := self.node.Origin
    self.changed = true
    self.insertCheck(self.node)

    /* a global regexp leaves lastIndex at zero */
    if re.Global() {
        self.insertSetLastIndexOn(object, origin, 0)
        origin = origin.WithInvalidExit()
    }

    /* nothing was replaced, or the new string */
    if same {
        self.node.ConvertToIdentityOn(subject)
    } else {
        self.node.ConvertToLazyJSConstant(self.g, dfg.LazyNewString(ret))
    }
    self.node.Origin = origin
}

func (self *Phase) realmOf(object *dfg.Node) *rt.GlobalObject {
    if obj, ok := dfg.DynamicCastConstant[*rt.RegExpObject](object); ok {
        return obj.GlobalObject()
    } else {
        return self.g.GlobalObjectFor(object.Origin.Semantic)
    }
}

// replaceAll simulates the replace loop of the runtime, which matches once,
// or repeatedly from the end of the previous match for global regexps.
func (self *Phase) replaceAll(re *rt.RegExp, str string, repl string) (string, bool, bool) {
    src := jsstr.Units(str)
    rep := jsstr.Units(repl)
    buf := jsstr.NewBuilder(self.o.MaxStringLength)

    /* match until there is nothing left */
    last := 0
    start := 0
    for {
        var ovec []int
        var res rt.MatchResult

        /* the runtime skips the offset vector for empty global replacements */
        if len(rep) == 0 && re.Global() {
            r, ok := re.MatchConcurrently(str, start)
            if !ok {
                self.giveUp("match failed")
                return "", false, false
            }
            res = r
        } else {
            pos, ov, ok := re.MatchConcurrentlyWithOvector(str, start)
            if !ok {
                self.giveUp("match failed")
                return "", false, false
            }
            if res, ovec = rt.NoMatch, ov; pos >= 0 {
                res = rt.MatchResult { Start: pos, End: ov[1] }
            }
        }

        /* no more matches */
        if !res.Found() {
            break
        }

        /* the text before the match, then the substitution */
        if last < res.Start || len(rep) != 0 {
            buf.AppendText(src[last:res.Start])
            if len(rep) != 0 {
                jsstr.SubstituteBackreferences(buf, rep, src, res.Start, res.End, &jsstr.Captures {
                    Ovector        : ovec,
                    NumSubpatterns : re.NumSubpatterns(),
                })
            }
        }

        /* continue after the match */
        last = res.End
        start = last

        /* step over empty matches */
        if res.Empty() {
            if start++; start > len(src) {
                break
            }
        }

        /* non-global regexps match once */
        if !re.Global() {
            break
        }
    }

    /* nothing was replaced */
    if last == 0 && buf.IsEmpty() {
        return "", true, true
    }

    /* the text after the last match */
    if buf.AppendText(src[last:]); buf.Overflowed() {
        self.giveUp("string too long")
        return "", false, false
    } else {
        return buf.String(), false, true
    }
}
