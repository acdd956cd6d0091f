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
    `strconv`
    `strings`
    `time`

    `github.com/dlclark/regexp2`
)

// MatchTimeout bounds a single compile-time match attempt.
const MatchTimeout = 100 * time.Millisecond

type RegExpFlags uint16

const (
    FlagHasIndices RegExpFlags = 1 << iota
    FlagGlobal
    FlagIgnoreCase
    FlagMultiline
    FlagDotAll
    FlagUnicode
    FlagUnicodeSets
    FlagSticky
)

var flagChars = [...]struct {
    ch byte
    fl RegExpFlags
} {
    { 'd', FlagHasIndices  },
    { 'g', FlagGlobal      },
    { 'i', FlagIgnoreCase  },
    { 'm', FlagMultiline   },
    { 's', FlagDotAll      },
    { 'u', FlagUnicode     },
    { 'v', FlagUnicodeSets },
    { 'y', FlagSticky      },
}

// ParseRegExpFlags parses a flags string. Unknown and duplicated flags are
// rejected, and so is the combination of 'u' and 'v'.
func ParseRegExpFlags(s string) (RegExpFlags, bool) {
    var ret RegExpFlags
    for i := 0; i < len(s); i++ {
        fl := RegExpFlags(0)

        /* look up the flag */
        for _, fc := range flagChars {
            if fc.ch == s[i] {
                fl = fc.fl
                break
            }
        }

        /* reject unknown or duplicated flags */
        if fl == 0 || ret & fl != 0 {
            return 0, false
        } else {
            ret |= fl
        }
    }

    /* 'u' and 'v' are mutually exclusive */
    if ret & FlagUnicode != 0 && ret & FlagUnicodeSets != 0 {
        return 0, false
    } else {
        return ret, true
    }
}

func (self RegExpFlags) String() string {
    var sb strings.Builder
    for _, fc := range flagChars {
        if self & fc.fl != 0 {
            sb.WriteByte(fc.ch)
        }
    }
    return sb.String()
}

// InlineStats describes the inlinable body of a compiled matcher.
type InlineStats struct {
    CanInline bool
    CodeSize  uint32
    StackSize uint32
}

// RegExpJITCode is the machine-code side of a compiled regexp.
type RegExpJITCode struct {
    Inline8Bit InlineStats
}

// MatchResult is a [Start, End) range in UTF-16 code units. Start is
// negative when there is no match.
type MatchResult struct {
    Start int
    End   int
}

var NoMatch = MatchResult { Start: -1, End: -1 }

func (self MatchResult) Found() bool { return self.Start >= 0 }
func (self MatchResult) Empty() bool { return self.Start == self.End }

// RegExp is a compiled regular expression shared by every RegExpObject
// created from the same source and flags.
type RegExp struct {
    pattern string
    flags   RegExpFlags
    re      *regexp2.Regexp
    err     error
    nsub    int
    named   bool
    jit     *RegExpJITCode
}

func (*RegExp) cell() {}

// NewRegExp compiles pattern with flags. A pattern that does not compile
// still produces a RegExp, but it never matches at compile time.
func NewRegExp(pattern string, flags RegExpFlags) *RegExp {
    ret := &RegExp {
        pattern : pattern,
        flags   : flags,
    }

    /* translate the flags */
    opts := regexp2.RegexOptions(regexp2.ECMAScript)
    if flags & FlagIgnoreCase != 0 { opts |= regexp2.IgnoreCase }
    if flags & FlagMultiline  != 0 { opts |= regexp2.Multiline }
    if flags & FlagDotAll     != 0 { opts |= regexp2.Singleline }
    if flags & (FlagUnicode | FlagUnicodeSets) != 0 { opts |= regexp2.Unicode }

    /* compile the pattern */
    if ret.re, ret.err = regexp2.Compile(pattern, opts); ret.err != nil {
        return ret
    }

    /* count the capture groups */
    ret.re.MatchTimeout = MatchTimeout
    nums := ret.re.GetGroupNumbers()
    ret.nsub = len(nums) - 1

    /* named groups are the ones whose name is not their number */
    for _, n := range nums {
        if ret.re.GroupNameFromNumber(n) != strconv.Itoa(n) {
            ret.named = true
            break
        }
    }
    return ret
}

func (self *RegExp) Pattern() string           { return self.pattern }
func (self *RegExp) Flags() RegExpFlags        { return self.flags }
func (self *RegExp) Err() error                { return self.err }
func (self *RegExp) IsValid() bool             { return self.err == nil }
func (self *RegExp) Global() bool              { return self.flags & FlagGlobal != 0 }
func (self *RegExp) Sticky() bool              { return self.flags & FlagSticky != 0 }
func (self *RegExp) GlobalOrSticky() bool      { return self.flags & (FlagGlobal | FlagSticky) != 0 }
func (self *RegExp) EitherUnicode() bool       { return self.flags & (FlagUnicode | FlagUnicodeSets) != 0 }
func (self *RegExp) HasIndices() bool          { return self.flags & FlagHasIndices != 0 }
func (self *RegExp) HasNamedCaptures() bool    { return self.named }
func (self *RegExp) NumSubpatterns() int       { return self.nsub }
func (self *RegExp) JITCode() *RegExpJITCode   { return self.jit }
func (self *RegExp) SetJITCode(c *RegExpJITCode) { self.jit = c }

// MatchConcurrently runs the matcher against s starting at the UTF-16 offset
// start. It reports false when the match could not be attempted at all.
func (self *RegExp) MatchConcurrently(s string, start int) (MatchResult, bool) {
    pos, ovec, ok := self.MatchConcurrentlyWithOvector(s, start)
    if !ok {
        return NoMatch, false
    } else if pos < 0 {
        return NoMatch, true
    } else {
        return MatchResult { Start: ovec[0], End: ovec[1] }, true
    }
}

// MatchConcurrentlyWithOvector runs the matcher and returns the match
// position together with the offset vector: pairs of UTF-16 offsets for the
// whole match and every subpattern, -1 for subpatterns that did not
// participate.
func (self *RegExp) MatchConcurrentlyWithOvector(s string, start int) (int, []int, bool) {
    if self.err != nil {
        return -1, nil, false
    }

    /* the match starts past the end */
    txt := newText(s)
    if start > txt.length() {
        return -1, nil, true
    }

    /* attempt the match */
    idx := txt.runeIndex(start)
    mm, err := self.re.FindRunesMatchStartingAt(txt.runes, idx)

    /* the matcher gave up (most likely timed out) */
    if err != nil {
        return -1, nil, false
    }

    /* sticky patterns must match exactly at the start */
    if mm == nil || (self.Sticky() && mm.Index != idx) {
        return -1, nil, true
    }

    /* build the offset vector */
    gs := mm.Groups()
    ov := make([]int, 2 * (self.nsub + 1))

    /* fill every group */
    for i := range ov {
        ov[i] = -1
    }
    for i := range gs {
        if i <= self.nsub && len(gs[i].Captures) != 0 {
            ov[i * 2] = txt.unitIndex(gs[i].Index)
            ov[i * 2 + 1] = txt.unitIndex(gs[i].Index + gs[i].Length)
        }
    }
    return ov[0], ov, true
}

type text struct {
    runes []rune
    units []int
}

func newText(s string) text {
    rs := []rune(s)
    us := make([]int, len(rs) + 1)

    /* prefix sums of UTF-16 widths */
    for i, r := range rs {
        if us[i + 1] = us[i] + 1; r >= 0x10000 {
            us[i + 1]++
        }
    }
    return text { runes: rs, units: us }
}

func (self text) length() int {
    return self.units[len(self.runes)]
}

func (self text) unitIndex(i int) int {
    return self.units[i]
}

// runeIndex maps a UTF-16 offset to a rune index, rounding up when the offset
// falls between the halves of a surrogate pair.
func (self text) runeIndex(u int) int {
    for i, v := range self.units {
        if v >= u {
            return i
        }
    }
    return len(self.runes)
}
