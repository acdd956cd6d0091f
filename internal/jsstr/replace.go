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

package jsstr

// Captures describes the match a replacement pattern refers to. Ovector holds
// [start, end) pairs in code units, the whole match first, -1 for groups
// that did not participate.
type Captures struct {
    Ovector        []int
    NumSubpatterns int
}

// SubstituteBackreferences expands the `$` patterns of replacement against a
// match in source and appends the result to b. With a nil caps only `$$`,
// `$&`, "$`" and `$'` are recognized and group references stay literal.
func SubstituteBackreferences(b *Builder, replacement Text, source Text, start int, end int, caps *Captures) {
    off := 0
    num := len(replacement)

    /* scan for '$' */
    for i := 0; i < num; i++ {
        if replacement[i] != '$' || i + 1 == num {
            continue
        }

        /* the character after '$' selects the substitution */
        adv := 0
        beg, cnt := -1, 0
        ref := replacement[i + 1]

        /* "$$" becomes a single "$" */
        if ref == '$' {
            b.AppendText(replacement[off:i + 1])
            off = i + 2
            i++
            continue
        }

        /* select the referenced range */
        switch {
            case ref == '&'  : beg, cnt = start, end - start
            case ref == '`'  : beg, cnt = 0, start
            case ref == '\'' : beg, cnt = end, len(source) - end
            case caps != nil && isDigit(ref) : {
                idx := int(ref - '0')
                if idx > caps.NumSubpatterns {
                    continue
                }

                /* two-digit references win when they name an existing group */
                if i + 2 < num && isDigit(replacement[i + 2]) {
                    if v := idx * 10 + int(replacement[i + 2] - '0'); v <= caps.NumSubpatterns {
                        idx = v
                        adv = 1
                    }
                }

                /* "$0" is not a reference */
                if idx == 0 {
                    continue
                }

                /* the group may not have participated */
                if beg = caps.Ovector[idx * 2]; beg >= 0 {
                    cnt = caps.Ovector[idx * 2 + 1] - beg
                }
            }
            default: {
                continue
            }
        }

        /* flush the literal text before the pattern */
        b.AppendText(replacement[off:i])
        i += 1 + adv
        off = i + 1

        /* and the referenced text */
        if beg >= 0 {
            b.AppendText(source[beg:beg + cnt])
        }
    }

    /* the trailing literal text */
    b.AppendText(replacement[off:])
}

// ReplaceRange replaces the code units [start, end) of s with replacement,
// expanding `$` patterns. It fails if the result would be longer than limit.
func ReplaceRange(limit int, s string, replacement string, start int, end int) (string, bool) {
    su := Units(s)
    bb := NewBuilder(limit)

    /* prefix, substitution, suffix */
    bb.AppendText(su[:start])
    SubstituteBackreferences(bb, Units(replacement), su, start, end, nil)
    bb.AppendText(su[end:])

    /* check for overflow */
    if bb.Overflowed() {
        return "", false
    } else {
        return bb.String(), true
    }
}

func isDigit(c uint16) bool {
    return c >= '0' && c <= '9'
}
