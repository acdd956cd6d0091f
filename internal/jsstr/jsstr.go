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

// Package jsstr implements string operations with the UTF-16 code unit
// semantics JavaScript strings have, on top of Go strings.
package jsstr

import (
    `unicode/utf16`
    `unicode/utf8`

    `golang.org/x/exp/constraints`
)

// Text is a string in UTF-16 code units.
type Text []uint16

func Units(s string) Text {
    if isASCII(s) {
        ret := make(Text, len(s))
        for i := 0; i < len(s); i++ {
            ret[i] = uint16(s[i])
        }
        return ret
    } else {
        return utf16.Encode([]rune(s))
    }
}

func (self Text) Len() int {
    return len(self)
}

func (self Text) String() string {
    return string(utf16.Decode(self))
}

// Length returns the length of s in UTF-16 code units.
func Length(s string) int {
    n := 0
    for _, r := range s {
        if n++; r >= 0x10000 {
            n++
        }
    }
    return n
}

// Substring returns length code units of s starting at start.
func Substring(s string, start int, length int) string {
    if isASCII(s) {
        return s[start:start + length]
    } else {
        return Units(s)[start:start + length].String()
    }
}

// IndexOf returns the offset of the first occurrence of search in s, or -1.
func IndexOf(s string, search string) int {
    if isASCII(s) && isASCII(search) {
        return indexASCII(s, search)
    }

    /* compare code units */
    su := Units(s)
    pu := Units(search)

    /* naive search, strings here are compile-time constants */
    for i := 0; i + len(pu) <= len(su); i++ {
        if equal(su[i:i + len(pu)], pu) {
            return i
        }
    }
    return -1
}

func indexASCII(s string, search string) int {
    for i := 0; i + len(search) <= len(s); i++ {
        if s[i:i + len(search)] == search {
            return i
        }
    }
    return -1
}

func equal(a Text, b Text) bool {
    for i := range a {
        if a[i] != b[i] {
            return false
        }
    }
    return true
}

func isASCII(s string) bool {
    for i := 0; i < len(s); i++ {
        if s[i] >= utf8.RuneSelf {
            return false
        }
    }
    return true
}

func clamp[T constraints.Integer](v T, lo T, hi T) T {
    if v < lo {
        return lo
    } else if v > hi {
        return hi
    } else {
        return v
    }
}

// SubstringOffsets normalizes the arguments of String.prototype.substring:
// both ends are clamped to [0, length] and swapped when out of order. A nil
// end means the end of the string.
func SubstringOffsets(length int32, start int32, end *int32) (int32, int32) {
    s := clamp(start, 0, length)
    e := length

    /* clamp the end if present */
    if end != nil {
        e = clamp(*end, 0, length)
    }

    /* substring accepts reversed ranges */
    if s > e {
        return e, s
    } else {
        return s, e
    }
}

// SliceOffsets normalizes the arguments of String.prototype.slice: negative
// offsets count from the end, and a reversed range is empty.
func SliceOffsets(length int32, start int32, end *int32) (int32, int32) {
    s := relative(length, start)
    e := length

    /* resolve the end if present */
    if end != nil {
        e = relative(length, *end)
    }

    /* slice never reverses */
    if e < s {
        return s, s
    } else {
        return s, e
    }
}

func relative(length int32, v int32) int32 {
    if v < 0 {
        return int32(clamp(int64(length) + int64(v), 0, int64(length)))
    } else {
        return clamp(v, 0, length)
    }
}
