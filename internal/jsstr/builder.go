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

import (
    `github.com/bytedance/gopkg/lang/dirtmake`
)

// MaxLength is the longest string the runtime can represent, in code units.
const MaxLength = 1 << 31 - 1

const _MinBuilderCap = 32

// Builder accumulates a string and remembers whether it ever grew past its
// length limit. Once overflowed, further appends are ignored.
type Builder struct {
    buf   []byte
    units int
    limit int
    over  bool
}

func NewBuilder(limit int) *Builder {
    if limit <= 0 || limit > MaxLength {
        limit = MaxLength
    }
    return &Builder { limit: limit }
}

func (self *Builder) Len() int          { return self.units }
func (self *Builder) IsEmpty() bool     { return self.units == 0 }
func (self *Builder) Overflowed() bool  { return self.over }

func (self *Builder) Append(s string) {
    self.add(s, Length(s))
}

func (self *Builder) AppendText(t Text) {
    self.add(t.String(), len(t))
}

func (self *Builder) add(s string, n int) {
    if self.over {
        return
    }

    /* check the length limit */
    if self.units + n > self.limit {
        self.over = true
        return
    }

    /* copy the bytes */
    self.grow(len(s))
    self.buf = append(self.buf, s...)
    self.units += n
}

func (self *Builder) grow(n int) {
    if cap(self.buf) - len(self.buf) >= n {
        return
    }

    /* at least double the buffer */
    nc := cap(self.buf) * 2
    if nc < len(self.buf) + n {
        nc = len(self.buf) + n
    }

    /* but never too small */
    if nc < _MinBuilderCap {
        nc = _MinBuilderCap
    }

    /* every byte up to len is written by the copy below */
    nb := dirtmake.Bytes(len(self.buf), nc)
    copy(nb, self.buf)
    self.buf = nb
}

func (self *Builder) String() string {
    return string(self.buf)
}

// Concat joins parts, failing if the result would be longer than limit.
func Concat(limit int, parts ...string) (string, bool) {
    b := NewBuilder(limit)
    for _, p := range parts {
        b.Append(p)
    }
    if b.Overflowed() {
        return "", false
    } else {
        return b.String(), true
    }
}
