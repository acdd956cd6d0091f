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
    `sync`
)

type regExpKey struct {
    pattern string
    flags   RegExpFlags
}

// RegExpCache deduplicates compiled regexps. The compiler thread only ever
// looks entries up, compilation happens on the main thread.
type RegExpCache struct {
    mu sync.RWMutex
    rx map[regExpKey]*RegExp
}

func (self *RegExpCache) Lookup(pattern string, flags RegExpFlags) *RegExp {
    self.mu.RLock()
    defer self.mu.RUnlock()
    return self.rx[regExpKey { pattern, flags }]
}

// Create returns the cached regexp for (pattern, flags), compiling it on a
// miss.
func (self *RegExpCache) Create(pattern string, flags RegExpFlags) *RegExp {
    key := regExpKey { pattern, flags }
    self.mu.Lock()
    defer self.mu.Unlock()

    /* check for existing entry */
    if re, ok := self.rx[key]; ok {
        return re
    }

    /* create the map on first use */
    if self.rx == nil {
        self.rx = make(map[regExpKey]*RegExp)
    }

    /* compile and cache */
    re := NewRegExp(pattern, flags)
    self.rx[key] = re
    return re
}

// RegExpObject is a regexp instance as seen by user code.
type RegExpObject struct {
    Object
    regExp    *RegExp
    lastIndex Value
}

func NewRegExpObject(global *GlobalObject, re *RegExp) *RegExpObject {
    return &RegExpObject {
        regExp    : re,
        lastIndex : Int32(0),
        Object    : Object { global: global },
    }
}

func (self *RegExpObject) RegExp() *RegExp {
    return self.regExp
}

func (self *RegExpObject) LastIndex() Value {
    return self.lastIndex
}

func (self *RegExpObject) SetLastIndex(v Value) {
    self.lastIndex = v
}

type SmallStrings struct {
    Empty     *String
    Null      *String
    Undefined *String
}

// VM holds the per-engine state shared by every realm.
type VM struct {
    RegExpCache  RegExpCache
    SmallStrings SmallStrings
}

func NewVM() *VM {
    return &VM {
        SmallStrings: SmallStrings {
            Empty     : NewString(""),
            Null      : NewString("null"),
            Undefined : NewString("undefined"),
        },
    }
}
