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
    `strconv`

    `github.com/cloudwego/dfgopt/rt`
)

type ValueStrength uint8

const (
    WeakValue ValueStrength = iota
    StrongValue
)

// FrozenValue is a constant registered with the graph. The graph hands out
// one FrozenValue per distinct value, so pointer equality is value equality.
type FrozenValue struct {
    value    rt.Value
    strength ValueStrength
}

func (self *FrozenValue) Value() rt.Value          { return self.value }
func (self *FrozenValue) Strength() ValueStrength  { return self.strength }

func (self *FrozenValue) String() string {
    if self.strength == StrongValue {
        return "Strong:" + self.value.String()
    } else {
        return self.value.String()
    }
}

type LazyKind uint8

const (
    LazyKnownValue LazyKind = iota
    LazySingleCharacterString
    LazyKnownStringImpl
    LazyNewStringImpl
)

// LazyJSValue is a constant whose heap cell is only allocated when the code
// is linked, typically a string computed at compile time.
type LazyJSValue struct {
    kind  LazyKind
    value *FrozenValue
    str   string
}

func LazyKnown(v *FrozenValue) LazyJSValue {
    return LazyJSValue { kind: LazyKnownValue, value: v }
}

// LazyNewString is a string allocated fresh at link time.
func LazyNewString(s string) LazyJSValue {
    return LazyJSValue { kind: LazyNewStringImpl, str: s }
}

func (self LazyJSValue) Kind() LazyKind {
    return self.kind
}

// TryGetString returns the string the value will materialize to, if any.
func (self LazyJSValue) TryGetString() (string, bool) {
    switch self.kind {
        case LazyKnownValue                                     : return self.value.Value().AsString()
        case LazySingleCharacterString, LazyKnownStringImpl, LazyNewStringImpl : return self.str, true
        default                                                 : return "", false
    }
}

func (self LazyJSValue) String() string {
    switch self.kind {
        case LazyKnownValue : return self.value.String()
        default             : return "Lazy:" + strconv.Quote(self.str)
    }
}

func (self LazyJSValue) GoString() string {
    return fmt.Sprintf("LazyJSValue(%s)", self.String())
}
