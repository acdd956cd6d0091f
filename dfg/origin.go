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

    `github.com/cloudwego/dfgopt/rt`
)

// InlineCallFrame describes a function inlined into the machine frame.
type InlineCallFrame struct {
    Caller            CodeOrigin
    GlobalObject      *rt.GlobalObject
    HandlesExceptions bool
}

// CodeOrigin is a bytecode location, possibly inside an inlined frame.
type CodeOrigin struct {
    BytecodeIndex uint32
    Frame         *InlineCallFrame
}

func (self CodeOrigin) String() string {
    if self.Frame == nil {
        return fmt.Sprintf("bc#%d", self.BytecodeIndex)
    } else {
        return fmt.Sprintf("bc#%d<%p>", self.BytecodeIndex, self.Frame)
    }
}

// NodeOrigin records where a node came from and where it exits to.
type NodeOrigin struct {
    Semantic CodeOrigin
    ForExit  CodeOrigin
    ExitOK   bool
}

// Origin returns an exit-OK origin for the bytecode index in the machine
// frame.
func Origin(bc uint32) NodeOrigin {
    co := CodeOrigin { BytecodeIndex: bc }
    return NodeOrigin { Semantic: co, ForExit: co, ExitOK: true }
}

func (self NodeOrigin) WithInvalidExit() NodeOrigin {
    self.ExitOK = false
    return self
}

func (self NodeOrigin) WithExitOK(ok bool) NodeOrigin {
    self.ExitOK = ok
    return self
}

func (self NodeOrigin) String() string {
    if self.ExitOK {
        return self.Semantic.String()
    } else {
        return self.Semantic.String() + "!"
    }
}

// ExitKind is the reason a speculation check failed.
type ExitKind uint8

const (
    ExitKindUnset ExitKind = iota
    BadType
    BadCell
    BadCache
    BadTypeInfoFlags
    Overflow
    NegativeZero
    OutOfBounds
)

func (self ExitKind) String() string {
    switch self {
        case BadType          : return "BadType"
        case BadCell          : return "BadCell"
        case BadCache         : return "BadCache"
        case BadTypeInfoFlags : return "BadTypeInfoFlags"
        case Overflow         : return "Overflow"
        case NegativeZero     : return "NegativeZero"
        case OutOfBounds      : return "OutOfBounds"
        default               : return "Unset"
    }
}
