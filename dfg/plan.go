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
    `github.com/cloudwego/dfgopt/rt`
)

type CompileMode uint8

const (
    DFGMode CompileMode = iota
    FTLMode
)

// Plan is the compilation request a graph is being optimized for.
type Plan struct {
    Mode     CompileMode
    Unlinked bool
    statuses RecordedStatuses
}

func (self *Plan) IsFTL() bool                          { return self.Mode == FTLMode }
func (self *Plan) IsUnlinked() bool                     { return self.Unlinked }
func (self *Plan) RecordedStatuses() *RecordedStatuses  { return &self.statuses }

// CallVariant is a callee the compiler resolved statically, either as a
// function object or as the executable of a closure allocated in the graph.
type CallVariant struct {
    function   rt.Function
    executable rt.Executable
}

func FunctionCallVariant(fn rt.Function) CallVariant {
    return CallVariant { function: fn, executable: fn.Executable() }
}

func ExecutableCallVariant(exec rt.Executable) CallVariant {
    return CallVariant { executable: exec }
}

func (self CallVariant) Function() rt.Function     { return self.function }
func (self CallVariant) Executable() rt.Executable { return self.executable }

type CallLinkStatus struct {
    Variants []CallVariant
}

func NewCallLinkStatus(variants ...CallVariant) CallLinkStatus {
    return CallLinkStatus { Variants: variants }
}

type RecordedCallLinkStatus struct {
    Origin CodeOrigin
    Status CallLinkStatus
}

// RecordedStatuses are the profiling decisions the compiler made and the
// linker must honor.
type RecordedStatuses struct {
    Calls []RecordedCallLinkStatus
}

func (self *RecordedStatuses) AddCallLinkStatus(origin CodeOrigin, status CallLinkStatus) {
    self.Calls = append(self.Calls, RecordedCallLinkStatus { origin, status })
}
