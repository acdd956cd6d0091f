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
)

// ContractViolation is the panic value raised when a caller breaks an
// invariant of the graph or of a phase. It is never recovered internally.
type ContractViolation struct {
    Where  string
    Reason string
}

func (self *ContractViolation) Error() string {
    return fmt.Sprintf("dfg: contract violation in %s: %s", self.Where, self.Reason)
}

// Violate panics with a ContractViolation.
func Violate(where string, format string, args ...interface{}) {
    panic(&ContractViolation {
        Where  : where,
        Reason : fmt.Sprintf(format, args...),
    })
}
