/*
 * Copyright 2021 ByteDance Inc.
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

package dfgopt

import (
    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/internal/opts`
)

// ConfigError occures when a configuration file names an unknown key or an
// out of range value.
type ConfigError = opts.ConfigError

// ContractViolation is the value ReduceStrength panics with when the graph
// breaks a precondition of the phase.
type ContractViolation = dfg.ContractViolation

// ValidationError occures when a graph is structurally broken.
type ValidationError = dfg.ValidationError
