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

package dfgopt

import (
	"github.com/cloudwego/dfgopt/dfg"
	"github.com/cloudwego/dfgopt/internal/opts"
	"github.com/cloudwego/dfgopt/internal/strength"
)

// ReduceStrength runs one pass of strength reduction over g, rewriting nodes
// into cheaper equivalents. It reports whether anything changed, callers are
// expected to run it again until it does not.
//
// It panics with a *ContractViolation if g has already converged, or if a
// rule finds the graph in a state it cannot be in.
func ReduceStrength(g *dfg.Graph, options ...Option) bool {
	o := opts.GetDefaultOptions()

	/* apply the options */
	for _, fn := range options {
		fn(&o)
	}

	/* run the phase */
	return strength.Run(g, o)
}

// Validate checks the structural invariants of g. Every problem found is
// reported as a ValidationError, combined with multierr.
func Validate(g *dfg.Graph) error {
	return dfg.Validate(g)
}
