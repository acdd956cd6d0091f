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

package debug

import (
	"github.com/cloudwego/dfgopt/internal/strength"
)

// A Stats records statistics about the strength reduction phase.
type Stats struct {
	Phase PhaseStats
}

// A PhaseStats records how often the phase ran and what it did.
type PhaseStats struct {
	Runs     int
	Changed  int
	Rewrites int
	GiveUps  int
}

// GetStats returns statistics of the strength reduction phase, accumulated
// over every graph reduced so far.
func GetStats() Stats {
	return Stats{
		Phase: PhaseStats{
			Runs:     int(strength.RunCount.Load()),
			Changed:  int(strength.ChangeCount.Load()),
			Rewrites: int(strength.RewriteCount.Load()),
			GiveUps:  int(strength.GiveUpCount.Load()),
		},
	}
}
