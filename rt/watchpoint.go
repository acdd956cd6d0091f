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

// WatchpointSet is a one-way switch. Compiled code that depends on an
// assumption registers the set, and the runtime fires it when the assumption
// stops holding.
type WatchpointSet struct {
    Name        string
    invalidated bool
}

func NewWatchpointSet(name string) *WatchpointSet {
    return &WatchpointSet { Name: name }
}

func (self *WatchpointSet) IsStillValid() bool {
    return !self.invalidated
}

func (self *WatchpointSet) Invalidate() {
    self.invalidated = true
}
