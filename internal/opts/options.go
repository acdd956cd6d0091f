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

package opts

import (
	"go.uber.org/zap"
)

type Options struct {
	MaxDirectCallStackSize      int
	MaxRegExpTestInlineCodeSize int
	MaxStringLength             int
	DataICInFTL                 bool
	ForceICFailure              bool
	Verbose                     bool
	Logger                      *zap.Logger
}

// CanDirectCall reports whether argc outgoing slots fit the direct-call
// stack budget.
func (self *Options) CanDirectCall(argc int) bool {
	return argc <= self.MaxDirectCallStackSize
}

func (self *Options) CanInlineRegExpTest(codeSize int) bool {
	return codeSize <= self.MaxRegExpTestInlineCodeSize
}

// Log returns the logger traces go to. An explicit logger wins over the
// verbose switch.
func (self *Options) Log() *zap.Logger {
	if self.Logger != nil {
		return self.Logger
	} else if !self.Verbose {
		return zap.NewNop()
	} else if lg, err := zap.NewDevelopment(); err != nil {
		return zap.NewNop()
	} else {
		return lg
	}
}

func GetDefaultOptions() Options {
	return Options{
		MaxDirectCallStackSize:      MaxDirectCallStackSize,
		MaxRegExpTestInlineCodeSize: MaxRegExpTestInlineCodeSize,
		MaxStringLength:             MaxStringLength,
		DataICInFTL:                 DataICInFTL,
		ForceICFailure:              ForceICFailure,
		Verbose:                     Verbose,
	}
}
