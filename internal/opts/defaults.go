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
	"os"
	"strconv"

	"github.com/cloudwego/dfgopt/internal/jsstr"
)

const (
	_DefaultMaxDirectCallStackSize      = 200 // outgoing argument slots of a direct call
	_DefaultMaxRegExpTestInlineCodeSize = 500 // bytes of inlined 8-bit matcher
)

var (
	MaxDirectCallStackSize      = parseOrDefault("DFGOPT_MAX_DIRECT_CALL_STACK_SIZE", _DefaultMaxDirectCallStackSize, 1)
	MaxRegExpTestInlineCodeSize = parseOrDefault("DFGOPT_MAX_REGEXP_TEST_INLINE_CODESIZE", _DefaultMaxRegExpTestInlineCodeSize, 0)
	MaxStringLength             = parseOrDefault("DFGOPT_MAX_STRING_LENGTH", jsstr.MaxLength, 0)
	Verbose                     = parseBoolOrDefault("DFGOPT_VERBOSE", false)
	DataICInFTL                 = parseBoolOrDefault("DFGOPT_DATA_IC_IN_FTL", false)
	ForceICFailure              = parseBoolOrDefault("DFGOPT_FORCE_IC_FAILURE", false)
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 31); err != nil {
		panic("dfgopt: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("dfgopt: value too small for " + key)
	} else {
		return ret
	}
}

func parseBoolOrDefault(key string, def bool) bool {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("dfgopt: invalid value for " + key)
	} else {
		return val
	}
}
