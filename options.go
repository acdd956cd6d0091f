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
	"fmt"

	"github.com/cloudwego/dfgopt/internal/opts"
	"go.uber.org/zap"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxDirectCallStackSize sets the maximum number of outgoing argument
// slots a direct call may reserve in the frame of the caller.
//
// Calls whose callee declares more parameters than this are still converted
// to direct calls, but the frame is not grown for them. Bound function calls
// that would expand past this limit are left alone.
//
// The default value of this option is "200".
func WithMaxDirectCallStackSize(size int) Option {
	if size <= 1 {
		panic(fmt.Sprintf("dfgopt: invalid direct call stack size: %d", size))
	} else {
		return func(o *opts.Options) { o.MaxDirectCallStackSize = size }
	}
}

// WithMaxRegExpTestInlineCodeSize sets the maximum size in bytes of the
// matcher a RegExp test may inline.
//
// Set this option to "0" disables inlining of RegExp tests.
//
// The default value of this option is "500".
func WithMaxRegExpTestInlineCodeSize(size int) Option {
	if size < 0 {
		panic(fmt.Sprintf("dfgopt: invalid regexp inline code size: %d", size))
	} else {
		return func(o *opts.Options) { o.MaxRegExpTestInlineCodeSize = size }
	}
}

// WithMaxStringLength sets the maximum length in UTF-16 code units of a
// string folded at compile time. Folds that would build a longer string are
// abandoned.
//
// The default value of this option is the maximum length of a JS string.
func WithMaxStringLength(size int) Option {
	if size <= 0 {
		panic(fmt.Sprintf("dfgopt: invalid string length: %d", size))
	} else {
		return func(o *opts.Options) { o.MaxStringLength = size }
	}
}

// WithDataICInFTL tells the phase that the FTL tier uses data ICs, in which
// case calls in FTL plans are not converted to direct calls.
//
// The default value of this option is "false".
func WithDataICInFTL(v bool) Option {
	return func(o *opts.Options) { o.DataICInFTL = v }
}

// WithForceICFailure disables direct WebAssembly calls.
//
// The default value of this option is "false".
func WithForceICFailure(v bool) Option {
	return func(o *opts.Options) { o.ForceICFailure = v }
}

// WithVerbose makes the phase trace every rewrite to a development logger.
// It has no effect when a logger is given with WithLogger.
//
// The default value of this option is "false".
func WithVerbose(v bool) Option {
	return func(o *opts.Options) { o.Verbose = v }
}

// WithLogger sets the logger the phase traces to.
func WithLogger(lg *zap.Logger) Option {
	if lg == nil {
		panic("dfgopt: invalid logger: nil")
	} else {
		return func(o *opts.Options) { o.Logger = lg }
	}
}

// WithConfig applies every option named in a configuration file, loaded with
// LoadConfig.
func WithConfig(cfg *opts.Config) Option {
	if cfg == nil {
		panic("dfgopt: invalid config: nil")
	} else {
		return cfg.Apply
	}
}

// LoadConfig reads a TOML configuration file and returns an Option that
// applies it.
func LoadConfig(path string) (Option, error) {
	if cfg, err := opts.LoadConfig(path); err != nil {
		return nil, err
	} else {
		return WithConfig(cfg), nil
	}
}

// SetMaxDirectCallStackSize sets the default maximum direct call stack size
// from now on.
//
// This value can also be configured with the `DFGOPT_MAX_DIRECT_CALL_STACK_SIZE`
// environment variable.
//
// The default value of this option is "200".
//
// Returns the old opts.MaxDirectCallStackSize value.
func SetMaxDirectCallStackSize(size int) int {
	size, opts.MaxDirectCallStackSize = opts.MaxDirectCallStackSize, size
	return size
}

// SetMaxRegExpTestInlineCodeSize sets the default maximum inlined RegExp test
// size from now on.
//
// This value can also be configured with the `DFGOPT_MAX_REGEXP_TEST_INLINE_CODESIZE`
// environment variable.
//
// The default value of this option is "500".
//
// Returns the old opts.MaxRegExpTestInlineCodeSize value.
func SetMaxRegExpTestInlineCodeSize(size int) int {
	size, opts.MaxRegExpTestInlineCodeSize = opts.MaxRegExpTestInlineCodeSize, size
	return size
}

// SetMaxStringLength sets the default maximum folded string length from now on.
//
// This value can also be configured with the `DFGOPT_MAX_STRING_LENGTH`
// environment variable.
//
// Returns the old opts.MaxStringLength value.
func SetMaxStringLength(size int) int {
	size, opts.MaxStringLength = opts.MaxStringLength, size
	return size
}

// SetVerbose sets the default verbosity from now on.
//
// This value can also be configured with the `DFGOPT_VERBOSE` environment
// variable.
//
// Returns the old opts.Verbose value.
func SetVerbose(v bool) bool {
	v, opts.Verbose = opts.Verbose, v
	return v
}
