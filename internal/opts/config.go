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
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ConfigError is an invalid entry in a configuration file.
type ConfigError struct {
	Path   string
	Key    string
	Reason string
}

func (self ConfigError) Error() string {
	if self.Key == "" {
		return fmt.Sprintf("%s: %s", self.Path, self.Reason)
	} else {
		return fmt.Sprintf("%s: %s: %s", self.Path, self.Key, self.Reason)
	}
}

// Config is the content of a configuration file. Absent keys are nil and
// leave the corresponding option alone.
type Config struct {
	MaxDirectCallStackSize      *int  `toml:"max_direct_call_stack_size"`
	MaxRegExpTestInlineCodeSize *int  `toml:"max_regexp_test_inline_codesize"`
	MaxStringLength             *int  `toml:"max_string_length"`
	DataICInFTL                 *bool `toml:"data_ic_in_ftl"`
	ForceICFailure              *bool `toml:"force_ic_failure"`
	Verbose                     *bool `toml:"verbose"`
}

// LoadConfig reads and checks a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	cfg := new(Config)
	md, err := toml.DecodeFile(path, cfg)

	/* syntax or type errors */
	if err != nil {
		return nil, errors.Wrapf(err, "dfgopt: cannot load config %s", path)
	}

	/* unknown keys are most likely typos */
	if keys := md.Undecoded(); len(keys) != 0 {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}
		return nil, errors.WithStack(ConfigError{Path: path, Reason: "unknown keys: " + strings.Join(names, ", ")})
	}

	/* range checks */
	if err = cfg.check(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (self *Config) check(path string) error {
	if v := self.MaxDirectCallStackSize; v != nil && *v <= 1 {
		return errors.WithStack(ConfigError{Path: path, Key: "max_direct_call_stack_size", Reason: fmt.Sprintf("value too small: %d", *v)})
	}
	if v := self.MaxRegExpTestInlineCodeSize; v != nil && *v < 0 {
		return errors.WithStack(ConfigError{Path: path, Key: "max_regexp_test_inline_codesize", Reason: fmt.Sprintf("negative value: %d", *v)})
	}
	if v := self.MaxStringLength; v != nil && *v <= 0 {
		return errors.WithStack(ConfigError{Path: path, Key: "max_string_length", Reason: fmt.Sprintf("value too small: %d", *v)})
	}
	return nil
}

// Apply overrides the options named in the file.
func (self *Config) Apply(o *Options) {
	if self.MaxDirectCallStackSize != nil {
		o.MaxDirectCallStackSize = *self.MaxDirectCallStackSize
	}
	if self.MaxRegExpTestInlineCodeSize != nil {
		o.MaxRegExpTestInlineCodeSize = *self.MaxRegExpTestInlineCodeSize
	}
	if self.MaxStringLength != nil {
		o.MaxStringLength = *self.MaxStringLength
	}
	if self.DataICInFTL != nil {
		o.DataICInFTL = *self.DataICInFTL
	}
	if self.ForceICFailure != nil {
		o.ForceICFailure = *self.ForceICFailure
	}
	if self.Verbose != nil {
		o.Verbose = *self.Verbose
	}
}
