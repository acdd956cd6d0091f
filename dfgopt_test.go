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
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/dfgopt/dfg"
	"github.com/cloudwego/dfgopt/rt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// bitOrZero builds `x | 0` over an int32 local.
func bitOrZero() (*dfg.Graph, *dfg.Node) {
	g := dfg.NewGraph(rt.NewVM(), rt.NewGlobalObject(), dfg.Plan{})
	bb := g.NewBlock()
	x := g.NewNode(dfg.GetLocal, dfg.Origin(0), dfg.SpecInt32Only, dfg.OpInfo{Operand: 0})
	k := g.NewNode(dfg.JSConstant, dfg.Origin(1), dfg.SpecInt32Only, dfg.OpInfo{Constant: g.Freeze(rt.Int32(0))})
	or := g.NewNode(dfg.ArithBitOr, dfg.Origin(2), dfg.SpecInt32Only, dfg.OpInfo{}, dfg.NewEdge(x, dfg.Int32Use), dfg.NewEdge(k, dfg.Int32Use))
	bb.Append(x, k, or)
	return g, or
}

func TestReduceStrength(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	g, or := bitOrZero()

	/* the first run rewrites, the second finds nothing */
	require.True(t, ReduceStrength(g, WithLogger(zap.New(core))))
	require.Equal(t, dfg.Identity, or.Op())
	require.NoError(t, Validate(g))
	require.False(t, ReduceStrength(g, WithLogger(zap.New(core))))
	require.NotZero(t, logs.Len())
}

func TestReduceStrength_Converged(t *testing.T) {
	g, _ := bitOrZero()
	g.FixpointState = dfg.FixpointConverged
	require.PanicsWithError(t, "dfg: contract violation in strength.Run: the graph has already converged", func() {
		ReduceStrength(g)
	})
}

func TestValidate_ReportsValidationErrors(t *testing.T) {
	g, or := bitOrZero()
	g.Blocks[0].Append(or)

	/* the error is a ValidationError */
	err := Validate(g)
	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	require.Same(t, or, ve.Node)
}

func TestOptions_Panics(t *testing.T) {
	require.Panics(t, func() { WithMaxDirectCallStackSize(1) })
	require.Panics(t, func() { WithMaxRegExpTestInlineCodeSize(-1) })
	require.Panics(t, func() { WithMaxStringLength(0) })
	require.Panics(t, func() { WithLogger(nil) })
	require.Panics(t, func() { WithConfig(nil) })
	require.NotPanics(t, func() { WithMaxRegExpTestInlineCodeSize(0) })
}

func TestOptions_SetDefaults(t *testing.T) {
	old := SetMaxDirectCallStackSize(64)
	defer SetMaxDirectCallStackSize(old)
	require.Equal(t, 64, SetMaxDirectCallStackSize(64))

	/* the other setters behave the same */
	oldSize := SetMaxRegExpTestInlineCodeSize(10)
	require.Equal(t, 10, SetMaxRegExpTestInlineCodeSize(oldSize))
	oldLen := SetMaxStringLength(100)
	require.Equal(t, 100, SetMaxStringLength(oldLen))
	oldVerbose := SetVerbose(true)
	require.True(t, SetVerbose(oldVerbose))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dfgopt.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_string_length = 1\n"), 0644))

	/* the file is applied as an option */
	opt, err := LoadConfig(path)
	require.NoError(t, err)
	g, _ := bitOrZero()
	require.True(t, ReduceStrength(g, opt))

	/* a bad file is a ConfigError */
	require.NoError(t, os.WriteFile(path, []byte("max_string_length = 0\n"), 0644))
	_, err = LoadConfig(path)
	var ce ConfigError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "max_string_length", ce.Key)
}
