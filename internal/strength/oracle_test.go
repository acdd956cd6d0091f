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

package strength

import (
    `math`
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/internal/jsnum`
    `github.com/stretchr/testify/require`
    `gonum.org/v1/gonum/floats/scalar`
)

// value is what a node evaluates to in the reference interpreter.
type value struct {
    num   float64
    str   string
    isStr bool
}

func (self value) String() string {
    if self.isStr {
        return self.str
    } else {
        return jsnum.Format(self.num)
    }
}

func toInt32(v float64) int32 {
    if math.IsNaN(v) || math.IsInf(v, 0) {
        return 0
    }
    return int32(uint32(int64(math.Mod(math.Trunc(v), 1 << 32))))
}

func isInt32(v float64) bool {
    return !math.IsNaN(v) && float64(int32(v)) == v
}

func sameValue(a value, b value) bool {
    switch {
        case a.isStr != b.isStr       : return false
        case a.isStr                  : return a.str == b.str
        case math.IsNaN(a.num)        : return math.IsNaN(b.num)
        default                       : return scalar.EqualWithinULP(a.num, b.num, 1)
    }
}

// interpreter evaluates a block the way the generated code would, with
// int32 bit operations and double arithmetic.
type interpreter struct {
    t      *testing.T
    g      *dfg.Graph
    locals map[dfg.Operand]int32
}

func (self *interpreter) run(bb *dfg.BasicBlock) map[*dfg.Node]value {
    ret := make(map[*dfg.Node]value, bb.Size())
    for _, nb := range bb.Nodes() {
        if v, ok := self.eval(ret, nb); ok {
            ret[nb] = v
        }
    }
    return ret
}

func (self *interpreter) eval(vals map[*dfg.Node]value, node *dfg.Node) (value, bool) {
    arg := func(i int) value {
        v, ok := vals[self.g.Child(node, i).Node()]
        require.True(self.t, ok, "@%d uses a node without a value", node.ID())
        return v
    }

    /* int32 views of the operands */
    i32 := func(i int) int32 { return toInt32(arg(i).num) }
    num := func(v float64) (value, bool) { return value { num: v }, true }

    /* evaluate */
    switch node.Op() {
        case dfg.Check, dfg.CheckInBounds : return value{}, false
        case dfg.GetLocal                 : return num(float64(self.locals[node.Operand()]))
        case dfg.Identity                 : return arg(0), true
        case dfg.ArithBitOr               : return num(float64(i32(0) | i32(1)))
        case dfg.ArithBitXor              : return num(float64(i32(0) ^ i32(1)))
        case dfg.ArithBitAnd              : return num(float64(i32(0) & i32(1)))
        case dfg.ArithBitLShift           : return num(float64(i32(0) << (uint32(i32(1)) & 31)))
        case dfg.ArithBitRShift           : return num(float64(i32(0) >> (uint32(i32(1)) & 31)))
        case dfg.ArithBitURShift          : return num(float64(int32(uint32(i32(0)) >> (uint32(i32(1)) & 31))))
        case dfg.UInt32ToNumber           : return num(float64(uint32(i32(0))))
        case dfg.ArithAdd                 : return num(arg(0).num + arg(1).num)
        case dfg.ArithSub                 : return num(arg(0).num - arg(1).num)
        case dfg.ArithMul                 : return num(arg(0).num * arg(1).num)
        case dfg.ArithMod                 : return num(math.Mod(arg(0).num, arg(1).num))
        case dfg.ValueAdd, dfg.MakeRope   : return self.concat(arg)
    }

    /* constants */
    switch node.Op() {
        case dfg.JSConstant, dfg.DoubleConstant: {
            if s, ok := node.AsJSValue().AsString(); ok {
                return value { str: s, isStr: true }, true
            } else {
                return num(node.AsNumber())
            }
        }
        case dfg.LazyJSConstant: {
            s, ok := node.TryGetString()
            require.True(self.t, ok)
            return value { str: s, isStr: true }, true
        }
    }

    /* nothing else is generated */
    self.t.Fatalf("unexpected node: %s", dfg.Describe(self.g, node))
    return value{}, false
}

func (self *interpreter) concat(arg func(int) value) (value, bool) {
    a, b := arg(0), arg(1)
    if a.isStr || b.isStr {
        return value { str: a.String() + b.String(), isStr: true }, true
    } else {
        return value { num: a.num + b.num }, true
    }
}

var (
    oracleOps = []dfg.Op {
        dfg.ArithBitOr,
        dfg.ArithBitXor,
        dfg.ArithBitAnd,
        dfg.ArithBitLShift,
        dfg.ArithBitRShift,
        dfg.ArithBitURShift,
        dfg.ArithAdd,
        dfg.ArithSub,
        dfg.ArithMul,
        dfg.ArithMod,
    }
    oracleConstants = []int32 {
        0, 1, 2, 3, 5, -1, -3, -5, 31, 32, 33, 64, math.MinInt32, math.MaxInt32,
    }
)

func pick[T any](v []T) T {
    return v[gofakeit.Number(0, len(v) - 1)]
}

// randomGraph builds a block of int32 arithmetic over random locals and a
// few string concatenations of constants.
func randomGraph(t *testing.T, size int) (*testGraph, *interpreter) {
    g := newTestGraph(t)
    it := &interpreter { t: t, g: g.Graph, locals: make(map[dfg.Operand]int32) }

    /* the inputs */
    var ints []*dfg.Node
    for i := dfg.Operand(0); i < 4; i++ {
        it.locals[i] = gofakeit.Int32()
        ints = append(ints, g.local(i, dfg.SpecInt32Only))
    }

    /* the arithmetic */
    for i := 0; i < size; i++ {
        a := pick(ints)
        b := pick(ints)

        /* constants show up often on either side */
        if gofakeit.Bool() {
            if b = g.int32(pick(oracleConstants)); gofakeit.Number(0, 3) == 0 {
                a, b = b, a
            }
        }

        /* the node and the optional unsigned conversion */
        op := pick(oracleOps)
        nb := g.add(op, dfg.SpecInt32Only, dfg.OpInfo { ArithMode: dfg.ArithCheckOverflow }, edge(a, dfg.Int32Use), edge(b, dfg.Int32Use))
        if op == dfg.ArithBitURShift && gofakeit.Bool() {
            cv := g.add(dfg.UInt32ToNumber, dfg.SpecFullNumber, dfg.OpInfo { ArithMode: dfg.ArithCheckOverflow }, edge(nb, dfg.Int32Use))
            cv.MergeFlags(dfg.NodeBytecodeUsesAsNumber)
        }

        /* only int32 results feed later nodes */
        if v := it.run(g.bb)[nb]; isInt32(v.num) {
            ints = append(ints, nb)
        }
    }

    /* string concatenations */
    for i := 0; i < 2; i++ {
        s := g.str(gofakeit.Word())
        g.add(dfg.ValueAdd, dfg.SpecString, dfg.OpInfo{}, edge(s, dfg.UntypedUse), edge(g.int32(gofakeit.Int32()), dfg.UntypedUse))
        g.add(dfg.MakeRope, dfg.SpecString, dfg.OpInfo{}, edge(s, dfg.KnownStringUse), edge(g.str(gofakeit.Word()), dfg.KnownStringUse))
    }
    return g, it
}

func TestOracle_RandomGraphs(t *testing.T) {
    for seed := int64(1); seed <= 200; seed++ {
        gofakeit.Seed(seed)
        g, it := randomGraph(t, 24)

        /* evaluate, reduce, evaluate again */
        before := it.run(g.bb)
        g.runValid()
        after := it.run(g.bb)

        /* every node computes what it computed before */
        for nb, want := range before {
            got, ok := after[nb]
            require.True(t, ok, "seed %d: @%d lost its value", seed, nb.ID())
            require.True(t, sameValue(want, got), "seed %d: %s: want %s, got %s\n%s", seed, dfg.Describe(g.Graph, nb), want, got, dfg.Dump(g.Graph))
        }
    }
}

func TestOracle_Idempotent(t *testing.T) {
    for seed := int64(1); seed <= 200; seed++ {
        gofakeit.Seed(seed)
        g, _ := randomGraph(t, 24)
        g.runValid()

        /* whatever was folded stays folded */
        require.False(t, g.runValid(), "seed %d: changed on the second run\n%s", seed, dfg.Dump(g.Graph))
    }
}

func TestOracle_ZeroOperands(t *testing.T) {
    ops := []dfg.Op {
        dfg.ArithBitOr,
        dfg.ArithBitLShift,
        dfg.ArithBitRShift,
        dfg.ArithBitURShift,
    }
    for _, v := range []int32 { 0, -1, math.MinInt32, math.MaxInt32 } {
        g := newTestGraph(t)
        it := &interpreter { t: t, g: g.Graph, locals: map[dfg.Operand]int32 { 0: v } }
        x := g.local(0, dfg.SpecInt32Only)

        /* x op 0 for every op */
        var nodes []*dfg.Node
        for _, op := range ops {
            nodes = append(nodes, g.add(op, dfg.SpecInt32Only, dfg.OpInfo{}, edge(x, dfg.Int32Use), edge(g.int32(0), dfg.Int32Use)))
        }

        /* all of them are x, before and after */
        before := it.run(g.bb)
        require.True(t, g.runValid())
        after := it.run(g.bb)
        for _, nb := range nodes {
            require.Equal(t, dfg.Identity, nb.Op(), "%d", v)
            require.Equal(t, x, nb.Child1().Node())
            require.Equal(t, float64(v), before[nb].num, "%s of %d", dfg.Describe(g.Graph, nb), v)
            require.Equal(t, float64(v), after[nb].num, "%s of %d", dfg.Describe(g.Graph, nb), v)
        }
    }
}

func TestOracle_NestedMod(t *testing.T) {
    gofakeit.Seed(42)
    for i := 0; i < 500; i++ {
        g := newTestGraph(t)
        it := &interpreter { t: t, g: g.Graph, locals: map[dfg.Operand]int32 { 0: gofakeit.Int32() } }
        x := g.local(0, dfg.SpecInt32Only)
        m1 := g.add(dfg.ArithMod, dfg.SpecInt32Only, dfg.OpInfo{}, edge(x, dfg.Int32Use), edge(g.int32(int32(gofakeit.Number(-50, 50))), dfg.Int32Use))
        m2 := g.add(dfg.ArithMod, dfg.SpecInt32Only, dfg.OpInfo{}, edge(m1, dfg.Int32Use), edge(g.int32(int32(gofakeit.Number(-50, 50))), dfg.Int32Use))

        /* the outer modulo may go away, never its value */
        want := it.run(g.bb)[m2]
        g.runValid()
        got := it.run(g.bb)[m2]
        require.True(t, sameValue(want, got), "%s: want %s, got %s", dfg.Describe(g.Graph, m2), want, got)
    }
}
