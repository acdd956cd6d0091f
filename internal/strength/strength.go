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
    `github.com/cloudwego/dfgopt/dfg`
    `github.com/cloudwego/dfgopt/internal/opts`
    `github.com/cloudwego/dfgopt/rt`
    `github.com/oleiade/lane`
    `go.uber.org/zap`
)

// Phase rewrites nodes into cheaper equivalent forms, one node at a time.
type Phase struct {
    g         *dfg.Graph
    o         *opts.Options
    log       *zap.Logger
    ins       *dfg.InsertionSet
    block     *dfg.BasicBlock
    node      *dfg.Node
    nodeIndex int
    changed   bool
    rewrites  int
}

// Run applies the phase to g and reports whether anything changed.
func Run(g *dfg.Graph, o opts.Options) bool {
    if g.FixpointState == dfg.FixpointConverged {
        dfg.Violate("strength.Run", "the graph has already converged")
    }

    /* the phase state */
    p := &Phase {
        g   : g,
        o   : &o,
        log : o.Log(),
        ins : dfg.NewInsertionSet(g),
    }

    /* run the phase */
    RunCount.Inc()
    ret := p.run()

    /* update the statistics */
    if RewriteCount.Add(int64(p.rewrites)); ret {
        ChangeCount.Inc()
    }
    return ret
}

func (self *Phase) run() bool {
    st := lane.NewStack()

    /* pushed in order, so the last block is visited first */
    for i := range self.g.Blocks {
        st.Push(i)
    }

    /* handle every node of every block */
    for !st.Empty() {
        if self.block = self.g.Blocks[st.Pop().(int)]; self.block != nil {
            self.runBlock()
        }
    }

    /* trace the summary */
    self.log.Debug("strength reduction done",
        zap.Bool("changed", self.changed),
        zap.Int("rewrites", self.rewrites),
    )
    return self.changed
}

func (self *Phase) runBlock() {
    for self.nodeIndex = 0; self.nodeIndex < self.block.Size(); self.nodeIndex++ {
        changed := self.changed
        self.changed = false
        self.node = self.block.At(self.nodeIndex)
        self.handleNode()

        /* count and trace the rewrite */
        if self.changed {
            self.rewrites++
            self.trace("rewritten")
        }

        /* merge the change bit */
        self.changed = self.changed || changed
    }

    /* splice the pending nodes */
    self.ins.Execute(self.block)
}

func (self *Phase) handleNode() {
    switch self.node.Op() {
        case dfg.Branch                  : self.handlePurifyNaNOnUnary()
        case dfg.PurifyNaN               : self.handlePurifyNaNOnUnary()
        case dfg.DoubleAsInt32           : self.handlePurifyNaNOnUnary()
        case dfg.ValueToInt32            : self.handlePurifyNaNOnUnary()
        case dfg.GlobalIsNaN             : self.handlePurifyNaNOnUnary()
        case dfg.NumberIsNaN             : self.handlePurifyNaNOnUnary()
        case dfg.GlobalIsFinite          : self.handlePurifyNaNOnUnary()
        case dfg.NumberIsFinite          : self.handlePurifyNaNOnUnary()
        case dfg.NumberIsSafeInteger     : self.handlePurifyNaNOnUnary()
        case dfg.ParseInt                : self.handlePurifyNaNOnUnary()
        case dfg.ToIntegerOrInfinity     : self.handlePurifyNaNOnUnary()
        case dfg.ToLength                : self.handlePurifyNaNOnUnary()
        case dfg.ArithFRound             : self.handlePurifyNaNOnUnary()
        case dfg.ArithF16Round           : self.handlePurifyNaNOnUnary()
        case dfg.ArithRound              : self.handlePurifyNaNOnUnary()
        case dfg.ArithFloor              : self.handlePurifyNaNOnUnary()
        case dfg.ArithCeil               : self.handlePurifyNaNOnUnary()
        case dfg.ArithTrunc              : self.handlePurifyNaNOnUnary()
        case dfg.ArithSqrt               : self.handlePurifyNaNOnUnary()
        case dfg.ArithAbs                : self.handlePurifyNaNOnUnary()
        case dfg.ArithNegate             : self.handlePurifyNaNOnUnary()
        case dfg.ArithUnary              : self.handlePurifyNaNOnUnary()
        case dfg.NumberToStringWithRadix : self.handlePurifyNaNOnUnary()
        case dfg.ArithBitOr              : self.handleBitOr()
        case dfg.ArithBitXor             : self.handleCommutativity()
        case dfg.ArithBitAnd             : self.handleCommutativity()
        case dfg.ArithBitLShift          : self.handleShift()
        case dfg.ArithBitRShift          : self.handleShift()
        case dfg.ArithBitURShift         : self.handleShift()
        case dfg.UInt32ToNumber          : self.handleUInt32ToNumber()
        case dfg.ArithAdd                : self.handleArithAdd()
        case dfg.ValueMul                : self.handleBigIntCommutativity()
        case dfg.ValueBitOr              : self.handleBigIntCommutativity()
        case dfg.ValueBitAnd             : self.handleBigIntCommutativity()
        case dfg.ValueBitXor             : self.handleBigIntCommutativity()
        case dfg.ArithMul                : self.handleArithMul()
        case dfg.ArithSub                : self.handleArithSub()
        case dfg.ArithPow                : self.handleArithPow()
        case dfg.ArithMod                : self.handleArithMod()
        case dfg.ArithDiv                : self.handleArithDiv()
        case dfg.ValueRep                : self.handleRepresentation()
        case dfg.Int52Rep                : self.handleRepresentation()
        case dfg.Flush                   : self.handleFlush()
        case dfg.OverridesHasInstance    : self.handleOverridesHasInstance()
        case dfg.ValueAdd                : self.handleValueAdd()
        case dfg.MakeRope                : self.handleStringConcat()
        case dfg.MakeAtomString          : self.handleStringConcat()
        case dfg.StrCat                  : self.handleStringConcat()
        case dfg.ToString                : self.handleToString()
        case dfg.CallStringConstructor   : self.handleToString()
        case dfg.GetArrayLength          : self.handleGetArrayLength()
        case dfg.GetGlobalObject         : self.handleGetGlobalObject()
        case dfg.NewRegExpUntyped        : self.handleNewRegExpUntyped()
        case dfg.RegExpSearch            : self.handleRegExp()
        case dfg.RegExpExec              : self.handleRegExp()
        case dfg.RegExpTest              : self.handleRegExp()
        case dfg.RegExpMatchFast         : self.handleRegExp()
        case dfg.StringReplaceString     : self.handleStringReplaceString()
        case dfg.StringSubstring         : self.handleSubstring()
        case dfg.StringSlice             : self.handleSubstring()
        case dfg.GetByVal                : self.handleGetByVal()
        case dfg.GetByValMegamorphic     : self.handleGetByVal()
        case dfg.PutByVal                : self.handlePutByVal()
        case dfg.PutByValDirect          : self.handlePutByVal()
        case dfg.PutByValAlias           : self.handlePutByVal()
        case dfg.PutByValMegamorphic     : self.handlePutByVal()
        case dfg.InByVal                 : self.handleInByVal()
        case dfg.InByValMegamorphic      : self.handleInByVal()
        case dfg.HasOwnProperty          : self.handleHasOwnProperty()
        case dfg.CompareStrictEq         : self.handleCompare()
        case dfg.SameValue               : self.handleCompare()
        case dfg.CompareEq               : self.handleCompare()
        case dfg.CompareLess             : self.handleCompare()
        case dfg.CompareLessEq           : self.handleCompare()
        case dfg.CompareGreater          : self.handleCompare()
        case dfg.CompareGreaterEq        : self.handleCompare()
        case dfg.CheckInBounds           : self.handleCheckInBounds()
        case dfg.Call                    : self.handleCall()
        case dfg.Construct               : self.handleCall()
        case dfg.TailCall                : self.handleCall()
        case dfg.TailCallInlinedCaller   : self.handleCall()

        /* ops sharing a handler with a longer name */
        case dfg.StringReplace, dfg.StringReplaceAll, dfg.StringReplaceRegExp : self.handleStringReplace()
        case dfg.RegExpExecNonGlobalOrSticky                                  : self.handleRegExp()
        case dfg.NumberToStringWithValidRadixConstant                         : self.handleNumberToStringWithRadix()
    }
}

// trace logs a message about the current node at debug level.
func (self *Phase) trace(msg string, fields ...zap.Field) {
    if ce := self.log.Check(zap.DebugLevel, msg); ce != nil {
        ce.Write(append(fields,
            zap.Uint32("node", self.node.ID()),
            zap.Stringer("op", self.node.Op()),
            zap.Int("block", self.block.Index),
            zap.Int("index", self.nodeIndex),
        )...)
    }
}

// payload dumps the payload of a node, only when the entry is written.
type payload struct {
    node *dfg.Node
}

func (self payload) String() string {
    return dfg.DumpInfo(self.node)
}

// giveUp records why a fold did not apply.
func (self *Phase) giveUp(reason string, fields ...zap.Field) {
    GiveUpCount.Inc()
    self.trace("giving up: " + reason, append(fields, zap.Stringer("payload", payload { self.node }))...)
}

// executeInsertionSet splices the pending nodes now and moves the cursor
// past the ones inserted before it.
func (self *Phase) executeInsertionSet() {
    self.nodeIndex += self.ins.Execute(self.block)
}

// insertCheck reproduces the checks node performs before the cursor.
func (self *Phase) insertCheck(node *dfg.Node) {
    self.ins.InsertCheckFor(self.nodeIndex, node)
}

// convertToIdentityOverChild turns the current binary node into a
// pass-through of child i.
func (self *Phase) convertToIdentityOverChild(i int) {
    if self.node.Children.IsVariable() {
        dfg.Violate("Phase.convertToIdentityOverChild", "@%d: %s has vararg children", self.node.ID(), self.node.Op())
    }
    self.insertCheck(self.node)
    self.node.Children.RemoveEdge(i ^ 1)
    self.node.ConvertToIdentity()
    self.changed = true
}

func (self *Phase) convertToIdentityOverChild1() {
    self.convertToIdentityOverChild(0)
}

// convertToLazyJSValue folds node to a lazily materialized constant, keeping
// its checks.
func (self *Phase) convertToLazyJSValue(node *dfg.Node, value dfg.LazyJSValue) {
    self.insertCheck(node)
    node.ConvertToLazyJSConstant(self.g, value)
}

// convertToConstant folds the current node to v, keeping its checks.
func (self *Phase) convertToConstant(v rt.Value) {
    self.insertCheck(self.node)
    self.g.ConvertToConstant(self.node, v)
    self.changed = true
}
