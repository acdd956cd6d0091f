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

package dfg

import (
    `fmt`

    `github.com/oleiade/lane`
    `go.uber.org/multierr`
)

// ValidationError is a structural problem found in a graph.
type ValidationError struct {
    Block  int
    Index  int
    Node   *Node
    Reason string
}

func (self ValidationError) Error() string {
    if self.Node == nil {
        return fmt.Sprintf("block #%d: %s", self.Block, self.Reason)
    } else {
        return fmt.Sprintf("block #%d, node %d (@%d %s): %s", self.Block, self.Index, self.Node.id, self.Node.op, self.Reason)
    }
}

type nodePos struct {
    block int
    index int
}

type validator struct {
    g   *Graph
    pos map[*Node]nodePos
    err error
}

func (self *validator) report(bb int, i int, node *Node, format string, args ...interface{}) {
    self.err = multierr.Append(self.err, ValidationError {
        Block  : bb,
        Index  : i,
        Node   : node,
        Reason : fmt.Sprintf(format, args...),
    })
}

// Validate checks that every edge of g refers to a node placed in a block,
// and that nodes in the same block are used after they are defined. Every
// problem is reported, combined into one error.
func Validate(g *Graph) error {
    q := lane.NewQueue()
    vv := &validator { g: g, pos: make(map[*Node]nodePos) }

    /* number every placed node */
    for _, bb := range g.Blocks {
        if bb == nil {
            continue
        }
        for i, node := range bb.nodes {
            if node == nil {
                vv.report(bb.Index, i, nil, "nil node at index %d", i)
            } else if p, ok := vv.pos[node]; ok {
                vv.report(bb.Index, i, node, "also placed at block #%d index %d", p.block, p.index)
            } else {
                vv.pos[node] = nodePos { bb.Index, i }
            }
        }
        q.Enqueue(bb)
    }

    /* check the edges, one block at a time */
    for !q.Empty() {
        vv.checkBlock(q.Dequeue().(*BasicBlock))
    }
    return vv.err
}

func (self *validator) checkBlock(bb *BasicBlock) {
    for i, node := range bb.nodes {
        if node != nil {
            self.checkNode(bb, i, node)
        }
    }
}

func (self *validator) checkNode(bb *BasicBlock, i int, node *Node) {
    if node.op == InvalidOp || node.op >= _OpCount {
        self.report(bb.Index, i, node, "invalid op %d", node.op)
        return
    }

    /* vararg windows must stay inside the buffer */
    if node.Children.IsVariable() {
        if first, count := node.Children.FirstChild(), node.Children.NumChildren(); first < 0 || first + count > len(self.g.VarArgChildren) {
            self.report(bb.Index, i, node, "vararg window [%d, %d) out of buffer of size %d", first, first + count, len(self.g.VarArgChildren))
            return
        }
    } else {
        self.checkFixedChildren(bb, i, node)
    }

    /* every edge must point at a placed node defined before the use */
    for j := 0; j < node.NumChildren(); j++ {
        e := self.g.Child(node, j)
        if !e.IsSet() {
            if node.Children.IsVariable() {
                self.report(bb.Index, i, node, "child %d is not set", j)
            }
            continue
        }
        p, ok := self.pos[e.Node()]
        switch {
            case !ok                                  : self.report(bb.Index, i, node, "child %d (@%d) is not in any block", j, e.Node().id)
            case p.block == bb.Index && p.index >= i  : self.report(bb.Index, i, node, "child %d (@%d) is used before its definition", j, e.Node().id)
            case !e.Node().HasResult()                : self.report(bb.Index, i, node, "child %d (@%d %s) has no result", j, e.Node().id, e.Node().op)
        }
    }
}

func (self *validator) checkFixedChildren(bb *BasicBlock, i int, node *Node) {
    gap := false
    for j := 0; j < 3; j++ {
        if !node.Children.Child(j).IsSet() {
            gap = true
        } else if gap {
            self.report(bb.Index, i, node, "child %d is set after an empty slot", j)
        }
    }
}
