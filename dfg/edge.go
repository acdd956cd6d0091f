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
)

// Edge is a use of a node's result under a use kind.
type Edge struct {
    node *Node
    kind UseKind
}

func NewEdge(node *Node, kind UseKind) Edge {
    return Edge { node: node, kind: kind }
}

func (self Edge) Node() *Node           { return self.node }
func (self Edge) UseKind() UseKind      { return self.kind }
func (self Edge) IsSet() bool           { return self.node != nil }
func (self Edge) WillHaveCheck() bool   { return self.node != nil && self.kind.Checks() }
func (self *Edge) SetNode(node *Node)   { self.node = node }
func (self *Edge) SetUseKind(k UseKind) { self.kind = k }

func (self Edge) String() string {
    if self.node == nil {
        return "-"
    } else if self.kind == UntypedUse {
        return fmt.Sprintf("@%d", self.node.id)
    } else {
        return fmt.Sprintf("%s:@%d", self.kind, self.node.id)
    }
}

// AdjacencyList holds the children of a node: either up to three fixed
// edges, or a window [First, First+Count) of Graph.VarArgChildren.
type AdjacencyList struct {
    varargs bool
    child   [3]Edge
    first   int
    count   int
}

// Fixed builds a fixed adjacency list. The edges must be set from the left.
func Fixed(edges ...Edge) AdjacencyList {
    var ret AdjacencyList
    if len(edges) > len(ret.child) {
        Violate("Fixed", "too many children: %d", len(edges))
    }
    copy(ret.child[:], edges)
    return ret
}

// Variable builds an adjacency list over the vararg buffer.
func Variable(first int, count int) AdjacencyList {
    return AdjacencyList { varargs: true, first: first, count: count }
}

func (self *AdjacencyList) IsVariable() bool { return self.varargs }
func (self *AdjacencyList) FirstChild() int  { return self.first }
func (self *AdjacencyList) NumChildren() int {
    if self.varargs {
        return self.count
    }
    for i, e := range self.child {
        if !e.IsSet() {
            return i
        }
    }
    return len(self.child)
}

// Child returns the i-th fixed edge for in-place mutation.
func (self *AdjacencyList) Child(i int) *Edge {
    if self.varargs {
        Violate("AdjacencyList.Child", "fixed child access on a vararg list")
    }
    return &self.child[i]
}

func (self *AdjacencyList) IsEmpty() bool {
    return self.NumChildren() == 0
}

// JustChecks keeps only the edges that perform a check, compacted to the
// left.
func (self *AdjacencyList) JustChecks() AdjacencyList {
    var ret AdjacencyList
    if self.varargs {
        Violate("AdjacencyList.JustChecks", "vararg list")
    }

    /* compact the checking edges */
    n := 0
    for _, e := range self.child {
        if e.WillHaveCheck() {
            ret.child[n] = e
            n++
        }
    }
    return ret
}

// RemoveEdge drops the i-th fixed edge and shifts the rest to the left.
func (self *AdjacencyList) RemoveEdge(i int) {
    copy(self.child[i:], self.child[i + 1:])
    self.child[len(self.child) - 1] = Edge{}
}
