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
    `strings`

    `github.com/davecgh/go-spew/spew`
)

var infoDumper = spew.ConfigState {
    Indent                  : "    ",
    SortKeys                : true,
    DisablePointerMethods   : true,
    DisablePointerAddresses : true,
    DisableCapacities       : true,
    MaxDepth                : 3,
}

// DumpInfo is a deep dump of the payload of a node.
func DumpInfo(node *Node) string {
    return infoDumper.Sdump(node.info)
}

// Describe formats a node on one line, resolving vararg children through g.
func Describe(g *Graph, node *Node) string {
    var args []string
    for i := 0; i < node.NumChildren(); i++ {
        args = append(args, g.Child(node, i).String())
    }

    /* the payload, when there is one */
    switch {
        case node.info.Lazy != nil     : args = append(args, node.info.Lazy.String())
        case node.info.Constant != nil : args = append(args, node.info.Constant.String())
    }
    if node.info.Constant2 != nil {
        args = append(args, node.info.Constant2.String())
    }
    if node.info.ArithMode != ArithNotSet {
        args = append(args, node.info.ArithMode.String())
    }

    /* result kind and origin */
    return fmt.Sprintf(
        "@%d: %s(%s) %s %s",
        node.id,
        node.op,
        strings.Join(args, ", "),
        node.flags,
        node.Origin,
    )
}

func (self *Node) String() string {
    return fmt.Sprintf("@%d:%s", self.id, self.op)
}

// Dump formats the whole graph, one node per line.
func Dump(g *Graph) string {
    var sb strings.Builder
    for _, bb := range g.Blocks {
        if bb == nil {
            continue
        }
        fmt.Fprintf(&sb, "block #%d:\n", bb.Index)
        for _, node := range bb.nodes {
            sb.WriteString("    ")
            sb.WriteString(Describe(g, node))
            sb.WriteByte('\n')
        }
    }
    return sb.String()
}
