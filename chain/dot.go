/*
 * Copyright 2022 ByteDance Inc.
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

package chain

import (
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/encoding/dot`
    `gonum.org/v1/gonum/graph/simple`

    `github.com/cloudwego/shortcut/cfg`
)

type _DotNode struct {
    id   int64
    name string
}

func (self _DotNode) ID() int64     { return self.id }
func (self _DotNode) DOTID() string { return self.name }

// Dot renders the verified chains' edge graphs as one DOT digraph,
// blocks as nodes and the materialized chain edges as arcs. Chains of
// the same function share the graph, so a block reached by two chains
// appears once.
func (self *Result) Dot() ([]byte, error) {
    g := simple.NewDirectedGraph()

    /* every chain edge of every verified head */
    for _, h := range self.Heads {
        self.dotChain(g, h)
    }
    return dot.Marshal(g, self.Func.Name, "", "    ")
}

func (self *Result) dotChain(g *simple.DirectedGraph, head Ref) {
    self.dotEdges(g, head)
    for m := range self.Arena.At(head).Members {
        self.dotEdges(g, m)
    }
}

func (self *Result) dotEdges(g *simple.DirectedGraph, r Ref) {
    n := self.Arena.At(r)
    for _, e := range n.Out {
        if e != nil {
            g.SetEdge(g.NewEdge(dotBlock(g, n.B), dotBlock(g, e.To)))
        }
    }
}

func dotBlock(g *simple.DirectedGraph, bb *cfg.BasicBlock) graph.Node {
    n := _DotNode { id: int64(bb.Id), name: bb.Name }
    if g.Node(n.id) == nil {
        g.AddNode(n)
    }
    return n
}
