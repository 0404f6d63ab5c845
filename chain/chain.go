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

// Package chain discovers shortcut branches: conditional branches that are
// not independent decisions but the lowered form of a chained boolean
// short-circuit expression, where one branch's continue edge leads into
// another branch that feeds a shared downstream target.
//
// The analysis never mutates the CFG. Per function it runs
//
//	Classify -> Build (fixpoint) -> SelectHeads/Verify -> BuildEdges -> Report
//
// and produces a Result holding the verified chain heads, the node arena
// and the report counters.
package chain

import (
    `github.com/cloudwego/shortcut/cfg`
)

// Dominance is the oracle the analysis consults. cfg.DominatorTree
// satisfies it.
type Dominance interface {
    Dominates(a *cfg.BasicBlock, b *cfg.BasicBlock) bool
    ReachableFromEntry(bb *cfg.BasicBlock) bool
}

// Ref is a stable handle into the per-function node arena.
type Ref int32

// Nil is the absent-node handle.
const Nil Ref = -1

// Node is one chain node. A node is built exactly once per candidate block;
// each child is either a leaf block (LeftBB / RightBB) or another chain node
// (LeftCh / RightCh), never both, never neither.
//
// Head starts false and is set, together with HaveSC, when construction of
// this node detects a shortcut. A head is un-headed again when a larger
// chain built later absorbs it as a member; the node itself is never
// destroyed or reused.
type Node struct {
    B       *cfg.BasicBlock
    LeftBB  *cfg.BasicBlock
    RightBB *cfg.BasicBlock
    LeftCh  Ref
    RightCh Ref

    /* Level is 0 for a node whose children are both leaves, otherwise
     * 1 + max over the chain children's levels (leaf subtrees count -1). */
    Level int

    Head   bool
    HaveSC bool

    /* LeftSC marks the left child as the shared target, found inside the
     * right subtree; RightSC is the mirror case. At most one is ever set. */
    LeftSC  bool
    RightSC bool

    /* Path records the descent from the searched subtree root to the
     * matched child, true = left. NMembers is len(Members) + 1: every
     * distinct chain node of this head's chain, itself included. */
    Path     []bool
    Members  map[Ref]struct{}
    NMembers int

    /* edge graph, built only for verified heads and their members */
    Out [2]*Edge
    In  []*Edge

    /* matcher scratch: the node whose subtree walk discovered this one,
     * and on which side. Only valid along a freshly matched path. */
    uplink  Ref
    momleft bool
}

// Arena owns every Node of one function's analysis, addressed by Ref.
// Child links and the matcher back-link are arena indices, so absorbing a
// sub-chain is a flag flip on a slot, not a pointer-lifetime question.
type Arena struct {
    fname string
    Nodes []Node
    index map[*cfg.BasicBlock]Ref
}

func newArena(fname string) *Arena {
    return &Arena {
        fname : fname,
        index : make(map[*cfg.BasicBlock]Ref),
    }
}

// At resolves a handle. The pointer stays valid until the next alloc.
func (self *Arena) At(r Ref) *Node {
    return &self.Nodes[r]
}

// Lookup finds the chain node built for bb, if any.
func (self *Arena) Lookup(bb *cfg.BasicBlock) (Ref, bool) {
    r, ok := self.index[bb]
    return r, ok
}

func (self *Arena) alloc(bb *cfg.BasicBlock) Ref {
    r := Ref(len(self.Nodes))
    self.Nodes = append(self.Nodes, Node {
        B       : bb,
        LeftCh  : Nil,
        RightCh : Nil,
        uplink  : Nil,
    })
    self.index[bb] = r
    return r
}

// Result is one function's analysis outcome.
type Result struct {
    Func  *cfg.Function
    Arena *Arena

    /* verified heads, in function block order */
    Heads []Ref

    /* report counters: Shortcuts sums NMembers over verified heads, Sets
     * counts the heads, Failed counts heads dropped by verification */
    Shortcuts int
    Sets      int
    Failed    int
}

// Analyze runs the whole pipeline over one function. The CFG is read-only
// to it. A non-nil error is an invariant violation in chain construction;
// no partial results accompany it.
func Analyze(fn *cfg.Function, dom Dominance) (*Result, error) {
    cls := Classify(fn, dom)

    /* fixpoint chain construction over the candidates */
    arena, err := Build(fn, cls)
    if err != nil {
        return nil, err
    }

    /* head selection, dominance verification, edge materialization */
    heads, failed := SelectHeads(fn, arena, dom)
    BuildEdges(arena, heads)

    /* fill the counters */
    ret := &Result {
        Func   : fn,
        Arena  : arena,
        Heads  : heads,
        Sets   : len(heads),
        Failed : failed,
    }
    for _, h := range heads {
        ret.Shortcuts += arena.At(h).NMembers
    }
    return ret, nil
}
