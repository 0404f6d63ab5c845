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
    `github.com/cloudwego/shortcut/cfg`
)

// Classification splits a function's blocks into chain candidates and
// leaves. The sets are disjoint and together cover every block.
type Classification struct {
    Leaf map[*cfg.BasicBlock]struct{}
    Cand []*cfg.BasicBlock
}

// IsLeaf reports whether bb was classified as a leaf.
func (self *Classification) IsLeaf(bb *cfg.BasicBlock) bool {
    _, ok := self.Leaf[bb]
    return ok
}

// Classify partitions fn's blocks. A candidate must be reachable, end in
// a two-way conditional branch, have no back edge, and compute nothing
// but its own branch condition. Every other block, unreachable ones
// included, is a leaf. Candidates keep function block order.
func Classify(fn *cfg.Function, dom Dominance) *Classification {
    uses := fn.Uses()
    ret := &Classification {
        Leaf: make(map[*cfg.BasicBlock]struct{}),
    }

    /* one pass, in function block order */
    for _, bb := range fn.Blocks {
        if dom.ReachableFromEntry(bb) && isTwowayBranch(bb) && !hasBackEdge(bb, dom) && isOnlyBranch(bb, uses) {
            ret.Cand = append(ret.Cand, bb)
        } else {
            ret.Leaf[bb] = struct{}{}
        }
    }
    return ret
}

func isTwowayBranch(bb *cfg.BasicBlock) bool {
    _, ok := bb.Term.(*cfg.IrBranch)
    return ok
}

// hasBackEdge reports whether either successor of bb's branch dominates
// bb, which makes the branch a loop latch rather than a chain link.
func hasBackEdge(bb *cfg.BasicBlock, dom Dominance) bool {
    br := bb.Term.(*cfg.IrBranch)
    return dom.Dominates(br.Then, bb) || dom.Dominates(br.Else, bb)
}

// isOnlyBranch reports whether every value computed in bb exists solely
// to feed bb's own terminator: no memory writes, no uses outside bb, and
// every use strictly after its definition.
func isOnlyBranch(bb *cfg.BasicBlock, uses map[cfg.Reg][]cfg.Pos) bool {
    for i, v := range bb.Ins {
        if cfg.MayWriteMemory(v) {
            return false
        }
        def, ok := v.(cfg.IrDefinitions)
        if !ok {
            continue
        }
        for _, r := range def.Definitions() {
            for _, u := range uses[*r] {
                if u.B != bb || u.I <= i {
                    return false
                }
            }
        }
    }
    return true
}
