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

// SelectHeads walks the function's blocks in order and picks every chain
// head that passes dominance verification. A failing head is counted and
// dropped from the list, nothing more: the pattern matcher only proved
// the shape, and a shape whose head does not control its members is not
// a short-circuit chain. The node keeps its head flag either way.
func SelectHeads(fn *cfg.Function, arena *Arena, dom Dominance) ([]Ref, int) {
    var failed int
    var heads []Ref

    for _, bb := range fn.Blocks {
        r, ok := arena.Lookup(bb)
        if !ok || !arena.At(r).Head {
            continue
        }
        if verifyDomination(arena, r, dom) {
            heads = append(heads, r)
        } else {
            failed++
        }
    }
    return heads, failed
}

// verifyDomination checks that the head's block dominates the block of
// every chain member, which is what makes the chain a single-entry
// control region.
func verifyDomination(arena *Arena, head Ref, dom Dominance) bool {
    h := arena.At(head)
    for m := range h.Members {
        if !dom.Dominates(h.B, arena.At(m).B) {
            return false
        }
    }
    return true
}
