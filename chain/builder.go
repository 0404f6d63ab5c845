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
    `github.com/oleiade/lane`

    `github.com/cloudwego/shortcut/cfg`
)

// Build resolves every candidate into a chain node where possible. A
// candidate resolves once both branch targets are a leaf or an already
// resolved candidate, so resolution runs as a fixpoint over the candidate
// list in function block order. Candidates still unresolved at the
// fixpoint sit on a successor cycle and are left out of the arena.
func Build(fn *cfg.Function, cls *Classification) (*Arena, error) {
    arena := newArena(fn.Name)

    /* every pass either resolves at least one candidate or ends the loop */
    for changed := true; changed; {
        changed = false
        for _, bb := range cls.Cand {
            if _, ok := arena.Lookup(bb); ok {
                continue
            }

            /* candidates end in a two-way branch, left = then, right = else */
            br := bb.Term.(*cfg.IrBranch)
            lb, lc, lok := resolveChild(arena, cls, br.Then)
            rb, rc, rok := resolveChild(arena, cls, br.Else)

            /* both children must be settled before the node can be built */
            if !lok || !rok {
                continue
            }
            if err := construct(arena, bb, lb, lc, rb, rc); err != nil {
                return nil, err
            }
            changed = true
        }
    }
    return arena, nil
}

func resolveChild(arena *Arena, cls *Classification, bb *cfg.BasicBlock) (*cfg.BasicBlock, Ref, bool) {
    if cls.IsLeaf(bb) {
        return bb, Nil, true
    } else if r, ok := arena.Lookup(bb); ok {
        return nil, r, true
    } else {
        return nil, Nil, false
    }
}

func sublevel(arena *Arena, r Ref) int {
    if r == Nil {
        return -1
    } else {
        return arena.At(r).Level
    }
}

func maxInt(a int, b int) int {
    if a > b {
        return a
    } else {
        return b
    }
}

// construct builds the node for bb in one of the four child shapes and
// runs shortcut detection as part of construction. For a mixed shape the
// sibling leaf is the would-be shared target, searched for inside the
// chain child's subtree; for chain/chain each child's own block is
// searched for inside the other child's subtree, and at most one side is
// allowed to match.
func construct(arena *Arena, bb *cfg.BasicBlock, lb *cfg.BasicBlock, lc Ref, rb *cfg.BasicBlock, rc Ref) error {
    r := arena.alloc(bb)
    n := arena.At(r)
    n.LeftBB, n.LeftCh = lb, lc
    n.RightBB, n.RightCh = rb, rc
    n.Level = 1 + maxInt(sublevel(arena, lc), sublevel(arena, rc))

    /* leaf/leaf has no subtree to search */
    if lc == Nil && rc == Nil {
        return nil
    }

    /* leaf/chain */
    if lc == Nil {
        if mid, last, ok := findShortcut(arena, rc, lb); ok {
            return markShortcut(arena, r, mid, rc, last, true)
        }
        return nil
    }

    /* chain/leaf */
    if rc == Nil {
        if mid, last, ok := findShortcut(arena, lc, rb); ok {
            return markShortcut(arena, r, mid, lc, last, false)
        }
        return nil
    }

    /* chain/chain, both directions */
    if mid, last, ok := findShortcut(arena, rc, arena.At(lc).B); ok {
        if err := markShortcut(arena, r, mid, rc, last, true); err != nil {
            return err
        }
    }
    if mid, last, ok := findShortcut(arena, lc, arena.At(rc).B); ok {
        if arena.At(r).HaveSC {
            return InvariantError {
                Func   : arena.fname,
                Block  : bb,
                Reason : "shortcut detected on both children",
            }
        }
        if err := markShortcut(arena, r, mid, lc, last, false); err != nil {
            return err
        }
    }
    return nil
}

// findShortcut searches the subtree under root for a child equal to key,
// breadth-first, each node visited at most once. A leaf child matches on
// the block itself, a chain child on its owning block. It returns the
// parent of the matched child and the side the match was on; the parent
// links written along the way trace the discovery path back to root.
// The root's own block is never tested.
func findShortcut(arena *Arena, root Ref, key *cfg.BasicBlock) (Ref, bool, bool) {
    q := lane.NewQueue()
    m := make(map[Ref]struct{})
    m[root] = struct{}{}

    /* traverse the subtree with BFS */
    for q.Enqueue(root); !q.Empty(); {
        cur := q.Dequeue().(Ref)
        n := arena.At(cur)

        /* leaf children first */
        if n.LeftBB == key {
            return cur, true, true
        }
        if n.RightBB == key {
            return cur, false, true
        }

        /* then chain children, left before right */
        if ch := n.LeftCh; ch != Nil {
            if _, ok := m[ch]; !ok {
                if arena.At(ch).B == key {
                    return cur, true, true
                }
                arena.At(ch).uplink, arena.At(ch).momleft = cur, true
                m[ch] = struct{}{}
                q.Enqueue(ch)
            }
        }
        if ch := n.RightCh; ch != Nil {
            if _, ok := m[ch]; !ok {
                if arena.At(ch).B == key {
                    return cur, false, true
                }
                arena.At(ch).uplink, arena.At(ch).momleft = cur, false
                m[ch] = struct{}{}
                q.Enqueue(ch)
            }
        }
    }
    return Nil, false, false
}

// markShortcut turns the freshly built node at head into a chain head:
// it absorbs the matched path into the member set, then records the
// shortcut side and the descent path.
func markShortcut(arena *Arena, head Ref, mid Ref, pathstart Ref, lastLeft bool, left bool) error {
    if err := collectMembers(arena, head, mid, pathstart); err != nil {
        return err
    }
    n := arena.At(head)
    n.Head, n.HaveSC = true, true
    n.Path = chainPath(arena, mid, pathstart, lastLeft)
    if left {
        n.LeftSC = true
    } else {
        n.RightSC = true
    }
    return nil
}

// collectMembers walks from the matched parent up to the searched
// subtree root, inserting every node on the path. Nodes that headed
// their own chain are demoted and their member sets folded in. The walk
// must reach pathstart; running off a severed parent link means the
// builder produced an inconsistent path and the analysis cannot stand.
func collectMembers(arena *Arena, head Ref, mid Ref, pathstart Ref) error {
    h := arena.At(head)
    h.Members = make(map[Ref]struct{})

    for cur := mid; ; {
        n := arena.At(cur)
        if n.Head {
            n.Head = false
            for mm := range n.Members {
                h.Members[mm] = struct{}{}
            }
        }
        h.Members[cur] = struct{}{}
        if cur == pathstart {
            break
        }
        if cur = n.uplink; cur == Nil {
            return InvariantError {
                Func   : arena.fname,
                Block  : h.B,
                Reason : "chain member walk hit a severed parent link",
            }
        }
    }

    /* the head itself counts too */
    h.NMembers = len(h.Members) + 1
    return nil
}

// chainPath reconstructs the left/right descent from pathstart down to
// the matched child: the parent links read bottom-up, so the walk
// collects them and reverses, with the final hop from the matched parent
// appended as lastLeft.
func chainPath(arena *Arena, mid Ref, pathstart Ref, lastLeft bool) []bool {
    path := []bool { lastLeft }
    for cur := mid; cur != pathstart; cur = arena.At(cur).uplink {
        path = append(path, arena.At(cur).momleft)
    }
    for i, j := 0, len(path) - 1; i < j; i, j = i + 1, j - 1 {
        path[i], path[j] = path[j], path[i]
    }
    return path
}
