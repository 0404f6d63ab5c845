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

// Rep is an annotation slot carried on chain edges for downstream
// instrumentation passes. The detector itself never fills one in.
type Rep struct {
    NotTo *cfg.BasicBlock
}

// IsNotTo reports whether the annotation excludes n as a target.
func (self *Rep) IsNotTo(n *Node) bool {
    return self.NotTo == n.B
}

// Edge is one directed arc of a verified chain's explicit graph. To is
// always a basic block: a chain child is dereferenced to its own block.
type Edge struct {
    From       Ref
    To         *cfg.BasicBlock
    Propagated *Rep
    Fixed      *Rep
}

func (self *Edge) dump(arena *Arena, prefix string) string {
    s := prefix + "  Edge(" + arena.At(self.From).B.Name + "->" + self.To.Name + ")"
    if self.Propagated != nil {
        s += " propgtRep:" + self.Propagated.NotTo.Name + ";"
    }
    if self.Fixed != nil {
        s += " fixRep:" + self.Fixed.NotTo.Name
    }
    return s + "\n"
}

// BuildEdges materializes the edge graph of every verified head: a BFS
// bounded to the head's member scope gives each node in the scope its
// two out edges, and each edge landing on an in-scope chain child is
// mirrored onto that child's in edges. The result is a view of the
// chain that consumers can walk without re-deriving its shape.
func BuildEdges(arena *Arena, heads []Ref) {
    for _, h := range heads {
        members := arena.At(h).Members
        q := lane.NewQueue()
        m := make(map[Ref]struct{})

        /* scope-bounded BFS from the head */
        for q.Enqueue(h); !q.Empty(); {
            cur := q.Dequeue().(Ref)
            if _, ok := m[cur]; ok {
                continue
            }

            /* build this node, then descend into in-scope chain children */
            m[cur] = struct{}{}
            buildOut(arena, cur, members)
            n := arena.At(cur)
            if ch := n.LeftCh; ch != Nil {
                if _, ok := members[ch]; ok {
                    q.Enqueue(ch)
                }
            }
            if ch := n.RightCh; ch != Nil {
                if _, ok := members[ch]; ok {
                    q.Enqueue(ch)
                }
            }
        }
    }
}

func buildOut(arena *Arena, cur Ref, members map[Ref]struct{}) {
    n := arena.At(cur)

    /* left side */
    if n.LeftCh == Nil {
        n.Out[0] = &Edge { From: cur, To: n.LeftBB }
    } else {
        n.Out[0] = &Edge { From: cur, To: arena.At(n.LeftCh).B }
        if _, ok := members[n.LeftCh]; ok {
            ch := arena.At(n.LeftCh)
            ch.In = append(ch.In, n.Out[0])
        }
    }

    /* right side */
    if n.RightCh == Nil {
        n.Out[1] = &Edge { From: cur, To: n.RightBB }
    } else {
        n.Out[1] = &Edge { From: cur, To: arena.At(n.RightCh).B }
        if _, ok := members[n.RightCh]; ok {
            ch := arena.At(n.RightCh)
            ch.In = append(ch.In, n.Out[1])
        }
    }
}
