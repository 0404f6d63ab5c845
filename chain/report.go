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
    `fmt`
    `strings`
)

// Dump renders the per-function report: a banner, one tree per verified
// head, and the local counters. Rendering reads the arena without
// modifying it, so dumping twice gives identical text.
func (self *Result) Dump() string {
    ret := new(strings.Builder)
    fmt.Fprintf(ret, "**********func: %s ********\n", self.Func.Name)

    /* one tree per verified head, in selection order */
    for _, h := range self.Heads {
        fmt.Fprintf(ret, "----Dump start from %s------\n", self.Arena.At(h).B.Name)
        ret.WriteString(dumpNode(self.Arena, h, " ", self.Arena.At(h).Members, h))
        ret.WriteString("\n")
    }

    fmt.Fprintf(ret, "local shortcut number: %d\n", self.Shortcuts)
    fmt.Fprintf(ret, "local shortcut sets (nested if): %d\n", self.Sets)
    fmt.Fprintf(ret, "local sets that failed domination Verify: %d\n\n\n", self.Failed)
    return ret.String()
}

// dumpNode renders one node line, then, only if the node belongs to the
// dumped chain's scope, its edges and children. A chain child outside
// the scope still gets its header line, so absorbed neighbours stay
// visible without expanding foreign chains.
func dumpNode(arena *Arena, r Ref, prefix string, members map[Ref]struct{}, head Ref) string {
    n := arena.At(r)
    s := fmt.Sprintf("%s-%s L(%d)", prefix, n.B.Name, n.Level)

    /* annotations */
    if n.Head {
        s += " (Head)"
    }
    if n.HaveSC {
        s += " (haveSC) path(" + pathString(n.Path) + ")"
    }
    if n.LeftSC {
        s += " (isleftSC)"
    }
    if n.RightSC {
        s += " (isrightSC)"
    }
    s += "\n"

    /* out-of-scope nodes stop at the header line */
    if _, ok := members[r]; !ok && r != head {
        return s
    }
    s += n.Out[0].dump(arena, prefix)
    s += n.Out[1].dump(arena, prefix)

    /* left child, then right child */
    if n.LeftCh == Nil {
        s += prefix + " |" + n.LeftBB.Name + " (leaf)\n"
    } else {
        s += dumpNode(arena, n.LeftCh, prefix + " |", members, head)
    }
    if n.RightCh == Nil {
        s += prefix + "  " + n.RightBB.Name + " (leaf)\n"
    } else {
        s += dumpNode(arena, n.RightCh, prefix + "  ", members, head)
    }
    return s
}

func pathString(path []bool) string {
    s := make([]byte, len(path))
    for i, left := range path {
        if left {
            s[i] = 'L'
        } else {
            s[i] = 'R'
        }
    }
    return string(s)
}
