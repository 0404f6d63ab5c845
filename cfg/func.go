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

package cfg

import (
    `fmt`
)

// Function is an ordered list of basic blocks, Blocks[0] being the entry.
// The slice order is the stable block order analyses iterate in.
type Function struct {
    Name   string
    Blocks []*BasicBlock
}

func NewFunction(name string) *Function {
    return &Function { Name: name }
}

// NewBlock appends a fresh block to the function. An empty name defaults
// to "bb_<id>".
func (self *Function) NewBlock(name string) *BasicBlock {
    id := len(self.Blocks)
    if name == "" {
        name = fmt.Sprintf("bb_%d", id)
    }
    bb := &BasicBlock { Id: id, Name: name }
    self.Blocks = append(self.Blocks, bb)
    return bb
}

func (self *Function) Entry() *BasicBlock {
    if len(self.Blocks) == 0 {
        panic("cfg: function " + self.Name + " has no blocks")
    }
    return self.Blocks[0]
}

// Uses builds the register-use index of the function: every position that
// reads a register, including terminator reads, which sit at the in-block
// position sentinel after all body instructions.
func (self *Function) Uses() map[Reg][]Pos {
    m := make(map[Reg][]Pos)

    /* scan body instructions and terminators */
    for _, bb := range self.Blocks {
        for i, v := range bb.Ins {
            if u, ok := v.(IrUsages); ok {
                for _, r := range u.Usages() {
                    m[*r] = append(m[*r], pos(bb, i))
                }
            }
        }
        if u, ok := bb.Term.(IrUsages); ok {
            for _, r := range u.Usages() {
                m[*r] = append(m[*r], pos(bb, _P_term))
            }
        }
    }
    return m
}

// Defs builds the register-definition index of the function. Functions are
// expected to be in SSA form, a register defined twice is reported.
func (self *Function) Defs() (map[Reg]Pos, error) {
    m := make(map[Reg]Pos)

    /* definitions only occur in block bodies */
    for _, bb := range self.Blocks {
        for i, v := range bb.Ins {
            d, ok := v.(IrDefinitions)
            if !ok {
                continue
            }
            for _, r := range d.Definitions() {
                if p, dup := m[*r]; dup {
                    return nil, fmt.Errorf("cfg: register %s redefined at %s, first defined at %s", *r, pos(bb, i), p)
                }
                m[*r] = pos(bb, i)
            }
        }
    }
    return m, nil
}

// Program is an ordered collection of functions analyzed one after another.
type Program struct {
    Funcs []*Function
}
