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
    `strings`
)

// BasicBlock is a maximal straight-line instruction sequence ending in one
// terminator. Blocks are compared by identity; Name only feeds diagnostics
// and reports.
type BasicBlock struct {
    Id   int
    Name string
    Ins  []IrNode
    Pred []*BasicBlock
    Term IrTerminator
}

func (self *BasicBlock) String() string {
    return self.Name
}

func (self *BasicBlock) addPred(p *BasicBlock) {
    for _, b := range self.Pred {
        if b == p {
            return
        }
    }
    self.Pred = append(self.Pred, p)
}

// Append adds value instructions to the block body.
func (self *BasicBlock) Append(ins ...IrNode) *BasicBlock {
    for _, v := range ins {
        if _, ok := v.(IrTerminator); ok {
            panic(fmt.Sprintf("cfg: terminator %s appended as body instruction", v))
        }
    }
    self.Ins = append(self.Ins, ins...)
    return self
}

/* terminator setters, each maintains the predecessor lists */

func (self *BasicBlock) Jump(to *BasicBlock) {
    self.Term = &IrJump { To: to }
    to.addPred(self)
}

func (self *BasicBlock) Branch(v Reg, then *BasicBlock, els *BasicBlock) {
    self.Term = &IrBranch { V: v, Then: then, Else: els }
    then.addPred(self)
    els.addPred(self)
}

func (self *BasicBlock) Switch(v Reg, ln *BasicBlock, br map[int64]*BasicBlock) {
    self.Term = &IrSwitch { V: v, Ln: ln, Br: br }
    ln.addPred(self)
    for _, bb := range br {
        bb.addPred(self)
    }
}

func (self *BasicBlock) Return(rr ...Reg) {
    self.Term = &IrReturn { R: rr }
}

// Disassemble renders the block body and terminator, one instruction per
// line, for diagnostics.
func (self *BasicBlock) Disassemble() string {
    var buf strings.Builder
    fmt.Fprintf(&buf, "%s:\n", self.Name)

    /* dump the body */
    for _, v := range self.Ins {
        fmt.Fprintf(&buf, "    %s\n", v)
    }

    /* dump the terminator, if set */
    if self.Term != nil {
        fmt.Fprintf(&buf, "    %s\n", self.Term)
    }
    return buf.String()
}
