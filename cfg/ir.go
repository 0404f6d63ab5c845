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
    `sort`
    `strings`
)

// Reg is a virtual register. Functions are expected to be in SSA form:
// every register has exactly one defining instruction.
type Reg int32

func (self Reg) String() string {
    return fmt.Sprintf("%%%d", int32(self))
}

type IrNode interface {
    fmt.Stringer
    irnode()
}

func (*IrConstInt)   irnode() {}
func (*IrUnaryExpr)  irnode() {}
func (*IrBinaryExpr) irnode() {}
func (*IrLoad)       irnode() {}
func (*IrStore)      irnode() {}
func (*IrCall)       irnode() {}
func (*IrJump)       irnode() {}
func (*IrBranch)     irnode() {}
func (*IrSwitch)     irnode() {}
func (*IrReturn)     irnode() {}

type IrUsages interface {
    IrNode
    Usages() []*Reg
}

type IrDefinitions interface {
    IrNode
    Definitions() []*Reg
}

// MayWriteMemory reports whether the instruction can write to memory.
// The instruction set is closed, so the effect of every kind is decided here
// once and for all: stores write, calls are assumed to write, everything
// else is pure or read-only.
func MayWriteMemory(v IrNode) bool {
    switch v.(type) {
        case *IrStore : return true
        case *IrCall  : return true
        default       : return false
    }
}

type IrUnaryOp uint8

const (
    IrOpNegate IrUnaryOp = iota
    IrOpNot
)

func (self IrUnaryOp) String() string {
    switch self {
        case IrOpNegate : return "negate"
        case IrOpNot    : return "not"
        default         : panic("unreachable")
    }
}

type IrBinaryOp uint8

const (
    IrOpAdd IrBinaryOp = iota
    IrOpSub
    IrOpMul
    IrOpAnd
    IrOpOr
    IrOpXor
    IrCmpEq
    IrCmpNe
    IrCmpLt
    IrCmpGe
)

func (self IrBinaryOp) String() string {
    switch self {
        case IrOpAdd : return "+"
        case IrOpSub : return "-"
        case IrOpMul : return "*"
        case IrOpAnd : return "&"
        case IrOpOr  : return "|"
        case IrOpXor : return "^"
        case IrCmpEq : return "=="
        case IrCmpNe : return "!="
        case IrCmpLt : return "<"
        case IrCmpGe : return ">="
        default      : panic("unreachable")
    }
}

type IrConstInt struct {
    R Reg
    V int64
}

func (self *IrConstInt) String() string {
    return fmt.Sprintf("%s = const %d", self.R, self.V)
}

func (self *IrConstInt) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrUnaryExpr struct {
    R  Reg
    V  Reg
    Op IrUnaryOp
}

func (self *IrUnaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s", self.R, self.Op, self.V)
}

func (self *IrUnaryExpr) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrUnaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrBinaryExpr struct {
    R  Reg
    X  Reg
    Y  Reg
    Op IrBinaryOp
}

func (self *IrBinaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s %s", self.R, self.X, self.Op, self.Y)
}

func (self *IrBinaryExpr) Usages() []*Reg {
    return []*Reg { &self.X, &self.Y }
}

func (self *IrBinaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrLoad struct {
    R   Reg
    Mem Reg
}

func (self *IrLoad) String() string {
    return fmt.Sprintf("%s = load %s", self.R, self.Mem)
}

func (self *IrLoad) Usages() []*Reg {
    return []*Reg { &self.Mem }
}

func (self *IrLoad) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrStore struct {
    R   Reg
    Mem Reg
}

func (self *IrStore) String() string {
    return fmt.Sprintf("store %s -> %s", self.R, self.Mem)
}

func (self *IrStore) Usages() []*Reg {
    return []*Reg { &self.R, &self.Mem }
}

type IrCall struct {
    Fn  string
    In  []Reg
    Out []Reg
}

func (self *IrCall) String() string {
    in := make([]string, 0, len(self.In))
    out := make([]string, 0, len(self.Out))

    /* dump every register */
    for _, r := range self.In { in = append(in, r.String()) }
    for _, r := range self.Out { out = append(out, r.String()) }

    /* call without return values */
    if len(out) == 0 {
        return fmt.Sprintf("call %s(%s)", self.Fn, strings.Join(in, ", "))
    }

    /* join them together */
    return fmt.Sprintf(
        "%s = call %s(%s)",
        strings.Join(out, ", "),
        self.Fn,
        strings.Join(in, ", "),
    )
}

func (self *IrCall) Usages() []*Reg {
    return regsliceref(self.In)
}

func (self *IrCall) Definitions() []*Reg {
    return regsliceref(self.Out)
}

type IrSuccessors interface {
    Next() bool
    Block() *BasicBlock
    Value() (int64, bool)
}

// IrTerminator is the closed set of block terminators: an unconditional
// jump, a conditional two-way branch, a multi-way switch or a return.
type IrTerminator interface {
    IrNode
    Successors() IrSuccessors
    irterminator()
}

func (*IrJump)   irterminator() {}
func (*IrBranch) irterminator() {}
func (*IrSwitch) irterminator() {}
func (*IrReturn) irterminator() {}

type _EmptySuccessor struct{}
func (_EmptySuccessor) Next()  bool          { return false }
func (_EmptySuccessor) Block() *BasicBlock   { return nil }
func (_EmptySuccessor) Value() (int64, bool) { return 0, false }

type _LinearSuccessors struct {
    v *BasicBlock
    p []*BasicBlock
}

func (self *_LinearSuccessors) Next() bool {
    if len(self.p) == 0 {
        self.v = nil
        return false
    } else {
        self.v, self.p = self.p[0], self.p[1:]
        return true
    }
}

func (self *_LinearSuccessors) Block() *BasicBlock   { return self.v }
func (self *_LinearSuccessors) Value() (int64, bool) { return 0, false }

type IrJump struct {
    To *BasicBlock
}

func (self *IrJump) String() string {
    return fmt.Sprintf("goto %s", self.To.Name)
}

func (self *IrJump) Successors() IrSuccessors {
    return &_LinearSuccessors { p: []*BasicBlock { self.To } }
}

// IrBranch is the two-way conditional branch. Then is successor 0 (the
// "left" child in chain terms), Else is successor 1 (the "right" child).
type IrBranch struct {
    V    Reg
    Then *BasicBlock
    Else *BasicBlock
}

func (self *IrBranch) String() string {
    return fmt.Sprintf("if %s then %s else %s", self.V, self.Then.Name, self.Else.Name)
}

func (self *IrBranch) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrBranch) Successors() IrSuccessors {
    return &_LinearSuccessors { p: []*BasicBlock { self.Then, self.Else } }
}

type _SwitchSuccessors struct {
    i  int
    k  []int64
    t  map[int64]*BasicBlock
    ln *BasicBlock
    v  *BasicBlock
    ok bool
}

func (self *_SwitchSuccessors) Next() bool {
    if self.i < len(self.k) {
        self.v = self.t[self.k[self.i]]
        self.ok = true
        self.i++
        return true
    } else if self.ln != nil {
        self.v = self.ln
        self.ok = false
        self.ln = nil
        return true
    } else {
        self.v = nil
        return false
    }
}

func (self *_SwitchSuccessors) Block() *BasicBlock {
    return self.v
}

func (self *_SwitchSuccessors) Value() (int64, bool) {
    if !self.ok || self.i == 0 {
        return 0, false
    } else {
        return self.k[self.i - 1], true
    }
}

// IrSwitch is the multi-way terminator, Ln being the default target. It is
// never a chain anchor, two-way selection must use IrBranch.
type IrSwitch struct {
    V  Reg
    Ln *BasicBlock
    Br map[int64]*BasicBlock
}

func (self *IrSwitch) String() string {
    nb := len(self.Br)
    ret := make([]string, 0, nb)

    /* add each case, in value order */
    for _, id := range self.cases() {
        ret = append(ret, fmt.Sprintf("  %d => %s,", id, self.Br[id].Name))
    }

    /* default branch */
    ret = append(ret, fmt.Sprintf(
        "  _ => %s,",
        self.Ln.Name,
    ))

    /* join them together */
    return fmt.Sprintf(
        "switch %s {\n%s\n}",
        self.V,
        strings.Join(ret, "\n"),
    )
}

func (self *IrSwitch) cases() []int64 {
    ks := make([]int64, 0, len(self.Br))
    for id := range self.Br { ks = append(ks, id) }
    sort.Slice(ks, func(i int, j int) bool { return ks[i] < ks[j] })
    return ks
}

func (self *IrSwitch) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrSwitch) Successors() IrSuccessors {
    return &_SwitchSuccessors {
        k  : self.cases(),
        t  : self.Br,
        ln : self.Ln,
    }
}

type IrReturn struct {
    R []Reg
}

func (self *IrReturn) String() string {
    nb := len(self.R)
    ret := make([]string, 0, nb)

    /* dump every register */
    for _, r := range self.R {
        ret = append(ret, r.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "ret {%s}",
        strings.Join(ret, ", "),
    )
}

func (self *IrReturn) Usages() []*Reg {
    return regsliceref(self.R)
}

func (self *IrReturn) Successors() IrSuccessors {
    return _EmptySuccessor{}
}

func regsliceref(rr []Reg) []*Reg {
    rs := make([]*Reg, len(rr))
    for i := range rr { rs[i] = &rr[i] }
    return rs
}
