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

// Package loader reads program files into cfg form. A program file is
// YAML: a list of functions, each an ordered list of named blocks with
// body instructions and exactly one terminator. Registers are named and
// must be in SSA form; names resolve across the whole function, so a
// block may read a register that a later block defines.
package loader

import (
    `fmt`
    `os`

    `gopkg.in/yaml.v2`

    `github.com/cloudwego/shortcut/cfg`
)

type programSpec struct {
    Functions []funcSpec `yaml:"functions"`
}

type funcSpec struct {
    Name   string      `yaml:"name"`
    Args   []string    `yaml:"args,omitempty"`
    Blocks []blockSpec `yaml:"blocks"`
}

type blockSpec struct {
    Name   string      `yaml:"name"`
    Ins    []insSpec   `yaml:"ins,omitempty"`
    Branch *branchSpec `yaml:"branch,omitempty"`
    Jump   string      `yaml:"jump,omitempty"`
    Switch *switchSpec `yaml:"switch,omitempty"`
    Ret    *[]string   `yaml:"ret,omitempty"`
}

type insSpec struct {
    Op  string   `yaml:"op"`
    Dst string   `yaml:"dst,omitempty"`
    Src []string `yaml:"src,omitempty"`
    Val int64    `yaml:"val,omitempty"`
    Fn  string   `yaml:"fn,omitempty"`
}

type branchSpec struct {
    On   string `yaml:"on"`
    Then string `yaml:"then"`
    Else string `yaml:"else"`
}

type switchSpec struct {
    On      string           `yaml:"on"`
    Cases   map[int64]string `yaml:"cases"`
    Default string           `yaml:"default"`
}

// Load reads and parses one program file.
func Load(path string) (*cfg.Program, error) {
    data, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("cannot read program from %q: %w", path, err)
    }
    p, err := ParseProgram(data)
    if err != nil {
        return nil, fmt.Errorf("cannot parse program from %q: %w", path, err)
    }
    return p, nil
}

// ParseProgram parses YAML program text.
func ParseProgram(data []byte) (*cfg.Program, error) {
    var spec programSpec
    if err := yaml.UnmarshalStrict(data, &spec); err != nil {
        return nil, fmt.Errorf("cannot unmarshal program: %w", err)
    }

    ret := new(cfg.Program)
    seen := make(map[string]struct{}, len(spec.Functions))
    for _, fs := range spec.Functions {
        if _, dup := seen[fs.Name]; dup {
            return nil, fmt.Errorf("duplicate function %q", fs.Name)
        }
        seen[fs.Name] = struct{}{}
        fn, err := buildFunc(&fs)
        if err != nil {
            return nil, fmt.Errorf("function %q: %w", fs.Name, err)
        }
        ret.Funcs = append(ret.Funcs, fn)
    }
    return ret, nil
}

// regtab maps register names to cfg registers, enforcing single
// definition per name.
type regtab struct {
    next cfg.Reg
    regs map[string]cfg.Reg
}

func newRegtab() *regtab {
    return &regtab { regs: make(map[string]cfg.Reg) }
}

func (self *regtab) define(name string) (cfg.Reg, error) {
    if name == "" {
        return 0, fmt.Errorf("empty register name")
    }
    if _, dup := self.regs[name]; dup {
        return 0, fmt.Errorf("register %q redefined", name)
    }
    r := self.next
    self.next++
    self.regs[name] = r
    return r, nil
}

func (self *regtab) resolve(name string) (cfg.Reg, error) {
    if r, ok := self.regs[name]; ok {
        return r, nil
    }
    return 0, fmt.Errorf("undefined register %q", name)
}

func buildFunc(fs *funcSpec) (*cfg.Function, error) {
    if len(fs.Blocks) == 0 {
        return nil, fmt.Errorf("no blocks")
    }
    fn := cfg.NewFunction(fs.Name)
    rt := newRegtab()

    /* arguments define registers ahead of every block */
    for _, a := range fs.Args {
        if _, err := rt.define(a); err != nil {
            return nil, err
        }
    }

    /* pass 1: declare blocks and every destination register, so that
     * references forward in block order still resolve */
    blocks := make(map[string]*cfg.BasicBlock, len(fs.Blocks))
    for i := range fs.Blocks {
        bs := &fs.Blocks[i]
        if bs.Name == "" {
            return nil, fmt.Errorf("block %d: empty name", i)
        }
        if _, dup := blocks[bs.Name]; dup {
            return nil, fmt.Errorf("duplicate block %q", bs.Name)
        }
        blocks[bs.Name] = fn.NewBlock(bs.Name)
        for j := range bs.Ins {
            if err := declareDst(rt, &bs.Ins[j]); err != nil {
                return nil, fmt.Errorf("block %q: %w", bs.Name, err)
            }
        }
    }

    /* pass 2: build instruction bodies and terminators */
    for i := range fs.Blocks {
        bs := &fs.Blocks[i]
        if err := buildBlock(rt, blocks, blocks[bs.Name], bs); err != nil {
            return nil, fmt.Errorf("block %q: %w", bs.Name, err)
        }
    }
    return fn, nil
}

// declareDst registers the destination name of one instruction, if the
// op has one.
func declareDst(rt *regtab, is *insSpec) error {
    switch is.Op {
        case "store":
            if is.Dst != "" {
                return fmt.Errorf("op %q takes no dst", is.Op)
            }
            return nil
        case "call":
            if is.Dst == "" {
                return nil
            }
            _, err := rt.define(is.Dst)
            return err
        default:
            if is.Dst == "" {
                return fmt.Errorf("op %q needs a dst", is.Op)
            }
            _, err := rt.define(is.Dst)
            return err
    }
}

func buildBlock(rt *regtab, blocks map[string]*cfg.BasicBlock, bb *cfg.BasicBlock, bs *blockSpec) error {
    for i := range bs.Ins {
        v, err := buildIns(rt, &bs.Ins[i])
        if err != nil {
            return err
        }
        bb.Append(v)
    }
    return buildTerm(rt, blocks, bb, bs)
}

func srcRegs(rt *regtab, is *insSpec, n int) ([]cfg.Reg, error) {
    if n >= 0 && len(is.Src) != n {
        return nil, fmt.Errorf("op %q needs %d src registers, got %d", is.Op, n, len(is.Src))
    }
    ret := make([]cfg.Reg, 0, len(is.Src))
    for _, s := range is.Src {
        r, err := rt.resolve(s)
        if err != nil {
            return nil, err
        }
        ret = append(ret, r)
    }
    return ret, nil
}

func buildIns(rt *regtab, is *insSpec) (cfg.IrNode, error) {
    switch is.Op {
        case "const":
            if len(is.Src) != 0 {
                return nil, fmt.Errorf("op %q takes no src registers", is.Op)
            }
            r, err := rt.resolve(is.Dst)
            if err != nil {
                return nil, err
            }
            return &cfg.IrConstInt { R: r, V: is.Val }, nil

        case "neg", "not":
            src, err := srcRegs(rt, is, 1)
            if err != nil {
                return nil, err
            }
            r, err := rt.resolve(is.Dst)
            if err != nil {
                return nil, err
            }
            return &cfg.IrUnaryExpr { R: r, V: src[0], Op: unaryOps[is.Op] }, nil

        case "add", "sub", "mul", "and", "or", "xor", "cmp.eq", "cmp.ne", "cmp.lt", "cmp.ge":
            src, err := srcRegs(rt, is, 2)
            if err != nil {
                return nil, err
            }
            r, err := rt.resolve(is.Dst)
            if err != nil {
                return nil, err
            }
            return &cfg.IrBinaryExpr { R: r, X: src[0], Y: src[1], Op: binaryOps[is.Op] }, nil

        case "load":
            src, err := srcRegs(rt, is, 1)
            if err != nil {
                return nil, err
            }
            r, err := rt.resolve(is.Dst)
            if err != nil {
                return nil, err
            }
            return &cfg.IrLoad { R: r, Mem: src[0] }, nil

        case "store":
            src, err := srcRegs(rt, is, 2)
            if err != nil {
                return nil, err
            }
            return &cfg.IrStore { R: src[0], Mem: src[1] }, nil

        case "call":
            src, err := srcRegs(rt, is, -1)
            if err != nil {
                return nil, err
            }
            if is.Fn == "" {
                return nil, fmt.Errorf("op %q needs a fn name", is.Op)
            }
            ret := &cfg.IrCall { Fn: is.Fn, In: src }
            if is.Dst != "" {
                r, err := rt.resolve(is.Dst)
                if err != nil {
                    return nil, err
                }
                ret.Out = []cfg.Reg { r }
            }
            return ret, nil

        default:
            return nil, fmt.Errorf("unknown op %q", is.Op)
    }
}

func target(blocks map[string]*cfg.BasicBlock, name string) (*cfg.BasicBlock, error) {
    if bb, ok := blocks[name]; ok {
        return bb, nil
    }
    return nil, fmt.Errorf("unknown block %q", name)
}

func buildTerm(rt *regtab, blocks map[string]*cfg.BasicBlock, bb *cfg.BasicBlock, bs *blockSpec) error {
    nterm := 0
    if bs.Branch != nil {
        nterm++
    }
    if bs.Jump != "" {
        nterm++
    }
    if bs.Switch != nil {
        nterm++
    }
    if bs.Ret != nil {
        nterm++
    }
    if nterm != 1 {
        return fmt.Errorf("need exactly one terminator, got %d", nterm)
    }

    switch {
        case bs.Branch != nil:
            v, err := rt.resolve(bs.Branch.On)
            if err != nil {
                return err
            }
            then, err := target(blocks, bs.Branch.Then)
            if err != nil {
                return err
            }
            els, err := target(blocks, bs.Branch.Else)
            if err != nil {
                return err
            }
            bb.Branch(v, then, els)
            return nil

        case bs.Jump != "":
            to, err := target(blocks, bs.Jump)
            if err != nil {
                return err
            }
            bb.Jump(to)
            return nil

        case bs.Switch != nil:
            v, err := rt.resolve(bs.Switch.On)
            if err != nil {
                return err
            }
            ln, err := target(blocks, bs.Switch.Default)
            if err != nil {
                return err
            }
            br := make(map[int64]*cfg.BasicBlock, len(bs.Switch.Cases))
            for k, name := range bs.Switch.Cases {
                t, err := target(blocks, name)
                if err != nil {
                    return err
                }
                br[k] = t
            }
            bb.Switch(v, ln, br)
            return nil

        default:
            rr := make([]cfg.Reg, 0, len(*bs.Ret))
            for _, s := range *bs.Ret {
                r, err := rt.resolve(s)
                if err != nil {
                    return err
                }
                rr = append(rr, r)
            }
            bb.Return(rr...)
            return nil
    }
}

var unaryOps = map[string]cfg.IrUnaryOp {
    "neg": cfg.IrOpNegate,
    "not": cfg.IrOpNot,
}

var binaryOps = map[string]cfg.IrBinaryOp {
    "add"    : cfg.IrOpAdd,
    "sub"    : cfg.IrOpSub,
    "mul"    : cfg.IrOpMul,
    "and"    : cfg.IrOpAnd,
    "or"     : cfg.IrOpOr,
    "xor"    : cfg.IrOpXor,
    "cmp.eq" : cfg.IrCmpEq,
    "cmp.ne" : cfg.IrCmpNe,
    "cmp.lt" : cfg.IrCmpLt,
    "cmp.ge" : cfg.IrCmpGe,
}
