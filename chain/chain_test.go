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
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/cloudwego/shortcut/cfg`
)

/* branchOn gives bb a fresh comparison and branches on it. The compared
 * registers are left undefined, like arguments. */
func branchOn(bb *cfg.BasicBlock, r cfg.Reg, then *cfg.BasicBlock, els *cfg.BasicBlock) {
    bb.Append(&cfg.IrBinaryExpr { R: r, X: r + 100, Y: r + 200, Op: cfg.IrCmpLt })
    bb.Branch(r, then, els)
}

/* pairChain builds b0 -> (b1, tgt), b1 -> (tgt, alt): the lowered shape of
 * a two-term short-circuit condition sharing the target tgt. */
func pairChain() *cfg.Function {
    fn := cfg.NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    tgt := fn.NewBlock("tgt")
    alt := fn.NewBlock("alt")
    branchOn(b0, 1, b1, tgt)
    branchOn(b1, 2, tgt, alt)
    tgt.Return()
    alt.Return()
    return fn
}

/* tripleChain builds b0 -> (b1, t), b1 -> (b2, t), b2 -> (t, u): three
 * links sharing the target t. */
func tripleChain() *cfg.Function {
    fn := cfg.NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    b2 := fn.NewBlock("b2")
    bt := fn.NewBlock("t")
    bu := fn.NewBlock("u")
    branchOn(b0, 1, b1, bt)
    branchOn(b1, 2, b2, bt)
    branchOn(b2, 3, bt, bu)
    bt.Return()
    bu.Return()
    return fn
}

/* nestedChain builds h -> (c, t), c -> (d, t), d -> (r1, r2): c links h's
 * chain, d resolves into a node of its own but joins no chain. */
func nestedChain() *cfg.Function {
    fn := cfg.NewFunction("f")
    h := fn.NewBlock("h")
    c := fn.NewBlock("c")
    d := fn.NewBlock("d")
    bt := fn.NewBlock("t")
    r1 := fn.NewBlock("r1")
    r2 := fn.NewBlock("r2")
    branchOn(h, 1, c, bt)
    branchOn(c, 2, d, bt)
    branchOn(d, 3, r1, r2)
    bt.Return()
    r1.Return()
    r2.Return()
    return fn
}

func analyze(t *testing.T, fn *cfg.Function) *Result {
    res, err := Analyze(fn, cfg.BuildDominatorTree(fn.Entry()))
    require.NoError(t, err)
    return res
}

func mustLookup(t *testing.T, arena *Arena, bb *cfg.BasicBlock) Ref {
    r, ok := arena.Lookup(bb)
    require.True(t, ok, "no node for block %s", bb.Name)
    return r
}

func TestAnalyze_Counters(t *testing.T) {
    res := analyze(t, pairChain())
    require.Equal(t, 2, res.Shortcuts)
    require.Equal(t, 1, res.Sets)
    require.Equal(t, 0, res.Failed)
    require.Len(t, res.Heads, 1)
    require.Equal(t, res.Func.Blocks[0], res.Arena.At(res.Heads[0]).B)
}

func TestAnalyze_ReadsOnly(t *testing.T) {
    fn := pairChain()
    before := fn.Blocks[0].Disassemble()
    analyze(t, fn)
    analyze(t, fn)
    require.Equal(t, before, fn.Blocks[0].Disassemble())
}
