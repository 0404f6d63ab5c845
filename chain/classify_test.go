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

func classifyFn(fn *cfg.Function) *Classification {
    return Classify(fn, cfg.BuildDominatorTree(fn.Entry()))
}

/* singleBranch builds a function whose entry holds ins and branches on
 * register 1, with two plain return blocks as targets. */
func singleBranch(ins ...cfg.IrNode) *cfg.Function {
    fn := cfg.NewFunction("f")
    b0 := fn.NewBlock("b0")
    l := fn.NewBlock("l")
    r := fn.NewBlock("r")
    b0.Append(ins...)
    b0.Branch(1, l, r)
    l.Return()
    r.Return()
    return fn
}

func TestClassify_OnlyBranch(t *testing.T) {
    for _, tc := range []struct {
        name string
        cand bool
        ins  []cfg.IrNode
    } {
        { "bare branch", true, nil },
        { "compare feeding the branch", true, []cfg.IrNode {
            &cfg.IrBinaryExpr { R: 1, X: 10, Y: 11, Op: cfg.IrCmpLt },
        } },
        { "def consumed later in the block", true, []cfg.IrNode {
            &cfg.IrConstInt { R: 2, V: 1 },
            &cfg.IrBinaryExpr { R: 1, X: 2, Y: 2, Op: cfg.IrCmpEq },
        } },
        { "load is read only", true, []cfg.IrNode {
            &cfg.IrLoad { R: 1, Mem: 10 },
        } },
        { "store writes memory", false, []cfg.IrNode {
            &cfg.IrBinaryExpr { R: 1, X: 10, Y: 11, Op: cfg.IrCmpLt },
            &cfg.IrStore { R: 10, Mem: 11 },
        } },
        { "call may write memory", false, []cfg.IrNode {
            &cfg.IrBinaryExpr { R: 1, X: 10, Y: 11, Op: cfg.IrCmpLt },
            &cfg.IrCall { Fn: "g" },
        } },
        { "use before def", false, []cfg.IrNode {
            &cfg.IrUnaryExpr { R: 3, V: 2, Op: cfg.IrOpNot },
            &cfg.IrConstInt { R: 2, V: 0 },
            &cfg.IrBinaryExpr { R: 1, X: 3, Y: 3, Op: cfg.IrCmpEq },
        } },
    } {
        t.Run(tc.name, func(t *testing.T) {
            fn := singleBranch(tc.ins...)
            require.Equal(t, tc.cand, !classifyFn(fn).IsLeaf(fn.Entry()))
        })
    }
}

func TestClassify_CrossBlockUse(t *testing.T) {
    /* the constant escapes b0 through the return in l */
    fn := cfg.NewFunction("f")
    b0 := fn.NewBlock("b0")
    l := fn.NewBlock("l")
    r := fn.NewBlock("r")
    b0.Append(
        &cfg.IrConstInt { R: 2, V: 7 },
        &cfg.IrBinaryExpr { R: 1, X: 2, Y: 2, Op: cfg.IrCmpEq },
    )
    b0.Branch(1, l, r)
    l.Return(2)
    r.Return()
    require.True(t, classifyFn(fn).IsLeaf(b0))
}

func TestClassify_TerminatorKinds(t *testing.T) {
    fn := cfg.NewFunction("f")
    b0 := fn.NewBlock("b0")
    sw := fn.NewBlock("sw")
    j := fn.NewBlock("j")
    exit := fn.NewBlock("exit")
    branchOn(b0, 1, sw, j)
    sw.Switch(9, exit, map[int64]*cfg.BasicBlock { 0: j })
    j.Jump(exit)
    exit.Return()

    /* only the two-way branch anchors a chain node */
    cls := classifyFn(fn)
    require.Equal(t, []*cfg.BasicBlock { b0 }, cls.Cand)
    require.True(t, cls.IsLeaf(sw))
    require.True(t, cls.IsLeaf(j))
    require.True(t, cls.IsLeaf(exit))
}

func TestClassify_BackEdge(t *testing.T) {
    /* b1 branches back to b0, which dominates it: a loop latch */
    fn := cfg.NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    x := fn.NewBlock("x")
    y := fn.NewBlock("y")
    branchOn(b0, 1, b1, x)
    branchOn(b1, 2, y, b0)
    x.Return()
    y.Return()

    cls := classifyFn(fn)
    require.False(t, cls.IsLeaf(b0))
    require.True(t, cls.IsLeaf(b1))
}

func TestClassify_SelfLoop(t *testing.T) {
    fn := cfg.NewFunction("f")
    s := fn.NewBlock("s")
    e := fn.NewBlock("e")
    branchOn(s, 1, s, e)
    e.Return()
    require.True(t, classifyFn(fn).IsLeaf(s))
}

func TestClassify_Partition(t *testing.T) {
    /* dead has a perfectly shaped branch but is unreachable */
    fn := cfg.NewFunction("f")
    b0 := fn.NewBlock("b0")
    l := fn.NewBlock("l")
    r := fn.NewBlock("r")
    dead := fn.NewBlock("dead")
    branchOn(b0, 1, l, r)
    l.Return()
    r.Return()
    branchOn(dead, 2, l, r)

    cls := classifyFn(fn)
    require.True(t, cls.IsLeaf(dead))

    /* leaves and candidates partition the block list */
    for _, bb := range fn.Blocks {
        n := 0
        if cls.IsLeaf(bb) {
            n++
        }
        for _, c := range cls.Cand {
            if c == bb {
                n++
            }
        }
        require.Equal(t, 1, n, "block %s", bb.Name)
    }
}
