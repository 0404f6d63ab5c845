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
    `testing`

    `github.com/stretchr/testify/require`
)

func successorList(t IrTerminator) []*BasicBlock {
    var ret []*BasicBlock
    for it := t.Successors(); it.Next(); {
        ret = append(ret, it.Block())
    }
    return ret
}

func TestIrBranch_Successors(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    b2 := fn.NewBlock("b2")
    b0.Branch(1, b1, b2)
    require.Equal(t, []*BasicBlock { b1, b2 }, successorList(b0.Term))
    require.Equal(t, []*BasicBlock { b0 }, b1.Pred)
    require.Equal(t, []*BasicBlock { b0 }, b2.Pred)
}

func TestIrJump_Successors(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    b0.Jump(b1)
    b1.Return()
    require.Equal(t, []*BasicBlock { b1 }, successorList(b0.Term))
    require.Empty(t, successorList(b1.Term))
}

func TestIrSwitch_Successors(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    lo := fn.NewBlock("lo")
    hi := fn.NewBlock("hi")
    ln := fn.NewBlock("ln")
    b0.Switch(1, ln, map[int64]*BasicBlock { 7: hi, -2: lo })

    /* cases come out in value order, the default target last */
    it := b0.Term.Successors()
    require.True(t, it.Next())
    require.Equal(t, lo, it.Block())
    v, ok := it.Value()
    require.True(t, ok)
    require.Equal(t, int64(-2), v)

    require.True(t, it.Next())
    require.Equal(t, hi, it.Block())
    v, ok = it.Value()
    require.True(t, ok)
    require.Equal(t, int64(7), v)

    require.True(t, it.Next())
    require.Equal(t, ln, it.Block())
    _, ok = it.Value()
    require.False(t, ok)

    require.False(t, it.Next())
}

func TestIrReturn_NoSuccessors(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b0.Return(1, 2)
    require.False(t, b0.Term.Successors().Next())
}

func TestMayWriteMemory(t *testing.T) {
    require.True(t, MayWriteMemory(&IrStore { R: 1, Mem: 2 }))
    require.True(t, MayWriteMemory(&IrCall { Fn: "g" }))
    require.False(t, MayWriteMemory(&IrConstInt { R: 1, V: 42 }))
    require.False(t, MayWriteMemory(&IrLoad { R: 1, Mem: 2 }))
    require.False(t, MayWriteMemory(&IrUnaryExpr { R: 2, V: 1, Op: IrOpNot }))
    require.False(t, MayWriteMemory(&IrBinaryExpr { R: 3, X: 1, Y: 2, Op: IrOpAdd }))
}

func TestIrNode_String(t *testing.T) {
    require.Equal(t, "%1 = const 42", (&IrConstInt { R: 1, V: 42 }).String())
    require.Equal(t, "%2 = not %1", (&IrUnaryExpr { R: 2, V: 1, Op: IrOpNot }).String())
    require.Equal(t, "%3 = %1 + %2", (&IrBinaryExpr { R: 3, X: 1, Y: 2, Op: IrOpAdd }).String())
    require.Equal(t, "%2 = load %1", (&IrLoad { R: 2, Mem: 1 }).String())
    require.Equal(t, "store %1 -> %2", (&IrStore { R: 1, Mem: 2 }).String())
    require.Equal(t, "call g(%1)", (&IrCall { Fn: "g", In: []Reg { 1 } }).String())
    require.Equal(t, "%2 = call g(%1)", (&IrCall { Fn: "g", In: []Reg { 1 }, Out: []Reg { 2 } }).String())
}

func TestBasicBlock_AppendRejectsTerminator(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    require.Panics(t, func() { b0.Append(&IrJump { To: b1 }) })
}

func TestBasicBlock_PredDedup(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    b0.Branch(1, b1, b1)
    require.Equal(t, []*BasicBlock { b0 }, b1.Pred)
}
