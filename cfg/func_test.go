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

func TestFunction_BlockNaming(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("")
    b1 := fn.NewBlock("named")
    b2 := fn.NewBlock("")
    require.Equal(t, "bb_0", b0.Name)
    require.Equal(t, "named", b1.Name)
    require.Equal(t, "bb_2", b2.Name)
    require.Equal(t, 1, b1.Id)
    require.Equal(t, b0, fn.Entry())
}

func TestFunction_EntryPanicsWhenEmpty(t *testing.T) {
    require.Panics(t, func() { NewFunction("f").Entry() })
}

func TestFunction_Uses(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    b0.Append(
        &IrConstInt { R: 1, V: 3 },
        &IrBinaryExpr { R: 2, X: 1, Y: 1, Op: IrOpMul },
    )
    b0.Branch(2, b1, b1)
    b1.Return(2)

    /* terminator reads sit at the sentinel position after the body */
    uses := fn.Uses()
    require.Equal(t, []Pos { pos(b0, 1), pos(b0, 1) }, uses[1])
    require.Equal(t, []Pos { pos(b0, _P_term), pos(b1, _P_term) }, uses[2])
}

func TestFunction_Defs(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b0.Append(
        &IrConstInt { R: 1, V: 0 },
        &IrUnaryExpr { R: 2, V: 1, Op: IrOpNegate },
    )
    b0.Return(2)
    defs, err := fn.Defs()
    require.NoError(t, err)
    require.Equal(t, map[Reg]Pos { 1: pos(b0, 0), 2: pos(b0, 1) }, defs)
}

func TestFunction_DefsRejectRedefinition(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b0.Append(
        &IrConstInt { R: 1, V: 0 },
        &IrConstInt { R: 1, V: 1 },
    )
    b0.Return()
    _, err := fn.Defs()
    require.ErrorContains(t, err, "register %1 redefined")
}

func TestPos_Order(t *testing.T) {
    fn := NewFunction("f")
    b0 := fn.NewBlock("b0")
    b1 := fn.NewBlock("b1")
    require.True(t, pos(b0, 0).Before(pos(b0, 1)))
    require.True(t, pos(b0, 1).Before(pos(b0, _P_term)))
    require.True(t, pos(b0, _P_term).Before(pos(b1, 0)))
    require.False(t, pos(b1, 0).Before(pos(b0, _P_term)))
    require.Equal(t, "b0.term", pos(b0, _P_term).String())
    require.Equal(t, "b1.ins[0]", pos(b1, 0).String())
}
