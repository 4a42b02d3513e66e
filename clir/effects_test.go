/*
 * Copyright 2023 Sift Authors
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

package clir

import (
    `testing`

    `github.com/stretchr/testify/require`
)

func testPrim(op Op, args ...Expr) *Prim {
    return &Prim { Tag: NewTag(), Op: op, Args: args }
}

func TestEffectFree_Atoms(t *testing.T) {
    x := Var { Name: "x", Stamp: 1 }
    require.True(t, EffectFree(&VarRef { Tag: NewTag(), Id: x }))
    require.True(t, EffectFree(&SymRef { Tag: NewTag(), Sym: "camlFoo" }))
    require.True(t, EffectFree(MakeInt(1)))
    require.True(t, EffectFree(&Unreachable { Tag: NewTag() }))
}

func TestEffectFree_Division(t *testing.T) {
    div := Op { Kind: OpDiv }
    require.False(t, EffectFree(testPrim(div, MakeInt(1), MakeInt(0))))
    require.True(t, EffectFree(testPrim(div, MakeInt(1), MakeInt(2))))

    x := &VarRef { Tag: NewTag(), Id: Var { Name: "x", Stamp: 1 } }
    require.False(t, EffectFree(testPrim(div, MakeInt(1), x)))
}

func TestEffectFree_Mutation(t *testing.T) {
    x := &VarRef { Tag: NewTag(), Id: Var { Name: "x", Stamp: 1 } }
    require.False(t, EffectFree(testPrim(Op { Kind: OpSetField }, x, MakeInt(1))))
    require.False(t, EffectFree(testPrim(Op { Kind: OpSetGlobal }, MakeInt(1))))
    require.False(t, EffectFree(testPrim(Op { Kind: OpCCall, Ext: "caml_print" })))
    require.True(t, EffectFree(testPrim(Op { Kind: OpGetGlobal })))
    require.True(t, EffectFree(testPrim(Op { Kind: OpAdd }, x, MakeInt(1))))
}

func TestEffectFree_EffectfulArgumentPropagates(t *testing.T) {
    eff := testPrim(Op { Kind: OpSetGlobal }, MakeInt(1))
    require.False(t, EffectFree(testPrim(Op { Kind: OpAdd }, eff, MakeInt(2))))
}

func TestEffectFree_ControlFlow(t *testing.T) {
    x := Var { Name: "x", Stamp: 1 }

    require.False(t, EffectFree(&Apply { Tag: NewTag(), Fn: MakeInt(0) }))
    require.False(t, EffectFree(&Assign { Tag: NewTag(), Id: x, Value: MakeInt(1) }))
    require.False(t, EffectFree(&StaticRaise { Tag: NewTag(), Label: 1 }))
    require.False(t, EffectFree(&While { Tag: NewTag(), Cond: MakeBool(false), Body: MakeInt(0) }))

    /* catch purity is the body's purity, a never-entered handler is free */
    raise := &StaticRaise { Tag: NewTag(), Label: 1 }
    eff := testPrim(Op { Kind: OpSetGlobal }, MakeInt(1))
    require.True(t, EffectFree(&StaticCatch { Tag: NewTag(), Label: 1, Body: MakeInt(1), Handler: eff }))
    require.False(t, EffectFree(&StaticCatch { Tag: NewTag(), Label: 1, Body: raise, Handler: MakeInt(1) }))
}

func TestEffectFree_Closures(t *testing.T) {
    fn := FunID { Name: "f", Stamp: 1 }
    fc := Var { Name: "self", Stamp: 2 }
    x := Var { Name: "x", Stamp: 3 }

    spec := &ClosureSpec {
        ID       : NewClosureID(),
        Unit     : "test",
        Order    : []FunID { fn },
        Funs     : map[FunID]*FunDecl { fn: { Self: fc, Params: []Var { x }, Body: MakeInt(1) } },
        Captured : map[Field]Expr{},
    }
    require.True(t, EffectFree(&MakeClosure { Tag: NewTag(), Spec: spec }))

    spec.Captured[FieldOf(x)] = testPrim(Op { Kind: OpSetGlobal }, MakeInt(1))
    require.False(t, EffectFree(&MakeClosure { Tag: NewTag(), Spec: spec }))
}

func TestWalk_VisitsClosureBodies(t *testing.T) {
    fn := FunID { Name: "f", Stamp: 1 }
    fc := Var { Name: "self", Stamp: 2 }
    x := Var { Name: "x", Stamp: 3 }

    spec := &ClosureSpec {
        ID       : NewClosureID(),
        Unit     : "test",
        Order    : []FunID { fn },
        Funs     : map[FunID]*FunDecl { fn: { Self: fc, Params: []Var { x }, Body: MakeInt(5) } },
        Captured : map[Field]Expr { FieldOf(x): MakeInt(9) },
    }

    seen := 0
    Walk(&MakeClosure { Tag: NewTag(), Spec: spec }, func(e Expr) {
        if c, ok := e.(*Const); ok && (c.Lit == IntLit(5) || c.Lit == IntLit(9)) {
            seen++
        }
    })
    require.Equal(t, 2, seen)
}
