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

package sift

import (
    `testing`

    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`
    `github.com/karstlang/sift/imports`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/stretchr/testify/require`
)

func addExpr(a clir.Expr, b clir.Expr) clir.Expr {
    return &clir.Prim {
        Tag  : clir.NewTag(),
        Op   : clir.Op { Kind: clir.OpAdd },
        Args : []clir.Expr { a, b },
    }
}

func TestSimplifyUnit_FoldsRandomSums(t *testing.T) {
    gofakeit.Seed(42)

    for i := 0; i < 32; i++ {
        a := int64(gofakeit.Number(-1000000, 1000000))
        b := int64(gofakeit.Number(-1000000, 1000000))

        out := SimplifyUnit(addExpr(clir.MakeInt(a), clir.MakeInt(b)))
        c, ok := out.(*clir.Const)
        require.True(t, ok, "did not fold: %s", out)
        require.Equal(t, clir.IntLit(a + b), c.Lit)
    }
}

func TestSimplify_NamesTheUnit(t *testing.T) {
    out := Simplify("Main", addExpr(clir.MakeInt(1), clir.MakeInt(2)))
    c, ok := out.(*clir.Const)
    require.True(t, ok)
    require.Equal(t, clir.IntLit(3), c.Lit)
}

func TestSimplifyUnit_ResolvesImportedSymbols(t *testing.T) {
    res := imports.NewResolver(func(sym clir.Symbol) (approx.Value, bool) {
        if sym == "camlAnswer" {
            return approx.OfInt(42), true
        }
        return approx.Value{}, false
    }, nil)

    e := addExpr(&clir.SymRef { Tag: clir.NewTag(), Sym: "camlAnswer" }, clir.MakeInt(1))
    out := SimplifyUnit(e, WithImporter(res))

    c, ok := out.(*clir.Const)
    require.True(t, ok, "symbol not resolved: %s", out)
    require.Equal(t, clir.IntLit(43), c.Lit)
}

func TestSimplifyUnit_UnknownSymbolKept(t *testing.T) {
    e := addExpr(&clir.SymRef { Tag: clir.NewTag(), Sym: "camlOpaque" }, clir.MakeInt(1))
    _, ok := SimplifyUnit(e).(*clir.Prim)
    require.True(t, ok)
}

func TestOptions_RejectInvalid(t *testing.T) {
    require.Panics(t, func() { WithInlineThreshold(0) })
    require.Panics(t, func() { WithInlineThreshold(-1) })
    require.Panics(t, func() { WithMaxInlineDepth(-1) })
    require.NotPanics(t, func() { WithMaxInlineDepth(0) })
}

func TestOptions_ThresholdDisablesInlining(t *testing.T) {
    fb := clir.Var { Name: "f", Stamp: 1 }
    fc := clir.Var { Name: "self", Stamp: 2 }
    x := clir.Var { Name: "x", Stamp: 3 }
    fn := clir.FunID { Name: "f", Stamp: 4 }

    var body clir.Expr = &clir.Prim { Tag: clir.NewTag(), Op: clir.Op { Kind: clir.OpGetGlobal } }
    for i := 0; i < 16; i++ {
        body = addExpr(&clir.Prim { Tag: clir.NewTag(), Op: clir.Op { Kind: clir.OpGetGlobal, Index: i } }, body)
    }

    e := &clir.Let {
        Tag   : clir.NewTag(),
        Id    : fb,
        Bound : &clir.MakeClosure {
            Tag  : clir.NewTag(),
            Spec : &clir.ClosureSpec {
                ID       : clir.NewClosureID(),
                Unit     : "test",
                Order    : []clir.FunID { fn },
                Funs     : map[clir.FunID]*clir.FunDecl { fn: { Self: fc, Params: []clir.Var { x }, Body: body } },
                Captured : map[clir.Field]clir.Expr{},
            },
        },
        Body : &clir.Apply {
            Tag  : clir.NewTag(),
            Fn   : &clir.VarRef { Tag: clir.NewTag(), Id: fb },
            Args : []clir.Expr { clir.MakeInt(1) },
            Kind : clir.IndirectCall(),
        },
    }

    out := SimplifyUnit(e, WithInlineThreshold(2))
    let, ok := out.(*clir.Let)
    require.True(t, ok, "call was inlined despite the budget: %s", out)
    call, ok := let.Body.(*clir.Apply)
    require.True(t, ok)
    require.True(t, call.Kind.Direct)
}
