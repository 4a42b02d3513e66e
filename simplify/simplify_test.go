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

package simplify

import (
    `testing`

    `github.com/karstlang/sift/clir`
    `github.com/karstlang/sift/ident`
    `github.com/karstlang/sift/internal/opts`

    `github.com/stretchr/testify/require`
)

func testOptions() opts.Options {
    return opts.Options {
        InlineThreshold : 256,
        MaxInlineDepth  : 8,
    }
}

func runUnit(e clir.Expr) clir.Expr {
    return New(ident.NewSource("test"), nil, testOptions()).Unit(e)
}

func prim(k clir.OpKind, args ...clir.Expr) clir.Expr {
    return &clir.Prim { Tag: clir.NewTag(), Op: clir.Op { Kind: k }, Args: args }
}

func primAt(k clir.OpKind, idx int, args ...clir.Expr) clir.Expr {
    return &clir.Prim { Tag: clir.NewTag(), Op: clir.Op { Kind: k, Index: idx }, Args: args }
}

func iadd(a clir.Expr, b clir.Expr) clir.Expr {
    return prim(clir.OpAdd, a, b)
}

func requireInt(t *testing.T, e clir.Expr, v int64) {
    c, ok := e.(*clir.Const)
    require.True(t, ok, "not a constant: %s", e)
    require.Equal(t, clir.IntLit(v), c.Lit)
}

func TestSimplify_FoldArith(t *testing.T) {
    out := runUnit(iadd(clir.MakeInt(1), clir.MakeInt(2)))
    requireInt(t, out, 3)

    out = runUnit(prim(clir.OpMul, iadd(clir.MakeInt(1), clir.MakeInt(2)), clir.MakeInt(4)))
    requireInt(t, out, 12)

    out = runUnit(prim(clir.OpDiv, clir.MakeInt(7), clir.MakeInt(2)))
    requireInt(t, out, 3)
}

func TestSimplify_FoldCompare(t *testing.T) {
    out := runUnit(prim(clir.OpCmpLt, clir.MakeInt(1), clir.MakeInt(2)))
    c, ok := out.(*clir.Const)
    require.True(t, ok)
    require.Equal(t, clir.PtrLit(1), c.Lit)
}

func TestSimplify_DivByZeroNotFolded(t *testing.T) {
    out := runUnit(prim(clir.OpDiv, clir.MakeInt(1), clir.MakeInt(0)))
    _, ok := out.(*clir.Prim)
    require.True(t, ok, "the division trap must survive: %s", out)
}

func TestSimplify_DeadPureLetDropped(t *testing.T) {
    x := clir.Var { Name: "x", Stamp: 1 }
    out := runUnit(bindLet(x, clir.MakeInt(1), clir.MakeInt(2)))
    requireInt(t, out, 2)
}

func TestSimplify_EffectfulLetBecomesSeq(t *testing.T) {
    x := clir.Var { Name: "x", Stamp: 1 }
    e := bindLet(x,
        primAt(clir.OpSetGlobal, 0, clir.MakeInt(5)),
        primAt(clir.OpGetGlobal, 0))

    out := runUnit(e)
    seq, ok := out.(*clir.Seq)
    require.True(t, ok, "effectful initializer dropped: %s", out)
    requireInt(t, seq.Second, 5)
}

func TestSimplify_CopyPropagation(t *testing.T) {
    x := clir.Var { Name: "x", Stamp: 1 }
    out := runUnit(bindLet(x, clir.MakeInt(21), iadd(varRef(x), varRef(x))))
    requireInt(t, out, 42)
}

func TestSimplify_KnownIf(t *testing.T) {
    e := &clir.If {
        Tag  : clir.NewTag(),
        Cond : clir.MakeBool(true),
        Then : clir.MakeInt(1),
        Else : clir.MakeInt(2),
    }
    requireInt(t, runUnit(e), 1)

    e = &clir.If {
        Tag  : clir.NewTag(),
        Cond : clir.MakeBool(false),
        Then : clir.MakeInt(1),
        Else : clir.MakeInt(2),
    }
    requireInt(t, runUnit(e), 2)
}

func TestSimplify_UnknownIfKept(t *testing.T) {
    e := &clir.If {
        Tag  : clir.NewTag(),
        Cond : primAt(clir.OpGetGlobal, 3),
        Then : iadd(clir.MakeInt(1), clir.MakeInt(2)),
        Else : clir.MakeInt(9),
    }

    out := runUnit(e)
    iff, ok := out.(*clir.If)
    require.True(t, ok)
    requireInt(t, iff.Then, 3)
}

func TestSimplify_KnownSwitch(t *testing.T) {
    e := &clir.Switch {
        Tag : clir.NewTag(),
        Arg : clir.MakeInt(2),
        Ints : []clir.IntCase {
            { Key: 1, Body: clir.MakeInt(10) },
            { Key: 2, Body: clir.MakeInt(20) },
        },
        Default : clir.MakeInt(99),
    }
    requireInt(t, runUnit(e), 20)
}

func TestSimplify_UnknownSwitchKept(t *testing.T) {
    e := &clir.Switch {
        Tag     : clir.NewTag(),
        Arg     : primAt(clir.OpGetGlobal, 1),
        Ints    : []clir.IntCase {{ Key: 0, Body: clir.MakeInt(10) }},
        Default : clir.MakeInt(99),
    }

    _, ok := runUnit(e).(*clir.Switch)
    require.True(t, ok)
}

func TestSimplify_DeadCatchDropped(t *testing.T) {
    e := &clir.StaticCatch {
        Tag     : clir.NewTag(),
        Label   : 7,
        Body    : iadd(clir.MakeInt(2), clir.MakeInt(3)),
        Handler : clir.MakeInt(99),
    }
    requireInt(t, runUnit(e), 5)
}

func TestSimplify_LiveCatchKept(t *testing.T) {
    e := &clir.StaticCatch {
        Tag     : clir.NewTag(),
        Label   : 7,
        Body    : &clir.StaticRaise { Tag: clir.NewTag(), Label: 7 },
        Handler : clir.MakeInt(9),
    }

    out, ok := runUnit(e).(*clir.StaticCatch)
    require.True(t, ok)
    requireInt(t, out.Handler, 9)
}

func TestSimplify_PureSeqFirstDropped(t *testing.T) {
    e := &clir.Seq { Tag: clir.NewTag(), First: clir.MakeInt(1), Second: clir.MakeInt(2) }
    requireInt(t, runUnit(e), 2)
}

func TestSimplify_DeadLetRecDropped(t *testing.T) {
    f := clir.Var { Name: "f", Stamp: 1 }
    e := &clir.LetRec {
        Tag   : clir.NewTag(),
        Binds : []clir.Bind {{ Id: f, Bound: clir.MakeInt(1) }},
        Body  : clir.MakeInt(2),
    }
    requireInt(t, runUnit(e), 2)
}

func TestSimplify_Idempotent(t *testing.T) {
    e := &clir.If {
        Tag  : clir.NewTag(),
        Cond : primAt(clir.OpGetGlobal, 9),
        Then : iadd(clir.MakeInt(1), clir.MakeInt(2)),
        Else : prim(clir.OpSub, clir.MakeInt(5), clir.MakeInt(1)),
    }

    once := runUnit(e)
    twice := runUnit(once)
    require.Equal(t, once.String(), twice.String())
}
