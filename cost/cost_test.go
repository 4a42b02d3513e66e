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

package cost

import (
    `testing`

    `github.com/karstlang/sift/clir`

    `github.com/stretchr/testify/require`
)

func chain(n int) clir.Expr {
    e := clir.Expr(clir.MakeInt(0))
    for i := 0; i < n; i++ {
        e = &clir.Prim {
            Tag  : clir.NewTag(),
            Op   : clir.Op { Kind: clir.OpAdd },
            Args : []clir.Expr { clir.MakeInt(int64(i)), e },
        }
    }
    return e
}

func TestEstimate_Basics(t *testing.T) {
    sz, ok := Estimate(clir.MakeInt(1), 10)
    require.True(t, ok)
    require.Equal(t, _W_const, sz)

    x := clir.Var { Name: "x", Stamp: 1 }
    sz, ok = Estimate(&clir.VarRef { Tag: clir.NewTag(), Id: x }, 10)
    require.True(t, ok)
    require.Equal(t, _W_var, sz)
}

func TestEstimate_ZeroBoundNeverFits(t *testing.T) {
    _, ok := Estimate(clir.MakeInt(1), 0)
    require.False(t, ok)

    _, ok = Estimate(clir.MakeInt(1), -5)
    require.False(t, ok)
}

func TestEstimate_BoundCutsOff(t *testing.T) {
    big := chain(100)

    _, ok := Estimate(big, 20)
    require.False(t, ok)

    sz, ok := Estimate(big, 100000)
    require.True(t, ok)
    require.Greater(t, sz, 100)
}

func TestEstimate_Monotone(t *testing.T) {
    small, ok := Estimate(chain(3), 100000)
    require.True(t, ok)
    large, ok := Estimate(chain(6), 100000)
    require.True(t, ok)
    require.Less(t, small, large)
}

func TestEstimate_ClosureWeighsPerFunction(t *testing.T) {
    fn := clir.FunID { Name: "f", Stamp: 1 }
    fc := clir.Var { Name: "self", Stamp: 2 }

    e := &clir.MakeClosure {
        Tag  : clir.NewTag(),
        Spec : &clir.ClosureSpec {
            ID       : clir.NewClosureID(),
            Unit     : "test",
            Order    : []clir.FunID { fn },
            Funs     : map[clir.FunID]*clir.FunDecl { fn: { Self: fc, Body: clir.MakeInt(1) } },
            Captured : map[clir.Field]clir.Expr{},
        },
    }

    sz, ok := Estimate(e, 10000)
    require.True(t, ok)
    require.GreaterOrEqual(t, sz, _W_fundef)
}
