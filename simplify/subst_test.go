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

    `github.com/stretchr/testify/require`
)

func TestSubst_TransitiveVarChain(t *testing.T) {
    a := clir.Var { Name: "a", Stamp: 1 }
    b := clir.Var { Name: "b", Stamp: 2 }
    c := clir.Var { Name: "c", Stamp: 3 }

    sb := newSubst()
    sb.addVar(a, b)
    sb.addVar(b, c)

    require.Equal(t, c, sb.resolveVar(a))
    require.Equal(t, c, sb.resolveVar(b))
}

func TestSubst_SymbolFollowsVarRename(t *testing.T) {
    a := clir.Var { Name: "a", Stamp: 1 }
    b := clir.Var { Name: "b", Stamp: 2 }

    sb := newSubst()
    sb.addSym("camlFoo", a)
    sb.addVar(a, b)

    v, ok := sb.resolveSym("camlFoo")
    require.True(t, ok)
    require.Equal(t, b, v)
}

func TestSubst_FunAndFieldChains(t *testing.T) {
    f1 := clir.FunID { Name: "f", Stamp: 1 }
    f2 := clir.FunID { Name: "f", Stamp: 2 }
    f3 := clir.FunID { Name: "f", Stamp: 3 }

    sb := newSubst()
    sb.addFun(f1, f2)
    sb.addFun(f2, f3)
    require.Equal(t, f3, sb.resolveFun(f1))

    v1 := clir.Field { Name: "x", Stamp: 1 }
    v2 := clir.Field { Name: "x", Stamp: 2 }
    v3 := clir.Field { Name: "x", Stamp: 3 }
    sb.addField(v1, v2)
    sb.addField(v2, v3)
    require.Equal(t, v3, sb.resolveField(v1))
}

func TestSubst_LabelChain(t *testing.T) {
    sb := newSubst()
    sb.addLabel(1, 2)
    sb.addLabel(2, 3)
    require.Equal(t, clir.Label(3), sb.resolveLabel(1))
}

func TestSubst_CloneIsIndependent(t *testing.T) {
    a := clir.Var { Name: "a", Stamp: 1 }
    b := clir.Var { Name: "b", Stamp: 2 }
    c := clir.Var { Name: "c", Stamp: 3 }

    sb := newSubst()
    sb.addVar(a, b)

    cp := sb.clone()
    cp.addVar(b, c)

    require.Equal(t, b, sb.resolveVar(a))
    require.Equal(t, c, cp.resolveVar(a))
}
