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

package imports

import (
    `testing`

    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`

    `github.com/stretchr/testify/require`
)

func TestResolver_MemoizesSymbols(t *testing.T) {
    calls := 0
    res := NewResolver(func(sym clir.Symbol) (approx.Value, bool) {
        calls++
        return approx.OfInt(7), true
    }, nil)

    require.Equal(t, approx.Int(7), res.ImportSymbol("camlFoo").Desc)
    require.Equal(t, approx.Int(7), res.ImportSymbol("camlFoo").Desc)
    require.Equal(t, 1, calls)

    require.Equal(t, approx.Int(7), res.ImportSymbol("camlBar").Desc)
    require.Equal(t, 2, calls)
}

func TestResolver_UnknownDegradesToTop(t *testing.T) {
    res := NewResolver(func(sym clir.Symbol) (approx.Value, bool) {
        return approx.Value{}, false
    }, nil)

    require.False(t, res.ImportSymbol("camlFoo").Known())
    require.False(t, res.ImportGlobal("Mod").Known())
}

func TestResolver_NilLookups(t *testing.T) {
    res := NewResolver(nil, nil)
    require.False(t, res.ImportSymbol("camlFoo").Known())
    require.False(t, res.ImportGlobal("Mod").Known())
}

func TestResolver_GlobalsMemoized(t *testing.T) {
    calls := 0
    res := NewResolver(nil, func(unit clir.Unit) (approx.Value, bool) {
        calls++
        return approx.OfBlock(0, []approx.Value { approx.OfInt(1) }), true
    })

    a := res.ImportGlobal("Mod")
    b := res.ImportGlobal("Mod")
    require.Equal(t, 1, calls)
    require.Equal(t, a.Desc, b.Desc)
}

func TestUnresolved_KnowsNothing(t *testing.T) {
    require.False(t, Unresolved{}.ImportSymbol("camlFoo").Known())
    require.False(t, Unresolved{}.ImportGlobal("Mod").Known())
}
