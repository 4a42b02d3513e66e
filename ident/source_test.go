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

package ident

import (
    `testing`

    `github.com/karstlang/sift/clir`

    `github.com/stretchr/testify/require`
)

func TestSource_FreshStampsAreUnique(t *testing.T) {
    src := NewSource("unit")
    require.Equal(t, clir.Unit("unit"), src.Unit())

    a := src.Fresh("x")
    b := src.Fresh("x")
    require.Equal(t, a.Name, b.Name)
    require.NotEqual(t, a.Stamp, b.Stamp)

    c := src.FreshOf(a)
    require.Equal(t, "x", c.Name)
    require.NotEqual(t, a.Stamp, c.Stamp)
}

func TestSource_ReserveSkipsTakenStamps(t *testing.T) {
    src := NewSource("unit")
    src.Reserve(10)
    require.Greater(t, src.Fresh("x").Stamp, int32(10))

    /* reserving backwards never reuses */
    src.Reserve(3)
    require.Greater(t, src.Fresh("x").Stamp, int32(10))
}

func TestSource_LabelsAndFuns(t *testing.T) {
    src := NewSource("unit")

    src.ReserveLabel(5)
    require.Greater(t, int32(src.FreshLabel()), int32(5))

    f := src.FreshFun("loop")
    g := src.FreshFunOf(f)
    require.Equal(t, "loop", g.Name)
    require.NotEqual(t, f.Stamp, g.Stamp)

    fv := src.FreshField(clir.Field { Name: "x", Stamp: 1 })
    require.Equal(t, "x", fv.Name)
    require.NotEqual(t, int32(1), fv.Stamp)
}
