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

// Package ident generates fresh identifiers and labels. A Source is
// monotonic and collision-free within one compilation unit; every stamp is
// handed out exactly once.
package ident

import (
    `github.com/karstlang/sift/clir`
)

// Source mints stamped variables, function labels and static-exception
// labels for one compilation unit.
type Source struct {
    unit  clir.Unit
    stamp int32
    label int32
}

// NewSource creates a Source for unit. Stamps start above zero so the zero
// Var never aliases a generated one.
func NewSource(unit clir.Unit) *Source {
    return &Source {
        unit  : unit,
        stamp : 0,
        label : 0,
    }
}

// Unit is the owning compilation unit.
func (self *Source) Unit() clir.Unit {
    return self.unit
}

// Fresh mints a new variable with the given display name.
func (self *Source) Fresh(name string) clir.Var {
    self.stamp++
    return clir.Var { Name: name, Stamp: self.stamp }
}

// FreshOf mints a renamed copy of v, keeping its display name.
func (self *Source) FreshOf(v clir.Var) clir.Var {
    return self.Fresh(v.Name)
}

// FreshFun mints a new function label.
func (self *Source) FreshFun(name string) clir.FunID {
    self.stamp++
    return clir.FunID { Name: name, Stamp: self.stamp }
}

// FreshFunOf mints a renamed copy of fn, keeping its display name.
func (self *Source) FreshFunOf(fn clir.FunID) clir.FunID {
    return self.FreshFun(fn.Name)
}

// FreshField mints a renamed copy of a captured-variable label.
func (self *Source) FreshField(fv clir.Field) clir.Field {
    self.stamp++
    return clir.Field { Name: fv.Name, Stamp: self.stamp }
}

// FreshLabel mints a new static-exception label.
func (self *Source) FreshLabel() clir.Label {
    self.label++
    return clir.Label(self.label)
}

// Reserve advances the source past stamp, so identifiers already present in
// an input tree are never reissued.
func (self *Source) Reserve(stamp int32) {
    if stamp > self.stamp {
        self.stamp = stamp
    }
}

// ReserveLabel advances the source past a static label already present in
// an input tree.
func (self *Source) ReserveLabel(label clir.Label) {
    if int32(label) > self.label {
        self.label = int32(label)
    }
}
