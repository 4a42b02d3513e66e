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
    `github.com/karstlang/sift/clir`
)

// reserve advances the identifier source past every stamp and label already
// present in the input tree, so freshened names can never collide with
// existing ones.
func (self *Simplifier) reserve(e clir.Expr) {
    clir.Walk(e, func(n clir.Expr) {
        switch v := n.(type) {
            case *clir.VarRef      : self.src.Reserve(v.Id.Stamp)
            case *clir.Let         : self.src.Reserve(v.Id.Stamp)
            case *clir.LetRec      : self.reserveBinds(v.Binds)
            case *clir.For         : self.src.Reserve(v.Id.Stamp)
            case *clir.Assign      : self.src.Reserve(v.Id.Stamp)
            case *clir.TryWith     : self.src.Reserve(v.Id.Stamp)
            case *clir.Apply       : self.src.Reserve(v.Kind.Fun.Stamp)
            case *clir.SelectFun   : self.reserveSelectFun(v)
            case *clir.SelectVar   : self.src.Reserve(v.Fun.Stamp); self.src.Reserve(v.Field.Stamp)
            case *clir.StaticRaise : self.src.ReserveLabel(v.Label)
            case *clir.StaticCatch : self.reserveCatch(v)
            case *clir.MakeClosure : self.reserveClosure(v.Spec)
        }
    })
}

func (self *Simplifier) reserveBinds(binds []clir.Bind) {
    for _, b := range binds {
        self.src.Reserve(b.Id.Stamp)
    }
}

func (self *Simplifier) reserveSelectFun(v *clir.SelectFun) {
    self.src.Reserve(v.Fun.Stamp)
    if v.Relative != nil {
        self.src.Reserve(v.Relative.Stamp)
    }
}

func (self *Simplifier) reserveCatch(v *clir.StaticCatch) {
    self.src.ReserveLabel(v.Label)
    for _, id := range v.Ids {
        self.src.Reserve(id.Stamp)
    }
}

func (self *Simplifier) reserveClosure(spec *clir.ClosureSpec) {
    for _, fn := range spec.Order {
        fd := spec.Funs[fn]
        self.src.Reserve(fn.Stamp)
        self.src.Reserve(fd.Self.Stamp)
        for _, p := range fd.Params {
            self.src.Reserve(p.Stamp)
        }
        for _, fv := range fd.FreeVars {
            self.src.Reserve(fv.Stamp)
        }
    }
    for fv := range spec.Captured {
        self.src.Reserve(fv.Stamp)
    }
    for p, w := range spec.SpecArgs {
        self.src.Reserve(p.Stamp)
        self.src.Reserve(w.Stamp)
    }
}
