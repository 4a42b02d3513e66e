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

package approx

import (
    `github.com/karstlang/sift/clir`
)

// ClosureValue is the simplification-time view of one closure bundle: an
// arena of function declarations indexed by label, the approximations of
// the captured variables, the parameters proven invariant across recursive
// self-calls, and the label renamings applied by the most recent
// duplication. The rename tables let a projection through a pre-duplication
// label reach the renamed declaration.
type ClosureValue struct {
    ID         uint64
    Unit       clir.Unit
    Order      []clir.FunID
    Funs       map[clir.FunID]*clir.FunDecl
    Bound      map[clir.Field]Value
    Kept       map[clir.Var]bool
    Pinned     map[clir.Var]bool
    FunRenames map[clir.FunID]clir.FunID
    VarRenames map[clir.Field]clir.Field
    Recursive  bool
}

// RedirectFun chases fn through the duplication rename table.
func (self *ClosureValue) RedirectFun(fn clir.FunID) clir.FunID {
    if to, ok := self.FunRenames[fn]; ok {
        return to
    }
    return fn
}

// RedirectField chases a captured-variable label through the duplication
// rename table.
func (self *ClosureValue) RedirectField(fv clir.Field) clir.Field {
    if to, ok := self.VarRenames[fv]; ok {
        return to
    }
    return fv
}

// Decl resolves a (possibly pre-duplication) function label to its
// declaration.
func (self *ClosureValue) Decl(fn clir.FunID) (*clir.FunDecl, bool) {
    fd, ok := self.Funs[self.RedirectFun(fn)]
    return fd, ok
}

// BoundVar resolves a (possibly pre-duplication) captured-variable label to
// its approximation.
func (self *ClosureValue) BoundVar(fv clir.Field) (Value, bool) {
    v, ok := self.Bound[self.RedirectField(fv)]
    return v, ok
}

// Closed reports whether the bundle captures nothing.
func (self *ClosureValue) Closed() bool {
    return len(self.Bound) == 0
}
