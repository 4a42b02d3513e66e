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
    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`
    `github.com/karstlang/sift/internal/opts`
)

type _Binding struct {
    id   clir.Var
    val  approx.Value
    next *_Binding
}

// Env is the top-down state of one traversal: known approximations of the
// bindings in scope, the remaining inlining budget, the recursion guards,
// and the active substitution. Envs are snapshots passed by value; every
// extension builds a new one and the old one stays valid.
type Env struct {
    approxs  *_Binding
    budget   int
    depth    int
    nesting  int
    defining map[uint64]struct{}
    sb       *_Subst
}

func newEnv(opt opts.Options) Env {
    return Env {
        budget : opt.InlineThreshold,
        sb     : newSubst(),
    }
}

// bind extends the environment with an approximation for id.
func (self Env) bind(id clir.Var, val approx.Value) Env {
    self.approxs = &_Binding { id: id, val: val, next: self.approxs }
    return self
}

// approxOf is the current approximation of id, Unknown when unbound.
func (self Env) approxOf(id clir.Var) approx.Value {
    for b := self.approxs; b != nil; b = b.next {
        if b.id == id {
            return b.val
        }
    }
    return approx.Top()
}

// bound reports whether id is in scope.
func (self Env) bound(id clir.Var) bool {
    for b := self.approxs; b != nil; b = b.next {
        if b.id == id {
            return true
        }
    }
    return false
}

// nested is the environment a closure body starts from: the enclosing
// scope's locals are invisible, only what the closure explicitly captures
// comes back in.
func (self Env) nested() Env {
    self.approxs = nil
    self.nesting++
    return self
}

// freshened activates substitution for a duplication scope.
func (self Env) freshened() Env {
    self.sb = self.sb.activated()
    return self
}

// inlined charges an inlining decision: the callee's estimated size comes
// off the budget and the recursion depth increases.
func (self Env) inlined(size int) Env {
    self.budget -= size
    self.depth++
    return self
}

// deeper increases the recursion depth without touching the budget, for
// specialization.
func (self Env) deeper() Env {
    self.depth++
    return self
}

// withDefining marks closure bundles as currently being defined, which
// suppresses self-recursive inlining inside their own bodies.
func (self Env) withDefining(ids ...uint64) Env {
    set := make(map[uint64]struct{}, len(self.defining) + len(ids))
    for id := range self.defining {
        set[id] = struct{}{}
    }
    for _, id := range ids {
        set[id] = struct{}{}
    }
    self.defining = set
    return self
}

func (self Env) isDefining(id uint64) bool {
    _, ok := self.defining[id]
    return ok
}

// withSubstVar clones the substitution and installs a variable renaming.
func (self Env) withSubstVar(from clir.Var, to clir.Var) Env {
    sb := self.sb.clone()
    sb.addVar(from, to)
    self.sb = sb
    return self
}

// withSubstSym clones the substitution and installs a symbol-to-variable
// rebinding.
func (self Env) withSubstSym(sym clir.Symbol, to clir.Var) Env {
    sb := self.sb.clone()
    sb.addSym(sym, to)
    self.sb = sb
    return self
}

// withSubstLabel clones the substitution and installs a static-label
// renaming.
func (self Env) withSubstLabel(from clir.Label, to clir.Label) Env {
    sb := self.sb.clone()
    sb.addLabel(from, to)
    self.sb = sb
    return self
}
