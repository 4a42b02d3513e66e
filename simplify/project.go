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
)

// selectFun projects one function out of a closure bundle. When the bundle
// is statically known the projected label is redirected through the rename
// tables and the result approximates to that exact function; projecting a
// label the bundle does not define is a compiler bug.
func (self *Simplifier) selectFun(env Env, r Result, v *clir.SelectFun) (clir.Expr, Result) {
    closure, rc := self.simplify(env, r.fresh(), v.Closure)
    ca := self.importApprox(rc.Value())

    fid := env.sb.resolveFun(v.Fun)
    rel := v.Relative
    if rel != nil {
        nrel := env.sb.resolveFun(*rel)
        rel = &nrel
    }

    cv := closureSet(ca)
    if cv == nil {
        out := &clir.SelectFun { Tag: v.Tag, Closure: closure, Fun: fid, Relative: rel }
        return self.reduce(env, r, rc, out, approx.Top())
    }

    fid = cv.RedirectFun(fid)
    if _, ok := cv.Funs[fid]; !ok {
        fatalAt(v, "projection of unknown function %s from closure bundle %d", fid, cv.ID)
    }
    if rel != nil {
        nrel := cv.RedirectFun(*rel)
        rel = &nrel
    }

    out := &clir.SelectFun { Tag: v.Tag, Closure: closure, Fun: fid, Relative: rel }
    return self.reduce(env, r, rc, out, approx.Value { Desc: approx.Closure { Fun: fid, Set: cv } })
}

// selectVar reads a captured variable of a closure. A known bundle yields
// the approximation recorded when the capture was simplified, which may
// still name an enclosing witness; reduce only honors witnesses that are
// actually in scope here.
func (self *Simplifier) selectVar(env Env, r Result, v *clir.SelectVar) (clir.Expr, Result) {
    closure, rc := self.simplify(env, r.fresh(), v.Closure)
    ca := self.importApprox(rc.Value())

    fid := env.sb.resolveFun(v.Fun)
    field := env.sb.resolveField(v.Field)

    a := approx.Top()
    if cv := closureSet(ca); cv != nil {
        fid = cv.RedirectFun(fid)
        field = cv.RedirectField(field)
        if b, ok := cv.Bound[field]; ok {
            a = b
        }
    }

    out := &clir.SelectVar { Tag: v.Tag, Closure: closure, Fun: fid, Field: field }
    return self.reduce(env, r, rc, out, a)
}

// closureSet extracts the bundle from either closure-shaped approximation.
func closureSet(a approx.Value) *approx.ClosureValue {
    switch d := a.Desc.(type) {
        case approx.Closure       : return d.Set
        case approx.SetOfClosures : return d.Set
        default                   : return nil
    }
}
