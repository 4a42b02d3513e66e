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
    `sort`

    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`

    `github.com/oleiade/lane`
)

// makeClosure rewrites one closure bundle: captured initializers are
// simplified in the enclosing scope, every label and binder is freshened
// when a duplication is in progress, and each function body is simplified
// in a nested environment that already knows the whole bundle, so the
// functions can reference themselves and each other.
func (self *Simplifier) makeClosure(env Env, r Result, v *clir.MakeClosure) (clir.Expr, Result) {
    spec := v.Spec
    sub := env.sb.active

    /* specialized-argument pins resolve through the active substitution */
    pins := make(map[clir.Var]clir.Var, len(spec.SpecArgs))
    for p, w := range spec.SpecArgs {
        pins[p] = env.sb.resolveVar(w)
    }

    /* captured values are defined outside the closure */
    fields := capturedOrder(spec)
    inits := make(map[clir.Field]clir.Expr, len(fields))
    initApprox := make(map[clir.Field]approx.Value, len(fields))
    for _, fv := range fields {
        var init clir.Expr
        init, r = self.simplify(env, r, spec.Captured[fv])
        inits[fv] = init
        initApprox[fv] = r.Value()
    }

    /* freshen the bundle under duplication, recording both rename tables
     * so stale labels can still be redirected afterwards */
    id := spec.ID
    sbN := env.sb
    order := append([]clir.FunID(nil), spec.Order...)

    if sub {
        id = clir.NewClosureID()
        sbN = env.sb.clone()

        for i, fn := range spec.Order {
            order[i] = self.src.FreshFunOf(fn)
            sbN.addFun(fn, order[i])
        }
        for _, fn := range spec.Order {
            self.freshenDecl(sbN, spec.Funs[fn])
        }
        for _, fv := range fields {
            if _, ok := sbN.fields[fv]; !ok {
                sbN.addField(fv, self.src.FreshField(fv))
            }
        }
    }

    /* rebuild the declaration arena under the new names; bodies are
     * installed after simplification */
    funs := make(map[clir.FunID]*clir.FunDecl, len(order))
    decls := make([]*clir.FunDecl, len(order))
    for i, fn := range spec.Order {
        old := spec.Funs[fn]
        decls[i] = &clir.FunDecl {
            IsStub   : old.IsStub,
            Self     : sbN.resolveVar(old.Self),
            Params   : resolveVars(sbN, old.Params),
            FreeVars : resolveVars(sbN, old.FreeVars),
            Body     : old.Body,
            DInfo    : old.DInfo,
            Symbol   : old.Symbol,
        }
        funs[order[i]] = decls[i]
    }

    bound := make(map[clir.Field]approx.Value, len(fields))
    captured := make(map[clir.Field]clir.Expr, len(fields))
    for _, fv := range fields {
        nf := sbN.resolveField(fv)
        bound[nf] = initApprox[fv]
        captured[nf] = inits[fv]
    }

    cv := &approx.ClosureValue {
        ID         : id,
        Unit       : spec.Unit,
        Order      : order,
        Funs       : funs,
        Bound      : bound,
        FunRenames : bundleFunRenames(sbN, funs, sub),
        VarRenames : bundleVarRenames(sbN, bound, sub),
    }

    /* rewrite the bodies with the bundle visible to itself */
    envN := env.nested().withDefining(spec.ID, id)
    envN.sb = sbN

    newPins := make(map[clir.Var]clir.Var, len(pins))
    cv.Pinned = make(map[clir.Var]bool, len(pins))
    for p, w := range pins {
        np := sbN.resolveVar(p)
        newPins[np] = w
        cv.Pinned[np] = true
    }

    usedParams := make(map[clir.Var]bool)
    for i, fn := range order {
        r = self.closureBody(env, envN, r, fn, decls[i], cv, newPins, usedParams, sub)
    }

    calls := collectSelfCalls(decls, funs)
    cv.Recursive = len(calls) > 0
    cv.Kept = keptParams(decls, funs, calls)

    /* a pin for a parameter nobody reads constrains nothing */
    specArgs := make(map[clir.Var]clir.Var)
    for p, w := range newPins {
        if usedParams[p] {
            specArgs[p] = w
            r = r.use(w)
        }
    }

    out := &clir.MakeClosure {
        Tag  : v.Tag,
        Spec : &clir.ClosureSpec {
            ID       : id,
            Unit     : spec.Unit,
            Order    : order,
            Funs     : funs,
            Captured : captured,
            SpecArgs : specArgs,
        },
    }
    return out, r.ret(approx.Value { Desc: approx.SetOfClosures { Set: cv } })
}

// closureBody simplifies one function of the bundle and records which of
// its parameters were actually read.
func (self *Simplifier) closureBody(env Env, envN Env, r Result, fn clir.FunID, nd *clir.FunDecl, cv *approx.ClosureValue, pins map[clir.Var]clir.Var, usedParams map[clir.Var]bool, sub bool) Result {
    envF := envN.bind(nd.Self, approx.Value {
        Desc: approx.Closure { Fun: fn, Set: cv },
    }.WithWitness(nd.Self))

    for _, fv := range nd.FreeVars {
        a := approx.Top()
        if b, ok := cv.Bound[clir.FieldOf(fv)]; ok {
            a = b
        }
        envF = envF.bind(fv, a.WithWitness(fv))
    }

    for _, p := range nd.Params {
        a := approx.Top()
        if w, ok := pins[p]; ok {
            a = env.approxOf(w)
        }
        envF = envF.bind(p, a.WithWitness(p))
    }

    /* recursive references to a duplicate not yet rebound to its symbol
     * must resolve to the local closure instead */
    if sub && nd.Symbol != "" {
        envF = envF.withSubstSym(nd.Symbol, nd.Self)
    }

    body, rb := self.simplify(envF, r.fresh(), nd.Body)
    for _, p := range nd.Params {
        if rb.isUsed(p) {
            usedParams[p] = true
        }
    }

    rb = rb.exitScope(nd.Params...)
    rb = rb.exitScope(nd.FreeVars...)
    rb = rb.exitScope(nd.Self)

    nd.Body = body
    return r.merge(rb)
}

func (self *Simplifier) freshenDecl(sb *_Subst, fd *clir.FunDecl) {
    sb.addVar(fd.Self, self.src.FreshOf(fd.Self))
    for _, p := range fd.Params {
        sb.addVar(p, self.src.FreshOf(p))
    }
    for _, fv := range fd.FreeVars {
        if _, ok := sb.vars[fv]; !ok {
            sb.addVar(fv, self.src.FreshOf(fv))
        }
        /* the field label follows the variable even when an enclosing
         * binder already renamed it */
        if from, to := clir.FieldOf(fv), clir.FieldOf(sb.resolveVar(fv)); sb.fields[from] != to {
            sb.addField(from, to)
        }
    }
}

func resolveVars(sb *_Subst, vs []clir.Var) []clir.Var {
    ret := make([]clir.Var, len(vs))
    for i, v := range vs {
        ret[i] = sb.resolveVar(v)
    }
    return ret
}

func capturedOrder(spec *clir.ClosureSpec) []clir.Field {
    ret := make([]clir.Field, 0, len(spec.Captured))
    for fv := range spec.Captured {
        ret = append(ret, fv)
    }
    sort.Slice(ret, func(i int, j int) bool {
        if ret[i].Name != ret[j].Name {
            return ret[i].Name < ret[j].Name
        }
        return ret[i].Stamp < ret[j].Stamp
    })
    return ret
}

// bundleFunRenames collects every substitution chain that now lands on one
// of the bundle's functions, so projections through any older generation
// of the label still resolve.
func bundleFunRenames(sb *_Subst, funs map[clir.FunID]*clir.FunDecl, sub bool) map[clir.FunID]clir.FunID {
    ret := make(map[clir.FunID]clir.FunID)
    if !sub {
        return ret
    }
    for from, to := range sb.funs {
        if _, ok := funs[to]; ok {
            ret[from] = to
        }
    }
    return ret
}

func bundleVarRenames(sb *_Subst, bound map[clir.Field]approx.Value, sub bool) map[clir.Field]clir.Field {
    ret := make(map[clir.Field]clir.Field)
    if !sub {
        return ret
    }
    for from, to := range sb.fields {
        if _, ok := bound[to]; ok {
            ret[from] = to
        }
    }
    return ret
}

// collectSelfCalls finds every direct application of a bundle member
// anywhere inside the bundle's own bodies.
func collectSelfCalls(decls []*clir.FunDecl, funs map[clir.FunID]*clir.FunDecl) []*clir.Apply {
    var calls []*clir.Apply
    for _, nd := range decls {
        clir.Walk(nd.Body, func(e clir.Expr) {
            if call, ok := e.(*clir.Apply); ok && call.Kind.Direct {
                if _, ok := funs[call.Kind.Fun]; ok {
                    calls = append(calls, call)
                }
            }
        })
    }
    return calls
}

// keptParams computes the fixed point of the parameters that keep their
// value across every recursive self-call. A parameter receiving anything
// but itself or another parameter is demoted immediately; receiving a
// parameter records an implication resolved by worklist propagation.
func keptParams(decls []*clir.FunDecl, funs map[clir.FunID]*clir.FunDecl, calls []*clir.Apply) map[clir.Var]bool {
    kept := make(map[clir.Var]bool)
    isParam := make(map[clir.Var]bool)
    for _, nd := range decls {
        for _, p := range nd.Params {
            kept[p] = true
            isParam[p] = true
        }
    }

    q := lane.NewDeque()
    deps := make(map[clir.Var][]clir.Var)

    demote := func(p clir.Var) {
        if kept[p] {
            kept[p] = false
            q.Append(p)
        }
    }

    for _, call := range calls {
        callee := funs[call.Kind.Fun]
        if len(call.Args) != len(callee.Params) {
            for _, p := range callee.Params {
                demote(p)
            }
            continue
        }
        for i, arg := range call.Args {
            p := callee.Params[i]
            vr, ok := arg.(*clir.VarRef)
            switch {
                case ok && vr.Id == p      : /* passed through unchanged */
                case ok && isParam[vr.Id]  : deps[vr.Id] = append(deps[vr.Id], p)
                default                    : demote(p)
            }
        }
    }

    for !q.Empty() {
        x := q.Shift().(clir.Var)
        for _, p := range deps[x] {
            demote(p)
        }
    }

    ret := make(map[clir.Var]bool)
    for p, ok := range kept {
        if ok {
            ret[p] = true
        }
    }
    return ret
}
