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
    `github.com/karstlang/sift/cost`
)

// simplifyApply rewrites one application. The callee's approximation
// decides everything: an unknown callee stays an indirect call, a known
// function is reconciled against its arity and then considered for
// inlining or specialization.
func (self *Simplifier) simplifyApply(env Env, r Result, v *clir.Apply) (clir.Expr, Result) {
    fn, rf := self.simplify(env, r.fresh(), v.Fn)
    fa := self.importApprox(rf.Value())

    args := make([]clir.Expr, len(v.Args))
    ras := make([]Result, len(v.Args))
    aas := make([]approx.Value, len(v.Args))
    for i, arg := range v.Args {
        args[i], ras[i] = self.simplify(env, r.fresh(), arg)
        aas[i] = ras[i].Value()
    }

    cl, ok := fa.Desc.(approx.Closure)
    if !ok {
        /* a one-function bundle is applicable as the function itself */
        if s, sok := fa.Desc.(approx.SetOfClosures); sok && len(s.Set.Order) == 1 {
            cl, ok = approx.Closure { Fun: s.Set.Order[0], Set: s.Set }, true
        }
    }
    if !ok || len(args) == 0 {
        return indirectApply(r, v.Tag, v.DInfo, fn, rf, args, ras)
    }

    cv := cl.Set
    fid := cv.RedirectFun(cl.Fun)
    fd, ok := cv.Funs[fid]
    if !ok {
        fatalAt(v, "application of unknown function %s", fid)
    }

    n := fd.Arity()
    switch {
        case len(args) == n : return self.directCall(env, r, v.Tag, v.DInfo, fn, rf, args, ras, aas, fid, fd, cv)
        case len(args) > n  : return self.overApply(env, r, v, fn, rf, args, ras, aas, fid, fd, cv, n)
        default             : return self.partialApply(env, r, v, fn, args, fd)
    }
}

func indirectApply(r Result, tag uint64, di clir.DInfo, fn clir.Expr, rf Result, args []clir.Expr, ras []Result) (clir.Expr, Result) {
    r = r.merge(rf)
    for _, ra := range ras {
        r = r.merge(ra)
    }
    out := &clir.Apply { Tag: tag, Fn: fn, Args: args, Kind: clir.IndirectCall(), DInfo: di }
    return out, r.ret(approx.Top())
}

// directCall handles an exact-arity application of a known function:
// inline it, specialize it, or emit a direct call.
func (self *Simplifier) directCall(env Env, r Result, tag uint64, di clir.DInfo, fn clir.Expr, rf Result, args []clir.Expr, ras []Result, aas []approx.Value, fid clir.FunID, fd *clir.FunDecl, cv *approx.ClosureValue) (clir.Expr, Result) {
    if out, rr, ok := self.tryInline(env, r, fn, args, aas, fid, fd, cv); ok {
        return out, rr
    }
    if out, rr, ok := self.trySpecialize(env, r, fn, args, aas, fid, fd, cv); ok {
        return out, rr
    }

    r = r.merge(rf)
    for _, ra := range ras {
        r = r.merge(ra)
    }
    out := &clir.Apply { Tag: tag, Fn: fn, Args: args, Kind: clir.DirectCall(fid), DInfo: di }
    return out, r.ret(approx.Top())
}

// tryInline replaces the call with the callee's body, closure projections
// and parameters bound by a chain of lets, and re-simplifies the whole
// thing with the substitution active so every duplicated binder gets a
// fresh stamp. Stubs and functor-shaped toplevel applications are inlined
// unconditionally; everything else pays its estimated size out of the
// budget and is rejected after the fact when the rewritten body did not
// shrink back under it.
func (self *Simplifier) tryInline(env Env, r Result, fn clir.Expr, args []clir.Expr, aas []approx.Value, fid clir.FunID, fd *clir.FunDecl, cv *approx.ClosureValue) (clir.Expr, Result, bool) {
    if env.isDefining(cv.ID) {
        return nil, r, false
    }

    size := 0
    fits := true
    force := fd.IsStub || self.functorLike(env, cv, aas)

    if !force {
        size, fits = cost.Estimate(fd.Body, (env.budget + len(args)) * 2)
    }
    if !fits {
        return nil, r, false
    }
    if !force && (cv.Recursive || !self.opt.CanRecurse(env.depth)) {
        return nil, r, false
    }

    built := self.bindCall(fn, args, fid, fd)
    out, rs := self.simplify(env.inlined(size).freshened(), r.fresh(), built)

    if !force {
        if _, ok := cost.Estimate(out, env.budget + len(args)); !ok {
            return nil, r, false
        }
    }
    return out, r.merge(rs).ret(rs.Value()), true
}

// bindCall is the inlined shape of one exact application:
//
//     let c = fn in
//     let self = c in
//     let fv_i = c.(fv_i) in
//     let p_j = arg_j in
//     body
func (self *Simplifier) bindCall(fn clir.Expr, args []clir.Expr, fid clir.FunID, fd *clir.FunDecl) clir.Expr {
    body := fd.Body
    for i := len(args) - 1; i >= 0; i-- {
        body = bindLet(fd.Params[i], args[i], body)
    }

    c := self.src.Fresh("clos")
    for i := len(fd.FreeVars) - 1; i >= 0; i-- {
        fv := fd.FreeVars[i]
        sel := &clir.SelectVar { Tag: clir.NewTag(), Closure: varRef(c), Fun: fid, Field: clir.FieldOf(fv) }
        body = bindLet(fv, sel, body)
    }

    body = bindLet(fd.Self, varRef(c), body)
    return bindLet(c, fn, body)
}

// functorLike recognizes a toplevel application of a closed non-recursive
// function to statically known module-shaped values. Such applications run
// once and melt away almost entirely once inlined, so size is no obstacle.
func (self *Simplifier) functorLike(env Env, cv *approx.ClosureValue, aas []approx.Value) bool {
    if env.depth != 0 || env.nesting != 0 || cv.Recursive || !cv.Closed() {
        return false
    }
    if len(aas) == 0 {
        return false
    }
    for _, a := range aas {
        switch a.Desc.(type) {
            case approx.Closure       :
            case approx.SetOfClosures :
            case approx.Symbol        :
            case *approx.Block        :
            default                   : return false
        }
    }
    return true
}

// trySpecialize duplicates a closed recursive bundle with the invariant
// parameters pinned to the current arguments, so the copy's bodies are
// simplified under the arguments' approximations. The callee expression is
// dropped from the rebuilt tree, hence the purity requirement on it.
func (self *Simplifier) trySpecialize(env Env, r Result, fn clir.Expr, args []clir.Expr, aas []approx.Value, fid clir.FunID, fd *clir.FunDecl, cv *approx.ClosureValue) (clir.Expr, Result, bool) {
    if !cv.Recursive || !cv.Closed() || env.isDefining(cv.ID) {
        return nil, r, false
    }
    if !clir.EffectFree(fn) || !self.opt.CanRecurse(env.depth) {
        return nil, r, false
    }

    /* pointless unless some invariant parameter just became known */
    gain := false
    for i, p := range fd.Params {
        if cv.Kept[p] && !cv.Pinned[p] && aas[i].Known() {
            gain = true
        }
    }
    if !gain {
        return nil, r, false
    }

    built := self.pinCall(args, fid, fd, cv)
    out, rs := self.simplify(env.deeper().freshened(), r.fresh(), built)

    if _, ok := cost.Estimate(out, (env.budget + len(args)) * 2); !ok {
        return nil, r, false
    }
    return out, r.merge(rs).ret(rs.Value()), true
}

// pinCall is the specialized shape of one recursive application:
//
//     let p_i = arg_i in
//     (copy of the bundle, p_i pinned for every invariant p_i).fid(p_i...)
func (self *Simplifier) pinCall(args []clir.Expr, fid clir.FunID, fd *clir.FunDecl, cv *approx.ClosureValue) clir.Expr {
    spec := &clir.ClosureSpec {
        ID       : cv.ID,
        Unit     : cv.Unit,
        Order    : append([]clir.FunID(nil), cv.Order...),
        Funs     : cv.Funs,
        Captured : map[clir.Field]clir.Expr{},
        SpecArgs : map[clir.Var]clir.Var{},
    }

    inner := make([]clir.Expr, len(args))
    for i, p := range fd.Params {
        inner[i] = varRef(p)
        if cv.Kept[p] {
            spec.SpecArgs[p] = p
        }
    }

    var out clir.Expr = &clir.Apply {
        Tag  : clir.NewTag(),
        Args : inner,
        Kind : clir.IndirectCall(),
        Fn   : &clir.SelectFun {
            Tag     : clir.NewTag(),
            Closure : &clir.MakeClosure { Tag: clir.NewTag(), Spec: spec },
            Fun     : fid,
        },
    }
    for i := len(args) - 1; i >= 0; i-- {
        out = bindLet(fd.Params[i], args[i], out)
    }
    return out
}

// overApply splits off an exact direct call for the first n arguments and
// applies its result to the rest indirectly. The wrapper is emitted as-is.
func (self *Simplifier) overApply(env Env, r Result, v *clir.Apply, fn clir.Expr, rf Result, args []clir.Expr, ras []Result, aas []approx.Value, fid clir.FunID, fd *clir.FunDecl, cv *approx.ClosureValue, n int) (clir.Expr, Result) {
    inner, r := self.directCall(env, r, clir.NewTag(), v.DInfo, fn, rf, args[:n], ras[:n], aas[:n], fid, fd, cv)

    for _, ra := range ras[n:] {
        r = r.merge(ra)
    }

    t := self.src.Fresh("over")
    out := &clir.Let {
        Tag   : v.Tag,
        Id    : t,
        Bound : inner,
        Body  : &clir.Apply { Tag: clir.NewTag(), Fn: varRef(t), Args: args[n:], Kind: clir.IndirectCall(), DInfo: v.DInfo },
    }
    return out, r.ret(approx.Top())
}

// partialApply wraps the callee and the provided arguments in a stub
// closure taking the remaining parameters. The stub is marked so later
// full applications of it always inline away. The callee and argument
// expressions are rebuilt into the wrapper and re-simplified, so the
// liveness gathered while first rewriting them is dropped with them.
func (self *Simplifier) partialApply(env Env, r Result, v *clir.Apply, fn clir.Expr, args []clir.Expr, fd *clir.FunDecl) (clir.Expr, Result) {
    fv := self.src.Fresh("fun")
    held := make([]clir.Var, len(args))
    for i := range args {
        held[i] = self.src.FreshOf(fd.Params[i])
    }
    rest := make([]clir.Var, fd.Arity() - len(args))
    for i := range rest {
        rest[i] = self.src.FreshOf(fd.Params[len(args) + i])
    }

    full := make([]clir.Expr, 0, fd.Arity())
    for _, h := range held {
        full = append(full, varRef(h))
    }
    for _, q := range rest {
        full = append(full, varRef(q))
    }

    selfv := self.src.Fresh("self")
    free := append([]clir.Var { fv }, held...)

    stub := &clir.FunDecl {
        IsStub   : true,
        Self     : selfv,
        Params   : rest,
        FreeVars : free,
        Body     : &clir.Apply { Tag: clir.NewTag(), Fn: varRef(fv), Args: full, Kind: clir.IndirectCall(), DInfo: v.DInfo },
        DInfo    : v.DInfo,
    }

    sid := self.src.FreshFun(fd.Self.Name + "_stub")
    captured := make(map[clir.Field]clir.Expr, len(free))
    for _, x := range free {
        captured[clir.FieldOf(x)] = varRef(x)
    }

    var built clir.Expr = &clir.MakeClosure {
        Tag  : v.Tag,
        Spec : &clir.ClosureSpec {
            ID       : clir.NewClosureID(),
            Unit     : self.src.Unit(),
            Order    : []clir.FunID { sid },
            Funs     : map[clir.FunID]*clir.FunDecl { sid: stub },
            Captured : captured,
        },
    }
    for i := len(args) - 1; i >= 0; i-- {
        built = bindLet(held[i], args[i], built)
    }
    built = bindLet(fv, fn, built)

    out, rs := self.simplify(env.freshened(), r.fresh(), built)
    return out, r.merge(rs).ret(rs.Value())
}

func varRef(v clir.Var) clir.Expr {
    return &clir.VarRef { Tag: clir.NewTag(), Id: v }
}

func bindLet(id clir.Var, bound clir.Expr, body clir.Expr) clir.Expr {
    return &clir.Let { Tag: clir.NewTag(), Id: id, Bound: bound, Body: body }
}
