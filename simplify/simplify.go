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

// Package simplify is the optimizing rewrite pass over the closure IR: one
// mutually recursive traversal that threads a top-down environment of
// approximations and substitutions, and a bottom-up result of rewritten
// code, value approximations and liveness facts. Constant folding, dead
// code elimination, inlining and recursive-call specialization all happen
// in this single walk.
package simplify

import (
    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`
    `github.com/karstlang/sift/ident`
    `github.com/karstlang/sift/imports`
    `github.com/karstlang/sift/internal/opts`
)

// Simplifier drives the rewrite of one compilation unit.
type Simplifier struct {
    src *ident.Source
    imp imports.Importer
    opt opts.Options
}

// New builds a Simplifier over the given collaborators. A nil importer
// resolves nothing.
func New(src *ident.Source, imp imports.Importer, opt opts.Options) *Simplifier {
    if imp == nil {
        imp = imports.Unresolved{}
    }
    return &Simplifier {
        src : src,
        imp : imp,
        opt : opt,
    }
}

// Unit rewrites a whole compilation unit under an empty environment. On
// return every binder introduced anywhere in the tree has been matched by
// a scope exit; a liveness set that does not drain is an unrecoverable
// inconsistency in the pass itself.
func (self *Simplifier) Unit(e clir.Expr) clir.Expr {
    clir.Dumpf("unit before", e)
    self.reserve(e)

    out, r := self.simplify(newEnv(self.opt), newResult(), e)
    if !r.drained() {
        fatalAt(out, "leftover liveness after unit simplification: vars=%v labels=%v", r.used, r.labels)
    }

    clir.Dumpf("unit after", out)
    return out
}

func (self *Simplifier) simplify(env Env, r Result, e clir.Expr) (clir.Expr, Result) {
    switch v := e.(type) {
        case *clir.VarRef      : return self.simplifyVar(env, r, v)
        case *clir.SymRef      : return self.simplifySym(env, r, v)
        case *clir.Const       : return v, r.ret(approxLit(v.Lit))
        case *clir.Let         : return self.simplifyLet(env, r, v)
        case *clir.LetRec      : return self.simplifyLetRec(env, r, v)
        case *clir.Prim        : return self.simplifyPrim(env, r, v)
        case *clir.Apply       : return self.simplifyApply(env, r, v)
        case *clir.MakeClosure : return self.makeClosure(env, r, v)
        case *clir.SelectFun   : return self.selectFun(env, r, v)
        case *clir.SelectVar   : return self.selectVar(env, r, v)
        case *clir.If          : return self.simplifyIf(env, r, v)
        case *clir.Switch      : return self.simplifySwitch(env, r, v)
        case *clir.StrSwitch   : return self.simplifyStrSwitch(env, r, v)
        case *clir.Seq         : return self.simplifySeq(env, r, v)
        case *clir.While       : return self.simplifyWhile(env, r, v)
        case *clir.For         : return self.simplifyFor(env, r, v)
        case *clir.Assign      : return self.simplifyAssign(env, r, v)
        case *clir.StaticRaise : return self.simplifyRaise(env, r, v)
        case *clir.StaticCatch : return self.simplifyCatch(env, r, v)
        case *clir.TryWith     : return self.simplifyTry(env, r, v)
        case *clir.Send        : return self.simplifySend(env, r, v)
        case *clir.Unreachable : return v, r.ret(approx.None())
        default                : fatalAt(e, "unknown node kind %T", e); return nil, r
    }
}

// approxLit is the approximation of a literal. Strings are mutable at
// runtime and structured literals only approximate when immutable.
func approxLit(lit clir.Literal) approx.Value {
    switch l := lit.(type) {
        case clir.IntLit    : return approx.OfInt(int64(l))
        case clir.PtrLit    : return approx.OfConstPtr(int64(l))
        case *clir.BlockLit : return approxBlockLit(l)
        default             : return approx.Top()
    }
}

func approxBlockLit(l *clir.BlockLit) approx.Value {
    if l.Mut {
        return approx.Top()
    }
    fields := make([]approx.Value, 0, len(l.Fields))
    for _, f := range l.Fields {
        fields = append(fields, approxLit(f))
    }
    return approx.OfBlock(l.BTag, fields)
}

// importApprox resolves a symbol-shaped approximation to the symbol's
// statically known value. Idempotent; the importer owns any caching.
func (self *Simplifier) importApprox(a approx.Value) approx.Value {
    if sym, ok := a.Desc.(approx.Symbol); ok {
        if imported := self.imp.ImportSymbol(clir.Symbol(sym)); imported.Known() {
            return imported
        }
    }
    return a
}

// reduce closes out one rewritten expression: when the computed
// approximation pins an exact constant, or names a witness variable still
// in scope, and the expression itself is effect-free, the expression is
// replaced by the cheaper form and the liveness collected while rewriting
// it (scratch) is discarded with it. Otherwise the expression is kept and
// scratch is merged.
func (self *Simplifier) reduce(env Env, r Result, scratch Result, e clir.Expr, a approx.Value) (clir.Expr, Result) {
    if clir.EffectFree(e) {
        if lit, ok := literalOf(a); ok {
            return lit, r.ret(a)
        }
        if w := a.Witness; w != nil && env.bound(*w) {
            if vr, ok := e.(*clir.VarRef); !ok || vr.Id != *w {
                return &clir.VarRef { Tag: clir.NewTag(), Id: *w }, r.use(*w).ret(a)
            }
        }
    }
    return e, r.merge(scratch).ret(a)
}

func (self *Simplifier) simplifyVar(env Env, r Result, v *clir.VarRef) (clir.Expr, Result) {
    id := env.sb.resolveVar(v.Id)
    a := env.approxOf(id)

    out := &clir.VarRef { Tag: v.Tag, Id: id }
    return self.reduce(env, r, r.fresh().use(id), out, a)
}

func (self *Simplifier) simplifySym(env Env, r Result, v *clir.SymRef) (clir.Expr, Result) {
    if to, ok := env.sb.resolveSym(v.Sym); ok {
        return self.simplify(env, r, &clir.VarRef { Tag: v.Tag, Id: to })
    }

    a := self.imp.ImportSymbol(v.Sym)
    if !a.Known() {
        a = approx.OfSymbol(v.Sym)
    }
    return self.reduce(env, r, r.fresh(), v, a)
}

func (self *Simplifier) simplifyLet(env Env, r Result, v *clir.Let) (clir.Expr, Result) {
    rb := r.fresh()
    bound, rb := self.simplify(env, rb, v.Bound)

    id := v.Id
    env2 := env
    if env.sb.active {
        id = self.src.FreshOf(v.Id)
        env2 = env.withSubstVar(v.Id, id)
    }

    if v.Mut {
        env2 = env2.bind(id, approx.Top())
    } else {
        env2 = env2.bind(id, rb.Value().WithWitness(id))
    }

    rbody := r.fresh()
    body, rbody := self.simplify(env2, rbody, v.Body)
    used := rbody.isUsed(id)
    rbody = rbody.exitScope(id)
    a := rbody.Value()

    switch {
        case used:
            out := &clir.Let { Tag: v.Tag, Mut: v.Mut, Id: id, Bound: bound, Body: body }
            return out, r.merge(rb).merge(rbody).ret(a)
        case clir.EffectFree(bound):
            return body, r.merge(rbody).ret(a)
        default:
            out := &clir.Seq { Tag: v.Tag, First: bound, Second: body }
            return out, r.merge(rb).merge(rbody).ret(a)
    }
}

func (self *Simplifier) simplifyLetRec(env Env, r Result, v *clir.LetRec) (clir.Expr, Result) {
    nb := len(v.Binds)
    ids := make([]clir.Var, nb)
    env2 := env

    /* rename the whole group first, the bindings are mutually visible */
    for i, b := range v.Binds {
        if env.sb.active {
            ids[i] = self.src.FreshOf(b.Id)
            env2 = env2.withSubstVar(b.Id, ids[i])
        } else {
            ids[i] = b.Id
        }
    }
    for _, id := range ids {
        env2 = env2.bind(id, approx.Top())
    }

    bounds := make([]clir.Expr, nb)
    rbs := make([]Result, nb)
    for i, b := range v.Binds {
        bounds[i], rbs[i] = self.simplify(env2, r.fresh(), b.Bound)
    }

    body, rbody := self.simplify(env2, r.fresh(), v.Body)
    a := rbody.Value()

    /* a binding stays when the body needs it, a kept sibling needs it, or
     * dropping its initializer would lose an effect */
    keep := make([]bool, nb)
    for i := range keep {
        keep[i] = rbody.isUsed(ids[i]) || !clir.EffectFree(bounds[i])
    }
    for changed := true; changed; {
        changed = false
        for i := 0; i < nb; i++ {
            if keep[i] {
                continue
            }
            for j := 0; j < nb; j++ {
                if keep[j] && rbs[j].isUsed(ids[i]) {
                    keep[i] = true
                    changed = true
                    break
                }
            }
        }
    }

    r = r.merge(rbody)
    binds := make([]clir.Bind, 0, nb)
    for i := range keep {
        if keep[i] {
            binds = append(binds, clir.Bind { Id: ids[i], Bound: bounds[i] })
            r = r.merge(rbs[i])
        }
    }
    r = r.exitScope(ids...)

    if len(binds) == 0 {
        return body, r.ret(a)
    }
    return &clir.LetRec { Tag: v.Tag, Binds: binds, Body: body }, r.ret(a)
}

func (self *Simplifier) simplifyIf(env Env, r Result, v *clir.If) (clir.Expr, Result) {
    rc := r.fresh()
    cond, rc := self.simplify(env, rc, v.Cond)

    if truth, known := rc.Value().Truth(); known {
        arm := v.Then
        if !truth {
            arm = v.Else
        }
        return self.chosenArm(env, r, rc, cond, arm)
    }

    r = r.merge(rc)
    then, r := self.simplify(env, r, v.Then)
    els, r := self.simplify(env, r, v.Else)
    return &clir.If { Tag: v.Tag, Cond: cond, Then: then, Else: els }, r.ret(approx.Top())
}

// chosenArm emits a statically selected branch, keeping the scrutinee in
// front of it when its effect cannot be discarded.
func (self *Simplifier) chosenArm(env Env, r Result, rs Result, scrutinee clir.Expr, arm clir.Expr) (clir.Expr, Result) {
    if arm == nil {
        arm = &clir.Unreachable { Tag: clir.NewTag() }
    }

    body, rb := self.simplify(env, r.fresh(), arm)
    if clir.EffectFree(scrutinee) {
        return body, r.merge(rb).ret(rb.Value())
    }
    out := &clir.Seq { Tag: clir.NewTag(), First: scrutinee, Second: body }
    return out, r.merge(rs).merge(rb).ret(rb.Value())
}

func (self *Simplifier) simplifySwitch(env Env, r Result, v *clir.Switch) (clir.Expr, Result) {
    rs := r.fresh()
    arg, rs := self.simplify(env, rs, v.Arg)
    a := rs.Value()

    if blk, ok := a.Desc.(*approx.Block); ok {
        return self.chosenArm(env, r, rs, arg, blockArm(v, blk.BTag))
    }
    if n, ok := immediate(a); ok {
        return self.chosenArm(env, r, rs, arg, intArm(v, n))
    }

    /* scrutinee unknown, every arm stays */
    r = r.merge(rs)
    out := &clir.Switch {
        Tag    : v.Tag,
        Arg    : arg,
        Ints   : make([]clir.IntCase, len(v.Ints)),
        Blocks : make([]clir.BlockCase, len(v.Blocks)),
    }
    for i, c := range v.Ints {
        out.Ints[i].Key = c.Key
        out.Ints[i].Body, r = self.simplify(env, r, c.Body)
    }
    for i, c := range v.Blocks {
        out.Blocks[i].Key = c.Key
        out.Blocks[i].Body, r = self.simplify(env, r, c.Body)
    }
    if v.Default != nil {
        out.Default, r = self.simplify(env, r, v.Default)
    }
    return out, r.ret(approx.Top())
}

func intArm(v *clir.Switch, n int64) clir.Expr {
    for _, c := range v.Ints {
        if c.Key == n {
            return c.Body
        }
    }
    return v.Default
}

func blockArm(v *clir.Switch, tag int) clir.Expr {
    for _, c := range v.Blocks {
        if c.Key == tag {
            return c.Body
        }
    }
    return v.Default
}

func (self *Simplifier) simplifyStrSwitch(env Env, r Result, v *clir.StrSwitch) (clir.Expr, Result) {
    rs := r.fresh()
    arg, rs := self.simplify(env, rs, v.Arg)

    /* the lattice carries no string values, selection needs a literal */
    if c, ok := arg.(*clir.Const); ok {
        if s, ok := c.Lit.(clir.StrLit); ok {
            return self.chosenArm(env, r, rs, arg, strArm(v, string(s)))
        }
    }

    r = r.merge(rs)
    out := &clir.StrSwitch {
        Tag   : v.Tag,
        Arg   : arg,
        Cases : make([]clir.StrCase, len(v.Cases)),
    }
    for i, c := range v.Cases {
        out.Cases[i].Key = c.Key
        out.Cases[i].Body, r = self.simplify(env, r, c.Body)
    }
    if v.Default != nil {
        out.Default, r = self.simplify(env, r, v.Default)
    }
    return out, r.ret(approx.Top())
}

func strArm(v *clir.StrSwitch, key string) clir.Expr {
    for _, c := range v.Cases {
        if c.Key == key {
            return c.Body
        }
    }
    return v.Default
}

func (self *Simplifier) simplifySeq(env Env, r Result, v *clir.Seq) (clir.Expr, Result) {
    rf := r.fresh()
    first, rf := self.simplify(env, rf, v.First)
    second, r := self.simplify(env, r, v.Second)
    a := r.Value()

    if clir.EffectFree(first) {
        return second, r.ret(a)
    }
    return &clir.Seq { Tag: v.Tag, First: first, Second: second }, r.merge(rf).ret(a)
}

func (self *Simplifier) simplifyWhile(env Env, r Result, v *clir.While) (clir.Expr, Result) {
    cond, r := self.simplify(env, r, v.Cond)
    body, r := self.simplify(env, r, v.Body)
    return &clir.While { Tag: v.Tag, Cond: cond, Body: body }, r.ret(approx.Top())
}

func (self *Simplifier) simplifyFor(env Env, r Result, v *clir.For) (clir.Expr, Result) {
    lo, r := self.simplify(env, r, v.Lo)
    hi, r := self.simplify(env, r, v.Hi)

    id := v.Id
    env2 := env
    if env.sb.active {
        id = self.src.FreshOf(v.Id)
        env2 = env.withSubstVar(v.Id, id)
    }
    env2 = env2.bind(id, approx.Top())

    body, r := self.simplify(env2, r, v.Body)
    r = r.exitScope(id)

    out := &clir.For { Tag: v.Tag, Id: id, Lo: lo, Hi: hi, Dir: v.Dir, Body: body }
    return out, r.ret(approx.Top())
}

func (self *Simplifier) simplifyAssign(env Env, r Result, v *clir.Assign) (clir.Expr, Result) {
    id := env.sb.resolveVar(v.Id)
    value, r := self.simplify(env, r, v.Value)

    out := &clir.Assign { Tag: v.Tag, Id: id, Value: value }
    return out, r.use(id).ret(approx.Top())
}

func (self *Simplifier) simplifyRaise(env Env, r Result, v *clir.StaticRaise) (clir.Expr, Result) {
    label := env.sb.resolveLabel(v.Label)

    out := &clir.StaticRaise { Tag: v.Tag, Label: label, Args: make([]clir.Expr, len(v.Args)) }
    for i, arg := range v.Args {
        out.Args[i], r = self.simplify(env, r, arg)
    }
    return out, r.useLabel(label).ret(approx.None())
}

func (self *Simplifier) simplifyCatch(env Env, r Result, v *clir.StaticCatch) (clir.Expr, Result) {
    label := v.Label
    env2 := env
    if env.sb.active {
        label = self.src.FreshLabel()
        env2 = env.withSubstLabel(v.Label, label)
    }

    body, rb := self.simplify(env2, r.fresh(), v.Body)

    /* the handler is dead when the body can no longer reach the label */
    if !rb.labelUsed(label) {
        return body, r.merge(rb).ret(rb.Value())
    }
    rb = rb.exitLabel(label)

    ids := make([]clir.Var, len(v.Ids))
    env3 := env2
    for i, id := range v.Ids {
        ids[i] = id
        if env.sb.active {
            ids[i] = self.src.FreshOf(id)
            env3 = env3.withSubstVar(id, ids[i])
        }
        env3 = env3.bind(ids[i], approx.Top())
    }

    handler, rh := self.simplify(env3, r.fresh(), v.Handler)
    rh = rh.exitScope(ids...)

    out := &clir.StaticCatch { Tag: v.Tag, Label: label, Ids: ids, Body: body, Handler: handler }
    return out, r.merge(rb).merge(rh).ret(approx.Top())
}

func (self *Simplifier) simplifyTry(env Env, r Result, v *clir.TryWith) (clir.Expr, Result) {
    body, r := self.simplify(env, r, v.Body)

    id := v.Id
    env2 := env
    if env.sb.active {
        id = self.src.FreshOf(v.Id)
        env2 = env.withSubstVar(v.Id, id)
    }
    env2 = env2.bind(id, approx.Top())

    handler, r := self.simplify(env2, r, v.Handler)
    r = r.exitScope(id)

    out := &clir.TryWith { Tag: v.Tag, Body: body, Id: id, Handler: handler }
    return out, r.ret(approx.Top())
}

func (self *Simplifier) simplifySend(env Env, r Result, v *clir.Send) (clir.Expr, Result) {
    meth, r := self.simplify(env, r, v.Meth)
    obj, r := self.simplify(env, r, v.Obj)

    out := &clir.Send { Tag: v.Tag, Meth: meth, Obj: obj, Args: make([]clir.Expr, len(v.Args)), DInfo: v.DInfo }
    for i, arg := range v.Args {
        out.Args[i], r = self.simplify(env, r, arg)
    }
    return out, r.ret(approx.Top())
}
