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

func (self *Simplifier) simplifyPrim(env Env, r Result, v *clir.Prim) (clir.Expr, Result) {
    switch v.Op.Kind {
        case clir.OpGetGlobal : return self.getGlobal(env, r, v)
        case clir.OpSetGlobal : return self.setGlobal(env, r, v)
        case clir.OpSetField  : return self.setField(env, r, v)
        case clir.OpField     : return self.getField(env, r, v)
        case clir.OpMakeBlock : return self.makeBlock(env, r, v)
        default               : return self.genericPrim(env, r, v)
    }
}

// getGlobal reads a slot of the whole-unit global table. Globals are
// bottom-up facts carried in the result, not top-down bindings, so the
// lookup goes through the result's table.
func (self *Simplifier) getGlobal(env Env, r Result, v *clir.Prim) (clir.Expr, Result) {
    return self.reduce(env, r, r.fresh(), v, r.global(v.Op.Index))
}

func (self *Simplifier) setGlobal(env Env, r Result, v *clir.Prim) (clir.Expr, Result) {
    out := &clir.Prim { Tag: v.Tag, Op: v.Op, Args: make([]clir.Expr, len(v.Args)) }
    a := approx.Top()
    for i, arg := range v.Args {
        out.Args[i], r = self.simplify(env, r, arg)
        a = r.Value()
    }
    return out, r.setGlobal(v.Op.Index, a).ret(approx.Top())
}

// setField writes a mutable block field. Writing into a value the lattice
// proves immutable means the producing stage handed us a malformed tree.
func (self *Simplifier) setField(env Env, r Result, v *clir.Prim) (clir.Expr, Result) {
    out := &clir.Prim { Tag: v.Tag, Op: v.Op, Args: make([]clir.Expr, len(v.Args)) }

    var target approx.Value
    for i, arg := range v.Args {
        out.Args[i], r = self.simplify(env, r, arg)
        if i == 0 {
            target = r.Value()
        }
    }

    if _, ok := target.Desc.(*approx.Block); ok {
        fatalAt(out, "write into an immutable block (field %d)", v.Op.Index)
    }
    return out, r.ret(approx.Top())
}

func (self *Simplifier) getField(env Env, r Result, v *clir.Prim) (clir.Expr, Result) {
    rs := r.fresh()
    out := &clir.Prim { Tag: v.Tag, Op: v.Op, Args: make([]clir.Expr, len(v.Args)) }

    a := approx.Top()
    for i, arg := range v.Args {
        out.Args[i], rs = self.simplify(env, rs, arg)
        if i == 0 {
            a = approx.Field(v.Op.Index, self.importApprox(rs.Value()))
        }
    }
    return self.reduce(env, r, rs, out, a)
}

func (self *Simplifier) makeBlock(env Env, r Result, v *clir.Prim) (clir.Expr, Result) {
    rs := r.fresh()
    out := &clir.Prim { Tag: v.Tag, Op: v.Op, Args: make([]clir.Expr, len(v.Args)) }

    fields := make([]approx.Value, len(v.Args))
    for i, arg := range v.Args {
        out.Args[i], rs = self.simplify(env, rs, arg)
        fields[i] = rs.Value()
    }

    if v.Op.Mut {
        return out, r.merge(rs).ret(approx.Top())
    }

    /* an immutable block of literals is itself a structured constant */
    if lits, ok := constFields(out.Args); ok {
        lit := &clir.BlockLit { BTag: v.Op.Index, Fields: lits }
        return &clir.Const { Tag: clir.NewTag(), Lit: lit }, r.merge(rs).ret(approxBlockLit(lit))
    }
    return out, r.merge(rs).ret(approx.OfBlock(v.Op.Index, fields))
}

func constFields(args []clir.Expr) ([]clir.Literal, bool) {
    lits := make([]clir.Literal, len(args))
    for i, arg := range args {
        c, ok := arg.(*clir.Const)
        if !ok {
            return nil, false
        }
        lits[i] = c.Lit
    }
    return lits, true
}

func (self *Simplifier) genericPrim(env Env, r Result, v *clir.Prim) (clir.Expr, Result) {
    rs := r.fresh()
    out := &clir.Prim { Tag: v.Tag, Op: v.Op, Args: make([]clir.Expr, len(v.Args)) }

    as := make([]approx.Value, len(v.Args))
    for i, arg := range v.Args {
        out.Args[i], rs = self.simplify(env, rs, arg)
        as[i] = rs.Value()
    }

    if v.Op.Kind == clir.OpRaise {
        return out, r.merge(rs).ret(approx.None())
    }

    a := approx.Top()
    if v.Op.Foldable() {
        if va, ok := foldPrim(v.Op, as); ok {
            a = va
        }
    }
    return self.reduce(env, r, rs, out, a)
}
