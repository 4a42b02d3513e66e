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

// Package cost estimates the abstract code size of an IR subtree under a
// caller-supplied ceiling. The weights approximate generated-code bytes and
// are deliberately coarse; only monotonicity and the ceiling contract
// matter to callers.
package cost

import (
    `github.com/karstlang/sift/clir`

    `github.com/oleiade/lane`
)

const (
    _W_var    = 0
    _W_const  = 1
    _W_prim   = 2
    _W_direct = 4
    _W_send   = 8
    _W_apply  = 6
    _W_select = 2
    _W_branch = 2
    _W_loop   = 4
    _W_raise  = 4
    _W_fundef = 10
)

// Estimate walks the subtree summing per-node weights, giving up as soon
// as the running total exceeds bound. The second result is false when the
// subtree does not fit.
func Estimate(e clir.Expr, bound int) (int, bool) {
    if bound <= 0 {
        return 0, false
    }

    sz := 0
    q := lane.NewQueue()

    /* breadth-first accumulation, abort once over the ceiling */
    for q.Enqueue(e); !q.Empty(); {
        n := q.Dequeue().(clir.Expr)
        sz += weight(n, q)

        if sz > bound {
            return 0, false
        }
    }
    return sz, true
}

func enqueue(q *lane.Queue, es ...clir.Expr) {
    for _, e := range es {
        if e != nil {
            q.Enqueue(e)
        }
    }
}

func weight(e clir.Expr, q *lane.Queue) int {
    switch v := e.(type) {
        case *clir.VarRef      : return _W_var
        case *clir.SymRef      : return _W_const
        case *clir.Const       : return _W_const
        case *clir.Let         : enqueue(q, v.Bound, v.Body)        ; return 0
        case *clir.LetRec      : letrec(q, v)                       ; return 0
        case *clir.Prim        : enqueue(q, v.Args...)              ; return _W_prim
        case *clir.Apply       : return apply(q, v)
        case *clir.MakeClosure : return closure(q, v)
        case *clir.SelectFun   : enqueue(q, v.Closure)              ; return _W_select
        case *clir.SelectVar   : enqueue(q, v.Closure)              ; return _W_select
        case *clir.If          : enqueue(q, v.Cond, v.Then, v.Else) ; return _W_branch
        case *clir.Switch      : return swtch(q, v)
        case *clir.StrSwitch   : return strswtch(q, v)
        case *clir.Seq         : enqueue(q, v.First, v.Second)      ; return 0
        case *clir.While       : enqueue(q, v.Cond, v.Body)         ; return _W_loop
        case *clir.For         : enqueue(q, v.Lo, v.Hi, v.Body)     ; return _W_loop
        case *clir.Assign      : enqueue(q, v.Value)                ; return _W_prim
        case *clir.StaticRaise : enqueue(q, v.Args...)              ; return _W_raise
        case *clir.StaticCatch : enqueue(q, v.Body, v.Handler)      ; return _W_branch
        case *clir.TryWith     : enqueue(q, v.Body, v.Handler)      ; return _W_raise
        case *clir.Send        : enqueue(q, append([]clir.Expr { v.Meth, v.Obj }, v.Args...)...) ; return _W_send
        case *clir.Unreachable : return 0
        default                : return _W_prim
    }
}

func letrec(q *lane.Queue, v *clir.LetRec) {
    for _, b := range v.Binds {
        enqueue(q, b.Bound)
    }
    enqueue(q, v.Body)
}

func apply(q *lane.Queue, v *clir.Apply) int {
    enqueue(q, v.Fn)
    enqueue(q, v.Args...)

    if v.Kind.Direct {
        return _W_direct
    } else {
        return _W_apply
    }
}

func closure(q *lane.Queue, v *clir.MakeClosure) int {
    for _, fn := range v.Spec.Order {
        enqueue(q, v.Spec.Funs[fn].Body)
    }
    for _, init := range v.Spec.Captured {
        enqueue(q, init)
    }
    return _W_fundef * len(v.Spec.Order)
}

func swtch(q *lane.Queue, v *clir.Switch) int {
    enqueue(q, v.Arg)
    for _, c := range v.Ints {
        enqueue(q, c.Body)
    }
    for _, c := range v.Blocks {
        enqueue(q, c.Body)
    }
    enqueue(q, v.Default)
    return _W_branch * (1 + len(v.Ints) + len(v.Blocks))
}

func strswtch(q *lane.Queue, v *clir.StrSwitch) int {
    enqueue(q, v.Arg)
    for _, c := range v.Cases {
        enqueue(q, c.Body)
    }
    enqueue(q, v.Default)
    return _W_branch * (1 + len(v.Cases))
}
