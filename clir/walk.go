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

package clir

// Walk visits every node of the tree in preorder, descending into closure
// bodies and captured initializers.
func Walk(e Expr, visit func(Expr)) {
    if e == nil {
        return
    }
    visit(e)

    switch v := e.(type) {
        case *Let:
            Walk(v.Bound, visit)
            Walk(v.Body, visit)
        case *LetRec:
            for _, b := range v.Binds {
                Walk(b.Bound, visit)
            }
            Walk(v.Body, visit)
        case *Prim:
            walkAll(v.Args, visit)
        case *Apply:
            Walk(v.Fn, visit)
            walkAll(v.Args, visit)
        case *MakeClosure:
            for _, fn := range v.Spec.Order {
                Walk(v.Spec.Funs[fn].Body, visit)
            }
            for _, init := range v.Spec.Captured {
                Walk(init, visit)
            }
        case *SelectFun:
            Walk(v.Closure, visit)
        case *SelectVar:
            Walk(v.Closure, visit)
        case *If:
            Walk(v.Cond, visit)
            Walk(v.Then, visit)
            Walk(v.Else, visit)
        case *Switch:
            Walk(v.Arg, visit)
            for _, c := range v.Ints {
                Walk(c.Body, visit)
            }
            for _, c := range v.Blocks {
                Walk(c.Body, visit)
            }
            Walk(v.Default, visit)
        case *StrSwitch:
            Walk(v.Arg, visit)
            for _, c := range v.Cases {
                Walk(c.Body, visit)
            }
            Walk(v.Default, visit)
        case *Seq:
            Walk(v.First, visit)
            Walk(v.Second, visit)
        case *While:
            Walk(v.Cond, visit)
            Walk(v.Body, visit)
        case *For:
            Walk(v.Lo, visit)
            Walk(v.Hi, visit)
            Walk(v.Body, visit)
        case *Assign:
            Walk(v.Value, visit)
        case *StaticRaise:
            walkAll(v.Args, visit)
        case *StaticCatch:
            Walk(v.Body, visit)
            Walk(v.Handler, visit)
        case *TryWith:
            Walk(v.Body, visit)
            Walk(v.Handler, visit)
        case *Send:
            Walk(v.Meth, visit)
            Walk(v.Obj, visit)
            walkAll(v.Args, visit)
    }
}

func walkAll(es []Expr, visit func(Expr)) {
    for _, e := range es {
        Walk(e, visit)
    }
}
