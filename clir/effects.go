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

// EffectFree reports whether discarding the expression without evaluating
// it is unobservable. It is structural and conservative: anything that may
// mutate state, perform I/O, raise, or read a mutable location counts as an
// effect.
func EffectFree(e Expr) bool {
    switch v := e.(type) {
        case *VarRef      : return true
        case *SymRef      : return true
        case *Const       : return true
        case *Let         : return EffectFree(v.Bound) && EffectFree(v.Body)
        case *LetRec      : return letrecEffectFree(v)
        case *Prim        : return primEffectFree(v)
        case *Apply       : return false
        case *MakeClosure : return closureEffectFree(v.Spec)
        case *SelectFun   : return EffectFree(v.Closure)
        case *SelectVar   : return EffectFree(v.Closure)
        case *If          : return EffectFree(v.Cond) && EffectFree(v.Then) && EffectFree(v.Else)
        case *Switch      : return switchEffectFree(v)
        case *StrSwitch   : return strswitchEffectFree(v)
        case *Seq         : return EffectFree(v.First) && EffectFree(v.Second)
        case *While       : return false
        case *For         : return false
        case *Assign      : return false
        case *StaticRaise : return false
        case *StaticCatch : return EffectFree(v.Body)
        case *TryWith     : return EffectFree(v.Body)
        case *Send        : return false
        case *Unreachable : return true
        default           : return false
    }
}

func letrecEffectFree(e *LetRec) bool {
    for _, b := range e.Binds {
        if !EffectFree(b.Bound) {
            return false
        }
    }
    return EffectFree(e.Body)
}

func primEffectFree(e *Prim) bool {
    if e.Op.HasEffect() && !safeDivision(e) {
        return false
    }
    for _, a := range e.Args {
        if !EffectFree(a) {
            return false
        }
    }
    return true
}

// safeDivision recognizes a division or modulo whose divisor is a non-zero
// literal, which can no longer raise.
func safeDivision(e *Prim) bool {
    if e.Op.Kind != OpDiv && e.Op.Kind != OpMod {
        return false
    }
    if len(e.Args) != 2 {
        return false
    }
    c, ok := e.Args[1].(*Const)
    if !ok {
        return false
    }
    switch n := c.Lit.(type) {
        case IntLit : return n != 0
        default     : return false
    }
}

func closureEffectFree(spec *ClosureSpec) bool {
    for _, init := range spec.Captured {
        if !EffectFree(init) {
            return false
        }
    }
    return true
}

func switchEffectFree(e *Switch) bool {
    if !EffectFree(e.Arg) {
        return false
    }
    for _, c := range e.Ints {
        if !EffectFree(c.Body) {
            return false
        }
    }
    for _, c := range e.Blocks {
        if !EffectFree(c.Body) {
            return false
        }
    }
    return e.Default == nil || EffectFree(e.Default)
}

func strswitchEffectFree(e *StrSwitch) bool {
    if !EffectFree(e.Arg) {
        return false
    }
    for _, c := range e.Cases {
        if !EffectFree(c.Body) {
            return false
        }
    }
    return e.Default == nil || EffectFree(e.Default)
}
