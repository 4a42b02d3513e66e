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

import (
    `fmt`
    `strings`
)

func joinExprs(es []Expr) string {
    ss := make([]string, 0, len(es))
    for _, e := range es {
        ss = append(ss, e.String())
    }
    return strings.Join(ss, " ")
}

func (self *VarRef) String() string {
    return self.Id.String()
}

func (self *SymRef) String() string {
    return "$" + string(self.Sym)
}

func (self *Const) String() string {
    return self.Lit.String()
}

func (self *Let) String() string {
    kw := "let"
    if self.Mut {
        kw = "let mut"
    }
    return fmt.Sprintf("(%s %s = %s in %s)", kw, self.Id, self.Bound, self.Body)
}

func (self *LetRec) String() string {
    ss := make([]string, 0, len(self.Binds))
    for _, b := range self.Binds {
        ss = append(ss, fmt.Sprintf("%s = %s", b.Id, b.Bound))
    }
    return fmt.Sprintf("(letrec %s in %s)", strings.Join(ss, " and "), self.Body)
}

func (self *Prim) String() string {
    if len(self.Args) == 0 {
        return fmt.Sprintf("(%s)", self.Op)
    }
    return fmt.Sprintf("(%s %s)", self.Op, joinExprs(self.Args))
}

func (self *Apply) String() string {
    return fmt.Sprintf("(apply<%s> %s %s)", self.Kind, self.Fn, joinExprs(self.Args))
}

func (self *MakeClosure) String() string {
    fns := make([]string, 0, len(self.Spec.Order))
    for _, fn := range self.Spec.Order {
        fd := self.Spec.Funs[fn]
        stub := ""
        if fd.IsStub {
            stub = " stub"
        }
        ps := make([]string, 0, len(fd.Params))
        for _, p := range fd.Params {
            ps = append(ps, p.String())
        }
        fns = append(fns, fmt.Sprintf("%s%s(%s) = %s", fn, stub, strings.Join(ps, " "), fd.Body))
    }
    return fmt.Sprintf("(closure %s)", strings.Join(fns, "; "))
}

func (self *SelectFun) String() string {
    if self.Relative != nil {
        return fmt.Sprintf("(selfun %s->%s %s)", *self.Relative, self.Fun, self.Closure)
    }
    return fmt.Sprintf("(selfun %s %s)", self.Fun, self.Closure)
}

func (self *SelectVar) String() string {
    return fmt.Sprintf("(selvar %s.%s %s)", self.Fun, self.Field, self.Closure)
}

func (self *If) String() string {
    return fmt.Sprintf("(if %s then %s else %s)", self.Cond, self.Then, self.Else)
}

func (self *Switch) String() string {
    arms := make([]string, 0, len(self.Ints) + len(self.Blocks) + 1)
    for _, c := range self.Ints {
        arms = append(arms, fmt.Sprintf("int %d: %s", c.Key, c.Body))
    }
    for _, c := range self.Blocks {
        arms = append(arms, fmt.Sprintf("tag %d: %s", c.Key, c.Body))
    }
    if self.Default != nil {
        arms = append(arms, "default: " + self.Default.String())
    }
    return fmt.Sprintf("(switch %s | %s)", self.Arg, strings.Join(arms, " | "))
}

func (self *StrSwitch) String() string {
    arms := make([]string, 0, len(self.Cases) + 1)
    for _, c := range self.Cases {
        arms = append(arms, fmt.Sprintf("%q: %s", c.Key, c.Body))
    }
    if self.Default != nil {
        arms = append(arms, "default: " + self.Default.String())
    }
    return fmt.Sprintf("(strswitch %s | %s)", self.Arg, strings.Join(arms, " | "))
}

func (self *Seq) String() string {
    return fmt.Sprintf("(seq %s %s)", self.First, self.Second)
}

func (self *While) String() string {
    return fmt.Sprintf("(while %s do %s)", self.Cond, self.Body)
}

func (self *For) String() string {
    dir := "to"
    if self.Dir == DownTo {
        dir = "downto"
    }
    return fmt.Sprintf("(for %s = %s %s %s do %s)", self.Id, self.Lo, dir, self.Hi, self.Body)
}

func (self *Assign) String() string {
    return fmt.Sprintf("(assign %s %s)", self.Id, self.Value)
}

func (self *StaticRaise) String() string {
    if len(self.Args) == 0 {
        return fmt.Sprintf("(exit %d)", self.Label)
    }
    return fmt.Sprintf("(exit %d %s)", self.Label, joinExprs(self.Args))
}

func (self *StaticCatch) String() string {
    ids := make([]string, 0, len(self.Ids))
    for _, id := range self.Ids {
        ids = append(ids, id.String())
    }
    return fmt.Sprintf("(catch %s with %d(%s) %s)", self.Body, self.Label, strings.Join(ids, " "), self.Handler)
}

func (self *TryWith) String() string {
    return fmt.Sprintf("(try %s with %s -> %s)", self.Body, self.Id, self.Handler)
}

func (self *Send) String() string {
    return fmt.Sprintf("(send %s %s %s)", self.Meth, self.Obj, joinExprs(self.Args))
}

func (self *Unreachable) String() string {
    return "(unreachable)"
}
