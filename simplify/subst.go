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
    `github.com/karstlang/sift/clir`
)

// _Subst tracks the renamings in effect while code is being duplicated.
// Every forward table keeps a reverse index so that renaming a name that is
// already the target of earlier chains rebinds all of its dependents in the
// same step: after a->b, renaming b->c must leave both a and b resolving
// to c, however many generations of duplication are stacked.
type _Subst struct {
    active    bool
    vars      map[clir.Var]clir.Var
    varsrev   map[clir.Var][]clir.Var
    syms      map[clir.Symbol]clir.Var
    symsrev   map[clir.Var][]clir.Symbol
    labels    map[clir.Label]clir.Label
    labelsrev map[clir.Label][]clir.Label
    funs      map[clir.FunID]clir.FunID
    funsrev   map[clir.FunID][]clir.FunID
    fields    map[clir.Field]clir.Field
    fieldsrev map[clir.Field][]clir.Field
}

func newSubst() *_Subst {
    return &_Subst {
        vars      : map[clir.Var]clir.Var{},
        varsrev   : map[clir.Var][]clir.Var{},
        syms      : map[clir.Symbol]clir.Var{},
        symsrev   : map[clir.Var][]clir.Symbol{},
        labels    : map[clir.Label]clir.Label{},
        labelsrev : map[clir.Label][]clir.Label{},
        funs      : map[clir.FunID]clir.FunID{},
        funsrev   : map[clir.FunID][]clir.FunID{},
        fields    : map[clir.Field]clir.Field{},
        fieldsrev : map[clir.Field][]clir.Field{},
    }
}

func (self *_Subst) clone() *_Subst {
    ret := newSubst()
    ret.active = self.active
    for k, v := range self.vars      { ret.vars[k] = v }
    for k, v := range self.varsrev   { ret.varsrev[k] = append([]clir.Var(nil), v...) }
    for k, v := range self.syms      { ret.syms[k] = v }
    for k, v := range self.symsrev   { ret.symsrev[k] = append([]clir.Symbol(nil), v...) }
    for k, v := range self.labels    { ret.labels[k] = v }
    for k, v := range self.labelsrev { ret.labelsrev[k] = append([]clir.Label(nil), v...) }
    for k, v := range self.funs      { ret.funs[k] = v }
    for k, v := range self.funsrev   { ret.funsrev[k] = append([]clir.FunID(nil), v...) }
    for k, v := range self.fields    { ret.fields[k] = v }
    for k, v := range self.fieldsrev { ret.fieldsrev[k] = append([]clir.Field(nil), v...) }
    return ret
}

func (self *_Subst) activated() *_Subst {
    ret := self.clone()
    ret.active = true
    return ret
}

func (self *_Subst) resolveVar(v clir.Var) clir.Var {
    if to, ok := self.vars[v]; ok {
        return to
    }
    return v
}

func (self *_Subst) resolveSym(sym clir.Symbol) (clir.Var, bool) {
    v, ok := self.syms[sym]
    return v, ok
}

func (self *_Subst) resolveLabel(l clir.Label) clir.Label {
    if to, ok := self.labels[l]; ok {
        return to
    }
    return l
}

func (self *_Subst) resolveFun(fn clir.FunID) clir.FunID {
    if to, ok := self.funs[fn]; ok {
        return to
    }
    return fn
}

func (self *_Subst) resolveField(fv clir.Field) clir.Field {
    if to, ok := self.fields[fv]; ok {
        return to
    }
    return fv
}

// addVar installs the renaming from -> to, chaining every dependent of
// from (variables and symbols currently resolving to it) onto to.
func (self *_Subst) addVar(from clir.Var, to clir.Var) {
    for _, dep := range self.varsrev[from] {
        self.vars[dep] = to
        self.varsrev[to] = append(self.varsrev[to], dep)
    }
    for _, sym := range self.symsrev[from] {
        self.syms[sym] = to
        self.symsrev[to] = append(self.symsrev[to], sym)
    }
    delete(self.varsrev, from)
    delete(self.symsrev, from)
    self.vars[from] = to
    self.varsrev[to] = append(self.varsrev[to], from)
}

func (self *_Subst) addSym(sym clir.Symbol, to clir.Var) {
    self.syms[sym] = to
    self.symsrev[to] = append(self.symsrev[to], sym)
}

func (self *_Subst) addLabel(from clir.Label, to clir.Label) {
    for _, dep := range self.labelsrev[from] {
        self.labels[dep] = to
        self.labelsrev[to] = append(self.labelsrev[to], dep)
    }
    delete(self.labelsrev, from)
    self.labels[from] = to
    self.labelsrev[to] = append(self.labelsrev[to], from)
}

func (self *_Subst) addFun(from clir.FunID, to clir.FunID) {
    for _, dep := range self.funsrev[from] {
        self.funs[dep] = to
        self.funsrev[to] = append(self.funsrev[to], dep)
    }
    delete(self.funsrev, from)
    self.funs[from] = to
    self.funsrev[to] = append(self.funsrev[to], from)
}

func (self *_Subst) addField(from clir.Field, to clir.Field) {
    for _, dep := range self.fieldsrev[from] {
        self.fields[dep] = to
        self.fieldsrev[to] = append(self.fieldsrev[to], dep)
    }
    delete(self.fieldsrev, from)
    self.fields[from] = to
    self.fieldsrev[to] = append(self.fieldsrev[to], from)
}
