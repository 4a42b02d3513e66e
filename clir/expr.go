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
)

// Var is a stamped local variable. Two variables are the same binding iff
// they compare equal, regardless of their display name.
type Var struct {
    Name  string
    Stamp int32
}

// Symbol names a value exported from some compilation unit.
type Symbol string

// Unit identifies a compilation unit.
type Unit string

// FunID labels one function inside a closure bundle.
type FunID struct {
    Name  string
    Stamp int32
}

// Field labels one captured variable inside a closure bundle.
type Field struct {
    Name  string
    Stamp int32
}

// Label is a static-exception label, the target of StaticRaise.
type Label int32

func (self Var) String() string {
    return fmt.Sprintf("%s/%d", self.Name, self.Stamp)
}

func (self FunID) String() string {
    return fmt.Sprintf("%s#%d", self.Name, self.Stamp)
}

func (self Field) String() string {
    return fmt.Sprintf("%s@%d", self.Name, self.Stamp)
}

// FieldOf derives the captured-variable label that corresponds to an inner
// free variable of a closure bundle.
func FieldOf(v Var) Field {
    return Field {
        Name  : v.Name,
        Stamp : v.Stamp,
    }
}

// DInfo is source-position debug information carried on call-like nodes.
type DInfo struct {
    File string
    Line int
}

func (self DInfo) String() string {
    if self.File == "" {
        return "?"
    } else {
        return fmt.Sprintf("%s:%d", self.File, self.Line)
    }
}

// CallKind tells whether an Apply may jump straight to a known function.
type CallKind struct {
    Direct bool
    Fun    FunID
}

func DirectCall(fn FunID) CallKind { return CallKind { Direct: true, Fun: fn } }
func IndirectCall()       CallKind { return CallKind {} }

func (self CallKind) String() string {
    if self.Direct {
        return "direct:" + self.Fun.String()
    } else {
        return "indirect"
    }
}

// ForDir is the direction of a For loop.
type ForDir uint8

const (
    UpTo ForDir = iota
    DownTo
)

var _nodetag uint64

// NewTag mints a node identity tag. Tags are only ever used to correlate
// diagnostics with nodes, never for equality.
func NewTag() uint64 {
    _nodetag++
    return _nodetag
}

// Expr is a node of the closure IR tree.
type Expr interface {
    fmt.Stringer
    exprnode()
}

func (*VarRef)      exprnode() {}
func (*SymRef)      exprnode() {}
func (*Const)       exprnode() {}
func (*Let)         exprnode() {}
func (*LetRec)      exprnode() {}
func (*Prim)        exprnode() {}
func (*Apply)       exprnode() {}
func (*MakeClosure) exprnode() {}
func (*SelectFun)   exprnode() {}
func (*SelectVar)   exprnode() {}
func (*If)          exprnode() {}
func (*Switch)      exprnode() {}
func (*StrSwitch)   exprnode() {}
func (*Seq)         exprnode() {}
func (*While)       exprnode() {}
func (*For)         exprnode() {}
func (*Assign)      exprnode() {}
func (*StaticRaise) exprnode() {}
func (*StaticCatch) exprnode() {}
func (*TryWith)     exprnode() {}
func (*Send)        exprnode() {}
func (*Unreachable) exprnode() {}

// VarRef reads a local variable.
type VarRef struct {
    Tag uint64
    Id  Var
}

// SymRef reads a value exported by some compilation unit.
type SymRef struct {
    Tag uint64
    Sym Symbol
}

// Const is a literal constant.
type Const struct {
    Tag uint64
    Lit Literal
}

// Let binds Id to Bound inside Body. Mutable binders may be re-assigned
// with Assign and are never value-tracked.
type Let struct {
    Tag   uint64
    Mut   bool
    Id    Var
    Bound Expr
    Body  Expr
}

// Bind is one binding of a LetRec.
type Bind struct {
    Id    Var
    Bound Expr
}

// LetRec binds a group of mutually visible bindings inside Body.
type LetRec struct {
    Tag   uint64
    Binds []Bind
    Body  Expr
}

// Prim applies a primitive operation to argument expressions.
type Prim struct {
    Tag  uint64
    Op   Op
    Args []Expr
}

// Apply calls Fn with Args. A Direct kind names the exact function label
// the call will reach.
type Apply struct {
    Tag   uint64
    Fn    Expr
    Args  []Expr
    Kind  CallKind
    DInfo DInfo
}

// MakeClosure materializes a closure bundle.
type MakeClosure struct {
    Tag  uint64
    Spec *ClosureSpec
}

// SelectFun projects one function out of a closure bundle. When Relative is
// set the projection is an offset from that function instead of from the
// whole bundle.
type SelectFun struct {
    Tag      uint64
    Closure  Expr
    Fun      FunID
    Relative *FunID
}

// SelectVar reads one captured variable of a closure bundle, as seen from
// function Fun.
type SelectVar struct {
    Tag     uint64
    Closure Expr
    Fun     FunID
    Field   Field
}

// If branches on an integer condition, 0 being false.
type If struct {
    Tag  uint64
    Cond Expr
    Then Expr
    Else Expr
}

// IntCase is one immediate-value arm of a Switch.
type IntCase struct {
    Key  int64
    Body Expr
}

// BlockCase is one block-tag arm of a Switch.
type BlockCase struct {
    Key  int
    Body Expr
}

// Switch dispatches on either the immediate value or the block tag of the
// scrutinee. A nil Default with no matching case is unreachable.
type Switch struct {
    Tag     uint64
    Arg     Expr
    Ints    []IntCase
    Blocks  []BlockCase
    Default Expr
}

// StrCase is one arm of a StrSwitch.
type StrCase struct {
    Key  string
    Body Expr
}

// StrSwitch dispatches on a string scrutinee.
type StrSwitch struct {
    Tag     uint64
    Arg     Expr
    Cases   []StrCase
    Default Expr
}

// Seq evaluates First for effect, then Second for its value.
type Seq struct {
    Tag    uint64
    First  Expr
    Second Expr
}

// While evaluates Body as long as Cond is true.
type While struct {
    Tag  uint64
    Cond Expr
    Body Expr
}

// For binds Id over the integer interval [Lo, Hi] in direction Dir.
type For struct {
    Tag  uint64
    Id   Var
    Lo   Expr
    Hi   Expr
    Dir  ForDir
    Body Expr
}

// Assign writes a mutable Let binder.
type Assign struct {
    Tag   uint64
    Id    Var
    Value Expr
}

// StaticRaise transfers control to the StaticCatch handler bound to Label.
type StaticRaise struct {
    Tag   uint64
    Label Label
    Args  []Expr
}

// StaticCatch evaluates Body; a StaticRaise of Label inside it transfers to
// Handler with Ids bound to the raise arguments.
type StaticCatch struct {
    Tag     uint64
    Label   Label
    Ids     []Var
    Body    Expr
    Handler Expr
}

// TryWith evaluates Body under a dynamic exception handler binding Id.
type TryWith struct {
    Tag     uint64
    Body    Expr
    Id      Var
    Handler Expr
}

// Send dispatches method Meth on Obj.
type Send struct {
    Tag   uint64
    Meth  Expr
    Obj   Expr
    Args  []Expr
    DInfo DInfo
}

// Unreachable marks a point control flow can never reach.
type Unreachable struct {
    Tag uint64
}

// FunDecl is one function of a closure bundle. Bodies reach the bundle
// itself through Self, captured values through FreeVars.
type FunDecl struct {
    IsStub   bool
    Self     Var
    Params   []Var
    FreeVars []Var
    Body     Expr
    DInfo    DInfo
    Symbol   Symbol
}

// Arity is the declared parameter count.
func (self *FunDecl) Arity() int {
    return len(self.Params)
}

var _closureid uint64

// NewClosureID mints a bundle identity.
func NewClosureID() uint64 {
    _closureid++
    return _closureid
}

// ClosureSpec describes a closure bundle to be materialized: the function
// declarations, the initializers of the captured variables, and the pinned
// argument bindings installed by recursive specialization.
type ClosureSpec struct {
    ID       uint64
    Unit     Unit
    Order    []FunID
    Funs     map[FunID]*FunDecl
    Captured map[Field]Expr
    SpecArgs map[Var]Var
}

// Decl looks up one declaration of the bundle.
func (self *ClosureSpec) Decl(fn FunID) (*FunDecl, bool) {
    fd, ok := self.Funs[fn]
    return fd, ok
}
