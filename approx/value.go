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

// Package approx implements the static value approximations the simplifier
// computes for every sub-expression. An approximation is a possibly
// imprecise description of the runtime value, ordered from Unknown (no
// information) down to exact constants and closures.
package approx

import (
    `fmt`

    `github.com/karstlang/sift/clir`
)

// Desc is the shape of an approximation.
type Desc interface {
    fmt.Stringer
    approxdesc()
}

func (Unknown)       approxdesc() {}
func (Bottom)        approxdesc() {}
func (Int)           approxdesc() {}
func (ConstPtr)      approxdesc() {}
func (*Block)        approxdesc() {}
func (Symbol)        approxdesc() {}
func (Closure)       approxdesc() {}
func (SetOfClosures) approxdesc() {}

// Unknown carries no information.
type Unknown struct{}

// Bottom marks an expression that never produces a value.
type Bottom struct{}

// Int is an exactly known immediate integer.
type Int int64

// ConstPtr is an exactly known tagged nullary constructor.
type ConstPtr int64

// Block is an immutable block with a known tag and per-field
// approximations.
type Block struct {
    BTag   int
    Fields []Value
}

// Symbol is a value known to be the one exported under a symbol.
type Symbol clir.Symbol

// Closure is a closure bundle already projected to one of its functions.
type Closure struct {
    Fun clir.FunID
    Set *ClosureValue
}

// SetOfClosures is a whole, unprojected closure bundle.
type SetOfClosures struct {
    Set *ClosureValue
}

func (self Unknown)  String() string { return "?" }
func (self Bottom)   String() string { return "_|_" }
func (self Int)      String() string { return fmt.Sprintf("int %d", int64(self)) }
func (self ConstPtr) String() string { return fmt.Sprintf("ptr %d", int64(self)) }
func (self Symbol)   String() string { return "sym " + string(self) }

func (self *Block) String() string {
    return fmt.Sprintf("block[%d]/%d", self.BTag, len(self.Fields))
}

func (self Closure) String() string {
    return fmt.Sprintf("closure %s", self.Fun)
}

func (self SetOfClosures) String() string {
    return fmt.Sprintf("closures/%d", len(self.Set.Order))
}

// Value is an approximation with an optional witness variable: a variable
// currently known to hold exactly this value, usable as a cheap replacement
// for recomputing it. A witness must only be consulted while its binder is
// still in scope.
type Value struct {
    Desc    Desc
    Witness *clir.Var
}

// Top is the no-information approximation.
func Top() Value {
    return Value { Desc: Unknown{} }
}

// None is the unreachable approximation.
func None() Value {
    return Value { Desc: Bottom{} }
}

// OfInt approximates an exactly known integer.
func OfInt(v int64) Value {
    return Value { Desc: Int(v) }
}

// OfConstPtr approximates an exactly known nullary constructor.
func OfConstPtr(v int64) Value {
    return Value { Desc: ConstPtr(v) }
}

// OfBool approximates a boolean result, true being constructor 1.
func OfBool(v bool) Value {
    if v {
        return OfConstPtr(1)
    } else {
        return OfConstPtr(0)
    }
}

// OfSymbol approximates the value exported under sym.
func OfSymbol(sym clir.Symbol) Value {
    return Value { Desc: Symbol(sym) }
}

// OfBlock approximates an immutable block.
func OfBlock(tag int, fields []Value) Value {
    return Value { Desc: &Block { BTag: tag, Fields: fields } }
}

// WithWitness records v as a variable currently holding this exact value.
func (self Value) WithWitness(v clir.Var) Value {
    w := v
    self.Witness = &w
    return self
}

// Known reports whether the approximation carries any information.
func (self Value) Known() bool {
    switch self.Desc.(type) {
        case nil     : return false
        case Unknown : return false
        default      : return true
    }
}

// Truth resolves the approximation to a branch condition if it statically
// determines one.
func (self Value) Truth() (bool, bool) {
    switch v := self.Desc.(type) {
        case Int      : return v != 0, true
        case ConstPtr : return v != 0, true
        case *Block   : return true, true
        default       : return false, false
    }
}

func (self Value) String() string {
    if self.Witness != nil {
        return fmt.Sprintf("%s (= %s)", self.Desc, *self.Witness)
    }
    return self.Desc.String()
}

// Field projects the i-th field of a known immutable block, Unknown
// otherwise.
func Field(i int, v Value) Value {
    if b, ok := v.Desc.(*Block); ok && i >= 0 && i < len(b.Fields) {
        return b.Fields[i]
    }
    return Top()
}
