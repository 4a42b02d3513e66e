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
    `strconv`
)

// Literal is a compile-time constant.
type Literal interface {
    fmt.Stringer
    literal()
}

func (IntLit)    literal() {}
func (PtrLit)    literal() {}
func (FloatLit)  literal() {}
func (StrLit)    literal() {}
func (*BlockLit) literal() {}

// IntLit is an immediate integer.
type IntLit int64

// PtrLit is a tagged nullary constructor, an immediate pointer-like value.
type PtrLit int64

// FloatLit is a floating-point constant.
type FloatLit float64

// StrLit is a string constant. Strings are mutable at runtime, so a StrLit
// never yields a foldable approximation.
type StrLit string

// BlockLit is a structured constant with a tag and constant fields.
type BlockLit struct {
    BTag   int
    Mut    bool
    Fields []Literal
}

func (self IntLit) String() string {
    return strconv.FormatInt(int64(self), 10)
}

func (self PtrLit) String() string {
    return fmt.Sprintf("%da", int64(self))
}

func (self FloatLit) String() string {
    return strconv.FormatFloat(float64(self), 'g', -1, 64)
}

func (self StrLit) String() string {
    return strconv.Quote(string(self))
}

func (self *BlockLit) String() string {
    ret := fmt.Sprintf("[%d:", self.BTag)
    for _, f := range self.Fields {
        ret += " " + f.String()
    }
    return ret + "]"
}

// MakeInt wraps an immediate integer into a Const node.
func MakeInt(v int64) *Const {
    return &Const {
        Tag: NewTag(),
        Lit: IntLit(v),
    }
}

// MakePtr wraps a tagged nullary constructor into a Const node.
func MakePtr(v int64) *Const {
    return &Const {
        Tag: NewTag(),
        Lit: PtrLit(v),
    }
}

// MakeBool builds the canonical boolean constants, true being 1a.
func MakeBool(v bool) *Const {
    if v {
        return MakePtr(1)
    } else {
        return MakePtr(0)
    }
}
