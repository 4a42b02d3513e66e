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

// OpKind enumerates the primitive operations.
type OpKind uint8

const (
    OpAdd OpKind = iota
    OpSub
    OpMul
    OpDiv
    OpMod
    OpAnd
    OpOr
    OpXor
    OpLsl
    OpLsr
    OpAsr
    OpNeg
    OpNot
    OpSwap16
    OpSwap32
    OpSwap64
    OpCmpEq
    OpCmpNe
    OpCmpLt
    OpCmpLe
    OpCmpGt
    OpCmpGe
    OpIsInt
    OpSeqAnd
    OpSeqOr
    OpOffsetInt
    OpWordSize
    OpBigEndian
    OpMakeBlock
    OpField
    OpFieldMut
    OpSetField
    OpGetGlobal
    OpSetGlobal
    OpRaise
    OpCCall
)

var _opnames = map[OpKind]string {
    OpAdd       : "add",
    OpSub       : "sub",
    OpMul       : "mul",
    OpDiv       : "div",
    OpMod       : "mod",
    OpAnd       : "and",
    OpOr        : "or",
    OpXor       : "xor",
    OpLsl       : "lsl",
    OpLsr       : "lsr",
    OpAsr       : "asr",
    OpNeg       : "neg",
    OpNot       : "not",
    OpSwap16    : "bswap16",
    OpSwap32    : "bswap32",
    OpSwap64    : "bswap64",
    OpCmpEq     : "eq",
    OpCmpNe     : "ne",
    OpCmpLt     : "lt",
    OpCmpLe     : "le",
    OpCmpGt     : "gt",
    OpCmpGe     : "ge",
    OpIsInt     : "isint",
    OpSeqAnd    : "seqand",
    OpSeqOr     : "seqor",
    OpOffsetInt : "offsetint",
    OpWordSize  : "wordsize",
    OpBigEndian : "bigendian",
    OpMakeBlock : "makeblock",
    OpField     : "field",
    OpFieldMut  : "fieldmut",
    OpSetField  : "setfield",
    OpGetGlobal : "getglobal",
    OpSetGlobal : "setglobal",
    OpRaise     : "raise",
    OpCCall     : "ccall",
}

// Op is a primitive operation. Index carries the field or global slot for
// the accessors, the immediate for OpOffsetInt, and the block tag for
// OpMakeBlock. Mut marks a mutable OpMakeBlock. Ext names the external
// function of an OpCCall.
type Op struct {
    Kind  OpKind
    Index int
    Mut   bool
    Ext   string
}

func (self Op) String() string {
    switch self.Kind {
        case OpOffsetInt : return fmt.Sprintf("offsetint[%d]", self.Index)
        case OpMakeBlock : return fmt.Sprintf("makeblock[%d,mut=%v]", self.Index, self.Mut)
        case OpField     : return fmt.Sprintf("field[%d]", self.Index)
        case OpFieldMut  : return fmt.Sprintf("fieldmut[%d]", self.Index)
        case OpSetField  : return fmt.Sprintf("setfield[%d]", self.Index)
        case OpGetGlobal : return fmt.Sprintf("getglobal[%d]", self.Index)
        case OpSetGlobal : return fmt.Sprintf("setglobal[%d]", self.Index)
        case OpCCall     : return fmt.Sprintf("ccall[%s]", self.Ext)
        default          : return _opnames[self.Kind]
    }
}

// HasEffect tells whether the operation itself may mutate state, perform
// I/O, raise, or read from a mutable location. Argument effects are the
// caller's concern.
func (self Op) HasEffect() bool {
    switch self.Kind {
        case OpDiv       : return true /* raises on zero divisor */
        case OpMod       : return true
        case OpFieldMut  : return true
        case OpSetField  : return true
        case OpSetGlobal : return true
        case OpRaise     : return true
        case OpCCall     : return true
        default          : return false
    }
}

// Foldable tells whether constant folding is defined for the operation.
func (self Op) Foldable() bool {
    switch self.Kind {
        case OpMakeBlock : return false
        case OpField     : return false
        case OpFieldMut  : return false
        case OpSetField  : return false
        case OpGetGlobal : return false
        case OpSetGlobal : return false
        case OpRaise     : return false
        case OpCCall     : return false
        default          : return true
    }
}
