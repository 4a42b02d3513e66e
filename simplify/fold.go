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
    `math/bits`

    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`
)

const (
    _WordSize = 8
)

// immediate extracts an exactly known immediate, integers and nullary
// constructors alike.
func immediate(v approx.Value) (int64, bool) {
    switch d := v.Desc.(type) {
        case approx.Int      : return int64(d), true
        case approx.ConstPtr : return int64(d), true
        default              : return 0, false
    }
}

// foldPrim evaluates a primitive over statically known operands. It
// produces the approximation of the result; turning it into a literal
// expression is the caller's decision, gated on the purity of the original
// expression.
func foldPrim(op clir.Op, args []approx.Value) (approx.Value, bool) {
    switch len(args) {
        case 0  : return foldNullary(op)
        case 1  : return foldUnary(op, args[0])
        case 2  : return foldBinary(op, args[0], args[1])
        default : return approx.Value{}, false
    }
}

func foldNullary(op clir.Op) (approx.Value, bool) {
    switch op.Kind {
        case clir.OpWordSize  : return approx.OfInt(_WordSize), true
        case clir.OpBigEndian : return approx.OfBool(false), true
        default               : return approx.Value{}, false
    }
}

func foldUnary(op clir.Op, a approx.Value) (approx.Value, bool) {
    v, ok := immediate(a)
    if !ok {
        if op.Kind == clir.OpIsInt {
            if _, blk := a.Desc.(*approx.Block); blk {
                return approx.OfBool(false), true
            }
        }
        return approx.Value{}, false
    }

    switch op.Kind {
        case clir.OpNeg       : return approx.OfInt(-v), true
        case clir.OpNot       : return approx.OfBool(v == 0), true
        case clir.OpSwap16    : return approx.OfInt(int64(bits.ReverseBytes16(uint16(v)))), true
        case clir.OpSwap32    : return approx.OfInt(int64(bits.ReverseBytes32(uint32(v)))), true
        case clir.OpSwap64    : return approx.OfInt(int64(bits.ReverseBytes64(uint64(v)))), true
        case clir.OpIsInt     : return approx.OfBool(true), true
        case clir.OpOffsetInt : return approx.OfInt(v + int64(op.Index)), true
        default               : return approx.Value{}, false
    }
}

func foldBinary(op clir.Op, a approx.Value, b approx.Value) (approx.Value, bool) {
    x, ok := immediate(a)
    if !ok {
        return approx.Value{}, false
    }
    y, ok := immediate(b)
    if !ok {
        return approx.Value{}, false
    }

    switch op.Kind {
        case clir.OpAdd    : return approx.OfInt(x + y), true
        case clir.OpSub    : return approx.OfInt(x - y), true
        case clir.OpMul    : return approx.OfInt(x * y), true
        case clir.OpDiv    : return folddiv(x, y, false)
        case clir.OpMod    : return folddiv(x, y, true)
        case clir.OpAnd    : return approx.OfInt(x & y), true
        case clir.OpOr     : return approx.OfInt(x | y), true
        case clir.OpXor    : return approx.OfInt(x ^ y), true
        case clir.OpLsl    : return foldshift(x, y, func(v int64, s uint) int64 { return v << s })
        case clir.OpLsr    : return foldshift(x, y, func(v int64, s uint) int64 { return int64(uint64(v) >> s) })
        case clir.OpAsr    : return foldshift(x, y, func(v int64, s uint) int64 { return v >> s })
        case clir.OpCmpEq  : return approx.OfBool(x == y), true
        case clir.OpCmpNe  : return approx.OfBool(x != y), true
        case clir.OpCmpLt  : return approx.OfBool(x < y), true
        case clir.OpCmpLe  : return approx.OfBool(x <= y), true
        case clir.OpCmpGt  : return approx.OfBool(x > y), true
        case clir.OpCmpGe  : return approx.OfBool(x >= y), true
        case clir.OpSeqAnd : return foldbool(x, y, true)
        case clir.OpSeqOr  : return foldbool(x, y, false)
        default            : return approx.Value{}, false
    }
}

// folddiv refuses a zero divisor: the trap must stay in the generated code.
func folddiv(x int64, y int64, mod bool) (approx.Value, bool) {
    if y == 0 {
        return approx.Value{}, false
    } else if mod {
        return approx.OfInt(x % y), true
    } else {
        return approx.OfInt(x / y), true
    }
}

// foldshift folds only well-defined shift amounts.
func foldshift(x int64, y int64, sh func(int64, uint) int64) (approx.Value, bool) {
    if y < 0 || y >= _WordSize * 8 {
        return approx.Value{}, false
    }
    return approx.OfInt(sh(x, uint(y))), true
}

// foldbool folds a short-circuit operator with both operands known.
func foldbool(x int64, y int64, conj bool) (approx.Value, bool) {
    if conj {
        return approx.OfBool(x != 0 && y != 0), true
    } else {
        return approx.OfBool(x != 0 || y != 0), true
    }
}

// literalOf turns a foldable approximation into a literal expression.
func literalOf(v approx.Value) (clir.Expr, bool) {
    switch d := v.Desc.(type) {
        case approx.Int      : return clir.MakeInt(int64(d)), true
        case approx.ConstPtr : return clir.MakePtr(int64(d)), true
        default              : return nil, false
    }
}
