// Copyright 2026 The Mica Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"math"

	"github.com/cockroachdb/apd/v3"

	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
	"micalang.org/go/mica/token"
)

// binary dispatches a binary expression by operator class. Logical
// operators short-circuit and therefore control evaluation of the
// second operand themselves; all other classes evaluate both operands
// left to right and then dispatch on the static type of the first.
func (ev *Evaluator) binary(x *ir.Binary, env *Env) (val.Value, error) {
	if x.Op.IsLogical() {
		return ev.logical(x, env)
	}

	v1, err := ev.Eval(x.E1, env)
	if err != nil {
		return nil, err
	}
	v2, err := ev.Eval(x.E2, env)
	if err != nil {
		return nil, err
	}

	switch {
	case x.Op.IsArithmetic():
		return ev.arith(x, v1, v2)
	case x.Op.IsComparison():
		return compare(x, v1, v2)
	case x.Op.IsEquality():
		eq := val.Equal(v1, v2)
		if x.Op == ir.NotEqual {
			eq = !eq
		}
		return val.Bool(eq), nil
	case x.Op.IsBitwise():
		return bitwise(x, v1, v2)
	}
	return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "unknown binary operator %s", x.Op)
}

func (ev *Evaluator) logical(x *ir.Binary, env *Env) (val.Value, error) {
	v1, err := ev.Eval(x.E1, env)
	if err != nil {
		return nil, err
	}
	b1, ok := v1.(val.Bool)
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "%s on %s", x.Op, val.String(v1))
	}
	// Evaluate the second operand only when the first does not already
	// determine the result.
	switch x.Op {
	case ir.LogicalAnd:
		if !b1 {
			return val.False, nil
		}
	case ir.LogicalOr:
		if b1 {
			return val.True, nil
		}
	}
	v2, err := ev.Eval(x.E2, env)
	if err != nil {
		return nil, err
	}
	b2, ok := v2.(val.Bool)
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "%s on %s", x.Op, val.String(v2))
	}
	return b2, nil
}

// arith dispatches on the static type of the first operand. Fixed-width
// integers compute in int64 and truncate back to their width, which
// matches two's-complement wrap-around for every operator.
func (ev *Evaluator) arith(x *ir.Binary, v1, v2 val.Value) (val.Value, error) {
	k := x.E1.Type().K
	switch k {
	case ir.Float32Kind:
		a, b, err := float32Pair(x.Pos(), v1, v2)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case ir.Plus:
			return val.Float32(a + b), nil
		case ir.Minus:
			return val.Float32(a - b), nil
		case ir.Times:
			return val.Float32(a * b), nil
		case ir.Divide:
			// IEEE-754: division by zero yields an infinity or NaN.
			return val.Float32(a / b), nil
		case ir.Modulo:
			return val.Float32(float32(math.Mod(float64(a), float64(b)))), nil
		case ir.Exponentiate:
			return val.Float32(float32(math.Pow(float64(a), float64(b)))), nil
		}

	case ir.Float64Kind:
		a, b, err := float64Pair(x.Pos(), v1, v2)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case ir.Plus:
			return val.Float64(a + b), nil
		case ir.Minus:
			return val.Float64(a - b), nil
		case ir.Times:
			return val.Float64(a * b), nil
		case ir.Divide:
			return val.Float64(a / b), nil
		case ir.Modulo:
			return val.Float64(math.Mod(a, b)), nil
		case ir.Exponentiate:
			return val.Float64(math.Pow(a, b)), nil
		}

	case ir.Int8Kind, ir.Int16Kind, ir.Int32Kind, ir.Int64Kind:
		a, b, err := intPair(x.Pos(), v1, v2)
		if err != nil {
			return nil, err
		}
		var r int64
		switch x.Op {
		case ir.Plus:
			r = a + b
		case ir.Minus:
			r = a - b
		case ir.Times:
			r = a * b
		case ir.Divide:
			if b == 0 {
				return nil, errors.Newf(errors.Arithmetic, x.Pos(), "division by zero")
			}
			r = a / b
		case ir.Modulo:
			if b == 0 {
				return nil, errors.Newf(errors.Arithmetic, x.Pos(), "modulo by zero")
			}
			r = a % b
		case ir.Exponentiate:
			// Generic power, rounded back to the integer width.
			r = int64(math.Pow(float64(a), float64(b)))
		}
		return truncInt(k, r), nil

	case ir.BigIntKind:
		a, b, err := bigPair(x.Pos(), v1, v2)
		if err != nil {
			return nil, err
		}
		z := new(apd.BigInt)
		switch x.Op {
		case ir.Plus:
			z.Add(a, b)
		case ir.Minus:
			z.Sub(a, b)
		case ir.Times:
			z.Mul(a, b)
		case ir.Divide:
			if b.Sign() == 0 {
				return nil, errors.Newf(errors.Arithmetic, x.Pos(), "division by zero")
			}
			z.Quo(a, b)
		case ir.Modulo:
			if b.Sign() == 0 {
				return nil, errors.Newf(errors.Arithmetic, x.Pos(), "modulo by zero")
			}
			z.Rem(a, b)
		case ir.Exponentiate:
			z.Exp(a, b, nil)
		}
		return val.BigInt{X: z}, nil
	}
	return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "%s on operands of type %s", x.Op, x.E1.Type())
}

// compare handles the ordering operators. Ordering is defined for the
// numeric types and Char; signed compare for BigInt.
func compare(x *ir.Binary, v1, v2 val.Value) (val.Value, error) {
	var c int
	switch a := v1.(type) {
	case val.Char:
		b, ok := v2.(val.Char)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = cmpOrdered(rune(a), rune(b))
	case val.Float32:
		b, ok := v2.(val.Float32)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = cmpFloat(float64(a), float64(b))
	case val.Float64:
		b, ok := v2.(val.Float64)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = cmpFloat(float64(a), float64(b))
	case val.Int8:
		b, ok := v2.(val.Int8)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = cmpOrdered(int64(a), int64(b))
	case val.Int16:
		b, ok := v2.(val.Int16)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = cmpOrdered(int64(a), int64(b))
	case val.Int32:
		b, ok := v2.(val.Int32)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = cmpOrdered(int64(a), int64(b))
	case val.Int64:
		b, ok := v2.(val.Int64)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = cmpOrdered(int64(a), int64(b))
	case val.BigInt:
		b, ok := v2.(val.BigInt)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		c = a.X.Cmp(b.X)
	default:
		return nil, cmpMismatch(x, v1, v2)
	}

	if c == 2 {
		// Unordered: a NaN operand compares false under every
		// ordering operator.
		return val.False, nil
	}
	switch x.Op {
	case ir.Less:
		return val.Bool(c < 0), nil
	case ir.LessEqual:
		return val.Bool(c <= 0), nil
	case ir.Greater:
		return val.Bool(c > 0), nil
	case ir.GreaterEqual:
		return val.Bool(c >= 0), nil
	}
	return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "unknown comparison %s", x.Op)
}

// bitwise handles the bitwise operators on fixed-width and
// arbitrary-precision integers. Right shift is arithmetic: the signed
// representation sign-extends.
func bitwise(x *ir.Binary, v1, v2 val.Value) (val.Value, error) {
	k := x.E1.Type().K
	if k == ir.BigIntKind {
		a, ok := v1.(val.BigInt)
		if !ok {
			return nil, cmpMismatch(x, v1, v2)
		}
		z := new(apd.BigInt)
		switch x.Op {
		case ir.BitwiseAnd, ir.BitwiseOr, ir.BitwiseXor:
			b, ok := v2.(val.BigInt)
			if !ok {
				return nil, cmpMismatch(x, v1, v2)
			}
			switch x.Op {
			case ir.BitwiseAnd:
				z.And(a.X, b.X)
			case ir.BitwiseOr:
				z.Or(a.X, b.X)
			case ir.BitwiseXor:
				z.Xor(a.X, b.X)
			}
		case ir.BitwiseLeftShift, ir.BitwiseRightShift:
			s, err := shiftAmount(x.Pos(), v2)
			if err != nil {
				return nil, err
			}
			if x.Op == ir.BitwiseLeftShift {
				z.Lsh(a.X, uint(s))
			} else {
				z.Rsh(a.X, uint(s))
			}
		}
		return val.BigInt{X: z}, nil
	}

	a, err := intValue(x.Pos(), v1)
	if err != nil {
		return nil, err
	}
	var r int64
	switch x.Op {
	case ir.BitwiseAnd, ir.BitwiseOr, ir.BitwiseXor:
		b, err := intValue(x.Pos(), v2)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case ir.BitwiseAnd:
			r = a & b
		case ir.BitwiseOr:
			r = a | b
		case ir.BitwiseXor:
			r = a ^ b
		}
	case ir.BitwiseLeftShift, ir.BitwiseRightShift:
		s, err := shiftAmount(x.Pos(), v2)
		if err != nil {
			return nil, err
		}
		if x.Op == ir.BitwiseLeftShift {
			r = a << uint(s)
		} else {
			r = a >> uint(s)
		}
	}
	return truncInt(k, r), nil
}

// Operand extraction helpers. A mismatch between the static tag and the
// runtime variant is an internal invariant violation.

func intValue(pos token.Pos, v val.Value) (int64, error) {
	switch n := v.(type) {
	case val.Int8:
		return int64(n), nil
	case val.Int16:
		return int64(n), nil
	case val.Int32:
		return int64(n), nil
	case val.Int64:
		return int64(n), nil
	}
	return 0, errors.Newf(errors.TypeMismatch, pos, "%s is not an integer", val.String(v))
}

func intPair(pos token.Pos, v1, v2 val.Value) (int64, int64, error) {
	a, err := intValue(pos, v1)
	if err != nil {
		return 0, 0, err
	}
	b, err := intValue(pos, v2)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func float32Pair(pos token.Pos, v1, v2 val.Value) (float32, float32, error) {
	a, ok1 := v1.(val.Float32)
	b, ok2 := v2.(val.Float32)
	if !ok1 || !ok2 {
		return 0, 0, errors.Newf(errors.TypeMismatch, pos, "float32 operation on %s and %s", val.String(v1), val.String(v2))
	}
	return float32(a), float32(b), nil
}

func float64Pair(pos token.Pos, v1, v2 val.Value) (float64, float64, error) {
	a, ok1 := v1.(val.Float64)
	b, ok2 := v2.(val.Float64)
	if !ok1 || !ok2 {
		return 0, 0, errors.Newf(errors.TypeMismatch, pos, "float64 operation on %s and %s", val.String(v1), val.String(v2))
	}
	return float64(a), float64(b), nil
}

func bigPair(pos token.Pos, v1, v2 val.Value) (*apd.BigInt, *apd.BigInt, error) {
	a, ok1 := v1.(val.BigInt)
	b, ok2 := v2.(val.BigInt)
	if !ok1 || !ok2 {
		return nil, nil, errors.Newf(errors.TypeMismatch, pos, "bigint operation on %s and %s", val.String(v1), val.String(v2))
	}
	return a.X, b.X, nil
}

func shiftAmount(pos token.Pos, v val.Value) (int64, error) {
	s, err := intValue(pos, v)
	if err != nil {
		return 0, err
	}
	if s < 0 {
		return 0, errors.Newf(errors.Arithmetic, pos, "shift by negative amount %d", s)
	}
	return s, nil
}

// truncInt narrows r to the width of kind k. Truncation of the int64
// two's-complement representation is exactly wrap-around semantics.
func truncInt(k ir.TypeKind, r int64) val.Value {
	switch k {
	case ir.Int8Kind:
		return val.Int8(int8(r))
	case ir.Int16Kind:
		return val.Int16(int16(r))
	case ir.Int32Kind:
		return val.Int32(int32(r))
	default:
		return val.Int64(r)
	}
}

func cmpOrdered[T rune | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpFloat orders floats per IEEE-754: comparisons against NaN are
// false for every operator, which a three-way result cannot express, so
// NaN is handled by returning an out-of-band value.
func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	return 2 // unordered: some operand is NaN
}

func cmpMismatch(x *ir.Binary, v1, v2 val.Value) error {
	return errors.Newf(errors.TypeMismatch, x.Pos(), "%s on %s and %s", x.Op, val.String(v1), val.String(v2))
}
