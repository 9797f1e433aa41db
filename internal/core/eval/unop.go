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
	"github.com/cockroachdb/apd/v3"

	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
)

func (ev *Evaluator) unary(x *ir.Unary, env *Env) (val.Value, error) {
	v, err := ev.Eval(x.E, env)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case ir.LogicalNot:
		b, ok := v.(val.Bool)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "! on %s", val.String(v))
		}
		return !b, nil

	case ir.UnaryPlus:
		return v, nil

	case ir.UnaryMinus:
		switch n := v.(type) {
		case val.Float32:
			return -n, nil
		case val.Float64:
			return -n, nil
		case val.Int8:
			return -n, nil
		case val.Int16:
			return -n, nil
		case val.Int32:
			return -n, nil
		case val.Int64:
			return -n, nil
		case val.BigInt:
			return val.BigInt{X: new(apd.BigInt).Neg(n.X)}, nil
		}
		return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "- on %s", val.String(v))

	case ir.BitwiseNegate:
		switch n := v.(type) {
		case val.Int8:
			return ^n, nil
		case val.Int16:
			return ^n, nil
		case val.Int32:
			return ^n, nil
		case val.Int64:
			return ^n, nil
		case val.BigInt:
			return val.BigInt{X: new(apd.BigInt).Not(n.X)}, nil
		}
		return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "~~~ on %s", val.String(v))
	}
	return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "unknown unary operator %s", x.Op)
}
