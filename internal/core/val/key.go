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

package val

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Key renders v as a canonical string usable as a hash-map key. Two
// values that are Equal produce the same key.
//
// Floats key by bit pattern with negative zero normalized to positive
// zero, so +0.0 and -0.0 coincide as they do under Equal. NaN keys
// equal to itself even though Equal follows IEEE-754 and reports NaN
// unequal to everything; a store would otherwise re-insert a NaN-bearing
// tuple on every pass and never saturate.
func Key(v Value) string {
	var b strings.Builder
	appendKey(&b, v)
	return b.String()
}

// KeyTuple is Key over an ad-hoc tuple without allocating a Tuple.
func KeyTuple(vs []Value) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range vs {
		appendKey(&b, v)
		b.WriteByte(',')
	}
	b.WriteByte(')')
	return b.String()
}

func appendKey(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case Unit:
		b.WriteString("u;")
	case Bool:
		if x {
			b.WriteString("b1;")
		} else {
			b.WriteString("b0;")
		}
	case Char:
		fmt.Fprintf(b, "c%d;", x)
	case Float32:
		f := float32(x)
		if f == 0 {
			f = 0 // normalize -0
		}
		fmt.Fprintf(b, "f4%x;", math.Float32bits(f))
	case Float64:
		f := float64(x)
		if f == 0 {
			f = 0
		}
		fmt.Fprintf(b, "f8%x;", math.Float64bits(f))
	case Int8:
		fmt.Fprintf(b, "i1%d;", x)
	case Int16:
		fmt.Fprintf(b, "i2%d;", x)
	case Int32:
		fmt.Fprintf(b, "i4%d;", x)
	case Int64:
		fmt.Fprintf(b, "i8%d;", x)
	case BigInt:
		s := x.X.String()
		fmt.Fprintf(b, "n%d:%s;", len(s), s)
	case Str:
		fmt.Fprintf(b, "s%d:%s;", len(x), string(x))
	case Tag:
		fmt.Fprintf(b, "t%d:%s(", len(x.Name), x.Name)
		appendKey(b, x.Val)
		b.WriteByte(')')
	case Tuple:
		b.WriteByte('(')
		for _, e := range x {
			appendKey(b, e)
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case *Closure:
		fmt.Fprintf(b, "k%d[", x.Def.ID())
		for _, e := range x.Env {
			switch {
			case e == nil:
				b.WriteByte('_')
			case isSelf(e, x):
				b.WriteByte('@')
			default:
				appendKey(b, e)
			}
			b.WriteByte(',')
		}
		b.WriteByte(']')
	case *Box:
		fmt.Fprintf(b, "r%p;", x)
	default:
		// Unreachable for well-formed values.
		b.WriteString("?" + strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func isSelf(e Value, c *Closure) bool {
	ce, ok := e.(*Closure)
	return ok && ce == c
}
