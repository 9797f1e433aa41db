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
	"strconv"
	"strings"
)

// String renders v for error messages and store dumps. The rendering is
// deterministic for ground values; boxes and closures print without
// addresses.
func String(v Value) string {
	var b strings.Builder
	appendString(&b, v)
	return b.String()
}

func appendString(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		b.WriteString("<empty>")
	case Unit:
		b.WriteString("()")
	case Bool:
		fmt.Fprintf(b, "%t", bool(x))
	case Char:
		b.WriteString(strconv.QuoteRune(rune(x)))
	case Float32:
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 32))
		b.WriteString("f32")
	case Float64:
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case Int8:
		fmt.Fprintf(b, "%di8", x)
	case Int16:
		fmt.Fprintf(b, "%di16", x)
	case Int32:
		fmt.Fprintf(b, "%d", x)
	case Int64:
		fmt.Fprintf(b, "%di64", x)
	case BigInt:
		b.WriteString(x.X.String())
		b.WriteString("ii")
	case Str:
		b.WriteString(strconv.Quote(string(x)))
	case Tag:
		b.WriteString(x.Name)
		b.WriteByte('(')
		appendString(b, x.Val)
		b.WriteByte(')')
	case Tuple:
		b.WriteByte('(')
		for i, e := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			appendString(b, e)
		}
		b.WriteByte(')')
	case *Closure:
		fmt.Fprintf(b, "<closure %s>", x.Def.Name())
	case *Box:
		b.WriteString("ref ")
		if bx, ok := x.V.(*Box); ok && bx == x {
			b.WriteString("<cycle>")
			return
		}
		appendString(b, x.V)
	default:
		fmt.Fprintf(b, "%v", v)
	}
}
