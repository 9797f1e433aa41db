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

// Equal reports structural deep equality of two values.
//
// Tuples compare element-wise, tags by name and payload. Closures
// compare by identity of the definition symbol and element-wise
// equality of the captures; two closures that behave identically but
// come from different defs compare unequal. Boxes compare by cell
// identity, never by content, which also keeps equality total on
// cyclic value graphs.
func Equal(v, w Value) bool {
	switch x := v.(type) {
	case Unit:
		_, ok := w.(Unit)
		return ok
	case Bool:
		y, ok := w.(Bool)
		return ok && x == y
	case Char:
		y, ok := w.(Char)
		return ok && x == y
	case Float32:
		y, ok := w.(Float32)
		return ok && x == y
	case Float64:
		y, ok := w.(Float64)
		return ok && x == y
	case Int8:
		y, ok := w.(Int8)
		return ok && x == y
	case Int16:
		y, ok := w.(Int16)
		return ok && x == y
	case Int32:
		y, ok := w.(Int32)
		return ok && x == y
	case Int64:
		y, ok := w.(Int64)
		return ok && x == y
	case BigInt:
		y, ok := w.(BigInt)
		return ok && x.X.Cmp(y.X) == 0
	case Str:
		y, ok := w.(Str)
		return ok && x == y
	case Tag:
		y, ok := w.(Tag)
		return ok && x.Name == y.Name && Equal(x.Val, y.Val)
	case Tuple:
		y, ok := w.(Tuple)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Closure:
		y, ok := w.(*Closure)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if x.Def != y.Def || len(x.Env) != len(y.Env) {
			return false
		}
		for i := range x.Env {
			if x.Env[i] == nil || y.Env[i] == nil {
				if x.Env[i] != y.Env[i] {
					return false
				}
				continue
			}
			// A back-patched self slot refers to the closure itself;
			// compare such slots by identity to keep equality total on
			// recursive closures.
			if cx, ok := x.Env[i].(*Closure); ok && cx == x {
				cy, ok := y.Env[i].(*Closure)
				if !ok || cy != y {
					return false
				}
				continue
			}
			if !Equal(x.Env[i], y.Env[i]) {
				return false
			}
		}
		return true
	case *Box:
		y, ok := w.(*Box)
		return ok && x == y
	}
	return false
}
