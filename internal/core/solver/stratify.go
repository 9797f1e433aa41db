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

package solver

import (
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/mica/errors"
)

// ValidateStrata checks the stratification the upstream compiler
// supplied: every table referenced by a negated body atom must be
// produced only in strictly earlier strata. Initial facts (tables no
// constraint produces) may be negated anywhere.
//
// The check is redundant for IR emitted by a correct compiler; it
// exists so a hand-assembled or corrupted Root fails at ingest instead
// of deriving unsound facts.
func ValidateStrata(root *ir.Root) error {
	// Latest stratum producing each table.
	produced := map[*ir.Symbol]int{}
	for si := range root.Strata {
		for _, c := range root.Strata[si].Constraints {
			if h, ok := c.Head.(*ir.HeadAtom); ok {
				if last, ok := produced[h.Table]; !ok || si > last {
					produced[h.Table] = si
				}
			}
		}
	}
	for si := range root.Strata {
		for _, c := range root.Strata[si].Constraints {
			for _, p := range c.Body {
				atom, ok := p.(*ir.BodyAtom)
				if !ok || !atom.Negated {
					continue
				}
				if last, ok := produced[atom.Table]; ok && last >= si {
					return errors.Newf(errors.TypeMismatch, atom.Pos(),
						"table %s is negated in stratum %d but produced in stratum %d",
						atom.Table.Name(), si, last)
				}
			}
		}
	}
	return nil
}
