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

package token

import "testing"

func TestPositionString(t *testing.T) {
	testCases := []struct {
		pos  Position
		want string
	}{
		{Position{}, "-"},
		{Position{Filename: "a.mica"}, "a.mica"},
		{Position{Line: 3, Column: 7}, "3:7"},
		{Position{Filename: "a.mica", Line: 3, Column: 7}, "a.mica:3:7"},
	}
	for _, tc := range testCases {
		if got := tc.pos.String(); got != tc.want {
			t.Errorf("%#v.String() = %q; want %q", tc.pos, got, tc.want)
		}
	}
}

func TestNoPos(t *testing.T) {
	if NoPos.IsValid() {
		t.Error("NoPos is valid")
	}
	if got := NoPos.String(); got != "-" {
		t.Errorf("NoPos.String() = %q; want -", got)
	}
	if NoPos.File() != nil {
		t.Error("NoPos has a file")
	}
}

func TestFileSetInterning(t *testing.T) {
	var fs FileSet
	f1 := fs.AddFile("a.mica")
	f2 := fs.AddFile("a.mica")
	if f1 != f2 {
		t.Error("AddFile did not intern")
	}
	p := f1.Pos(10, 2)
	if !p.IsValid() {
		t.Error("position is not valid")
	}
	if got := p.String(); got != "a.mica:10:2" {
		t.Errorf("Pos.String() = %q", got)
	}
}
