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

// mica evaluates compiled Mica programs: it loads an IR bundle, runs
// the constraint solver to its fixed point, and prints the resulting
// fact database.
package main

import (
	"os"

	"micalang.org/go/cmd/mica/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
