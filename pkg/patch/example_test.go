// Copyright 2025 walteh LLC
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

package patch_test

import (
	"context"
	"fmt"

	"github.com/walteh/srcpatch/pkg/patch"
)

func ExamplePatcher_Apply() {
	// One rule set, two identifiers
	rules, err := patch.RuleSet{
		Name:        "greet",
		Pattern:     `const <% .Target %> = "hello";`,
		Template:    `const <% .Target %> = "hi";`,
		Identifiers: []string{"a", "missing"},
	}.Expand()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	content := "const a = \"hello\";\nconst b = \"hello\";\n"

	result := patch.NewPatcher().Apply(context.Background(), content, rules)

	fmt.Print(result.Content)
	fmt.Printf("Matched: %d\n", result.MatchCount)
	for _, r := range result.Rules {
		fmt.Printf("%s: %d\n", r.Name, r.Applied)
	}

	// Output:
	// const a = "hi";
	// const b = "hello";
	// Matched: 1
	// greet/a: 1
	// greet/missing: 0
}

func ExampleApply_insert() {
	rules, _ := patch.RuleSet{
		Name:        "hook",
		Mode:        patch.ModeInsert,
		Pattern:     `function <% .Target %>\(\) \{`,
		Template:    "\n  init();",
		Literal:     true,
		Identifiers: []string{"main"},
	}.Expand()

	once, n := patch.Apply("function main() {\n}\n", rules)
	twice, m := patch.Apply(once, rules)

	fmt.Print(twice)
	fmt.Println(n, m)

	// Output:
	// function main() {
	//   init();
	// }
	// 1 0
}

func ExampleValidateRules() {
	err := patch.ValidateRules([]patch.Rule{{Mode: patch.ModeReplace}})
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 0: name is required
}
