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

package patch

import (
	"regexp"
	"strings"
	"text/template"

	"gitlab.com/tozd/go/errors"
)

// 🔧 Mode selects what happens at a match
type Mode string

const (
	// ModeReplace replaces the whole matched span with the expanded template.
	ModeReplace Mode = "replace"
	// ModeInsert keeps the matched anchor and inserts the expanded template right after it.
	ModeInsert Mode = "insert"
)

// 🎯 Scope limits where a rule is allowed to match
type Scope string

const (
	// ScopeDocument searches the whole document.
	ScopeDocument Scope = "document"
	// ScopeDeclaration searches only the declaration named by the rule's target.
	ScopeDeclaration Scope = "declaration"
)

// Template delimiters for identifier substitution. Braces are too common in
// both regular expressions and the documents being patched.
const (
	LeftDelim  = "<%"
	RightDelim = "%>"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeReplace || m == ModeInsert
}

// Valid reports whether s is a known scope
func (s Scope) Valid() bool {
	return s == ScopeDocument || s == ScopeDeclaration
}

// 📏 Rule is a single rewrite bound to one target identifier
type Rule struct {
	Name     string
	Target   string
	Mode     Mode
	Scope    Scope
	Pattern  *regexp.Regexp
	Template string

	// Literal disables $1 / ${name} expansion in Template.
	Literal bool
}

// 📚 RuleSet is a pattern/template pair shared by a list of identifiers.
//
// Pattern and Template are text/template sources using LeftDelim and
// RightDelim; `<% .Target %>` is the identifier. In Pattern the identifier is
// regexp-quoted before substitution.
type RuleSet struct {
	Name        string
	Mode        Mode
	Scope       Scope
	Pattern     string
	Template    string
	Literal     bool
	Identifiers []string
}

type templateData struct {
	Target string
}

// Expand builds one Rule per identifier, in identifier order
func (rs RuleSet) Expand() ([]Rule, error) {
	mode := rs.Mode
	if mode == "" {
		mode = ModeReplace
	}
	if !mode.Valid() {
		return nil, errors.Errorf("rule set %q: unknown mode %q", rs.Name, mode)
	}

	scope := rs.Scope
	if scope == "" {
		scope = ScopeDocument
	}
	if !scope.Valid() {
		return nil, errors.Errorf("rule set %q: unknown scope %q", rs.Name, scope)
	}

	patternTmpl, err := parseTemplate(rs.Name+".pattern", rs.Pattern)
	if err != nil {
		return nil, errors.Errorf("rule set %q: parsing pattern: %w", rs.Name, err)
	}

	bodyTmpl, err := parseTemplate(rs.Name+".template", rs.Template)
	if err != nil {
		return nil, errors.Errorf("rule set %q: parsing template: %w", rs.Name, err)
	}

	rules := make([]Rule, 0, len(rs.Identifiers))
	for _, ident := range rs.Identifiers {
		pattern, err := execTemplate(patternTmpl, regexp.QuoteMeta(ident))
		if err != nil {
			return nil, errors.Errorf("rule set %q: rendering pattern for %s: %w", rs.Name, ident, err)
		}

		re, err := regexp.Compile("(?s)" + pattern)
		if err != nil {
			return nil, errors.Errorf("rule set %q: compiling pattern for %s: %w", rs.Name, ident, err)
		}

		body, err := execTemplate(bodyTmpl, ident)
		if err != nil {
			return nil, errors.Errorf("rule set %q: rendering template for %s: %w", rs.Name, ident, err)
		}

		rules = append(rules, Rule{
			Name:     rs.Name + "/" + ident,
			Target:   ident,
			Mode:     mode,
			Scope:    scope,
			Pattern:  re,
			Template: body,
			Literal:  rs.Literal,
		})
	}

	return rules, nil
}

// ExpandAll expands rule sets in order and concatenates the result
func ExpandAll(sets []RuleSet) ([]Rule, error) {
	var rules []Rule
	for _, rs := range sets {
		expanded, err := rs.Expand()
		if err != nil {
			return nil, err
		}
		rules = append(rules, expanded...)
	}
	return rules, nil
}

func parseTemplate(name, src string) (*template.Template, error) {
	return template.New(name).Delims(LeftDelim, RightDelim).Option("missingkey=error").Parse(src)
}

func execTemplate(t *template.Template, target string) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, templateData{Target: target}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ValidateRules checks that every rule can be applied
func ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if rule.Pattern == nil {
			return errors.Errorf("rule %d (%s): pattern is required", i, rule.Name)
		}
		if !rule.Mode.Valid() {
			return errors.Errorf("rule %d (%s): unknown mode %q", i, rule.Name, rule.Mode)
		}
		if rule.Scope != "" && !rule.Scope.Valid() {
			return errors.Errorf("rule %d (%s): unknown scope %q", i, rule.Name, rule.Scope)
		}
		if rule.Scope == ScopeDeclaration && rule.Target == "" {
			return errors.Errorf("rule %d (%s): declaration scope needs a target", i, rule.Name)
		}
	}
	return nil
}
