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
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/srcpatch/pkg/decl"
)

// 📐 Span is a half-open byte range [Start, End)
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether the two spans share at least one byte
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// 📊 RuleResult records what one rule did
type RuleResult struct {
	Name   string
	Target string

	// Matches is the number of pattern matches found.
	Matches int

	// Applied is the number of matches that changed the document.
	Applied int

	// AlreadyApplied is the number of matches left alone because the
	// document already had the rewritten text there.
	AlreadyApplied int

	// Spans are the match locations in the document the rule ran against.
	Spans []Span
}

// Matched reports whether the rule made at least one substitution
func (r RuleResult) Matched() bool {
	return r.Applied > 0
}

// 📦 Result is the outcome of applying a rule list to a document
type Result struct {
	OriginalContent string
	Content         string

	// MatchCount is the number of rules that made at least one substitution.
	MatchCount int

	WasModified bool
	Rules       []RuleResult
}

// 🔄 Patcher applies rewrite rules to text. It performs no I/O.
type Patcher struct{}

// NewPatcher creates a new Patcher
func NewPatcher() *Patcher {
	return &Patcher{}
}

// Apply is the context-free form of Patcher.Apply
func Apply(content string, rules []Rule) (string, int) {
	res := NewPatcher().Apply(context.Background(), content, rules)
	return res.Content, res.MatchCount
}

// Apply runs each rule in order against the output of the previous one.
// Rules without a match are skipped.
func (p *Patcher) Apply(ctx context.Context, content string, rules []Rule) *Result {
	logger := zerolog.Ctx(ctx)

	result := &Result{
		OriginalContent: content,
		Rules:           make([]RuleResult, 0, len(rules)),
	}

	current := content
	for _, rule := range rules {
		next, rr := applyRule(current, rule)

		switch {
		case rr.Matches == 0:
			logger.Debug().Str("rule", rule.Name).Msg("no match")
		case rr.Matches > 1:
			logger.Warn().Str("rule", rule.Name).Int("matches", rr.Matches).Msg("rule matched more than once")
		}

		if rr.Matched() {
			result.MatchCount++
		}
		result.Rules = append(result.Rules, rr)
		current = next
	}

	result.Content = current
	result.WasModified = current != content
	return result
}

// Plan matches every rule against the unmodified content without applying
// anything. Spans in the returned results all refer to content.
func (p *Patcher) Plan(ctx context.Context, content string, rules []Rule) []RuleResult {
	results := make([]RuleResult, 0, len(rules))
	for _, rule := range rules {
		_, rr := applyRule(content, rule)
		results = append(results, rr)
	}
	return results
}

// 💥 Overlap names two rules whose matches intersect
type Overlap struct {
	First  string
	Second string
	Span   Span
}

// Overlaps returns every pair of distinct rules whose planned spans intersect
func Overlaps(plan []RuleResult) []Overlap {
	var out []Overlap
	for i := range plan {
		for j := i + 1; j < len(plan); j++ {
			for _, a := range plan[i].Spans {
				for _, b := range plan[j].Spans {
					if !a.Overlaps(b) {
						continue
					}
					out = append(out, Overlap{
						First:  plan[i].Name,
						Second: plan[j].Name,
						Span:   Span{Start: max(a.Start, b.Start), End: min(a.End, b.End)},
					})
				}
			}
		}
	}
	return out
}

func applyRule(content string, rule Rule) (string, RuleResult) {
	rr := RuleResult{Name: rule.Name, Target: rule.Target}

	lo, hi := 0, len(content)
	if rule.Scope == ScopeDeclaration {
		d, ok := decl.Find(decl.Index(content), rule.Target)
		if !ok {
			return content, rr
		}
		lo, hi = d.Start, d.End
	}

	region := content[lo:hi]
	locs := rule.Pattern.FindAllStringSubmatchIndex(region, -1)
	if len(locs) == 0 {
		return content, rr
	}

	var sb strings.Builder
	sb.Grow(len(content))
	sb.WriteString(content[:lo])

	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		fragment := rule.fragment(region, loc)

		rr.Matches++
		rr.Spans = append(rr.Spans, Span{Start: lo + start, End: lo + end})

		switch rule.Mode {
		case ModeInsert:
			sb.WriteString(region[last:end])
			if strings.HasPrefix(region[end:], fragment) {
				rr.AlreadyApplied++
			} else {
				sb.WriteString(fragment)
				rr.Applied++
			}
		default:
			sb.WriteString(region[last:start])
			sb.WriteString(fragment)
			if fragment == region[start:end] {
				rr.AlreadyApplied++
			} else {
				rr.Applied++
			}
		}
		last = end
	}

	sb.WriteString(region[last:])
	sb.WriteString(content[hi:])

	if rr.Applied == 0 {
		return content, rr
	}
	return sb.String(), rr
}

func (r Rule) fragment(src string, loc []int) string {
	if r.Literal {
		return r.Template
	}
	return string(r.Pattern.ExpandString(nil, r.Template, src, loc))
}
