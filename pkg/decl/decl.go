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

// Package decl locates top-level named declarations in JavaScript and
// TypeScript source text.
//
// It is a scanner, not a parser: a declaration starts at a line beginning
// with `export const NAME`, `function NAME` and similar, and ends at the
// first newline or semicolon reached at bracket depth zero. Strings, template
// literals and comments are skipped while counting brackets. String literals
// stop at a newline, so a stray apostrophe in JSX text only hides the rest of
// its own line.
package decl

import (
	"regexp"
)

// Decl is a named declaration and its byte span [Start, End)
type Decl struct {
	Name  string
	Start int
	End   int
}

var startRE = regexp.MustCompile(`(?m)^(?:export\s+)?(?:default\s+)?(?:async\s+)?(?:const|let|var|function\*?|class)\s+([A-Za-z_$][\w$]*)`)

// Index returns the top-level declarations of src in source order.
// Declarations found inside an earlier declaration's span are dropped.
func Index(src string) []Decl {
	var out []Decl
	end := 0
	for _, m := range startRE.FindAllStringSubmatchIndex(src, -1) {
		if m[0] < end {
			continue
		}
		d := Decl{
			Name:  src[m[2]:m[3]],
			Start: m[0],
			End:   scanEnd(src, m[1]),
		}
		out = append(out, d)
		end = d.End
	}
	return out
}

// Find returns the first declaration called name
func Find(decls []Decl, name string) (Decl, bool) {
	for _, d := range decls {
		if d.Name == name {
			return d, true
		}
	}
	return Decl{}, false
}

// scanEnd walks forward from i and returns the end of the declaration
func scanEnd(src string, i int) int {
	depth := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			i = skipTo(src, i+2, "\n")
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i = skipPast(src, i+2, "*/")
			continue
		case c == '\'' || c == '"':
			i = skipString(src, i+1, c)
			continue
		case c == '`':
			i = skipTemplate(src, i+1)
			continue
		case c == '(' || c == '{' || c == '[':
			depth++
		case c == ')' || c == '}' || c == ']':
			if depth > 0 {
				depth--
			}
			if depth == 0 && c == '}' {
				return closeAfterBrace(src, i+1)
			}
		case depth == 0 && c == ';':
			return i + 1
		case depth == 0 && c == '\n':
			return i
		}
		i++
	}
	return len(src)
}

// closeAfterBrace extends a span past a trailing semicolon on the same line,
// or keeps scanning when the closing brace is followed by more expression
// (for example `}) => {`).
func closeAfterBrace(src string, i int) int {
	j := i
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	switch {
	case j >= len(src):
		return j
	case src[j] == ';':
		return j + 1
	case src[j] == '\n' || src[j] == '\r':
		return i
	default:
		return scanEnd(src, i)
	}
}

func skipTo(src string, i int, stop string) int {
	for i < len(src) {
		if src[i:min(i+len(stop), len(src))] == stop {
			return i
		}
		i++
	}
	return len(src)
}

func skipPast(src string, i int, stop string) int {
	j := skipTo(src, i, stop)
	return min(j+len(stop), len(src))
}

func skipString(src string, i int, quote byte) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(src)
}

func skipTemplate(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '`':
			return i + 1
		}
		i++
	}
	return len(src)
}
