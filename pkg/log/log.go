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

package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/srcpatch/pkg/patch"
)

// 🎨 Display configuration
const (
	ruleIndent   = 4  // spaces to indent rule entries
	nameWidth    = 40 // Base width for rule name
	statusWidth  = 15 // Width for status text
	matchesWidth = 3  // Width for the match count
)

// 🎯 Logger writes user-facing lines to the console and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	verbose bool
}

// 🏭 New creates a new logger. Rules that did not match are only printed
// when verbose is set.
func New(console io.Writer, zlog zerolog.Logger, verbose bool) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		verbose: verbose,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func ruleStatus(r patch.RuleResult) (rune, color.Attribute, string) {
	switch {
	case r.Applied > 0:
		return '✓', color.FgGreen, "applied"
	case r.AlreadyApplied > 0:
		return '•', color.FgCyan, "up to date"
	default:
		return '-', color.FgYellow, "no match"
	}
}

// 📝 formatRule formats a rule result for display
func (l *Logger) formatRule(r patch.RuleResult) string {
	symbol, symbolColor, status := ruleStatus(r)

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", ruleIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, r.Name),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, status)),
		fmt.Sprintf("%*d", matchesWidth, r.Matches))
}

// 📝 LogRule logs a single rule result
func (l *Logger) LogRule(ctx context.Context, r patch.RuleResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Matches > 0 || l.verbose {
		fmt.Fprintln(l.console, l.formatRule(r))
	}

	l.zlog.Debug().
		Str("rule", r.Name).
		Str("target", r.Target).
		Int("matches", r.Matches).
		Int("applied", r.Applied).
		Int("already_applied", r.AlreadyApplied).
		Msg("rule result")
}

// 📝 StartDocument prints the header for one file
func (l *Logger) StartDocument(ctx context.Context, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "[patching %s]\n", color.New(color.FgCyan).Sprint(path))
	l.zlog.Info().Str("path", path).Msg("patching document")
}

// 📝 EndDocument prints the per-file summary line
func (l *Logger) EndDocument(ctx context.Context, path string, matched, total int, written bool) {
	msg := fmt.Sprintf("Applied %d of %d rules to %s", matched, total, path)
	if matched > 0 && !written {
		msg += " (not written)"
	}
	if matched > 0 {
		l.Success(msg)
	} else {
		l.Info(msg)
	}
}

// 📝 LogDiff prints a unified diff with colored lines
func (l *Logger) LogDiff(diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(l.console, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(l.console, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(l.console, color.RedString("%s", line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(l.console, color.CyanString("%s", line))
		default:
			fmt.Fprint(l.console, line)
		}
	}
	if !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(l.console)
	}
}

// 📊 LogPlan renders the match table printed by `srcpatch check`
func (l *Logger) LogPlan(ctx context.Context, path string, plan []patch.RuleResult, overlaps []patch.Overlap) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := pterm.TableData{{"Rule", "Target", "Matches", "Spans"}}
	for _, r := range plan {
		spans := make([]string, 0, len(r.Spans))
		for _, s := range r.Spans {
			spans = append(spans, strconv.Itoa(s.Start)+"-"+strconv.Itoa(s.End))
		}
		data = append(data, []string{r.Name, r.Target, strconv.Itoa(r.Matches), strings.Join(spans, " ")})
	}

	fmt.Fprintf(l.console, "[checking %s]\n", color.New(color.FgCyan).Sprint(path))
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(l.console).WithData(data).Render(); err != nil {
		return err
	}

	for _, o := range overlaps {
		fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprintf("%s overlaps %s at %d-%d", o.First, o.Second, o.Span.Start, o.Span.End))
		l.zlog.Warn().Str("first", o.First).Str("second", o.Second).Int("start", o.Span.Start).Int("end", o.Span.End).Msg("overlapping rules")
	}

	return nil
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("srcpatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}
