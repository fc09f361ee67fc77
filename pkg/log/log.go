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
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rewrite"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 45 // Base width for filename
	statusWidth = 12 // Width for outcome text
)

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 📝 formatResult formats a per-file result for display
func (l *Logger) formatResult(res rewrite.Result) string {
	var symbol rune
	var symbolColor color.Attribute
	switch res.Outcome {
	case rewrite.OutcomeRewritten:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case rewrite.OutcomeFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case rewrite.OutcomeSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	detail := res.Reason
	if res.Err != nil {
		detail = res.Err.Error()
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, res.Path),
		fmt.Sprintf("%-*s", statusWidth, res.Outcome.String()))
	if detail != "" {
		line += " " + color.New(color.Faint).Sprint(detail)
	}
	return line
}

// 📝 LogResult logs a per-file result
func (l *Logger) LogResult(ctx context.Context, res rewrite.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatResult(res))

	event := l.zlog.Info()
	if res.Outcome == rewrite.OutcomeFailed {
		event = l.zlog.Error().Err(res.Err)
	}
	event.
		Str("file", res.Path).
		Str("outcome", res.Outcome.String()).
		Str("reason", res.Reason).
		Int("replacements", res.Replacements).
		Msg("file processed")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
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

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

