// Package logger implements ports.Logger on top of log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/pave/internal/core/ports"
)

// messager is implemented by zerr.Error.
type messager interface {
	Message() string
}

// metadataer is implemented by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// Location metadata keys. When an error carries them they are rendered as a
// single "at file:line:column" line instead of separate fields.
const (
	keyFile   = "file"
	keyLine   = "line"
	keyColumn = "column"
)

// Logger implements ports.Logger. Output is pretty-printed by default and
// can be switched to JSON.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	args     []any
}

// New creates a Logger writing to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput changes the destination. A nil writer means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode)).With(l.args...)
}

// SetJSON switches between JSON and pretty output, keeping the destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newHandler(w, enable)).With(l.args...)
}

// With returns a Logger adding args to every record. A "target" attribute is
// rendered as a message prefix in pretty output.
func (l *Logger) With(args ...any) ports.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Logger{
		logger:   l.logger.With(args...),
		jsonMode: l.jsonMode,
		output:   l.output,
		args:     append(slices.Clip(l.args), args...),
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain and metadata.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		args := []any{"error", err.Error()}
		for _, e := range collectErrorEntries(err) {
			for _, k := range slices.Sorted(maps.Keys(e.Metadata)) {
				args = append(args, k, e.Metadata[k])
			}
		}
		l.logger.Error("operation failed", args...)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of zerr errors. A standard error ends
// the walk with its full text. A zerr link without a message, as produced by
// zerr.With on a standard error, lends its metadata to the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var carried map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: carried})
			break
		}

		var md map[string]any
		if mdr, ok := current.(metadataer); ok {
			md = mdr.Metadata()
		}

		if m.Message() == "" {
			if carried == nil {
				carried = make(map[string]any, len(md))
			}
			maps.Copy(carried, md)
			current = errors.Unwrap(current)
			continue
		}

		if carried != nil {
			maps.Copy(carried, md)
			md, carried = carried, nil
		}
		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: md})
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders entries as:
//
//	Error: outer
//	       key: value
//
//	  Caused by:
//	    → inner
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, e := range entries {
		msgLines := strings.Split(e.Message, "\n")

		first, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			first, indent = "    → ", "      "
		}

		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, line := range metadataLines(e.Metadata) {
			lines = append(lines, indent+line)
		}
	}

	return strings.Join(lines, "\n")
}

func metadataLines(md map[string]any) []string {
	if len(md) == 0 {
		return nil
	}

	var lines []string
	rest := md
	if file, ok := md[keyFile]; ok {
		if line, ok := md[keyLine]; ok {
			loc := fmt.Sprintf("at %v:%v", file, line)
			if col, ok := md[keyColumn]; ok {
				loc += fmt.Sprintf(":%v", col)
			}
			lines = append(lines, loc)

			rest = maps.Clone(md)
			delete(rest, keyFile)
			delete(rest, keyLine)
			delete(rest, keyColumn)
		}
	}

	for _, k := range slices.Sorted(maps.Keys(rest)) {
		lines = append(lines, fmt.Sprintf("%s: %v", k, rest[k]))
	}
	return lines
}
