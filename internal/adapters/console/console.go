// Package console implements the IO capability handed to build callbacks.
package console

import (
	"io"
	"os"
	"sync"
)

// Console writes one line per Println call to its sink.
// Concurrent callers never interleave within a line.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a Console writing to w. A nil writer selects stdout.
func New(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

// Println writes message followed by a newline.
func (c *Console) Println(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Write errors on a diagnostic sink have nowhere better to go.
	_, _ = io.WriteString(c.w, message+"\n")
}
