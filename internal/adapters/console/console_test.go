package console_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pave/internal/adapters/console"
)

func TestConsole_Println(t *testing.T) {
	var buf bytes.Buffer
	c := console.New(&buf)

	c.Println("hello")
	c.Println("")
	c.Println("world")

	assert.Equal(t, "hello\n\nworld\n", buf.String())
}

func TestConsole_ConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	c := console.New(&buf)
	line := strings.Repeat("x", 512)

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			for range 10 {
				c.Println(line)
			}
		})
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 160)
	for _, l := range lines {
		assert.Equal(t, line, l)
	}
}

func TestConsole_NilWriterDefaultsToStdout(t *testing.T) {
	assert.NotNil(t, console.New(nil))
}
