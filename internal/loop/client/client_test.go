package client

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/backdrop/internal/loop"
	"github.com/tomz197/backdrop/internal/loop/config"
)

// lockedBuffer is written by the driver goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func testOptions(w, h int) ClientOptions {
	return ClientOptions{
		TermSizeFunc: fixedSize(w, h),
		World:        loop.Options{Particles: 20, Seed: 1},
		Logger:       log.New(io.Discard),
	}
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h int
		want layout
	}{
		{80, 24, layout{cols: 80, rows: 24}},
		{config.MaxTermWidth + 10, 24, layout{cols: config.MaxTermWidth, rows: 24, offsetCol: 5}},
		{80, config.MaxTermHeight + 7, layout{cols: 80, rows: config.MaxTermHeight, offsetRow: 3}},
		{-1, 0, layout{}},
	}
	for _, tt := range tests {
		if got := clampTermSize(tt.w, tt.h); got != tt.want {
			t.Fatalf("clampTermSize(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestCellToLogical(t *testing.T) {
	c := NewClient(strings.NewReader(""), io.Discard, testOptions(80, 24))
	c.layout.Store(&layout{cols: 80, rows: 24, offsetCol: 2, offsetRow: 1})

	x, y := c.cellToLogical(3, 2)
	if x != 0.5*config.CellWidth || y != 0.5*config.CellHeight {
		t.Fatalf("cellToLogical = (%v, %v)", x, y)
	}
}

func TestRunRendersUntilQuit(t *testing.T) {
	pr, pw := io.Pipe()
	var out lockedBuffer
	c := NewClient(pr, &out, testOptions(40, 12))

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	// Let a few frames through, then move, click and quit
	time.Sleep(100 * time.Millisecond)
	io.WriteString(pw, "\x1b[<35;10;5M\x1b[<0;10;5M")
	time.Sleep(50 * time.Millisecond)
	io.WriteString(pw, "q")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}
	pw.Close()

	got := out.String()
	if !strings.HasPrefix(got, "\033[?1049h") {
		t.Fatalf("output does not enter the alternate screen: %q", got[:min(len(got), 40)])
	}
	if !strings.HasSuffix(got, "\033[?1049l") {
		t.Fatal("output does not leave the alternate screen")
	}
	if !strings.Contains(got, "\033[48;2;") {
		t.Fatal("no cells rendered")
	}

	w := c.Driver().World()
	if w.Screen().Width != 40*config.CellWidth || w.Screen().Height != 12*config.CellHeight {
		t.Fatalf("world screen %+v", w.Screen())
	}
}

func TestRunEndsOnEOF(t *testing.T) {
	c := NewClient(strings.NewReader(""), io.Discard, testOptions(20, 10))
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return on EOF")
	}
}
