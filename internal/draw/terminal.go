package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once for smooth network flow.
// Stays under a typical 1500 byte MTU for SSH transmission.
const maxChunkSize = 1400

// Terminal control sequences.
const (
	seqClearScreen  = "\033[H\033[2J"
	seqHideCursor   = "\033[?25l"
	seqShowCursor   = "\033[?25h"
	seqResetStyle   = "\033[0m"
	seqAltScreenOn  = "\033[?1049h"
	seqAltScreenOff = "\033[?1049l"

	// Any-motion mouse tracking with SGR extended coordinates
	seqMouseOn  = "\033[?1003h\033[?1006h"
	seqMouseOff = "\033[?1006l\033[?1003l"

	// Focus in/out reporting
	seqFocusOn  = "\033[?1004h"
	seqFocusOff = "\033[?1004l"
)

// ChunkWriter accumulates text for terminal output and writes in chunks for
// smooth network flow (e.g. over SSH). Accumulate with MoveCursor, the color
// setters and WriteString, then Flush to write to the underlying writer.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
	numBuf [20]byte      // Scratch buffer for allocation-free integer formatting
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{
		bufw: bufio.NewWriterSize(w, 8192),
	}
}

// MoveCursor appends an ANSI cursor position sequence. col and row are 1-based.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.writeInt(row)
	cw.buf.WriteByte(';')
	cw.writeInt(col)
	cw.buf.WriteByte('H')
}

// SetForeground appends a truecolor foreground sequence.
func (cw *ChunkWriter) SetForeground(c Color) {
	cw.buf.WriteString("\033[38;2;")
	cw.writeRGB(c)
}

// SetBackground appends a truecolor background sequence.
func (cw *ChunkWriter) SetBackground(c Color) {
	cw.buf.WriteString("\033[48;2;")
	cw.writeRGB(c)
}

// ResetStyle appends an SGR reset.
func (cw *ChunkWriter) ResetStyle() {
	cw.buf.WriteString(seqResetStyle)
}

func (cw *ChunkWriter) writeRGB(c Color) {
	cw.writeInt(int(c.R))
	cw.buf.WriteByte(';')
	cw.writeInt(int(c.G))
	cw.buf.WriteByte(';')
	cw.writeInt(int(c.B))
	cw.buf.WriteByte('m')
}

func (cw *ChunkWriter) writeInt(v int) {
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(v), 10))
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteRune appends a rune to the buffer.
func (cw *ChunkWriter) WriteRune(r rune) {
	cw.buf.WriteRune(r)
}

// Len returns the number of pending bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqClearScreen)
}

// EnterScreen switches to the alternate screen, hides the cursor and enables
// mouse and focus reporting.
func EnterScreen(w io.Writer) {
	io.WriteString(w, seqAltScreenOn+seqHideCursor+seqMouseOn+seqFocusOn+seqClearScreen)
}

// LeaveScreen undoes EnterScreen.
func LeaveScreen(w io.Writer) {
	io.WriteString(w, seqFocusOff+seqMouseOff+seqResetStyle+seqShowCursor+seqAltScreenOff)
}
