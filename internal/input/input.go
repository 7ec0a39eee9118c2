package input

import (
	"io"
	"strconv"
	"strings"
)

// Kind identifies what an Event carries.
type Kind int

const (
	KindKey   Kind = iota // Key press; Key holds the byte
	KindMove              // Pointer moved; Col/Row hold the cell
	KindClick             // Primary button pressed; Col/Row hold the cell
	KindFocus             // Focus changed; Focused tells which way
)

// Event is one decoded terminal input event. Cell positions are 1-based.
type Event struct {
	Kind    Kind
	Key     byte
	Col     int
	Row     int
	Focused bool
}

// Action is what a key press asks the host to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleTheme
	ActionRefresh
)

// KeyAction maps a key byte to its action.
func KeyAction(b byte) Action {
	switch b {
	case 'q', 'Q', 0x03: // 0x03 is Ctrl-C in raw mode
		return ActionQuit
	case 't', 'T':
		return ActionToggleTheme
	case 'r', 'R':
		return ActionRefresh
	}
	return ActionNone
}

// SGR mouse report bits.
const (
	mouseButtonMask = 0x03
	mouseMotion     = 0x20
	mouseWheel      = 0x40
)

// maxSequence bounds how many bytes of an unfinished escape sequence are
// buffered before they are dropped as garbage.
const maxSequence = 32

// Parser decodes a raw terminal byte stream into events. Escape sequences
// split across reads are buffered until complete.
type Parser struct {
	pending []byte
}

// Feed decodes data and calls emit for every complete event.
func (p *Parser) Feed(data []byte, emit func(Event)) {
	buf := data
	if len(p.pending) > 0 {
		buf = append(p.pending, data...)
		p.pending = p.pending[:0]
	}

	for i := 0; i < len(buf); {
		b := buf[i]
		if b != '\x1b' {
			emit(Event{Kind: KindKey, Key: b})
			i++
			continue
		}

		// Lone ESC at the end may be the start of a split sequence
		if i+1 >= len(buf) {
			p.keep(buf[i:])
			return
		}
		if buf[i+1] != '[' {
			emit(Event{Kind: KindKey, Key: b})
			i++
			continue
		}

		end, ok := csiEnd(buf, i+2)
		if end < 0 {
			p.keep(buf[i:])
			return
		}
		if ok {
			p.decodeCSI(buf[i+2:end], buf[end], emit)
		}
		i = end + 1
	}
}

// keep stores an unfinished sequence for the next Feed.
func (p *Parser) keep(rest []byte) {
	if len(rest) > maxSequence {
		return
	}
	p.pending = append(p.pending[:0], rest...)
}

// csiEnd returns the index of the last byte of a CSI sequence whose
// parameters start at from, or -1 if the sequence is incomplete. ok is false
// for a malformed sequence, which is consumed without being decoded.
//
// SGR mouse reports ("<b;c;r" then M or m) only carry parameter bytes, so any
// other byte marks the report as garbage up to its M/m. A new ESC ends the
// garbage early and starts the next sequence.
func csiEnd(buf []byte, from int) (end int, ok bool) {
	if from < len(buf) && buf[from] == '<' {
		bad := false
		for j := from + 1; j < len(buf); j++ {
			switch b := buf[j]; {
			case b == 'M' || b == 'm':
				return j, !bad
			case b == '\x1b':
				return j - 1, false
			case b < 0x30 || b > 0x3f:
				bad = true
			}
		}
		return -1, false
	}
	for j := from; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e {
			return j, true
		}
	}
	return -1, false
}

func (p *Parser) decodeCSI(params []byte, final byte, emit func(Event)) {
	switch {
	case len(params) == 0 && final == 'I':
		emit(Event{Kind: KindFocus, Focused: true})
	case len(params) == 0 && final == 'O':
		emit(Event{Kind: KindFocus, Focused: false})
	case len(params) > 0 && params[0] == '<' && (final == 'M' || final == 'm'):
		if ev, ok := decodeMouse(string(params[1:]), final == 'M'); ok {
			emit(ev)
		}
	}
	// Other sequences (arrows, function keys) have no binding
}

// decodeMouse parses the "b;col;row" body of an SGR mouse report.
func decodeMouse(body string, press bool) (Event, bool) {
	fields := strings.Split(body, ";")
	if len(fields) != 3 {
		return Event{}, false
	}
	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Event{}, false
		}
		nums[i] = n
	}
	button, col, row := nums[0], nums[1], nums[2]

	switch {
	case button&mouseWheel != 0:
		return Event{}, false
	case button&mouseMotion != 0:
		return Event{Kind: KindMove, Col: col, Row: row}, true
	case press && button&mouseButtonMask == 0:
		return Event{Kind: KindClick, Col: col, Row: row}, true
	}
	return Event{}, false
}

// Stream delivers decoded events from a reader via a channel.
type Stream struct {
	ch chan Event
}

// StartStream spawns a goroutine that reads from r and sends decoded events.
// The channel is closed when r returns an error.
func StartStream(r io.Reader) *Stream {
	s := &Stream{ch: make(chan Event, 128)}
	go func() {
		defer close(s.ch)
		var p Parser
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				p.Feed(buf[:n], func(ev Event) { s.ch <- ev })
			}
			if err != nil {
				return
			}
		}
	}()
	return s
}

// Events returns the event channel.
func (s *Stream) Events() <-chan Event {
	return s.ch
}
