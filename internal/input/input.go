// Package input turns raw terminal bytes into per-frame key presses.
package input

import "bufio"

// Input represents the keys pressed since the previous frame.
type Input struct {
	Quit    bool // q
	Escape  bool // lone ESC
	Space   bool
	Enter   bool
	Left    bool // arrow or h/a
	Right   bool // arrow or l/d
	Up      bool
	Down    bool
	Color   bool // c: cycle primary color
	Glow    bool // g: toggle halo
	Number  int  // Last digit pressed, -1 if none
	Any     bool // Any byte arrived
	Closed  bool // The underlying reader is gone
	Pressed []byte
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them into key presses. Arrow keys arrive as ESC [ X or ESC O X.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse interprets a batch of raw bytes. Escape sequences are consumed
// whole; only the plain arrows map to keys, anything else just counts as
// a key press.
func Parse(buf []byte) Input {
	in := Input{Number: -1, Pressed: buf, Any: len(buf) > 0}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			n := sequenceLen(buf[i:])
			if n == 3 {
				applyArrow(&in, buf[i+2])
			}
			i += n - 1
			continue
		}

		applyByte(&in, b)
	}
	return in
}

// sequenceLen returns the length of the CSI or SS3 sequence at the start of
// seq. A truncated sequence runs to the end of seq.
func sequenceLen(seq []byte) int {
	if seq[1] == 'O' {
		return min(3, len(seq))
	}
	j := 2
	for j < len(seq) && seq[j] >= 0x20 && seq[j] <= 0x3f {
		j++
	}
	if j < len(seq) && seq[j] >= 0x40 && seq[j] <= 0x7e {
		return j + 1
	}
	return j
}

func applyArrow(in *Input, final byte) {
	switch final {
	case 'A':
		in.Up = true
	case 'B':
		in.Down = true
	case 'C':
		in.Right = true
	case 'D':
		in.Left = true
	}
}

// applyByte records a single-byte key.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		in.Left = true
	case 'd', 'D', 'l', 'L':
		in.Right = true
	case 'w', 'W', 'k', 'K':
		in.Up = true
	case 's', 'S', 'j', 'J':
		in.Down = true
	case 'c', 'C':
		in.Color = true
	case 'g', 'G':
		in.Glow = true
	case ' ':
		in.Space = true
	case '\n', '\r':
		in.Enter = true
	case '\x1b':
		in.Escape = true
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}
