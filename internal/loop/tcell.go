package loop

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/termsaver/internal/draw"
	"github.com/tomz197/termsaver/internal/input"
)

// RunScreen drives scene on an initialized tcell screen. The caller owns
// Init and Fini. Key events are fed through the same parser as raw terminal
// bytes so scenes see identical input on both presenters.
func RunScreen(ctx context.Context, screen tcell.Screen, scene Scene, opts Options) error {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = func() (int, int, error) {
			w, h := screen.Size()
			return w, h, nil
		}
	}
	opts = opts.withDefaults()
	screen.HideCursor()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(screen, events, done)

	canvas := draw.NewCanvas(0, 0)
	sizer := newSizer(opts)
	sizer.apply(canvas)
	scene.Attach(canvas)

	frameTime := time.Second / time.Duration(opts.FPS)
	lastTime := time.Now()

	for {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		buf, closed := drainEvents(events, screen)
		in := input.Parse(buf)
		in.Closed = closed
		if scene.HandleInput(in, frameStart) || closed {
			return nil
		}

		sizer.apply(canvas)
		scene.Update(delta)

		scene.Draw(canvas)
		canvas.Present(screen)
		screen.Show()

		if !wait(ctx, frameTime-time.Since(frameStart)) {
			return nil
		}
	}
}

// pollEvents forwards screen events until Fini is called. Once done is
// closed, events are read and dropped so PollEvent still sees Fini.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
		}
	}
}

// drainEvents collects pending key events as raw terminal bytes.
func drainEvents(events <-chan tcell.Event, screen tcell.Screen) (buf []byte, closed bool) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return buf, true
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				buf = append(buf, keyBytes(ev)...)
			case *tcell.EventResize:
				screen.Sync()
			}
		default:
			return buf, false
		}
	}
}

// keyBytes maps a tcell key to the bytes a raw-mode terminal would send.
func keyBytes(ev *tcell.EventKey) []byte {
	switch ev.Key() {
	case tcell.KeyRune:
		return []byte(string(ev.Rune()))
	case tcell.KeyEscape:
		return []byte{'\x1b'}
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyCtrlC:
		return []byte{0x03}
	case tcell.KeyUp:
		return []byte("\x1b[A")
	case tcell.KeyDown:
		return []byte("\x1b[B")
	case tcell.KeyRight:
		return []byte("\x1b[C")
	case tcell.KeyLeft:
		return []byte("\x1b[D")
	default:
		// Still counts as a key press.
		return []byte{0}
	}
}
