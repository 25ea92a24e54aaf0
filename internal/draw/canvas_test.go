package draw

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var green = colorful.Color{G: 1}

func countLit(c *Canvas) int {
	n := 0
	for _, p := range c.pixels {
		if Lit(p) {
			n++
		}
	}
	return n
}

func TestSizeReportsLogicalDimensions(t *testing.T) {
	c := NewScaledCanvas(80, 24, 640, 384)
	w, h := c.Size()
	if w != 640 || h != 384 {
		t.Errorf("expected 640x384, got %dx%d", w, h)
	}

	c.Resize(0, 24)
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Errorf("expected empty size for zero-width terminal, got %dx%d", w, h)
	}
}

func TestResizeKeepsLogicalSpace(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(0, 0, 100, 100, green)
	c.Resize(20, 10)
	if countLit(c) != 0 {
		t.Error("expected fresh buffer after resize")
	}
	if c.TerminalWidth() != 20 || c.TerminalHeight() != 10 {
		t.Errorf("unexpected terminal size %dx%d", c.TerminalWidth(), c.TerminalHeight())
	}
	c.FillRect(0, 0, 100, 100, green)
	if countLit(c) != 20*20 {
		t.Errorf("expected all %d pixels lit, got %d", 20*20, countLit(c))
	}
}

func TestSetLogicalSizeRescales(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.SetLogicalSize(200, 200)
	c.FillRect(0, 0, 100, 100, green)
	if got := countLit(c); got != 5*5 {
		t.Errorf("expected a quarter of the canvas lit, got %d pixels", got)
	}
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillCircle(10, 10, 4, green)

	if !Lit(c.Pixel(10, 10)) {
		t.Error("expected center lit")
	}
	if Lit(c.Pixel(0, 0)) || Lit(c.Pixel(19, 19)) {
		t.Error("expected corners dark")
	}
	lit := countLit(c)
	area := math.Pi * 16
	if math.Abs(float64(lit)-area) > area*0.3 {
		t.Errorf("expected about %.0f pixels, got %d", area, lit)
	}
}

func TestTinyCircleLightsOnePixel(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillCircle(5.2, 7.7, 0.1, green)
	if countLit(c) != 1 || !Lit(c.Pixel(5, 7)) {
		t.Errorf("expected single pixel at (5, 7), got %d lit", countLit(c))
	}
	c.FillCircle(5, 5, 0, green)
	if countLit(c) != 1 {
		t.Error("zero radius should draw nothing")
	}
}

func TestFillCircleOffCanvas(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillCircle(-1e6, 1e6, 50, green)
	if countLit(c) != 0 {
		t.Error("expected nothing drawn far off canvas")
	}
}

func TestFadeDarkensAndClears(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(0, 0, 4, 4, green)
	c.DrawGlyph(0, 0, 'ア', green)

	c.Fade(0.5)
	if got := c.Pixel(1, 1).G; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected half brightness, got %v", got)
	}
	if g := c.GlyphAt(0, 0); g.Rune != 'ア' || math.Abs(g.Color.G-0.5) > 1e-9 {
		t.Errorf("expected faded glyph, got %+v", g)
	}

	for range 200 {
		c.Fade(0.05)
	}
	if countLit(c) != 0 {
		t.Error("expected pixels to fade out completely")
	}
	if c.GlyphAt(0, 0).Rune != 0 {
		t.Error("expected glyph to fade out completely")
	}
}

func TestFadeFullOpacityClears(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(0, 0, 4, 4, green)
	c.Fade(1)
	if countLit(c) != 0 {
		t.Error("expected full fade to clear")
	}
}

func TestDrawGlyphAndText(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.DrawGlyph(35, 45, 'X', green)
	if c.GlyphAt(3, 2).Rune != 'X' {
		t.Errorf("expected glyph at cell (3, 2), got %q", c.GlyphAt(3, 2).Rune)
	}

	c.DrawGlyph(35, -5, 'Y', green)
	for col := range 10 {
		if c.GlyphAt(col, 0).Rune == 'Y' {
			t.Error("glyph above the top edge should be dropped")
		}
	}

	c.DrawText(8, 4, "ab c", green)
	if c.GlyphAt(8, 4).Rune != 'a' || c.GlyphAt(9, 4).Rune != 'b' {
		t.Error("expected text written at the bottom right")
	}
}

func TestRotatedPolygonFill(t *testing.T) {
	c := NewCanvas(40, 20)
	pts := c.BorrowPoints(4)
	RotatedSquare(pts, 20, 20, 10, math.Pi/4)
	c.FillPolygon(pts, green)

	if !Lit(c.Pixel(20, 20)) {
		t.Error("expected center of the diamond lit")
	}
	if Lit(c.Pixel(15, 15)) {
		t.Error("expected corner of the bounding box dark for a diamond")
	}
}

func TestRenderEmitsColorAndBlocks(t *testing.T) {
	c := NewCanvas(3, 1)
	c.setPixel(0, 0, green)
	c.setPixel(0, 1, green)
	c.setPixel(1, 0, green)
	c.setPixel(2, 1, colorful.Color{R: 1})

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	for _, want := range []string{"\033[1;1H", "\033[38;2;0;255;0m", string(BlockFull), string(BlockUpperHalf), string(BlockLowerHalf), "\033[38;2;255;0;0m", "\033[0m"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestRenderTwoColorCell(t *testing.T) {
	c := NewCanvas(1, 1)
	c.setPixel(0, 0, green)
	c.setPixel(0, 1, colorful.Color{B: 1})

	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.Contains(buf.String(), "\033[48;2;0;0;255m") {
		t.Errorf("expected blue background for the lower half, got %q", buf.String())
	}
}

func TestRenderEmptyCanvas(t *testing.T) {
	var buf bytes.Buffer
	NewCanvas(10, 4).Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestChunkWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf)
	ClearScreen(cw)
	HideCursor(cw)
	if cw.Len() == 0 || buf.Len() != 0 {
		t.Fatal("expected output buffered until flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if got, want := buf.String(), "\033[H\033[2J\033[?25l"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if cw.Len() != 0 {
		t.Error("expected buffer reset after flush")
	}
}

func TestChunkWriterLargeFrame(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf)
	big := strings.Repeat("x", maxChunkSize*3+7)
	io.WriteString(cw, big)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != big {
		t.Error("expected chunked output to reassemble to the input")
	}
}
