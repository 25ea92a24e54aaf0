package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Glyph is a character placed on a whole terminal cell.
type Glyph struct {
	Rune  rune
	Color colorful.Color
}

// Canvas is a color drawing buffer with 2x vertical resolution using half-block characters.
// Drawing happens in logical coordinates which are scaled to terminal sub-pixels.
// Text glyphs live in a separate per-cell layer that takes priority over pixels.
type Canvas struct {
	termWidth      int              // Actual terminal columns
	termHeight     int              // Actual terminal rows
	subPixelHeight int              // termHeight * 2
	pixels         []colorful.Color // Flat slice: [y * termWidth + x], black means unset
	glyphs         []Glyph          // Flat slice: [row * termWidth + col]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas for the given terminal dimensions.
// No scaling is applied (1:1 mapping to sub-pixels).
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// Negative dimensions are treated as zero.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]colorful.Color, subPixelHeight*termWidth)
		c.glyphs = make([]Glyph, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.updateScale()
}

// SetLogicalSize changes the logical coordinate space mapped onto the terminal.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth = width
	c.logicalHeight = height
	c.updateScale()
}

func (c *Canvas) updateScale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// Size returns the logical width and height. Both are zero when the canvas
// has no drawable area.
func (c *Canvas) Size() (width, height int) {
	if c.termWidth == 0 || c.termHeight == 0 {
		return 0, 0
	}
	return int(c.logicalWidth), int(c.logicalHeight)
}

// Clear resets all pixels and glyphs in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
	clear(c.glyphs)
}

// Fade darkens everything on the canvas as if a black layer with the given
// opacity was painted over it. Pixels that become invisible are unset.
func (c *Canvas) Fade(alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha >= 1 {
		c.Clear()
		return
	}
	keep := 1 - alpha
	for i, p := range c.pixels {
		if p == (colorful.Color{}) {
			continue
		}
		p = scale(p, keep)
		if !Lit(p) {
			p = colorful.Color{}
		}
		c.pixels[i] = p
	}
	for i, g := range c.glyphs {
		if g.Rune == 0 {
			continue
		}
		g.Color = scale(g.Color, keep)
		if !Lit(g.Color) {
			g = Glyph{}
		}
		c.glyphs[i] = g
	}
}

// setPixel sets a pixel at actual terminal sub-pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col colorful.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the color of a sub-pixel. Out of range pixels are black.
func (c *Canvas) Pixel(x, y int) colorful.Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return colorful.Color{}
}

// GlyphAt returns the glyph at a 0-based terminal cell.
func (c *Canvas) GlyphAt(col, row int) Glyph {
	if col >= 0 && col < c.termWidth && row >= 0 && row < c.termHeight {
		return c.glyphs[row*c.termWidth+col]
	}
	return Glyph{}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col colorful.Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool, col colorful.Color) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// FillPolygon draws a filled polygon.
func (c *Canvas) FillPolygon(points []Point, col colorful.Color) {
	c.DrawPolygon(points, true, col)
}

// FillRect draws a filled axis-aligned rectangle with its top-left corner at (x, y).
func (c *Canvas) FillRect(x, y, w, h float64, col colorful.Color) {
	pts := c.BorrowPoints(4)
	pts[0] = Point{X: x, Y: y}
	pts[1] = Point{X: x + w, Y: y}
	pts[2] = Point{X: x + w, Y: y + h}
	pts[3] = Point{X: x, Y: y + h}
	c.fillPolygon(pts, col)
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, col colorful.Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := max(int(math.Ceil(intersections[i]-0.5)), 0)
			xEnd := min(int(math.Floor(intersections[i+1]-0.5)), c.termWidth-1)
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// FillCircle draws a filled circle centered at (x, y) in logical space.
// Because horizontal and vertical scales differ, the circle becomes an
// ellipse in pixel space. Circles smaller than a pixel still light their
// center pixel.
func (c *Canvas) FillCircle(x, y, r float64, col colorful.Color) {
	if r <= 0 || c.scaleX == 0 || c.scaleY == 0 {
		return
	}
	pcx, pcy := x*c.scaleX, y*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY

	if rx < 0.5 && ry < 0.5 {
		c.setPixel(int(math.Floor(pcx)), int(math.Floor(pcy)), col)
		return
	}

	yStart := max(int(math.Floor(pcy-ry)), 0)
	yEnd := min(int(math.Ceil(pcy+ry)), c.subPixelHeight-1)
	xStart := max(int(math.Floor(pcx-rx)), 0)
	xEnd := min(int(math.Ceil(pcx+rx)), c.termWidth-1)

	for py := yStart; py <= yEnd; py++ {
		dy := (float64(py) + 0.5 - pcy) / ry
		for px := xStart; px <= xEnd; px++ {
			dx := (float64(px) + 0.5 - pcx) / rx
			if dx*dx+dy*dy <= 1 {
				c.setPixel(px, py, col)
			}
		}
	}
}

// DrawGlyph places a character on the terminal cell containing logical point (x, y).
func (c *Canvas) DrawGlyph(x, y float64, ch rune, col colorful.Color) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	if py < 0 {
		return
	}
	c.setGlyph(px, py/2, ch, col)
}

// DrawText writes s starting at a 0-based terminal cell. Spaces are written
// too, so text hides whatever is underneath. Text is clipped at the edges.
func (c *Canvas) DrawText(col, row int, s string, clr colorful.Color) {
	for _, r := range s {
		c.setGlyph(col, row, r, clr)
		col++
	}
}

func (c *Canvas) setGlyph(col, row int, ch rune, clr colorful.Color) {
	if col >= 0 && col < c.termWidth && row >= 0 && row < c.termHeight {
		c.glyphs[row*c.termWidth+col] = Glyph{Rune: ch, Color: clr}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Slightly below a typical 1500 byte MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using truecolor half-block characters.
// Unset cells are skipped, so the caller clears the screen beforehand.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 24)

	var fg, bg colorful.Color
	hasFg, hasBg := false, false
	lastRow, lastCol := -1, -1

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			ch, cellFg, cellBg, useBg := c.cell(row, col, topOffset, bottomOffset)
			if ch == 0 {
				continue
			}

			if row != lastRow || col != lastCol+1 {
				c.moveCursor(col+1, row+1)
			}
			lastRow, lastCol = row, col

			if !hasFg || cellFg != fg {
				c.writeColor(38, cellFg)
				fg, hasFg = cellFg, true
			}
			switch {
			case useBg && (!hasBg || cellBg != bg):
				c.writeColor(48, cellBg)
				bg, hasBg = cellBg, true
			case !useBg && hasBg:
				c.renderBuf.WriteString("\033[49m")
				hasBg = false
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	if hasFg || hasBg {
		c.renderBuf.WriteString("\033[0m")
	}

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// cell resolves what to show in a terminal cell. A zero rune means the cell is empty.
func (c *Canvas) cell(row, col, topOffset, bottomOffset int) (ch rune, fg, bg colorful.Color, useBg bool) {
	if g := c.glyphs[row*c.termWidth+col]; g.Rune != 0 {
		return g.Rune, g.Color, colorful.Color{}, false
	}

	top := c.pixels[topOffset+col]
	bottom := c.pixels[bottomOffset+col]
	topLit, bottomLit := Lit(top), Lit(bottom)

	switch {
	case topLit && bottomLit && top == bottom:
		return BlockFull, top, colorful.Color{}, false
	case topLit && bottomLit:
		return BlockUpperHalf, top, bottom, true
	case topLit:
		return BlockUpperHalf, top, colorful.Color{}, false
	case bottomLit:
		return BlockLowerHalf, bottom, colorful.Color{}, false
	}
	return 0, colorful.Color{}, colorful.Color{}, false
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor appends a truecolor SGR sequence; layer is 38 (foreground) or 48 (background).
func (c *Canvas) writeColor(layer int, col colorful.Color) {
	r, g, b := col.RGB255()
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(r), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(g), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(b), 10))
	c.renderBuf.WriteByte('m')
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
