package draw

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Present copies the canvas into a tcell screen. Empty cells are blanked so a
// full Show() call leaves no stale content. The caller owns Show().
func (c *Canvas) Present(s tcell.Screen) {
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			ch, fg, bg, useBg := c.cell(row, col, topOffset, bottomOffset)
			if ch == 0 {
				s.SetContent(col, row, ' ', nil, tcell.StyleDefault)
				continue
			}
			style := tcell.StyleDefault.Foreground(tcellColor(fg))
			if useBg {
				style = style.Background(tcellColor(bg))
			}
			s.SetContent(col, row, ch, nil, style)
		}
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
