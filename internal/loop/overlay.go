package loop

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/termsaver/internal/draw"
)

// Overlays are laid out with lipgloss but drawn into the canvas glyph layer,
// so styles carry geometry only. Colors are applied per glyph.
var (
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
	messageStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 4).Align(lipgloss.Center)

	panelColor = colorful.Color{R: 0.75, G: 0.75, B: 0.75}
	hintColor  = colorful.Color{R: 0.6, G: 0.6, B: 0.6}
)

// Panel geometry: border plus padding before the first content cell.
const (
	panelInsetCol = 1 + 3
	panelInsetRow = 1 + 1
)

// drawBlock writes a multi-line block with its top-left corner at col, row.
func drawBlock(c *draw.Canvas, col, row int, block string, clr colorful.Color) {
	for i, line := range strings.Split(block, "\n") {
		c.DrawText(col, row+i, line, clr)
	}
}

// centerBlock returns the top-left cell that centers block on the canvas.
func centerBlock(c *draw.Canvas, block string) (col, row int) {
	col = (c.TerminalWidth() - lipgloss.Width(block)) / 2
	row = (c.TerminalHeight() - lipgloss.Height(block)) / 2
	return max(col, 0), max(row, 0)
}

// drawFooter centers a single line near the bottom edge.
func drawFooter(c *draw.Canvas, text string, clr colorful.Color) {
	row := c.TerminalHeight() - 2
	if row < 0 {
		return
	}
	col := max((c.TerminalWidth()-lipgloss.Width(text))/2, 0)
	c.DrawText(col, row, text, clr)
}
