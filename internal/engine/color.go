package engine

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is the primary color used when none is configured.
var DefaultColor = mustHex("#00ff00")

// Palette holds the colors balls are painted with and the color cycle order.
var Palette = []colorful.Color{
	mustHex("#ff0000"),
	mustHex("#00ff00"),
	mustHex("#0000ff"),
	mustHex("#ffff00"),
	mustHex("#ff00ff"),
	mustHex("#00ffff"),
}

var namedColors = map[string]string{
	"green":   "#00ff00",
	"red":     "#ff0000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"white":   "#ffffff",
	"amber":   "#ffb000",
}

// ParseColor accepts "#rrggbb", "#rgb" or a small set of color names.
func ParseColor(s string) (colorful.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[v]; ok {
		v = hex
	}
	if len(v) == 4 && v[0] == '#' {
		v = string([]byte{'#', v[1], v[1], v[2], v[2], v[3], v[3]})
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// NextColor returns the palette entry after c, or the first entry when c is
// not in the palette.
func NextColor(c colorful.Color) colorful.Color {
	for i, p := range Palette {
		if p.Hex() == c.Hex() {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
