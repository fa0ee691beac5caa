// Package palette converts between the textual color tokens carried by tree
// nodes and image/color values.
//
// Accepted tokens:
//
//	#rgb, #rrggbb
//	rgb(r, g, b), rgba(r, g, b, a)
//	hsl(h, s%, l%)
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// ErrUnknownColor is wrapped by every Parse failure.
var ErrUnknownColor = errors.New("unknown color token")

var prefixes = []string{"#", "rgb(", "rgba(", "hsl("}

// Parse converts a color token into an NRGBA value. Named colors and other
// CSS functions are rejected.
func Parse(token string) (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(token))
	known := false
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			known = true
			break
		}
	}
	if !known {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, token)
	}

	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q: %w", ErrUnknownColor, token, err)
	}
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}, nil
}

// MustParse is Parse for tokens known at compile time.
func MustParse(token string) color.NRGBA {
	c, err := Parse(token)
	if err != nil {
		panic(err)
	}
	return c
}

// HSL formats a hue (degrees) with saturation and lightness percentages.
func HSL(h, s, l int) string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", h, s, l)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
