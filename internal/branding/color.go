package branding

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a color as 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ParseHex reads a "#RRGGBB" string. The leading '#' is optional; any other
// shape reports false.
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, false
	}

	var ch [3]uint8

	for i := range ch {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, false
		}

		ch[i] = uint8(v)
	}

	return RGB{R: ch[0], G: ch[1], B: ch[2]}, true
}

// Hex renders the color back as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Tint mixes the color with white; weight 0 keeps it, 1 yields white.
func (c RGB) Tint(weight float64) RGB {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*weight + 0.5)
	}

	return RGB{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}
