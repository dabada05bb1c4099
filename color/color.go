// Package color holds the 24-bit RGB colors used by embeds and roles.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by Parse for values that are not colors.
var ErrInvalidColor = errors.New("invalid color")

// Color is a 0xRRGGBB value. It marshals to JSON as a plain integer.
type Color uint32

// RGB is a color split into channels.
type RGB struct {
	Red, Green, Blue uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.Red, c.Green, c.Blue)
}

// Color packs the channels.
func (c RGB) Color() Color {
	return Color(uint32(c.Red)<<16 | uint32(c.Green)<<8 | uint32(c.Blue))
}

const (
	Default     Color = 0
	Teal        Color = 0x1ABC9C
	DarkTeal    Color = 0x11806A
	Green       Color = 0x2ECC71
	DarkGreen   Color = 0x1F8B4C
	Blue        Color = 0x3498DB
	DarkBlue    Color = 0x206694
	Purple      Color = 0x9B59B6
	DarkPurple  Color = 0x71368A
	Magenta     Color = 0xE91E63
	DarkMagenta Color = 0xAD1457
	Gold        Color = 0xF1C40F
	DarkGold    Color = 0xC27C0E
	Orange      Color = 0xE67E22
	DarkOrange  Color = 0xA84300
	Red         Color = 0xE74C3C
	DarkRed     Color = 0x992D22
	LighterGrey Color = 0x95A5A6
	DarkGrey    Color = 0x607D8B
	LightGrey   Color = 0x979C9F
	DarkerGrey  Color = 0x546E7A
	Blurple     Color = 0x5865F2
	Greyple     Color = 0x99AAB5
	DarkTheme   Color = 0x36393F
)

const maxColor = 0xFFFFFF

// Parse accepts an integer, a hex string with or without a leading '#', an RGB
// or a [3]int of channel values.
func Parse(v any) (Color, error) {
	switch x := v.(type) {
	case Color:
		return x, nil
	case RGB:
		return x.Color(), nil
	case int:
		return fromInt(int64(x))
	case int64:
		return fromInt(x)
	case uint32:
		return fromInt(int64(x))
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(x), "#")
		n, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a hex color", ErrInvalidColor, x)
		}
		return fromInt(int64(n))
	case [3]int:
		for _, ch := range x {
			if ch < 0 || ch > 255 {
				return 0, fmt.Errorf("%w: channel %d out of range", ErrInvalidColor, ch)
			}
		}
		return RGB{uint8(x[0]), uint8(x[1]), uint8(x[2])}.Color(), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidColor, v)
	}
}

func fromInt(n int64) (Color, error) {
	if n < 0 || n > maxColor {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidColor, n)
	}
	return Color(n), nil
}

// RGB splits c into channels.
func (c Color) RGB() RGB {
	return RGB{
		Red:   uint8(c >> 16),
		Green: uint8(c >> 8),
		Blue:  uint8(c),
	}
}

// Hex returns "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

func (c Color) String() string {
	return c.Hex()
}
