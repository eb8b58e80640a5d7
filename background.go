package raw565

import (
	"image/color"
	"strconv"
	"strings"
)

// A UsageError reports invalid user input, as opposed to an image that
// cannot be decoded.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// ParseBackground parses a color written as six hex digits, RRGGBB, with an
// optional leading '#'.
func ParseBackground(s string) (color.RGBA, error) {
	v := strings.TrimLeft(s, "#")
	if len(v) != 6 {
		return color.RGBA{}, &UsageError{"background color must be in RRGGBB format"}
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.RGBA{}, &UsageError{"background color must be hexadecimal"}
	}
	return color.RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 0xff}, nil
}
