/*
Package rgb565 packs 8-bit RGBA pixels into the 16-bit RGB565 format used by
embedded display controllers.

Each value holds 5 bits of red, 6 bits of green and 5 bits of blue, most
significant bits first. The low bits of each channel are truncated; there is
no rounding and no dithering. Pixels that are not fully opaque are composited
against a background color before they are packed.

A packed image has no header or footer. It is width × height values of two
bytes each, in row-major order, in either byte order.
*/
package rgb565

import (
	"encoding/binary"
	"image/color"
)

// Color is a packed RGB565 value.
type Color uint16

// FromRGB packs 8-bit channels into a Color by truncating each channel.
func FromRGB(r, g, b uint8) Color {
	return Color(uint16(r&0xf8)<<8 | uint16(g&0xfc)<<3 | uint16(b&0xf8)>>3)
}

// RGBA implements color.Color. Each channel is widened by replicating its
// high bits into the low bits.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>11) & 0x1f
	r = r<<3 | r>>2
	g = uint32(c>>5) & 0x3f
	g = g<<2 | g>>4
	b = uint32(c) & 0x1f
	b = b<<3 | b>>2
	return r | r<<8, g | g<<8, b | b<<8, 0xffff
}

func toColor(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	// Premultiplied channels, i.e. the color over black.
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts colors to Color. Translucent colors end up composited
// against black.
var Model = color.ModelFunc(toColor)

// Blend composites channel value src with opacity alpha over dst, rounding
// to the nearest value with ties going up.
func Blend(src, dst, alpha uint8) uint8 {
	a := uint32(alpha)
	return uint8((uint32(src)*a + uint32(dst)*(0xff-a) + 0x7f) / 0xff)
}

// Composite returns c composited over the opaque background bg. Opaque
// colors are returned unchanged.
func Composite(c color.NRGBA, bg color.RGBA) color.RGBA {
	if c.A == 0xff {
		return color.RGBA{c.R, c.G, c.B, 0xff}
	}
	return color.RGBA{
		Blend(c.R, bg.R, c.A),
		Blend(c.G, bg.G, c.A),
		Blend(c.B, bg.B, c.A),
		0xff,
	}
}

// Options are the encoding parameters.
type Options struct {
	// Background is composited under any pixel that is not fully opaque.
	// Its alpha is ignored.
	Background color.RGBA

	// ByteOrder is the order each 16-bit value is written in. A nil
	// ByteOrder means binary.LittleEndian, low byte first.
	ByteOrder binary.ByteOrder
}

func (o *Options) byteOrder() binary.ByteOrder {
	if o == nil || o.ByteOrder == nil {
		return binary.LittleEndian
	}
	return o.ByteOrder
}

func (o *Options) background() color.RGBA {
	if o == nil {
		return color.RGBA{0, 0, 0, 0xff}
	}
	return o.Background
}
