package rgb565

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Image is an in-memory image whose pixels are packed RGB565 values stored
// in ByteOrder.
type Image struct {
	// Pix holds two bytes per pixel. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*2].
	Pix       []byte
	Stride    int
	Rect      image.Rectangle
	ByteOrder binary.ByteOrder
}

// NewImage returns a new Image with the given bounds and byte order. A nil
// order means binary.LittleEndian.
func NewImage(r image.Rectangle, order binary.ByteOrder) *Image {
	if order == nil {
		order = binary.LittleEndian
	}
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r, ByteOrder: order}
	}
	return &Image{
		Pix:       make([]byte, 2*w*h),
		Stride:    2 * w,
		Rect:      r,
		ByteOrder: order,
	}
}

func (p *Image) ColorModel() color.Model { return Model }

func (p *Image) Bounds() image.Rectangle { return p.Rect }

func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return Color(p.ByteOrder.Uint16(p.Pix[i : i+2]))
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(Color))
}

func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.ByteOrder.PutUint16(p.Pix[i:i+2], uint16(c))
}

// MarshalBinary returns the pixels as a raw stream, rows packed without
// padding.
func (p *Image) MarshalBinary() ([]byte, error) {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	b := make([]byte, 0, 2*w*h)
	for y := 0; y < h; y++ {
		i := y * p.Stride
		b = append(b, p.Pix[i:i+2*w]...)
	}
	return b, nil
}

// UnmarshalBinary replaces the pixels with the raw stream b, which must hold
// exactly one value per pixel of p.Rect.
func (p *Image) UnmarshalBinary(b []byte) error {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	switch {
	case len(b) < 2*w*h:
		return errNotEnough
	case len(b) > 2*w*h:
		return errTooMuch
	}
	if len(p.Pix) < 2*w*h || p.Stride != 2*w {
		p.Pix = make([]byte, 2*w*h)
		p.Stride = 2 * w
	}
	copy(p.Pix, b)
	return nil
}
