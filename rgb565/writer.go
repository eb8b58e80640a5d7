package rgb565

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

var errSize = errors.New("rgb565: packed size mismatch")

func nrgbaAt(m image.Image, x, y int) color.NRGBA {
	if n, ok := m.(*image.NRGBA); ok {
		return n.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
}

// Pack composites and packs every pixel of m, returning the raw stream of
// exactly m.Bounds().Dx() × m.Bounds().Dy() × 2 bytes.
func Pack(m image.Image, o *Options) ([]byte, error) {
	b := m.Bounds()
	bg := o.background()

	dst := NewImage(b.Sub(b.Min), o.byteOrder())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := Composite(nrgbaAt(m, x, y), bg)
			dst.SetRGB565(x-b.Min.X, y-b.Min.Y, FromRGB(c.R, c.G, c.B))
		}
	}

	out, err := dst.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if want := b.Dx() * b.Dy() * 2; len(out) != want {
		return nil, fmt.Errorf("%w: %d bytes, expected %d", errSize, len(out), want)
	}
	return out, nil
}

// Encode writes the Image m to w as a raw RGB565 stream.
func Encode(w io.Writer, m image.Image, o *Options) error {
	b, err := Pack(m, o)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
