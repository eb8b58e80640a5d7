package raw565

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/novaeco/raw565/rgb565"
)

// reduce flattens m onto bg and maps it onto a median cut palette of at most
// n colors. Pixels are mapped to the nearest palette entry, without
// dithering.
func reduce(m image.Image, bg color.RGBA, n int) *image.Paletted {
	b := m.Bounds()

	flat := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			flat.SetRGBA(x, y, rgb565.Composite(c, bg))
		}
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), flat))
	draw.Draw(pm, b, flat, b.Min, draw.Src)
	return pm
}
