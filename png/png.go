/*
Package png implements a decoder for baseline, non-interlaced PNG images.

The decoder is lenient about the container and strict about the pixels.
Chunk CRCs are read but never checked and chunk types it does not know are
skipped, so ancillary chunks never stop an image from decoding. Every color
type and bit depth combination that is not explicitly supported is rejected
instead of being decoded on a best-effort basis.

Supported combinations are 8-bit grayscale, truecolor, grayscale with alpha
and truecolor with alpha, plus indexed color at 1, 2, 4 or 8 bits per pixel.
Images are returned as *image.NRGBA.
*/
package png

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"io/ioutil"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

type colorType uint8

const (
	ctGrayscale      colorType = 0
	ctTrueColor      colorType = 2
	ctPaletted       colorType = 3
	ctGrayscaleAlpha colorType = 4
	ctTrueColorAlpha colorType = 6
)

func (ct colorType) String() string {
	switch ct {
	case ctGrayscale:
		return "grayscale"
	case ctTrueColor:
		return "truecolor"
	case ctPaletted:
		return "indexed"
	case ctGrayscaleAlpha:
		return "grayscale+alpha"
	case ctTrueColorAlpha:
		return "truecolor+alpha"
	}
	return fmt.Sprintf("color type %d", uint8(ct))
}

// samples returns the number of samples per pixel for the color type.
func (ct colorType) samples() int {
	switch ct {
	case ctTrueColor:
		return 3
	case ctGrayscaleAlpha:
		return 2
	case ctTrueColorAlpha:
		return 4
	}
	return 1
}

// maxPixels bounds width × height so the decoded image can be allocated.
const maxPixels = 1 << 28

// A DecodeError reports a PNG stream that is malformed or uses a feature
// this decoder does not support.
type DecodeError struct {
	Msg string
	Err error // underlying cause, e.g. from the inflater
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return "png: " + e.Msg + ": " + e.Err.Error()
	}
	return "png: " + e.Msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func errorf(format string, a ...interface{}) error {
	return &DecodeError{Msg: fmt.Sprintf(format, a...)}
}

// Decode reads a PNG image from r and returns it as an image.Image. The
// concrete type is *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var d decoder
	if err := d.readChunks(b); err != nil {
		return nil, err
	}
	m, err := d.decodeImage()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeConfig returns the color model and dimensions of a PNG image without
// inflating the image data. Indexed images report their palette as the color
// model.
func DecodeConfig(r io.Reader) (image.Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	var d decoder
	if err := d.readChunks(b); err != nil {
		return image.Config{}, err
	}
	var model color.Model = color.NRGBAModel
	if d.colorType == ctPaletted {
		p := make(color.Palette, len(d.palette))
		for i, c := range d.palette {
			p[i] = c
		}
		model = p
	}
	return image.Config{
		ColorModel: model,
		Width:      int(d.width),
		Height:     int(d.height),
	}, nil
}
