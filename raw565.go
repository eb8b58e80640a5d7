/*
Package raw565 converts PNG images into the raw RGB565 binaries loaded by
display firmware.

A conversion is a pure function of the input bytes and the Options. Converter
adds the file handling around it: the input is read fully once, and the
output is only written, after the whole packed buffer has been computed, when
its bytes differ from what is already on disk.
*/
package raw565

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io/ioutil"
	"log"

	"github.com/novaeco/raw565/png"
	"github.com/novaeco/raw565/rgb565"
)

const maxColors = 256

// Options control how pixels are packed.
type Options struct {
	// Background is composited under translucent pixels.
	Background color.RGBA
	// ByteOrder of each packed value; binary.LittleEndian emits the low
	// byte first.
	ByteOrder binary.ByteOrder
	// Colors, if non-zero, reduces the image to at most that many colors
	// before packing.
	Colors int
}

// DefaultOptions returns a black background, low byte first and no color
// reduction.
func DefaultOptions() Options {
	return Options{
		Background: color.RGBA{0, 0, 0, 0xff},
		ByteOrder:  binary.LittleEndian,
	}
}

type Converter struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options, logger *log.Logger) (*Converter, error) {
	if opts.Colors != 0 && (opts.Colors < 2 || opts.Colors > maxColors) {
		return nil, &UsageError{fmt.Sprintf("colors must be between 2 and %d", maxColors)}
	}
	if opts.ByteOrder == nil {
		opts.ByteOrder = binary.LittleEndian
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Converter{
		opts:   opts,
		logger: logger,
	}, nil
}

// ConvertBytes decodes the PNG image b and returns it packed as RGB565.
func (c *Converter) ConvertBytes(b []byte) ([]byte, error) {
	raw, _, err := c.convert(b)
	return raw, err
}

func (c *Converter) convert(b []byte) ([]byte, image.Rectangle, error) {
	m, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	if c.opts.Colors > 0 {
		m = reduce(m, c.opts.Background, c.opts.Colors)
	}

	raw, err := rgb565.Pack(m, &rgb565.Options{
		Background: c.opts.Background,
		ByteOrder:  c.opts.ByteOrder,
	})
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return raw, m.Bounds(), nil
}

// Convert converts the PNG file input and writes the result to output,
// creating its parent directory if needed. The output file is left alone if
// it already holds the same bytes.
func (c *Converter) Convert(input, output string) error {
	b, err := ioutil.ReadFile(input)
	if err != nil {
		return err
	}

	raw, r, err := c.convert(b)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if want := r.Dx() * r.Dy() * 2; len(raw) != want {
		return fmt.Errorf("conversion of %s produced %d bytes, expected %d", input, len(raw), want)
	}

	written, err := writeIfDifferent(output, raw)
	if err != nil {
		return err
	}
	if written {
		c.logger.Printf("Wrote %s (%dx%d, %d bytes)\n", output, r.Dx(), r.Dy(), len(raw))
	} else {
		c.logger.Printf("%s is unchanged\n", output)
	}

	return nil
}
