package png

import (
	"encoding/binary"
	"image/color"
	"io"
)

const ihdrLength = 13

type decoder struct {
	seenIHDR    bool
	width       uint32
	height      uint32
	depth       uint8
	colorType   colorType
	compression uint8
	filter      uint8
	interlace   uint8

	plte    []byte
	trns    []byte
	palette []color.NRGBA

	numIDAT int
	idat    []byte
}

// readChunks collects the image descriptor, the palette tables and the
// concatenated IDAT payloads, then checks the descriptor can be decoded.
func (d *decoder) readChunks(b []byte) error {
	r, err := newChunkReader(b)
	if err != nil {
		return err
	}

	for {
		c, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch c.typ {
		case "IHDR":
			if err := d.parseIHDR(c.data); err != nil {
				return err
			}
		case "PLTE":
			if len(c.data)%3 != 0 {
				return errorf("invalid PLTE length %d", len(c.data))
			}
			d.plte = c.data
		case "tRNS":
			d.trns = c.data
		case "IDAT":
			d.idat = append(d.idat, c.data...)
			d.numIDAT++
		}
	}

	return d.checkHeader()
}

func (d *decoder) parseIHDR(b []byte) error {
	if len(b) != ihdrLength {
		return errorf("invalid IHDR length %d", len(b))
	}
	d.width = binary.BigEndian.Uint32(b[0:4])
	d.height = binary.BigEndian.Uint32(b[4:8])
	d.depth = b[8]
	d.colorType = colorType(b[9])
	d.compression = b[10]
	d.filter = b[11]
	d.interlace = b[12]
	d.seenIHDR = true
	return nil
}

func (d *decoder) checkHeader() error {
	switch {
	case !d.seenIHDR:
		return errorf("missing IHDR chunk")
	case d.compression != 0:
		return errorf("unsupported compression method %d", d.compression)
	case d.filter != 0:
		return errorf("unsupported filter method %d", d.filter)
	case d.interlace != 0:
		return errorf("unsupported interlace method %d", d.interlace)
	case d.numIDAT == 0:
		return errorf("missing IDAT chunk")
	case d.width == 0 || d.height == 0:
		return errorf("invalid dimensions %dx%d", d.width, d.height)
	case uint64(d.width)*uint64(d.height) > maxPixels:
		return errorf("unsupported dimensions %dx%d", d.width, d.height)
	}

	if err := d.checkDepth(); err != nil {
		return err
	}

	if d.colorType == ctPaletted {
		if len(d.plte) == 0 {
			return errorf("missing PLTE chunk for indexed color")
		}
		d.palette = make([]color.NRGBA, len(d.plte)/3)
		for i := range d.palette {
			a := uint8(0xff)
			if i < len(d.trns) {
				a = d.trns[i]
			}
			d.palette[i] = color.NRGBA{d.plte[3*i], d.plte[3*i+1], d.plte[3*i+2], a}
		}
	}

	return nil
}

// checkDepth rejects every color type and bit depth pair that decodeImage
// cannot turn into pixels.
func (d *decoder) checkDepth() error {
	switch d.colorType {
	case ctGrayscale, ctTrueColor, ctGrayscaleAlpha, ctTrueColorAlpha:
		if d.depth != 8 {
			return errorf("unsupported %s bit depth %d", d.colorType, d.depth)
		}
	case ctPaletted:
		switch d.depth {
		case 1, 2, 4, 8:
		default:
			return errorf("unsupported %s bit depth %d", d.colorType, d.depth)
		}
	default:
		return errorf("unsupported %s", d.colorType)
	}
	return nil
}
