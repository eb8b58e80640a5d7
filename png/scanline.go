package png

import (
	"bytes"
	"image"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/zlib"
)

// Filter types.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// paeth returns whichever of a (left), b (above) and c (upper left) is
// closest to a + b - c, preferring a then b on ties.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

// defilter reverses filter ft in place on cur, given the previous
// reconstructed row and the filter distance bpp.
func defilter(ft byte, cur, prev []byte, bpp int) error {
	switch ft {
	case ftNone:
	case ftSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case ftUp:
		for i, p := range prev {
			cur[i] += p
		}
	case ftAverage:
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += prev[i] / 2
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += uint8((int(cur[i-bpp]) + int(prev[i])) / 2)
		}
	case ftPaeth:
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += paeth(0, prev[i], 0)
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += paeth(cur[i-bpp], prev[i], prev[i-bpp])
		}
	default:
		return errorf("unsupported filter type %d", ft)
	}
	return nil
}

// expand unpacks the samples of row into dst, one sample per element.
// Depths below 8 are packed most significant bits first and any padding at
// the end of the row is dropped. Depth 16 keeps the high byte of each sample.
func expand(dst, row []byte, depth uint8) {
	switch depth {
	case 8:
		copy(dst, row)
	case 16:
		for i := range dst {
			dst[i] = row[2*i]
		}
	default:
		mask := byte(1)<<depth - 1
		perByte := 8 / int(depth)
		for i := range dst {
			shift := 8 - uint(depth)*uint(i%perByte+1)
			dst[i] = row[i/perByte] >> shift & mask
		}
	}
}

func setNRGBA(pix []byte, n int, r, g, b, a uint8) {
	p := pix[4*n : 4*n+4 : 4*n+4]
	p[0], p[1], p[2], p[3] = r, g, b, a
}

// pixels assembles the samples of one row into NRGBA pixels in pix and
// returns how many pixels were written.
func (d *decoder) pixels(pix, s []byte) (int, error) {
	n := 0
	switch d.colorType {
	case ctGrayscale:
		for _, v := range s {
			setNRGBA(pix, n, v, v, v, 0xff)
			n++
		}
	case ctTrueColor:
		for i := 0; i+2 < len(s); i += 3 {
			setNRGBA(pix, n, s[i], s[i+1], s[i+2], 0xff)
			n++
		}
	case ctPaletted:
		for _, idx := range s {
			if int(idx) >= len(d.palette) {
				return n, errorf("palette index %d out of range", idx)
			}
			c := d.palette[idx]
			setNRGBA(pix, n, c.R, c.G, c.B, c.A)
			n++
		}
	case ctGrayscaleAlpha:
		for i := 0; i+1 < len(s); i += 2 {
			setNRGBA(pix, n, s[i], s[i], s[i], s[i+1])
			n++
		}
	case ctTrueColorAlpha:
		copy(pix, s)
		n = len(s) / 4
	default:
		return n, errorf("unsupported %s", d.colorType)
	}
	return n, nil
}

// inflate decompresses the IDAT stream, reading at most limit bytes. Data
// past the last scanline is never decompressed.
func (d *decoder) inflate(limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(d.idat))
	if err != nil {
		return nil, &DecodeError{Msg: "failed to decompress IDAT data", Err: err}
	}
	defer zr.Close()

	b, err := ioutil.ReadAll(io.LimitReader(zr, limit))
	if err != nil {
		return nil, &DecodeError{Msg: "failed to decompress IDAT data", Err: err}
	}
	return b, nil
}

func (d *decoder) decodeImage() (*image.NRGBA, error) {
	width, height := int(d.width), int(d.height)
	samples := d.colorType.samples()
	bitsPerPixel := samples * int(d.depth)

	rowBytes := (uint64(width)*uint64(bitsPerPixel) + 7) / 8
	if rowBytes != uint64(int(rowBytes)) {
		return nil, errorf("unsupported dimensions %dx%d", width, height)
	}
	bpp := (bitsPerPixel + 7) / 8
	if bpp < 1 {
		bpp = 1
	}

	raw, err := d.inflate(int64(height) * (int64(rowBytes) + 1))
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	cur := make([]byte, rowBytes)
	prev := make([]byte, rowBytes)
	s := make([]byte, width*samples)

	var rows, total int
	for y := 0; y < height; y++ {
		if len(raw) == 0 {
			return nil, errorf("unexpected end of image data at row %d", y)
		}
		ft := raw[0]
		raw = raw[1:]
		if len(raw) < len(cur) {
			return nil, errorf("truncated scanline at row %d", y)
		}
		copy(cur, raw)
		raw = raw[len(cur):]

		if err := defilter(ft, cur, prev, bpp); err != nil {
			return nil, err
		}
		expand(s, cur, d.depth)

		n, err := d.pixels(img.Pix[y*img.Stride:], s)
		if err != nil {
			return nil, err
		}
		total += n
		rows++

		prev, cur = cur, prev
	}

	if rows != height {
		return nil, errorf("decoded %d scanlines, expected %d", rows, height)
	}
	if total != width*height {
		return nil, errorf("decoded %d pixels, expected %d", total, width*height)
	}

	return img, nil
}
