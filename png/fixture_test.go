package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// filterRow applies filter ft to raw, the forward counterpart of defilter.
func filterRow(ft byte, raw, prev []byte, bpp int) []byte {
	out := make([]byte, len(raw))
	for i := range raw {
		var a, c byte
		if i >= bpp {
			a, c = raw[i-bpp], prev[i-bpp]
		}
		b := prev[i]
		switch ft {
		case ftNone:
			out[i] = raw[i]
		case ftSub:
			out[i] = raw[i] - a
		case ftUp:
			out[i] = raw[i] - b
		case ftAverage:
			out[i] = raw[i] - uint8((int(a)+int(b))/2)
		case ftPaeth:
			out[i] = raw[i] - paeth(a, b, c)
		default:
			out[i] = raw[i]
		}
	}
	return out
}

type rawChunk struct {
	typ  string
	data []byte
}

func writeChunk(b *bytes.Buffer, typ string, data []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(data)))
	b.Write(tmp[:])
	b.WriteString(typ)
	b.Write(data)
	h := crc32.NewIEEE()
	h.Write([]byte(typ))
	h.Write(data)
	binary.BigEndian.PutUint32(tmp[:], h.Sum32())
	b.Write(tmp[:])
}

func buildPNG(chunks ...rawChunk) []byte {
	b := new(bytes.Buffer)
	b.WriteString(pngHeader)
	for _, c := range chunks {
		writeChunk(b, c.typ, c.data)
	}
	return b.Bytes()
}

func ihdr(width, height uint32, depth, ct uint8) rawChunk {
	b := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(b[0:4], width)
	binary.BigEndian.PutUint32(b[4:8], height)
	b[8] = depth
	b[9] = ct
	return rawChunk{"IHDR", b}
}

func deflate(t *testing.T, raw []byte) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	w := zlib.NewWriter(b)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return b.Bytes()
}

// testImage describes an image as unfiltered scanlines.
type testImage struct {
	width, height uint32
	depth, ct     uint8
	plte, trns    []byte
	rows          [][]byte
	filters       []byte // per row, cycled; none if empty
	extra         []rawChunk
}

func (ti testImage) bpp() int {
	bpp := (colorType(ti.ct).samples()*int(ti.depth) + 7) / 8
	if bpp < 1 {
		bpp = 1
	}
	return bpp
}

// scanlines returns the filtered, filter-type prefixed image data.
func (ti testImage) scanlines() []byte {
	var out []byte
	var prev []byte
	for y, row := range ti.rows {
		if prev == nil {
			prev = make([]byte, len(row))
		}
		var ft byte
		if len(ti.filters) > 0 {
			ft = ti.filters[y%len(ti.filters)]
		}
		out = append(out, ft)
		out = append(out, filterRow(ft, row, prev, ti.bpp())...)
		prev = row
	}
	return out
}

func (ti testImage) encode(t *testing.T) []byte {
	t.Helper()
	chunks := []rawChunk{ihdr(ti.width, ti.height, ti.depth, ti.ct)}
	if ti.plte != nil {
		chunks = append(chunks, rawChunk{"PLTE", ti.plte})
	}
	if ti.trns != nil {
		chunks = append(chunks, rawChunk{"tRNS", ti.trns})
	}
	chunks = append(chunks, ti.extra...)
	chunks = append(chunks, rawChunk{"IDAT", deflate(t, ti.scanlines())}, rawChunk{"IEND", nil})
	return buildPNG(chunks...)
}
