package png

import (
	"encoding/binary"
	"io"
)

// Each chunk is a 4 byte length, a 4 byte type, the payload and a 4 byte CRC.
const (
	chunkHeader  = 8
	chunkTrailer = 4
)

type chunk struct {
	typ  string
	data []byte
}

// chunkReader splits a PNG stream into chunks. The CRC of each chunk is
// skipped over without being verified.
type chunkReader struct {
	b    []byte
	off  int
	done bool
}

func newChunkReader(b []byte) (*chunkReader, error) {
	if len(b) < len(pngHeader) || string(b[:len(pngHeader)]) != pngHeader {
		return nil, errorf("not a PNG file")
	}
	return &chunkReader{b: b, off: len(pngHeader)}, nil
}

// next returns the next chunk, or io.EOF once IEND has been returned or the
// input is exhausted.
func (r *chunkReader) next() (chunk, error) {
	if r.done || r.off >= len(r.b) {
		return chunk{}, io.EOF
	}

	rest := r.b[r.off:]
	if len(rest) < chunkHeader {
		return chunk{}, errorf("truncated chunk header at offset %d", r.off)
	}

	length := binary.BigEndian.Uint32(rest[:4])
	typ := string(rest[4:8])
	if uint64(chunkHeader)+uint64(length)+chunkTrailer > uint64(len(rest)) {
		return chunk{}, errorf("truncated %s chunk payload at offset %d", typ, r.off)
	}

	end := chunkHeader + int(length)
	c := chunk{
		typ:  typ,
		data: rest[chunkHeader:end:end],
	}
	r.off += end + chunkTrailer
	if typ == "IEND" {
		r.done = true
	}
	return c, nil
}
