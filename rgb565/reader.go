package rgb565

import (
	"encoding/binary"
	"errors"
	"image"
	"io"
)

var (
	errNotEnough = errors.New("rgb565: not enough image data")
	errTooMuch   = errors.New("rgb565: too much image data")
	errBadSize   = errors.New("rgb565: invalid image dimensions")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Decode reads a raw stream of width × height packed values in the given
// byte order from r. The stream must end exactly after the last pixel.
func Decode(r io.Reader, width, height int, order binary.ByteOrder) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errBadSize
	}
	if order == nil {
		order = binary.LittleEndian
	}

	m := NewImage(image.Rect(0, 0, width, height), order)
	if err := readFull(r, m.Pix); err != nil {
		if err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, errNotEnough
	}

	var tmp [1]byte
	if n, err := r.Read(tmp[:]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTooMuch
	}

	return m, nil
}
