package isa

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/ezrec/iridium/translate"
)

var f = translate.From

const (
	HEADER_LENGTH = 64 // Size of the PIE header in bytes.
)

// HEADER_MAGIC is the four byte prefix of every compiled image.
var HEADER_MAGIC = [4]byte{45, 50, 49, 45}

var (
	ErrHeaderShort = errors.New(f("image shorter than header"))
	ErrHeaderMagic = errors.New(f("image magic mismatch"))
	ErrHeaderRo    = errors.New(f("read-only segment exceeds image"))
)

// Header returns a PIE header announcing a read-only segment of roLen bytes.
func Header(roLen int) (header []byte) {
	header = make([]byte, HEADER_LENGTH)
	copy(header, HEADER_MAGIC[:])
	binary.BigEndian.PutUint32(header[4:8], uint32(roLen))
	return
}

// HasMagic returns true if the data starts with the header magic.
func HasMagic(data []byte) bool {
	return bytes.HasPrefix(data, HEADER_MAGIC[:])
}

// ParseHeader validates the header of an image, and returns the
// read-only segment and the program counter where code begins.
func ParseHeader(image []byte) (ro []byte, start int, err error) {
	if len(image) < HEADER_LENGTH {
		err = ErrHeaderShort
		return
	}
	if !HasMagic(image) {
		err = ErrHeaderMagic
		return
	}

	roLen := binary.BigEndian.Uint32(image[4:8])
	if uint64(roLen) > uint64(len(image)-HEADER_LENGTH) {
		err = ErrHeaderRo
		return
	}

	start = HEADER_LENGTH + int(roLen)
	ro = image[HEADER_LENGTH:start]

	return
}
