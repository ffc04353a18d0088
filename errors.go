package rwtxd

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTextureDictionary is returned when the top-level section of a
	// file is not a TEXDICTIONARY.
	ErrNotTextureDictionary = errors.New("not a texture dictionary")

	// ErrMissingPalette is returned when decoding a paletted texture whose
	// palette block is absent or not of the exact expected length.
	ErrMissingPalette = errors.New("missing or undersized palette")

	// ErrUnsupportedFormat is returned when no codec exists for a texture's
	// platform/format code combination.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrNoPixelData is returned when a texture has no owned pixel payload
	// and no source to lazily read one from.
	ErrNoPixelData = errors.New("no pixel data")

	// ErrShortPixelData is returned when a texture's payload ends before
	// the mip level being decoded.
	ErrShortPixelData = errors.New("pixel data shorter than expected")
)

// ParseError is a structural violation at a specific byte offset: an
// undersized buffer, or a field extending past the end of its section.
type ParseError struct {
	Offset int64  // absolute file offset
	Field  string // what was being read
	Need   int    // bytes required
	Have   int    // bytes available
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s at offset 0x%X: need %d bytes, have %d", e.Field, e.Offset, e.Need, e.Have)
}
