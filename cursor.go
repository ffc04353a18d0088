package rwtxd

import "encoding/binary"

// cursor is a bounds-checked little-endian view over an in-memory buffer.
// It does not own the buffer. base is the absolute file offset of data[0],
// so errors and pixel data offsets refer to positions in the file rather
// than the slice.
type cursor struct {
	data []byte
	off  int
	base int64
}

func newCursor(data []byte, base int64) *cursor {
	return &cursor{data: data, base: base}
}

// pos returns the absolute file offset of the cursor.
func (c *cursor) pos() int64 { return c.base + int64(c.off) }

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int { return len(c.data) - c.off }

func (c *cursor) fail(field string, need int) error {
	return &ParseError{Offset: c.pos(), Field: field, Need: need, Have: c.remaining()}
}

func (c *cursor) u8(field string) (uint8, error) {
	if c.remaining() < 1 {
		return 0, c.fail(field, 1)
	}
	v := c.data[c.off]
	c.off++
	return v, nil
}

func (c *cursor) u16(field string) (uint16, error) {
	if c.remaining() < 2 {
		return 0, c.fail(field, 2)
	}
	v := binary.LittleEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

func (c *cursor) u32(field string) (uint32, error) {
	if c.remaining() < 4 {
		return 0, c.fail(field, 4)
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

// bytes returns the next n bytes without copying.
func (c *cursor) bytes(n int, field string) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, c.fail(field, n)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) skip(n int, field string) error {
	if n < 0 || c.remaining() < n {
		return c.fail(field, n)
	}
	c.off += n
	return nil
}

// peekU32 reads the u32 at the current position without advancing.
func (c *cursor) peekU32() (uint32, bool) {
	if c.remaining() < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(c.data[c.off:]), true
}
