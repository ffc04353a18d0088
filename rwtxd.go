// Package rwtxd reads and writes RenderWare texture dictionaries (TXD), the
// texture archives used by GTA-era RenderWare titles, providing tolerant
// parsing of malformed files, pixel decoding to RGBA8, and round-trip
// serialization back to the original chunk layout.
package rwtxd

import (
	"encoding/binary"
	"fmt"
	"io"
)

// RenderWare binary stream section types used by texture dictionaries.
const (
	SectionStruct        uint32 = 0x01
	SectionExtension     uint32 = 0x03
	SectionTextureNative uint32 = 0x15
	SectionTexDictionary uint32 = 0x16

	// SectionTextureNativeExt is an alternate texture native marker written
	// by some third-party repacking tools.
	SectionTextureNativeExt uint32 = 0x0253FF01
)

// Ext is the conventional file extension of a texture dictionary.
const Ext = ".txd"

// ChunkHeaderSize is the encoded size of a ChunkHeader.
const ChunkHeaderSize = 12

// ChunkHeader prefixes every section of a RenderWare binary stream.
type ChunkHeader struct {
	Type    uint32
	Size    uint32 // payload size, excluding the header itself
	Version Version
}

// Deserialize parses a ChunkHeader from r.
func (h *ChunkHeader) Deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &h.Type); err != nil {
		return fmt.Errorf("read section type: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Size); err != nil {
		return fmt.Errorf("read section size: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Version); err != nil {
		return fmt.Errorf("read section version: %w", err)
	}
	return nil
}

// Serialize writes an encoded ChunkHeader to w.
func (h ChunkHeader) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, h.Type); err != nil {
		return fmt.Errorf("write section type: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, h.Size); err != nil {
		return fmt.Errorf("write section size: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, h.Version); err != nil {
		return fmt.Errorf("write section version: %w", err)
	}
	return nil
}

// readChunkHeader parses a ChunkHeader at the cursor.
func readChunkHeader(c *cursor) (ChunkHeader, error) {
	var h ChunkHeader
	t, err := c.u32("section type")
	if err != nil {
		return h, err
	}
	n, err := c.u32("section size")
	if err != nil {
		return h, err
	}
	v, err := c.u32("section version")
	if err != nil {
		return h, err
	}
	return ChunkHeader{Type: t, Size: n, Version: Version(v)}, nil
}

// Version is a packed RenderWare library version stamp from a section
// header. Stamps come in two encodings: the long form used from 3.1 on
// (non-zero high half, with a build number in the low half) and the bare
// shifted form used by the earliest libraries.
type Version uint32

// Unpack splits the stamp into the library version number (0xVJNBB form,
// e.g. 0x36003 for 3.6.0.3) and the build number.
func (v Version) Unpack() (version uint32, build uint16) {
	if v&0xFFFF0000 != 0 {
		n := (uint32(v) >> 14) & 0x3FF00
		b := (uint32(v) >> 16) & 0x3F
		return (n + 0x30000) | b, uint16(v)
	}
	return uint32(v) << 8, 0
}

// String renders the version as a dotted string, e.g. "3.6.0.3".
func (v Version) String() string {
	n, _ := v.Unpack()
	return fmt.Sprintf("%d.%d.%d.%d", (n>>16)&0xF, (n>>12)&0xF, (n>>8)&0xF, n&0xFF)
}
