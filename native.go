package rwtxd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// nativeHeaderMin is the smallest payload that can hold the texture native
// header fields.
const nativeHeaderMin = 87

// cstr decodes a null-padded fixed-width ASCII field.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// maskNameLen returns the on-disk width of the mask name field for a
// dictionary version, or 0 when the version is not in the table and the
// width must be probed instead.
func maskNameLen(v Version) int {
	switch n, _ := v.Unpack(); n >> 12 {
	case 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37:
		// All known GTA-era D3D writers emit a 32-byte mask name.
		return 32
	}
	return 0
}

// plausibleRasterFlags reports whether v looks like a raster_format_flags
// word: empty low byte, a known format class, nothing above the extension
// bits.
func plausibleRasterFlags(v uint32) bool {
	return v&0xFF == 0 && v>>16 == 0 && (v&rasterClassMask)>>rasterClassShift <= 0x06
}

// probeMaskLen guesses the mask name width for dictionaries whose version
// is not in the layout table: assume the common 32-byte field and check
// whether the word after it could be a raster_format_flags value; if not,
// fall back to the short 20-byte form. This is a heuristic, not ground
// truth.
func probeMaskLen(c *cursor) int {
	if c.remaining() >= 36 && plausibleRasterFlags(binary.LittleEndian.Uint32(c.data[c.off+32:])) {
		return 32
	}
	return 20
}

// looksLikeInnerStruct distinguishes an inner STRUCT header from a payload
// that merely starts with a small platform id: a real header carries an
// in-bounds declared size and a version word shaped like a library stamp.
func looksLikeInnerStruct(c *cursor, outer Version) bool {
	if c.remaining() < ChunkHeaderSize {
		return false
	}
	size := binary.LittleEndian.Uint32(c.data[c.off+4:])
	ver := binary.LittleEndian.Uint32(c.data[c.off+8:])
	if int64(size) > int64(c.remaining()-ChunkHeaderSize) {
		return false
	}
	// ASCII name bytes in the version slot read as a value >= 0x20202020.
	return Version(ver) == outer || ver < 0x20000000
}

// deserializeNative parses one texture native payload into t. base is the
// absolute file offset of data[0]; hdr is the native section's header.
func (t *TextureInfo) deserializeNative(data []byte, base int64, hdr ChunkHeader) error {
	c := newCursor(data, base)

	// Some writers wrap the fields in an inner STRUCT section; accept both
	// forms.
	if w, ok := c.peekU32(); ok && w == SectionStruct && looksLikeInnerStruct(c, hdr.Version) {
		if err := c.skip(ChunkHeaderSize, "inner struct header"); err != nil {
			return err
		}
	}

	if c.remaining() < nativeHeaderMin {
		return c.fail("texture native header", nativeHeaderMin)
	}

	platform, err := c.u32("platform id")
	if err != nil {
		return err
	}
	t.PlatformID = platform

	filter, err := c.u8("filter mode")
	if err != nil {
		return err
	}
	t.FilterMode = FilterMode(filter)
	uv, err := c.u8("uv addressing")
	if err != nil {
		return err
	}
	t.AddressingU = AddressMode(uv >> 4)
	t.AddressingV = AddressMode(uv & 0xF)
	if t.SamplerPad, err = c.u16("sampler padding"); err != nil {
		return err
	}

	name, err := c.bytes(32, "texture name")
	if err != nil {
		return err
	}
	t.Name = cstr(name)

	maskLen := maskNameLen(hdr.Version)
	if maskLen == 0 {
		maskLen = probeMaskLen(c)
	}
	mask, err := c.bytes(maskLen, "mask name")
	if err != nil {
		return err
	}
	t.MaskName = cstr(mask)

	if t.RasterFormatFlags, err = c.u32("raster format flags"); err != nil {
		return err
	}
	if t.D3DFormat, err = c.u32("d3d format"); err != nil {
		return err
	}
	if t.Width, err = c.u16("width"); err != nil {
		return err
	}
	if t.Height, err = c.u16("height"); err != nil {
		return err
	}
	if t.Depth, err = c.u8("depth"); err != nil {
		return err
	}
	if t.MipmapCount, err = c.u8("mipmap count"); err != nil {
		return err
	}
	if t.RasterType, err = c.u8("raster type"); err != nil {
		return err
	}
	if t.PlatformProps, err = c.u8("platform properties"); err != nil {
		return err
	}

	if t.MipmapCount < 1 {
		t.MipmapCount = 1
	}
	t.Format = classifyRaster(t.RasterFormatFlags, t.D3DFormat)

	if n := t.Format.PaletteSize(); n != 0 {
		pal, err := c.bytes(n, "palette")
		if err != nil {
			return err
		}
		t.Palette = append([]byte(nil), pal...)
	}

	t.DataSize = TextureDataSize(t.Width, t.Height, t.Format, int(t.MipmapCount))

	// D3D writers prefix each mip level with its byte length. The payload
	// itself stays contiguous, so only the leading prefix needs skipping.
	if w, ok := c.peekU32(); ok && w != 0 && int64(w) == int64(t.Format.LevelSize(t.MipDims(0))) {
		if err := c.skip(4, "mip length prefix"); err != nil {
			return err
		}
	}

	t.DataOffset = c.pos()
	return nil
}

// nativePayloadSize returns the encoded size of the texture's native
// section payload: the inner struct with its fields, palette and pixel
// data, plus the extension footer.
func (t *TextureInfo) nativePayloadSize() uint32 {
	const fields = 4 + 4 + 32 + 32 + 4 + 4 + 8
	return ChunkHeaderSize + fields + uint32(len(t.Palette)) + t.DataSize + ChunkHeaderSize
}

// serializeNative writes the texture as a TEXTURENATIVE section in the
// canonical inner-struct form, fields in the exact order they are parsed.
// The pixel payload is the texture's own bytes when they exist or can be
// read back from the archive's source; otherwise a zero-filled placeholder
// of the analytic size is emitted.
func (t *TextureInfo) serializeNative(w io.Writer, a *Archive) error {
	if len(t.Name) > 31 {
		return fmt.Errorf("texture name %q longer than 31 bytes", t.Name)
	}
	if len(t.MaskName) > 31 {
		return fmt.Errorf("mask name %q longer than 31 bytes", t.MaskName)
	}
	if want := t.Format.PaletteSize(); len(t.Palette) != want {
		return fmt.Errorf("palette is %d bytes, format %s needs %d", len(t.Palette), t.Format, want)
	}
	if want := TextureDataSize(t.Width, t.Height, t.Format, int(t.MipmapCount)); t.DataSize != want {
		return fmt.Errorf("data size %d does not match the computed size %d for %dx%d %s with %d mips", t.DataSize, want, t.Width, t.Height, t.Format, t.MipmapCount)
	}

	ver := a.Version
	if err := (ChunkHeader{SectionTextureNative, t.nativePayloadSize(), ver}).Serialize(w); err != nil {
		return fmt.Errorf("write native header: %w", err)
	}
	fields := t.nativePayloadSize() - 2*ChunkHeaderSize
	if err := (ChunkHeader{SectionStruct, fields, ver}).Serialize(w); err != nil {
		return fmt.Errorf("write native struct header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, t.PlatformID); err != nil {
		return fmt.Errorf("write platform id: %w", err)
	}
	sampler := [2]byte{byte(t.FilterMode), byte(t.AddressingU&0xF)<<4 | byte(t.AddressingV&0xF)}
	if err := binary.Write(w, binary.LittleEndian, sampler); err != nil {
		return fmt.Errorf("write sampler bytes: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.SamplerPad); err != nil {
		return fmt.Errorf("write sampler padding: %w", err)
	}
	var name, mask [32]byte
	copy(name[:], t.Name)
	copy(mask[:], t.MaskName)
	if err := binary.Write(w, binary.LittleEndian, name); err != nil {
		return fmt.Errorf("write texture name: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, mask); err != nil {
		return fmt.Errorf("write mask name: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.RasterFormatFlags); err != nil {
		return fmt.Errorf("write raster format flags: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.D3DFormat); err != nil {
		return fmt.Errorf("write d3d format: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.Width); err != nil {
		return fmt.Errorf("write width: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.Height); err != nil {
		return fmt.Errorf("write height: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.Depth); err != nil {
		return fmt.Errorf("write depth: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.MipmapCount); err != nil {
		return fmt.Errorf("write mipmap count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.RasterType); err != nil {
		return fmt.Errorf("write raster type: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.PlatformProps); err != nil {
		return fmt.Errorf("write platform properties: %w", err)
	}
	if len(t.Palette) != 0 {
		if _, err := w.Write(t.Palette); err != nil {
			return fmt.Errorf("write palette: %w", err)
		}
	}

	p, err := t.PixelData(a)
	if err != nil {
		logrus.WithError(err).WithField("texture", t.Name).Warn("writing zero-filled pixel placeholder")
		p = make([]byte, t.DataSize)
	}
	if uint32(len(p)) != t.DataSize {
		return fmt.Errorf("pixel data is %d bytes, format needs %d", len(p), t.DataSize)
	}
	if _, err := w.Write(p); err != nil {
		return fmt.Errorf("write pixel data: %w", err)
	}

	if err := (ChunkHeader{SectionExtension, 0, ver}).Serialize(w); err != nil {
		return fmt.Errorf("write native extension: %w", err)
	}
	return nil
}
