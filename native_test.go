package rwtxd

import (
	"bytes"
	"errors"
	"testing"
)

// nativeFixture assembles a texture native payload byte-for-byte, so tests
// control the exact layout variants the parser must accept.
type nativeFixture struct {
	platform  uint32
	filter    uint8
	uv        uint8
	pad       uint16
	name      string
	mask      string
	maskLen   int // 0 means the common 32-byte field
	flags     uint32
	d3d       uint32
	w, h      uint16
	depth     uint8
	mips      uint8
	rtype     uint8
	props     uint8
	palette   []byte
	mipPrefix uint32 // 0 means no leading mip length word
	pixels    []byte
	inner     bool // wrap the fields in an inner STRUCT section
	innerVer  uint32
}

func (f nativeFixture) build() []byte {
	if f.maskLen == 0 {
		f.maskLen = 32
	}
	var b []byte
	u16 := func(v uint16) { b = append(b, byte(v), byte(v>>8)) }
	u32 := func(v uint32) { b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24)) }

	u32(f.platform)
	b = append(b, f.filter, f.uv)
	u16(f.pad)
	name := make([]byte, 32)
	copy(name, f.name)
	b = append(b, name...)
	mask := make([]byte, f.maskLen)
	copy(mask, f.mask)
	b = append(b, mask...)
	u32(f.flags)
	u32(f.d3d)
	u16(f.w)
	u16(f.h)
	b = append(b, f.depth, f.mips, f.rtype, f.props)
	b = append(b, f.palette...)
	if f.mipPrefix != 0 {
		u32(f.mipPrefix)
	}
	b = append(b, f.pixels...)

	if f.inner {
		b = append(chunk(SectionStruct, f.innerVer, b), chunk(SectionExtension, f.innerVer, nil)...)
	}
	return b
}

// rgbaFixture is a plain 4x4 32-bit texture; red texels in BGRA order.
func rgbaFixture(name string) nativeFixture {
	return nativeFixture{
		platform: PlatformD3D9,
		filter:   uint8(FilterLinear),
		uv:       0x11,
		name:     name,
		mask:     "",
		flags:    0x0000,
		d3d:      D3DFmtA8R8G8B8,
		w:        4, h: 4,
		depth:  32,
		mips:   1,
		rtype:  0x04,
		pixels: bytes.Repeat([]byte{0x00, 0x00, 0xFF, 0xFF}, 16),
	}
}

// lum8Fixture is a 4x4 greyscale ramp.
func lum8Fixture(name string) nativeFixture {
	return nativeFixture{
		platform: PlatformD3D8,
		filter:   uint8(FilterNearest),
		uv:       0x11,
		name:     name,
		flags:    0x0200,
		w:        4, h: 4,
		depth:  8,
		mips:   1,
		rtype:  0x04,
		pixels: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	}
}

func mustDeserializeNative(t *testing.T, data []byte, base int64, ver Version) *TextureInfo {
	t.Helper()
	tex := new(TextureInfo)
	hdr := ChunkHeader{Type: SectionTextureNative, Size: uint32(len(data)), Version: ver}
	if err := tex.deserializeNative(data, base, hdr); err != nil {
		t.Fatalf("deserialize native: %v", err)
	}
	return tex
}

func TestDeserializeNativeBare(t *testing.T) {
	f := rgbaFixture("brick")
	f.mask = "brick_a"
	tex := mustDeserializeNative(t, f.build(), 100, 0x1803FFFF)

	if tex.Name != "brick" {
		t.Errorf("expected name %q, got %q", "brick", tex.Name)
	}
	if tex.MaskName != "brick_a" {
		t.Errorf("expected mask name %q, got %q", "brick_a", tex.MaskName)
	}
	if tex.PlatformID != PlatformD3D9 {
		t.Errorf("expected platform %d, got %d", PlatformD3D9, tex.PlatformID)
	}
	if tex.FilterMode != FilterLinear {
		t.Errorf("expected filter %s, got %s", FilterLinear, tex.FilterMode)
	}
	if tex.AddressingU != AddressWrap || tex.AddressingV != AddressWrap {
		t.Errorf("expected wrap/wrap addressing, got %s/%s", tex.AddressingU, tex.AddressingV)
	}
	if tex.Width != 4 || tex.Height != 4 {
		t.Errorf("expected 4x4, got %dx%d", tex.Width, tex.Height)
	}
	if tex.Depth != 32 {
		t.Errorf("expected depth 32, got %d", tex.Depth)
	}
	if tex.Format != FormatRGBA32 {
		t.Errorf("expected format %s, got %s", FormatRGBA32, tex.Format)
	}
	if tex.MipmapCount != 1 {
		t.Errorf("expected 1 mipmap, got %d", tex.MipmapCount)
	}
	if tex.DataSize != 64 {
		t.Errorf("expected data size 64, got %d", tex.DataSize)
	}
	if want := int64(100 + 88); tex.DataOffset != want {
		t.Errorf("expected data offset %d, got %d", want, tex.DataOffset)
	}
}

func TestDeserializeNativeInnerStruct(t *testing.T) {
	f := rgbaFixture("brick")
	f.inner = true
	f.innerVer = 0x1803FFFF
	tex := mustDeserializeNative(t, f.build(), 100, 0x1803FFFF)

	if tex.Name != "brick" {
		t.Errorf("expected name %q, got %q", "brick", tex.Name)
	}
	if tex.Width != 4 || tex.Height != 4 || tex.Format != FormatRGBA32 {
		t.Errorf("parsed wrong fields through the inner struct: %dx%d %s", tex.Width, tex.Height, tex.Format)
	}
	if want := int64(100 + ChunkHeaderSize + 88); tex.DataOffset != want {
		t.Errorf("expected data offset %d, got %d", want, tex.DataOffset)
	}
}

func TestDeserializeNativePalette(t *testing.T) {
	pal := make([]byte, 1024)
	for i := range pal {
		pal[i] = byte(i)
	}
	f := nativeFixture{
		platform: PlatformD3D8,
		name:     "ground",
		flags:    0x0500 | RasterPal8,
		w:        4, h: 4,
		depth:   8,
		mips:    1,
		rtype:   0x04,
		palette: pal,
		pixels:  make([]byte, 16),
	}
	tex := mustDeserializeNative(t, f.build(), 0, 0x1803FFFF)

	if tex.Format != FormatPal8 {
		t.Fatalf("expected format %s, got %s", FormatPal8, tex.Format)
	}
	if len(tex.Palette) != 1024 {
		t.Fatalf("expected 1024 palette bytes, got %d", len(tex.Palette))
	}
	if tex.Palette[0] != 0 || tex.Palette[255] != 255 {
		t.Errorf("palette bytes not preserved: %d %d", tex.Palette[0], tex.Palette[255])
	}
	if tex.DataSize != 16 {
		t.Errorf("expected data size 16, got %d", tex.DataSize)
	}
	if want := int64(88 + 1024); tex.DataOffset != want {
		t.Errorf("expected data offset %d, got %d", want, tex.DataOffset)
	}
}

func TestDeserializeNativeMipPrefix(t *testing.T) {
	f := rgbaFixture("prefixed")
	f.mipPrefix = 64 // equals the level 0 byte length
	tex := mustDeserializeNative(t, f.build(), 0, 0x1803FFFF)

	if want := int64(88 + 4); tex.DataOffset != want {
		t.Errorf("expected data offset %d, got %d", want, tex.DataOffset)
	}
	if tex.DataSize != 64 {
		t.Errorf("expected data size 64, got %d", tex.DataSize)
	}
}

func TestDeserializeNativeShort(t *testing.T) {
	tex := new(TextureInfo)
	err := tex.deserializeNative(make([]byte, 50), 200, ChunkHeader{Type: SectionTextureNative, Size: 50, Version: 0x1803FFFF})
	if err == nil {
		t.Fatal("expected an error for a 50-byte native")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a ParseError, got %T: %v", err, err)
	}
	if pe.Field != "texture native header" {
		t.Errorf("expected the header length check to fail, got field %q", pe.Field)
	}
	if pe.Need != 87 || pe.Have != 50 {
		t.Errorf("expected need 87 have 50, got need %d have %d", pe.Need, pe.Have)
	}
	if pe.Offset != 200 {
		t.Errorf("expected offset 200, got %d", pe.Offset)
	}
}

func TestDeserializeNativeMaskProbe(t *testing.T) {
	// A version outside the layout table forces the width probe.
	const ver = Version(0x300)

	short := lum8Fixture("short_mask")
	short.maskLen = 20
	tex := mustDeserializeNative(t, short.build(), 0, ver)
	if tex.Name != "short_mask" || tex.Format != FormatLum8 || tex.Width != 4 {
		t.Errorf("20-byte mask probe failed: %q %s %dx%d", tex.Name, tex.Format, tex.Width, tex.Height)
	}
	if want := int64(76); tex.DataOffset != want {
		t.Errorf("expected data offset %d, got %d", want, tex.DataOffset)
	}

	wide := lum8Fixture("wide_mask")
	tex = mustDeserializeNative(t, wide.build(), 0, ver)
	if tex.Name != "wide_mask" || tex.Format != FormatLum8 || tex.Width != 4 {
		t.Errorf("32-byte mask probe failed: %q %s %dx%d", tex.Name, tex.Format, tex.Width, tex.Height)
	}
	if want := int64(88); tex.DataOffset != want {
		t.Errorf("expected data offset %d, got %d", want, tex.DataOffset)
	}
}

func TestDeserializeNativeZeroMips(t *testing.T) {
	f := rgbaFixture("flat")
	f.mips = 0
	tex := mustDeserializeNative(t, f.build(), 0, 0x1803FFFF)
	if tex.MipmapCount != 1 {
		t.Errorf("expected mipmap count clamped to 1, got %d", tex.MipmapCount)
	}
	if tex.DataSize != 64 {
		t.Errorf("expected data size 64, got %d", tex.DataSize)
	}
}

func TestDeserializeNativeUnterminatedName(t *testing.T) {
	f := rgbaFixture("")
	f.name = "abcdefghijklmnopqrstuvwxyz012345" // all 32 bytes used, no null
	tex := mustDeserializeNative(t, f.build(), 0, 0x1803FFFF)
	if tex.Name != f.name {
		t.Errorf("expected name %q, got %q", f.name, tex.Name)
	}
}

func TestMaskNameLen(t *testing.T) {
	for _, x := range []struct {
		Stamp Version
		Len   int
	}{
		{0x1803FFFF, 32},
		{0x1003FFFF, 32},
		{0x0C02FFFF, 32},
		{0x00000310, 32},
		{0x00000300, 0},
	} {
		if n := maskNameLen(x.Stamp); n != x.Len {
			t.Errorf("version 0x%08X: expected %d, got %d", uint32(x.Stamp), x.Len, n)
		}
	}
}
