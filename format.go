package rwtxd

import "fmt"

// RasterFormat classifies the pixel encoding of a texture's payload. The
// block-compressed class is split into the distinct BC variants so that
// size calculation, not just decoding, is format-correct (BC2/BC3 blocks
// are twice the size of BC1 blocks).
type RasterFormat uint8

const (
	FormatRGBA32    RasterFormat = iota // 32-bit BGRA/BGRX
	FormatRGBA16                        // 16-bit 1555/565/4444 variants
	FormatLum8                          // 8-bit greyscale
	FormatLumAlpha8                     // 8-bit greyscale + 8-bit alpha
	FormatPal4                          // 4-bit indexed, 16-entry RGBA palette
	FormatPal8                          // 8-bit indexed, 256-entry RGBA palette
	FormatBC1                           // DXT1, 8 bytes per 4x4 block
	FormatBC2                           // DXT2/3, 16 bytes per 4x4 block
	FormatBC3                           // DXT4/5, 16 bytes per 4x4 block

	FormatUnknown RasterFormat = 0xFF
)

func (f RasterFormat) String() string {
	switch f {
	case FormatRGBA32:
		return "rgba32"
	case FormatRGBA16:
		return "rgba16"
	case FormatLum8:
		return "lum8"
	case FormatLumAlpha8:
		return "lumalpha8"
	case FormatPal4:
		return "pal4"
	case FormatPal8:
		return "pal8"
	case FormatBC1:
		return "bc1"
	case FormatBC2:
		return "bc2"
	case FormatBC3:
		return "bc3"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// ParseRasterFormat is the inverse of String.
func ParseRasterFormat(s string) (RasterFormat, error) {
	for f := FormatRGBA32; f <= FormatBC3; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown pixel format %q", s)
}

// Compressed reports whether the format is block-compressed.
func (f RasterFormat) Compressed() bool {
	return f == FormatBC1 || f == FormatBC2 || f == FormatBC3
}

// Paletted reports whether the format uses an indexed color table.
func (f RasterFormat) Paletted() bool {
	return f == FormatPal4 || f == FormatPal8
}

// PaletteSize returns the byte length of the companion palette, or 0 for
// non-paletted formats.
func (f RasterFormat) PaletteSize() int {
	switch f {
	case FormatPal4:
		return 16 * 4
	case FormatPal8:
		return 256 * 4
	}
	return 0
}

// d3d_format FourCC codes for block-compressed rasters.
const (
	FourCCDXT1 uint32 = 0x31545844 // "DXT1"
	FourCCDXT2 uint32 = 0x32545844 // "DXT2"
	FourCCDXT3 uint32 = 0x33545844 // "DXT3"
	FourCCDXT4 uint32 = 0x34545844 // "DXT4"
	FourCCDXT5 uint32 = 0x35545844 // "DXT5"
)

// d3d_format codes for uncompressed rasters.
const (
	D3DFmtA8R8G8B8 uint32 = 21
	D3DFmtX8R8G8B8 uint32 = 22
	D3DFmtR5G6B5   uint32 = 23
	D3DFmtX1R5G5B5 uint32 = 24
	D3DFmtA1R5G5B5 uint32 = 25
	D3DFmtA4R4G4B4 uint32 = 26
	D3DFmtP8       uint32 = 41
	D3DFmtL8       uint32 = 50
	D3DFmtA8L8     uint32 = 51
)

// Platform ids used for decode dispatch.
const (
	PlatformD3D8 uint32 = 1
	PlatformD3D9 uint32 = 2
)

// raster_format_flags layout: the format class code occupies bits 8-11;
// bits 12-15 are the palette/mipmap extension flags.
const (
	rasterClassShift        = 8
	rasterClassMask  uint32 = 0xF00

	RasterAutoMipmap uint32 = 0x1000
	RasterPal8       uint32 = 0x2000
	RasterPal4       uint32 = 0x4000
	RasterMipmapped  uint32 = 0x8000
)

// classifyRaster derives the pixel-format class for a texture. A recognized
// DXT FourCC in d3dFormat wins; otherwise the class code in rasterFlags
// decides. A bare compressed class with no FourCC is taken as BC1, by far
// the most common variant in GTA-era dictionaries.
func classifyRaster(rasterFlags, d3dFormat uint32) RasterFormat {
	switch d3dFormat {
	case FourCCDXT1:
		return FormatBC1
	case FourCCDXT2, FourCCDXT3:
		return FormatBC2
	case FourCCDXT4, FourCCDXT5:
		return FormatBC3
	}
	switch (rasterFlags & rasterClassMask) >> rasterClassShift {
	case 0x00:
		return FormatRGBA32
	case 0x01:
		return FormatRGBA16
	case 0x02:
		return FormatLum8
	case 0x03:
		return FormatLumAlpha8
	case 0x04:
		return FormatPal4
	case 0x05:
		return FormatPal8
	case 0x06:
		return FormatBC1
	}
	return FormatUnknown
}

// classCode returns the class code for the format, for building
// raster_format_flags when authoring.
func (f RasterFormat) classCode() uint32 {
	switch f {
	case FormatRGBA32:
		return 0x00
	case FormatRGBA16:
		return 0x01
	case FormatLum8:
		return 0x02
	case FormatLumAlpha8:
		return 0x03
	case FormatPal4:
		return 0x04
	case FormatPal8:
		return 0x05
	case FormatBC1, FormatBC2, FormatBC3:
		return 0x06
	}
	return 0x0F
}

// LevelSize returns the encoded byte length of a single w×h mip level.
func (f RasterFormat) LevelSize(w, h int) int {
	switch f {
	case FormatRGBA32:
		return w * h * 4
	case FormatRGBA16, FormatLumAlpha8:
		return w * h * 2
	case FormatLum8, FormatPal8:
		return w * h
	case FormatPal4:
		return w * h / 2
	case FormatBC1:
		return ((w + 3) / 4) * ((h + 3) / 4) * 8
	case FormatBC2, FormatBC3:
		return ((w + 3) / 4) * ((h + 3) / 4) * 16
	}
	return 0
}

// mipDims halves the base dimensions level times, clamping at 1.
func mipDims(w, h uint16, level int) (int, int) {
	mw, mh := int(w), int(h)
	for ; level > 0; level-- {
		if mw > 1 {
			mw /= 2
		}
		if mh > 1 {
			mh /= 2
		}
	}
	return mw, mh
}

// TextureDataSize computes the total pixel payload length for a mip chain.
// The value is analytic: payload sizes declared by a file are never
// trusted.
func TextureDataSize(w, h uint16, f RasterFormat, mipmaps int) uint32 {
	if mipmaps < 1 {
		mipmaps = 1
	}
	var n int
	mw, mh := int(w), int(h)
	for i := 0; i < mipmaps; i++ {
		n += f.LevelSize(mw, mh)
		if mw > 1 {
			mw /= 2
		}
		if mh > 1 {
			mh /= 2
		}
	}
	return uint32(n)
}
