package rwtxd

import (
	"encoding/binary"
	"fmt"
	"image"
)

// ToRGBA decodes one mip level of the texture to tightly packed RGBA8,
// row-major, top to bottom. The archive provides access to the pixel
// payload when it has not been loaded yet.
func (t *TextureInfo) ToRGBA(a *Archive, level int) ([]byte, error) {
	if t.Format == FormatUnknown {
		return nil, fmt.Errorf("raster flags 0x%X, d3d format %d: %w", t.RasterFormatFlags, t.D3DFormat, ErrUnsupportedFormat)
	}
	if level < 0 || level >= int(t.MipmapCount) {
		return nil, fmt.Errorf("mip level %d out of range (texture has %d)", level, t.MipmapCount)
	}
	data, err := t.PixelData(a)
	if err != nil {
		return nil, err
	}
	w, h := t.MipDims(level)
	off := t.levelOffset(level)
	need := t.Format.LevelSize(w, h)
	if off+need > len(data) {
		return nil, fmt.Errorf("mip level %d: %w: need %d bytes at offset %d, have %d", level, ErrShortPixelData, need, off, len(data))
	}
	return t.decodeLevel(data[off:off+need], w, h)
}

// DecodeImage decodes one mip level into an NRGBA image.
func (t *TextureInfo) DecodeImage(a *Archive, level int) (*image.NRGBA, error) {
	p, err := t.ToRGBA(a, level)
	if err != nil {
		return nil, err
	}
	w, h := t.MipDims(level)
	return &image.NRGBA{Pix: p, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
}

// decodeLevel converts one mip level's raw bytes to RGBA8. Dispatch is by
// platform first, then by the platform's own format code.
func (t *TextureInfo) decodeLevel(data []byte, w, h int) ([]byte, error) {
	switch t.PlatformID {
	case PlatformD3D9:
		return t.decodeD3D9(data, w, h)
	case PlatformD3D8:
		return t.decodeRaster(data, w, h)
	default:
		return t.decodeRaster(data, w, h)
	}
}

// decodeD3D9 selects a decoder by the texture's d3d format code, falling
// back to the coarse raster class for codes it does not know.
func (t *TextureInfo) decodeD3D9(data []byte, w, h int) ([]byte, error) {
	switch t.D3DFormat {
	case FourCCDXT1:
		return decodeBC1(data, w, h)
	case FourCCDXT2, FourCCDXT3:
		return decodeBC2(data, w, h)
	case FourCCDXT4, FourCCDXT5:
		return decodeBC3(data, w, h)
	case D3DFmtA8R8G8B8:
		return decodeBGRA8888(data, w, h, true)
	case D3DFmtX8R8G8B8:
		return decodeBGRA8888(data, w, h, false)
	case D3DFmtR5G6B5:
		return decode565(data, w, h)
	case D3DFmtX1R5G5B5:
		return decode555(data, w, h, false)
	case D3DFmtA1R5G5B5:
		return decode555(data, w, h, true)
	case D3DFmtA4R4G4B4:
		return decode4444(data, w, h)
	case D3DFmtL8:
		return decodeLum8(data, w, h)
	case D3DFmtA8L8:
		return decodeLumAlpha8(data, w, h)
	case D3DFmtP8:
		return decodePal8(data, t.Palette, w, h)
	}
	return t.decodeRaster(data, w, h)
}

// decodeRaster decodes via the coarse raster format class; used for D3D8
// rasters and as the fallback for unknown platforms and d3d format codes.
// 16-bit rasters default to A1R5G5B5 unless an explicit d3d format code
// disambiguates.
func (t *TextureInfo) decodeRaster(data []byte, w, h int) ([]byte, error) {
	switch t.Format {
	case FormatRGBA32:
		return decodeBGRA8888(data, w, h, t.D3DFormat != D3DFmtX8R8G8B8)
	case FormatRGBA16:
		switch t.D3DFormat {
		case D3DFmtR5G6B5:
			return decode565(data, w, h)
		case D3DFmtX1R5G5B5:
			return decode555(data, w, h, false)
		case D3DFmtA4R4G4B4:
			return decode4444(data, w, h)
		}
		return decode555(data, w, h, true)
	case FormatLum8:
		return decodeLum8(data, w, h)
	case FormatLumAlpha8:
		return decodeLumAlpha8(data, w, h)
	case FormatPal4:
		return decodePal4(data, t.Palette, w, h)
	case FormatPal8:
		return decodePal8(data, t.Palette, w, h)
	case FormatBC1, FormatBC2, FormatBC3:
		return t.tryDecodeCompressed(data, w, h)
	}
	return nil, fmt.Errorf("platform %d, d3d format %d, raster flags 0x%X: %w", t.PlatformID, t.D3DFormat, t.RasterFormatFlags, ErrUnsupportedFormat)
}

// tryDecodeCompressed decodes a block-compressed level. A level classified
// as BC1 that fails to decode is retried as BC3; dictionaries written by
// third-party tools sometimes declare the wrong variant.
func (t *TextureInfo) tryDecodeCompressed(data []byte, w, h int) ([]byte, error) {
	switch t.Format {
	case FormatBC2:
		return decodeBC2(data, w, h)
	case FormatBC3:
		return decodeBC3(data, w, h)
	}
	p, err := decodeBC1(data, w, h)
	if err == nil {
		return p, nil
	}
	if p, err3 := decodeBC3(data, w, h); err3 == nil {
		return p, nil
	}
	return nil, err
}

// Channel expansion by bit replication, matching how the legacy renderer's
// GPU samples narrow channels.
func expand4(v uint8) uint8 { return v * 0x11 }
func expand5(v uint8) uint8 { return v<<3 | v>>2 }
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

// decodeBGRA8888 expands 32-bit BGRA (or BGRX when alpha is false) texels
// to RGBA8.
func decodeBGRA8888(data []byte, w, h int, alpha bool) ([]byte, error) {
	if want := w * h * 4; len(data) != want {
		return nil, fmt.Errorf("decode bgra8888: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for i := 0; i < len(out); i += 4 {
		out[i+0] = data[i+2]
		out[i+1] = data[i+1]
		out[i+2] = data[i+0]
		if alpha {
			out[i+3] = data[i+3]
		} else {
			out[i+3] = 0xFF
		}
	}
	return out, nil
}

func decode565(data []byte, w, h int) ([]byte, error) {
	if want := w * h * 2; len(data) != want {
		return nil, fmt.Errorf("decode r5g6b5: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		v := binary.LittleEndian.Uint16(data[i*2:])
		out[i*4+0] = expand5(uint8(v >> 11))
		out[i*4+1] = expand6(uint8(v >> 5 & 0x3F))
		out[i*4+2] = expand5(uint8(v & 0x1F))
		out[i*4+3] = 0xFF
	}
	return out, nil
}

// decode555 expands X1R5G5B5 texels, honoring the top bit as 1-bit alpha
// when alpha is true (A1R5G5B5).
func decode555(data []byte, w, h int, alpha bool) ([]byte, error) {
	if want := w * h * 2; len(data) != want {
		return nil, fmt.Errorf("decode a1r5g5b5: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		v := binary.LittleEndian.Uint16(data[i*2:])
		out[i*4+0] = expand5(uint8(v >> 10 & 0x1F))
		out[i*4+1] = expand5(uint8(v >> 5 & 0x1F))
		out[i*4+2] = expand5(uint8(v & 0x1F))
		if !alpha || v&0x8000 != 0 {
			out[i*4+3] = 0xFF
		}
	}
	return out, nil
}

func decode4444(data []byte, w, h int) ([]byte, error) {
	if want := w * h * 2; len(data) != want {
		return nil, fmt.Errorf("decode a4r4g4b4: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		v := binary.LittleEndian.Uint16(data[i*2:])
		out[i*4+0] = expand4(uint8(v >> 8 & 0xF))
		out[i*4+1] = expand4(uint8(v >> 4 & 0xF))
		out[i*4+2] = expand4(uint8(v & 0xF))
		out[i*4+3] = expand4(uint8(v >> 12 & 0xF))
	}
	return out, nil
}

func decodeLum8(data []byte, w, h int) ([]byte, error) {
	if want := w * h; len(data) != want {
		return nil, fmt.Errorf("decode l8: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for i, l := range data {
		out[i*4+0] = l
		out[i*4+1] = l
		out[i*4+2] = l
		out[i*4+3] = 0xFF
	}
	return out, nil
}

func decodeLumAlpha8(data []byte, w, h int) ([]byte, error) {
	if want := w * h * 2; len(data) != want {
		return nil, fmt.Errorf("decode a8l8: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		l, a := data[i*2], data[i*2+1]
		out[i*4+0] = l
		out[i*4+1] = l
		out[i*4+2] = l
		out[i*4+3] = a
	}
	return out, nil
}

// decodePal8 expands 8-bit palette indexes; palette entries are stored
// RGBA and copied verbatim.
func decodePal8(data, palette []byte, w, h int) ([]byte, error) {
	if len(palette) != 256*4 {
		return nil, fmt.Errorf("decode pal8: palette is %d bytes, need %d: %w", len(palette), 256*4, ErrMissingPalette)
	}
	if want := w * h; len(data) != want {
		return nil, fmt.Errorf("decode pal8: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for i, idx := range data {
		copy(out[i*4:i*4+4], palette[int(idx)*4:])
	}
	return out, nil
}

// decodePal4 expands nibble-packed 4-bit palette indexes, low nibble
// first. Odd texel counts lose their final nibble to the format's integer
// packing; the missing texels stay transparent black.
func decodePal4(data, palette []byte, w, h int) ([]byte, error) {
	if len(palette) != 16*4 {
		return nil, fmt.Errorf("decode pal4: palette is %d bytes, need %d: %w", len(palette), 16*4, ErrMissingPalette)
	}
	if want := w * h / 2; len(data) != want {
		return nil, fmt.Errorf("decode pal4: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	n := w * h
	if n > len(data)*2 {
		n = len(data) * 2
	}
	for i := 0; i < n; i++ {
		idx := data[i/2] & 0xF
		if i%2 == 1 {
			idx = data[i/2] >> 4
		}
		copy(out[i*4:i*4+4], palette[int(idx)*4:])
	}
	return out, nil
}
