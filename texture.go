package rwtxd

import (
	"fmt"
	"os"
	"sync"
)

// FilterMode is a RenderWare texture sampler filter.
type FilterMode uint8

const (
	FilterNone FilterMode = iota
	FilterNearest
	FilterLinear
	FilterMipNearest
	FilterMipLinear
	FilterLinearMipNearest
	FilterLinearMipLinear
)

func (m FilterMode) String() string {
	switch m {
	case FilterNone:
		return "none"
	case FilterNearest:
		return "nearest"
	case FilterLinear:
		return "linear"
	case FilterMipNearest:
		return "mipnearest"
	case FilterMipLinear:
		return "miplinear"
	case FilterLinearMipNearest:
		return "linearmipnearest"
	case FilterLinearMipLinear:
		return "linearmiplinear"
	}
	return fmt.Sprintf("filter(%d)", uint8(m))
}

// AddressMode is a RenderWare texture addressing mode.
type AddressMode uint8

const (
	AddressNone AddressMode = iota
	AddressWrap
	AddressMirror
	AddressClamp
	AddressBorder
)

func (m AddressMode) String() string {
	switch m {
	case AddressNone:
		return "none"
	case AddressWrap:
		return "wrap"
	case AddressMirror:
		return "mirror"
	case AddressClamp:
		return "clamp"
	case AddressBorder:
		return "border"
	}
	return fmt.Sprintf("address(%d)", uint8(m))
}

// TextureInfo is one decoded texture entry of a dictionary. The raw
// platform and format discriminators are preserved so that a parsed entry
// serializes back without loss.
type TextureInfo struct {
	Name     string
	MaskName string

	Width  uint16
	Height uint16
	Depth  uint8 // nominal bits per pixel
	Format RasterFormat

	// MipmapCount is the number of mip levels physically present (at
	// least 1 after parsing).
	MipmapCount uint8

	PlatformID        uint32
	RasterFormatFlags uint32
	D3DFormat         uint32
	RasterType        uint8
	PlatformProps     uint8
	SamplerPad        uint16 // raw padding word after the sampler bytes, preserved verbatim

	FilterMode  FilterMode
	AddressingU AddressMode
	AddressingV AddressMode

	// Palette is the companion color table for the paletted formats:
	// 64 bytes for Pal4, 1024 for Pal8, nil otherwise.
	Palette []byte

	// DataOffset and DataSize locate the pixel payload in the source file.
	// DataSize is computed from the dimensions and format, never read from
	// the file.
	DataOffset int64
	DataSize   uint32

	mu        sync.Mutex
	pixelData []byte
}

// MipDims returns the dimensions of the given mip level.
func (t *TextureInfo) MipDims(level int) (w, h int) {
	return mipDims(t.Width, t.Height, level)
}

// levelOffset returns the byte offset of a mip level within the payload.
func (t *TextureInfo) levelOffset(level int) int {
	var off int
	for i := 0; i < level; i++ {
		w, h := t.MipDims(i)
		off += t.Format.LevelSize(w, h)
	}
	return off
}

// HasAlpha reports whether the texture's format carries an alpha channel.
func (t *TextureInfo) HasAlpha() bool {
	switch t.Format {
	case FormatLumAlpha8, FormatBC2, FormatBC3:
		return true
	case FormatPal4, FormatPal8:
		return true // palette entries carry alpha
	case FormatRGBA32:
		return t.D3DFormat != D3DFmtX8R8G8B8
	case FormatRGBA16:
		return t.D3DFormat != D3DFmtR5G6B5 && t.D3DFormat != D3DFmtX1R5G5B5
	}
	return false
}

// PixelData returns the texture's pixel payload, reading it from the
// archive's backing buffer or source file on first use. The returned slice
// is owned by the texture and must not be modified.
func (t *TextureInfo) PixelData(a *Archive) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pixelData != nil {
		return t.pixelData, nil
	}
	if t.DataSize == 0 {
		return nil, fmt.Errorf("texture %q: %w", t.Name, ErrNoPixelData)
	}
	if a != nil && a.buf != nil {
		end := t.DataOffset + int64(t.DataSize)
		if t.DataOffset < 0 || end > int64(len(a.buf)) {
			return nil, fmt.Errorf("texture %q: payload ends at 0x%X, buffer is 0x%X bytes: %w", t.Name, end, len(a.buf), ErrShortPixelData)
		}
		t.pixelData = append([]byte(nil), a.buf[t.DataOffset:end]...)
		return t.pixelData, nil
	}
	if a == nil || a.Path == "" {
		return nil, fmt.Errorf("texture %q: %w", t.Name, ErrNoPixelData)
	}
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("read pixel data for %q: %w", t.Name, err)
	}
	defer f.Close()
	b := make([]byte, t.DataSize)
	if _, err := f.ReadAt(b, t.DataOffset); err != nil {
		return nil, fmt.Errorf("read pixel data for %q at 0x%X: %w", t.Name, t.DataOffset, err)
	}
	t.pixelData = b
	return b, nil
}

// SetPixelData replaces the texture's owned pixel payload.
func (t *TextureInfo) SetPixelData(b []byte) {
	t.mu.Lock()
	t.pixelData = b
	t.mu.Unlock()
}

// Names for raster_format_flags extension bit 1<<index.
var rasterFlagNames = [16]string{
	12: "AUTOMIPMAP",
	13: "PAL8",
	14: "PAL4",
	15: "MIPMAP",
}

// DescribeRasterFlags returns a human-readable slice of strings describing
// the extension bits of a raster_format_flags value.
func DescribeRasterFlags(flags uint32) (s []string) {
	for i, x := range rasterFlagNames {
		if uint32(1)<<i&rasterClassMask != 0 {
			continue // format class code, not a flag
		}
		if flags&(uint32(1)<<i) != 0 {
			if x != "" {
				x = ":" + x
			}
			s = append(s, fmt.Sprintf("%02d%s", i, x))
		}
	}
	return
}
