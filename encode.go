package rwtxd

import (
	"encoding/binary"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// NewTextureFromImage builds an authorable texture from img: pixels are
// packed into the given uncompressed format and mip levels are generated
// by Catmull-Rom downscaling. mipmaps <= 0 requests a full chain down to
// 1x1. Block-compressed and paletted target formats are not supported.
func NewTextureFromImage(name string, img image.Image, f RasterFormat, mipmaps int) (*TextureInfo, error) {
	if len(name) > 31 {
		return nil, fmt.Errorf("texture name %q longer than 31 bytes", name)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 || w > 0xFFFF || h > 0xFFFF {
		return nil, fmt.Errorf("image dimensions %dx%d out of range", w, h)
	}

	var enc func(*image.NRGBA) []byte
	var depth uint8
	var d3d uint32
	switch f {
	case FormatRGBA32:
		enc, depth, d3d = encodeBGRA8888, 32, D3DFmtA8R8G8B8
	case FormatRGBA16:
		enc, depth, d3d = encode1555, 16, D3DFmtA1R5G5B5
	case FormatLum8:
		enc, depth, d3d = encodeLum8, 8, D3DFmtL8
	case FormatLumAlpha8:
		enc, depth, d3d = encodeLumAlpha8, 16, D3DFmtA8L8
	default:
		return nil, fmt.Errorf("encoding to %s: %w", f, ErrUnsupportedFormat)
	}

	if max := maxMipCount(w, h); mipmaps <= 0 || mipmaps > max {
		mipmaps = max
	}

	t := &TextureInfo{
		Name:        name,
		Width:       uint16(w),
		Height:      uint16(h),
		Depth:       depth,
		Format:      f,
		MipmapCount: uint8(mipmaps),
		PlatformID:  PlatformD3D9,
		D3DFormat:   d3d,
		RasterType:  rasterTypeTexture,
		FilterMode:  FilterLinear,
		AddressingU: AddressWrap,
		AddressingV: AddressWrap,
	}
	t.RasterFormatFlags = f.classCode() << rasterClassShift
	if mipmaps > 1 {
		t.RasterFormatFlags |= RasterMipmapped
	}

	src := toNRGBA(img)
	var buf []byte
	for i := 0; i < mipmaps; i++ {
		mw, mh := mipDims(t.Width, t.Height, i)
		level := src
		if mw != w || mh != h {
			level = image.NewNRGBA(image.Rect(0, 0, mw, mh))
			xdraw.CatmullRom.Scale(level, level.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		}
		buf = append(buf, enc(level)...)
	}
	t.DataSize = TextureDataSize(t.Width, t.Height, f, mipmaps)
	t.pixelData = buf
	return t, nil
}

// rasterTypeTexture is the raster_type of a plain texture raster.
const rasterTypeTexture = 0x04

// maxMipCount returns the length of a full mip chain down to 1x1.
func maxMipCount(w, h int) int {
	n := 1
	for w > 1 || h > 1 {
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
		n++
	}
	return n
}

// toNRGBA returns img as a zero-origin NRGBA image, converting if needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if p, ok := img.(*image.NRGBA); ok && p.Rect.Min == (image.Point{}) {
		return p
	}
	b := img.Bounds()
	p := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(p, image.Point{}, img, b, xdraw.Src, nil)
	return p
}

func encodeBGRA8888(p *image.NRGBA) []byte {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := p.Pix[y*p.Stride:]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+4]
			d := out[(y*w+x)*4:]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
		}
	}
	return out
}

func encode1555(p *image.NRGBA) []byte {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	out := make([]byte, w*h*2)
	for y := 0; y < h; y++ {
		row := p.Pix[y*p.Stride:]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+4]
			v := uint16(s[0]>>3)<<10 | uint16(s[1]>>3)<<5 | uint16(s[2]>>3)
			if s[3] >= 0x80 {
				v |= 0x8000
			}
			binary.LittleEndian.PutUint16(out[(y*w+x)*2:], v)
		}
	}
	return out
}

func encodeLum8(p *image.NRGBA) []byte {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := p.Pix[y*p.Stride:]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+4]
			out[y*w+x] = luminance(s[0], s[1], s[2])
		}
	}
	return out
}

func encodeLumAlpha8(p *image.NRGBA) []byte {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	out := make([]byte, w*h*2)
	for y := 0; y < h; y++ {
		row := p.Pix[y*p.Stride:]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+4]
			out[(y*w+x)*2] = luminance(s[0], s[1], s[2])
			out[(y*w+x)*2+1] = s[3]
		}
	}
	return out
}

// luminance converts linear RGB to greyscale with Rec. 601 weights.
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}
