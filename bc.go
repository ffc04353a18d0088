package rwtxd

import (
	"encoding/binary"
	"fmt"
)

// Block-compressed (DXT) level decoders. Each consumes whole 4x4 blocks
// and writes only the texels that fall inside the level's dimensions, so
// the edge blocks of narrow levels are clipped correctly.

func decodeBC1(data []byte, w, h int) ([]byte, error) {
	bw, bh := (w+3)/4, (h+3)/4
	if want := bw * bh * 8; len(data) != want {
		return nil, fmt.Errorf("decode bc1: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			decodeColorBlock(data[(by*bw+bx)*8:], out, bx*4, by*4, w, h, true)
		}
	}
	return out, nil
}

func decodeBC2(data []byte, w, h int) ([]byte, error) {
	bw, bh := (w+3)/4, (h+3)/4
	if want := bw * bh * 16; len(data) != want {
		return nil, fmt.Errorf("decode bc2: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*16:]
			decodeColorBlock(block[8:], out, bx*4, by*4, w, h, false)
			// 4-bit explicit alpha, one nibble per texel, low nibble first.
			for i := 0; i < 16; i++ {
				x, y := bx*4+i%4, by*4+i/4
				if x >= w || y >= h {
					continue
				}
				n := block[i/2]
				if i%2 == 1 {
					n >>= 4
				}
				out[(y*w+x)*4+3] = expand4(n & 0xF)
			}
		}
	}
	return out, nil
}

func decodeBC3(data []byte, w, h int) ([]byte, error) {
	bw, bh := (w+3)/4, (h+3)/4
	if want := bw * bh * 16; len(data) != want {
		return nil, fmt.Errorf("decode bc3: need %d bytes for %dx%d, have %d", want, w, h, len(data))
	}
	out := make([]byte, w*h*4)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*16:]
			decodeColorBlock(block[8:], out, bx*4, by*4, w, h, false)
			decodeAlphaBlock(block[:8], out, bx*4, by*4, w, h)
		}
	}
	return out, nil
}

// decodeColorBlock expands one 8-byte BC color block into out. punchThrough
// enables the 1-bit-alpha mode of BC1 when c0 <= c1; the color blocks of
// BC2/BC3 always decode as four opaque colors.
func decodeColorBlock(block, out []byte, x0, y0, w, h int, punchThrough bool) {
	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])
	bits := binary.LittleEndian.Uint32(block[4:])

	r0, g0, b0 := expand5(uint8(c0>>11)), expand6(uint8(c0>>5&0x3F)), expand5(uint8(c0&0x1F))
	r1, g1, b1 := expand5(uint8(c1>>11)), expand6(uint8(c1>>5&0x3F)), expand5(uint8(c1&0x1F))

	var pal [4][4]uint8
	pal[0] = [4]uint8{r0, g0, b0, 0xFF}
	pal[1] = [4]uint8{r1, g1, b1, 0xFF}
	if c0 > c1 || !punchThrough {
		pal[2] = [4]uint8{
			uint8((2*int(r0) + int(r1)) / 3),
			uint8((2*int(g0) + int(g1)) / 3),
			uint8((2*int(b0) + int(b1)) / 3),
			0xFF,
		}
		pal[3] = [4]uint8{
			uint8((int(r0) + 2*int(r1)) / 3),
			uint8((int(g0) + 2*int(g1)) / 3),
			uint8((int(b0) + 2*int(b1)) / 3),
			0xFF,
		}
	} else {
		pal[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			0xFF,
		}
		pal[3] = [4]uint8{} // transparent black
	}

	for i := 0; i < 16; i++ {
		x, y := x0+i%4, y0+i/4
		if x >= w || y >= h {
			continue
		}
		copy(out[(y*w+x)*4:(y*w+x)*4+4], pal[bits>>(2*i)&3][:])
	}
}

// decodeAlphaBlock expands the 8-byte interpolated-alpha half of a BC3
// block into the alpha channel of out.
func decodeAlphaBlock(block, out []byte, x0, y0, w, h int) {
	a0, a1 := block[0], block[1]
	var pal [8]uint8
	pal[0], pal[1] = a0, a1
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			pal[i+1] = uint8(((7-i)*int(a0) + i*int(a1)) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			pal[i+1] = uint8(((5-i)*int(a0) + i*int(a1)) / 5)
		}
		pal[6], pal[7] = 0, 0xFF
	}

	var bits uint64
	for i := 5; i >= 0; i-- {
		bits = bits<<8 | uint64(block[2+i])
	}
	for i := 0; i < 16; i++ {
		x, y := x0+i%4, y0+i/4
		if x >= w || y >= h {
			continue
		}
		out[(y*w+x)*4+3] = pal[bits>>(3*i)&7]
	}
}
