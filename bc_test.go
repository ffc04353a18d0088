package rwtxd

import (
	"strings"
	"testing"
)

func colorBlock(c0, c1 uint16, bits uint32) []byte {
	return []byte{
		byte(c0), byte(c0 >> 8),
		byte(c1), byte(c1 >> 8),
		byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
	}
}

func alphaBlock(a0, a1 byte, bits uint64) []byte {
	return []byte{
		a0, a1,
		byte(bits), byte(bits >> 8), byte(bits >> 16),
		byte(bits >> 24), byte(bits >> 32), byte(bits >> 40),
	}
}

func TestDecodeBC1Solid(t *testing.T) {
	p, err := decodeBC1(colorBlock(0xF800, 0xF800, 0), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 16; i++ {
		if got := texel(t, p, i); got != ([4]byte{255, 0, 0, 255}) {
			t.Fatalf("texel %d: expected solid red, got %v", i, got)
		}
	}
}

func TestDecodeBC1Interpolated(t *testing.T) {
	// c0 > c1, so indexes 2 and 3 are the 1/3 and 2/3 blend points
	p, err := decodeBC1(colorBlock(0xF800, 0x001F, 0xE4), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range [][4]byte{
		{255, 0, 0, 255},
		{0, 0, 255, 255},
		{170, 0, 85, 255},
		{85, 0, 170, 255},
	} {
		if got := texel(t, p, i); got != want {
			t.Errorf("texel %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestDecodeBC1PunchThrough(t *testing.T) {
	// c0 <= c1 selects the 3-color mode; index 3 is transparent black
	p, err := decodeBC1(colorBlock(0x001F, 0xF800, 0xE4), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range [][4]byte{
		{0, 0, 255, 255},
		{255, 0, 0, 255},
		{127, 0, 127, 255},
		{0, 0, 0, 0},
	} {
		if got := texel(t, p, i); got != want {
			t.Errorf("texel %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestDecodeBC1Clipped(t *testing.T) {
	p, err := decodeBC1(colorBlock(0xF800, 0x001F, 0xE4), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 2*2*4 {
		t.Fatalf("expected 16 bytes for a 2x2 level, got %d", len(p))
	}
	if got := texel(t, p, 0); got != ([4]byte{255, 0, 0, 255}) {
		t.Errorf("texel (0,0): expected red, got %v", got)
	}
	if got := texel(t, p, 1); got != ([4]byte{0, 0, 255, 255}) {
		t.Errorf("texel (1,0): expected blue, got %v", got)
	}
}

func TestDecodeBC2ExplicitAlpha(t *testing.T) {
	block := make([]byte, 16)
	block[0] = 0x50 // texels 0 and 1, low nibble first
	block[1] = 0xFA
	copy(block[8:], colorBlock(0xF800, 0xF800, 0))

	p, err := decodeBC2(block, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []byte{0, 85, 170, 255} {
		if got := texel(t, p, i); got != ([4]byte{255, 0, 0, want}) {
			t.Errorf("texel %d: expected red with alpha %d, got %v", i, want, got)
		}
	}
}

func TestDecodeBC3SevenStepAlpha(t *testing.T) {
	// a0 > a1 interpolates six in-between points
	block := append(alphaBlock(255, 0, 0|1<<3|2<<6|7<<9), colorBlock(0xF800, 0xF800, 0)...)
	p, err := decodeBC3(block, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []byte{255, 0, 218, 36} {
		if got := texel(t, p, i); got != ([4]byte{255, 0, 0, want}) {
			t.Errorf("texel %d: expected alpha %d, got %v", i, want, got)
		}
	}
	if got := texel(t, p, 4); got[3] != 255 {
		t.Errorf("texel 4: expected alpha 255 from index 0, got %v", got)
	}
}

func TestDecodeBC3FiveStepAlpha(t *testing.T) {
	// a0 <= a1 interpolates four points and pins indexes 6 and 7 to 0 and 255
	block := append(alphaBlock(0, 255, 6|7<<3|2<<6), colorBlock(0xF800, 0xF800, 0)...)
	p, err := decodeBC3(block, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []byte{0, 255, 51} {
		if got := texel(t, p, i); got[3] != want {
			t.Errorf("texel %d: expected alpha %d, got %v", i, want, got)
		}
	}
}

func TestDecodeBCTruncated(t *testing.T) {
	if _, err := decodeBC1(make([]byte, 7), 4, 4); err == nil {
		t.Error("bc1: expected an error for 7 of 8 bytes")
	}
	if _, err := decodeBC2(make([]byte, 15), 4, 4); err == nil {
		t.Error("bc2: expected an error for 15 of 16 bytes")
	}
	if _, err := decodeBC3(make([]byte, 15), 4, 4); err == nil {
		t.Error("bc3: expected an error for 15 of 16 bytes")
	}
}

func TestTryDecodeCompressedRetry(t *testing.T) {
	tex := &TextureInfo{Name: "mislabeled", Format: FormatBC1}

	// 16 bytes cannot be a 4x4 BC1 level, but decode cleanly as BC3
	block := append(alphaBlock(255, 255, 0), colorBlock(0xF800, 0xF800, 0)...)
	p, err := tex.tryDecodeCompressed(block, 4, 4)
	if err != nil {
		t.Fatalf("expected the bc3 retry to succeed, got %v", err)
	}
	if got := texel(t, p, 0); got != ([4]byte{255, 0, 0, 255}) {
		t.Errorf("expected opaque red, got %v", got)
	}

	// a well-formed BC1 level decodes directly
	p, err = tex.tryDecodeCompressed(colorBlock(0x001F, 0xF800, 0xE4), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := texel(t, p, 3); got != ([4]byte{0, 0, 0, 0}) {
		t.Errorf("expected the punch-through texel, got %v", got)
	}

	// when neither variant fits, the original error wins
	if _, err := tex.tryDecodeCompressed(make([]byte, 12), 4, 4); err == nil || !strings.Contains(err.Error(), "bc1") {
		t.Errorf("expected the bc1 error, got %v", err)
	}
}
