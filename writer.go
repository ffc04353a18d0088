package rwtxd

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Serialize writes an encoded texture dictionary to w: the TEXDICTIONARY
// header, the STRUCT with the texture count and device id, one
// TEXTURENATIVE section per texture, and a trailing extension. Section
// sizes are computed, never echoed from a previous parse.
func (a *Archive) Serialize(w io.Writer) error {
	payload := uint32(ChunkHeaderSize + 8)
	for _, t := range a.Textures {
		payload += ChunkHeaderSize + t.nativePayloadSize()
	}
	payload += ChunkHeaderSize // trailing extension

	if err := (ChunkHeader{SectionTexDictionary, payload, a.Version}).Serialize(w); err != nil {
		return fmt.Errorf("write dictionary header: %w", err)
	}
	if err := (ChunkHeader{SectionStruct, 8, a.Version}).Serialize(w); err != nil {
		return fmt.Errorf("write dictionary struct header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.Textures))); err != nil {
		return fmt.Errorf("write texture count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, a.DeviceID); err != nil {
		return fmt.Errorf("write device id: %w", err)
	}
	for _, t := range a.Textures {
		if err := t.serializeNative(w, a); err != nil {
			return fmt.Errorf("write texture %q: %w", t.Name, err)
		}
	}
	if err := (ChunkHeader{SectionExtension, 0, a.Version}).Serialize(w); err != nil {
		return fmt.Errorf("write dictionary extension: %w", err)
	}
	return nil
}

// SavePath writes the archive to the file at path. Pixel payloads are
// loaded first so that saving over the archive's own source file is safe.
func (a *Archive) SavePath(path string) error {
	for _, t := range a.Textures {
		t.PixelData(a) // a failure here surfaces as a placeholder on write
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write texture dictionary: %w", err)
	}
	if err := a.Serialize(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write texture dictionary: %w", err)
	}
	return nil
}
