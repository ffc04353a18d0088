package rwtxd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Recovery scanning bounds. They guarantee termination on adversarial
// input.
const (
	maxPlausibleTextures = 10000
	maxScanTextures      = 100
	maxScanSteps         = 10000
	maxScanZeroRun       = 50
)

// Archive is a RenderWare texture dictionary: an ordered collection of
// textures plus the archive-level metadata needed to write it back.
// Textures keep their file order; names need not be unique in malformed
// dictionaries, and name lookups return the first match.
type Archive struct {
	Path     string
	Version  Version
	DeviceID uint32
	Textures []*TextureInfo

	buf []byte // parse buffer, retained only for memory-backed archives
}

// LoadPath reads and parses the texture dictionary at path. Pixel payloads
// are not loaded up front; they are read from the file on first use.
func LoadPath(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture dictionary: %w", err)
	}
	a := &Archive{Path: path}
	if err := a.Deserialize(data); err != nil {
		return nil, err
	}
	a.buf = nil // pixel data comes from the file
	return a, nil
}

// Deserialize parses a texture dictionary from data. The archive keeps a
// reference to data to serve later pixel reads. A corrupt texture entry is
// logged and skipped; only archive-level damage (bad magic, truncated
// header) fails the whole parse.
func (a *Archive) Deserialize(data []byte) error {
	a.buf = data
	a.Textures = nil

	c := newCursor(data, 0)
	hdr, err := readChunkHeader(c)
	if err != nil {
		return err
	}
	if hdr.Type != SectionTexDictionary {
		return fmt.Errorf("section type 0x%02X: %w", hdr.Type, ErrNotTextureDictionary)
	}
	a.Version = hdr.Version

	count := -1
	if w, ok := c.peekU32(); ok && w == SectionStruct {
		sh, err := readChunkHeader(c)
		if err != nil {
			return err
		}
		n, err := c.u32("texture count")
		if err != nil {
			return err
		}
		if a.DeviceID, err = c.u32("device id"); err != nil {
			return err
		}
		if extra := int(sh.Size) - 8; extra > 0 && extra <= c.remaining() {
			c.off += extra
		}
		if n > maxPlausibleTextures {
			logrus.WithFields(logrus.Fields{
				"count": n,
				"path":  a.Path,
			}).Warn("implausible texture count, scanning for textures instead")
		} else {
			count = int(n)
		}
	}

	if count <= 0 {
		// No struct, a zero count, or an implausible one: recover whatever
		// textures the rest of the buffer holds.
		a.scanTextures(c)
		return nil
	}
	a.walkStructured(c, count)
	return nil
}

// walkStructured reads count texture natives, skipping unknown labeled
// sections between them. A native that fails to decode consumes its slot
// so a single corrupt entry cannot abort the archive.
func (a *Archive) walkStructured(c *cursor, count int) {
	for found := 0; found < count && c.remaining() >= ChunkHeaderSize; {
		start := c.pos()
		hdr, err := readChunkHeader(c)
		if err != nil {
			return
		}
		n := int(hdr.Size)
		usable := n > 0 && n <= c.remaining()
		switch hdr.Type {
		case SectionTextureNative, SectionTextureNativeExt:
			end := c.off + n
			if !usable {
				end = len(c.data)
			}
			t := new(TextureInfo)
			if err := t.deserializeNative(c.data[c.off:end], c.pos(), hdr); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"offset": fmt.Sprintf("0x%X", start),
					"path":   a.Path,
				}).Warn("skipping unreadable texture")
			} else {
				a.Textures = append(a.Textures, t)
			}
			found++
			if usable {
				c.off += n
			}
		default:
			// Unknown labeled section: skip its declared size when usable,
			// otherwise resynchronize right after the header.
			if usable {
				c.off += n
			}
		}
	}
}

// scanTextures recovers texture natives by scanning the remaining buffer
// for section markers. Used when the dictionary's STRUCT is missing or its
// count is zero or implausible.
func (a *Archive) scanTextures(c *cursor) {
	var zeroRun, steps int
	for c.remaining() >= ChunkHeaderSize {
		if len(a.Textures) >= maxScanTextures {
			logrus.WithField("path", a.Path).Warn("texture scan stopped at texture cap")
			return
		}
		if steps++; steps > maxScanSteps {
			logrus.WithField("path", a.Path).Warn("texture scan stopped at step cap")
			return
		}
		w, _ := c.peekU32()
		if w == SectionTextureNative || w == SectionTextureNativeExt {
			hdr, err := readChunkHeader(c)
			if err != nil {
				return
			}
			n := int(hdr.Size)
			usable := n > 0 && n <= c.remaining()
			end := c.off + n
			if !usable {
				end = len(c.data)
			}
			t := new(TextureInfo)
			if err := t.deserializeNative(c.data[c.off:end], c.pos(), hdr); err == nil {
				a.Textures = append(a.Textures, t)
				zeroRun = 0
				if usable {
					c.off += n
				}
				continue
			}
			// False positive: rewind to the marker and step over it.
			c.off -= ChunkHeaderSize
		}
		if w == 0 {
			if zeroRun++; zeroRun >= maxScanZeroRun {
				return
			}
		} else {
			zeroRun = 0
		}
		c.off += 4
	}
}

// Texture returns the first texture with the given name, or nil. Names are
// matched case-insensitively, as the engine does.
func (a *Archive) Texture(name string) *TextureInfo {
	for _, t := range a.Textures {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// AddTexture appends t to the archive.
func (a *Archive) AddTexture(t *TextureInfo) {
	a.Textures = append(a.Textures, t)
}

// RemoveTexture removes the first texture with the given name, reporting
// whether one was removed.
func (a *Archive) RemoveTexture(name string) bool {
	for i, t := range a.Textures {
		if strings.EqualFold(t.Name, name) {
			a.Textures = append(a.Textures[:i], a.Textures[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all textures.
func (a *Archive) Clear() {
	a.Textures = nil
}

// TotalTextures returns the number of textures in the archive.
func (a *Archive) TotalTextures() int {
	return len(a.Textures)
}

// Statistics summarizes an archive for display.
type Statistics struct {
	TotalTextures     int
	TotalSizeBytes    int64
	AverageWidth      int
	AverageHeight     int
	FormatCounts      map[RasterFormat]int
	RenderWareVersion string
}

// Statistics computes a summary of the archive's contents.
func (a *Archive) Statistics() Statistics {
	s := Statistics{
		TotalTextures:     len(a.Textures),
		FormatCounts:      make(map[RasterFormat]int),
		RenderWareVersion: a.Version.String(),
	}
	var w, h int64
	for _, t := range a.Textures {
		s.TotalSizeBytes += int64(t.DataSize)
		w += int64(t.Width)
		h += int64(t.Height)
		s.FormatCounts[t.Format]++
	}
	if n := int64(len(a.Textures)); n > 0 {
		s.AverageWidth = int(w / n)
		s.AverageHeight = int(h / n)
	}
	return s
}
