// Package txdutil contains helpers for editing texture dictionaries on disk.
package txdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rwforge/rwtxd"
)

// Update edits the texture dictionary at path in-place. The new contents are
// written to a temporary file in the same directory and renamed over the
// original, so a failed update never leaves a truncated dictionary behind.
func Update(path string, dryRun bool, fn func(*rwtxd.Archive) error) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("open txd: %w", err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open txd: %w", err)
	}

	var a rwtxd.Archive
	a.Path = path
	if err := a.Deserialize(buf); err != nil {
		return fmt.Errorf("read txd: %w", err)
	}

	if err := fn(&a); err != nil {
		return err
	}

	if !dryRun {
		tf, err := os.CreateTemp(filepath.Dir(path), ".txd*")
		if err != nil {
			return fmt.Errorf("write txd: create temp file: %w", err)
		}
		defer os.Remove(tf.Name())

		if err := a.Serialize(tf); err != nil {
			tf.Close()
			return fmt.Errorf("write txd: %w", err)
		}
		if err := tf.Chmod(fi.Mode().Perm()); err != nil {
			tf.Close()
			return fmt.Errorf("write txd: %w", err)
		}
		if err := tf.Close(); err != nil {
			return fmt.Errorf("write txd: %w", err)
		}
		if err := os.Rename(tf.Name(), path); err != nil {
			return fmt.Errorf("write txd: replace original: %w", err)
		}
	}
	return nil
}
