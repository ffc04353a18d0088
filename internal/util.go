package internal

import (
	"fmt"
	"path"
	"strings"
)

// MatchNameGlob is like path.Match, but case-insensitive, for matching
// texture names (which are flat, with no path separators).
func MatchNameGlob(pattern string, name string) (matched bool, err error) {
	return path.Match(strings.ToLower(pattern), strings.ToLower(name))
}

// FormatBytesSI formats the provided quantity with SI prefixes.
func FormatBytesSI(b int64) string {
	var neg bool
	if b < 0 {
		neg = true
		b *= -1
	}
	const unit = 1000
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	if neg {
		return fmt.Sprintf("-%.1f %cB", float64(b)/float64(div), "kMGTPE"[exp])
	} else {
		return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "kMGTPE"[exp])
	}
}
