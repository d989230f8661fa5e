package ioutils

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars   = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)
	multiSpace     = regexp.MustCompile(`\s+`)
	trailingPeriod = regexp.MustCompile(`[. ]+$`)
)

// SanitizeFileName removes characters that are invalid in file or folder names.
//
// The following transformations are applied:
//   - Invalid characters (\/:*?"<>| and control chars 0x00-0x1f) are dropped
//   - The result is normalized to Unicode NFC
//   - Runs of whitespace collapse to a single space
//   - Leading whitespace, trailing dots and trailing whitespace are removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")  // Returns "Song Part 12"
//	SanitizeFileName("Track...")        // Returns "Track"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "")
	name = norm.NFC.String(name)
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.TrimLeft(name, " ")
	return trailingPeriod.ReplaceAllString(name, "")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists reports whether something is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RemoveIfExists deletes the file at path. A missing file is not an error.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// WriteFile writes data to a file, creating or truncating it with mode 0644.
// It returns ctx.Err() without touching path once ctx is done, so artwork and
// playlists written after the downloads of a cancelled run leave any previous
// file intact.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
