package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons", "filewithcolons"},
		{"file<with>brackets", "filewithbrackets"},
		{`file/with\slashes`, "filewithslashes"},
		{"file|with|pipes", "filewithpipes"},
		{"file?with*wildcards", "filewithwildcards"},
		{`"Sing Out Joyfully" to Jehovah`, "Sing Out Joyfully to Jehovah"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
		{"Song: Part 1/2", "Song Part 12"},
		{"Café", "Café"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.input))
		})
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.mp3")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	require.NoError(t, RemoveIfExists(path))
	assert.False(t, Exists(path))

	// Second removal is a no-op.
	assert.NoError(t, RemoveIfExists(path))
}

func TestEnsureDirAndWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "en", "Original Songs")
	require.NoError(t, EnsureDir(dir))

	path := filepath.Join(dir, "playlist.m3u")
	require.NoError(t, WriteFile(context.Background(), path, []byte("#EXTM3U\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, WriteFile(ctx, path, nil), context.Canceled)

	// A cancelled write does not truncate the existing file.
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n", string(data))
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_PrepareCover(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	out, err := svc.PrepareCover(ctx, testPNG(t, 300, 200), 150)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 150, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	// Small images keep their size.
	out, err = svc.PrepareCover(ctx, testPNG(t, 40, 20), 150)
	require.NoError(t, err)
	cfg, _, err = image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestImageService_InvalidData(t *testing.T) {
	_, err := NewImageService().PrepareCover(context.Background(), []byte("not an image"), 0)
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{1500, 1000, 1000, 1000, 1000, 666},
		{1000, 1500, 1000, 1000, 666, 1000},
		{800, 600, 1000, 1000, 800, 600},
	}
	for _, tt := range tests {
		gotW, gotH := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
		assert.Equal(t, tt.wantW, gotW)
		assert.Equal(t, tt.wantH, gotH)
	}
}
