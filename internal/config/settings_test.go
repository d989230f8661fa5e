package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Setenv("JWMD_TEST_ROOT", "/srv/media")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
target = "${JWMD_TEST_ROOT}/jw"
locales = ["E", "s"]
pubs = "sjjm,w:202505"
structure = "flat"
parallel_downloads = 2
playlist_format = "pls"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/media/jw", settings.Target)
	assert.Equal(t, []string{"E", "S"}, settings.LocaleKeys())
	assert.Equal(t, "sjjm,w:202505", settings.Pubs)
	assert.Equal(t, "flat", settings.Structure)
	assert.Equal(t, 2, settings.ParallelDownloads)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, settings.MaxRetries)
	assert.Equal(t, 1000, settings.CoverMaxSize)
	assert.NoError(t, settings.Validate())
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("target = "), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	settings := DefaultSettings()
	settings.Target = "/media/jw"
	settings.Locales = []string{"E"}
	settings.TagFiles = true

	require.NoError(t, settings.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		s := DefaultSettings()
		s.Target = "/media"
		s.Locales = []string{"E"}
		return s
	}

	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"missing target", func(s *Settings) { s.Target = " " }},
		{"missing locales", func(s *Settings) { s.Locales = []string{" , "} }},
		{"unknown structure", func(s *Settings) { s.Structure = "deep" }},
		{"zero parallel downloads", func(s *Settings) { s.ParallelDownloads = 0 }},
		{"zero retries", func(s *Settings) { s.MaxRetries = 0 }},
		{"negative delay", func(s *Settings) { s.RetryDelay = -1 }},
		{"zero timeout", func(s *Settings) { s.RequestTimeout = 0 }},
		{"unknown playlist", func(s *Settings) { s.PlaylistFormat = "xspf" }},
		{"unknown log format", func(s *Settings) { s.LogFormat = "xml" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.modify(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalid)
		})
	}
}

func TestDownloadOptions(t *testing.T) {
	s := DefaultSettings()
	s.Force = true
	opts := s.DownloadOptions()

	assert.Equal(t, 5, opts.Concurrency)
	assert.Equal(t, 3, opts.MaxRetries)
	assert.Equal(t, 5*time.Second, opts.RetryDelay)
	assert.Equal(t, 300*time.Second, opts.RequestTimeout)
	assert.True(t, opts.Force)
}

func TestExpandTarget(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("JWMD_TEST_DIR", "/data")

	s := &Settings{Target: "~/Music"}
	assert.Equal(t, filepath.Join(home, "Music"), s.ExpandTarget())

	s.Target = "$JWMD_TEST_DIR/jw"
	assert.Equal(t, "/data/jw", s.ExpandTarget())

	s.Target = "/abs/path"
	assert.Equal(t, "/abs/path", s.ExpandTarget())
}
