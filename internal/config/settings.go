package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/handiism/jw-media-downloader/internal/audio"
	"github.com/handiism/jw-media-downloader/internal/download"
	"github.com/handiism/jw-media-downloader/internal/model"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Settings holds all configuration options.
type Settings struct {
	// Selection
	Target  string   `toml:"target"`
	Locales []string `toml:"locales"`
	Pubs    string   `toml:"pubs"`

	// Layout and naming
	Structure                string `toml:"structure"` // nested, flat
	UseEnglishNames          bool   `toml:"use_english_names"`
	IncludeAudioDescriptions bool   `toml:"include_audio_descriptions"`

	// Download settings
	ParallelDownloads int  `toml:"parallel_downloads"`
	MaxRetries        int  `toml:"max_retries"`
	RetryDelay        int  `toml:"retry_delay"`     // seconds
	RequestTimeout    int  `toml:"request_timeout"` // seconds
	Force             bool `toml:"force"`

	// Cover art settings
	CoverArt     bool `toml:"cover_art"`
	CoverMaxSize int  `toml:"cover_max_size"`

	// Tag settings
	TagFiles bool `toml:"tag_files"`

	// Playlist settings
	PlaylistFormat string `toml:"playlist_format"` // "", m3u, pls, wpl, zpl
	M3UExtended    bool   `toml:"m3u_extended"`

	// Logging
	Verbose   bool   `toml:"verbose"`
	LogFormat string `toml:"log_format"` // text, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	opts := download.DefaultOptions()
	return &Settings{
		Pubs:      "osg",
		Structure: string(model.StructureNested),

		ParallelDownloads: opts.Concurrency,
		MaxRetries:        opts.MaxRetries,
		RetryDelay:        int(opts.RetryDelay / time.Second),
		RequestTimeout:    int(opts.RequestTimeout / time.Second),

		CoverMaxSize: 1000,

		M3UExtended: true,

		LogFormat: "text",
	}
}

// DefaultPath returns the settings file location in the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "jw-media-downloader", "config.toml")
}

// Load reads settings from a TOML file. Keys absent from the file keep their
// default value; a missing file yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	settings := DefaultSettings()
	if _, err := toml.Decode(substituteEnvVars(string(data)), settings); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}

// Validate checks the settings needed to start a run.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Target) == "" {
		return fmt.Errorf("%w: target directory is required", ErrInvalid)
	}
	if len(s.LocaleKeys()) == 0 {
		return fmt.Errorf("%w: at least one locale key is required", ErrInvalid)
	}
	if _, err := model.ParseStructure(s.Structure); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if s.ParallelDownloads < 1 {
		return fmt.Errorf("%w: parallel_downloads must be at least 1", ErrInvalid)
	}
	if s.MaxRetries < 1 {
		return fmt.Errorf("%w: max_retries must be at least 1", ErrInvalid)
	}
	if s.RetryDelay < 0 {
		return fmt.Errorf("%w: retry_delay must not be negative", ErrInvalid)
	}
	if s.RequestTimeout < 1 {
		return fmt.Errorf("%w: request_timeout must be at least 1", ErrInvalid)
	}
	if s.PlaylistFormat != "" {
		if _, err := audio.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	switch s.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, s.LogFormat)
	}
	return nil
}

// LocaleKeys returns the trimmed, upper-cased locale keys. A single entry may
// itself be a comma separated list.
func (s *Settings) LocaleKeys() []string {
	var keys []string
	for _, entry := range s.Locales {
		for _, key := range strings.Split(entry, ",") {
			if key = strings.ToUpper(strings.TrimSpace(key)); key != "" {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// DownloadOptions converts settings to download.Options.
func (s *Settings) DownloadOptions() download.Options {
	return download.Options{
		Concurrency:    s.ParallelDownloads,
		MaxRetries:     s.MaxRetries,
		RetryDelay:     time.Duration(s.RetryDelay) * time.Second,
		RequestTimeout: time.Duration(s.RequestTimeout) * time.Second,
		Force:          s.Force,
	}
}

// ExpandTarget resolves a leading "~" and $VAR references in Target.
func (s *Settings) ExpandTarget() string {
	target := os.ExpandEnv(s.Target)
	if target == "~" || strings.HasPrefix(target, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			target = filepath.Join(home, strings.TrimPrefix(target, "~"))
		}
	}
	return target
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Unknown variables are left unchanged.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		if value, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return value
		}
		return match
	})
}
