// Package config provides configuration management for jw-media-downloader.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation and conversion to download.Options
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Publication "osg", nested layout
//	// 5 parallel downloads, 3 attempts, 5s base retry delay
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // A missing file is not an error: defaults are returned
//	}
//
// ${VAR} references in the file are replaced with environment values before
// decoding.
//
// # Saving Settings
//
//	settings.Target = "/media/jw"
//	err := settings.Save("/path/to/config.toml")
package config
