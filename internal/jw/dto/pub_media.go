package dto

import (
	"strings"

	"github.com/handiism/jw-media-downloader/internal/model"
)

// PubMedia is the response of the GETPUBMEDIALINKS endpoint.
type PubMedia struct {
	PubName   string                            `json:"pubName"`
	Pub       string                            `json:"pub"`
	Issue     string                            `json:"issue"`
	Languages map[string]Language               `json:"languages"`
	Files     map[string]map[string][]MediaFile `json:"files"`
	PubImage  *Image                            `json:"pubImage"`
}

// Language describes one language in the response.
type Language struct {
	Name      string `json:"name"`
	Locale    string `json:"locale"`
	Script    string `json:"script"`
	Direction string `json:"direction"`
}

// MediaFile is one entry of a format listing (MP3, AAC).
type MediaFile struct {
	Title    string  `json:"title"`
	File     FileRef `json:"file"`
	Filesize int64   `json:"filesize"`
	Track    int     `json:"track"`
	Duration float64 `json:"duration"`
	MimeType string  `json:"mimetype"`
}

// FileRef points at the downloadable file.
type FileRef struct {
	URL              string `json:"url"`
	ModifiedDatetime string `json:"modifiedDatetime"`
}

// Image is the publication artwork reference.
type Image struct {
	URL string `json:"url"`
}

// ToMediaItem converts a MediaFile to a model.MediaItem.
func (f MediaFile) ToMediaItem() model.MediaItem {
	// Some CDN links are protocol-relative.
	url := f.File.URL
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}

	return model.MediaItem{
		Title:    strings.TrimSpace(f.Title),
		URL:      url,
		Track:    f.Track,
		Duration: f.Duration,
	}
}

// ImageURL returns the artwork URL or an empty string.
func (p *PubMedia) ImageURL() string {
	if p.PubImage == nil {
		return ""
	}
	return p.PubImage.URL
}
