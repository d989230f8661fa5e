package model

// AudioDescriptionThreshold separates regular tracks from their
// audio-description variants. Tracks numbered above it are descriptions.
const AudioDescriptionThreshold = 500

// MediaItem describes one remote audio file of a publication.
type MediaItem struct {
	// Title is the track title in the manifest language.
	Title string

	// URL is the remote MP3 location.
	URL string

	// Track is the track number as published in the manifest.
	Track int

	// Duration is the track length in seconds, zero when unknown.
	Duration float64
}

// IsAudioDescription reports whether the item is an audio-description variant.
func (m MediaItem) IsAudioDescription() bool {
	return m.Track > AudioDescriptionThreshold
}

// Publication is a resolved manifest for one publication in one language.
type Publication struct {
	// Code is the publication symbol, e.g. "osg" or "w".
	Code string

	// Issue is the optional issue selector (YYYYMM).
	Issue string

	// Name is the publication title reported by the catalog, may be empty.
	Name string

	// LocaleKey is the catalog language key the manifest was requested with ("E", "X").
	LocaleKey string

	// Locale is the language's locale code ("en", "de").
	Locale string

	// LanguageName is the human readable language name.
	LanguageName string

	// Script is the writing script reported by the catalog, may be empty.
	Script string

	// ImageURL points to the publication artwork, may be empty.
	ImageURL string

	// Items lists the media files in manifest order.
	Items []MediaItem
}

// HasImage reports whether the catalog listed artwork for the publication.
func (p *Publication) HasImage() bool {
	return p.ImageURL != ""
}

// Titles maps track numbers to titles.
func (p *Publication) Titles() map[int]string {
	titles := make(map[int]string, len(p.Items))
	for _, item := range p.Items {
		titles[item.Track] = item.Title
	}
	return titles
}
