package audio

import (
	"strconv"

	"github.com/bogem/id3v2"
	"github.com/handiism/jw-media-downloader/internal/model"
)

// TagEditAction selects what happens to one tag field.
type TagEditAction int

const (
	// TagEmpty clears the field.
	TagEmpty TagEditAction = iota

	// TagModify writes the value from the manifest.
	TagModify

	// TagDoNotModify keeps whatever the file already carries.
	TagDoNotModify
)

// TagConfig configures which ID3 fields the Tagger writes.
type TagConfig struct {
	Title       TagEditAction
	Album       TagEditAction
	TrackNumber TagEditAction
	Language    TagEditAction
	Cover       TagEditAction
}

// DefaultTagConfig writes every supported field.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Title:       TagModify,
		Album:       TagModify,
		TrackNumber: TagModify,
		Language:    TagModify,
		Cover:       TagModify,
	}
}

// Tagger writes ID3v2 tags into downloaded files.
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a Tagger. A nil config means DefaultTagConfig.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes the tags of target, which belongs to pub. cover is a JPEG
// image and may be nil.
//
// The title tag always carries the manifest title, even when the file name
// uses a title override.
func (t *Tagger) SaveTags(target model.Target, pub *model.Publication, cover []byte) error {
	tag, err := id3v2.Open(target.Path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(target.Item.Title)
	}

	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(albumName(pub))
	}

	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(target.Item.Track))
	}

	switch t.config.Language {
	case TagEmpty:
		tag.DeleteFrames("TLAN")
	case TagModify:
		if pub.Locale != "" {
			tag.AddTextFrame("TLAN", id3v2.EncodingUTF8, pub.Locale)
		}
	}

	switch t.config.Cover {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Attached picture"))
	case TagModify:
		if cover != nil {
			tag.DeleteFrames(tag.CommonID("Attached picture"))
			tag.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    "image/jpeg",
				PictureType: id3v2.PTFrontCover,
				Description: "Cover",
				Picture:     cover,
			})
		}
	}

	return tag.Save()
}

func albumName(pub *model.Publication) string {
	name := pub.Name
	if name == "" {
		name = pub.Code
	}
	if pub.Issue != "" {
		name += " " + pub.Issue
	}
	return name
}
