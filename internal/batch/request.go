package batch

import (
	"github.com/handiism/jw-media-downloader/internal/audio"
	"github.com/handiism/jw-media-downloader/internal/config"
	"github.com/handiism/jw-media-downloader/internal/jw"
	"github.com/handiism/jw-media-downloader/internal/model"
)

// NewRequest converts validated settings into a Request.
func NewRequest(settings *config.Settings) (Request, error) {
	structure, err := model.ParseStructure(settings.Structure)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Target:                   settings.ExpandTarget(),
		LocaleKeys:               settings.LocaleKeys(),
		Selectors:                jw.ParseSelectors(settings.Pubs),
		Structure:                structure,
		IncludeAudioDescriptions: settings.IncludeAudioDescriptions,
		UseEnglishNames:          settings.UseEnglishNames,
		Options:                  settings.DownloadOptions(),
		CoverArt:                 settings.CoverArt,
		CoverMaxSize:             settings.CoverMaxSize,
		TagFiles:                 settings.TagFiles,
	}

	if settings.PlaylistFormat != "" {
		format, err := audio.ParsePlaylistFormat(settings.PlaylistFormat)
		if err != nil {
			return Request{}, err
		}
		req.Playlist = audio.NewPlaylistCreator(format, settings.M3UExtended)
	}

	return req, nil
}
