package jw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwhttp "github.com/handiism/jw-media-downloader/internal/http"
	"github.com/handiism/jw-media-downloader/internal/jw/dto"
	"github.com/handiism/jw-media-downloader/internal/model"
)

// DefaultBaseURL is the pub-media endpoint of the jw.org catalog.
const DefaultBaseURL = "https://b.jw-cdn.org/apis/pub-media/GETPUBMEDIALINKS"

// EnglishLocaleKey is the catalog key of the English language.
const EnglishLocaleKey = "E"

var (
	// ErrNotFound is returned when the catalog has no such publication or issue.
	ErrNotFound = errors.New("publication not found")

	// ErrLocaleNotFound is returned when the manifest lacks the requested language.
	ErrLocaleNotFound = errors.New("language not available for publication")

	// ErrNoAudio is returned when the manifest lists no MP3 files for the language.
	ErrNoAudio = errors.New("no MP3 files listed")
)

// Getter fetches a URL and returns the response body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Resolver turns publication selectors into manifests.
type Resolver struct {
	client  Getter
	baseURL string
	timeout time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL sets a custom endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(r *Resolver) {
		r.baseURL = u
	}
}

// WithRequestTimeout bounds every manifest request. Zero means no bound
// beyond the caller's context.
func WithRequestTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// NewResolver creates a Resolver that fetches manifests through client.
func NewResolver(client Getter, opts ...Option) *Resolver {
	r := &Resolver{
		client:  client,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches the manifest of sel in the language localeKey.
//
// Audio-description tracks (numbered above model.AudioDescriptionThreshold)
// are dropped unless includeAudioDescriptions is set. Item order follows the
// manifest.
func (r *Resolver) Resolve(ctx context.Context, localeKey string, sel Selector, includeAudioDescriptions bool) (*model.Publication, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	body, err := r.client.Get(ctx, r.manifestURL(localeKey, sel))
	if err != nil {
		var statusErr *jwhttp.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", sel, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch manifest for %s: %w", sel, err)
	}

	var media dto.PubMedia
	if err := json.Unmarshal(body, &media); err != nil {
		return nil, fmt.Errorf("decode manifest for %s: %w", sel, err)
	}

	return toPublication(&media, localeKey, sel, includeAudioDescriptions)
}

func (r *Resolver) manifestURL(localeKey string, sel Selector) string {
	params := url.Values{}
	params.Set("output", "json")
	params.Set("pub", sel.Pub)
	params.Set("fileformat", "MP3,AAC")
	params.Set("alllangs", "0")
	params.Set("langwritten", localeKey)
	params.Set("txtCMSLang", localeKey)
	if sel.Issue != "" {
		params.Set("issue", sel.Issue)
	}
	return r.baseURL + "?" + params.Encode()
}

func toPublication(media *dto.PubMedia, localeKey string, sel Selector, includeAudioDescriptions bool) (*model.Publication, error) {
	lang, ok := media.Languages[localeKey]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", sel, localeKey, ErrLocaleNotFound)
	}

	files, ok := media.Files[localeKey]["MP3"]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", sel, localeKey, ErrNoAudio)
	}

	pub := &model.Publication{
		Code:         sel.Pub,
		Issue:        sel.Issue,
		Name:         strings.TrimSpace(media.PubName),
		LocaleKey:    localeKey,
		Locale:       lang.Locale,
		LanguageName: lang.Name,
		Script:       lang.Script,
		ImageURL:     media.ImageURL(),
		Items:        make([]model.MediaItem, 0, len(files)),
	}

	for _, f := range files {
		item := f.ToMediaItem()
		if item.IsAudioDescription() && !includeAudioDescriptions {
			continue
		}
		pub.Items = append(pub.Items, item)
	}

	return pub, nil
}
