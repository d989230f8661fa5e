// Package batch runs the download of several publications in several
// languages, one download.Manager per publication and language.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/handiism/jw-media-downloader/internal/audio"
	"github.com/handiism/jw-media-downloader/internal/download"
	jwhttp "github.com/handiism/jw-media-downloader/internal/http"
	ioutils "github.com/handiism/jw-media-downloader/internal/io"
	"github.com/handiism/jw-media-downloader/internal/jw"
	"github.com/handiism/jw-media-downloader/internal/model"
)

// CoverFileName is the name of the artwork saved next to the media files.
const CoverFileName = "cover.jpg"

// ErrInvalidRequest is returned by Run when the request cannot start.
var ErrInvalidRequest = errors.New("invalid request")

// Client downloads media files and artwork.
type Client interface {
	download.Fetcher
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// Request describes one batch.
type Request struct {
	Target     string
	LocaleKeys []string
	Selectors  []jw.Selector
	Structure  model.Structure

	IncludeAudioDescriptions bool
	UseEnglishNames          bool

	Options download.Options

	CoverArt     bool
	CoverMaxSize int
	TagFiles     bool

	// Playlist writes a playlist per publication when not nil.
	Playlist *audio.PlaylistCreator
}

// PublicationResult is the outcome of one publication in one language.
type PublicationResult struct {
	Selector  jw.Selector
	LocaleKey string
	Dir       string

	download.Result

	// Failed counts dispatched files that did not complete.
	Failed int

	// Err is set when the publication could not be processed at all.
	Err error
}

// Summary accumulates the results of a batch.
type Summary struct {
	download.Result
	Publications []PublicationResult
}

// Runner processes batches. It is safe to reuse between runs but not for
// concurrent runs.
type Runner struct {
	client     Client
	resolver   *jw.Resolver
	images     *ioutils.ImageService
	tagger     *audio.Tagger
	onProgress func(download.ProgressEvent)

	received atomic.Int64
}

// NewRunner creates a Runner. onProgress receives the events of every
// manager plus the batch's own messages and may be called concurrently.
func NewRunner(client Client, resolver *jw.Resolver, onProgress func(download.ProgressEvent)) *Runner {
	return &Runner{
		client:     client,
		resolver:   resolver,
		images:     ioutils.NewImageService(),
		tagger:     audio.NewTagger(nil),
		onProgress: onProgress,
	}
}

// NewHTTPRunner creates a Runner backed by the catalog HTTP client. timeout
// bounds every request, manifests and artwork included; userAgent may be
// empty for the default.
func NewHTTPRunner(timeout time.Duration, userAgent string, onProgress func(download.ProgressEvent), resolverOpts ...jw.Option) *Runner {
	clientOpts := []jwhttp.Option{jwhttp.WithTimeout(timeout)}
	if userAgent != "" {
		clientOpts = append(clientOpts, jwhttp.WithUserAgent(userAgent))
	}
	client := jwhttp.NewClient(clientOpts...)

	resolverOpts = append([]jw.Option{jw.WithRequestTimeout(timeout)}, resolverOpts...)
	return NewRunner(client, jw.NewResolver(client, resolverOpts...), onProgress)
}

// ReceivedBytes returns the media bytes written so far by all runs. It may be
// called while Run is active.
func (r *Runner) ReceivedBytes() int64 {
	return r.received.Load()
}

// Run processes every selector for every locale key, in that order.
//
// A publication that cannot be resolved or prepared is logged and skipped;
// it never aborts the batch. The returned error is non-nil only for an
// invalid request or when ctx was cancelled.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, error) {
	var summary Summary

	if req.Target == "" {
		return summary, fmt.Errorf("%w: no target directory", ErrInvalidRequest)
	}
	if len(req.LocaleKeys) == 0 {
		return summary, fmt.Errorf("%w: no locale keys", ErrInvalidRequest)
	}
	if len(req.Selectors) == 0 {
		return summary, fmt.Errorf("%w: no publications", ErrInvalidRequest)
	}

	var english jw.EnglishInfoMap
	if req.UseEnglishNames {
		r.info("Fetching English publication info for naming...")
		english = jw.FetchEnglishInfo(ctx, r.resolver, req.Selectors, func(sel jw.Selector, err error) {
			r.warn(fmt.Sprintf("Could not fetch English info for '%s': %v", sel, err))
		})
	}

	for _, localeKey := range req.LocaleKeys {
		for _, sel := range req.Selectors {
			if err := ctx.Err(); err != nil {
				r.warn("Cancelled, remaining publications not processed.")
				r.logTotals(summary)
				return summary, err
			}

			res := r.processPublication(ctx, req, localeKey, sel, english)
			summary.Result = summary.Result.Add(res.Result)
			summary.Publications = append(summary.Publications, res)
		}
	}

	r.logTotals(summary)
	return summary, ctx.Err()
}

func (r *Runner) processPublication(ctx context.Context, req Request, localeKey string, sel jw.Selector, english jw.EnglishInfoMap) PublicationResult {
	res := PublicationResult{Selector: sel, LocaleKey: localeKey}

	issueLog := ""
	if sel.Issue != "" {
		issueLog = " issue " + sel.Issue
	}
	r.info(fmt.Sprintf("Processing pub '%s'%s for locale '%s'...", sel.Pub, issueLog, localeKey))

	if sel.RequiresIssue() {
		res.Err = fmt.Errorf("publication %q requires an issue", sel.Pub)
		r.warn(fmt.Sprintf("Publication '%s' requires an issue (e.g., '%s:YYYYMM'). Skipping.", sel.Pub, sel.Pub))
		return res
	}

	pub, err := r.resolver.Resolve(ctx, localeKey, sel, req.IncludeAudioDescriptions)
	if err != nil {
		res.Err = err
		r.fail(sel, localeKey, err)
		return res
	}

	policy := model.NamingPolicy{Structure: req.Structure}
	if req.Structure == model.StructureFlat {
		policy.LocaleTag = localeKey
	}

	pubDirName := jw.DisplayName(sel.Pub, pub.Name)
	if info, ok := english[sel]; ok {
		pubDirName = info.PubName
		policy.TitleOverrides = info.Titles
	}

	res.Dir = model.MediaDir(req.Target, pub, pubDirName, req.Structure)
	if err := ioutils.EnsureDir(res.Dir); err != nil {
		res.Err = fmt.Errorf("create media dir: %w", err)
		r.fail(sel, localeKey, res.Err)
		return res
	}

	opts := req.Options
	onBytes := opts.OnBytes
	opts.OnBytes = func(delta int64) {
		r.received.Add(delta)
		if onBytes != nil {
			onBytes(delta)
		}
	}

	manager := download.NewManager(r.client, opts, r.onProgress)
	targets := manager.Filter(pub.Items, res.Dir, policy)
	manager.Run(ctx, targets)
	res.Result = manager.Result()
	res.Failed = len(targets) - res.Downloaded

	var cover []byte
	if req.CoverArt {
		cover = r.saveCover(ctx, req, pub, res.Dir)
	}
	if req.TagFiles {
		r.tagFiles(manager.Completed(), pub, cover)
	}
	if req.Playlist != nil {
		r.writePlaylist(ctx, req.Playlist, pub, pubDirName, res.Dir, policy)
	}

	issueFin := ""
	if sel.Issue != "" {
		issueFin = "/" + sel.Issue
	}
	r.info(fmt.Sprintf("Finished '%s%s/%s'. Downloaded: %d, Skipped: %d, Size: %dKB.",
		sel.Pub, issueFin, localeKey, res.Downloaded, res.Skipped, res.Kilobytes))
	if res.Failed > 0 {
		r.warn(fmt.Sprintf("%d files of '%s/%s' could not be downloaded.", res.Failed, sel, localeKey))
	}

	return res
}

// saveCover writes the publication artwork as cover.jpg and returns the
// JPEG bytes for tagging. Failures are warnings and yield nil.
func (r *Runner) saveCover(ctx context.Context, req Request, pub *model.Publication, dir string) []byte {
	if !pub.HasImage() {
		r.verbose(fmt.Sprintf("No cover art listed for '%s'.", pub.Code))
		return nil
	}

	fetchCtx := ctx
	if req.Options.RequestTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, req.Options.RequestTimeout)
		defer cancel()
	}

	data, err := r.client.DownloadBytes(fetchCtx, pub.ImageURL)
	if err != nil {
		r.warn(fmt.Sprintf("Could not download cover art for '%s': %v", pub.Code, err))
		return nil
	}

	cover, err := r.images.PrepareCover(ctx, data, req.CoverMaxSize)
	if err != nil {
		r.warn(fmt.Sprintf("Could not convert cover art for '%s': %v", pub.Code, err))
		return nil
	}

	path := filepath.Join(dir, CoverFileName)
	if !req.Options.Force && ioutils.Exists(path) {
		return cover
	}
	if err := ioutils.WriteFile(ctx, path, cover); err != nil {
		r.warn(fmt.Sprintf("Could not save cover art for '%s': %v", pub.Code, err))
		return cover
	}
	r.verbose(fmt.Sprintf("Saved cover art to '%s'.", path))
	return cover
}

func (r *Runner) tagFiles(targets []model.Target, pub *model.Publication, cover []byte) {
	for _, target := range targets {
		if err := r.tagger.SaveTags(target, pub, cover); err != nil {
			r.warn(fmt.Sprintf("Could not tag '%s': %v", target.DisplayName, err))
		}
	}
}

// writePlaylist lists every file of pub present in dir, in manifest order.
func (r *Runner) writePlaylist(ctx context.Context, creator *audio.PlaylistCreator, pub *model.Publication, pubDirName, dir string, policy model.NamingPolicy) {
	var present []model.Target
	for _, item := range pub.Items {
		target := model.NewTarget(item, dir, policy)
		if ioutils.Exists(target.Path) {
			present = append(present, target)
		}
	}
	if len(present) == 0 {
		return
	}

	name := ioutils.SanitizeFileName(pubDirName)
	if pub.Issue != "" {
		name += " - " + pub.Issue
	}
	path := filepath.Join(dir, name+creator.Format().Extension())

	if err := ioutils.WriteFile(ctx, path, []byte(creator.CreatePlaylist(pub, present))); err != nil {
		r.warn(fmt.Sprintf("Could not write playlist '%s': %v", path, err))
		return
	}
	r.verbose(fmt.Sprintf("Wrote playlist '%s'.", path))
}

func (r *Runner) logTotals(s Summary) {
	r.info(fmt.Sprintf("All done. Total downloaded: %d, Total skipped: %d, Total size: %dKB.",
		s.Downloaded, s.Skipped, s.Kilobytes))
}

func (r *Runner) fail(sel jw.Selector, localeKey string, err error) {
	r.emit(download.ProgressEvent{
		Message: fmt.Sprintf("Could not process pub '%s' for locale '%s': %v", sel, localeKey, err),
		Level:   download.LevelError,
	})
}

func (r *Runner) info(msg string)    { r.emit(download.ProgressEvent{Message: msg, Level: download.LevelInfo}) }
func (r *Runner) verbose(msg string) { r.emit(download.ProgressEvent{Message: msg, Level: download.LevelVerbose}) }
func (r *Runner) warn(msg string)    { r.emit(download.ProgressEvent{Message: msg, Level: download.LevelWarning}) }

func (r *Runner) emit(event download.ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(event)
	}
}
