package download

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/handiism/jw-media-downloader/internal/http"
	ioutils "github.com/handiism/jw-media-downloader/internal/io"
	"github.com/handiism/jw-media-downloader/internal/model"
	"golang.org/x/sync/errgroup"
)

// Fetcher downloads one remote file to a local path.
type Fetcher interface {
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (http.Transfer, error)
}

// Options configures a Manager.
type Options struct {
	// Concurrency is the number of targets retrieved in parallel (minimum 1).
	Concurrency int

	// MaxRetries is the total number of attempts per target (minimum 1).
	MaxRetries int

	// RetryDelay is the base of the exponential backoff.
	RetryDelay time.Duration

	// RequestTimeout bounds a single attempt, response body included.
	RequestTimeout time.Duration

	// Force re-downloads files that already exist.
	Force bool

	// OnBytes, when set, receives the number of bytes written since its
	// previous call for any target. It is called from concurrent goroutines.
	OnBytes func(delta int64)
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Concurrency:    5,
		MaxRetries:     3,
		RetryDelay:     5 * time.Second,
		RequestTimeout: 300 * time.Second,
	}
}

// Manager coordinates the downloads of one publication.
//
// A Manager is meant to be used once: counters start at zero and accumulate
// over Filter and Run.
type Manager struct {
	fetcher    Fetcher
	opts       Options
	stats      *Stats
	onProgress func(ProgressEvent)

	// sleep and jitter are replaced in tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration

	mu        sync.Mutex
	completed []model.Target
}

// NewManager creates a new download Manager. onProgress may be nil; it is
// called from concurrent goroutines while Run is active.
func NewManager(fetcher Fetcher, opts Options, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		fetcher:    fetcher,
		opts:       opts,
		stats:      &Stats{},
		onProgress: onProgress,
		sleep:      sleepContext,
		jitter:     randomJitter,
	}
}

// Load filters items against dir and downloads the missing ones. It blocks
// until every dispatched target is terminal.
func (m *Manager) Load(ctx context.Context, items []model.MediaItem, dir string, policy model.NamingPolicy) {
	m.Run(ctx, m.Filter(items, dir, policy))
}

// Filter computes the target of every item and returns those that need to
// be downloaded, in input order. Items whose destination exists are counted
// as skipped unless Force is set.
func (m *Manager) Filter(items []model.MediaItem, dir string, policy model.NamingPolicy) []model.Target {
	targets := make([]model.Target, 0, len(items))
	for _, item := range items {
		target := model.NewTarget(item, dir, policy)

		if !m.opts.Force && ioutils.Exists(target.Path) {
			m.stats.AddSkipped()
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("'%s' already exists, skipping.", target.DisplayName),
				Level:   LevelInfo,
				Kind:    KindSkipped,
				Count:   1,
			})
			continue
		}

		targets = append(targets, target)
	}
	return targets
}

// Run retrieves targets with at most Options.Concurrency in flight and
// returns once all of them are terminal. Individual failures never abort
// the run. Once ctx is done no further targets are dispatched.
func (m *Manager) Run(ctx context.Context, targets []model.Target) {
	if len(targets) == 0 {
		return
	}

	concurrency := max(1, m.opts.Concurrency)
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Starting download of %d files with %d parallel streams...", len(targets), concurrency),
		Level:   LevelInfo,
		Kind:    KindQueued,
		Count:   len(targets),
	})

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, target := range targets {
		if ctx.Err() != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Cancelled, %d files not started.", len(targets)-i),
				Level:   LevelWarning,
			})
			break
		}
		g.Go(func() error {
			m.retrieve(ctx, target)
			return nil
		})
	}

	_ = g.Wait()
}

// Result returns the counters. Call it after Load or Run has returned.
func (m *Manager) Result() Result {
	return m.stats.Result()
}

// Completed returns the targets downloaded successfully, in completion order.
func (m *Manager) Completed() []model.Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Target(nil), m.completed...)
}

func (m *Manager) markCompleted(target model.Target) {
	m.mu.Lock()
	m.completed = append(m.completed, target)
	m.mu.Unlock()
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// DownloadAll downloads items into dir and returns the counters. Per-item
// failures are reported through onProgress only.
func DownloadAll(ctx context.Context, fetcher Fetcher, items []model.MediaItem, dir string, policy model.NamingPolicy, opts Options, onProgress func(ProgressEvent)) Result {
	m := NewManager(fetcher, opts, onProgress)
	m.Load(ctx, items, dir, policy)
	return m.Result()
}
