package download

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	ioutils "github.com/handiism/jw-media-downloader/internal/io"
	"github.com/handiism/jw-media-downloader/internal/model"
)

// maxJitter bounds the random component added to every backoff delay.
const maxJitter = time.Second

// MaxBackoff caps the exponential part of a backoff delay.
const MaxBackoff = 24 * time.Hour

// State is the lifecycle state of one target's retrieval.
type State int

const (
	StatePending State = iota
	StateAttempting
	StateBackingOff
	StateSucceeded
	StatePermanentlyFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAttempting:
		return "attempting"
	case StateBackingOff:
		return "backing-off"
	case StateSucceeded:
		return "succeeded"
	case StatePermanentlyFailed:
		return "permanently-failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StatePermanentlyFailed
}

// nextState returns the state following an attempt. attempts is the number
// of attempts made so far, including the one that produced err.
func nextState(attempts, maxAttempts int, err error) State {
	switch {
	case err == nil:
		return StateSucceeded
	case attempts < maxAttempts:
		return StateBackingOff
	default:
		return StatePermanentlyFailed
	}
}

// Backoff returns the wait before the attempt following the failed attempt
// attemptIndex (zero-based): base * 2^attemptIndex + jitter. The exponential
// part saturates at MaxBackoff.
func Backoff(base time.Duration, attemptIndex int, jitter time.Duration) time.Duration {
	d := min(base, MaxBackoff)
	for i := 0; i < attemptIndex && d > 0 && d < MaxBackoff; i++ {
		d = min(d*2, MaxBackoff)
	}
	return d + jitter
}

func randomJitter() time.Duration {
	return rand.N(maxJitter)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retrieval is the state of one target's workflow. It is owned by a single
// goroutine.
type retrieval struct {
	target      model.Target
	state       State
	attempts    int
	maxAttempts int
	size        int64
	err         error
}

func newRetrieval(target model.Target, maxAttempts int) *retrieval {
	return &retrieval{
		target:      target,
		state:       StatePending,
		maxAttempts: max(1, maxAttempts),
	}
}

// record applies the outcome of one attempt.
func (r *retrieval) record(size int64, err error) {
	r.attempts++
	r.size = size
	r.err = err
	r.state = nextState(r.attempts, r.maxAttempts, err)
}

// abort ends the workflow without another attempt, typically on cancellation.
func (r *retrieval) abort(err error) {
	r.err = err
	r.state = StatePermanentlyFailed
}

// retrieve drives target through the state machine until it is terminal and
// accounts for the outcome. It never returns an error: failures end up in
// events and are absent from the counters.
func (m *Manager) retrieve(ctx context.Context, target model.Target) *retrieval {
	r := newRetrieval(target, m.opts.MaxRetries)

	for !r.state.Terminal() {
		switch r.state {
		case StatePending:
			r.state = StateAttempting

		case StateAttempting:
			if err := ctx.Err(); err != nil {
				r.abort(err)
				continue
			}

			size, err := m.attempt(ctx, target)
			r.record(size, err)
			if err != nil {
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Download failed for %q on attempt %d/%d: %v", target.DisplayName, r.attempts, r.maxAttempts, err),
					Level:   LevelWarning,
				})
			}

		case StateBackingOff:
			delay := Backoff(m.opts.RetryDelay, r.attempts-1, m.jitter())
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Retrying %q in %.2f seconds...", target.DisplayName, delay.Seconds()),
				Level:   LevelVerbose,
			})
			if err := m.sleep(ctx, delay); err != nil {
				r.abort(err)
				continue
			}
			r.state = StateAttempting
		}
	}

	m.finish(r)
	return r
}

// attempt performs one bounded request for target and returns the size to
// account for.
func (m *Manager) attempt(ctx context.Context, target model.Target) (int64, error) {
	if m.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.RequestTimeout)
		defer cancel()
	}

	var onProgress func(written, total int64)
	if m.opts.OnBytes != nil {
		var last int64
		onProgress = func(written, _ int64) {
			m.opts.OnBytes(written - last)
			last = written
		}
	}

	transfer, err := m.fetcher.DownloadFile(ctx, target.Item.URL, target.Path, onProgress)
	if err != nil {
		return 0, err
	}
	return transfer.Size(), nil
}

// finish accounts for a terminal retrieval.
func (m *Manager) finish(r *retrieval) {
	name := r.target.DisplayName

	if r.state == StateSucceeded {
		kb := Kilobytes(r.size)
		m.stats.Merge(1, kb)
		m.markCompleted(r.target)
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("OK: '%s', %dKB", name, kb),
			Level:   LevelSuccess,
			Kind:    KindCompleted,
			Count:   1,
		})
		return
	}

	// A target cancelled before its first attempt never touched the file.
	if r.attempts > 0 {
		if err := ioutils.RemoveIfExists(r.target.Path); err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Could not remove partial file '%s': %v", name, err),
				Level:   LevelWarning,
			})
		}
	}

	msg := fmt.Sprintf("FAIL: Could not download '%s' after %d attempts.", name, r.attempts)
	if r.attempts < r.maxAttempts {
		msg = fmt.Sprintf("FAIL: Stopped downloading '%s' after %d attempts: %v", name, r.attempts, r.err)
	}
	m.progress(ProgressEvent{
		Message: msg,
		Level:   LevelError,
		Kind:    KindFailed,
		Count:   1,
	})
}
