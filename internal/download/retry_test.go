package download

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/handiism/jw-media-downloader/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNextState(t *testing.T) {
	errFailed := errors.New("failed")

	tests := []struct {
		name     string
		attempts int
		max      int
		err      error
		want     State
	}{
		{"success on first attempt", 1, 3, nil, StateSucceeded},
		{"success on last attempt", 3, 3, nil, StateSucceeded},
		{"failure with attempts left", 1, 3, errFailed, StateBackingOff},
		{"failure before last attempt", 2, 3, errFailed, StateBackingOff},
		{"failure on last attempt", 3, 3, errFailed, StatePermanentlyFailed},
		{"single attempt budget", 1, 1, errFailed, StatePermanentlyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextState(tt.attempts, tt.max, tt.err))
		})
	}
}

func TestRetrieval_Record(t *testing.T) {
	r := newRetrieval(model.Target{DisplayName: "001 - Song.mp3"}, 2)
	assert.Equal(t, StatePending, r.state)
	assert.False(t, r.state.Terminal())

	r.record(0, errors.New("reset"))
	assert.Equal(t, StateBackingOff, r.state)
	assert.Equal(t, 1, r.attempts)

	r.record(2048, nil)
	assert.Equal(t, StateSucceeded, r.state)
	assert.True(t, r.state.Terminal())
	assert.Equal(t, int64(2048), r.size)

	// A zero or negative budget still allows one attempt.
	r = newRetrieval(model.Target{}, 0)
	assert.Equal(t, 1, r.maxAttempts)
	r.abort(context.Canceled)
	assert.Equal(t, StatePermanentlyFailed, r.state)
	assert.ErrorIs(t, r.err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	base := 5 * time.Second

	assert.Equal(t, 5*time.Second, Backoff(base, 0, 0))
	assert.Equal(t, 10*time.Second, Backoff(base, 1, 0))
	assert.Equal(t, 20*time.Second, Backoff(base, 2, 0))
	assert.Equal(t, 40*time.Second+300*time.Millisecond, Backoff(base, 3, 300*time.Millisecond))

	prev := time.Duration(0)
	for i := 0; i < 64; i++ {
		d := Backoff(base, i, 0)
		assert.GreaterOrEqual(t, d, prev, "attempt index %d", i)
		assert.LessOrEqual(t, d, MaxBackoff, "attempt index %d", i)
		prev = d
	}

	assert.Equal(t, MaxBackoff, Backoff(base, 31, 0))
	assert.Equal(t, MaxBackoff+500*time.Millisecond, Backoff(base, 1000, 500*time.Millisecond))
	assert.Equal(t, MaxBackoff, Backoff(48*time.Hour, 0, 0))
	assert.Equal(t, time.Duration(0), Backoff(0, 40, 0))
}

func TestRandomJitter(t *testing.T) {
	for i := 0; i < 100; i++ {
		j := randomJitter()
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.Less(t, j, time.Second)
	}
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "attempting", StateAttempting.String())
	assert.Equal(t, "backing-off", StateBackingOff.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "permanently-failed", StatePermanentlyFailed.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestStats_ConcurrentMerge(t *testing.T) {
	s := &Stats{}
	s.AddSkipped()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Merge(1, 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, Result{Downloaded: 50, Skipped: 1, Kilobytes: 150}, s.Result())
}

func TestKilobytes(t *testing.T) {
	assert.Equal(t, int64(2), Kilobytes(2048))
	assert.Equal(t, int64(1), Kilobytes(1536))
	assert.Equal(t, int64(0), Kilobytes(1000))
	assert.Equal(t, int64(0), Kilobytes(-1))
}

func TestResult_Add(t *testing.T) {
	a := Result{Downloaded: 1, Skipped: 2, Kilobytes: 3}
	b := Result{Downloaded: 4, Skipped: 5, Kilobytes: 6}
	assert.Equal(t, Result{Downloaded: 5, Skipped: 7, Kilobytes: 9}, a.Add(b))
}
