package download

import "sync"

// Result holds the final counters of a Manager.
type Result struct {
	Downloaded int
	Skipped    int
	Kilobytes  int64
}

// Add returns the element-wise sum of r and other.
func (r Result) Add(other Result) Result {
	return Result{
		Downloaded: r.Downloaded + other.Downloaded,
		Skipped:    r.Skipped + other.Skipped,
		Kilobytes:  r.Kilobytes + other.Kilobytes,
	}
}

// Stats accumulates the counters of one Manager. It is shared by pointer
// between all retrieval workflows; every mutation happens under mu.
type Stats struct {
	mu         sync.Mutex
	downloaded int
	skipped    int
	kilobytes  int64
}

// AddSkipped counts one target that was not dispatched because its file exists.
func (s *Stats) AddSkipped() {
	s.mu.Lock()
	s.skipped++
	s.mu.Unlock()
}

// Merge applies a delta produced by a finished retrieval.
func (s *Stats) Merge(downloadedDelta int, kilobyteDelta int64) {
	s.mu.Lock()
	s.downloaded += downloadedDelta
	s.kilobytes += kilobyteDelta
	s.mu.Unlock()
}

// Result returns a snapshot of the counters. Call it after Run has returned
// to read final totals.
func (s *Stats) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{
		Downloaded: s.downloaded,
		Skipped:    s.skipped,
		Kilobytes:  s.kilobytes,
	}
}

// Kilobytes converts a byte count using floor division by 1024.
func Kilobytes(size int64) int64 {
	if size <= 0 {
		return 0
	}
	return size / 1024
}
