// Package download provides the orchestration engine that retrieves the media
// files of one publication.
//
// # Manager
//
// The Manager drives a list of media items through three steps:
//
//  1. Filter: compute each destination path and skip files already present
//  2. Run: retrieve the remaining targets with at most Concurrency in flight
//  3. Account: merge per-target results into a shared Stats accumulator
//
// # Basic Usage
//
//	manager := download.NewManager(http.NewClient(), download.DefaultOptions(), func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	manager.Load(ctx, pub.Items, mediaDir, policy)
//
//	result := manager.Result()
//	fmt.Printf("Downloaded: %d, Skipped: %d, Size: %dKB\n", result.Downloaded, result.Skipped, result.Kilobytes)
//
// # Concurrency
//
// Targets are dispatched in input order onto an errgroup limited to
// Options.Concurrency. A target keeps its slot for its whole retry loop,
// backoff waits included.
//
// # Retry Logic
//
// Every target runs a small state machine (see State). Failed attempts are
// retried with exponential backoff plus up to one second of jitter:
//
//	delay = RetryDelay * 2^attemptIndex + rand[0, 1s)
//
// After Options.MaxRetries attempts the target is permanently failed, its
// partial file is removed and an error event is emitted. Failed targets are
// not counted in Result; callers infer them as dispatched minus downloaded.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Kind    EventKind     // Log, Queued, Skipped, Completed, Failed
//	    Count   int
//	}
package download
