// Package http provides the HTTP client used for catalog requests and media
// downloads.
//
// The Client in this package handles:
//   - The User-Agent header sent with every request
//   - Treating any non-2xx response as an error (StatusError)
//   - Streaming downloads to disk with optional progress tracking
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch a JSON manifest
//	body, err := client.Get(ctx, manifestURL)
//
//	// Download a file
//	transfer, err := client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", nil)
//	fmt.Println(transfer.Size())
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
