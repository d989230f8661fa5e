package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultUserAgent = "jw-media-downloader"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Status, e.URL)
}

// Client wraps net/http with the downloader's defaults.
//
// Example usage:
//
//	client := NewClient(WithTimeout(30 * time.Second))
//
//	// Fetch JSON content
//	body, err := client.Get(ctx, "https://b.jw-cdn.org/apis/pub-media/GETPUBMEDIALINKS?...")
//
//	// Download file with progress
//	_, err = client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall timeout of every request made by the client.
// Zero disables the client-level timeout; downloads are then bounded by
// their context only.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new HTTP client.
//
// The client has no overall timeout by default: the download orchestrator
// bounds each attempt through its context, and manifest requests are small.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transfer describes a completed download.
type Transfer struct {
	// Written is the number of bytes written to disk.
	Written int64

	// Declared is the Content-Length announced by the server, or -1 if absent.
	Declared int64
}

// Size returns the declared Content-Length when it is positive, otherwise the
// number of bytes actually written.
func (t Transfer) Size() int64 {
	if t.Declared > 0 {
		return t.Declared
	}
	return t.Written
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return resp, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 2xx (*StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// DownloadBytes downloads a small file, such as cover art, into memory.
// For MP3s use DownloadFile to stream directly to disk.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}

// DownloadFile streams url into destPath.
//
// The file is created (or truncated if it exists) only once the server has
// answered with a success status. onProgress may be nil.
//
// A partially written file is left in place on error; removing it is the
// caller's decision.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (Transfer, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return Transfer{}, err
	}
	defer resp.Body.Close()

	transfer := Transfer{Declared: resp.ContentLength}

	file, err := os.Create(destPath)
	if err != nil {
		return transfer, err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	transfer.Written, err = io.Copy(writer, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return transfer, err
}
