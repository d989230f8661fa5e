package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(WithUserAgent("test-agent"))
	body, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestClient_Get_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient().Get(context.Background(), server.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestClient_DownloadFile(t *testing.T) {
	payload := strings.Repeat("a", 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "001 - Song.mp3")

	var lastWritten, lastTotal int64
	transfer, err := NewClient().DownloadFile(context.Background(), server.URL, dest, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2048), transfer.Written)
	assert.Equal(t, int64(2048), transfer.Declared)
	assert.Equal(t, int64(2048), transfer.Size())
	assert.Equal(t, int64(2048), lastWritten)
	assert.Equal(t, int64(2048), lastTotal)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestClient_DownloadFile_ErrorStatusCreatesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "001 - Song.mp3")
	_, err := NewClient().DownloadFile(context.Background(), server.URL, dest, nil)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient().DownloadFile(ctx, server.URL, filepath.Join(t.TempDir(), "x.mp3"), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransfer_Size(t *testing.T) {
	assert.Equal(t, int64(10), Transfer{Written: 10, Declared: -1}.Size())
	assert.Equal(t, int64(10), Transfer{Written: 10, Declared: 0}.Size())
	assert.Equal(t, int64(20), Transfer{Written: 10, Declared: 20}.Size())
}
