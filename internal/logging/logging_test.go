package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/handiism/jw-media-downloader/internal/download"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, logrus.InfoLevel, New(false, "text", &buf).GetLevel())
	assert.Equal(t, logrus.DebugLevel, New(true, "text", &buf).GetLevel())
}

func TestSink_Text(t *testing.T) {
	var buf bytes.Buffer
	sink := Sink(New(false, "text", &buf))

	sink(download.ProgressEvent{Message: "Retrying \"a.mp3\"", Level: download.LevelVerbose})
	sink(download.ProgressEvent{Message: "starting", Level: download.LevelInfo})
	sink(download.ProgressEvent{Message: "attempt failed", Level: download.LevelWarning})
	sink(download.ProgressEvent{Message: "FAIL: b.mp3", Level: download.LevelError})
	sink(download.ProgressEvent{Message: "OK: a.mp3", Level: download.LevelSuccess})

	out := buf.String()
	assert.NotContains(t, out, "Retrying")
	assert.Contains(t, out, "level=info msg=starting")
	assert.Contains(t, out, "level=warning msg=\"attempt failed\"")
	assert.Contains(t, out, "level=error msg=\"FAIL: b.mp3\"")
	assert.Contains(t, out, "status=ok")
}

func TestSink_VerboseJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRun(New(true, "json", &buf))
	sink := Sink(logger)

	sink(download.ProgressEvent{Message: "Retrying", Level: download.LevelVerbose})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "Retrying", entry["msg"])

	_, err := uuid.Parse(entry["run"].(string))
	assert.NoError(t, err)
}
