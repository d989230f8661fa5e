package download

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	}
	return "unknown"
}

// EventKind tells consumers which counter, if any, an event affects.
type EventKind int

const (
	// KindLog is a plain message.
	KindLog EventKind = iota
	// KindQueued announces Count targets about to be dispatched.
	KindQueued
	// KindSkipped marks one target skipped because its file exists.
	KindSkipped
	// KindCompleted marks one target downloaded.
	KindCompleted
	// KindFailed marks one target permanently failed.
	KindFailed
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
	Kind    EventKind
	Count   int
}
