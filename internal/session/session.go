// Package session holds the in-memory state of one interpretation session:
// the latest transcription, a bounded history, a bounded debug log, and the
// flags the UI renders from. Nothing in this package is persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bounds for the rolling collections.
const (
	// MaxHistory is the maximum number of transcription history entries kept.
	MaxHistory = 10
	// MaxLog is the maximum number of debug log entries kept.
	MaxLog = 50
)

// Severity classifies a debug log entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// HistoryEntry is one past transcription.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// LogEntry is one line in the debug console.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// Snapshot is a point-in-time copy of the session state, safe to serialize.
type Snapshot struct {
	CameraActive  bool           `json:"camera_active"`
	Analyzing     bool           `json:"analyzing"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
	Transcription string         `json:"transcription"`
	History       []HistoryEntry `json:"history"`
	Logs          []LogEntry     `json:"logs"`
}

// Session is the mutable session state. All methods are safe for concurrent
// use; writers from overlapping analysis calls apply last-write-wins.
type Session struct {
	mu            sync.RWMutex
	cameraActive  bool
	analyzing     bool
	loading       bool
	errMsg        string
	transcription string
	history       []HistoryEntry
	logs          []LogEntry
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// SetCameraActive records whether the camera is currently open.
func (s *Session) SetCameraActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cameraActive = active
}

// CameraActive reports whether the camera is currently open.
func (s *Session) CameraActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cameraActive
}

// SetAnalyzing records whether the automatic analysis loop is armed.
func (s *Session) SetAnalyzing(analyzing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = analyzing
}

// Analyzing reports whether the automatic analysis loop is armed.
func (s *Session) Analyzing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyzing
}

// SetLoading records whether a remote call is currently in flight.
func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a remote call is currently in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError sets the user-facing error banner message.
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

// DismissError clears the error banner. History, logs, and the transcription
// are untouched.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// Error returns the current error banner message, or empty.
func (s *Session) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// SetTranscription replaces the displayed transcription and prepends it to
// the history, evicting the oldest entry past MaxHistory.
func (s *Session) SetTranscription(text string) HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcription = text

	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: time.Now(),
	}

	s.history = append([]HistoryEntry{entry}, s.history...)
	if len(s.history) > MaxHistory {
		s.history = s.history[:MaxHistory]
	}

	return entry
}

// Transcription returns the latest transcription, or empty.
func (s *Session) Transcription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcription
}

// History returns a copy of the history, newest first.
func (s *Session) History() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Log appends an entry to the debug log, evicting the oldest past MaxLog.
func (s *Session) Log(severity Severity, message string) LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Message:   message,
		Severity:  severity,
	}

	s.logs = append([]LogEntry{entry}, s.logs...)
	if len(s.logs) > MaxLog {
		s.logs = s.logs[:MaxLog]
	}

	return entry
}

// Logs returns a copy of the debug log, newest first.
func (s *Session) Logs() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// ClearLogs empties the debug log.
func (s *Session) ClearLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = nil
}

// Snapshot returns a consistent copy of the whole session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]HistoryEntry, len(s.history))
	copy(history, s.history)
	logs := make([]LogEntry, len(s.logs))
	copy(logs, s.logs)

	return Snapshot{
		CameraActive:  s.cameraActive,
		Analyzing:     s.analyzing,
		Loading:       s.loading,
		Error:         s.errMsg,
		Transcription: s.transcription,
		History:       history,
		Logs:          logs,
	}
}
