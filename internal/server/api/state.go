package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/session"
)

// StateHandler serves session state reads and the mutations that only touch
// presentation state (error dismissal, log clearing).
type StateHandler struct {
	session *session.Session
}

// NewStateHandler creates a new StateHandler for the given session.
func NewStateHandler(s *session.Session) *StateHandler {
	return &StateHandler{session: s}
}

// State handles GET /api/state and returns the full session snapshot.
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// DismissError handles POST /api/error/dismiss. Only the error banner is
// cleared; history, logs, and the transcription are untouched.
func (h *StateHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.session.DismissError()
	writeJSON(w, http.StatusOK, statusResponse{Status: "error dismissed"})
}

// ClearLog handles POST /api/log/clear.
func (h *StateHandler) ClearLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.session.ClearLogs()
	writeJSON(w, http.StatusOK, statusResponse{Status: "log cleared"})
}
