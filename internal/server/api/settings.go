package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/store"
)

// SettingsHandler reads and updates the persisted tunables. Changes apply to
// the running interpreter and are stored for the next start.
type SettingsHandler struct {
	store       *store.Store
	interpreter *app.Interpreter
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s *store.Store, it *app.Interpreter) *SettingsHandler {
	return &SettingsHandler{store: s, interpreter: it}
}

type settingsPayload struct {
	IntervalMs  int    `json:"interval_ms"`
	Model       string `json:"model"`
	MotionGate  bool   `json:"motion_gate"`
	JPEGQuality int    `json:"jpeg_quality"`
}

// ServeHTTP routes GET and PUT requests for /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	// The interpreter holds the effective values, stored or not; a fresh
	// store must still produce a payload that a PUT would accept back.
	payload := settingsPayload{
		IntervalMs:  int(h.interpreter.Interval() / time.Millisecond),
		Model:       h.interpreter.Model(),
		MotionGate:  h.interpreter.MotionGate(),
		JPEGQuality: h.interpreter.JPEGQuality(),
	}

	writeJSON(w, http.StatusOK, payload)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.IntervalMs <= 0 {
		writeError(w, http.StatusBadRequest, "interval_ms must be positive")
		return
	}
	if payload.JPEGQuality < 1 || payload.JPEGQuality > 100 {
		writeError(w, http.StatusBadRequest, "jpeg_quality must be 1-100")
		return
	}

	if err := h.store.Settings().Save(&store.Settings{
		IntervalMs:  payload.IntervalMs,
		Model:       payload.Model,
		MotionGate:  payload.MotionGate,
		JPEGQuality: payload.JPEGQuality,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.interpreter.SetInterval(time.Duration(payload.IntervalMs) * time.Millisecond)
	h.interpreter.SetMotionGate(payload.MotionGate)
	h.interpreter.SetModel(payload.Model)
	h.interpreter.SetJPEGQuality(payload.JPEGQuality)

	writeJSON(w, http.StatusOK, payload)
}
