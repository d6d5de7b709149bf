package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
)

// ControlsHandler exposes the user-facing controls: camera toggle, analysis
// arm/disarm, single capture, connectivity probe.
type ControlsHandler struct {
	interpreter *app.Interpreter
}

// NewControlsHandler creates a new ControlsHandler for the given interpreter.
func NewControlsHandler(it *app.Interpreter) *ControlsHandler {
	return &ControlsHandler{interpreter: it}
}

// CameraStart handles POST /api/camera/start.
func (h *ControlsHandler) CameraStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := h.interpreter.StartCamera(); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "camera started"})
}

// CameraStop handles POST /api/camera/stop. Stopping the camera also disarms
// a running analysis loop.
func (h *ControlsHandler) CameraStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.interpreter.StopCamera()
	writeJSON(w, http.StatusOK, statusResponse{Status: "camera stopped"})
}

// AnalysisStart handles POST /api/analysis/start.
func (h *ControlsHandler) AnalysisStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := h.interpreter.StartAnalysis(); err != nil {
		if errors.Is(err, capture.ErrCameraNotOpen) {
			writeError(w, http.StatusConflict, "camera must be active to start analysis")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "analysis started"})
}

// AnalysisStop handles POST /api/analysis/stop.
func (h *ControlsHandler) AnalysisStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.interpreter.StopAnalysis()
	writeJSON(w, http.StatusOK, statusResponse{Status: "analysis stopped"})
}

// Capture handles POST /api/capture: one analysis call without changing the
// loop state. It may race a timer-driven call; last write wins.
func (h *ControlsHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	go h.interpreter.Analyze()
	writeJSON(w, http.StatusAccepted, statusResponse{Status: "capture requested"})
}

// Probe handles POST /api/probe: one diagnostic call, outcome in the log.
func (h *ControlsHandler) Probe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := h.interpreter.Probe(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "probe succeeded"})
}
