package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/vision"
)

// newTestHandler wires a ControlsHandler around a mock camera and client.
func newTestHandler() (*ControlsHandler, *capture.MockCamera, *vision.MockClient) {
	camera := capture.NewMockCamera(nil, true)
	client := vision.NewMockClient()

	it := app.New(app.Config{
		Camera:   camera,
		Client:   client,
		Session:  session.New(),
		Interval: time.Second,
	})
	return NewControlsHandler(it), camera, client
}

func TestControls_MethodNotAllowed(t *testing.T) {
	h, _, _ := newTestHandler()

	routes := map[string]http.HandlerFunc{
		"/api/camera/start":   h.CameraStart,
		"/api/camera/stop":    h.CameraStop,
		"/api/analysis/start": h.AnalysisStart,
		"/api/analysis/stop":  h.AnalysisStop,
		"/api/capture":        h.Capture,
		"/api/probe":          h.Probe,
	}

	for path, handler := range routes {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s = %d, want %d", path, w.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestCameraStartStop(t *testing.T) {
	h, camera, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/camera/start", nil)
	w := httptest.NewRecorder()
	h.CameraStart(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("camera start = %d, want %d", w.Code, http.StatusOK)
	}
	if !camera.IsOpen() {
		t.Error("camera should be open after start")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/camera/stop", nil)
	w = httptest.NewRecorder()
	h.CameraStop(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("camera stop = %d, want %d", w.Code, http.StatusOK)
	}
	if camera.IsOpen() {
		t.Error("camera should be closed after stop")
	}
}

func TestCameraStart_DeviceError(t *testing.T) {
	h, camera, _ := newTestHandler()
	camera.SetOpenError(capture.ErrCameraNotOpen)

	req := httptest.NewRequest(http.MethodPost, "/api/camera/start", nil)
	w := httptest.NewRecorder()
	h.CameraStart(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("camera start with device error = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestAnalysisStart_RequiresCamera(t *testing.T) {
	h, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/start", nil)
	w := httptest.NewRecorder()
	h.AnalysisStart(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("analysis start without camera = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestAnalysisStartStop(t *testing.T) {
	h, _, _ := newTestHandler()
	it := h.interpreter

	req := httptest.NewRequest(http.MethodPost, "/api/camera/start", nil)
	h.CameraStart(httptest.NewRecorder(), req)
	defer it.StopCamera()

	req = httptest.NewRequest(http.MethodPost, "/api/analysis/start", nil)
	w := httptest.NewRecorder()
	h.AnalysisStart(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("analysis start = %d, want %d", w.Code, http.StatusOK)
	}
	if !it.Armed() {
		t.Error("loop should be armed after analysis start")
	}

	// A second start is an idempotent no-op.
	w = httptest.NewRecorder()
	h.AnalysisStart(w, httptest.NewRequest(http.MethodPost, "/api/analysis/start", nil))
	if w.Code != http.StatusOK {
		t.Errorf("repeated analysis start = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	h.AnalysisStop(w, httptest.NewRequest(http.MethodPost, "/api/analysis/stop", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("analysis stop = %d, want %d", w.Code, http.StatusOK)
	}
	if it.Armed() {
		t.Error("loop should be idle after analysis stop")
	}
}

func TestCapture_Accepted(t *testing.T) {
	h, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/capture", nil)
	w := httptest.NewRecorder()
	h.Capture(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("capture = %d, want %d", w.Code, http.StatusAccepted)
	}
}

func TestProbe(t *testing.T) {
	h, _, client := newTestHandler()
	client.SetReply("OK")

	req := httptest.NewRequest(http.MethodPost, "/api/probe", nil)
	w := httptest.NewRecorder()
	h.Probe(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("probe = %d, want %d", w.Code, http.StatusOK)
	}

	client.SetReadyError(vision.ErrNoCredential)
	w = httptest.NewRecorder()
	h.Probe(w, httptest.NewRequest(http.MethodPost, "/api/probe", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("probe without credential = %d, want %d", w.Code, http.StatusBadGateway)
	}
}
