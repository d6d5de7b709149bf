package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/session"
)

func TestState_Snapshot(t *testing.T) {
	sess := session.New()
	sess.SetCameraActive(true)
	sess.SetTranscription("Hello, how are you?")
	sess.Log(session.SeveritySuccess, "Interpreted: Hello, how are you?")
	h := NewStateHandler(sess)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	w := httptest.NewRecorder()
	h.State(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("state = %d, want %d", w.Code, http.StatusOK)
	}

	var snap session.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}

	if !snap.CameraActive {
		t.Error("snapshot.CameraActive = false, want true")
	}
	if snap.Transcription != "Hello, how are you?" {
		t.Errorf("snapshot.Transcription = %q, want the transcription", snap.Transcription)
	}
	if len(snap.History) != 1 || len(snap.Logs) != 1 {
		t.Errorf("snapshot history/logs = %d/%d, want 1/1", len(snap.History), len(snap.Logs))
	}
}

func TestState_MethodNotAllowed(t *testing.T) {
	h := NewStateHandler(session.New())

	req := httptest.NewRequest(http.MethodPost, "/api/state", nil)
	w := httptest.NewRecorder()
	h.State(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST state = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestDismissError(t *testing.T) {
	sess := session.New()
	sess.SetTranscription("kept")
	sess.Log(session.SeverityError, "kept too")
	sess.SetError("boom")
	h := NewStateHandler(sess)

	req := httptest.NewRequest(http.MethodPost, "/api/error/dismiss", nil)
	w := httptest.NewRecorder()
	h.DismissError(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("dismiss = %d, want %d", w.Code, http.StatusOK)
	}
	if sess.Error() != "" {
		t.Error("error should be cleared after dismiss")
	}
	if sess.Transcription() != "kept" || len(sess.History()) != 1 || len(sess.Logs()) != 1 {
		t.Error("dismiss must not touch transcription, history, or logs")
	}
}

func TestClearLog(t *testing.T) {
	sess := session.New()
	sess.Log(session.SeverityInfo, "one")
	sess.Log(session.SeverityInfo, "two")
	h := NewStateHandler(sess)

	req := httptest.NewRequest(http.MethodPost, "/api/log/clear", nil)
	w := httptest.NewRecorder()
	h.ClearLog(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("clear = %d, want %d", w.Code, http.StatusOK)
	}
	if len(sess.Logs()) != 0 {
		t.Error("logs should be empty after clear")
	}
}
