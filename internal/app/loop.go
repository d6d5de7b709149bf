package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/vision"
)

// runLoop drives the Armed state: one immediate analysis call, then one per
// tick until the stop channel closes. Each iteration runs to completion; a
// manual capture racing a tick is not serialized, so whichever response
// resolves last wins the displayed transcription.
func (it *Interpreter) runLoop(stopCh chan struct{}, interval time.Duration) {
	it.Analyze()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			it.Analyze()
		}
	}
}

// Analyze runs one capture-and-interpret cycle. It is a no-op unless the
// camera is active and the API credential is present. Used by both the Armed
// loop and the manual capture control.
func (it *Interpreter) Analyze() {
	if !it.camera.IsOpen() {
		return
	}

	if err := it.client.Ready(); err != nil {
		msg := "API key is not configured. Set " + vision.EnvAPIKey + " and restart."
		it.session.SetError(msg)
		it.session.Log(session.SeverityError, msg)
		return
	}

	it.session.SetLoading(true)
	defer it.session.SetLoading(false)

	frame, err := it.camera.ReadFrame()
	if err != nil {
		it.session.Log(session.SeverityError, fmt.Sprintf("Frame capture failed: %v", err))
		return
	}
	defer frame.Close()

	if it.MotionGate() && it.motion != nil {
		if moved, change := it.motion.Detect(frame); !moved {
			it.session.Log(session.SeverityInfo,
				fmt.Sprintf("Static scene (%.2f%% change), skipping analysis", change))
			return
		}
	}

	jpeg, err := capture.EncodeJPEG(frame, it.JPEGQuality())
	if err != nil {
		it.session.Log(session.SeverityError, fmt.Sprintf("Frame encoding failed: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()

	text, err := it.client.Interpret(ctx, jpeg)
	if err != nil {
		it.handleCallError(err)
		return
	}

	it.handleReply(text)
}

// handleCallError logs a failed remote call. A rate-limit rejection disarms
// the loop and sets recovery guidance; every other error leaves the loop
// running.
func (it *Interpreter) handleCallError(err error) {
	it.session.Log(session.SeverityError, fmt.Sprintf("Analysis failed: %v", err))
	log.Printf("Analysis failed: %v", err)

	if vision.IsRateLimit(err) {
		it.StopAnalysis()
		it.session.SetError(RateLimitMessage)
		return
	}

	it.session.SetError(fmt.Sprintf("Analysis failed: %v", err))
}

// handleReply applies the sentinel policy: the "No signs" reply is logged but
// never displayed; any other non-empty text becomes the transcription and the
// newest history entry.
func (it *Interpreter) handleReply(text string) {
	if text == "" {
		it.session.Log(session.SeverityInfo, "Model returned an empty reply")
		return
	}

	if vision.IsSentinel(text) {
		it.session.Log(session.SeverityInfo, "No signs detected in frame")
		return
	}

	it.session.SetTranscription(text)
	it.session.Log(session.SeveritySuccess, fmt.Sprintf("Interpreted: %s", text))
}

// Probe issues one trivial remote call and logs the outcome. Diagnostics
// only; loop state is untouched.
func (it *Interpreter) Probe(ctx context.Context) error {
	if err := it.client.Ready(); err != nil {
		it.session.Log(session.SeverityError, fmt.Sprintf("Connectivity probe failed: %v", err))
		return err
	}

	reply, err := it.client.Probe(ctx)
	if err != nil {
		it.session.Log(session.SeverityError, fmt.Sprintf("Connectivity probe failed: %v", err))
		return err
	}

	it.session.Log(session.SeveritySuccess, fmt.Sprintf("Connectivity probe succeeded: %s", reply))
	return nil
}
