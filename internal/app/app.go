// Package app provides the interpreter that orchestrates camera capture and
// remote sign-language interpretation.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/vision"
)

// Defaults for the analysis loop.
const (
	// DefaultInterval is the delay between automatic analysis calls.
	DefaultInterval = 3 * time.Second
	// CallTimeout bounds one remote interpretation call.
	CallTimeout = 60 * time.Second
)

// RateLimitMessage is the banner shown when the remote API throttles us.
// Automatic analysis halts; manual captures remain available.
const RateLimitMessage = "Rate limit reached. Automatic analysis was stopped - " +
	"wait a minute before starting it again, or use single captures."

// Config holds configuration options for the interpreter.
type Config struct {
	Camera      capture.Camera
	Motion      *capture.MotionDetector
	Client      vision.Client
	Session     *session.Session
	Interval    time.Duration
	JPEGQuality int
	MotionGate  bool
}

// Interpreter owns the camera and runs the analysis loop. The loop has two
// states: Idle (no ticker) and Armed (ticker firing); a manual capture runs
// one call without changing state.
type Interpreter struct {
	camera  capture.Camera
	motion  *capture.MotionDetector
	client  vision.Client
	session *session.Session

	mu          sync.Mutex
	interval    time.Duration
	jpegQuality int
	motionGate  bool
	stopCh      chan struct{}
}

// New creates an Interpreter with the given configuration.
func New(config Config) *Interpreter {
	interval := config.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	quality := config.JPEGQuality
	if quality < 1 || quality > 100 {
		quality = capture.DefaultJPEGQuality
	}

	sess := config.Session
	if sess == nil {
		sess = session.New()
	}

	return &Interpreter{
		camera:      config.Camera,
		motion:      config.Motion,
		client:      config.Client,
		session:     sess,
		interval:    interval,
		jpegQuality: quality,
		motionGate:  config.MotionGate,
	}
}

// Session returns the session state the interpreter writes to.
func (it *Interpreter) Session() *session.Session {
	return it.session
}

// Camera returns the camera instance.
func (it *Interpreter) Camera() capture.Camera {
	return it.camera
}

// Interval returns the automatic analysis interval.
func (it *Interpreter) Interval() time.Duration {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.interval
}

// SetInterval changes the automatic analysis interval. It takes effect the
// next time analysis is armed. Non-positive values are ignored.
func (it *Interpreter) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	it.interval = d
}

// JPEGQuality returns the encoding quality used for submitted frames.
func (it *Interpreter) JPEGQuality() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.jpegQuality
}

// SetJPEGQuality changes the encoding quality for subsequent frames.
// Values outside 1-100 are ignored.
func (it *Interpreter) SetJPEGQuality(quality int) {
	if quality < 1 || quality > 100 {
		return
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	it.jpegQuality = quality
}

// Model returns the remote model identifier used for calls.
func (it *Interpreter) Model() string {
	return it.client.Model()
}

// SetModel switches subsequent remote calls to another model.
func (it *Interpreter) SetModel(model string) {
	it.client.SetModel(model)
}

// MotionGate reports whether static scenes skip the remote call.
func (it *Interpreter) MotionGate() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.motionGate
}

// SetMotionGate enables or disables the static-scene gate.
func (it *Interpreter) SetMotionGate(enabled bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.motionGate = enabled
}

// StartCamera acquires the camera and marks the session camera-active.
// A device or permission failure is surfaced as a user-visible banner.
func (it *Interpreter) StartCamera() error {
	if err := it.camera.Open(); err != nil {
		msg := fmt.Sprintf("Camera unavailable: %v", err)
		it.session.SetError(msg)
		it.session.Log(session.SeverityError, msg)
		return err
	}

	it.session.SetCameraActive(true)
	it.session.Log(session.SeverityInfo, "Camera started")
	log.Println("Camera started")
	return nil
}

// StopCamera stops a running analysis loop, releases the camera, and clears
// the camera-active flag. This is the only camera release path and is also
// invoked on process teardown.
func (it *Interpreter) StopCamera() {
	it.StopAnalysis()

	if err := it.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
		it.session.Log(session.SeverityError, fmt.Sprintf("Error closing camera: %v", err))
	}

	if it.motion != nil {
		it.motion.Reset()
	}

	it.session.SetCameraActive(false)
	it.session.Log(session.SeverityInfo, "Camera stopped")
	log.Println("Camera stopped")
}

// StartAnalysis arms the automatic analysis loop: one immediate call, then a
// call every interval. Arming while already armed is a no-op; arming without
// an active camera is an error.
func (it *Interpreter) StartAnalysis() error {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.stopCh != nil {
		return nil
	}

	if !it.camera.IsOpen() {
		return capture.ErrCameraNotOpen
	}

	it.stopCh = make(chan struct{})
	go it.runLoop(it.stopCh, it.interval)

	it.session.SetAnalyzing(true)
	it.session.Log(session.SeverityInfo, "Automatic analysis started")
	log.Println("Automatic analysis started")
	return nil
}

// StopAnalysis disarms the automatic analysis loop and clears the loading
// flag. Stopping while idle is a no-op.
func (it *Interpreter) StopAnalysis() {
	it.mu.Lock()
	if it.stopCh == nil {
		it.mu.Unlock()
		return
	}
	close(it.stopCh)
	it.stopCh = nil
	it.mu.Unlock()

	it.session.SetAnalyzing(false)
	it.session.SetLoading(false)
	it.session.Log(session.SeverityInfo, "Automatic analysis stopped")
	log.Println("Automatic analysis stopped")
}

// Armed reports whether the automatic analysis loop is running.
func (it *Interpreter) Armed() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.stopCh != nil
}
