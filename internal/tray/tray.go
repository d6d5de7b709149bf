// Package tray provides an optional system tray interface for the Mudra
// sign-language interpretation service.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(active bool)
	onOpenUI func()
	onQuit   func()
	active   bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuLastText *systray.MenuItem
}

// New creates a new Tray instance. The camera starts inactive.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback invoked when the camera is toggled.
func (t *Tray) OnToggle(fn func(active bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenUI sets the callback invoked when the open-page menu item is clicked.
func (t *Tray) OnOpenUI(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenUI = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure once the tray is available.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Sign Language Interpreter")

	t.menuToggle = systray.AddMenuItem("○ Camera off", "Toggle the camera")
	systray.AddSeparator()

	t.menuLastText = systray.AddMenuItem("Last: none", "Last interpreted text")
	t.menuLastText.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Mudra...", "Open the page in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpenUI()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle flips the camera state and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.active = !t.active
	active := t.active
	t.setToggleTitle(active)

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(active)
	}
}

func (t *Tray) handleOpenUI() {
	t.mu.RLock()
	callback := t.onOpenUI
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// setToggleTitle updates the toggle menu label. Caller holds the lock.
func (t *Tray) setToggleTitle(active bool) {
	if t.menuToggle == nil {
		return
	}
	if active {
		t.menuToggle.SetTitle("● Camera on")
	} else {
		t.menuToggle.SetTitle("○ Camera off")
	}
}

// SetActive reconciles the tray with camera state changed elsewhere, such as
// through the web page. It does not invoke the toggle callback.
func (t *Tray) SetActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = active
	t.setToggleTitle(active)
}

// SetLastText updates the last interpreted text shown in the menu.
func (t *Tray) SetLastText(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastText != nil {
		if text == "" {
			t.menuLastText.SetTitle("Last: none")
		} else {
			if len(text) > 40 {
				text = text[:40] + "..."
			}
			t.menuLastText.SetTitle("Last: " + text)
		}
	}
}

// IsActive returns the current camera state as seen by the tray.
func (t *Tray) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}
