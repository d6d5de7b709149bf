package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_OpenClose(t *testing.T) {
	c := NewMockCamera(nil, false)

	if c.IsOpen() {
		t.Error("mock camera should start closed")
	}

	if err := c.Open(); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if !c.IsOpen() {
		t.Error("mock camera should report open after Open")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if c.IsOpen() {
		t.Error("mock camera should report closed after Close")
	}
}

func TestMockCamera_ReadFrame_NotOpen(t *testing.T) {
	c := NewMockCamera(nil, false)

	_, err := c.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame on closed mock = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_SetOpenError(t *testing.T) {
	c := NewMockCamera(nil, false)
	deviceErr := errors.New("permission denied")
	c.SetOpenError(deviceErr)

	if err := c.Open(); !errors.Is(err, deviceErr) {
		t.Errorf("Open = %v, want the configured device error", err)
	}
	if c.IsOpen() {
		t.Error("mock camera should not be open after failed Open")
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame1 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	c := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)
	if err := c.Open(); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer c.Close()

	for i := 0; i < 2; i++ {
		f, err := c.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame %d returned error: %v", i, err)
		}
		f.Close()
	}

	// Without looping, the sequence is exhausted.
	if _, err := c.ReadFrame(); err == nil {
		t.Error("ReadFrame past the end should error when not looping")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer frame.Close()

	c := NewMockCamera([]*gocv.Mat{&frame}, true)
	if err := c.Open(); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer c.Close()

	// Looping playback never exhausts.
	for i := 0; i < 5; i++ {
		f, err := c.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame %d returned error: %v", i, err)
		}
		f.Close()
	}
}
