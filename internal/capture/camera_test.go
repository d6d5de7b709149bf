package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{name: "explicit resolution", width: 640, height: 480, wantWidth: 640, wantHeight: 480},
		{name: "zero falls back to defaults", width: 0, height: 0, wantWidth: DefaultWidth, wantHeight: DefaultHeight},
		{name: "negative falls back to defaults", width: -1, height: -1, wantWidth: DefaultWidth, wantHeight: DefaultHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(0, tt.width, tt.height)
			impl, ok := c.(*cameraImpl)
			if !ok {
				t.Fatal("NewCamera should return a *cameraImpl")
			}
			if impl.width != tt.wantWidth || impl.height != tt.wantHeight {
				t.Errorf("resolution = %dx%d, want %dx%d", impl.width, impl.height, tt.wantWidth, tt.wantHeight)
			}
			if impl.running {
				t.Error("camera should not be running before Open")
			}
		})
	}
}

func TestCamera_ReadFrame_NotOpen(t *testing.T) {
	c := NewCamera(0, 640, 480)

	_, err := c.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame on closed camera = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpen(t *testing.T) {
	c := NewCamera(0, 640, 480)

	// Closing a camera that was never opened should not error.
	if err := c.Close(); err != nil {
		t.Errorf("Close on unopened camera = %v, want nil", err)
	}
	if c.IsOpen() {
		t.Error("camera should not report open after Close")
	}
}

func TestEncodeJPEG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.SetTo(gocv.NewScalar(0, 128, 255, 0))

	data, err := EncodeJPEG(&frame, 80)
	if err != nil {
		t.Fatalf("EncodeJPEG returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("EncodeJPEG returned empty payload")
	}

	// JPEG SOI marker.
	if data[0] != 0xFF || data[1] != 0xD8 {
		t.Errorf("payload does not start with JPEG SOI marker: % x", data[:2])
	}
}

func TestEncodeJPEG_QualityAffectsSize(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// A gradient compresses differently at different qualities.
	for row := 0; row < 480; row++ {
		for col := 0; col < 640; col++ {
			frame.SetUCharAt(row, col*3, uint8(col%256))
		}
	}

	low, err := EncodeJPEG(&frame, 10)
	if err != nil {
		t.Fatalf("EncodeJPEG(10) returned error: %v", err)
	}
	high, err := EncodeJPEG(&frame, 95)
	if err != nil {
		t.Fatalf("EncodeJPEG(95) returned error: %v", err)
	}

	if len(high) <= len(low) {
		t.Errorf("quality 95 payload (%d bytes) should be larger than quality 10 (%d bytes)", len(high), len(low))
	}
}

func TestEncodeJPEG_EmptyFrame(t *testing.T) {
	if _, err := EncodeJPEG(nil, 80); err == nil {
		t.Error("EncodeJPEG(nil) should error")
	}
}
