package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestWriteImageBeforeInit(t *testing.T) {
	err := WriteImage(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable before Init, got %v", err)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := encodePNG(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	if err != nil {
		t.Fatalf("encodePNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}

	if _, err := encodePNG(nil); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestInitAndWrite(t *testing.T) {
	// Requires a clipboard; only checks that the calls do not panic.
	if err := Init(); err != nil {
		t.Skipf("clipboard unavailable: %v", err)
	}
	if err := WriteImage(image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Logf("Failed to write to clipboard: %v", err)
	}
}
