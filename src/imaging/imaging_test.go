package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"full hd to 500", 1920, 1080, 500, 500, 281},
		{"smaller than cap", 200, 150, 500, 200, 150},
		{"equal to cap", 500, 300, 500, 500, 300},
		{"tall strip keeps one row", 5000, 1, 500, 500, 1},
		{"disabled cap", 1920, 1080, 0, 1920, 1080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaledSize(tt.w, tt.h, tt.max)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ScaledSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitWidth(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	for y := 0; y < 1080; y++ {
		for x := 0; x < 1920; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}

	got := FitWidth(src, 500)
	if b := got.Bounds(); b.Dx() != 500 || b.Dy() != 281 {
		t.Fatalf("FitWidth bounds = %v, want 500x281", b)
	}
	r, _, _, a := got.At(250, 140).RGBA()
	if r>>8 < 190 || a>>8 != 255 {
		t.Errorf("unexpected resampled colour r=%d a=%d", r>>8, a>>8)
	}

	small := image.NewRGBA(image.Rect(0, 0, 200, 150))
	if FitWidth(small, 500) != image.Image(small) {
		t.Error("FitWidth should return the source unchanged when under the cap")
	}
}
