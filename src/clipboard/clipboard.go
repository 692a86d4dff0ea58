package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.design/x/clipboard"
)

var ErrUnavailable = errors.New("clipboard is not available")

var (
	writeMu sync.Mutex
	ready   bool
)

func Init() error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := clipboard.Init(); err != nil {
		ready = false
		return err
	}
	ready = true
	return nil
}

// WriteImage places img on the system clipboard as PNG.
// Writes are mutex-guarded to prevent corruption under parallel writes.
func WriteImage(img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	if !ready {
		return ErrUnavailable
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// System adapts the package-level clipboard to an image writer.
type System struct{}

func (System) WriteImage(img image.Image) error { return WriteImage(img) }

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("no image to copy")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return buf.Bytes(), nil
}
