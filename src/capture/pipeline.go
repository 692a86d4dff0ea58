// Package capture turns a screen region into a grid item and applies the
// clipboard, auto-save and sound policies.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"time"

	"snap-mosaic/src/config"
	"snap-mosaic/src/item"
	"snap-mosaic/src/screenshot"
	"snap-mosaic/src/sound"
)

var ErrNoRegion = errors.New("no capture region defined")

// ImageWriter receives copied images.
type ImageWriter interface {
	WriteImage(img image.Image) error
}

type Options struct {
	Grabber   screenshot.Grabber
	Clipboard ImageWriter
	Sound     sound.Player
	Store     *config.Store
	// Scale returns the device pixel ratio used to convert logical regions.
	Scale func() float64
	// Warn reports a failure to the user.
	Warn func(title, msg string)
	Now  func() time.Time
}

// Pipeline is used from the UI thread only.
type Pipeline struct {
	grabber   screenshot.Grabber
	clipboard ImageWriter
	sound     sound.Player
	store     *config.Store
	scale     func() float64
	warn      func(title, msg string)
	now       func() time.Time
	nextID    int
}

func New(opts Options) *Pipeline {
	p := &Pipeline{
		grabber:   opts.Grabber,
		clipboard: opts.Clipboard,
		sound:     opts.Sound,
		store:     opts.Store,
		scale:     opts.Scale,
		warn:      opts.Warn,
		now:       opts.Now,
	}
	if p.grabber == nil {
		p.grabber = screenshot.Display{}
	}
	if p.sound == nil {
		p.sound = sound.Mute{}
	}
	if p.scale == nil {
		p.scale = func() float64 { return 1 }
	}
	if p.warn == nil {
		p.warn = func(title, msg string) { log.Printf("%s: %s", title, msg) }
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Capture grabs region and runs the side effects in order: sound, clipboard,
// auto-save. A failing side effect is reported and does not stop the others.
func (p *Pipeline) Capture(region *screenshot.Region) (*item.Item, error) {
	if region == nil || !region.Valid() {
		log.Printf("capture: no region defined")
		return nil, ErrNoRegion
	}
	s := p.store.Get()
	rect := region.Physical(p.scale())
	img, err := p.grabber.Grab(rect)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", region, err)
	}

	p.nextID++
	it := item.New(p.nextID, img, s.MaxDisplayWidth, p.now())
	log.Printf("capture: item %d original=%v display=%v", it.ID, img.Bounds().Size(), it.Display.Bounds().Size())

	if s.SoundsEnabled {
		p.sound.Play(sound.Snap)
	}
	if s.AutoCopyToClipboard {
		if err := p.copy(it); err != nil {
			p.warn("Clipboard Error", err.Error())
		}
	}
	if s.AutoSaveEnabled {
		if _, err := p.save(it, s); err != nil {
			p.warn("Auto-Save Error", err.Error())
		}
	}
	return it, nil
}

// Save writes it to the configured location. Quiet suppresses the save sound.
func (p *Pipeline) Save(it *item.Item, quiet bool) error {
	if it == nil {
		return nil
	}
	s := p.store.Get()
	if _, err := p.save(it, s); err != nil {
		p.warn("Save Error", err.Error())
		return err
	}
	if !quiet && s.SoundsEnabled {
		p.sound.Play(sound.Save)
	}
	return nil
}

// Copy places the original image on the clipboard. Quiet suppresses the sound.
func (p *Pipeline) Copy(it *item.Item, quiet bool) error {
	if it == nil {
		return nil
	}
	if err := p.copy(it); err != nil {
		p.warn("Clipboard Error", err.Error())
		return err
	}
	if !quiet && p.store.Get().SoundsEnabled {
		p.sound.Play(sound.Copy)
	}
	return nil
}

func (p *Pipeline) copy(it *item.Item) error {
	if p.clipboard == nil {
		return errors.New("clipboard is not available")
	}
	if err := p.clipboard.WriteImage(it.Original); err != nil {
		return fmt.Errorf("could not copy image: %w", err)
	}
	log.Printf("capture: item %d copied to clipboard", it.ID)
	return nil
}

func (p *Pipeline) save(it *item.Item, s config.Settings) (string, error) {
	n := namingFrom(s)
	if err := os.MkdirAll(n.Dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create directory %s: %w", n.Dir, err)
	}
	path, used := n.Resolve(p.now(), nil)
	if err := writeImage(path, it.Original, s.AutoSaveFormat, s.AutoSaveJPGQuality); err != nil {
		return "", err
	}
	if s.AutoSaveSuffixType == config.SuffixNumeric {
		if err := p.store.Update(func(cfg *config.Settings) { cfg.AutoSaveNumericCounter = used + 1 }); err != nil {
			log.Printf("capture: persist counter: %v", err)
		}
	}
	it.MarkSaved(path)
	log.Printf("capture: item %d saved to %s", it.ID, path)
	return path, nil
}

func writeImage(path string, img image.Image, format string, quality int) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("could not write %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if format == config.FormatJPG {
		if quality < 1 {
			quality = 1
		}
		if quality > 100 {
			quality = 100
		}
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("could not encode %s: %w", path, err)
		}
		return nil
	}
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("could not encode %s: %w", path, err)
	}
	return nil
}
