// Package sound plays short synthesized cues for capture events.
package sound

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"

	"snap-mosaic/src/worker"
)

type Effect int

const (
	Snap Effect = iota
	Save
	Copy
)

func (e Effect) String() string {
	switch e {
	case Snap:
		return "snap"
	case Save:
		return "save"
	case Copy:
		return "copy"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// Player plays an effect without blocking the caller.
type Player interface {
	Play(Effect)
}

// Mute discards every effect.
type Mute struct{}

func (Mute) Play(Effect) {}

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq float64 // 0 is a rest
	dur  time.Duration
}

func tones(e Effect) []tone {
	switch e {
	case Snap:
		return []tone{{1760, 35 * time.Millisecond}, {0, 15 * time.Millisecond}, {1320, 45 * time.Millisecond}}
	case Save:
		return []tone{{880, 60 * time.Millisecond}, {1175, 90 * time.Millisecond}}
	case Copy:
		return []tone{{1047, 50 * time.Millisecond}}
	default:
		return nil
	}
}

func sequence(sr beep.SampleRate, ts []tone) (beep.Streamer, int, error) {
	parts := make([]beep.Streamer, 0, len(ts))
	total := 0
	for _, t := range ts {
		n := sr.N(t.dur)
		total += n
		if t.freq <= 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		sine, err := generators.SineTone(sr, t.freq)
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, beep.Take(n, sine))
	}
	return &effects.Gain{Streamer: beep.Seq(parts...), Gain: -0.7}, total, nil
}

// Speaker plays effects through the default audio device on a bounded worker
// pool. Effects arriving while the pool is busy are dropped.
type Speaker struct {
	pool *worker.Pool

	initOnce sync.Once
	initErr  error
}

func NewSpeaker(pool *worker.Pool) *Speaker {
	return &Speaker{pool: pool}
}

func (s *Speaker) Play(e Effect) {
	if !s.pool.Submit(func() { s.play(e) }) {
		log.Printf("sound: %s dropped, player busy", e)
	}
}

func (s *Speaker) play(e Effect) {
	s.initOnce.Do(func() {
		s.initErr = speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond))
		if s.initErr != nil {
			log.Printf("sound: audio device unavailable: %v", s.initErr)
		}
	})
	if s.initErr != nil {
		return
	}
	streamer, _, err := sequence(sampleRate, tones(e))
	if err != nil {
		log.Printf("sound: build %s: %v", e, err)
		return
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() { close(done) })))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Printf("sound: %s did not finish", e)
	}
}
