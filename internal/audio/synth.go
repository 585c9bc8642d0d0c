package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/robalobadob/colortab/internal/game"
)

const (
	sampleRate   = beep.SampleRate(44100)
	toneDuration = 300 * time.Millisecond
)

// ErrNotInitialized is returned by a Synth whose speaker is not running.
var ErrNotInitialized = errors.New("speaker not initialized")

// Synth plays tones and the ambient bed through the local sound card.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	ambient     *ambientGenerator
	ambientCtrl *beep.Ctrl
	initialized bool
}

// NewSynth opens the speaker and starts an (initially silent) mixer.
func NewSynth() (*Synth, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	amb := newAmbientGenerator(sampleRate)
	s := &Synth{
		mixer:   &beep.Mixer{},
		ambient: amb,
		ambientCtrl: &beep.Ctrl{
			Streamer: &effects.Volume{Streamer: amb, Base: 2, Volume: math.Log2(game.AmbientVolume)},
			Paused:   true,
		},
		initialized: true,
	}
	s.mixer.Add(s.ambientCtrl)
	speaker.Play(s.mixer)
	return s, nil
}

// Tone plays a short sine tone at the color's frequency.
func (s *Synth) Tone(c game.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	if !c.Valid() {
		return fmt.Errorf("tone %d: %w", uint8(c), game.ErrUnknownColor)
	}
	sine, err := generators.SineTone(sampleRate, c.Info().Tone)
	if err != nil {
		return fmt.Errorf("sine %s: %w", c, err)
	}
	tone := beep.Take(sampleRate.N(toneDuration), &effects.Volume{Streamer: sine, Base: 2, Volume: -2})
	speaker.Lock()
	s.mixer.Add(tone)
	speaker.Unlock()
	return nil
}

// StartAmbient unpauses the ambient bed. Already playing is a no-op.
func (s *Synth) StartAmbient() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	speaker.Lock()
	s.ambientCtrl.Paused = false
	speaker.Unlock()
	return nil
}

// StopAmbient pauses the ambient bed and rewinds it.
func (s *Synth) StopAmbient() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	speaker.Lock()
	s.ambientCtrl.Paused = true
	s.ambient.pos = 0
	speaker.Unlock()
	return nil
}

// Close silences everything. The speaker itself stays open.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.ambientCtrl.Paused = true
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

// ambientGenerator is a slow two-chord pad looping every four seconds.
type ambientGenerator struct {
	sr    beep.SampleRate
	pos   int
	cycle int
}

func newAmbientGenerator(sr beep.SampleRate) *ambientGenerator {
	return &ambientGenerator{sr: sr, cycle: sr.N(4 * time.Second)}
}

func (g *ambientGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		half := g.pos%g.cycle < g.cycle/2
		root := 110.0
		if !half {
			root = 98.0
		}
		// Root, fifth and octave with a gentle swell across the cycle.
		swell := 0.6 + 0.4*math.Sin(2*math.Pi*float64(g.pos%g.cycle)/float64(g.cycle))
		v := 0.5*math.Sin(2*math.Pi*root*t) +
			0.3*math.Sin(2*math.Pi*root*1.5*t) +
			0.2*math.Sin(2*math.Pi*root*2*t)
		v *= 0.4 * swell
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ambientGenerator) Err() error { return nil }
