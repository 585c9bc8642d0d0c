// Package audio is the sound collaborator of a game session.
//
// A session asks for three things: a short tone per color (on click and on
// every playback pulse), and starting/stopping a looping ambient bed. Where the
// sound actually comes out depends on the front end: the terminal client
// synthesises tones with beep, the browser client receives cues over SSE and
// plays its own assets.
//
// Audio is never allowed to break the game. Sessions talk to a Player through
// Safe, which swallows errors and panics.
package audio

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/colortab/internal/game"
)

// Player produces game sounds.
type Player interface {
	Tone(c game.Color) error
	StartAmbient() error
	// StopAmbient pauses the ambient bed and rewinds it to the start.
	StopAmbient() error
}

// Nop discards every request.
type Nop struct{}

func (Nop) Tone(game.Color) error { return nil }
func (Nop) StartAmbient() error   { return nil }
func (Nop) StopAmbient() error    { return nil }

// Safe wraps a Player and ignores its failures.
type Safe struct {
	p   Player
	log zerolog.Logger
}

// NewSafe wraps p. A nil p behaves like Nop.
func NewSafe(p Player, log zerolog.Logger) *Safe {
	if p == nil {
		p = Nop{}
	}
	return &Safe{p: p, log: log}
}

// Tone plays the color's tone, ignoring failures.
func (s *Safe) Tone(c game.Color) {
	s.call("tone", func() error { return s.p.Tone(c) })
}

// StartAmbient starts the ambient bed, ignoring failures.
func (s *Safe) StartAmbient() {
	s.call("ambient_start", s.p.StartAmbient)
}

// StopAmbient stops and rewinds the ambient bed, ignoring failures.
func (s *Safe) StopAmbient() {
	s.call("ambient_stop", s.p.StopAmbient)
}

func (s *Safe) call(op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Debug().Str("op", op).Str("panic", fmt.Sprint(r)).Msg("audio panic ignored")
		}
	}()
	if err := fn(); err != nil {
		s.log.Debug().Err(err).Str("op", op).Msg("audio failure ignored")
	}
}
