package audio

import (
	"errors"

	"github.com/robalobadob/colortab/internal/game"
)

// Cue kinds sent to remote players.
const (
	CueTone         = "tone"
	CueAmbientStart = "ambient_start"
	CueAmbientStop  = "ambient_stop"
)

// Cue asks a remote client to play a sound asset.
type Cue struct {
	Kind   string     `json:"kind"`
	Color  game.Color `json:"color,omitempty"`
	URI    string     `json:"uri"`
	Volume float64    `json:"volume"`
	Loop   bool       `json:"loop,omitempty"`
}

// ErrNoSink is returned when a Cues player has nowhere to send cues.
var ErrNoSink = errors.New("no cue sink")

// Cues forwards sound requests to a remote client, which owns the actual
// audio assets. Used by the browser front end.
type Cues struct {
	Send func(Cue) error
}

func (c Cues) Tone(col game.Color) error {
	return c.send(Cue{Kind: CueTone, Color: col, URI: col.Info().Sound, Volume: 1})
}

func (c Cues) StartAmbient() error {
	return c.send(Cue{Kind: CueAmbientStart, URI: game.AmbientSound, Volume: game.AmbientVolume, Loop: true})
}

func (c Cues) StopAmbient() error {
	return c.send(Cue{Kind: CueAmbientStop, URI: game.AmbientSound, Volume: game.AmbientVolume})
}

func (c Cues) send(cue Cue) error {
	if c.Send == nil {
		return ErrNoSink
	}
	return c.Send(cue)
}
