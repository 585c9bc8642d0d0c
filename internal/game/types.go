// internal/game/types.go
//
// Core type definitions for the color-sequence game engine.
// Defines:
//   - Color:   closed enum over the four-panel palette, with an exhaustive lookup table.
//   - State:   coarse game state (idle/playing/game_over).
//   - Outcome: result of feeding one click into the engine.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// Color is one panel of the board. The zero value is not a valid color.
type Color uint8

const (
	Yellow Color = iota + 1
	Red
	Purple
	Green
)

// NumColors is the size of the palette.
const NumColors = 4

// Palette lists every color in board order.
var Palette = [NumColors]Color{Yellow, Red, Purple, Green}

// ErrUnknownColor is returned when a color name is not part of the palette.
var ErrUnknownColor = errors.New("unknown color")

// ColorInfo describes how a color is presented by the front ends.
type ColorInfo struct {
	Name  string  // lowercase token used on the wire ("red")
	Sound string  // short click/pulse sound played by the browser client
	Tone  float64 // frequency in Hz used when the tone is synthesised locally
	Key   rune    // terminal shortcut
}

// colorTable is indexed by Color; index 0 is the invalid zero value.
var colorTable = [NumColors + 1]ColorInfo{
	{},
	{Name: "yellow", Sound: "https://freesound.org/data/previews/341/341695_5260877-lq.mp3", Tone: 252, Key: 'y'},
	{Name: "red", Sound: "https://freesound.org/data/previews/341/341696_5260877-lq.mp3", Tone: 310, Key: 'r'},
	{Name: "purple", Sound: "https://freesound.org/data/previews/341/341697_5260877-lq.mp3", Tone: 209, Key: 'p'},
	{Name: "green", Sound: "https://freesound.org/data/previews/341/341698_5260877-lq.mp3", Tone: 415, Key: 'g'},
}

// Ambient track played on a loop while a game is running.
const (
	AmbientSound  = "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3"
	AmbientVolume = 0.15
)

// Valid reports whether c is a member of the palette.
func (c Color) Valid() bool { return c >= Yellow && c <= Green }

// Info returns the presentation data for c. Invalid colors yield the zero ColorInfo.
func (c Color) Info() ColorInfo {
	if !c.Valid() {
		return ColorInfo{}
	}
	return colorTable[c]
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return colorTable[c].Name
}

// Index returns the 0-based board position of c, or -1 for invalid colors.
func (c Color) Index() int {
	if !c.Valid() {
		return -1
	}
	return int(c) - 1
}

// MarshalText encodes c as its lowercase name.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal %d: %w", uint8(c), ErrUnknownColor)
	}
	return []byte(colorTable[c].Name), nil
}

// UnmarshalText decodes a lowercase (or mixed-case) color name.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseColor maps a color name to its Color.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Palette {
		if colorTable[c].Name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownColor)
}

// ColorForKey maps a terminal shortcut (palette letter or 1-4) to a Color.
func ColorForKey(r rune) (Color, bool) {
	if r >= '1' && r <= '0'+NumColors {
		return Palette[r-'1'], true
	}
	for _, c := range Palette {
		if colorTable[c].Key == r {
			return c, true
		}
	}
	return 0, false
}

// State represents where the game is in its lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StatePlaying  State = "playing"
	StateGameOver State = "game_over"
)

// Outcome is the engine's verdict on a single click.
type Outcome string

const (
	OutcomeIgnored       Outcome = "ignored"        // not accepting input
	OutcomePending       Outcome = "pending"        // correct, round not finished
	OutcomeRoundComplete Outcome = "round_complete" // whole sequence reproduced
	OutcomeMismatch      Outcome = "mismatch"       // wrong color, game over
)
