// internal/game/engine.go
//
// Sequence engine and input validator for a single color-sequence game.
// Responsibilities:
//   - Start new games while keeping the session high score.
//   - Grow the sequence by one uniformly random palette color per round.
//   - Validate clicks against the sequence prefix and report the outcome.
//   - Track state transitions: idle → playing → game_over → playing.
//
// Notes:
//   - Timing is not handled here; the session package decides when to advance
//     and when playback starts or ends, and flips the playback flag.
//   - The engine is not safe for concurrent use. Callers serialise access.
package game

import (
	"math/rand"
	"time"
)

// Picker draws an index in [0, n). *math/rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// Engine holds the state of one player's game.
type Engine struct {
	rng      Picker
	sequence []Color // colors shown so far; len == level
	input    []Color // colors clicked this round; always a prefix of sequence while playing
	highest  int     // best level reached, never reset
	state    State
	playback bool // true while the sequence is being replayed
}

// NewEngine constructs an idle engine.
// If rng is nil, a time-seeded source is used.
func NewEngine(rng Picker) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng, state: StateIdle}
}

// StartNewGame clears the sequence, input and level and enters the playing state.
// The high score survives.
func (e *Engine) StartNewGame() {
	e.sequence = e.sequence[:0]
	e.input = e.input[:0]
	e.playback = false
	e.state = StatePlaying
}

// AdvanceRound appends one random color, raises the high score if needed,
// and clears the input for the new round. It returns the color appended.
func (e *Engine) AdvanceRound() Color {
	c := Palette[e.rng.Intn(NumColors)]
	e.sequence = append(e.sequence, c)
	if lvl := len(e.sequence); lvl > e.highest {
		e.highest = lvl
	}
	e.input = e.input[:0]
	return c
}

// SetPlayback flips the playback flag. Input is refused while it is set.
func (e *Engine) SetPlayback(on bool) { e.playback = on }

// Accepting reports whether a click would currently be considered.
func (e *Engine) Accepting() bool {
	return e.state == StatePlaying && !e.playback && len(e.input) < len(e.sequence)
}

// Press feeds one click into the engine.
//
// Rules:
//   - Ignored unless playing, not in playback, and the round is still open.
//   - The click is appended and compared with the sequence at the same index.
//   - A mismatch ends the game (see GameOver).
func (e *Engine) Press(c Color) Outcome {
	if !c.Valid() || !e.Accepting() {
		return OutcomeIgnored
	}
	e.input = append(e.input, c)
	i := len(e.input) - 1
	if e.sequence[i] != c {
		e.GameOver()
		return OutcomeMismatch
	}
	if len(e.input) == len(e.sequence) {
		return OutcomeRoundComplete
	}
	return OutcomePending
}

// GameOver ends the current game. Calling it repeatedly is harmless.
func (e *Engine) GameOver() {
	e.sequence = e.sequence[:0]
	e.input = e.input[:0]
	e.playback = false
	e.state = StateGameOver
}

// Level is the current sequence length.
func (e *Engine) Level() int { return len(e.sequence) }

// Highest is the best level reached since the engine was created.
func (e *Engine) Highest() int { return e.highest }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Playback reports whether the sequence is being replayed.
func (e *Engine) Playback() bool { return e.playback }

// Sequence returns a copy of the current sequence.
func (e *Engine) Sequence() []Color { return append([]Color(nil), e.sequence...) }

// Entered returns a copy of the colors clicked this round.
func (e *Engine) Entered() []Color { return append([]Color(nil), e.input...) }
