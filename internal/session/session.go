// internal/session/session.go
//
// A Session is one player's game: the sequence engine plus everything that
// happens over time around it.
// Responsibilities:
//   - Start / Play Again: reset the engine, start ambient audio, schedule round one.
//   - Playback: pulse each color of the sequence at a fixed cadence, then unlock input.
//   - Clicks: play the color's tone, validate, advance after a delay or end the game.
//   - Game over: stop and rewind ambient audio, keep the high score.
//
// Notes:
//   - All mutation happens under one mutex; timer callbacks and clicks take it.
//   - Every timer is tracked. Restart, game over and Close stop them all and bump
//     the epoch, so a callback that already fired but is waiting on the lock is
//     dropped too.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortab/internal/audio"
	"github.com/robalobadob/colortab/internal/clock"
	"github.com/robalobadob/colortab/internal/game"
)

// Mode selects how a session draws its colors.
type Mode string

const (
	ModeNormal Mode = "normal" // time-seeded random colors
	ModeDaily  Mode = "daily"  // colors seeded by the date; same sequence for everyone
)

// Options configure a new Session. Zero values get sensible defaults.
type Options struct {
	ID       string
	Owner    string // user or anonymous id that created the session
	Mode     Mode
	Picker   game.Picker
	Clock    clock.Scheduler
	Audio    audio.Player
	Timing   Timing
	Listener Listener
}

// Session owns one game and its timers.
type Session struct {
	id      string
	owner   string
	mode    Mode
	created time.Time

	mu       sync.Mutex
	engine   *game.Engine
	clock    clock.Scheduler
	audio    *audio.Safe
	timing   Timing
	listener Listener
	log      zerolog.Logger

	flash     game.Color // panel currently lit, 0 when dark
	pulse     int        // bumps per pulse so a stale flash-off cannot darken a newer flash
	epoch     int
	timers    map[int]clock.Timer
	nextTimer int
	lastSeen  time.Time
	closed    bool
}

// New constructs an idle session.
func New(opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Mode == "" {
		opts.Mode = ModeNormal
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	logger := log.With().Str("gameId", opts.ID).Str("mode", string(opts.Mode)).Logger()
	now := opts.Clock.Now()
	return &Session{
		id:       opts.ID,
		owner:    opts.Owner,
		mode:     opts.Mode,
		created:  now,
		engine:   game.NewEngine(opts.Picker),
		clock:    opts.Clock,
		audio:    audio.NewSafe(opts.Audio, logger),
		timing:   opts.Timing.withDefaults(),
		listener: opts.Listener,
		log:      logger,
		timers:   make(map[int]clock.Timer),
		lastSeen: now,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Owner() string        { return s.owner }
func (s *Session) Mode() Mode           { return s.mode }
func (s *Session) CreatedAt() time.Time { return s.created }
func (s *Session) Timing() Timing       { return s.timing }

// LastActive is the time of the last start or click.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// View returns a snapshot for display.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Start begins a new game (also "Play Again"). Any in-flight playback or
// pending advance from the previous game is cancelled first.
func (s *Session) Start() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.viewLocked()
	}
	s.lastSeen = s.clock.Now()
	s.cancelLocked()
	s.engine.StartNewGame()
	s.flash = 0
	s.audio.StartAmbient()
	s.log.Info().Int("highest", s.engine.Highest()).Msg("game started")
	s.emitLocked(EventState, 0)
	s.scheduleLocked(s.timing.StartDelay, s.nextRoundLocked)
	return s.viewLocked()
}

// Click handles one panel click and reports what the engine made of it.
func (s *Session) Click(c game.Color) (game.Outcome, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !c.Valid() || !s.engine.Accepting() {
		return game.OutcomeIgnored, s.viewLocked()
	}
	s.lastSeen = s.clock.Now()
	s.audio.Tone(c)

	out := s.engine.Press(c)
	switch out {
	case game.OutcomeMismatch:
		s.gameOverLocked()
	case game.OutcomeRoundComplete:
		s.emitLocked(EventState, 0)
		s.scheduleLocked(s.timing.AdvanceDelay, s.nextRoundLocked)
	case game.OutcomePending:
		s.emitLocked(EventState, 0)
	}
	return out, s.viewLocked()
}

// Close stops all timers and the ambient audio. A closed session ignores
// further starts and clicks.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelLocked()
	if s.engine.State() == game.StatePlaying {
		s.audio.StopAmbient()
	}
	s.closed = true
	s.log.Debug().Msg("session closed")
}

// nextRoundLocked appends a color and plays the whole sequence back.
func (s *Session) nextRoundLocked() {
	if s.engine.State() != game.StatePlaying {
		return
	}
	c := s.engine.AdvanceRound()
	s.log.Debug().Int("level", s.engine.Level()).Msg("round advanced")
	s.emitLocked(EventRound, c)
	s.playLocked(s.engine.Sequence())
}

// playLocked schedules one pulse per color, then unlocks input after the
// settle delay. Pulse i starts (i+1) intervals after playback begins.
func (s *Session) playLocked(seq []game.Color) {
	s.engine.SetPlayback(true)
	s.emitLocked(EventState, 0)
	for i, c := range seq {
		c := c
		s.scheduleLocked(time.Duration(i+1)*s.timing.PulseInterval, func() { s.pulseLocked(c) })
	}
	s.scheduleLocked(s.timing.PlaybackLength(len(seq)), func() {
		s.engine.SetPlayback(false)
		s.emitLocked(EventPlaybackDone, 0)
	})
}

// pulseLocked lights a panel, plays its tone and schedules it to go dark.
func (s *Session) pulseLocked(c game.Color) {
	s.pulse++
	mine := s.pulse
	s.flash = c
	s.audio.Tone(c)
	s.emitLocked(EventFlashOn, c)
	s.scheduleLocked(s.timing.FlashDuration, func() {
		if s.pulse != mine {
			return
		}
		s.flash = 0
		s.emitLocked(EventFlashOff, c)
	})
}

func (s *Session) gameOverLocked() {
	s.cancelLocked()
	s.engine.GameOver()
	s.flash = 0
	s.audio.StopAmbient()
	s.log.Info().Int("highest", s.engine.Highest()).Msg("game over")
	s.emitLocked(EventGameOver, 0)
}

// scheduleLocked runs fn under the session lock after d, unless the epoch
// moved on or the session closed in the meantime.
func (s *Session) scheduleLocked(d time.Duration, fn func()) {
	s.nextTimer++
	id, epoch := s.nextTimer, s.epoch
	s.timers[id] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.timers, id)
		if s.closed || s.epoch != epoch {
			return
		}
		fn()
	})
}

// cancelLocked stops every pending timer and invalidates callbacks already in flight.
func (s *Session) cancelLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.epoch++
}

func (s *Session) emitLocked(kind EventKind, c game.Color) {
	if s.listener == nil {
		return
	}
	s.listener.SessionEvent(Event{Kind: kind, Color: c, View: s.viewLocked()})
}

func (s *Session) viewLocked() View {
	return View{
		ID:       s.id,
		Mode:     s.mode,
		State:    s.engine.State(),
		Level:    s.engine.Level(),
		Highest:  s.engine.Highest(),
		Playback: s.engine.Playback(),
		Flash:    s.flash,
		Entered:  len(s.engine.Entered()),
	}
}
