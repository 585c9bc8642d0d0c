package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/colortab/internal/clock"
	"github.com/robalobadob/colortab/internal/game"
)

const ms = time.Millisecond

// recorder captures audio requests and display events.
type recorder struct {
	mu     sync.Mutex
	tones  []game.Color
	starts int
	stops  int
	events []Event
}

func (r *recorder) Tone(c game.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tones = append(r.tones, c)
	return nil
}

func (r *recorder) StartAmbient() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts++
	return nil
}

func (r *recorder) StopAmbient() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
	return nil
}

func (r *recorder) SessionEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) toneLog() []game.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.Color(nil), r.tones...)
}

// picks returns the given colors in order, wrapping around.
type picks struct {
	colors []game.Color
	n      int
}

func (p *picks) Intn(n int) int {
	c := p.colors[p.n%len(p.colors)]
	p.n++
	return c.Index() % n
}

func newTestSession(t *testing.T, colors ...game.Color) (*Session, *clock.Fake, *recorder) {
	t.Helper()
	clk := clock.NewFake()
	rec := &recorder{}
	s := New(Options{
		ID:       "test",
		Picker:   &picks{colors: colors},
		Clock:    clk,
		Audio:    rec,
		Listener: rec,
	})
	return s, clk, rec
}

// playThrough waits out the playback of the current level.
func playThrough(clk *clock.Fake, s *Session) {
	clk.Advance(s.Timing().PlaybackLength(s.View().Level))
}

func TestSession_StartsIdle(t *testing.T) {
	s, _, _ := newTestSession(t, game.Red)
	v := s.View()
	assert.Equal(t, game.StateIdle, v.State)
	assert.Equal(t, "test", v.ID)
	assert.Equal(t, ModeNormal, v.Mode)

	out, _ := s.Click(game.Red)
	assert.Equal(t, game.OutcomeIgnored, out)
}

func TestSession_StartSchedulesFirstRound(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Red)

	v := s.Start()
	assert.Equal(t, game.StatePlaying, v.State)
	assert.Equal(t, 0, v.Level)
	assert.Equal(t, 1, rec.starts)

	clk.Advance(499 * ms)
	assert.Equal(t, 0, s.View().Level)

	clk.Advance(1 * ms)
	v = s.View()
	assert.Equal(t, 1, v.Level)
	assert.Equal(t, 1, v.Highest)
	assert.True(t, v.Playback)
}

func TestSession_PlaybackCadence(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Red, game.Green)
	s.Start()
	clk.Advance(500 * ms) // round 1 begins, playback starts

	clk.Advance(799 * ms)
	assert.Empty(t, rec.toneLog(), "first pulse comes one interval after playback starts")
	assert.Equal(t, game.Color(0), s.View().Flash)

	clk.Advance(1 * ms)
	assert.Equal(t, []game.Color{game.Red}, rec.toneLog())
	assert.Equal(t, game.Red, s.View().Flash)

	clk.Advance(400 * ms)
	assert.Equal(t, game.Color(0), s.View().Flash)
	assert.True(t, s.View().Playback)

	clk.Advance(99 * ms)
	assert.True(t, s.View().Playback)
	clk.Advance(1 * ms)
	assert.False(t, s.View().Playback, "input unlocks settle delay after the last pulse")

	assert.Equal(t, []EventKind{
		EventState, EventRound, EventState, EventFlashOn, EventFlashOff, EventPlaybackDone,
	}, rec.kinds())
}

// Scenario A, with timing.
func TestSession_RoundCompleteAdvances(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Red, game.Green)
	s.Start()
	clk.Advance(500 * ms)
	playThrough(clk, s)

	out, v := s.Click(game.Red)
	assert.Equal(t, game.OutcomeRoundComplete, out)
	assert.Equal(t, 1, v.Level)
	assert.Equal(t, 1, v.Entered)

	out, _ = s.Click(game.Red)
	assert.Equal(t, game.OutcomeIgnored, out, "full round waits for the advance")

	clk.Advance(799 * ms)
	assert.Equal(t, 1, s.View().Level)
	clk.Advance(1 * ms)
	v = s.View()
	assert.Equal(t, 2, v.Level)
	assert.Equal(t, 0, v.Entered)
	assert.True(t, v.Playback)

	// Two pulses in order: red, green.
	clk.Advance(1600 * ms)
	assert.Equal(t, []game.Color{game.Red, game.Red, game.Red, game.Green}, rec.toneLog())
	clk.Advance(500 * ms)
	assert.False(t, s.View().Playback)
}

// Scenario B.
func TestSession_MismatchGameOver(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Red, game.Green)
	s.Start()
	clk.Advance(500 * ms)
	playThrough(clk, s)
	s.Click(game.Red)
	clk.Advance(800 * ms)
	playThrough(clk, s)

	out, _ := s.Click(game.Red)
	require.Equal(t, game.OutcomePending, out)
	out, v := s.Click(game.Purple)
	assert.Equal(t, game.OutcomeMismatch, out)
	assert.Equal(t, game.StateGameOver, v.State)
	assert.Equal(t, 0, v.Level)
	assert.Equal(t, 2, v.Highest)
	assert.Equal(t, 1, rec.stops)
	assert.Equal(t, EventGameOver, rec.kinds()[len(rec.kinds())-1])
	assert.Equal(t, 0, clk.Pending())
}

// Scenario C.
func TestSession_ClicksDroppedDuringPlayback(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Yellow)
	s.Start()
	clk.Advance(500 * ms)
	require.True(t, s.View().Playback)

	for _, c := range game.Palette {
		out, v := s.Click(c)
		assert.Equal(t, game.OutcomeIgnored, out)
		assert.Equal(t, 0, v.Entered)
		assert.Equal(t, game.StatePlaying, v.State)
	}
	assert.Empty(t, rec.toneLog(), "dropped clicks make no sound")
}

// Scenario D.
func TestSession_HighestAcrossGames(t *testing.T) {
	s, clk, _ := newTestSession(t, game.Green)
	s.Start()
	clk.Advance(500 * ms)
	for level := 1; level <= 3; level++ {
		playThrough(clk, s)
		if level == 3 {
			s.Click(game.Red)
			break
		}
		for i := 0; i < level; i++ {
			s.Click(game.Green)
		}
		clk.Advance(800 * ms)
	}
	require.Equal(t, 3, s.View().Highest)
	require.Equal(t, game.StateGameOver, s.View().State)

	s.Start()
	clk.Advance(500 * ms)
	playThrough(clk, s)
	s.Click(game.Green)
	clk.Advance(800 * ms)
	v := s.View()
	assert.Equal(t, 2, v.Level)
	assert.Equal(t, 3, v.Highest)
}

func TestSession_RestartCancelsPlayback(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Red, game.Red, game.Green)
	s.Start()
	clk.Advance(500 * ms)
	playThrough(clk, s)
	s.Click(game.Red)
	clk.Advance(800 * ms)
	clk.Advance(800 * ms) // first of two pulses played
	require.True(t, s.View().Playback)
	tonesBefore := len(rec.toneLog())

	v := s.Start()
	assert.Equal(t, 0, v.Level)
	assert.False(t, v.Playback)
	assert.Equal(t, game.Color(0), v.Flash)
	assert.Equal(t, 1, clk.Pending(), "only the new start delay remains")

	clk.Advance(499 * ms)
	assert.Len(t, rec.toneLog(), tonesBefore, "old pulses never fire")

	clk.Advance(1 * ms)
	assert.Equal(t, 1, s.View().Level)
	assert.Equal(t, []game.Color{game.Green}, s.engine.Sequence())
}

func TestSession_Close(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Red)
	s.Start()
	clk.Advance(500 * ms)
	s.Close()
	assert.Equal(t, 0, clk.Pending())
	assert.Equal(t, 1, rec.stops)

	before := s.View()
	s.Start()
	out, _ := s.Click(game.Red)
	assert.Equal(t, game.OutcomeIgnored, out)
	assert.Equal(t, before, s.View())
	s.Close()
	assert.Equal(t, 1, rec.stops)
}

func TestSession_InvariantsHoldEveryEvent(t *testing.T) {
	s, clk, rec := newTestSession(t, game.Red, game.Yellow, game.Purple, game.Green)
	s.Start()
	clk.Advance(500 * ms)
	for level := 1; level <= 4; level++ {
		playThrough(clk, s)
		for _, c := range s.engine.Sequence() {
			s.Click(c)
		}
		clk.Advance(800 * ms)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		assert.LessOrEqual(t, e.View.Entered, e.View.Level)
		if e.View.Playback {
			assert.Equal(t, 0, e.View.Entered)
		}
	}
}

func TestSession_DefaultsFilled(t *testing.T) {
	s := New(Options{Timing: Timing{PulseInterval: 100 * ms}})
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, ModeNormal, s.Mode())
	tm := s.Timing()
	assert.Equal(t, 100*ms, tm.PulseInterval)
	assert.Equal(t, DefaultTiming().StartDelay, tm.StartDelay)
	assert.Equal(t, 2*100*ms+DefaultTiming().SettleDelay, tm.PlaybackLength(2))
}

func TestSession_RealClock(t *testing.T) {
	s := New(Options{
		Picker: &picks{colors: []game.Color{game.Purple}},
		Timing: Timing{StartDelay: ms, PulseInterval: 2 * ms, FlashDuration: ms, SettleDelay: ms, AdvanceDelay: ms},
	})
	defer s.Close()
	s.Start()

	require.Eventually(t, func() bool {
		v := s.View()
		return v.Level == 1 && !v.Playback
	}, 2*time.Second, ms)

	out, _ := s.Click(game.Purple)
	require.Equal(t, game.OutcomeRoundComplete, out)

	require.Eventually(t, func() bool {
		v := s.View()
		return v.Level == 2 && !v.Playback
	}, 2*time.Second, ms)
}
