package session

import "time"

// Timing controls the cadence of a session.
type Timing struct {
	StartDelay    time.Duration `yaml:"start_delay" json:"startDelay"`       // start → first round
	PulseInterval time.Duration `yaml:"pulse_interval" json:"pulseInterval"` // between pulse starts
	FlashDuration time.Duration `yaml:"flash_duration" json:"flashDuration"` // panel lit per pulse
	SettleDelay   time.Duration `yaml:"settle_delay" json:"settleDelay"`     // last pulse → input unlocked
	AdvanceDelay  time.Duration `yaml:"advance_delay" json:"advanceDelay"`   // round reproduced → next round
}

// DefaultTiming matches the pacing of the original browser game.
func DefaultTiming() Timing {
	return Timing{
		StartDelay:    500 * time.Millisecond,
		PulseInterval: 800 * time.Millisecond,
		FlashDuration: 400 * time.Millisecond,
		SettleDelay:   500 * time.Millisecond,
		AdvanceDelay:  800 * time.Millisecond,
	}
}

// withDefaults fills zero or negative fields from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.StartDelay <= 0 {
		t.StartDelay = d.StartDelay
	}
	if t.PulseInterval <= 0 {
		t.PulseInterval = d.PulseInterval
	}
	if t.FlashDuration <= 0 {
		t.FlashDuration = d.FlashDuration
	}
	if t.SettleDelay <= 0 {
		t.SettleDelay = d.SettleDelay
	}
	if t.AdvanceDelay <= 0 {
		t.AdvanceDelay = d.AdvanceDelay
	}
	return t
}

// PlaybackLength is how long input stays locked for a sequence of n colors.
func (t Timing) PlaybackLength(n int) time.Duration {
	return time.Duration(n)*t.PulseInterval + t.SettleDelay
}
