package session

import "github.com/robalobadob/colortab/internal/game"

// EventKind names a display update.
type EventKind string

const (
	EventState        EventKind = "state"         // level/input/playback changed
	EventRound        EventKind = "round"         // a color was appended
	EventFlashOn      EventKind = "flash_on"      // a pulse lit a panel
	EventFlashOff     EventKind = "flash_off"     // the lit panel went dark
	EventPlaybackDone EventKind = "playback_done" // input unlocked
	EventGameOver     EventKind = "game_over"
)

// View is what a display surface needs to render a session.
type View struct {
	ID       string     `json:"id"`
	Mode     Mode       `json:"mode"`
	State    game.State `json:"state"`
	Level    int        `json:"level"`
	Highest  int        `json:"highest"`
	Playback bool       `json:"playback"`
	Flash    game.Color `json:"flash,omitempty"`
	Entered  int        `json:"entered"`
}

// Accepting reports whether a click would be considered in this view.
func (v View) Accepting() bool {
	return v.State == game.StatePlaying && !v.Playback && v.Entered < v.Level
}

// Event is delivered to a Listener on every visible change.
type Event struct {
	Kind  EventKind  `json:"kind"`
	Color game.Color `json:"color,omitempty"`
	View  View       `json:"view"`
}

// Listener receives session events. It is called with the session lock held,
// so it must not call back into the session and should not block.
type Listener interface {
	SessionEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) SessionEvent(e Event) { f(e) }
