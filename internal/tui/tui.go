// Package tui is the terminal front end: it draws the board with tcell and
// turns keys and mouse clicks into session operations.
package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortab/internal/game"
	"github.com/robalobadob/colortab/internal/session"
)

const helpLine = "1-4 or y r p g: press   s/Enter: start   q/Esc: quit"

// panelStyle holds the dark and lit background of each panel, by board position.
var panelStyle = [game.NumColors][2]tcell.Color{
	{tcell.ColorOlive, tcell.ColorYellow},
	{tcell.ColorMaroon, tcell.ColorRed},
	{tcell.ColorPurple, tcell.ColorFuchsia},
	{tcell.ColorGreen, tcell.ColorLime},
}

type quitSignal struct{}

// App binds one screen to one session.
type App struct {
	screen  tcell.Screen
	sess    *session.Session
	pressed bool // left button held; clicks fire on press only
}

// New wraps an initialised screen. Attach the session before Run.
func New(screen tcell.Screen) *App {
	return &App{screen: screen}
}

// Attach sets the session driven by the app.
func (a *App) Attach(s *session.Session) { a.sess = s }

// SessionEvent wakes the event loop so the board is redrawn.
// It never blocks: a full event queue just drops the wake-up.
func (a *App) SessionEvent(session.Event) {
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run draws the board and processes input until the player quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a.sess == nil {
		return fmt.Errorf("tui: no session attached")
	}
	a.screen.EnableMouse()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
		case <-done:
		}
	}()

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.Handle(ev) {
			return nil
		}
		a.Draw()
	}
}

// Handle applies one terminal event. It returns false when the app should exit.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(quitSignal); ok {
			return false
		}
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			a.sess.Start()
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q', 'Q':
				return false
			case 's', 'S':
				a.sess.Start()
			default:
				if c, ok := game.ColorForKey(r); ok {
					a.click(c)
				}
			}
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !a.pressed {
			x, y := ev.Position()
			w, h := a.screen.Size()
			if c, ok := PanelAt(w, h, x, y); ok {
				a.click(c)
			}
		}
		a.pressed = down
	}
	return true
}

func (a *App) click(c game.Color) {
	out, v := a.sess.Click(c)
	log.Debug().Str("color", c.String()).Str("outcome", string(out)).Int("level", v.Level).Msg("click")
}

// Draw renders the current session view.
func (a *App) Draw() {
	v := a.sess.View()
	s := a.screen
	w, h := s.Size()
	s.Clear()

	def := tcell.StyleDefault
	a.center(0, game.Title, def.Bold(true))
	a.center(1, Status(v), def)

	for i, r := range Layout(w, h) {
		c := game.Palette[i]
		bg := panelStyle[i][0]
		if v.Flash == c {
			bg = panelStyle[i][1]
		}
		style := def.Background(bg).Foreground(tcell.ColorBlack)
		for y := r.Y; y < r.Y+r.H && y < h; y++ {
			for x := r.X; x < r.X+r.W && x < w; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
		}
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(c.String()))
		a.text(r.X+(r.W-utf8.RuneCountInString(label))/2, r.Y+r.H/2, label, style)
	}

	a.center(h-1, helpLine, def.Foreground(tcell.ColorGray))
	s.Show()
}

// Status is the line under the title.
func Status(v session.View) string {
	switch v.State {
	case game.StatePlaying:
		line := fmt.Sprintf("Level: %d | Highest: %d", v.Level, v.Highest)
		if v.Playback {
			line += "   watch..."
		} else if v.Accepting() {
			line += fmt.Sprintf("   your turn (%d/%d)", v.Entered, v.Level)
		}
		return line
	case game.StateGameOver:
		return fmt.Sprintf("GAME OVER | Highest: %d   press s to Play Again", v.Highest)
	default:
		return "Press Start to Play (s)"
	}
}

func (a *App) center(y int, str string, style tcell.Style) {
	w, _ := a.screen.Size()
	a.text((w-utf8.RuneCountInString(str))/2, y, str, style)
}

func (a *App) text(x, y int, str string, style tcell.Style) {
	if x < 0 {
		x = 0
	}
	for _, r := range str {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
