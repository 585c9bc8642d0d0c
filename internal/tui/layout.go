package tui

import "github.com/robalobadob/colortab/internal/game"

// Rows reserved above and below the board.
const (
	headerRows = 3
	footerRows = 2
	gap        = 1
)

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout splits a w×h screen into the four panels, in palette order,
// as a 2×2 grid between the header and the help line.
func Layout(w, h int) [game.NumColors]Rect {
	bw := (w - 3*gap) / 2
	bh := (h - headerRows - footerRows - gap) / 2
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}
	left, right := gap, 2*gap+bw
	top, bottom := headerRows, headerRows+bh+gap
	return [game.NumColors]Rect{
		{X: left, Y: top, W: bw, H: bh},
		{X: right, Y: top, W: bw, H: bh},
		{X: left, Y: bottom, W: bw, H: bh},
		{X: right, Y: bottom, W: bw, H: bh},
	}
}

// PanelAt maps a mouse position to the panel under it.
func PanelAt(w, h, x, y int) (game.Color, bool) {
	for i, r := range Layout(w, h) {
		if r.Contains(x, y) {
			return game.Palette[i], true
		}
	}
	return 0, false
}
