package game

// Title is the name shown above the board.
const Title = "ColorTabGame"

// Rules is the short how-to-play text shown by every front end.
var Rules = []string{
	"Press Start to begin the game.",
	"Watch the sequence of flashing colors.",
	"Repeat the sequence by clicking the buttons in the same order.",
	"Every correct round increases the level.",
	"If you make a mistake, the game is over.",
}
