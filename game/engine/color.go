package engine

// CardColor is the color of a car card or of a colored map segment.
type CardColor string

const (
	Red     CardColor = "red"
	Green   CardColor = "green"
	Blue    CardColor = "blue"
	Black   CardColor = "black"
	White   CardColor = "white"
	Yellow  CardColor = "yellow"
	Orange  CardColor = "orange"
	Magenta CardColor = "magenta"
)

// CardColors lists every card color in a stable order.
var CardColors = []CardColor{Red, Green, Blue, Black, White, Yellow, Orange, Magenta}

// RGB returns the display color, gray for the zero value (uncolored segment).
func (c CardColor) RGB() string {
	switch c {
	case Red:
		return "#FF0000"
	case Green:
		return "#00FF00"
	case Blue:
		return "#0000FF"
	case Black:
		return "#000000"
	case White:
		return "#FFFFFF"
	case Yellow:
		return "#FFFF00"
	case Orange:
		return "#FF8800"
	case Magenta:
		return "#FF00FF"
	}
	return "#AAAAAA"
}

// PlayerColor identifies a player on the board. Unique per game.
type PlayerColor string

const (
	PlayerRed     PlayerColor = "red"
	PlayerBlue    PlayerColor = "blue"
	PlayerBlack   PlayerColor = "black"
	PlayerOrange  PlayerColor = "orange"
	PlayerMagenta PlayerColor = "magenta"
)

// PlayerColors lists the available player colors; their count caps the
// number of players per game.
var PlayerColors = []PlayerColor{PlayerRed, PlayerBlue, PlayerBlack, PlayerOrange, PlayerMagenta}

// Valid reports whether c is one of the supported player colors.
func (c PlayerColor) Valid() bool {
	for _, pc := range PlayerColors {
		if pc == c {
			return true
		}
	}
	return false
}
