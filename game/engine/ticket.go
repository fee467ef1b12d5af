package engine

// Ticket is a city-pair scoring objective.
type Ticket struct {
	From   CityID `json:"from"`
	To     CityID `json:"to"`
	Points int    `json:"points"`
}

// SharesCityWith reports whether two tickets have an endpoint in common.
func (t Ticket) SharesCityWith(other Ticket) bool {
	return t.From == other.From || t.From == other.To ||
		t.To == other.From || t.To == other.To
}

// PendingTicketsChoice is an offered-but-unconfirmed ticket draw.
//
// ChooseOnNextTurn records whether resolving the choice is the player's
// turn action. A choice granted outside the normal rotation (taken in
// advance while it was someone else's turn) carries false here, and turn
// advancement skips that player's slot until they confirm.
type PendingTicketsChoice struct {
	Tickets          []Ticket `json:"tickets"`
	MinCountToKeep   int      `json:"minCountToKeep"`
	ChooseOnNextTurn bool     `json:"chooseOnNextTurn"`
}

func (c *PendingTicketsChoice) contains(t Ticket) bool {
	for _, offered := range c.Tickets {
		if offered == t {
			return true
		}
	}
	return false
}
