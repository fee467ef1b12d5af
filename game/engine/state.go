package engine

import "math/rand"

// Defaults applied when a game is started without explicit settings.
const (
	DefaultCarsCount     = 45
	InitialStationsCount = 3
	PointsPerStation     = 4

	// lastRoundCarsThreshold: a player ending a turn with fewer cars than
	// this triggers the last round.
	lastRoundCarsThreshold = 3
)

// GameID is the opaque handle of one live game.
type GameID string

// Player is one seat at the table. Players are never removed; a
// disconnected player keeps the seat and is reported as away by the
// session layer.
type Player struct {
	Name             string                `json:"name"`
	Color            PlayerColor           `json:"color"`
	Points           *int                  `json:"points,omitempty"`
	CarsLeft         int                   `json:"carsLeft"`
	StationsLeft     int                   `json:"stationsLeft"`
	Cards            []Card                `json:"cards"`
	OccupiedSegments []Segment             `json:"occupiedSegments"`
	PlacedStations   []CityID              `json:"placedStations"`
	TicketsOnHand    []Ticket              `json:"ticketsOnHand"`
	TicketsForChoice *PendingTicketsChoice `json:"ticketsForChoice,omitempty"`
}

// GameState is the authoritative state of one game. It is owned by a
// single session actor and only ever changes through the transition
// functions in this package, each of which works on a clone so that a
// rejected action leaves the caller's state untouched.
type GameState struct {
	ID              GameID   `json:"id"`
	StartedBy       string   `json:"startedBy"`
	Players         []Player `json:"players"`
	OpenCards       []Card   `json:"openCards"`
	ClosedDeck      []Card   `json:"closedDeck"`
	Discard         []Card   `json:"discard"`
	Turn            int      `json:"turn"`
	EndsOnPlayer    *int     `json:"endsOnPlayer,omitempty"`
	InitialCars     int      `json:"initialCars"`
	ScoreDuringPlay bool     `json:"scoreDuringPlay"`
}

// NewGameState deals the open row and the closed deck for a fresh game.
func NewGameState(id GameID, startedBy string, carsCount int, scoreDuringPlay bool, rng *rand.Rand) GameState {
	if carsCount <= 0 {
		carsCount = DefaultCarsCount
	}
	g := GameState{
		ID:              id,
		StartedBy:       startedBy,
		ClosedDeck:      NewClosedDeck(rng),
		InitialCars:     carsCount,
		ScoreDuringPlay: scoreDuringPlay,
	}
	for i := 0; i < OpenCardsCount; i++ {
		if card, ok := g.drawClosed(rng); ok {
			g.OpenCards = append(g.OpenCards, card)
		}
	}
	return g
}

// LastRound reports whether the final round has begun.
func (g GameState) LastRound() bool { return g.EndsOnPlayer != nil }

// GameOver reports whether the game has ended: the turn has come back
// around to the player the last round was pinned on.
func (g GameState) GameOver() bool {
	return g.EndsOnPlayer != nil && *g.EndsOnPlayer == g.Turn
}

// PlayerByName finds a seat by display name.
func (g GameState) PlayerByName(name string) (Player, bool) {
	for _, p := range g.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// Clone deep-copies the state.
func (g GameState) Clone() GameState {
	out := g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		out.Players[i] = p.clone()
	}
	out.OpenCards = append([]Card(nil), g.OpenCards...)
	out.ClosedDeck = append([]Card(nil), g.ClosedDeck...)
	out.Discard = append([]Card(nil), g.Discard...)
	if g.EndsOnPlayer != nil {
		ends := *g.EndsOnPlayer
		out.EndsOnPlayer = &ends
	}
	return out
}

func (p Player) clone() Player {
	out := p
	out.Cards = append([]Card(nil), p.Cards...)
	out.OccupiedSegments = append([]Segment(nil), p.OccupiedSegments...)
	out.PlacedStations = append([]CityID(nil), p.PlacedStations...)
	out.TicketsOnHand = append([]Ticket(nil), p.TicketsOnHand...)
	if p.TicketsForChoice != nil {
		choice := *p.TicketsForChoice
		choice.Tickets = append([]Ticket(nil), p.TicketsForChoice.Tickets...)
		out.TicketsForChoice = &choice
	}
	if p.Points != nil {
		points := *p.Points
		out.Points = &points
	}
	return out
}

func (g *GameState) playerIndex(name string) int {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return i
		}
	}
	return -1
}

// randomTickets draws count distinct tickets from the map catalog,
// excluding tickets any player already holds or is choosing from. Long
// tickets additionally exclude any ticket sharing a city with a long
// ticket that is already out.
func (g GameState) randomTickets(m *Map, count int, long bool, rng *rand.Rand) ([]Ticket, error) {
	catalog := m.ShortTickets()
	if long {
		catalog = m.LongTickets()
	}

	var taken []Ticket
	for _, p := range g.Players {
		taken = append(taken, p.TicketsOnHand...)
		if p.TicketsForChoice != nil {
			taken = append(taken, p.TicketsForChoice.Tickets...)
		}
	}

	var available []Ticket
	for _, t := range catalog {
		excluded := false
		for _, held := range taken {
			if held == t || (long && held.Points >= m.LongTicketMinPoints && held.SharesCityWith(t)) {
				excluded = true
				break
			}
		}
		if !excluded {
			available = append(available, t)
		}
	}
	if len(available) < count {
		return nil, Reject("no tickets left to deal")
	}

	picked := make([]Ticket, count)
	for i, ix := range rng.Perm(len(available))[:count] {
		picked[i] = available[ix]
	}
	return picked, nil
}
