package engine

import (
	"fmt"
	"math/rand"
)

// InvalidActionError is a rejected player action: the move was illegal and
// the game state is unchanged. It is reported back to the acting endpoint
// only, never treated as fatal.
type InvalidActionError struct {
	Reason string
}

func (e *InvalidActionError) Error() string { return e.Reason }

// Reject builds an InvalidActionError.
func Reject(format string, args ...any) error {
	return &InvalidActionError{Reason: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a rejected action rather than an
// internal failure.
func IsRejection(err error) bool {
	_, ok := err.(*InvalidActionError)
	return ok
}

// CardPick is one half of a two-card draw: either an open-row index or the
// top of the closed deck.
type CardPick struct {
	Open  bool `json:"open"`
	Index int  `json:"index"`
}

// AwayFunc reports whether the named player is currently disconnected.
// Connectivity lives with the session layer, not in the game state.
type AwayFunc func(name string) bool

// AddPlayer seats a new player: deals four cards and the initial ticket
// choice (one long plus three short, keep at least two). The choice is
// created as a turn action so the new player is never skipped while
// deciding.
func (g GameState) AddPlayer(name string, color PlayerColor, m *Map, rng *rand.Rand) (GameState, error) {
	if _, exists := g.PlayerByName(name); exists {
		return g, Reject("name %q is taken", name)
	}
	if !color.Valid() {
		return g, Reject("unknown player color %q", color)
	}
	for _, p := range g.Players {
		if p.Color == color {
			return g, Reject("color %s is taken", color)
		}
	}
	if len(g.Players) >= len(PlayerColors) {
		return g, Reject("game is full, no more players allowed")
	}

	next := g.Clone()
	long, err := next.randomTickets(m, 1, true, rng)
	if err != nil {
		return g, err
	}
	short, err := next.randomTickets(m, 3, false, rng)
	if err != nil {
		return g, err
	}

	player := Player{
		Name:         name,
		Color:        color,
		CarsLeft:     g.InitialCars,
		StationsLeft: InitialStationsCount,
		TicketsForChoice: &PendingTicketsChoice{
			Tickets:          append(long, short...),
			MinCountToKeep:   2,
			ChooseOnNextTurn: true,
		},
	}
	if g.ScoreDuringPlay {
		zero := 0
		player.Points = &zero
	}
	for i := 0; i < 4; i++ {
		if card, ok := next.drawClosed(rng); ok {
			player.Cards = append(player.Cards, card)
		}
	}
	next.Players = append(next.Players, player)
	return next, nil
}

// inTurn guards actions that are only legal for the current player.
func (g GameState) inTurn(name string) error {
	if len(g.Players) == 0 || g.Players[g.Turn].Name != name {
		return Reject("not your turn")
	}
	return nil
}

// AdvanceTurn moves the turn from the current player to the next one,
// applying the end-of-game bookkeeping on the way.
func (g GameState) AdvanceTurn(m *Map, isAway AwayFunc) GameState {
	return g.AdvanceTurnFrom(g.Players[g.Turn].Name, m, isAway)
}

// AdvanceTurnFrom advances the turn if (and only if) it currently belongs
// to the named player.
//
// Rules applied, in order: the game ends at once when every map segment is
// occupied; the last round starts when the current player's cars dropped
// below the threshold; the next seat skips away players; a player whose
// pending ticket choice was taken in advance of their turn is skipped too,
// with the choice flipped so they must resolve it as their next action.
func (g GameState) AdvanceTurnFrom(name string, m *Map, isAway AwayFunc) GameState {
	if g.Players[g.Turn].Name != name {
		return g
	}

	occupied := 0
	for _, p := range g.Players {
		for _, s := range p.OccupiedSegments {
			occupied += s.Length
		}
	}
	if occupied == m.TotalSegmentsLength() {
		next := g.Clone()
		turn := g.Turn
		next.EndsOnPlayer = &turn
		return next
	}

	next := g.Clone()
	if next.EndsOnPlayer == nil && next.Players[next.Turn].CarsLeft < lastRoundCarsThreshold {
		turn := next.Turn
		next.EndsOnPlayer = &turn
	}

	nextTurn := next.Turn
	for {
		nextTurn = (nextTurn + 1) % len(next.Players)
		if nextTurn == next.Turn || isAway == nil || !isAway(next.Players[nextTurn].Name) {
			break
		}
	}
	next.Turn = nextTurn

	player := &next.Players[nextTurn]
	skips := player.TicketsForChoice != nil && !player.TicketsForChoice.ChooseOnNextTurn
	if player.TicketsForChoice != nil {
		player.TicketsForChoice.ChooseOnNextTurn = true
	}
	if skips {
		return next.AdvanceTurnFrom(player.Name, m, isAway)
	}
	return next
}

// PickLoco takes a single open loco, which consumes the whole turn.
func (g GameState) PickLoco(name string, ix int, m *Map, rng *rand.Rand, isAway AwayFunc) (GameState, error) {
	if err := g.inTurn(name); err != nil {
		return g, err
	}
	if ix < 0 || ix >= len(g.OpenCards) {
		return g, Reject("no open card at index %d", ix)
	}
	if g.OpenCards[ix] != Loco {
		return g, Reject("open card at index %d is not a loco", ix)
	}

	next := g.Clone()
	player := &next.Players[next.Turn]
	player.Cards = append(player.Cards, Loco)
	next.replaceOpenCards(rng, ix)
	return next.AdvanceTurn(m, isAway), nil
}

// PickTwoCards draws two cards, each either from the open row or the
// closed deck. Open locos cannot take part in a two-card draw.
func (g GameState) PickTwoCards(name string, picks [2]CardPick, m *Map, rng *rand.Rand, isAway AwayFunc) (GameState, error) {
	if err := g.inTurn(name); err != nil {
		return g, err
	}
	for _, pick := range picks {
		if !pick.Open {
			continue
		}
		if pick.Index < 0 || pick.Index >= len(g.OpenCards) {
			return g, Reject("no open card at index %d", pick.Index)
		}
		if g.OpenCards[pick.Index] == Loco {
			return g, Reject("an open loco must be picked alone")
		}
	}
	if picks[0].Open && picks[1].Open && picks[0].Index == picks[1].Index {
		return g, Reject("cannot pick the same open card twice")
	}

	next := g.Clone()
	player := &next.Players[next.Turn]
	var replaced []int
	for _, pick := range picks {
		if pick.Open {
			player.Cards = append(player.Cards, next.OpenCards[pick.Index])
			replaced = append(replaced, pick.Index)
		} else if card, ok := next.drawClosed(rng); ok {
			player.Cards = append(player.Cards, card)
		}
	}
	next.replaceOpenCards(rng, replaced...)
	return next.AdvanceTurn(m, isAway), nil
}

// replaceOpenCards refills the given open-row slots from the closed deck
// and flushes the whole row when it shows three or more locos. Slots that
// cannot be refilled are dropped.
func (g *GameState) replaceOpenCards(rng *rand.Rand, indices ...int) {
	drop := make(map[int]bool)
	for _, ix := range indices {
		if card, ok := g.drawClosed(rng); ok {
			g.OpenCards[ix] = card
		} else {
			drop[ix] = true
		}
	}
	if len(drop) > 0 {
		kept := make([]Card, 0, len(g.OpenCards))
		for i, card := range g.OpenCards {
			if !drop[i] {
				kept = append(kept, card)
			}
		}
		g.OpenCards = kept
	}

	locos := 0
	for _, card := range g.OpenCards {
		if card == Loco {
			locos++
		}
	}
	if locos >= 3 {
		g.Discard = append(g.Discard, g.OpenCards...)
		g.OpenCards = nil
		for i := 0; i < OpenCardsCount; i++ {
			if card, ok := g.drawClosed(rng); ok {
				g.OpenCards = append(g.OpenCards, card)
			}
		}
	}
}

// PickTickets offers the player three short tickets to choose from, of
// which at least one must be kept. Taken by the current player it is the
// turn action and the turn advances; taken by anyone else it is granted
// in advance of their own turn.
func (g GameState) PickTickets(name string, m *Map, rng *rand.Rand, isAway AwayFunc) (GameState, error) {
	ix := g.playerIndex(name)
	if ix < 0 {
		return g, Reject("unknown player %q", name)
	}
	if g.Players[ix].TicketsForChoice != nil {
		return g, Reject("decide on your tickets first")
	}

	inTurn := g.Turn == ix
	next := g.Clone()
	tickets, err := next.randomTickets(m, 3, false, rng)
	if err != nil {
		return g, err
	}
	next.Players[ix].TicketsForChoice = &PendingTicketsChoice{
		Tickets:          tickets,
		MinCountToKeep:   1,
		ChooseOnNextTurn: inTurn,
	}
	if inTurn {
		next = next.AdvanceTurnFrom(name, m, isAway)
	}
	return next, nil
}

// ConfirmTickets resolves a pending ticket choice, keeping the given
// subset of the offer. A kept ticket may already be fulfilled, so the
// running scores are refreshed.
func (g GameState) ConfirmTickets(name string, keep []Ticket, m *Map) (GameState, error) {
	ix := g.playerIndex(name)
	if ix < 0 {
		return g, Reject("unknown player %q", name)
	}
	choice := g.Players[ix].TicketsForChoice
	if choice == nil {
		return g, Reject("you have no pending tickets choice")
	}
	for _, t := range keep {
		if !choice.contains(t) {
			return g, Reject("ticket %s - %s was not offered", t.From, t.To)
		}
	}
	if len(keep) < choice.MinCountToKeep {
		return g, Reject("you should keep at least %d tickets", choice.MinCountToKeep)
	}

	next := g.Clone()
	player := &next.Players[ix]
	player.TicketsOnHand = append(player.TicketsOnHand, keep...)
	player.TicketsForChoice = nil
	return next.recalculateScores(m), nil
}

// BuildSegment occupies a map segment for the current player, spending the
// given cards and the matching number of cars.
func (g GameState) BuildSegment(name string, seg Segment, spend []Card, m *Map, isAway AwayFunc) (GameState, error) {
	if err := g.inTurn(name); err != nil {
		return g, err
	}
	if !m.SegmentExists(seg) {
		return g, Reject("there is no segment %s - %s on the map", seg.From, seg.To)
	}
	for _, p := range g.Players {
		for _, s := range p.OccupiedSegments {
			if s.ConnectsSameCities(seg) {
				return g, Reject("segment %s - %s is already occupied by %s", seg.From, seg.To, p.Name)
			}
		}
	}

	player := g.Players[g.Turn]
	if seg.Length > player.CarsLeft {
		return g, Reject("not enough cars (%d) to build the %s - %s segment", player.CarsLeft, seg.From, seg.To)
	}
	if !containsCards(player.Cards, spend) {
		return g, Reject("cards to drop do not match cards on hand")
	}
	if !canBuildSegmentWith(seg, spend) {
		return g, Reject("cannot build the %s - %s segment with these cards", seg.From, seg.To)
	}

	next := g.Clone()
	p := &next.Players[next.Turn]
	p.Cards = removeCards(p.Cards, spend)
	p.CarsLeft -= len(spend)
	p.OccupiedSegments = append(p.OccupiedSegments, seg)
	next.Discard = append(next.Discard, spend...)
	next = next.recalculateScores(m)
	return next.AdvanceTurn(m, isAway), nil
}

// canBuildSegmentWith checks the card set against the segment: exactly
// length cards, all one color (or locos), and the color must match a
// colored segment. Locos substitute for any color.
func canBuildSegmentWith(seg Segment, spend []Card) bool {
	if len(spend) != seg.Length {
		return false
	}
	var color *CardColor
	for _, card := range spend {
		if card.Loco {
			continue
		}
		if seg.Color != nil && card.Color != *seg.Color {
			return false
		}
		if color != nil && card.Color != *color {
			return false
		}
		c := card.Color
		color = &c
	}
	return true
}

// BuildStation places a station on a city for the current player. The
// n-th station costs n cards of one color (locos allowed).
func (g GameState) BuildStation(name string, city CityID, spend []Card, m *Map, isAway AwayFunc) (GameState, error) {
	if err := g.inTurn(name); err != nil {
		return g, err
	}
	if _, ok := m.City(city); !ok {
		return g, Reject("there is no city %s on the map", city)
	}
	for _, p := range g.Players {
		for _, placed := range p.PlacedStations {
			if placed == city {
				return g, Reject("there is already a station in %s owned by %s", city, p.Name)
			}
		}
	}

	player := g.Players[g.Turn]
	if player.StationsLeft == 0 {
		return g, Reject("no stations left on hand")
	}
	if len(spend) != len(player.PlacedStations)+1 {
		return g, Reject("building station %d requires %d cards", len(player.PlacedStations)+1, len(player.PlacedStations)+1)
	}
	var color *CardColor
	for _, card := range spend {
		if card.Loco {
			continue
		}
		if color != nil && card.Color != *color {
			return g, Reject("only cards of one color (or locos) can buy a station")
		}
		c := card.Color
		color = &c
	}
	if !containsCards(player.Cards, spend) {
		return g, Reject("cards to drop do not match cards on hand")
	}

	next := g.Clone()
	p := &next.Players[next.Turn]
	p.Cards = removeCards(p.Cards, spend)
	p.StationsLeft--
	p.PlacedStations = append(p.PlacedStations, city)
	next.Discard = append(next.Discard, spend...)
	next = next.recalculateScores(m)
	return next.AdvanceTurn(m, isAway), nil
}

// Leave records a player leaving or dropping: the seat and all game state
// stay, and the turn advances only if it was theirs.
func (g GameState) Leave(name string, m *Map, isAway AwayFunc) GameState {
	if g.playerIndex(name) < 0 || g.Players[g.Turn].Name != name {
		return g
	}
	return g.AdvanceTurnFrom(name, m, isAway)
}

// recalculateScores refreshes every player's running score. Only done
// when the game was started with scoreDuringPlay.
func (g GameState) recalculateScores(m *Map) GameState {
	if !g.ScoreDuringPlay {
		return g
	}
	scores := ScoreGame(g, m)
	longest := LongestRouteOfAll(scores)
	for i := range g.Players {
		points := scores[i].Total(longest, true)
		g.Players[i].Points = &points
	}
	return g
}
