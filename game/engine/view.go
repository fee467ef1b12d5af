package engine

// TicketsChoiceState is the publicly visible state of another player's
// ticket draw. The tickets themselves stay hidden.
type TicketsChoiceState string

const (
	TicketsChoiceNone       TicketsChoiceState = "none"
	TicketsChoiceInProgress TicketsChoiceState = "choosing"
	TicketsChoiceOnNextTurn TicketsChoiceState = "onNextTurn"
)

// PlayerView is what every participant sees of a player: open board
// state plus hand sizes, never the hands themselves.
type PlayerView struct {
	Name             string             `json:"name"`
	Color            PlayerColor        `json:"color"`
	Points           *int               `json:"points,omitempty"`
	CarsLeft         int                `json:"carsLeft"`
	StationsLeft     int                `json:"stationsLeft"`
	CardsOnHand      int                `json:"cardsOnHand"`
	TicketsOnHand    int                `json:"ticketsOnHand"`
	Away             bool               `json:"away"`
	OccupiedSegments []Segment          `json:"occupiedSegments"`
	PlacedStations   []CityID           `json:"placedStations"`
	TicketsChoice    TicketsChoiceState `json:"ticketsChoice"`
}

// GameStateView is the game as seen by one player: everyone's public
// state plus the viewer's own hand.
type GameStateView struct {
	Players   []PlayerView `json:"players"`
	OpenCards []Card       `json:"openCards"`
	Turn      int          `json:"turn"`
	LastRound bool         `json:"lastRound"`

	MyName             string                `json:"myName"`
	MyCards            []Card                `json:"myCards"`
	MyTicketsOnHand    []Ticket              `json:"myTicketsOnHand"`
	MyTicketsForChoice *PendingTicketsChoice `json:"myTicketsForChoice,omitempty"`
}

// GameStateForObserver is the game as seen by a non-playing observer.
// Player tickets are included only once the game has ended.
type GameStateForObserver struct {
	GameID    GameID       `json:"gameId"`
	Players   []PlayerView `json:"players"`
	Tickets   [][]Ticket   `json:"tickets,omitempty"`
	OpenCards []Card       `json:"openCards"`
	Turn      int          `json:"turn"`
	LastRound bool         `json:"lastRound"`
	GameEnded bool         `json:"gameEnded"`
}

func playerView(p Player, away bool) PlayerView {
	choice := TicketsChoiceNone
	if p.TicketsForChoice != nil {
		if p.TicketsForChoice.ChooseOnNextTurn {
			choice = TicketsChoiceOnNextTurn
		} else {
			choice = TicketsChoiceInProgress
		}
	}
	return PlayerView{
		Name:             p.Name,
		Color:            p.Color,
		Points:           p.Points,
		CarsLeft:         p.CarsLeft,
		StationsLeft:     p.StationsLeft,
		CardsOnHand:      len(p.Cards),
		TicketsOnHand:    len(p.TicketsOnHand),
		Away:             away,
		OccupiedSegments: p.OccupiedSegments,
		PlacedStations:   p.PlacedStations,
		TicketsChoice:    choice,
	}
}

func (g GameState) playerViews(isAway AwayFunc) []PlayerView {
	views := make([]PlayerView, len(g.Players))
	for i, p := range g.Players {
		views[i] = playerView(p, isAway != nil && isAway(p.Name))
	}
	return views
}

// ViewFor projects the state for the named player.
func (g GameState) ViewFor(name string, isAway AwayFunc) GameStateView {
	view := GameStateView{
		Players:   g.playerViews(isAway),
		OpenCards: g.OpenCards,
		Turn:      g.Turn,
		LastRound: g.LastRound(),
		MyName:    name,
	}
	if me, ok := g.PlayerByName(name); ok {
		view.MyCards = me.Cards
		view.MyTicketsOnHand = me.TicketsOnHand
		view.MyTicketsForChoice = me.TicketsForChoice
	}
	return view
}

// ViewForObserver projects the state for observers.
func (g GameState) ViewForObserver(isAway AwayFunc) GameStateForObserver {
	view := GameStateForObserver{
		GameID:    g.ID,
		Players:   g.playerViews(isAway),
		OpenCards: g.OpenCards,
		Turn:      g.Turn,
		LastRound: g.LastRound(),
		GameEnded: g.GameOver(),
	}
	if view.GameEnded {
		view.Tickets = make([][]Ticket, len(g.Players))
		for i, p := range g.Players {
			view.Tickets[i] = p.TicketsOnHand
		}
	}
	return view
}
