package engine

import "math/rand"

// Deck composition: a fixed pool of car cards per color plus locos,
// recycled through the discard pile when the closed deck runs dry.
const (
	OpenCardsCount = 5
	CardsPerColor  = 12
	LocoCardsCount = 14
)

// Card is either a loco (wildcard) or a colored car card.
type Card struct {
	Loco  bool      `json:"loco,omitempty"`
	Color CardColor `json:"color,omitempty"`
}

// Loco is the wildcard card.
var Loco = Card{Loco: true}

// Car returns the car card of the given color.
func Car(color CardColor) Card {
	return Card{Color: color}
}

// NewClosedDeck builds the full shuffled card pool.
func NewClosedDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, len(CardColors)*CardsPerColor+LocoCardsCount)
	for _, color := range CardColors {
		for i := 0; i < CardsPerColor; i++ {
			deck = append(deck, Car(color))
		}
	}
	for i := 0; i < LocoCardsCount; i++ {
		deck = append(deck, Loco)
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// drawClosed takes the top card of the closed deck, folding the discard
// pile back in when the deck is empty. Returns false when both are empty.
func (g *GameState) drawClosed(rng *rand.Rand) (Card, bool) {
	if len(g.ClosedDeck) == 0 {
		if len(g.Discard) == 0 {
			return Card{}, false
		}
		g.ClosedDeck = g.Discard
		g.Discard = nil
		rng.Shuffle(len(g.ClosedDeck), func(i, j int) {
			g.ClosedDeck[i], g.ClosedDeck[j] = g.ClosedDeck[j], g.ClosedDeck[i]
		})
	}
	card := g.ClosedDeck[len(g.ClosedDeck)-1]
	g.ClosedDeck = g.ClosedDeck[:len(g.ClosedDeck)-1]
	return card, true
}

// countCards tallies a hand by card kind.
func countCards(cards []Card) map[Card]int {
	counts := make(map[Card]int, len(cards))
	for _, c := range cards {
		counts[c]++
	}
	return counts
}

// containsCards reports whether hand holds at least every card in want.
func containsCards(hand, want []Card) bool {
	have := countCards(hand)
	for card, n := range countCards(want) {
		if have[card] < n {
			return false
		}
	}
	return true
}

// removeCards returns hand minus one occurrence of each card in drop.
func removeCards(hand, drop []Card) []Card {
	pending := countCards(drop)
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if pending[c] > 0 {
			pending[c]--
			continue
		}
		out = append(out, c)
	}
	return out
}
