package engine

import "ticketgame/game/graph"

// PlayerScore is the full score breakdown for one player at a point in
// the game.
type PlayerScore struct {
	Name  string      `json:"name"`
	Color PlayerColor `json:"color"`

	FulfilledTickets   []Ticket `json:"fulfilledTickets"`
	UnfulfilledTickets []Ticket `json:"unfulfilledTickets"`
	LongestRoute       int      `json:"longestRoute"`
	SegmentsPoints     int      `json:"segmentsPoints"`
	StationPoints      int      `json:"stationPoints"`

	pointsForLongestRoute int
}

// Total combines the breakdown into a single number. Pass the longest
// route across all players to award the bonus (shared on ties). While
// the game is in progress unfulfilled tickets do not count against the
// player.
func (s PlayerScore) Total(longestOfAll int, inProgress bool) int {
	total := s.SegmentsPoints + s.StationPoints
	for _, t := range s.FulfilledTickets {
		total += t.Points
	}
	if longestOfAll > 0 && s.LongestRoute == longestOfAll {
		total += s.pointsForLongestRoute
	}
	if !inProgress {
		for _, t := range s.UnfulfilledTickets {
			total -= t.Points
		}
	}
	return total
}

// ScoreGame scores every player, indexed as in g.Players.
func ScoreGame(g GameState, m *Map) []PlayerScore {
	scores := make([]PlayerScore, len(g.Players))
	for i, p := range g.Players {
		var others []Segment
		for j, other := range g.Players {
			if j != i {
				others = append(others, other.OccupiedSegments...)
			}
		}
		scores[i] = ScorePlayer(p, others, m)
	}
	return scores
}

// LongestRouteOfAll is the longest continuous route any of the scored
// players has built.
func LongestRouteOfAll(scores []PlayerScore) int {
	longest := 0
	for _, s := range scores {
		if s.LongestRoute > longest {
			longest = s.LongestRoute
		}
	}
	return longest
}

// ScorePlayer computes one player's breakdown. othersSegments are the
// segments occupied by every other player; the player's stations can
// borrow one adjacent foreign segment each when checking tickets.
func ScorePlayer(p Player, othersSegments []Segment, m *Map) PlayerScore {
	score := PlayerScore{
		Name:                  p.Name,
		Color:                 p.Color,
		StationPoints:         p.StationsLeft * PointsPerStation,
		pointsForLongestRoute: m.PointsForLongestRoute,
	}
	for _, s := range p.OccupiedSegments {
		score.SegmentsPoints += m.PointsForSegments(s.Length)
	}

	own := segmentsGraph(p.OccupiedSegments)
	score.FulfilledTickets = fulfilledTickets(p.TicketsOnHand, own, p.PlacedStations, othersSegments)
	for _, t := range p.TicketsOnHand {
		if !containsTicket(score.FulfilledTickets, t) {
			score.UnfulfilledTickets = append(score.UnfulfilledTickets, t)
		}
	}

	for _, component := range own.SplitConnected() {
		if weight := component.MaxEulerianSubgraph().TotalWeight(); weight > score.LongestRoute {
			score.LongestRoute = weight
		}
	}
	return score
}

// segmentsGraph builds the weighted city graph of a set of occupied
// segments.
func segmentsGraph(segments []Segment) graph.Graph[CityID] {
	g := make(graph.Graph[CityID])
	for _, s := range segments {
		g.AddEdge(s.From, s.To, s.Length)
	}
	return g
}

// fulfilledTickets picks the subset of tickets whose endpoints are
// connected through the player's network. Each placed station can pull
// in one segment occupied by another player at that city; the
// combination of station picks maximizing fulfilled ticket points wins.
// Borrowing extra segments never disconnects anything, so stations with
// no adjacent foreign segment are simply ignored.
func fulfilledTickets(tickets []Ticket, own graph.Graph[CityID], stations []CityID, othersSegments []Segment) []Ticket {
	check := func(g graph.Graph[CityID]) []Ticket {
		components := g.SplitConnected()
		var fulfilled []Ticket
		for _, t := range tickets {
			for _, c := range components {
				if _, hasFrom := c[t.From]; !hasFrom {
					continue
				}
				if _, hasTo := c[t.To]; hasTo {
					fulfilled = append(fulfilled, t)
					break
				}
			}
		}
		return fulfilled
	}

	var candidates [][]Segment
	for _, city := range stations {
		var adjacent []Segment
		for _, s := range othersSegments {
			if s.Adjacent(city) {
				adjacent = append(adjacent, s)
			}
		}
		if len(adjacent) > 0 {
			candidates = append(candidates, adjacent)
		}
	}
	if len(candidates) == 0 {
		return check(own)
	}

	best := check(own)
	bestPoints := ticketPoints(best)
	picks := make([]Segment, len(candidates))
	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(candidates) {
			g := own.Clone()
			for _, s := range picks {
				g.AddEdge(s.From, s.To, s.Length)
			}
			if fulfilled := check(g); ticketPoints(fulfilled) > bestPoints {
				best, bestPoints = fulfilled, ticketPoints(fulfilled)
			}
			return
		}
		for _, s := range candidates[depth] {
			picks[depth] = s
			walk(depth + 1)
		}
	}
	walk(0)
	return best
}

func ticketPoints(tickets []Ticket) int {
	total := 0
	for _, t := range tickets {
		total += t.Points
	}
	return total
}

func containsTicket(tickets []Ticket, t Ticket) bool {
	for _, held := range tickets {
		if held == t {
			return true
		}
	}
	return false
}
