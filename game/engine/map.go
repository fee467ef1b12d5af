package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"ticketgame/game/graph"
)

// CityID is the stable identifier of a city, unique within one map.
type CityID string

// LatLong is a map coordinate pair.
type LatLong struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// City is an immutable map vertex.
type City struct {
	ID     CityID   `json:"id"`
	LatLng LatLong  `json:"latLng"`
	Names  []string `json:"names,omitempty"`
}

// Segment is a weighted edge between two cities. A nil color means the
// segment can be built with cards of any single color.
type Segment struct {
	From   CityID     `json:"from"`
	To     CityID     `json:"to"`
	Color  *CardColor `json:"color,omitempty"`
	Length int        `json:"length"`
}

// ConnectsSameCities reports whether two segments join the same city pair,
// in either orientation.
func (s Segment) ConnectsSameCities(other Segment) bool {
	return (s.From == other.From && s.To == other.To) ||
		(s.From == other.To && s.To == other.From)
}

// Adjacent reports whether the segment touches the given city.
func (s Segment) Adjacent(city CityID) bool {
	return s.From == city || s.To == city
}

// pointsForSegments maps a segment length to the points it scores.
var pointsForSegments = map[int]int{1: 1, 2: 2, 3: 4, 4: 7, 5: 12, 6: 15, 7: 18, 8: 21}

// Map is the immutable game board: the city graph, the derived ticket
// catalog and the scoring constants. Built once per game; never mutated
// by the rules engine.
type Map struct {
	Name     string    `json:"name"`
	Cities   []City    `json:"cities"`
	Segments []Segment `json:"segments"`

	MapCenter LatLong `json:"mapCenter"`
	MapZoom   int     `json:"mapZoom"`

	PointsForLongestRoute   int    `json:"pointsForLongestRoute"`
	LongTicketMinPoints     int    `json:"longTicketMinPoints"`
	ShortTicketsPointsRange [2]int `json:"shortTicketsPointsRange"`

	citiesByID   map[CityID]City
	longTickets  []Ticket
	shortTickets []Ticket
	totalLength  int
}

// Init computes the derived catalog data. Must be called once after the
// raw map fields are populated and before the map is used in a game.
func (m *Map) Init() error {
	if m.PointsForLongestRoute == 0 {
		m.PointsForLongestRoute = 10
	}

	m.citiesByID = make(map[CityID]City, len(m.Cities))
	for _, c := range m.Cities {
		if _, dup := m.citiesByID[c.ID]; dup {
			return fmt.Errorf("duplicate city %q", c.ID)
		}
		m.citiesByID[c.ID] = c
	}
	m.totalLength = 0
	for _, s := range m.Segments {
		if _, ok := m.citiesByID[s.From]; !ok {
			return fmt.Errorf("segment references unknown city %q", s.From)
		}
		if _, ok := m.citiesByID[s.To]; !ok {
			return fmt.Errorf("segment references unknown city %q", s.To)
		}
		if _, ok := pointsForSegments[s.Length]; !ok {
			return fmt.Errorf("segment %s - %s has unsupported length %d", s.From, s.To, s.Length)
		}
		m.totalLength += s.Length
	}

	m.deriveTickets()
	return nil
}

// deriveTickets builds the ticket catalog: one candidate per non-adjacent
// city pair, valued at the shortest distance between them, partitioned
// into long and short tickets by point thresholds.
func (m *Map) deriveTickets() {
	g := make(graph.Graph[CityID], len(m.Cities))
	for _, c := range m.Cities {
		g[c.ID] = nil
	}
	for _, s := range m.Segments {
		g.AddEdge(s.From, s.To, s.Length)
	}
	d := graph.NewDistances(g)

	adjacent := make(map[[2]CityID]bool, len(m.Segments))
	for _, s := range m.Segments {
		adjacent[[2]CityID{s.From, s.To}] = true
		adjacent[[2]CityID{s.To, s.From}] = true
	}

	var tickets []Ticket
	for i, from := range m.Cities {
		for _, to := range m.Cities[i+1:] {
			if adjacent[[2]CityID{from.ID, to.ID}] {
				continue
			}
			if dist := d.Dist(from.ID, to.ID); dist != graph.Inf {
				tickets = append(tickets, Ticket{From: from.ID, To: to.ID, Points: dist})
			}
		}
	}
	sort.SliceStable(tickets, func(i, j int) bool { return tickets[i].Points > tickets[j].Points })

	m.longTickets = nil
	m.shortTickets = nil
	for _, t := range tickets {
		switch {
		case t.Points >= m.LongTicketMinPoints:
			m.longTickets = append(m.longTickets, t)
		case t.Points >= m.ShortTicketsPointsRange[0] && t.Points <= m.ShortTicketsPointsRange[1]:
			m.shortTickets = append(m.shortTickets, t)
		}
	}
}

// AssignColors colors every uncolored segment of length <= 4, spreading
// colors evenly across the board and avoiding repeating a color on
// segments that share a city. Longer segments stay uncolored (buildable
// with any single color).
func (m *Map) AssignColors(rng *rand.Rand) {
	byCity := make(map[CityID][]int)
	colorable := 0
	for i, s := range m.Segments {
		byCity[s.From] = append(byCity[s.From], i)
		byCity[s.To] = append(byCity[s.To], i)
		if s.Color == nil && s.Length <= 4 {
			colorable += s.Length
		}
	}
	perColor := (colorable + len(CardColors) - 1) / len(CardColors)
	used := make(map[CardColor]int, len(CardColors))

	order := make([]int, 0, len(m.Segments))
	for i := range m.Segments {
		if m.Segments[i].Color == nil && m.Segments[i].Length <= 4 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.Segments[order[a]].Length > m.Segments[order[b]].Length
	})

	for _, i := range order {
		s := m.Segments[i]
		taken := make(map[CardColor]bool)
		for _, city := range []CityID{s.From, s.To} {
			for _, j := range byCity[city] {
				if c := m.Segments[j].Color; c != nil {
					taken[*c] = true
				}
			}
		}
		var available []CardColor
		for _, color := range CardColors {
			if !taken[color] && used[color]+s.Length <= perColor {
				available = append(available, color)
			}
		}
		var next CardColor
		if len(available) > 0 {
			next = available[rng.Intn(len(available))]
		} else {
			next = CardColors[rng.Intn(len(CardColors))]
		}
		color := next
		m.Segments[i].Color = &color
		used[color] += s.Length
	}
}

// ColoredCopy returns a copy of the map with freshly assigned segment
// colors. The receiver stays untouched so a catalog map can seed any
// number of games.
func (m *Map) ColoredCopy(rng *rand.Rand) *Map {
	out := *m
	out.Segments = append([]Segment(nil), m.Segments...)
	out.AssignColors(rng)
	return &out
}

// LongTickets returns the high-value ticket catalog.
func (m *Map) LongTickets() []Ticket { return m.longTickets }

// ShortTickets returns the regular ticket catalog.
func (m *Map) ShortTickets() []Ticket { return m.shortTickets }

// TotalSegmentsLength is the summed length of every segment on the map.
func (m *Map) TotalSegmentsLength() int { return m.totalLength }

// City resolves a city by id.
func (m *Map) City(id CityID) (City, bool) {
	c, ok := m.citiesByID[id]
	return c, ok
}

// SegmentBetween finds the map segment joining two cities, if any.
func (m *Map) SegmentBetween(from, to CityID) (Segment, bool) {
	probe := Segment{From: from, To: to}
	for _, s := range m.Segments {
		if s.ConnectsSameCities(probe) {
			return s, true
		}
	}
	return Segment{}, false
}

// SegmentExists reports whether the given segment (same cities, same
// color, same length) is part of the map.
func (m *Map) SegmentExists(seg Segment) bool {
	for _, s := range m.Segments {
		if !s.ConnectsSameCities(seg) || s.Length != seg.Length {
			continue
		}
		if (s.Color == nil) != (seg.Color == nil) {
			continue
		}
		if s.Color == nil || *s.Color == *seg.Color {
			return true
		}
	}
	return false
}

// PointsForSegments returns the points scored for occupying a segment of
// the given length. Panics on lengths Init has already ruled out.
func (m *Map) PointsForSegments(length int) int {
	points, ok := pointsForSegments[length]
	if !ok {
		panic(fmt.Sprintf("engine: points for %d-length segments not defined", length))
	}
	return points
}
