// Package validate checks game maps for structural problems before they
// are offered to players. It verifies:
//   - basic shape: a name, at least two cities, unique city ids
//   - segment sanity: known endpoints, supported lengths, no self loops
//   - connectivity: every city reachable from every other
//   - ticket catalog: enough long and short tickets to seat a full game
package validate

import (
	"fmt"

	"ticketgame/game/engine"
	"ticketgame/game/graph"
)

// Result captures the outcome of validating a single map. When Valid is
// false, Errors lists everything that was found wrong.
type Result struct {
	Name   string
	Valid  bool
	Errors []string
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Map validates an initialized map.
func Map(m *engine.Map) Result {
	r := Result{Name: m.Name, Valid: true}

	if m.Name == "" {
		r.fail("map has no name")
	}
	if len(m.Cities) < 2 {
		r.fail("map needs at least two cities, has %d", len(m.Cities))
	}

	cities := make(map[engine.CityID]bool, len(m.Cities))
	for _, c := range m.Cities {
		if c.ID == "" {
			r.fail("city with empty id")
			continue
		}
		if cities[c.ID] {
			r.fail("duplicate city %q", c.ID)
		}
		cities[c.ID] = true
	}

	seen := make(map[[2]engine.CityID]bool, len(m.Segments))
	for _, s := range m.Segments {
		if s.From == s.To {
			r.fail("segment %s - %s is a self loop", s.From, s.To)
		}
		if !cities[s.From] {
			r.fail("segment references unknown city %q", s.From)
		}
		if !cities[s.To] {
			r.fail("segment references unknown city %q", s.To)
		}
		if s.Length < 1 || s.Length > 8 {
			r.fail("segment %s - %s has unsupported length %d", s.From, s.To, s.Length)
		}
		key := [2]engine.CityID{s.From, s.To}
		if s.To < s.From {
			key = [2]engine.CityID{s.To, s.From}
		}
		if seen[key] {
			r.fail("duplicate segment %s - %s", s.From, s.To)
		}
		seen[key] = true
	}

	if r.Valid {
		g := make(graph.Graph[engine.CityID], len(m.Cities))
		for _, c := range m.Cities {
			g[c.ID] = nil
		}
		for _, s := range m.Segments {
			g.AddEdge(s.From, s.To, s.Length)
		}
		if !g.IsConnected() {
			r.fail("map is not connected, some cities are unreachable")
		}
	}

	if m.LongTicketMinPoints <= 0 {
		r.fail("longTicketMinPoints must be positive, got %d", m.LongTicketMinPoints)
	}
	if m.ShortTicketsPointsRange[0] > m.ShortTicketsPointsRange[1] {
		r.fail("shortTicketsPointsRange is empty: [%d, %d]",
			m.ShortTicketsPointsRange[0], m.ShortTicketsPointsRange[1])
	}

	seats := len(engine.PlayerColors)
	if long := len(m.LongTickets()); long < seats {
		r.fail("map has %d long tickets, a full game needs %d", long, seats)
	}
	if short := len(m.ShortTickets()); short < 3*seats {
		r.fail("map has %d short tickets, a full game needs %d", short, 3*seats)
	}

	return r
}
