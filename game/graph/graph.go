// Package graph provides the weighted undirected graph operations behind
// route scoring: all-pairs shortest paths, connected components and the
// maximum-weight Eulerian subgraph search.
package graph

import (
	"fmt"
	"math"
	"sort"
)

// Inf marks an unreachable vertex pair in a Distances matrix.
const Inf = math.MaxInt

// Edge is a single adjacency entry. Every undirected edge is stored twice,
// once per endpoint.
type Edge[V comparable] struct {
	To     V
	Weight int
}

// Graph is an adjacency map keyed by vertex.
type Graph[V comparable] map[V][]Edge[V]

// Segment is one undirected edge of a path, direction-agnostic.
type Segment[V comparable] struct {
	From   V
	To     V
	Weight int
}

// Covers reports whether the segment connects a and b in either direction.
func (s Segment[V]) Covers(a, b V) bool {
	return (s.From == a && s.To == b) || (s.From == b && s.To == a)
}

// AddEdge inserts an undirected edge in place.
func (g Graph[V]) AddEdge(a, b V, weight int) {
	g[a] = append(g[a], Edge[V]{To: b, Weight: weight})
	g[b] = append(g[b], Edge[V]{To: a, Weight: weight})
}

// WithEdge returns a copy of the graph with one extra undirected edge.
// The receiver is left untouched, which keeps the combinatorial searches
// over augmented graphs independent of each other.
func (g Graph[V]) WithEdge(a, b V, weight int) Graph[V] {
	out := g.Clone()
	out.AddEdge(a, b, weight)
	return out
}

// Clone deep-copies the adjacency map.
func (g Graph[V]) Clone() Graph[V] {
	out := make(Graph[V], len(g))
	for v, edges := range g {
		out[v] = append([]Edge[V](nil), edges...)
	}
	return out
}

// Degree returns the number of edges incident to v.
// Panics if v is not part of the graph: callers only ever query vertices
// they put there, so a miss is a programming error, not a user mistake.
func (g Graph[V]) Degree(v V) int {
	edges, ok := g[v]
	if !ok {
		panic(fmt.Sprintf("graph: vertex %v not found", v))
	}
	return len(edges)
}

// TotalWeight sums all edge weights, counting each undirected edge once.
func (g Graph[V]) TotalWeight() int {
	total := 0
	for _, edges := range g {
		for _, e := range edges {
			total += e.Weight
		}
	}
	return total / 2
}

// firstComponent expands a BFS frontier from an arbitrary vertex and
// returns the connected subgraph it reaches.
func (g Graph[V]) firstComponent() Graph[V] {
	out := make(Graph[V])
	for start := range g {
		queue := []V{start}
		for len(queue) > 0 {
			v := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if _, seen := out[v]; seen {
				continue
			}
			edges := g[v]
			out[v] = edges
			for _, e := range edges {
				if _, seen := out[e.To]; !seen {
					queue = append(queue, e.To)
				}
			}
		}
		break
	}
	return out
}

// IsConnected reports whether every vertex is reachable from every other.
// The empty graph counts as connected.
func (g Graph[V]) IsConnected() bool {
	return len(g.firstComponent()) == len(g)
}

// SplitConnected partitions the graph into its maximal connected subgraphs.
func (g Graph[V]) SplitConnected() []Graph[V] {
	var out []Graph[V]
	rest := g
	for len(rest) > 0 {
		comp := rest.firstComponent()
		out = append(out, comp)
		remaining := make(Graph[V], len(rest)-len(comp))
		for v, edges := range rest {
			if _, in := comp[v]; !in {
				remaining[v] = edges
			}
		}
		rest = remaining
	}
	return out
}

// IsEulerian reports whether the graph admits an Eulerian trail: at most
// two vertices of odd degree.
func (g Graph[V]) IsEulerian() bool {
	odd := 0
	for _, edges := range g {
		if len(edges)%2 == 1 {
			odd++
		}
	}
	return odd == 0 || odd == 2
}

// RemovePath deletes the edges of the shortest path between from and to.
// Vertices left without edges are dropped from the graph entirely.
func (g Graph[V]) RemovePath(from, to V, d *Distances[V]) Graph[V] {
	path := d.Path(from, to)
	out := make(Graph[V], len(g))
	for v, edges := range g {
		kept := make([]Edge[V], 0, len(edges))
		for _, e := range edges {
			covered := false
			for _, s := range path {
				if s.Covers(v, e.To) {
					covered = true
					break
				}
			}
			if !covered {
				kept = append(kept, e)
			}
		}
		if len(kept) > 0 {
			out[v] = kept
		}
	}
	return out
}

// MaxEulerianSubgraph finds the maximum-total-weight connected subgraph
// that admits an Eulerian trail. Non-Eulerian graphs are reduced by
// removing the shortest path between some pair of odd-degree vertices,
// trying the cheapest removals first and keeping the first one that leaves
// the graph connected, then recursing.
//
// The search is exponential in the number of odd vertices in the worst
// case, which stays small at game scale.
func (g Graph[V]) MaxEulerianSubgraph() Graph[V] {
	if g.IsEulerian() {
		return g
	}

	d := NewDistances(g)
	var odd []V
	for v, edges := range g {
		if len(edges)%2 == 1 {
			odd = append(odd, v)
		}
	}

	var candidates []Segment[V]
	for _, a := range odd {
		for _, b := range odd {
			if a != b {
				candidates = append(candidates, Segment[V]{From: a, To: b, Weight: d.Dist(a, b)})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weight < candidates[j].Weight
	})

	for _, c := range candidates {
		if c.Weight == Inf {
			continue
		}
		sub := g.RemovePath(c.From, c.To, d)
		if sub.IsConnected() {
			return sub.MaxEulerianSubgraph()
		}
	}
	panic("graph: no connected Eulerian reduction found")
}
