package graph

import "fmt"

// Distances holds all-pairs shortest distances and next-hop links for one
// graph, computed once by successive intermediate-vertex relaxation over a
// dense matrix.
type Distances[V comparable] struct {
	vertices []V
	index    map[V]int
	dist     [][]int
	next     [][]int
}

// NewDistances computes the full distance matrix for g.
func NewDistances[V comparable](g Graph[V]) *Distances[V] {
	n := len(g)
	d := &Distances[V]{
		vertices: make([]V, 0, n),
		index:    make(map[V]int, n),
		dist:     make([][]int, n),
		next:     make([][]int, n),
	}
	for v := range g {
		d.index[v] = len(d.vertices)
		d.vertices = append(d.vertices, v)
	}
	for i := range d.dist {
		d.dist[i] = make([]int, n)
		d.next[i] = make([]int, n)
		for j := range d.dist[i] {
			d.dist[i][j] = Inf
			d.next[i][j] = -1
		}
		d.dist[i][i] = 0
		d.next[i][i] = i
	}

	for v, edges := range g {
		i := d.index[v]
		for _, e := range edges {
			j := d.index[e.To]
			if e.Weight < d.dist[i][j] {
				d.dist[i][j] = e.Weight
				d.dist[j][i] = e.Weight
				d.next[i][j] = j
				d.next[j][i] = i
			}
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if d.dist[i][k] == Inf {
				continue
			}
			for j := 0; j < n; j++ {
				if d.dist[k][j] == Inf {
					continue
				}
				if through := d.dist[i][k] + d.dist[k][j]; through < d.dist[i][j] {
					d.dist[i][j] = through
					d.next[i][j] = d.next[i][k]
				}
			}
		}
	}
	return d
}

func (d *Distances[V]) indexOf(v V) int {
	i, ok := d.index[v]
	if !ok {
		panic(fmt.Sprintf("graph: vertex %v not found in distance matrix", v))
	}
	return i
}

// Dist returns the shortest distance between a and b, or Inf when b is
// unreachable from a.
func (d *Distances[V]) Dist(a, b V) int {
	return d.dist[d.indexOf(a)][d.indexOf(b)]
}

// Path reconstructs the shortest path from a to b by following next-hop
// links. Returns nil when b is unreachable from a.
func (d *Distances[V]) Path(a, b V) []Segment[V] {
	from, to := d.indexOf(a), d.indexOf(b)
	if d.next[from][to] == -1 {
		return nil
	}
	var path []Segment[V]
	for k := from; k != to; {
		n := d.next[k][to]
		path = append(path, Segment[V]{
			From:   d.vertices[k],
			To:     d.vertices[n],
			Weight: d.dist[k][n],
		})
		k = n
	}
	return path
}
