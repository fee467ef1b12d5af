package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond is a connected graph with two odd-degree vertices (b and c):
//
//	a - b - d
//	 \  |  /
//	    c
func diamond() Graph[string] {
	g := make(Graph[string])
	g.AddEdge("a", "b", 1)
	g.AddEdge("a", "c", 2)
	g.AddEdge("b", "c", 3)
	g.AddEdge("b", "d", 4)
	g.AddEdge("c", "d", 5)
	return g
}

func twoIslands() Graph[string] {
	g := make(Graph[string])
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 2)
	g.AddEdge("x", "y", 3)
	return g
}

func TestDistances(t *testing.T) {
	g := diamond()
	d := NewDistances(g)

	assert.Equal(t, 0, d.Dist("a", "a"))
	assert.Equal(t, 1, d.Dist("a", "b"))
	assert.Equal(t, 2, d.Dist("a", "c"))
	// a-b-d beats a-c-d and the direct b-c edge never helps
	assert.Equal(t, 5, d.Dist("a", "d"))
	assert.Equal(t, d.Dist("d", "a"), d.Dist("a", "d"))
}

func TestDistancesUnreachable(t *testing.T) {
	g := twoIslands()
	d := NewDistances(g)

	assert.Equal(t, Inf, d.Dist("a", "x"))
	assert.Nil(t, d.Path("a", "x"))
}

func TestPathShape(t *testing.T) {
	g := diamond()
	d := NewDistances(g)

	for _, pair := range [][2]string{{"a", "d"}, {"d", "a"}, {"a", "c"}, {"b", "c"}} {
		from, to := pair[0], pair[1]
		path := d.Path(from, to)
		require.NotEmpty(t, path, "%s->%s", from, to)

		assert.Equal(t, from, path[0].From)
		assert.Equal(t, to, path[len(path)-1].To)

		seen := map[string]bool{from: true}
		total := 0
		for i, s := range path {
			if i > 0 {
				assert.Equal(t, path[i-1].To, s.From, "consecutive segments must connect")
			}
			assert.False(t, seen[s.To], "path must not repeat a vertex")
			seen[s.To] = true
			total += s.Weight
		}
		assert.Equal(t, d.Dist(from, to), total)
	}
}

func TestRemovePath(t *testing.T) {
	g := diamond()
	d := NewDistances(g)

	degB, degC := g.Degree("b"), g.Degree("c")
	sub := g.RemovePath("b", "c", d)

	assert.LessOrEqual(t, len(sub), len(g))
	assert.Equal(t, degB-1, sub.Degree("b"))
	assert.Equal(t, degC-1, sub.Degree("c"))
	assert.Less(t, sub.TotalWeight(), g.TotalWeight())
}

func TestRemovePathDropsIsolatedVertices(t *testing.T) {
	g := make(Graph[string])
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 2)
	d := NewDistances(g)

	sub := g.RemovePath("a", "b", d)

	_, hasA := sub["a"]
	assert.False(t, hasA, "degree-one endpoint must be dropped with its edge")
	for v := range sub {
		assert.NotEmpty(t, sub[v])
	}
}

func TestSplitConnected(t *testing.T) {
	comps := twoIslands().SplitConnected()

	require.Len(t, comps, 2)
	total := 0
	for _, c := range comps {
		assert.True(t, c.IsConnected())
		total += len(c)
	}
	assert.Equal(t, 5, total)
	assert.Empty(t, Graph[string]{}.SplitConnected())
}

func TestIsEulerian(t *testing.T) {
	triangle := make(Graph[string])
	triangle.AddEdge("a", "b", 1)
	triangle.AddEdge("b", "c", 1)
	triangle.AddEdge("c", "a", 1)
	assert.True(t, triangle.IsEulerian(), "cycle has all even degrees")

	line := make(Graph[string])
	line.AddEdge("a", "b", 1)
	line.AddEdge("b", "c", 1)
	assert.True(t, line.IsEulerian(), "two odd vertices still admit a trail")

	star := make(Graph[string])
	star.AddEdge("m", "a", 1)
	star.AddEdge("m", "b", 1)
	star.AddEdge("m", "c", 1)
	assert.False(t, star.IsEulerian())
}

func TestMaxEulerianSubgraphAlreadyEulerian(t *testing.T) {
	line := make(Graph[string])
	line.AddEdge("a", "b", 3)
	line.AddEdge("b", "c", 4)

	sub := line.MaxEulerianSubgraph()
	assert.Equal(t, 7, sub.TotalWeight())
}

func TestMaxEulerianSubgraph(t *testing.T) {
	// Square with both diagonals: every vertex has degree 3. Dropping the
	// cheapest diagonal leaves two odd vertices, which is enough for a trail.
	g := make(Graph[string])
	g.AddEdge("a", "b", 5)
	g.AddEdge("b", "c", 5)
	g.AddEdge("c", "d", 5)
	g.AddEdge("d", "a", 5)
	g.AddEdge("a", "c", 1)
	g.AddEdge("b", "d", 2)

	sub := g.MaxEulerianSubgraph()

	assert.True(t, sub.IsEulerian())
	assert.True(t, sub.IsConnected())
	assert.Equal(t, 22, sub.TotalWeight())
}

func TestMaxEulerianSubgraphStar(t *testing.T) {
	// A star can only keep a single trail through the hub.
	star := make(Graph[string])
	star.AddEdge("m", "a", 2)
	star.AddEdge("m", "b", 3)
	star.AddEdge("m", "c", 4)

	sub := star.MaxEulerianSubgraph()

	assert.True(t, sub.IsEulerian())
	assert.Equal(t, 7, sub.TotalWeight(), "the cheapest spoke is sacrificed")
}

func TestWithEdgeLeavesOriginalUntouched(t *testing.T) {
	g := make(Graph[string])
	g.AddEdge("a", "b", 1)

	aug := g.WithEdge("b", "c", 2)

	assert.Equal(t, 1, g.TotalWeight())
	assert.Equal(t, 3, aug.TotalWeight())
	assert.Equal(t, 2, aug.Degree("b"))
	assert.Equal(t, 1, g.Degree("b"))
}

func TestTotalWeightCountsEachEdgeOnce(t *testing.T) {
	assert.Equal(t, 15, diamond().TotalWeight())
}
