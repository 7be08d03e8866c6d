package routing

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ttpr0/go-railway/graph"
)

type rail struct {
	distance float64
	price    float64
	time     float64
}

func byTime(r rail) float64     { return r.time }
func byDistance(r rail) float64 { return r.distance }

func scenarioGraph() *graph.UndirectedGraph[string, rail] {
	g := graph.NewUndirectedGraph[string, rail](3)
	g.AddEdge("A", "B", rail{10, 5, 10})
	g.AddEdge("B", "C", rail{10, 5, 10})
	return g
}

func TestShortestPathScenario(t *testing.T) {
	g := scenarioGraph()
	path, err := ShortestPath[string, rail](g, "A", "C", byTime, nil)
	if err != nil {
		t.Fatal(err)
	}
	if path.Cost != 20 {
		t.Errorf("Cost = %v; want 20", path.Cost)
	}
	if path.Length() != 3 || path.Vertices[0] != "A" || path.Vertices[1] != "B" || path.Vertices[2] != "C" {
		t.Errorf("Vertices = %v; want [A B C]", path.Vertices)
	}
}

func TestShortestPathSourceIsTarget(t *testing.T) {
	g := scenarioGraph()
	path, err := ShortestPath[string, rail](g, "B", "B", byTime, nil)
	if err != nil {
		t.Fatal(err)
	}
	if path.Cost != 0 || path.Length() != 1 {
		t.Errorf("path = %v; want [B] with cost 0", path)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := scenarioGraph()
	g.AddVertex("D")
	path, err := ShortestPath[string, rail](g, "A", "D", byTime, nil)
	if err != nil {
		t.Fatalf("unreachable target must not be an error: %v", err)
	}
	if path.Found() || !math.IsInf(path.Cost, 1) {
		t.Errorf("path = %v; want empty path with infinite cost", path)
	}
}

func TestShortestPathUnknownVertex(t *testing.T) {
	g := scenarioGraph()
	if _, err := ShortestPath[string, rail](g, "X", "C", byTime, nil); !errors.Is(err, ErrUnknownVertex) {
		t.Errorf("unknown source error = %v; want ErrUnknownVertex", err)
	}
	if _, err := ShortestPath[string, rail](g, "A", "X", byTime, nil); !errors.Is(err, ErrUnknownVertex) {
		t.Errorf("unknown target error = %v; want ErrUnknownVertex", err)
	}
}

func TestShortestPathNegativeCost(t *testing.T) {
	g := graph.NewDirectedGraph[string, rail](3)
	g.AddEdge("A", "B", rail{time: -1})
	_, err := ShortestPath[string, rail](g, "A", "B", byTime, nil)
	if !errors.Is(err, ErrInvalidCost) {
		t.Errorf("error = %v; want ErrInvalidCost", err)
	}
}

func TestShortestPathFilter(t *testing.T) {
	g := graph.NewDirectedGraph[string, rail](4)
	g.AddEdge("A", "B", rail{time: 1, price: 100})
	g.AddEdge("B", "C", rail{time: 1, price: 100})
	g.AddEdge("A", "C", rail{time: 5, price: 1})

	cheap := func(r rail) bool { return r.price < 50 }
	path, err := ShortestPath[string, rail](g, "A", "C", byTime, cheap)
	if err != nil {
		t.Fatal(err)
	}
	if path.Cost != 5 || path.Length() != 2 {
		t.Errorf("path = %v; want direct A -> C with cost 5", path)
	}
}

func TestShortestPathPrefersCheaperDetour(t *testing.T) {
	g := graph.NewUndirectedGraph[string, rail](4)
	g.AddEdge("A", "C", rail{distance: 50})
	g.AddEdge("A", "B", rail{distance: 10})
	g.AddEdge("B", "C", rail{distance: 10})
	path, err := ShortestPath[string, rail](g, "A", "C", byDistance, nil)
	if err != nil {
		t.Fatal(err)
	}
	if path.Cost != 20 || !path.ContainsStep("A", "B") {
		t.Errorf("path = %v; want A -> B -> C", path)
	}
}

func TestShortestPathExcludingEdge(t *testing.T) {
	g := graph.NewUndirectedGraph[string, rail](4)
	g.AddEdge("A", "B", rail{distance: 10})
	g.AddEdge("A", "D", rail{distance: 20})
	g.AddEdge("D", "B", rail{distance: 20})

	path, err := ShortestPathExcludingEdge[string, rail](g, "A", "B", byDistance, "A", "B")
	if err != nil {
		t.Fatal(err)
	}
	if path.ContainsStep("A", "B") {
		t.Errorf("path %v uses excluded step A -> B", path.Vertices)
	}
	if path.Cost != 40 || path.Length() != 3 {
		t.Errorf("path = %v; want A -> D -> B with cost 40", path)
	}

	// only the named direction is excluded
	back, err := ShortestPathExcludingEdge[string, rail](g, "B", "A", byDistance, "A", "B")
	if err != nil {
		t.Fatal(err)
	}
	if back.Cost != 10 {
		t.Errorf("B -> A cost = %v; want 10", back.Cost)
	}
}

func TestShortestPathExcludingOnlyEdge(t *testing.T) {
	g := graph.NewUndirectedGraph[string, rail](2)
	g.AddEdge("A", "B", rail{distance: 10})
	path, err := ShortestPathExcludingEdge[string, rail](g, "A", "B", byDistance, "A", "B")
	if err != nil {
		t.Fatal(err)
	}
	if path.Found() || !math.IsInf(path.Cost, 1) {
		t.Errorf("path = %v; want no path", path)
	}
}

func TestShortestPathTieBreakIsDeterministic(t *testing.T) {
	build := func() *graph.DirectedGraph[string, rail] {
		g := graph.NewDirectedGraph[string, rail](4)
		g.AddEdge("S", "X", rail{time: 1})
		g.AddEdge("S", "Y", rail{time: 1})
		g.AddEdge("X", "T", rail{time: 1})
		g.AddEdge("Y", "T", rail{time: 1})
		return g
	}
	for i := 0; i < 20; i++ {
		path, err := ShortestPath[string, rail](build(), "S", "T", byTime, nil)
		if err != nil {
			t.Fatal(err)
		}
		if path.Vertices[1] != "X" {
			t.Fatalf("run %v: path = %v; want via X", i, path.Vertices)
		}
	}
}

func TestShortestPathTreeDistances(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	g := graph.NewDirectedGraph[string, rail](len(names))
	for _, n := range names {
		g.AddVertex(n)
	}
	for i := 0; i < 24; i++ {
		from := names[rng.Intn(len(names))]
		to := names[rng.Intn(len(names))]
		g.AddEdge(from, to, rail{time: float64(rng.Intn(20))})
	}

	tree, err := CalcAllDijkstra[string, rail](g, "a", byTime, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Distance("a") != 0 {
		t.Errorf("Distance(source) = %v; want 0", tree.Distance("a"))
	}
	for _, v := range g.Vertices() {
		if v == "a" || !tree.IsReachable(v) {
			continue
		}
		// dist(v) is the minimum over incoming edges of dist(u) + cost(u, v)
		best := math.Inf(1)
		for _, u := range g.Vertices() {
			e := g.GetEdge(u, v)
			if !e.HasValue() {
				continue
			}
			if d := tree.Distance(u) + e.Value.time; d < best {
				best = d
			}
		}
		if tree.Distance(v) != best {
			t.Errorf("Distance(%v) = %v; want %v", v, tree.Distance(v), best)
		}
		path := tree.PathTo(v)
		if path.Cost != tree.Distance(v) || path.Vertices[0] != "a" || path.Vertices[path.Length()-1] != v {
			t.Errorf("PathTo(%v) = %v", v, path)
		}
	}
	if tree.Distance("unknown") != math.Inf(1) {
		t.Errorf("Distance(unknown) should be infinite")
	}
}
