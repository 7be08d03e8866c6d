package routing

import (
	"fmt"
	"math"

	"github.com/ttpr0/go-railway/graph"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

type flag_d struct {
	path_length float64
	prev_node   int32
	visited     bool
}

// Dijkstra search over an IGraph.
//
// Vertices with equal tentative distance are expanded in the order in
// which that distance was reached. Since adjacency is iterated in
// insertion order and relaxation only accepts strict improvements, the
// first predecessor found among equal-cost alternatives is kept and
// results are reproducible for a given graph.
type Dijkstra[V comparable, E any] struct {
	heap     PriorityQueue[int32, float64]
	graph    graph.IGraph[V, E]
	cost     CostFunc[E]
	filter   EdgeFilter[E]
	excluded Optional[graph.Edge]
	start_id int32
	flags    []flag_d
}

func NewDijkstra[V comparable, E any](g graph.IGraph[V, E], cost CostFunc[E], filter EdgeFilter[E]) *Dijkstra[V, E] {
	return &Dijkstra[V, E]{
		graph:    g,
		cost:     cost,
		filter:   filter,
		excluded: None[graph.Edge](),
		start_id: -1,
	}
}

// Skips relaxation across the directed edge from -> to.
func (self *Dijkstra[V, E]) ExcludeEdge(from, to V) {
	node_a, ok_a := self.graph.GetNodeID(from)
	node_b, ok_b := self.graph.GetNodeID(to)
	if !ok_a || !ok_b {
		// an edge between unknown vertices can not be traversed anyway
		self.excluded = None[graph.Edge]()
		return
	}
	self.excluded = Some(graph.Edge{NodeA: node_a, NodeB: node_b})
}

func (self *Dijkstra[V, E]) _Init(start int32) {
	flags := make([]flag_d, self.graph.NodeCount())
	for i := 0; i < len(flags); i++ {
		flags[i].path_length = math.Inf(1)
		flags[i].prev_node = -1
	}
	flags[start].path_length = 0
	self.flags = flags
	self.start_id = start

	heap := NewPriorityQueue[int32, float64](100)
	heap.Enqueue(start, 0)
	self.heap = heap
}

// Runs the search from start until end is settled. end = -1 settles all
// reachable nodes.
func (self *Dijkstra[V, E]) _Calc(end int32) error {
	for {
		curr_id, curr_length, ok := self.heap.DequeueWithPriority()
		if !ok {
			return nil
		}
		curr_flag := self.flags[curr_id]
		if curr_flag.visited || curr_length > curr_flag.path_length {
			// stale entry
			continue
		}
		curr_flag.visited = true
		self.flags[curr_id] = curr_flag
		if curr_id == end {
			return nil
		}
		var err error
		self.graph.ForAdjacentEdges(curr_id, func(ref graph.EdgeRef) {
			if err != nil {
				return
			}
			other_id := ref.OtherID
			if self.excluded.HasValue() {
				ex := self.excluded.Value
				if ex.NodeA == curr_id && ex.NodeB == other_id {
					return
				}
			}
			data := self.graph.GetEdgeData(ref.EdgeID)
			if self.filter != nil && !self.filter(data) {
				return
			}
			weight := self.cost(data)
			if weight < 0 || math.IsNaN(weight) {
				err = fmt.Errorf("%w: %v -> %v costs %v", ErrInvalidCost, self.graph.GetVertex(curr_id), self.graph.GetVertex(other_id), weight)
				return
			}
			other_flag := self.flags[other_id]
			if other_flag.visited {
				return
			}
			new_length := curr_flag.path_length + weight
			if new_length < other_flag.path_length {
				other_flag.path_length = new_length
				other_flag.prev_node = curr_id
				self.flags[other_id] = other_flag
				self.heap.Enqueue(other_id, new_length)
			}
		})
		if err != nil {
			return err
		}
	}
}

func (self *Dijkstra[V, E]) _GetPath(end int32) Path[V] {
	length := self.flags[end].path_length
	if math.IsInf(length, 1) {
		return NoPath[V]()
	}
	nodes := NewList[V](10)
	curr_id := end
	for curr_id != -1 {
		nodes.Add(self.graph.GetVertex(curr_id))
		if curr_id == self.start_id {
			break
		}
		curr_id = self.flags[curr_id].prev_node
	}
	for i, j := 0, nodes.Length()-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return Path[V]{
		Vertices: Array[V](nodes),
		Cost:     length,
	}
}

func (self *Dijkstra[V, E]) _NodeID(v V) (int32, error) {
	id, ok := self.graph.GetNodeID(v)
	if !ok {
		return -1, fmt.Errorf("%w: %v", ErrUnknownVertex, v)
	}
	return id, nil
}

// Computes the shortest path from source to target. An unreachable
// target is not an error, the returned path is empty with infinite cost.
func (self *Dijkstra[V, E]) CalcShortestPath(source, target V) (Path[V], error) {
	start, err := self._NodeID(source)
	if err != nil {
		return NoPath[V](), err
	}
	end, err := self._NodeID(target)
	if err != nil {
		return NoPath[V](), err
	}
	self._Init(start)
	if err := self._Calc(end); err != nil {
		return NoPath[V](), err
	}
	path := self._GetPath(end)
	slog.Debug(fmt.Sprintf("shortest path %v -> %v: %v vertices, cost %v", source, target, path.Length(), path.Cost))
	return path, nil
}

// Computes shortest paths from source to every reachable vertex.
func (self *Dijkstra[V, E]) CalcShortestPathTree(source V) (*ShortestPathTree[V, E], error) {
	start, err := self._NodeID(source)
	if err != nil {
		return nil, err
	}
	self._Init(start)
	if err := self._Calc(-1); err != nil {
		return nil, err
	}
	return &ShortestPathTree[V, E]{dijkstra: self}, nil
}

//*******************************************
// shortest path tree
//*******************************************

type ShortestPathTree[V comparable, E any] struct {
	dijkstra *Dijkstra[V, E]
}

// Distance from the source, +Inf for unknown or unreachable vertices.
func (self *ShortestPathTree[V, E]) Distance(v V) float64 {
	id, ok := self.dijkstra.graph.GetNodeID(v)
	if !ok || int(id) >= len(self.dijkstra.flags) {
		return math.Inf(1)
	}
	return self.dijkstra.flags[id].path_length
}

func (self *ShortestPathTree[V, E]) IsReachable(v V) bool {
	return !math.IsInf(self.Distance(v), 1)
}

func (self *ShortestPathTree[V, E]) PathTo(v V) Path[V] {
	id, ok := self.dijkstra.graph.GetNodeID(v)
	if !ok || int(id) >= len(self.dijkstra.flags) {
		return NoPath[V]()
	}
	return self.dijkstra._GetPath(id)
}

//*******************************************
// convenience functions
//*******************************************

func ShortestPath[V comparable, E any](g graph.IGraph[V, E], source, target V, cost CostFunc[E], filter EdgeFilter[E]) (Path[V], error) {
	return NewDijkstra(g, cost, filter).CalcShortestPath(source, target)
}

// Like ShortestPath but never relaxes the directed edge excluded_from -> excluded_to.
func ShortestPathExcludingEdge[V comparable, E any](g graph.IGraph[V, E], source, target V, cost CostFunc[E], excluded_from, excluded_to V) (Path[V], error) {
	d := NewDijkstra(g, cost, nil)
	d.ExcludeEdge(excluded_from, excluded_to)
	return d.CalcShortestPath(source, target)
}

func CalcAllDijkstra[V comparable, E any](g graph.IGraph[V, E], source V, cost CostFunc[E], filter EdgeFilter[E]) (*ShortestPathTree[V, E], error) {
	return NewDijkstra(g, cost, filter).CalcShortestPathTree(source)
}
