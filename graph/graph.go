package graph

import (
	. "github.com/ttpr0/go-railway/util"
)

//*******************************************
// graph interface
//******************************************

// IGraph is a weighted graph over vertices V with edge data E.
//
// Vertices are numbered with dense node ids in the order they were
// registered. Adjacent edges are visited in insertion order.
type IGraph[V comparable, E any] interface {
	NodeCount() int
	EdgeCount() int
	HasVertex(v V) bool
	GetNodeID(v V) (int32, bool)
	GetVertex(node int32) V
	Vertices() Array[V]
	// Outgoing edges of v, empty if v is unknown.
	Neighbors(v V) Dict[V, E]
	GetEdge(from, to V) Optional[E]
	GetEdgeData(edge int32) E
	// Calls callback for every outgoing edge of node.
	ForAdjacentEdges(node int32, callback func(EdgeRef))
	IsDirected() bool
}

//*******************************************
// graph base
//******************************************

type _GraphBase[V comparable, E any] struct {
	vertices  List[V]
	node_ids  Dict[V, int32]
	edges     List[Edge]
	edge_data List[E]
	// outgoing edges per node in insertion order
	adjacency List[List[EdgeRef]]
	// other node -> edge id per node
	edge_index List[Dict[int32, int32]]
}

func _NewGraphBase[V comparable, E any](cap int) _GraphBase[V, E] {
	return _GraphBase[V, E]{
		vertices:   NewList[V](cap),
		node_ids:   NewDict[V, int32](cap),
		edges:      NewList[Edge](cap),
		edge_data:  NewList[E](cap),
		adjacency:  NewList[List[EdgeRef]](cap),
		edge_index: NewList[Dict[int32, int32]](cap),
	}
}

func (self *_GraphBase[V, E]) NodeCount() int {
	return self.vertices.Length()
}
func (self *_GraphBase[V, E]) EdgeCount() int {
	return self.edges.Length()
}
func (self *_GraphBase[V, E]) HasVertex(v V) bool {
	return self.node_ids.ContainsKey(v)
}
func (self *_GraphBase[V, E]) GetNodeID(v V) (int32, bool) {
	id, ok := self.node_ids[v]
	return id, ok
}
func (self *_GraphBase[V, E]) GetVertex(node int32) V {
	return self.vertices[node]
}
func (self *_GraphBase[V, E]) Vertices() Array[V] {
	vertices := NewArray[V](self.vertices.Length())
	copy(vertices, self.vertices)
	return vertices
}
func (self *_GraphBase[V, E]) Neighbors(v V) Dict[V, E] {
	id, ok := self.node_ids[v]
	if !ok {
		return NewDict[V, E](0)
	}
	refs := self.adjacency[id]
	neighbors := NewDict[V, E](refs.Length())
	for _, ref := range refs {
		neighbors[self.vertices[ref.OtherID]] = self.edge_data[ref.EdgeID]
	}
	return neighbors
}
func (self *_GraphBase[V, E]) GetEdge(from, to V) Optional[E] {
	from_id, ok := self.node_ids[from]
	if !ok {
		return None[E]()
	}
	to_id, ok := self.node_ids[to]
	if !ok {
		return None[E]()
	}
	edge_id, ok := self.edge_index[from_id][to_id]
	if !ok {
		return None[E]()
	}
	return Some(self.edge_data[edge_id])
}
func (self *_GraphBase[V, E]) GetEdgeData(edge int32) E {
	return self.edge_data[edge]
}
func (self *_GraphBase[V, E]) ForAdjacentEdges(node int32, callback func(EdgeRef)) {
	for _, ref := range self.adjacency[node] {
		callback(ref)
	}
}

// Registers v if absent and returns its node id.
func (self *_GraphBase[V, E]) AddVertex(v V) int32 {
	if id, ok := self.node_ids[v]; ok {
		return id
	}
	id := int32(self.vertices.Length())
	self.vertices.Add(v)
	self.node_ids[v] = id
	self.adjacency.Add(NewList[EdgeRef](2))
	self.edge_index.Add(NewDict[int32, int32](2))
	return id
}

// Writes the directed entry node_a -> node_b, overwriting existing data.
func (self *_GraphBase[V, E]) _SetEdge(node_a, node_b int32, data E) {
	if edge_id, ok := self.edge_index[node_a][node_b]; ok {
		self.edge_data[edge_id] = data
		return
	}
	edge_id := int32(self.edges.Length())
	self.edges.Add(Edge{NodeA: node_a, NodeB: node_b})
	self.edge_data.Add(data)
	refs := self.adjacency[node_a]
	refs.Add(EdgeRef{EdgeID: edge_id, OtherID: node_b})
	self.adjacency[node_a] = refs
	self.edge_index[node_a][node_b] = edge_id
}

//*******************************************
// directed graph
//******************************************

type DirectedGraph[V comparable, E any] struct {
	_GraphBase[V, E]
}

func NewDirectedGraph[V comparable, E any](cap int) *DirectedGraph[V, E] {
	return &DirectedGraph[V, E]{
		_GraphBase: _NewGraphBase[V, E](cap),
	}
}

func (self *DirectedGraph[V, E]) AddEdge(from, to V, data E) {
	node_a := self.AddVertex(from)
	node_b := self.AddVertex(to)
	self._SetEdge(node_a, node_b, data)
}

func (self *DirectedGraph[V, E]) IsDirected() bool {
	return true
}

//*******************************************
// undirected graph
//******************************************

// UndirectedGraph stores every edge as two directed entries carrying the
// same data.
type UndirectedGraph[V comparable, E any] struct {
	_GraphBase[V, E]
}

func NewUndirectedGraph[V comparable, E any](cap int) *UndirectedGraph[V, E] {
	return &UndirectedGraph[V, E]{
		_GraphBase: _NewGraphBase[V, E](cap),
	}
}

func (self *UndirectedGraph[V, E]) AddEdge(a, b V, data E) {
	node_a := self.AddVertex(a)
	node_b := self.AddVertex(b)
	self._SetEdge(node_a, node_b, data)
	if node_a != node_b {
		self._SetEdge(node_b, node_a, data)
	}
}

func (self *UndirectedGraph[V, E]) IsDirected() bool {
	return false
}
