package routing

import (
	"errors"
	"math"

	. "github.com/ttpr0/go-railway/util"
)

var (
	ErrUnknownVertex = errors.New("unknown vertex")
	ErrInvalidCost   = errors.New("negative edge cost")
)

// Maps edge data to a non-negative cost.
type CostFunc[E any] func(E) float64

// Reports whether an edge may be relaxed. A nil filter allows every edge.
type EdgeFilter[E any] func(E) bool

// Path is the result of a shortest path search. A path that was not
// found has no vertices and an infinite cost.
type Path[V comparable] struct {
	Vertices Array[V]
	Cost     float64
}

func NoPath[V comparable]() Path[V] {
	return Path[V]{
		Vertices: NewArray[V](0),
		Cost:     math.Inf(1),
	}
}

func (self Path[V]) Found() bool {
	return self.Vertices.Length() > 0
}

// Number of vertices on the path.
func (self Path[V]) Length() int {
	return self.Vertices.Length()
}

// Reports whether the path contains the directed step from -> to.
func (self Path[V]) ContainsStep(from, to V) bool {
	for i := 0; i+1 < self.Vertices.Length(); i++ {
		if self.Vertices[i] == from && self.Vertices[i+1] == to {
			return true
		}
	}
	return false
}
