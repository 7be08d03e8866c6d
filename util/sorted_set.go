package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

//*******************************************
// sorted set
//*******************************************

// Ordered set of unique values kept sorted ascending.
type SortedSet[T constraints.Ordered] struct {
	values List[T]
}

func NewSortedSet[T constraints.Ordered](cap int) SortedSet[T] {
	return SortedSet[T]{
		values: NewList[T](cap),
	}
}

// Inserts value, returns false if it was already contained.
func (self *SortedSet[T]) Insert(value T) bool {
	index, found := slices.BinarySearch(self.values, value)
	if found {
		return false
	}
	self.values = slices.Insert(self.values, index, value)
	return true
}

func (self *SortedSet[T]) Contains(value T) bool {
	_, found := slices.BinarySearch(self.values, value)
	return found
}

// Smallest element greater than or equal to value.
func (self *SortedSet[T]) Ceiling(value T) Optional[T] {
	index, _ := slices.BinarySearch(self.values, value)
	if index >= self.values.Length() {
		return None[T]()
	}
	return Some(self.values[index])
}

// Smallest element strictly greater than value.
func (self *SortedSet[T]) Higher(value T) Optional[T] {
	index, found := slices.BinarySearch(self.values, value)
	if found {
		index += 1
	}
	if index >= self.values.Length() {
		return None[T]()
	}
	return Some(self.values[index])
}

func (self *SortedSet[T]) Length() int {
	return self.values.Length()
}

// Returns a copy of the values in ascending order.
func (self *SortedSet[T]) Values() Array[T] {
	return Array[T](slices.Clone(self.values))
}
