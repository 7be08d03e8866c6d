package util

import (
	"golang.org/x/exp/constraints"
)

//*******************************************
// priority queue
//*******************************************

type _PQEntry[T any, P constraints.Ordered] struct {
	item     T
	priority P
	seq      int64
}

// Binary min-heap. Entries with equal priority are dequeued in the order
// they were enqueued.
//
// There is no decrease-key, callers enqueue the item again with the new
// priority and skip stale entries on dequeue.
type PriorityQueue[T any, P constraints.Ordered] struct {
	entries List[_PQEntry[T, P]]
	seq     int64
}

func NewPriorityQueue[T any, P constraints.Ordered](cap int) PriorityQueue[T, P] {
	return PriorityQueue[T, P]{
		entries: NewList[_PQEntry[T, P]](cap),
	}
}

func (self *PriorityQueue[T, P]) Enqueue(item T, priority P) {
	self.entries.Add(_PQEntry[T, P]{item: item, priority: priority, seq: self.seq})
	self.seq += 1
	self._up(self.entries.Length() - 1)
}

func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	item, _, ok := self.DequeueWithPriority()
	return item, ok
}

func (self *PriorityQueue[T, P]) DequeueWithPriority() (T, P, bool) {
	n := self.entries.Length()
	if n == 0 {
		var item T
		var prio P
		return item, prio, false
	}
	top := self.entries[0]
	self.entries[0] = self.entries[n-1]
	self.entries = self.entries[:n-1]
	if n > 1 {
		self._down(0)
	}
	return top.item, top.priority, true
}

func (self *PriorityQueue[T, P]) Length() int {
	return self.entries.Length()
}

func (self *PriorityQueue[T, P]) _less(i, j int) bool {
	a := self.entries[i]
	b := self.entries[j]
	if a.priority == b.priority {
		return a.seq < b.seq
	}
	return a.priority < b.priority
}

func (self *PriorityQueue[T, P]) _up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !self._less(i, parent) {
			break
		}
		self.entries[i], self.entries[parent] = self.entries[parent], self.entries[i]
		i = parent
	}
}

func (self *PriorityQueue[T, P]) _down(i int) {
	n := self.entries.Length()
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		smallest := left
		if right := left + 1; right < n && self._less(right, left) {
			smallest = right
		}
		if !self._less(smallest, i) {
			break
		}
		self.entries[i], self.entries[smallest] = self.entries[smallest], self.entries[i]
		i = smallest
	}
}
