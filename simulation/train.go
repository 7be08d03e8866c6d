package simulation

import (
	"errors"
	"fmt"

	. "github.com/ttpr0/go-railway/util"
)

var (
	ErrEmptyRoute        = errors.New("route is empty")
	ErrStationNotOnRoute = errors.New("current station is not on the new route")
)

//*******************************************
// simulated train
//*******************************************

// Train moves along a route of stations. It is either standing at
// route[index] or travelling towards route[index+1].
type Train struct {
	id        string
	max_speed float64
	capacity  int

	route List[string]
	index int

	speed  float64
	moving bool
	// minutes until the next station is reached
	time_to_next float64
	// trains only take part in the simulation while active
	active bool
}

func NewTrain(id string, max_speed float64, capacity int, route Array[string]) *Train {
	r := NewList[string](route.Length())
	for _, station := range route {
		r.Add(station)
	}
	return &Train{
		id:        id,
		max_speed: max_speed,
		capacity:  capacity,
		route:     r,
	}
}

func (self *Train) ID() string {
	return self.id
}
func (self *Train) MaxSpeed() float64 {
	return self.max_speed
}
func (self *Train) Capacity() int {
	return self.capacity
}
func (self *Train) CurrentSpeed() float64 {
	return self.speed
}
func (self *Train) IsMoving() bool {
	return self.moving
}
func (self *Train) IsActive() bool {
	return self.active
}
func (self *Train) RouteIndex() int {
	return self.index
}
func (self *Train) TimeToNextStation() float64 {
	return self.time_to_next
}

func (self *Train) Route() Array[string] {
	route := NewArray[string](self.route.Length())
	copy(route, self.route)
	return route
}

func (self *Train) CurrentStation() string {
	return self.route[self.index]
}

func (self *Train) NextStation() Optional[string] {
	if self.index < self.route.Length()-1 {
		return Some(self.route[self.index+1])
	}
	return None[string]()
}

func (self *Train) Destination() string {
	return self.route.Last()
}

func (self *Train) HasReachedDestination() bool {
	return self.index >= self.route.Length()-1
}

func (self *Train) SetTimeToNextStation(minutes float64) {
	self.time_to_next = minutes
}

func (self *Train) StartMoving() {
	if self.HasReachedDestination() {
		return
	}
	self.moving = true
	self.speed = self.max_speed
}

func (self *Train) _Halt() {
	self.moving = false
	self.speed = 0
}

// Moves the train delta minutes closer to the next station. On arrival
// the route index advances and the train stands at the station.
func (self *Train) Advance(delta float64) {
	if !self.moving || self.HasReachedDestination() {
		return
	}
	self.time_to_next -= delta
	if self.time_to_next <= 0 {
		self.index += 1
		self.time_to_next = 0
		self._Halt()
	}
}

// Replaces the route. The current station must be part of the new route
// and the train continues from its position there.
func (self *Train) UpdateRoute(route Array[string]) error {
	if route.Length() == 0 {
		return ErrEmptyRoute
	}
	current := self.CurrentStation()
	for i, station := range route {
		if station != current {
			continue
		}
		r := NewList[string](route.Length())
		for _, s := range route {
			r.Add(s)
		}
		self.route = r
		self.index = i
		self.time_to_next = 0
		self._Halt()
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStationNotOnRoute, current)
}

func (self *Train) String() string {
	return fmt.Sprintf("Train[%s] at %s, speed=%.1f km/h, moving=%v", self.id, self.CurrentStation(), self.speed, self.moving)
}
