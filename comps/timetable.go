package comps

import (
	"fmt"

	"github.com/ttpr0/go-railway/graph"
	"github.com/ttpr0/go-railway/structs"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// time-expanded timetable
//*******************************************

// Timetable is the time-expanded graph of a network. Every vertex is a
// station at a minute, edges are rides of a train or waits at a station.
type Timetable struct {
	graph *graph.DirectedGraph[structs.TimeEvent, structs.Hop]
	// scheduled minutes per station
	times Dict[string, *SortedSet[int32]]
	// all events per station including origin events
	events        Dict[string, List[structs.TimeEvent]]
	station_order List[string]
}

func NewTimetable() *Timetable {
	return &Timetable{
		graph:         graph.NewDirectedGraph[structs.TimeEvent, structs.Hop](1000),
		times:         NewDict[string, *SortedSet[int32]](100),
		events:        NewDict[string, List[structs.TimeEvent]](100),
		station_order: NewList[string](100),
	}
}

func (self *Timetable) _Register(event structs.TimeEvent) {
	self.graph.AddVertex(event)
	if !self.events.ContainsKey(event.Station) {
		self.station_order.Add(event.Station)
	}
	list := self.events[event.Station]
	list.Add(event)
	self.events[event.Station] = list
}

// Returns the scheduled event of station at minute, creating it if needed.
func (self *Timetable) GetOrCreate(station string, minute int32) structs.TimeEvent {
	event := structs.TimeEvent{Station: station, Minute: minute}
	if self.HasEvent(event) {
		return event
	}
	self._Register(event)
	times, ok := self.times[station]
	if !ok {
		set := NewSortedSet[int32](8)
		times = &set
		self.times[station] = times
	}
	times.Insert(minute)
	return event
}

func (self *Timetable) HasEvent(event structs.TimeEvent) bool {
	return self.graph.HasVertex(event)
}

func (self *Timetable) AddRide(from, to structs.TimeEvent, hop structs.Hop) {
	self.graph.AddEdge(from, to, hop)
}

func (self *Timetable) AddWait(from, to structs.TimeEvent) {
	self.graph.AddEdge(from, to, structs.NewWaitHop(to.Minute-from.Minute))
}

// Scheduled minutes of station in ascending order.
func (self *Timetable) Times(station string) Array[int32] {
	times, ok := self.times[station]
	if !ok {
		return NewArray[int32](0)
	}
	return times.Values()
}

// First scheduled event of station at or after minute.
func (self *Timetable) Ceiling(station string, minute int32) Optional[structs.TimeEvent] {
	times, ok := self.times[station]
	if !ok {
		return None[structs.TimeEvent]()
	}
	next := times.Ceiling(minute)
	if !next.HasValue() {
		return None[structs.TimeEvent]()
	}
	return Some(structs.TimeEvent{Station: station, Minute: next.Value})
}

// All events of station, scheduled and origin events, in creation order.
func (self *Timetable) EventsAt(station string) Array[structs.TimeEvent] {
	list := self.events[station]
	events := NewArray[structs.TimeEvent](list.Length())
	copy(events, list)
	return events
}

// Stations with at least one event in the order they first appeared.
func (self *Timetable) Stations() Array[string] {
	stations := NewArray[string](self.station_order.Length())
	copy(stations, self.station_order)
	return stations
}

// Adds a departure event at station for the given clock time and links
// it to the next scheduled event at that station with a wait. An existing
// event at the same minute is returned instead.
func (self *Timetable) AddOriginNode(station string, clock string) (structs.TimeEvent, error) {
	minute, err := structs.ParseClock(clock)
	if err != nil {
		return structs.TimeEvent{}, err
	}
	origin := structs.TimeEvent{Station: station, Minute: minute}
	if self.HasEvent(origin) {
		return origin, nil
	}
	self._Register(origin)
	next := self.Ceiling(station, minute)
	if next.HasValue() {
		self.AddWait(origin, next.Value)
	} else {
		slog.Debug(fmt.Sprintf("no departure from %v after %v", station, clock))
	}
	return origin, nil
}

func (self *Timetable) GetHop(from, to structs.TimeEvent) Optional[structs.Hop] {
	return self.graph.GetEdge(from, to)
}

func (self *Timetable) EventCount() int {
	return self.graph.NodeCount()
}

func (self *Timetable) HopCount() int {
	return self.graph.EdgeCount()
}

func (self *Timetable) Graph() graph.IGraph[structs.TimeEvent, structs.Hop] {
	return self.graph
}
