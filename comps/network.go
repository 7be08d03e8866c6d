package comps

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-railway/graph"
	"github.com/ttpr0/go-railway/structs"
	. "github.com/ttpr0/go-railway/util"
)

var (
	ErrStationNotFound = errors.New("station not found")
	ErrTrainNotFound   = errors.New("train not found")
)

//*******************************************
// static railway network
//*******************************************

// Network holds the stations and rails of the static railway together
// with the timetabled trains and their schedules.
type Network struct {
	graph     *graph.UndirectedGraph[string, structs.Rail]
	stations  Dict[string, *structs.Station]
	trains    Dict[string, structs.Train]
	schedules List[structs.Schedule]

	station_order List[string]
	train_order   List[string]
}

func NewNetwork() *Network {
	return &Network{
		graph:         graph.NewUndirectedGraph[string, structs.Rail](100),
		stations:      NewDict[string, *structs.Station](100),
		trains:        NewDict[string, structs.Train](10),
		schedules:     NewList[structs.Schedule](100),
		station_order: NewList[string](100),
		train_order:   NewList[string](10),
	}
}

// Adds a station, an existing station with the same name is returned unchanged.
func (self *Network) AddStation(name string) *structs.Station {
	if station, ok := self.stations[name]; ok {
		return station
	}
	station := structs.NewStation(name)
	self.stations[name] = station
	self.station_order.Add(name)
	self.graph.AddVertex(name)
	return station
}

func (self *Network) SetStationLocation(name string, loc orb.Point) error {
	station, ok := self.stations[name]
	if !ok {
		return fmt.Errorf("%w: %v", ErrStationNotFound, name)
	}
	station.Loc = Some(loc)
	return nil
}

// Adds a rail between two known stations. A second rail between the
// same stations replaces the first one.
func (self *Network) AddRail(from, to string, rail structs.Rail) error {
	if !self.stations.ContainsKey(from) {
		return fmt.Errorf("%w: %v", ErrStationNotFound, from)
	}
	if !self.stations.ContainsKey(to) {
		return fmt.Errorf("%w: %v", ErrStationNotFound, to)
	}
	self.graph.AddEdge(from, to, rail)
	return nil
}

func (self *Network) AddTrain(train structs.Train) {
	if !self.trains.ContainsKey(train.ID) {
		self.train_order.Add(train.ID)
	}
	self.trains[train.ID] = train
}

func (self *Network) AddSchedule(schedule structs.Schedule) {
	self.schedules.Add(schedule)
}

func (self *Network) HasStation(name string) bool {
	return self.stations.ContainsKey(name)
}

func (self *Network) GetStation(name string) Optional[*structs.Station] {
	if station, ok := self.stations[name]; ok {
		return Some(station)
	}
	return None[*structs.Station]()
}

// Stations in the order they were added.
func (self *Network) Stations() Array[*structs.Station] {
	stations := NewArray[*structs.Station](self.station_order.Length())
	for i, name := range self.station_order {
		stations[i] = self.stations[name]
	}
	return stations
}

func (self *Network) StationCount() int {
	return self.station_order.Length()
}

func (self *Network) GetTrain(id string) Optional[structs.Train] {
	if train, ok := self.trains[id]; ok {
		return Some(train)
	}
	return None[structs.Train]()
}

// Timetabled trains in the order they were added.
func (self *Network) Trains() Array[structs.Train] {
	trains := NewArray[structs.Train](self.train_order.Length())
	for i, id := range self.train_order {
		trains[i] = self.trains[id]
	}
	return trains
}

func (self *Network) Schedules() Array[structs.Schedule] {
	schedules := NewArray[structs.Schedule](self.schedules.Length())
	copy(schedules, self.schedules)
	return schedules
}

func (self *Network) GetRail(from, to string) Optional[structs.Rail] {
	return self.graph.GetEdge(from, to)
}

func (self *Network) RailCount() int {
	// every rail is stored in both directions
	return self.graph.EdgeCount() / 2
}

func (self *Network) Graph() graph.IGraph[string, structs.Rail] {
	return self.graph
}
