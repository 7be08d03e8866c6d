package comps

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-railway/graph"
	"github.com/ttpr0/go-railway/structs"
	. "github.com/ttpr0/go-railway/util"
)

//*******************************************
// network io
//*******************************************

// NetworkSnapshot is the json form of a Network.
type NetworkSnapshot struct {
	Stations  []StationEntry  `json:"stations"`
	Rails     []RailEntry     `json:"rails"`
	Trains    []TrainEntry    `json:"trains"`
	Schedules []ScheduleEntry `json:"schedules"`
}

type StationEntry struct {
	Name     string     `json:"name"`
	Location *orb.Point `json:"location,omitempty"`
}

type RailEntry struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
	Price    float64 `json:"price"`
	Time     float64 `json:"time"`
}

type TrainEntry struct {
	ID           string  `json:"id"`
	AverageSpeed float64 `json:"average_speed"`
	PricePerKm   float64 `json:"price_per_km"`
}

type ScheduleEntry struct {
	TrainID   string `json:"train"`
	From      string `json:"from"`
	To        string `json:"to"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

// Snapshot lists every rail once, ordered by the first station it touches.
func (self *Network) Snapshot() NetworkSnapshot {
	snapshot := NetworkSnapshot{
		Stations:  make([]StationEntry, 0, self.StationCount()),
		Rails:     make([]RailEntry, 0, self.RailCount()),
		Trains:    make([]TrainEntry, 0, self.train_order.Length()),
		Schedules: make([]ScheduleEntry, 0, self.schedules.Length()),
	}
	for _, station := range self.Stations() {
		entry := StationEntry{Name: station.Name}
		if station.Loc.HasValue() {
			loc := station.Loc.Value
			entry.Location = &loc
		}
		snapshot.Stations = append(snapshot.Stations, entry)
	}
	for node := int32(0); node < int32(self.graph.NodeCount()); node++ {
		self.graph.ForAdjacentEdges(node, func(ref graph.EdgeRef) {
			if ref.OtherID <= node {
				return
			}
			rail := self.graph.GetEdgeData(ref.EdgeID)
			snapshot.Rails = append(snapshot.Rails, RailEntry{
				From:     self.graph.GetVertex(node),
				To:       self.graph.GetVertex(ref.OtherID),
				Distance: rail.Distance,
				Price:    rail.Price,
				Time:     rail.Time,
			})
		})
	}
	for _, train := range self.Trains() {
		snapshot.Trains = append(snapshot.Trains, TrainEntry{
			ID:           train.ID,
			AverageSpeed: train.AverageSpeed,
			PricePerKm:   train.PricePerKm,
		})
	}
	for _, schedule := range self.schedules {
		snapshot.Schedules = append(snapshot.Schedules, ScheduleEntry{
			TrainID:   schedule.TrainID,
			From:      schedule.StationA,
			To:        schedule.StationB,
			Departure: schedule.Departure,
			Arrival:   schedule.Arrival,
		})
	}
	return snapshot
}

// Builds a network from snapshot. Rails must connect listed stations.
func NetworkFromSnapshot(snapshot NetworkSnapshot) (*Network, error) {
	network := NewNetwork()
	for _, entry := range snapshot.Stations {
		station := network.AddStation(entry.Name)
		if entry.Location != nil {
			station.Loc = Some(*entry.Location)
		}
	}
	for i, entry := range snapshot.Rails {
		rail := structs.Rail{Distance: entry.Distance, Price: entry.Price, Time: entry.Time}
		if err := network.AddRail(entry.From, entry.To, rail); err != nil {
			return nil, fmt.Errorf("rail %v: %w", i, err)
		}
	}
	for _, entry := range snapshot.Trains {
		network.AddTrain(structs.Train{ID: entry.ID, AverageSpeed: entry.AverageSpeed, PricePerKm: entry.PricePerKm})
	}
	for _, entry := range snapshot.Schedules {
		network.AddSchedule(structs.Schedule{
			TrainID:   entry.TrainID,
			StationA:  entry.From,
			StationB:  entry.To,
			Departure: entry.Departure,
			Arrival:   entry.Arrival,
		})
	}
	return network, nil
}

func StoreNetwork(network *Network, file string) error {
	return WriteJSONToFile(network.Snapshot(), file)
}

func LoadNetwork(file string) (*Network, error) {
	snapshot, err := ReadJSONFromFile[NetworkSnapshot](file)
	if err != nil {
		return nil, err
	}
	return NetworkFromSnapshot(snapshot)
}
