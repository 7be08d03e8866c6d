package simulation

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-railway/planner"
	"github.com/ttpr0/go-railway/structs"
	"github.com/ttpr0/go-railway/traffic"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

var (
	ErrTrainNotFound  = errors.New("train not found")
	ErrDuplicateTrain = errors.New("train already exists")
	ErrInvalidSpeed   = errors.New("speed must be positive")
)

type TrainStatus struct {
	TrainID           string     `json:"train_id"`
	CurrentStation    string     `json:"current_station"`
	NextStation       string     `json:"next_station,omitempty"`
	CurrentSpeed      float64    `json:"current_speed"`
	IsMoving          bool       `json:"is_moving"`
	IsActive          bool       `json:"is_active"`
	TimeToNextStation float64    `json:"time_to_next_station"`
	HasReachedDest    bool       `json:"has_reached_destination"`
	IsWaiting         bool       `json:"is_waiting"`
	WaitingTime       float64    `json:"waiting_time"`
	State             string     `json:"state"`
	Route             []string   `json:"route"`
	Location          *orb.Point `json:"location,omitempty"`
}

//*******************************************
// simulator
//*******************************************

// Simulator advances a set of trains on the static network in discrete
// ticks. Movement onto a rail is granted by the traffic controller.
type Simulator struct {
	planner    *planner.RoutePlanner
	controller *traffic.Controller
	trains     Dict[string, *Train]
	order      List[string]
	time       float64
}

func NewSimulator(route_planner *planner.RoutePlanner) *Simulator {
	return &Simulator{
		planner:    route_planner,
		controller: traffic.NewController(route_planner),
		trains:     NewDict[string, *Train](10),
		order:      NewList[string](10),
	}
}

// Adds a stopped train at the first station of route. Every stop must be
// a known station and consecutive stops must be connected by a rail.
func (self *Simulator) AddTrain(id string, max_speed float64, capacity int, route Array[string]) error {
	if self.trains.ContainsKey(id) {
		return fmt.Errorf("%w: %v", ErrDuplicateTrain, id)
	}
	if max_speed <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, max_speed)
	}
	stops, err := self.planner.PlanMultiStopRoute(route)
	if err != nil {
		return err
	}
	if stops.Length() == 0 {
		return ErrEmptyRoute
	}
	if stops.Length() > 1 {
		if _, err := self.planner.CalculateRouteStatistics(stops); err != nil {
			return err
		}
	}

	train := NewTrain(id, max_speed, capacity, stops)
	self.trains[id] = train
	self.order.Add(id)
	self.controller.RegisterTrain(train)
	slog.Info(fmt.Sprintf("train %v added on route %v", id, stops))
	return nil
}

func (self *Simulator) RemoveTrain(id string) error {
	if !self.trains.ContainsKey(id) {
		return fmt.Errorf("%w: %v", ErrTrainNotFound, id)
	}
	delete(self.trains, id)
	for i, train_id := range self.order {
		if train_id == id {
			self.order.Remove(i)
			break
		}
	}
	self.controller.UnregisterTrain(id)
	return nil
}

func (self *Simulator) StartTrain(id string) error {
	train, ok := self.trains[id]
	if !ok {
		return fmt.Errorf("%w: %v", ErrTrainNotFound, id)
	}
	train.active = true
	return nil
}

// Pauses the train in place. A paused train keeps the rail it holds.
func (self *Simulator) StopTrain(id string) error {
	train, ok := self.trains[id]
	if !ok {
		return fmt.Errorf("%w: %v", ErrTrainNotFound, id)
	}
	train.active = false
	return nil
}

func (self *Simulator) _UpdateTimeToNextStation(train *Train) {
	next := train.NextStation()
	if !next.HasValue() {
		return
	}
	rail := self.planner.Network().GetRail(train.CurrentStation(), next.Value)
	if !rail.HasValue() {
		slog.Warn(fmt.Sprintf("train %v: no rail between %v and %v", train.id, train.CurrentStation(), next.Value))
		return
	}
	train.SetTimeToNextStation(structs.TravelTime(rail.Value, train.max_speed))
}

// Advances the simulation by delta minutes.
func (self *Simulator) UpdateSimulation(delta float64) {
	self.time += delta
	self.controller.UpdateWaitingTimes(delta)

	for _, id := range self.order {
		train := self.trains[id]
		if !train.active {
			continue
		}
		if !train.IsMoving() && !train.HasReachedDestination() && !self.controller.IsTrainWaiting(id) {
			self._UpdateTimeToNextStation(train)
		}
		self.controller.UpdateTrainPosition(id, train, delta)
		if !self.controller.IsTrainWaiting(id) {
			index := train.index
			train.Advance(delta)
			if train.index != index && train.HasReachedDestination() {
				slog.Info(fmt.Sprintf("train %v reached %v at %.1f", id, train.Destination(), self.time))
			}
		}
	}
}

func (self *Simulator) _Status(train *Train) TrainStatus {
	status := TrainStatus{
		TrainID:           train.id,
		CurrentStation:    train.CurrentStation(),
		CurrentSpeed:      train.speed,
		IsMoving:          train.moving,
		IsActive:          train.active,
		TimeToNextStation: train.time_to_next,
		HasReachedDest:    train.HasReachedDestination(),
		IsWaiting:         self.controller.IsTrainWaiting(train.id),
		WaitingTime:       self.controller.GetWaitingTime(train.id),
		State:             self.controller.GetSegmentState(train.id).String(),
		Route:             train.Route(),
	}
	next := train.NextStation()
	if next.HasValue() {
		status.NextStation = next.Value
	}
	if loc := self._Locate(train); loc.HasValue() {
		status.Location = &loc.Value
	}
	return status
}

// Position of the train interpolated between its current and next
// station. None if the station coordinates are unknown.
func (self *Simulator) _Locate(train *Train) Optional[orb.Point] {
	network := self.planner.Network()
	current := network.GetStation(train.CurrentStation())
	if !current.HasValue() || !current.Value.Loc.HasValue() {
		return None[orb.Point]()
	}
	a := current.Value.Loc.Value
	next := train.NextStation()
	if !train.moving || !next.HasValue() {
		return Some(a)
	}
	station := network.GetStation(next.Value)
	rail := network.GetRail(train.CurrentStation(), next.Value)
	if !station.HasValue() || !station.Value.Loc.HasValue() || !rail.HasValue() {
		return Some(a)
	}
	b := station.Value.Loc.Value
	total := structs.TravelTime(rail.Value, train.max_speed)
	if total <= 0 {
		return Some(a)
	}
	f := 1 - train.time_to_next/total
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return Some(orb.Point{a[0] + (b[0]-a[0])*f, a[1] + (b[1]-a[1])*f})
}

func (self *Simulator) GetTrainStatus(id string) Optional[TrainStatus] {
	train, ok := self.trains[id]
	if !ok {
		return None[TrainStatus]()
	}
	return Some(self._Status(train))
}

// Status of all trains in the order they were added.
func (self *Simulator) GetAllTrainStatus() Array[TrainStatus] {
	statuses := NewArray[TrainStatus](self.order.Length())
	for i, id := range self.order {
		statuses[i] = self._Status(self.trains[id])
	}
	return statuses
}

func (self *Simulator) GetTrain(id string) Optional[*Train] {
	train, ok := self.trains[id]
	if !ok {
		return None[*Train]()
	}
	return Some(train)
}

func (self *Simulator) TrainCount() int {
	return self.order.Length()
}

func (self *Simulator) SimulationTime() float64 {
	return self.time
}

func (self *Simulator) Controller() *traffic.Controller {
	return self.controller
}

func (self *Simulator) Planner() *planner.RoutePlanner {
	return self.planner
}
