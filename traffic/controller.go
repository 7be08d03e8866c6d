package traffic

import (
	"fmt"
	"math"
	"sync"

	"github.com/ttpr0/go-railway/planner"
	"github.com/ttpr0/go-railway/structs"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// traffic controller
//*******************************************

// Controller keeps every directed rail occupied by at most one train.
//
// A train that is denied entry either waits until the rail is free or is
// rerouted around it, whichever takes less time. All state is guarded by
// one mutex which is held over the occupancy check and the occupancy write.
type Controller struct {
	planner *planner.RoutePlanner

	mu        sync.Mutex
	occupancy Dict[Segment, List[Occupant]]
	positions Dict[string, *_Position]
	waiting   Dict[string, float64]
	stats     Stats
}

func NewController(route_planner *planner.RoutePlanner) *Controller {
	return &Controller{
		planner:   route_planner,
		occupancy: NewDict[Segment, List[Occupant]](100),
		positions: NewDict[string, *_Position](10),
		waiting:   NewDict[string, float64](10),
	}
}

func (self *Controller) RegisterTrain(train ITrain) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.positions[train.ID()] = &_Position{
		state:   IDLE,
		segment: None[Segment](),
	}
}

// Removes the train from all rails and from the wait registry.
func (self *Controller) UnregisterTrain(train_id string) {
	self.mu.Lock()
	defer self.mu.Unlock()

	delete(self.positions, train_id)
	delete(self.waiting, train_id)
	for segment := range self.occupancy {
		self._Exit(train_id, segment)
	}
}

// Reports whether no other train holds the rail from -> to.
func (self *Controller) CanEnterRail(train_id, from, to string) bool {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self._CanEnter(train_id, MakeTuple(from, to))
}

func (self *Controller) _CanEnter(train_id string, segment Segment) bool {
	for _, occupant := range self.occupancy[segment] {
		if occupant.TrainID != train_id {
			return false
		}
	}
	return true
}

func (self *Controller) _Enter(train_id string, segment Segment, time float64) {
	occupants := self.occupancy[segment]
	occupants.Add(Occupant{TrainID: train_id, RemainingTime: time})
	self.occupancy[segment] = occupants
	self.stats.Entries += 1
}

func (self *Controller) _Exit(train_id string, segment Segment) {
	occupants, ok := self.occupancy[segment]
	if !ok {
		return
	}
	for i := 0; i < occupants.Length(); i++ {
		if occupants[i].TrainID == train_id {
			occupants.Remove(i)
			i -= 1
		}
	}
	if occupants.Length() == 0 {
		delete(self.occupancy, segment)
	} else {
		self.occupancy[segment] = occupants
	}
}

// Advances the train's occupancy by delta minutes.
//
// A train holding a rail counts down its remaining time and vacates the
// rail when it is used up. A train not holding a rail and not waiting
// tries to enter the next rail of its route, resolving a conflict if it
// is occupied.
func (self *Controller) UpdateTrainPosition(train_id string, train ITrain, delta float64) {
	self.mu.Lock()
	defer self.mu.Unlock()

	pos, ok := self.positions[train_id]
	if !ok {
		return
	}
	if pos.state == ARRIVED_AT_NEXT {
		pos.state = IDLE
	}
	if pos.state == IDLE && !self._IsWaiting(train_id) {
		self._TryEnter(train_id, train, pos)
	}
	if pos.state == ON_SEGMENT {
		self._Advance(train_id, pos, delta)
	}
}

func (self *Controller) _TryEnter(train_id string, train ITrain, pos *_Position) {
	next := train.NextStation()
	if !next.HasValue() {
		return
	}
	segment := MakeTuple(train.CurrentStation(), next.Value)

	pos.state = ENTERING
	if self._CanEnter(train_id, segment) {
		self._Enter(train_id, segment, train.TimeToNextStation())
		pos.state = ON_SEGMENT
		pos.segment = Some(segment)
		if !train.IsMoving() {
			train.StartMoving()
		}
		return
	}
	pos.state = IDLE
	self._ResolveConflict(train_id, train, pos, segment)
}

func (self *Controller) _Advance(train_id string, pos *_Position, delta float64) {
	segment := pos.segment.Value
	occupants := self.occupancy[segment]
	for i := 0; i < occupants.Length(); i++ {
		if occupants[i].TrainID != train_id {
			continue
		}
		occupants[i].RemainingTime -= delta
		if occupants[i].RemainingTime <= 0 {
			self._Exit(train_id, segment)
			pos.state = ARRIVED_AT_NEXT
			pos.segment = None[Segment]()
		}
		return
	}
	// occupancy was removed externally
	pos.state = IDLE
	pos.segment = None[Segment]()
}

//*******************************************
// conflict resolution
//*******************************************

func (self *Controller) _ResolveConflict(train_id string, train ITrain, pos *_Position, segment Segment) {
	self.stats.Conflicts += 1

	wait_time := self._CalcWaitTime(segment)
	detour, alternative_time := self._FindDetour(train, segment)

	slog.Info(fmt.Sprintf("conflict: train %v blocked on %v -> %v, wait %.1f min, detour %.1f min", train_id, segment.A, segment.B, wait_time, alternative_time))

	if alternative_time < wait_time {
		err := train.UpdateRoute(detour)
		if err == nil {
			self.stats.Reroutes += 1
			slog.Info(fmt.Sprintf("train %v rerouted: %v", train_id, detour))
			self._ProceedOnDetour(train_id, train, pos)
			return
		}
		slog.Warn(fmt.Sprintf("failed to reroute train %v: %v", train_id, err.Error()))
	}
	self.waiting[train_id] = wait_time
	self.stats.Waits += 1
	slog.Info(fmt.Sprintf("train %v waits %.1f min", train_id, wait_time))
}

// Maximum remaining time of the trains holding segment.
func (self *Controller) _CalcWaitTime(segment Segment) float64 {
	wait := 0.0
	for _, occupant := range self.occupancy[segment] {
		if occupant.RemainingTime > wait {
			wait = occupant.RemainingTime
		}
	}
	return wait
}

// Shortest route by distance from the start of segment to the train's
// destination avoiding segment, together with its travel time for the
// train. The time is +Inf if there is no such route.
func (self *Controller) _FindDetour(train ITrain, segment Segment) (Array[string], float64) {
	if train.RouteIndex() >= train.Route().Length()-1 {
		return nil, math.Inf(1)
	}
	path, err := self.planner.PlanDetour(segment.A, train.Destination(), segment.A, segment.B)
	if err != nil || !path.Found() {
		return nil, math.Inf(1)
	}
	stats, err := self.planner.CalculateRouteStatisticsForTrain(path.Vertices, train.MaxSpeed())
	if err != nil {
		return nil, math.Inf(1)
	}
	return path.Vertices, stats.TotalTime
}

// Tries to enter the first rail of a new route within the same update.
func (self *Controller) _ProceedOnDetour(train_id string, train ITrain, pos *_Position) {
	next := train.NextStation()
	if !next.HasValue() {
		return
	}
	rail := self.planner.Network().GetRail(train.CurrentStation(), next.Value)
	if !rail.HasValue() {
		return
	}
	train.SetTimeToNextStation(structs.TravelTime(rail.Value, train.MaxSpeed()))
	segment := MakeTuple(train.CurrentStation(), next.Value)
	if !self._CanEnter(train_id, segment) {
		return
	}
	self._Enter(train_id, segment, train.TimeToNextStation())
	pos.state = ON_SEGMENT
	pos.segment = Some(segment)
	if !train.IsMoving() {
		train.StartMoving()
	}
}

//*******************************************
// wait registry
//*******************************************

// Counts down all waiting trains and releases those whose time is up.
func (self *Controller) UpdateWaitingTimes(delta float64) {
	self.mu.Lock()
	defer self.mu.Unlock()

	for train_id, remaining := range self.waiting {
		remaining -= delta
		if remaining <= 0 {
			delete(self.waiting, train_id)
			slog.Info(fmt.Sprintf("train %v released from waiting", train_id))
		} else {
			self.waiting[train_id] = remaining
		}
	}
}

func (self *Controller) IsTrainWaiting(train_id string) bool {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self._IsWaiting(train_id)
}

func (self *Controller) _IsWaiting(train_id string) bool {
	return self.waiting.ContainsKey(train_id)
}

// Remaining wait of the train, 0 if it is not waiting.
func (self *Controller) GetWaitingTime(train_id string) float64 {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.waiting[train_id]
}

//*******************************************
// queries
//*******************************************

func (self *Controller) GetTrainsInRail(from, to string) Array[Occupant] {
	self.mu.Lock()
	defer self.mu.Unlock()

	occupants := self.occupancy[MakeTuple(from, to)]
	result := NewArray[Occupant](occupants.Length())
	copy(result, occupants)
	return result
}

func (self *Controller) GetSegmentState(train_id string) SegmentState {
	self.mu.Lock()
	defer self.mu.Unlock()

	pos, ok := self.positions[train_id]
	if !ok {
		return IDLE
	}
	return pos.state
}

// Rail currently held by the train.
func (self *Controller) GetSegment(train_id string) Optional[Segment] {
	self.mu.Lock()
	defer self.mu.Unlock()

	pos, ok := self.positions[train_id]
	if !ok {
		return None[Segment]()
	}
	return pos.segment
}

func (self *Controller) Stats() Stats {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.stats
}
