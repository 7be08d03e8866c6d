package planner

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/paulmach/orb/geo"
	"github.com/ttpr0/go-railway/comps"
	"github.com/ttpr0/go-railway/routing"
	"github.com/ttpr0/go-railway/structs"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

var (
	ErrStationNotFound = comps.ErrStationNotFound
	ErrInvalidRoute    = errors.New("invalid route")
)

//*******************************************
// route planner
//*******************************************

// RoutePlanner answers route queries on the static rail network and on
// the time-expanded timetable.
//
// Timetable queries add origin events to the timetable and are therefore
// serialized, static queries only read the network.
type RoutePlanner struct {
	network   *comps.Network
	timetable *comps.Timetable
	mu        sync.Mutex
}

func NewRoutePlanner(network *comps.Network, timetable *comps.Timetable) *RoutePlanner {
	if timetable == nil {
		timetable = comps.NewTimetable()
	}
	return &RoutePlanner{
		network:   network,
		timetable: timetable,
	}
}

func (self *RoutePlanner) Network() *comps.Network {
	return self.network
}

func (self *RoutePlanner) Timetable() *comps.Timetable {
	return self.timetable
}

func (self *RoutePlanner) _CheckStations(names ...string) error {
	for _, name := range names {
		if !self.network.HasStation(name) {
			return fmt.Errorf("%w: %v", ErrStationNotFound, name)
		}
	}
	return nil
}

func (self *RoutePlanner) _PlanStatic(from, to string, cost routing.CostFunc[structs.Rail]) (routing.Path[string], error) {
	if err := self._CheckStations(from, to); err != nil {
		return routing.NoPath[string](), err
	}
	return routing.ShortestPath[string, structs.Rail](self.network.Graph(), from, to, cost, nil)
}

func (self *RoutePlanner) PlanFastestRouteByTime(from, to string) (routing.Path[string], error) {
	return self._PlanStatic(from, to, func(rail structs.Rail) float64 { return rail.Time })
}

func (self *RoutePlanner) PlanCheapestRoute(from, to string) (routing.Path[string], error) {
	return self._PlanStatic(from, to, func(rail structs.Rail) float64 { return rail.Price })
}

func (self *RoutePlanner) PlanShortestRouteByDistance(from, to string) (routing.Path[string], error) {
	return self._PlanStatic(from, to, func(rail structs.Rail) float64 { return rail.Distance })
}

// Shortest route by distance from `from` to destination that never uses
// the directed rail excluded_from -> excluded_to.
func (self *RoutePlanner) PlanDetour(from, destination, excluded_from, excluded_to string) (routing.Path[string], error) {
	if err := self._CheckStations(from, destination); err != nil {
		return routing.NoPath[string](), err
	}
	distance := func(rail structs.Rail) float64 { return rail.Distance }
	return routing.ShortestPathExcludingEdge[string, structs.Rail](self.network.Graph(), from, destination, distance, excluded_from, excluded_to)
}

// Validates that every stop exists and returns the stops as a route.
func (self *RoutePlanner) PlanMultiStopRoute(names []string) (Array[string], error) {
	route := NewArray[string](len(names))
	for i, name := range names {
		if err := self._CheckStations(name); err != nil {
			return nil, err
		}
		route[i] = name
	}
	return route, nil
}

//*******************************************
// route statistics
//*******************************************

type RouteStatistics struct {
	TotalDistance float64 `json:"total_distance"`
	TotalPrice    float64 `json:"total_price"`
	TotalTime     float64 `json:"total_time"`
	NumStops      int     `json:"num_stops"`
	// great-circle length in km over stops with known coordinates
	GeoDistance float64 `json:"geo_distance"`
}

func (self *RoutePlanner) _CalcStatistics(route Array[string], travel_time func(structs.Rail) float64) (RouteStatistics, error) {
	if route.Length() < 2 {
		return RouteStatistics{}, fmt.Errorf("%w: route needs at least 2 stops, got %v", ErrInvalidRoute, route.Length())
	}
	stats := RouteStatistics{NumStops: route.Length() - 1}
	for i := 0; i < route.Length()-1; i++ {
		from := route[i]
		to := route[i+1]
		rail := self.network.GetRail(from, to)
		if !rail.HasValue() {
			return RouteStatistics{}, fmt.Errorf("%w: no rail between %v and %v", ErrInvalidRoute, from, to)
		}
		stats.TotalDistance += rail.Value.Distance
		stats.TotalPrice += rail.Value.Price
		stats.TotalTime += travel_time(rail.Value)

		a := self.network.GetStation(from)
		b := self.network.GetStation(to)
		if a.HasValue() && b.HasValue() && a.Value.Loc.HasValue() && b.Value.Loc.HasValue() {
			stats.GeoDistance += geo.Distance(a.Value.Loc.Value, b.Value.Loc.Value) / 1000
		}
	}
	return stats, nil
}

// Sums the rail attributes along an already known route.
func (self *RoutePlanner) CalculateRouteStatistics(route Array[string]) (RouteStatistics, error) {
	return self._CalcStatistics(route, func(rail structs.Rail) float64 { return rail.Time })
}

// Like CalculateRouteStatistics but the time of every rail is derived
// from its distance and the given speed in km/h.
func (self *RoutePlanner) CalculateRouteStatisticsForTrain(route Array[string], max_speed float64) (RouteStatistics, error) {
	if max_speed <= 0 {
		return RouteStatistics{}, fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidRoute, max_speed)
	}
	return self._CalcStatistics(route, func(rail structs.Rail) float64 { return structs.TravelTime(rail, max_speed) })
}

//*******************************************
// timetable routing
//*******************************************

type RouteResult struct {
	Path          Array[structs.TimeEvent]
	Hops          Array[structs.Hop]
	TotalTime     int32
	TotalPrice    float64
	TotalDistance float64
}

func (self RouteResult) Departure() structs.TimeEvent {
	return self.Path[0]
}

func (self RouteResult) Arrival() structs.TimeEvent {
	return self.Path[self.Path.Length()-1]
}

// Earliest arrival at `to` when leaving `from` at the departure clock time.
// Returns None if no event of `to` can be reached. Ride hops can be
// restricted to the given trains, waits are always allowed.
func (self *RoutePlanner) FindFastestRoute(from, to, departure string, trains ...string) (Optional[RouteResult], error) {
	return self._FindRoute(from, to, departure, func(hop structs.Hop) float64 { return float64(hop.Duration) }, trains)
}

// Least total price to reach `to` when leaving `from` at the departure clock time.
func (self *RoutePlanner) FindCheapestRoute(from, to, departure string, trains ...string) (Optional[RouteResult], error) {
	return self._FindRoute(from, to, departure, func(hop structs.Hop) float64 { return hop.Price }, trains)
}

func (self *RoutePlanner) _FindRoute(from, to, departure string, cost routing.CostFunc[structs.Hop], trains []string) (Optional[RouteResult], error) {
	if err := self._CheckStations(from, to); err != nil {
		return None[RouteResult](), err
	}

	self.mu.Lock()
	defer self.mu.Unlock()

	origin, err := self.timetable.AddOriginNode(from, departure)
	if err != nil {
		return None[RouteResult](), err
	}
	spt, err := routing.CalcAllDijkstra[structs.TimeEvent, structs.Hop](self.timetable.Graph(), origin, cost, _TrainFilter(trains))
	if err != nil {
		return None[RouteResult](), err
	}

	best := None[structs.TimeEvent]()
	best_cost := math.Inf(1)
	for _, event := range self.timetable.EventsAt(to) {
		dist := spt.Distance(event)
		if dist < best_cost {
			best_cost = dist
			best = Some(event)
		}
	}
	if !best.HasValue() {
		slog.Debug(fmt.Sprintf("no connection from %v to %v after %v", from, to, departure))
		return None[RouteResult](), nil
	}

	path := spt.PathTo(best.Value)
	return Some(self._BuildResult(path.Vertices)), nil
}

func (self *RoutePlanner) _BuildResult(events Array[structs.TimeEvent]) RouteResult {
	result := RouteResult{
		Path: events,
		Hops: NewArray[structs.Hop](0),
	}
	for i := 0; i+1 < events.Length(); i++ {
		hop := self.timetable.GetHop(events[i], events[i+1])
		if !hop.HasValue() {
			continue
		}
		result.Hops = append(result.Hops, hop.Value)
		result.TotalPrice += hop.Value.Price
		result.TotalDistance += hop.Value.Distance
	}
	result.TotalTime = events[events.Length()-1].Minute - events[0].Minute
	return result
}

func _TrainFilter(trains []string) routing.EdgeFilter[structs.Hop] {
	if len(trains) == 0 {
		return nil
	}
	allowed := NewDict[string, bool](len(trains))
	for _, id := range trains {
		allowed[id] = true
	}
	return func(hop structs.Hop) bool {
		if hop.IsWait() {
			return true
		}
		return allowed.ContainsKey(hop.Train.Value)
	}
}
