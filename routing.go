package main

import (
	"errors"
	"net/http"

	"github.com/ttpr0/go-railway/comps"
	"github.com/ttpr0/go-railway/planner"
	"github.com/ttpr0/go-railway/routing"
	"github.com/ttpr0/go-railway/simulation"
	. "github.com/ttpr0/go-railway/util"
)

// Maps errors of the railway packages to a response.
func ErrorResult(err error) Result {
	switch {
	case errors.Is(err, comps.ErrStationNotFound), errors.Is(err, simulation.ErrTrainNotFound):
		return NotFound(err.Error())
	case errors.Is(err, simulation.ErrDuplicateTrain), errors.Is(err, simulation.ErrRunnerActive):
		return Conflict(err.Error())
	case errors.Is(err, routing.ErrInvalidCost):
		return Result{result: err.Error(), status: http.StatusInternalServerError}
	default:
		return BadRequest(err.Error())
	}
}

//**********************************************************
// network handlers
//**********************************************************

func HandleNetworkRequest(req none) Result {
	network := MANAGER.Network()
	resp := NetworkResponse{
		Stations:    make([]StationResponse, 0, network.StationCount()),
		Rails:       network.RailCount(),
		Trains:      make([]string, 0, 10),
		Schedules:   network.Schedules().Length(),
		Events:      MANAGER.Planner().Timetable().EventCount(),
		LoadReport:  MANAGER.load_report,
		BuildReport: MANAGER.build_report,
	}
	for _, station := range network.Stations() {
		s := StationResponse{Name: station.Name}
		if station.Loc.HasValue() {
			loc := station.Loc.Value
			s.Location = &loc
		}
		resp.Stations = append(resp.Stations, s)
	}
	for _, train := range network.Trains() {
		resp.Trains = append(resp.Trains, train.ID)
	}
	return OK(resp)
}

//**********************************************************
// routing handlers
//**********************************************************

func _PlanStatic(route_planner *planner.RoutePlanner, from, to string, metric MetricType) (routing.Path[string], error) {
	switch metric {
	case CHEAPEST:
		return route_planner.PlanCheapestRoute(from, to)
	case SHORTEST:
		return route_planner.PlanShortestRouteByDistance(from, to)
	default:
		return route_planner.PlanFastestRouteByTime(from, to)
	}
}

func HandleRoutingRequest(req RoutingRequest) Result {
	route_planner := MANAGER.Planner()
	path, err := _PlanStatic(route_planner, req.From, req.To, req.Metric)
	if err != nil {
		return ErrorResult(err)
	}
	resp := RoutingResponse{
		Found:    path.Found(),
		Stations: path.Vertices,
		Cost:     path.Cost,
	}
	if !path.Found() {
		// +Inf can not be encoded
		resp.Cost = -1
		return OK(resp)
	}
	if path.Length() > 1 {
		stats, err := route_planner.CalculateRouteStatistics(path.Vertices)
		if err == nil {
			resp.Statistics = &stats
		}
	}
	return OK(resp)
}

func HandleTimetableRoutingRequest(req TimetableRoutingRequest) Result {
	route_planner := MANAGER.Planner()
	var result Optional[planner.RouteResult]
	var err error
	switch req.Metric {
	case FASTEST:
		result, err = route_planner.FindFastestRoute(req.From, req.To, req.Departure, req.Trains...)
	case CHEAPEST:
		result, err = route_planner.FindCheapestRoute(req.From, req.To, req.Departure, req.Trains...)
	default:
		return BadRequest("metric must be fastest or cheapest")
	}
	if err != nil {
		return ErrorResult(err)
	}
	if !result.HasValue() {
		return OK(TimetableRoutingResponse{Found: false, Steps: []RouteStep{}})
	}
	return OK(NewTimetableRoutingResponse(result.Value))
}

func HandleStatisticsRequest(req StatisticsRequest) Result {
	route_planner := MANAGER.Planner()
	var stats planner.RouteStatistics
	var err error
	if req.MaxSpeed > 0 {
		stats, err = route_planner.CalculateRouteStatisticsForTrain(req.Route, req.MaxSpeed)
	} else {
		stats, err = route_planner.CalculateRouteStatistics(req.Route)
	}
	if err != nil {
		return ErrorResult(err)
	}
	return OK(stats)
}
