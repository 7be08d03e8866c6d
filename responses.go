package main

import (
	"github.com/paulmach/orb"
	"github.com/ttpr0/go-railway/parser"
	"github.com/ttpr0/go-railway/planner"
	"github.com/ttpr0/go-railway/preproc"
	"github.com/ttpr0/go-railway/structs"
	"github.com/ttpr0/go-railway/traffic"
)

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, error any) ErrorResponse {
	return ErrorResponse{
		Request: request,
		Error:   error,
	}
}

//**********************************************************
// network
//**********************************************************

type StationResponse struct {
	Name     string     `json:"name"`
	Location *orb.Point `json:"location,omitempty"`
}

type NetworkResponse struct {
	Stations    []StationResponse   `json:"stations"`
	Rails       int                 `json:"rails"`
	Trains      []string            `json:"trains"`
	Schedules   int                 `json:"schedules"`
	Events      int                 `json:"events"`
	LoadReport  parser.LoadReport   `json:"load_report"`
	BuildReport preproc.BuildReport `json:"build_report"`
}

//**********************************************************
// routing
//**********************************************************

type RoutingResponse struct {
	Found      bool                     `json:"found"`
	Stations   []string                 `json:"stations"`
	Cost       float64                  `json:"cost"`
	Statistics *planner.RouteStatistics `json:"statistics,omitempty"`
}

type RouteStep struct {
	Station string  `json:"station"`
	Time    string  `json:"time"`
	Minute  int32   `json:"minute"`
	Train   string  `json:"train,omitempty"`
	Wait    bool    `json:"wait"`
	Price   float64 `json:"price"`
}

type TimetableRoutingResponse struct {
	Found         bool        `json:"found"`
	Steps         []RouteStep `json:"steps"`
	TotalTime     int32       `json:"total_time"`
	TotalPrice    float64     `json:"total_price"`
	TotalDistance float64     `json:"total_distance"`
}

func NewTimetableRoutingResponse(route planner.RouteResult) TimetableRoutingResponse {
	resp := TimetableRoutingResponse{
		Found:         true,
		Steps:         make([]RouteStep, 0, route.Path.Length()),
		TotalTime:     route.TotalTime,
		TotalPrice:    route.TotalPrice,
		TotalDistance: route.TotalDistance,
	}
	for i, event := range route.Path {
		step := RouteStep{
			Station: event.Station,
			Time:    structs.FormatClock(event.Minute),
			Minute:  event.Minute,
		}
		// the hop leading to this event
		if i > 0 && i-1 < route.Hops.Length() {
			hop := route.Hops[i-1]
			step.Wait = hop.IsWait()
			step.Price = hop.Price
			if hop.Train.HasValue() {
				step.Train = hop.Train.Value
			}
		}
		resp.Steps = append(resp.Steps, step)
	}
	return resp
}

//**********************************************************
// simulation
//**********************************************************

type ClockResponse struct {
	RunID   string  `json:"run_id"`
	Running bool    `json:"running"`
	Time    float64 `json:"time"`
}

type TrafficResponse struct {
	Stats     traffic.Stats      `json:"stats"`
	Occupants []traffic.Occupant `json:"occupants"`
}
