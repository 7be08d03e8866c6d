package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ttpr0/go-railway/comps"
	"github.com/ttpr0/go-railway/parser"
	"github.com/ttpr0/go-railway/planner"
	"github.com/ttpr0/go-railway/preproc"
	"github.com/ttpr0/go-railway/simulation"
	"golang.org/x/exp/slog"
)

//**********************************************************
// railway manager
//**********************************************************

type RailwayManager struct {
	network *comps.Network
	planner *planner.RoutePlanner
	runner  *simulation.Runner
	hub     *simulation.Hub

	load_report  parser.LoadReport
	build_report preproc.BuildReport
}

// Loads the railway of config and prepares planner and simulation.
func NewRailwayManager(config Config) (*RailwayManager, error) {
	network, load_report, err := _LoadNetwork(config.Railway.File)
	if err != nil {
		return nil, err
	}
	if config.Railway.Locations != "" {
		if _, err := parser.ParseStationLocations(config.Railway.Locations, network, &parser.RailwayDecoder{}); err != nil {
			slog.Warn(fmt.Sprintf("station locations not loaded: %v", err.Error()))
		}
	}
	manager := NewManagerFromNetwork(network, config.Simulation)
	manager.load_report = load_report
	return manager, nil
}

// Reads a railway text file or a json network snapshot.
func _LoadNetwork(file string) (*comps.Network, parser.LoadReport, error) {
	if filepath.Ext(file) != ".json" {
		return parser.ParseRailway(file)
	}
	network, err := comps.LoadNetwork(file)
	if err != nil {
		return nil, parser.LoadReport{}, err
	}
	slog.Info(fmt.Sprintf("loaded network snapshot %v", file))
	report := parser.LoadReport{
		Stations:  network.StationCount(),
		Rails:     network.RailCount(),
		Trains:    network.Trains().Length(),
		Schedules: network.Schedules().Length(),
	}
	return network, report, nil
}

func NewManagerFromNetwork(network *comps.Network, options SimulationOptions) *RailwayManager {
	timetable, build_report := preproc.PrepareTimetable(network)
	route_planner := planner.NewRoutePlanner(network, timetable)
	sim := simulation.NewSimulator(route_planner)
	runner := simulation.NewRunner(sim, options.TickInterval, options.Delta)
	return &RailwayManager{
		network:      network,
		planner:      route_planner,
		runner:       runner,
		hub:          simulation.NewHub(runner),
		build_report: build_report,
	}
}

func (self *RailwayManager) Network() *comps.Network {
	return self.network
}

func (self *RailwayManager) Planner() *planner.RoutePlanner {
	return self.planner
}

func (self *RailwayManager) Runner() *simulation.Runner {
	return self.runner
}

func (self *RailwayManager) Hub() *simulation.Hub {
	return self.hub
}

func (self *RailwayManager) StartClock() error {
	return self.runner.Start(context.Background())
}

func (self *RailwayManager) StopClock() {
	self.runner.Stop()
}
