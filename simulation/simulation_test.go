package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-railway/comps"
	"github.com/ttpr0/go-railway/planner"
	"github.com/ttpr0/go-railway/structs"
	. "github.com/ttpr0/go-railway/util"
)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	network := comps.NewNetwork()
	for _, name := range []string{"A", "B", "C", "D"} {
		network.AddStation(name)
	}
	if err := network.AddRail("A", "B", structs.Rail{Distance: 100, Price: 10, Time: 60}); err != nil {
		t.Fatal(err)
	}
	if err := network.AddRail("B", "C", structs.Rail{Distance: 50, Price: 5, Time: 30}); err != nil {
		t.Fatal(err)
	}
	return NewSimulator(planner.NewRoutePlanner(network, nil))
}

func TestTrainAdvance(t *testing.T) {
	train := NewTrain("T1", 100, 200, Array[string]{"A", "B", "C"})
	train.SetTimeToNextStation(30)
	train.Advance(10)
	if train.TimeToNextStation() != 30 {
		t.Errorf("stopped train advanced")
	}

	train.StartMoving()
	if !train.IsMoving() || train.CurrentSpeed() != 100 {
		t.Errorf("train not moving after StartMoving")
	}
	train.Advance(10)
	if train.TimeToNextStation() != 20 || train.CurrentStation() != "A" {
		t.Errorf("time = %v at %v; want 20 at A", train.TimeToNextStation(), train.CurrentStation())
	}
	train.Advance(25)
	if train.CurrentStation() != "B" || train.IsMoving() || train.TimeToNextStation() != 0 {
		t.Errorf("train = %v; want standing at B", train)
	}
	if train.NextStation().Value != "C" || train.HasReachedDestination() {
		t.Errorf("next = %v; want C", train.NextStation())
	}
}

func TestTrainUpdateRoute(t *testing.T) {
	train := NewTrain("T1", 100, 200, Array[string]{"A", "B"})
	if err := train.UpdateRoute(Array[string]{}); !errors.Is(err, ErrEmptyRoute) {
		t.Errorf("err = %v; want ErrEmptyRoute", err)
	}
	if err := train.UpdateRoute(Array[string]{"B", "C"}); !errors.Is(err, ErrStationNotOnRoute) {
		t.Errorf("err = %v; want ErrStationNotOnRoute", err)
	}
	if err := train.UpdateRoute(Array[string]{"X", "A", "C", "B"}); err != nil {
		t.Fatal(err)
	}
	if train.RouteIndex() != 1 || train.NextStation().Value != "C" || train.Destination() != "B" {
		t.Errorf("route index %v, next %v, destination %v", train.RouteIndex(), train.NextStation(), train.Destination())
	}
}

func TestAddTrainErrors(t *testing.T) {
	sim := newTestSimulator(t)
	if err := sim.AddTrain("T1", 100, 100, Array[string]{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	if err := sim.AddTrain("T1", 100, 100, Array[string]{"A", "B"}); !errors.Is(err, ErrDuplicateTrain) {
		t.Errorf("err = %v; want ErrDuplicateTrain", err)
	}
	if err := sim.AddTrain("T2", 0, 100, Array[string]{"A", "B"}); !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("err = %v; want ErrInvalidSpeed", err)
	}
	if err := sim.AddTrain("T2", 100, 100, Array[string]{"A", "X"}); !errors.Is(err, planner.ErrStationNotFound) {
		t.Errorf("err = %v; want ErrStationNotFound", err)
	}
	if err := sim.AddTrain("T2", 100, 100, Array[string]{"A", "D"}); !errors.Is(err, planner.ErrInvalidRoute) {
		t.Errorf("err = %v; want ErrInvalidRoute", err)
	}
	if err := sim.AddTrain("T2", 100, 100, Array[string]{}); !errors.Is(err, ErrEmptyRoute) {
		t.Errorf("err = %v; want ErrEmptyRoute", err)
	}
	if err := sim.StartTrain("T9"); !errors.Is(err, ErrTrainNotFound) {
		t.Errorf("err = %v; want ErrTrainNotFound", err)
	}
	if sim.TrainCount() != 1 {
		t.Errorf("TrainCount() = %v; want 1", sim.TrainCount())
	}
}

func TestSimulationSingleTrain(t *testing.T) {
	sim := newTestSimulator(t)
	sim.AddTrain("T1", 100, 100, Array[string]{"A", "B", "C"})

	sim.UpdateSimulation(10)
	if status := sim.GetTrainStatus("T1").Value; status.IsMoving {
		t.Errorf("train moved before it was started")
	}

	sim.StartTrain("T1")
	// 60 minutes to B, 30 minutes to C
	for i := 0; i < 9; i++ {
		sim.UpdateSimulation(10)
	}
	status := sim.GetTrainStatus("T1").Value
	if !status.HasReachedDest || status.CurrentStation != "C" || status.NextStation != "" {
		t.Errorf("status = %+v; want arrived at C", status)
	}
	if sim.SimulationTime() != 100 {
		t.Errorf("SimulationTime() = %v; want 100", sim.SimulationTime())
	}
	if sim.Controller().GetTrainsInRail("B", "C").Length() != 0 {
		t.Errorf("rail B -> C still occupied")
	}
}

func TestSimulationConflictWait(t *testing.T) {
	sim := newTestSimulator(t)
	for _, id := range []string{"T1", "T2"} {
		if err := sim.AddTrain(id, 100, 100, Array[string]{"A", "B"}); err != nil {
			t.Fatal(err)
		}
		sim.StartTrain(id)
	}

	tick := func() {
		sim.UpdateSimulation(10)
		if n := sim.Controller().GetTrainsInRail("A", "B").Length(); n > 1 {
			t.Fatalf("%v trains on A -> B at %v", n, sim.SimulationTime())
		}
	}

	tick()
	statuses := sim.GetAllTrainStatus()
	if statuses[0].TrainID != "T1" || statuses[1].TrainID != "T2" {
		t.Fatalf("statuses not in insertion order: %v", statuses)
	}
	if !statuses[0].IsMoving || statuses[0].State != "on_segment" {
		t.Errorf("T1 = %+v; want moving on segment", statuses[0])
	}
	if !statuses[1].IsWaiting || statuses[1].WaitingTime != 50 || statuses[1].IsMoving {
		t.Errorf("T2 = %+v; want waiting 50 minutes", statuses[1])
	}

	for sim.SimulationTime() < 60 {
		tick()
	}
	t1 := sim.GetTrainStatus("T1").Value
	t2 := sim.GetTrainStatus("T2").Value
	if !t1.HasReachedDest {
		t.Errorf("T1 = %+v; want arrived", t1)
	}
	if t2.IsWaiting || !t2.IsMoving || t2.TimeToNextStation != 50 {
		t.Errorf("T2 = %+v; want released and moving", t2)
	}

	for sim.SimulationTime() < 110 {
		tick()
	}
	if !sim.GetTrainStatus("T2").Value.HasReachedDest {
		t.Errorf("T2 did not arrive")
	}
	if stats := sim.Controller().Stats(); stats.Conflicts != 1 || stats.Waits != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStopTrainKeepsRail(t *testing.T) {
	sim := newTestSimulator(t)
	sim.AddTrain("T1", 100, 100, Array[string]{"A", "B"})
	sim.StartTrain("T1")
	sim.UpdateSimulation(10)

	sim.StopTrain("T1")
	sim.UpdateSimulation(10)
	sim.UpdateSimulation(10)
	status := sim.GetTrainStatus("T1").Value
	if status.TimeToNextStation != 50 || status.IsActive {
		t.Errorf("status = %+v; want paused with 50 minutes left", status)
	}
	occupants := sim.Controller().GetTrainsInRail("A", "B")
	if occupants.Length() != 1 || occupants[0].RemainingTime != 50 {
		t.Errorf("occupants = %v; want T1 with 50 minutes", occupants)
	}

	sim.StartTrain("T1")
	for i := 0; i < 5; i++ {
		sim.UpdateSimulation(10)
	}
	if !sim.GetTrainStatus("T1").Value.HasReachedDest {
		t.Errorf("T1 did not arrive after resuming")
	}
}

func TestRemoveTrain(t *testing.T) {
	sim := newTestSimulator(t)
	sim.AddTrain("T1", 100, 100, Array[string]{"A", "B"})
	sim.AddTrain("T2", 100, 100, Array[string]{"B", "C"})
	sim.StartTrain("T1")
	sim.UpdateSimulation(10)

	if err := sim.RemoveTrain("T1"); err != nil {
		t.Fatal(err)
	}
	if err := sim.RemoveTrain("T1"); !errors.Is(err, ErrTrainNotFound) {
		t.Errorf("err = %v; want ErrTrainNotFound", err)
	}
	if sim.GetTrainStatus("T1").HasValue() {
		t.Errorf("removed train still has a status")
	}
	if sim.Controller().GetTrainsInRail("A", "B").Length() != 0 {
		t.Errorf("removed train still occupies A -> B")
	}
	statuses := sim.GetAllTrainStatus()
	if statuses.Length() != 1 || statuses[0].TrainID != "T2" {
		t.Errorf("statuses = %v; want only T2", statuses)
	}
}

func TestTrainLocation(t *testing.T) {
	sim := newTestSimulator(t)
	network := sim.Planner().Network()
	network.SetStationLocation("A", orb.Point{0, 0})
	network.SetStationLocation("B", orb.Point{6, 0})

	sim.AddTrain("T1", 100, 100, Array[string]{"A", "B", "C"})
	if loc := sim.GetTrainStatus("T1").Value.Location; loc == nil || *loc != (orb.Point{0, 0}) {
		t.Errorf("location = %v; want station A", loc)
	}

	sim.StartTrain("T1")
	sim.UpdateSimulation(10)
	loc := sim.GetTrainStatus("T1").Value.Location
	if loc == nil || math.Abs(loc[0]-1) > 1e-9 || loc[1] != 0 {
		t.Errorf("location = %v; want [1 0]", loc)
	}

	for i := 0; i < 5; i++ {
		sim.UpdateSimulation(10)
	}
	// C has no coordinates
	for i := 0; i < 3; i++ {
		sim.UpdateSimulation(10)
	}
	if loc := sim.GetTrainStatus("T1").Value.Location; loc != nil {
		t.Errorf("location = %v; want none", loc)
	}
}
