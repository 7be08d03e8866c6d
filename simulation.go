package main

import (
	"fmt"

	"github.com/ttpr0/go-railway/simulation"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

//**********************************************************
// train handlers
//**********************************************************

func HandleAddTrainRequest(req AddTrainRequest) Result {
	if req.ID == "" {
		return BadRequest("train id is required")
	}
	route := Array[string](req.Route)
	if route.Length() == 0 {
		path, err := _PlanStatic(MANAGER.Planner(), req.From, req.To, req.Metric)
		if err != nil {
			return ErrorResult(err)
		}
		if !path.Found() {
			return BadRequest(fmt.Sprintf("no route from %v to %v", req.From, req.To))
		}
		route = path.Vertices
	}

	var status simulation.TrainStatus
	err := MANAGER.Runner().Do(func(sim *simulation.Simulator) error {
		if err := sim.AddTrain(req.ID, req.MaxSpeed, req.Capacity, route); err != nil {
			return err
		}
		if req.Start {
			if err := sim.StartTrain(req.ID); err != nil {
				return err
			}
		}
		status = sim.GetTrainStatus(req.ID).Value
		return nil
	})
	if err != nil {
		return ErrorResult(err)
	}
	return OK(status)
}

func HandleRemoveTrainRequest(req TrainRequest) Result {
	err := MANAGER.Runner().Do(func(sim *simulation.Simulator) error {
		return sim.RemoveTrain(req.ID)
	})
	if err != nil {
		return ErrorResult(err)
	}
	return OK(req)
}

func HandleStartTrainRequest(req TrainRequest) Result {
	return _TrainAction(req.ID, (*simulation.Simulator).StartTrain)
}

func HandleStopTrainRequest(req TrainRequest) Result {
	return _TrainAction(req.ID, (*simulation.Simulator).StopTrain)
}

func _TrainAction(id string, action func(*simulation.Simulator, string) error) Result {
	var status simulation.TrainStatus
	err := MANAGER.Runner().Do(func(sim *simulation.Simulator) error {
		if err := action(sim, id); err != nil {
			return err
		}
		status = sim.GetTrainStatus(id).Value
		return nil
	})
	if err != nil {
		return ErrorResult(err)
	}
	return OK(status)
}

func HandleStatusRequest(req StatusRequest) Result {
	var result any
	err := MANAGER.Runner().Do(func(sim *simulation.Simulator) error {
		if req.TrainID == "" {
			result = sim.GetAllTrainStatus()
			return nil
		}
		status := sim.GetTrainStatus(req.TrainID)
		if !status.HasValue() {
			return fmt.Errorf("%w: %v", simulation.ErrTrainNotFound, req.TrainID)
		}
		result = status.Value
		return nil
	})
	if err != nil {
		return ErrorResult(err)
	}
	return OK(result)
}

func HandleRailRequest(req RailRequest) Result {
	var resp TrafficResponse
	MANAGER.Runner().Do(func(sim *simulation.Simulator) error {
		controller := sim.Controller()
		resp.Stats = controller.Stats()
		resp.Occupants = controller.GetTrainsInRail(req.From, req.To)
		return nil
	})
	return OK(resp)
}

//**********************************************************
// clock handlers
//**********************************************************

func HandleStepRequest(req StepRequest) Result {
	if req.Delta <= 0 {
		return BadRequest("delta must be positive")
	}
	if MANAGER.Runner().IsRunning() {
		return Conflict(simulation.ErrRunnerActive.Error())
	}
	return OK(MANAGER.Runner().Step(req.Delta))
}

func _ClockState() ClockResponse {
	runner := MANAGER.Runner()
	resp := ClockResponse{
		RunID:   runner.ID().String(),
		Running: runner.IsRunning(),
	}
	runner.Do(func(sim *simulation.Simulator) error {
		resp.Time = sim.SimulationTime()
		return nil
	})
	return resp
}

func HandleStartClockRequest(req none) Result {
	if err := MANAGER.StartClock(); err != nil {
		return ErrorResult(err)
	}
	slog.Info("simulation clock started")
	return OK(_ClockState())
}

func HandleStopClockRequest(req none) Result {
	MANAGER.StopClock()
	slog.Info("simulation clock stopped")
	return OK(_ClockState())
}

func HandleClockRequest(req none) Result {
	return OK(_ClockState())
}
