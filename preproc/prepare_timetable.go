package preproc

import (
	"fmt"

	"github.com/ttpr0/go-railway/comps"
	"github.com/ttpr0/go-railway/structs"
	"golang.org/x/exp/slog"
)

type BuildReport struct {
	Rides   int `json:"rides"`
	Waits   int `json:"waits"`
	Skipped int `json:"skipped"`
}

//*******************************************
// prepare timetable
//*******************************************

// Builds the time-expanded graph of the network's schedules.
//
// Every schedule becomes a ride between the departure event of its first
// station and the arrival event of its second station. Arrivals not after
// the departure are moved to the following day. Afterwards consecutive
// events of every station are connected by waits.
//
// Schedules that can not be resolved are skipped and counted.
func PrepareTimetable(network *comps.Network) (*comps.Timetable, BuildReport) {
	timetable := comps.NewTimetable()
	report := BuildReport{}

	for _, sch := range network.Schedules() {
		train := network.GetTrain(sch.TrainID)
		if !train.HasValue() {
			slog.Warn(fmt.Sprintf("schedule ignored, unknown train: %v", sch.TrainID))
			report.Skipped += 1
			continue
		}
		if !network.HasStation(sch.StationA) || !network.HasStation(sch.StationB) {
			slog.Warn(fmt.Sprintf("schedule ignored, unknown station: %v -> %v", sch.StationA, sch.StationB))
			report.Skipped += 1
			continue
		}
		departure, err := structs.ParseClock(sch.Departure)
		if err != nil {
			slog.Warn(fmt.Sprintf("schedule ignored: %v", err.Error()))
			report.Skipped += 1
			continue
		}
		arrival, err := structs.ParseClock(sch.Arrival)
		if err != nil {
			slog.Warn(fmt.Sprintf("schedule ignored: %v", err.Error()))
			report.Skipped += 1
			continue
		}
		arrival = structs.ArrivalAfter(departure, arrival)

		rail := network.GetRail(sch.StationA, sch.StationB)
		if !rail.HasValue() {
			slog.Warn(fmt.Sprintf("schedule ignored, edge not found: %v -> %v", sch.StationA, sch.StationB))
			report.Skipped += 1
			continue
		}
		distance := rail.Value.Distance
		price := distance * train.Value.PricePerKm
		travel := arrival - departure

		u := timetable.GetOrCreate(sch.StationA, departure)
		v := timetable.GetOrCreate(sch.StationB, arrival)
		timetable.AddRide(u, v, structs.NewRideHop(sch.TrainID, travel, price, distance))
		report.Rides += 1
	}

	for _, station := range timetable.Stations() {
		times := timetable.Times(station)
		for i := 1; i < times.Length(); i++ {
			prev := timetable.GetOrCreate(station, times[i-1])
			next := timetable.GetOrCreate(station, times[i])
			timetable.AddWait(prev, next)
			report.Waits += 1
		}
	}

	slog.Info(fmt.Sprintf("timetable prepared: %v events, %v rides, %v waits, %v schedules skipped", timetable.EventCount(), report.Rides, report.Waits, report.Skipped))
	return timetable, report
}
