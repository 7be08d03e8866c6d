package parser

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/ttpr0/go-railway/comps"
	"github.com/ttpr0/go-railway/structs"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

var (
	ErrTruncated   = errors.New("railway file truncated")
	ErrInvalidFile = errors.New("invalid railway file")
)

//*******************************************
// railway text format
//*******************************************

// Reads a railway file, see ReadRailway.
func ParseRailway(file string) (*comps.Network, LoadReport, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, LoadReport{}, err
	}
	defer f.Close()
	network, report, err := ReadRailway(f)
	if err != nil {
		return nil, report, fmt.Errorf("%v: %w", file, err)
	}
	slog.Info(fmt.Sprintf("railway loaded from %v: %v stations, %v rails, %v trains, %v schedules, %v lines skipped", file, report.Stations, report.Rails, report.Trains, report.Schedules, report.Skipped()))
	return network, report, nil
}

// Reads a railway network from its line based text form:
//
//	<N>
//	<station name>                                  (N times)
//	<M>
//	<from>,<to>,<distance>,<price>,<time>           (M times)
//	<T>                                             (optional)
//	<train id>,<avg speed>,<price per km>,...       (T times)
//	<S>
//	<train id>,<from>,<to>,<HH:MM>,<HH:MM>          (S times)
//
// Blank lines and lines starting with '#' are ignored. Malformed entries
// are skipped and counted in the report, missing lines are an error.
func ReadRailway(reader io.Reader) (*comps.Network, LoadReport, error) {
	next, stop := iter.Pull2(iter.Seq2[int, string](ReadLines(reader)))
	defer stop()

	network := comps.NewNetwork()
	report := LoadReport{}

	// stations
	count, err := _ReadCount(next, "station")
	if err != nil {
		return nil, report, err
	}
	for i := 0; i < count; i++ {
		_, line, ok := next()
		if !ok {
			return nil, report, fmt.Errorf("%w: expected %v stations, got %v", ErrTruncated, count, i)
		}
		network.AddStation(line)
		report.Stations += 1
	}

	// rails
	count, err = _ReadCount(next, "rail")
	if err != nil {
		return nil, report, err
	}
	for i := 0; i < count; i++ {
		number, line, ok := next()
		if !ok {
			return nil, report, fmt.Errorf("%w: expected %v rails, got %v", ErrTruncated, count, i)
		}
		if err := _ParseRail(network, line); err != nil {
			slog.Warn(fmt.Sprintf("line %v: rail ignored: %v", number, err.Error()))
			report.SkippedRails += 1
			continue
		}
		report.Rails += 1
	}

	// trains, the timetable blocks are optional
	number, line, ok := next()
	if !ok {
		return network, report, nil
	}
	count, err = _ParseCount(number, line, "train")
	if err != nil {
		return nil, report, err
	}
	for i := 0; i < count; i++ {
		number, line, ok := next()
		if !ok {
			return nil, report, fmt.Errorf("%w: expected %v trains, got %v", ErrTruncated, count, i)
		}
		train, err := _ParseTrain(line)
		if err != nil {
			slog.Warn(fmt.Sprintf("line %v: train ignored: %v", number, err.Error()))
			report.SkippedTrains += 1
			continue
		}
		network.AddTrain(train)
		report.Trains += 1
	}

	// schedules
	count, err = _ReadCount(next, "schedule")
	if err != nil {
		return nil, report, err
	}
	for i := 0; i < count; i++ {
		number, line, ok := next()
		if !ok {
			return nil, report, fmt.Errorf("%w: expected %v schedules, got %v", ErrTruncated, count, i)
		}
		schedule, err := _ParseSchedule(network, line)
		if err != nil {
			slog.Warn(fmt.Sprintf("line %v: schedule ignored: %v", number, err.Error()))
			report.SkippedSchedules += 1
			continue
		}
		network.AddSchedule(schedule)
		report.Schedules += 1
	}

	return network, report, nil
}

func _ReadCount(next func() (int, string, bool), block string) (int, error) {
	number, line, ok := next()
	if !ok {
		return 0, fmt.Errorf("%w: missing %v count", ErrTruncated, block)
	}
	return _ParseCount(number, line, block)
}

func _ParseCount(number int, line string, block string) (int, error) {
	count, err := strconv.Atoi(line)
	if err != nil || count < 0 {
		return 0, fmt.Errorf("%w: line %v: invalid %v count %q", ErrInvalidFile, number, block, line)
	}
	return count, nil
}

func _SplitFields(line string, n int) ([]string, error) {
	fields := strings.Split(line, ",")
	if len(fields) < n {
		return nil, fmt.Errorf("expected %v fields, got %v", n, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func _ParseFloat(field string, name string) (float64, error) {
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %v %q", name, field)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative %v %q", name, field)
	}
	return value, nil
}

func _ParseRail(network *comps.Network, line string) error {
	fields, err := _SplitFields(line, 5)
	if err != nil {
		return err
	}
	if len(fields) != 5 {
		return fmt.Errorf("expected 5 fields, got %v", len(fields))
	}
	rail := structs.Rail{}
	if rail.Distance, err = _ParseFloat(fields[2], "distance"); err != nil {
		return err
	}
	if rail.Price, err = _ParseFloat(fields[3], "price"); err != nil {
		return err
	}
	if rail.Time, err = _ParseFloat(fields[4], "time"); err != nil {
		return err
	}
	return network.AddRail(fields[0], fields[1], rail)
}

func _ParseTrain(line string) (structs.Train, error) {
	fields, err := _SplitFields(line, 3)
	if err != nil {
		return structs.Train{}, err
	}
	train := structs.Train{ID: fields[0]}
	if train.ID == "" {
		return structs.Train{}, errors.New("empty train id")
	}
	if train.AverageSpeed, err = _ParseFloat(fields[1], "speed"); err != nil {
		return structs.Train{}, err
	}
	if train.PricePerKm, err = _ParseFloat(fields[2], "price per km"); err != nil {
		return structs.Train{}, err
	}
	return train, nil
}

func _ParseSchedule(network *comps.Network, line string) (structs.Schedule, error) {
	fields, err := _SplitFields(line, 5)
	if err != nil {
		return structs.Schedule{}, err
	}
	if len(fields) != 5 {
		return structs.Schedule{}, fmt.Errorf("expected 5 fields, got %v", len(fields))
	}
	schedule := structs.Schedule{
		TrainID:   fields[0],
		StationA:  fields[1],
		StationB:  fields[2],
		Departure: fields[3],
		Arrival:   fields[4],
	}
	if !network.GetTrain(schedule.TrainID).HasValue() {
		return structs.Schedule{}, fmt.Errorf("%w: %v", comps.ErrTrainNotFound, schedule.TrainID)
	}
	for _, station := range []string{schedule.StationA, schedule.StationB} {
		if !network.HasStation(station) {
			return structs.Schedule{}, fmt.Errorf("%w: %v", comps.ErrStationNotFound, station)
		}
	}
	for _, clock := range []string{schedule.Departure, schedule.Arrival} {
		if _, err := structs.ParseClock(clock); err != nil {
			return structs.Schedule{}, err
		}
	}
	return schedule, nil
}
