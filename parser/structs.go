package parser

import (
	"github.com/paulmach/orb"
)

//*******************************************
// parser structs
//*******************************************

// Counts of the entries read from a railway file. Malformed lines are
// skipped and counted per block.
type LoadReport struct {
	Stations         int `json:"stations"`
	Rails            int `json:"rails"`
	Trains           int `json:"trains"`
	Schedules        int `json:"schedules"`
	SkippedRails     int `json:"skipped_rails"`
	SkippedTrains    int `json:"skipped_trains"`
	SkippedSchedules int `json:"skipped_schedules"`
}

func (self LoadReport) Skipped() int {
	return self.SkippedRails + self.SkippedTrains + self.SkippedSchedules
}

type OSMStation struct {
	Name  string
	Point orb.Point
}
