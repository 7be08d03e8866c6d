package structs

import (
	"fmt"

	"github.com/paulmach/orb"
	. "github.com/ttpr0/go-railway/util"
)

//*******************************************
// static network structs
//*******************************************

type Station struct {
	Name string
	Loc  Optional[orb.Point]
}

func NewStation(name string) *Station {
	return &Station{Name: name}
}

func (self *Station) String() string {
	return self.Name
}

// Rail is the data of one track between two stations.
//
// Distance in km, Time in minutes.
type Rail struct {
	Distance float64
	Price    float64
	Time     float64
}

// Travel time in minutes of a train with speed (km/h) along rail.
func TravelTime(rail Rail, speed float64) float64 {
	return rail.Distance / speed * 60
}

//*******************************************
// timetable structs
//*******************************************

// Train as given by the timetable input.
type Train struct {
	ID           string
	AverageSpeed float64
	PricePerKm   float64
}

type Schedule struct {
	TrainID   string
	StationA  string
	StationB  string
	Departure string
	Arrival   string
}

// TimeEvent is a station at an absolute minute. Minutes past 1440 belong
// to the following day.
type TimeEvent struct {
	Station string
	Minute  int32
}

func (self TimeEvent) String() string {
	return fmt.Sprintf("%s@%s", self.Station, FormatClock(self.Minute))
}

// Hop is an edge of the time-expanded graph. Hops without a train are
// waits at a station.
type Hop struct {
	Train    Optional[string]
	Duration int32
	Price    float64
	Distance float64
}

func NewRideHop(train string, duration int32, price, distance float64) Hop {
	return Hop{
		Train:    Some(train),
		Duration: duration,
		Price:    price,
		Distance: distance,
	}
}

func NewWaitHop(duration int32) Hop {
	return Hop{
		Train:    None[string](),
		Duration: duration,
	}
}

func (self Hop) IsWait() bool {
	return !self.Train.HasValue()
}
