package traffic

import (
	. "github.com/ttpr0/go-railway/util"
)

// ITrain is the view of a train the controller needs during one update.
type ITrain interface {
	ID() string
	MaxSpeed() float64
	CurrentStation() string
	// None once the train reached its destination.
	NextStation() Optional[string]
	Destination() string
	Route() Array[string]
	RouteIndex() int
	TimeToNextStation() float64
	SetTimeToNextStation(minutes float64)
	IsMoving() bool
	StartMoving()
	UpdateRoute(route Array[string]) error
}

type SegmentState byte

const (
	IDLE SegmentState = iota
	ENTERING
	ON_SEGMENT
	ARRIVED_AT_NEXT
)

func (self SegmentState) String() string {
	switch self {
	case IDLE:
		return "idle"
	case ENTERING:
		return "entering"
	case ON_SEGMENT:
		return "on_segment"
	case ARRIVED_AT_NEXT:
		return "arrived_at_next"
	default:
		return "unknown"
	}
}

// Directed rail between two stations.
type Segment = Tuple[string, string]

type Occupant struct {
	TrainID       string  `json:"train_id"`
	RemainingTime float64 `json:"remaining_time"`
}

type Stats struct {
	Entries   int `json:"entries"`
	Conflicts int `json:"conflicts"`
	Waits     int `json:"waits"`
	Reroutes  int `json:"reroutes"`
}

type _Position struct {
	state   SegmentState
	segment Optional[Segment]
}
