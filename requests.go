package main

type RoutingRequest struct {
	From   string     `json:"from"`
	To     string     `json:"to"`
	Metric MetricType `json:"metric"`
}

type TimetableRoutingRequest struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Departure string     `json:"departure"`
	Metric    MetricType `json:"metric"`
	// restricts rides to these trains if not empty
	Trains []string `json:"trains"`
}

type StatisticsRequest struct {
	Route    []string `json:"route"`
	MaxSpeed float64  `json:"max_speed"`
}

type AddTrainRequest struct {
	ID       string  `json:"id"`
	MaxSpeed float64 `json:"max_speed"`
	Capacity int     `json:"capacity"`
	// explicit stops, planned from From to To if empty
	Route  []string   `json:"route"`
	From   string     `json:"from"`
	To     string     `json:"to"`
	Metric MetricType `json:"metric"`
	Start  bool       `json:"start"`
}

type TrainRequest struct {
	ID string `json:"id"`
}

type StepRequest struct {
	Delta float64 `json:"delta"`
}

type StatusRequest struct {
	TrainID string `json:"train"`
}

type RailRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}
