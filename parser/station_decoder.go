package parser

import (
	. "github.com/ttpr0/go-railway/util"
)

type IStationDecoder interface {
	IsStation(tags Dict[string, string]) bool
	StationName(tags Dict[string, string]) string
}

// Decodes railway stations and halts.
type RailwayDecoder struct {
}

var railway_types = Dict[string, bool]{"station": true, "halt": true}

func (self *RailwayDecoder) IsStation(tags Dict[string, string]) bool {
	if railway_types.ContainsKey(tags.Get("railway")) {
		return true
	}
	if tags.Get("public_transport") == "station" && tags.Get("train") == "yes" {
		return true
	}
	return false
}
func (self *RailwayDecoder) StationName(tags Dict[string, string]) string {
	return tags.Get("name")
}
