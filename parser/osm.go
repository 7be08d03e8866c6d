package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/ttpr0/go-railway/comps"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

type _Scanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

//*******************************************
// osm station locations
//*******************************************

// Reads station nodes from an OpenStreetMap extract (.pbf or .osm) and
// assigns their coordinates to the stations of network with the same
// name. Returns the number of stations that got a location.
func ParseStationLocations(file string, network *comps.Network, decoder IStationDecoder) (int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var stations List[OSMStation]
	if strings.HasSuffix(file, ".pbf") {
		stations, err = ReadStationsPBF(f, decoder)
	} else {
		stations, err = ReadStationsXML(f, decoder)
	}
	if err != nil {
		return 0, fmt.Errorf("%v: %w", file, err)
	}
	count := AssignLocations(network, stations)
	slog.Info(fmt.Sprintf("%v station locations read from %v, %v of %v stations located", stations.Length(), file, count, network.StationCount()))
	return count, nil
}

func ReadStationsPBF(reader io.Reader, decoder IStationDecoder) (List[OSMStation], error) {
	scanner := osmpbf.New(context.Background(), reader, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	return _ScanStations(scanner, decoder)
}

func ReadStationsXML(reader io.Reader, decoder IStationDecoder) (List[OSMStation], error) {
	scanner := osmxml.New(context.Background(), reader)
	return _ScanStations(scanner, decoder)
}

func _ScanStations(scanner _Scanner, decoder IStationDecoder) (List[OSMStation], error) {
	defer scanner.Close()

	stations := NewList[OSMStation](100)
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			tags := Dict[string, string](object.TagMap())
			if !decoder.IsStation(tags) {
				continue
			}
			name := decoder.StationName(tags)
			if name == "" {
				continue
			}
			stations.Add(OSMStation{
				Name:  name,
				Point: orb.Point{object.Lon, object.Lat},
			})
		default:
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// Sets the location of every network station matching an osm station by
// name. The first osm station of a name wins.
func AssignLocations(network *comps.Network, stations List[OSMStation]) int {
	located := NewDict[string, bool](stations.Length())
	for _, station := range stations {
		if located.ContainsKey(station.Name) {
			continue
		}
		if err := network.SetStationLocation(station.Name, station.Point); err != nil {
			continue
		}
		located[station.Name] = true
	}
	return located.Length()
}
