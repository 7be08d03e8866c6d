package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/ttpr0/go-railway/comps"
	"golang.org/x/exp/slog"
)

var MANAGER *RailwayManager

func main() {
	config_file := flag.String("config", "./config.yaml", "path of the config file")
	export_file := flag.String("export", "", "writes the loaded network as json snapshot")
	flag.Parse()

	config := ReadConfig(*config_file)
	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, &slog.HandlerOptions{Level: config.Logging.Level})))

	manager, err := NewRailwayManager(config)
	if err != nil {
		slog.Error("failed to load railway: " + err.Error())
		os.Exit(1)
	}
	MANAGER = manager

	if *export_file != "" {
		if err := comps.StoreNetwork(MANAGER.Network(), *export_file); err != nil {
			slog.Error("failed to export network: " + err.Error())
		} else {
			slog.Info("exported network to " + *export_file)
		}
	}

	app := http.NewServeMux()
	MapRoutes(app)

	if config.Simulation.AutoStart {
		MANAGER.StartClock()
	}

	addr := fmt.Sprintf(":%v", config.Server.Port)
	slog.Info("listening on " + addr)
	if err := http.ListenAndServe(addr, app); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func MapRoutes(app *http.ServeMux) {
	MapGet(app, "/v0/network", HandleNetworkRequest)

	MapPost(app, "/v0/routing", HandleRoutingRequest)
	MapPost(app, "/v0/routing/timetable", HandleTimetableRoutingRequest)
	MapPost(app, "/v0/routing/statistics", HandleStatisticsRequest)

	MapPost(app, "/v0/simulation/trains/add", HandleAddTrainRequest)
	MapPost(app, "/v0/simulation/trains/remove", HandleRemoveTrainRequest)
	MapPost(app, "/v0/simulation/trains/start", HandleStartTrainRequest)
	MapPost(app, "/v0/simulation/trains/stop", HandleStopTrainRequest)
	MapGet(app, "/v0/simulation/status", HandleStatusRequest)
	MapGet(app, "/v0/simulation/rail", HandleRailRequest)

	MapGet(app, "/v0/simulation/clock", HandleClockRequest)
	MapPost(app, "/v0/simulation/clock/start", HandleStartClockRequest)
	MapPost(app, "/v0/simulation/clock/stop", HandleStopClockRequest)
	MapPost(app, "/v0/simulation/step", HandleStepRequest)

	app.Handle("/v0/simulation/ws", MANAGER.Hub())
}
