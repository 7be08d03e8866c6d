package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) Config {
	slog.Info("Reading config file")
	data, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read config file: " + err.Error())
		panic(err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		slog.Error("failed to parse config file: " + err.Error())
		panic(err)
	}
	return config
}

func DefaultConfig() Config {
	config := Config{}
	config.Simulation.TickInterval = time.Second
	config.Simulation.Delta = 1
	config.Server.Port = 5002
	config.Logging.Level = LogLevel(slog.LevelInfo)
	return config
}

type Config struct {
	Railway struct {
		File      string `yaml:"file"`
		Locations string `yaml:"locations"`
	} `yaml:"railway"`
	Simulation SimulationOptions `yaml:"simulation"`
	Server     struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level LogLevel `yaml:"level"`
	} `yaml:"logging"`
}

type SimulationOptions struct {
	// wall clock time between two ticks
	TickInterval time.Duration `yaml:"tick-interval"`
	// simulated minutes per tick
	Delta     float64 `yaml:"delta"`
	AutoStart bool    `yaml:"auto-start"`
}

//**********************************************************
// enums
//**********************************************************

type MetricType byte

const (
	FASTEST  MetricType = 0
	CHEAPEST MetricType = 1
	SHORTEST MetricType = 2
)

func (self MetricType) String() string {
	switch self {
	case FASTEST:
		return "fastest"
	case CHEAPEST:
		return "cheapest"
	case SHORTEST:
		return "shortest"
	default:
		panic("unknown metric type")
	}
}
func (self MetricType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *MetricType) UnmarshalJSON(data []byte) error {
	var typ string
	err := json.Unmarshal(data, &typ)
	if err != nil {
		return err
	}
	*self, err = MetricTypeFromString(typ)
	return err
}
func (self MetricType) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *MetricType) UnmarshalYAML(value *yaml.Node) error {
	typ, err := MetricTypeFromString(value.Value)
	if err != nil {
		return err
	}
	*self = typ
	return nil
}

func MetricTypeFromString(s string) (MetricType, error) {
	switch s {
	case "fastest", "time", "":
		return FASTEST, nil
	case "cheapest", "price":
		return CHEAPEST, nil
	case "shortest", "distance":
		return SHORTEST, nil
	default:
		return FASTEST, errors.New("unknown metric type")
	}
}

type LogLevel slog.Level

func (self LogLevel) Level() slog.Level {
	return slog.Level(self)
}
func (self LogLevel) MarshalYAML() (any, error) {
	return slog.Level(self).String(), nil
}
func (self *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value.Value)); err != nil {
		return err
	}
	*self = LogLevel(level)
	return nil
}
