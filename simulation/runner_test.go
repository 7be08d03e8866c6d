package simulation

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/ttpr0/go-railway/util"
)

func TestRunnerStepPublishes(t *testing.T) {
	sim := newTestSimulator(t)
	runner := NewRunner(sim, time.Second, 10)
	err := runner.Do(func(sim *Simulator) error {
		if err := sim.AddTrain("T1", 100, 100, Array[string]{"A", "B"}); err != nil {
			return err
		}
		return sim.StartTrain("T1")
	})
	if err != nil {
		t.Fatal(err)
	}

	id, ticks := runner.Subscribe(1)
	event := runner.Step(10)
	if event.RunID != runner.ID() || event.Time != 10 || event.Trains.Length() != 1 {
		t.Errorf("event = %+v", event)
	}
	received := <-ticks
	if received.Time != 10 || received.Trains[0].TrainID != "T1" {
		t.Errorf("received = %+v", received)
	}

	// full buffers drop ticks instead of blocking
	runner.Step(10)
	runner.Step(10)
	if received := <-ticks; received.Time != 20 {
		t.Errorf("received time = %v; want 20", received.Time)
	}

	runner.Unsubscribe(id)
	if _, ok := <-ticks; ok {
		t.Errorf("channel not closed after Unsubscribe")
	}
	runner.Unsubscribe(id)
}

func TestRunnerDoReturnsError(t *testing.T) {
	runner := NewRunner(newTestSimulator(t), time.Second, 1)
	err := runner.Do(func(sim *Simulator) error {
		return sim.StartTrain("T9")
	})
	if !errors.Is(err, ErrTrainNotFound) {
		t.Errorf("err = %v; want ErrTrainNotFound", err)
	}
}

func TestRunnerStartStop(t *testing.T) {
	runner := NewRunner(newTestSimulator(t), time.Millisecond, 1)
	_, ticks := runner.Subscribe(100)

	if err := runner.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := runner.Start(context.Background()); !errors.Is(err, ErrRunnerActive) {
		t.Errorf("err = %v; want ErrRunnerActive", err)
	}
	if !runner.IsRunning() {
		t.Errorf("IsRunning() = false")
	}

	select {
	case event := <-ticks:
		if event.Time <= 0 {
			t.Errorf("event time = %v", event.Time)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick received")
	}

	runner.Stop()
	if runner.IsRunning() {
		t.Errorf("IsRunning() = true after Stop")
	}
	runner.Stop()

	var now float64
	runner.Do(func(sim *Simulator) error {
		now = sim.SimulationTime()
		return nil
	})
	time.Sleep(10 * time.Millisecond)
	runner.Do(func(sim *Simulator) error {
		if sim.SimulationTime() != now {
			t.Errorf("clock advanced after Stop")
		}
		return nil
	})
}

func TestHubStreamsTicks(t *testing.T) {
	runner := NewRunner(newTestSimulator(t), time.Second, 5)
	hub := NewHub(runner)
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(time.Millisecond)
	}

	runner.Step(5)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event TickEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatal(err)
	}
	if event.RunID != runner.ID() || event.Time != 5 {
		t.Errorf("event = %+v", event)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not removed")
		}
		time.Sleep(time.Millisecond)
	}
}
