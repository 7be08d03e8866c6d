package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

var ErrRunnerActive = errors.New("simulation clock is already running")

type TickEvent struct {
	RunID  uuid.UUID          `json:"run_id"`
	Time   float64            `json:"time"`
	Trains Array[TrainStatus] `json:"trains"`
}

//*******************************************
// runner
//*******************************************

// Runner owns a Simulator and serializes every access to it. The clock
// advances the simulation by a fixed number of minutes per tick and
// publishes the resulting state to all subscribers.
type Runner struct {
	id       uuid.UUID
	interval time.Duration
	delta    float64

	mu  sync.Mutex
	sim *Simulator

	sub_mu      sync.Mutex
	subscribers Dict[uuid.UUID, chan TickEvent]

	run_mu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(sim *Simulator, interval time.Duration, delta float64) *Runner {
	return &Runner{
		id:          uuid.New(),
		interval:    interval,
		delta:       delta,
		sim:         sim,
		subscribers: NewDict[uuid.UUID, chan TickEvent](10),
	}
}

func (self *Runner) ID() uuid.UUID {
	return self.id
}

// Runs fn with exclusive access to the simulator.
func (self *Runner) Do(fn func(sim *Simulator) error) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	return fn(self.sim)
}

// Advances the simulation by delta minutes and publishes the new state.
func (self *Runner) Step(delta float64) TickEvent {
	self.mu.Lock()
	self.sim.UpdateSimulation(delta)
	event := TickEvent{
		RunID:  self.id,
		Time:   self.sim.SimulationTime(),
		Trains: self.sim.GetAllTrainStatus(),
	}
	self.mu.Unlock()

	self._Publish(event)
	return event
}

// Ticks the clock until ctx is done.
func (self *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(self.interval)
	defer ticker.Stop()

	slog.Info(fmt.Sprintf("simulation %v started: %v minutes every %v", self.id, self.delta, self.interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info(fmt.Sprintf("simulation %v stopped", self.id))
			return
		case <-ticker.C:
			self.Step(self.delta)
		}
	}
}

// Starts the clock in the background.
func (self *Runner) Start(ctx context.Context) error {
	self.run_mu.Lock()
	defer self.run_mu.Unlock()

	if self.cancel != nil {
		return ErrRunnerActive
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	self.cancel = cancel
	self.done = done
	go func() {
		defer close(done)
		self.Run(ctx)
	}()
	return nil
}

// Stops a clock started with Start and waits for it to return.
func (self *Runner) Stop() {
	self.run_mu.Lock()
	defer self.run_mu.Unlock()

	if self.cancel == nil {
		return
	}
	self.cancel()
	<-self.done
	self.cancel = nil
	self.done = nil
}

func (self *Runner) IsRunning() bool {
	self.run_mu.Lock()
	defer self.run_mu.Unlock()

	return self.cancel != nil
}

//*******************************************
// subscriptions
//*******************************************

// Returns a channel receiving every tick. Ticks are dropped for
// subscribers that do not keep up.
func (self *Runner) Subscribe(buffer int) (uuid.UUID, <-chan TickEvent) {
	self.sub_mu.Lock()
	defer self.sub_mu.Unlock()

	id := uuid.New()
	ch := make(chan TickEvent, buffer)
	self.subscribers[id] = ch
	return id, ch
}

func (self *Runner) Unsubscribe(id uuid.UUID) {
	self.sub_mu.Lock()
	defer self.sub_mu.Unlock()

	ch, ok := self.subscribers[id]
	if !ok {
		return
	}
	delete(self.subscribers, id)
	close(ch)
}

func (self *Runner) _Publish(event TickEvent) {
	self.sub_mu.Lock()
	defer self.sub_mu.Unlock()

	for id, ch := range self.subscribers {
		select {
		case ch <- event:
		default:
			slog.Debug(fmt.Sprintf("subscriber %v is behind, tick %.1f dropped", id, event.Time))
		}
	}
}
