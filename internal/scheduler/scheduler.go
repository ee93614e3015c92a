package scheduler

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/events"
)

// Status texts.
const (
	StatusOpen   = "Market: Open"
	StatusClosed = "Market: Closed"
)

// DefaultSpec fires every second.
const DefaultSpec = "* * * * * *"

// MarketHours is a wall-clock window [Open, Close) in local hours.
// There is no calendar or timezone awareness.
type MarketHours struct {
	Open  int
	Close int
}

// DefaultMarketHours is 9:00–16:00 local time.
var DefaultMarketHours = MarketHours{Open: 9, Close: 16}

// IsOpen reports whether t falls inside the window.
func (h MarketHours) IsOpen(t time.Time) bool {
	hour := t.Hour()
	return hour >= h.Open && hour < h.Close
}

// Status returns the human-readable status for t.
func (h MarketHours) Status(t time.Time) string {
	if h.IsOpen(t) {
		return StatusOpen
	}
	return StatusClosed
}

// Scheduler ticks on a fixed cadence and pushes events to the queue.
type Scheduler struct {
	Cron    *cron.Cron
	Queue   *events.Queue
	Hours   MarketHours
	Clock   func() time.Time
	stopped atomic.Bool
	ticks   atomic.Uint64
}

// NewScheduler creates a new Scheduler.
func NewScheduler(queue *events.Queue, hours MarketHours) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Queue: queue,
		Hours: hours,
		Clock: time.Now,
	}
}

// Register installs the tick job on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.Tick); err != nil {
		return fmt.Errorf("register tick: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop raises the shutdown flag and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	s.stopped.Store(true)
	<-s.Cron.Stop().Done()
	log.Info().Uint64("ticks", s.ticks.Load()).Msg("scheduler stopped")
}

// Tick runs one iteration. A panic inside the tick is logged and discarded.
func (s *Scheduler) Tick() {
	if s.stopped.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("scheduler tick failed")
		}
	}()
	s.tick(s.Clock())
}

func (s *Scheduler) tick(now time.Time) {
	s.ticks.Add(1)
	s.Queue.Push(events.StatusChanged(s.Hours.Status(now)))

	// one refresh per minute, on the zero second
	if now.Second() == 0 {
		s.Queue.Push(events.RefreshRequested())
	}
}

// cronLogger adapts cron's logger onto zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
