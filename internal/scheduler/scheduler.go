package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/statuscore-dev/statuscore/internal/services"
)

// Scheduler sweeps maintenance events whose window has elapsed and
// marks the ones flagged for auto completion.
type Scheduler struct {
	events   *services.EventService
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewScheduler(events *services.EventService, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		events:   events,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the sweep loop until Stop is called. One sweep fires
// immediately so elapsed events are not left pending for a full tick
// after a restart.
func (s *Scheduler) Start() {
	log.Printf("Starting auto-complete scheduler (interval %s)", s.interval)

	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the sweep loop.
func (s *Scheduler) Stop() {
	log.Println("Stopping auto-complete scheduler...")
	s.cancel()
}

func (s *Scheduler) sweep() {
	elapsed, err := s.events.ListElapsedAutoComplete(time.Now())
	if err != nil {
		log.Printf("Auto-complete sweep failed: %v", err)
		return
	}

	for _, event := range elapsed {
		if err := s.events.MarkCompleted(event.ID); err != nil {
			log.Printf("Failed to auto-complete event %d (%s): %v", event.ID, event.Title, err)
			continue
		}

		log.Printf("Auto-completed event %d (%s)", event.ID, event.Title)
	}
}
