package models

import (
	"testing"
	"time"
)

func TestEventStatusAt(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := Event{StartsAt: start, Duration: 60}

	tests := []struct {
		name      string
		now       time.Time
		completed bool
		want      string
	}{
		{"before window", start.Add(-time.Minute), false, EventStatusNotStarted},
		{"at start", start, false, EventStatusInProgress},
		{"mid window", start.Add(30 * time.Minute), false, EventStatusInProgress},
		{"at planned end", start.Add(60 * time.Minute), false, EventStatusInProgress},
		{"past planned end", start.Add(90 * time.Minute), false, EventStatusDelayed},
		{"completed before window", start.Add(-time.Minute), true, EventStatusNotStarted},
		{"completed mid window", start.Add(30 * time.Minute), true, EventStatusInProgress},
		{"completed past planned end", start.Add(90 * time.Minute), true, EventStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := event
			e.Completed = tt.completed

			if got := e.StatusAt(tt.now); got != tt.want {
				t.Errorf("StatusAt(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestEventEndsAt(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := Event{StartsAt: start, Duration: 90}

	want := start.Add(90 * time.Minute)
	if got := event.EndsAt(); !got.Equal(want) {
		t.Errorf("EndsAt() = %v, want %v", got, want)
	}
}
