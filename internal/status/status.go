// Package status is the read-time aggregation engine. Everything in here
// is a pure function of its inputs: it performs no writes and can be
// recomputed from scratch at any time with identical results.
package status

import (
	"time"

	"github.com/statuscore-dev/statuscore/internal/models"
)

const (
	VariantEmpty       = "empty"
	VariantOperational = "operational"
	VariantDegraded    = "degraded"
	VariantDown        = "down"
	VariantMaintenance = "maintenance"
)

// DayBlock aggregates one monitor's health for one calendar day.
type DayBlock struct {
	Date        time.Time         `json:"date"`
	TotalPings  int               `json:"total_pings"`
	FailedPings int               `json:"failed_pings"`
	Downtime    int               `json:"downtime"` // Minutes
	Incidents   []models.Incident `json:"incidents"`
	Events      []models.Event    `json:"events"`
}

// BlockVariant picks the display variant for a day block. Precedence,
// highest first: maintenance, degraded, empty, operational. An overlapping
// event wins even when every ping that day succeeded.
func BlockVariant(b DayBlock) string {
	if len(b.Events) > 0 {
		return VariantMaintenance
	}

	for _, incid := range b.Incidents {
		if !incid.Resolved() {
			return VariantDegraded
		}
	}

	if b.TotalPings == 0 {
		return VariantEmpty
	}

	return VariantOperational
}

// PageVariant derives the page-level status from the page's monitors and
// the open incidents touching them. Every monitor covered by an open
// incident means down; some covered means degraded.
func PageVariant(monitorIDs []uint, openIncidents []models.Incident) string {
	if len(monitorIDs) == 0 || len(openIncidents) == 0 {
		return VariantOperational
	}

	covered := make(map[uint]bool)
	for _, incid := range openIncidents {
		if incid.Resolved() {
			continue
		}
		for _, m := range incid.Monitors {
			covered[m.ID] = true
		}
	}

	hit := 0
	for _, id := range monitorIDs {
		if covered[id] {
			hit++
		}
	}

	switch {
	case hit == 0:
		return VariantOperational
	case hit == len(monitorIDs):
		return VariantDown
	default:
		return VariantDegraded
	}
}

// Overlaps reports whether the [start, end] window touches the day
// beginning at dayStart (UTC midnight).
func Overlaps(start, end, dayStart time.Time) bool {
	dayEnd := dayStart.Add(24 * time.Hour)
	return start.Before(dayEnd) && !end.Before(dayStart)
}

// IncidentWindow is the incident's active window for overlap checks. An
// unresolved incident extends to the given horizon.
func IncidentWindow(incid models.Incident, horizon time.Time) (time.Time, time.Time) {
	if incid.ResolvedAt != nil {
		return incid.StartedAt, *incid.ResolvedAt
	}
	return incid.StartedAt, horizon
}

// Uptime is the percentage of successful pings, rounded to two decimals.
// Zero pings yields 100 so an idle monitor does not read as down.
func Uptime(total, failed int) float64 {
	if total == 0 {
		return 100
	}
	pct := float64(total-failed) * 100 / float64(total)
	return float64(int(pct*100+0.5)) / 100
}
