package services

import (
	"time"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/status"
	"gorm.io/gorm"
)

// StatusService loads the raw inputs of the aggregation engine and hands
// them to the pure functions in internal/status. It performs no writes.
type StatusService struct {
	db *gorm.DB
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// MonitorStatus is the public view of one monitor on a status page.
type MonitorStatus struct {
	Monitor models.Monitor    `json:"monitor"`
	Uptime  float64           `json:"uptime_percentage"`
	Days    []status.DayBlock `json:"days"`
}

type dayCount struct {
	Day    string
	Total  int
	Failed int
}

// DayBlocks rebuilds the per-day aggregates for one monitor over the last
// `days` calendar days (UTC), newest day last.
func (s *StatusService) DayBlocks(monitor models.Monitor, days int, now time.Time) ([]status.DayBlock, error) {
	now = now.UTC()
	windowStart := midnight(now).AddDate(0, 0, -(days - 1))

	var counts []dayCount

	err := s.db.
		Model(&models.Ping{}).
		Select("DATE(checked_at) AS day, COUNT(*) AS total, SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failed").
		Where("monitor_id = ? AND checked_at >= ?", monitor.ID, windowStart).
		Group("DATE(checked_at)").
		Scan(&counts).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to aggregate pings")
	}

	byDay := make(map[string]dayCount, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c
	}

	incidents, err := s.incidentsForMonitor(monitor.ID, windowStart)
	if err != nil {
		return nil, err
	}

	events, err := s.eventsForMonitor(monitor.ID, windowStart)
	if err != nil {
		return nil, err
	}

	blocks := make([]status.DayBlock, 0, days)

	for i := 0; i < days; i++ {
		dayStart := windowStart.AddDate(0, 0, i)

		block := status.DayBlock{
			Date: dayStart,
		}

		if c, ok := byDay[dayStart.Format("2006-01-02")]; ok {
			block.TotalPings = c.Total
			block.FailedPings = c.Failed
			block.Downtime = c.Failed * monitor.Interval / 60
		}

		for _, incid := range incidents {
			start, end := status.IncidentWindow(incid, now)
			if status.Overlaps(start, end, dayStart) {
				block.Incidents = append(block.Incidents, incid)
			}
		}

		for _, event := range events {
			if status.Overlaps(event.StartsAt, event.EndsAt(), dayStart) {
				block.Events = append(block.Events, event)
			}
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}

// Uptime is the monitor's success percentage over the same midnight-anchored
// window DayBlocks aggregates, so both figures agree on one overview.
func (s *StatusService) Uptime(monitorID uint, days int, now time.Time) (float64, error) {
	windowStart := midnight(now.UTC()).AddDate(0, 0, -(days - 1))

	var total, failed int64

	if err := s.db.Model(&models.Ping{}).
		Where("monitor_id = ? AND checked_at >= ?", monitorID, windowStart).
		Count(&total).Error; err != nil {
		return 0, apperr.Upstream(err, "failed to count pings")
	}

	if err := s.db.Model(&models.Ping{}).
		Where("monitor_id = ? AND checked_at >= ? AND success = ?", monitorID, windowStart, false).
		Count(&failed).Error; err != nil {
		return 0, apperr.Upstream(err, "failed to count failed pings")
	}

	return status.Uptime(int(total), int(failed)), nil
}

// PageVariant derives the page-level banner status from the open
// incidents touching the page's monitors.
func (s *StatusService) PageVariant(page *models.StatusPage) (string, error) {
	monitorIDs := make([]uint, 0, len(page.PageMonitors))
	for _, pm := range page.PageMonitors {
		monitorIDs = append(monitorIDs, pm.MonitorID)
	}

	if len(monitorIDs) == 0 {
		return status.VariantOperational, nil
	}

	var incidents []models.Incident

	err := s.db.
		Preload("Monitors").
		Joins("JOIN monitor_incidents ON monitor_incidents.incident_id = incidents.id").
		Where("monitor_incidents.monitor_id IN ? AND incidents.resolved_at IS NULL", monitorIDs).
		Distinct("incidents.*").
		Find(&incidents).Error

	if err != nil {
		return "", apperr.Upstream(err, "failed to load open incidents")
	}

	return status.PageVariant(monitorIDs, incidents), nil
}

// PageOverview builds the full public view of a status page.
func (s *StatusService) PageOverview(page *models.StatusPage, days int, now time.Time) ([]MonitorStatus, error) {
	out := make([]MonitorStatus, 0, len(page.PageMonitors))

	for _, pm := range page.PageMonitors {
		blocks, err := s.DayBlocks(pm.Monitor, days, now)
		if err != nil {
			return nil, err
		}

		uptime, err := s.Uptime(pm.MonitorID, days, now)
		if err != nil {
			return nil, err
		}

		out = append(out, MonitorStatus{
			Monitor: pm.Monitor,
			Uptime:  uptime,
			Days:    blocks,
		})
	}

	return out, nil
}

func (s *StatusService) incidentsForMonitor(monitorID uint, since time.Time) ([]models.Incident, error) {
	var incidents []models.Incident

	err := s.db.
		Joins("JOIN monitor_incidents ON monitor_incidents.incident_id = incidents.id").
		Where("monitor_incidents.monitor_id = ?", monitorID).
		Where("incidents.resolved_at IS NULL OR incidents.resolved_at >= ?", since).
		Find(&incidents).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to load incidents")
	}

	return incidents, nil
}

func (s *StatusService) eventsForMonitor(monitorID uint, since time.Time) ([]models.Event, error) {
	var events []models.Event

	err := s.db.
		Joins("JOIN monitor_events ON monitor_events.event_id = events.id").
		Where("monitor_events.monitor_id = ?", monitorID).
		Find(&events).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to load events")
	}

	// Filter to windows touching the aggregation range; end time is
	// derived so it cannot be filtered in SQL portably.
	kept := events[:0]
	for _, e := range events {
		if !e.EndsAt().Before(since) {
			kept = append(kept, e)
		}
	}

	return kept, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
