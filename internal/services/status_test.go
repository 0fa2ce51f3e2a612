package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/status"
)

func seedPing(t *testing.T, gdb *gorm.DB, monitorID uint, checkedAt time.Time, success bool) {
	t.Helper()

	ping := models.Ping{
		MonitorID: monitorID,
		Type:      models.MonitorTypeHTTP,
		Success:   success,
		Latency:   42,
		CheckedAt: checkedAt,
	}
	if err := gdb.Create(&ping).Error; err != nil {
		t.Fatalf("failed to seed ping: %v", err)
	}
}

func TestDayBlocksAggregation(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewStatusService(gdb)

	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	seedPing(t, gdb, monitor.ID, yesterday.Add(1*time.Hour), true)
	seedPing(t, gdb, monitor.ID, yesterday.Add(2*time.Hour), true)
	seedPing(t, gdb, monitor.ID, yesterday.Add(3*time.Hour), false)

	incident := models.Incident{
		WorkspaceID: workspace.ID,
		Title:       "API outage",
		StartedAt:   now.Add(-time.Hour),
		Monitors:    []models.Monitor{monitor},
	}
	if err := gdb.Create(&incident).Error; err != nil {
		t.Fatalf("failed to seed incident: %v", err)
	}

	blocks, err := svc.DayBlocks(monitor, 2, now)
	if err != nil {
		t.Fatalf("DayBlocks failed: %v", err)
	}

	if len(blocks) != 2 {
		t.Fatalf("block count = %d, want 2", len(blocks))
	}

	first := blocks[0]
	if !first.Date.Equal(yesterday) {
		t.Errorf("first block date = %v, want %v", first.Date, yesterday)
	}
	if first.TotalPings != 3 || first.FailedPings != 1 {
		t.Errorf("first block pings = %d/%d failed, want 3/1", first.TotalPings, first.FailedPings)
	}
	if first.Downtime != 1 {
		t.Errorf("first block downtime = %d minutes, want 1", first.Downtime)
	}

	// The open incident started an hour ago, so it lands on the current day
	today := blocks[1]
	if len(today.Incidents) != 1 {
		t.Errorf("today's incident count = %d, want 1", len(today.Incidents))
	}
	if got := status.BlockVariant(today); got != status.VariantDegraded {
		t.Errorf("today's variant = %q, want degraded", got)
	}
}

func TestUptimePercentage(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewStatusService(gdb)

	now := time.Now().UTC()

	seedPing(t, gdb, monitor.ID, now.Add(-3*time.Hour), true)
	seedPing(t, gdb, monitor.ID, now.Add(-2*time.Hour), true)
	seedPing(t, gdb, monitor.ID, now.Add(-1*time.Hour), false)

	got, err := svc.Uptime(monitor.ID, 45, now)
	if err != nil {
		t.Fatalf("Uptime failed: %v", err)
	}

	if got != 66.67 {
		t.Errorf("Uptime = %v, want 66.67", got)
	}

	// A monitor with no pings reads fully up
	idle := seedMonitor(t, gdb, workspace.ID, "idle")
	got, err = svc.Uptime(idle.ID, 45, now)
	if err != nil {
		t.Fatalf("Uptime(idle) failed: %v", err)
	}

	if got != 100 {
		t.Errorf("Uptime(idle) = %v, want 100", got)
	}
}

func TestUptimeWindowMatchesDayBlocks(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewStatusService(gdb)

	// Two-day window anchored at UTC midnight: 2026-03-10T00:00Z onward.
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	// Outside the window even though it is within the last 48 hours.
	seedPing(t, gdb, monitor.ID, time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC), false)

	seedPing(t, gdb, monitor.ID, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), true)
	seedPing(t, gdb, monitor.ID, time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC), false)

	got, err := svc.Uptime(monitor.ID, 2, now)
	if err != nil {
		t.Fatalf("Uptime failed: %v", err)
	}
	if got != 50 {
		t.Errorf("Uptime = %v, want 50", got)
	}

	blocks, err := svc.DayBlocks(monitor, 2, now)
	if err != nil {
		t.Fatalf("DayBlocks failed: %v", err)
	}

	total, failed := 0, 0
	for _, b := range blocks {
		total += b.TotalPings
		failed += b.FailedPings
	}
	if total != 2 || failed != 1 {
		t.Errorf("day block pings = %d/%d failed, want 2/1", total, failed)
	}
}

func TestPageVariantFromOpenIncidents(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	a := seedMonitor(t, gdb, workspace.ID, "api")
	b := seedMonitor(t, gdb, workspace.ID, "web")
	svc := NewStatusService(gdb)

	pageSvc := NewStatusPageService(gdb, domain.NewBus())
	page, err := pageSvc.Create(workspace.ID, StatusPageInput{
		Name:       "Main",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	variant, err := svc.PageVariant(page)
	if err != nil {
		t.Fatalf("PageVariant failed: %v", err)
	}
	if variant != status.VariantOperational {
		t.Errorf("variant = %q, want operational", variant)
	}

	incidentSvc := NewIncidentService(gdb, domain.NewBus())
	incident, err := incidentSvc.Create(workspace.ID, "API outage", []uint{a.ID}, ReportInput{
		Status:  models.ReportStatusInvestigating,
		Message: "Looking into it",
	})
	if err != nil {
		t.Fatalf("failed to create incident: %v", err)
	}

	variant, err = svc.PageVariant(page)
	if err != nil {
		t.Fatalf("PageVariant failed: %v", err)
	}
	if variant != status.VariantDegraded {
		t.Errorf("variant = %q, want degraded", variant)
	}

	if _, err := incidentSvc.Edit(incident.ID, "Full outage", []uint{a.ID, b.ID}); err != nil {
		t.Fatalf("failed to widen incident: %v", err)
	}

	variant, err = svc.PageVariant(page)
	if err != nil {
		t.Fatalf("PageVariant failed: %v", err)
	}
	if variant != status.VariantDown {
		t.Errorf("variant = %q, want down", variant)
	}

	// Resolving the incident clears the banner
	if _, err := incidentSvc.AddReport(incident.ID, ReportInput{Status: models.ReportStatusResolved, Message: "Fixed"}); err != nil {
		t.Fatalf("failed to resolve incident: %v", err)
	}

	variant, err = svc.PageVariant(page)
	if err != nil {
		t.Fatalf("PageVariant failed: %v", err)
	}
	if variant != status.VariantOperational {
		t.Errorf("variant after resolve = %q, want operational", variant)
	}
}
