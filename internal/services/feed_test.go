package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/models"
)

func TestFeedOrdersItemsByDate(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	now := time.Now().UTC()

	// Resolved incidents date by resolvedAt, open ones by startedAt
	resolved := now.Add(-24 * time.Hour)
	older := models.Incident{
		WorkspaceID: workspace.ID,
		Title:       "Database outage",
		StartedAt:   now.Add(-72 * time.Hour),
		ResolvedAt:  &resolved,
		Reports: []models.IncidentReport{
			{Status: models.ReportStatusInvestigating, Message: "Primary down", Timestamp: now.Add(-72 * time.Hour)},
			{Status: models.ReportStatusResolved, Message: "Failover complete", Timestamp: resolved},
		},
	}
	if err := gdb.Create(&older).Error; err != nil {
		t.Fatalf("failed to seed incident: %v", err)
	}

	open := models.Incident{
		WorkspaceID: workspace.ID,
		Title:       "API outage",
		StartedAt:   now.Add(-48 * time.Hour),
		Reports: []models.IncidentReport{
			{Status: models.ReportStatusInvestigating, Message: "Elevated errors", Timestamp: now.Add(-48 * time.Hour)},
		},
	}
	if err := gdb.Create(&open).Error; err != nil {
		t.Fatalf("failed to seed incident: %v", err)
	}

	event := models.Event{
		WorkspaceID: workspace.ID,
		Title:       "Planned upgrade",
		Message:     "Upgrading the cluster",
		StartsAt:    now.Add(-12 * time.Hour),
		Duration:    60,
	}
	if err := gdb.Create(&event).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}

	page := &models.StatusPage{WorkspaceID: workspace.ID, Name: "Acme Status", Enabled: true, Root: true}
	if err := gdb.Create(page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	svc := NewFeedService(gdb, "http://localhost:3000", 45)

	out, err := svc.Build(page, FeedKindRSS)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Ascending by item date: open (T-48h), resolved (T-24h), event (T-12h)
	apiPos := strings.Index(out, "API outage")
	dbPos := strings.Index(out, "Database outage")
	eventPos := strings.Index(out, "Planned upgrade")

	if apiPos == -1 || dbPos == -1 || eventPos == -1 {
		t.Fatalf("feed missing items: api=%d db=%d event=%d", apiPos, dbPos, eventPos)
	}

	if !(apiPos < dbPos && dbPos < eventPos) {
		t.Errorf("item order wrong: api=%d db=%d event=%d", apiPos, dbPos, eventPos)
	}

	if !strings.Contains(out, "[Resolved]: Failover complete") {
		t.Error("feed missing labelled report line")
	}
}

func TestFeedWindowExcludesOldItems(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	now := time.Now().UTC()

	stale := models.Incident{
		WorkspaceID: workspace.ID,
		Title:       "Ancient outage",
		StartedAt:   now.AddDate(0, 0, -60),
	}
	if err := gdb.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed incident: %v", err)
	}

	page := &models.StatusPage{WorkspaceID: workspace.ID, Name: "Acme Status", Enabled: true, Root: true}
	if err := gdb.Create(page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	svc := NewFeedService(gdb, "http://localhost:3000", 45)

	out, err := svc.Build(page, FeedKindAtom)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if strings.Contains(out, "Ancient outage") {
		t.Error("feed contains an item older than the window")
	}
}

func TestFeedRejectsUnknownKind(t *testing.T) {
	gdb := testDB(t)
	page := &models.StatusPage{Name: "Acme Status", Enabled: true, Root: true}

	svc := NewFeedService(gdb, "http://localhost:3000", 45)

	if _, err := svc.Build(page, "json"); !goerr.HasTag(err, apperr.TagValidation) {
		t.Errorf("Build(json) error = %v, want validation error", err)
	}
}

func TestFindByDomain(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	pageSvc := NewStatusPageService(gdb, domain.NewBus())
	monitor := seedMonitor(t, gdb, workspace.ID, "api")

	root, err := pageSvc.Create(workspace.ID, StatusPageInput{
		Name:       "Main",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create(root) failed: %v", err)
	}

	custom, err := pageSvc.Create(workspace.ID, StatusPageInput{
		Name:       "EU",
		Enabled:    true,
		Domain:     "status.eu.example.com",
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create(custom) failed: %v", err)
	}

	disabled, err := pageSvc.Create(workspace.ID, StatusPageInput{
		Name:       "Draft",
		Domain:     "draft.example.com",
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create(disabled) failed: %v", err)
	}

	svc := NewFeedService(gdb, "http://localhost:3000", 45)

	got, err := svc.FindByDomain("status.eu.example.com")
	if err != nil {
		t.Fatalf("FindByDomain(custom) failed: %v", err)
	}
	if got.ID != custom.ID {
		t.Errorf("FindByDomain(custom) = page %d, want %d", got.ID, custom.ID)
	}

	// Unknown domains fall back to the root page
	got, err = svc.FindByDomain("unknown.example.com")
	if err != nil {
		t.Fatalf("FindByDomain(unknown) failed: %v", err)
	}
	if got.ID != root.ID {
		t.Errorf("FindByDomain(unknown) = page %d, want root %d", got.ID, root.ID)
	}

	if _, err := svc.FindByDomain("draft.example.com"); !errors.Is(err, apperr.ErrStatusPageNotFound) {
		t.Errorf("FindByDomain(disabled) error = %v, want ErrStatusPageNotFound (page %d is disabled)", err, disabled.ID)
	}
}
