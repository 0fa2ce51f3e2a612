package services

import (
	"errors"
	"testing"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/models"
)

func TestOnlyOneRootPage(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewStatusPageService(gdb, domain.NewBus())

	_, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "Main",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create(root) failed: %v", err)
	}

	_, err = svc.Create(workspace.ID, StatusPageInput{
		Name:       "Second",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{monitor.ID},
	})
	if !errors.Is(err, apperr.ErrDuplicateRootPage) {
		t.Errorf("Create(second root) error = %v, want ErrDuplicateRootPage", err)
	}

	// A non-root page with a domain is always fine
	if _, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "EU",
		Enabled:    true,
		Domain:     "status.eu.example.com",
		MonitorIDs: []uint{monitor.ID},
	}); err != nil {
		t.Errorf("Create(domain page) failed: %v", err)
	}
}

func TestDuplicateRootWritesNothing(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewStatusPageService(gdb, domain.NewBus())

	root, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "Main",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create(root) failed: %v", err)
	}

	// The rejected create rolls back as a whole, page monitors included
	_, err = svc.Create(workspace.ID, StatusPageInput{
		Name:       "Second",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{monitor.ID},
	})
	if !errors.Is(err, apperr.ErrDuplicateRootPage) {
		t.Fatalf("Create(second root) error = %v, want ErrDuplicateRootPage", err)
	}

	var pageCount, linkCount int64
	gdb.Model(&models.StatusPage{}).Count(&pageCount)
	gdb.Model(&models.StatusPageMonitor{}).Count(&linkCount)
	if pageCount != 1 || linkCount != 1 {
		t.Errorf("rows after rejected create = %d pages, %d links, want 1 and 1", pageCount, linkCount)
	}

	// Promoting another page to root is refused the same way
	other, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "EU",
		Enabled:    true,
		Domain:     "status.eu.example.com",
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create(domain page) failed: %v", err)
	}

	_, err = svc.Edit(other.ID, StatusPageInput{
		Name:       "EU",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{monitor.ID},
	})
	if !errors.Is(err, apperr.ErrDuplicateRootPage) {
		t.Errorf("Edit(promote to root) error = %v, want ErrDuplicateRootPage", err)
	}

	// Re-saving the root page itself as root stays legal
	if _, err := svc.Edit(root.ID, StatusPageInput{
		Name:       "Main",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{monitor.ID},
	}); err != nil {
		t.Errorf("Edit(root page) failed: %v", err)
	}
}

func TestRootPageIgnoresDomain(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewStatusPageService(gdb, domain.NewBus())

	page, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "Main",
		Root:       true,
		Domain:     "ignored.example.com",
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if page.Domain != nil {
		t.Errorf("root page domain = %q, want nil", *page.Domain)
	}
}

func TestEditReplacesMonitorOrder(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	a := seedMonitor(t, gdb, workspace.ID, "api")
	b := seedMonitor(t, gdb, workspace.ID, "web")
	svc := NewStatusPageService(gdb, domain.NewBus())

	page, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "Main",
		Root:       true,
		MonitorIDs: []uint{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	edited, err := svc.Edit(page.ID, StatusPageInput{
		Name:       "Main",
		Root:       true,
		MonitorIDs: []uint{b.ID, a.ID},
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	if len(edited.PageMonitors) != 2 {
		t.Fatalf("page monitor count = %d, want 2", len(edited.PageMonitors))
	}

	if edited.PageMonitors[0].MonitorID != b.ID || edited.PageMonitors[1].MonitorID != a.ID {
		t.Errorf("monitor order = [%d, %d], want [%d, %d]",
			edited.PageMonitors[0].MonitorID, edited.PageMonitors[1].MonitorID, b.ID, a.ID)
	}
}

func TestPagesForMonitorsSkipsDisabled(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	a := seedMonitor(t, gdb, workspace.ID, "api")
	b := seedMonitor(t, gdb, workspace.ID, "web")
	svc := NewStatusPageService(gdb, domain.NewBus())

	enabled, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "Main",
		Enabled:    true,
		Root:       true,
		MonitorIDs: []uint{a.ID},
	})
	if err != nil {
		t.Fatalf("Create(enabled) failed: %v", err)
	}

	if _, err := svc.Create(workspace.ID, StatusPageInput{
		Name:       "Draft",
		Domain:     "draft.example.com",
		MonitorIDs: []uint{b.ID},
	}); err != nil {
		t.Fatalf("Create(draft) failed: %v", err)
	}

	pages, err := svc.PagesForMonitors([]uint{a.ID, b.ID})
	if err != nil {
		t.Fatalf("PagesForMonitors failed: %v", err)
	}

	if len(pages) != 1 || pages[0].ID != enabled.ID {
		t.Errorf("got %d pages, want only page %d", len(pages), enabled.ID)
	}
}
