package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = gdb.AutoMigrate(
		&models.Workspace{},
		&models.Monitor{},
		&models.Ping{},
		&models.Incident{},
		&models.IncidentReport{},
		&models.Event{},
		&models.NotificationChannel{},
		&models.StatusPage{},
		&models.StatusPageMonitor{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb
}

func seedWorkspace(t *testing.T, gdb *gorm.DB, slug string) models.Workspace {
	t.Helper()

	workspace := models.Workspace{Name: slug, Slug: slug}
	if err := gdb.Create(&workspace).Error; err != nil {
		t.Fatalf("failed to seed workspace: %v", err)
	}

	return workspace
}

func seedMonitor(t *testing.T, gdb *gorm.DB, workspaceID uint, name string) models.Monitor {
	t.Helper()

	monitor := models.Monitor{
		WorkspaceID: workspaceID,
		Name:        name,
		Type:        models.MonitorTypeHTTP,
		URL:         fmt.Sprintf("https://%s.example.com", name),
		Interval:    60,
	}
	if err := gdb.Create(&monitor).Error; err != nil {
		t.Fatalf("failed to seed monitor: %v", err)
	}

	return monitor
}

// busRecorder captures published events for assertions.
type busRecorder struct {
	bus    *domain.Bus
	events []domain.Event
}

func newBusRecorder() *busRecorder {
	rec := &busRecorder{bus: domain.NewBus()}
	rec.bus.Subscribe(func(e domain.Event) {
		rec.events = append(rec.events, e)
	})
	return rec
}

func (r *busRecorder) last() (domain.Event, bool) {
	if len(r.events) == 0 {
		return domain.Event{}, false
	}
	return r.events[len(r.events)-1], true
}
