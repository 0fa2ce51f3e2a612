package services

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"gorm.io/gorm"
)

// MonitorService is the read-only face of the monitor registry. Monitors
// are owned by the probing side of the product; this core never writes
// them.
type MonitorService struct {
	db *gorm.DB
}

func NewMonitorService(db *gorm.DB) *MonitorService {
	return &MonitorService{db: db}
}

func (s *MonitorService) ListByWorkspace(workspaceID uint) ([]models.Monitor, error) {
	var monitors []models.Monitor

	if err := s.db.Where("workspace_id = ?", workspaceID).Order("name").Find(&monitors).Error; err != nil {
		return nil, apperr.Upstream(err, "failed to list monitors")
	}

	return monitors, nil
}

func (s *MonitorService) Resolve(workspaceID, monitorID uint) (*models.Monitor, error) {
	var monitor models.Monitor

	if err := s.db.Where("workspace_id = ? AND id = ?", workspaceID, monitorID).First(&monitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrMonitorNotFound, "resolve failed", goerr.V("monitor_id", monitorID))
		}
		return nil, apperr.Upstream(err, "failed to resolve monitor")
	}

	return &monitor, nil
}

// resolveMonitors loads every requested monitor within the workspace.
// Any id that does not resolve fails the whole call: callers use this to
// keep monitor-set edits all-or-nothing.
func resolveMonitors(tx *gorm.DB, workspaceID uint, ids []uint) ([]models.Monitor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var monitors []models.Monitor

	if err := tx.Where("workspace_id = ? AND id IN ?", workspaceID, ids).Find(&monitors).Error; err != nil {
		return nil, apperr.Upstream(err, "failed to query monitors")
	}

	found := make(map[uint]bool, len(monitors))
	for _, m := range monitors {
		found[m.ID] = true
	}

	for _, id := range ids {
		if !found[id] {
			return nil, goerr.Wrap(apperr.ErrMonitorNotFound, "unknown monitor in set", goerr.V("monitor_id", id))
		}
	}

	return monitors, nil
}
