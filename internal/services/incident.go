package services

import (
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/models"
	"gorm.io/gorm"
)

// IncidentService owns the incident + report state machine. Every
// multi-row write runs in a single transaction; the matching domain event
// is published only after the transaction commits.
type IncidentService struct {
	db  *gorm.DB
	bus *domain.Bus
}

func NewIncidentService(db *gorm.DB, bus *domain.Bus) *IncidentService {
	return &IncidentService{db: db, bus: bus}
}

// ReportInput is the caller-supplied part of a report.
type ReportInput struct {
	Status  string
	Message string
}

func (in ReportInput) validate() error {
	if !models.ValidReportStatus(in.Status) {
		return apperr.Validation("invalid report status", "status")
	}

	if strings.TrimSpace(in.Message) == "" {
		return apperr.Validation("report message is required", "message")
	}

	return nil
}

// Create files a new incident together with its first report. All
// monitors must resolve within the workspace or nothing is written. A
// first report already at "identified" or "resolved" stamps the matching
// timestamp immediately.
func (s *IncidentService) Create(workspaceID uint, title string, monitorIDs []uint, first ReportInput) (*models.Incident, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("incident title is required", "title")
	}

	if len(monitorIDs) == 0 {
		return nil, apperr.Validation("at least one monitor is required", "monitor_ids")
	}

	if err := first.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	incident := models.Incident{
		WorkspaceID: workspaceID,
		Title:       title,
		StartedAt:   now,
	}

	switch first.Status {
	case models.ReportStatusIdentified:
		incident.AcknowledgedAt = &now
	case models.ReportStatusResolved:
		incident.ResolvedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		monitors, err := resolveMonitors(tx, workspaceID, monitorIDs)
		if err != nil {
			return err
		}

		if err := tx.Create(&incident).Error; err != nil {
			return apperr.Upstream(err, "failed to create incident")
		}

		if err := tx.Model(&incident).Association("Monitors").Append(&monitors); err != nil {
			return apperr.Upstream(err, "failed to link monitors")
		}

		report := models.IncidentReport{
			IncidentID: incident.ID,
			Status:     first.Status,
			Message:    first.Message,
			Timestamp:  now,
		}

		if err := tx.Create(&report).Error; err != nil {
			return apperr.Upstream(err, "failed to create first report")
		}

		incident.Monitors = monitors
		incident.Reports = []models.IncidentReport{report}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.IncidentCreated,
		WorkspaceID: workspaceID,
		IncidentID:  incident.ID,
	})

	return &incident, nil
}

// AddReport appends a report to an existing incident. Reports may still
// be appended after resolution; acknowledgedAt/resolvedAt are set-once
// markers and never move once stamped.
func (s *IncidentService) AddReport(incidentID uint, in ReportInput) (*models.IncidentReport, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var incident models.Incident

	if err := s.db.First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrIncidentNotFound, "add report failed", goerr.V("incident_id", incidentID))
		}
		return nil, apperr.Upstream(err, "failed to load incident")
	}

	now := time.Now().UTC()

	report := models.IncidentReport{
		IncidentID: incident.ID,
		Status:     in.Status,
		Message:    in.Message,
		Timestamp:  now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return apperr.Upstream(err, "failed to create report")
		}

		stamps := map[string]interface{}{}
		if in.Status == models.ReportStatusIdentified && incident.AcknowledgedAt == nil {
			stamps["acknowledged_at"] = now
		}
		if in.Status == models.ReportStatusResolved && incident.ResolvedAt == nil {
			stamps["resolved_at"] = now
		}

		if len(stamps) > 0 {
			if err := tx.Model(&incident).Updates(stamps).Error; err != nil {
				return apperr.Upstream(err, "failed to stamp incident")
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.IncidentReportAdded,
		WorkspaceID: incident.WorkspaceID,
		IncidentID:  incident.ID,
	})

	return &report, nil
}

// EditReport updates a report's status and message in place. The report's
// timestamp is untouched and incident stamps are not recomputed.
func (s *IncidentService) EditReport(reportID uint, in ReportInput) (*models.IncidentReport, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var report models.IncidentReport

	if err := s.db.Preload("Incident").First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrReportNotFound, "edit failed", goerr.V("report_id", reportID))
		}
		return nil, apperr.Upstream(err, "failed to load report")
	}

	report.Status = in.Status
	report.Message = in.Message

	if err := s.db.Model(&report).Updates(map[string]interface{}{
		"status":  in.Status,
		"message": in.Message,
	}).Error; err != nil {
		return nil, apperr.Upstream(err, "failed to update report")
	}

	s.bus.Publish(domain.Event{
		Type:        domain.IncidentReportEdited,
		WorkspaceID: report.Incident.WorkspaceID,
		IncidentID:  report.IncidentID,
	})

	return &report, nil
}

// DeleteReport removes a report. The last remaining report of an incident
// cannot be deleted, and no report of a resolved incident can.
func (s *IncidentService) DeleteReport(reportID, incidentID uint) error {
	var incident models.Incident

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&incident, incidentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return goerr.Wrap(apperr.ErrIncidentNotFound, "delete report failed", goerr.V("incident_id", incidentID))
			}
			return apperr.Upstream(err, "failed to load incident")
		}

		if incident.Resolved() {
			return goerr.Wrap(apperr.ErrIncidentResolved, "reports of a resolved incident are immutable", goerr.V("incident_id", incidentID))
		}

		var count int64
		if err := tx.Model(&models.IncidentReport{}).Where("incident_id = ?", incidentID).Count(&count).Error; err != nil {
			return apperr.Upstream(err, "failed to count reports")
		}

		if count <= 1 {
			return goerr.Wrap(apperr.ErrLastReportUndeletable, "incident must keep at least one report", goerr.V("incident_id", incidentID))
		}

		res := tx.Where("id = ? AND incident_id = ?", reportID, incidentID).Delete(&models.IncidentReport{})
		if res.Error != nil {
			return apperr.Upstream(res.Error, "failed to delete report")
		}

		if res.RowsAffected == 0 {
			return goerr.Wrap(apperr.ErrReportNotFound, "delete failed", goerr.V("report_id", reportID))
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.IncidentReportDeleted,
		WorkspaceID: incident.WorkspaceID,
		IncidentID:  incident.ID,
	})

	return nil
}

// Edit renames an incident and recomputes its monitor set as a diff:
// monitors only in the new list are linked, monitors only in the old list
// are unlinked, the intersection is untouched. A single unknown monitor
// id fails the whole edit.
func (s *IncidentService) Edit(incidentID uint, title string, monitorIDs []uint) (*models.Incident, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("incident title is required", "title")
	}

	if len(monitorIDs) == 0 {
		return nil, apperr.Validation("at least one monitor is required", "monitor_ids")
	}

	var incident models.Incident

	if err := s.db.Preload("Monitors").First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrIncidentNotFound, "edit failed", goerr.V("incident_id", incidentID))
		}
		return nil, apperr.Upstream(err, "failed to load incident")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		monitors, err := resolveMonitors(tx, incident.WorkspaceID, monitorIDs)
		if err != nil {
			return err
		}

		if err := tx.Model(&incident).Update("title", title).Error; err != nil {
			return apperr.Upstream(err, "failed to update incident")
		}

		next := make(map[uint]bool, len(monitorIDs))
		for _, id := range monitorIDs {
			next[id] = true
		}

		var toRemove []models.Monitor
		current := make(map[uint]bool, len(incident.Monitors))
		for _, m := range incident.Monitors {
			current[m.ID] = true
			if !next[m.ID] {
				toRemove = append(toRemove, m)
			}
		}

		var toAdd []models.Monitor
		for _, m := range monitors {
			if !current[m.ID] {
				toAdd = append(toAdd, m)
			}
		}

		if len(toRemove) > 0 {
			if err := tx.Model(&incident).Association("Monitors").Delete(&toRemove); err != nil {
				return apperr.Upstream(err, "failed to unlink monitors")
			}
		}

		if len(toAdd) > 0 {
			if err := tx.Model(&incident).Association("Monitors").Append(&toAdd); err != nil {
				return apperr.Upstream(err, "failed to link monitors")
			}
		}

		incident.Title = title
		incident.Monitors = monitors
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.IncidentUpdated,
		WorkspaceID: incident.WorkspaceID,
		IncidentID:  incident.ID,
	})

	return &incident, nil
}

// Delete removes the incident, its reports and its monitor links.
func (s *IncidentService) Delete(incidentID uint) error {
	var incident models.Incident

	if err := s.db.First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goerr.Wrap(apperr.ErrIncidentNotFound, "delete failed", goerr.V("incident_id", incidentID))
		}
		return apperr.Upstream(err, "failed to load incident")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&incident).Association("Monitors").Clear(); err != nil {
			return apperr.Upstream(err, "failed to unlink monitors")
		}

		if err := tx.Where("incident_id = ?", incident.ID).Delete(&models.IncidentReport{}).Error; err != nil {
			return apperr.Upstream(err, "failed to delete reports")
		}

		if err := tx.Delete(&incident).Error; err != nil {
			return apperr.Upstream(err, "failed to delete incident")
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.IncidentDeleted,
		WorkspaceID: incident.WorkspaceID,
		IncidentID:  incident.ID,
	})

	return nil
}

// Get loads one incident with its monitors and reports, newest report
// first. The newest report's status is the incident's current status.
func (s *IncidentService) Get(incidentID uint) (*models.Incident, error) {
	var incident models.Incident

	err := s.db.
		Preload("Monitors").
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC, id DESC")
		}).
		First(&incident, incidentID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrIncidentNotFound, "get failed", goerr.V("incident_id", incidentID))
		}
		return nil, apperr.Upstream(err, "failed to load incident")
	}

	return &incident, nil
}

// List returns the workspace's incidents, newest first.
func (s *IncidentService) List(workspaceID uint) ([]models.Incident, error) {
	var incidents []models.Incident

	err := s.db.
		Preload("Monitors").
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC, id DESC")
		}).
		Where("workspace_id = ?", workspaceID).
		Order("started_at DESC").
		Find(&incidents).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to list incidents")
	}

	return incidents, nil
}
