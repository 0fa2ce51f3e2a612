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

// EventService manages planned maintenance windows. The temporal status
// of a window is derived at read time (models.Event.StatusAt); only the
// completed flag is stored.
type EventService struct {
	db  *gorm.DB
	bus *domain.Bus
}

func NewEventService(db *gorm.DB, bus *domain.Bus) *EventService {
	return &EventService{db: db, bus: bus}
}

// EventInput carries the mutable fields of a maintenance window.
type EventInput struct {
	Title        string
	Message      string
	MonitorIDs   []uint
	StartsAt     time.Time
	Duration     int // Minutes
	AutoComplete bool
}

func (in EventInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.Validation("event title is required", "title")
	}

	if strings.TrimSpace(in.Message) == "" {
		return apperr.Validation("event message is required", "message")
	}

	if in.StartsAt.IsZero() {
		return apperr.Validation("event start time is required", "starts_at")
	}

	if in.Duration < models.EventMinDuration || in.Duration > models.EventMaxDuration {
		return apperr.Validation("event duration must be between 1 and 1440 minutes", "duration")
	}

	return nil
}

func (s *EventService) Create(workspaceID uint, in EventInput) (*models.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	event := models.Event{
		WorkspaceID:  workspaceID,
		Title:        in.Title,
		Message:      in.Message,
		StartsAt:     in.StartsAt,
		Duration:     in.Duration,
		AutoComplete: in.AutoComplete,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		monitors, err := resolveMonitors(tx, workspaceID, in.MonitorIDs)
		if err != nil {
			return err
		}

		if err := tx.Create(&event).Error; err != nil {
			return apperr.Upstream(err, "failed to create event")
		}

		if len(monitors) > 0 {
			if err := tx.Model(&event).Association("Monitors").Append(&monitors); err != nil {
				return apperr.Upstream(err, "failed to link monitors")
			}
		}

		event.Monitors = monitors
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.MaintenanceScheduled,
		WorkspaceID: workspaceID,
		EventID:     event.ID,
	})

	return &event, nil
}

// Edit rewrites a window that has not completed yet. The monitor set is
// replaced wholesale; one unknown monitor fails the whole edit.
func (s *EventService) Edit(eventID uint, in EventInput) (*models.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var event models.Event

	if err := s.db.Preload("Monitors").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrEventNotFound, "edit failed", goerr.V("event_id", eventID))
		}
		return nil, apperr.Upstream(err, "failed to load event")
	}

	if event.Completed {
		return nil, goerr.Wrap(apperr.ErrEventCompleted, "completed events are immutable", goerr.V("event_id", eventID))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		monitors, err := resolveMonitors(tx, event.WorkspaceID, in.MonitorIDs)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":         in.Title,
			"message":       in.Message,
			"starts_at":     in.StartsAt,
			"duration":      in.Duration,
			"auto_complete": in.AutoComplete,
		}

		if err := tx.Model(&event).Updates(updates).Error; err != nil {
			return apperr.Upstream(err, "failed to update event")
		}

		if err := tx.Model(&event).Association("Monitors").Replace(&monitors); err != nil {
			return apperr.Upstream(err, "failed to relink monitors")
		}

		event.Title = in.Title
		event.Message = in.Message
		event.StartsAt = in.StartsAt
		event.Duration = in.Duration
		event.AutoComplete = in.AutoComplete
		event.Monitors = monitors
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.MaintenanceUpdated,
		WorkspaceID: event.WorkspaceID,
		EventID:     event.ID,
	})

	return &event, nil
}

// MarkCompleted flips the stored completed flag. Called by operators or
// by the auto-complete sweeper once the window elapses.
func (s *EventService) MarkCompleted(eventID uint) error {
	var event models.Event

	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goerr.Wrap(apperr.ErrEventNotFound, "complete failed", goerr.V("event_id", eventID))
		}
		return apperr.Upstream(err, "failed to load event")
	}

	if event.Completed {
		return nil
	}

	if err := s.db.Model(&event).Update("completed", true).Error; err != nil {
		return apperr.Upstream(err, "failed to complete event")
	}

	s.bus.Publish(domain.Event{
		Type:        domain.MaintenanceCompleted,
		WorkspaceID: event.WorkspaceID,
		EventID:     event.ID,
	})

	return nil
}

func (s *EventService) Delete(eventID uint) error {
	var event models.Event

	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goerr.Wrap(apperr.ErrEventNotFound, "delete failed", goerr.V("event_id", eventID))
		}
		return apperr.Upstream(err, "failed to load event")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&event).Association("Monitors").Clear(); err != nil {
			return apperr.Upstream(err, "failed to unlink monitors")
		}

		if err := tx.Delete(&event).Error; err != nil {
			return apperr.Upstream(err, "failed to delete event")
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.MaintenanceDeleted,
		WorkspaceID: event.WorkspaceID,
		EventID:     event.ID,
	})

	return nil
}

func (s *EventService) Get(eventID uint) (*models.Event, error) {
	var event models.Event

	if err := s.db.Preload("Monitors").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrEventNotFound, "get failed", goerr.V("event_id", eventID))
		}
		return nil, apperr.Upstream(err, "failed to load event")
	}

	return &event, nil
}

func (s *EventService) List(workspaceID uint) ([]models.Event, error) {
	var events []models.Event

	err := s.db.
		Preload("Monitors").
		Where("workspace_id = ?", workspaceID).
		Order("starts_at DESC").
		Find(&events).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to list events")
	}

	return events, nil
}

// ListElapsedAutoComplete returns uncompleted auto-complete windows whose
// planned end has passed. The sweeper marks them completed.
func (s *EventService) ListElapsedAutoComplete(now time.Time) ([]models.Event, error) {
	var events []models.Event

	err := s.db.
		Where("auto_complete = ? AND completed = ?", true, false).
		Find(&events).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to list auto-complete events")
	}

	elapsed := events[:0]
	for _, e := range events {
		if now.After(e.EndsAt()) {
			elapsed = append(elapsed, e)
		}
	}

	return elapsed, nil
}
