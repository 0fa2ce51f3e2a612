package domain

import (
	"time"
)

type EventType string

const (
	IncidentCreated       EventType = "incident.created"
	IncidentUpdated       EventType = "incident.updated"
	IncidentDeleted       EventType = "incident.deleted"
	IncidentReportAdded   EventType = "incident.report_added"
	IncidentReportEdited  EventType = "incident.report_edited"
	IncidentReportDeleted EventType = "incident.report_deleted"
	MaintenanceScheduled  EventType = "maintenance.scheduled"
	MaintenanceUpdated    EventType = "maintenance.updated"
	MaintenanceDeleted    EventType = "maintenance.deleted"
	MaintenanceCompleted  EventType = "maintenance.completed"
	StatusPageChanged     EventType = "status_page.changed"
)

// Event is emitted by every mutation of the core. It replaces ad-hoc
// view invalidation: downstream subscribers (notification dispatcher,
// websocket broadcaster) decide for themselves what to do with it.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	WorkspaceID uint      `json:"workspace_id"`
	IncidentID  uint      `json:"incident_id,omitempty"`
	EventID     uint      `json:"event_id,omitempty"`
	PageID      uint      `json:"page_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
