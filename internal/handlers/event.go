package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/services"
	"github.com/statuscore-dev/statuscore/internal/utils"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type EventRequest struct {
	Title        string    `json:"title" binding:"required"`
	Message      string    `json:"message" binding:"required"`
	MonitorIDs   []uint    `json:"monitor_ids" binding:"required"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	Duration     int       `json:"duration" binding:"required"`
	AutoComplete bool      `json:"auto_complete"`
}

type EventResponse struct {
	ID           uint                      `json:"id"`
	Title        string                    `json:"title"`
	Message      string                    `json:"message"`
	Status       string                    `json:"status"`
	StartsAt     time.Time                 `json:"starts_at"`
	EndsAt       time.Time                 `json:"ends_at"`
	Duration     int                       `json:"duration"`
	AutoComplete bool                      `json:"auto_complete"`
	Completed    bool                      `json:"completed"`
	Monitors     []IncidentMonitorResponse `json:"monitors"`
}

func toEventResponse(event *models.Event, now time.Time) EventResponse {
	monitors := make([]IncidentMonitorResponse, 0, len(event.Monitors))

	for _, m := range event.Monitors {
		monitors = append(monitors, IncidentMonitorResponse{
			ID:   m.ID,
			Name: m.Name,
			URL:  m.URL,
		})
	}

	return EventResponse{
		ID:           event.ID,
		Title:        event.Title,
		Message:      event.Message,
		Status:       event.StatusAt(now),
		StartsAt:     event.StartsAt,
		EndsAt:       event.EndsAt(),
		Duration:     event.Duration,
		AutoComplete: event.AutoComplete,
		Completed:    event.Completed,
		Monitors:     monitors,
	}
}

func (h *EventHandler) Create(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	var body EventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	event, err := h.events.Create(workspaceID, services.EventInput{
		Title:        body.Title,
		Message:      body.Message,
		MonitorIDs:   body.MonitorIDs,
		StartsAt:     body.StartsAt,
		Duration:     body.Duration,
		AutoComplete: body.AutoComplete,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toEventResponse(event, time.Now()))
}

func (h *EventHandler) List(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	events, err := h.events.List(workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	now := time.Now()
	response := make([]EventResponse, 0, len(events))

	for i := range events {
		response = append(response, toEventResponse(&events[i], now))
	}

	ctx.JSON(http.StatusOK, gin.H{"events": response})
}

func (h *EventHandler) Get(ctx *gin.Context) {
	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.events.Get(eventID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toEventResponse(event, time.Now()))
}

func (h *EventHandler) Update(ctx *gin.Context) {
	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var body EventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	event, err := h.events.Edit(eventID, services.EventInput{
		Title:        body.Title,
		Message:      body.Message,
		MonitorIDs:   body.MonitorIDs,
		StartsAt:     body.StartsAt,
		Duration:     body.Duration,
		AutoComplete: body.AutoComplete,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toEventResponse(event, time.Now()))
}

func (h *EventHandler) Complete(ctx *gin.Context) {
	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.events.MarkCompleted(eventID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Event completed successfully"})
}

func (h *EventHandler) Delete(ctx *gin.Context) {
	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.events.Delete(eventID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
