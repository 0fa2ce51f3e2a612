package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/services"
	"github.com/statuscore-dev/statuscore/internal/utils"
)

type IncidentHandler struct {
	incidents *services.IncidentService
}

func NewIncidentHandler(incidents *services.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents}
}

type ReportRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type CreateIncidentRequest struct {
	Title      string        `json:"title" binding:"required"`
	MonitorIDs []uint        `json:"monitor_ids" binding:"required"`
	Report     ReportRequest `json:"report" binding:"required"`
}

type UpdateIncidentRequest struct {
	Title      string `json:"title" binding:"required"`
	MonitorIDs []uint `json:"monitor_ids" binding:"required"`
}

type IncidentMonitorResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type IncidentReportResponse struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type IncidentResponse struct {
	ID             uint                      `json:"id"`
	Title          string                    `json:"title"`
	Status         string                    `json:"status"`
	StartedAt      time.Time                 `json:"started_at"`
	AcknowledgedAt *time.Time                `json:"acknowledged_at"`
	ResolvedAt     *time.Time                `json:"resolved_at"`
	Monitors       []IncidentMonitorResponse `json:"monitors"`
	Reports        []IncidentReportResponse  `json:"reports"`
}

func toIncidentResponse(incident *models.Incident) IncidentResponse {
	monitors := make([]IncidentMonitorResponse, 0, len(incident.Monitors))

	for _, m := range incident.Monitors {
		monitors = append(monitors, IncidentMonitorResponse{
			ID:   m.ID,
			Name: m.Name,
			URL:  m.URL,
		})
	}

	reports := make([]IncidentReportResponse, 0, len(incident.Reports))

	for _, r := range incident.Reports {
		reports = append(reports, IncidentReportResponse{
			ID:        r.ID,
			Status:    r.Status,
			Message:   r.Message,
			Timestamp: r.Timestamp,
		})
	}

	return IncidentResponse{
		ID:             incident.ID,
		Title:          incident.Title,
		Status:         incident.CurrentStatus(),
		StartedAt:      incident.StartedAt,
		AcknowledgedAt: incident.AcknowledgedAt,
		ResolvedAt:     incident.ResolvedAt,
		Monitors:       monitors,
		Reports:        reports,
	}
}

func (h *IncidentHandler) Create(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	var body CreateIncidentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	incident, err := h.incidents.Create(workspaceID, body.Title, body.MonitorIDs, services.ReportInput{
		Status:  body.Report.Status,
		Message: body.Report.Message,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toIncidentResponse(incident))
}

func (h *IncidentHandler) List(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	incidents, err := h.incidents.List(workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]IncidentResponse, 0, len(incidents))

	for i := range incidents {
		response = append(response, toIncidentResponse(&incidents[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"incidents": response})
}

func (h *IncidentHandler) Get(ctx *gin.Context) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	incident, err := h.incidents.Get(incidentID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toIncidentResponse(incident))
}

func (h *IncidentHandler) Update(ctx *gin.Context) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	var body UpdateIncidentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	incident, err := h.incidents.Edit(incidentID, body.Title, body.MonitorIDs)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toIncidentResponse(incident))
}

func (h *IncidentHandler) Delete(ctx *gin.Context) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	if err := h.incidents.Delete(incidentID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Incident deleted successfully"})
}

func (h *IncidentHandler) AddReport(ctx *gin.Context) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	var body ReportRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := h.incidents.AddReport(incidentID, services.ReportInput{
		Status:  body.Status,
		Message: body.Message,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, IncidentReportResponse{
		ID:        report.ID,
		Status:    report.Status,
		Message:   report.Message,
		Timestamp: report.Timestamp,
	})
}

func (h *IncidentHandler) UpdateReport(ctx *gin.Context) {
	reportID, err := utils.GetReportID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var body ReportRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := h.incidents.EditReport(reportID, services.ReportInput{
		Status:  body.Status,
		Message: body.Message,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, IncidentReportResponse{
		ID:        report.ID,
		Status:    report.Status,
		Message:   report.Message,
		Timestamp: report.Timestamp,
	})
}

func (h *IncidentHandler) DeleteReport(ctx *gin.Context) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	reportID, err := utils.GetReportID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	if err := h.incidents.DeleteReport(reportID, incidentID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}
