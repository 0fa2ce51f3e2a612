package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/services"
	"github.com/statuscore-dev/statuscore/internal/utils"
)

type MonitorHandler struct {
	monitors *services.MonitorService
}

func NewMonitorHandler(monitors *services.MonitorService) *MonitorHandler {
	return &MonitorHandler{monitors: monitors}
}

type MonitorResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Interval int    `json:"interval"`
}

// List serves the workspace's monitors so incidents, events, channels
// and pages can be associated with them. Monitors are managed by the
// probing side of the product and are read-only here.
func (h *MonitorHandler) List(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	monitors, err := h.monitors.ListByWorkspace(workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]MonitorResponse, 0, len(monitors))

	for _, m := range monitors {
		response = append(response, MonitorResponse{
			ID:       m.ID,
			Name:     m.Name,
			Type:     m.Type,
			URL:      m.URL,
			Interval: m.Interval,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"monitors": response})
}
