package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(id), nil
}

func GetWorkspaceID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "workspace_id")
}

func GetIncidentID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "incident_id")
}

func GetReportID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "report_id")
}

func GetEventID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "event_id")
}

func GetChannelID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "channel_id")
}

func GetPageID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "page_id")
}

func GetMonitorID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "monitor_id")
}
