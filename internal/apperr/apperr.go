// Package apperr defines the error taxonomy shared by all core services.
// Errors carry goerr tags; handlers map tags to HTTP status codes in one
// place instead of inspecting sentinel values.
package apperr

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

var (
	TagValidation = goerr.NewTag("validation")
	TagNotFound   = goerr.NewTag("not_found")
	TagConflict   = goerr.NewTag("conflict")
	TagUpstream   = goerr.NewTag("upstream")
)

var (
	ErrMonitorNotFound    = goerr.New("monitor not found", goerr.T(TagNotFound))
	ErrIncidentNotFound   = goerr.New("incident not found", goerr.T(TagNotFound))
	ErrReportNotFound     = goerr.New("incident report not found", goerr.T(TagNotFound))
	ErrEventNotFound      = goerr.New("event not found", goerr.T(TagNotFound))
	ErrChannelNotFound    = goerr.New("notification channel not found", goerr.T(TagNotFound))
	ErrStatusPageNotFound = goerr.New("status page not found", goerr.T(TagNotFound))
	ErrWorkspaceNotFound  = goerr.New("workspace not found", goerr.T(TagNotFound))

	ErrLastReportUndeletable = goerr.New("cannot delete the last report of an incident", goerr.T(TagConflict))
	ErrIncidentResolved      = goerr.New("incident is resolved", goerr.T(TagConflict))
	ErrEventCompleted        = goerr.New("event is already completed", goerr.T(TagConflict))
	ErrDuplicateRootPage     = goerr.New("there is already a root status page", goerr.T(TagConflict))
)

// Validation builds a field-scoped validation error.
func Validation(msg string, field string) error {
	return goerr.New(msg, goerr.T(TagValidation), goerr.V("field", field))
}

// Upstream wraps a registry/store failure so callers can tell it apart
// from domain errors.
func Upstream(err error, msg string) error {
	return goerr.Wrap(err, msg, goerr.T(TagUpstream))
}

// HTTPStatus maps an error to the response status its tag implies.
func HTTPStatus(err error) int {
	switch {
	case goerr.HasTag(err, TagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, TagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, TagConflict):
		return http.StatusConflict
	case goerr.HasTag(err, TagUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
