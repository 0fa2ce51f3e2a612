package utils

import (
	"net/url"
	"strings"
)

// IsValidWebhookURL checks the shape of a webhook destination before any
// network call is attempted: absolute http(s) URL with a host.
func IsValidWebhookURL(raw string) bool {
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return false
	}

	parsed, err := url.Parse(raw)

	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	return parsed.Hostname() != ""
}
