package util

import (
	"net/url"
	"strings"
)

// Host returns the lowercased host component of raw, or "" if raw does
// not parse as a URL.
func Host(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
