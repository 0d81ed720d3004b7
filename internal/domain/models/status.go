// internal/domain/models/status.go
package models

import "strings"

// ResourceStatus is the lifecycle state of an idle resource.
type ResourceStatus string

const (
	StatusIdle        ResourceStatus = "idle"
	StatusAssigned    ResourceStatus = "assigned"
	StatusProcessing  ResourceStatus = "processing"
	StatusUnavailable ResourceStatus = "unavailable"
)

// Statuses lists every valid status in display order.
var Statuses = []ResourceStatus{StatusIdle, StatusAssigned, StatusProcessing, StatusUnavailable}

// ParseStatus accepts a stored value or a display label, case-insensitively.
func ParseStatus(s string) (ResourceStatus, bool) {
	v := ResourceStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Statuses {
		if v == st {
			return st, true
		}
	}
	return "", false
}

// Label returns the human-facing name ("Idle", "Assigned", ...).
func (s ResourceStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
