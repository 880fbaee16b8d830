package models

import "time"

// IncidentStatus is the handling state of an incident
type IncidentStatus string

// IncidentStatus constants
const (
	IncidentNew        IncidentStatus = "new"
	IncidentInProgress IncidentStatus = "in_progress"
	IncidentResolved   IncidentStatus = "resolved"
	IncidentClosed     IncidentStatus = "closed"
)

// ReportSource is where an incident was reported from
type ReportSource string

// ReportSource constants
const (
	SourceApp   ReportSource = "app"
	SourceWeb   ReportSource = "web"
	SourceAdmin ReportSource = "admin"
)

// ParseReportSource normalizes and validates a report source
func ParseReportSource(s string) (ReportSource, bool) {
	switch src := ReportSource(normalize(s)); src {
	case SourceApp, SourceWeb, SourceAdmin:
		return src, true
	}
	return "", false
}

// Incident is a problem reported by a user about a bicycle
type Incident struct {
	ID          string         `json:"incident_id" db:"incident_id"`
	UserID      string         `json:"user_id" db:"user_id"`
	BicycleID   *string        `json:"bicycle_id,omitempty" db:"bicycle_id"`
	Description string         `json:"description" db:"description"`
	ReportedAt  time.Time      `json:"reported_at" db:"reported_at"`
	Status      IncidentStatus `json:"status" db:"status"`
	Source      ReportSource   `json:"source" db:"source"`
}

// IncidentInput is what a user submits when reporting an incident
type IncidentInput struct {
	ShortCode   string `json:"bicycle_code" binding:"required,max=20"`
	Description string `json:"description" binding:"required"`
	Source      string `json:"source" binding:"required,max=10"`
}
