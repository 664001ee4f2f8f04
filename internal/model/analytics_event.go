package model

import "encoding/json"

// Analytics event types.
const (
	EventAssessmentCompleted = "assessment_completed"
	EventResultsViewed       = "results_viewed"
)

// AnalyticsEvent is a privacy-preserving server-side event record.
type AnalyticsEvent struct {
	BaseModel
	EventType    string          `gorm:"size:64;not null;index" json:"eventType"`
	AssessmentID *string         `gorm:"type:varchar(36);index" json:"assessmentId,omitempty"`
	Metadata     json.RawMessage `gorm:"type:json" json:"metadata,omitempty"`
	IPHash       string          `gorm:"size:64" json:"-"`
	UserAgent    string          `gorm:"size:512" json:"-"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
