package model

import "time"

// Rate-limited actions.
const (
	ActionAssessmentSubmit = "assessment_submit"
	ActionAssessmentRead   = "assessment_read"
)

// RateLimit is one fixed-window counter row. A new window starts a new row;
// the unique index makes concurrent first hits race cleanly.
type RateLimit struct {
	BaseModel
	IPHash      string    `gorm:"size:64;not null;uniqueIndex:idx_rate_limits_ip_action_window" json:"ipHash"`
	Action      string    `gorm:"size:64;not null;uniqueIndex:idx_rate_limits_ip_action_window" json:"action"`
	WindowStart time.Time `gorm:"not null;uniqueIndex:idx_rate_limits_ip_action_window" json:"windowStart"`
	Count       int       `gorm:"not null;default:1" json:"count"`
}

func (RateLimit) TableName() string {
	return "rate_limits"
}
