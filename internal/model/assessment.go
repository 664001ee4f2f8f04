package model

import (
	"encoding/json"
	"time"
)

// Readiness levels returned by the scoring model.
const (
	ReadinessInvestmentReady = "investment_ready"
	ReadinessNearlyThere     = "nearly_there"
	ReadinessEarlyStage      = "early_stage"
	ReadinessTooEarly        = "too_early"
)

// ReadinessLabels maps a readiness level to its display label.
var ReadinessLabels = map[string]string{
	ReadinessInvestmentReady: "Investment Ready",
	ReadinessNearlyThere:     "Nearly There",
	ReadinessEarlyStage:      "Early Stage",
	ReadinessTooEarly:        "Too Early",
}

// Assessment is one founder submission. Score fields stay null until the AI
// scoring step succeeds; AIScored is flipped only by UpdateScore.
type Assessment struct {
	UUIDBase
	ContactName     string  `gorm:"size:255;not null;index" json:"contactName"`
	ContactEmail    string  `gorm:"size:255;not null;index" json:"contactEmail"`
	ContactCompany  *string `gorm:"size:255" json:"contactCompany,omitempty"`
	ContactLinkedin *string `gorm:"size:512" json:"contactLinkedin,omitempty"`
	ContactSource   *string `gorm:"size:255" json:"contactSource,omitempty"`

	// Full form responses as submitted, kept verbatim.
	Responses json.RawMessage `gorm:"type:json;not null" json:"responses"`

	// Scoring results, populated by UpdateScore.
	OverallScore    *int            `json:"overallScore,omitempty"`
	ReadinessLevel  *string         `gorm:"size:32;index" json:"readinessLevel,omitempty"`
	CategoryScores  json.RawMessage `gorm:"type:json" json:"categoryScores,omitempty"`
	TopGaps         json.RawMessage `gorm:"type:json" json:"topGaps,omitempty"`
	QuickWins       json.RawMessage `gorm:"type:json" json:"quickWins,omitempty"`
	Recommendations json.RawMessage `gorm:"type:json" json:"recommendations,omitempty"`

	// AI processing metadata.
	AIScored           bool   `gorm:"default:false" json:"aiScored"`
	AIModel            string `gorm:"size:128" json:"aiModel,omitempty"`
	AIProcessingTimeMs int    `gorm:"column:ai_processing_time_ms;default:0" json:"aiProcessingTimeMs,omitempty"`

	EmailSent bool `gorm:"default:false" json:"emailSent"`

	// Set once the submitter claims the record from an authenticated session.
	AccountID *string `gorm:"size:128;index" json:"accountId,omitempty"`

	// Abuse prevention. Raw IPs are never stored.
	IPHash         string   `gorm:"size:64;index" json:"-"`
	RecaptchaScore *float64 `json:"-"`

	EmailLogs []EmailLog `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// Email delivery statuses. Transitions run forward only:
// pending -> sent -> delivered -> opened/clicked, or -> failed/bounced.
const (
	EmailStatusPending   = "pending"
	EmailStatusSent      = "sent"
	EmailStatusDelivered = "delivered"
	EmailStatusOpened    = "opened"
	EmailStatusClicked   = "clicked"
	EmailStatusFailed    = "failed"
	EmailStatusBounced   = "bounced"
)

// EmailLog tracks one results-email attempt; Mailgun webhooks update it.
type EmailLog struct {
	BaseModel
	AssessmentID   string     `gorm:"type:varchar(36);not null;index" json:"assessmentId"`
	MessageID      string     `gorm:"size:255;index" json:"messageId,omitempty"`
	Status         string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RecipientEmail string     `gorm:"size:255;not null" json:"recipientEmail"`
	Subject        string     `gorm:"size:512" json:"subject,omitempty"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
	OpenedAt       *time.Time `json:"openedAt,omitempty"`
	ClickedAt      *time.Time `json:"clickedAt,omitempty"`
	FailedAt       *time.Time `json:"failedAt,omitempty"`
	FailureReason  string     `gorm:"type:text" json:"failureReason,omitempty"`
	RetryCount     int        `gorm:"default:0" json:"retryCount"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
