package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"readiness_backend/internal/config"
	"readiness_backend/internal/repository"
	"readiness_backend/internal/util"
	"readiness_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

// WebhookService processes Mailgun delivery-event callbacks.
type WebhookService struct {
	signingKey  string
	emailLogs   *repository.EmailLogRepository
	assessments *repository.AssessmentRepository
}

func NewWebhookService(cfg config.MailgunConfig, emailLogs *repository.EmailLogRepository,
	assessments *repository.AssessmentRepository) *WebhookService {
	return &WebhookService{
		signingKey:  cfg.WebhookSigningKey,
		emailLogs:   emailLogs,
		assessments: assessments,
	}
}

type MailgunSignature struct {
	Timestamp string `json:"timestamp"`
	Token     string `json:"token"`
	Signature string `json:"signature"`
}

type MailgunDeliveryStatus struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

type MailgunEventData struct {
	Event   string `json:"event"`
	Message struct {
		Headers struct {
			MessageID string `json:"message-id"`
		} `json:"headers"`
	} `json:"message"`
	Timestamp      float64                `json:"timestamp"`
	DeliveryStatus *MailgunDeliveryStatus `json:"delivery-status"`
}

type MailgunWebhookPayload struct {
	Signature MailgunSignature `json:"signature"`
	EventData MailgunEventData `json:"event-data"`
}

// Handle verifies the payload signature and applies the delivery event.
// Unknown message ids and unrecognized event types are acknowledged no-ops:
// webhook delivery can race log creation or arrive duplicated.
func (s *WebhookService) Handle(payload *MailgunWebhookPayload) error {
	if s.signingKey != "" && !s.verifySignature(&payload.Signature) {
		return util.ErrInvalidSignature
	}

	messageID := strings.Trim(payload.EventData.Message.Headers.MessageID, "<>")
	log, err := s.emailLogs.FindByMessageID(messageID)
	if err != nil {
		return err
	}
	if log == nil {
		return nil
	}

	eventTime := time.Unix(int64(payload.EventData.Timestamp), 0)

	switch payload.EventData.Event {
	case "delivered":
		if err := s.emailLogs.MarkDelivered(log.ID, eventTime); err != nil {
			return err
		}
		// Mirror the flag onto the assessment.
		return s.assessments.MarkEmailSent(log.AssessmentID)
	case "opened":
		return s.emailLogs.MarkOpened(log.ID, eventTime)
	case "clicked":
		return s.emailLogs.MarkClicked(log.ID, eventTime)
	case "failed":
		return s.emailLogs.MarkDeliveryFailed(log.ID, eventTime, failureReason(payload.EventData.DeliveryStatus))
	case "complained":
		return s.emailLogs.MarkBounced(log.ID, eventTime, "Spam complaint")
	default:
		logger.Log.Debug("ignoring unrecognized mailgun event",
			zap.String("event", payload.EventData.Event),
			zap.String("messageId", messageID))
		return nil
	}
}

// verifySignature checks HMAC-SHA256(timestamp+token) with a constant-time
// comparison.
func (s *WebhookService) verifySignature(sig *MailgunSignature) bool {
	mac := hmac.New(sha256.New, []byte(s.signingKey))
	mac.Write([]byte(sig.Timestamp + sig.Token))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(sig.Signature)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, provided)
}

func failureReason(ds *MailgunDeliveryStatus) string {
	if ds == nil {
		return "Unknown failure"
	}
	if ds.Message != "" {
		return ds.Message
	}
	if ds.Description != "" {
		return ds.Description
	}
	return "Unknown failure"
}
