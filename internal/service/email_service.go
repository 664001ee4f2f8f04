package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"readiness_backend/internal/config"
	"readiness_backend/internal/model"
	"readiness_backend/internal/repository"
	"readiness_backend/pkg/logger"
	"readiness_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultMailgunBaseURL = "https://api.eu.mailgun.net/v3"

type EmailService struct {
	config      config.MailgunConfig
	app         config.AppConfig
	client      *http.Client
	assessments *repository.AssessmentRepository
	emailLogs   *repository.EmailLogRepository

	// Attempt delays; index 0 is the first attempt. Overridden in tests.
	retryDelays []time.Duration
}

func NewEmailService(cfg config.MailgunConfig, app config.AppConfig,
	assessments *repository.AssessmentRepository, emailLogs *repository.EmailLogRepository) *EmailService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultMailgunBaseURL
	}
	if cfg.From == "" {
		cfg.From = "E3 Digital <info@e3digital.net>"
	}
	return &EmailService{
		config:      cfg,
		app:         app,
		client:      &http.Client{Timeout: 15 * time.Second},
		assessments: assessments,
		emailLogs:   emailLogs,
		retryDelays: []time.Duration{0, 5 * time.Second, 30 * time.Second},
	}
}

// SendResultsParams carries everything the results email needs.
type SendResultsParams struct {
	AssessmentID   string
	RecipientEmail string
	ContactName    string
	ContactCompany string
	OverallScore   int
	ReadinessLevel string
	CategoryScores []model.CategoryScore
	TopGaps        []model.ScoringGap
	QuickWins      []string
}

// SendResults delivers the results email with bounded retries. It never
// returns an error: delivery is best-effort relative to the submission
// response, and every failure ends up in email_logs instead.
func (s *EmailService) SendResults(params SendResultsParams) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("email send panicked",
				zap.String("assessmentId", params.AssessmentID),
				zap.Any("panic", r))
		}
	}()

	label, ok := model.ReadinessLabels[params.ReadinessLevel]
	if !ok {
		label = params.ReadinessLevel
	}
	subject := fmt.Sprintf("Your Investor Readiness Score: %d/100 — %s", params.OverallScore, label)

	resultsURL := s.app.BaseURL + "/results/" + params.AssessmentID

	html, err := buildResultsEmail(
		params.ContactName, params.ContactCompany,
		params.OverallScore, params.ReadinessLevel,
		params.CategoryScores, params.TopGaps, params.QuickWins,
		resultsURL, s.app.BookingURL, resultsURL+"?unsubscribe=1",
	)
	if err != nil {
		logger.Log.Error("results email template failed",
			zap.String("assessmentId", params.AssessmentID), zap.Error(err))
		return
	}

	log := model.EmailLog{
		AssessmentID:   params.AssessmentID,
		Status:         model.EmailStatusPending,
		RecipientEmail: params.RecipientEmail,
		Subject:        subject,
	}
	if err := s.emailLogs.Create(&log); err != nil {
		logger.Log.Error("failed to create email log",
			zap.String("assessmentId", params.AssessmentID), zap.Error(err))
		return
	}

	lastFailure := ""
	for attempt, delay := range s.retryDelays {
		if attempt > 0 {
			time.Sleep(delay)
		}

		result := s.sendViaMailgun(params.RecipientEmail, subject, html)
		if result.success {
			if err := s.emailLogs.MarkSent(log.ID, result.messageID, attempt); err != nil {
				logger.Log.Error("failed to mark email sent", zap.Uint("logId", log.ID), zap.Error(err))
			}
			if err := s.assessments.MarkEmailSent(params.AssessmentID); err != nil {
				logger.Log.Error("failed to flag assessment email_sent",
					zap.String("assessmentId", params.AssessmentID), zap.Error(err))
			}
			monitoring.EmailCounter.WithLabelValues("sent").Inc()
			return
		}

		lastFailure = result.body
		logger.Log.Warn("results email attempt failed",
			zap.String("assessmentId", params.AssessmentID),
			zap.Int("attempt", attempt+1),
			zap.Int("status", result.status),
			zap.String("reason", result.body))

		// 4xx means the provider definitively rejected the request; only
		// network failures and 5xx responses consume the retry budget.
		if result.status != 0 && result.status < 500 {
			break
		}
	}

	if err := s.emailLogs.MarkFailed(log.ID, lastFailure); err != nil {
		logger.Log.Error("failed to mark email failed", zap.Uint("logId", log.ID), zap.Error(err))
	}
	monitoring.EmailCounter.WithLabelValues("failed").Inc()
}

type mailgunResult struct {
	success   bool
	messageID string
	status    int
	body      string
}

func (s *EmailService) sendViaMailgun(to, subject, html string) mailgunResult {
	if s.config.APIKey == "" || s.config.Domain == "" {
		return mailgunResult{status: 0, body: "mailgun not configured"}
	}

	form := url.Values{}
	form.Set("from", s.config.From)
	if s.config.ReplyTo != "" {
		form.Set("h:Reply-To", s.config.ReplyTo)
	}
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("html", html)

	endpoint := fmt.Sprintf("%s/%s/messages", s.config.BaseURL, s.config.Domain)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return mailgunResult{status: 0, body: err.Error()}
	}
	req.SetBasicAuth("api", s.config.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return mailgunResult{status: 0, body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var parsed struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return mailgunResult{status: resp.StatusCode, body: "unparseable mailgun response: " + err.Error()}
		}
		return mailgunResult{success: true, messageID: strings.Trim(parsed.ID, "<>")}
	}

	return mailgunResult{status: resp.StatusCode, body: string(body)}
}
