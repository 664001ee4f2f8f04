package service

import (
	"context"
	"encoding/json"
	"fmt"
	"readiness_backend/internal/model"
	"readiness_backend/internal/repository"
	"readiness_backend/internal/util"
	"readiness_backend/internal/validation"
	"readiness_backend/pkg/logger"
	"readiness_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// SubmissionService sequences one inbound submission: bot check, persist,
// AI scoring, score update, then detached email dispatch. Everything before
// the insert aborts the request; everything after degrades to a pending
// state instead of failing it.
type SubmissionService struct {
	assessments *repository.AssessmentRepository
	analytics   *repository.AnalyticsRepository
	scoring     *ScoringService
	recaptcha   *RecaptchaService
	email       *EmailService
}

func NewSubmissionService(assessments *repository.AssessmentRepository, analytics *repository.AnalyticsRepository,
	scoring *ScoringService, recaptcha *RecaptchaService, email *EmailService) *SubmissionService {
	return &SubmissionService{
		assessments: assessments,
		analytics:   analytics,
		scoring:     scoring,
		recaptcha:   recaptcha,
		email:       email,
	}
}

type SubmitOutcome struct {
	AssessmentID string
	RedirectURL  string
	AIPending    bool
}

func (s *SubmissionService) Process(ctx context.Context, body *validation.SubmissionBody, ipHash, userAgent string) (*SubmitOutcome, error) {
	var recaptchaScore *float64
	if s.recaptcha.Enabled() {
		if body.RecaptchaToken == "" {
			return nil, util.ErrCaptchaFailed
		}
		passed, score := s.recaptcha.Verify(ctx, body.RecaptchaToken)
		if !passed {
			return nil, util.ErrCaptchaFailed
		}
		// Low scores are still scored by the AI; the score is kept for review.
		recaptchaScore = score
	}

	responsesJSON, err := json.Marshal(body.Responses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}

	assessment := model.Assessment{
		ContactName:     body.Responses.ContactName,
		ContactEmail:    body.Responses.ContactEmail,
		ContactCompany:  nilIfEmpty(body.Responses.ContactCompany),
		ContactLinkedin: nilIfEmpty(body.Responses.ContactLinkedin),
		ContactSource:   nilIfEmpty(body.Responses.ContactSource),
		Responses:       responsesJSON,
		AIScored:        false,
		IPHash:          ipHash,
		RecaptchaScore:  recaptchaScore,
	}

	if err := s.assessments.Create(&assessment); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}

	outcome := &SubmitOutcome{
		AssessmentID: assessment.ID,
		RedirectURL:  "/results/" + assessment.ID,
	}

	start := time.Now()
	result, err := s.scoring.Score(ctx, &body.Responses)
	if err != nil {
		// The record survives unscored and can be scored later or reviewed
		// manually; the submitter still gets a success response.
		outcome.AIPending = true
		monitoring.ScoringCounter.WithLabelValues("failed").Inc()
		logger.Log.Error("AI scoring failed, leaving assessment pending",
			zap.String("assessmentId", assessment.ID), zap.Error(err))
	} else {
		processingMs := int(time.Since(start).Milliseconds())
		if err := s.assessments.UpdateScore(assessment.ID, result, s.scoring.Model(), processingMs); err != nil {
			outcome.AIPending = true
			monitoring.ScoringCounter.WithLabelValues("failed").Inc()
			logger.Log.Error("failed to store scoring result",
				zap.String("assessmentId", assessment.ID), zap.Error(err))
		} else {
			monitoring.ScoringCounter.WithLabelValues("scored").Inc()

			categoryScores := make([]model.CategoryScore, 0, len(result.Categories))
			for _, cat := range result.Categories {
				categoryScores = append(categoryScores, model.CategoryScore{Name: cat.Name, Score: cat.Score})
			}

			// Fire-and-forget: delivery failures are only observable via
			// email_logs and the webhook, never via this request.
			go s.email.SendResults(SendResultsParams{
				AssessmentID:   assessment.ID,
				RecipientEmail: assessment.ContactEmail,
				ContactName:    assessment.ContactName,
				ContactCompany: body.Responses.ContactCompany,
				OverallScore:   result.OverallScore,
				ReadinessLevel: result.ReadinessLevel,
				CategoryScores: categoryScores,
				TopGaps:        result.TopGaps,
				QuickWins:      result.QuickWins,
			})
		}
	}

	go s.recordEvent(model.EventAssessmentCompleted, assessment.ID, ipHash, userAgent)

	return outcome, nil
}

func (s *SubmissionService) recordEvent(eventType, assessmentID, ipHash, userAgent string) {
	event := model.AnalyticsEvent{
		EventType:    eventType,
		AssessmentID: &assessmentID,
		IPHash:       ipHash,
		UserAgent:    userAgent,
	}
	if err := s.analytics.Record(&event); err != nil {
		logger.Log.Warn("failed to record analytics event",
			zap.String("eventType", eventType), zap.Error(err))
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
