package service

import (
	"context"
	"encoding/json"
	"readiness_backend/internal/model"
	"readiness_backend/internal/repository"
	"readiness_backend/pkg/logger"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const viewCacheTTL = 5 * time.Minute

// AssessmentService serves the shaped public view and the claim operation.
type AssessmentService struct {
	assessments *repository.AssessmentRepository
	analytics   *repository.AnalyticsRepository
	redis       *redis.Client
}

func NewAssessmentService(assessments *repository.AssessmentRepository, analytics *repository.AnalyticsRepository,
	rdb *redis.Client) *AssessmentService {
	return &AssessmentService{
		assessments: assessments,
		analytics:   analytics,
		redis:       rdb,
	}
}

// PublicView is the shaped read-endpoint response. It never exposes the
// submitter's email or hashed IP.
type PublicView struct {
	ID                        string                `json:"id"`
	OverallScore              *int                  `json:"overallScore"`
	ReadinessLevel            *string               `json:"readinessLevel"`
	CategoryScores            []model.CategoryScore `json:"categoryScores"`
	TopGaps                   json.RawMessage       `json:"topGaps"`
	QuickWins                 json.RawMessage       `json:"quickWins"`
	MediumTermRecommendations json.RawMessage       `json:"mediumTermRecommendations"`
	ContactName               string                `json:"contactName"`
	ContactCompany            *string               `json:"contactCompany"`
	CreatedAt                 string                `json:"createdAt"`
	AIScored                  bool                  `json:"aiScored"`
	Pending                   bool                  `json:"pending"`
}

// Get returns the public view for an assessment. Scored views are cached in
// redis; pending views are always read fresh so a finished scoring run shows
// up immediately.
func (s *AssessmentService) Get(ctx context.Context, id string) (*PublicView, error) {
	cacheKey := "assessment:view:" + id

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var view PublicView
			if err := json.Unmarshal([]byte(cached), &view); err == nil {
				return &view, nil
			}
		}
	}

	a, err := s.assessments.FindByID(id)
	if err != nil {
		return nil, err
	}

	view := shapeView(a)

	if s.redis != nil && a.AIScored {
		if data, err := json.Marshal(view); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, viewCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache assessment view", zap.String("id", id), zap.Error(err))
			}
		}
	}

	return view, nil
}

// Claim links the assessment to an authenticated account. Claiming again
// with the same account is a no-op; a different account conflicts.
func (s *AssessmentService) Claim(id, accountID string) error {
	return s.assessments.LinkAccount(id, accountID)
}

// RecordView logs a results_viewed analytics event; called detached.
func (s *AssessmentService) RecordView(id, ipHash, userAgent string) {
	event := model.AnalyticsEvent{
		EventType:    model.EventResultsViewed,
		AssessmentID: &id,
		IPHash:       ipHash,
		UserAgent:    userAgent,
	}
	if err := s.analytics.Record(&event); err != nil {
		logger.Log.Warn("failed to record results view", zap.String("id", id), zap.Error(err))
	}
}

var emptyJSONArray = json.RawMessage("[]")

func shapeView(a *model.Assessment) *PublicView {
	categoryScores := []model.CategoryScore{}
	if len(a.CategoryScores) > 0 {
		var raw map[string]int
		if err := json.Unmarshal(a.CategoryScores, &raw); err == nil {
			for name, score := range raw {
				categoryScores = append(categoryScores, model.CategoryScore{Name: name, Score: score})
			}
			sort.SliceStable(categoryScores, func(i, j int) bool {
				if categoryScores[i].Score != categoryScores[j].Score {
					return categoryScores[i].Score > categoryScores[j].Score
				}
				return categoryScores[i].Name < categoryScores[j].Name
			})
		}
	}

	return &PublicView{
		ID:                        a.ID,
		OverallScore:              a.OverallScore,
		ReadinessLevel:            a.ReadinessLevel,
		CategoryScores:            categoryScores,
		TopGaps:                   orEmptyArray(a.TopGaps),
		QuickWins:                 orEmptyArray(a.QuickWins),
		MediumTermRecommendations: orEmptyArray(a.Recommendations),
		ContactName:               a.ContactName,
		ContactCompany:            a.ContactCompany,
		CreatedAt:                 a.CreatedAt.UTC().Format(time.RFC3339),
		AIScored:                  a.AIScored,
		Pending:                   !a.AIScored,
	}
}

func orEmptyArray(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return emptyJSONArray
	}
	return raw
}
