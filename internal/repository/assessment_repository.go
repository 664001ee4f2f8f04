package repository

import (
	"encoding/json"
	"errors"
	"readiness_backend/internal/model"
	"readiness_backend/internal/util"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateScore writes the full scoring result in one update. It is the only
// path that flips ai_scored to true.
func (r *AssessmentRepository) UpdateScore(id string, result *model.ScoringResult, aiModel string, processingMs int) error {
	categoryScores := make(map[string]int, len(result.Categories))
	for _, cat := range result.Categories {
		categoryScores[cat.Name] = cat.Score
	}

	scoresJSON, err := json.Marshal(categoryScores)
	if err != nil {
		return err
	}
	gapsJSON, err := json.Marshal(result.TopGaps)
	if err != nil {
		return err
	}
	winsJSON, err := json.Marshal(result.QuickWins)
	if err != nil {
		return err
	}
	recsJSON, err := json.Marshal(result.MediumTermRecommendations)
	if err != nil {
		return err
	}

	return r.DB.Model(&model.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"overall_score":         result.OverallScore,
			"readiness_level":       result.ReadinessLevel,
			"category_scores":       json.RawMessage(scoresJSON),
			"top_gaps":              json.RawMessage(gapsJSON),
			"quick_wins":            json.RawMessage(winsJSON),
			"recommendations":       json.RawMessage(recsJSON),
			"ai_scored":             true,
			"ai_model":              aiModel,
			"ai_processing_time_ms": processingMs,
		}).Error
}

// LinkAccount attaches an authenticated account to an anonymous submission.
// Linking is idempotent for the same account and conflicts for any other.
func (r *AssessmentRepository) LinkAccount(id, accountID string) error {
	a, err := r.FindByID(id)
	if err != nil {
		return err
	}

	if a.AccountID != nil {
		if *a.AccountID == accountID {
			return nil
		}
		return util.ErrAlreadyClaimed
	}

	return r.DB.Model(&model.Assessment{}).
		Where("id = ?", id).
		Update("account_id", accountID).Error
}

func (r *AssessmentRepository) MarkEmailSent(id string) error {
	return r.DB.Model(&model.Assessment{}).
		Where("id = ?", id).
		Update("email_sent", true).Error
}
