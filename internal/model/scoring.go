package model

// ScoringCategory is one of the ten sub-scores making up the assessment.
type ScoringCategory struct {
	Name           string `json:"name" validate:"required"`
	Score          int    `json:"score" validate:"min=0,max=100"`
	Justification  string `json:"justification" validate:"required"`
	Recommendation string `json:"recommendation" validate:"required"`
}

// ScoringGap is a surfaced weakness with remediation actions.
type ScoringGap struct {
	Title              string   `json:"title" validate:"required"`
	CurrentState       string   `json:"currentState" validate:"required"`
	RecommendedActions []string `json:"recommendedActions" validate:"required,min=1"`
}

// ScoringResult is the structured output the AI must return. The shape is
// validated strictly; anything off-schema triggers the correction retry.
type ScoringResult struct {
	OverallScore              int               `json:"overallScore" validate:"min=0,max=100"`
	ReadinessLevel            string            `json:"readinessLevel" validate:"required,oneof=investment_ready nearly_there early_stage too_early"`
	Categories                []ScoringCategory `json:"categories" validate:"required,len=10,dive"`
	TopGaps                   []ScoringGap      `json:"topGaps" validate:"required,min=1,max=3,dive"`
	QuickWins                 []string          `json:"quickWins" validate:"required,min=1,max=5,dive,required"`
	MediumTermRecommendations []string          `json:"mediumTermRecommendations" validate:"required,min=1,max=5,dive,required"`
}

// CategoryScore is the {name, score} pair used in the public read view and
// the results email.
type CategoryScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}
