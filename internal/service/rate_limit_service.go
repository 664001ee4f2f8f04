package service

import (
	"readiness_backend/internal/config"
	"readiness_backend/internal/model"
	"readiness_backend/internal/repository"
)

// RateLimitService applies the configured fixed-window limits per action.
type RateLimitService struct {
	repo *repository.RateLimitRepository
	cfg  config.RateLimitConfig
}

func NewRateLimitService(repo *repository.RateLimitRepository, cfg config.RateLimitConfig) *RateLimitService {
	return &RateLimitService{repo: repo, cfg: cfg}
}

func (s *RateLimitService) SubmitAllowed(ipHash string) (bool, int, error) {
	return s.repo.Hit(ipHash, model.ActionAssessmentSubmit, s.cfg.SubmitWindow, s.cfg.SubmitMaxRequests)
}

func (s *RateLimitService) ReadAllowed(ipHash string) (bool, int, error) {
	return s.repo.Hit(ipHash, model.ActionAssessmentRead, s.cfg.ReadWindow, s.cfg.ReadMaxRequests)
}
