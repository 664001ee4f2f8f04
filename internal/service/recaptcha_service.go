package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"readiness_backend/internal/config"
	"readiness_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type RecaptchaService struct {
	config config.RecaptchaConfig
	client *http.Client
}

func NewRecaptchaService(cfg config.RecaptchaConfig) *RecaptchaService {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = defaultRecaptchaVerifyURL
	}
	return &RecaptchaService{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a verification secret is configured. With no
// secret (e.g. local dev) the bot check is skipped entirely.
func (s *RecaptchaService) Enabled() bool {
	return s.config.SecretKey != ""
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a reCAPTCHA token with the provider. Network or parse
// failures fail open — a provider outage must never block legitimate
// submissions — so those return passed with a nil score.
func (s *RecaptchaService) Verify(ctx context.Context, token string) (bool, *float64) {
	form := url.Values{}
	form.Set("secret", s.config.SecretKey)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return true, nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("recaptcha verification unreachable, failing open", zap.Error(err))
		return true, nil
	}
	defer resp.Body.Close()

	var data siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Log.Warn("recaptcha verification response unreadable, failing open", zap.Error(err))
		return true, nil
	}

	return data.Success, data.Score
}
