package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"readiness_backend/internal/config"
	"readiness_backend/internal/model"
	"readiness_backend/internal/repository"
	"readiness_backend/pkg/database"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedScoredAssessment(t *testing.T, db *gorm.DB) *model.Assessment {
	t.Helper()
	score := 82
	level := model.ReadinessInvestmentReady
	a := &model.Assessment{
		ContactName:    "Jane Founder",
		ContactEmail:   "jane@example.com",
		Responses:      json.RawMessage(`{}`),
		OverallScore:   &score,
		ReadinessLevel: &level,
		AIScored:       true,
		IPHash:         "abc",
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed assessment: %v", err)
	}
	return a
}

func newEmailTestService(t *testing.T, db *gorm.DB, baseURL string) *EmailService {
	t.Helper()
	svc := NewEmailService(
		config.MailgunConfig{
			BaseURL: baseURL,
			APIKey:  "key-test",
			Domain:  "mg.example.com",
			From:    "Test <test@example.com>",
		},
		config.AppConfig{BaseURL: "https://app.example.com", BookingURL: "https://cal.example.com"},
		repository.NewAssessmentRepository(db),
		repository.NewEmailLogRepository(db),
	)
	// No sleeping in tests.
	svc.retryDelays = []time.Duration{0, 0, 0}
	return svc
}

func sendParamsFor(a *model.Assessment) SendResultsParams {
	return SendResultsParams{
		AssessmentID:   a.ID,
		RecipientEmail: a.ContactEmail,
		ContactName:    a.ContactName,
		OverallScore:   82,
		ReadinessLevel: model.ReadinessInvestmentReady,
		CategoryScores: []model.CategoryScore{
			{Name: "Team", Score: 90},
			{Name: "Traction", Score: 74},
		},
		TopGaps: []model.ScoringGap{
			{Title: "Sales motion", CurrentState: "Founder-led", RecommendedActions: []string{"Write the playbook"}},
		},
		QuickWins: []string{"Publish pricing"},
	}
}

func TestSendResultsSuccess(t *testing.T) {
	db := newServiceTestDB(t)
	a := seedScoredAssessment(t, db)

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/mg.example.com/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, _ := r.BasicAuth()
		if user != "api" || pass != "key-test" {
			t.Errorf("basic auth = %s:%s", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if to := r.PostForm.Get("to"); to != "jane@example.com" {
			t.Errorf("to = %s", to)
		}
		subject := r.PostForm.Get("subject")
		if !strings.Contains(subject, "82/100") || !strings.Contains(subject, "Investment Ready") {
			t.Errorf("subject = %q", subject)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "<msg-1@mg.example.com>", "message": "Queued"})
	}))
	defer srv.Close()

	svc := newEmailTestService(t, db, srv.URL)
	svc.SendResults(sendParamsFor(a))

	if requests != 1 {
		t.Fatalf("requests = %d, want 1", requests)
	}

	var log model.EmailLog
	if err := db.First(&log, "assessment_id = ?", a.ID).Error; err != nil {
		t.Fatalf("load email log: %v", err)
	}
	if log.Status != model.EmailStatusSent {
		t.Fatalf("status = %s, want sent", log.Status)
	}
	if log.MessageID != "msg-1@mg.example.com" {
		t.Fatalf("messageID = %q, angle brackets should be stripped", log.MessageID)
	}
	if log.SentAt == nil {
		t.Fatal("sentAt should be set")
	}

	var updated model.Assessment
	if err := db.First(&updated, "id = ?", a.ID).Error; err != nil {
		t.Fatalf("reload assessment: %v", err)
	}
	if !updated.EmailSent {
		t.Fatal("assessment email_sent should be true")
	}
}

func TestSendResultsRetriesOnServerError(t *testing.T) {
	db := newServiceTestDB(t)
	a := seedScoredAssessment(t, db)

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newEmailTestService(t, db, srv.URL)
	svc.SendResults(sendParamsFor(a))

	if requests != 3 {
		t.Fatalf("requests = %d, want 3", requests)
	}

	var log model.EmailLog
	if err := db.First(&log, "assessment_id = ?", a.ID).Error; err != nil {
		t.Fatalf("load email log: %v", err)
	}
	if log.Status != model.EmailStatusFailed {
		t.Fatalf("status = %s, want failed", log.Status)
	}
	if log.FailedAt == nil {
		t.Fatal("failedAt should be set")
	}
	if !strings.Contains(log.FailureReason, "upstream exploded") {
		t.Fatalf("failureReason = %q", log.FailureReason)
	}
}

func TestSendResultsStopsOnClientError(t *testing.T) {
	db := newServiceTestDB(t)
	a := seedScoredAssessment(t, db)

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "from address not allowed", http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := newEmailTestService(t, db, srv.URL)
	svc.SendResults(sendParamsFor(a))

	// A definitive rejection must not burn the remaining attempts.
	if requests != 1 {
		t.Fatalf("requests = %d, want 1", requests)
	}

	var log model.EmailLog
	if err := db.First(&log, "assessment_id = ?", a.ID).Error; err != nil {
		t.Fatalf("load email log: %v", err)
	}
	if log.Status != model.EmailStatusFailed {
		t.Fatalf("status = %s, want failed", log.Status)
	}
}
