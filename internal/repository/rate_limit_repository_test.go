package repository

import (
	"fmt"
	"readiness_backend/internal/model"
	"readiness_backend/pkg/database"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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

func TestRateLimitHitAllowsUpToMax(t *testing.T) {
	repo := NewRateLimitRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		allowed, retryAfter, err := repo.Hit("ip-a", model.ActionAssessmentSubmit, time.Hour, 3)
		if err != nil {
			t.Fatalf("hit %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
		if retryAfter != 0 {
			t.Fatalf("hit %d: retryAfter = %d, want 0", i+1, retryAfter)
		}
	}
}

func TestRateLimitHitDeniesOverMax(t *testing.T) {
	repo := NewRateLimitRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		if allowed, _, err := repo.Hit("ip-b", model.ActionAssessmentSubmit, time.Hour, 3); err != nil || !allowed {
			t.Fatalf("warmup hit %d: allowed=%v err=%v", i+1, allowed, err)
		}
	}

	allowed, retryAfter, err := repo.Hit("ip-b", model.ActionAssessmentSubmit, time.Hour, 3)
	if err != nil {
		t.Fatalf("fourth hit: %v", err)
	}
	if allowed {
		t.Fatal("fourth hit should be denied")
	}
	if retryAfter < 1 || retryAfter > 3600 {
		t.Fatalf("retryAfter = %d, want within (0, 3600]", retryAfter)
	}
}

func TestRateLimitActionsCountedSeparately(t *testing.T) {
	repo := NewRateLimitRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		if allowed, _, err := repo.Hit("ip-c", model.ActionAssessmentSubmit, time.Hour, 3); err != nil || !allowed {
			t.Fatalf("submit hit %d: allowed=%v err=%v", i+1, allowed, err)
		}
	}

	// Submits are exhausted but reads use their own counter.
	allowed, _, err := repo.Hit("ip-c", model.ActionAssessmentRead, time.Minute, 30)
	if err != nil {
		t.Fatalf("read hit: %v", err)
	}
	if !allowed {
		t.Fatal("read hit should be allowed after submit limit is reached")
	}
}

func TestRateLimitClientsCountedSeparately(t *testing.T) {
	repo := NewRateLimitRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		if allowed, _, err := repo.Hit("ip-d", model.ActionAssessmentSubmit, time.Hour, 3); err != nil || !allowed {
			t.Fatalf("hit %d: allowed=%v err=%v", i+1, allowed, err)
		}
	}

	allowed, _, err := repo.Hit("ip-e", model.ActionAssessmentSubmit, time.Hour, 3)
	if err != nil {
		t.Fatalf("other client hit: %v", err)
	}
	if !allowed {
		t.Fatal("a different client should not inherit another client's count")
	}
}
