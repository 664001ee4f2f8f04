package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"readiness_backend/internal/config"
	"readiness_backend/internal/validation"
	"strings"
	"testing"
)

var scoringCategoryNames = []string{
	"Problem-Market Fit", "Product & Traction", "Business Model", "Team",
	"Financials", "Go-to-Market", "Legal & IP", "Investment Readiness",
	"Metrics & Data", "Vision & Scalability",
}

func validScoringJSON() string {
	categories := make([]map[string]any, 0, 10)
	for _, name := range scoringCategoryNames {
		categories = append(categories, map[string]any{
			"name":           name,
			"score":          70,
			"justification":  "Solid evidence provided.",
			"recommendation": "Keep iterating.",
		})
	}
	doc := map[string]any{
		"overallScore":   70,
		"readinessLevel": "investment_ready",
		"categories":     categories,
		"topGaps": []map[string]any{
			{"title": "Sales repeatability", "currentState": "Founder-led only", "recommendedActions": []string{"Document the sales playbook"}},
		},
		"quickWins":                 []string{"Publish case study"},
		"mediumTermRecommendations": []string{"Hire first AE"},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

// fakeModelServer replies with each canned content string in turn and records
// the request bodies it saw.
func fakeModelServer(t *testing.T, replies ...string) (*httptest.Server, *[][]byte) {
	t.Helper()
	var bodies [][]byte
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, body)

		if calls >= len(replies) {
			t.Errorf("unexpected extra call %d", calls+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		reply := replies[calls]
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	return srv, &bodies
}

func newTestScoringService(baseURL string) *ScoringService {
	return NewScoringService(config.AIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
}

func sampleResponses() *validation.AssessmentResponses {
	return &validation.AssessmentResponses{
		ProblemClarity:     "Manual reviews are slow",
		HasPayingCustomers: "no",
		ContactName:        "Jane Founder",
		ContactEmail:       "jane@example.com",
	}
}

func TestScoreValidFirstAttempt(t *testing.T) {
	srv, bodies := fakeModelServer(t, validScoringJSON())
	defer srv.Close()

	result, err := newTestScoringService(srv.URL).Score(context.Background(), sampleResponses())
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.OverallScore != 70 || result.ReadinessLevel != "investment_ready" {
		t.Fatalf("result = %d/%s", result.OverallScore, result.ReadinessLevel)
	}
	if len(result.Categories) != 10 {
		t.Fatalf("categories = %d, want 10", len(result.Categories))
	}
	if len(*bodies) != 1 {
		t.Fatalf("calls = %d, want 1", len(*bodies))
	}

	var req chatCompletionRequest
	if err := json.Unmarshal((*bodies)[0], &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if req.Model != "test-model" || req.Temperature != 0.3 || req.ResponseFormat.Type != "json_object" {
		t.Fatalf("request = %+v", req)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", req.Messages)
	}
}

func TestScoreRetriesOnceWithCorrection(t *testing.T) {
	srv, bodies := fakeModelServer(t, `{"overallScore": 70}`, validScoringJSON())
	defer srv.Close()

	result, err := newTestScoringService(srv.URL).Score(context.Background(), sampleResponses())
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.OverallScore != 70 {
		t.Fatalf("overallScore = %d", result.OverallScore)
	}
	if len(*bodies) != 2 {
		t.Fatalf("calls = %d, want 2", len(*bodies))
	}

	var retry chatCompletionRequest
	if err := json.Unmarshal((*bodies)[1], &retry); err != nil {
		t.Fatalf("unmarshal retry request: %v", err)
	}
	// Original conversation plus the bad reply and a correction instruction.
	if len(retry.Messages) != 4 {
		t.Fatalf("retry messages = %d, want 4", len(retry.Messages))
	}
	correction := retry.Messages[3].Content
	if !strings.Contains(correction, "did not match the required JSON schema") {
		t.Fatalf("correction message = %q", correction)
	}
}

func TestScoreFailsAfterTwoInvalidReplies(t *testing.T) {
	srv, bodies := fakeModelServer(t, "not json at all", `{"overallScore": 200}`)
	defer srv.Close()

	_, err := newTestScoringService(srv.URL).Score(context.Background(), sampleResponses())
	if err == nil {
		t.Fatal("expected error after two invalid replies")
	}
	if !strings.Contains(err.Error(), "after retry") {
		t.Fatalf("err = %v", err)
	}
	if len(*bodies) != 2 {
		t.Fatalf("calls = %d, want exactly 2", len(*bodies))
	}
}

func TestScoreAcceptsFencedReply(t *testing.T) {
	fenced := fmt.Sprintf("```json\n%s\n```", validScoringJSON())
	srv, _ := fakeModelServer(t, fenced)
	defer srv.Close()

	result, err := newTestScoringService(srv.URL).Score(context.Background(), sampleResponses())
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.OverallScore != 70 {
		t.Fatalf("overallScore = %d", result.OverallScore)
	}
}

func TestScoreRequiresAPIKey(t *testing.T) {
	svc := NewScoringService(config.AIConfig{BaseURL: "http://localhost:0"})
	if _, err := svc.Score(context.Background(), sampleResponses()); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
