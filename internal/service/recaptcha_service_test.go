package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"readiness_backend/internal/config"
	"testing"
)

func TestRecaptchaDisabledWithoutSecret(t *testing.T) {
	svc := NewRecaptchaService(config.RecaptchaConfig{})
	if svc.Enabled() {
		t.Fatal("no secret means the bot check is disabled")
	}
}

func TestRecaptchaVerifyPass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("secret") != "sec" || r.PostForm.Get("response") != "tok" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.Write([]byte(`{"success": true, "score": 0.9}`))
	}))
	defer srv.Close()

	svc := NewRecaptchaService(config.RecaptchaConfig{SecretKey: "sec", VerifyURL: srv.URL})
	passed, score := svc.Verify(context.Background(), "tok")
	if !passed {
		t.Fatal("expected pass")
	}
	if score == nil || *score != 0.9 {
		t.Fatalf("score = %v, want 0.9", score)
	}
}

func TestRecaptchaVerifyReject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	svc := NewRecaptchaService(config.RecaptchaConfig{SecretKey: "sec", VerifyURL: srv.URL})
	if passed, _ := svc.Verify(context.Background(), "bad"); passed {
		t.Fatal("expected rejection")
	}
}

func TestRecaptchaFailsOpenOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := NewRecaptchaService(config.RecaptchaConfig{SecretKey: "sec", VerifyURL: srv.URL})
	passed, score := svc.Verify(context.Background(), "tok")
	if !passed {
		t.Fatal("provider outage must not block submissions")
	}
	if score != nil {
		t.Fatalf("score = %v, want nil on fail-open", score)
	}
}

func TestRecaptchaFailsOpenOnGarbageResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	svc := NewRecaptchaService(config.RecaptchaConfig{SecretKey: "sec", VerifyURL: srv.URL})
	if passed, _ := svc.Verify(context.Background(), "tok"); !passed {
		t.Fatal("unparseable response must fail open")
	}
}
