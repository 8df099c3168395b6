package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMockGateway_CreateIntent(t *testing.T) {
	g := NewMockGateway()
	intent, err := g.CreateIntent(context.Background(), 5000, "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(intent.ID, "pi_") {
		t.Errorf("expected pi_ prefix, got %s", intent.ID)
	}
	if intent.Status != "requires_payment_method" {
		t.Errorf("unexpected status %s", intent.Status)
	}
}

func TestMockGateway_ConfirmIntent(t *testing.T) {
	g := NewMockGateway()
	conf, err := g.ConfirmIntent(context.Background(), "pi_anything", "pm_card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Status != "succeeded" {
		t.Errorf("expected succeeded, got %s", conf.Status)
	}
	if !strings.HasPrefix(conf.TransactionID, "txn_") {
		t.Errorf("expected txn_ prefix, got %s", conf.TransactionID)
	}
}

func TestHTTPGateway_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("amount") != "5000" || r.PostForm.Get("currency") != "usd" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"id":"pi_123","status":"requires_payment_method"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "sk_test")
	intent, err := g.CreateIntent(context.Background(), 5000, "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.ID != "pi_123" {
		t.Errorf("expected pi_123, got %s", intent.ID)
	}
}

func TestHTTPGateway_ConfirmIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents/pi_123/confirm" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("payment_method") != "pm_card" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"id":"pi_123","status":"succeeded","transaction_id":"txn_9"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "sk_test")
	conf, err := g.ConfirmIntent(context.Background(), "pi_123", "pm_card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Status != "succeeded" || conf.TransactionID != "txn_9" {
		t.Errorf("unexpected confirmation %+v", conf)
	}
}

func TestHTTPGateway_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "sk_test")
	_, err := g.CreateIntent(context.Background(), 100, "usd")
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestHTTPGateway_Unreachable(t *testing.T) {
	g := NewHTTPGateway("http://127.0.0.1:1", "sk_test")
	_, err := g.ConfirmIntent(context.Background(), "pi_x", "")
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}
