package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := errorHandler(zerolog.New(os.Stderr))
	handler(echo.NewHTTPError(http.StatusNotFound, "appointment not found"), c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "appointment not found" {
		t.Errorf("unexpected error message %q", body["error"])
	}
}

func TestErrorHandler_GenericErrorDoesNotLeak(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := errorHandler(zerolog.New(os.Stderr))
	handler(errors.New("pq: connection refused at 10.0.0.5"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "internal server error" {
		t.Errorf("internal detail leaked: %q", body["error"])
	}
}

func TestHealthHandler_FileDriver(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := healthHandler("file", nil)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" || body["store"] != "file" {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["pool"]; ok {
		t.Error("file driver must not report pool stats")
	}
}

func TestCommands(t *testing.T) {
	serve := serveCmd()
	if serve.Use != "serve" {
		t.Errorf("unexpected use %q", serve.Use)
	}

	migrate := migrateCmd()
	sub := make(map[string]bool)
	for _, c := range migrate.Commands() {
		sub[c.Use] = true
	}
	if !sub["up"] || !sub["status"] {
		t.Errorf("expected up and status subcommands, got %v", sub)
	}
}
