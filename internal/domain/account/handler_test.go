package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careportal/careportal/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService(newMockRepo()))
	e := echo.New()
	return h, e
}

func authedContext(e *echo.Echo, method, target string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Register(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Ada","email":"ada@example.com","password":"s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Error("expected token in response")
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("unexpected email %s", resp.User.Email)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Error("password hash leaked into response")
	}
}

func TestHandler_Register_MissingFields(t *testing.T) {
	h, e := newTestHandler()

	body := `{"email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Register_DuplicateEmail(t *testing.T) {
	h, e := newTestHandler()

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		body := `{"name":"Ada","email":"ada@example.com","password":"pw"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Register(c)
		switch i {
		case 0:
			if err != nil {
				t.Fatalf("first register failed: %v", err)
			}
		case 1:
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != want {
				t.Fatalf("expected %d, got %v", want, err)
			}
		}
	}
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Register(context.Background(), "Ada", "ada@example.com", "s3cret")

	body := `{"email":"ada@example.com","password":"s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Register(context.Background(), "Ada", "ada@example.com", "s3cret")

	body := `{"email":"ada@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_Me(t *testing.T) {
	h, e := newTestHandler()
	u, _, err := h.svc.Register(context.Background(), "Ada", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	c, rec := authedContext(e, http.MethodGet, "/api/auth/me", u.ID)
	if err := h.Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		User User `json:"user"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.User.ID != u.ID {
		t.Errorf("expected user %s, got %s", u.ID, resp.User.ID)
	}
}

func TestHandler_Me_UserGone(t *testing.T) {
	h, e := newTestHandler()

	c, _ := authedContext(e, http.MethodGet, "/api/auth/me", uuid.New())
	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	api := e.Group("/api")
	h.RegisterRoutes(api, api)

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Method+":"+r.Path] = true
	}
	for _, path := range []string{
		"POST:/api/auth/register",
		"POST:/api/auth/login",
		"GET:/api/auth/me",
	} {
		if !routePaths[path] {
			t.Errorf("missing expected route: %s", path)
		}
	}
}

type failingRepo struct{}

var errStore = errors.New("write store file: no space left on device")

func (failingRepo) Create(context.Context, *User) error { return errStore }
func (failingRepo) GetByID(context.Context, uuid.UUID) (*User, error) {
	return nil, errStore
}
func (failingRepo) GetByEmail(context.Context, string) (*User, error) {
	return nil, errStore
}

func TestHandler_Register_StoreFailureIsNotClientError(t *testing.T) {
	h := NewHandler(newTestService(failingRepo{}))
	e := echo.New()

	body := `{"name":"Ada","email":"ada@example.com","password":"s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Register(e.NewContext(req, rec))
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if _, ok := err.(*echo.HTTPError); ok {
		t.Fatal("store failure must reach the server error handler, not a client status")
	}
}
