package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careportal/careportal/internal/platform/auth"
	"github.com/careportal/careportal/internal/platform/payments"
)

func newTestHandler(gw payments.Gateway) (*Handler, *echo.Echo) {
	h := NewHandler(NewService(newMockRepo(), gw))
	e := echo.New()
	return h, e
}

func authedContext(e *echo.Echo, method string, userID uuid.UUID, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_CreateIntent(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())

	body := `{"amount":49.99,"currency":"usd"}`
	c, rec := authedContext(e, http.MethodPost, uuid.New(), strings.NewReader(body))

	if err := h.CreateIntent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		PaymentIntent PaymentIntent `json:"paymentIntent"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.PaymentIntent.Status != "requires_payment_method" {
		t.Errorf("unexpected status %s", resp.PaymentIntent.Status)
	}
}

func TestHandler_CreateIntent_BadAmount(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())

	c, _ := authedContext(e, http.MethodPost, uuid.New(), strings.NewReader(`{"amount":-1,"currency":"usd"}`))
	err := h.CreateIntent(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_CreateIntent_GatewayDown(t *testing.T) {
	h, e := newTestHandler(failingGateway{})

	c, _ := authedContext(e, http.MethodPost, uuid.New(), strings.NewReader(`{"amount":10,"currency":"usd"}`))
	err := h.CreateIntent(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", err)
	}
}

func TestHandler_Confirm(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())
	userID := uuid.New()

	pi, err := h.svc.CreateIntent(context.Background(), userID, 10, "usd")
	if err != nil {
		t.Fatalf("CreateIntent() error: %v", err)
	}

	body := `{"paymentIntentId":"` + pi.ID + `","paymentMethodId":"pm_card"}`
	c, rec := authedContext(e, http.MethodPost, userID, strings.NewReader(body))

	if err := h.Confirm(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var result ConfirmResult
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.Status != "succeeded" {
		t.Errorf("expected succeeded, got %s", result.Status)
	}
	if !strings.HasPrefix(result.TransactionID, "txn_") {
		t.Errorf("expected txn_ id, got %s", result.TransactionID)
	}
}

func TestHandler_Confirm_MissingIntentID(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())

	c, _ := authedContext(e, http.MethodPost, uuid.New(), strings.NewReader(`{}`))
	err := h.Confirm(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Confirm_UnknownIntent(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())

	c, _ := authedContext(e, http.MethodPost, uuid.New(), strings.NewReader(`{"paymentIntentId":"pi_missing"}`))
	err := h.Confirm(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_Confirm_Declined(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())
	userID := uuid.New()

	pi, _ := h.svc.CreateIntent(context.Background(), userID, 10, "usd")
	h.svc.gateway = decliningGateway{}

	c, _ := authedContext(e, http.MethodPost, userID, strings.NewReader(`{"paymentIntentId":"`+pi.ID+`"}`))
	err := h.Confirm(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %v", err)
	}
}

func TestHandler_History(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())
	userID := uuid.New()

	h.svc.CreateIntent(context.Background(), userID, 10, "usd")
	h.svc.CreateIntent(context.Background(), userID, 20, "usd")

	c, rec := authedContext(e, http.MethodGet, userID, nil)
	if err := h.History(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Items []PaymentIntent `json:"items"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler(payments.NewMockGateway())
	h.RegisterRoutes(e.Group("/api"))

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Method+":"+r.Path] = true
	}
	for _, path := range []string{
		"POST:/api/payments/create-intent",
		"POST:/api/payments/confirm",
		"GET:/api/payments/history",
	} {
		if !routePaths[path] {
			t.Errorf("missing expected route: %s", path)
		}
	}
}

type failingRepo struct{}

var errStore = errors.New("write store file: no space left on device")

func (failingRepo) Create(context.Context, *PaymentIntent) error { return errStore }
func (failingRepo) GetByID(context.Context, string) (*PaymentIntent, error) {
	return nil, errStore
}
func (failingRepo) Update(context.Context, *PaymentIntent) error { return errStore }
func (failingRepo) ListByUser(context.Context, uuid.UUID) ([]*PaymentIntent, error) {
	return nil, errStore
}

func TestHandler_CreateIntent_StoreFailureIsNotClientError(t *testing.T) {
	h := NewHandler(NewService(failingRepo{}, &payments.MockGateway{}))
	e := echo.New()

	c, _ := authedContext(e, http.MethodPost, uuid.New(), strings.NewReader(`{"amount":10,"currency":"usd"}`))
	err := h.CreateIntent(c)
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if _, ok := err.(*echo.HTTPError); ok {
		t.Fatal("store failure must reach the server error handler, not a client status")
	}
}
