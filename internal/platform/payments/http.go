package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPGateway talks to a real payment provider over its REST API.
// Requests are form-encoded and authenticated with a bearer key, the
// convention most card processors follow.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type intentResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)

	var resp intentResponse
	if err := g.post(ctx, "/v1/payment_intents", form, &resp); err != nil {
		return Intent{}, err
	}
	return Intent{ID: resp.ID, Status: resp.Status}, nil
}

func (g *HTTPGateway) ConfirmIntent(ctx context.Context, intentID, methodID string) (Confirmation, error) {
	form := url.Values{}
	if methodID != "" {
		form.Set("payment_method", methodID)
	}

	var resp intentResponse
	if err := g.post(ctx, "/v1/payment_intents/"+url.PathEscape(intentID)+"/confirm", form, &resp); err != nil {
		return Confirmation{}, err
	}
	return Confirmation{Status: resp.Status, TransactionID: resp.TransactionID}, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: provider returned %d", ErrGateway, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrGateway, err)
	}
	return nil
}
