package payment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careportal/careportal/internal/platform/auth"
	"github.com/careportal/careportal/internal/platform/payments"
	"github.com/careportal/careportal/internal/platform/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/payments/create-intent", h.CreateIntent)
	api.POST("/payments/confirm", h.Confirm)
	api.GET("/payments/history", h.History)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return id, nil
}

type createIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type confirmRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

func (h *Handler) CreateIntent(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pi, err := h.svc.CreateIntent(c.Request().Context(), userID, req.Amount, req.Currency)
	if errors.Is(err, payments.ErrGateway) {
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}
	if err != nil {
		if validate.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, map[string]*PaymentIntent{"paymentIntent": pi})
}

func (h *Handler) Confirm(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PaymentIntentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "paymentIntentId is required")
	}

	result, err := h.svc.Confirm(c.Request().Context(), userID, req.PaymentIntentID, req.PaymentMethodID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "payment intent not found")
	}
	if errors.Is(err, ErrPaymentFailed) {
		return echo.NewHTTPError(http.StatusPaymentRequired, "payment confirmation failed")
	}
	if err != nil {
		if validate.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) History(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	intents, err := h.svc.History(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if intents == nil {
		intents = []*PaymentIntent{}
	}
	return c.JSON(http.StatusOK, map[string][]*PaymentIntent{"items": intents})
}
