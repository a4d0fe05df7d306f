package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type categoryInfo struct {
	Code    string `json:"code"`
	English string `json:"english,omitempty"`
}

type paymentsResponse struct {
	PaymentType string           `json:"payment_type"`
	Total       int              `json:"total"`
	Rows        []models.Payment `json:"rows"`
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) write(w http.ResponseWriter, r *http.Request, data any) {
	headers := map[string]string{"Cache-Control": cacheControl}
	if err := errors.WriteSuccessWithHeaders(w, data, headers); err != nil {
		observability.RequestLogger(r.Context(), h.logger).Error("encode response", "error", err)
	}
}

func (h *APIHandlers) HandleTopCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	n, appErr := parseTopN(q)
	if appErr != nil {
		h.fail(w, r, appErr)
		return
	}
	selected, appErr := parseCategories(q, h.analytics)
	if appErr != nil {
		h.fail(w, r, appErr)
		return
	}

	h.write(w, r, h.analytics.TopCategories(selected, n))
}

func (h *APIHandlers) HandleTranslatedCategories(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.analytics.TranslatedTopCategories())
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	codes := h.analytics.Categories()
	data := make([]categoryInfo, len(codes))
	for i, code := range codes {
		english, _ := services.TranslateCategory(code)
		data[i] = categoryInfo{Code: code, English: english}
	}
	h.write(w, r, data)
}

func (h *APIHandlers) HandlePaymentTypes(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.analytics.PaymentTypes())
}

func (h *APIHandlers) HandlePayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	paymentType, appErr := parsePaymentType(q, h.analytics)
	if appErr != nil {
		h.fail(w, r, appErr)
		return
	}
	limit, appErr := parseLimit(q)
	if appErr != nil {
		h.fail(w, r, appErr)
		return
	}

	rows, total := h.analytics.Payments(paymentType, limit)
	h.write(w, r, paymentsResponse{PaymentType: paymentType, Total: total, Rows: rows})
}

func (h *APIHandlers) HandleCategoryPayments(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.analytics.CategoryPayments())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.analytics.Loaded() {
		h.fail(w, r, errors.ServiceUnavailable("dataset not loaded"))
		return
	}

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	if err := errors.WriteSuccess(w, healthData); err != nil {
		h.logger.Error("encode health", "error", err)
	}
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	if err := errors.WriteSuccess(w, h.analytics.Stats()); err != nil {
		h.logger.Error("encode stats", "error", err)
	}
}
