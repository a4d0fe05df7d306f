package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

// ChartHandlers serve the dashboard charts as standalone SVG images.
type ChartHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *ChartHandlers) serveSVG(w http.ResponseWriter, r *http.Request, draw func(io.Writer) error) {
	requestID := observability.GetRequestID(r.Context())

	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if stderrors.Is(err, charts.ErrNoData) {
			errors.WriteError(w, h.logger, errors.NotFound("no data to plot"), requestID)
			return
		}
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "chart rendering failed"), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", cacheControl)
	if _, err := buf.WriteTo(w); err != nil {
		observability.RequestLogger(r.Context(), h.logger).Warn("write chart", "error", err)
	}
}

func (h *ChartHandlers) categoryBars(w http.ResponseWriter, r *http.Request) ([]charts.Bar, int, bool) {
	q := r.URL.Query()
	requestID := observability.GetRequestID(r.Context())

	n, appErr := parseTopN(q)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return nil, 0, false
	}
	selected, appErr := parseCategories(q, h.analytics)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return nil, 0, false
	}
	return charts.CategoryBars(h.analytics.TopCategories(selected, n)), n, true
}

func (h *ChartHandlers) HandleCategoryBar(w http.ResponseWriter, r *http.Request) {
	bars, n, ok := h.categoryBars(w, r)
	if !ok {
		return
	}
	title := fmt.Sprintf("Top %d Product Categories", n)
	h.serveSVG(w, r, func(out io.Writer) error {
		return charts.BarChart(out, title, bars, charts.CoolWarm)
	})
}

func (h *ChartHandlers) HandleCategoryPie(w http.ResponseWriter, r *http.Request) {
	bars, _, ok := h.categoryBars(w, r)
	if !ok {
		return
	}
	h.serveSVG(w, r, func(out io.Writer) error {
		return charts.PieChart(out, "Sales Distribution by Product Category", bars, charts.CoolWarm)
	})
}

func (h *ChartHandlers) HandlePaymentBar(w http.ResponseWriter, r *http.Request) {
	paymentType, appErr := parsePaymentType(r.URL.Query(), h.analytics)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, observability.GetRequestID(r.Context()))
		return
	}
	bars := charts.PaymentBars(h.analytics.PaymentTypes())
	title := fmt.Sprintf("Payment Method: %s", paymentType)
	h.serveSVG(w, r, func(out io.Writer) error {
		return charts.BarChart(out, title, bars, charts.Viridis)
	})
}
