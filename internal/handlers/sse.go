package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

// dashboardSignals mirrors the sidebar widgets. A missing categories key
// means every category; an empty list means none.
type dashboardSignals struct {
	TopN        flexInt  `json:"topn"`
	Categories  []string `json:"categories"`
	PaymentType string   `json:"paytype"`
}

type SSEHandlers struct {
	analytics *services.Analytics
	fragments fragments
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		fragments: fragments{analytics: analytics},
		logger:    logger,
	}
}

// readSignals decodes the widget state and normalises it: the breadth is
// clamped onto the slider and an unknown or empty payment type falls back
// to the most frequent one.
func (h *SSEHandlers) readSignals(r *http.Request) (dashboardSignals, error) {
	signals := dashboardSignals{TopN: services.DefaultTopN}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return signals, errors.ValidationWrap(err, "invalid datastar signals")
	}

	signals.TopN = flexInt(services.ClampTopN(int(signals.TopN)))
	if signals.PaymentType == "" || !h.analytics.HasPaymentType(signals.PaymentType) {
		signals.PaymentType = h.analytics.DefaultPaymentType()
	}
	return signals, nil
}

func (h *SSEHandlers) stream(w http.ResponseWriter, r *http.Request, categories, payments bool) {
	logger := observability.RequestLogger(r.Context(), h.logger)

	signals, err := h.readSignals(r)
	if err != nil {
		errors.WriteError(w, logger, err, observability.GetRequestID(r.Context()))
		return
	}

	var patches []string
	if categories {
		frags, err := h.fragments.categorySection(signals.Categories, int(signals.TopN))
		if err != nil {
			logger.Error("render category fragments", "error", err)
			return
		}
		patches = append(patches, frags...)
	}
	if payments {
		frags, err := h.fragments.paymentSection(signals.PaymentType)
		if err != nil {
			logger.Error("render payment fragments", "error", err)
			return
		}
		patches = append(patches, frags...)
	}

	normalized, err := json.Marshal(map[string]any{
		"topn":    int(signals.TopN),
		"paytype": signals.PaymentType,
	})
	if err != nil {
		logger.Error("marshal signals", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	for _, html := range patches {
		if err := sse.PatchElements(html); err != nil {
			logger.Warn("patch elements", "error", err)
			return
		}
	}
	if err := sse.PatchSignals(normalized); err != nil {
		logger.Warn("patch signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleDashboard recomputes the whole view for the current widget state.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, true, true)
}

func (h *SSEHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, true, false)
}

func (h *SSEHandlers) HandlePayments(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, false, true)
}
