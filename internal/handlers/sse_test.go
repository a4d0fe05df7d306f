package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

func sseRequest(t *testing.T, path string, signals map[string]any) *http.Request {
	t.Helper()
	if signals == nil {
		return httptest.NewRequest(http.MethodGet, path, nil)
	}
	raw, err := json.Marshal(signals)
	if err != nil {
		t.Fatalf("marshal signals: %v", err)
	}
	return httptest.NewRequest(http.MethodGet, path+"?datastar="+url.QueryEscape(string(raw)), nil)
}

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewSSEHandlers(analytics, testLogger())

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.fragments.analytics != analytics {
		t.Error("fragments not bound to analytics")
	}
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, sseRequest(t, "/sse/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control = %q, want 'no-cache'", cc)
	}

	body := w.Body.String()
	for _, want := range []string{
		"event: datastar-patch-elements",
		"event: datastar-patch-signals",
		`id="summary"`,
		`id="category-bar"`,
		`id="category-pie"`,
		`id="payment-bar"`,
		`id="payment-rows"`,
		"<svg",
		"Top 10 Product Categories",
		"Payment Method: credit_card",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response should contain %q", want)
		}
	}
}

func TestSSEHandlers_HandleCategories(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleCategories(w, sseRequest(t, "/sse/categories", map[string]any{
		"topn":       7,
		"categories": []string{"telefonia"},
	}))

	body := w.Body.String()
	if !strings.Contains(body, "Top 7 Product Categories") {
		t.Error("bar chart title should follow the slider")
	}
	if !strings.Contains(body, "Telephony") {
		t.Error("selected category should be plotted by its English name")
	}
	if strings.Contains(body, "Books") {
		t.Error("unselected category should not be plotted")
	}
	if strings.Contains(body, `id="payment-rows"`) {
		t.Error("category stream should not patch the payment table")
	}
}

func TestSSEHandlers_HandleCategories_EmptySelection(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleCategories(w, sseRequest(t, "/sse/categories", map[string]any{
		"topn":       10,
		"categories": []string{},
	}))

	body := w.Body.String()
	if !strings.Contains(body, "No sales for the selected categories.") {
		t.Error("empty selection should render the empty state")
	}
	if strings.Contains(body, "<svg") {
		t.Error("empty selection should not render a chart")
	}
}

func TestSSEHandlers_HandlePayments(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandlePayments(w, sseRequest(t, "/sse/payments", map[string]any{"paytype": "boleto"}))

	body := w.Body.String()
	if !strings.Contains(body, "Payment Method: boleto") {
		t.Error("payment chart should be titled with the chosen type")
	}
	if !strings.Contains(body, "Showing 1 of 1 payments of type") {
		t.Error("payment table should report the boleto row count")
	}
	if strings.Contains(body, "<td>credit_card</td>") {
		t.Error("payment table should only list boleto rows")
	}
	if strings.Contains(body, `id="category-bar"`) {
		t.Error("payment stream should not patch category charts")
	}
}

func TestSSEHandlers_DataSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	tests := []struct {
		name    string
		signals map[string]any
		want    []string
	}{
		{"defaults", nil, []string{`"topn":10`, `"paytype":"credit_card"`}},
		{"clamped low", map[string]any{"topn": 1}, []string{`"topn":5`}},
		{"clamped high", map[string]any{"topn": 99}, []string{`"topn":20`}},
		{"string breadth", map[string]any{"topn": "12"}, []string{`"topn":12`}},
		{"unknown type", map[string]any{"paytype": "voucher"}, []string{`"paytype":"credit_card"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.HandleDashboard(w, sseRequest(t, "/sse/dashboard", tt.signals))

			body := w.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("signals should contain %s", want)
				}
			}
		})
	}
}

func TestSSEHandlers_InvalidSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	for _, raw := range []string{`{not json`, `{"topn":"NaN"}`, `{"topn":1e30}`} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/sse/dashboard?datastar="+url.QueryEscape(raw), nil)
		handlers.HandleDashboard(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("signals %s: status = %d, want %d", raw, w.Code, http.StatusBadRequest)
		}
	}
}

func TestFragments_PaymentRowsLimit(t *testing.T) {
	f := fragments{analytics: createTestAnalytics()}

	html, err := f.paymentRows("credit_card")
	if err != nil {
		t.Fatalf("paymentRows() failed: %v", err)
	}

	rowCount := strings.Count(html, "<tr>") - 1
	if rowCount != 3 {
		t.Errorf("expected 3 rows, got %d", rowCount)
	}
	if rowCount > maxTableRows {
		t.Errorf("expected max %d rows, got %d", maxTableRows, rowCount)
	}
	if !strings.Contains(html, "<th>payment_value</th>") {
		t.Error("table should carry the raw column names")
	}
}

func TestFragments_Escaping(t *testing.T) {
	f := fragments{analytics: createTestAnalytics()}

	html, err := f.paymentRows("<script>")
	if err != nil {
		t.Fatalf("paymentRows() failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("payment type should be escaped")
	}
}

func TestFragments_ChartLabelsEscaped(t *testing.T) {
	a := services.NewAnalytics()
	a.SetDataset(services.NewDataset(
		[]models.OrderItem{{OrderID: "o1", ProductID: "p1"}},
		[]models.Payment{{OrderID: "o1", PaymentType: "<img src=x>"}},
		[]models.Product{{ProductID: "p1", CategoryName: "a&b"}},
	))
	handlers := NewSSEHandlers(a, testLogger())

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, sseRequest(t, "/sse/dashboard", nil))

	body := w.Body.String()
	for _, raw := range []string{"<img src=x>", "a&b"} {
		if strings.Contains(body, raw) {
			t.Errorf("response should not contain raw %q", raw)
		}
	}
	if !strings.Contains(body, "a&amp;b") {
		t.Error("category label should be escaped inside the chart")
	}
}

func TestSSEHandlers_HandleDashboard_HeaderOnlyTables(t *testing.T) {
	files := services.DataFilesIn(t.TempDir())
	for path, header := range map[string]string{
		files.OrderItems: "order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value\n",
		files.Payments:   "order_id,payment_sequential,payment_type,payment_installments,payment_value\n",
		files.Products:   "product_id,product_category_name\n",
	} {
		if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	a := services.NewAnalytics()
	if err := a.Load(context.Background(), files); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	handlers := NewSSEHandlers(a, testLogger())

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, sseRequest(t, "/sse/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{
		"No sales for the selected categories.",
		"No payments loaded.",
		`id="payment-rows"`,
		"Showing 0 of 0 payments",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response should contain %q", want)
		}
	}
	if strings.Contains(body, "<svg") {
		t.Error("empty tables should not render charts")
	}
}
