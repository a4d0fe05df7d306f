package handlers

import (
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

const maxTableRows = 50

var fragmentTemplates = template.Must(template.New("fragments").Parse(`
{{define "chart"}}<div id="{{.ID}}">
{{if .SVG}}<figure class="chart">{{.SVG}}</figure>{{else}}<p class="empty">{{.Empty}}</p>{{end}}
</div>{{end}}

{{define "paymentRows"}}<div id="payment-rows">
<p>Showing {{len .Rows}} of {{.Total}} payments of type <strong>{{.PaymentType}}</strong></p>
<table class="modern-table">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</div>{{end}}

{{define "summary"}}<div id="summary" class="summary">
<span><strong>{{.Items}}</strong> line items</span>
<span><strong>{{.Payments}}</strong> payments</span>
<span><strong>{{.Selected}}</strong> of {{.Categories}} categories selected</span>
<span>Top <strong>{{.TopN}}</strong> shown</span>
</div>{{end}}
`))

type chartFragment struct {
	ID    string
	SVG   template.HTML
	Empty string
}

type paymentRowsFragment struct {
	PaymentType string
	Header      []string
	Rows        [][]string
	Total       int
}

type summaryFragment struct {
	Items      int
	Payments   int
	Categories int
	Selected   int
	TopN       int
}

// fragments renders the SSE-patched parts of the dashboard. Each fragment's
// root element carries the id it replaces.
type fragments struct {
	analytics *services.Analytics
}

func (f fragments) render(name string, data any) (string, error) {
	var buf strings.Builder
	if err := fragmentTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (f fragments) chart(id, empty string, draw func(io.Writer) error) (string, error) {
	svg, err := charts.SVG(draw)
	if err != nil && !stderrors.Is(err, charts.ErrNoData) {
		return "", err
	}
	return f.render("chart", chartFragment{ID: id, SVG: template.HTML(svg), Empty: empty})
}

func (f fragments) categoryBar(ranking []models.CategorySales, n int) (string, error) {
	title := fmt.Sprintf("Top %d Product Categories", n)
	return f.chart("category-bar", "No sales for the selected categories.", func(w io.Writer) error {
		return charts.BarChart(w, title, charts.CategoryBars(ranking), charts.CoolWarm)
	})
}

func (f fragments) categoryPie(ranking []models.CategorySales) (string, error) {
	return f.chart("category-pie", "No sales for the selected categories.", func(w io.Writer) error {
		return charts.PieChart(w, "Sales Distribution by Product Category", charts.CategoryBars(ranking), charts.CoolWarm)
	})
}

func (f fragments) paymentBar(dist []models.PaymentTypeCount, paymentType string) (string, error) {
	title := fmt.Sprintf("Payment Method: %s", paymentType)
	return f.chart("payment-bar", "No payments loaded.", func(w io.Writer) error {
		return charts.BarChart(w, title, charts.PaymentBars(dist), charts.Viridis)
	})
}

func (f fragments) paymentRows(paymentType string) (string, error) {
	header, rows, total := f.analytics.PaymentTable(paymentType, maxTableRows)
	return f.render("paymentRows", paymentRowsFragment{
		PaymentType: paymentType,
		Header:      header,
		Rows:        rows,
		Total:       total,
	})
}

func (f fragments) summary(selected []string, n int) (string, error) {
	stats := f.analytics.Stats()
	categories := stats["categories"].(int)
	chosen := categories
	if selected != nil {
		chosen = len(selected)
	}
	return f.render("summary", summaryFragment{
		Items:      stats["order_items"].(int),
		Payments:   stats["payments"].(int),
		Categories: categories,
		Selected:   chosen,
		TopN:       n,
	})
}

// categorySection renders the summary and both category charts for one
// selection.
func (f fragments) categorySection(selected []string, n int) ([]string, error) {
	ranking := f.analytics.TopCategories(selected, n)

	summary, err := f.summary(selected, n)
	if err != nil {
		return nil, err
	}
	bar, err := f.categoryBar(ranking, n)
	if err != nil {
		return nil, err
	}
	pie, err := f.categoryPie(ranking)
	if err != nil {
		return nil, err
	}
	return []string{summary, bar, pie}, nil
}

// paymentSection renders the payment chart and the matching raw rows.
func (f fragments) paymentSection(paymentType string) ([]string, error) {
	bar, err := f.paymentBar(f.analytics.PaymentTypes(), paymentType)
	if err != nil {
		return nil, err
	}
	rows, err := f.paymentRows(paymentType)
	if err != nil {
		return nil, err
	}
	return []string{bar, rows}, nil
}
