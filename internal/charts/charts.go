// Package charts renders the dashboard's bar and pie charts as SVG.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ecommerce-dashboard/internal/models"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

const (
	barHeight     = 480
	barWidth      = 48
	barSpacing    = 16
	minBarChart   = 640
	pieSize       = 520
	axisHeadroom  = 1.1
	labelRotation = 45.0
)

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
}

// CategoryBars turns a ranking into bars labelled by display name.
func CategoryBars(ranking []models.CategorySales) []Bar {
	bars := make([]Bar, len(ranking))
	for i, cs := range ranking {
		bars[i] = Bar{Label: cs.Label(), Value: float64(cs.Items)}
	}
	return bars
}

// PaymentBars turns a payment distribution into bars.
func PaymentBars(dist []models.PaymentTypeCount) []Bar {
	bars := make([]Bar, len(dist))
	for i, p := range dist {
		label := p.PaymentType
		if label == "" {
			label = "(missing)"
		}
		bars[i] = Bar{Label: label, Value: float64(p.Count)}
	}
	return bars
}

// BarChart writes a vertical bar chart. palette picks the colour ramp.
func BarChart(w io.Writer, title string, bars []Bar, palette Palette) error {
	if len(bars) == 0 {
		return ErrNoData
	}

	colors := palette.Colors(len(bars))
	values := make([]chart.Value, len(bars))
	top := 0.0
	for i, b := range bars {
		values[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: colors[i], StrokeColor: colors[i], StrokeWidth: 1},
		}
		top = max(top, b.Value)
	}
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 120}},
		Width:      max(minBarChart, len(bars)*(barWidth+barSpacing)+160),
		Height:     barHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis:      chart.Style{TextRotationDegrees: labelRotation},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * axisHeadroom},
		},
		Bars: values,
	}

	if err := graph.Render(escapedSVG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// PieChart writes a pie chart whose slice labels carry their percentage.
func PieChart(w io.Writer, title string, bars []Bar, palette Palette) error {
	total := 0.0
	for _, b := range bars {
		total += b.Value
	}
	if len(bars) == 0 || total == 0 {
		return ErrNoData
	}

	colors := palette.Colors(len(bars))
	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", b.Label, 100*b.Value/total),
			Value: b.Value,
			Style: chart.Style{FillColor: colors[i], StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		}
	}

	graph := chart.PieChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 48}},
		Width:      pieSize,
		Height:     pieSize,
		Values:     values,
	}

	if err := graph.Render(escapedSVG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// escapedRenderer escapes text as it is drawn. go-chart measures and wraps
// the raw string, then writes each line into <text> verbatim.
type escapedRenderer struct {
	chart.Renderer
}

func (r escapedRenderer) Text(body string, x, y int) {
	r.Renderer.Text(html.EscapeString(body), x, y)
}

func escapedSVG(width, height int) (chart.Renderer, error) {
	r, err := chart.SVG(width, height)
	if err != nil {
		return nil, err
	}
	return escapedRenderer{r}, nil
}

// SVG renders with fn into a string.
func SVG(fn func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
