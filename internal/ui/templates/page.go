package templates

import (
	"encoding/json"
	"strconv"
)

// CategoryOption is one entry of the category multi-select.
type CategoryOption struct {
	Code  string
	Label string
}

// Page is everything the dashboard shell needs; the charts and tables are
// patched in over SSE once the page loads.
type Page struct {
	Title        string
	Categories   []CategoryOption
	PaymentTypes []string
	TopN         int
	MinTopN      int
	MaxTopN      int
	PaymentType  string
	Conclusions  []string
}

// Signals is the initial datastar state: every category selected, the
// default breadth and the most frequent payment type.
func (p Page) Signals() string {
	codes := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		codes[i] = c.Code
	}
	b, err := json.Marshal(map[string]any{
		"topn":       p.TopN,
		"categories": codes,
		"paytype":    p.PaymentType,
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
