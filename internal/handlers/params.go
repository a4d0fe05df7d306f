package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/services"
)

const (
	defaultPaymentRows = 100
	maxPaymentRows     = 1000
)

// parseTopN reads "n" from the query, rejecting values off the slider.
func parseTopN(q url.Values) (int, *errors.AppError) {
	raw := q.Get("n")
	if raw == "" {
		return services.DefaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ValidationWrap(err, "n must be an integer").WithDetails("got %q", raw)
	}
	if n < services.MinTopN || n > services.MaxTopN {
		return 0, errors.Validation("n out of range").
			WithDetails("n must be between %d and %d, got %d", services.MinTopN, services.MaxTopN, n)
	}
	return n, nil
}

// parseLimit reads "limit" from the query.
func parseLimit(q url.Values) (int, *errors.AppError) {
	raw := q.Get("limit")
	if raw == "" {
		return defaultPaymentRows, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ValidationWrap(err, "limit must be an integer").WithDetails("got %q", raw)
	}
	if n < 1 || n > maxPaymentRows {
		return 0, errors.Validation("limit out of range").
			WithDetails("limit must be between 1 and %d, got %d", maxPaymentRows, n)
	}
	return n, nil
}

// parseCategories returns the repeated "category" parameter, or nil when it
// is absent so that every category is kept.
func parseCategories(q url.Values, analytics *services.Analytics) ([]string, *errors.AppError) {
	selected, ok := q["category"]
	if !ok {
		return nil, nil
	}
	for _, c := range selected {
		if !analytics.HasCategory(c) {
			return nil, errors.NotFound("unknown category").WithDetails("%q is not a product category", c)
		}
	}
	return selected, nil
}

// parsePaymentType returns the "type" parameter, defaulting to the most
// frequent payment type.
func parsePaymentType(q url.Values, analytics *services.Analytics) (string, *errors.AppError) {
	t := q.Get("type")
	if t == "" {
		return analytics.DefaultPaymentType(), nil
	}
	if !analytics.HasPaymentType(t) {
		return "", errors.NotFound("unknown payment type").WithDetails("no payments of type %q", t)
	}
	return t, nil
}

// flexInt accepts a JSON number or a numeric string; range inputs bound by
// datastar may send either. Values must fit in 32 bits.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n = json.Number(s)
	}
	v, err := n.Float64()
	if err != nil {
		return err
	}
	if math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return fmt.Errorf("number %s out of range", n)
	}
	*f = flexInt(v)
	return nil
}
