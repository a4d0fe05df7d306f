package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ecommerce-dashboard/internal/models"
)

type Analytics struct {
	mu      sync.RWMutex
	dataset *Dataset
	files   DataFiles
	loads   atomic.Int64
	logger  *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		dataset: &Dataset{},
		logger:  slog.Default(),
	}
}

// SetDataset swaps in a new snapshot.
func (a *Analytics) SetDataset(ds *Dataset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dataset = ds
}

func (a *Analytics) snapshot() *Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dataset
}

// Load reads the tables and replaces the current snapshot. On failure the
// previous snapshot stays in place.
func (a *Analytics) Load(ctx context.Context, files DataFiles) error {
	start := time.Now()
	a.logger.Info("loading dataset",
		"order_items", files.OrderItems,
		"payments", files.Payments,
		"products", files.Products,
	)

	ds, err := LoadDataset(ctx, files)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	a.mu.Lock()
	a.dataset = ds
	a.files = files
	a.mu.Unlock()
	a.loads.Add(1)

	a.logger.Info("dataset loaded",
		"order_items", len(ds.OrderItems),
		"payments", len(ds.Payments),
		"products", len(ds.Products),
		"duration", time.Since(start),
	)
	return nil
}

// Reload re-reads the files of the last successful Load.
func (a *Analytics) Reload(ctx context.Context) error {
	a.mu.RLock()
	files := a.files
	a.mu.RUnlock()

	if files.OrderItems == "" {
		return fmt.Errorf("reload: no dataset loaded")
	}
	return a.Load(ctx, files)
}

// Loaded reports whether a dataset snapshot is in place.
func (a *Analytics) Loaded() bool {
	return !a.snapshot().LoadedAt.IsZero()
}

func (a *Analytics) TopCategories(selected []string, n int) []models.CategorySales {
	ds := a.snapshot()
	return RankCategories(ds.OrderItems, ds.Products, selected, n)
}

func (a *Analytics) TranslatedTopCategories() []models.CategorySales {
	ds := a.snapshot()
	return RankTranslatedCategories(ds.OrderItems, ds.Products, translatedTopN)
}

func (a *Analytics) Categories() []string {
	return CategoryOptions(a.snapshot().Products)
}

func (a *Analytics) HasCategory(code string) bool {
	return slices.ContainsFunc(a.snapshot().Products, func(p models.Product) bool {
		return p.CategoryName == code
	})
}

func (a *Analytics) PaymentTypes() []models.PaymentTypeCount {
	return PaymentDistribution(a.snapshot().Payments)
}

// DefaultPaymentType is the most frequent payment type, or "" without data.
func (a *Analytics) DefaultPaymentType() string {
	dist := a.PaymentTypes()
	if len(dist) == 0 {
		return ""
	}
	return dist[0].PaymentType
}

func (a *Analytics) HasPaymentType(paymentType string) bool {
	return slices.ContainsFunc(a.snapshot().Payments, func(p models.Payment) bool {
		return p.PaymentType == paymentType
	})
}

// Payments returns the rows of one payment type and how many there are in
// total; limit <= 0 returns them all.
func (a *Analytics) Payments(paymentType string, limit int) ([]models.Payment, int) {
	rows := FilterPayments(a.snapshot().Payments, paymentType)
	total := len(rows)
	if limit > 0 && total > limit {
		rows = rows[:limit]
	}
	return rows, total
}

// PaymentTable is the verbatim payment table restricted to one type: the
// header followed by at most limit rows, plus the number of matching rows.
func (a *Analytics) PaymentTable(paymentType string, limit int) ([]string, [][]string, int) {
	df := a.snapshot().payments
	if df.Err != nil || df.Ncol() == 0 {
		return slices.Clone(paymentColumns), nil, 0
	}

	filtered := df.Filter(dataframe.F{
		Colname:    "payment_type",
		Comparator: series.Eq,
		Comparando: paymentType,
	})
	if filtered.Err != nil {
		a.logger.Warn("filter payments", "payment_type", paymentType, "error", filtered.Err)
		return df.Names(), nil, 0
	}

	records := filtered.Records()
	if len(records) == 0 {
		return df.Names(), nil, 0
	}
	header, rows := records[0], records[1:]
	total := len(rows)
	if limit > 0 && total > limit {
		rows = rows[:limit]
	}
	return header, rows, total
}

func (a *Analytics) CategoryPayments() []models.CategoryPayment {
	ds := a.snapshot()
	return CategoryPaymentMatrix(ds.OrderItems, ds.Products, ds.Payments)
}

func (a *Analytics) Stats() map[string]any {
	ds := a.snapshot()
	return map[string]any{
		"order_items":   len(ds.OrderItems),
		"payments":      len(ds.Payments),
		"products":      len(ds.Products),
		"categories":    len(CategoryOptions(ds.Products)),
		"payment_types": len(PaymentDistribution(ds.Payments)),
		"loaded_at":     ds.LoadedAt,
		"loads":         a.loads.Load(),
	}
}
