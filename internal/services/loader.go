package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/sync/errgroup"

	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

const (
	OrderItemsFile = "order_items_dataset.csv"
	PaymentsFile   = "order_payments_dataset.csv"
	ProductsFile   = "products_dataset.csv"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyDataset  = errors.New("empty dataset")
)

var (
	orderItemColumns = []string{"order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value"}
	paymentColumns   = []string{"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value"}
	productColumns   = []string{"product_id", "product_category_name"}
)

var (
	orderItemTypes = map[string]series.Type{
		"order_item_id": series.Float,
		"price":         series.Float,
		"freight_value": series.Float,
	}
	productTypes = map[string]series.Type{
		"product_name_lenght":        series.Float,
		"product_description_lenght": series.Float,
		"product_photos_qty":         series.Float,
		"product_weight_g":           series.Float,
		"product_length_cm":          series.Float,
		"product_height_cm":          series.Float,
		"product_width_cm":           series.Float,
	}
)

// DataFiles names the three tables the dashboard reads.
type DataFiles struct {
	OrderItems string
	Payments   string
	Products   string
}

// DataFilesIn returns the conventional file names under dir.
func DataFilesIn(dir string) DataFiles {
	return DataFiles{
		OrderItems: filepath.Join(dir, OrderItemsFile),
		Payments:   filepath.Join(dir, PaymentsFile),
		Products:   filepath.Join(dir, ProductsFile),
	}
}

func (f DataFiles) Paths() []string {
	return []string{f.OrderItems, f.Payments, f.Products}
}

// Dataset is an immutable snapshot of the three tables. Products carry
// their English category translation.
type Dataset struct {
	OrderItems []models.OrderItem
	Payments   []models.Payment
	Products   []models.Product
	LoadedAt   time.Time

	payments dataframe.DataFrame
}

// NewDataset builds a snapshot from already-typed rows.
func NewDataset(items []models.OrderItem, payments []models.Payment, products []models.Product) *Dataset {
	products = slices.Clone(products)
	TranslateProducts(products)
	return &Dataset{
		OrderItems: items,
		Payments:   payments,
		Products:   products,
		LoadedAt:   time.Now(),
		payments:   paymentsFrame(payments),
	}
}

// LoadDataset reads the three CSV files concurrently.
func LoadDataset(ctx context.Context, files DataFiles) (*Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "load_dataset")
	defer span.Finish()

	var itemsDF, paymentsDF, productsDF dataframe.DataFrame

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		df, err := readFrame(gctx, files.OrderItems, orderItemColumns, dataframe.WithTypes(orderItemTypes))
		itemsDF = df
		return err
	})
	g.Go(func() error {
		// Kept as text so the raw row dump shows the cells as written.
		df, err := readFrame(gctx, files.Payments, paymentColumns, dataframe.NaNValues(nil))
		paymentsDF = df
		return err
	})
	g.Go(func() error {
		df, err := readFrame(gctx, files.Products, productColumns, dataframe.WithTypes(productTypes))
		productsDF = df
		return err
	})
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}

	products := productsFromFrame(productsDF)
	TranslateProducts(products)
	payments := paymentsFromFrame(paymentsDF)

	ds := &Dataset{
		OrderItems: orderItemsFromFrame(itemsDF),
		Payments:   payments,
		Products:   products,
		LoadedAt:   time.Now(),
		payments:   paymentsDF.Select(paymentColumns),
	}

	span.SetTag("order_items", len(ds.OrderItems))
	span.SetTag("payments", len(ds.Payments))
	span.SetTag("products", len(ds.Products))
	return ds, nil
}

// readFrame reads one CSV table. Cells stay text unless opts type them. A
// file holding only its header yields an empty frame; a file without a header
// is ErrEmptyDataset.
func readFrame(ctx context.Context, path string, required []string, opts ...dataframe.LoadOption) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	name := filepath.Base(path)
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", name, ErrEmptyDataset)
	}

	header := records[0]
	for _, col := range required {
		if !slices.Contains(header, col) {
			return dataframe.DataFrame{}, fmt.Errorf("read %s: %w %q", name, ErrMissingColumn, col)
		}
	}
	if len(records) == 1 {
		return emptyFrame(header), nil
	}

	opts = append([]dataframe.LoadOption{
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	}, opts...)
	df := dataframe.LoadRecords(records, opts...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", name, df.Err)
	}
	return df, nil
}

// emptyFrame has the given columns and no rows.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

func orderItemsFromFrame(df dataframe.DataFrame) []models.OrderItem {
	orderIDs := stringColumn(df, "order_id")
	seq := floatColumn(df, "order_item_id")
	productIDs := stringColumn(df, "product_id")
	sellerIDs := stringColumn(df, "seller_id")
	shipping := stringColumn(df, "shipping_limit_date")
	prices := floatColumn(df, "price")
	freight := floatColumn(df, "freight_value")

	items := make([]models.OrderItem, df.Nrow())
	for i := range items {
		items[i] = models.OrderItem{
			OrderID:           orderIDs[i],
			OrderItemID:       int(seq[i]),
			ProductID:         productIDs[i],
			SellerID:          sellerIDs[i],
			ShippingLimitDate: shipping[i],
			Price:             prices[i],
			FreightValue:      freight[i],
		}
	}
	return items
}

func paymentsFromFrame(df dataframe.DataFrame) []models.Payment {
	orderIDs := stringColumn(df, "order_id")
	seq := floatColumn(df, "payment_sequential")
	kinds := stringColumn(df, "payment_type")
	installments := floatColumn(df, "payment_installments")
	values := floatColumn(df, "payment_value")

	payments := make([]models.Payment, df.Nrow())
	for i := range payments {
		payments[i] = models.Payment{
			OrderID:             orderIDs[i],
			PaymentSequential:   int(seq[i]),
			PaymentType:         kinds[i],
			PaymentInstallments: int(installments[i]),
			PaymentValue:        values[i],
		}
	}
	return payments
}

func productsFromFrame(df dataframe.DataFrame) []models.Product {
	ids := stringColumn(df, "product_id")
	categories := stringColumn(df, "product_category_name")
	nameLen := floatColumn(df, "product_name_lenght")
	descLen := floatColumn(df, "product_description_lenght")
	photos := floatColumn(df, "product_photos_qty")
	weight := floatColumn(df, "product_weight_g")
	length := floatColumn(df, "product_length_cm")
	height := floatColumn(df, "product_height_cm")
	width := floatColumn(df, "product_width_cm")

	products := make([]models.Product, df.Nrow())
	for i := range products {
		products[i] = models.Product{
			ProductID:         ids[i],
			CategoryName:      categories[i],
			NameLength:        nameLen[i],
			DescriptionLength: descLen[i],
			PhotosQty:         photos[i],
			WeightG:           weight[i],
			LengthCM:          length[i],
			HeightCM:          height[i],
			WidthCM:           width[i],
		}
	}
	return products
}

// stringColumn returns the column as strings, with missing cells as "".
// Absent optional columns yield a column of empty strings.
func stringColumn(df dataframe.DataFrame, name string) []string {
	out := make([]string, df.Nrow())
	if !slices.Contains(df.Names(), name) {
		return out
	}
	for i, v := range df.Col(name).Records() {
		if v != "NaN" {
			out[i] = v
		}
	}
	return out
}

// floatColumn returns the column as floats, with missing or unparseable
// cells as 0.
func floatColumn(df dataframe.DataFrame, name string) []float64 {
	out := make([]float64, df.Nrow())
	if !slices.Contains(df.Names(), name) {
		return out
	}
	for i, v := range df.Col(name).Float() {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}

// paymentsFrame builds the text payment table from typed rows, for datasets
// that were not read from CSV.
func paymentsFrame(payments []models.Payment) dataframe.DataFrame {
	if len(payments) == 0 {
		return emptyFrame(paymentColumns)
	}
	records := make([][]string, 0, len(payments)+1)
	records = append(records, paymentColumns)
	for _, p := range payments {
		records = append(records, []string{
			p.OrderID,
			strconv.Itoa(p.PaymentSequential),
			p.PaymentType,
			strconv.Itoa(p.PaymentInstallments),
			strconv.FormatFloat(p.PaymentValue, 'f', -1, 64),
		})
	}
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
}
