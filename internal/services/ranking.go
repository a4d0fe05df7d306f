package services

import (
	"slices"
	"strings"

	"ecommerce-dashboard/internal/models"
)

const (
	MinTopN     = 5
	MaxTopN     = 20
	DefaultTopN = 10

	translatedTopN = 10
)

// ClampTopN forces a widget value into the slider range.
func ClampTopN(n int) int {
	return min(max(n, MinTopN), MaxTopN)
}

// RankCategories counts line items per product category and returns the
// best sellers, largest first.
//
// A nil selection keeps every category; an empty, non-nil selection keeps
// none. Items whose product is unknown or uncategorised are dropped, so a
// category without matching items does not appear at all. Equal totals are
// ordered by category code, so the top-N cut is the same for any row order.
// n <= 0 disables truncation.
func RankCategories(items []models.OrderItem, products []models.Product, selected []string, n int) []models.CategorySales {
	var allowed map[string]bool
	if selected != nil {
		allowed = make(map[string]bool, len(selected))
		for _, c := range selected {
			allowed[c] = true
		}
	}

	productIdx := make(map[string]int, len(products))
	for i, p := range products {
		if p.CategoryName == "" || (allowed != nil && !allowed[p.CategoryName]) {
			continue
		}
		if _, dup := productIdx[p.ProductID]; !dup {
			productIdx[p.ProductID] = i
		}
	}

	perProduct := make(map[string]int, len(productIdx))
	for _, item := range items {
		if _, ok := productIdx[item.ProductID]; ok {
			perProduct[item.ProductID]++
		}
	}

	totals := make(map[string]*models.CategorySales)
	for productID, count := range perProduct {
		p := products[productIdx[productID]]
		cs, ok := totals[p.CategoryName]
		if !ok {
			cs = &models.CategorySales{Category: p.CategoryName, English: p.CategoryEnglish}
			totals[p.CategoryName] = cs
		}
		cs.Items += count
	}

	result := make([]models.CategorySales, 0, len(totals))
	for _, cs := range totals {
		result = append(result, *cs)
	}
	slices.SortFunc(result, func(a, b models.CategorySales) int {
		if a.Items != b.Items {
			return b.Items - a.Items
		}
		return strings.Compare(a.Category, b.Category)
	})

	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// RankTranslatedCategories ranks only the categories that have an English
// name.
func RankTranslatedCategories(items []models.OrderItem, products []models.Product, n int) []models.CategorySales {
	ranked := RankCategories(items, products, nil, 0)
	ranked = slices.DeleteFunc(ranked, func(cs models.CategorySales) bool {
		return cs.English == ""
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CategoryOptions lists the distinct category codes in order of first
// appearance.
func CategoryOptions(products []models.Product) []string {
	seen := make(map[string]bool)
	options := make([]string, 0)
	for _, p := range products {
		if p.CategoryName == "" || seen[p.CategoryName] {
			continue
		}
		seen[p.CategoryName] = true
		options = append(options, p.CategoryName)
	}
	return options
}

// PaymentDistribution counts payments per type, most frequent first. Every
// row is counted, so the counts add up to len(payments).
func PaymentDistribution(payments []models.Payment) []models.PaymentTypeCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, p := range payments {
		if _, ok := counts[p.PaymentType]; !ok {
			order = append(order, p.PaymentType)
		}
		counts[p.PaymentType]++
	}

	result := make([]models.PaymentTypeCount, 0, len(order))
	for _, t := range order {
		result = append(result, models.PaymentTypeCount{
			PaymentType: t,
			Count:       counts[t],
			Share:       100 * float64(counts[t]) / float64(len(payments)),
		})
	}
	slices.SortStableFunc(result, func(a, b models.PaymentTypeCount) int {
		return b.Count - a.Count
	})
	return result
}

// FilterPayments returns the rows whose type matches exactly.
func FilterPayments(payments []models.Payment, paymentType string) []models.Payment {
	result := make([]models.Payment, 0)
	for _, p := range payments {
		if p.PaymentType == paymentType {
			result = append(result, p)
		}
	}
	return result
}

// CategoryPaymentMatrix counts, per category and payment type, the line
// items whose order was paid at least partly with that type.
func CategoryPaymentMatrix(items []models.OrderItem, products []models.Product, payments []models.Payment) []models.CategoryPayment {
	orderTypes := make(map[string][]string)
	typeRank := make(map[string]int)
	for _, p := range payments {
		if _, ok := typeRank[p.PaymentType]; !ok {
			typeRank[p.PaymentType] = len(typeRank)
		}
		if !slices.Contains(orderTypes[p.OrderID], p.PaymentType) {
			orderTypes[p.OrderID] = append(orderTypes[p.OrderID], p.PaymentType)
		}
	}

	byID := make(map[string]models.Product, len(products))
	catRank := make(map[string]int)
	for _, p := range products {
		if p.CategoryName == "" {
			continue
		}
		if _, dup := byID[p.ProductID]; !dup {
			byID[p.ProductID] = p
		}
		if _, ok := catRank[p.CategoryName]; !ok {
			catRank[p.CategoryName] = len(catRank)
		}
	}

	type cell struct{ category, paymentType string }
	cells := make(map[cell]*models.CategoryPayment)
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		for _, t := range orderTypes[item.OrderID] {
			key := cell{p.CategoryName, t}
			cp, ok := cells[key]
			if !ok {
				cp = &models.CategoryPayment{Category: p.CategoryName, English: p.CategoryEnglish, PaymentType: t}
				cells[key] = cp
			}
			cp.Items++
		}
	}

	result := make([]models.CategoryPayment, 0, len(cells))
	for _, cp := range cells {
		result = append(result, *cp)
	}
	slices.SortFunc(result, func(a, b models.CategoryPayment) int {
		if a.Items != b.Items {
			return b.Items - a.Items
		}
		if a.Category != b.Category {
			return catRank[a.Category] - catRank[b.Category]
		}
		return typeRank[a.PaymentType] - typeRank[b.PaymentType]
	})
	return result
}
