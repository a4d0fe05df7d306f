package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"ecommerce-dashboard/internal/models"
)

const (
	orderItemsCSV = `order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value
o1,1,p1,s1,2017-09-19 09:45:35,58.90,13.29
o1,2,p1,s1,2017-09-19 09:45:35,58.90,13.29
o2,1,p2,s2,2017-05-03 11:05:13,239.90,19.93
o3,1,p3,s1,2018-01-18 14:48:30,199.00,17.87
o4,1,p4,s3,2018-08-15 10:10:18,12.99,12.79
o5,1,p5,s2,2017-02-13 13:57:51,199.90,18.14
o5,2,p9,s2,2017-02-13 13:57:51,,
`
	paymentsCSV = `order_id,payment_sequential,payment_type,payment_installments,payment_value
o1,1,credit_card,8,99.33
o2,1,boleto,1,24.39
o3,1,credit_card,1,65.71
o4,1,credit_card,8,107.78
o5,1,voucher,1,12.50
o5,2,credit_card,2,128.45
`
	productsCSV = `product_id,product_category_name,product_name_lenght,product_description_lenght,product_photos_qty,product_weight_g,product_length_cm,product_height_cm,product_width_cm
p1,perfumaria,40,287,1,225,16,10,14
p2,artes,44,276,1,1000,30,18,20
p3,esporte_lazer,46,250,1,154,18,9,15
p4,bebes,27,261,1,371,26,4,26
p5,relogios_presentes,,,,,,,
`
)

// writeDataset writes the three CSV files into a temp dir and returns their
// paths.
func writeDataset(t *testing.T, items, payments, products string) DataFiles {
	t.Helper()
	files := DataFilesIn(t.TempDir())
	for path, body := range map[string]string{
		files.OrderItems: items,
		files.Payments:   payments,
		files.Products:   products,
	} {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", filepath.Base(path), err)
		}
	}
	return files
}

func item(orderID, productID string) models.OrderItem {
	return models.OrderItem{OrderID: orderID, OrderItemID: 1, ProductID: productID}
}

func product(productID, category string) models.Product {
	return models.Product{ProductID: productID, CategoryName: category}
}

func payment(orderID, paymentType string, value float64) models.Payment {
	return models.Payment{OrderID: orderID, PaymentSequential: 1, PaymentType: paymentType, PaymentInstallments: 1, PaymentValue: value}
}

// repeat returns n items of one product, spread over distinct orders.
func repeat(prefix, productID string, n int) []models.OrderItem {
	items := make([]models.OrderItem, n)
	for i := range items {
		items[i] = item(fmt.Sprintf("%s%d", prefix, i), productID)
	}
	return items
}
