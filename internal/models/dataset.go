package models

type OrderItem struct {
	OrderID           string
	OrderItemID       int
	ProductID         string
	SellerID          string
	ShippingLimitDate string
	Price             float64
	FreightValue      float64
}

type Payment struct {
	OrderID             string  `json:"order_id"`
	PaymentSequential   int     `json:"payment_sequential"`
	PaymentType         string  `json:"payment_type"`
	PaymentInstallments int     `json:"payment_installments"`
	PaymentValue        float64 `json:"payment_value"`
}

type Product struct {
	ProductID         string
	CategoryName      string
	CategoryEnglish   string
	NameLength        float64
	DescriptionLength float64
	PhotosQty         float64
	WeightG           float64
	LengthCM          float64
	HeightCM          float64
	WidthCM           float64
}

type CategorySales struct {
	Category string `json:"category"`
	English  string `json:"category_english,omitempty"`
	Items    int    `json:"items"`
}

func (c CategorySales) Label() string {
	if c.English != "" {
		return c.English
	}
	return c.Category
}

type PaymentTypeCount struct {
	PaymentType string  `json:"payment_type"`
	Count       int     `json:"count"`
	Share       float64 `json:"share"`
}

type CategoryPayment struct {
	Category    string `json:"category"`
	English     string `json:"category_english,omitempty"`
	PaymentType string `json:"payment_type"`
	Items       int    `json:"items"`
}
