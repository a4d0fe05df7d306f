package services

import "ecommerce-dashboard/internal/models"

var categoryTranslation = map[string]string{
	"cama_mesa_banho":        "Bedding, Furniture, and Bath",
	"beleza_saude":           "Beauty and Health",
	"esporte_lazer":          "Sports and Leisure",
	"bebes":                  "Baby",
	"utilidades_domesticas":  "Housewares",
	"automotivo":             "Automotive",
	"livros":                 "Books",
	"informatica_acessorios": "Computers and Accessories",
	"moveis_decoracao":       "Furniture and Decoration",
	"telefonia":              "Telephony",
}

// TranslateCategory looks up the English name of a category code. Codes
// outside the table report false and an empty name.
func TranslateCategory(code string) (string, bool) {
	name, ok := categoryTranslation[code]
	return name, ok
}

// TranslateProducts fills CategoryEnglish in place.
func TranslateProducts(products []models.Product) {
	for i := range products {
		products[i].CategoryEnglish, _ = TranslateCategory(products[i].CategoryName)
	}
}
