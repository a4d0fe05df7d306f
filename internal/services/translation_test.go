package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-dashboard/internal/models"
)

func TestTranslateCategory(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"cama_mesa_banho", "Bedding, Furniture, and Bath"},
		{"beleza_saude", "Beauty and Health"},
		{"esporte_lazer", "Sports and Leisure"},
		{"bebes", "Baby"},
		{"utilidades_domesticas", "Housewares"},
		{"automotivo", "Automotive"},
		{"livros", "Books"},
		{"informatica_acessorios", "Computers and Accessories"},
		{"moveis_decoracao", "Furniture and Decoration"},
		{"telefonia", "Telephony"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := TranslateCategory(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateCategory_Unknown(t *testing.T) {
	for _, code := range []string{"relogios_presentes", "", "Telefonia", "Books"} {
		got, ok := TranslateCategory(code)
		assert.False(t, ok, "code %q", code)
		assert.Empty(t, got)
	}
}

func TestTranslateProducts(t *testing.T) {
	products := []models.Product{
		product("p1", "livros"),
		product("p2", "perfumaria"),
		product("p3", ""),
	}

	TranslateProducts(products)

	assert.Equal(t, "Books", products[0].CategoryEnglish)
	assert.Empty(t, products[1].CategoryEnglish)
	assert.Empty(t, products[2].CategoryEnglish)
}
