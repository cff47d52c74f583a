package catalog

import (
	"testing"

	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFromRecord(t *testing.T) {
	p, err := ProductFromRecord(shared.Record{"id": float64(7), "name": "Cable", "price": "4.50", "category": "Accessories"})
	require.NoError(t, err)
	assert.Equal(t, "7", p.ID)
	assert.InDelta(t, 4.5, p.Price, 1e-9)
	assert.True(t, p.InStock(), "records without stock are treated as available")

	_, err = ProductFromRecord(shared.Record{"id": "x", "name": "Bad", "price": "abc"})
	assert.ErrorIs(t, err, shared.ErrMalformedData)

	_, err = ProductFromRecord(shared.Record{"name": "No id", "price": 1})
	assert.ErrorIs(t, err, shared.ErrMalformedData)
}

func TestProductsFromRecordsDropsInvalid(t *testing.T) {
	products, dropped := ProductsFromRecords([]shared.Record{
		{"id": "a", "name": "A", "price": 1.0},
		{"id": "b", "name": "B", "price": -3.0},
		{"id": "c", "name": "C", "price": 2.0, "stockQuantity": 1.5},
	})
	require.Len(t, products, 1)
	assert.Equal(t, "a", products[0].ID)
	assert.Len(t, dropped, 2)
}

func TestFilterApply(t *testing.T) {
	products := SampleProducts()

	f := DefaultFilter()
	f.Category = "Audio"
	f.Sort = SortByPriceLow
	got := f.Apply(products)
	require.NotEmpty(t, got)
	for i, p := range got {
		assert.Equal(t, "Audio", p.Category)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].Price, p.Price)
		}
	}

	f = DefaultFilter()
	f.Query = "  LAPTOP "
	f.MaxPrice = 1300
	got = f.Apply(products)
	require.Len(t, got, 2)
	assert.Equal(t, "Drift Laptop Sleeve", got[0].Name)
	assert.Equal(t, "Zephyr Laptop 14", got[1].Name)
}

func TestSuggestDeduplicatesAndLimits(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Case"}, {ID: "2", Name: "Case"}, {ID: "3", Name: "Phone Case"},
		{ID: "4", Name: "Case A"}, {ID: "5", Name: "Case B"}, {ID: "6", Name: "Case C"},
		{ID: "7", Name: "Case D"}, {ID: "8", Name: "Case E"},
	}
	got := Suggest(products, "case")
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "Case", got[0].Name)
	assert.Equal(t, "Phone Case", got[1].Name)

	assert.Nil(t, Suggest(products, "   "))
}

func TestSampleProductsIsACopy(t *testing.T) {
	a := SampleProducts()
	a[0].Price = 0
	b := SampleProducts()
	assert.InDelta(t, 799.99, b[0].Price, 1e-9)

	p, ok := FindProduct(b, "t1")
	require.True(t, ok)
	assert.Equal(t, "Aurora Smartphone", p.Name)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortByPriceHigh, ParseSortOrder("price-high"))
	assert.Equal(t, SortByName, ParseSortOrder("bogus"))
}
