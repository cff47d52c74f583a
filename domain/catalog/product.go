/*
Package catalog is the read-only product catalogue seen by the storefront:
products, the built-in sample list used when the backend is unreachable, and
the search / filter / sort rules applied by the catalogue view.
*/
package catalog

import (
	"storefront/domain/shared"
)

// Product a catalogue entry
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Image         string  `json:"image"`
	StockQuantity int     `json:"stockQuantity"`
	Description   string  `json:"description,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// ProductFromRecord builds a Product from a loosely typed backend record.
// It is the only place product numerics are coerced.
func ProductFromRecord(rec shared.Record) (Product, error) {
	p := Product{
		ID:          rec.String("id", "productId", "product_id"),
		Name:        rec.String("name", "productName", "product_name", "title"),
		Category:    rec.String("category", "categoryName"),
		Image:       rec.String("image", "imageUrl", "image_url"),
		Description: rec.String("description"),
	}
	if p.ID == "" {
		return Product{}, shared.NewMalformedDataError("product", "missing id")
	}
	if p.Name == "" {
		return Product{}, shared.NewMalformedDataError("product", "missing name for "+p.ID)
	}

	price, ok, err := rec.Float("price", "unitPrice", "unit_price")
	if err != nil || !ok || price < 0 {
		return Product{}, shared.NewMalformedDataError("product", "invalid price for "+p.ID)
	}
	p.Price = price

	stock, ok, err := rec.Int("stockQuantity", "stock_quantity", "stock")
	switch {
	case err != nil || stock < 0:
		return Product{}, shared.NewMalformedDataError("product", "invalid stock for "+p.ID)
	case ok:
		p.StockQuantity = stock
	default:
		// Backends that do not track stock are treated as always available.
		p.StockQuantity = 1
	}
	return p, nil
}

// ProductsFromRecords converts records, returning the valid products and the
// per-record errors for the ones dropped.
func ProductsFromRecords(recs []shared.Record) ([]Product, []error) {
	products := make([]Product, 0, len(recs))
	var dropped []error
	for _, rec := range recs {
		p, err := ProductFromRecord(rec)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		products = append(products, p)
	}
	return products, dropped
}
