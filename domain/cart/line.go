/*
Package cart models the shopping cart: lines keyed by product id, with the
invariants that every line has a positive quantity and a non-negative price,
and that no product appears on two lines.
*/
package cart

import (
	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// Line one product-quantity pairing in a cart
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Validate checks the line invariants.
func (l Line) Validate() error {
	switch {
	case l.ProductID == "":
		return shared.NewMalformedDataError("cart line", "missing product id")
	case l.Name == "":
		return shared.NewMalformedDataError("cart line", "missing name for "+l.ProductID)
	case l.Price < 0:
		return shared.NewMalformedDataError("cart line", "negative price for "+l.ProductID)
	case l.Quantity <= 0:
		return shared.NewMalformedDataError("cart line", "non-positive quantity for "+l.ProductID)
	}
	return nil
}

// LineTotal price times quantity
func (l Line) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// NewLine builds a validated line for product.
func NewLine(p catalog.Product, quantity int) (Line, error) {
	l := Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Image:     p.Image,
		Category:  p.Category,
	}
	if err := l.Validate(); err != nil {
		return Line{}, err
	}
	return l, nil
}

// LineFromRecord is the single ingestion point for cart lines coming from the
// backend or the local cache. Records that break an invariant are rejected
// with a MalformedData error; numeric strings are accepted.
func LineFromRecord(rec shared.Record) (Line, error) {
	l := Line{
		ProductID: rec.String("productId", "product_id"),
		Name:      rec.String("name", "productName", "product_name"),
		Image:     rec.String("image", "imageUrl", "image_url"),
		Category:  rec.String("category"),
	}
	// Some backends nest the product next to the quantity; then "id" is the
	// cart item id, not the product id.
	if product, ok := rec.Object("product"); ok {
		if l.ProductID == "" {
			l.ProductID = product.String("id", "productId")
		}
		if l.Name == "" {
			l.Name = product.String("name")
		}
		if l.Image == "" {
			l.Image = product.String("image", "imageUrl")
		}
		if l.Category == "" {
			l.Category = product.String("category")
		}
		if !rec.Has("price", "unitPrice", "unit_price") {
			rec = mergePrice(rec, product)
		}
	} else if l.ProductID == "" {
		l.ProductID = rec.String("id")
	}

	price, ok, err := rec.Float("price", "unitPrice", "unit_price")
	if err != nil || !ok {
		return Line{}, shared.NewMalformedDataError("cart line", "invalid price for "+l.ProductID)
	}
	l.Price = price

	qty, ok, err := rec.Int("quantity", "qty")
	if err != nil || !ok {
		return Line{}, shared.NewMalformedDataError("cart line", "invalid quantity for "+l.ProductID)
	}
	l.Quantity = qty

	if err := l.Validate(); err != nil {
		return Line{}, err
	}
	return l, nil
}

func mergePrice(rec, product shared.Record) shared.Record {
	merged := make(shared.Record, len(rec)+1)
	for k, v := range rec {
		merged[k] = v
	}
	if v, ok := product["price"]; ok {
		merged["price"] = v
	}
	return merged
}

// LinesFromRecords converts records into a cart honouring the one-line-per-product
// invariant (duplicate product lines are merged). Dropped records are returned
// as errors for logging.
func LinesFromRecords(recs []shared.Record) ([]Line, []error) {
	c := New()
	var dropped []error
	for _, rec := range recs {
		l, err := LineFromRecord(rec)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		c.merge(l)
	}
	return c.Lines(), dropped
}
