package user

import (
	"time"

	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// WishlistEntry a saved product
type WishlistEntry struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	Category  string    `json:"category,omitempty"`
	AddedDate time.Time `json:"addedDate"`
	Notes     string    `json:"notes,omitempty"`
}

func EntryFromProduct(p catalog.Product, now time.Time) WishlistEntry {
	return WishlistEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Category:  p.Category,
		AddedDate: now,
	}
}

// EntryFromRecord accepts both flat entries and entries nesting the product.
func EntryFromRecord(rec shared.Record) (WishlistEntry, error) {
	src := rec
	if product, ok := rec.Object("product"); ok {
		src = product
	}
	e := WishlistEntry{
		ProductID: rec.String("productId", "product_id"),
		Name:      src.String("name", "productName"),
		Image:     src.String("image", "imageUrl"),
		Category:  src.String("category"),
		Notes:     rec.String("notes"),
	}
	if e.ProductID == "" {
		e.ProductID = src.String("id")
	}
	if e.ProductID == "" || e.Name == "" {
		return WishlistEntry{}, shared.NewMalformedDataError("wishlist entry", "missing product id or name")
	}
	price, ok, err := src.Float("price")
	if err != nil || !ok || price < 0 {
		return WishlistEntry{}, shared.NewMalformedDataError("wishlist entry", "invalid price for "+e.ProductID)
	}
	e.Price = price
	e.AddedDate, _ = rec.Time("addedDate", "added_date", "createdAt", "created_at")
	return e, nil
}

// WishlistAction is what a toggle did.
type WishlistAction string

const (
	WishlistAdded   WishlistAction = "added"
	WishlistRemoved WishlistAction = "removed"
)

// Wishlist keeps at most one entry per product, in insertion order.
type Wishlist struct {
	entries []WishlistEntry
}

func NewWishlist(entries []WishlistEntry) *Wishlist {
	w := &Wishlist{}
	for _, e := range entries {
		if !w.Contains(e.ProductID) {
			w.entries = append(w.entries, e)
		}
	}
	return w
}

// WishlistFromRecords drops malformed entries and reports them.
func WishlistFromRecords(recs []shared.Record) (*Wishlist, []error) {
	entries := make([]WishlistEntry, 0, len(recs))
	var dropped []error
	for _, rec := range recs {
		e, err := EntryFromRecord(rec)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		entries = append(entries, e)
	}
	return NewWishlist(entries), dropped
}

func (w *Wishlist) Contains(productID string) bool {
	for _, e := range w.entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

// Toggle adds the product when absent and removes it when present.
func (w *Wishlist) Toggle(p catalog.Product, now time.Time) WishlistAction {
	for i, e := range w.entries {
		if e.ProductID == p.ID {
			w.entries = append(w.entries[:i:i], w.entries[i+1:]...)
			return WishlistRemoved
		}
	}
	w.entries = append(w.entries, EntryFromProduct(p, now))
	return WishlistAdded
}

// Entries returns a copy.
func (w *Wishlist) Entries() []WishlistEntry {
	out := make([]WishlistEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Wishlist) Len() int { return len(w.entries) }
