package cart

import (
	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// Cart an ordered set of lines, at most one per product id.
// The zero value is an empty cart.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from lines that already passed ingestion.
// Duplicate product ids are merged and invalid lines are skipped.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		if l.Validate() != nil {
			continue
		}
		c.merge(l)
	}
	return c
}

func (c *Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) merge(l Line) {
	if i := c.index(l.ProductID); i >= 0 {
		c.lines[i].Quantity += l.Quantity
		return
	}
	c.lines = append(c.lines, l)
}

// Add puts quantity units of p in the cart, incrementing an existing line.
func (c *Cart) Add(p catalog.Product, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("cart", "quantity", "quantity must be positive")
	}
	l, err := NewLine(p, quantity)
	if err != nil {
		return err
	}
	c.merge(l)
	return nil
}

// AddLine merges a ready line (used by the local cache).
func (c *Cart) AddLine(l Line) error {
	if err := l.Validate(); err != nil {
		return err
	}
	c.merge(l)
	return nil
}

// SetQuantity sets the quantity of an existing line. A quantity <= 0 removes it.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	i := c.index(productID)
	if i < 0 {
		return shared.NewNotFoundError("cart line")
	}
	if quantity <= 0 {
		c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
		return nil
	}
	c.lines[i].Quantity = quantity
	return nil
}

// Remove drops the line for productID; removing an absent product is a no-op.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID.
func (c *Cart) Line(productID string) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Len number of distinct products
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// ItemCount total units across lines (the navbar badge).
func (c *Cart) ItemCount() int {
	return ItemCount(c.lines)
}

// ItemCount total units across lines.
func ItemCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sum of line totals.
func Subtotal(lines []Line) float64 {
	var s float64
	for _, l := range lines {
		s += l.LineTotal()
	}
	return s
}
