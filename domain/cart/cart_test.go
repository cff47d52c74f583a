package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"storefront/domain/catalog"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	phone = catalog.Product{ID: "t1", Name: "Aurora Smartphone", Price: 799.99, Category: "Phones"}
	case_ = catalog.Product{ID: "t8", Name: "Orbit Phone Case", Price: 19.5, Category: "Accessories"}
)

func TestAddIncrementsExistingLine(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(phone, 1))
	require.NoError(t, c.Add(case_, 2))
	require.NoError(t, c.Add(phone, 1))

	require.Equal(t, 2, c.Len())
	l, ok := c.Line("t1")
	require.True(t, ok)
	assert.Equal(t, 2, l.Quantity)
	assert.Equal(t, 4, c.ItemCount())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	err := c.Add(phone, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.True(t, c.IsEmpty())
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(phone, 3))
	require.NoError(t, c.SetQuantity("t1", 5))
	l, _ := c.Line("t1")
	assert.Equal(t, 5, l.Quantity)

	require.NoError(t, c.SetQuantity("t1", -1))
	assert.True(t, c.IsEmpty())

	assert.ErrorIs(t, c.SetQuantity("missing", 1), shared.ErrNotFound)
}

func TestRemoveAndClearAreIdempotent(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(phone, 1))
	c.Remove("t1")
	c.Remove("t1")
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.Add(case_, 1))
	c.Clear()
	c.Clear()
	assert.Empty(t, c.Lines())
}

func TestNoDuplicateProductLinesUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := catalog.SampleProducts()
	c := New()
	for i := 0; i < 500; i++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(4) {
		case 0, 1:
			require.NoError(t, c.Add(p, 1+rng.Intn(3)))
		case 2:
			_ = c.SetQuantity(p.ID, rng.Intn(5)-1)
		case 3:
			c.Remove(p.ID)
		}

		seen := map[string]bool{}
		for _, l := range c.Lines() {
			require.False(t, seen[l.ProductID], "duplicate line for %s at step %d", l.ProductID, i)
			seen[l.ProductID] = true
			require.Positive(t, l.Quantity)
		}
	}
}

func TestLineFromRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     shared.Record
		wantID  string
		wantQty int
		wantErr bool
	}{
		{"flat", shared.Record{"productId": "t1", "name": "Phone", "price": 799.99, "quantity": float64(2)}, "t1", 2, false},
		{"numeric strings", shared.Record{"id": "t2", "name": "Mini", "price": "499.00", "quantity": "1"}, "t2", 1, false},
		{"nested product", shared.Record{"id": float64(91), "quantity": float64(3), "product": map[string]any{"id": "t5", "name": "Earbuds", "price": 129.99}}, "t5", 3, false},
		{"price abc", shared.Record{"productId": "t3", "name": "Laptop", "price": "abc", "quantity": float64(1)}, "", 0, true},
		{"missing name", shared.Record{"productId": "t3", "price": 1.0, "quantity": float64(1)}, "", 0, true},
		{"zero quantity", shared.Record{"productId": "t3", "name": "Laptop", "price": 1.0, "quantity": float64(0)}, "", 0, true},
		{"fractional quantity", shared.Record{"productId": "t3", "name": "Laptop", "price": 1.0, "quantity": 1.5}, "", 0, true},
		{"negative price", shared.Record{"productId": "t3", "name": "Laptop", "price": -1.0, "quantity": float64(1)}, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := LineFromRecord(tt.rec)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrMalformedData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, l.ProductID)
			assert.Equal(t, tt.wantQty, l.Quantity)
		})
	}
}

func TestLinesFromRecordsMergesDuplicatesAndDropsInvalid(t *testing.T) {
	recs := []shared.Record{
		{"productId": "t1", "name": "Phone", "price": 10.0, "quantity": float64(1)},
		{"productId": "t2", "name": "Case", "price": "abc", "quantity": float64(1)},
		{"productId": "t1", "name": "Phone", "price": 10.0, "quantity": float64(2)},
	}
	lines, dropped := LinesFromRecords(recs)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Len(t, dropped, 1)
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{ProductID: "a", Name: "A", Price: 10, Quantity: 2},
		{ProductID: "b", Name: "B", Price: 0.5, Quantity: 3},
	}
	assert.InDelta(t, 21.5, Subtotal(lines), 1e-9)
	assert.Equal(t, 5, ItemCount(lines))
}

func TestFromLinesSkipsInvalid(t *testing.T) {
	c := FromLines([]Line{
		{ProductID: "a", Name: "A", Price: 1, Quantity: 1},
		{ProductID: "b", Name: "B", Price: 1, Quantity: 0},
		{ProductID: "a", Name: "A", Price: 1, Quantity: 4},
	})
	require.Equal(t, 1, c.Len())
	l, _ := c.Line("a")
	assert.Equal(t, 5, l.Quantity)
	assert.Equal(t, fmt.Sprint(5), fmt.Sprint(c.ItemCount()))
}
