package storefront

import (
	"context"
	"strings"

	"storefront/domain/catalog"
	"storefront/domain/shared"

	"go.uber.org/zap"
)

// RefreshProducts reloads the catalogue and updates the availability flag.
func (c *Controller) RefreshProducts(ctx context.Context) error {
	res, err := c.backend.ListProducts(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	changed := c.state.BackendAvailable != res.BackendAvailable
	c.state.Products = res.Products
	c.state.BackendAvailable = res.BackendAvailable
	c.mu.Unlock()

	c.log.Debug("products loaded", zap.Int("count", len(res.Products)), zap.Bool("backend", res.BackendAvailable))
	if changed {
		c.publish(newAvailabilityEvent(res.BackendAvailable))
	}
	return nil
}

func (c *Controller) SetSearchQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter.Query = q
}

// SetCategory selects a category; "" or catalog.AllCategories clears it.
func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(category) == "" {
		category = catalog.AllCategories
	}
	c.state.Filter.Category = category
}

// SetPriceRange bounds visible prices. max <= 0 removes the upper bound.
func (c *Controller) SetPriceRange(min, max float64) error {
	if min < 0 {
		return shared.NewValidationError("filter", "minPrice", "minimum price cannot be negative")
	}
	if max > 0 && max < min {
		return shared.NewValidationError("filter", "maxPrice", "maximum price must not be below the minimum")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter.MinPrice = min
	c.state.Filter.MaxPrice = max
	return nil
}

func (c *Controller) SetSort(order string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter.Sort = catalog.ParseSortOrder(order)
}

func (c *Controller) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter = catalog.DefaultFilter()
}

// VisibleProducts applies the current filter to the catalogue.
func (c *Controller) VisibleProducts() []catalog.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Filter.Apply(c.state.Products)
}

// Suggestions completes the current search query.
func (c *Controller) Suggestions() []catalog.Suggestion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return catalog.Suggest(c.state.Products, c.state.Filter.Query)
}

// ToggleCartPanel flips the cart panel and returns whether it is now open.
func (c *Controller) ToggleCartPanel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CartOpen = !c.state.CartOpen
	return c.state.CartOpen
}

func (c *Controller) product(id string) (catalog.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return catalog.FindProduct(c.state.Products, id)
}
