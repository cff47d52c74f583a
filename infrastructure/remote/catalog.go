package remote

import (
	"context"
	"net/http"
	"net/url"

	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// FetchResult is a product list and whether it came from the backend.
type FetchResult struct {
	Products         []catalog.Product
	BackendAvailable bool
}

// ListProducts fetches the catalogue. When the backend cannot be reached the
// bundled sample catalogue is returned with BackendAvailable=false and no error.
func (c *Client) ListProducts(ctx context.Context) (FetchResult, error) {
	p, err := c.send(ctx, call{op: "list products", method: http.MethodGet, path: "/products", idempotent: true})
	if unreachable(err) {
		c.log.Info("backend unreachable, serving sample catalogue")
		return FetchResult{Products: catalog.SampleProducts(), BackendAvailable: false}, nil
	}
	if err != nil {
		return FetchResult{}, err
	}
	products, dropped := catalog.ProductsFromRecords(p.records("products", "data"))
	c.logDropped("list products", dropped)
	return FetchResult{Products: products, BackendAvailable: true}, nil
}

// SearchProducts runs a server-side name search, falling back to filtering
// the sample catalogue.
func (c *Client) SearchProducts(ctx context.Context, query string) (FetchResult, error) {
	p, err := c.send(ctx, call{
		op:         "search products",
		method:     http.MethodGet,
		path:       "/products/search",
		query:      map[string]string{"q": query},
		idempotent: true,
	})
	if unreachable(err) {
		f := catalog.DefaultFilter()
		f.Query = query
		return FetchResult{Products: f.Apply(catalog.SampleProducts()), BackendAvailable: false}, nil
	}
	if err != nil {
		return FetchResult{}, err
	}
	products, dropped := catalog.ProductsFromRecords(p.records("products", "data"))
	c.logDropped("search products", dropped)
	return FetchResult{Products: products, BackendAvailable: true}, nil
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, err := c.send(ctx, call{op: "get product", method: http.MethodGet, path: "/products/" + url.PathEscape(id), idempotent: true})
	if err != nil {
		return catalog.Product{}, err
	}
	rec, ok := p.object("product")
	if !ok {
		return catalog.Product{}, shared.NewMalformedDataError("product", "response is "+p.data().kind.String())
	}
	return catalog.ProductFromRecord(rec)
}
