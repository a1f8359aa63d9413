package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lytortech/vendoradmin/internal/domain"
)

// ProductInput is a partial product record; the backend assigns identity and
// timestamps. Pointer fields distinguish "unset" from zero on update.
type ProductInput struct {
	Name     string   `json:"name,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Mrp      *float64 `json:"mrp,omitempty"`
	GenPrice *float64 `json:"genPrice,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.ProductItem, error) {
	raw, err := c.do(ctx, http.MethodGet, "/items", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.ProductItem]("list products", raw)
}

// CreateProduct creates a catalog product.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (domain.ProductItem, error) {
	raw, err := c.do(ctx, http.MethodPost, "/items", nil, in)
	if err != nil {
		return domain.ProductItem{}, err
	}
	return decodeData[domain.ProductItem]("create product", raw)
}

// UpdateProduct applies a partial update to a product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (domain.ProductItem, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), nil, in)
	if err != nil {
		return domain.ProductItem{}, err
	}
	return decodeData[domain.ProductItem]("update product", raw)
}

// DeleteProduct removes a product. The envelope data is null on success.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil)
	return err
}
