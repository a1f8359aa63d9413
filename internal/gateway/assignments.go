package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/guonaihong/gout"

	"github.com/lytortech/vendoradmin/internal/domain"
)

// AssignInput maps a customer to a vendor.
type AssignInput struct {
	CustomerID int64  `json:"customerId"`
	VendorID   int64  `json:"vendorId"`
	AssignedBy string `json:"assignedBy"`
}

// ListAssignments fetches all customer to vendor mappings.
func (c *Client) ListAssignments(ctx context.Context) ([]domain.CustomerVendorMap, error) {
	raw, err := c.do(ctx, http.MethodGet, "/assignments", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.CustomerVendorMap]("list assignments", raw)
}

// Assign creates a new customer to vendor mapping.
func (c *Client) Assign(ctx context.Context, in AssignInput) (domain.CustomerVendorMap, error) {
	raw, err := c.do(ctx, http.MethodPost, "/assignments", nil, in)
	if err != nil {
		return domain.CustomerVendorMap{}, err
	}
	return decodeData[domain.CustomerVendorMap]("assign customer", raw)
}

// Reassign replaces the customer's current vendor with newVendorID. The
// request carries no body; the target vendor travels as a query parameter.
func (c *Client) Reassign(ctx context.Context, customerID, newVendorID int64) error {
	path := fmt.Sprintf("/assignments/reassign/%d", customerID)
	_, err := c.do(ctx, http.MethodPut, path, gout.H{"newVendorId": newVendorID}, nil)
	return err
}
