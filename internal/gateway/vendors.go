package gateway

import (
	"context"
	"net/http"

	"github.com/lytortech/vendoradmin/internal/domain"
)

// VendorInput creates a vendor account. Every field is required by the
// backend; the password is write-only and never echoed back.
type VendorInput struct {
	VendorName  string `json:"vendorName"`
	CenterName  string `json:"centerName"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// ListVendors fetches all vendor accounts.
func (c *Client) ListVendors(ctx context.Context) ([]domain.ServiceVendor, error) {
	raw, err := c.do(ctx, http.MethodGet, "/vendors", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.ServiceVendor]("list vendors", raw)
}

// CreateVendor registers a vendor account.
func (c *Client) CreateVendor(ctx context.Context, in VendorInput) (domain.ServiceVendor, error) {
	raw, err := c.do(ctx, http.MethodPost, "/vendors", nil, in)
	if err != nil {
		return domain.ServiceVendor{}, err
	}
	return decodeData[domain.ServiceVendor]("create vendor", raw)
}
