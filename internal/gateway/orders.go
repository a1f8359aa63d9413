package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/guonaihong/gout"

	"github.com/lytortech/vendoradmin/internal/domain"
)

// ListOrders fetches every purchase order.
func (c *Client) ListOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	raw, err := c.do(ctx, http.MethodGet, "/orders", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.PurchaseOrder]("list orders", raw)
}

// ListOrdersRange fetches orders created inside the inclusive ISO date range.
func (c *Client) ListOrdersRange(ctx context.Context, startDate, endDate string) ([]domain.PurchaseOrder, error) {
	raw, err := c.do(ctx, http.MethodGet, "/orders/date-range",
		gout.H{"startDate": startDate, "endDate": endDate}, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.PurchaseOrder]("list orders by range", raw)
}

// ExportOrdersRange downloads the upstream spreadsheet for the range. The
// payload is the raw xlsx bytes, to be persisted under ExportFilename.
func (c *Client) ExportOrdersRange(ctx context.Context, startDate, endDate string) ([]byte, error) {
	return c.doRaw(ctx, "/orders/export", gout.H{"startDate": startDate, "endDate": endDate})
}

// ExportFilename names an orders export artifact for the given range.
func ExportFilename(startDate, endDate string) string {
	return fmt.Sprintf("orders_%s_%s.xlsx", startDate, endDate)
}
