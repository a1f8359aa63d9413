package webui

import (
	"context"

	"github.com/lytortech/vendoradmin/internal/domain"
	"github.com/lytortech/vendoradmin/internal/querycache"
)

// Cached reads. Each list is fetched on demand and re-fetched after the
// owning resource is invalidated by a mutation.

func (s *WebServer) fetchProducts(ctx context.Context) ([]domain.ProductItem, error) {
	return querycache.GetOrFetch(ctx, s.app.Cache(), resourceProducts, nil,
		func(ctx context.Context) ([]domain.ProductItem, error) {
			return s.app.Gateway().ListProducts(ctx)
		})
}

func (s *WebServer) fetchVendors(ctx context.Context) ([]domain.ServiceVendor, error) {
	return querycache.GetOrFetch(ctx, s.app.Cache(), resourceVendors, nil,
		func(ctx context.Context) ([]domain.ServiceVendor, error) {
			return s.app.Gateway().ListVendors(ctx)
		})
}

func (s *WebServer) fetchAssignments(ctx context.Context) ([]domain.CustomerVendorMap, error) {
	return querycache.GetOrFetch(ctx, s.app.Cache(), resourceAssignments, nil,
		func(ctx context.Context) ([]domain.CustomerVendorMap, error) {
			return s.app.Gateway().ListAssignments(ctx)
		})
}

func (s *WebServer) fetchOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return querycache.GetOrFetch(ctx, s.app.Cache(), resourceOrders, nil,
		func(ctx context.Context) ([]domain.PurchaseOrder, error) {
			return s.app.Gateway().ListOrders(ctx)
		})
}

func (s *WebServer) fetchOrdersRange(ctx context.Context, startDate, endDate string) ([]domain.PurchaseOrder, error) {
	return querycache.GetOrFetch(ctx, s.app.Cache(), resourceOrders, []string{startDate, endDate},
		func(ctx context.Context) ([]domain.PurchaseOrder, error) {
			return s.app.Gateway().ListOrdersRange(ctx, startDate, endDate)
		})
}
