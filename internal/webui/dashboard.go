package webui

import (
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/lytortech/vendoradmin/internal/domain"
)

type revenuePoint struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type dashboardView struct {
	TotalProducts  int     `json:"totalProducts"`
	ActiveProducts int     `json:"activeProducts"`
	TotalVendors   int     `json:"totalVendors"`
	ActiveVendors  int     `json:"activeVendors"`
	TotalCustomers int     `json:"totalCustomers"`
	TotalOrders    int     `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	RevenueDisplay string  `json:"revenueDisplay"`
	AvgOrderValue  float64 `json:"avgOrderValue"`

	StatusCounts map[string]int         `json:"statusCounts"`
	WeekRevenue  []revenuePoint         `json:"weekRevenue"`
	RecentOrders []domain.PurchaseOrder `json:"recentOrders"`
}

func (s *WebServer) registerDashboardRoutes(g *echo.Group) {
	g.GET("/dashboard", s.getDashboard)
}

// getDashboard aggregates the four upstream lists into one overview payload.
// The lists are fetched concurrently; any single failure fails the page.
func (s *WebServer) getDashboard(c echo.Context) error {
	var (
		products    []domain.ProductItem
		vendors     []domain.ServiceVendor
		assignments []domain.CustomerVendorMap
		orders      []domain.PurchaseOrder
	)

	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) { products, err = s.fetchProducts(ctx); return })
	g.Go(func() (err error) { vendors, err = s.fetchVendors(ctx); return })
	g.Go(func() (err error) { assignments, err = s.fetchAssignments(ctx); return })
	g.Go(func() (err error) { orders, err = s.fetchOrders(ctx); return })
	if err := g.Wait(); err != nil {
		return failUpstream(c, "load dashboard", err)
	}

	view := dashboardView{
		TotalProducts:  len(products),
		TotalVendors:   len(vendors),
		TotalCustomers: len(assignments),
		TotalOrders:    len(orders),
		StatusCounts:   make(map[string]int, len(domain.OrderStatuses)),
	}
	for _, p := range products {
		if p.Active {
			view.ActiveProducts++
		}
	}
	for _, v := range vendors {
		if v.Active {
			view.ActiveVendors++
		}
	}

	for _, st := range domain.OrderStatuses {
		view.StatusCounts[string(st)] = 0
	}
	totals := make([]float64, 0, len(orders))
	for _, o := range orders {
		view.StatusCounts[string(o.Status)]++
		// cancelled orders never count toward revenue
		if o.Status != domain.OrderCancelled {
			totals = append(totals, o.TotalPrice)
		}
	}
	if len(totals) > 0 {
		sum, _ := stats.Sum(totals)
		mean, _ := stats.Mean(totals)
		view.TotalRevenue = sum
		view.AvgOrderValue = mean
	}
	view.RevenueDisplay = domain.FormatCurrency(view.TotalRevenue)

	view.WeekRevenue = weekRevenue(orders, time.Now())
	view.RecentOrders = recentOrders(orders, 10)
	return ok(c, view)
}

// weekRevenue buckets the trailing seven days, today last. The upstream
// createdAt strings open with an ISO date, so a prefix match is enough.
func weekRevenue(orders []domain.PurchaseOrder, now time.Time) []revenuePoint {
	const dayLen = len("2006-01-02")
	points := make([]revenuePoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		points = append(points, revenuePoint{
			Date:  domain.ISODate(day),
			Label: day.Format("Mon"),
		})
	}
	index := make(map[string]int, len(points))
	for i, p := range points {
		index[p.Date] = i
	}
	for _, o := range orders {
		if o.Status == domain.OrderCancelled {
			continue
		}
		if len(o.CreatedAt) < dayLen {
			continue
		}
		if i, hit := index[o.CreatedAt[:dayLen]]; hit {
			points[i].Revenue += o.TotalPrice
			points[i].Orders++
		}
	}
	return points
}

// recentOrders returns the newest n orders. ISO timestamps order correctly
// as plain strings.
func recentOrders(orders []domain.PurchaseOrder, n int) []domain.PurchaseOrder {
	recent := make([]domain.PurchaseOrder, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool {
		return strings.Compare(recent[i].CreatedAt, recent[j].CreatedAt) > 0
	})
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}
