package webui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/domain"
	"github.com/lytortech/vendoradmin/internal/gateway"
	"github.com/lytortech/vendoradmin/internal/table"
)

// ordersPageSize is larger than the default list page: orders is the page
// operators keep open all day.
const ordersPageSize = 20

func (s *WebServer) registerOrderRoutes(g *echo.Group) {
	g.GET("/orders", s.listOrders)
	g.GET("/orders/:id", s.getOrder)
	g.GET("/orders/export", s.exportOrders)
	g.GET("/orders/export/csv", s.exportOrdersCSV)
}

func orderColumns() []table.Column[domain.PurchaseOrder] {
	return []table.Column[domain.PurchaseOrder]{
		{Key: "orderNumber", Header: "Order #", Kind: table.KindText, Sortable: true,
			Value: func(o domain.PurchaseOrder) interface{} { return o.OrderNumber }},
		{Key: "customer", Header: "Customer", Kind: table.KindCustom, Sortable: true,
			Value: func(o domain.PurchaseOrder) interface{} { return o.Customer.CustomerName },
			Render: func(o domain.PurchaseOrder) string {
				return fmt.Sprintf("%s (%s)", o.Customer.CustomerName,
					domain.FormatPhoneNumber(o.Customer.PhoneNumber))
			}},
		{Key: "vendor", Header: "Vendor", Kind: table.KindText, Sortable: true,
			Value: func(o domain.PurchaseOrder) interface{} { return o.Vendor.VendorName }},
		{Key: "item", Header: "Item", Kind: table.KindCustom,
			Value: func(o domain.PurchaseOrder) interface{} { return o.Item.Name },
			Render: func(o domain.PurchaseOrder) string {
				return fmt.Sprintf("%s x%d", o.Item.Name, o.Quantity)
			}},
		{Key: "totalPrice", Header: "Total", Kind: table.KindCurrency, Sortable: true,
			Value: func(o domain.PurchaseOrder) interface{} { return o.TotalPrice }},
		{Key: "status", Header: "Status", Kind: table.KindBadge,
			Value: func(o domain.PurchaseOrder) interface{} { return string(o.Status) }},
		{Key: "paymentStatus", Header: "Payment", Kind: table.KindCustom,
			Value: func(o domain.PurchaseOrder) interface{} { return string(o.PaymentStatus) },
			Render: func(o domain.PurchaseOrder) string {
				return fmt.Sprintf("%s / %s", o.PaymentMethod.Label(), o.PaymentStatus)
			}},
		{Key: "createdAt", Header: "Placed", Kind: table.KindDatetime, Sortable: true,
			Value: func(o domain.PurchaseOrder) interface{} { return o.CreatedAt }},
	}
}

// loadOrders picks the plain list or the date-range list depending on the
// startDate/endDate query parameters.
func (s *WebServer) loadOrders(c echo.Context) ([]domain.PurchaseOrder, error) {
	startDate := strings.TrimSpace(c.QueryParam("startDate"))
	endDate := strings.TrimSpace(c.QueryParam("endDate"))
	if startDate == "" && endDate == "" {
		return s.fetchOrders(c.Request().Context())
	}
	if !validDate(startDate) || !validDate(endDate) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid date range")
	}
	return s.fetchOrdersRange(c.Request().Context(), startDate, endDate)
}

// filterOrders applies the status, paymentStatus and vendorId filters.
func filterOrders(c echo.Context, orders []domain.PurchaseOrder) ([]domain.PurchaseOrder, error) {
	status := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	payStatus := domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(c.QueryParam("paymentStatus"))))
	if payStatus != "" && !payStatus.Valid() {
		return nil, fmt.Errorf("unknown payment status %q", payStatus)
	}
	var vendorID int64
	if vid := strings.TrimSpace(c.QueryParam("vendorId")); vid != "" {
		parsed, err := strconv.ParseInt(vid, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid vendor id %q", vid)
		}
		vendorID = parsed
	}

	if status == "" && payStatus == "" && vendorID == 0 {
		return orders, nil
	}
	filtered := make([]domain.PurchaseOrder, 0, len(orders))
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if payStatus != "" && o.PaymentStatus != payStatus {
			continue
		}
		if vendorID != 0 && o.Vendor.ID != vendorID {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered, nil
}

func (s *WebServer) listOrders(c echo.Context) error {
	orders, err := s.loadOrders(c)
	if err != nil {
		if he, isHTTP := err.(*echo.HTTPError); isHTTP {
			return fail(c, he.Code, "INVALID_RANGE", fmt.Sprintf("%v", he.Message), nil)
		}
		return failUpstream(c, "load orders", err)
	}

	orders, err = filterOrders(c, orders)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILTER", err.Error(), nil)
	}

	page := 1
	if p, perr := strconv.Atoi(c.QueryParam("page")); perr == nil && p > 0 {
		page = p
	}
	pageSize := ordersPageSize
	if ps, perr := strconv.Atoi(c.QueryParam("perPage")); perr == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	sortKey, sortDir := parseSort(c)
	view := table.Compute(orders, orderColumns(), table.Options{
		Query:        c.QueryParam("q"),
		SearchKey:    "orderNumber",
		SortKey:      sortKey,
		SortDir:      sortDir,
		Page:         page,
		PageSize:     pageSize,
		EmptyMessage: "No orders found",
	})
	return ok(c, view)
}

func (s *WebServer) getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	orders, err := s.fetchOrders(c.Request().Context())
	if err != nil {
		return failUpstream(c, "load order", err)
	}
	for _, o := range orders {
		if o.ID == id {
			return ok(c, o)
		}
	}
	return fail(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Order %d not found", id), nil)
}

// exportOrders streams the upstream spreadsheet for the requested range.
func (s *WebServer) exportOrders(c echo.Context) error {
	startDate := strings.TrimSpace(c.QueryParam("startDate"))
	endDate := strings.TrimSpace(c.QueryParam("endDate"))
	if !validDate(startDate) || !validDate(endDate) {
		return fail(c, http.StatusBadRequest, "INVALID_RANGE", "startDate and endDate are required", nil)
	}

	payload, err := s.app.Gateway().ExportOrdersRange(c.Request().Context(), startDate, endDate)
	if err != nil {
		return failUpstream(c, "export orders", err)
	}

	filename := gateway.ExportFilename(startDate, endDate)
	zap.L().Info("orders exported", zap.String("filename", filename), zap.Int("bytes", len(payload)))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

type orderCSVRow struct {
	OrderNumber   string  `csv:"order_number"`
	Customer      string  `csv:"customer"`
	Vendor        string  `csv:"vendor"`
	Item          string  `csv:"item"`
	Quantity      int     `csv:"quantity"`
	UnitPrice     float64 `csv:"unit_price"`
	TotalPrice    float64 `csv:"total_price"`
	Status        string  `csv:"status"`
	PaymentMethod string  `csv:"payment_method"`
	PaymentStatus string  `csv:"payment_status"`
	CreatedAt     string  `csv:"created_at"`
}

// exportOrdersCSV builds a CSV locally from the filtered order list, so the
// current status/paymentStatus/vendorId filters apply to the download too.
func (s *WebServer) exportOrdersCSV(c echo.Context) error {
	orders, err := s.loadOrders(c)
	if err != nil {
		if he, isHTTP := err.(*echo.HTTPError); isHTTP {
			return fail(c, he.Code, "INVALID_RANGE", fmt.Sprintf("%v", he.Message), nil)
		}
		return failUpstream(c, "export orders", err)
	}
	orders, err = filterOrders(c, orders)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILTER", err.Error(), nil)
	}

	rows := make([]orderCSVRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderCSVRow{
			OrderNumber:   o.OrderNumber,
			Customer:      o.Customer.CustomerName,
			Vendor:        o.Vendor.VendorName,
			Item:          o.Item.Name,
			Quantity:      o.Quantity,
			UnitPrice:     o.UnitPrice,
			TotalPrice:    o.TotalPrice,
			Status:        string(o.Status),
			PaymentMethod: string(o.PaymentMethod),
			PaymentStatus: string(o.PaymentStatus),
			CreatedAt:     o.CreatedAt,
		})
	}

	filename := fmt.Sprintf("orders_%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(rows, c.Response())
}
