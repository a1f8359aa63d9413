package webui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/domain"
	"github.com/lytortech/vendoradmin/internal/gateway"
	"github.com/lytortech/vendoradmin/internal/table"
)

type assignPayload struct {
	CustomerID int64  `json:"customerId" validate:"required,gt=0"`
	VendorID   int64  `json:"vendorId" validate:"required,gt=0"`
	AssignedBy string `json:"assignedBy" validate:"omitempty,max=100"`
}

func (s *WebServer) registerAssignmentRoutes(g *echo.Group) {
	g.GET("/assignments", s.listAssignments)
	g.POST("/assignments", s.assignCustomer)
	g.PUT("/assignments/reassign/:customerId", s.reassignCustomer)
}

func assignmentColumns() []table.Column[domain.CustomerVendorMap] {
	return []table.Column[domain.CustomerVendorMap]{
		{Key: "customer", Header: "Customer", Kind: table.KindCustom, Sortable: true,
			Value: func(m domain.CustomerVendorMap) interface{} { return m.Customer.CustomerName },
			Render: func(m domain.CustomerVendorMap) string {
				return fmt.Sprintf("%s (%s)", m.Customer.CustomerName,
					domain.FormatPhoneNumber(m.Customer.PhoneNumber))
			}},
		{Key: "city", Header: "City", Kind: table.KindText, Sortable: true,
			Value: func(m domain.CustomerVendorMap) interface{} { return m.Customer.City }},
		{Key: "vendor", Header: "Vendor", Kind: table.KindCustom, Sortable: true,
			Value: func(m domain.CustomerVendorMap) interface{} { return m.Vendor.VendorName },
			Render: func(m domain.CustomerVendorMap) string {
				if m.Vendor.CenterName == "" {
					return m.Vendor.VendorName
				}
				return fmt.Sprintf("%s / %s", m.Vendor.VendorName, m.Vendor.CenterName)
			}},
		{Key: "assignedBy", Header: "Assigned By", Kind: table.KindText,
			Value: func(m domain.CustomerVendorMap) interface{} { return m.AssignedBy }},
		{Key: "assignedAt", Header: "Assigned", Kind: table.KindDatetime, Sortable: true,
			Value: func(m domain.CustomerVendorMap) interface{} { return m.AssignedAt }},
	}
}

func (s *WebServer) listAssignments(c echo.Context) error {
	mappings, err := s.fetchAssignments(c.Request().Context())
	if err != nil {
		return failUpstream(c, "load assignments", err)
	}

	// vendorId narrows the list to one vendor's customers before the
	// free-text search runs.
	if vid := c.QueryParam("vendorId"); vid != "" {
		filtered := mappings[:0:0]
		for _, m := range mappings {
			if fmt.Sprintf("%d", m.Vendor.ID) == vid {
				filtered = append(filtered, m)
			}
		}
		mappings = filtered
	}

	page, pageSize := parsePagination(c)
	sortKey, sortDir := parseSort(c)
	view := table.Compute(mappings, assignmentColumns(), table.Options{
		Query:        c.QueryParam("q"),
		SearchKey:    "customer",
		SortKey:      sortKey,
		SortDir:      sortDir,
		Page:         page,
		PageSize:     pageSize,
		EmptyMessage: "No assignments found",
	})
	return ok(c, view)
}

func (s *WebServer) assignCustomer(c echo.Context) error {
	var payload assignPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse assignment parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	mapping, err := s.app.Gateway().Assign(c.Request().Context(), gateway.AssignInput{
		CustomerID: payload.CustomerID,
		VendorID:   payload.VendorID,
		AssignedBy: payload.AssignedBy,
	})
	if err != nil {
		return failUpstream(c, "assign customer", err)
	}

	s.app.Cache().Invalidate(resourceAssignments)
	zap.L().Info("customer assigned",
		zap.Int64("customerId", payload.CustomerID),
		zap.Int64("vendorId", payload.VendorID))
	return ok(c, mapping)
}

func (s *WebServer) reassignCustomer(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	newVendorID, err := strconv.ParseInt(strings.TrimSpace(c.QueryParam("newVendorId")), 10, 64)
	if err != nil || newVendorID <= 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "newVendorId is required", nil)
	}

	if err := s.app.Gateway().Reassign(c.Request().Context(), customerID, newVendorID); err != nil {
		return failUpstream(c, "reassign customer", err)
	}

	s.app.Cache().Invalidate(resourceAssignments)
	zap.L().Info("customer reassigned",
		zap.Int64("customerId", customerID),
		zap.Int64("newVendorId", newVendorID))
	return ok(c, map[string]interface{}{"customerId": customerID, "vendorId": newVendorID})
}
