package webui

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/domain"
	"github.com/lytortech/vendoradmin/internal/gateway"
	"github.com/lytortech/vendoradmin/internal/table"
)

type vendorPayload struct {
	VendorName  string `json:"vendorName" validate:"required,min=1,max=200"`
	CenterName  string `json:"centerName" validate:"required,min=1,max=200"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=7,max=15"`
	Username    string `json:"username" validate:"required,min=3,max=100"`
	Password    string `json:"password" validate:"required,min=6,max=200"`
}

func (s *WebServer) registerVendorRoutes(g *echo.Group) {
	g.GET("/vendors", s.listVendors)
	g.GET("/vendors/options", s.vendorOptions)
	g.POST("/vendors", s.createVendor)
}

func vendorColumns() []table.Column[domain.ServiceVendor] {
	return []table.Column[domain.ServiceVendor]{
		{Key: "vendorName", Header: "Vendor", Kind: table.KindText, Sortable: true,
			Value: func(v domain.ServiceVendor) interface{} { return v.VendorName }},
		{Key: "centerName", Header: "Center", Kind: table.KindText, Sortable: true,
			Value: func(v domain.ServiceVendor) interface{} { return v.CenterName }},
		{Key: "phoneNumber", Header: "Phone", Kind: table.KindCustom,
			Value: func(v domain.ServiceVendor) interface{} { return v.PhoneNumber },
			Render: func(v domain.ServiceVendor) string {
				return domain.FormatPhoneNumber(v.PhoneNumber)
			}},
		{Key: "username", Header: "Username", Kind: table.KindText,
			Value: func(v domain.ServiceVendor) interface{} { return v.Username }},
		{Key: "active", Header: "Status", Kind: table.KindCustom,
			Value: func(v domain.ServiceVendor) interface{} { return v.Active },
			Render: func(v domain.ServiceVendor) string {
				if v.Active {
					return "Active"
				}
				return "Inactive"
			}},
		{Key: "createdAt", Header: "Joined", Kind: table.KindDatetime, Sortable: true,
			Value: func(v domain.ServiceVendor) interface{} { return v.CreatedAt }},
	}
}

func (s *WebServer) listVendors(c echo.Context) error {
	vendors, err := s.fetchVendors(c.Request().Context())
	if err != nil {
		return failUpstream(c, "load vendors", err)
	}

	page, pageSize := parsePagination(c)
	sortKey, sortDir := parseSort(c)
	view := table.Compute(vendors, vendorColumns(), table.Options{
		Query:        c.QueryParam("q"),
		SearchKey:    "vendorName",
		SortKey:      sortKey,
		SortDir:      sortDir,
		Page:         page,
		PageSize:     pageSize,
		EmptyMessage: "No vendors found",
	})
	return ok(c, view)
}

// vendorOptions feeds the vendor filter dropdown on the orders page.
func (s *WebServer) vendorOptions(c echo.Context) error {
	vendors, err := s.fetchVendors(c.Request().Context())
	if err != nil {
		return failUpstream(c, "load vendors", err)
	}

	type option struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	options := make([]option, 0, len(vendors))
	for _, v := range vendors {
		options = append(options, option{ID: v.ID, Name: v.VendorName})
	}
	return paged(c, options, len(options), 1, len(options))
}

func (s *WebServer) createVendor(c echo.Context) error {
	var payload vendorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse vendor parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	vendor, err := s.app.Gateway().CreateVendor(c.Request().Context(), gateway.VendorInput{
		VendorName:  payload.VendorName,
		CenterName:  payload.CenterName,
		PhoneNumber: payload.PhoneNumber,
		Username:    payload.Username,
		Password:    payload.Password,
	})
	if err != nil {
		return failUpstream(c, "create vendor", err)
	}

	s.app.Cache().Invalidate(resourceVendors)
	zap.L().Info("vendor created", zap.Int64("id", vendor.ID), zap.String("vendor", vendor.VendorName))
	return ok(c, vendor)
}
