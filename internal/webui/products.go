package webui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/domain"
	"github.com/lytortech/vendoradmin/internal/gateway"
	"github.com/lytortech/vendoradmin/internal/table"
)

type productPayload struct {
	Name     string   `json:"name" validate:"required,min=1,max=200"`
	ImageURL string   `json:"imageUrl" validate:"omitempty,max=1024"`
	Mrp      *float64 `json:"mrp" validate:"required,gte=0"`
	GenPrice *float64 `json:"genPrice" validate:"required,gte=0"`
	Active   *bool    `json:"active"`
}

type productUpdatePayload struct {
	Name     string   `json:"name" validate:"omitempty,min=1,max=200"`
	ImageURL string   `json:"imageUrl" validate:"omitempty,max=1024"`
	Mrp      *float64 `json:"mrp" validate:"omitempty,gte=0"`
	GenPrice *float64 `json:"genPrice" validate:"omitempty,gte=0"`
	Active   *bool    `json:"active"`
}

func (s *WebServer) registerProductRoutes(g *echo.Group) {
	g.GET("/products", s.listProducts)
	g.GET("/products/export", s.exportProducts)
	g.POST("/products", s.createProduct)
	g.PUT("/products/:id", s.updateProduct)
	g.DELETE("/products/:id", s.deleteProduct)
}

func productColumns() []table.Column[domain.ProductItem] {
	return []table.Column[domain.ProductItem]{
		{Key: "name", Header: "Product", Kind: table.KindText, Sortable: true,
			Value: func(p domain.ProductItem) interface{} { return p.Name }},
		{Key: "mrp", Header: "MRP", Kind: table.KindCurrency, Sortable: true,
			Value: func(p domain.ProductItem) interface{} { return p.Mrp }},
		{Key: "genPrice", Header: "Gen Price", Kind: table.KindCurrency, Sortable: true,
			Value: func(p domain.ProductItem) interface{} { return p.GenPrice }},
		{Key: "active", Header: "Status", Kind: table.KindCustom,
			Value: func(p domain.ProductItem) interface{} { return p.Active },
			Render: func(p domain.ProductItem) string {
				if p.Active {
					return "Active"
				}
				return "Inactive"
			}},
		{Key: "createdAt", Header: "Created", Kind: table.KindDatetime, Sortable: true,
			Value: func(p domain.ProductItem) interface{} { return p.CreatedAt }},
	}
}

func (s *WebServer) listProducts(c echo.Context) error {
	items, err := s.fetchProducts(c.Request().Context())
	if err != nil {
		return failUpstream(c, "load products", err)
	}

	page, pageSize := parsePagination(c)
	sortKey, sortDir := parseSort(c)
	view := table.Compute(items, productColumns(), table.Options{
		Query:        c.QueryParam("q"),
		SearchKey:    "name",
		SortKey:      sortKey,
		SortDir:      sortDir,
		Page:         page,
		PageSize:     pageSize,
		EmptyMessage: "No products found",
	})
	return ok(c, view)
}

func (s *WebServer) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	item, err := s.app.Gateway().CreateProduct(c.Request().Context(), gateway.ProductInput{
		Name:     payload.Name,
		ImageURL: payload.ImageURL,
		Mrp:      payload.Mrp,
		GenPrice: payload.GenPrice,
		Active:   payload.Active,
	})
	if err != nil {
		return failUpstream(c, "create product", err)
	}

	s.app.Cache().Invalidate(resourceProducts)
	zap.L().Info("product created", zap.Int64("id", item.ID), zap.String("name", item.Name))
	return ok(c, item)
}

func (s *WebServer) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	item, err := s.app.Gateway().UpdateProduct(c.Request().Context(), id, gateway.ProductInput{
		Name:     payload.Name,
		ImageURL: payload.ImageURL,
		Mrp:      payload.Mrp,
		GenPrice: payload.GenPrice,
		Active:   payload.Active,
	})
	if err != nil {
		return failUpstream(c, "update product", err)
	}

	s.app.Cache().Invalidate(resourceProducts)
	return ok(c, item)
}

func (s *WebServer) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	if err := s.app.Gateway().DeleteProduct(c.Request().Context(), id); err != nil {
		return failUpstream(c, "delete product", err)
	}

	s.app.Cache().Invalidate(resourceProducts)
	zap.L().Info("product deleted", zap.Int64("id", id))
	return ok(c, map[string]interface{}{"id": id})
}

// exportProducts writes the full catalog as a spreadsheet.
func (s *WebServer) exportProducts(c echo.Context) error {
	items, err := s.fetchProducts(c.Request().Context())
	if err != nil {
		return failUpstream(c, "export products", err)
	}

	const sheet = "Sheet1"
	f := excelize.NewFile()
	headers := []string{"ID", "Name", "MRP", "Gen Price", "Active", "Created At"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%c1", rune('A'+i)), h)
	}
	for row, p := range items {
		active := "No"
		if p.Active {
			active = "Yes"
		}
		values := []interface{}{p.ID, p.Name, p.Mrp, p.GenPrice, active, p.CreatedAt}
		for col, v := range values {
			f.SetCellValue(sheet, fmt.Sprintf("%c%d", rune('A'+col), row+2), v)
		}
	}

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
