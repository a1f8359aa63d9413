package webui

import (
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/lytortech/vendoradmin/internal/table"
)

// parsePagination reads page/perPage, clamping to sane bounds.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = table.DefaultPageSize
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// parseSort reads sort/order. The direction toggle lives client-side; the
// server just honors the requested direction.
func parseSort(c echo.Context) (string, table.SortDir) {
	key := strings.TrimSpace(c.QueryParam("sort"))
	if strings.EqualFold(strings.TrimSpace(c.QueryParam("order")), "desc") {
		return key, table.SortDesc
	}
	return key, table.SortAsc
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
}

// validDate reports whether a user supplied date string is parseable. The
// raw string is forwarded upstream untouched so filenames and range queries
// stay exactly what the operator asked for.
func validDate(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	_, err := dateparse.ParseAny(value)
	return err == nil
}
