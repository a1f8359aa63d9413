package webui

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/gateway"
)

// LoginPath is where clients are sent when the credential is missing or
// rejected.
const LoginPath = "/login"

type response struct {
	Success  bool        `json:"success"`
	Code     string      `json:"code,omitempty"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Detail   interface{} `json:"detail,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, response{Success: true, Message: "ok", Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, response{
		Success: false,
		Code:    code,
		Message: message,
		Detail:  detail,
	})
}

// failRedirect is the authentication failure shape: 401 plus the login
// target, regardless of which endpoint was hit.
func failRedirect(c echo.Context, code, message string) error {
	return c.JSON(http.StatusUnauthorized, response{
		Success:  false,
		Code:     code,
		Message:  message,
		Redirect: LoginPath,
	})
}

type pagedData struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func paged(c echo.Context, items interface{}, total, page, pageSize int) error {
	return ok(c, pagedData{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// failUpstream maps gateway errors onto the response taxonomy: 401 is the
// global redirect case, everything else stays local to the failed action so
// the user can retry.
func failUpstream(c echo.Context, action string, err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		return failRedirect(c, "AUTH_EXPIRED", "Session expired, please log in again")
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < http.StatusBadRequest {
			// success=false inside a 2xx answer
			status = http.StatusBadGateway
		}
		return fail(c, status, "UPSTREAM_ERROR", "Failed to "+action, apiErr.Message)
	}

	var decErr *gateway.DecodeError
	if errors.As(err, &decErr) {
		zap.L().Error("malformed upstream envelope", zap.String("action", action), zap.Error(err))
		return fail(c, http.StatusBadGateway, "UPSTREAM_ENVELOPE", "Failed to "+action, decErr.Error())
	}

	zap.L().Warn("upstream unreachable", zap.String("action", action), zap.Error(err))
	return fail(c, http.StatusBadGateway, "UPSTREAM_UNREACHABLE", "Failed to "+action, err.Error())
}
