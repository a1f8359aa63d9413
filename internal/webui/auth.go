package webui

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/gateway"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=200"`
}

func (s *WebServer) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	token, err := s.app.Gateway().Login(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		// a 401 here is just wrong credentials, not an expired session
		if errors.Is(err, gateway.ErrUnauthorized) {
			return fail(c, http.StatusUnauthorized, "LOGIN_FAILED", "Invalid username or password", nil)
		}
		return failUpstream(c, "log in", err)
	}

	zap.L().Info("operator logged in", zap.String("username", payload.Username))
	return ok(c, map[string]interface{}{"token": token})
}

func (s *WebServer) logout(c echo.Context) error {
	if err := s.app.Session().Clear(); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to clear session", err.Error())
	}
	s.app.Cache().Flush()
	return ok(c, nil)
}

// getSession reports authentication state plus display-only token claims.
func (s *WebServer) getSession(c echo.Context) error {
	sess := s.app.Session()
	data := map[string]interface{}{
		"authenticated": sess.Authenticated(),
	}
	if sess.Authenticated() {
		if claims, err := sess.Claims(); err == nil {
			data["claims"] = claims
		}
	}
	return ok(c, data)
}
