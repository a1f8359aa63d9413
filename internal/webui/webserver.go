// Package webui serves the dashboard pages as JSON endpoints: every list
// page is a computed table view, every mutation proxies through the typed
// gateway and invalidates the owning query cache resource.
package webui

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/app"
)

// cache resource names; mutations invalidate these
const (
	resourceProducts    = "products"
	resourceVendors     = "vendors"
	resourceAssignments = "assignments"
	resourceOrders      = "orders"
)

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// WebServer is the echo front of the dashboard.
type WebServer struct {
	app  app.AppContext
	root *echo.Echo
}

func NewWebServer(application app.AppContext) *WebServer {
	s := &WebServer{app: application, root: echo.New()}
	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.Validator = &webValidator{validate: validator.New()}
	s.root.Use(middleware.Recover())
	s.root.Use(middleware.CORS())
	s.initRoutes()
	return s
}

func (s *WebServer) initRoutes() {
	s.root.POST("/api/login", s.login)
	s.root.POST("/api/logout", s.logout)
	s.root.GET("/api/session", s.getSession)

	api := s.root.Group("/api", s.requireSession)
	s.registerDashboardRoutes(api)
	s.registerProductRoutes(api)
	s.registerVendorRoutes(api)
	s.registerAssignmentRoutes(api)
	s.registerOrderRoutes(api)
}

// requireSession answers 401 with the login redirect before any upstream
// call is attempted. A credential that turns out stale is caught later by
// the gateway's own 401 handling.
func (s *WebServer) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.app.Session().Authenticated() {
			return failRedirect(c, "NOT_AUTHENTICATED", "Login required")
		}
		return next(c)
	}
}

// Echo exposes the router for tests.
func (s *WebServer) Echo() *echo.Echo { return s.root }

// Start serves until the listener fails or is shut down.
func (s *WebServer) Start() error {
	cfg := s.app.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return s.root.Start(addr)
}

func handleValidationError(c echo.Context, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		detail := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			detail[fe.Field()] = fe.Tag()
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", detail)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", err.Error())
}
