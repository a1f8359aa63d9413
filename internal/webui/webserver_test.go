package webui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lytortech/vendoradmin/config"
	"github.com/lytortech/vendoradmin/internal/app"
	"github.com/lytortech/vendoradmin/internal/domain"
	"github.com/lytortech/vendoradmin/internal/gateway"
	"github.com/lytortech/vendoradmin/internal/querycache"
	"github.com/lytortech/vendoradmin/internal/session"
	"github.com/lytortech/vendoradmin/internal/table"
)

// testApp satisfies app.AppContext without booting logging, jobs or the
// workdir conventions.
type testApp struct {
	cfg   *config.AppConfig
	sess  *session.Session
	gw    *gateway.Client
	cache *querycache.Cache
	sched *cron.Cron
}

func (a *testApp) Config() *config.AppConfig { return a.cfg }
func (a *testApp) Session() *session.Session { return a.sess }
func (a *testApp) Gateway() *gateway.Client  { return a.gw }
func (a *testApp) Cache() *querycache.Cache  { return a.cache }
func (a *testApp) Scheduler() *cron.Cron     { return a.sched }

var _ app.AppContext = (*testApp)(nil)

func newTestServer(t *testing.T, upstream http.Handler) (*WebServer, *testApp) {
	t.Helper()
	backend := httptest.NewServer(upstream)
	t.Cleanup(backend.Close)

	bus := EventBus.New()
	sess, err := session.Open(path.Join(t.TempDir(), "session.db"), bus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	a := &testApp{
		cfg:   config.DefaultAppConfig,
		sess:  sess,
		gw:    gateway.New(backend.URL, sess, nil),
		cache: querycache.New(time.Minute, bus),
	}
	return NewWebServer(a), a
}

func doRequest(s *WebServer, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

type envelopeBody struct {
	Success  bool            `json:"success"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Redirect string          `json:"redirect"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var body envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "ok",
		"data":    data,
	})
}

func orderFixture(id int, status domain.OrderStatus, vendorID int64, createdAt string, total float64) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		ID:          int64(id),
		OrderNumber: fmt.Sprintf("ORD-%04d", id),
		Customer:    domain.AppCustomer{ID: int64(id), CustomerName: "Customer", PhoneNumber: "9876543210"},
		Vendor:      domain.ServiceVendor{ID: vendorID, VendorName: fmt.Sprintf("Vendor %d", vendorID)},
		Item:        domain.ProductItem{ID: 1, Name: "Water Can"},
		Quantity:    1,
		UnitPrice:   total,
		TotalPrice:  total,
		Status:      status,
		PaymentMethod: domain.PaymentCashOnDelivery,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:   createdAt,
	}
}

func TestRequireSession(t *testing.T) {
	s, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be reached without a session")
	}))

	rec := doRequest(s, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_AUTHENTICATED", body.Code)
	assert.Equal(t, LoginPath, body.Redirect)
}

func TestUpstreamExpiryClearsSession(t *testing.T) {
	s, a := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	require.NoError(t, a.sess.Set("stale-token"))

	rec := doRequest(s, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "AUTH_EXPIRED", body.Code)
	assert.Equal(t, LoginPath, body.Redirect)
	assert.False(t, a.sess.Authenticated())
}

func TestListOrdersFiltersAndPaging(t *testing.T) {
	orders := make([]domain.PurchaseOrder, 0, 25)
	for i := 1; i <= 25; i++ {
		status := domain.OrderPending
		vendorID := int64(1)
		if i%5 == 0 {
			status = domain.OrderDelivered
			vendorID = 2
		}
		orders = append(orders, orderFixture(i, status, vendorID, "2024-08-15T10:30:00", 100))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, orders)
	})
	s, a := newTestServer(t, mux)
	require.NoError(t, a.sess.Set("token"))

	// default page size is 20 on the orders page
	rec := doRequest(s, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view table.View
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &view))
	assert.Equal(t, 25, view.Total)
	assert.Equal(t, 20, view.PageSize)
	assert.Len(t, view.Rows, 20)
	assert.Equal(t, 2, view.PageCount)

	// status filter
	rec = doRequest(s, http.MethodGet, "/api/orders?status=DELIVERED", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &view))
	assert.Equal(t, 5, view.Total)

	// vendor filter composes with status
	rec = doRequest(s, http.MethodGet, "/api/orders?status=DELIVERED&vendorId=2", "")
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &view))
	assert.Equal(t, 5, view.Total)

	// order number search
	rec = doRequest(s, http.MethodGet, "/api/orders?q=ORD-0007", "")
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &view))
	assert.Equal(t, 1, view.Total)
	assert.Equal(t, "ORD-0007", view.Rows[0][0].Text)

	// unknown status is rejected before any list math happens
	rec = doRequest(s, http.MethodGet, "/api/orders?status=BOGUS", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FILTER", decodeBody(t, rec).Code)
}

func TestReassignInvalidatesAssignmentCache(t *testing.T) {
	var listCalls int
	var reassignPath, reassignQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/assignments", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		writeEnvelope(w, []domain.CustomerVendorMap{{
			ID:       1,
			Customer: domain.AppCustomer{ID: 7, CustomerName: "Asha", PhoneNumber: "9876543210"},
			Vendor:   domain.ServiceVendor{ID: 3, VendorName: "North Depot"},
		}})
	})
	mux.HandleFunc("/assignments/reassign/", func(w http.ResponseWriter, r *http.Request) {
		reassignPath = r.URL.Path
		reassignQuery = r.URL.RawQuery
		writeEnvelope(w, map[string]interface{}{"id": 1})
	})
	s, a := newTestServer(t, mux)
	require.NoError(t, a.sess.Set("token"))

	doRequest(s, http.MethodGet, "/api/assignments", "")
	doRequest(s, http.MethodGet, "/api/assignments", "")
	assert.Equal(t, 1, listCalls, "second read must come from cache")

	rec := doRequest(s, http.MethodPut, "/api/assignments/reassign/7?newVendorId=12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/assignments/reassign/7", reassignPath)
	assert.Equal(t, "newVendorId=12", reassignQuery)

	doRequest(s, http.MethodGet, "/api/assignments", "")
	assert.Equal(t, 2, listCalls, "mutation must invalidate the cached list")
}

func TestExportOrdersPassthrough(t *testing.T) {
	payload := []byte("PK\x03\x04 fake xlsx bytes")
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("endDate"))
		_, _ = w.Write(payload)
	})
	s, a := newTestServer(t, mux)
	require.NoError(t, a.sess.Set("token"))

	rec := doRequest(s, http.MethodGet, "/api/orders/export?startDate=2024-01-01&endDate=2024-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `orders_2024-01-01_2024-01-31.xlsx`)
	assert.Equal(t, payload, rec.Body.Bytes())

	// missing range never reaches upstream
	rec = doRequest(s, http.MethodGet, "/api/orders/export", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_RANGE", decodeBody(t, rec).Code)
}

func TestDashboardAggregation(t *testing.T) {
	today := domain.ISODate(time.Now())
	mux := http.NewServeMux()
	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []domain.ProductItem{
			{ID: 1, Name: "Can", Active: true},
			{ID: 2, Name: "Bottle", Active: false},
		})
	})
	mux.HandleFunc("/vendors", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []domain.ServiceVendor{
			{ID: 1, VendorName: "North", Active: true},
			{ID: 2, VendorName: "South", Active: true},
		})
	})
	mux.HandleFunc("/assignments", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []domain.CustomerVendorMap{{ID: 1}, {ID: 2}, {ID: 3}})
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []domain.PurchaseOrder{
			orderFixture(1, domain.OrderDelivered, 1, today+"T09:00:00", 120),
			orderFixture(2, domain.OrderPending, 1, today+"T10:00:00", 80),
			orderFixture(3, domain.OrderCancelled, 2, today+"T11:00:00", 500),
			orderFixture(4, domain.OrderPreparing, 2, "2020-01-01T00:00:00", 100),
		})
	})
	s, a := newTestServer(t, mux)
	require.NoError(t, a.sess.Set("token"))

	rec := doRequest(s, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view dashboardView
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &view))

	assert.Equal(t, 2, view.TotalProducts)
	assert.Equal(t, 1, view.ActiveProducts)
	assert.Equal(t, 2, view.TotalVendors)
	assert.Equal(t, 3, view.TotalCustomers)
	assert.Equal(t, 4, view.TotalOrders)
	// cancelled order excluded from revenue
	assert.InDelta(t, 300, view.TotalRevenue, 0.001)
	assert.InDelta(t, 100, view.AvgOrderValue, 0.001)
	assert.Equal(t, 1, view.StatusCounts["DELIVERED"])
	assert.Equal(t, 1, view.StatusCounts["CANCELLED"])

	require.Len(t, view.WeekRevenue, 7)
	last := view.WeekRevenue[6]
	assert.Equal(t, today, last.Date)
	assert.InDelta(t, 200, last.Revenue, 0.001)
	assert.Equal(t, 2, last.Orders)

	require.NotEmpty(t, view.RecentOrders)
	assert.Equal(t, int64(3), view.RecentOrders[0].ID, "newest order first")
	assert.Equal(t, int64(4), view.RecentOrders[len(view.RecentOrders)-1].ID)
}

func TestCreateProductValidation(t *testing.T) {
	s, a := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid payloads must not reach upstream")
	}))
	require.NoError(t, a.sess.Set("token"))

	rec := doRequest(s, http.MethodPost, "/api/products", `{"name":"Can","mrp":-5,"genPrice":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, rec).Code)

	rec = doRequest(s, http.MethodPost, "/api/products", `{"mrp":5,"genPrice":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVendorOptions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vendors", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []domain.ServiceVendor{
			{ID: 1, VendorName: "North"},
			{ID: 2, VendorName: "South"},
		})
	})
	s, a := newTestServer(t, mux)
	require.NoError(t, a.sess.Set("token"))

	rec := doRequest(s, http.MethodGet, "/api/vendors/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Items []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, rec).Data, &data))
	assert.Equal(t, 2, data.Total)
	assert.Equal(t, "North", data.Items[0].Name)
}

func TestLoginStoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]string{"token": "fresh-token"})
	})
	s, a := newTestServer(t, mux)

	rec := doRequest(s, http.MethodPost, "/api/login", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, a.sess.Authenticated())
	assert.Equal(t, "fresh-token", a.sess.Token())

	rec = doRequest(s, http.MethodPost, "/api/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, a.sess.Authenticated())
}
