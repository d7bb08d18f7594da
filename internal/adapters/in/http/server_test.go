package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "returns/internal/adapters/in/http"
	"returns/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// newTestRouter wires a server with zero-value handlers. Every test below
// exercises boundary behavior that resolves before any handler runs.
func newTestRouter() *echo.Echo {
	e := echo.New()
	api.NewServer(api.Handlers{}, api.NewDefaultPolicy()).RegisterRoutes(e)

	return e
}

func doRequest(e *echo.Echo, method, path, body, role, actorID string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if role != "" {
		req.Header.Set("X-Actor-Role", role)
	}
	if actorID != "" {
		req.Header.Set("X-Actor-Id", actorID)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodGet, "/health", "", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCreateOrder_WithoutRole_IsUnauthorized(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders", "", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_DriverRole_IsForbidden(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders", "", "driver", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateOrder_WithoutActorID_IsBadRequest(t *testing.T) {
	body := `{"pickup_address":"123 Main St","retailer":"Acme","boxes":["M"]}`
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders", body, "customer", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-Actor-Id")
}

func TestCreateOrder_UnknownBoxSize_IsBadRequest(t *testing.T) {
	body := `{"pickup_address":"123 Main St","retailer":"Acme","boxes":["XXL"]}`
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders",
		body, "customer", kernel.NewUUID().String())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptOrder_MalformedOrderID_IsBadRequest(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders/not-a-uuid/accept",
		"", "driver", kernel.NewUUID().String())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailableOrders_MissingCoordinates_IsBadRequest(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodGet, "/api/v1/orders/available",
		"", "driver", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "lat")
}

func TestGetAvailableOrders_CustomerRole_IsForbidden(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodGet, "/api/v1/orders/available?lat=37.77&lon=-122.41",
		"", "customer", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProgressOrder_UnknownTarget_IsBadRequest(t *testing.T) {
	orderID := kernel.NewUUID().String()
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders/"+orderID+"/status",
		`{"target":"teleported"}`, "driver", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefundWebhook_UnknownStatus_IsBadRequest(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/webhooks/refunds",
		`{"refund_id":"re_1","status":"maybe"}`, "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkRefund_NonAdmin_IsForbidden(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders/bulk-refund",
		`{"items":[],"reason":"recall"}`, "customer", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBulkTransition_MalformedOrderID_IsBadRequest(t *testing.T) {
	rec := doRequest(newTestRouter(), http.MethodPost, "/api/v1/orders/bulk-status",
		`{"order_ids":["nope"],"target":"cancelled"}`, "admin", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
