package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"renewals-authorization/config"
	"renewals-authorization/models"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.DSN = filepath.Join(t.TempDir(), "renewals.db")

	a, err := Initialize(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func call(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) models.SessionResponse {
	t.Helper()
	var resp models.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRenewalFlow(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	_, err := a.Store.CreateCart(ctx, &models.CartData{
		ID:       "abc123",
		Items:    []map[string]interface{}{{"sku": "PLAN-PRO"}},
		Customer: &models.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Totals:   models.CartTotals{Subtotal: 100, Tax: 8, Total: 108},
	})
	require.NoError(t, err)
	_, err = a.Store.CreateOrder(ctx, &models.OrderDocument{
		ID:          "order-1",
		OrderNumber: "A-100",
		CreatedAt:   "2024-01-15T10:30:00Z",
		Customer:    &models.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Pricing:     models.RenewalTotals{Total: 108},
		Status:      "paid",
	})
	require.NoError(t, err)

	h := a.Handler

	rec := call(t, h, http.MethodPost, "/admin/renewals/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decodeSession(t, rec)
	base := "/admin/renewals/sessions/" + session.ID

	rec = call(t, h, http.MethodPost, base+"/search", map[string]string{"query": "ada"})
	require.Equal(t, http.StatusOK, rec.Code)
	session = decodeSession(t, rec)
	require.Len(t, session.State.FoundOrders, 1)
	assert.Equal(t, "Ada Lovelace", session.State.FoundOrders[0].CustomerName)

	rec = call(t, h, http.MethodPost, base+"/select", map[string]string{"orderId": "order-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodPost, base+"/cart", map[string]string{"cartUrl": "https://shop.example.com/checkout?cart=abc123&x=1"})
	require.Equal(t, http.StatusOK, rec.Code)
	session = decodeSession(t, rec)
	assert.Equal(t, "$108.00", session.Summary.Total)

	rec = call(t, h, http.MethodPost, base+"/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, h, http.MethodPatch, base+"/items/0", map[string]string{"field": "price", "value": "50"})
	require.Equal(t, http.StatusOK, rec.Code)
	session = decodeSession(t, rec)
	assert.Equal(t, 150.0, session.State.Totals.Subtotal)

	rec = call(t, h, http.MethodPut, base+"/fields", map[string]string{"effectiveDate": "2024-02-01", "discountCode": "RENEW10"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var submitted models.SubmitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&submitted))
	require.NotNil(t, submitted.Order)
	assert.NotEmpty(t, submitted.Order.ID)
	assert.Equal(t, "renewal", submitted.Order.OrderType)
	assert.Equal(t, &models.DocumentRef{Ref: "order-1"}, submitted.Order.OriginalOrderRef)
	assert.Equal(t, "RENEW10", submitted.Order.DiscountCode)
	assert.Contains(t, submitted.Message, submitted.Order.ID)
	assert.Empty(t, submitted.State.AdditionalItems)
	assert.Nil(t, submitted.State.ImportedCart)

	// the renewal order is searchable by its generated number
	orders, err := a.Store.SearchOrders(ctx, "REN-", 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, submitted.Order.ID, orders[0].ID)
	assert.Equal(t, "pending", orders[0].Status)

	rec = call(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, a.Sessions.Count())
}

func TestLineItemOverflowRejected(t *testing.T) {
	a := newTestApp(t)
	h := a.Handler

	rec := call(t, h, http.MethodPost, "/admin/renewals/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/admin/renewals/sessions/" + decodeSession(t, rec).ID

	rec = call(t, h, http.MethodPost, base+"/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodPatch, base+"/items/0", map[string]string{"field": "price", "value": "1e308"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodPatch, base+"/items/0", map[string]string{"field": "quantity", "value": "10"})
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeSession(t, rec)
	assert.Equal(t, 0.0, session.State.Totals.Total)

	rec = call(t, h, http.MethodPatch, base+"/items/0", map[string]string{"field": "price", "value": "12.5"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session = decodeSession(t, rec)
	assert.Equal(t, 125.0, session.State.Totals.Subtotal)
	assert.Equal(t, "$135.00", session.Summary.Total)
}

func TestPingAndTool(t *testing.T) {
	a := newTestApp(t)

	rec := call(t, a.Handler, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = call(t, a.Handler, http.MethodGet, "/admin/renewals/tool", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"renewals","title":"Renewals","icon":"🔄"}`, rec.Body.String())
}

func TestInitialize_BadDriver(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Driver = "mongo"
	cfg.Store.DSN = "x"

	_, err := Initialize(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
