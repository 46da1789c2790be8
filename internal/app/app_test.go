package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/app"
	"github.com/fekuna/omnipos-sales-service/internal/broker"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/server"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	events  *broker.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewNop()
	repos := app.MemoryRepositories(memory.NewStore())
	rec := broker.NewRecorder()
	uc := app.NewUseCases(repos, app.Infra{
		Locker:    cache.NewLocalLocker(),
		LockTTL:   time.Second,
		Publisher: rec,
	}, clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)), log)
	return &testServer{t: t, handler: server.NewRouter(uc.Handlers(log), repos.DB, log), events: rec}
}

// do sends body as JSON and decodes the response into out when out is not nil.
func (s *testServer) do(method, path string, body interface{}, out interface{}) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "cashier-1")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type seeded struct {
	customerID string
	userID     string
	productID  string
}

func (s *testServer) seed(stock int, price string) seeded {
	s.t.Helper()
	var c, u, p struct {
		ID string `json:"id"`
	}
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/customers", map[string]string{"name": "Ana"}, &c))
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/users", map[string]string{"name": "Cashier", "username": "cashier"}, &u))
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/products", map[string]interface{}{
		"sku":            "SKU-1",
		"name":           "Coffee",
		"salePrice":      price,
		"wholesalePrice": price,
		"touristPrice":   price,
		"purchasePrice":  "1",
		"stock":          stock,
	}, &p))
	return seeded{customerID: c.ID, userID: u.ID, productID: p.ID}
}

func (s *testServer) product(id string) model.Product {
	s.t.Helper()
	var p model.Product
	require.Equal(s.t, http.StatusOK, s.do(http.MethodGet, "/products/"+id, nil, &p))
	return p
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func holdingBody(sd seeded, opType string, qty int) map[string]interface{} {
	return map[string]interface{}{
		"customerId": sd.customerID,
		"userId":     sd.userID,
		"type":       opType,
		"products": []map[string]interface{}{
			{"productId": sd.productID, "quantity": qty, "priceType": "SALE"},
		},
	}
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(10, "10")

	var ah model.AccountHolding
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/accountsholdings", holdingBody(sd, "ACCOUNT", 3), &ah))
	assert.Equal(t, "30.00", ah.Total.StringFixed(2))
	assert.Equal(t, model.StatusPending, ah.Status)
	assert.Equal(t, 7, s.product(sd.productID).Stock)

	var result struct {
		Payment        model.Payment        `json:"payment"`
		AccountHolding model.AccountHolding `json:"accountHolding"`
		Change         string               `json:"change"`
		Sale           *model.Sale          `json:"sale"`
	}
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/payments", map[string]interface{}{
		"amount":           "30",
		"accountHoldingId": ah.ID,
		"customerId":       sd.customerID,
	}, &result))
	assert.Equal(t, model.StatusPaid, result.AccountHolding.Status)
	require.NotNil(t, result.Sale)
	assert.Equal(t, "30.00", result.Sale.TotalWithIVA.StringFixed(2))

	var sale model.Sale
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/sales/"+result.Sale.ID, nil, &sale))
	assert.Len(t, sale.Products, 1)

	var got model.AccountHolding
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/accountsholdings/"+ah.ID, nil, &got))
	assert.Equal(t, model.StatusPaid, got.Status)
	assert.Len(t, got.Payments, 1)
	require.NotNil(t, got.Customer)

	var eb errorBody
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/payments", map[string]interface{}{
		"amount":           "1",
		"accountHoldingId": ah.ID,
		"customerId":       sd.customerID,
	}, &eb))
	assert.Equal(t, "Account holding is already paid", eb.Error)

	assert.Len(t, s.events.Events("SaleFinalized"), 1)
}

func TestHoldingCancelOverHTTP(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(2, "5")

	var ah model.AccountHolding
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/accountsholdings", holdingBody(sd, "HOLDING", 4), &ah))
	p := s.product(sd.productID)
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 4, p.ReservedStock)

	var eb errorBody
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/payments", map[string]interface{}{
		"amount":           "20",
		"accountHoldingId": ah.ID,
		"customerId":       sd.customerID,
	}, &eb))
	assert.Equal(t, "conflict", eb.Code)

	var cancelled model.AccountHolding
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/accountsholdings/"+ah.ID+"/cancel", nil, &cancelled))
	assert.Equal(t, ah.ID, cancelled.ID)
	assert.Equal(t, 0, s.product(sd.productID).ReservedStock)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/accountsholdings/"+ah.ID, nil, &eb))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/accountsholdings/"+ah.ID+"/cancel", nil, &eb))
}

func TestCreateHoldingErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(1, "5")

	var eb errorBody
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/accountsholdings", holdingBody(sd, "RENTAL", 1), &eb))
	assert.Equal(t, "Invalid operation type", eb.Error)

	missing := holdingBody(sd, "ACCOUNT", 1)
	missing["customerId"] = "nobody"
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/accountsholdings", missing, &eb))
	assert.Equal(t, "Customer not found", eb.Error)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/accountsholdings", holdingBody(sd, "ACCOUNT", 2), &eb))
	assert.Equal(t, 1, s.product(sd.productID).Stock)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/accountsholdings", map[string]interface{}{"unknown": true}, &eb))
}

func TestStockAdjustmentOverHTTP(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(3, "5")

	var p model.Product
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/products/"+sd.productID+"/stock",
		map[string]interface{}{"quantityChange": 5, "reason": "recount"}, &p))
	assert.Equal(t, 8, p.Stock)

	var eb errorBody
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/products/"+sd.productID+"/stock",
		map[string]interface{}{"quantityChange": -9, "reason": "theft"}, &eb))

	var movements struct {
		Data  []model.InventoryMovement `json:"data"`
		Total int                       `json:"total"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/products/"+sd.productID+"/movements", nil, &movements))
	require.Equal(t, 1, movements.Total)
	require.NotNil(t, movements.Data[0].CreatedBy)
	assert.Equal(t, "cashier-1", *movements.Data[0].CreatedBy)
}

func TestDamagedStockOverHTTP(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(6, "5")

	var p model.Product
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/products/"+sd.productID+"/stock",
		map[string]interface{}{"quantityChange": -2, "reason": "broken in transit", "type": "damaged"}, &p))
	assert.Equal(t, 4, p.Stock)

	var eb errorBody
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/products/"+sd.productID+"/stock",
		map[string]interface{}{"quantityChange": 1, "reason": "found", "type": "damaged"}, &eb))

	var damaged struct {
		Data  []model.InventoryMovement `json:"data"`
		Total int                       `json:"total"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/products/damaged", nil, &damaged))
	require.Equal(t, 1, damaged.Total)
	assert.Equal(t, "broken in transit", damaged.Data[0].Notes)
}

func TestQuotationConversionOverHTTP(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(5, "10")

	body := holdingBody(sd, "", 2)
	delete(body, "type")
	var q model.Quotation
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/quotations", body, &q))
	assert.Equal(t, "20.00", q.Total.StringFixed(2))
	assert.Equal(t, 0, s.product(sd.productID).ReservedStock)

	var ah model.AccountHolding
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/quotations/"+q.ID+"/convert",
		map[string]string{"type": "HOLDING"}, &ah))
	assert.Equal(t, "20.00", ah.ToPay.StringFixed(2))
	assert.Equal(t, 2, s.product(sd.productID).ReservedStock)

	var eb errorBody
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/quotations/"+q.ID+"/convert",
		map[string]string{"type": "HOLDING"}, &eb))
	assert.Equal(t, "conflict", eb.Code)

	var got model.Quotation
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/quotations/"+q.ID, nil, &got))
	assert.Equal(t, model.QuotationConverted, got.Status)
}

func TestCashRegisterOverHTTP(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(5, "10")

	var session model.CashRegisterSession
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/cashregister/sessions",
		map[string]interface{}{"userId": sd.userID, "openingAmount": "100"}, &session))

	var eb errorBody
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/cashregister/sessions",
		map[string]interface{}{"userId": sd.userID, "openingAmount": "10"}, &eb))

	var ah model.AccountHolding
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/accountsholdings", holdingBody(sd, "ACCOUNT", 3), &ah))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/payments", map[string]interface{}{
		"amount":           "30",
		"accountHoldingId": ah.ID,
		"customerId":       sd.customerID,
	}, nil))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/cashregister/sessions/"+session.ID+"/movements",
		map[string]interface{}{"type": "OUT", "amount": "12.50", "description": "cleaning supplies"}, nil))

	var report dto.SessionReport
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/cashregister/sessions/current", nil, &report))
	assert.Equal(t, "117.50", report.Expected.StringFixed(2))

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/cashregister/sessions/"+session.ID+"/close",
		map[string]interface{}{"countedAmount": "110"}, &report))
	assert.Equal(t, model.CashSessionClosed, report.Session.Status)
	assert.Equal(t, "-7.50", report.Session.Difference.StringFixed(2))
	assert.Equal(t, model.DeviationCritical, *report.Session.Deviation)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/cashregister/sessions/current", nil, &eb))
}
