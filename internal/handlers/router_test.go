package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ledgerdemain/backend/internal/audit"
	"github.com/ledgerdemain/backend/internal/database"
	"github.com/ledgerdemain/backend/internal/models"
	"github.com/ledgerdemain/backend/internal/services"
	"github.com/ledgerdemain/backend/internal/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const source = "0x9999999999999999999999999999999999999999"

type stubProcessor struct{}

func (stubProcessor) Process(ctx context.Context, req *models.PayrollRequest) (*models.PayrollResponse, error) {
	return &models.PayrollResponse{
		Results: []models.EmployeeOutput{{EmployeeID: req.Employees[0].EmployeeID, NetPay: decimal.RequireFromString("816.00"), Status: "OK"}},
		Summary: models.Summary{Processed: 1},
	}, nil
}

func newTestRouter(secret string) http.Handler {
	logger := audit.NewAuditLoggerTo(io.Discard)
	wallet := settlement.NewSimulatedWallet(settlement.NetworkSepolia, source, decimal.RequireFromString("10000"))
	engine := settlement.NewEngine(wallet, logger, "usdc")

	return NewRouter(Services{
		Payroll:    services.NewPayrollService(stubProcessor{}, database.NewLocalLock(), time.Second, nil, engine, logger),
		Settlement: services.NewSettlementService(engine, logger),
		Reports:    services.NewISO20022Service(source),
		Receipts:   services.NewReceiptService(),
	}, RouterConfig{JWTSecret: secret, PublicURL: "http://localhost:8080"})
}

func do(h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	for k, v := range header {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

const payrollBody = `{"employees":[{"employee_id":"EMP0001234","hours_worked":40,"hourly_rate":25.5}]}`

func TestRouter(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		w := do(newTestRouter(""), "GET", "/health", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		json.Unmarshal(w.Body.Bytes(), &body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("process is public", func(t *testing.T) {
		w := do(newTestRouter("secret"), "POST", "/api/payroll/process", payrollBody, nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("settlement routes need a token when auth is on", func(t *testing.T) {
		router := newTestRouter("secret")

		for _, path := range []string{"/api/payroll/process-and-settle", "/api/settlement/batch", "/api/settlement/faucet"} {
			w := do(router, "POST", path, payrollBody, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})

	t.Run("valid token settles", func(t *testing.T) {
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops"}).SignedString([]byte("secret"))

		w := do(newTestRouter("secret"), "POST", "/api/payroll/process-and-settle", payrollBody,
			map[string]string{"Authorization": "Bearer " + token})

		assert.Equal(t, http.StatusOK, w.Code)
		var out services.ProcessAndSettleResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, 1, out.Settlement.TotalProcessed)
	})

	t.Run("auth off", func(t *testing.T) {
		w := do(newTestRouter(""), "POST", "/api/settlement/faucet", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("balance", func(t *testing.T) {
		w := do(newTestRouter("secret"), "GET", "/api/settlement/balance", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), source)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := do(newTestRouter(""), "GET", "/api/payroll/unknown", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
