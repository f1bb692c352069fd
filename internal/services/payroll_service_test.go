package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ledgerdemain/backend/internal/audit"
	"github.com/ledgerdemain/backend/internal/bridge"
	"github.com/ledgerdemain/backend/internal/database"
	"github.com/ledgerdemain/backend/internal/models"
	"github.com/ledgerdemain/backend/internal/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	walletA = "0x1111111111111111111111111111111111111111"
	walletB = "0x2222222222222222222222222222222222222222"
	source  = "0x9999999999999999999999999999999999999999"
)

const validBody = `{"employees":[{"employee_id":"EMP0001234","hours_worked":40.00,"hourly_rate":25.50,"tax_code":"US"}]}`

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func okResponse() *models.PayrollResponse {
	return &models.PayrollResponse{
		Results: []models.EmployeeOutput{{
			EmployeeID: "EMP0001234",
			GrossPay:   dec("1020.00"),
			FederalTax: dec("153.00"),
			StateTax:   dec("51.00"),
			NetPay:     dec("816.00"),
			Status:     models.StatusOK,
		}},
		Summary: models.Summary{Processed: 1},
	}
}

func newPayrollService(p Processor, lock database.BridgeLock, resolver WalletResolver, engine *settlement.Engine) *PayrollService {
	return NewPayrollService(p, lock, time.Second, resolver, engine, audit.NewAuditLoggerTo(io.Discard))
}

func post(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPayrollService_ProcessPayroll(t *testing.T) {
	t.Run("successful processing", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		lock.On("Acquire", mock.Anything, time.Second).Return(nil)
		processor.On("Process", mock.Anything, mock.MatchedBy(func(req *models.PayrollRequest) bool {
			return len(req.Employees) == 1 && req.Employees[0].HoursWorked.Equal(dec("40"))
		})).Return(okResponse(), nil)
		service := newPayrollService(processor, lock, nil, nil)

		w := post(service.ProcessPayroll, "/api/payroll/process", validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.PayrollResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Results, 1)
		assert.True(t, resp.Results[0].NetPay.Equal(dec("816.00")))
		assert.Equal(t, 1, resp.Summary.Processed)
		assert.Equal(t, 1, lock.released)
	})

	t.Run("tax code defaults to US", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		lock.On("Acquire", mock.Anything, mock.Anything).Return(nil)
		processor.On("Process", mock.Anything, mock.MatchedBy(func(req *models.PayrollRequest) bool {
			return req.Employees[0].TaxCode == "US"
		})).Return(okResponse(), nil)
		service := newPayrollService(processor, lock, nil, nil)

		w := post(service.ProcessPayroll, "/api/payroll/process",
			`{"employees":[{"employee_id":"EMP1","hours_worked":"40","hourly_rate":"25.5"}]}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid request body", func(t *testing.T) {
		service := newPayrollService(&MockProcessor{}, &MockLock{}, nil, nil)

		w := post(service.ProcessPayroll, "/api/payroll/process", "invalid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrTypeRequest, decodeError(t, w).ErrorType)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		service := newPayrollService(&MockProcessor{}, &MockLock{}, nil, nil)

		w := post(service.ProcessPayroll, "/api/payroll/process", `{"employees":[],"extra":true}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := map[string]string{
			"empty list":      `{"employees":[]}`,
			"long id":         `{"employees":[{"employee_id":"EMP00012345","hours_worked":40,"hourly_rate":25.5}]}`,
			"zero hours":      `{"employees":[{"employee_id":"EMP1","hours_worked":0,"hourly_rate":25.5}]}`,
			"hours too large": `{"employees":[{"employee_id":"EMP1","hours_worked":1000,"hourly_rate":25.5}]}`,
			"rate too large":  `{"employees":[{"employee_id":"EMP1","hours_worked":40,"hourly_rate":10000}]}`,
			"bad tax code":    `{"employees":[{"employee_id":"EMP1","hours_worked":40,"hourly_rate":25.5,"tax_code":"USA"}]}`,
			"three places":    `{"employees":[{"employee_id":"EMP1","hours_worked":40.125,"hourly_rate":25.5}]}`,
			"duplicate id": `{"employees":[
				{"employee_id":"EMP1","hours_worked":40,"hourly_rate":25.5,"wallet_address":"` + walletA + `"},
				{"employee_id":"EMP1","hours_worked":40,"hourly_rate":25.5,"wallet_address":"` + walletB + `"}]}`,
			"line break in id": `{"employees":[{"employee_id":"AB\nCD","hours_worked":40,"hourly_rate":25.5}]}`,
			"multibyte id":     `{"employees":[{"employee_id":"ÉÉÉÉÉÉ","hours_worked":40,"hourly_rate":25.5}]}`,
			"multibyte tax":    `{"employees":[{"employee_id":"EMP1","hours_worked":40,"hourly_rate":25.5,"tax_code":"ÉÉ"}]}`,
		}

		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				processor := &MockProcessor{}
				service := newPayrollService(processor, &MockLock{}, nil, nil)

				w := post(service.ProcessPayroll, "/api/payroll/process", body)

				assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
				resp := decodeError(t, w)
				assert.Equal(t, ErrTypeValidation, resp.ErrorType)
				assert.NotEmpty(t, resp.Details)
				processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("bridge busy", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		lock.On("Acquire", mock.Anything, mock.Anything).Return(database.ErrLockBusy)
		service := newPayrollService(processor, lock, nil, nil)

		w := post(service.ProcessPayroll, "/api/payroll/process", validBody)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, ErrTypeBusy, decodeError(t, w).ErrorType)
		processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
	})

	t.Run("bridge errors are classified", func(t *testing.T) {
		cases := []struct {
			name     string
			err      error
			wantType string
		}{
			{"engine missing", &bridge.Error{Kind: bridge.KindProcessNotFound, Stage: bridge.StageRun}, ErrTypeFileNotFound},
			{"no output", &bridge.Error{Kind: bridge.KindIO, Stage: bridge.StageRead, Err: bridge.ErrNoOutput}, ErrTypeFileNotFound},
			{"io", &bridge.Error{Kind: bridge.KindIO, Stage: bridge.StageWrite, Err: errors.New("disk full")}, ErrTypeFileIO},
			{"format", &bridge.Error{Kind: bridge.KindFormat, Stage: bridge.StageDecode, Line: 2}, ErrTypeParsing},
			{"timeout", &bridge.Error{Kind: bridge.KindProcessTimeout, Stage: bridge.StageRun}, ErrTypeTimeout},
			{"exit status", &bridge.Error{Kind: bridge.KindProcessFailed, Stage: bridge.StageRun}, ErrTypeProcess},
			{"other", errors.New("boom"), ErrTypeUnexpected},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				processor := &MockProcessor{}
				lock := &MockLock{}
				lock.On("Acquire", mock.Anything, mock.Anything).Return(nil)
				processor.On("Process", mock.Anything, mock.Anything).Return(nil, tc.err)
				service := newPayrollService(processor, lock, nil, nil)

				w := post(service.ProcessPayroll, "/api/payroll/process", validBody)

				assert.Equal(t, http.StatusInternalServerError, w.Code)
				resp := decodeError(t, w)
				assert.Equal(t, tc.wantType, resp.ErrorType)
				assert.NotEmpty(t, resp.Error)
				assert.False(t, resp.Timestamp.IsZero())
				assert.Equal(t, 1, lock.released)
			})
		}
	})
}

func TestPayrollService_ProcessAndSettle(t *testing.T) {
	newEngine := func() *settlement.Engine {
		wallet := settlement.NewSimulatedWallet(settlement.NetworkSepolia, source, dec("10000.00"))
		return settlement.NewEngine(wallet, audit.NewAuditLoggerTo(io.Discard), "usdc")
	}

	t.Run("settles OK records", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		lock.On("Acquire", mock.Anything, mock.Anything).Return(nil)
		resp := okResponse()
		resp.Results[0].WalletAddress = walletA
		resp.Results = append(resp.Results, models.EmployeeOutput{EmployeeID: "EMP2", Status: models.StatusError})
		processor.On("Process", mock.Anything, mock.Anything).Return(resp, nil)
		service := newPayrollService(processor, lock, nil, newEngine())

		w := post(service.ProcessAndSettle, "/api/payroll/process-and-settle", validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		var out ProcessAndSettleResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Len(t, out.Payroll.Results, 2)
		assert.Equal(t, 1, out.Settlement.TotalProcessed)
		assert.Equal(t, 1, out.Settlement.TotalSucceeded)
		assert.True(t, strings.HasPrefix(out.Settlement.Results[0].TransactionHash, "0x"))
	})

	t.Run("cancelled request still settles", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		lock.On("Acquire", mock.Anything, mock.Anything).Return(nil)
		resp := okResponse()
		resp.Results[0].WalletAddress = walletA
		processor.On("Process", mock.Anything, mock.Anything).Return(resp, nil)
		service := newPayrollService(processor, lock, nil, newEngine())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := httptest.NewRequest("POST", "/api/payroll/process-and-settle", strings.NewReader(validBody)).WithContext(ctx)
		w := httptest.NewRecorder()
		service.ProcessAndSettle(w, r)

		var out ProcessAndSettleResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, 1, out.Settlement.TotalSucceeded)
	})

	t.Run("fills wallets from the directory", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		resolver := &MockResolver{}
		lock.On("Acquire", mock.Anything, mock.Anything).Return(nil)
		resolver.On("Resolve", mock.Anything, []string{"EMP0001234"}).Return(map[string]string{"EMP0001234": walletB}, nil)
		processor.On("Process", mock.Anything, mock.MatchedBy(func(req *models.PayrollRequest) bool {
			return req.Employees[0].WalletAddress == walletB
		})).Return(okResponse(), nil)
		service := newPayrollService(processor, lock, resolver, newEngine())

		w := post(service.ProcessAndSettle, "/api/payroll/process-and-settle", validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		resolver.AssertExpectations(t)
	})

	t.Run("directory failure still processes", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		resolver := &MockResolver{}
		lock.On("Acquire", mock.Anything, mock.Anything).Return(nil)
		resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
		processor.On("Process", mock.Anything, mock.Anything).Return(okResponse(), nil)
		service := newPayrollService(processor, lock, resolver, newEngine())

		w := post(service.ProcessAndSettle, "/api/payroll/process-and-settle", validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		var out ProcessAndSettleResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, 1, out.Settlement.TotalFailed)
		assert.Equal(t, string(settlement.ValidationError), out.Settlement.Results[0].ErrorType)
	})

	t.Run("no settlement configured", func(t *testing.T) {
		service := newPayrollService(&MockProcessor{}, &MockLock{}, nil, nil)

		w := post(service.ProcessAndSettle, "/api/payroll/process-and-settle", validBody)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("bridge failure skips settlement", func(t *testing.T) {
		processor := &MockProcessor{}
		lock := &MockLock{}
		lock.On("Acquire", mock.Anything, mock.Anything).Return(nil)
		processor.On("Process", mock.Anything, mock.Anything).
			Return(nil, &bridge.Error{Kind: bridge.KindProcessNotFound, Stage: bridge.StageRun})
		service := newPayrollService(processor, lock, nil, newEngine())

		w := post(service.ProcessAndSettle, "/api/payroll/process-and-settle", validBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, ErrTypeFileNotFound, decodeError(t, w).ErrorType)
	})
}

func TestPayrollService_RealBridge(t *testing.T) {
	dir := t.TempDir()
	transport := bridge.NewFileTransport(dir, "", "")
	runner := bridge.NewExecRunner("", dir, time.Second)
	service := newPayrollService(bridge.NewOrchestrator(transport, runner), database.NewLocalLock(), nil, nil)

	w := post(service.ProcessPayroll, "/api/payroll/process", validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ErrTypeFileNotFound, decodeError(t, w).ErrorType)
}
