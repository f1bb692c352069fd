package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ledgerdemain/backend/internal/audit"
	"github.com/ledgerdemain/backend/internal/bridge"
	"github.com/ledgerdemain/backend/internal/database"
	"github.com/ledgerdemain/backend/internal/models"
	"github.com/ledgerdemain/backend/internal/settlement"
	"github.com/shopspring/decimal"
)

const defaultTaxCode = "US"

// Processor runs one payroll calculation
type Processor interface {
	Process(ctx context.Context, req *models.PayrollRequest) (*models.PayrollResponse, error)
}

// ProcessAndSettleResponse pairs a payroll run with its payout batch
type ProcessAndSettleResponse struct {
	Payroll    *models.PayrollResponse        `json:"payroll"`
	Settlement *models.BatchSettlementSummary `json:"settlement"`
}

type PayrollService struct {
	processor Processor
	lock      database.BridgeLock
	lockWait  time.Duration
	wallets   WalletResolver
	engine    *settlement.Engine
	audit     *audit.AuditLogger
	validator *ValidationHelper
}

// NewPayrollService wires the bridge behind lock. wallets and engine may be
// nil; without an engine the settle route answers 503.
func NewPayrollService(processor Processor, lock database.BridgeLock, lockWait time.Duration,
	wallets WalletResolver, engine *settlement.Engine, auditLogger *audit.AuditLogger) *PayrollService {
	if auditLogger == nil {
		auditLogger = audit.NewAuditLogger()
	}
	return &PayrollService{
		processor: processor,
		lock:      lock,
		lockWait:  lockWait,
		wallets:   wallets,
		engine:    engine,
		audit:     auditLogger,
		validator: NewValidationHelper(),
	}
}

// ProcessPayroll runs the calculation engine over the submitted employees
// @Summary Process payroll
// @Description Compute gross pay, taxes and net pay through the calculation engine
// @Tags payroll
// @Accept json
// @Produce json
// @Param request body models.PayrollRequest true "Employees to process"
// @Success 200 {object} models.PayrollResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payroll/process [post]
func (s *PayrollService) ProcessPayroll(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	resp, ok := s.run(r.Context(), w, req)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, resp)
}

// ProcessAndSettle runs payroll and pays every OK record's net pay
// @Summary Process and settle payroll
// @Description Process payroll, then transfer each successful employee's net pay to their wallet
// @Tags payroll
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PayrollRequest true "Employees to process"
// @Success 200 {object} ProcessAndSettleResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /payroll/process-and-settle [post]
func (s *PayrollService) ProcessAndSettle(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		SendErrorResponse(w, "Settlement is not configured", ErrTypeSettlement, http.StatusServiceUnavailable, nil)
		return
	}

	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	s.resolveWallets(r.Context(), req)

	resp, ok := s.run(r.Context(), w, req)
	if !ok {
		return
	}

	batch := s.engine.Settle(context.WithoutCancel(r.Context()), settlement.InstructionsFrom(resp))
	sendJSON(w, http.StatusOK, ProcessAndSettleResponse{Payroll: resp, Settlement: batch})
}

func (s *PayrollService) readRequest(w http.ResponseWriter, r *http.Request) (*models.PayrollRequest, bool) {
	var req models.PayrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", ErrTypeRequest, http.StatusBadRequest, err)
		return nil, false
	}

	for i := range req.Employees {
		if req.Employees[i].TaxCode == "" {
			req.Employees[i].TaxCode = defaultTaxCode
		}
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", ErrTypeValidation, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	if details := precisionErrors(req.Employees); len(details) > 0 {
		sendJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:     "Validation failed",
			ErrorType: ErrTypeValidation,
			Details:   details,
			Timestamp: time.Now().UTC(),
		})
		return nil, false
	}

	log.Printf("[PAYROLL] Received payroll processing request for %d employees", len(req.Employees))
	return &req, true
}

// run holds the bridge lock for one orchestrator pass and writes the error
// response itself when the pass fails
func (s *PayrollService) run(ctx context.Context, w http.ResponseWriter, req *models.PayrollRequest) (*models.PayrollResponse, bool) {
	unlock, err := s.lock.Acquire(ctx, s.lockWait)
	if err != nil {
		if errors.Is(err, database.ErrLockBusy) {
			SendErrorResponse(w, "Payroll engine is busy, retry later", ErrTypeBusy, http.StatusServiceUnavailable, nil)
		} else {
			log.Printf("[PAYROLL] ERROR: bridge lock: %v", err)
			SendErrorResponse(w, fmt.Sprintf("Unexpected error during payroll processing: %v", err), ErrTypeUnexpected, http.StatusInternalServerError, nil)
		}
		return nil, false
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.Printf("[PAYROLL] WARNING: failed to release bridge lock: %v", err)
		}
	}()

	start := time.Now()
	resp, err := s.processor.Process(ctx, req)
	if err != nil {
		status, errType, message := classifyBridgeError(err)
		log.Printf("[PAYROLL] ERROR: %s", message)
		s.audit.LogPayrollRun(0, 0, "FAILED", map[string]string{"error_type": errType, "error": err.Error()})
		SendErrorResponse(w, message, errType, status, nil)
		return nil, false
	}

	log.Printf("[PAYROLL] Payroll processing completed: %d processed, %d errors", resp.Summary.Processed, resp.Summary.Errors)
	s.audit.LogPayrollRun(resp.Summary.Processed, resp.Summary.Errors, "SUCCESS",
		map[string]string{"duration": time.Since(start).String()})
	return resp, true
}

// resolveWallets fills in missing destination addresses from the directory.
// Lookup failures leave the addresses empty and those payouts fail later.
func (s *PayrollService) resolveWallets(ctx context.Context, req *models.PayrollRequest) {
	if s.wallets == nil {
		return
	}

	var missing []string
	for _, e := range req.Employees {
		if e.WalletAddress == "" {
			missing = append(missing, e.EmployeeID)
		}
	}
	if len(missing) == 0 {
		return
	}

	found, err := s.wallets.Resolve(ctx, missing)
	if err != nil {
		log.Printf("[PAYROLL] WARNING: wallet directory lookup failed: %v", err)
		return
	}
	for i := range req.Employees {
		if req.Employees[i].WalletAddress == "" {
			req.Employees[i].WalletAddress = found[req.Employees[i].EmployeeID]
		}
	}
}

func precisionErrors(employees []models.EmployeeInput) map[string]string {
	details := map[string]string{}
	for i, e := range employees {
		if !twoPlaces(e.HoursWorked) {
			details[fmt.Sprintf("PayrollRequest.Employees[%d].HoursWorked", i)] = "At most 2 decimal places"
		}
		if !twoPlaces(e.HourlyRate) {
			details[fmt.Sprintf("PayrollRequest.Employees[%d].HourlyRate", i)] = "At most 2 decimal places"
		}
	}
	return details
}

func twoPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// classifyBridgeError maps a bridge failure to its HTTP status, error type
// and message
func classifyBridgeError(err error) (int, string, string) {
	switch bridge.KindOf(err) {
	case bridge.KindFormat:
		return http.StatusInternalServerError, ErrTypeParsing, fmt.Sprintf("Failed to parse engine output: %v", err)
	case bridge.KindProcessNotFound:
		return http.StatusInternalServerError, ErrTypeFileNotFound, fmt.Sprintf("Calculation engine or required files not found: %v", err)
	case bridge.KindIO:
		if errors.Is(err, bridge.ErrNoOutput) {
			return http.StatusInternalServerError, ErrTypeFileNotFound, fmt.Sprintf("Calculation engine or required files not found: %v", err)
		}
		return http.StatusInternalServerError, ErrTypeFileIO, fmt.Sprintf("File I/O error during payroll processing: %v", err)
	case bridge.KindProcessTimeout:
		return http.StatusInternalServerError, ErrTypeTimeout, fmt.Sprintf("Calculation engine timed out: %v", err)
	case bridge.KindProcessFailed:
		return http.StatusInternalServerError, ErrTypeProcess, fmt.Sprintf("Calculation engine failed: %v", err)
	default:
		return http.StatusInternalServerError, ErrTypeUnexpected, fmt.Sprintf("Unexpected error during payroll processing: %v", err)
	}
}
