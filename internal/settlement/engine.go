package settlement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerdemain/backend/internal/audit"
	"github.com/ledgerdemain/backend/internal/models"
	"github.com/shopspring/decimal"
)

// Instruction is one requested payout
type Instruction struct {
	EmployeeID string
	Amount     decimal.Decimal
	Address    string
	Status     string
}

// InstructionsFrom turns payroll results into payouts of each net pay
func InstructionsFrom(resp *models.PayrollResponse) []Instruction {
	out := make([]Instruction, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, Instruction{
			EmployeeID: r.EmployeeID,
			Amount:     r.NetPay,
			Address:    r.WalletAddress,
			Status:     r.Status,
		})
	}
	return out
}

type Engine struct {
	wallet Wallet
	audit  *audit.AuditLogger
	asset  string
	now    func() time.Time
}

func NewEngine(wallet Wallet, auditLogger *audit.AuditLogger, asset string) *Engine {
	if asset == "" {
		asset = DefaultAsset
	}
	if auditLogger == nil {
		auditLogger = audit.NewAuditLogger()
	}
	return &Engine{
		wallet: wallet,
		audit:  auditLogger,
		asset:  asset,
		now:    time.Now,
	}
}

func (e *Engine) Asset() string  { return e.asset }
func (e *Engine) Wallet() Wallet { return e.wallet }

// Settle pays every instruction whose status is OK, one at a time and in
// order. A failed payout is recorded in its outcome and the batch moves on.
func (e *Engine) Settle(ctx context.Context, instructions []Instruction) *models.BatchSettlementSummary {
	eligible := make([]Instruction, 0, len(instructions))
	for _, in := range instructions {
		if in.Status == models.StatusOK {
			eligible = append(eligible, in)
		}
	}

	summary := &models.BatchSettlementSummary{
		BatchID:   uuid.NewString(),
		Network:   e.wallet.Network(),
		Asset:     e.asset,
		Results:   make([]models.SettlementOutcome, 0, len(eligible)),
		StartedAt: e.now().UTC(),
	}

	log.Printf("[SETTLEMENT] Batch %s started: %d of %d records eligible", summary.BatchID, len(eligible), len(instructions))
	e.audit.LogBatch(summary.BatchID, summary.Network, "STARTED", len(eligible), 0, 0)

	for _, in := range eligible {
		outcome := e.settleOne(ctx, summary.BatchID, in)
		if outcome.Succeeded() {
			summary.TotalSucceeded++
		} else {
			summary.TotalFailed++
		}
		summary.Results = append(summary.Results, outcome)
	}

	summary.TotalProcessed = len(summary.Results)
	summary.FinishedAt = e.now().UTC()

	log.Printf("[SETTLEMENT] Batch %s finished in %.2fs: %d succeeded, %d failed",
		summary.BatchID, summary.FinishedAt.Sub(summary.StartedAt).Seconds(), summary.TotalSucceeded, summary.TotalFailed)
	e.audit.LogBatch(summary.BatchID, summary.Network, "COMPLETED", summary.TotalProcessed, summary.TotalSucceeded, summary.TotalFailed)

	return summary
}

func (e *Engine) settleOne(ctx context.Context, batchID string, in Instruction) models.SettlementOutcome {
	outcome := models.SettlementOutcome{
		EmployeeID: in.EmployeeID,
		Amount:     in.Amount,
		ToAddress:  in.Address,
	}

	receipt, errType, err := e.pay(ctx, in)
	outcome.Timestamp = e.now().UTC()

	if err != nil {
		outcome.Status = models.SettlementFailed
		outcome.Error = err.Error()
		outcome.ErrorType = string(errType)
		log.Printf("[SETTLEMENT] Transfer to %s failed (%s): %v", in.EmployeeID, errType, err)
		e.audit.LogError(batchID, in.EmployeeID, string(errType), err)
		return outcome
	}

	outcome.Status = models.SettlementSuccess
	outcome.TransactionHash = receipt.TransactionHash
	outcome.TransactionLink = receipt.TransactionLink
	log.Printf("[SETTLEMENT] Transferred %s %s to %s (%s): %s",
		in.Amount.StringFixed(2), strings.ToUpper(e.asset), in.Address, in.EmployeeID, receipt.TransactionHash)
	e.audit.LogTransfer(batchID, in.EmployeeID, in.Address, in.Amount, outcome.Status, receipt.TransactionHash)
	return outcome
}

// pay runs the checks in order and then the transfer. A panicking wallet is
// reported as a transfer error.
func (e *Engine) pay(ctx context.Context, in Instruction) (receipt *Receipt, errType ErrorType, err error) {
	if !ValidAddress(in.Address) {
		return nil, ValidationError, fmt.Errorf("%w: %q", ErrInvalidAddress, in.Address)
	}
	if !in.Amount.IsPositive() {
		return nil, ValidationError, fmt.Errorf("%w, got %s", ErrInvalidAmount, in.Amount)
	}

	defer func() {
		if r := recover(); r != nil {
			receipt, errType, err = nil, TransferError, fmt.Errorf("wallet panicked: %v", r)
		}
	}()

	balance, err := e.wallet.GetBalance(ctx, e.asset)
	if err != nil {
		return nil, CapacityError, fmt.Errorf("balance query failed: %w", err)
	}
	if balance.LessThan(in.Amount) {
		return nil, CapacityError, fmt.Errorf("%w: balance=%s %s, required=%s",
			ErrInsufficientFunds, balance, strings.ToUpper(e.asset), in.Amount)
	}

	receipt, err = e.wallet.Transfer(ctx, in.Address, in.Amount, e.asset)
	if err != nil {
		return nil, classifyTransfer(err), err
	}
	if receipt == nil {
		return nil, TransferError, errors.New("wallet returned no receipt")
	}
	return receipt, "", nil
}

func classifyTransfer(err error) ErrorType {
	switch {
	case errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrInvalidAmount):
		return ValidationError
	case errors.Is(err, ErrInsufficientFunds):
		return CapacityError
	default:
		return TransferError
	}
}
