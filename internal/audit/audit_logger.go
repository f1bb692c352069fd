// Package audit writes one JSON line per payroll or settlement event,
// prefixed with AUDIT: so the lines can be picked out of the service log.
package audit

import (
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPayrollRun      = "PAYROLL_RUN"
	EventSettlementBatch = "SETTLEMENT_BATCH"
	EventTransfer        = "TRANSFER"
	EventFaucet          = "FAUCET"
	EventError           = "ERROR"
)

type AuditEvent struct {
	Timestamp  time.Time        `json:"timestamp"`
	EventType  string           `json:"event_type"`
	BatchID    string           `json:"batch_id,omitempty"`
	EmployeeID string           `json:"employee_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Status     string           `json:"status"`
	Details    any              `json:"details,omitempty"`
}

type AuditLogger struct {
	out *log.Logger
}

// NewAuditLogger logs through the standard logger
func NewAuditLogger() *AuditLogger {
	return &AuditLogger{out: log.Default()}
}

// NewAuditLoggerTo writes bare audit lines to w
func NewAuditLoggerTo(w io.Writer) *AuditLogger {
	return &AuditLogger{out: log.New(w, "", 0)}
}

func (a *AuditLogger) LogPayrollRun(processed, errors int, status string, details map[string]string) {
	d := map[string]any{"processed": processed, "errors": errors}
	for k, v := range details {
		d[k] = v
	}
	a.log(AuditEvent{
		Timestamp: time.Now(),
		EventType: EventPayrollRun,
		Status:    status,
		Details:   d,
	})
}

func (a *AuditLogger) LogBatch(batchID, network, status string, processed, succeeded, failed int) {
	a.log(AuditEvent{
		Timestamp: time.Now(),
		EventType: EventSettlementBatch,
		BatchID:   batchID,
		Status:    status,
		Details: map[string]any{
			"network":   network,
			"processed": processed,
			"succeeded": succeeded,
			"failed":    failed,
		},
	})
}

func (a *AuditLogger) LogTransfer(batchID, employeeID, toAddress string, amount decimal.Decimal, status, txHash string) {
	a.log(AuditEvent{
		Timestamp:  time.Now(),
		EventType:  EventTransfer,
		BatchID:    batchID,
		EmployeeID: employeeID,
		Amount:     &amount,
		Status:     status,
		Details: map[string]string{
			"to_address":       toAddress,
			"transaction_hash": txHash,
		},
	})
}

func (a *AuditLogger) LogError(batchID, employeeID, errorType string, err error) {
	a.log(AuditEvent{
		Timestamp:  time.Now(),
		EventType:  EventError,
		BatchID:    batchID,
		EmployeeID: employeeID,
		Status:     "FAILED",
		Details: map[string]string{
			"error":      err.Error(),
			"error_type": errorType,
		},
	})
}

func (a *AuditLogger) LogOperation(operation, status, details string) {
	a.log(AuditEvent{
		Timestamp: time.Now(),
		EventType: operation,
		Status:    status,
		Details:   map[string]string{"details": details},
	})
}

func (a *AuditLogger) log(event AuditEvent) {
	data, _ := json.Marshal(event)
	a.out.Printf("AUDIT: %s", string(data))
}
