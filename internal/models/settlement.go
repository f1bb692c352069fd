package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement outcome statuses
const (
	SettlementSuccess = "success"
	SettlementFailed  = "failed"
)

// SettlementOutcome is the result of one transfer attempt. TransactionHash
// is set only on success, Error only on failure.
type SettlementOutcome struct {
	EmployeeID      string          `json:"employee_id"`
	Amount          decimal.Decimal `json:"amount"`
	ToAddress       string          `json:"to_address"`
	Status          string          `json:"status"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	TransactionLink string          `json:"transaction_link,omitempty"`
	Error           string          `json:"error,omitempty"`
	ErrorType       string          `json:"error_type,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Succeeded reports whether the transfer went through
func (o SettlementOutcome) Succeeded() bool {
	return o.Status == SettlementSuccess
}

// BatchSettlementSummary aggregates one settlement run. Results are in
// processing order.
type BatchSettlementSummary struct {
	BatchID        string              `json:"batch_id"`
	Network        string              `json:"network,omitempty"`
	Asset          string              `json:"asset,omitempty"`
	TotalProcessed int                 `json:"total_processed"`
	TotalSucceeded int                 `json:"total_succeeded"`
	TotalFailed    int                 `json:"total_failed"`
	Results        []SettlementOutcome `json:"results"`
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     time.Time           `json:"finished_at"`
}
