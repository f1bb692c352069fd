package settlement

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failed settlement outcome
type ErrorType string

const (
	ValidationError ErrorType = "ValidationError"
	CapacityError   ErrorType = "CapacityError"
	TransferError   ErrorType = "TransferError"
)

var (
	ErrInvalidAddress    = errors.New("invalid wallet address format")
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrFaucetUnavailable = errors.New("faucet not available on mainnet")
	ErrUnknownMode       = errors.New("unknown settlement mode")
)

// GatewayError is a non-2xx answer from the wallet gateway
type GatewayError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}
