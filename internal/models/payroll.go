package models

import (
	"github.com/shopspring/decimal"
)

// Processing status codes written by the calculation engine
const (
	StatusOK    = "OK"
	StatusError = "ER"
)

// EmployeeInput is one employee's pay inputs for a period
type EmployeeInput struct {
	EmployeeID    string          `json:"employee_id" validate:"required,printascii,min=1,max=10"`
	HoursWorked   decimal.Decimal `json:"hours_worked" validate:"gt=0,lte=999.99"`
	HourlyRate    decimal.Decimal `json:"hourly_rate" validate:"gt=0,lte=9999.99"`
	TaxCode       string          `json:"tax_code" validate:"printascii,len=2"`
	WalletAddress string          `json:"wallet_address,omitempty"`
}

// PayrollRequest is the body of a payroll processing request. Employee ids
// must be unique; results and wallets are matched back by id.
type PayrollRequest struct {
	Employees []EmployeeInput `json:"employees" validate:"required,min=1,unique=EmployeeID,dive"`
}

// EmployeeOutput is the computed pay for one employee
type EmployeeOutput struct {
	EmployeeID    string          `json:"employee_id"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	FederalTax    decimal.Decimal `json:"federal_tax"`
	StateTax      decimal.Decimal `json:"state_tax"`
	NetPay        decimal.Decimal `json:"net_pay"`
	Status        string          `json:"status"`
	WalletAddress string          `json:"wallet_address,omitempty"`
}

// OK reports whether the engine computed this record successfully
func (o EmployeeOutput) OK() bool {
	return o.Status == StatusOK
}

// Summary holds the batch-level counters from the engine's trailer line
type Summary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// PayrollResponse is the result of one bridge invocation
type PayrollResponse struct {
	Results []EmployeeOutput `json:"results"`
	Summary Summary          `json:"summary"`
}
