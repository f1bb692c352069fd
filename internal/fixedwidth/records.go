package fixedwidth

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledgerdemain/backend/internal/models"
)

// SummaryMarker starts the trailer line of an engine output file
const SummaryMarker = "SUMMARY:"

// InputLayout is the 23-byte employee input record
var InputLayout = Layout{
	Name: "employee input",
	Fields: []Field{
		{Name: "employee_id", Width: 10, Kind: Text},
		{Name: "hours_worked", Width: 5, Kind: Cents},
		{Name: "hourly_rate", Width: 6, Kind: Cents},
		{Name: "tax_code", Width: 2, Kind: Text},
	},
}

// OutputLayout is the 60-byte employee output record
var OutputLayout = Layout{
	Name: "employee output",
	Fields: []Field{
		{Name: "employee_id", Width: 10, Kind: Text},
		{Name: "gross_pay", Width: 12, Kind: Cents},
		{Name: "federal_tax", Width: 12, Kind: Cents},
		{Name: "state_tax", Width: 12, Kind: Cents},
		{Name: "net_pay", Width: 12, Kind: Cents},
		{Name: "status", Width: 2, Kind: Text},
	},
}

var (
	processedPattern = regexp.MustCompile(`PROCESSED=(\d+)`)
	errorsPattern    = regexp.MustCompile(`ERRORS=(\d+)`)
)

// EncodeInput renders one employee input record. Over-length employee ids or
// tax codes are truncated and listed in Encoded.Truncated.
func EncodeInput(rec models.EmployeeInput) (Encoded, error) {
	return InputLayout.Encode([]Value{
		{Text: rec.EmployeeID},
		{Amount: rec.HoursWorked},
		{Amount: rec.HourlyRate},
		{Text: rec.TaxCode},
	})
}

// EncodeOutput renders one employee output record the way the engine writes it
func EncodeOutput(rec models.EmployeeOutput) (Encoded, error) {
	return OutputLayout.Encode([]Value{
		{Text: rec.EmployeeID},
		{Amount: rec.GrossPay},
		{Amount: rec.FederalTax},
		{Amount: rec.StateTax},
		{Amount: rec.NetPay},
		{Text: rec.Status},
	})
}

// DecodeOutputLine parses one 60-byte engine output record. The status code
// is returned as written; "ER" records may leave the amounts blank.
func DecodeOutputLine(line string) (models.EmployeeOutput, error) {
	v, err := OutputLayout.Decode(line)
	if err != nil {
		return models.EmployeeOutput{}, err
	}

	return models.EmployeeOutput{
		EmployeeID: v[0].Text,
		GrossPay:   v[1].Amount,
		FederalTax: v[2].Amount,
		StateTax:   v[3].Amount,
		NetPay:     v[4].Amount,
		Status:     v[5].Text,
	}, nil
}

// IsSummaryLine reports whether line is the engine's trailer record
func IsSummaryLine(line string) bool {
	return strings.HasPrefix(line, SummaryMarker)
}

// DecodeSummaryLine extracts the PROCESSED and ERRORS counters. Counters are
// matched anywhere in the line and may have any number of digits.
func DecodeSummaryLine(line string) (models.Summary, error) {
	processed, err := summaryCounter(line, "processed", processedPattern)
	if err != nil {
		return models.Summary{}, err
	}
	errs, err := summaryCounter(line, "errors", errorsPattern)
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summary{Processed: processed, Errors: errs}, nil
}

// EncodeSummaryLine renders the trailer record the way the engine writes it
func EncodeSummaryLine(s models.Summary) string {
	return fmt.Sprintf("%s PROCESSED=%05d ERRORS=%05d", SummaryMarker, s.Processed, s.Errors)
}

func summaryCounter(line, name string, pattern *regexp.Regexp) (int, error) {
	m := pattern.FindStringSubmatch(line)
	if m == nil {
		return 0, &FormatError{Layout: "summary", Field: name, Value: line, Err: ErrSummary}
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &FormatError{Layout: "summary", Field: name, Value: m[1], Err: ErrOverflow}
	}
	return n, nil
}
