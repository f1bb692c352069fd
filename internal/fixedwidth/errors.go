package fixedwidth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLength     = errors.New("wrong record length")
	ErrFieldCount = errors.New("wrong number of field values")
	ErrOverflow   = errors.New("value does not fit field width")
	ErrNegative   = errors.New("negative value")
	ErrNotNumeric = errors.New("field is not an unsigned integer")
	ErrControl    = errors.New("text field contains a control character")
	ErrSummary    = errors.New("summary counter missing")
)

// FormatError reports malformed fixed-width data
type FormatError struct {
	Layout   string
	Field    string
	Value    string
	Expected int
	Actual   int
	Err      error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString(e.Layout)
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Expected > 0 {
		fmt.Fprintf(&b, " (expected %d, got %d)", e.Expected, e.Actual)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
