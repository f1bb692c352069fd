// Package fixedwidth implements the fixed-width text records exchanged with
// the payroll calculation engine. Every record is described by a Layout, and
// both directions (encode and decode) walk the same Layout so field offsets
// cannot drift apart.
package fixedwidth

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Kind selects how a field's value is rendered on the wire
type Kind int

const (
	// Text is left-aligned and space-padded. Over-length values are truncated.
	Text Kind = iota
	// Cents is an unsigned integer holding the value scaled by 100,
	// zero-padded on the left. Over-length values are an error.
	Cents
)

// Field is one fixed-width column
type Field struct {
	Name  string
	Width int
	Kind  Kind
}

// Layout is an ordered list of fields making up one record
type Layout struct {
	Name   string
	Fields []Field
}

// Value is the content of one field before or after fitting. Text fields
// use Text, Cents fields use Amount.
type Value struct {
	Text   string
	Amount decimal.Decimal
}

// Encoded is one rendered record. Truncated names every text field whose
// value did not fit and lost characters.
type Encoded struct {
	Line      string
	Truncated []string
}

// Lossy reports whether any field was truncated while encoding
func (e Encoded) Lossy() bool {
	return len(e.Truncated) > 0
}

// Width returns the total record length in bytes
func (l Layout) Width() int {
	n := 0
	for _, f := range l.Fields {
		n += f.Width
	}
	return n
}

// Offset returns the start position of the named field, or -1
func (l Layout) Offset(name string) int {
	off := 0
	for _, f := range l.Fields {
		if f.Name == name {
			return off
		}
		off += f.Width
	}
	return -1
}

// Split cuts line into one raw string per field. The line must be exactly
// Width bytes long.
func (l Layout) Split(line string) ([]string, error) {
	if len(line) != l.Width() {
		return nil, &FormatError{Layout: l.Name, Expected: l.Width(), Actual: len(line), Err: ErrLength}
	}

	raw := make([]string, len(l.Fields))
	off := 0
	for i, f := range l.Fields {
		raw[i] = line[off : off+f.Width]
		off += f.Width
	}
	return raw, nil
}

// Encode renders values in field order
func (l Layout) Encode(values []Value) (Encoded, error) {
	if len(values) != len(l.Fields) {
		return Encoded{}, &FormatError{Layout: l.Name, Expected: len(l.Fields), Actual: len(values), Err: ErrFieldCount}
	}

	var (
		b   strings.Builder
		out Encoded
	)
	b.Grow(l.Width())

	for i, f := range l.Fields {
		switch f.Kind {
		case Text:
			if hasControl(values[i].Text) {
				return Encoded{}, &FormatError{Layout: l.Name, Field: f.Name, Value: values[i].Text, Err: ErrControl}
			}
			s, truncated := fitText(values[i].Text, f.Width)
			if truncated {
				out.Truncated = append(out.Truncated, f.Name)
			}
			b.WriteString(s)
		case Cents:
			s, err := EncodeCents(values[i].Amount, f.Width)
			if err != nil {
				return Encoded{}, &FormatError{Layout: l.Name, Field: f.Name, Value: values[i].Amount.String(), Err: err}
			}
			b.WriteString(s)
		}
	}

	out.Line = b.String()
	return out, nil
}

// Decode parses line into one Value per field. Text values are trimmed of
// padding; blank Cents fields decode to zero.
func (l Layout) Decode(line string) ([]Value, error) {
	raw, err := l.Split(line)
	if err != nil {
		return nil, err
	}

	values := make([]Value, len(raw))
	for i, f := range l.Fields {
		switch f.Kind {
		case Text:
			values[i].Text = strings.TrimSpace(raw[i])
		case Cents:
			amount, err := DecodeCents(raw[i])
			if err != nil {
				return nil, &FormatError{Layout: l.Name, Field: f.Name, Value: raw[i], Err: err}
			}
			values[i].Amount = amount
		}
	}
	return values, nil
}

// EncodeCents multiplies d by 100, truncates to an integer and zero-pads it
// to width. The caller guarantees at most two decimal places, which makes the
// truncation exact.
func EncodeCents(d decimal.Decimal, width int) (string, error) {
	if d.IsNegative() {
		return "", ErrNegative
	}

	digits := d.Shift(2).Truncate(0).String()
	if len(digits) > width {
		return "", ErrOverflow
	}
	return strings.Repeat("0", width-len(digits)) + digits, nil
}

// DecodeCents parses an unsigned integer-cents field
func DecodeCents(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return decimal.Zero, ErrNotNumeric
		}
	}

	cents, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return decimal.Zero, ErrOverflow
	}
	return decimal.New(cents, -2), nil
}

// WireText returns s as it reads back after a round trip through a text
// field of the given width
func WireText(s string, width int) string {
	fitted, _ := fitText(s, width)
	return strings.TrimSpace(fitted)
}

// hasControl reports whether s holds a byte that would break the record,
// such as a line terminator
func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// fitText pads s with spaces to width, or cuts it at the last rune boundary
// that fits. The result is always exactly width bytes.
func fitText(s string, width int) (string, bool) {
	if len(s) <= width {
		return s + strings.Repeat(" ", width-len(s)), false
	}

	cut := width
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + strings.Repeat(" ", width-cut), true
}
