package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 1 << 20

// Error types reported in ErrorResponse.ErrorType
const (
	ErrTypeRequest      = "RequestError"
	ErrTypeValidation   = "ValidationError"
	ErrTypeFileNotFound = "FileNotFoundError"
	ErrTypeFileIO       = "FileIOError"
	ErrTypeParsing      = "ParsingError"
	ErrTypeTimeout      = "ProcessTimeout"
	ErrTypeProcess      = "ProcessFailed"
	ErrTypeBusy         = "BridgeBusy"
	ErrTypeSettlement   = "SettlementError"
	ErrTypeUnexpected   = "UnexpectedError"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error     string            `json:"error"`
	ErrorType string            `json:"error_type"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a validator that compares decimal fields
// against numeric tags such as gt and lte
func NewValidationHelper() *ValidationHelper {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &ValidationHelper{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// decodeJSON reads a single size-limited JSON object that may not carry
// unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must only contain a single JSON object")
	}
	return nil
}

// SendErrorResponse sends a JSON error response. Validation errors are
// expanded into per-field details.
func SendErrorResponse(w http.ResponseWriter, message, errorType string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{
		Error:     message,
		ErrorType: errorType,
		Timestamp: time.Now().UTC(),
	}

	var verrs validator.ValidationErrors
	if errors.As(validationErr, &verrs) {
		errorResp.Details = make(map[string]string)
		for _, err := range verrs {
			errorResp.Details[err.Namespace()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	} else if validationErr != nil {
		errorResp.Details = map[string]string{"error": validationErr.Error()}
	}

	json.NewEncoder(w).Encode(errorResp)
}

func sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
