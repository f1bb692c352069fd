package bridge

import (
	"errors"
	"fmt"
)

// Kind classifies why a bridge invocation aborted
type Kind string

const (
	KindFormat          Kind = "FormatError"
	KindIO              Kind = "FileIOError"
	KindProcessNotFound Kind = "ProcessNotFound"
	KindProcessTimeout  Kind = "ProcessTimeout"
	KindProcessFailed   Kind = "ProcessFailed"
)

// Stage names the orchestration step that failed
type Stage string

const (
	StageEncode Stage = "encode"
	StageWrite  Stage = "write"
	StageRun    Stage = "run"
	StageRead   Stage = "read"
	StageDecode Stage = "decode"
)

var (
	ErrNoOutput       = errors.New("engine ran but produced no output file")
	ErrMissingSummary = errors.New("output has no summary line")
	ErrDuplicateSum   = errors.New("output has more than one summary line")
	ErrDuplicateID    = errors.New("employee id appears more than once")
)

// Error is returned by every failed bridge stage. Line is the 1-based record
// or output line that failed, when one applies. Result carries the engine's
// captured output for process failures.
type Error struct {
	Kind   Kind
	Stage  Stage
	Line   int
	Err    error
	Result *RunResult
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s during %s", e.Kind, e.Stage)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or "" if err did not come from
// the bridge
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
