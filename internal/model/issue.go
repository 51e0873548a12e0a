package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports malformed engine input. Runs fail fast with one of
// these instead of producing degenerate geometry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a ValidationError with a formatted reason.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Severity classifies an Issue.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue codes.
const (
	CodeMinPiece       = "E-004"
	CodeTiming         = "INFO-TIME"
	CodeOversize       = "W-OVERSIZE"
	CodeForcedRotation = "I-FORCED-ROTATION"
)

// Issue is a soft report produced alongside normal output. Issues never abort
// a run.
type Issue struct {
	Code      string        `json:"code"`
	Severity  Severity      `json:"severity"`
	Wall      string        `json:"wall,omitempty"`
	Panel     string        `json:"panel,omitempty"`
	Measured  int           `json:"measured,omitempty"`
	Threshold int           `json:"threshold,omitempty"`
	Phase     string        `json:"phase,omitempty"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`
	Message   string        `json:"message"`
}

// MinPieceViolation reports a segment narrower than the minimum piece width.
func MinPieceViolation(wall string, width, minPiece int) Issue {
	return Issue{
		Code:      CodeMinPiece,
		Severity:  SeverityError,
		Wall:      wall,
		Measured:  width,
		Threshold: minPiece,
		Message:   fmt.Sprintf("min piece violation: width=%d < min_piece=%d", width, minPiece),
	}
}

// TimingRecord reports how long a phase took.
func TimingRecord(phase string, elapsed time.Duration) Issue {
	return Issue{
		Code:     CodeTiming,
		Severity: SeverityInfo,
		Phase:    phase,
		Elapsed:  elapsed,
		Message:  fmt.Sprintf("%s took %s", phase, elapsed),
	}
}

// CountCode returns how many issues carry the given code.
func CountCode(issues []Issue, code string) int {
	n := 0
	for _, is := range issues {
		if is.Code == code {
			n++
		}
	}
	return n
}
