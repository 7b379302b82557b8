package reqline

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-reqline/internal/lineparser"
)

// Failure reasons carried by FormatError.Reason.
const (
	ReasonTokenCount = lineparser.ReasonTokenCount
	ReasonVersion    = lineparser.ReasonVersion
	ReasonColon      = lineparser.ReasonColon
)

// FormatError reports malformed request text.
type FormatError struct {
	Line   int    // 1-indexed line number where the error occurred (0 if not tied to input)
	Reason string // human-readable reason
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// IsFormatError reports whether err is, or wraps, a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func newFormatError(reason string, line int) *FormatError {
	return &FormatError{Reason: reason, Line: line}
}

// convertError maps internal parser errors onto *FormatError.
func convertError(err error) error {
	var le *lineparser.Error
	if errors.As(err, &le) {
		return newFormatError(le.Reason, le.Line)
	}
	return err
}
