package lead

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by a provider mapper when the provider found no
// record for the query. It is an expected outcome, not a failure.
var ErrNoMatch = errors.New("provider returned no match")

// ValidationError indicates a malformed partial lead. Callers log and skip
// the offending record; it never aborts processing of other candidates.
type ValidationError struct {
	SourceID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid partial lead from %s: %s: %s", e.SourceID, e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
