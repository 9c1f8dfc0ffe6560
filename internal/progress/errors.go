package progress

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrKeyResultIndex indicates an edit addressed a key result that does not exist.
var ErrKeyResultIndex = errors.New("key result index out of range")

// ValidationError is a local precondition failure tied to one form field.
// Submissions that fail validation never reach the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseValue parses a key-result value typed by the user. Anything that is
// not a finite number is a ValidationError for field.
func ParseValue(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("%q is not a finite number", raw)}
	}
	return v, nil
}
