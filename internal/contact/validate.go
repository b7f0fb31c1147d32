// Package contact holds the contact entity and the validation of its fields.
package contact

import (
	"errors"
	"fmt"
	"time"
)

// BirthdayLayout is the accepted birthday format (DD.MM.YYYY).
const BirthdayLayout = "02.01.2006"

const phoneDigits = 10

// ErrInvalid is wrapped by every ValidationError.
var ErrInvalid = errors.New("contact: invalid value")

// Validation messages shown to the user.
const (
	msgInvalidPhone    = "Phone number must be 10 digits."
	msgInvalidBirthday = "Invalid birthday format. Please use 'DD.MM.YYYY'."
)

// ValidationError reports a field value rejected at construction time.
// Message is the user-facing text.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: invalid %s %q: %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// ValidatePhone reports whether s is exactly 10 decimal digits.
// Separators are not stripped.
func ValidatePhone(s string) bool {
	if len(s) != phoneDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateBirthday reports whether s is a real calendar date written as
// DD.MM.YYYY with zero-padded day and month.
func ValidateBirthday(s string) bool {
	_, ok := parseBirthday(s)
	return ok
}

func parseBirthday(s string) (time.Time, bool) {
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
