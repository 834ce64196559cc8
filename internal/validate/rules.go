// Package validate holds the pure field-level checks run before every write.
// Functions here never touch the store; cleaning is limited to trimming
// whitespace and lower-casing case-insensitive identity fields.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError tags a rejected input with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func fail(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

const (
	MaxNameLen     = 100
	MaxEmailLen    = 254
	MaxTextLen     = 2000
	MaxIdentLen    = 50
	MinAddressLen  = 5
	MaxAddressLen  = 200
	MinUsernameLen = 3
)

var (
	emailRe    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	phoneRe    = regexp.MustCompile(`^[0-9+()\-\s]{6,20}$`)
	usernameRe = regexp.MustCompile(`^[a-z0-9._\-]+$`)
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Required trims value and rejects blank input.
func Required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fail(field, "is required")
	}
	return v, nil
}

// MaxLen rejects values longer than max runes.
func MaxLen(field, value string, max int) error {
	if len([]rune(value)) > max {
		return fail(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

// Name validates a required human-name field.
func Name(field, value string) (string, error) {
	v, err := Required(field, value)
	if err != nil {
		return "", err
	}
	if err := MaxLen(field, v, MaxNameLen); err != nil {
		return "", err
	}
	return v, nil
}

// Email trims, lower-cases and format-checks a required email address.
func Email(field, value string) (string, error) {
	v, err := Required(field, value)
	if err != nil {
		return "", err
	}
	v = strings.ToLower(v)
	if err := MaxLen(field, v, MaxEmailLen); err != nil {
		return "", err
	}
	if !emailRe.MatchString(v) {
		return "", fail(field, "is not a valid email address")
	}
	return v, nil
}

// Phone validates an optional phone number. Empty input passes.
func Phone(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", nil
	}
	if !phoneRe.MatchString(v) {
		return "", fail(field, "may only contain digits, spaces and + ( ) -")
	}
	return v, nil
}

// Address validates an optional street address with a minimum useful length.
func Address(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", nil
	}
	if len([]rune(v)) < MinAddressLen {
		return "", fail(field, fmt.Sprintf("must be at least %d characters", MinAddressLen))
	}
	if err := MaxLen(field, v, MaxAddressLen); err != nil {
		return "", err
	}
	return v, nil
}

// Date validates an optional YYYY-MM-DD date string.
func Date(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", nil
	}
	if !dateRe.MatchString(v) {
		return "", fail(field, "must be formatted YYYY-MM-DD")
	}
	return v, nil
}

// Username trims, lower-cases and format-checks a required username.
func Username(field, value string) (string, error) {
	v, err := Required(field, value)
	if err != nil {
		return "", err
	}
	v = strings.ToLower(v)
	if len([]rune(v)) < MinUsernameLen {
		return "", fail(field, fmt.Sprintf("must be at least %d characters", MinUsernameLen))
	}
	if err := MaxLen(field, v, MaxIdentLen); err != nil {
		return "", err
	}
	if !usernameRe.MatchString(v) {
		return "", fail(field, "may only contain lowercase letters, digits, . _ -")
	}
	return v, nil
}

// Ident validates a required short identifier such as a license, invoice or
// record number.
func Ident(field, value string) (string, error) {
	v, err := Required(field, value)
	if err != nil {
		return "", err
	}
	if err := MaxLen(field, v, MaxIdentLen); err != nil {
		return "", err
	}
	return v, nil
}

// Text validates an optional free-text field.
func Text(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if err := MaxLen(field, v, MaxTextLen); err != nil {
		return "", err
	}
	return v, nil
}

// Positive rejects non-positive quantities.
func Positive(field string, value int64) error {
	if value <= 0 {
		return fail(field, "must be positive")
	}
	return nil
}

// NonNegative rejects negative amounts.
func NonNegative(field string, value int64) error {
	if value < 0 {
		return fail(field, "must not be negative")
	}
	return nil
}
