package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrInvalidLength indicates the subscriber number is not 10 digits
	ErrInvalidLength = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidPrefix indicates the number is not an Indian mobile number
	ErrInvalidPrefix = errors.New("mobile number must start with 6, 7, 8 or 9")

	// ErrTooLong indicates the number does not fit the stored column
	ErrTooLong = errors.New("phone number must be at most 20 characters")
)

// MaxStoredLength is the width of the phone columns
const MaxStoredLength = 20

var digitsOnly = regexp.MustCompile(`^\d+$`)

var separators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "+", "")

// PhoneValidator validates Indian mobile numbers
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate checks an Indian mobile number and returns its 10 digit form.
// Accepts 9876543210, 98765 43210, +91 98765 43210, 91-9876543210 and 09876543210.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)
	if !digitsOnly.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}
	if len(sanitized) != 10 {
		return "", ErrInvalidLength
	}
	if !strings.ContainsAny(sanitized[:1], "6789") {
		return "", ErrInvalidPrefix
	}
	return sanitized, nil
}

// Normalize returns the 10 digit form of an Indian mobile number and the
// trimmed input for anything else, so foreign numbers are stored as typed.
func (v *PhoneValidator) Normalize(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "", ErrEmptyPhone
	}
	if sanitized, err := v.Validate(trimmed); err == nil {
		return sanitized, nil
	}
	if len(trimmed) > MaxStoredLength {
		return "", ErrTooLong
	}
	return trimmed, nil
}

// Sanitize removes separators and the +91 / 0 trunk prefix
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = separators.Replace(strings.TrimSpace(phone))

	switch {
	case len(phone) == 12 && strings.HasPrefix(phone, "91"):
		phone = phone[2:]
	case len(phone) == 11 && strings.HasPrefix(phone, "0"):
		phone = phone[1:]
	}
	return phone
}

// Format renders a number as +91 98765 43210
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("+91 %s %s", sanitized[:5], sanitized[5:]), nil
}

// E164 renders a number as +919876543210 for SMS gateways
func (v *PhoneValidator) E164(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}
	return "+91" + sanitized, nil
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
