package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidNumbers(t *testing.T) {
	v := NewPhoneValidator()

	valid := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Plain"},
		{"98765 43210", "9876543210", "With space"},
		{"987-654-3210", "9876543210", "With dashes"},
		{"+91 98765 43210", "9876543210", "With country code"},
		{"919876543210", "9876543210", "Country code without plus"},
		{"09876543210", "9876543210", "Trunk prefix"},
		{"6123456789", "6123456789", "Starts with 6"},
	}

	for _, tc := range valid {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := v.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	v := NewPhoneValidator()

	invalid := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty"},
		{"   ", ErrEmptyPhone, "Blank"},
		{"12345", ErrInvalidLength, "Too short"},
		{"98765432101", ErrInvalidLength, "Too long"},
		{"5876543210", ErrInvalidPrefix, "Starts with 5"},
		{"98765abc10", ErrInvalidFormat, "Letters"},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestFormat(t *testing.T) {
	v := NewPhoneValidator()

	formatted, err := v.Format("9876543210")
	require.NoError(t, err)
	assert.Equal(t, "+91 98765 43210", formatted)

	e164, err := v.E164("098765 43210")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", e164)
}

func TestNormalize(t *testing.T) {
	v := NewPhoneValidator()

	cases := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{"Indian mobile is canonicalised", "+91 98765 43210", "9876543210", nil},
		{"UK landline kept as typed", "  +44 20 7946 0958 ", "+44 20 7946 0958", nil},
		{"Short local extension kept", "4021", "4021", nil},
		{"Empty", "  ", "", ErrEmptyPhone},
		{"Longer than the column", "+44 20 7946 0958 ext 1234", "", ErrTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Normalize(tc.input)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
