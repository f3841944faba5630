package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateName, "axes with name %q already exists", "X")

	if err.Code != ErrCodeDuplicateName {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateName)
	}

	if err.Message != `axes with name "X" already exists` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `DUPLICATE_NAME: axes with name "X" already exists`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidInput, cause, "failed to decode")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INVALID_INPUT: failed to decode: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeSplitTwice, "test"),
			code:     ErrCodeSplitTwice,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeSplitTwice, "test"),
			code:     ErrCodeDuplicateName,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeAppendLayout, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeAppendLayout,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      errorsJoin(New(ErrCodeDataShape, "inner")),
			code:     ErrCodeDataShape,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeUnknownName, "test"), ErrCodeUnknownName},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsStructural(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeDuplicateName, true},
		{ErrCodeSplitTwice, true},
		{ErrCodeSplitConflict, true},
		{ErrCodeAppendLayout, true},
		{ErrCodeUnknownName, true},
		{ErrCodeDataShape, false},
		{ErrCodeInvalidRatios, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsStructural(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsStructural(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
