package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeInputMalformed, "bad width"),
			expected: "[INPUT_MALFORMED] bad width",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeInstanceInfeasible, "no sheet fits", errors.New("part 3 too large")),
			expected: "[INSTANCE_INFEASIBLE] no sheet fits: part 3 too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeInvariantViolation, "tree corrupted", underlying)

	unwrapped := err.Unwrap()
	assert.Equal(t, underlying, unwrapped)
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeInputMalformed, "error 1")
	err2 := New(CodeInputMalformed, "error 2")
	err3 := New(CodeInstanceInfeasible, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsInputMalformed(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "malformed input error",
			err:      ErrInputMalformed,
			expected: true,
		},
		{
			name:     "wrapped malformed input error",
			err:      Wrap(CodeInputMalformed, "bad input", errors.New("negative width")),
			expected: true,
		},
		{
			name:     "other error",
			err:      ErrInstanceInfeasible,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInputMalformed(tt.err))
		})
	}
}

func TestIsInstanceInfeasible(t *testing.T) {
	assert.True(t, IsInstanceInfeasible(ErrInstanceInfeasible))
	assert.False(t, IsInstanceInfeasible(ErrInputMalformed))
}

func TestIsInterrupted(t *testing.T) {
	assert.True(t, IsInterrupted(ErrInterrupted))
	assert.False(t, IsInterrupted(ErrInputMalformed))
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeInputMalformed, "bad input"),
			expected: CodeInputMalformed,
		},
		{
			name:     "wrapped app error",
			err:      Wrap(CodeInstanceInfeasible, "infeasible", errors.New("inner")),
			expected: CodeInstanceInfeasible,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: CodeUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeInputMalformed, "bad width"),
			expected: "bad width",
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: "standard error",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorMessage(tt.err))
		})
	}
}
