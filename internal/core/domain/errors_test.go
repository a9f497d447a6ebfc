package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrOwnerConflict", ErrOwnerConflict},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrSearchFailed", ErrSearchFailed},
		{"ErrStoreUnavailable", ErrStoreUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrAnalysisFailed", ErrAnalysisFailed},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Messages tests the exact error strings
func TestErrors_Messages(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.Equal(t, "record belongs to another owner", ErrOwnerConflict.Error())
	assert.Equal(t, "unsupported type", ErrUnsupportedType.Error())
	assert.Equal(t, "search failed", ErrSearchFailed.Error())
	assert.Equal(t, "record store unavailable", ErrStoreUnavailable.Error())
	assert.Equal(t, "LLM service unavailable", ErrLLMUnavailable.Error())
	assert.Equal(t, "query analysis failed", ErrAnalysisFailed.Error())
	assert.Equal(t, "rate limited", ErrRateLimited.Error())
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnsupportedType,
		ErrSearchFailed,
		ErrStoreUnavailable,
		ErrLLMUnavailable,
		ErrAnalysisFailed,
		ErrRateLimited,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

// TestErrors_WithWrapping tests error wrapping behavior
func TestErrors_WithWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: query is required", ErrInvalidInput)

	assert.True(t, errors.Is(wrapped, ErrInvalidInput))
	assert.False(t, errors.Is(wrapped, ErrSearchFailed))
	assert.Equal(t, "invalid input: query is required", wrapped.Error())
}

// TestErrors_InSwitchStatement tests using errors in switch statements
func TestErrors_InSwitchStatement(t *testing.T) {
	testErr := fmt.Errorf("pipeline: %w", ErrSearchFailed)

	var status int
	switch {
	case errors.Is(testErr, ErrInvalidInput):
		status = 400
	case errors.Is(testErr, ErrSearchFailed):
		status = 500
	default:
		status = 200
	}

	assert.Equal(t, 500, status)
}

// TestErrors_ServiceErrors tests service-related errors
func TestErrors_ServiceErrors(t *testing.T) {
	serviceErrors := []error{
		ErrStoreUnavailable,
		ErrLLMUnavailable,
	}

	for _, err := range serviceErrors {
		assert.Contains(t, err.Error(), "unavailable",
			"Service error %v should mention unavailable", err)
	}
}
