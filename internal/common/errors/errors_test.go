package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"parse error is not retried", NewParseError(fmt.Errorf("bad json")), "PARSE_ERROR", 0},
		{"validation error is not retried", NewInputValidationFailedError("candidates: required"), "INPUT_VALIDATION_FAILED", 0},
		{"link resolution retries", NewLinkResolutionFailedError(fmt.Errorf("deadline")), "LINK_RESOLUTION_FAILED", 2},
		{"classification retries", NewClassificationFailedError(fmt.Errorf("deadline")), "CLASSIFICATION_FAILED", 2},
		{"unknown code falls back to itself", &StandardError{Code: "SOMETHING_ELSE", Retryable: true}, "SOMETHING_ELSE", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	stdErr := NewInputValidationFailedError("x").WithMetadata("field", "candidates")
	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "candidates", vars["field"])
	assert.Equal(t, "INPUT_VALIDATION_FAILED", vars["errorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestDecide(t *testing.T) {
	t.Run("retryable with retries left fails the job", func(t *testing.T) {
		d := Decide(NewLinkResolutionFailedError(fmt.Errorf("timeout")), 5)
		assert.False(t, d.Thrown)
		assert.Equal(t, 2, d.Retries)
	})

	t.Run("retries capped by job retries", func(t *testing.T) {
		d := Decide(NewNotificationEmitFailedError("redis", fmt.Errorf("down")), 1)
		assert.False(t, d.Thrown)
		assert.Equal(t, 1, d.Retries)
	})

	t.Run("retryable without retries left is thrown", func(t *testing.T) {
		d := Decide(NewLinkResolutionFailedError(fmt.Errorf("timeout")), 0)
		assert.True(t, d.Thrown)
	})

	t.Run("business errors are thrown", func(t *testing.T) {
		d := Decide(NewParseError(fmt.Errorf("bad")), 3)
		assert.True(t, d.Thrown)
		assert.Equal(t, "PARSE_ERROR", d.BPMN.Code)
	})
}

func TestAsStandardError(t *testing.T) {
	orig := NewClassificationFailedError(fmt.Errorf("x"))
	wrapped := fmt.Errorf("outer: %w", orig)
	assert.Same(t, orig, AsStandardError(wrapped))

	plain := AsStandardError(fmt.Errorf("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternalError, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeParseError))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "LINKS", GetErrorCategory(ErrCodeLinkResolutionFailed))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeClassificationFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationEmitFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternalError))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationEmitFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeParseError))
}
