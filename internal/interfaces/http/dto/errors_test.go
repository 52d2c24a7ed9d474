package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeUpstreamAuth, http.StatusBadGateway},
		{ErrCodeUpstreamUnavailable, http.StatusServiceUnavailable},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"RATE_LIMITED", ErrCodeRateLimited},
		{"UPSTREAM_ERROR", ErrCodeUpstream},
		{"UPSTREAM_AUTH", ErrCodeUpstreamAuth},
		{"UPSTREAM_UNAVAILABLE", ErrCodeUpstreamUnavailable},
		// New codes should pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		{ErrCodeUpstream, ErrCodeUpstream},
		// Unknown codes should pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestErrorCodes_AreMappedAndPrefixed(t *testing.T) {
	for code, status := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), "code %s should start with ERR_", code)
		assert.GreaterOrEqual(t, status, 400)
	}
	for domainCode, code := range DomainErrorCodes {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "domain code %s maps to unmapped %s", domainCode, code)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("UPSTREAM_ERROR", "Could not create the company")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUpstream, resp.Error.Code)
	assert.Equal(t, "Could not create the company", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "email must be a valid email address", Tag: "email"},
		{Field: "name", Message: "name is required", Tag: "required"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestResponseJSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "Company not found", "req-test-123"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Company not found","request_id":"req-test-123"}}`, string(data))

	data, err = json.Marshal(NewSuccessResponse(map[string]string{"status": "ok"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, string(data))
}
