package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "simple message",
			apiError: &APIError{
				StatusCode: http.StatusBadRequest,
				ErrorCode:  "INVALID_REQUEST",
				Message:    "Invalid request format",
			},
			want: "Invalid request format",
		},
		{
			name: "empty message",
			apiError: &APIError{
				StatusCode: http.StatusInternalServerError,
				ErrorCode:  "INTERNAL_ERROR",
				Message:    "",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.apiError.Error())
		})
	}
}

func TestNew(t *testing.T) {
	err := New(http.StatusNotFound, "DATASET_NOT_FOUND", "Trip dataset file not found")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "DATASET_NOT_FOUND", err.ErrorCode)
	assert.Equal(t, "Trip dataset file not found", err.Message)
	assert.Nil(t, err.Details)
}

func TestNewWithDetails(t *testing.T) {
	details := map[string]string{"path": "data/trips.csv"}
	err := NewWithDetails(http.StatusUnprocessableEntity, "DATASET_MALFORMED", "parse failed", details)

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, details, err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"dataset not found", ErrDatasetNotFound, http.StatusNotFound, "DATASET_NOT_FOUND"},
		{"dataset malformed", ErrDatasetMalformed, http.StatusUnprocessableEntity, "DATASET_MALFORMED"},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("start_hour", "must be between 0 and 23")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "start_hour", detail.Field)
	assert.Equal(t, "must be between 0 and 23", detail.Message)
}

func TestDatasetErrors(t *testing.T) {
	cause := errors.New("stat data/trips.csv: no such file or directory")

	notFound := DatasetNotFoundError(cause)
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Equal(t, cause.Error(), notFound.Details)

	malformed := DatasetMalformedError(errors.New("record on line 2: wrong number of fields"))
	assert.Equal(t, http.StatusUnprocessableEntity, malformed.StatusCode)
	assert.Equal(t, "DATASET_MALFORMED", malformed.ErrorCode)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrDatasetNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DATASET_NOT_FOUND", resp.Error.ErrorCode)
}

func TestNewValidationErrors(t *testing.T) {
	errs := []ValidationError{
		{Field: "from", Message: "invalid timestamp"},
		{Field: "to", Message: "invalid timestamp"},
	}

	err := NewValidationErrors(errs)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, detail.Errors, 2)
}
