package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name   string
		appErr *AppError
		want   string
	}{
		{
			name: "with cause",
			appErr: &AppError{
				Type:    ErrTypeParsing,
				Message: "failed to parse dataset",
				Cause:   errors.New("unexpected EOF"),
			},
			want: "[PARSING] failed to parse dataset: unexpected EOF",
		},
		{
			name: "without cause",
			appErr: &AppError{
				Type:    ErrTypeNotFound,
				Message: "dataset not found",
			},
			want: "[NOT_FOUND] dataset not found",
		},
		{
			name: "missing column",
			appErr: &AppError{
				Type:    ErrTypeMissingColumn,
				Message: "column duration_seconds not present in dataset",
			},
			want: "[MISSING_COLUMN] column duration_seconds not present in dataset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying cause")
	appErr := NewParsingError("parse failed", cause)

	assert.Equal(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))

	noCause := NewNotFoundError("dataset")
	assert.Nil(t, noCause.Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	appErr := NewParsingError("parse failed", nil).
		WithContext("path", "data/trips.csv").
		WithContext("line", 42)

	require.NotNil(t, appErr.Context)
	assert.Equal(t, "data/trips.csv", appErr.Context["path"])
	assert.Equal(t, 42, appErr.Context["line"])
}

func TestAppError_WithContext_NilMap(t *testing.T) {
	appErr := &AppError{Type: ErrTypeStorage, Message: "write failed"}
	appErr.WithContext("key", "value")

	assert.Equal(t, "value", appErr.Context["key"])
}

func TestNewAppError_Constructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"not found", NewNotFoundError("trip dataset"), ErrTypeNotFound},
		{"parsing", NewParsingError("bad header", nil), ErrTypeParsing},
		{"missing column", NewMissingColumnError("bike_id"), ErrTypeMissingColumn},
		{"validation", NewAppValidationError("bad filter"), ErrTypeValidation},
		{"storage", NewStorageError("write failed", nil), ErrTypeStorage},
		{"config", NewConfigError("bad config", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found error", NewNotFoundError("dataset"), true},
		{"wrapped not found", fmt.Errorf("load: %w", NewNotFoundError("dataset")), true},
		{"parsing error", NewParsingError("bad content", nil), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestIsMalformed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"parsing error", NewParsingError("bad content", errors.New("cause")), true},
		{"wrapped parsing", fmt.Errorf("load: %w", NewParsingError("bad content", nil)), true},
		{"not found error", NewNotFoundError("dataset"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMalformed(tt.err))
		})
	}
}

func TestNotFoundAndMalformedAreDistinguishable(t *testing.T) {
	notFound := NewNotFoundError("trip dataset")
	malformed := NewParsingError("trip dataset malformed", errors.New("bad csv"))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsMalformed(notFound))
	assert.True(t, IsMalformed(malformed))
	assert.False(t, IsNotFound(malformed))
}
