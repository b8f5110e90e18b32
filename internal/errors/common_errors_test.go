package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewDataFormatError("header row not found"),
			want: "[DATA_FORMAT] header row not found",
		},
		{
			name: "with cause",
			err:  NewStorageError("failed to create file", errors.New("disk full")),
			want: "[STORAGE] failed to create file: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewParsingError("bad input", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestIsType(t *testing.T) {
	err := NewEmptyDatasetError("no categories survived filtering")

	assert.True(t, IsType(err, ErrTypeEmptyDataset))
	assert.False(t, IsType(err, ErrTypeDataFormat))
	assert.True(t, IsType(fmt.Errorf("run failed: %w", err), ErrTypeEmptyDataset))
	assert.False(t, IsType(errors.New("plain"), ErrTypeEmptyDataset))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewMissingYearColumnsError("no year columns in header").
		WithContext("header_row", 4).
		WithContext("columns", 7)

	assert.Equal(t, 4, err.Context["header_row"])
	assert.Equal(t, 7, err.Context["columns"])
}
