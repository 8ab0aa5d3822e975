package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := map[string]RSVPStatus{
		"going":     StatusGoing,
		"Going":     StatusGoing,
		" GOING ":   StatusGoing,
		"maybe":     StatusMaybe,
		"not_going": StatusNotGoing,
		"Not Going": StatusNotGoing,
		"not going": StatusNotGoing,
	}
	for raw, want := range tests {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "yes", "notgoing"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, ErrValidation, raw)
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Not Going", StatusNotGoing.Label())
	assert.Equal(t, "other", RSVPStatus("other").Label())
}

func TestParseRating(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		got, err := ParseRating(n)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
	for _, n := range []int{0, -1, 6} {
		_, err := ParseRating(n)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "rating", verr.Field)
	}
}

func TestValidateTimeRange(t *testing.T) {
	assert.NoError(t, ValidateTimeRange(start, end))
	assert.ErrorIs(t, ValidateTimeRange(end, start), ErrValidation)
	assert.ErrorIs(t, ValidateTimeRange(start, start), ErrValidation)
	assert.ErrorIs(t, ValidateTimeRange(time.Time{}, end), ErrValidation)
	assert.ErrorIs(t, ValidateTimeRange(start, time.Time{}), ErrValidation)
}

func TestCode(t *testing.T) {
	assert.Equal(t, "validation_error", Code(Invalid("x", "bad")))
	assert.Equal(t, "not_found", Code(ErrNotFound))
	assert.Equal(t, "conflict", Code(ErrConflict))
	assert.Equal(t, "permission_denied", Code(ErrPermissionDenied))
	assert.Equal(t, "unauthenticated", Code(ErrUnauthenticated))
	assert.Equal(t, "internal_error", Code(assert.AnError))
}
