package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:         400,
		KindNotFound:           404,
		KindConflict:           409,
		KindInsufficientStock:  400,
		KindAuthentication:     401,
		KindInvariantViolation: 400,
		KindInfrastructure:     500,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), kind.String())
	}
}

func TestFrom_PassesThroughTaggedErrors(t *testing.T) {
	orig := NotFound("product '%s' not found", "Rice")
	wrapped := fmt.Errorf("tx failed: %w", orig)

	got := From(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, orig.Message, got.Message)
}

func TestFrom_WrapsUnknownAsInfrastructure(t *testing.T) {
	cause := errors.New("connection refused")
	got := From(cause)
	assert.Equal(t, KindInfrastructure, got.Kind)
	assert.ErrorIs(t, got, cause)
}

func TestIsKind(t *testing.T) {
	err := InsufficientStock("insufficient stock for '%s'", "Rice")
	assert.True(t, IsKind(err, KindInsufficientStock))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}
