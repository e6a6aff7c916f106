package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("row not found")
	err := Wrap(CodeNotFound, cause, "load promo")

	require.NotNil(t, err)
	assert.Equal(t, CodeNotFound, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NOT_FOUND: load promo", err.Error())
}

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	t.Parallel()

	inner := New(CodePrecondition, "cart is empty")
	wrapped := fmt.Errorf("placing order: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodePrecondition, typed.Code())
	assert.Equal(t, "cart is empty", typed.Message())
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	t.Parallel()

	assert.Nil(t, As(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestPreconditionMetadata(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(CodePrecondition)
	assert.Equal(t, http.StatusUnprocessableEntity, meta.HTTPStatus)
	assert.True(t, meta.DetailsAllowed)
	assert.False(t, meta.Retryable)
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeDependency, errors.New("connection refused"), "create order")
	dump := Dump(err)

	assert.Equal(t, CodeDependency, dump.Code)
	require.Len(t, dump.Chain, 2)
	assert.Contains(t, dump.Chain[0], "create order")
}
