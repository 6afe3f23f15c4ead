package apperr

import (
	"errors"
	"fmt"
	"testing"

	"go-inventory-api/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_OrNil(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())

	v.Add("price", "gte", "must be greater than or equal to 0")
	v.Add("quantity", "gte", "must be greater than or equal to 0")
	err := v.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: price: must be greater than or equal to 0; quantity: must be greater than or equal to 0", err.Error())
}

func TestFromValidator(t *testing.T) {
	v := FromValidator([]*validator.ErrorResponse{{FailedField: "name", Tag: "required"}})
	require.Len(t, v.Fields, 1)
	assert.Equal(t, "this field is required", v.Fields[0].Message)
}

func TestIsValidation_Wrapped(t *testing.T) {
	err := fmt.Errorf("update product: %w", Invalid("barcode", "unique", "already exists"))
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(ErrNotFound))
}

func TestNotifierFailure_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&NotifierFailure{Notifier: "kafka", Err: cause})
	assert.ErrorIs(t, err, cause)
}
