package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesTypeAndStack(t *testing.T) {
	err := New(ErrorTypeAllocation, "pool exhausted")

	assert.Equal(t, ErrorTypeAllocation, err.Type)
	assert.Equal(t, "allocation: pool exhausted", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeNotCoercible, "%s is not coercible to %s", "VARCHAR", "DATE")
	assert.Equal(t, "not_coercible: VARCHAR is not coercible to DATE", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(cause, ErrorTypeInternal, "flush failed")

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")

	rewrapped := Wrap(err, ErrorTypeData, "load failed")
	assert.Equal(t, err.Stack, rewrapped.Stack)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "nothing"))
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeTypeMismatch, "BOOLEAN vs INTEGER")

	assert.True(t, IsType(err, ErrorTypeTypeMismatch))
	assert.False(t, IsType(err, ErrorTypeNotCoercible))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeTypeMismatch))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeTypeMismatch))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeOutOfRange, "300 overflows TINYINT").
		WithDetail("from", "INTEGER").
		WithDetail("to", "TINYINT")

	assert.Equal(t, "INTEGER", err.Details["from"])
	assert.Equal(t, "TINYINT", err.Details["to"])
}
