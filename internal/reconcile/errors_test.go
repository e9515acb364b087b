package reconcile

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBusyError(t *testing.T) {
	err := NewBusyError("shared/CS/1")
	assert.True(t, IsBusyError(err))
	assert.False(t, IsStoreError(err))
	assert.True(t, IsBusyError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsBusyError(errors.New("plain")))
	assert.Contains(t, err.Error(), "import already running for shared/CS/1")
}

func TestIsStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreError("shared/CS/1", "insert", cause)

	assert.True(t, IsStoreError(err))
	assert.False(t, IsBusyError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "STORE_ERROR: insert shared/CS/1: disk full", err.Error())
}
