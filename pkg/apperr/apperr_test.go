package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSentinelWrapping(t *testing.T) {
	err := NotFoundf("rent %d", 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "rent 42: not found", err.Error())

	err = Conflictf("state for rent %d", 42)
	assert.True(t, errors.Is(err, ErrConflict))

	// Another layer of wrapping keeps the kind reachable.
	wrapped := fmt.Errorf("handler: %w", NotFoundf("invoice %d", 7))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestIsValidation(t *testing.T) {
	err := Validationf("size must be positive")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "size must be positive", err.Error())

	assert.True(t, IsValidation(fmt.Errorf("create: %w", err)))
	assert.False(t, IsValidation(errors.New("boom")))
	assert.False(t, IsValidation(ErrNotFound))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "rent 1"))

	err := FromDB(gorm.ErrRecordNotFound, "rent 1")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = FromDB(gorm.ErrDuplicatedKey, "state append")
	assert.True(t, errors.Is(err, ErrConflict))

	other := errors.New("connection reset")
	err = FromDB(other, "rent 1")
	assert.True(t, errors.Is(err, other))
	assert.False(t, errors.Is(err, ErrNotFound))
}
