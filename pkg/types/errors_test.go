package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageErrorMatchesKind(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := error(&StorageError{Op: "insert opportunity", Err: cause})

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "insert opportunity: disk I/O error", err.Error())
}

func TestValidationErrorMatchesKind(t *testing.T) {
	err := error(NewValidationError("client", ErrClientRequired))

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrClientRequired)
	assert.NotErrorIs(t, err, ErrStorage)
	assert.Equal(t, "client: client name is required", err.Error())
}
