package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("append: %w", Wrap(cause, CodeInternal, "write failed"))

	assert.True(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(err, CodeBadRequest))
	assert.ErrorIs(t, err, cause)
	assert.False(t, HasCode(cause, CodeInternal))
}

func TestIs(t *testing.T) {
	de, ok := Is(New(CodePreconditionFailed, "selfie is required"))
	assert.True(t, ok)
	assert.Equal(t, CodePreconditionFailed, de.Code)
	assert.Equal(t, "selfie is required", de.Error())

	_, ok = Is(errors.New("plain"))
	assert.False(t, ok)
}
