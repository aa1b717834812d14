package errdef_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
)

func TestIsForbidden(t *testing.T) {
	assert.False(t, errdef.IsForbidden(errors.New("some error")))
	assert.True(t, errdef.IsForbidden(errdef.NewForbidden("some error")))
}

func TestIsBadRequest(t *testing.T) {
	assert.False(t, errdef.IsBadRequest(errors.New("some error")))
	assert.True(t, errdef.IsBadRequest(errdef.NewBadRequest("some error")))
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, errdef.IsDuplicated(errors.New("some error")))
	assert.True(t, errdef.IsDuplicated(errdef.NewDuplicated("some error")))
}

func TestIsUnauthorized(t *testing.T) {
	assert.False(t, errdef.IsUnauthorized(errors.New("some error")))
	assert.True(t, errdef.IsUnauthorized(errdef.NewUnauthorized("some error")))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, errdef.IsNotFound(errors.New("some error")))
	assert.True(t, errdef.IsNotFound(errdef.NewNotFound("some error")))
}

func TestIsUnsupportedMediaType(t *testing.T) {
	assert.False(t, errdef.IsUnsupportedMediaType(errors.New("some error")))
	assert.True(t, errdef.IsUnsupportedMediaType(errdef.NewUnsupportedMediaType("some error")))
}

func TestIsInvalidTransition(t *testing.T) {
	assert.False(t, errdef.IsInvalidTransition(errors.New("some error")))
	assert.True(t, errdef.IsInvalidTransition(errdef.NewInvalidTransition("some error")))
}

func TestIsAlreadyCheckedIn(t *testing.T) {
	assert.False(t, errdef.IsAlreadyCheckedIn(errors.New("some error")))
	assert.True(t, errdef.IsAlreadyCheckedIn(errdef.NewAlreadyCheckedIn("some error")))
}

func TestIsNotConfigured(t *testing.T) {
	assert.False(t, errdef.IsNotConfigured(errors.New("some error")))
	assert.True(t, errdef.IsNotConfigured(errdef.NewNotConfigured("some error")))
	assert.False(t, errdef.IsForbidden(errdef.NewNotConfigured("some error")))
}

func TestWrapped(t *testing.T) {
	err := fmt.Errorf("failed to start: %w", errdef.NewInvalidTransition("event %q already active", "x"))

	assert.True(t, errdef.IsInvalidTransition(err))
	assert.False(t, errdef.IsNotFound(err))
	assert.Equal(t, `failed to start: event "x" already active`, err.Error())
}
