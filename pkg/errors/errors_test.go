package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := New(ErrFunctionNotFound)
	assert.True(t, IsCode(err, ErrFunctionNotFound))
	assert.False(t, IsCode(err, ErrModuleNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrFunctionNotFound))
	assert.False(t, IsCode(nil, ErrFunctionNotFound))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, New(ErrSelfLocation).Error(), "self location")
	assert.Contains(t, New(ErrMalformedImage).Error(), "malformed image")
	assert.Contains(t, New(99).Error(), "99")
}
