package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
}

type exitError struct {
	code int
}

func (e *exitError) Error() string { return "exit error" }

func TestAs(t *testing.T) {
	original := &exitError{code: 2}
	wrapped := Wrapf(original, "analyzer for sample %q", "QCD")

	var target *exitError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, 2, target.code)
}
