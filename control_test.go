package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCloser struct {
	closes int
	err    error
}

func (c *countingCloser) Close() error {
	c.closes++
	return c.err
}

func TestControl_Release(t *testing.T) {
	payload := &countingCloser{}
	c := newControl(payload, loadOptions())
	c.acquire()
	assert.Equal(t, int64(2), c.useCount())
	require.NoError(t, c.release())
	assert.Equal(t, 0, payload.closes)
	assert.Same(t, payload, c.payload)
	require.NoError(t, c.release())
	assert.Equal(t, 1, payload.closes)
	assert.Nil(t, c.payload)
	assert.Equal(t, int64(0), c.useCount())
}

func TestControl_ReleaseNil(t *testing.T) {
	var c *control[int]
	assert.NoError(t, c.release())
	assert.Equal(t, int64(0), c.useCount())
}

func TestControl_DestroyFailed(t *testing.T) {
	cause := errors.New("boom")
	c := newControl(&countingCloser{err: cause}, loadOptions())
	err := c.release()
	require.Error(t, err)
	assert.True(t, IsDestroyFailed(err))
}

func TestDestroy(t *testing.T) {
	assert.NoError(t, destroy[int](nil))
	v := 1
	assert.NoError(t, destroy(&v))

	inner := &countingCloser{}
	assert.NoError(t, destroy(&inner))
	assert.Equal(t, 1, inner.closes)
}
