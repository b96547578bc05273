package shared

import (
	"io"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/shared/pkg/reference"
)

// control is the block every sharer of one payload points at.
type control[T any] struct {
	count   reference.Count
	payload *T
	options *Options
}

func newControl[T any](payload *T, options *Options) *control[T] {
	c := &control[T]{
		payload: payload,
		options: options,
	}
	c.count.Init(1)
	return c
}

func (c *control[T]) acquire() {
	c.count.Acquire()
}

// release drops one share and destroys the payload on the last one.
// A nil block is an empty handle, releasing it is a no-op.
func (c *control[T]) release() (err error) {
	if c == nil {
		return
	}
	if c.count.Release() > 0 {
		return
	}
	payload := c.payload
	c.payload = nil
	if closeErr := destroy(payload); closeErr != nil {
		err = errors.From(
			ErrDestroyFailed,
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, errMetaOpDestroy),
			errors.WithWrap(closeErr),
		)
	}
	return
}

func (c *control[T]) useCount() int64 {
	if c == nil {
		return 0
	}
	return c.count.Load()
}

func destroy[T any](payload *T) error {
	if payload == nil {
		return nil
	}
	if closer, ok := any(payload).(io.Closer); ok {
		return closer.Close()
	}
	if closer, ok := any(*payload).(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
