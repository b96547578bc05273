package reference

import (
	"strconv"
	"sync/atomic"

	"github.com/brickingsoft/errors"
	"golang.org/x/sys/cpu"
)

var (
	ErrInconsistent = errors.Define("reference: inconsistent count")
)

func IsInconsistent(err error) bool {
	return errors.Is(err, ErrInconsistent)
}

const (
	errMetaPkgKey   = "pkg"
	errMetaPkgVal   = "reference"
	errMetaOpKey    = "op"
	errMetaOpAcq    = "acquire"
	errMetaOpRel    = "release"
	errMetaCountKey = "count"
)

// Count
// shared reference count.
// The zero value holds no references, Init it before use.
type Count struct {
	n atomic.Int64
	_ cpu.CacheLinePad
}

func (c *Count) Init(n int64) {
	c.n.Store(n)
}

// Acquire
// adds one reference and returns the new count.
// Acquiring a count that already dropped to zero panics.
func (c *Count) Acquire() int64 {
	n := c.n.Add(1)
	if n < 2 {
		panic(inconsistent(errMetaOpAcq, n))
	}
	return n
}

// Release
// drops one reference and returns the remaining count.
// The caller that sees 0 owns the teardown.
func (c *Count) Release() int64 {
	n := c.n.Add(-1)
	if n < 0 {
		panic(inconsistent(errMetaOpRel, n))
	}
	return n
}

func (c *Count) Load() int64 {
	return c.n.Load()
}

func inconsistent(op string, n int64) error {
	return errors.From(
		ErrInconsistent,
		errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
		errors.WithMeta(errMetaOpKey, op),
		errors.WithMeta(errMetaCountKey, strconv.FormatInt(n, 10)),
	)
}
