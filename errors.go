package shared

import (
	"github.com/brickingsoft/errors"
)

var (
	ErrEmpty            = errors.Define("shared: handle is empty")
	ErrDestroyFailed    = errors.Define("shared: destroy payload failed")
	ErrDispatchFailed   = errors.Define("shared: dispatch failed")
	ErrExecutorsStarted = errors.Define("shared: executors already started")
	ErrInvalidOption    = errors.Define("shared: invalid option")
)

func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmpty)
}

func IsDestroyFailed(err error) bool {
	return errors.Is(err, ErrDestroyFailed)
}

func IsDispatchFailed(err error) bool {
	return errors.Is(err, ErrDispatchFailed)
}

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "shared"
)

const (
	errMetaOpKey      = "op"
	errMetaOpDestroy  = "destroy"
	errMetaOpDispatch = "dispatch"
	errMetaOpOption   = "option"
)
