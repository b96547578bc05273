package shared

import (
	"log/slog"
	"reflect"
	"runtime"
)

func (h *Handle[T]) track(ctrl *control[T]) {
	h.cleanup = runtime.AddCleanup(h, releaseUnreachable[T], ctrl)
	h.tracked = true
}

func (h *Handle[T]) untrack() {
	if !h.tracked {
		return
	}
	h.cleanup.Stop()
	h.cleanup = runtime.Cleanup{}
	h.tracked = false
}

// releaseUnreachable runs on the cleanup goroutine once a tracked handle is
// collected while still holding ctrl.
func releaseUnreachable[T any](ctrl *control[T]) {
	logger := ctrl.options.Logger
	logger.Warn(
		"shared: handle released by cleanup",
		slog.String("type", reflect.TypeFor[T]().String()),
		slog.Int64("count", ctrl.useCount()),
	)
	if err := ctrl.release(); err != nil {
		logger.Error("shared: handle released by cleanup", slog.String("error", err.Error()))
	}
}
