package shared

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/rxp"
)

type Options struct {
	RxpOptions  rxp.Options
	Logger      *slog.Logger
	AutoRelease bool
}

func (options *Options) AsRxpOptions() []rxp.Option {
	opts := make([]rxp.Option, 0, 1)
	if n := options.RxpOptions.MaxGoroutines; n > 0 {
		opts = append(opts, rxp.MaxGoroutines(n))
	}
	if n := options.RxpOptions.MaxReadyGoroutinesIdleDuration; n > 0 {
		opts = append(opts, rxp.MaxReadyGoroutinesIdleDuration(n))
	}
	if n := options.RxpOptions.CloseTimeout; n > 0 {
		opts = append(opts, rxp.WithCloseTimeout(n))
	}
	return opts
}

type Option func(options *Options) (err error)

// WithLogger
// 设置日志。默认为 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) (err error) {
		if logger == nil {
			err = errors.From(
				ErrInvalidOption,
				errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
				errors.WithMeta(errMetaOpKey, errMetaOpOption),
				errors.WithMeta("name", "logger"),
			)
			return
		}
		options.Logger = logger
		return
	}
}

// WithAutoRelease
// 设置自动释放。
//
// 开启后，由 New、Make、Share、Move 创建的句柄在未 Release 而被回收时，
// 会通过 runtime.AddCleanup 释放其持有的引用，并记录一条警告日志。
func WithAutoRelease(enabled bool) Option {
	return func(options *Options) (err error) {
		options.AutoRelease = enabled
		return
	}
}

// WithMaxGoroutines
// 设置最大协程数
func WithMaxGoroutines(n int) Option {
	return func(options *Options) error {
		return rxp.MaxGoroutines(n)(&options.RxpOptions)
	}
}

// WithMaxReadyGoroutinesIdleDuration
// 设置准备中协程最大闲置时长
func WithMaxReadyGoroutinesIdleDuration(d time.Duration) Option {
	return func(options *Options) error {
		return rxp.MaxReadyGoroutinesIdleDuration(d)(&options.RxpOptions)
	}
}

// WithCloseTimeout
// 设置关闭超时时长
func WithCloseTimeout(timeout time.Duration) Option {
	return func(options *Options) error {
		return rxp.WithCloseTimeout(timeout)(&options.RxpOptions)
	}
}

var presetOptions atomic.Pointer[Options]

// Preset
// 预设选项。
//
// 只影响之后创建的句柄与控制块，已存在的不变。
func Preset(options ...Option) (err error) {
	opt := *loadOptions()
	for _, option := range options {
		if err = option(&opt); err != nil {
			return
		}
	}
	presetOptions.Store(&opt)
	return
}

func loadOptions() *Options {
	if opt := presetOptions.Load(); opt != nil {
		return opt
	}
	return &Options{
		Logger: slog.Default(),
	}
}
