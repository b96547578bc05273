package shared

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/rxp"
)

var (
	executorsLocker sync.Mutex
	executors       rxp.Executors = nil
)

// Startup
// 启动执行器
//
// 先以 options 调用 Preset，再按 Options.AsRxpOptions 创建执行器。
// 默认在首次使用时以预设选项创建，如果需要定制化，则使用 Startup 完成。
func Startup(options ...Option) (err error) {
	if err = Preset(options...); err != nil {
		return
	}
	executorsLocker.Lock()
	defer executorsLocker.Unlock()
	if executors != nil {
		err = ErrExecutorsStarted
		return
	}
	executors, err = newExecutors()
	return
}

// Shutdown
// 关闭执行器
//
// 非优雅的，即不会等待所有协程执行完毕。
func Shutdown() (err error) {
	executorsLocker.Lock()
	defer executorsLocker.Unlock()
	if executors == nil {
		return
	}
	err = executors.Close()
	executors = nil
	return
}

// ShutdownGracefully
// 优雅的关闭执行器
//
// 它会等待所有协程执行完毕，期间派发出去的引用都会被释放。
func ShutdownGracefully() (err error) {
	executorsLocker.Lock()
	defer executorsLocker.Unlock()
	if executors == nil {
		return
	}
	err = executors.CloseGracefully()
	executors = nil
	return
}

// Executors
// 获取执行器
func Executors() rxp.Executors {
	executorsLocker.Lock()
	defer executorsLocker.Unlock()
	if executors == nil {
		exec, err := newExecutors()
		if err != nil {
			panic(err)
		}
		executors = exec
	}
	return executors
}

func newExecutors() (exec rxp.Executors, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case error:
				err = e
				break
			case string:
				err = errors.New(e)
				break
			default:
				err = errors.New(fmt.Sprintf("%+v", r))
				break
			}
		}
	}()
	exec = rxp.New(loadOptions().AsRxpOptions()...)
	return
}

// Go
// 将 h 的一个新引用派发到执行器中运行 task，task 返回后释放该引用。
//
// 派发失败时立即释放该引用并返回 ErrDispatchFailed。
// task 可以 Move 走传入的句柄来延长引用的生命周期，此时 Go 不再释放它。
func Go[T any](ctx context.Context, h *Handle[T], task func(ctx context.Context, h *Handle[T])) (err error) {
	shared := h.Share()
	execErr := Executors().Execute(ctx, func() {
		task(ctx, shared)
		if releaseErr := shared.Release(); releaseErr != nil {
			loadOptions().Logger.Error(
				"shared: release dispatched handle failed",
				slog.String("error", releaseErr.Error()),
			)
		}
	})
	if execErr != nil {
		if releaseErr := shared.Release(); releaseErr != nil {
			loadOptions().Logger.Error(
				"shared: release undispatched handle failed",
				slog.String("error", releaseErr.Error()),
			)
		}
		err = errors.From(
			ErrDispatchFailed,
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, errMetaOpDispatch),
			errors.WithWrap(execErr),
		)
		return
	}
	return
}
