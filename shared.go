// Package shared provides Handle, a reference counted owner of a heap value.
package shared

import (
	"runtime"
)

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle
// 共享所有权句柄。
//
// 零值为空句柄。同一负载的所有句柄共享一个引用计数，最后一个句柄释放时
// 销毁负载：若 *T 或 T 实现了 io.Closer，则调用一次 Close。
//
// 句柄不可按值复制，使用 Share 复制、Move 转移。
// 计数的增减是原子的，但同一个 *Handle 不能被并发修改。
type Handle[T any] struct {
	_       noCopy
	ctrl    *control[T]
	auto    bool
	tracked bool
	cleanup runtime.Cleanup
}

// New
// 接管 p 的所有权，计数为 1。
//
// p 为 nil 时返回空句柄。调用后不得再独立持有或释放 p。
func New[T any](p *T) *Handle[T] {
	options := loadOptions()
	h := &Handle[T]{auto: options.AutoRelease}
	if p != nil {
		h.swapControl(newControl(p, options))
	}
	return h
}

// Make
// 分配 v 的副本并接管。
func Make[T any](v T) *Handle[T] {
	return New(&v)
}

// Share
// 复制句柄，计数加一。空句柄得到空句柄。
func (h *Handle[T]) Share() *Handle[T] {
	shared := &Handle[T]{auto: loadOptions().AutoRelease}
	if ctrl := h.control(); ctrl != nil {
		ctrl.acquire()
		shared.swapControl(ctrl)
	}
	return shared
}

// Move
// 转移所有权到新句柄，计数不变，h 变为空句柄。
func (h *Handle[T]) Move() *Handle[T] {
	moved := &Handle[T]{auto: loadOptions().AutoRelease}
	if h != nil {
		moved.swapControl(h.swapControl(nil))
	}
	return moved
}

// CopyFrom
// 复制赋值。
//
// 先持有 src 的引用，再释放 h 原有的引用，自赋值或已共享同一负载时不做任何事。
// 返回值为原负载销毁时的错误。
func (h *Handle[T]) CopyFrom(src *Handle[T]) (err error) {
	if src == h {
		return
	}
	ctrl := src.control()
	if ctrl == h.ctrl {
		return
	}
	if ctrl != nil {
		ctrl.acquire()
	}
	err = h.swapControl(ctrl).release()
	return
}

// MoveFrom
// 移动赋值。
//
// 释放 h 原有的引用，接管 src 的引用，src 变为空句柄。
func (h *Handle[T]) MoveFrom(src *Handle[T]) (err error) {
	if src == h {
		return
	}
	var ctrl *control[T]
	if src != nil {
		ctrl = src.swapControl(nil)
	}
	err = h.swapControl(ctrl).release()
	return
}

// Reset
// 释放当前引用并接管 p，p 为 nil 时变为空句柄。
//
// 新的控制块先于旧引用的释放建立。p 为当前负载时不做任何事。
func (h *Handle[T]) Reset(p *T) (err error) {
	if p != nil && h.ctrl != nil && h.ctrl.payload == p {
		return
	}
	var ctrl *control[T]
	if p != nil {
		ctrl = newControl(p, loadOptions())
	}
	err = h.swapControl(ctrl).release()
	return
}

// Swap
// 交换两个句柄的所有权，计数不变。
func (h *Handle[T]) Swap(other *Handle[T]) {
	if other == h {
		return
	}
	ctrl := h.swapControl(nil)
	h.swapControl(other.swapControl(ctrl))
}

// Get
// 返回负载指针，空句柄返回 nil。不转移所有权。
func (h *Handle[T]) Get() *T {
	if ctrl := h.control(); ctrl != nil {
		return ctrl.payload
	}
	return nil
}

// Value
// 解引用。空句柄会以 ErrEmpty panic。
func (h *Handle[T]) Value() T {
	ctrl := h.control()
	if ctrl == nil {
		panic(ErrEmpty)
	}
	return *ctrl.payload
}

// UseCount
// 共享计数，空句柄为 0。
func (h *Handle[T]) UseCount() int64 {
	return h.control().useCount()
}

// Unique
// 是否为唯一持有者。
func (h *Handle[T]) Unique() bool {
	return h.UseCount() == 1
}

// Valid
// 是否非空。
func (h *Handle[T]) Valid() bool {
	return h.control() != nil
}

// Release
// 释放引用，句柄变为空。最后一个引用释放时销毁负载。
// 空句柄上调用不做任何事。
func (h *Handle[T]) Release() (err error) {
	if h == nil {
		return
	}
	err = h.swapControl(nil).release()
	return
}

func (h *Handle[T]) Close() error {
	return h.Release()
}

func (h *Handle[T]) control() *control[T] {
	if h == nil {
		return nil
	}
	return h.ctrl
}

// swapControl rebinds h and returns the block it held, whose share now
// belongs to the caller.
func (h *Handle[T]) swapControl(ctrl *control[T]) (old *control[T]) {
	old = h.ctrl
	h.untrack()
	h.ctrl = ctrl
	if ctrl != nil && h.auto {
		h.track(ctrl)
	}
	return
}
