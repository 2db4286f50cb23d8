package kit

import (
	"context"
	"sync"
)

// HookFunc is a callback invoked with a shared accumulator.
type HookFunc[T any] func(ctx context.Context, acc T) error

// Hooks is an ordered list of callbacks. The zero value is ready to use.
type Hooks[T any] struct {
	mu  sync.Mutex
	fns []*HookFunc[T]
}

// Hook registers fn and returns a function that removes it again.
func (h *Hooks[T]) Hook(fn HookFunc[T]) (unhook func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := &fn
	h.fns = append(h.fns, p)

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, f := range h.fns {
			if f == p {
				h.fns = append(h.fns[:i:i], h.fns[i+1:]...)
				return
			}
		}
	}
}

// Call invokes every registered callback in order and waits for each to
// return before starting the next. It stops at the first error.
func (h *Hooks[T]) Call(ctx context.Context, acc T) error {
	h.mu.Lock()
	fns := make([]*HookFunc[T], len(h.fns))
	copy(fns, h.fns)
	h.mu.Unlock()

	for _, fn := range fns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := (*fn)(ctx, acc); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered callbacks.
func (h *Hooks[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.fns)
}
