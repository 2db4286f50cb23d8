package socketio

import (
	"context"
	"sync"
)

// Adapter carries server-to-client broadcasts. Broadcast must eventually
// invoke every subscriber, on this node and, for distributed adapters, on
// every other node sharing the adapter.
type Adapter interface {
	Broadcast(ctx context.Context, p Packet) error
	Subscribe(fn func(Packet)) (cancel func())
	Close() error
}

// LocalAdapter delivers broadcasts to subscribers in the same process.
type LocalAdapter struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Packet)
}

// NewLocalAdapter creates an in-process adapter.
func NewLocalAdapter() *LocalAdapter {
	return &LocalAdapter{subs: make(map[int]func(Packet))}
}

// Broadcast calls every subscriber synchronously.
func (a *LocalAdapter) Broadcast(ctx context.Context, p Packet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.RLock()
	subs := make([]func(Packet), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.RUnlock()

	for _, fn := range subs {
		fn(p)
	}
	return nil
}

// Subscribe registers fn until cancel is called.
func (a *LocalAdapter) Subscribe(fn func(Packet)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// Close drops all subscribers.
func (a *LocalAdapter) Close() error {
	a.mu.Lock()
	clear(a.subs)
	a.mu.Unlock()
	return nil
}
