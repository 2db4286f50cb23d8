package socketio

import (
	"context"
	"encoding/json"
)

// Call describes one inbound event on its way to the handler.
type Call struct {
	Event  string
	Socket *Socket
	Args   []json.RawMessage
}

// Middleware wraps event dispatch. next runs the remaining middleware and
// then the handler; it returns an E303 error for unknown events.
type Middleware func(ctx context.Context, call *Call, next func(context.Context) error) error

// chain builds the dispatch pipeline around final.
func chain(mw []Middleware, final func(ctx context.Context, call *Call) error) func(context.Context, *Call) error {
	h := final
	for i := len(mw) - 1; i >= 0; i-- {
		m, next := mw[i], h
		h = func(ctx context.Context, call *Call) error {
			return m(ctx, call, func(ctx context.Context) error {
				return next(ctx, call)
			})
		}
	}
	return h
}
