package socketio

import (
	"context"

	"github.com/vango-dev/socketio/internal/errors"
)

// ErrNoEventContext is returned by FromContext, and raised by Use, outside
// of an event dispatch.
var ErrNoEventContext = errors.New("E300")

// EventCtx is the ambient state of one dispatch: the socket the event
// arrived on and the server that owns it.
type EventCtx struct {
	Socket *Socket
	Server *Server
}

type eventCtxKey struct{}

// WithEventCtx returns a context carrying ec. The binding lives exactly as
// long as the derived context, so concurrent dispatches never share it.
func WithEventCtx(ctx context.Context, ec EventCtx) context.Context {
	return context.WithValue(ctx, eventCtxKey{}, ec)
}

// FromContext returns the EventCtx bound to ctx.
func FromContext(ctx context.Context) (EventCtx, error) {
	if ctx == nil {
		return EventCtx{}, ErrNoEventContext
	}
	ec, ok := ctx.Value(eventCtxKey{}).(EventCtx)
	if !ok {
		return EventCtx{}, ErrNoEventContext
	}
	return ec, nil
}

// Use returns the EventCtx bound to ctx and panics outside of a dispatch.
func Use(ctx context.Context) EventCtx {
	ec, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return ec
}
