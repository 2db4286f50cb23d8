package socketio

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/socketio/internal/errors"
)

// PanicError carries a recovered handler panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// Server dispatches inbound socket events to handlers.
type Server struct {
	config   Config
	handlers map[string]Handler
	dispatch func(context.Context, *Call) error
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	sockets map[string]*Socket

	unsubscribe func()
	closed      atomic.Bool
}

// NewServer adapts every entry of events with HandlerOf and returns an
// unmounted server.
func NewServer(events map[string]any, opts ...Option) (*Server, error) {
	cfg := buildConfig(opts)

	handlers := make(map[string]Handler, len(events))
	for name, fn := range events {
		h, err := HandlerOf(fn)
		if err != nil {
			e := errors.FromError(err, "E301")
			return nil, e.WithDetail("event " + strconv.Quote(name) + ": " + e.Detail)
		}
		handlers[name] = h
	}

	s := &Server{
		config:   cfg,
		handlers: handlers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger:  cfg.Logger,
		sockets: make(map[string]*Socket),
	}
	s.dispatch = chain(cfg.Middleware, s.invoke)
	s.unsubscribe = cfg.Adapter.Subscribe(s.deliver)
	return s, nil
}

// CreateSocketServer builds a server for events and mounts it on router.
// Invalid handlers panic: they are programming errors caught at startup.
func CreateSocketServer(router chi.Router, events map[string]any, opts ...Option) *Server {
	s, err := NewServer(events, opts...)
	if err != nil {
		panic(err)
	}
	router.Handle(s.config.Path, s)
	return s
}

// Path returns the mount path.
func (s *Server) Path() string {
	return s.config.Path
}

// Events returns the registered event names, sorted.
func (s *Server) Events() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		http.Error(w, "socket server closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	sock := newSocket(s, conn, r)
	s.add(sock)
	sock.logger.Info("connection", "remote", r.RemoteAddr)
	for _, o := range s.config.Observers {
		o.SocketConnected(sock)
	}

	go sock.pingLoop()
	sock.readLoop()

	sock.Close()
	s.remove(sock)
	for _, o := range s.config.Observers {
		o.SocketDisconnected(sock)
	}
	sock.logger.Info("disconnect")
}

// Dispatch runs the handler registered for event with ctx bound to the
// socket and server. Unknown events are logged once. Handler errors and
// panics are logged once. Nothing is ever sent back to the peer.
//
// Dispatch runs synchronously on the socket's read loop: while it runs no
// further packets or pongs are read, and a handler outliving
// Config.ReadTimeout makes the next read fail and closes the connection.
func (s *Server) Dispatch(ctx context.Context, sock *Socket, event string, args []json.RawMessage) {
	ctx = WithEventCtx(ctx, EventCtx{Socket: sock, Server: s})

	err := s.dispatch(ctx, &Call{Event: event, Socket: sock, Args: args})
	if err == nil {
		return
	}

	attrs := []any{"event", event}
	if sock != nil {
		attrs = append(attrs, "socket", sock.ID())
	}

	if stderrors.Is(err, errors.New("E303")) {
		s.logger.Warn("unknown event", attrs...)
		return
	}

	var pe *PanicError
	if stderrors.As(err, &pe) {
		attrs = append(attrs, "stack", string(pe.Stack))
	}
	s.logger.Error("event handler failed", append(attrs, "error", err)...)
}

// invoke is the innermost step of the dispatch chain.
func (s *Server) invoke(ctx context.Context, call *Call) (err error) {
	h, ok := s.handlers[call.Event]
	if !ok {
		return errors.New("E303").WithDetail(call.Event)
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.New("E302").
				WithDetail(fmt.Sprint(r)).
				Wrap(&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()

	return h.Handle(ctx, call.Args)
}

// Emit broadcasts event to every connected socket through the adapter.
func (s *Server) Emit(ctx context.Context, event string, args ...any) error {
	p, err := NewPacket(event, args...)
	if err != nil {
		return err
	}
	return s.config.Adapter.Broadcast(ctx, p)
}

// deliver writes a broadcast to every local socket.
func (s *Server) deliver(p Packet) {
	for _, sock := range s.Sockets() {
		if err := sock.write(p); err != nil {
			sock.logger.Debug("broadcast write failed", "event", p.Event, "error", err)
		}
	}
}

// Sockets returns a snapshot of the connected sockets.
func (s *Server) Sockets() []*Socket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Socket, 0, len(s.sockets))
	for _, sock := range s.sockets {
		out = append(out, sock)
	}
	return out
}

// Socket returns the connected socket with the given id.
func (s *Server) Socket(id string) (*Socket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sock, ok := s.sockets[id]
	return sock, ok
}

func (s *Server) add(sock *Socket) {
	s.mu.Lock()
	s.sockets[sock.id] = sock
	s.mu.Unlock()
}

func (s *Server) remove(sock *Socket) {
	s.mu.Lock()
	delete(s.sockets, sock.id)
	s.mu.Unlock()
}

// Close disconnects every socket and releases the adapter.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.unsubscribe()
	for _, sock := range s.Sockets() {
		sock.Close()
	}
	return s.config.Adapter.Close()
}
