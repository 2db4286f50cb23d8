package socketio

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Socket is one client connection.
type Socket struct {
	id      string
	server  *Server
	conn    *websocket.Conn
	request *http.Request
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSocket(server *Server, conn *websocket.Conn, r *http.Request) *Socket {
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	id := uuid.NewString()
	return &Socket{
		id:      id,
		server:  server,
		conn:    conn,
		request: r,
		logger:  server.logger.With("socket", id),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns the socket's unique identifier.
func (s *Socket) ID() string {
	return s.id
}

// Request returns the HTTP request that opened the connection.
func (s *Socket) Request() *http.Request {
	return s.request
}

// Context is canceled when the connection closes.
func (s *Socket) Context() context.Context {
	return s.ctx
}

// Emit sends one event to this socket only.
func (s *Socket) Emit(event string, args ...any) error {
	p, err := NewPacket(event, args...)
	if err != nil {
		return err
	}
	return s.write(p)
}

func (s *Socket) write(p Packet) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.ctx.Err() != nil {
		return websocket.ErrCloseSent
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, p.Encode())
}

// Close closes the connection. It is safe to call more than once.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.cancel()
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

// readLoop reads packets and dispatches them in arrival order. It blocks
// until the connection is closed.
func (s *Socket) readLoop() {
	cfg := s.server.config

	s.conn.SetReadLimit(cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		mt, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		if mt != websocket.TextMessage {
			s.logger.Warn("ignoring non-text frame", "type", mt)
			continue
		}

		p, err := DecodePacket(msg)
		if err != nil {
			s.logger.Warn("invalid packet", "error", err)
			continue
		}

		s.server.Dispatch(s.ctx, s, p.Event, p.Args)
	}
}

// pingLoop keeps the connection alive until it closes.
func (s *Socket) pingLoop() {
	ticker := time.NewTicker(s.server.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil,
				time.Now().Add(s.server.config.WriteTimeout))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}
