package socketio

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultPath is the endpoint the socket server is mounted on.
const DefaultPath = "/socket.io/"

// Config holds configuration for the socket server.
type Config struct {
	// Path is the route the WebSocket endpoint is mounted on.
	// Default: "/socket.io/".
	Path string

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: allows all origins.
	CheckOrigin func(r *http.Request) bool

	// ReadTimeout is how long a connection may stay silent, pongs included,
	// before it is closed. Handlers run on the read loop and pongs are only
	// processed between reads, so a handler running longer than ReadTimeout
	// drops its connection. Move slow work to a goroutine.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds every frame written to a peer.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between keepalive pings. It must be shorter
	// than ReadTimeout.
	// Default: 25 seconds.
	PingInterval time.Duration

	// MaxMessageSize is the maximum size of an inbound frame.
	// Default: 64KB.
	MaxMessageSize int64

	// Adapter delivers server-to-client broadcasts.
	// Default: a LocalAdapter.
	Adapter Adapter

	// Middleware wraps every inbound event, outermost first.
	Middleware []Middleware

	// Observers are told about every connection and disconnection.
	Observers []ConnectionObserver

	// Logger receives connection and dispatch diagnostics.
	// Default: slog.Default() with component=socketio.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Path:            DefaultPath,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		PingInterval:    25 * time.Second,
		MaxMessageSize:  64 * 1024,
	}
}

// Option configures the socket server.
type Option func(*Config)

// WithPath sets the mount path.
func WithPath(path string) Option {
	return func(c *Config) {
		c.Path = path
	}
}

// WithAdapter sets the broadcast adapter.
func WithAdapter(a Adapter) Option {
	return func(c *Config) {
		c.Adapter = a
	}
}

// WithMiddleware appends dispatch middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Config) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// WithObserver registers a connection observer.
func WithObserver(o ConnectionObserver) Option {
	return func(c *Config) {
		c.Observers = append(c.Observers, o)
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithCheckOrigin sets the origin check used during the upgrade.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(c *Config) {
		c.CheckOrigin = fn
	}
}

// WithTimeouts sets the read timeout and the ping interval.
func WithTimeouts(read, ping time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = read
		c.PingInterval = ping
	}
}

// ConnectionObserver is notified as sockets come and go.
type ConnectionObserver interface {
	SocketConnected(s *Socket)
	SocketDisconnected(s *Socket)
}

var (
	defaultOptionsMu sync.RWMutex
	defaultOptions   []Option
)

// SetDefaultOptions sets options applied to every server created afterwards,
// before the options passed to NewServer. Generated entries call
// CreateSocketServer without options, so applications configure them here.
func SetDefaultOptions(opts ...Option) {
	defaultOptionsMu.Lock()
	defaultOptions = append([]Option(nil), opts...)
	defaultOptionsMu.Unlock()
}

func buildConfig(opts []Option) Config {
	defaultOptionsMu.RLock()
	all := append(append([]Option(nil), defaultOptions...), opts...)
	defaultOptionsMu.RUnlock()

	cfg := Config{}
	for _, opt := range all {
		opt(&cfg)
	}
	cfg.fill()
	return cfg
}

// fill replaces unset fields with defaults.
func (c *Config) fill() {
	defaults := DefaultConfig()
	if c.Path == "" {
		c.Path = defaults.Path
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = defaults.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = defaults.WriteBufferSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = defaults.CheckOrigin
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.ReadTimeout {
		c.PingInterval = c.ReadTimeout * 9 / 10
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = defaults.MaxMessageSize
	}
	if c.Adapter == nil {
		c.Adapter = NewLocalAdapter()
	}
	if c.Logger == nil {
		c.Logger = slog.Default().With("component", "socketio")
	}
}
