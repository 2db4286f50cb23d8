// Package middleware provides observability middleware for the socket
// server.
//
// # OpenTelemetry
//
// OpenTelemetry starts one span per inbound event, named after the event,
// with the socket ID as an attribute. The span context is passed on to the
// handler so outgoing calls inherit the trace:
//
//	socketio.SetDefaultOptions(
//	    socketio.WithMiddleware(middleware.OpenTelemetry()),
//	)
//
// # Prometheus
//
// Prometheus collects:
//   - socketio_events_total: inbound events by status (ok, unknown, invalid, error)
//   - socketio_dispatch_duration_seconds: handler duration by event
//   - socketio_connections: currently connected sockets
//
// The returned Metrics is both a middleware source and a connection
// observer:
//
//	m := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	socketio.SetDefaultOptions(
//	    socketio.WithMiddleware(m.Middleware()),
//	    socketio.WithObserver(m),
//	)
//	http.Handle("/metrics", promhttp.Handler())
package middleware
