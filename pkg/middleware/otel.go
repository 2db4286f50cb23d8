package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/socketio/pkg/socketio"
)

// Default tracer name.
const defaultTracerName = "socketio"

// SpanName is the name of the per-event span.
const SpanName = "socketio.dispatch"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "socketio").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which events to trace. Nil traces all events.
	Filter func(call *socketio.Call) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(call *socketio.Call) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(call *socketio.Call) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(call *socketio.Call) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every inbound event.
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure it in main() before mounting the socket server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) socketio.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(ctx context.Context, call *socketio.Call, next func(context.Context) error) error {
		if config.Filter != nil && !config.Filter(call) {
			return next(ctx)
		}

		attrs := []attribute.KeyValue{
			attribute.String("socketio.event", call.Event),
			attribute.Int("socketio.args", len(call.Args)),
		}
		if call.Socket != nil {
			attrs = append(attrs, attribute.String("socketio.socket_id", call.Socket.ID()))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(call)...)
		}

		ctx, span := tracer.Start(ctx, SpanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := next(ctx)

		span.SetAttributes(attribute.String("socketio.status", Status(err)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
