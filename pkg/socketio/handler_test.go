package socketio

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	socketerrors "github.com/vango-dev/socketio/internal/errors"
)

func rawArgs(t *testing.T, args ...any) []json.RawMessage {
	t.Helper()
	p, err := NewPacket("x", args...)
	if err != nil {
		t.Fatal(err)
	}
	return p.Args
}

func TestHandlerOfReflect(t *testing.T) {
	type message struct {
		Text string `json:"text"`
	}

	var (
		gotRoom string
		gotMsg  message
		gotCtx  context.Context
	)
	h, err := HandlerOf(func(ctx context.Context, room string, msg message) error {
		gotCtx, gotRoom, gotMsg = ctx, room, msg
		return nil
	})
	if err != nil {
		t.Fatalf("HandlerOf() error = %v", err)
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "marker")
	if err := h.Handle(ctx, rawArgs(t, "general", message{Text: "hi"})); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if gotCtx != ctx || gotRoom != "general" || gotMsg.Text != "hi" {
		t.Errorf("got ctx=%v room=%q msg=%+v", gotCtx, gotRoom, gotMsg)
	}
}

func TestHandlerOfArgumentArity(t *testing.T) {
	var a string
	var b int
	h, err := HandlerOf(func(x string, y int) { a, b = x, y })
	if err != nil {
		t.Fatal(err)
	}

	// Missing arguments leave zero values.
	if err := h.Handle(context.Background(), rawArgs(t, "only")); err != nil {
		t.Fatal(err)
	}
	if a != "only" || b != 0 {
		t.Errorf("missing arg: a=%q b=%d", a, b)
	}

	// Extra arguments are ignored.
	if err := h.Handle(context.Background(), rawArgs(t, "one", 2, 3, "four")); err != nil {
		t.Fatal(err)
	}
	if a != "one" || b != 2 {
		t.Errorf("extra args: a=%q b=%d", a, b)
	}
}

func TestHandlerOfVariadic(t *testing.T) {
	var got []int
	var prefix string
	h, err := HandlerOf(func(p string, nums ...int) { prefix, got = p, nums })
	if err != nil {
		t.Fatal(err)
	}

	if err := h.Handle(context.Background(), rawArgs(t, "n", 1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if prefix != "n" || !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("prefix=%q nums=%v", prefix, got)
	}

	if err := h.Handle(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if prefix != "" || len(got) != 0 {
		t.Errorf("no args: prefix=%q nums=%v", prefix, got)
	}
}

func TestHandlerOfReturnsError(t *testing.T) {
	wantErr := errors.New("boom")
	h, err := HandlerOf(func() error { return wantErr })
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Handle(context.Background(), nil); !errors.Is(err, wantErr) {
		t.Errorf("Handle() error = %v, want %v", err, wantErr)
	}
}

func TestHandlerOfInvalidArgument(t *testing.T) {
	h, err := HandlerOf(func(n int) {})
	if err != nil {
		t.Fatal(err)
	}
	err = h.Handle(context.Background(), rawArgs(t, "not a number"))
	if !errors.Is(err, socketerrors.New("E321")) {
		t.Errorf("Handle() error = %v, want E321", err)
	}
}

func TestHandlerOfPassThrough(t *testing.T) {
	called := false
	raw := func(ctx context.Context, args []json.RawMessage) error {
		called = len(args) == 2
		return nil
	}
	h, err := HandlerOf(raw)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.(HandlerFunc); !ok {
		t.Errorf("HandlerOf(raw) = %T, want HandlerFunc", h)
	}
	h.Handle(context.Background(), rawArgs(t, 1, 2))
	if !called {
		t.Error("raw handler did not receive the arguments unchanged")
	}

	same, err := HandlerOf(h)
	if err != nil || same == nil {
		t.Errorf("HandlerOf(Handler) = %v, %v", same, err)
	}
}

func TestHandlerOfRejects(t *testing.T) {
	var nilFunc func()
	tests := map[string]any{
		"nil":         nil,
		"not a func":  42,
		"nil func":    nilFunc,
		"two results": func() (int, error) { return 0, nil },
		"non-error":   func() int { return 0 },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := HandlerOf(fn)
			if !errors.Is(err, socketerrors.New("E301")) {
				t.Errorf("HandlerOf() error = %v, want E301", err)
			}
		})
	}
}
