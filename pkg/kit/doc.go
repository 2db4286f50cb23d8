// Package kit provides the small build-time machinery the socketio
// integration plugs into: ordered hooks, a template registry that writes
// generated files to one or more sinks, and a virtual entry whose import and
// statement lines are contributed by hooks.
//
// # Hooks
//
// A Hooks list runs its callbacks in registration order against a shared
// accumulator. Call returns once every callback has finished, so the caller
// can read the accumulator afterwards:
//
//	var h kit.Hooks[*[]string]
//	h.Hook(func(ctx context.Context, acc *[]string) error {
//	    *acc = append(*acc, "a")
//	    return nil
//	})
//	var acc []string
//	err := h.Call(ctx, &acc)
//
// # Templates
//
// Templates are regenerated together by Update. Only templates with Write
// set are handed to the sinks, and only when their contents changed since
// the previous Update.
//
// # Entry
//
// The Entry renders a Go file exposing Mount(server chi.Router). Hooks on
// Entry.Source append import specs to Headers and statements to Body.
package kit
