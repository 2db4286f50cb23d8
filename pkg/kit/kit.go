package kit

import (
	"context"
	"log/slog"
)

// Change kinds reported to watch hooks.
const (
	WatchAdd    = "add"
	WatchRemove = "remove"
	WatchChange = "change"
)

// WatchEvent is a file-system change notification.
type WatchEvent struct {
	Kind string
	Path string
}

// Kit bundles the machinery a module sets itself up against.
type Kit struct {
	// Root is the project root.
	Root string

	// Templates holds every generated file.
	Templates *Templates

	// Entry is the generated server entry.
	Entry *Entry

	// Watch receives file-system change notifications.
	Watch Hooks[WatchEvent]

	// Logger is the base logger handed to modules.
	Logger *slog.Logger
}

// Options configures a Kit.
type Options struct {
	Root    string
	Package string
	Sinks   []Sink
	Logger  *slog.Logger
}

// New creates a Kit. The entry is registered as a written template.
func New(opts Options) *Kit {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = "socketgen"
	}

	templates := NewTemplates(opts.Sinks...)
	templates.SetLogger(logger.With("component", "templates"))

	k := &Kit{
		Root:      opts.Root,
		Templates: templates,
		Entry:     NewEntry(pkg),
		Logger:    logger,
	}
	k.Templates.Add(k.Entry.Template())
	return k
}

// Notify forwards a change notification to the watch hooks. Hook errors are
// logged; a failing watcher callback never stops the watcher.
func (k *Kit) Notify(ctx context.Context, kind, path string) {
	if err := k.Watch.Call(ctx, WatchEvent{Kind: kind, Path: path}); err != nil {
		k.Logger.Error("watch hook failed", "kind", kind, "path", path, "error", err)
	}
}
