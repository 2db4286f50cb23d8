package integration

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/socketio/internal/config"
	"github.com/vango-dev/socketio/internal/dev"
	"github.com/vango-dev/socketio/pkg/codegen"
	"github.com/vango-dev/socketio/pkg/events"
	"github.com/vango-dev/socketio/pkg/kit"
)

// Generated template names.
const (
	TypesTemplate  = "socketio/types.ts"
	ClientTemplate = "socketio/plugin.client.ts"
)

// Options configures the module.
type Options struct {
	// EventsDir is the handler directory, relative to the kit root unless
	// absolute.
	EventsDir string

	// TypesFile is the reserved declaration file name inside EventsDir.
	TypesFile string

	// StrictEvents omits the catch-all signature from the Events type.
	// Nil means true.
	StrictEvents *bool

	// Debounce is the quiet period before regenerating after a change.
	Debounce time.Duration

	// ServerPath is the socket endpoint the client bootstrap connects to.
	ServerPath string

	// ModulePath is the Go module of the kit root. Read from go.mod when
	// empty.
	ModulePath string
}

// DefaultOptions returns the module defaults.
func DefaultOptions() Options {
	return Options{
		EventsDir:    config.DefaultEventsDir,
		TypesFile:    config.DefaultTypesFile,
		StrictEvents: events.Bool(true),
		Debounce:     config.DefaultDebounce,
		ServerPath:   config.DefaultServerPath,
	}
}

// OptionsFromConfig maps a loaded socketio.json onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		EventsDir:    cfg.EventsPath(),
		TypesFile:    cfg.TypesFile,
		StrictEvents: events.Bool(cfg.Strict()),
		Debounce:     cfg.Debounce(),
		ServerPath:   cfg.Server.Path,
	}
}

func (o Options) strict() bool {
	return o.StrictEvents == nil || *o.StrictEvents
}

// Module is the socket event pipeline registered on a kit.
type Module struct {
	// Discovery produces the descriptors every generator consumes.
	Discovery *events.Discovery

	kit       *kit.Kit
	opts      Options
	root      string
	eventsDir string
	typesPath string
	bootstrap codegen.Bootstrap
	debouncer *dev.Debouncer
	logger    *slog.Logger
}

// Setup registers the module on k.
func Setup(k *kit.Kit, opts Options) (*Module, error) {
	defaults := DefaultOptions()
	if opts.EventsDir == "" {
		opts.EventsDir = defaults.EventsDir
	}
	if opts.TypesFile == "" {
		opts.TypesFile = defaults.TypesFile
	}
	if opts.ServerPath == "" {
		opts.ServerPath = defaults.ServerPath
	}

	root, err := filepath.Abs(k.Root)
	if err != nil {
		return nil, err
	}
	if opts.ModulePath == "" {
		opts.ModulePath, err = config.ModulePath(root)
		if err != nil {
			return nil, err
		}
	}

	eventsDir := opts.EventsDir
	if !filepath.IsAbs(eventsDir) {
		eventsDir = filepath.Join(root, eventsDir)
	}

	logger := k.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "socketio")

	m := &Module{
		kit:       k,
		opts:      opts,
		root:      root,
		eventsDir: eventsDir,
		typesPath: filepath.Join(eventsDir, opts.TypesFile),
		bootstrap: codegen.Bootstrap{
			Resolver: codegen.ImportResolver{ModulePath: opts.ModulePath, ModuleRoot: root},
		},
		logger: logger,
	}

	scanner := events.NewScanner(m.eventsDir, m.typesPath).WithLogger(logger)
	m.Discovery = events.NewDiscovery(scanner)

	k.Templates.Add(kit.Template{
		Filename:    TypesTemplate,
		Write:       true,
		GetContents: m.types,
	})
	k.Templates.Add(kit.Template{
		Filename: ClientTemplate,
		Write:    true,
		GetContents: func(context.Context) (string, error) {
			return codegen.ClientPlugin(opts.ServerPath), nil
		},
	})

	k.Entry.Source.Hook(m.appendEntry)

	m.debouncer = dev.NewDebouncer(opts.Debounce, m.regenerate)
	k.Watch.Hook(func(ctx context.Context, ev kit.WatchEvent) error {
		m.OnWatch(ev.Kind, ev.Path)
		return nil
	})

	return m, nil
}

// EventsDir returns the absolute handler directory.
func (m *Module) EventsDir() string {
	return m.eventsDir
}

// Events discovers and validates the current descriptors.
func (m *Module) Events(ctx context.Context) (events.Descriptors, error) {
	evs, err := m.Discovery.Events(ctx)
	if err != nil {
		return nil, err
	}
	if err := codegen.Validate(evs); err != nil {
		return nil, err
	}
	return evs, nil
}

func (m *Module) types(ctx context.Context) (string, error) {
	evs, err := m.Events(ctx)
	if err != nil {
		return "", err
	}
	return codegen.GenerateTypes(ctx, evs, codegen.TypesOptions{
		Strict:    m.opts.strict(),
		TypesFile: m.typesPath,
		Logger:    m.logger,
	})
}

func (m *Module) appendEntry(ctx context.Context, src *kit.Source) error {
	evs, err := m.Events(ctx)
	if err != nil {
		return err
	}
	return m.bootstrap.Append(ctx, src, evs)
}

// OnWatch schedules a regeneration when a handler file is added or removed
// under the events directory. Content changes do not alter discovery and
// are ignored. It reports whether a regeneration was scheduled.
func (m *Module) OnWatch(kind, path string) bool {
	if kind == kit.WatchChange {
		return false
	}
	if !m.inEventsDir(path) {
		return false
	}
	m.logger.Debug("events changed", "kind", kind, "path", path)
	m.debouncer.Trigger()
	return true
}

func (m *Module) inEventsDir(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.root, path)
	}
	rel, err := filepath.Rel(m.eventsDir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (m *Module) regenerate() {
	if err := m.kit.Templates.Update(context.Background()); err != nil {
		m.logger.Error("regenerate failed", "error", err)
		return
	}
	m.logger.Info("socket events regenerated")
}

// Flush runs a pending regeneration now.
func (m *Module) Flush() {
	m.debouncer.Flush()
}

// Close cancels any pending regeneration.
func (m *Module) Close() {
	m.debouncer.Stop()
}
