package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	socketerrors "github.com/vango-dev/socketio/internal/errors"
	"github.com/vango-dev/socketio/pkg/events"
	"github.com/vango-dev/socketio/pkg/kit"
)

type memorySink struct {
	mu     sync.Mutex
	files  map[string]string
	writes int
}

func (s *memorySink) WriteFile(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string]string)
	}
	s.files[name] = string(data)
	s.writes++
	return nil
}

func (s *memorySink) get(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[name]
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n\ngo 1.23\n")
	writeFile(t, filepath.Join(root, "events", "ping.go"), "package events\n\nfunc Ping() {}\n")
	writeFile(t, filepath.Join(root, "events", "chat", "send.go"),
		"package chat\n\nimport \"context\"\n\nfunc Send(ctx context.Context, room string, text string) error { return nil }\n")
	return root
}

func setup(t *testing.T, root string, opts Options) (*kit.Kit, *Module, *memorySink) {
	t.Helper()
	sink := &memorySink{}
	k := kit.New(kit.Options{Root: root, Sinks: []kit.Sink{sink}})
	opts.Debounce = 20 * time.Millisecond
	m, err := Setup(k, opts)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(m.Close)
	return k, m, sink
}

func TestSetupGeneratesAllTemplates(t *testing.T) {
	root := newProject(t)
	k, _, sink := setup(t, root, DefaultOptions())

	if err := k.Templates.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	entry := sink.get(kit.DefaultEntryFilename)
	for _, want := range []string{
		`TGN_SOCKETIO_EVENT_chat__send "example.com/app/events/chat"`,
		`TGN_SOCKETIO_EVENT_ping "example.com/app/events"`,
		`"chat/send": TGN_SOCKETIO_EVENT_chat__send.Send,`,
		"socketio.CreateSocketServer(server, TGN_SOCKETIO_EVENTS)",
	} {
		if !strings.Contains(entry, want) {
			t.Errorf("entry missing %q:\n%s", want, entry)
		}
	}

	types := sink.get(TypesTemplate)
	for _, want := range []string{
		"type BaseServerEvents = {};",
		`  ["chat/send"]: (room: string, text: string) => void;`,
		`  ["ping"]: () => void;`,
	} {
		if !strings.Contains(types, want) {
			t.Errorf("types missing %q:\n%s", want, types)
		}
	}
	if strings.Contains(types, "[name: string]") {
		t.Error("strict types should not contain the catch-all")
	}

	if !strings.Contains(sink.get(ClientTemplate), "${location.host}/socket.io/") {
		t.Errorf("client plugin does not target the default path")
	}
}

func TestSetupNonStrictWithTypesFile(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "events", "$types.ts"), "export type ServerEvents = {};\n")

	opts := DefaultOptions()
	opts.StrictEvents = events.Bool(false)
	k, m, _ := setup(t, root, opts)

	out, err := k.Templates.Contents(context.Background(), TypesTemplate)
	if err != nil {
		t.Fatal(err)
	}
	wantImport := `from "` + filepath.Join(m.EventsDir(), "$types") + `";`
	if !strings.Contains(out, wantImport) {
		t.Errorf("types missing %q:\n%s", wantImport, out)
	}
	if !strings.Contains(out, "[name: string]: (...args: any[]) => void;") {
		t.Errorf("non-strict types missing the catch-all:\n%s", out)
	}

	evs, err := m.Events(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range evs.Names() {
		if strings.Contains(name, "$types") {
			t.Errorf("types file discovered as event %q", name)
		}
	}
}

func TestSetupZeroOptionsIsStrict(t *testing.T) {
	root := newProject(t)
	k, _, _ := setup(t, root, Options{})

	out, err := k.Templates.Contents(context.Background(), TypesTemplate)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "[name: string]") {
		t.Errorf("zero Options should generate strict types:\n%s", out)
	}
	if !strings.Contains(out, `["chat/send"]: (room: string, text: string) => void;`) {
		t.Errorf("types missing chat/send:\n%s", out)
	}
}

func TestSetupRejectsDuplicates(t *testing.T) {
	root := newProject(t)
	k, m, sink := setup(t, root, DefaultOptions())

	m.Discovery.Hooks.Hook(func(ctx context.Context, evs *events.Descriptors) error {
		*evs = append(*evs, events.Descriptor{
			From: filepath.Join(root, "plugins", "ping.go"),
			Name: "ping",
		})
		return nil
	})

	err := k.Templates.Update(context.Background())
	if !errors.Is(err, socketerrors.New("E210")) {
		t.Fatalf("Update() error = %v, want E210", err)
	}
	if sink.get(kit.DefaultEntryFilename) != "" {
		t.Error("entry written despite duplicate events")
	}
}

func TestOnWatch(t *testing.T) {
	root := newProject(t)
	k, m, sink := setup(t, root, DefaultOptions())
	if err := k.Templates.Update(context.Background()); err != nil {
		t.Fatal(err)
	}
	initial := sink.count()

	eventsDir := m.EventsDir()
	tests := []struct {
		kind string
		path string
		want bool
	}{
		{kit.WatchChange, filepath.Join(eventsDir, "ping.go"), false},
		{kit.WatchAdd, filepath.Join(root, "main.go"), false},
		{kit.WatchAdd, filepath.Join(root, "events-old", "x.go"), false},
		{kit.WatchRemove, filepath.Join(eventsDir, "gone.go"), true},
		{kit.WatchAdd, filepath.Join("events", "chat", "join.go"), true},
	}
	for _, tt := range tests {
		if got := m.OnWatch(tt.kind, tt.path); got != tt.want {
			t.Errorf("OnWatch(%s, %s) = %v, want %v", tt.kind, tt.path, got, tt.want)
		}
	}

	// A new handler arrives; the debounced regeneration picks it up.
	writeFile(t, filepath.Join(eventsDir, "chat", "join.go"), "package chat\n\nfunc Join(room string) {}\n")
	k.Notify(context.Background(), kit.WatchAdd, filepath.Join(eventsDir, "chat", "join.go"))

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(sink.get(TypesTemplate), `["chat/join"]`) {
		if time.Now().After(deadline) {
			t.Fatalf("types not regenerated:\n%s", sink.get(TypesTemplate))
		}
		time.Sleep(10 * time.Millisecond)
	}
	if sink.count() <= initial {
		t.Error("expected regenerated files to be written")
	}
}

func TestFlushRegeneratesNow(t *testing.T) {
	root := newProject(t)
	k, m, sink := setup(t, root, DefaultOptions())
	if err := k.Templates.Update(context.Background()); err != nil {
		t.Fatal(err)
	}

	os.Remove(filepath.Join(root, "events", "ping.go"))
	m.OnWatch(kit.WatchRemove, filepath.Join(root, "events", "ping.go"))
	m.Flush()

	if strings.Contains(sink.get(TypesTemplate), `["ping"]`) {
		t.Errorf("ping still present after Flush:\n%s", sink.get(TypesTemplate))
	}
}

func TestSetupWithoutGoMod(t *testing.T) {
	k := kit.New(kit.Options{Root: t.TempDir()})
	_, err := Setup(k, DefaultOptions())
	if !errors.Is(err, socketerrors.New("E141")) {
		t.Fatalf("Setup() error = %v, want E141", err)
	}
}
