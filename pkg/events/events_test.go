package events

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	socketerrors "github.com/vango-dev/socketio/internal/errors"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("package x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanFindsHandlerFiles(t *testing.T) {
	root := t.TempDir()
	eventsDir := filepath.Join(root, "events")
	writeFiles(t, eventsDir,
		"zeta.go",
		"chat/send.go",
		"chat/send_test.go",
		"a.go",
		"a/b.go",
		"$types.ts",
		"notes.md",
		"_private/hidden.go",
		".cache/x.go",
		"testdata/fixture.go",
	)

	s := NewScanner(eventsDir, filepath.Join(eventsDir, "$types.ts"))
	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{"a", "a/b", "chat/send", "zeta"}
	if !reflect.DeepEqual(got.Names(), want) {
		t.Fatalf("names = %v, want %v", got.Names(), want)
	}

	for _, d := range got {
		if !filepath.IsAbs(d.From) {
			t.Errorf("%s: From %q is not absolute", d.Name, d.From)
		}
		if filepath.Join(eventsDir, filepath.FromSlash(d.Name)+".go") != d.From {
			t.Errorf("%s: From = %q", d.Name, d.From)
		}
		if !d.IsDefaultExport() || d.DefaultExport == nil {
			t.Errorf("%s: DefaultExport should be set to true", d.Name)
		}
	}
}

func TestScanExcludesReservedTypesFile(t *testing.T) {
	eventsDir := t.TempDir()
	writeFiles(t, eventsDir, "types.go", "ping.go")

	s := NewScanner(eventsDir, filepath.Join(eventsDir, "types.go"))
	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Names(), []string{"ping"}) {
		t.Errorf("names = %v, want [ping]", got.Names())
	}
}

func TestScanMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	s := NewScanner(missing, filepath.Join(missing, "$types.ts"))

	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("Scan() = %v, want empty", got)
	}
}

func TestScanFollowsSymlinkedRoot(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "shared-events")
	writeFiles(t, target, "ping.go", "chat/send.go", "$types.ts")

	eventsDir := filepath.Join(root, "events")
	if err := os.Symlink(target, eventsDir); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := NewScanner(eventsDir, filepath.Join(eventsDir, "$types.ts"))
	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{"chat/send", "ping"}
	if !reflect.DeepEqual(got.Names(), want) {
		t.Fatalf("names = %v, want %v", got.Names(), want)
	}
	for _, d := range got {
		if filepath.Join(eventsDir, filepath.FromSlash(d.Name)+".go") != d.From {
			t.Errorf("%s: From = %q, want it under %s", d.Name, d.From, eventsDir)
		}
	}
}

func TestScanIsStable(t *testing.T) {
	eventsDir := t.TempDir()
	writeFiles(t, eventsDir, "b.go", "a/z.go", "a.go", "a-b.go", "c/d/e.go")
	s := NewScanner(eventsDir, filepath.Join(eventsDir, "$types.ts"))

	first, err := s.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Scan(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("scan %d differs: %v vs %v", i, first.Names(), again.Names())
		}
	}

	want := []string{"a", "a-b", "a/z", "b", "c/d/e"}
	if !reflect.DeepEqual(first.Names(), want) {
		t.Errorf("names = %v, want lexicographic %v", first.Names(), want)
	}
}

func TestScanCanceled(t *testing.T) {
	eventsDir := t.TempDir()
	writeFiles(t, eventsDir, "a.go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(eventsDir, "").Scan(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() error = %v, want context.Canceled", err)
	}
}

func TestDiscoveryHooksAppend(t *testing.T) {
	eventsDir := t.TempDir()
	writeFiles(t, eventsDir, "ping.go")

	d := NewDiscovery(NewScanner(eventsDir, filepath.Join(eventsDir, "$types.ts")))
	d.Hooks.Hook(func(ctx context.Context, acc *Descriptors) error {
		*acc = append(*acc, Descriptor{
			From:          "/vendor/auth/events.go",
			Name:          "Login",
			As:            "auth/login",
			DefaultExport: Bool(false),
		})
		return nil
	})

	got, err := d.Events(context.Background())
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if !reflect.DeepEqual(got.Names(), []string{"ping", "auth/login"}) {
		t.Errorf("names = %v, want scan results before hook results", got.Names())
	}

	// Each call starts from a fresh accumulator.
	writeFiles(t, eventsDir, "pong.go")
	again, err := d.Events(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 3 {
		t.Errorf("second Events() = %v, want 3 descriptors", again.Names())
	}
}

func TestDiscoveryHookError(t *testing.T) {
	d := NewDiscovery(nil)
	d.Hooks.Hook(func(ctx context.Context, acc *Descriptors) error {
		return errors.New("registry offline")
	})

	_, err := d.Events(context.Background())
	if !errors.Is(err, socketerrors.New("E201")) {
		t.Errorf("Events() error = %v, want E201", err)
	}
}

func TestDescriptorNames(t *testing.T) {
	tests := []struct {
		d          Descriptor
		effective  string
		exportName string
	}{
		{Descriptor{From: "/e/chat/send.go", Name: "chat/send"}, "chat/send", "Send"},
		{Descriptor{From: "/e/user_join.go", Name: "user_join", DefaultExport: Bool(true)}, "user_join", "UserJoin"},
		{Descriptor{From: "/e/a.go", Name: "Login", As: "auth/login", DefaultExport: Bool(false)}, "auth/login", "Login"},
	}

	for _, tt := range tests {
		if got := tt.d.EffectiveName(); got != tt.effective {
			t.Errorf("EffectiveName() = %q, want %q", got, tt.effective)
		}
		if got := tt.d.ExportName(); got != tt.exportName {
			t.Errorf("ExportName() = %q, want %q", got, tt.exportName)
		}
	}
}

func TestDefaultExportName(t *testing.T) {
	tests := map[string]string{
		"send.go":               "Send",
		"/abs/user_join.go":     "UserJoin",
		"user-left.go":          "UserLeft",
		"ping":                  "Ping",
		"chat/message.reply.go": "MessageReply",
	}
	for in, want := range tests {
		if got := DefaultExportName(in); got != want {
			t.Errorf("DefaultExportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	ok := Descriptors{{Name: "a", From: "/a.go"}, {Name: "b/c", From: "/b/c.go"}}
	if err := Validate(ok); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	dup := Descriptors{
		{Name: "chat/send", From: "/events/chat/send.go"},
		{Name: "Send", As: "chat/send", From: "/plugin/send.go"},
	}
	err := Validate(dup)
	if !errors.Is(err, socketerrors.New("E210")) {
		t.Fatalf("Validate() error = %v, want E210", err)
	}
}
