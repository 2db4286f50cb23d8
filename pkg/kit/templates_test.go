package kit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	socketerrors "github.com/vango-dev/socketio/internal/errors"
)

type memorySink struct {
	mu     sync.Mutex
	files  map[string]string
	writes int
	err    error
}

func newMemorySink() *memorySink {
	return &memorySink{files: make(map[string]string)}
}

func (m *memorySink) WriteFile(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.files[name] = string(data)
	m.writes++
	return nil
}

func TestTemplatesUpdateWritesChangedOnly(t *testing.T) {
	sink := newMemorySink()
	tmpls := NewTemplates(sink)

	content := "v1"
	tmpls.Add(Template{
		Filename: "socketio/types.ts",
		Write:    true,
		GetContents: func(ctx context.Context) (string, error) {
			return content, nil
		},
	})
	tmpls.Add(Template{
		Filename: "socketio/memory-only.ts",
		GetContents: func(ctx context.Context) (string, error) {
			return "not written", nil
		},
	})

	ctx := context.Background()
	if err := tmpls.Update(ctx); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := tmpls.Update(ctx); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if sink.writes != 1 {
		t.Errorf("writes = %d, want 1 (unchanged content is skipped)", sink.writes)
	}
	if _, ok := sink.files["socketio/memory-only.ts"]; ok {
		t.Error("template without Write should not reach the sink")
	}

	content = "v2"
	if err := tmpls.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if sink.files["socketio/types.ts"] != "v2" || sink.writes != 2 {
		t.Errorf("files = %v, writes = %d", sink.files, sink.writes)
	}
}

func TestTemplatesAddReplacesSameFilename(t *testing.T) {
	tmpls := NewTemplates()
	tmpls.Add(Template{Filename: "a.ts", GetContents: func(context.Context) (string, error) { return "old", nil }})
	tmpls.Add(Template{Filename: "a.ts", GetContents: func(context.Context) (string, error) { return "new", nil }})

	if names := tmpls.Filenames(); len(names) != 1 {
		t.Fatalf("Filenames() = %v, want one entry", names)
	}
	got, err := tmpls.Contents(context.Background(), "a.ts")
	if err != nil {
		t.Fatal(err)
	}
	if got != "new" {
		t.Errorf("Contents() = %q, want new", got)
	}
}

func TestTemplatesContentsUnknown(t *testing.T) {
	tmpls := NewTemplates()
	_, err := tmpls.Contents(context.Background(), "missing.ts")
	if !errors.Is(err, socketerrors.New("E214")) {
		t.Errorf("Contents() error = %v, want E214", err)
	}
}

func TestTemplatesUpdateErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("contents error", func(t *testing.T) {
		tmpls := NewTemplates(newMemorySink())
		tmpls.Add(Template{Filename: "x.ts", Write: true, GetContents: func(context.Context) (string, error) {
			return "", boom
		}})
		err := tmpls.Update(context.Background())
		if !errors.Is(err, boom) || !errors.Is(err, socketerrors.New("E214")) {
			t.Errorf("Update() error = %v", err)
		}
	})

	t.Run("sink error", func(t *testing.T) {
		sink := newMemorySink()
		sink.err = boom
		tmpls := NewTemplates(sink)
		tmpls.Add(Template{Filename: "x.ts", Write: true, GetContents: func(context.Context) (string, error) {
			return "x", nil
		}})
		err := tmpls.Update(context.Background())
		if !errors.Is(err, boom) || !strings.Contains(err.Error(), "x.ts") {
			t.Errorf("Update() error = %v", err)
		}
	})
}
