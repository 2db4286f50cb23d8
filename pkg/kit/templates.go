package kit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/socketio/internal/errors"
)

// Template is a generated file.
type Template struct {
	// Filename is the output path relative to the sink root, using '/'.
	Filename string

	// Write controls whether the contents are handed to the sinks.
	// Templates without Write are only available through Contents.
	Write bool

	// GetContents produces the file contents.
	GetContents func(ctx context.Context) (string, error)
}

// Templates is a registry of generated files.
type Templates struct {
	mu        sync.Mutex
	templates []Template
	sinks     []Sink
	written   map[string]string
	logger    *slog.Logger

	// updateMu serializes Update so overlapping regenerations never interleave writes.
	updateMu sync.Mutex
}

// NewTemplates creates a registry writing to sinks.
func NewTemplates(sinks ...Sink) *Templates {
	return &Templates{
		sinks:   sinks,
		written: make(map[string]string),
		logger:  slog.Default().With("component", "templates"),
	}
}

// SetLogger replaces the registry logger.
func (t *Templates) SetLogger(logger *slog.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger
}

// AddSink adds an output sink.
func (t *Templates) AddSink(s Sink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sinks = append(t.sinks, s)
}

// Add registers a template. A template with the same filename replaces the
// earlier one.
func (t *Templates) Add(tmpl Template) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, existing := range t.templates {
		if existing.Filename == tmpl.Filename {
			t.templates[i] = tmpl
			return
		}
	}
	t.templates = append(t.templates, tmpl)
}

// Filenames returns the registered file names in registration order.
func (t *Templates) Filenames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, len(t.templates))
	for i, tmpl := range t.templates {
		names[i] = tmpl.Filename
	}
	return names
}

// Contents renders a single template.
func (t *Templates) Contents(ctx context.Context, filename string) (string, error) {
	t.mu.Lock()
	var found *Template
	for i := range t.templates {
		if t.templates[i].Filename == filename {
			tmpl := t.templates[i]
			found = &tmpl
			break
		}
	}
	t.mu.Unlock()

	if found == nil {
		return "", errors.New("E214").WithDetail("no template named " + filename)
	}
	return render(ctx, *found)
}

// Update regenerates every template and writes the changed ones.
func (t *Templates) Update(ctx context.Context) error {
	t.updateMu.Lock()
	defer t.updateMu.Unlock()

	t.mu.Lock()
	templates := append([]Template(nil), t.templates...)
	sinks := append([]Sink(nil), t.sinks...)
	logger := t.logger
	t.mu.Unlock()

	for _, tmpl := range templates {
		contents, err := render(ctx, tmpl)
		if err != nil {
			return err
		}
		if !tmpl.Write {
			continue
		}

		t.mu.Lock()
		prev, seen := t.written[tmpl.Filename]
		t.mu.Unlock()
		if seen && prev == contents {
			continue
		}

		for _, sink := range sinks {
			if err := sink.WriteFile(ctx, tmpl.Filename, []byte(contents)); err != nil {
				return errors.New("E215").
					WithDetail(tmpl.Filename + ": " + err.Error()).
					Wrap(err)
			}
		}

		t.mu.Lock()
		t.written[tmpl.Filename] = contents
		t.mu.Unlock()

		logger.Debug("template written", "file", tmpl.Filename, "bytes", len(contents))
	}

	return nil
}

func render(ctx context.Context, tmpl Template) (string, error) {
	if tmpl.GetContents == nil {
		return "", nil
	}
	contents, err := tmpl.GetContents(ctx)
	if err != nil {
		if _, ok := err.(*errors.Error); ok {
			return "", err
		}
		return "", errors.New("E214").
			WithDetail(tmpl.Filename + ": " + err.Error()).
			Wrap(err)
	}
	return contents, nil
}
