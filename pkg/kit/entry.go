package kit

import (
	"context"
	"go/format"
	"strings"

	"github.com/vango-dev/socketio/internal/errors"
)

// DefaultEntryFilename is the file name of the rendered entry.
const DefaultEntryFilename = "socketio_gen.go"

// chiImport is always imported by the entry for the Mount signature.
const chiImport = `"github.com/go-chi/chi/v5"`

// Source accumulates the generated entry. Headers are import specs such as
// `alias "path"`; Body holds statements executed inside Mount, where the
// identifier server refers to the chi.Router being mounted on.
type Source struct {
	Headers []string
	Body    []string
}

// Entry is the generated Go file that wires contributed code into a router.
type Entry struct {
	// Package is the Go package name of the generated file.
	Package string

	// Filename is the output file name (default socketio_gen.go).
	Filename string

	// Source collects contributions for each render.
	Source Hooks[*Source]
}

// NewEntry creates an entry for package pkg.
func NewEntry(pkg string) *Entry {
	return &Entry{Package: pkg, Filename: DefaultEntryFilename}
}

// Collect runs the source hooks against a fresh accumulator.
func (e *Entry) Collect(ctx context.Context) (*Source, error) {
	src := &Source{}
	if err := e.Source.Call(ctx, src); err != nil {
		return nil, err
	}
	return src, nil
}

// Render produces the gofmt-ed entry file.
func (e *Entry) Render(ctx context.Context) ([]byte, error) {
	src, err := e.Collect(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("// Code generated by socketio. DO NOT EDIT.\n\n")
	b.WriteString("package " + e.Package + "\n\n")

	b.WriteString("import (\n")
	seen := map[string]bool{chiImport: true}
	b.WriteString("\t" + chiImport + "\n")
	for _, h := range src.Headers {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		b.WriteString("\t" + h + "\n")
	}
	b.WriteString(")\n\n")

	b.WriteString("// Mount attaches the generated socket event handlers to server.\n")
	b.WriteString("func Mount(server chi.Router) {\n")
	for _, line := range src.Body {
		b.WriteString("\t" + line + "\n")
	}
	b.WriteString("}\n")

	out, err := format.Source([]byte(b.String()))
	if err != nil {
		return []byte(b.String()), errors.New("E214").
			WithDetail(e.filename() + ": " + err.Error()).
			WithSuggestion("Check that every event name maps to a valid Go identifier").
			Wrap(err)
	}
	return out, nil
}

// Template returns the entry as a written template.
func (e *Entry) Template() Template {
	return Template{
		Filename: e.filename(),
		Write:    true,
		GetContents: func(ctx context.Context) (string, error) {
			out, err := e.Render(ctx)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
}

func (e *Entry) filename() string {
	if e.Filename == "" {
		return DefaultEntryFilename
	}
	return e.Filename
}
