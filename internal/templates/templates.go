package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/socketio/internal/errors"
)

// RuntimeModule is the import path generated code and scaffolds depend on.
const RuntimeModule = "github.com/vango-dev/socketio"

// Config contains template configuration.
type Config struct {
	// ModulePath is the Go module path of the project.
	ModulePath string

	// EventsDir is the events directory relative to the project root.
	EventsDir string

	// TypesFile is the server events declaration file inside EventsDir.
	TypesFile string

	// OutputDir is the generated package directory.
	OutputDir string

	// OutputPackage is the generated package name.
	OutputPackage string

	// RuntimeModule overrides the runtime import path.
	RuntimeModule string

	// Force overwrites existing files.
	Force bool
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files maps relative path templates to content templates.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"chat":    chatTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E143").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: chat, minimal")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create renders the template into dir and returns the relative paths it
// wrote, in order. Existing files are skipped unless cfg.Force is set.
func (t *Template) Create(dir string, cfg Config) ([]string, error) {
	if cfg.RuntimeModule == "" {
		cfg.RuntimeModule = RuntimeModule
	}

	rendered := make(map[string]string, len(t.Files))
	paths := make([]string, 0, len(t.Files))
	for pathTmpl, content := range t.Files {
		relPath, err := execute("path "+pathTmpl, pathTmpl, cfg)
		if err != nil {
			return nil, err
		}
		rendered[relPath] = content
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	var written []string
	for _, relPath := range paths {
		content, err := execute(relPath, rendered[relPath], cfg)
		if err != nil {
			return written, err
		}

		fullPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if _, err := os.Stat(fullPath); err == nil && !cfg.Force {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return written, err
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			return written, err
		}
		written = append(written, relPath)
	}

	return written, nil
}

func execute(name, text string, cfg Config) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", errors.Newf(errors.CategoryCLI, "invalid template %s: %v", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return "", errors.Newf(errors.CategoryCLI, "template execute error %s: %v", name, err)
	}
	return buf.String(), nil
}

const typesDecl = `// Server-to-client events. Merged into the generated ServerEvents type.
export type ServerEvents = {
  pong: (n: number) => void;
};
`

const pingHandler = `package events

import (
	"context"
	"log/slog"

	"{{.RuntimeModule}}/pkg/socketio"
)

// Ping answers "ping" with "pong" on the same socket.
func Ping(ctx context.Context, n int) error {
	io := socketio.Use(ctx)
	slog.Info("ping", "socket", io.Socket.ID(), "n", n)
	return io.Socket.Emit("pong", n)
}
`

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A ping handler and the server events file",
		Files: map[string]string{
			"{{.EventsDir}}/ping.go":        pingHandler,
			"{{.EventsDir}}/{{.TypesFile}}": typesDecl,
		},
	}
}

// chatTemplate returns the chat room template.
func chatTemplate() *Template {
	return &Template{
		Name:        "chat",
		Description: "Chat room handlers and a runnable server",
		Files: map[string]string{
			"{{.EventsDir}}/ping.go": pingHandler,

			"{{.EventsDir}}/{{.TypesFile}}": `// Server-to-client events. Merged into the generated ServerEvents type.
export type ServerEvents = {
  pong: (n: number) => void;
  "chat/message": (from: string, text: string) => void;
  "chat/joined": (name: string) => void;
};
`,

			"{{.EventsDir}}/chat/join.go": `package chat

import (
	"context"

	"{{.RuntimeModule}}/pkg/socketio"
)

// Join announces name to every connected client.
func Join(ctx context.Context, name string) error {
	io := socketio.Use(ctx)
	return io.Server.Emit(ctx, "chat/joined", name)
}
`,

			"{{.EventsDir}}/chat/send.go": `package chat

import (
	"context"
	"errors"
	"strings"

	"{{.RuntimeModule}}/pkg/socketio"
)

// Send broadcasts a chat message.
func Send(ctx context.Context, from, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("empty message")
	}
	io := socketio.Use(ctx)
	return io.Server.Emit(ctx, "chat/message", from, text)
}
`,

			"cmd/server/main.go": `package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"{{.ModulePath}}/{{.OutputDir}}"
)

func main() {
	r := chi.NewRouter()
	{{.OutputPackage}}.Mount(r)

	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	slog.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
`,
		},
	}
}
