package codegen

import (
	"context"
	"fmt"
	"go/token"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/socketio/internal/errors"
	"github.com/vango-dev/socketio/pkg/events"
	"github.com/vango-dev/socketio/pkg/kit"
)

const (
	// IdentPrefix prefixes every generated handler identifier.
	IdentPrefix = "TGN_SOCKETIO_EVENT_"

	// MapIdent is the generated name→handler map variable.
	MapIdent = "TGN_SOCKETIO_EVENTS"

	// RuntimeImport is the import path of the socket runtime.
	RuntimeImport = "github.com/vango-dev/socketio/pkg/socketio"
)

// Ident returns the generated identifier for an effective event name.
func Ident(name string) string {
	return IdentPrefix + strings.ReplaceAll(name, "/", "__")
}

// ImportResolver maps handler files to Go import paths.
type ImportResolver struct {
	// ModulePath is the module declared in go.mod.
	ModulePath string

	// ModuleRoot is the absolute directory containing go.mod.
	ModuleRoot string
}

// ImportPath returns the import path of the package declaring from.
func (r ImportResolver) ImportPath(from string) (string, error) {
	rel, err := filepath.Rel(r.ModuleRoot, filepath.Dir(from))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("E213").
			WithLocation(from, 0, 0).
			WithDetail(from + " is outside " + r.ModuleRoot)
	}
	if rel == "." {
		return r.ModulePath, nil
	}
	return r.ModulePath + "/" + filepath.ToSlash(rel), nil
}

// Bootstrap contributes the socket server wiring to the generated entry.
type Bootstrap struct {
	Resolver ImportResolver

	// RuntimeImport overrides the socket runtime import path.
	RuntimeImport string
}

// Append adds one aliased import per descriptor plus the runtime imports to
// src.Headers, and the handler map, the server construction and one log
// statement to src.Body. Descriptor order is preserved.
func (b Bootstrap) Append(ctx context.Context, src *kit.Source, evs events.Descriptors) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runtime := b.RuntimeImport
	if runtime == "" {
		runtime = RuntimeImport
	}

	body := []string{MapIdent + " := map[string]any{"}
	for _, ev := range evs {
		name := ev.EffectiveName()
		ident := Ident(name)

		path, err := b.Resolver.ImportPath(ev.From)
		if err != nil {
			return err
		}

		src.Headers = append(src.Headers, ident+" "+strconv.Quote(path))
		body = append(body, "\t"+strconv.Quote(name)+": "+ident+"."+ev.ExportName()+",")
	}
	body = append(body, "}")

	src.Headers = append(src.Headers, strconv.Quote(runtime), strconv.Quote("log/slog"))
	src.Body = append(src.Body, body...)
	src.Body = append(src.Body,
		"socketio.CreateSocketServer(server, "+MapIdent+")",
		`slog.Info("socketio events registered", "count", len(`+MapIdent+`))`,
	)
	return nil
}

// Validate rejects descriptor sequences the generators would turn into
// invalid code: duplicate effective names, names that are not valid
// identifiers once prefixed or whose export is not an exported Go name,
// and distinct names sharing an identifier.
func Validate(evs events.Descriptors) error {
	if err := events.Validate(evs); err != nil {
		return err
	}

	byIdent := make(map[string][]string)
	var invalid []string
	for _, ev := range evs {
		name := ev.EffectiveName()
		ident := Ident(name)
		if !token.IsIdentifier(ident) {
			invalid = append(invalid, strconv.Quote(name))
			continue
		}
		if export := ev.ExportName(); !token.IsIdentifier(export) || !token.IsExported(export) {
			invalid = append(invalid, fmt.Sprintf("%q (export %q)", name, export))
			continue
		}
		byIdent[ident] = append(byIdent[ident], name)
	}

	var collisions []string
	for ident, names := range byIdent {
		if len(names) > 1 {
			collisions = append(collisions, fmt.Sprintf("%s (%s)", ident, strings.Join(names, ", ")))
		}
	}
	sort.Strings(collisions)

	switch {
	case len(invalid) > 0:
		return errors.New("E211").
			WithDetail("not a Go identifier: " + strings.Join(invalid, ", ")).
			WithSuggestion("Rename the handler file using letters, digits and underscores, or set As. Named exports must be exported Go functions")
	case len(collisions) > 0:
		return errors.New("E211").
			WithDetail("identifier collision: " + strings.Join(collisions, "; ")).
			WithSuggestion("Avoid names that differ only by '/' versus \"__\"")
	}
	return nil
}
