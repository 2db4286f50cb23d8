package codegen

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/vango-dev/socketio/pkg/events"
)

// catchAllSignature types events whose handler signature is unknown, and the
// index signature added when strict typing is off.
const catchAllSignature = "(...args: any[]) => void"

// ServerEvent is a server→client event declared in the generated types.
type ServerEvent struct {
	Name      string
	Signature string
}

// DefaultServerEvents is the built-in baseline of server→client events.
var DefaultServerEvents = []ServerEvent{
	{Name: "test", Signature: "(value: number) => void"},
}

// TypesOptions configures GenerateTypes.
type TypesOptions struct {
	// Strict omits the catch-all index signature from Events.
	Strict bool

	// TypesFile is the absolute path of the hand-written declaration file.
	// When it exists, its ServerEvents type is merged into the generated one.
	TypesFile string

	// ServerEvents overrides DefaultServerEvents when non-nil.
	ServerEvents []ServerEvent

	// Logger receives warnings about handlers whose signature cannot be read.
	Logger *slog.Logger
}

// GenerateTypes renders the TypeScript event map declarations.
func GenerateTypes(ctx context.Context, evs events.Descriptors, opts TypesOptions) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "codegen")
	}

	var imports []string
	exists := false
	if opts.TypesFile != "" {
		var err error
		exists, err = FileExists(ctx, opts.TypesFile)
		if err != nil {
			return "", err
		}
	}
	if exists {
		imports = append(imports, `import type { ServerEvents as BaseServerEvents } from "`+trimTS(opts.TypesFile)+`";`)
	} else {
		imports = append(imports, "type BaseServerEvents = {};")
	}

	lines := make([]string, 0, len(evs)+1)
	for _, ev := range evs {
		sig, err := Signature(ev.From, ev.ExportName())
		if err != nil {
			logger.Warn("handler signature unavailable", "event", ev.EffectiveName(), "error", err)
		}
		lines = append(lines, `  ["`+ev.EffectiveName()+`"]: `+sig.TS()+";")
	}
	if !opts.Strict {
		lines = append(lines, "  [name: string]: "+catchAllSignature+";")
	}

	serverEvents := opts.ServerEvents
	if serverEvents == nil {
		serverEvents = DefaultServerEvents
	}
	serverLines := make([]string, 0, len(serverEvents))
	for _, se := range serverEvents {
		serverLines = append(serverLines, "  "+se.Name+": "+se.Signature+";")
	}

	out := make([]string, 0, len(imports)+len(lines)+len(serverLines)+5)
	out = append(out, imports...)
	out = append(out, "export type Events = {")
	out = append(out, lines...)
	out = append(out, "}", "", "export type ServerEvents = BaseServerEvents & {")
	out = append(out, serverLines...)
	out = append(out, "}")

	return strings.Join(out, "\n") + "\n", nil
}

// FileExists reports whether path exists. The stat runs off the caller's
// goroutine so a slow file system never blocks past ctx.
func FileExists(ctx context.Context, path string) (bool, error) {
	result := make(chan bool, 1)
	go func() {
		_, err := os.Stat(path)
		result <- err == nil
	}()

	select {
	case ok := <-result:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func trimTS(path string) string {
	return strings.TrimSuffix(path, ".ts")
}
