package events

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
)

// HandlerExt is the extension of handler source files.
const HandlerExt = ".go"

// Scanner scans a directory for event handler files.
type Scanner struct {
	eventsDir string
	typesFile string
	logger    *slog.Logger
}

// NewScanner creates a scanner for eventsDir. typesFile is the absolute path
// of the reserved type declaration file, which is never an event.
func NewScanner(eventsDir, typesFile string) *Scanner {
	return &Scanner{
		eventsDir: filepath.Clean(eventsDir),
		typesFile: filepath.Clean(typesFile),
		logger:    slog.Default().With("component", "events"),
	}
}

// WithLogger sets the scanner logger.
func (s *Scanner) WithLogger(logger *slog.Logger) *Scanner {
	s.logger = logger
	return s
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.eventsDir
}

// Scan returns one descriptor per handler file, ordered by name.
// A missing or unreadable events directory is not an error: it yields an
// empty sequence. Only context cancellation is reported.
// A symlinked events directory is followed; From stays under Dir.
func (s *Scanner) Scan(ctx context.Context) (Descriptors, error) {
	var events Descriptors

	root := s.eventsDir
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return fs.SkipAll
			}
			s.logger.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if path == root || !isHandlerFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		path = filepath.Join(s.eventsDir, rel)
		if path == s.typesFile {
			return nil
		}

		name, ok := s.eventName(path)
		if !ok {
			return nil
		}

		from, err := filepath.Abs(path)
		if err != nil {
			from = path
		}

		events = append(events, Descriptor{
			From:          from,
			Name:          name,
			DefaultExport: Bool(true),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(events, func(a, b Descriptor) int {
		return strings.Compare(a.Name, b.Name)
	})

	return events, nil
}

// Hook returns the scanner as a discovery hook.
func (s *Scanner) Hook() func(ctx context.Context, acc *Descriptors) error {
	return func(ctx context.Context, acc *Descriptors) error {
		found, err := s.Scan(ctx)
		if err != nil {
			return err
		}
		*acc = append(*acc, found...)
		return nil
	}
}

// eventName converts a file path to an event name.
func (s *Scanner) eventName(path string) (string, bool) {
	rel, err := filepath.Rel(s.eventsDir, path)
	if err != nil {
		return "", false
	}
	name := strings.TrimSuffix(rel, HandlerExt)
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.ToSlash(name)
	return name, name != ""
}

func isHandlerFile(name string) bool {
	return strings.HasSuffix(name, HandlerExt) && !strings.HasSuffix(name, "_test.go")
}

// skipDir reports whether a directory is invisible to the Go tool.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata"
}
