package dev

import (
	"path/filepath"

	"github.com/vango-dev/socketio/internal/config"
)

// CollectWatchPaths returns the deduplicated paths the dev command watches:
// the events directory, the directory holding the types file, and the
// project's socketio.json.
func CollectWatchPaths(cfg *config.Config) []string {
	paths := []string{
		cfg.EventsPath(),
		filepath.Dir(cfg.TypesPath()),
		filepath.Join(cfg.Dir(), config.ConfigFileName),
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}
