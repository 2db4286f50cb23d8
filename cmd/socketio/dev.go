package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/socketio/internal/config"
	"github.com/vango-dev/socketio/internal/dev"
)

func devCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Regenerate on handler changes",
		Long: `Generate once, then watch the events directory and regenerate whenever a
handler file is added or removed. Bursts of changes are debounced
(watch.debounce in socketio.json, default 500ms).

Editing a handler's body does not change discovery and does not trigger a
regeneration; the Go toolchain picks the change up on the next build.

Examples:
  socketio dev
  socketio dev -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev()
		},
	}

	return cmd
}

func runDev() error {
	p, err := loadPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.generate(ctx); err != nil {
		return err
	}
	success("Generated %s", p.cfg.OutputPath())

	paths := dev.CollectWatchPaths(p.cfg)
	ignore := append([]string(nil), dev.DefaultIgnore...)
	ignore = append(ignore, p.cfg.Watch.Ignore...)
	watcher := dev.NewWatcher(dev.WatcherConfig{
		Paths:    paths,
		Ignore:   ignore,
		Interval: p.cfg.PollInterval(),
	})

	configPath := filepath.Join(p.cfg.Dir(), config.ConfigFileName)
	watcher.OnChange(func(c dev.Change) {
		if c.Path == configPath {
			warn("%s changed; restart socketio dev to apply it", config.ConfigFileName)
			return
		}
		p.kit.Notify(ctx, string(c.Kind), c.Path)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
	}()

	info("Watching %s (debounce %s)", p.module.EventsDir(), p.cfg.Debounce())
	if err := watcher.Start(ctx); err != nil && err != context.Canceled {
		return err
	}
	p.module.Flush()
	return nil
}
