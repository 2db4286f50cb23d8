// Package dev provides the file watching used by the dev command.
//
// A Watcher polls the configured paths and reports added, removed and
// modified files. A Debouncer coalesces bursts of changes so that a flurry
// of saves regenerates the output once:
//
//	d := dev.NewDebouncer(500*time.Millisecond, func() {
//	    if err := k.Templates.Update(ctx); err != nil {
//	        slog.Error("regenerate failed", "error", err)
//	    }
//	})
//	defer d.Stop()
//
//	w := dev.NewWatcher(dev.WatcherConfig{Paths: dev.CollectWatchPaths(cfg)})
//	w.OnChange(func(c dev.Change) { d.Trigger() })
//	go w.Start(ctx)
//
// Polling keeps the watcher portable and free of per-platform notification
// limits; the interval defaults to 100ms.
package dev
