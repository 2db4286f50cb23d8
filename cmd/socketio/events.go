package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/socketio/pkg/codegen"
)

func eventsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List discovered socket events",
		Long: `List every event handler found in the events directory, in the order the
generators see them, with its Go function and client signature.

Examples:
  socketio events
  socketio events --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runEvents(ctx, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print descriptors as JSON")

	return cmd
}

func runEvents(ctx context.Context, asJSON bool) error {
	p, err := loadPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	evs, err := p.module.Events(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(evs)
	}

	if len(evs) == 0 {
		warn("No events in %s", p.module.EventsDir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tHANDLER\tSIGNATURE")
	for _, ev := range evs {
		rel, err := filepath.Rel(p.cfg.Dir(), ev.From)
		if err != nil {
			rel = ev.From
		}
		sig, err := codegen.Signature(ev.From, ev.ExportName())
		if err != nil {
			warn("%s: %v", ev.EffectiveName(), err)
		}
		fmt.Fprintf(w, "%s\t%s.%s\t%s\n", ev.EffectiveName(), filepath.ToSlash(rel), ev.ExportName(), sig.TS())
	}
	return w.Flush()
}
