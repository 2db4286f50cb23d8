package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/socketio/pkg/integration"
	"github.com/vango-dev/socketio/pkg/kit"
)

func genCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the socket server wiring and client types",
		Long: `Scan the events directory and generate:

  socketio_gen.go             Mount(chi.Router) wiring every handler
  socketio/types.ts           Events and ServerEvents TypeScript maps
  socketio/plugin.client.ts   Typed browser bootstrap

Files are written to output.dir from socketio.json (default socketgen/) and,
when output.s3.bucket is set, uploaded to S3 as well. The output is
deterministic: unchanged inputs produce identical files.

Examples:
  socketio gen
  socketio gen --output internal/socketgen`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd.Context(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from socketio.json)")

	return cmd
}

func runGen(ctx context.Context, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := loadPipelineWithOutput(output)
	if err != nil {
		return err
	}
	defer p.close()

	evs, err := p.module.Events(ctx)
	if err != nil {
		return err
	}
	info("Found %d events in %s", len(evs), p.module.EventsDir())

	if err := p.generate(ctx); err != nil {
		return err
	}

	out := p.cfg.OutputPath()
	for _, name := range []string{kit.DefaultEntryFilename, integration.TypesTemplate, integration.ClientTemplate} {
		success("Generated %s", filepath.Join(out, name))
	}
	return nil
}

func loadPipelineWithOutput(output string) (*pipeline, error) {
	if output == "" {
		return loadPipeline()
	}
	p, err := loadPipeline()
	if err != nil {
		return nil, err
	}
	p.close()

	p.cfg.Output.Dir = output
	return newPipeline(p.cfg)
}
