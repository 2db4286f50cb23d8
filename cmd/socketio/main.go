package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/socketio/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "socketio",
		Short: "File-based socket event handlers for Go web apps",
		Long: `socketio turns a directory of Go handler files into a socket server.

Every .go file under the events directory is one event, named after its
path: events/chat/send.go handles "chat/send" with func Send. The tool
generates the Go wiring that mounts the handlers on a chi router, plus
TypeScript declarations and a browser bootstrap typed with them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		initCmd(),
		genCmd(),
		devCmd(),
		eventsCmd(),
		emitCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if _, ok := err.(*errors.Error); ok {
			errors.PrintError(err)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
