package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/socketio/internal/config"
	"github.com/vango-dev/socketio/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create socketio.json and an events directory",
		Long: `Create socketio.json with default settings in the current Go module and
scaffold an events directory from a template.

Templates:
  minimal   A ping handler and the server events declaration file
  chat      Chat room handlers plus a runnable server in cmd/server

Existing files are left alone unless --force is given.

Examples:
  socketio init
  socketio init --template chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(template, force)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Scaffolding template ("+strings.Join(templates.List(), ", ")+")")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runInit(name string, force bool) error {
	tmpl, err := templates.Get(name)
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return err
	}
	modulePath, err := config.ModulePath(root)
	if err != nil {
		return err
	}

	cfg := config.New()
	configPath := filepath.Join(root, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		warn("%s exists, skipping", config.ConfigFileName)
		if existing, err := config.Load(root); err == nil {
			cfg = existing
		}
	} else {
		if err := cfg.SaveTo(configPath); err != nil {
			return err
		}
		success("Created %s", config.ConfigFileName)
	}

	written, err := tmpl.Create(root, templates.Config{
		ModulePath:    modulePath,
		EventsDir:     filepath.ToSlash(cfg.EventsDir),
		TypesFile:     cfg.TypesFile,
		OutputDir:     filepath.ToSlash(cfg.Output.Dir),
		OutputPackage: cfg.PackageName(),
		Force:         force,
	})
	if err != nil {
		return err
	}
	for _, path := range written {
		success("Created %s", path)
	}

	info("Run `socketio gen` to generate the server wiring")
	return nil
}
