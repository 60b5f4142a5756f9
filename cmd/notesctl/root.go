package main

import (
	"context"
	"encoding/json"
	"io"

	"contact-notes/internal/app"
	"contact-notes/internal/platform/config"
	"contact-notes/internal/platform/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "notesctl",
		Short:         "Administración del store de notas de contacto",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "archivo YAML de configuración (por defecto NOTES_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "logs de debug por stderr")

	rootCmd.AddCommand(migrateCmd(opts))
	rootCmd.AddCommand(importCmd(opts))
	rootCmd.AddCommand(historyCmd(opts))
	rootCmd.AddCommand(timelineCmd(opts))
	rootCmd.AddCommand(retryRetireCmd(opts))

	return rootCmd
}

// withApp arma la app desde la config y la cierra al terminar fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	lvl := logger.Warn
	if opts.verbose {
		lvl = logger.Debug
	}
	log := logger.New(logger.Options{Level: lvl, App: "notesctl", Output: cmd.ErrOrStderr()})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
