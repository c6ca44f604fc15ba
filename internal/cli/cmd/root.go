// Package cmd provides Cobra CLI commands for zoomd.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabzoom/zoomd/internal/cli"
)

var (
	app     *cli.App
	rootCmd = &cobra.Command{
		Use:   "zoomd",
		Short: "Per-tab page zoom manager for CDP-driven browsers",
		Long: `Zoomd keeps every browser tab at the zoom you want.

It maintains a global default zoom, an optional 1-click toggle zoom, per-site
overrides, and an exclusion list, and applies the right level automatically as
tabs load. Manual zoom changes are picked up and remembered per site.

Use 'zoomd serve' to run the daemon against a browser's DevTools endpoint, or
the subcommands to inspect and edit stored state directly.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}
			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
