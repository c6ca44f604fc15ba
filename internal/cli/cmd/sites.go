package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/logging"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Inspect and edit per-site zoom overrides",
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored site overrides",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		overrides, err := app.Sites.List(ctx)
		if err != nil {
			return err
		}
		settings, _, err := app.SettingsRepo.Get(ctx)
		if err != nil {
			return err
		}

		if len(overrides) == 0 {
			fmt.Println("no site overrides stored")
			return nil
		}
		fmt.Printf("%-40s %10s %10s\n", "HOSTNAME", "BASE", "TOGGLE")
		for _, o := range overrides {
			fmt.Printf("%-40s %10s %10s\n", o.Hostname,
				formatPercent(o.BaseZoomPercent, settings.DefaultZoomPercent),
				formatPercent(o.ToggleZoomPercent, settings.ToggleZoomPercent))
		}
		return nil
	},
}

var (
	siteBasePercent   int
	siteTogglePercent int
)

var sitesSetCmd = &cobra.Command{
	Use:   "set <hostname>",
	Short: "Set override fields for a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)
		hostname := args[0]

		if !cmd.Flags().Changed("base") && !cmd.Flags().Changed("toggle") {
			return fmt.Errorf("nothing to set: pass --base and/or --toggle")
		}
		if cmd.Flags().Changed("base") {
			if err := app.Sites.SetSiteField(ctx, hostname, usecase.FieldBase, siteBasePercent); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("toggle") {
			if err := app.Sites.SetSiteField(ctx, hostname, usecase.FieldToggle, siteTogglePercent); err != nil {
				return err
			}
		}
		fmt.Printf("updated %s\n", hostname)
		return nil
	},
}

var sitesDeleteCmd = &cobra.Command{
	Use:   "delete <hostname>",
	Short: "Remove a site's overrides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)
		if err := app.Sites.DeleteSite(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var sitesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all site overrides",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)
		if err := app.Sites.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("all site overrides cleared")
		return nil
	},
}

func formatPercent(p *int, fallback int) string {
	if p == nil {
		return fmt.Sprintf("(%d)", fallback)
	}
	return fmt.Sprintf("%d%%", *p)
}

func init() {
	sitesSetCmd.Flags().IntVar(&siteBasePercent, "base", 0, "base zoom percent")
	sitesSetCmd.Flags().IntVar(&siteTogglePercent, "toggle", 0, "toggle zoom percent")

	sitesCmd.AddCommand(sitesListCmd, sitesSetCmd, sitesDeleteCmd, sitesClearCmd)
	rootCmd.AddCommand(sitesCmd)
}
