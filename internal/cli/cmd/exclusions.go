package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabzoom/zoomd/internal/logging"
)

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Manage the site exclusion list",
}

var exclAsPattern bool

var exclusionsAddCmd = &cobra.Command{
	Use:   "add <hostname>",
	Short: "Exclude a hostname (or its whole domain with --pattern)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		set, err := app.Exclusions.Add(ctx, args[0], exclAsPattern)
		if err != nil {
			return err
		}
		fmt.Printf("excluded (%d exact, %d patterns)\n", len(set.Exact), len(set.Patterns))
		return nil
	},
}

var exclusionsRemoveCmd = &cobra.Command{
	Use:   "remove <value>",
	Short: "Remove an exclusion rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		set, err := app.Exclusions.Remove(ctx, args[0], exclAsPattern)
		if err != nil {
			return err
		}
		fmt.Printf("removed (%d exact, %d patterns remain)\n", len(set.Exact), len(set.Patterns))
		return nil
	},
}

var exclusionsCheckCmd = &cobra.Command{
	Use:   "check <hostname>",
	Short: "Show the exclusion state of a hostname",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		status, err := app.Exclusions.Check(ctx, args[0])
		if err != nil {
			return err
		}
		if !status.IsExcluded {
			fmt.Printf("%s is not excluded (root domain: %s)\n", status.Hostname, status.RootDomain)
			return nil
		}
		if status.IsExact {
			fmt.Printf("%s is excluded (exact match)\n", status.Hostname)
		} else {
			fmt.Printf("%s is excluded (pattern %s)\n", status.Hostname, status.MatchedPattern)
		}
		return nil
	},
}

var exclusionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all exclusion rules",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		set, err := app.Exclusions.Set(ctx)
		if err != nil {
			return err
		}
		for _, h := range set.Exact {
			fmt.Println(h)
		}
		for _, p := range set.Patterns {
			fmt.Println(p)
		}
		if len(set.Exact)+len(set.Patterns) == 0 {
			fmt.Println("no exclusions stored")
		}
		return nil
	},
}

func init() {
	exclusionsAddCmd.Flags().BoolVar(&exclAsPattern, "pattern", false,
		"exclude the root domain and all its subdomains")
	exclusionsRemoveCmd.Flags().BoolVar(&exclAsPattern, "pattern", false,
		"the value is a wildcard pattern")

	exclusionsCmd.AddCommand(exclusionsAddCmd, exclusionsRemoveCmd, exclusionsCheckCmd, exclusionsListCmd)
	rootCmd.AddCommand(exclusionsCmd)
}
