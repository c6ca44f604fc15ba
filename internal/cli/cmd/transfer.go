package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/logging"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all settings as a versioned JSON snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		envelope, err := app.Transfer.Export(ctx)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(args[0], append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Printf("exported to %s\n", args[0])
		return nil
	},
}

var importMerge bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a settings snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		var envelope usecase.ExportEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			return fmt.Errorf("parse snapshot: %w", err)
		}

		mode := usecase.MergeReplace
		if importMerge {
			mode = usecase.MergeOverlay
		}
		if err := app.Transfer.Import(ctx, &envelope.Settings, mode); err != nil {
			return err
		}
		fmt.Printf("imported (%s mode)\n", mode)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importMerge, "merge", false,
		"merge with existing state instead of replacing it")

	rootCmd.AddCommand(exportCmd, importCmd)
}
