package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabzoom/zoomd/internal/app/messaging"
	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/logging"
)

var modeCmd = &cobra.Command{
	Use:   "mode <popup|toggle>",
	Short: "Select popup mode or 1-click toggle mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithContext(cmd.Context(), app.Logger)

		var enabled bool
		switch args[0] {
		case "popup":
			enabled = false
		case "toggle":
			enabled = true
		default:
			return fmt.Errorf("mode must be popup or toggle, got %q", args[0])
		}

		if _, err := app.SettingsRepo.Update(ctx, func(s *entity.GlobalSettings) {
			s.ToggleModeEnabled = enabled
		}); err != nil {
			return err
		}

		// Tell a running daemon to reconfigure its action surface; absence
		// of one is fine, the change is already persisted.
		if err := postMessage(messaging.Message{Type: messaging.TypeSettingsChanged}); err != nil {
			app.Logger.Debug().Err(err).Msg("no running daemon notified of mode change")
		}
		fmt.Printf("mode set to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}
