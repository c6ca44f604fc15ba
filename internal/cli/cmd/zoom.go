package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tabzoom/zoomd/internal/app/messaging"
)

// zoom subcommands talk to a running daemon over its message endpoint,
// since applying zoom needs live browser tabs.

var zoomCmd = &cobra.Command{
	Use:   "zoom",
	Short: "Control zoom in the running daemon",
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle between default and toggle zoom on all tabs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := postMessage(messaging.Message{Type: messaging.TypeToggleZoom}); err != nil {
			return err
		}
		fmt.Println("toggled")
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <percent>",
	Short: "Apply a zoom percent to all zoomable tabs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid percent %q", args[0])
		}
		if err := postMessage(messaging.Message{
			Type:      messaging.TypeApplyZoomToAllTabs,
			ZoomLevel: percent,
		}); err != nil {
			return err
		}
		fmt.Printf("applied %d%% to all tabs\n", percent)
		return nil
	},
}

func postMessage(msg messaging.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://%s/message", app.Config.HTTP.ListenAddr)
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", app.Config.HTTP.ListenAddr, err)
	}
	defer resp.Body.Close()

	var reply messaging.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if !reply.Success {
		return fmt.Errorf("daemon error: %s", reply.Error)
	}
	return nil
}

func init() {
	zoomCmd.AddCommand(toggleCmd, applyCmd)
	rootCmd.AddCommand(zoomCmd)
}
