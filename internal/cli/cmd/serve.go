package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tabzoom/zoomd/internal/api"
	"github.com/tabzoom/zoomd/internal/app/control"
	"github.com/tabzoom/zoomd/internal/app/messaging"
	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/infrastructure/browser/cdp"
	"github.com/tabzoom/zoomd/internal/infrastructure/config"
	"github.com/tabzoom/zoomd/internal/infrastructure/surface"
	"github.com/tabzoom/zoomd/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the zoom daemon against a browser's DevTools endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.WithContext(ctx, app.Logger)

		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	log := logging.FromContext(ctx)
	cfg := app.Config

	host, err := cdp.Connect(ctx, cfg.Browser.CDPURL)
	if err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	defer host.Close()

	tracker := control.NewSelfZoomTracker(cfg.Zoom.SuppressionWindow())
	apply := usecase.NewApplyZoomUseCase(
		app.SettingsRepo, app.SiteRepo, app.ExclRepo, app.Resolver, host, tracker)
	toggle := usecase.NewToggleZoomUseCase(app.SettingsRepo, apply)

	actionSurface := surface.New()
	pipeline := control.NewManualSavePipeline(ctx, app.Sites, actionSurface, cfg.Zoom.Debounce())

	baseURL := "http://" + cfg.HTTP.ListenAddr
	windows := cdp.NewWindowOpener(host, baseURL+"/config", baseURL+"/sites")

	orchestrator := control.NewOrchestrator(
		ctx, app.SettingsRepo, app.ExclRepo, apply, toggle,
		tracker, pipeline, actionSurface, windows, host)
	if err := orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("start orchestrator: %w", err)
	}
	defer orchestrator.Shutdown()

	app.Manager.OnChange(func(_ *config.Config) {
		log.Info().Msg("configuration reloaded")
		if err := orchestrator.SettingsChanged(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to refresh after config reload")
		}
	})
	app.Manager.Watch()

	handler := messaging.NewHandler(orchestrator, app.Exclusions, app.Transfer)
	server := api.NewServer(cfg.HTTP.ListenAddr, handler, app.SettingsRepo, app.Transfer, host)

	return server.ListenAndServe(ctx)
}
