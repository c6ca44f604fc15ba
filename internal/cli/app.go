// Package cli holds the shared application context for the cobra commands.
package cli

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/db"
	"github.com/tabzoom/zoomd/internal/domain/repository"
	"github.com/tabzoom/zoomd/internal/infrastructure/config"
	"github.com/tabzoom/zoomd/internal/infrastructure/persistence/sqlite"
	"github.com/tabzoom/zoomd/internal/logging"
)

// App bundles the configuration, storage, and use cases shared by the CLI
// commands. Commands that only manipulate stored state use it without a
// browser connection.
type App struct {
	Config  *config.Config
	Manager *config.Manager
	Logger  zerolog.Logger
	DB      *sql.DB

	SettingsRepo repository.SettingsRepository
	SiteRepo     repository.SiteRepository
	ExclRepo     repository.ExclusionRepository

	Resolver   *usecase.ResolveZoomUseCase
	Sites      *usecase.ManageSitesUseCase
	Exclusions *usecase.ManageExclusionsUseCase
	Transfer   *usecase.TransferSettingsUseCase
}

// NewApp loads configuration, opens the database, and wires the use cases.
func NewApp() (*App, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewFromEnv()

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	settingsRepo := sqlite.NewSettingsRepository(database)
	siteRepo := sqlite.NewSiteRepository(database)
	exclRepo := sqlite.NewExclusionRepository(database)
	resolver := usecase.NewResolveZoomUseCase(cfg.Zoom.Fallback())

	return &App{
		Config:       cfg,
		Manager:      manager,
		Logger:       logger,
		DB:           database,
		SettingsRepo: settingsRepo,
		SiteRepo:     siteRepo,
		ExclRepo:     exclRepo,
		Resolver:     resolver,
		Sites:        usecase.NewManageSitesUseCase(settingsRepo, siteRepo, resolver),
		Exclusions:   usecase.NewManageExclusionsUseCase(exclRepo),
		Transfer:     usecase.NewTransferSettingsUseCase(settingsRepo, siteRepo, exclRepo),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
