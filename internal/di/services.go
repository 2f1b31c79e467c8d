package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/clientdata"
	"github.com/aristath/stockdash/internal/clients/objectstore"
	"github.com/aristath/stockdash/internal/clients/yahoo"
	"github.com/aristath/stockdash/internal/config"
	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/modules/acquisition"
	"github.com/aristath/stockdash/internal/modules/charts"
	"github.com/aristath/stockdash/internal/modules/dashboard"
	"github.com/aristath/stockdash/internal/modules/export"
	"github.com/aristath/stockdash/internal/scheduler"
	"github.com/aristath/stockdash/internal/session"
)

// InitializeServices creates clients, services and the session store
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.ClientDataRepo = clientdata.NewRepository(container.ClientDataDB.Conn())

	var raw domain.MarketDataProvider
	switch cfg.Provider {
	case config.ProviderNative:
		raw = yahoo.NewNativeClient(log)
	default:
		raw = yahoo.NewClient(yahoo.ClientConfig{Timeout: cfg.ProviderTimeout}, log)
	}
	container.Provider = yahoo.NewCachedProvider(raw, container.ClientDataRepo, cfg.CacheTTL, log)

	container.AcquisitionService = acquisition.NewService(container.Provider, log)
	container.ChartService = charts.NewService(log)
	container.DashboardService = dashboard.NewService(container.AcquisitionService, container.ChartService, log)
	container.SessionStore = session.NewStore(cfg.SessionTTL, log)

	if cfg.Export.Enabled() {
		store, err := objectstore.NewClient(ctx, cfg.Export.ToObjectStoreConfig(), log)
		if err != nil {
			return fmt.Errorf("failed to create object storage client: %w", err)
		}
		container.ObjectStore = store
		container.Archiver = export.NewArchiver(store, log)
	}

	container.Scheduler = scheduler.New(log)

	log.Info().
		Str("provider", cfg.Provider).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("archive", container.Archiver != nil).
		Msg("Services initialized")

	return nil
}
