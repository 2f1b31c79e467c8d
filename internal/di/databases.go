// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/config"
	"github.com/aristath/stockdash/internal/database"
)

// InitializeDatabases opens the client data cache and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// client_data - Yahoo response cache (in memory unless CACHE_DB_PATH points at a file)
	clientDataDB, err := database.New(database.Config{
		Path:    cfg.CacheDBPath,
		Profile: database.ProfileCache, // Maximum speed for cache data
		Name:    "client_data",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client_data database: %w", err)
	}
	container.ClientDataDB = clientDataDB

	if err := clientDataDB.Migrate(); err != nil {
		clientDataDB.Close()
		return nil, fmt.Errorf("failed to apply schema to %s: %w", clientDataDB.Name(), err)
	}

	log.Info().Str("path", cfg.CacheDBPath).Msg("Client data database initialized")

	return container, nil
}
