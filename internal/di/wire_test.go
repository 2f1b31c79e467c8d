package di

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockdash/internal/config"
	"github.com/aristath/stockdash/internal/domain"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:            8001,
		LogLevel:        "info",
		Provider:        config.ProviderHTTP,
		ProviderTimeout: 5 * time.Second,
		DefaultSymbol:   "AAPL",
		DefaultPeriod:   domain.DefaultPeriod,
		CacheDBPath:     filepath.Join(t.TempDir(), "client_data.db"),
		CacheTTL:        time.Minute,
		SessionTTL:      time.Hour,
		Export:          &config.ExportConfig{},
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	container, jobs, err := Wire(context.Background(), cfg, log)
	require.NoError(t, err)
	require.NotNil(t, container)
	require.NotNil(t, jobs)
	t.Cleanup(func() { container.Close() })

	// Verify container is fully populated
	assert.NotNil(t, container.ClientDataDB)
	assert.NotNil(t, container.ClientDataRepo)
	assert.NotNil(t, container.Provider)
	assert.NotNil(t, container.DashboardService)
	assert.NotNil(t, container.SessionStore)

	// Archiving is off without a bucket
	assert.Nil(t, container.ObjectStore)
	assert.Nil(t, container.Archiver)
	assert.Nil(t, jobs.ArchiveRotation)

	assert.Equal(t, []string{"client_data_cleanup", "session_sweep"}, container.Scheduler.Jobs())

	counts, err := container.ClientDataRepo.Count()
	require.NoError(t, err)
	assert.Len(t, counts, 2)
}

func TestWire_NativeProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Provider = config.ProviderNative
	cfg.CacheTTL = 0

	container, _, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.NotNil(t, container.Provider)
}

func TestWire_WithArchive(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export = &config.ExportConfig{
		Bucket:          "exports",
		Endpoint:        "http://127.0.0.1:9000",
		Region:          "auto",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Retention:       24 * time.Hour,
	}

	container, jobs, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.NotNil(t, container.Archiver)
	require.NotNil(t, jobs.ArchiveRotation)
	assert.Equal(t, "export_archive_rotation", jobs.ArchiveRotation.Name())
	assert.Contains(t, container.Scheduler.Jobs(), "export_archive_rotation")
}
