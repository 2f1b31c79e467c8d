// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/stockdash/internal/clientdata"
	"github.com/aristath/stockdash/internal/clients/objectstore"
	"github.com/aristath/stockdash/internal/database"
	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/modules/acquisition"
	"github.com/aristath/stockdash/internal/modules/charts"
	"github.com/aristath/stockdash/internal/modules/dashboard"
	"github.com/aristath/stockdash/internal/modules/export"
	"github.com/aristath/stockdash/internal/scheduler"
	"github.com/aristath/stockdash/internal/session"
)

// Container holds all dependencies for the application.
//
// It is created by Wire() and handed to the server and the CLI. Optional
// components (ObjectStore, Archiver) are nil when not configured.
type Container struct {
	// Databases
	ClientDataDB *database.DB // Provider response cache

	// Repositories
	ClientDataRepo *clientdata.Repository

	// Clients
	Provider    domain.MarketDataProvider // Cache-wrapped Yahoo provider
	ObjectStore *objectstore.Client       // nil unless EXPORT_BUCKET is set

	// Services
	AcquisitionService *acquisition.Service
	ChartService       *charts.Service
	DashboardService   *dashboard.Service
	Archiver           *export.Archiver // nil unless EXPORT_BUCKET is set

	// Session state
	SessionStore *session.Store

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to all registered jobs
type JobInstances struct {
	ClientDataCleanup scheduler.Job
	SessionSweep      scheduler.Job
	ArchiveRotation   scheduler.Job // nil unless archiving and a retention are configured
}

// Close releases resources held by the container
func (c *Container) Close() error {
	if c.ClientDataDB != nil {
		return c.ClientDataDB.Close()
	}
	return nil
}
