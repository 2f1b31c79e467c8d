package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/stockdash/internal/clientdata"
	"github.com/aristath/stockdash/internal/config"
	"github.com/aristath/stockdash/internal/database"
	"github.com/aristath/stockdash/internal/scheduler"
	"github.com/aristath/stockdash/internal/session"
)

// SystemHandlers contains HTTP handlers for system monitoring
type SystemHandlers struct {
	log       zerolog.Logger
	cfg       *config.Config
	cacheDB   *database.DB
	cacheRepo *clientdata.Repository
	sessions  *session.Store
	scheduler *scheduler.Scheduler
	startedAt time.Time
	now       func() time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	cfg *config.Config,
	cacheDB *database.DB,
	cacheRepo *clientdata.Repository,
	sessions *session.Store,
	sched *scheduler.Scheduler,
) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		cfg:       cfg,
		cacheDB:   cacheDB,
		cacheRepo: cacheRepo,
		sessions:  sessions,
		scheduler: sched,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// SystemStatusResponse represents the system status
type SystemStatusResponse struct {
	Status         string           `json:"status"`
	Provider       string           `json:"provider"`
	CPUPercent     float64          `json:"cpu_percent"`
	RAMPercent     float64          `json:"ram_percent"`
	Sessions       int              `json:"sessions"`
	CacheRows      map[string]int64 `json:"cache_rows"`
	CacheRowsTotal string           `json:"cache_rows_total"`
	ArchiveEnabled bool             `json:"archive_enabled"`
	StartedAt      string           `json:"started_at"`
	Uptime         string           `json:"uptime"`
}

// JobsStatusResponse lists the registered housekeeping jobs
type JobsStatusResponse struct {
	Jobs  []string `json:"jobs"`
	Count int      `json:"count"`
}

// GetSystemStatusSnapshot returns a snapshot of the current system status.
// A cache failure is reported in the status but does not fail the snapshot.
func (h *SystemHandlers) GetSystemStatusSnapshot() (SystemStatusResponse, error) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:         "healthy",
		Provider:       h.cfg.Provider,
		CPUPercent:     cpuPercent,
		RAMPercent:     ramPercent,
		Sessions:       h.sessions.Len(),
		ArchiveEnabled: h.cfg.Export.Enabled(),
		StartedAt:      h.startedAt.Format(time.RFC3339),
		Uptime:         strings.TrimSpace(humanize.RelTime(h.startedAt, h.now(), "", "")),
	}

	counts, err := h.cacheRepo.Count()
	response.CacheRows = counts
	var total int64
	for _, n := range counts {
		total += n
	}
	response.CacheRowsTotal = humanize.Comma(total)

	if err != nil {
		response.Status = "degraded"
	}
	return response, err
}

// HandleSystemStatus returns system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response, err := h.GetSystemStatusSnapshot()
	if err != nil {
		h.log.Warn().Err(err).Msg("System status collected with warnings")
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleJobsStatus returns the registered housekeeping jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := h.scheduler.Jobs()
	sort.Strings(jobs)

	h.writeJSON(w, http.StatusOK, JobsStatusResponse{Jobs: jobs, Count: len(jobs)})
}

// HandleDatabaseStats returns cache database statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	stats, err := h.cacheDB.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":        h.cacheDB.Name(),
		"profile":     h.cacheDB.Profile(),
		"stats":       stats,
		"size":        humanize.Bytes(uint64(stats.PageCount * stats.PageSize)),
		"lastChecked": h.now().Format(time.RFC3339),
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the call fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
