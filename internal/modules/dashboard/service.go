// Package dashboard runs the per-action fetch, derive and render pass for one session.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/modules/acquisition"
	"github.com/aristath/stockdash/internal/modules/charts"
	"github.com/aristath/stockdash/internal/modules/export"
	"github.com/aristath/stockdash/internal/modules/historical"
	"github.com/aristath/stockdash/internal/modules/metrics"
	"github.com/aristath/stockdash/internal/session"
)

// ErrNothingToExport is returned when an export is requested for an empty session
var ErrNothingToExport = errors.New("no data to export")

// Fetcher obtains a snapshot for (symbol, period)
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, period domain.Period) (*domain.Snapshot, error)
}

// Service handles dashboard actions
type Service struct {
	fetcher Fetcher
	charts  *charts.Service
	log     zerolog.Logger
}

// NewService creates a new dashboard service
func NewService(fetcher Fetcher, chartService *charts.Service, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		charts:  chartService,
		log:     log.With().Str("service", "dashboard").Logger(),
	}
}

// Handle runs one pass. The returned state is prev unless a fetch succeeded, in
// which case it is a new state built from that fetch alone.
func (s *Service) Handle(ctx context.Context, prev session.State, action Action) (session.State, *Outcome) {
	symbol := domain.NormalizeSymbol(action.Symbol)

	period, err := domain.ParsePeriod(action.Period)
	if err != nil {
		return prev, s.outcome(prev, &UserError{Kind: ErrorInvalid, Message: err.Error()}, false)
	}

	var fetch bool
	switch action.Kind {
	case ActionFetch:
		fetch = true
	case ActionLoad, "":
		fetch = prev.Empty() && symbol != ""
	default:
		return prev, s.outcome(prev, &UserError{
			Kind:    ErrorInvalid,
			Message: fmt.Sprintf("unknown action %q", action.Kind),
		}, false)
	}

	if !fetch {
		return prev, s.outcome(prev, nil, false)
	}

	snap, err := s.fetcher.Fetch(ctx, symbol, period)
	if err != nil {
		return prev, s.outcome(prev, classify(err), false)
	}

	next := session.NewState(snap)
	return next, s.outcome(next, nil, true)
}

func (s *Service) outcome(state session.State, userErr *UserError, fetched bool) *Outcome {
	out := &Outcome{
		View:    s.Render(state),
		Error:   userErr,
		Fetched: fetched,
	}
	if out.View == nil {
		out.Popular = PopularSymbols
	}
	return out
}

// classify maps acquisition errors onto the user-visible kinds
func classify(err error) *UserError {
	var notFound *acquisition.NotFoundError
	var providerErr *acquisition.ProviderError

	switch {
	case errors.As(err, &notFound):
		return &UserError{Kind: ErrorNotFound, Message: err.Error()}
	case errors.As(err, &providerErr):
		return &UserError{Kind: ErrorProvider, Message: err.Error()}
	case errors.Is(err, acquisition.ErrEmptySymbol):
		return &UserError{Kind: ErrorInvalid, Message: "Please enter a stock symbol."}
	default:
		return &UserError{Kind: ErrorProvider, Message: fmt.Sprintf("Error fetching data: %v", err)}
	}
}

// Render derives the full view from a state. It returns nil for the empty state.
func (s *Service) Render(state session.State) *View {
	if state.Empty() {
		return nil
	}

	snap := state.Snapshot()
	meta := snap.Metadata
	chart := s.charts.BuildChart(snap.History)
	company := metrics.BuildCompanyInfo(meta, snap.Symbol)

	companyHTML, err := company.HTML()
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", snap.Symbol).Msg("Failed to render company info")
	}

	return &View{
		Symbol:      snap.Symbol,
		Period:      string(snap.Period),
		PeriodLabel: snap.Period.Label(),
		FetchedAt:   snap.FetchedAt,
		Header:      company.Header,
		Tiles:       metrics.BuildTiles(meta),
		Chart:       chart,
		Figure:      chart.Figure(),
		Metrics:     metrics.BuildTable(meta),
		Historical:  historical.BuildTable(snap.History),
		Company:     company,
		CompanyHTML: companyHTML,
		Exports: []ExportLink{
			{Kind: string(export.KindHistorical), FileName: export.HistoricalFileName(snap.Symbol), URL: "/api/dashboard/export/historical.csv"},
			{Kind: string(export.KindMetrics), FileName: export.MetricsFileName(snap.Symbol), URL: "/api/dashboard/export/metrics.csv"},
		},
	}
}

// Export serialises one of the on-screen tables of state
func (s *Service) Export(state session.State, kind export.Kind) (export.File, error) {
	if state.Empty() {
		return export.File{}, ErrNothingToExport
	}

	symbol := state.Symbol()
	switch kind {
	case export.KindHistorical:
		return export.HistoricalFile(symbol, historical.BuildTable(state.History()))
	case export.KindMetrics:
		return export.MetricsFile(symbol, metrics.BuildTable(state.Metadata()))
	default:
		return export.File{}, fmt.Errorf("unknown export kind %q", kind)
	}
}
