package dashboard

import (
	"time"

	"github.com/aristath/stockdash/internal/modules/charts"
	"github.com/aristath/stockdash/internal/modules/historical"
	"github.com/aristath/stockdash/internal/modules/metrics"
)

// ActionKind is the user action that triggers a pass
type ActionKind string

const (
	// ActionLoad is a page load or input change. It fetches only when nothing has been fetched yet.
	ActionLoad ActionKind = "load"
	// ActionFetch is an explicit "Fetch Data" press and always fetches.
	ActionFetch ActionKind = "fetch"
)

// Action is one user action with the current input values
type Action struct {
	Kind   ActionKind `json:"action"`
	Symbol string     `json:"symbol"`
	Period string     `json:"period"`
}

// ErrorKind classifies user-visible errors
type ErrorKind string

const (
	ErrorProvider ErrorKind = "provider"
	ErrorNotFound ErrorKind = "not_found"
	ErrorInvalid  ErrorKind = "invalid"
)

// UserError is reported inline; it never clears the session state
type UserError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ExportLink points at a CSV download for the current state
type ExportLink struct {
	Kind     string `json:"kind"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// View is everything the page renders for a populated session
type View struct {
	Symbol      string              `json:"symbol"`
	Period      string              `json:"period"`
	PeriodLabel string              `json:"period_label"`
	FetchedAt   time.Time           `json:"fetched_at"`
	Header      string              `json:"header"`
	Tiles       []metrics.Tile      `json:"tiles"`
	Chart       charts.ChartSpec    `json:"chart"`
	Figure      charts.Figure       `json:"figure"`
	Metrics     metrics.Table       `json:"metrics"`
	Historical  historical.Table    `json:"historical"`
	Company     metrics.CompanyInfo `json:"company"`
	CompanyHTML string              `json:"company_html"`
	Exports     []ExportLink        `json:"exports"`
}

// PopularSymbol is suggested on the empty page
type PopularSymbol struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// PopularSymbols lists the suggestions shown before anything is fetched
var PopularSymbols = []PopularSymbol{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "AMZN", Name: "Amazon.com Inc."},
	{Symbol: "TSLA", Name: "Tesla Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "META", Name: "Meta Platforms Inc."},
}

// Outcome is the result of one pass. View is nil while the session is empty.
type Outcome struct {
	View    *View           `json:"view"`
	Error   *UserError      `json:"error,omitempty"`
	Fetched bool            `json:"fetched"`
	Popular []PopularSymbol `json:"popular_symbols,omitempty"`
}
