package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/config"
	"github.com/aristath/stockdash/internal/di"
	"github.com/aristath/stockdash/internal/modules/dashboard"
	"github.com/aristath/stockdash/internal/session"
	"github.com/aristath/stockdash/pkg/logger"
)

// app is the wiring shared by the subcommands
type app struct {
	cfg       *config.Config
	container *di.Container
	log       zerolog.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	// stdout carries the rendered output, logs go to stderr
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: os.Stderr,
	})

	container, _, err := di.Wire(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to wire dependencies: %w", err)
	}

	return &app{cfg: cfg, container: container, log: log}, nil
}

func (a *app) Close() {
	if err := a.container.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Failed to close container")
	}
}

// fetch runs one fetch pass on an empty session. A user-visible error is returned as an error.
func (a *app) fetch(ctx context.Context, symbol, period string) (session.State, *dashboard.View, error) {
	if symbol == "" {
		symbol = a.cfg.DefaultSymbol
	}
	if period == "" {
		period = string(a.cfg.DefaultPeriod)
	}

	state, out := a.container.DashboardService.Handle(ctx, session.State{}, dashboard.Action{
		Kind:   dashboard.ActionFetch,
		Symbol: symbol,
		Period: period,
	})
	if out.Error != nil {
		return state, nil, fmt.Errorf("%s", out.Error.Message)
	}
	return state, out.View, nil
}
