// Package commands holds the CLI subcommands.
package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/config"
	"github.com/coreassistant/planned/internal/logger"
)

// bootstrap loads configuration and builds the logger and the clock
// every subcommand starts from.
func bootstrap(debugFlag bool) (*config.Config, clock.Clock, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, clock.Clock{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.DebugMode || debugFlag)
	if err != nil {
		return nil, clock.Clock{}, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	clk, err := clock.System(cfg.TimeZone)
	if err != nil {
		return nil, clock.Clock{}, nil, fmt.Errorf("failed to resolve timezone: %w", err)
	}

	return cfg, clk, log, nil
}
