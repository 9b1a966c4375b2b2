package handlers

import (
	"time"

	"github.com/heliodash/heliodash/internal/display"
	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/series"
)

// Handler contains all HTTP handlers for the status API.
type Handler struct {
	logger    *logging.Logger
	acc       *series.Accumulator
	opts      display.Options
	version   string
	startedAt time.Time
}

// New creates a new handler instance.
func New(logger *logging.Logger, acc *series.Accumulator, opts display.Options, version string) *Handler {
	if logger == nil {
		logger = logging.Global()
	}
	return &Handler{
		logger:    logger,
		acc:       acc,
		opts:      opts,
		version:   version,
		startedAt: time.Now(),
	}
}
