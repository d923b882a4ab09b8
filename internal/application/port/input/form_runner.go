package input

import (
	"context"

	"formbot/internal/domain/entity"
)

type RunConfig struct {
	FormURL string
	Mode    entity.SelectionMode
	Bots    int
}

// FormRunner drives a fleet of bots until ctx is cancelled.
type FormRunner interface {
	Run(ctx context.Context, cfg RunConfig) error
	Snapshot() entity.Report
}
