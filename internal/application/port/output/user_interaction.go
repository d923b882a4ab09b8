package output

import (
	"context"

	"formbot/internal/domain/entity"
)

type PromptPort interface {
	AskFormURL(ctx context.Context) (string, error)
	AskMode(ctx context.Context) (entity.SelectionMode, error)
	AskBotCount(ctx context.Context, max int) (int, error)
}

type ReporterPort interface {
	Render(ctx context.Context, report entity.Report)
}
