package output

import (
	"context"
	"time"

	"formbot/internal/domain/entity"
)

// BrowserPort is one automation session shared by every bot.
type BrowserPort interface {
	NewPage(ctx context.Context) (PagePort, error)
	Close()
}

// PagePort is an isolated tab owned by a single bot.
type PagePort interface {
	Navigate(ctx context.Context, url string) error
	Wait(ctx context.Context, d time.Duration) error

	// Elements returns every match in document order; no match is not an error.
	Elements(ctx context.Context, selector string) ([]Element, error)
	// Element reports whether selector matches and returns the first match.
	Element(ctx context.Context, selector string) (Element, bool, error)

	SetUserAgent(ctx context.Context, userAgent string) error
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Close() error
}

// Element is an opaque handle into the rendered page. Handles are invalid
// after the page navigates.
type Element interface {
	Elements(ctx context.Context, selector string) ([]Element, error)
	Click(ctx context.Context) error
	Text(ctx context.Context) (string, error)
}
