// Package memory is a scripted, in-process form used for dry runs and tests.
// It answers the same selectors the real form uses, so the bots run unchanged.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
)

var _ output.BrowserPort = (*Browser)(nil)

var ErrClosed = errors.New("memory browser closed")

// FormPage describes one page of a scripted form. Each slice holds the
// option count of every question of that type, in page order; a negative
// count makes the option lookup for that question fail.
type FormPage struct {
	Single []int
	Multi  []int
	Scaled []int

	NoNext      bool
	NoIndicator bool
}

type Form struct {
	Pages       []FormPage
	Unreachable bool
}

// DemoForm mirrors a typical three page questionnaire.
func DemoForm() Form {
	return Form{Pages: []FormPage{
		{Single: []int{2, 4}, Multi: []int{5}},
		{Single: []int{3}, Scaled: []int{5, 5}},
		{Multi: []int{4, 6}, Scaled: []int{10}},
	}}
}

type Browser struct {
	mu        sync.Mutex
	forms     []Form
	selectors entity.Selectors
	settle    time.Duration
	pages     []*Page
	closed    bool
}

// NewBrowser serves forms round-robin: the n-th page opened gets forms[n % len(forms)].
func NewBrowser(selectors entity.Selectors, settle time.Duration, forms ...Form) *Browser {
	if len(forms) == 0 {
		forms = []Form{DemoForm()}
	}
	return &Browser{
		forms:     forms,
		selectors: selectors,
		settle:    settle,
	}
}

func (b *Browser) NewPage(ctx context.Context) (output.PagePort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	page := newPage(b.forms[len(b.pages)%len(b.forms)], b.selectors, b.settle)
	b.pages = append(b.pages, page)
	return page, nil
}

func (b *Browser) Pages() []*Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]*Page, len(b.pages))
	copy(result, b.pages)
	return result
}

func (b *Browser) Close() {
	b.mu.Lock()
	pages := b.pages
	b.closed = true
	b.mu.Unlock()

	for _, p := range pages {
		_ = p.Close()
	}
}
