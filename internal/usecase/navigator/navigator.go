package navigator

import (
	"context"
	"fmt"
	"time"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
)

const DefaultSettleDelay = 3 * time.Second

// Settle moves through a form and waits a fixed delay after every
// navigation instead of polling for readiness.
type Settle struct {
	page      output.PagePort
	selectors entity.Selectors
	delay     time.Duration
}

func NewSettle(page output.PagePort, selectors entity.Selectors, delay time.Duration) *Settle {
	if delay < 0 {
		delay = 0
	}
	return &Settle{
		page:      page,
		selectors: selectors,
		delay:     delay,
	}
}

func (n *Settle) Load(ctx context.Context, url string) error {
	if err := n.page.Navigate(ctx, url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %v", entity.ErrNavigation, url, err)
	}
	return n.Settle(ctx)
}

// IsFinalPage reports whether the submit control is rendered.
func (n *Settle) IsFinalPage(ctx context.Context) (bool, error) {
	_, ok, err := n.page.Element(ctx, n.selectors.SubmitButton)
	if err != nil {
		return false, fmt.Errorf("query submit control: %w", err)
	}
	return ok, nil
}

func (n *Settle) Advance(ctx context.Context) error {
	if err := n.press(ctx, n.selectors.NextButton, "next"); err != nil {
		return err
	}
	return n.Settle(ctx)
}

func (n *Settle) Submit(ctx context.Context) error {
	if err := n.press(ctx, n.selectors.SubmitButton, "submit"); err != nil {
		return err
	}
	return n.Settle(ctx)
}

func (n *Settle) Settle(ctx context.Context) error {
	return n.page.Wait(ctx, n.delay)
}

func (n *Settle) press(ctx context.Context, selector, name string) error {
	el, ok, err := n.page.Element(ctx, selector)
	if err != nil {
		return fmt.Errorf("query %s control: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%s control %q: %w", name, selector, entity.ErrElementNotFound)
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("click %s control: %w", name, err)
	}
	return nil
}
