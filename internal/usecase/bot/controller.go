package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
	"formbot/internal/usecase/classifier"
	"formbot/internal/usecase/selector"
)

// Navigator hides how the bot waits for pages to be ready.
type Navigator interface {
	Load(ctx context.Context, url string) error
	IsFinalPage(ctx context.Context) (bool, error)
	Advance(ctx context.Context) error
	Submit(ctx context.Context) error
	Settle(ctx context.Context) error
}

type Classifier interface {
	Classify(ctx context.Context, page output.PagePort) (classifier.QuestionSet, error)
	PageInfo(ctx context.Context, page output.PagePort) (entity.PageInfo, bool, error)
}

type Config struct {
	ID        int
	FormURL   string
	UserAgent string

	// NavRetries is how many times a failed form load is retried before the
	// bot gives up; each retry doubles NavBackoff.
	NavRetries int
	NavBackoff time.Duration

	ArtifactDir string
}

var _ output.ProgressSource = (*Controller)(nil)

// Controller runs one bot. Its state is written only by its own goroutine;
// other goroutines read it through Progress.
type Controller struct {
	cfg        Config
	page       output.PagePort
	nav        Navigator
	classifier Classifier
	selector   *selector.Selector
	logger     output.LoggerPort

	mu    sync.RWMutex
	state entity.Progress
}

func New(
	cfg Config,
	page output.PagePort,
	nav Navigator,
	classifier Classifier,
	selector *selector.Selector,
	logger output.LoggerPort,
) *Controller {
	return &Controller{
		cfg:        cfg,
		page:       page,
		nav:        nav,
		classifier: classifier,
		selector:   selector,
		logger:     logger,
		state: entity.Progress{
			BotID: cfg.ID,
			Phase: entity.PhaseIdle,
		},
	}
}

func (c *Controller) ID() int {
	return c.cfg.ID
}

func (c *Controller) Progress() entity.Progress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Run fills the form over and over until ctx is cancelled or a step fails.
// Cancellation is a clean stop and returns nil; any other failure freezes
// the bot's progress and is returned.
func (c *Controller) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bot %d panicked: %v", c.cfg.ID, r)
			c.fail(err)
		}
	}()

	c.logger.Info("Bot started", "url", c.cfg.FormURL, "mode", c.selector.Mode().String())

	if c.cfg.UserAgent != "" {
		if err := c.page.SetUserAgent(ctx, c.cfg.UserAgent); err != nil {
			err = fmt.Errorf("set user agent: %w", err)
			c.fail(err)
			return err
		}
	}

	for {
		if err := c.FillForm(ctx); err != nil {
			if ctx.Err() != nil {
				c.setPhase(entity.PhaseStopped)
				c.logger.Info("Bot stopped", "forms_submitted", c.Progress().FormsSubmitted)
				return nil
			}
			c.fail(err)
			return err
		}
	}
}

// FillForm loads the form, answers every page and submits once.
func (c *Controller) FillForm(ctx context.Context) error {
	c.setPhase(entity.PhaseNavigating)
	if err := c.load(ctx); err != nil {
		return err
	}

	for {
		final, err := c.nav.IsFinalPage(ctx)
		if err != nil {
			return err
		}

		c.setPhase(entity.PhaseAnswering)
		if err := c.AnswerPage(ctx); err != nil {
			return err
		}

		if final {
			break
		}

		c.setPhase(entity.PhaseNavigating)
		if err := c.nav.Advance(ctx); err != nil {
			return fmt.Errorf("advance from page %d: %w", c.Progress().Page.Current, err)
		}
	}

	c.setPhase(entity.PhaseSubmitting)
	if err := c.nav.Submit(ctx); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	c.mu.Lock()
	c.state.FormsSubmitted++
	submitted := c.state.FormsSubmitted
	c.mu.Unlock()

	c.logger.Info("Form submitted", "forms_submitted", submitted)
	return nil
}

// AnswerPage answers every question on the current page, single choice
// first, then multi choice, then scaled, and lets the page settle.
func (c *Controller) AnswerPage(ctx context.Context) error {
	info, ok, err := c.classifier.PageInfo(ctx, c.page)
	if err != nil {
		return err
	}
	if !ok {
		// Single page forms render no indicator.
		info = entity.PageInfo{Current: 1, Total: 1}
	}
	c.setPage(info)

	set, err := c.classifier.Classify(ctx, c.page)
	if err != nil {
		return fmt.Errorf("classify page %d: %w", info.Current, err)
	}

	c.logger.Debug("Answering page",
		"page", info.Current,
		"total", info.Total,
		"single", len(set.SingleChoice),
		"multi", len(set.MultiChoice),
		"scaled", len(set.Scaled),
	)

	for _, qt := range entity.QuestionTypes {
		for _, q := range set.Group(qt) {
			if err := c.answer(ctx, info.Current, q); err != nil {
				return err
			}
		}
	}

	return c.nav.Settle(ctx)
}

func (c *Controller) answer(ctx context.Context, page int, q classifier.Question) error {
	n := len(q.Options)
	if n == 0 {
		return nil
	}

	key := entity.WeightKey{Page: page, Type: q.Type, Index: q.Index}

	picks := 1
	if q.Type == entity.MultiChoice {
		picks = c.selector.Count(n)
	}

	for i := 0; i < picks; i++ {
		idx := c.selector.Pick(key, n)
		if err := q.Options[idx].Click(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, entity.ErrElementNotFound) {
				c.logger.Warn("Skipping question", "question", key.String(), "option", idx, "error", err)
				return nil
			}
			return fmt.Errorf("click %s option %d: %w", key, idx, err)
		}
	}
	return nil
}

func (c *Controller) load(ctx context.Context) error {
	backoff := c.cfg.NavBackoff

	for attempt := 0; ; attempt++ {
		err := c.nav.Load(ctx, c.cfg.FormURL)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !errors.Is(err, entity.ErrNavigation) || attempt >= c.cfg.NavRetries {
			return err
		}

		c.logger.Warn("Form load failed, retrying", "attempt", attempt+1, "backoff", backoff.String(), "error", err)
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
	}
}

func (c *Controller) setPhase(phase entity.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Phase = phase
}

func (c *Controller) setPage(info entity.PageInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = info
	c.state.HasPage = true
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.state.Phase = entity.PhaseFailed
	c.state.Err = err.Error()
	submitted := c.state.FormsSubmitted
	c.mu.Unlock()

	c.logger.Error("Bot failed", "error", err, "forms_submitted", submitted)
	c.saveScreenshot()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
