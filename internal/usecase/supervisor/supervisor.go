package supervisor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"formbot/internal/application/port/input"
	"formbot/internal/application/port/output"
	"formbot/internal/application/service"
	"formbot/internal/domain/entity"
	"formbot/internal/usecase/bot"
	"formbot/internal/usecase/classifier"
	"formbot/internal/usecase/navigator"
	"formbot/internal/usecase/selector"
)

const (
	MaxBots               = 25
	DefaultReportInterval = time.Second
)

var ErrInvalidBotCount = errors.New("invalid bot count")

type Config struct {
	Selectors      entity.Selectors
	SettleDelay    time.Duration
	ReportInterval time.Duration
	UserAgent      string
	NavRetries     int
	NavBackoff     time.Duration
	ArtifactDir    string

	// Seed makes bot choices reproducible; zero picks a random seed.
	Seed uint64
}

var _ input.FormRunner = (*Supervisor)(nil)

// Supervisor owns the bots: it starts them on tabs of one shared browser
// and only ever reads their progress.
type Supervisor struct {
	browser  output.BrowserPort
	weights  *entity.WeightTable
	reporter output.ReporterPort
	logger   output.LoggerPort
	cfg      Config

	registry *service.BotRegistryImpl
	pages    []output.PagePort
	wg       sync.WaitGroup
	started  bool
}

func New(
	browser output.BrowserPort,
	weights *entity.WeightTable,
	reporter output.ReporterPort,
	logger output.LoggerPort,
	cfg Config,
) *Supervisor {
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = DefaultReportInterval
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	return &Supervisor{
		browser:  browser,
		weights:  weights,
		reporter: reporter,
		logger:   logger,
		cfg:      cfg,
		registry: service.NewBotRegistry(),
	}
}

// Start opens one tab per bot and launches every bot without waiting for it.
func (s *Supervisor) Start(ctx context.Context, run input.RunConfig) error {
	if s.started {
		return errors.New("supervisor already started")
	}
	if run.Bots < 1 || run.Bots > MaxBots {
		return fmt.Errorf("%d bots, want 1..%d: %w", run.Bots, MaxBots, ErrInvalidBotCount)
	}
	if run.Mode == entity.ModeWeighted && s.weights.Len() == 0 {
		s.logger.Warn("Weighted mode without weights, every question falls back to uniform")
	}
	s.started = true

	s.logger.Info("Starting bots", "bots", run.Bots, "mode", run.Mode.String(), "url", run.FormURL, "seed", s.cfg.Seed)

	for id := 1; id <= run.Bots; id++ {
		page, err := s.browser.NewPage(ctx)
		if err != nil {
			return fmt.Errorf("open page for bot %d: %w", id, err)
		}
		s.pages = append(s.pages, page)

		ctrl := s.newBot(id, page, run)
		s.registry.Register(ctrl)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			// Errors are recorded in the bot's progress; they never leave the goroutine.
			_ = ctrl.Run(ctx)
		}()
	}

	return nil
}

func (s *Supervisor) newBot(id int, page output.PagePort, run input.RunConfig) *bot.Controller {
	log := s.logger.WithField("bot", id)
	rng := rand.New(rand.NewPCG(s.cfg.Seed, uint64(id)))

	return bot.New(
		bot.Config{
			ID:          id,
			FormURL:     run.FormURL,
			UserAgent:   s.cfg.UserAgent,
			NavRetries:  s.cfg.NavRetries,
			NavBackoff:  s.cfg.NavBackoff,
			ArtifactDir: s.cfg.ArtifactDir,
		},
		page,
		navigator.NewSettle(page, s.cfg.Selectors, s.cfg.SettleDelay),
		classifier.New(s.cfg.Selectors, log),
		selector.New(run.Mode, s.weights, rng, log),
		log,
	)
}

// Run starts the bots and renders a report every tick until ctx is done.
// It then waits for the bots to stop and renders a final report.
func (s *Supervisor) Run(ctx context.Context, run input.RunConfig) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.Start(runCtx, run); err != nil {
		cancel()
		s.shutdown()
		return err
	}

	ticker := time.NewTicker(s.cfg.ReportInterval)
	defer ticker.Stop()

	s.reporter.Render(ctx, s.Snapshot())

	for {
		select {
		case <-ctx.Done():
			cancel()
			s.shutdown()
			report := s.Snapshot()
			s.reporter.Render(context.Background(), report)
			s.logger.Info("All bots stopped", "total_submitted", report.TotalSubmitted)
			return nil
		case <-ticker.C:
			s.reporter.Render(ctx, s.Snapshot())
		}
	}
}

func (s *Supervisor) Snapshot() entity.Report {
	return entity.NewReport(s.registry.Snapshot())
}

// Wait blocks until every bot goroutine has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) shutdown() {
	s.wg.Wait()
	for _, p := range s.pages {
		if err := p.Close(); err != nil {
			s.logger.Warn("Close page failed", "error", err)
		}
	}
}
