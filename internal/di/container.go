package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"formbot/internal/application/port/input"
	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
	"formbot/internal/infrastructure/browser/memory"
	"formbot/internal/infrastructure/browser/rod"
	"formbot/internal/infrastructure/formprobe"
	"formbot/internal/infrastructure/logger"
	"formbot/internal/infrastructure/userinteraction"
	"formbot/internal/infrastructure/weights"
	"formbot/internal/usecase/supervisor"
)

type Container struct {
	Logger   output.LoggerPort
	Weights  *entity.WeightTable
	Prompt   output.PromptPort
	Reporter output.ReporterPort
	Probe    *formprobe.Prober
	Browser  output.BrowserPort

	cfg Config
}

// NewContainer wires everything that is cheap to build. The browser is
// started later by NewRunner, once the operator has answered the prompts.
func NewContainer(cfg Config) (*Container, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Dir = cfg.LogDir
	logCfg.Level = cfg.LogLevel

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	table, err := loadWeights(cfg.WeightsPath, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	console := userinteraction.NewConsole()

	return &Container{
		Logger:   log,
		Weights:  table,
		Prompt:   console,
		Reporter: console,
		Probe:    formprobe.New(nil, cfg.UserAgent),
		cfg:      cfg,
	}, nil
}

func loadWeights(path string, log output.LoggerPort) (*entity.WeightTable, error) {
	if path == "" {
		return entity.NewWeightTable(), nil
	}

	table, err := weights.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("Weights file not found, weighted mode will pick uniformly", "path", path)
		return entity.NewWeightTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}

	log.Info("Weights loaded", "path", path, "questions", table.Len())
	return table, nil
}

// ResolveRun fills the run parameters from the presets and asks for the rest.
func (c *Container) ResolveRun(ctx context.Context) (input.RunConfig, error) {
	var run input.RunConfig
	var err error

	if c.cfg.FormURL != "" {
		if run.FormURL, err = userinteraction.NormalizeFormURL(c.cfg.FormURL); err != nil {
			return run, fmt.Errorf("FORMBOT_URL: %w", err)
		}
	} else if run.FormURL, err = c.Prompt.AskFormURL(ctx); err != nil {
		return run, err
	}

	if c.cfg.Mode != "" {
		if run.Mode, err = entity.ParseMode(c.cfg.Mode); err != nil {
			return run, fmt.Errorf("FORMBOT_MODE: %w", err)
		}
	} else if run.Mode, err = c.Prompt.AskMode(ctx); err != nil {
		return run, err
	}

	if c.cfg.Bots != 0 {
		if c.cfg.Bots < 1 || c.cfg.Bots > supervisor.MaxBots {
			return run, fmt.Errorf("FORMBOT_BOTS: %w: %d not in 1..%d", supervisor.ErrInvalidBotCount, c.cfg.Bots, supervisor.MaxBots)
		}
		run.Bots = c.cfg.Bots
	} else if run.Bots, err = c.Prompt.AskBotCount(ctx, supervisor.MaxBots); err != nil {
		return run, err
	}

	return run, nil
}

// Verify probes the form over plain HTTP. Dry runs never touch the network.
func (c *Container) Verify(ctx context.Context, formURL string) error {
	if c.cfg.SkipProbe || c.cfg.Driver == DriverMemory {
		return nil
	}

	result, err := c.Probe.Probe(ctx, formURL)
	if err != nil {
		return err
	}

	c.Logger.Info("Form reachable", "url", result.FinalURL, "title", result.Title)
	return nil
}

// NewRunner starts the automation driver and returns the supervisor on top of it.
func (c *Container) NewRunner(ctx context.Context) (input.FormRunner, error) {
	browser, err := c.newBrowser(ctx)
	if err != nil {
		return nil, err
	}
	c.Browser = browser

	return supervisor.New(browser, c.Weights, c.Reporter, c.Logger, supervisor.Config{
		Selectors:      entity.DefaultSelectors(),
		SettleDelay:    c.cfg.SettleDelay,
		ReportInterval: c.cfg.ReportInterval,
		UserAgent:      c.cfg.UserAgent,
		NavRetries:     c.cfg.NavRetries,
		NavBackoff:     c.cfg.NavBackoff,
		ArtifactDir:    c.cfg.ArtifactDir,
		Seed:           uint64(c.cfg.Seed),
	}), nil
}

func (c *Container) newBrowser(ctx context.Context) (output.BrowserPort, error) {
	switch c.cfg.Driver {
	case DriverMemory:
		c.Logger.Info("Using in-memory driver")
		return memory.NewBrowser(entity.DefaultSelectors(), c.cfg.SettleDelay), nil

	case DriverRod, "":
		browserCfg := rod.DefaultConfig()
		browserCfg.Headless = c.cfg.BrowserHeadless
		browserCfg.Stealth = c.cfg.Stealth

		browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		return browser, nil

	default:
		return nil, fmt.Errorf("unknown driver %q", c.cfg.Driver)
	}
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
