package di

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"formbot/internal/application/port/input"
	"formbot/internal/domain/entity"
	"formbot/internal/infrastructure/env"
	"formbot/internal/usecase/supervisor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrompt struct {
	url   string
	mode  entity.SelectionMode
	bots  int
	asked []string
}

func (p *stubPrompt) AskFormURL(context.Context) (string, error) {
	p.asked = append(p.asked, "url")
	return p.url, nil
}

func (p *stubPrompt) AskMode(context.Context) (entity.SelectionMode, error) {
	p.asked = append(p.asked, "mode")
	return p.mode, nil
}

func (p *stubPrompt) AskBotCount(context.Context, int) (int, error) {
	p.asked = append(p.asked, "bots")
	return p.bots, nil
}

type lastReport struct {
	mu     sync.Mutex
	report entity.Report
	count  int
}

func (r *lastReport) Render(_ context.Context, report entity.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
	r.count++
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Driver:         DriverMemory,
		WeightsPath:    filepath.Join(t.TempDir(), "absent.json"),
		SettleDelay:    time.Millisecond,
		ReportInterval: 10 * time.Millisecond,
		LogLevel:       "debug",
		LogDir:         t.TempDir(),
		Seed:           7,
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"FORMBOT_URL", "FORMBOT_MODE", "FORMBOT_BOTS", "FORMBOT_DRIVER", "FORMBOT_WEIGHTS", "SETTLE_DELAY", "NAV_RETRIES"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig(&env.EnvService{})

	assert.Equal(t, DriverRod, cfg.Driver)
	assert.Equal(t, "questions.json", cfg.WeightsPath)
	assert.Equal(t, 3*time.Second, cfg.SettleDelay)
	assert.Equal(t, time.Second, cfg.ReportInterval)
	assert.Equal(t, 0, cfg.NavRetries)
	assert.Zero(t, cfg.Bots)
}

func TestLoadConfig_Presets(t *testing.T) {
	t.Setenv("FORMBOT_URL", "https://forms.gle/abc")
	t.Setenv("FORMBOT_MODE", "weighted")
	t.Setenv("FORMBOT_BOTS", "4")
	t.Setenv("FORMBOT_DRIVER", "memory")
	t.Setenv("SETTLE_DELAY", "250ms")
	t.Setenv("NAV_RETRIES", "2")

	cfg := LoadConfig(&env.EnvService{})

	assert.Equal(t, "https://forms.gle/abc", cfg.FormURL)
	assert.Equal(t, "weighted", cfg.Mode)
	assert.Equal(t, 4, cfg.Bots)
	assert.Equal(t, DriverMemory, cfg.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, 2, cfg.NavRetries)
}

func TestContainer_ResolveRun_Presets(t *testing.T) {
	cfg := testConfig(t)
	cfg.FormURL = "docs.google.com/forms/d/e/abc/viewform"
	cfg.Mode = "2"
	cfg.Bots = 3

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	prompt := &stubPrompt{}
	c.Prompt = prompt

	run, err := c.ResolveRun(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://docs.google.com/forms/d/e/abc/viewform", run.FormURL)
	assert.Equal(t, entity.ModeWeighted, run.Mode)
	assert.Equal(t, 3, run.Bots)
	assert.Empty(t, prompt.asked)
}

func TestContainer_ResolveRun_Prompts(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	prompt := &stubPrompt{url: "https://forms.gle/x", mode: entity.ModeUniform, bots: 2}
	c.Prompt = prompt

	run, err := c.ResolveRun(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"url", "mode", "bots"}, prompt.asked)
	assert.Equal(t, 2, run.Bots)
}

func TestContainer_ResolveRun_InvalidPresets(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want error
	}{
		{"url", func(c *Config) { c.FormURL = "ftp://x.org" }, entity.ErrInvalidURL},
		{"mode", func(c *Config) { c.FormURL = "https://x.org"; c.Mode = "3" }, entity.ErrInvalidMode},
		{"bots", func(c *Config) { c.FormURL = "https://x.org"; c.Mode = "1"; c.Bots = 26 }, supervisor.ErrInvalidBotCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.edit(&cfg)

			c, err := NewContainer(cfg)
			require.NoError(t, err)
			defer c.Close()

			_, err = c.ResolveRun(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewContainer_LoadsWeights(t *testing.T) {
	cfg := testConfig(t)
	cfg.WeightsPath = filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(cfg.WeightsPath, []byte(`{"1": {"radio": {"1": {"0": 1}}}}`), 0o644))

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 1, c.Weights.Len())
}

func TestNewContainer_InvalidWeights(t *testing.T) {
	cfg := testConfig(t)
	cfg.WeightsPath = filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(cfg.WeightsPath, []byte(`{"1": {"radio": {"1": {"0": -1}}}}`), 0o644))

	_, err := NewContainer(cfg)

	assert.ErrorIs(t, err, entity.ErrInvalidWeights)
}

func TestContainer_MemoryDryRun(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	reporter := &lastReport{}
	c.Reporter = reporter

	require.NoError(t, c.Verify(context.Background(), "https://unreachable.invalid/form"))

	runner, err := c.NewRunner(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err = runner.Run(ctx, input.RunConfig{FormURL: "https://example.com/form", Mode: entity.ModeUniform, Bots: 2})
	require.NoError(t, err)

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	assert.Greater(t, reporter.count, 1)
	require.Len(t, reporter.report.Rows, 2)
	assert.Greater(t, reporter.report.TotalSubmitted, 0)
	for _, row := range reporter.report.Rows {
		assert.Equal(t, entity.PhaseStopped, row.Phase)
	}
}

func TestContainer_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Driver = "selenium"

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.NewRunner(context.Background())
	assert.ErrorContains(t, err, "unknown driver")
}
