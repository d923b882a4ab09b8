package di

import (
	"time"

	"formbot/internal/application/port/output"
	"formbot/internal/infrastructure/weights"
	"formbot/internal/usecase/navigator"
	"formbot/internal/usecase/supervisor"
)

const (
	DriverRod    = "rod"
	DriverMemory = "memory"
)

type Config struct {
	// Run presets; empty values are asked for on the console.
	FormURL string
	Mode    string
	Bots    int

	Driver      string
	WeightsPath string

	BrowserHeadless bool
	Stealth         bool
	UserAgent       string

	SettleDelay    time.Duration
	ReportInterval time.Duration
	NavRetries     int
	NavBackoff     time.Duration
	Seed           int

	LogLevel    string
	LogDir      string
	ArtifactDir string
	SkipProbe   bool
}

func LoadConfig(env output.ConfigPort) Config {
	return Config{
		FormURL: env.Get("FORMBOT_URL"),
		Mode:    env.Get("FORMBOT_MODE"),
		Bots:    env.GetInt("FORMBOT_BOTS", 0),

		Driver:      env.GetWithDefault("FORMBOT_DRIVER", DriverRod),
		WeightsPath: env.GetWithDefault("FORMBOT_WEIGHTS", weights.DefaultPath),

		BrowserHeadless: env.GetBool("BROWSER_HEADLESS", true),
		Stealth:         env.GetBool("STEALTH", true),
		UserAgent:       env.Get("USER_AGENT"),

		SettleDelay:    env.GetDuration("SETTLE_DELAY", navigator.DefaultSettleDelay),
		ReportInterval: env.GetDuration("REPORT_INTERVAL", supervisor.DefaultReportInterval),
		NavRetries:     env.GetInt("NAV_RETRIES", 0),
		NavBackoff:     env.GetDuration("NAV_BACKOFF", 2*time.Second),
		Seed:           env.GetInt("FORMBOT_SEED", 0),

		LogLevel:    env.GetWithDefault("LOG_LEVEL", "info"),
		LogDir:      env.GetWithDefault("LOG_DIR", "log"),
		ArtifactDir: env.Get("ARTIFACT_DIR"),
		SkipProbe:   env.GetBool("SKIP_PROBE", false),
	}
}
