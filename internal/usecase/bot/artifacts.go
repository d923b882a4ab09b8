package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"formbot/internal/domain/entity"
)

const screenshotTimeout = 10 * time.Second

// saveScreenshot stores what the page looked like when the bot failed.
func (c *Controller) saveScreenshot() {
	if c.cfg.ArtifactDir == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), screenshotTimeout)
	defer cancel()

	shot, err := c.page.Screenshot(ctx)
	if err != nil {
		if !errors.Is(err, entity.ErrScreenshotUnsupported) {
			c.logger.Warn("Failure screenshot failed", "error", err)
		}
		return
	}

	if err := os.MkdirAll(c.cfg.ArtifactDir, 0755); err != nil {
		c.logger.Warn("Create artifact dir failed", "dir", c.cfg.ArtifactDir, "error", err)
		return
	}

	name := fmt.Sprintf("bot-%02d_%s.%s", c.cfg.ID, time.Now().Format("2006-01-02_15-04-05"), shot.Format)
	path := filepath.Join(c.cfg.ArtifactDir, name)
	if err := os.WriteFile(path, shot.Data, 0644); err != nil {
		c.logger.Warn("Write failure screenshot failed", "path", path, "error", err)
		return
	}

	c.logger.Info("Failure screenshot saved", "path", path, "width", shot.Width, "height", shot.Height)
}
