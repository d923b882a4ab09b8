package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"time"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var ErrInvalidURL = entity.ErrInvalidURL

const maxScreenshotWidth = 1024

var _ output.PagePort = (*PageAdapter)(nil)

type PageAdapter struct {
	page            *rod.Page
	timeout         time.Duration
	navigateTimeout time.Duration
}

func newPageAdapter(page *rod.Page, cfg BrowserConfig) *PageAdapter {
	return &PageAdapter{
		page:            page,
		timeout:         cfg.Timeout,
		navigateTimeout: cfg.NavigateTimeout,
	}
}

func (p *PageAdapter) Navigate(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}

	page := p.page.Context(ctx).Timeout(p.navigateTimeout)
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

func (p *PageAdapter) Wait(ctx context.Context, d time.Duration) error {
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

func (p *PageAdapter) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := p.page.Context(ctx).Timeout(p.timeout).Elements(selector)
	if err != nil {
		return nil, classify(fmt.Errorf("query %s: %w", selector, err))
	}
	return wrapElements(els, p.timeout), nil
}

func (p *PageAdapter) Element(ctx context.Context, selector string) (output.Element, bool, error) {
	has, el, err := p.page.Context(ctx).Timeout(p.timeout).Has(selector)
	if err != nil {
		return nil, false, classify(fmt.Errorf("query %s: %w", selector, err))
	}
	if !has {
		return nil, false, nil
	}
	return &elementAdapter{el: el, timeout: p.timeout}, true, nil
}

func (p *PageAdapter) SetUserAgent(ctx context.Context, userAgent string) error {
	err := p.page.Context(ctx).SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent})
	if err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}
	return nil
}

func (p *PageAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := p.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (p *PageAdapter) Close() error {
	return p.page.Close()
}

var _ output.Element = (*elementAdapter)(nil)

type elementAdapter struct {
	el      *rod.Element
	timeout time.Duration
}

func wrapElements(els rod.Elements, timeout time.Duration) []output.Element {
	result := make([]output.Element, 0, len(els))
	for _, el := range els {
		result = append(result, &elementAdapter{el: el, timeout: timeout})
	}
	return result
}

func (e *elementAdapter) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := e.el.Context(ctx).Timeout(e.timeout).Elements(selector)
	if err != nil {
		return nil, classify(fmt.Errorf("query %s: %w", selector, err))
	}
	return wrapElements(els, e.timeout), nil
}

// Click dispatches a DOM click, which also works on options hidden behind
// the form's custom styling.
func (e *elementAdapter) Click(ctx context.Context) error {
	if _, err := e.el.Context(ctx).Timeout(e.timeout).Eval(`() => this.click()`); err != nil {
		return classify(fmt.Errorf("click failed: %w", err))
	}
	return nil
}

func (e *elementAdapter) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Timeout(e.timeout).Text()
	if err != nil {
		return "", classify(fmt.Errorf("read text: %w", err))
	}
	return strings.TrimSpace(text), nil
}

// classify maps driver errors about vanished nodes onto ErrElementNotFound.
func classify(err error) error {
	var notFound *rod.ElementNotFoundError
	var objectNotFound *rod.ObjectNotFoundError
	if errors.As(err, &notFound) || errors.As(err, &objectNotFound) {
		return fmt.Errorf("%w: %v", entity.ErrElementNotFound, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "Could not find node") || strings.Contains(msg, "detached") {
		return fmt.Errorf("%w: %v", entity.ErrElementNotFound, err)
	}
	return err
}
