// Package formprobe fetches the form URL once before any browser is
// started, so a typo or a closed form fails fast instead of in every bot.
package formprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"formbot/internal/domain/entity"

	"golang.org/x/net/html"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20
)

var ErrFormUnavailable = errors.New("form unavailable")

type Result struct {
	FinalURL   string
	StatusCode int
	Title      string
	HasForm    bool
}

type Prober struct {
	client    *http.Client
	userAgent string
}

func New(client *http.Client, userAgent string) *Prober {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Prober{client: client, userAgent: userAgent}
}

// Probe returns ErrFormUnavailable when the page loads but carries no
// <form>, which is how a form that stopped accepting responses renders.
func (p *Prober) Probe(ctx context.Context, formURL string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", entity.ErrInvalidURL, err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", entity.ErrNavigation, formURL, err)
	}
	defer resp.Body.Close()

	result := Result{
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return result, fmt.Errorf("%w: %s returned %s", ErrFormUnavailable, formURL, resp.Status)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return result, fmt.Errorf("parse %s: %w", formURL, err)
	}

	if title := findNode(doc, "title"); title != nil {
		result.Title = strings.TrimSpace(textContent(title))
	}
	result.HasForm = findNode(doc, "form") != nil

	if !result.HasForm {
		return result, fmt.Errorf("%w: %s has no <form>", ErrFormUnavailable, formURL)
	}
	return result, nil
}

func findNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
