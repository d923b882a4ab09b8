package userinteraction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"

	"github.com/fatih/color"
)

var (
	_ output.PromptPort   = (*Console)(nil)
	_ output.ReporterPort = (*Console)(nil)
)

const clearScreen = "\033[H\033[2J"

// Console asks the operator for the run parameters and draws the live
// status table on the same terminal.
type Console struct {
	reader *bufio.Reader
	out    io.Writer
	clear  bool
}

func NewConsole() *Console {
	return NewConsoleWith(os.Stdin, os.Stdout, true)
}

func NewConsoleWith(in io.Reader, out io.Writer, clear bool) *Console {
	return &Console{
		reader: bufio.NewReader(in),
		out:    out,
		clear:  clear,
	}
}

func (c *Console) AskFormURL(ctx context.Context) (string, error) {
	for {
		c.clearScreen()
		answer, err := c.ask(ctx, "Insert the Google Forms URL: ")
		if err != nil {
			return "", err
		}

		formURL, err := NormalizeFormURL(answer)
		if err == nil {
			return formURL, nil
		}
		color.New(color.FgRed).Fprintf(c.out, "%v\n", err)
	}
}

func (c *Console) AskMode(ctx context.Context) (entity.SelectionMode, error) {
	for {
		c.clearScreen()
		fmt.Fprintln(c.out, "Press '1' to enter Random Mode")
		fmt.Fprintln(c.out, "Press '2' to enter Weighted Mode")

		answer, err := c.ask(ctx, "Chose Mode: ")
		if err != nil {
			return 0, err
		}

		switch answer {
		case "1":
			return entity.ModeUniform, nil
		case "2":
			return entity.ModeWeighted, nil
		}
	}
}

func (c *Console) AskBotCount(ctx context.Context, max int) (int, error) {
	for {
		c.clearScreen()
		answer, err := c.ask(ctx, "Insert the number of bots: ")
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= max {
			return n, nil
		}
		color.New(color.FgRed).Fprintf(c.out, "Enter a number between 1 and %d\n", max)
	}
}

func (c *Console) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	color.New(color.FgCyan, color.Bold).Fprint(c.out, question)

	answer, err := c.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && answer != "") {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

func (c *Console) clearScreen() {
	if c.clear {
		fmt.Fprint(c.out, clearScreen)
	}
}

// NormalizeFormURL accepts an http(s) URL; a bare host/path is taken as https.
func NormalizeFormURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", entity.ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", entity.ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" || (host != "localhost" && !strings.Contains(host, ".")) {
		return "", fmt.Errorf("%w: invalid host %q", entity.ErrInvalidURL, host)
	}

	return u.String(), nil
}
