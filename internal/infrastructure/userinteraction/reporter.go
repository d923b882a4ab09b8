package userinteraction

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"formbot/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const (
	reportTitle = "Automatic Google Forms Responder"
	separator   = "=============================="
)

var headers = [...]string{"Bot Nº", "Forms Submited", "Percentage", "Status"}

// Render redraws the whole status view.
func (c *Console) Render(_ context.Context, report entity.Report) {
	var b strings.Builder

	if c.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(reportTitle + "\n")
	b.WriteString("\n" + separator + "\n\n")
	b.WriteString(FormatTable(report.Rows))
	b.WriteString("\n" + separator + "\n\n")
	fmt.Fprintf(&b, "Total of Forms Submitted %d\n", report.TotalSubmitted)

	fmt.Fprint(c.out, b.String())
}

// FormatTable lays the rows out as a boxed table. Widths are measured in
// terminal cells so the colour codes and "Nº" do not skew the columns.
func FormatTable(rows []entity.Progress) string {
	cells := make([][len(headers)]string, len(rows))
	widths := [len(headers)]int{}
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}

	for r, p := range rows {
		cells[r] = [len(headers)]string{
			strconv.Itoa(p.BotID),
			strconv.Itoa(p.FormsSubmitted),
			p.PercentageText(),
			status(p),
		}
		for i, cell := range cells[r] {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder

	b.WriteString(borderLine(widths, "┌", "┬", "┐"))
	writeRow(&b, headers, widths, func(i int, s string) string {
		return color.New(color.Bold).Sprint(s)
	})
	b.WriteString(borderLine(widths, "├", "┼", "┤"))
	for r := range rows {
		p := rows[r]
		writeRow(&b, cells[r], widths, func(i int, s string) string {
			switch {
			case i == 0:
				return color.BlueString(s)
			case i == 3 && p.Phase == entity.PhaseFailed:
				return color.RedString(s)
			case i == 3 && p.Phase == entity.PhaseStopped:
				return color.YellowString(s)
			}
			return s
		})
	}
	b.WriteString(borderLine(widths, "└", "┴", "┘"))

	return b.String()
}

func status(p entity.Progress) string {
	if p.Phase == entity.PhaseFailed && p.Err != "" {
		return runewidth.Truncate(string(p.Phase)+": "+p.Err, 60, "...")
	}
	return string(p.Phase)
}

func borderLine(widths [len(headers)]int, left, mid, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return left + strings.Join(parts, mid) + right + "\n"
}

// writeRow left-aligns the bot column and right-aligns the numbers.
func writeRow(b *strings.Builder, cells [len(headers)]string, widths [len(headers)]int, paint func(int, string) string) {
	b.WriteString("│")
	for i, cell := range cells {
		var padded string
		if i == 0 || i == 3 {
			padded = runewidth.FillRight(cell, widths[i])
		} else {
			padded = runewidth.FillLeft(cell, widths[i])
		}
		b.WriteString(" " + paint(i, padded) + " │")
	}
	b.WriteString("\n")
}
