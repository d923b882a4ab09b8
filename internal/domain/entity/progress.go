package entity

import "fmt"

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseNavigating Phase = "navigating"
	PhaseAnswering  Phase = "answering"
	PhaseSubmitting Phase = "submitting"
	PhaseFailed     Phase = "failed"
	PhaseStopped    Phase = "stopped"
)

const LoadingText = "Loading..."

// Progress is a read-only copy of a bot's state.
type Progress struct {
	BotID          int
	FormsSubmitted int
	Page           PageInfo
	HasPage        bool
	Phase          Phase
	Err            string
}

func (p Progress) PercentageText() string {
	if !p.HasPage || p.Page.Total == 0 {
		return LoadingText
	}
	return fmt.Sprintf("%.2f%%", p.Page.Percentage())
}

type Report struct {
	Rows           []Progress
	TotalSubmitted int
}

func NewReport(rows []Progress) Report {
	total := 0
	for _, row := range rows {
		total += row.FormsSubmitted
	}
	return Report{Rows: rows, TotalSubmitted: total}
}
