package entity

import (
	"fmt"
	"strings"
)

type QuestionType int

const (
	SingleChoice QuestionType = iota
	MultiChoice
	Scaled
)

// QuestionTypes lists the types in the order a page is answered.
var QuestionTypes = []QuestionType{SingleChoice, MultiChoice, Scaled}

func (t QuestionType) String() string {
	switch t {
	case SingleChoice:
		return "radio"
	case MultiChoice:
		return "checkbox"
	case Scaled:
		return "scale"
	default:
		return fmt.Sprintf("QuestionType(%d)", int(t))
	}
}

func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radio", "single", "single_choice":
		return SingleChoice, nil
	case "checkbox", "multi", "multi_choice":
		return MultiChoice, nil
	case "scale", "scaled":
		return Scaled, nil
	default:
		return 0, fmt.Errorf("unknown question type %q: %w", s, ErrInvalidWeights)
	}
}

// Selectors holds every CSS selector used to read and drive a form.
// Option selectors are evaluated relative to their question container.
type Selectors struct {
	PageIndicator      string
	NextButton         string
	SubmitButton       string
	SingleChoice       string
	SingleChoiceOption string
	MultiChoice        string
	MultiChoiceOption  string
	Scaled             string
	ScaledOption       string
}

func DefaultSelectors() Selectors {
	return Selectors{
		PageIndicator:      "#lpd4pf",
		NextButton:         "[jsname=OCpkoe]",
		SubmitButton:       "div.uArJ5e.UQuaGc.Y5sE8d span.l4V7wb.Fxmcue",
		SingleChoice:       "span.H2Gmcc.tyNBNd",
		SingleChoiceOption: "div.nWQGrd.zwllIb > label",
		MultiChoice:        "div.Y6Myld",
		MultiChoiceOption:  "div.eBFwI > label",
		Scaled:             "div.PY6Xd div.N9Qcwe",
		ScaledOption:       "div.Od2TWd.hYsg7c",
	}
}

// Container returns the question and option selectors for t.
func (s Selectors) Container(t QuestionType) (question, option string) {
	switch t {
	case SingleChoice:
		return s.SingleChoice, s.SingleChoiceOption
	case MultiChoice:
		return s.MultiChoice, s.MultiChoiceOption
	default:
		return s.Scaled, s.ScaledOption
	}
}
