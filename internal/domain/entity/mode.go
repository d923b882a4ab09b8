package entity

import (
	"fmt"
	"strings"
)

type SelectionMode int

const (
	ModeUniform SelectionMode = iota + 1
	ModeWeighted
)

func (m SelectionMode) String() string {
	switch m {
	case ModeUniform:
		return "random"
	case ModeWeighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// ParseMode accepts the menu choices ("1", "2") as well as the mode names.
func ParseMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "random", "uniform":
		return ModeUniform, nil
	case "2", "weighted":
		return ModeWeighted, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidMode)
	}
}
