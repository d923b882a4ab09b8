package selector

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
)

// Selector chooses answers for one bot. It is not safe for concurrent use;
// every bot owns its own Selector and random source.
type Selector struct {
	rng     *rand.Rand
	mode    entity.SelectionMode
	weights *entity.WeightTable
	logger  output.LoggerPort
}

func New(mode entity.SelectionMode, weights *entity.WeightTable, rng *rand.Rand, logger output.LoggerPort) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{
		rng:     rng,
		mode:    mode,
		weights: weights,
		logger:  logger,
	}
}

func (s *Selector) Mode() entity.SelectionMode {
	return s.mode
}

// Uniform returns an index in [0, n). It returns -1 when there is nothing to pick.
func (s *Selector) Uniform(n int) int {
	if n <= 0 {
		return -1
	}
	return s.rng.IntN(n)
}

// Weighted draws r in [0, 1) and returns the first label whose cumulative
// weight reaches r.
func (s *Selector) Weighted(weights entity.Weights) (string, error) {
	r := s.rng.Float64()

	var sum float64
	for _, w := range weights {
		sum += w.Value
		if r <= sum {
			return w.Label, nil
		}
	}

	return "", fmt.Errorf("draw %.4f over mass %.4f: %w", r, sum, entity.ErrExhaustedWeightedDraw)
}

// Count returns how many picks a multi-choice question with n options gets,
// uniform in [1, n-1]. Questions with one or two options get a single pick.
func (s *Selector) Count(n int) int {
	if n <= 0 {
		return 0
	}
	if n <= 2 {
		return 1
	}
	return 1 + s.rng.IntN(n-1)
}

// Pick returns the option index to click for the question at key.
// In weighted mode a missing entry, an exhausted draw or a label that is not
// a valid option index falls back to a uniform pick.
func (s *Selector) Pick(key entity.WeightKey, n int) int {
	if n <= 0 {
		return -1
	}
	if s.mode != entity.ModeWeighted {
		return s.Uniform(n)
	}

	index, err := s.weightedIndex(key, n)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("Falling back to uniform pick", "question", key.String(), "error", err)
		}
		return s.Uniform(n)
	}
	return index
}

func (s *Selector) weightedIndex(key entity.WeightKey, n int) (int, error) {
	weights, ok := s.weights.Lookup(key)
	if !ok {
		return 0, entity.ErrWeightLookupMiss
	}

	label, err := s.Weighted(weights)
	if err != nil {
		return 0, err
	}

	index, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return 0, fmt.Errorf("label %q is not an option index: %w", label, err)
	}
	if index < 0 || index >= n {
		return 0, fmt.Errorf("label %q out of range for %d options", label, n)
	}
	return index, nil
}
