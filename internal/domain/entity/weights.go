package entity

import "fmt"

type WeightKey struct {
	Page  int
	Type  QuestionType
	Index int
}

func (k WeightKey) String() string {
	return fmt.Sprintf("page %d %s #%d", k.Page, k.Type, k.Index)
}

type Weight struct {
	Label string
	Value float64
}

// Weights keeps the configured order; draws accumulate in that order.
type Weights []Weight

func (w Weights) Sum() float64 {
	var sum float64
	for _, item := range w {
		sum += item.Value
	}
	return sum
}

type WeightTable struct {
	entries map[WeightKey]Weights
}

func NewWeightTable() *WeightTable {
	return &WeightTable{entries: make(map[WeightKey]Weights)}
}

func (t *WeightTable) Set(key WeightKey, weights Weights) error {
	if key.Page < 1 || key.Index < 1 {
		return fmt.Errorf("%s: page and index are 1-based: %w", key, ErrInvalidWeights)
	}
	for _, w := range weights {
		if w.Value < 0 {
			return fmt.Errorf("%s: option %q has negative weight %v: %w", key, w.Label, w.Value, ErrInvalidWeights)
		}
	}

	copied := make(Weights, len(weights))
	copy(copied, weights)
	t.entries[key] = copied
	return nil
}

// Lookup is safe for concurrent use once the table is no longer modified.
func (t *WeightTable) Lookup(key WeightKey) (Weights, bool) {
	if t == nil {
		return nil, false
	}
	w, ok := t.entries[key]
	return w, ok
}

func (t *WeightTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
