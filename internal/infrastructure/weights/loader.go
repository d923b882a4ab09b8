// Package weights loads the per-question answer weights used in weighted
// mode. The file is a nested mapping
//
//	page -> question type -> question index -> option label -> weight
//
// written as JSON or YAML. Label order is kept as written because the
// cumulative draw walks the labels in that order.
package weights

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"formbot/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "questions.json"

// LoadFile reads the table at path. A missing file is reported with an
// error wrapping fs.ErrNotExist so callers can fall back to an empty table.
func LoadFile(path string) (*entity.WeightTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weights %s: %w", path, err)
	}
	defer f.Close()

	table, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load weights %s: %w", path, err)
	}
	return table, nil
}

func Load(r io.Reader) (*entity.WeightTable, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return entity.NewWeightTable(), nil
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidWeights, err)
	}

	table := entity.NewWeightTable()
	if len(root.Content) == 0 {
		return table, nil
	}

	pages, err := mapping(root.Content[0], "document")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		pageNum, err := positive(page.key, "page")
		if err != nil {
			return nil, err
		}

		types, err := mapping(page.value, "page "+page.key.Value)
		if err != nil {
			return nil, err
		}

		for _, typ := range types {
			qt, err := entity.ParseQuestionType(typ.key.Value)
			if err != nil {
				return nil, invalid(typ.key, err.Error())
			}

			questions, err := mapping(typ.value, fmt.Sprintf("page %d %s", pageNum, qt))
			if err != nil {
				return nil, err
			}

			for _, q := range questions {
				index, err := positive(q.key, "question index")
				if err != nil {
					return nil, err
				}

				key := entity.WeightKey{Page: pageNum, Type: qt, Index: index}
				ws, err := parseWeights(q.value, key)
				if err != nil {
					return nil, err
				}
				if err := table.Set(key, ws); err != nil {
					return nil, fmt.Errorf("line %d: %w", q.key.Line, err)
				}
			}
		}
	}

	return table, nil
}

func parseWeights(node *yaml.Node, key entity.WeightKey) (entity.Weights, error) {
	labels, err := mapping(node, key.String())
	if err != nil {
		return nil, err
	}

	ws := make(entity.Weights, 0, len(labels))
	for _, l := range labels {
		if l.value.Kind != yaml.ScalarNode {
			return nil, invalid(l.value, fmt.Sprintf("%s label %q: weight must be a number", key, l.key.Value))
		}
		v, err := strconv.ParseFloat(l.value.Value, 64)
		if err != nil {
			return nil, invalid(l.value, fmt.Sprintf("%s label %q: weight must be a number", key, l.key.Value))
		}
		ws = append(ws, entity.Weight{Label: l.key.Value, Value: v})
	}
	return ws, nil
}

type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

func mapping(node *yaml.Node, what string) ([]pair, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, invalid(node, what+": expected a mapping")
	}

	pairs := make([]pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, pair{key: node.Content[i], value: node.Content[i+1]})
	}
	return pairs, nil
}

func positive(node *yaml.Node, what string) (int, error) {
	n, err := strconv.Atoi(node.Value)
	if err != nil || n < 1 {
		return 0, invalid(node, fmt.Sprintf("%s %q must be a positive integer", what, node.Value))
	}
	return n, nil
}

func invalid(node *yaml.Node, msg string) error {
	return fmt.Errorf("%w: line %d: %s", entity.ErrInvalidWeights, node.Line, msg)
}
