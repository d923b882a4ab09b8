package memory

import (
	"context"
	"fmt"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
)

var _ output.Element = (*element)(nil)

type element struct {
	page *Page
	gen  int
	kind elementKind
	text string
	ref  OptionRef

	optionSel string
	broken    bool
	children  []output.Element
}

func (e *element) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.broken {
		return nil, fmt.Errorf("%s options: %w", e.text, entity.ErrElementNotFound)
	}
	if selector != e.optionSel {
		return nil, nil
	}

	result := make([]output.Element, len(e.children))
	copy(result, e.children)
	return result, nil
}

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.page.click(e)
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.text, ctx.Err()
}
