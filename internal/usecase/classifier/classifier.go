package classifier

import (
	"context"
	"errors"
	"fmt"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
)

type Question struct {
	Type    entity.QuestionType
	Index   int // 1-based position among questions of the same type
	Options []output.Element
}

// QuestionSet groups the questions of one rendered page by type, each group
// in on-page order. Handles are only valid until the page navigates.
type QuestionSet struct {
	SingleChoice []Question
	MultiChoice  []Question
	Scaled       []Question
}

func (s QuestionSet) Group(t entity.QuestionType) []Question {
	switch t {
	case entity.SingleChoice:
		return s.SingleChoice
	case entity.MultiChoice:
		return s.MultiChoice
	default:
		return s.Scaled
	}
}

func (s QuestionSet) Len() int {
	return len(s.SingleChoice) + len(s.MultiChoice) + len(s.Scaled)
}

type Classifier struct {
	selectors entity.Selectors
	logger    output.LoggerPort
}

func New(selectors entity.Selectors, logger output.LoggerPort) *Classifier {
	return &Classifier{
		selectors: selectors,
		logger:    logger,
	}
}

func (c *Classifier) Classify(ctx context.Context, page output.PagePort) (QuestionSet, error) {
	var set QuestionSet

	for _, qt := range entity.QuestionTypes {
		questions, err := c.group(ctx, page, qt)
		if err != nil {
			return QuestionSet{}, err
		}

		switch qt {
		case entity.SingleChoice:
			set.SingleChoice = questions
		case entity.MultiChoice:
			set.MultiChoice = questions
		case entity.Scaled:
			set.Scaled = questions
		}
	}

	return set, nil
}

func (c *Classifier) group(ctx context.Context, page output.PagePort, qt entity.QuestionType) ([]Question, error) {
	questionSel, optionSel := c.selectors.Container(qt)

	containers, err := page.Elements(ctx, questionSel)
	if err != nil {
		return nil, fmt.Errorf("query %s questions: %w", qt, err)
	}

	questions := make([]Question, 0, len(containers))
	for i, container := range containers {
		options, err := container.Elements(ctx, optionSel)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// An unreadable question is skipped rather than failing the page.
			c.logger.Warn("Question options not found", "type", qt.String(), "index", i+1, "error", err)
			options = nil
		}

		questions = append(questions, Question{
			Type:    qt,
			Index:   i + 1,
			Options: options,
		})
	}

	return questions, nil
}

// PageInfo reads the page indicator. Forms with a single page render no
// indicator, which is reported as ok=false.
func (c *Classifier) PageInfo(ctx context.Context, page output.PagePort) (entity.PageInfo, bool, error) {
	el, ok, err := page.Element(ctx, c.selectors.PageIndicator)
	if err != nil {
		return entity.PageInfo{}, false, fmt.Errorf("query page indicator: %w", err)
	}
	if !ok {
		return entity.PageInfo{}, false, nil
	}

	text, err := el.Text(ctx)
	if err != nil {
		return entity.PageInfo{}, false, fmt.Errorf("read page indicator: %w", err)
	}

	info, err := entity.ParsePageIndicator(text)
	if err != nil {
		if errors.Is(err, entity.ErrElementNotFound) {
			return entity.PageInfo{}, false, nil
		}
		return entity.PageInfo{}, false, err
	}
	return info, true, nil
}
