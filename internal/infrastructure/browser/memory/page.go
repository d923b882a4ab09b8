package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
)

var _ output.PagePort = (*Page)(nil)

type elementKind int

const (
	kindIndicator elementKind = iota
	kindNext
	kindSubmit
	kindQuestion
	kindOption
)

type Page struct {
	mu        sync.Mutex
	form      Form
	selectors entity.Selectors
	settle    time.Duration

	url        string
	userAgent  string
	index      int
	generation int
	dom        map[string][]output.Element
	closed     bool

	navigations  int
	nextClicks   int
	submissions  int
	optionClicks map[OptionRef]int
}

// OptionRef identifies an option of the scripted form. Page and Question are
// 1-based, Option is the 0-based option index.
type OptionRef struct {
	Page     int
	Type     entity.QuestionType
	Question int
	Option   int
}

func newPage(form Form, selectors entity.Selectors, settle time.Duration) *Page {
	return &Page{
		form:         form,
		selectors:    selectors,
		settle:       settle,
		index:        -1,
		dom:          map[string][]output.Element{},
		optionClicks: map[OptionRef]int{},
	}
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.form.Unreachable {
		return fmt.Errorf("navigate %s: host unreachable", url)
	}

	p.url = url
	p.navigations++
	p.render(0)
	return nil
}

func (p *Page) Wait(ctx context.Context, d time.Duration) error {
	if p.settle <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.settle)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Page) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	found := p.dom[selector]
	result := make([]output.Element, len(found))
	copy(result, found)
	return result, nil
}

func (p *Page) Element(ctx context.Context, selector string) (output.Element, bool, error) {
	found, err := p.Elements(ctx, selector)
	if err != nil || len(found) == 0 {
		return nil, false, err
	}
	return found[0], true, nil
}

func (p *Page) SetUserAgent(ctx context.Context, userAgent string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.userAgent = userAgent
	return nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return nil, entity.ErrScreenshotUnsupported
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	return nil
}

func (p *Page) UserAgent() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userAgent
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Navigations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.navigations
}

func (p *Page) NextClicks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextClicks
}

func (p *Page) Submissions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submissions
}

func (p *Page) OptionClicks() map[OptionRef]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make(map[OptionRef]int, len(p.optionClicks))
	for k, v := range p.optionClicks {
		result[k] = v
	}
	return result
}

// render rebuilds the DOM for page index i and invalidates older handles.
// An index past the last page renders the confirmation screen. Callers hold p.mu.
func (p *Page) render(i int) {
	p.index = i
	p.generation++
	p.dom = map[string][]output.Element{}

	pages := p.form.Pages
	if i >= len(pages) {
		return
	}
	fp := pages[i]

	if !fp.NoIndicator && len(pages) > 1 {
		p.add(p.selectors.PageIndicator, &element{
			page: p, gen: p.generation, kind: kindIndicator,
			text: fmt.Sprintf("Page %d of %d", i+1, len(pages)),
		})
	}

	if i == len(pages)-1 {
		p.add(p.selectors.SubmitButton, &element{page: p, gen: p.generation, kind: kindSubmit, text: "Submit"})
	} else if !fp.NoNext {
		p.add(p.selectors.NextButton, &element{page: p, gen: p.generation, kind: kindNext, text: "Next"})
	}

	groups := map[entity.QuestionType][]int{
		entity.SingleChoice: fp.Single,
		entity.MultiChoice:  fp.Multi,
		entity.Scaled:       fp.Scaled,
	}
	for _, qt := range entity.QuestionTypes {
		questionSel, optionSel := p.selectors.Container(qt)
		for qi, count := range groups[qt] {
			q := &element{
				page: p, gen: p.generation, kind: kindQuestion,
				text:      fmt.Sprintf("%s question %d", qt, qi+1),
				optionSel: optionSel,
				broken:    count < 0,
			}
			for oi := 0; oi < count; oi++ {
				q.children = append(q.children, &element{
					page: p, gen: p.generation, kind: kindOption,
					text: fmt.Sprintf("Option %d", oi+1),
					ref:  OptionRef{Page: i + 1, Type: qt, Question: qi + 1, Option: oi},
				})
			}
			p.add(questionSel, q)
		}
	}
}

func (p *Page) add(selector string, el *element) {
	p.dom[selector] = append(p.dom[selector], el)
}

func (p *Page) click(el *element) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if el.gen != p.generation {
		return fmt.Errorf("stale %s handle: %w", el.text, entity.ErrElementNotFound)
	}

	switch el.kind {
	case kindNext:
		p.nextClicks++
		p.render(p.index + 1)
	case kindSubmit:
		p.submissions++
		p.render(len(p.form.Pages))
	case kindOption:
		p.optionClicks[el.ref]++
	}
	return nil
}
