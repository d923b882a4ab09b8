package classifier

import (
	"context"
	"testing"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
	"formbot/internal/infrastructure/browser/memory"
	"formbot/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPage(t *testing.T, form memory.Form) output.PagePort {
	t.Helper()

	ctx := context.Background()
	b := memory.NewBrowser(entity.DefaultSelectors(), 0, form)
	t.Cleanup(b.Close)

	page, err := b.NewPage(ctx)
	require.NoError(t, err)
	require.NoError(t, page.Navigate(ctx, "https://forms.example/f"))
	return page
}

func optionCounts(questions []Question) []int {
	counts := make([]int, len(questions))
	for i, q := range questions {
		counts[i] = len(q.Options)
	}
	return counts
}

func TestClassify_GroupsInPageOrder(t *testing.T) {
	page := openPage(t, memory.Form{Pages: []memory.FormPage{
		{Single: []int{2, 4, 3}, Multi: []int{5}, Scaled: []int{10, 7}},
	}})
	c := New(entity.DefaultSelectors(), logger.NewNop())

	set, err := c.Classify(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4, 3}, optionCounts(set.SingleChoice))
	assert.Equal(t, []int{5}, optionCounts(set.MultiChoice))
	assert.Equal(t, []int{10, 7}, optionCounts(set.Scaled))
	assert.Equal(t, 6, set.Len())

	for i, q := range set.SingleChoice {
		assert.Equal(t, i+1, q.Index)
		assert.Equal(t, entity.SingleChoice, q.Type)
	}
	assert.Equal(t, entity.Scaled, set.Group(entity.Scaled)[1].Type)
	assert.Equal(t, 2, set.Group(entity.Scaled)[1].Index)
}

func TestClassify_OptionOrderPreserved(t *testing.T) {
	ctx := context.Background()
	page := openPage(t, memory.Form{Pages: []memory.FormPage{{Scaled: []int{5}}}})
	c := New(entity.DefaultSelectors(), logger.NewNop())

	set, err := c.Classify(ctx, page)
	require.NoError(t, err)
	require.Len(t, set.Scaled, 1)

	for i, opt := range set.Scaled[0].Options {
		text, err := opt.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Option "+string(rune('1'+i)), text)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	ctx := context.Background()
	page := openPage(t, memory.DemoForm())
	c := New(entity.DefaultSelectors(), logger.NewNop())

	first, err := c.Classify(ctx, page)
	require.NoError(t, err)
	second, err := c.Classify(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassify_UnreadableQuestionIsSkipped(t *testing.T) {
	page := openPage(t, memory.Form{Pages: []memory.FormPage{{Single: []int{-1, 3}}}})
	c := New(entity.DefaultSelectors(), logger.NewNop())

	set, err := c.Classify(context.Background(), page)
	require.NoError(t, err)

	require.Len(t, set.SingleChoice, 2)
	assert.Empty(t, set.SingleChoice[0].Options)
	assert.Len(t, set.SingleChoice[1].Options, 3)
	assert.Equal(t, 2, set.SingleChoice[1].Index, "positions keep counting skipped questions")
}

func TestClassify_EmptyPage(t *testing.T) {
	page := openPage(t, memory.Form{Pages: []memory.FormPage{{}}})
	c := New(entity.DefaultSelectors(), logger.NewNop())

	set, err := c.Classify(context.Background(), page)
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestClassify_CancelledContext(t *testing.T) {
	page := openPage(t, memory.DemoForm())
	c := New(entity.DefaultSelectors(), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, page)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageInfo(t *testing.T) {
	ctx := context.Background()
	c := New(entity.DefaultSelectors(), logger.NewNop())

	page := openPage(t, memory.DemoForm())
	info, ok, err := c.PageInfo(ctx, page)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.PageInfo{Current: 1, Total: 3}, info)

	single := openPage(t, memory.Form{Pages: []memory.FormPage{{Single: []int{2}}}})
	_, ok, err = c.PageInfo(ctx, single)
	require.NoError(t, err)
	assert.False(t, ok)
}
