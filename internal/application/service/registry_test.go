package service

import (
	"testing"

	"formbot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBot struct {
	id        int
	submitted int
}

func (b *stubBot) ID() int { return b.id }

func (b *stubBot) Progress() entity.Progress {
	return entity.Progress{BotID: b.id, FormsSubmitted: b.submitted}
}

func TestBotRegistry_KeepsOrder(t *testing.T) {
	r := NewBotRegistry()
	r.Register(&stubBot{id: 3})
	r.Register(&stubBot{id: 1})
	r.Register(&stubBot{id: 2})

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].ID())
	assert.Equal(t, 1, all[1].ID())
	assert.Equal(t, 2, all[2].ID())
}

func TestBotRegistry_ReplaceSameID(t *testing.T) {
	r := NewBotRegistry()
	r.Register(&stubBot{id: 1, submitted: 1})
	r.Register(&stubBot{id: 2})
	r.Register(&stubBot{id: 1, submitted: 9})

	snapshot := r.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, 9, snapshot[0].FormsSubmitted)

	bot, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, 9, bot.Progress().FormsSubmitted)

	_, ok = r.Get(42)
	assert.False(t, ok)
}

func TestBotRegistry_AllReturnsCopy(t *testing.T) {
	r := NewBotRegistry()
	r.Register(&stubBot{id: 1})

	all := r.All()
	all[0] = &stubBot{id: 99}

	assert.Equal(t, 1, r.All()[0].ID())
}
