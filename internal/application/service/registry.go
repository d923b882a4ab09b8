package service

import (
	"sync"

	"formbot/internal/application/port/output"
	"formbot/internal/domain/entity"
)

var _ output.BotRegistry = (*BotRegistryImpl)(nil)

// BotRegistryImpl keeps bots in registration order so reports are stable.
type BotRegistryImpl struct {
	mu    sync.RWMutex
	order []output.ProgressSource
	bots  map[int]output.ProgressSource
}

func NewBotRegistry() *BotRegistryImpl {
	return &BotRegistryImpl{
		bots: make(map[int]output.ProgressSource),
	}
}

func (r *BotRegistryImpl) Register(bot output.ProgressSource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bots[bot.ID()]; exists {
		for i, b := range r.order {
			if b.ID() == bot.ID() {
				r.order[i] = bot
			}
		}
	} else {
		r.order = append(r.order, bot)
	}
	r.bots[bot.ID()] = bot
}

func (r *BotRegistryImpl) Get(id int) (output.ProgressSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bot, ok := r.bots[id]
	return bot, ok
}

func (r *BotRegistryImpl) All() []output.ProgressSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]output.ProgressSource, len(r.order))
	copy(result, r.order)
	return result
}

func (r *BotRegistryImpl) Snapshot() []entity.Progress {
	bots := r.All()

	result := make([]entity.Progress, 0, len(bots))
	for _, bot := range bots {
		result = append(result, bot.Progress())
	}
	return result
}
