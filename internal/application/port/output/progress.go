package output

import "formbot/internal/domain/entity"

type ProgressSource interface {
	ID() int
	Progress() entity.Progress
}

type BotRegistry interface {
	Register(bot ProgressSource)
	Get(id int) (ProgressSource, bool)
	All() []ProgressSource
	Snapshot() []entity.Progress
}
