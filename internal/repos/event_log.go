package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type EventLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.AchievementEventLog) error
}

type eventLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventLogRepo(db *gorm.DB, baseLog *logger.Logger) EventLogRepo {
	return &eventLogRepo{db: db, log: baseLog.With("repo", "EventLogRepo")}
}

func (r *eventLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.AchievementEventLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}
