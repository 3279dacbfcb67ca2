package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type AchievementRepo interface {
	GetAll(ctx context.Context) ([]*types.Achievement, error)
	GetBySlug(ctx context.Context, slug string) (*types.Achievement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Achievement, error)
	// GetTriggerCandidates returns non-periodic definitions for the event
	// type, excluding the given already-awarded achievement ids.
	GetTriggerCandidates(ctx context.Context, eventType types.AchievementEvent, excludeIDs []uuid.UUID) ([]*types.Achievement, error)
	GetPeriodic(ctx context.Context) ([]*types.Achievement, error)
	UpsertBySlug(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) GetAll(ctx context.Context) ([]*types.Achievement, error) {
	var results []*types.Achievement
	err := r.db.WithContext(ctx).
		Order("theme ASC, tier ASC, slug ASC").
		Find(&results).Error
	return results, err
}

func (r *achievementRepo) GetBySlug(ctx context.Context, slug string) (*types.Achievement, error) {
	var achievement types.Achievement
	if err := r.db.WithContext(ctx).First(&achievement, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *achievementRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Achievement, error) {
	var achievement types.Achievement
	if err := r.db.WithContext(ctx).First(&achievement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *achievementRepo) GetTriggerCandidates(ctx context.Context, eventType types.AchievementEvent, excludeIDs []uuid.UUID) ([]*types.Achievement, error) {
	var results []*types.Achievement
	query := r.db.WithContext(ctx).
		Where("event_type = ?", eventType).
		Where("category <> ?", types.CategoryPeriodic)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Order("theme ASC, tier ASC, slug ASC").Find(&results).Error
	return results, err
}

func (r *achievementRepo) GetPeriodic(ctx context.Context) ([]*types.Achievement, error) {
	var results []*types.Achievement
	err := r.db.WithContext(ctx).
		Where("category = ?", types.CategoryPeriodic).
		Order("slug ASC").
		Find(&results).Error
	return results, err
}

// UpsertBySlug inserts or refreshes a catalog definition, keyed by slug.
// Used only by the seeding command; the engine never writes the catalog.
func (r *achievementRepo) UpsertBySlug(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "icon_content", "category", "event_type",
			"metric", "threshold", "theme", "tier", "is_secret", "updated_at",
		}),
	}).Create(achievement).Error
}
