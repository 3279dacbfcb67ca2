package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type UserAchievementRepo interface {
	// CreateIfAbsent inserts the award unless a row for the same
	// (user, achievement) pair already exists. Reports whether a row was
	// actually inserted; losing the race to a concurrent insert is not an
	// error.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, award *types.UserAchievement) (bool, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
	AchievementIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetUnseen(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
	MarkSeen(ctx context.Context, userID, achievementID uuid.UUID) error
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return &userAchievementRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (r *userAchievementRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, award *types.UserAchievement) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(award)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *userAchievementRepo) GetByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
	var results []*types.UserAchievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&results).Error
	return results, err
}

func (r *userAchievementRepo) AchievementIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	return ids, err
}

func (r *userAchievementRepo) GetUnseen(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
	var results []*types.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ? AND is_seen = ?", userID, false).
		Order("awarded_at ASC").
		Find(&results).Error
	return results, err
}

// MarkSeen flips is_seen for the award. Idempotent: marking an already seen
// or never granted award changes nothing.
func (r *userAchievementRepo) MarkSeen(ctx context.Context, userID, achievementID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Update("is_seen", true).Error
}
