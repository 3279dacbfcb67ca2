package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

// PeriodWinner is one row of the periodic leaderboard aggregation.
type PeriodWinner struct {
	AuthorID   uuid.UUID `gorm:"column:author_id"`
	TotalVotes int64     `gorm:"column:total_votes"`
}

type SucharRepo interface {
	Create(ctx context.Context, tx *gorm.DB, suchar *types.Suchar) error
	GetByID(ctx context.Context, id uuid.UUID) (*types.Suchar, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	CreationTimes(ctx context.Context, authorID uuid.UUID) ([]time.Time, error)
	TopAuthorInRange(ctx context.Context, start, end time.Time) (*PeriodWinner, error)
}

type sucharRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSucharRepo(db *gorm.DB, baseLog *logger.Logger) SucharRepo {
	return &sucharRepo{db: db, log: baseLog.With("repo", "SucharRepo")}
}

func (r *sucharRepo) Create(ctx context.Context, tx *gorm.DB, suchar *types.Suchar) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(suchar).Error
}

func (r *sucharRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Suchar, error) {
	var suchar types.Suchar
	if err := r.db.WithContext(ctx).First(&suchar, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &suchar, nil
}

func (r *sucharRepo) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&types.Suchar{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// CreationTimes returns every creation timestamp for the author's suchary,
// newest first. Calendar-date reduction happens in the caller, where the
// local timezone is known.
func (r *sucharRepo) CreationTimes(ctx context.Context, authorID uuid.UUID) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&types.Suchar{}).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Pluck("created_at", &times).Error
	return times, err
}

// TopAuthorInRange ranks authors of suchary created in [start, end) by total
// votes received on those suchary. Ordering is deterministic: vote count
// descending, then the author's earliest suchar in the window, then author
// id. Returns nil when the window holds no suchary at all.
func (r *sucharRepo) TopAuthorInRange(ctx context.Context, start, end time.Time) (*PeriodWinner, error) {
	var winner PeriodWinner
	result := r.db.WithContext(ctx).Raw(`
		SELECT s.author_id AS author_id,
		       COUNT(v.id) AS total_votes
		FROM suchar s
		LEFT JOIN vote v ON v.suchar_id = s.id
		WHERE s.created_at >= ? AND s.created_at < ?
		GROUP BY s.author_id
		ORDER BY total_votes DESC, MIN(s.created_at) ASC, author_id ASC
		LIMIT 1`, start, end).Scan(&winner)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &winner, nil
}
