package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type VoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, vote *types.Vote) error
	GetByID(ctx context.Context, id uuid.UUID) (*types.Vote, error)
	CountByVoter(ctx context.Context, voterID uuid.UUID) (int64, error)
	CountDryReceived(ctx context.Context, authorID uuid.UUID) (int64, error)
	NetScoreReceived(ctx context.Context, authorID uuid.UUID) (int64, error)
	MaxBalancedVoteCount(ctx context.Context, authorID uuid.UUID) (int64, error)
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return &voteRepo{db: db, log: baseLog.With("repo", "VoteRepo")}
}

func (r *voteRepo) Create(ctx context.Context, tx *gorm.DB, vote *types.Vote) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(vote).Error
}

func (r *voteRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Vote, error) {
	var vote types.Vote
	if err := r.db.WithContext(ctx).First(&vote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

// CountByVoter counts every vote the user has cast, regardless of polarity.
func (r *voteRepo) CountByVoter(ctx context.Context, voterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&types.Vote{}).
		Where("user_id = ?", voterID).
		Count(&count).Error
	return count, err
}

// CountDryReceived counts dry votes received across all of the author's
// suchary.
func (r *voteRepo) CountDryReceived(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM vote v
		JOIN suchar s ON s.id = v.suchar_id
		WHERE s.author_id = ? AND v.is_dry`, authorID).Scan(&count).Error
	return count, err
}

// NetScoreReceived sums +1 per funny vote and -1 per dry vote over all votes
// received on the author's suchary.
func (r *voteRepo) NetScoreReceived(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var score int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE WHEN v.is_funny THEN 1 WHEN v.is_dry THEN -1 ELSE 0 END), 0)
		FROM vote v
		JOIN suchar s ON s.id = v.suchar_id
		WHERE s.author_id = ?`, authorID).Scan(&score).Error
	return score, err
}

// MaxBalancedVoteCount returns the largest per-side vote count among the
// author's suchary whose funny and dry counts are exactly equal, or 0 when
// no suchar is balanced.
func (r *voteRepo) MaxBalancedVoteCount(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var best int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(funny), 0) FROM (
			SELECT v.suchar_id,
			       SUM(CASE WHEN v.is_funny THEN 1 ELSE 0 END) AS funny,
			       SUM(CASE WHEN v.is_dry THEN 1 ELSE 0 END) AS dry
			FROM vote v
			JOIN suchar s ON s.id = v.suchar_id
			WHERE s.author_id = ?
			GROUP BY v.suchar_id
			HAVING SUM(CASE WHEN v.is_funny THEN 1 ELSE 0 END) = SUM(CASE WHEN v.is_dry THEN 1 ELSE 0 END)
		) balanced`, authorID).Scan(&best).Error
	return best, err
}
