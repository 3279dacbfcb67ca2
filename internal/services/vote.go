package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/achievements"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type VoteService interface {
	Create(ctx context.Context, voterID, sucharID uuid.UUID, funny bool) (*types.Vote, error)
}

type voteService struct {
	log     *logger.Logger
	votes   repos.VoteRepo
	suchary repos.SucharRepo
	engine  *achievements.Engine
}

func NewVoteService(baseLog *logger.Logger, votes repos.VoteRepo, suchary repos.SucharRepo, engine *achievements.Engine) VoteService {
	return &voteService{
		log:     baseLog.With("service", "VoteService"),
		votes:   votes,
		suchary: suchary,
		engine:  engine,
	}
}

// Create records the vote, then fires two achievement checks: VOTE_CAST for
// the voter and VOTE_RECEIVED for the suchar's author. Both carry the vote
// as trigger context. Only initial creation fires; toggling polarity later
// or retracting the vote never re-runs evaluation, and an award earned from
// a since-retracted vote stays granted.
func (s *voteService) Create(ctx context.Context, voterID, sucharID uuid.UUID, funny bool) (*types.Vote, error) {
	suchar, err := s.suchary.GetByID(ctx, sucharID)
	if err != nil {
		return nil, fmt.Errorf("load suchar: %w", err)
	}

	vote := &types.Vote{
		SucharID: sucharID,
		UserID:   voterID,
		IsFunny:  funny,
		IsDry:    !funny,
	}
	if err := s.votes.Create(ctx, nil, vote); err != nil {
		return nil, fmt.Errorf("create vote: %w", err)
	}

	trigger := &achievements.TriggerContext{Vote: vote}
	s.engine.Check(ctx, voterID, types.EventVoteCast, trigger)
	s.engine.Check(ctx, suchar.AuthorID, types.EventVoteReceived, trigger)

	return vote, nil
}
