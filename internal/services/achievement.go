package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/achievements"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

// VisibleAchievement is the read-side shape handed to the presentation
// layer: the catalog entry plus this user's earned state. For a locked
// secret entry the name, description and icon are withheld and only the
// Secret flag survives.
type VisibleAchievement struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IconContent string     `json:"icon_content"`
	Theme       string     `json:"theme"`
	Tier        int        `json:"tier"`
	Secret      bool       `json:"secret"`
	Earned      bool       `json:"earned"`
	AwardedAt   *time.Time `json:"awarded_at,omitempty"`
}

type AchievementService interface {
	ListVisible(ctx context.Context, userID uuid.UUID) ([]*VisibleAchievement, error)
	Unseen(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
	MarkSeen(ctx context.Context, userID, achievementID uuid.UUID) error
}

type achievementService struct {
	log          *logger.Logger
	achievements repos.AchievementRepo
	awards       repos.UserAchievementRepo
}

func NewAchievementService(baseLog *logger.Logger, achievementRepo repos.AchievementRepo, awards repos.UserAchievementRepo) AchievementService {
	return &achievementService{
		log:          baseLog.With("service", "AchievementService"),
		achievements: achievementRepo,
		awards:       awards,
	}
}

func (s *achievementService) ListVisible(ctx context.Context, userID uuid.UUID) ([]*VisibleAchievement, error) {
	catalog, err := s.achievements.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	granted, err := s.awards.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned := make(map[uuid.UUID]bool, len(granted))
	awardedAt := make(map[uuid.UUID]time.Time, len(granted))
	for _, award := range granted {
		earned[award.AchievementID] = true
		awardedAt[award.AchievementID] = award.AwardedAt
	}

	visible := achievements.VisibleAchievements(catalog, earned)
	out := make([]*VisibleAchievement, 0, len(visible))
	for _, a := range visible {
		entry := &VisibleAchievement{
			ID:          a.ID,
			Slug:        a.Slug,
			Name:        a.Name,
			Description: a.Description,
			IconContent: a.IconContent,
			Theme:       a.Theme,
			Tier:        a.Tier,
			Earned:      earned[a.ID],
		}
		if at, ok := awardedAt[a.ID]; ok {
			t := at
			entry.AwardedAt = &t
		}
		if a.IsSecret && !entry.Earned {
			entry.Secret = true
			entry.Name = ""
			entry.Description = ""
			entry.IconContent = ""
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *achievementService) Unseen(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
	return s.awards.GetUnseen(ctx, userID)
}

func (s *achievementService) MarkSeen(ctx context.Context, userID, achievementID uuid.UUID) error {
	return s.awards.MarkSeen(ctx, userID, achievementID)
}
