package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/achievements"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type SucharService interface {
	Create(ctx context.Context, authorID uuid.UUID, text string) (*types.Suchar, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Suchar, error)
}

type sucharService struct {
	log     *logger.Logger
	suchary repos.SucharRepo
	engine  *achievements.Engine
}

func NewSucharService(baseLog *logger.Logger, suchary repos.SucharRepo, engine *achievements.Engine) SucharService {
	return &sucharService{
		log:     baseLog.With("service", "SucharService"),
		suchary: suchary,
		engine:  engine,
	}
}

// Create persists the suchar, then fires the SUCHAR_POSTED achievement
// check for its author. The check runs only on creation (never on edit or
// delete) and cannot fail the write: by the time it runs the suchar is
// already committed.
func (s *sucharService) Create(ctx context.Context, authorID uuid.UUID, text string) (*types.Suchar, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("suchar text is required")
	}
	suchar := &types.Suchar{AuthorID: authorID, Text: text}
	if err := s.suchary.Create(ctx, nil, suchar); err != nil {
		return nil, fmt.Errorf("create suchar: %w", err)
	}

	s.engine.Check(ctx, authorID, types.EventSucharPosted, &achievements.TriggerContext{Suchar: suchar})

	return suchar, nil
}

func (s *sucharService) GetByID(ctx context.Context, id uuid.UUID) (*types.Suchar, error) {
	return s.suchary.GetByID(ctx, id)
}
