package app

import (
	"github.com/MilBia/Suchar-Overflow/internal/handlers"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
)

type Handlers struct {
	Achievement *handlers.AchievementHandler
	Suchar      *handlers.SucharHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Achievement: handlers.NewAchievementHandler(serviceset.Achievement),
		Suchar:      handlers.NewSucharHandler(serviceset.Suchar, serviceset.Vote),
	}
}
