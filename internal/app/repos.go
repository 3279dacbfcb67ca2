package app

import (
	"gorm.io/gorm"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
)

type Repos struct {
	User            repos.UserRepo
	Suchar          repos.SucharRepo
	Vote            repos.VoteRepo
	Achievement     repos.AchievementRepo
	UserAchievement repos.UserAchievementRepo
	EventLog        repos.EventLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		Suchar:          repos.NewSucharRepo(db, log),
		Vote:            repos.NewVoteRepo(db, log),
		Achievement:     repos.NewAchievementRepo(db, log),
		UserAchievement: repos.NewUserAchievementRepo(db, log),
		EventLog:        repos.NewEventLogRepo(db, log),
	}
}
