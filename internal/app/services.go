package app

import (
	"os"

	"github.com/MilBia/Suchar-Overflow/internal/achievements"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/services"
)

type Services struct {
	Suchar      services.SucharService
	Vote        services.VoteService
	Achievement services.AchievementService
	AwardBus    services.AwardBus

	Registry *achievements.Registry
	Engine   *achievements.Engine
	Periodic *achievements.PeriodicAwarder
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	var bus services.AwardBus
	var notifier achievements.Notifier
	if os.Getenv("REDIS_ADDR") != "" {
		redisBus, err := services.NewRedisAwardBus(log)
		if err != nil {
			return Services{}, err
		}
		bus = redisBus
		notifier = redisBus
	} else {
		log.Info("REDIS_ADDR not set, award bus disabled")
	}

	registry := achievements.NewRegistry(
		achievements.NewQueries(reposet.Suchar, reposet.Vote),
		cfg.Location,
	)

	engine := achievements.NewEngine(log, achievements.EngineConfig{
		Registry:     registry,
		Achievements: reposet.Achievement,
		Awards:       reposet.UserAchievement,
		EventLog:     reposet.EventLog,
		Notifier:     notifier,
		CheckTimeout: cfg.CheckTimeout,
	})

	periodic := achievements.NewPeriodicAwarder(
		log,
		reposet.Suchar,
		reposet.Achievement,
		reposet.UserAchievement,
		notifier,
		cfg.PeriodicWindow,
		cfg.Location,
	)

	return Services{
		Suchar:      services.NewSucharService(log, reposet.Suchar, engine),
		Vote:        services.NewVoteService(log, reposet.Vote, reposet.Suchar, engine),
		Achievement: services.NewAchievementService(log, reposet.Achievement, reposet.UserAchievement),
		AwardBus:    bus,
		Registry:    registry,
		Engine:      engine,
		Periodic:    periodic,
	}, nil
}
