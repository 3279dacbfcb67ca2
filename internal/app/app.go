package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron"
	"gorm.io/gorm"

	"github.com/MilBia/Suchar-Overflow/internal/db"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/middleware"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	scheduler *cron.Cron
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(log, cfg, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset)
	auth := middleware.NewAuthMiddleware(log, cfg.JWTSecretKey)
	router := wireRouter(log, handlerset, auth)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

// Start launches the in-process periodic award schedule when PERIODIC_CRON
// is configured. Each tick runs both periods against yesterday, same as
// the standalone command.
func (a *App) Start() error {
	if a == nil || a.Cfg.PeriodicCron == "" {
		return nil
	}
	scheduler := cron.New()
	err := scheduler.AddFunc(a.Cfg.PeriodicCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		ref := time.Now().In(a.Cfg.Location).AddDate(0, 0, -1)
		if _, err := a.Services.Periodic.RunAll(ctx, ref); err != nil {
			a.Log.Error("Scheduled periodic award run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule periodic awards: %w", err)
	}
	scheduler.Start()
	a.scheduler = scheduler
	a.Log.Info("Periodic award schedule started", "cron", a.Cfg.PeriodicCron)
	return nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Services.AwardBus != nil {
		_ = a.Services.AwardBus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
