package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/types"
	"github.com/MilBia/Suchar-Overflow/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	port := utils.GetEnv("POSTGRES_PORT", "5432", log)
	user := utils.GetEnv("POSTGRES_USER", "postgres", log)
	password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	name := utils.GetEnv("POSTGRES_NAME", "suchar_overflow", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

// AutoMigrateAll creates or updates the schema. The composite unique index
// on user_achievement (user_id, achievement_id) comes from the model tags
// and is what makes concurrent duplicate award inserts collapse to one row.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	return AutoMigrate(s.db)
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrate runs the shared migration set. Tests reuse it against an
// in-memory sqlite database.
func AutoMigrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&types.User{},
		&types.Suchar{},
		&types.Vote{},
		&types.Achievement{},
		&types.UserAchievement{},
		&types.AchievementEventLog{},
	)
}
