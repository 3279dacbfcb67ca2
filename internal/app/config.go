package app

import (
	"time"

	"github.com/MilBia/Suchar-Overflow/internal/achievements"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/utils"
)

type Config struct {
	JWTSecretKey string
	// CheckTimeout bounds one synchronous dispatch.
	CheckTimeout time.Duration
	// PeriodicWindow picks calendar or rolling award windows; applies to
	// both the in-process schedule and the CLI default.
	PeriodicWindow achievements.WindowKind
	// PeriodicCron, when set, runs the periodic awarder in-process on that
	// schedule (six-field cron expression). Empty disables it; most
	// deployments run cmd/award_periodic from the system scheduler instead.
	PeriodicCron string
	// Location is the timezone for calendar-date and time-of-day metrics.
	Location *time.Location
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	checkTimeoutMS := utils.GetEnvAsInt("CHECK_TIMEOUT_MS", 3000, log)
	window := achievements.WindowKind(utils.GetEnv("PERIODIC_WINDOW", string(achievements.WindowCalendar), log))
	periodicCron := utils.GetEnv("PERIODIC_CRON", "", log)

	loc := time.Local
	if tz := utils.GetEnv("ACHIEVEMENTS_TZ", "", log); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn("Invalid ACHIEVEMENTS_TZ, falling back to local time", "tz", tz, "error", err)
		} else {
			loc = parsed
		}
	}

	return Config{
		JWTSecretKey:   jwtSecretKey,
		CheckTimeout:   time.Duration(checkTimeoutMS) * time.Millisecond,
		PeriodicWindow: window,
		PeriodicCron:   periodicCron,
		Location:       loc,
	}
}
