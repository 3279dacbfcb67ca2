package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

// AwardMessage is the wire shape published for every fresh award. The
// presentation side subscribes for its toast banners; this service only
// emits.
type AwardMessage struct {
	UserID        uuid.UUID `json:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	AwardedAt     time.Time `json:"awarded_at"`
}

type AwardBus interface {
	AwardGranted(ctx context.Context, user uuid.UUID, achievement *types.Achievement)
	Close() error
}

type redisAwardBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisAwardBus connects to the redis instance named by REDIS_ADDR.
// Missing address is an error; the caller decides whether the bus is
// optional for its deployment.
func NewRedisAwardBus(baseLog *logger.Logger) (AwardBus, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := strings.TrimSpace(os.Getenv("REDIS_AWARD_CHANNEL"))
	if channel == "" {
		channel = "achievements.awarded"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisAwardBus{
		log:     baseLog.With("service", "RedisAwardBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

// AwardGranted publishes the award. Best effort: a publish failure is
// logged and swallowed, never surfaced to the dispatch that granted the
// award.
func (b *redisAwardBus) AwardGranted(ctx context.Context, user uuid.UUID, achievement *types.Achievement) {
	msg := AwardMessage{
		UserID:        user,
		AchievementID: achievement.ID,
		Slug:          achievement.Slug,
		Name:          achievement.Name,
		AwardedAt:     time.Now(),
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		b.log.Warn("Award message marshal failed", "slug", achievement.Slug, "error", err)
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := b.rdb.Publish(pubCtx, b.channel, raw).Err(); err != nil {
		b.log.Warn("Award publish failed", "slug", achievement.Slug, "user_id", user, "error", err)
	}
}

func (b *redisAwardBus) Close() error {
	return b.rdb.Close()
}
