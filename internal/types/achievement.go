package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementCategory string

const (
	CategoryLifetime AchievementCategory = "LIFETIME"
	CategoryPeriodic AchievementCategory = "PERIODIC"
	CategoryStreak   AchievementCategory = "STREAK"
)

type AchievementEvent string

const (
	EventSucharPosted AchievementEvent = "SUCHAR_POSTED"
	EventVoteReceived AchievementEvent = "VOTE_RECEIVED"
	EventVoteCast     AchievementEvent = "VOTE_CAST"
)

type Metric string

const (
	MetricCountSuchar          Metric = "COUNT_SUCHAR"
	MetricCountVoteCast        Metric = "COUNT_VOTE_CAST"
	MetricCountVoteReceivedDry Metric = "COUNT_VOTE_RECEIVED_DRY"
	MetricSumScore             Metric = "SUM_SCORE"
	MetricNightOwl             Metric = "NIGHT_OWL"
	MetricStreakLogin          Metric = "STREAK_LOGIN"
	MetricPolarizer            Metric = "POLARIZER"
)

// TierNone marks a standalone achievement outside any themed series.
const TierNone = 0

// Achievement is a catalog definition. Rows are seeded as configuration and
// edited administratively; the engine only ever reads them.
type Achievement struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string              `gorm:"not null;uniqueIndex" json:"slug"`
	Name        string              `gorm:"not null" json:"name"`
	Description string              `gorm:"not null" json:"description"`
	IconContent string              `json:"icon_content"` // raw SVG, opaque to the engine
	Category    AchievementCategory `gorm:"not null;index" json:"category"`
	EventType   AchievementEvent    `gorm:"not null;index" json:"event_type"`
	Metric      Metric              `gorm:"not null" json:"metric"`
	Threshold   int                 `gorm:"not null;default:1" json:"threshold"`
	Theme       string              `gorm:"index" json:"theme"`
	Tier        int                 `gorm:"not null;default:0" json:"tier"`
	IsSecret    bool                `gorm:"not null;default:false" json:"is_secret"`
	CreatedAt   time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"not null" json:"updated_at"`
}

func (Achievement) TableName() string { return "achievement" }

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Standalone reports whether the achievement sits outside any tier series
// and is therefore always visible.
func (a *Achievement) Standalone() bool {
	return a.Theme == "" || a.Tier == TierNone
}
