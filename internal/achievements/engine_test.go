package achievements

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) AwardGranted(_ context.Context, _ uuid.UUID, achievement *types.Achievement) {
	n.calls = append(n.calls, achievement.Slug)
}

type engineFixture struct {
	db       *gorm.DB
	engine   *Engine
	suchary  repos.SucharRepo
	votes    repos.VoteRepo
	awards   repos.UserAchievementRepo
	notifier *recordingNotifier
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	gormDB := openTestDB(t)
	log := logger.NewNop()
	suchary := repos.NewSucharRepo(gormDB, log)
	votes := repos.NewVoteRepo(gormDB, log)
	awards := repos.NewUserAchievementRepo(gormDB, log)
	notifier := &recordingNotifier{}
	engine := NewEngine(log, EngineConfig{
		Registry:     NewRegistry(NewQueries(suchary, votes), time.UTC),
		Achievements: repos.NewAchievementRepo(gormDB, log),
		Awards:       awards,
		EventLog:     repos.NewEventLogRepo(gormDB, log),
		Notifier:     notifier,
	})
	return &engineFixture{
		db:       gormDB,
		engine:   engine,
		suchary:  suchary,
		votes:    votes,
		awards:   awards,
		notifier: notifier,
	}
}

func (f *engineFixture) createUser(t *testing.T) uuid.UUID {
	t.Helper()
	user := &types.User{Username: "user-" + uuid.NewString()}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

func (f *engineFixture) createAchievement(t *testing.T, a *types.Achievement) *types.Achievement {
	t.Helper()
	if a.Category == "" {
		a.Category = types.CategoryLifetime
	}
	if err := f.db.Create(a).Error; err != nil {
		t.Fatalf("create achievement %s: %v", a.Slug, err)
	}
	return a
}

func (f *engineFixture) postSuchar(t *testing.T, authorID uuid.UUID) *types.Suchar {
	t.Helper()
	suchar := &types.Suchar{AuthorID: authorID, Text: "Dlaczego komputer poszedł do lekarza? Bo złapał wirusa."}
	if err := f.suchary.Create(context.Background(), nil, suchar); err != nil {
		t.Fatalf("create suchar: %v", err)
	}
	return suchar
}

func (f *engineFixture) awardCount(t *testing.T, userID uuid.UUID) int {
	t.Helper()
	rows, err := f.awards.GetByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	return len(rows)
}

func TestCheckAwardsOnThreshold(t *testing.T) {
	f := newEngineFixture(t)
	f.createAchievement(t, &types.Achievement{
		Slug:      "first-suchar",
		Name:      "Pierwszy Suchar",
		EventType: types.EventSucharPosted,
		Metric:    types.MetricCountSuchar,
		Threshold: 1,
	})
	userID := f.createUser(t)
	suchar := f.postSuchar(t, userID)

	result := f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: suchar})
	if result.Candidates != 1 {
		t.Fatalf("candidates: want=1 got=%d", result.Candidates)
	}
	if len(result.Awarded) != 1 || result.Awarded[0] != "first-suchar" {
		t.Fatalf("awarded: want=[first-suchar] got=%v", result.Awarded)
	}
	if got := f.awardCount(t, userID); got != 1 {
		t.Fatalf("ledger rows: want=1 got=%d", got)
	}
	if len(f.notifier.calls) != 1 || f.notifier.calls[0] != "first-suchar" {
		t.Fatalf("notifier calls: want=[first-suchar] got=%v", f.notifier.calls)
	}
}

func TestCheckBelowThreshold(t *testing.T) {
	f := newEngineFixture(t)
	f.createAchievement(t, &types.Achievement{
		Slug:      "prolific",
		Name:      "Płodny",
		EventType: types.EventSucharPosted,
		Metric:    types.MetricCountSuchar,
		Threshold: 25,
	})
	userID := f.createUser(t)
	suchar := f.postSuchar(t, userID)

	result := f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: suchar})
	if len(result.Awarded) != 0 {
		t.Fatalf("awarded: want=[] got=%v", result.Awarded)
	}
	if got := f.awardCount(t, userID); got != 0 {
		t.Fatalf("ledger rows: want=0 got=%d", got)
	}
}

func TestCheckAtMostOnce(t *testing.T) {
	f := newEngineFixture(t)
	f.createAchievement(t, &types.Achievement{
		Slug:      "first-suchar",
		Name:      "Pierwszy Suchar",
		EventType: types.EventSucharPosted,
		Metric:    types.MetricCountSuchar,
		Threshold: 1,
	})
	userID := f.createUser(t)

	// Every new suchar re-fires the check, the badge must land once.
	for i := 0; i < 3; i++ {
		suchar := f.postSuchar(t, userID)
		f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: suchar})
	}
	if got := f.awardCount(t, userID); got != 1 {
		t.Fatalf("ledger rows: want=1 got=%d", got)
	}
	if len(f.notifier.calls) != 1 {
		t.Fatalf("notifier calls: want=1 got=%d", len(f.notifier.calls))
	}
}

func TestCheckExcludesAlreadyAwarded(t *testing.T) {
	f := newEngineFixture(t)
	achievement := f.createAchievement(t, &types.Achievement{
		Slug:      "first-suchar",
		Name:      "Pierwszy Suchar",
		EventType: types.EventSucharPosted,
		Metric:    types.MetricCountSuchar,
		Threshold: 1,
	})
	userID := f.createUser(t)
	if _, err := f.awards.CreateIfAbsent(context.Background(), nil, &types.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
	}); err != nil {
		t.Fatalf("pre-insert award: %v", err)
	}
	suchar := f.postSuchar(t, userID)

	result := f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: suchar})
	if result.Candidates != 0 {
		t.Fatalf("candidates: want=0 got=%d", result.Candidates)
	}
	if len(f.notifier.calls) != 0 {
		t.Fatalf("notifier calls: want=0 got=%d", len(f.notifier.calls))
	}
}

func TestCheckSkipsUnknownMetric(t *testing.T) {
	f := newEngineFixture(t)
	f.createAchievement(t, &types.Achievement{
		Slug:      "mystery",
		Name:      "Zagadka",
		EventType: types.EventSucharPosted,
		Metric:    types.Metric("COUNT_BANANA"),
		Threshold: 1,
	})
	f.createAchievement(t, &types.Achievement{
		Slug:      "first-suchar",
		Name:      "Pierwszy Suchar",
		EventType: types.EventSucharPosted,
		Metric:    types.MetricCountSuchar,
		Threshold: 1,
	})
	userID := f.createUser(t)
	suchar := f.postSuchar(t, userID)

	// The bad definition is skipped, the good one still lands.
	result := f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: suchar})
	if result.Skipped != 1 {
		t.Fatalf("skipped: want=1 got=%d", result.Skipped)
	}
	if len(result.Awarded) != 1 || result.Awarded[0] != "first-suchar" {
		t.Fatalf("awarded: want=[first-suchar] got=%v", result.Awarded)
	}
}

func TestCheckUnlocksEveryMetTier(t *testing.T) {
	f := newEngineFixture(t)
	for _, def := range []struct {
		slug      string
		threshold int
		tier      int
	}{
		{slug: "creator-braz", threshold: 1, tier: 1},
		{slug: "creator-srebro", threshold: 3, tier: 2},
		{slug: "creator-zloto", threshold: 10, tier: 3},
	} {
		f.createAchievement(t, &types.Achievement{
			Slug:      def.slug,
			Name:      def.slug,
			EventType: types.EventSucharPosted,
			Metric:    types.MetricCountSuchar,
			Threshold: def.threshold,
			Theme:     "Twórca",
			Tier:      def.tier,
		})
	}
	userID := f.createUser(t)
	var last *types.Suchar
	for i := 0; i < 3; i++ {
		last = f.postSuchar(t, userID)
	}

	// One dispatch after the third post grants both met tiers at once.
	result := f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: last})
	if len(result.Awarded) != 2 {
		t.Fatalf("awarded: want=2 got=%v", result.Awarded)
	}
	if got := f.awardCount(t, userID); got != 2 {
		t.Fatalf("ledger rows: want=2 got=%d", got)
	}
}

func TestCheckIgnoresPeriodicDefinitions(t *testing.T) {
	f := newEngineFixture(t)
	f.createAchievement(t, &types.Achievement{
		Slug:      SlugBestOfMonth,
		Name:      "Komik Miesiąca",
		Category:  types.CategoryPeriodic,
		EventType: types.EventSucharPosted,
		Metric:    types.MetricSumScore,
		Threshold: 1,
	})
	userID := f.createUser(t)
	suchar := f.postSuchar(t, userID)

	result := f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: suchar})
	if result.Candidates != 0 {
		t.Fatalf("candidates: want=0 got=%d", result.Candidates)
	}
}

func TestCheckVoteReceivedForAuthor(t *testing.T) {
	f := newEngineFixture(t)
	f.createAchievement(t, &types.Achievement{
		Slug:      "first-dry",
		Name:      "Pierwszy Suchy",
		EventType: types.EventVoteReceived,
		Metric:    types.MetricCountVoteReceivedDry,
		Threshold: 1,
	})
	authorID := f.createUser(t)
	voterID := f.createUser(t)
	suchar := f.postSuchar(t, authorID)
	vote := &types.Vote{SucharID: suchar.ID, UserID: voterID, IsDry: true}
	if err := f.votes.Create(context.Background(), nil, vote); err != nil {
		t.Fatalf("create vote: %v", err)
	}

	result := f.engine.Check(context.Background(), authorID, types.EventVoteReceived, &TriggerContext{Vote: vote})
	if len(result.Awarded) != 1 || result.Awarded[0] != "first-dry" {
		t.Fatalf("awarded: want=[first-dry] got=%v", result.Awarded)
	}
	// The voter earned nothing from the author's event.
	if got := f.awardCount(t, voterID); got != 0 {
		t.Fatalf("voter ledger rows: want=0 got=%d", got)
	}
}

func TestCheckWritesAuditRow(t *testing.T) {
	f := newEngineFixture(t)
	f.createAchievement(t, &types.Achievement{
		Slug:      "first-suchar",
		Name:      "Pierwszy Suchar",
		EventType: types.EventSucharPosted,
		Metric:    types.MetricCountSuchar,
		Threshold: 1,
	})
	userID := f.createUser(t)
	suchar := f.postSuchar(t, userID)

	f.engine.Check(context.Background(), userID, types.EventSucharPosted, &TriggerContext{Suchar: suchar})

	var entries []*types.AchievementEventLog
	if err := f.db.Find(&entries).Error; err != nil {
		t.Fatalf("load audit rows: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit rows: want=1 got=%d", len(entries))
	}
	entry := entries[0]
	if entry.UserID != userID || entry.EventType != types.EventSucharPosted {
		t.Fatalf("audit row: got user=%s event=%s", entry.UserID, entry.EventType)
	}
	if entry.Candidates != 1 || entry.Awarded != 1 {
		t.Fatalf("audit counts: want candidates=1 awarded=1 got candidates=%d awarded=%d", entry.Candidates, entry.Awarded)
	}
}
