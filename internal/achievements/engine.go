package achievements

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

// Notifier is told about every freshly inserted award. Implementations must
// be non-blocking best-effort; a nil notifier is valid.
type Notifier interface {
	AwardGranted(ctx context.Context, user uuid.UUID, achievement *types.Achievement)
}

// DispatchResult summarizes one synchronous check for logging and tests.
type DispatchResult struct {
	Candidates int
	Awarded    []string // slugs inserted by this dispatch
	Skipped    int      // candidates dropped by config error, eval failure or deadline
}

// Engine is the trigger dispatcher. It runs synchronously inside the
// request that created the triggering suchar or vote, after that write has
// committed. Nothing it does may fail the triggering write: every internal
// error is logged and absorbed here.
type Engine struct {
	log          *logger.Logger
	registry     *Registry
	achievements repos.AchievementRepo
	awards       repos.UserAchievementRepo
	eventLog     repos.EventLogRepo
	notifier     Notifier
	checkTimeout time.Duration
}

type EngineConfig struct {
	Registry     *Registry
	Achievements repos.AchievementRepo
	Awards       repos.UserAchievementRepo
	EventLog     repos.EventLogRepo
	Notifier     Notifier
	// CheckTimeout bounds one dispatch so slow evaluators cannot stall the
	// triggering request. Zero means 3s.
	CheckTimeout time.Duration
}

func NewEngine(baseLog *logger.Logger, cfg EngineConfig) *Engine {
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Engine{
		log:          baseLog.With("component", "AchievementEngine"),
		registry:     cfg.Registry,
		achievements: cfg.Achievements,
		awards:       cfg.Awards,
		eventLog:     cfg.EventLog,
		notifier:     cfg.Notifier,
		checkTimeout: timeout,
	}
}

// Check finds the candidate achievements for the event, evaluates each and
// inserts the qualifying awards. A candidate with an unknown metric or a
// failing evaluator is skipped, the rest still run. Duplicate inserts from
// concurrent dispatches resolve at the unique index and count as already
// awarded.
func (e *Engine) Check(ctx context.Context, userID uuid.UUID, eventType types.AchievementEvent, trigger *TriggerContext) *DispatchResult {
	ctx, cancel := context.WithTimeout(ctx, e.checkTimeout)
	defer cancel()

	result := &DispatchResult{}

	existing, err := e.awards.AchievementIDsByUser(ctx, userID)
	if err != nil {
		e.log.Error("Loading existing awards failed, dispatch dropped", "user_id", userID, "event_type", eventType, "error", err)
		return result
	}
	candidates, err := e.achievements.GetTriggerCandidates(ctx, eventType, existing)
	if err != nil {
		e.log.Error("Loading candidates failed, dispatch dropped", "user_id", userID, "event_type", eventType, "error", err)
		return result
	}
	result.Candidates = len(candidates)

	for i, candidate := range candidates {
		if ctx.Err() != nil {
			remaining := len(candidates) - i
			result.Skipped += remaining
			e.log.Warn("Dispatch deadline hit, skipping remaining candidates", "user_id", userID, "event_type", eventType, "remaining", remaining)
			break
		}

		evaluate, err := e.registry.Lookup(candidate.Metric)
		if err != nil {
			result.Skipped++
			e.log.Error("Candidate skipped", "slug", candidate.Slug, "error", err)
			continue
		}

		met, err := evaluate(ctx, EvalContext{
			UserID:    userID,
			Threshold: candidate.Threshold,
			Trigger:   trigger,
		})
		if err != nil {
			result.Skipped++
			e.log.Error("Evaluation failed, candidate skipped", "slug", candidate.Slug, "user_id", userID, "error", err)
			continue
		}
		if !met {
			continue
		}

		inserted, err := e.awards.CreateIfAbsent(ctx, nil, &types.UserAchievement{
			UserID:        userID,
			AchievementID: candidate.ID,
		})
		if err != nil {
			result.Skipped++
			e.log.Error("Award insert failed, candidate skipped", "slug", candidate.Slug, "user_id", userID, "error", err)
			continue
		}
		if !inserted {
			// A concurrent dispatch won the race. Already awarded, not an error.
			continue
		}
		result.Awarded = append(result.Awarded, candidate.Slug)
		e.log.Info("Achievement awarded", "slug", candidate.Slug, "user_id", userID)
		if e.notifier != nil {
			e.notifier.AwardGranted(ctx, userID, candidate)
		}
	}

	e.audit(ctx, userID, eventType, trigger, result)
	return result
}

// audit writes the dispatch record. Best effort only.
func (e *Engine) audit(ctx context.Context, userID uuid.UUID, eventType types.AchievementEvent, trigger *TriggerContext, result *DispatchResult) {
	if e.eventLog == nil {
		return
	}
	payload := map[string]any{"awarded": result.Awarded}
	if trigger != nil {
		if trigger.Suchar != nil {
			payload["suchar_id"] = trigger.Suchar.ID
		}
		if trigger.Vote != nil {
			payload["vote_id"] = trigger.Vote.ID
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := &types.AchievementEventLog{
		UserID:     userID,
		EventType:  eventType,
		Candidates: result.Candidates,
		Awarded:    len(result.Awarded),
		Skipped:    result.Skipped,
		Payload:    datatypes.JSON(raw),
	}
	if err := e.eventLog.Create(context.WithoutCancel(ctx), nil, entry); err != nil {
		e.log.Warn("Dispatch audit write failed", "user_id", userID, "error", err)
	}
}
