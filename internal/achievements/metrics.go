package achievements

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

// TriggerContext carries the entity whose creation fired the dispatch. At
// most one field is set. Metrics that only aggregate history ignore it;
// NIGHT_OWL needs the triggering suchar and returns false without it.
type TriggerContext struct {
	Suchar *types.Suchar
	Vote   *types.Vote
}

// EvalContext is one evaluation request: the user under test, the
// threshold from the catalog entry, and the optional trigger.
type EvalContext struct {
	UserID    uuid.UUID
	Threshold int
	Trigger   *TriggerContext
}

type EvaluatorFunc func(ctx context.Context, ec EvalContext) (bool, error)

// Queries is the aggregate read surface the evaluators run against.
// Every metric is recomputed from full history on demand; nothing keeps
// running totals. A check fires once per qualifying event and stops firing
// for good once the award exists, so the recompute cost is bounded.
type Queries interface {
	CountSuchary(ctx context.Context, userID uuid.UUID) (int64, error)
	CountVotesCast(ctx context.Context, userID uuid.UUID) (int64, error)
	CountDryReceived(ctx context.Context, userID uuid.UUID) (int64, error)
	NetScoreReceived(ctx context.Context, userID uuid.UUID) (int64, error)
	SucharCreationTimes(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
	MaxBalancedVoteCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repoQueries struct {
	suchary repos.SucharRepo
	votes   repos.VoteRepo
}

// NewQueries adapts the content and vote repos into the evaluator read
// surface.
func NewQueries(suchary repos.SucharRepo, votes repos.VoteRepo) Queries {
	return &repoQueries{suchary: suchary, votes: votes}
}

func (q *repoQueries) CountSuchary(ctx context.Context, userID uuid.UUID) (int64, error) {
	return q.suchary.CountByAuthor(ctx, userID)
}

func (q *repoQueries) CountVotesCast(ctx context.Context, userID uuid.UUID) (int64, error) {
	return q.votes.CountByVoter(ctx, userID)
}

func (q *repoQueries) CountDryReceived(ctx context.Context, userID uuid.UUID) (int64, error) {
	return q.votes.CountDryReceived(ctx, userID)
}

func (q *repoQueries) NetScoreReceived(ctx context.Context, userID uuid.UUID) (int64, error) {
	return q.votes.NetScoreReceived(ctx, userID)
}

func (q *repoQueries) SucharCreationTimes(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	return q.suchary.CreationTimes(ctx, userID)
}

func (q *repoQueries) MaxBalancedVoteCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return q.votes.MaxBalancedVoteCount(ctx, userID)
}

// Registry maps the closed metric enumeration to evaluators. Built once at
// startup and passed by reference; never mutated afterwards.
type Registry struct {
	evaluators map[types.Metric]EvaluatorFunc
	loc        *time.Location
}

// NewRegistry wires one evaluator per known metric against the given query
// surface. loc is the timezone used for calendar-date and time-of-day
// metrics; nil means time.Local.
func NewRegistry(queries Queries, loc *time.Location) *Registry {
	if loc == nil {
		loc = time.Local
	}
	r := &Registry{loc: loc}
	r.evaluators = map[types.Metric]EvaluatorFunc{
		types.MetricCountSuchar: func(ctx context.Context, ec EvalContext) (bool, error) {
			count, err := queries.CountSuchary(ctx, ec.UserID)
			return count >= int64(ec.Threshold), err
		},
		types.MetricCountVoteCast: func(ctx context.Context, ec EvalContext) (bool, error) {
			count, err := queries.CountVotesCast(ctx, ec.UserID)
			return count >= int64(ec.Threshold), err
		},
		types.MetricCountVoteReceivedDry: func(ctx context.Context, ec EvalContext) (bool, error) {
			count, err := queries.CountDryReceived(ctx, ec.UserID)
			return count >= int64(ec.Threshold), err
		},
		types.MetricSumScore: func(ctx context.Context, ec EvalContext) (bool, error) {
			score, err := queries.NetScoreReceived(ctx, ec.UserID)
			return score >= int64(ec.Threshold), err
		},
		types.MetricNightOwl:    r.evaluateNightOwl,
		types.MetricStreakLogin: r.evaluateStreak(queries),
		types.MetricPolarizer: func(ctx context.Context, ec EvalContext) (bool, error) {
			best, err := queries.MaxBalancedVoteCount(ctx, ec.UserID)
			return best >= int64(ec.Threshold), err
		},
	}
	return r
}

// Lookup returns the evaluator for the metric, or ErrUnknownMetric.
func (r *Registry) Lookup(metric types.Metric) (EvaluatorFunc, error) {
	eval, ok := r.evaluators[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
	return eval, nil
}

// Validate rejects catalog entries referencing unregistered metrics. Run
// at seed time so a bad catalog is caught before it silently skips
// candidates at dispatch time.
func (r *Registry) Validate(catalog []*types.Achievement) error {
	for _, a := range catalog {
		if _, ok := r.evaluators[a.Metric]; !ok {
			return fmt.Errorf("achievement %q: %w: %s", a.Slug, ErrUnknownMetric, a.Metric)
		}
	}
	return nil
}

// evaluateNightOwl checks only the triggering suchar: its creation time in
// local time must fall between midnight and 04:00 inclusive, and its author
// must be the evaluated user. History is never re-scanned, so without a
// triggering suchar in context the verdict is false.
func (r *Registry) evaluateNightOwl(_ context.Context, ec EvalContext) (bool, error) {
	if ec.Trigger == nil || ec.Trigger.Suchar == nil {
		return false, nil
	}
	suchar := ec.Trigger.Suchar
	if suchar.AuthorID != ec.UserID {
		return false, nil
	}
	local := suchar.CreatedAt.In(r.loc)
	sinceMidnight := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
	return sinceMidnight <= 4*time.Hour, nil
}

// evaluateStreak counts the maximal run of consecutive local calendar dates
// on which the user posted, starting from the most recent posting date. Any
// gap ends the run.
func (r *Registry) evaluateStreak(queries Queries) EvaluatorFunc {
	return func(ctx context.Context, ec EvalContext) (bool, error) {
		times, err := queries.SucharCreationTimes(ctx, ec.UserID)
		if err != nil {
			return false, err
		}
		dates := distinctLocalDates(times, r.loc)
		if len(dates) == 0 {
			return ec.Threshold <= 0, nil
		}
		run := 1
		for i := 1; i < len(dates); i++ {
			if dates[i-1].AddDate(0, 0, -1).Equal(dates[i]) {
				run++
				continue
			}
			break
		}
		return run >= ec.Threshold, nil
	}
}

// distinctLocalDates reduces timestamps to their distinct local calendar
// dates, newest first.
func distinctLocalDates(times []time.Time, loc *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(times))
	dates := make([]time.Time, 0, len(times))
	for _, t := range times {
		local := t.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}
