package achievements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type fakeQueries struct {
	suchary   int64
	votesCast int64
	dry       int64
	score     int64
	balanced  int64
	times     []time.Time
	err       error
}

func (f *fakeQueries) CountSuchary(context.Context, uuid.UUID) (int64, error) {
	return f.suchary, f.err
}
func (f *fakeQueries) CountVotesCast(context.Context, uuid.UUID) (int64, error) {
	return f.votesCast, f.err
}
func (f *fakeQueries) CountDryReceived(context.Context, uuid.UUID) (int64, error) {
	return f.dry, f.err
}
func (f *fakeQueries) NetScoreReceived(context.Context, uuid.UUID) (int64, error) {
	return f.score, f.err
}
func (f *fakeQueries) SucharCreationTimes(context.Context, uuid.UUID) ([]time.Time, error) {
	return f.times, f.err
}
func (f *fakeQueries) MaxBalancedVoteCount(context.Context, uuid.UUID) (int64, error) {
	return f.balanced, f.err
}

func TestThresholdMetrics(t *testing.T) {
	tests := []struct {
		name      string
		metric    types.Metric
		queries   fakeQueries
		threshold int
		want      bool
	}{
		{name: "count suchar met", metric: types.MetricCountSuchar, queries: fakeQueries{suchary: 25}, threshold: 25, want: true},
		{name: "count suchar below", metric: types.MetricCountSuchar, queries: fakeQueries{suchary: 24}, threshold: 25, want: false},
		{name: "count vote cast met", metric: types.MetricCountVoteCast, queries: fakeQueries{votesCast: 50}, threshold: 50, want: true},
		{name: "dry received met", metric: types.MetricCountVoteReceivedDry, queries: fakeQueries{dry: 1}, threshold: 1, want: true},
		{name: "dry received below", metric: types.MetricCountVoteReceivedDry, queries: fakeQueries{dry: 0}, threshold: 1, want: false},
		// 7 funny and 3 dry votes net out to 4.
		{name: "net score met", metric: types.MetricSumScore, queries: fakeQueries{score: 4}, threshold: 4, want: true},
		{name: "net score below", metric: types.MetricSumScore, queries: fakeQueries{score: 4}, threshold: 5, want: false},
		{name: "negative net score", metric: types.MetricSumScore, queries: fakeQueries{score: -3}, threshold: 1, want: false},
		// A 3/3 split counts as 3, the per-side size of the balance.
		{name: "polarizer met", metric: types.MetricPolarizer, queries: fakeQueries{balanced: 3}, threshold: 3, want: true},
		{name: "polarizer below", metric: types.MetricPolarizer, queries: fakeQueries{balanced: 3}, threshold: 4, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			registry := NewRegistry(&tc.queries, time.UTC)
			eval, err := registry.Lookup(tc.metric)
			if err != nil {
				t.Fatalf("Lookup(%s): %v", tc.metric, err)
			}
			got, err := eval(context.Background(), EvalContext{UserID: uuid.New(), Threshold: tc.threshold})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("verdict: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestEvaluatorPropagatesQueryError(t *testing.T) {
	queryErr := errors.New("connection reset")
	registry := NewRegistry(&fakeQueries{err: queryErr}, time.UTC)
	eval, err := registry.Lookup(types.MetricCountSuchar)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if _, err := eval(context.Background(), EvalContext{UserID: uuid.New(), Threshold: 1}); !errors.Is(err, queryErr) {
		t.Fatalf("error: want=%v got=%v", queryErr, err)
	}
}

func TestLookupUnknownMetric(t *testing.T) {
	registry := NewRegistry(&fakeQueries{}, time.UTC)
	if _, err := registry.Lookup(types.Metric("COUNT_BANANA")); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("error: want=%v got=%v", ErrUnknownMetric, err)
	}
}

func TestValidateCatalog(t *testing.T) {
	registry := NewRegistry(&fakeQueries{}, time.UTC)

	good := []*types.Achievement{
		{Slug: "a", Metric: types.MetricCountSuchar},
		{Slug: "b", Metric: types.MetricPolarizer},
	}
	if err := registry.Validate(good); err != nil {
		t.Fatalf("Validate(good): %v", err)
	}

	bad := append(good, &types.Achievement{Slug: "c", Metric: types.Metric("COUNT_BANANA")})
	if err := registry.Validate(bad); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("Validate(bad): want=%v got=%v", ErrUnknownMetric, err)
	}
}

func TestNightOwl(t *testing.T) {
	userID := uuid.New()
	at := func(hour, min, sec int) time.Time {
		return time.Date(2026, time.March, 14, hour, min, sec, 0, time.UTC)
	}
	tests := []struct {
		name    string
		trigger *TriggerContext
		loc     *time.Location
		want    bool
	}{
		{name: "no trigger", trigger: nil, want: false},
		{name: "vote trigger", trigger: &TriggerContext{Vote: &types.Vote{}}, want: false},
		{
			name:    "someone else's suchar",
			trigger: &TriggerContext{Suchar: &types.Suchar{AuthorID: uuid.New(), CreatedAt: at(2, 0, 0)}},
			want:    false,
		},
		{
			name:    "just after midnight",
			trigger: &TriggerContext{Suchar: &types.Suchar{AuthorID: userID, CreatedAt: at(0, 0, 1)}},
			want:    true,
		},
		{
			name:    "exactly four",
			trigger: &TriggerContext{Suchar: &types.Suchar{AuthorID: userID, CreatedAt: at(4, 0, 0)}},
			want:    true,
		},
		{
			name:    "just past four",
			trigger: &TriggerContext{Suchar: &types.Suchar{AuthorID: userID, CreatedAt: at(4, 0, 1)}},
			want:    false,
		},
		{
			name:    "midday",
			trigger: &TriggerContext{Suchar: &types.Suchar{AuthorID: userID, CreatedAt: at(12, 30, 0)}},
			want:    false,
		},
		{
			// 23:30 UTC is 01:30 in a +02:00 zone.
			name:    "late utc is early local",
			trigger: &TriggerContext{Suchar: &types.Suchar{AuthorID: userID, CreatedAt: at(23, 30, 0)}},
			loc:     time.FixedZone("CEST", 2*60*60),
			want:    true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loc := tc.loc
			if loc == nil {
				loc = time.UTC
			}
			// High historical counts must never influence the verdict; only
			// the triggering suchar does.
			registry := NewRegistry(&fakeQueries{suchary: 50}, loc)
			eval, err := registry.Lookup(types.MetricNightOwl)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			got, err := eval(context.Background(), EvalContext{UserID: userID, Threshold: 1, Trigger: tc.trigger})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("verdict: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestStreak(t *testing.T) {
	day := func(offset, hour int) time.Time {
		return time.Date(2026, time.June, 20+offset, hour, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name      string
		times     []time.Time
		threshold int
		want      bool
	}{
		{name: "no posts", times: nil, threshold: 1, want: false},
		{name: "no posts zero threshold", times: nil, threshold: 0, want: true},
		{name: "single day", times: []time.Time{day(0, 9)}, threshold: 1, want: true},
		{
			name:      "three consecutive days",
			times:     []time.Time{day(0, 9), day(-1, 12), day(-2, 23)},
			threshold: 3,
			want:      true,
		},
		{
			name:      "three days is not four",
			times:     []time.Time{day(0, 9), day(-1, 12), day(-2, 23)},
			threshold: 4,
			want:      false,
		},
		{
			name:      "gap breaks the run",
			times:     []time.Time{day(0, 9), day(-1, 12), day(-3, 8), day(-4, 8)},
			threshold: 3,
			want:      false,
		},
		{
			name: "several posts per day count once",
			times: []time.Time{
				day(0, 8), day(0, 13), day(0, 22),
				day(-1, 9), day(-1, 10),
				day(-2, 7),
			},
			threshold: 3,
			want:      true,
		},
		{
			// An older longer run does not help once the current run is broken.
			name:      "old run does not count",
			times:     []time.Time{day(0, 9), day(-5, 8), day(-6, 8), day(-7, 8), day(-8, 8)},
			threshold: 3,
			want:      false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			registry := NewRegistry(&fakeQueries{times: tc.times}, time.UTC)
			eval, err := registry.Lookup(types.MetricStreakLogin)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			got, err := eval(context.Background(), EvalContext{UserID: uuid.New(), Threshold: tc.threshold})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("verdict: want=%v got=%v", tc.want, got)
			}
		})
	}
}
