package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// WindowKind selects how the award window is anchored. Calendar windows
// match the management-command deployment (whole months and years);
// rolling windows are the trailing 30/365 days, matching the scheduled-task
// deployment. Calendar is the default.
type WindowKind string

const (
	WindowCalendar WindowKind = "calendar"
	WindowRolling  WindowKind = "rolling"
)

// Slug convention for the periodic definitions, fixed contract with the
// seeded catalog.
const (
	SlugBestOfMonth = "best-suchar-month"
	SlugBestOfYear  = "best-suchar-year"
)

// PeriodicResult reports one awarder run.
type PeriodicResult struct {
	Period     Period
	Start, End time.Time
	NoOp       bool // no suchary in the window
	WinnerID   uuid.UUID
	TotalVotes int64
	Slug       string
	Inserted   bool // false when the winner already held the badge
}

// PeriodicAwarder grants the best-contributor badges from a scheduled batch
// run, independent of individual events. Re-running a period is safe: the
// award insert is the same insert-if-absent used by the dispatcher.
type PeriodicAwarder struct {
	log          *logger.Logger
	suchary      repos.SucharRepo
	achievements repos.AchievementRepo
	awards       repos.UserAchievementRepo
	notifier     Notifier
	window       WindowKind
	loc          *time.Location
}

func NewPeriodicAwarder(
	baseLog *logger.Logger,
	suchary repos.SucharRepo,
	achievements repos.AchievementRepo,
	awards repos.UserAchievementRepo,
	notifier Notifier,
	window WindowKind,
	loc *time.Location,
) *PeriodicAwarder {
	if window == "" {
		window = WindowCalendar
	}
	if loc == nil {
		loc = time.Local
	}
	return &PeriodicAwarder{
		log:          baseLog.With("component", "PeriodicAwarder"),
		suchary:      suchary,
		achievements: achievements,
		awards:       awards,
		notifier:     notifier,
		window:       window,
		loc:          loc,
	}
}

// PeriodWindow computes the half-open [start, end) interval for the period
// containing ref. Calendar: first day of ref's month/year through the first
// day of the next one. Rolling: the 30 or 365 days ending on the day after
// ref.
func PeriodWindow(period Period, ref time.Time, kind WindowKind, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	ref = ref.In(loc)
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)

	switch kind {
	case WindowRolling:
		end := day.AddDate(0, 0, 1)
		switch period {
		case PeriodMonth:
			return end.AddDate(0, 0, -30), end, nil
		case PeriodYear:
			return end.AddDate(0, 0, -365), end, nil
		}
	case WindowCalendar, "":
		switch period {
		case PeriodMonth:
			start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
			return start, start.AddDate(0, 1, 0), nil
		case PeriodYear:
			start := time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, loc)
			return start, start.AddDate(1, 0, 0), nil
		}
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown window kind %q", kind)
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", period)
}

func slugForPeriod(period Period) (string, error) {
	switch period {
	case PeriodMonth:
		return SlugBestOfMonth, nil
	case PeriodYear:
		return SlugBestOfYear, nil
	}
	return "", fmt.Errorf("unknown period %q", period)
}

// Run awards the period's badge to the top author of the window containing
// ref. An empty window is a successful no-op; a missing catalog definition
// is a configuration error and aborts before touching the ledger.
func (p *PeriodicAwarder) Run(ctx context.Context, period Period, ref time.Time) (*PeriodicResult, error) {
	start, end, err := PeriodWindow(period, ref, p.window, p.loc)
	if err != nil {
		return nil, err
	}
	slug, err := slugForPeriod(period)
	if err != nil {
		return nil, err
	}
	result := &PeriodicResult{Period: period, Start: start, End: end, Slug: slug}

	winner, err := p.suchary.TopAuthorInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate window [%s, %s): %w", start.Format(time.DateOnly), end.Format(time.DateOnly), err)
	}
	if winner == nil {
		p.log.Info("No suchary in period, nothing to award", "period", period, "start", start, "end", end)
		result.NoOp = true
		return result, nil
	}
	result.WinnerID = winner.AuthorID
	result.TotalVotes = winner.TotalVotes

	achievement, err := p.achievements.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingDefinition, slug)
	}

	inserted, err := p.awards.CreateIfAbsent(ctx, nil, &types.UserAchievement{
		UserID:        winner.AuthorID,
		AchievementID: achievement.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("award insert: %w", err)
	}
	result.Inserted = inserted
	if inserted {
		p.log.Info("Periodic achievement awarded", "slug", slug, "user_id", winner.AuthorID, "total_votes", winner.TotalVotes)
		if p.notifier != nil {
			p.notifier.AwardGranted(ctx, winner.AuthorID, achievement)
		}
	} else {
		p.log.Info("Winner already holds the badge", "slug", slug, "user_id", winner.AuthorID)
	}
	return result, nil
}

// RunAll runs the month and year awards for the same reference date.
// Different periods are independent; overlapping runs are safe.
func (p *PeriodicAwarder) RunAll(ctx context.Context, ref time.Time) ([]*PeriodicResult, error) {
	periods := []Period{PeriodMonth, PeriodYear}
	results := make([]*PeriodicResult, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, period := range periods {
		g.Go(func() error {
			res, err := p.Run(gctx, period, ref)
			if err != nil {
				return fmt.Errorf("period %s: %w", period, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
