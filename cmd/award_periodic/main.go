package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MilBia/Suchar-Overflow/internal/achievements"
	"github.com/MilBia/Suchar-Overflow/internal/app"
)

func main() {
	var period string
	var date string
	var window string
	flag.StringVar(&period, "period", "all", "period to award: month, year or all")
	flag.StringVar(&date, "date", "", "reference date YYYY-MM-DD inside the window (default yesterday)")
	flag.StringVar(&window, "window", "", "window anchoring: calendar or rolling (default from env)")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ref := time.Now().In(application.Cfg.Location).AddDate(0, 0, -1)
	if date != "" {
		ref, err = time.ParseInLocation("2006-01-02", date, application.Cfg.Location)
		if err != nil {
			fmt.Printf("invalid -date %q: %v\n", date, err)
			os.Exit(1)
		}
	}

	awarder := application.Services.Periodic
	if window != "" {
		kind := achievements.WindowKind(window)
		if kind != achievements.WindowCalendar && kind != achievements.WindowRolling {
			fmt.Printf("invalid -window %q: want calendar or rolling\n", window)
			os.Exit(1)
		}
		awarder = achievements.NewPeriodicAwarder(
			application.Log,
			application.Repos.Suchar,
			application.Repos.Achievement,
			application.Repos.UserAchievement,
			application.Services.AwardBus,
			kind,
			application.Cfg.Location,
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var results []*achievements.PeriodicResult
	switch period {
	case "all":
		results, err = awarder.RunAll(ctx, ref)
	case string(achievements.PeriodMonth), string(achievements.PeriodYear):
		var res *achievements.PeriodicResult
		res, err = awarder.Run(ctx, achievements.Period(period), ref)
		if res != nil {
			results = append(results, res)
		}
	default:
		fmt.Printf("invalid -period %q: want month, year or all\n", period)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("periodic award run failed: %v\n", err)
		os.Exit(1)
	}

	for _, res := range results {
		span := fmt.Sprintf("%s..%s", res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))
		if res.NoOp {
			fmt.Printf("%s %s: no suchary in window, nothing awarded\n", res.Period, span)
			continue
		}
		state := "already held"
		if res.Inserted {
			state = "awarded"
		}
		fmt.Printf("%s %s: %s %s to %s (%d votes)\n", res.Period, span, state, res.Slug, res.WinnerID, res.TotalVotes)
	}
}
