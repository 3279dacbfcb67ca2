package achievements

import (
	"sort"

	"github.com/google/uuid"

	"github.com/MilBia/Suchar-Overflow/internal/types"
)

// VisibleAchievements applies the tiered reveal policy: standalone entries
// are always visible; within a themed series (grouped by theme and metric,
// ascending tier) entries are revealed up to and including the first tier
// the user has not earned. The first unearned tier stays visible as the
// next goal, everything past it is hidden.
//
// The result is deterministically ordered by theme (standalone entries
// first), then tier, then slug. Secrecy masking of still-locked entries is
// the presentation layer's job; this only selects what is visible at all.
func VisibleAchievements(catalog []*types.Achievement, earned map[uuid.UUID]bool) []*types.Achievement {
	type seriesKey struct {
		theme  string
		metric types.Metric
	}

	visible := make([]*types.Achievement, 0, len(catalog))
	series := make(map[seriesKey][]*types.Achievement)
	order := make([]seriesKey, 0)

	for _, a := range catalog {
		if a.Standalone() {
			visible = append(visible, a)
			continue
		}
		key := seriesKey{theme: a.Theme, metric: a.Metric}
		if _, ok := series[key]; !ok {
			order = append(order, key)
		}
		series[key] = append(series[key], a)
	}

	for _, key := range order {
		entries := series[key]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Tier != entries[j].Tier {
				return entries[i].Tier < entries[j].Tier
			}
			return entries[i].Slug < entries[j].Slug
		})
		for _, a := range entries {
			visible = append(visible, a)
			if !earned[a.ID] {
				break
			}
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].Theme != visible[j].Theme {
			return visible[i].Theme < visible[j].Theme
		}
		if visible[i].Tier != visible[j].Tier {
			return visible[i].Tier < visible[j].Tier
		}
		return visible[i].Slug < visible[j].Slug
	})
	return visible
}
