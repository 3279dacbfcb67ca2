package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MilBia/Suchar-Overflow/internal/achievements"
	"github.com/MilBia/Suchar-Overflow/internal/repos"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

// Entry is one achievement definition in the seed fixture.
type Entry struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Category    string `yaml:"category"`
	EventType   string `yaml:"event_type"`
	Metric      string `yaml:"metric"`
	Threshold   int    `yaml:"threshold"`
	Theme       string `yaml:"theme"`
	Tier        int    `yaml:"tier"`
	Secret      bool   `yaml:"secret"`
}

type fixture struct {
	Achievements []Entry `yaml:"achievements"`
}

// Load reads the YAML fixture into catalog definitions.
func Load(path string) ([]*types.Achievement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	defs := make([]*types.Achievement, 0, len(f.Achievements))
	for _, e := range f.Achievements {
		if e.Slug == "" || e.Name == "" {
			return nil, fmt.Errorf("entry missing slug or name: %+v", e)
		}
		if e.Threshold < 0 {
			return nil, fmt.Errorf("entry %q: negative threshold", e.Slug)
		}
		defs = append(defs, &types.Achievement{
			Slug:        e.Slug,
			Name:        e.Name,
			Description: e.Description,
			IconContent: e.Icon,
			Category:    types.AchievementCategory(e.Category),
			EventType:   types.AchievementEvent(e.EventType),
			Metric:      types.Metric(e.Metric),
			Threshold:   e.Threshold,
			Theme:       e.Theme,
			Tier:        e.Tier,
			IsSecret:    e.Secret,
		})
	}
	return defs, nil
}

// Apply validates the definitions against the registry (unknown metrics
// are rejected here, before anything touches the catalog) and upserts them
// by slug.
func Apply(ctx context.Context, achievementRepo repos.AchievementRepo, registry *achievements.Registry, defs []*types.Achievement) error {
	if err := registry.Validate(defs); err != nil {
		return err
	}
	for _, def := range defs {
		if err := achievementRepo.UpsertBySlug(ctx, nil, def); err != nil {
			return fmt.Errorf("upsert %q: %w", def.Slug, err)
		}
	}
	return nil
}
