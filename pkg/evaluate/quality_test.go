package evaluate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

func fixedClockScorer(now time.Time) *QualityScorer {
	s := NewQualityScorer()
	s.now = func() time.Time { return now }
	return s
}

func TestQualityScoreWellMaintainedSkill(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lastCommit := now.AddDate(0, 0, -10)

	md := &skill.Metadata{
		Name:        "awesome-ml",
		Source:      skill.SourceCodeHost,
		Description: strings.Repeat("Machine learning model training toolkit. ", 6),
		Triggers:    map[string][]string{"en": {"machine learning", "training"}},
		FileList:    []string{"SKILL.md", "README.md", "examples/demo.md", "tests/test_basic.py"},
		Frontmatter: map[string]any{
			"name":        "awesome-ml",
			"description": "ML toolkit",
			"triggers":    []string{"machine learning"},
		},
		Popularity: &skill.PopularityStats{
			Stars:      150,
			LastCommit: &lastCommit,
			License:    "MIT",
		},
	}

	report := fixedClockScorer(now).Score(md)

	assert.InDelta(t, 23, report.Breakdown.Documentation, 1e-9)
	assert.InDelta(t, 15, report.Breakdown.Community, 1e-9)
	assert.InDelta(t, 14, report.Breakdown.Maintenance, 1e-9)
	assert.InDelta(t, 5+10.0/3.0+5, report.Breakdown.CodeHealth, 1e-9)
	assert.InDelta(t, 13, report.Breakdown.Compatibility, 1e-9)
	assert.InDelta(t, 78.0+1.0/3.0, report.Score, 1e-9)
}

func TestQualityScoreEmptyMetadata(t *testing.T) {
	report := NewQualityScorer().Score(&skill.Metadata{Name: "X"})
	assert.Zero(t, report.Score)
}

func TestQualityDocumentationTiers(t *testing.T) {
	scorer := NewQualityScorer()

	t.Run("description length buckets", func(t *testing.T) {
		for _, tt := range []struct {
			length int
			want   float64
		}{
			{30, 0}, {60, 3}, {250, 5}, {600, 7},
		} {
			md := &skill.Metadata{Description: strings.Repeat("a", tt.length)}
			assert.InDelta(t, tt.want, scorer.scoreDocumentation(md), 1e-9)
		}
	})

	t.Run("partial frontmatter scores fractionally", func(t *testing.T) {
		md := &skill.Metadata{Frontmatter: map[string]any{"name": "x", "description": "y"}}
		assert.InDelta(t, 2.0/3.0*8, scorer.scoreDocumentation(md), 1e-9)
	})

	t.Run("lowercase file matching", func(t *testing.T) {
		md := &skill.Metadata{FileList: []string{"Skill.MD", "docs/README.rst"}}
		assert.InDelta(t, 10, scorer.scoreDocumentation(md), 1e-9)
	})
}

func TestQualityCommunityTiers(t *testing.T) {
	scorer := NewQualityScorer()

	for _, tt := range []struct {
		stars int
		want  float64
	}{
		{150, 15}, {60, 12}, {12, 8}, {3, 4}, {0, 4},
	} {
		md := &skill.Metadata{Popularity: &skill.PopularityStats{Stars: tt.stars}}
		assert.InDelta(t, tt.want, scorer.scoreCommunity(md), 1e-9, "stars=%d", tt.stars)
	}

	t.Run("rating adds proportionally", func(t *testing.T) {
		rating := 4.5
		md := &skill.Metadata{
			UserRating: &rating,
			Popularity: &skill.PopularityStats{Stars: 150},
		}
		assert.InDelta(t, 24, scorer.scoreCommunity(md), 1e-9)
	})

	t.Run("rating alone without popularity stats", func(t *testing.T) {
		rating := 5.0
		md := &skill.Metadata{UserRating: &rating}
		assert.InDelta(t, 10, scorer.scoreCommunity(md), 1e-9)
	})
}

func TestQualityMaintenanceFreshness(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	scorer := fixedClockScorer(now)

	t.Run("no commit date scores zero", func(t *testing.T) {
		md := &skill.Metadata{Popularity: &skill.PopularityStats{Stars: 500}}
		assert.Zero(t, scorer.scoreMaintenance(md))
		assert.Zero(t, scorer.scoreMaintenance(&skill.Metadata{}))
	})

	for _, tt := range []struct {
		daysAgo int
		want    float64 // freshness only, stars = 0
	}{
		{3, 12}, {20, 10}, {60, 7}, {120, 4}, {300, 2}, {400, 0},
	} {
		commit := now.AddDate(0, 0, -tt.daysAgo)
		md := &skill.Metadata{Popularity: &skill.PopularityStats{LastCommit: &commit}}
		assert.InDelta(t, tt.want, scorer.scoreMaintenance(md), 1e-9, "daysAgo=%d", tt.daysAgo)
	}

	t.Run("any stars add activity credit", func(t *testing.T) {
		commit := now.AddDate(0, 0, -3)
		md := &skill.Metadata{Popularity: &skill.PopularityStats{Stars: 1, LastCommit: &commit}}
		assert.InDelta(t, 16, scorer.scoreMaintenance(md), 1e-9)
	})
}

func TestQualityCodeHealth(t *testing.T) {
	scorer := NewQualityScorer()

	t.Run("dependency count buckets", func(t *testing.T) {
		for _, tt := range []struct {
			deps int
			want float64
		}{
			{0, 5}, {2, 4}, {5, 3}, {8, 1}, {15, 0},
		} {
			md := &skill.Metadata{Dependencies: make([]string, tt.deps)}
			assert.InDelta(t, tt.want, scorer.scoreCodeHealth(md), 1e-9, "deps=%d", tt.deps)
		}
	})

	t.Run("license credit requires a declared license", func(t *testing.T) {
		md := &skill.Metadata{
			Dependencies: make([]string, 15),
			Popularity:   &skill.PopularityStats{License: "Apache-2.0"},
		}
		assert.InDelta(t, 5, scorer.scoreCodeHealth(md), 1e-9)
	})

	t.Run("structural markers", func(t *testing.T) {
		md := &skill.Metadata{
			Dependencies: make([]string, 15),
			FileList:     []string{"reference/api.md", "examples/a.md", "tests/t.py"},
		}
		assert.InDelta(t, 5, scorer.scoreCodeHealth(md), 1e-9)
	})
}

func TestQualityCompatibility(t *testing.T) {
	scorer := NewQualityScorer()

	t.Run("canonical frontmatter and name", func(t *testing.T) {
		md := &skill.Metadata{
			Name: "data-viz",
			Frontmatter: map[string]any{
				"name": "data-viz", "description": "d", "type": "execution", "triggers": "viz",
			},
			Triggers: map[string][]string{"en": {"chart"}},
		}
		assert.InDelta(t, 15, scorer.scoreCompatibility(md), 1e-9)
	})

	t.Run("triggers without a known language tag score less", func(t *testing.T) {
		md := &skill.Metadata{Triggers: map[string][]string{"fr": {"graphique"}}}
		assert.InDelta(t, 2, scorer.scoreCompatibility(md), 1e-9)
	})

	t.Run("non canonical names get no name credit", func(t *testing.T) {
		for _, name := range []string{"Data-Viz", "9lives", "has_underscore", ""} {
			md := &skill.Metadata{Name: name}
			assert.Zero(t, scorer.scoreCompatibility(md), "name=%q", name)
		}
	})
}

func TestQualityScoreWithinBounds(t *testing.T) {
	now := time.Now()
	rating := 5.0
	md := &skill.Metadata{
		Name:        "everything",
		Description: strings.Repeat("x", 600),
		Triggers:    map[string][]string{"en": {"a"}, "zh": {"b"}},
		FileList:    []string{"SKILL.md", "README.md", "reference/r.md", "examples/e.md", "tests/t.py"},
		Frontmatter: map[string]any{"name": "e", "description": "d", "type": "t", "triggers": "x"},
		UserRating:  &rating,
		Popularity:  &skill.PopularityStats{Stars: 10000, LastCommit: &now, License: "MIT"},
	}

	report := fixedClockScorer(now).Score(md)
	require.LessOrEqual(t, report.Score, 100.0)
	assert.LessOrEqual(t, report.Breakdown.Documentation, 25.0)
	assert.LessOrEqual(t, report.Breakdown.Community, 25.0)
	assert.LessOrEqual(t, report.Breakdown.Maintenance, 20.0)
	assert.LessOrEqual(t, report.Breakdown.CodeHealth, 15.0)
	assert.LessOrEqual(t, report.Breakdown.Compatibility, 15.0)
}
