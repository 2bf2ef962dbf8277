package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

func TestDetectNoLocalsScoresZero(t *testing.T) {
	candidate := &skill.Metadata{Name: "data-viz", Description: "Draws charts."}

	report := NewOverlapDetector().Detect(candidate, nil)
	assert.Zero(t, report.Score)
	assert.Empty(t, report.MostSimilar)
}

func TestDetectIdenticalSkillScoresHigh(t *testing.T) {
	md := &skill.Metadata{
		Name:        "data-viz",
		Description: "Draws publication quality charts from tabular data sources.",
		Triggers:    map[string][]string{"en": {"chart", "plot"}},
		Tags:        []string{"visualization"},
		FileList:    []string{"SKILL.md", "README.md"},
	}
	twin := *md

	report := NewOverlapDetector().Detect(md, []*skill.Metadata{&twin})
	assert.InDelta(t, 1.0, report.Score, 1e-9)
	assert.Equal(t, "data-viz", report.MostSimilar)
	assert.InDelta(t, 1.0, report.Breakdown.Name, 1e-9)
	assert.InDelta(t, 1.0, report.Breakdown.Description, 1e-6)
}

func TestDetectUnrelatedSkillScoresLow(t *testing.T) {
	candidate := &skill.Metadata{
		Name:        "data-viz",
		Description: "Draws charts from tabular data.",
		Triggers:    map[string][]string{"en": {"chart"}},
	}
	local := &skill.Metadata{
		Name:        "poem-writer",
		Description: "Composes rhyming verse in several meters.",
		Triggers:    map[string][]string{"en": {"poetry"}},
	}

	report := NewOverlapDetector().Detect(candidate, []*skill.Metadata{local})
	assert.Less(t, report.Score, 0.3)
}

func TestDetectPicksBestMatch(t *testing.T) {
	candidate := &skill.Metadata{
		Name:        "data-viz",
		Description: "Draws charts from tabular data.",
	}
	locals := []*skill.Metadata{
		{Name: "poem-writer", Description: "Composes rhyming verse."},
		{Name: "data-viz", Description: "Draws charts from tabular data."},
	}

	report := NewOverlapDetector().Detect(candidate, locals)
	assert.Equal(t, "data-viz", report.MostSimilar)
}

func TestDetectTieKeepsEarlierLocal(t *testing.T) {
	// Both locals share the candidate's first name token, so their scores
	// are identical. The earlier one wins.
	candidate := &skill.Metadata{Name: "data-viz"}
	locals := []*skill.Metadata{
		{Name: "data-analysis"},
		{Name: "data-cleaner"},
	}

	report := NewOverlapDetector().Detect(candidate, locals)
	assert.Equal(t, "data-analysis", report.MostSimilar)
}

func TestNameSimilarityTiers(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"data-viz", "data-viz", 1.0},
		{"Data-Viz", "data-viz", 1.0},
		{"data-viz", "data-viz-pro", 0.7},
		{"data-viz-pro", "viz", 0.7},
		{"data-viz", "data-analysis", 0.5},
		{"data-viz", "poem-writer", 0},
		{"", "data-viz", 0},
		{"data-viz", "", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, nameSimilarity(tt.a, tt.b), 1e-9, "%q vs %q", tt.a, tt.b)
	}
}

func TestDescriptionSimilarity(t *testing.T) {
	assert.Zero(t, descriptionSimilarity("", "anything"))
	assert.Zero(t, descriptionSimilarity("anything", ""))

	same := "Draws charts from tabular data sources."
	assert.InDelta(t, 1.0, descriptionSimilarity(same, same), 1e-6)

	sim := descriptionSimilarity(
		"Draws charts from tabular data sources.",
		"Low level socket multiplexing helpers.")
	assert.Less(t, sim, 0.2)
}

func TestJaccard(t *testing.T) {
	assert.Zero(t, jaccard(nil, toSet([]string{"a"})))
	assert.Zero(t, jaccard(toSet([]string{"a"}), nil))

	a := toSet([]string{"a", "b", "c"})
	b := toSet([]string{"b", "c", "d"})
	assert.InDelta(t, 0.5, jaccard(a, b), 1e-9)

	assert.InDelta(t, 1.0, jaccard(a, a), 1e-9)
}

func TestTagComparisonIsCaseInsensitive(t *testing.T) {
	candidate := &skill.Metadata{Name: "x", Tags: []string{"ML", "Charts"}}
	local := &skill.Metadata{Name: "y", Tags: []string{"ml", "charts"}}

	report := NewOverlapDetector().Detect(candidate, []*skill.Metadata{local})
	assert.InDelta(t, 1.0, report.Breakdown.Tags, 1e-9)
}
