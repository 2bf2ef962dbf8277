// Package evaluate implements the scoring pipeline of the skill hub:
// overlap detection against the local inventory, functional matching
// against a user requirement, multi-criterion quality rating, safety
// pre-scanning, style anchor checks, and the decision engine that folds
// the five scores into a single recommendation. All scorers are pure and
// in-memory; I/O happens before evaluation.
package evaluate

import (
	"strings"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// Overlap dimension weights. They sum to 1 so the total stays in [0, 1].
const (
	weightName        = 0.15
	weightDescription = 0.35
	weightTriggers    = 0.25
	weightStructure   = 0.15
	weightTags        = 0.10
)

// OverlapDetector scores the similarity of a candidate against the local
// inventory.
type OverlapDetector struct{}

// NewOverlapDetector creates an overlap detector.
func NewOverlapDetector() *OverlapDetector {
	return &OverlapDetector{}
}

// Detect returns the highest weighted similarity between the candidate and
// any local skill, with the per-dimension breakdown of the best match.
// Ties keep the earlier local skill (iteration order is stable).
func (d *OverlapDetector) Detect(candidate *skill.Metadata, locals []*skill.Metadata) skill.OverlapReport {
	report := skill.OverlapReport{}
	for _, local := range locals {
		total, breakdown := d.compare(candidate, local)
		if total > report.Score {
			report.Score = total
			report.MostSimilar = local.Name
			report.Breakdown = breakdown
		}
	}
	report.Score = skill.Clamp(report.Score, 0, 1)
	return report
}

func (d *OverlapDetector) compare(a, b *skill.Metadata) (float64, skill.OverlapBreakdown) {
	breakdown := skill.OverlapBreakdown{
		Name:        nameSimilarity(a.Name, b.Name),
		Description: descriptionSimilarity(a.Description, b.Description),
		Triggers:    jaccard(toSet(a.FlatTriggers()), toSet(b.FlatTriggers())),
		Structure:   jaccard(toSet(a.FileList), toSet(b.FileList)),
		Tags:        jaccard(lowerSet(a.Tags), lowerSet(b.Tags)),
	}

	total := breakdown.Name*weightName +
		breakdown.Description*weightDescription +
		breakdown.Triggers*weightTriggers +
		breakdown.Structure*weightStructure +
		breakdown.Tags*weightTags

	return skill.Clamp(total, 0, 1), breakdown
}

// nameSimilarity: 1.0 on case-insensitive exact match, 0.7 on containment
// either direction, 0.5 when the first hyphen-separated token matches.
func nameSimilarity(name1, name2 string) float64 {
	if name1 == "" || name2 == "" {
		return 0
	}

	n1 := strings.ToLower(strings.TrimSpace(name1))
	n2 := strings.ToLower(strings.TrimSpace(name2))

	switch {
	case n1 == n2:
		return 1.0
	case strings.Contains(n1, n2) || strings.Contains(n2, n1):
		return 0.7
	case firstToken(n1) == firstToken(n2):
		return 0.5
	}
	return 0
}

func firstToken(name string) string {
	if idx := strings.IndexByte(name, '-'); idx >= 0 {
		return name[:idx]
	}
	return name
}

// descriptionSimilarity is TF-IDF cosine over word unigrams and bigrams.
// Either side empty yields 0.
func descriptionSimilarity(text1, text2 string) float64 {
	if text1 == "" || text2 == "" {
		return 0
	}
	return skill.Clamp(tfidfCosine(text1, text2), 0, 1)
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for item := range a {
		if _, ok := b[item]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}
