package evaluate

import (
	"regexp"
	"time"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

var canonicalNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// QualityScorer produces the requirement-independent 0-100 rating across
// five capped categories.
type QualityScorer struct {
	// now is injectable for deterministic maintenance scoring in tests.
	now func() time.Time
}

// NewQualityScorer creates a quality scorer.
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{now: time.Now}
}

// Score rates the candidate. Category caps: documentation 25, community
// 25, maintenance 20, code health 15, compatibility 15.
func (q *QualityScorer) Score(md *skill.Metadata) skill.QualityReport {
	breakdown := skill.QualityBreakdown{
		Documentation: q.scoreDocumentation(md),
		Community:     q.scoreCommunity(md),
		Maintenance:   q.scoreMaintenance(md),
		CodeHealth:    q.scoreCodeHealth(md),
		Compatibility: q.scoreCompatibility(md),
	}
	return skill.QualityReport{
		Score:     breakdown.Total(),
		Breakdown: breakdown,
	}
}

func (q *QualityScorer) scoreDocumentation(md *skill.Metadata) float64 {
	score := 0.0

	if md.HasFile("skill.md") {
		score += 5
	}
	if md.HasFile("readme") {
		score += 5
	}

	if len(md.Frontmatter) > 0 {
		required := []string{"name", "description", "triggers"}
		present := 0
		for _, field := range required {
			if _, ok := md.Frontmatter[field]; ok {
				present++
			}
		}
		score += float64(present) / float64(len(required)) * 8
	}

	switch descLen := len(md.Description); {
	case descLen > 500:
		score += 7
	case descLen > 200:
		score += 5
	case descLen > 50:
		score += 3
	}

	return skill.Clamp(score, 0, 25)
}

func (q *QualityScorer) scoreCommunity(md *skill.Metadata) float64 {
	score := 0.0

	if md.Popularity != nil {
		switch stars := md.Popularity.Stars; {
		case stars >= 100:
			score += 15
		case stars >= 50:
			score += 12
		case stars >= 10:
			score += 8
		default:
			score += 4
		}
	}

	if md.UserRating != nil {
		score += skill.Clamp(*md.UserRating, 0, 5) / 5 * 10
	}

	return skill.Clamp(score, 0, 25)
}

func (q *QualityScorer) scoreMaintenance(md *skill.Metadata) float64 {
	if md.Popularity == nil || md.Popularity.LastCommit == nil {
		return 0
	}

	daysSince := int(q.now().Sub(*md.Popularity.LastCommit).Hours() / 24)
	freshness := 0.0
	for _, tier := range []struct {
		days  int
		score float64
	}{{7, 12}, {30, 10}, {90, 7}, {180, 4}, {365, 2}} {
		if daysSince <= tier.days {
			freshness = tier.score
			break
		}
	}

	activity := 0.0
	if md.Popularity.Stars > 0 {
		activity = 4
	}

	return skill.Clamp(freshness+activity, 0, 20)
}

func (q *QualityScorer) scoreCodeHealth(md *skill.Metadata) float64 {
	var depScore float64
	switch n := len(md.Dependencies); {
	case n == 0:
		depScore = 5
	case n <= 3:
		depScore = 4
	case n <= 5:
		depScore = 3
	case n <= 10:
		depScore = 1
	}

	fileScore := 0.0
	if len(md.FileList) > 0 {
		for _, marker := range []string{"reference", "example", "test"} {
			if md.HasFile(marker) {
				fileScore += 5.0 / 3.0
			}
		}
	}

	licenseScore := 0.0
	if md.License() != "" {
		licenseScore = 5
	}

	return skill.Clamp(depScore+fileScore+licenseScore, 0, 15)
}

func (q *QualityScorer) scoreCompatibility(md *skill.Metadata) float64 {
	score := 0.0

	if len(md.Frontmatter) > 0 {
		canonical := []string{"name", "description", "type", "triggers"}
		present := 0
		for _, field := range canonical {
			if _, ok := md.Frontmatter[field]; ok {
				present++
			}
		}
		score += float64(present) / float64(len(canonical)) * 8
	}

	if len(md.Triggers) > 0 {
		_, hasZh := md.Triggers["zh"]
		_, hasEn := md.Triggers["en"]
		if hasZh || hasEn {
			score += 4
		} else {
			score += 2
		}
	}

	if canonicalNameRe.MatchString(md.Name) {
		score += 3
	}

	return skill.Clamp(score, 0, 15)
}
