package evaluate

import (
	"fmt"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// DecisionInput carries every signal the rule engine consumes. Quality is
// the raw 0-100 score; the functional-match adjustment happens inside
// Decide so callers never pre-scale it.
type DecisionInput struct {
	Overlap       float64 // [0, 1]
	Quality       float64 // raw, [0, 100]
	Functional    float64 // [0, 30]; 0 when no requirement was supplied
	SafetyRisk    skill.RiskLevel
	AnchorsPassed bool

	OverlapThreshold float64 // [0, 1]
	QualityThreshold float64 // [0, 100]
}

// Decision is the engine's verdict.
type Decision struct {
	Recommendation skill.Recommendation
	Reason         string
	Confidence     float64 // [0, 1]
}

// Decide runs the ordered decision rules. The order is significant: the
// safety veto fires first, then the anchor gate, then the weak-match
// filter, then the overlap tiers.
func Decide(in DecisionInput) Decision {
	rec := decideRecommendation(in)
	return Decision{
		Recommendation: rec,
		Reason:         reasonFor(rec, in.Overlap),
		Confidence:     confidence(in),
	}
}

// adjustedQuality discounts the quality score when the candidate matches
// the requirement poorly. The discount applies even when functional
// scoring was skipped.
func adjustedQuality(quality, functional float64) float64 {
	switch {
	case functional < 10:
		return quality * 0.7
	case functional < 20:
		return quality * 0.85
	default:
		return quality
	}
}

func decideRecommendation(in DecisionInput) skill.Recommendation {
	if in.SafetyRisk == skill.RiskHigh {
		return skill.RecommendReject
	}

	quality := adjustedQuality(in.Quality, in.Functional)

	if !in.AnchorsPassed {
		if in.Functional >= 20 && quality >= in.QualityThreshold {
			return skill.RecommendAdapt
		}
		return skill.RecommendInspect
	}

	if in.Functional > 0 && in.Functional < 10 {
		return skill.RecommendSkip
	}

	if in.Overlap >= in.OverlapThreshold {
		if quality > in.QualityThreshold*1.2 {
			return skill.RecommendAbsorb
		}
		return skill.RecommendSkip
	}

	if in.Overlap >= in.OverlapThreshold*0.6 {
		return skill.RecommendEnhance
	}

	switch {
	case in.Functional >= 20:
		if quality >= in.QualityThreshold {
			return skill.RecommendAdopt
		}
		return skill.RecommendAdapt
	case in.Functional >= 10:
		if quality >= in.QualityThreshold*0.8 {
			return skill.RecommendAdopt
		}
		return skill.RecommendInspect
	default:
		if quality >= in.QualityThreshold {
			return skill.RecommendAdopt
		}
		return skill.RecommendInspect
	}
}

// confidence expresses how defensible the verdict is. Clear overlap
// signals (either very high or very low) and a clean safety scan raise
// it; the raw quality score contributes up to 0.3.
func confidence(in DecisionInput) float64 {
	c := 0.5
	c += in.Quality / 100 * 0.3
	if in.Overlap > 0.8 || in.Overlap < 0.3 {
		c += 0.1
	}
	if in.SafetyRisk == skill.RiskLow {
		c += 0.1
	}
	return skill.Clamp(c, 0, 1)
}

func reasonFor(rec skill.Recommendation, overlap float64) string {
	pct := overlap * 100
	switch rec {
	case skill.RecommendAdopt:
		return "quality is acceptable and no significant overlap with local skills"
	case skill.RecommendAdapt:
		return "quality is good but the skill needs adapting to the MindSymphony format"
	case skill.RecommendAbsorb:
		return fmt.Sprintf("%.0f%% overlap with an existing skill, but higher quality", pct)
	case skill.RecommendSkip:
		return fmt.Sprintf("%.0f%% overlap with an existing skill and quality no better than local", pct)
	case skill.RecommendReject:
		return "safety risk too high"
	case skill.RecommendEnhance:
		return fmt.Sprintf("%.0f%% overlap with an existing skill, usable as a complement", pct)
	case skill.RecommendInspect:
		return "quality is low, manual review recommended"
	}
	return ""
}
