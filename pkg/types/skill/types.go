// Package skill defines the canonical data model shared across the skill
// hub: source and risk enumerations, skill metadata records, and the
// pre-evaluation report produced by the scoring pipeline.
package skill

// SourceType identifies the upstream catalogue a skill was retrieved from.
type SourceType string

// Known source types
const (
	SourceOfficialRegistry  SourceType = "official_registry"
	SourcePluginMarketplace SourceType = "plugin_marketplace"
	SourceCodeHost          SourceType = "code_host"
	SourceLocal             SourceType = "local"
	SourceUnknown           SourceType = "unknown"
)

// Valid reports whether s is one of the known source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceOfficialRegistry, SourcePluginMarketplace, SourceCodeHost, SourceLocal:
		return true
	}
	return false
}

// ParseSourceType maps a source tag to its SourceType, returning
// SourceUnknown for unrecognised tags.
func ParseSourceType(s string) SourceType {
	t := SourceType(s)
	if t.Valid() {
		return t
	}
	return SourceUnknown
}

// RiskLevel is the severity of a safety finding. Levels are ordered:
// LOW < MEDIUM < HIGH.
type RiskLevel string

// Risk levels
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

var riskRank = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// AtLeast reports whether r is at least as severe as other.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskRank[r] >= riskRank[other]
}

// Max returns the more severe of r and other.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if riskRank[other] > riskRank[r] {
		return other
	}
	return r
}

// Recommendation is the decision engine's single-valued disposition of a
// candidate skill.
type Recommendation string

// Recommendations
const (
	RecommendAdopt   Recommendation = "ADOPT"   // use as-is
	RecommendAdapt   Recommendation = "ADAPT"   // rework into catalogue format
	RecommendAbsorb  Recommendation = "ABSORB"  // merge into an existing local skill
	RecommendSkip    Recommendation = "SKIP"    // redundant or too weak a match
	RecommendReject  Recommendation = "REJECT"  // safety veto
	RecommendEnhance Recommendation = "ENHANCE" // complement an existing local skill
	RecommendInspect Recommendation = "INSPECT" // needs human review
)

// Adaptable reports whether a recommendation permits running the format
// adapter on the candidate.
func (r Recommendation) Adaptable() bool {
	switch r {
	case RecommendAdopt, RecommendAdapt, RecommendAbsorb, RecommendEnhance:
		return true
	}
	return false
}
