package skill

// Clamp bounds v to [lo, hi]. Every score in a report passes through it so
// composite totals never exceed the sum of their caps.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OverlapBreakdown holds the per-dimension similarity scores, each in [0, 1].
type OverlapBreakdown struct {
	Name        float64 `json:"name"`
	Description float64 `json:"description"`
	Triggers    float64 `json:"triggers"`
	Structure   float64 `json:"structure"`
	Tags        float64 `json:"tags"`
}

// OverlapReport is the similarity of a candidate against the nearest
// local skill.
type OverlapReport struct {
	Score       float64          `json:"score"` // [0, 1]
	MostSimilar string           `json:"most_similar_local_name,omitempty"`
	Breakdown   OverlapBreakdown `json:"breakdown"`
}

// FunctionalMatch scores how well a candidate satisfies a user-supplied
// requirement statement. Each sub-score is bounded to [0, 10].
type FunctionalMatch struct {
	Core      float64 `json:"core"`
	Edge      float64 `json:"edge"`
	Extension float64 `json:"extension"`
}

// Total is the arithmetic sum of the sub-scores, in [0, 30].
func (f *FunctionalMatch) Total() float64 {
	if f == nil {
		return 0
	}
	return f.Core + f.Edge + f.Extension
}

// QualityBreakdown holds the five capped quality categories.
type QualityBreakdown struct {
	Documentation float64 `json:"documentation"` // <= 25
	Community     float64 `json:"community"`     // <= 25
	Maintenance   float64 `json:"maintenance"`   // <= 20
	CodeHealth    float64 `json:"code_health"`   // <= 15
	Compatibility float64 `json:"compatibility"` // <= 15
}

// Total computes the composite quality score in [0, 100]. The category
// caps (25/25/20/15/15) already encode the weighting, so the composite is
// the clamped sum.
func (b QualityBreakdown) Total() float64 {
	return Clamp(
		b.Documentation+b.Community+b.Maintenance+b.CodeHealth+b.Compatibility,
		0, 100)
}

// QualityReport is the requirement-independent multi-criterion rating.
type QualityReport struct {
	Score     float64          `json:"score"` // [0, 100]
	Breakdown QualityBreakdown `json:"breakdown"`
}

// SafetyWarning is one finding of the safety pre-scanner.
type SafetyWarning struct {
	Text  string    `json:"text"`
	Level RiskLevel `json:"level"`
}

// SafetyReport aggregates pre-scan findings. Risk always equals the
// maximum level across warnings; no warnings means LOW.
type SafetyReport struct {
	Risk     RiskLevel       `json:"risk"`
	Warnings []SafetyWarning `json:"warnings,omitempty"`
}

// NewSafetyReport returns an empty report at LOW risk.
func NewSafetyReport() *SafetyReport {
	return &SafetyReport{Risk: RiskLow}
}

// AddWarning records a finding and raises the report risk if the finding
// is more severe. Adding a warning never lowers the risk.
func (s *SafetyReport) AddWarning(text string, level RiskLevel) {
	s.Warnings = append(s.Warnings, SafetyWarning{Text: text, Level: level})
	s.Risk = s.Risk.Max(level)
}

// AnchorReport is the style-anchor check outcome: hard requirements,
// principle checks, and anti-pattern findings.
type AnchorReport struct {
	Passed         bool            `json:"passed"`
	Checks         map[string]bool `json:"checks"`
	Warnings       []string        `json:"warnings,omitempty"`
	CriticalIssues []string        `json:"critical_issues,omitempty"`
}

// NewAnchorReport returns an empty anchor report.
func NewAnchorReport() *AnchorReport {
	return &AnchorReport{Checks: make(map[string]bool)}
}

// AddCheck records a named check result.
func (a *AnchorReport) AddCheck(name string, passed bool) {
	a.Checks[name] = passed
}

// AddWarning records a soft finding.
func (a *AnchorReport) AddWarning(warning string) {
	a.Warnings = append(a.Warnings, warning)
}

// AddCritical records a hard failure. Any critical issue fails the report.
func (a *AnchorReport) AddCritical(issue string) {
	a.CriticalIssues = append(a.CriticalIssues, issue)
}

// anchorPassRatio is the share of checks that must hold for a candidate
// without critical issues to pass.
const anchorPassRatio = 0.7

// Finalize computes Passed: no critical issues and at least 70% of the
// check entries true.
func (a *AnchorReport) Finalize() {
	if len(a.CriticalIssues) > 0 {
		a.Passed = false
		return
	}
	if len(a.Checks) == 0 {
		a.Passed = true
		return
	}
	passed := 0
	for _, ok := range a.Checks {
		if ok {
			passed++
		}
	}
	a.Passed = float64(passed) >= anchorPassRatio*float64(len(a.Checks))
}

// PreEvaluationReport is the immutable output of one evaluation run.
type PreEvaluationReport struct {
	SkillName string     `json:"skill_name"`
	Source    SourceType `json:"source"`

	Overlap         OverlapReport    `json:"overlap"`
	FunctionalMatch *FunctionalMatch `json:"functional_match,omitempty"` // nil when no requirement supplied
	Quality         QualityReport    `json:"quality"`
	Safety          *SafetyReport    `json:"safety"`
	StyleAnchors    *AnchorReport    `json:"style_anchors"`

	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"` // [0, 1]
	Reason         string         `json:"reason"`

	// Metadata references the evaluated candidate; Requirement is the
	// user-supplied statement functional matching was run against.
	Metadata    *Metadata `json:"-"`
	Requirement string    `json:"-"`

	// EvalWarnings records scorers that failed and contributed a
	// neutral score instead.
	EvalWarnings []string `json:"eval_warnings,omitempty"`
}

// Adaptable reports whether the candidate may be handed to the format
// adapter: an adopt-class recommendation and no HIGH safety risk.
func (r *PreEvaluationReport) Adaptable() bool {
	return r.Recommendation.Adaptable() && r.Safety != nil && r.Safety.Risk != RiskHigh
}
