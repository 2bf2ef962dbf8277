package evaluate

import (
	"context"
	"fmt"

	"github.com/mindsymphony/skillhub/pkg/config"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// Engine composes the five scorers and the decision rules into a single
// evaluation run.
type Engine struct {
	overlap    *OverlapDetector
	functional *FunctionalMatcher
	quality    *QualityScorer
	safety     *SafetyScanner
	anchors    *AnchorChecker

	overlapThreshold float64
	qualityThreshold float64 // [0, 100]
}

// NewEngine builds an engine from the evaluation and security sections of
// the configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		overlap:          NewOverlapDetector(),
		functional:       NewFunctionalMatcher(),
		quality:          NewQualityScorer(),
		safety:           NewSafetyScanner(cfg.Security.RiskyDependencies, cfg.Security.MaxDependencyCount),
		anchors:          NewAnchorChecker(cfg.Security.AntiPatterns),
		overlapThreshold: cfg.Evaluation.OverlapThreshold,
		qualityThreshold: cfg.Evaluation.QualityThreshold * 100,
	}
}

// Evaluate scores one candidate against the local catalogue and an
// optional requirement statement. A scorer panic is downgraded to a
// neutral score plus an entry in EvalWarnings, so one bad scorer never
// loses the whole report.
func (e *Engine) Evaluate(ctx context.Context, candidate *skill.Metadata, locals []*skill.Metadata, requirement string) *skill.PreEvaluationReport {
	log := logger.G(ctx).WithField("skill", candidate.Name)

	report := &skill.PreEvaluationReport{
		SkillName:   candidate.Name,
		Source:      candidate.Source,
		Metadata:    candidate,
		Requirement: requirement,
	}

	e.runScorer(report, "overlap", func() {
		report.Overlap = e.overlap.Detect(candidate, locals)
	})

	if requirement != "" {
		e.runScorer(report, "functional", func() {
			report.FunctionalMatch = e.functional.Match(candidate, requirement)
		})
	}

	e.runScorer(report, "quality", func() {
		report.Quality = e.quality.Score(candidate)
	})

	e.runScorer(report, "safety", func() {
		report.Safety = e.safety.Scan(candidate)
	})
	if report.Safety == nil {
		report.Safety = skill.NewSafetyReport()
	}

	e.runScorer(report, "anchors", func() {
		report.StyleAnchors = e.anchors.Check(candidate)
	})
	if report.StyleAnchors == nil {
		anchors := skill.NewAnchorReport()
		anchors.Finalize()
		report.StyleAnchors = anchors
	}

	decision := Decide(DecisionInput{
		Overlap:          report.Overlap.Score,
		Quality:          report.Quality.Score,
		Functional:       report.FunctionalMatch.Total(),
		SafetyRisk:       report.Safety.Risk,
		AnchorsPassed:    report.StyleAnchors.Passed,
		OverlapThreshold: e.overlapThreshold,
		QualityThreshold: e.qualityThreshold,
	})
	report.Recommendation = decision.Recommendation
	report.Confidence = decision.Confidence
	report.Reason = decision.Reason

	log.WithField("recommendation", report.Recommendation).
		WithField("confidence", fmt.Sprintf("%.2f", report.Confidence)).
		Debug("evaluation complete")

	return report
}

// runScorer executes one scorer, converting a panic into a warning. The
// report keeps the scorer's zero value in that case.
func (e *Engine) runScorer(report *skill.PreEvaluationReport, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			report.EvalWarnings = append(report.EvalWarnings,
				fmt.Sprintf("%s scorer failed: %v", name, r))
		}
	}()
	fn()
}
