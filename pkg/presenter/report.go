package presenter

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// recommendationColors maps each disposition to its display color.
var recommendationColors = map[skill.Recommendation]*color.Color{
	skill.RecommendAdopt:   color.New(color.FgGreen, color.Bold),
	skill.RecommendAdapt:   color.New(color.FgCyan, color.Bold),
	skill.RecommendAbsorb:  color.New(color.FgBlue, color.Bold),
	skill.RecommendEnhance: color.New(color.FgBlue),
	skill.RecommendSkip:    color.New(color.FgYellow),
	skill.RecommendInspect: color.New(color.FgYellow, color.Bold),
	skill.RecommendReject:  color.New(color.FgRed, color.Bold),
}

var riskColors = map[skill.RiskLevel]*color.Color{
	skill.RiskLow:    color.New(color.FgGreen),
	skill.RiskMedium: color.New(color.FgYellow),
	skill.RiskHigh:   color.New(color.FgRed, color.Bold),
}

// Report renders a full evaluation report to the presenter's output.
func (p *TerminalPresenter) Report(r *skill.PreEvaluationReport) {
	if p.quiet {
		return
	}
	renderReport(p.output, r)
}

// Report renders a report using the default presenter instance.
func Report(r *skill.PreEvaluationReport) {
	defaultPresenter.Report(r)
}

func renderReport(w io.Writer, r *skill.PreEvaluationReport) {
	bold := color.New(color.Bold)

	bold.Fprintf(w, "%s", r.SkillName)
	fmt.Fprintf(w, "  (%s)\n", r.Source)

	recColor, ok := recommendationColors[r.Recommendation]
	if !ok {
		recColor = bold
	}
	fmt.Fprint(w, "  Recommendation: ")
	recColor.Fprintf(w, "%s", r.Recommendation)
	fmt.Fprintf(w, "  (confidence %.0f%%)\n", r.Confidence*100)
	if r.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", r.Reason)
	}

	fmt.Fprintf(w, "  Overlap: %.0f%%", r.Overlap.Score*100)
	if r.Overlap.MostSimilar != "" {
		fmt.Fprintf(w, " (closest local: %s)", r.Overlap.MostSimilar)
	}
	fmt.Fprintln(w)

	if r.FunctionalMatch != nil {
		fmt.Fprintf(w, "  Functional match: %.1f/30 (core %.1f, edge %.1f, extension %.1f)\n",
			r.FunctionalMatch.Total(), r.FunctionalMatch.Core, r.FunctionalMatch.Edge, r.FunctionalMatch.Extension)
	}

	b := r.Quality.Breakdown
	fmt.Fprintf(w, "  Quality: %.0f/100\n", r.Quality.Score)
	fmt.Fprintf(w, "    ├─ documentation  %5.1f/25\n", b.Documentation)
	fmt.Fprintf(w, "    ├─ community      %5.1f/25\n", b.Community)
	fmt.Fprintf(w, "    ├─ maintenance    %5.1f/20\n", b.Maintenance)
	fmt.Fprintf(w, "    ├─ code health    %5.1f/15\n", b.CodeHealth)
	fmt.Fprintf(w, "    └─ compatibility  %5.1f/15\n", b.Compatibility)

	if r.Safety != nil {
		fmt.Fprint(w, "  Safety risk: ")
		riskColor, ok := riskColors[r.Safety.Risk]
		if !ok {
			riskColor = bold
		}
		riskColor.Fprintf(w, "%s\n", r.Safety.Risk)
		for _, warning := range r.Safety.Warnings {
			fmt.Fprintf(w, "    - [%s] %s\n", warning.Level, warning.Text)
		}
	}

	if r.StyleAnchors != nil {
		status := "passed"
		if !r.StyleAnchors.Passed {
			status = "failed"
		}
		fmt.Fprintf(w, "  Style anchors: %s\n", status)
		for _, issue := range r.StyleAnchors.CriticalIssues {
			fmt.Fprintf(w, "    ! %s\n", issue)
		}
		for _, warning := range r.StyleAnchors.Warnings {
			fmt.Fprintf(w, "    - %s\n", warning)
		}
	}

	for _, warning := range r.EvalWarnings {
		fmt.Fprintf(w, "  (eval warning: %s)\n", warning)
	}
}
