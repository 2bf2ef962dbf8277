package evaluate

import (
	"fmt"
	"strings"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// suspiciousFileTokens flags filenames that hint at dynamic execution or
// exploitation tooling.
var suspiciousFileTokens = []string{
	"eval", "exec", "system", "shell",
	"hack", "crack", "bypass", "inject",
}

// riskPhrases are prompt-injection and exploitation phrases matched as
// lowercase substrings of the readme.
var riskPhrases = []string{
	"ignore instructions",
	"override prompt",
	"bypass security",
	"execute arbitrary",
	"reverse shell",
}

// SafetyScanner performs the static pre-install scan. It never executes
// candidate content.
type SafetyScanner struct {
	riskyDeps []string
	maxDeps   int
}

// NewSafetyScanner creates a scanner with the given dependency blocklist
// and dependency-count ceiling. maxDeps <= 0 disables the count check.
func NewSafetyScanner(riskyDeps []string, maxDeps int) *SafetyScanner {
	return &SafetyScanner{riskyDeps: riskyDeps, maxDeps: maxDeps}
}

// Scan runs every check against the candidate metadata. Risk is the
// maximum level across findings and starts at LOW.
func (s *SafetyScanner) Scan(md *skill.Metadata) *skill.SafetyReport {
	report := skill.NewSafetyReport()

	if !md.Source.Valid() {
		report.AddWarning("skill comes from an unknown source", skill.RiskMedium)
	}

	for _, fname := range md.FileList {
		lower := strings.ToLower(fname)
		if containsAny(lower, suspiciousFileTokens) {
			report.AddWarning(fmt.Sprintf("suspicious file: %s", fname), skill.RiskHigh)
		}
	}

	if md.ReadmePreview != "" {
		readmeLower := strings.ToLower(md.ReadmePreview)
		for _, phrase := range riskPhrases {
			if strings.Contains(readmeLower, phrase) {
				report.AddWarning(fmt.Sprintf("readme contains risk pattern: %s", phrase), skill.RiskHigh)
			}
		}
	}

	for _, dep := range md.Dependencies {
		depLower := strings.ToLower(dep)
		if containsAny(depLower, s.riskyDeps) {
			report.AddWarning(fmt.Sprintf("potentially risky dependency: %s", dep), skill.RiskMedium)
		}
	}

	if s.maxDeps > 0 && len(md.Dependencies) > s.maxDeps {
		report.AddWarning(
			fmt.Sprintf("dependency count %d exceeds limit %d", len(md.Dependencies), s.maxDeps),
			skill.RiskMedium)
	}

	return report
}
