package evaluate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// AnchorChecker verifies a candidate against the MindSymphony editorial
// standard: hard documentation requirements, four quality principles, and
// a forbidden-phrase dictionary.
type AnchorChecker struct {
	antiPatterns map[string][]string
}

// NewAnchorChecker creates a checker with the given anti-pattern
// dictionary, keyed by group name.
func NewAnchorChecker(antiPatterns map[string][]string) *AnchorChecker {
	return &AnchorChecker{antiPatterns: antiPatterns}
}

// Check runs all anchor checks and finalizes the pass verdict.
func (c *AnchorChecker) Check(md *skill.Metadata) *skill.AnchorReport {
	report := skill.NewAnchorReport()

	c.checkHardRequirements(md, report)
	c.checkPrinciples(md, report)
	c.detectAntiPatterns(md, report)

	report.Finalize()
	return report
}

func (c *AnchorChecker) checkHardRequirements(md *skill.Metadata, report *skill.AnchorReport) {
	hasDocs := md.HasFile("skill.md") || md.HasFile("readme")
	report.AddCheck("has documentation", hasDocs)
	if !hasDocs {
		report.AddCritical("missing documentation (SKILL.md or README)")
	}

	hasDescription := len(md.Description) > 20
	report.AddCheck("has description", hasDescription)
	if !hasDescription {
		report.AddCritical("description too short or missing")
	}

	hasTriggers := len(md.Triggers) > 0
	report.AddCheck("has triggers", hasTriggers)
	if !hasTriggers {
		report.AddWarning("no trigger words defined")
	}

	license := md.License()
	report.AddCheck("has license", license != "")
	switch strings.ToLower(license) {
	case "proprietary", "commercial":
		report.AddWarning(fmt.Sprintf("license may restrict use: %s", license))
	}
}

// checkPrinciples looks for evidence of intent alignment, consistent
// tone, clear boundaries, and differentiated value in the readme.
func (c *AnchorChecker) checkPrinciples(md *skill.Metadata, report *skill.AnchorReport) {
	readme := strings.ToLower(md.ReadmePreview)

	report.AddCheck("clear purpose", containsAny(readme, []string{"purpose", "goal", "objective"}))
	report.AddCheck("has usage examples", strings.Contains(readme, "example"))
	report.AddCheck("clear boundaries", containsAny(readme, []string{"limit", "scope", "boundary"}))
	report.AddCheck("differentiated value", containsAny(readme, []string{"unique", "different", "special"}))
}

func (c *AnchorChecker) detectAntiPatterns(md *skill.Metadata, report *skill.AnchorReport) {
	readme := strings.ToLower(md.ReadmePreview)
	description := strings.ToLower(md.Description)

	groups := make([]string, 0, len(c.antiPatterns))
	for group := range c.antiPatterns {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		for _, phrase := range c.antiPatterns[group] {
			lower := strings.ToLower(phrase)
			if strings.Contains(readme, lower) || strings.Contains(description, lower) {
				report.AddWarning(fmt.Sprintf("possible %s anti-pattern: %q", group, phrase))
			}
		}
	}
}
