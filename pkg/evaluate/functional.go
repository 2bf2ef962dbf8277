package evaluate

import (
	"regexp"
	"strings"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// maxKeywords bounds how many requirement keywords drive the match.
const maxKeywords = 10

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {}, "can": {},
	"need": {}, "want": {}, "use": {}, "get": {}, "make": {}, "take": {},
	"give": {}, "help": {}, "show": {},
}

var keywordRe = regexp.MustCompile(`\b\w+\b`)

var edgeKeywords = []string{"edge case", "boundary", "exception", "error handling", "fallback"}

var extensionKeywords = []string{"extensible", "customizable", "plugin", "modular", "extend"}

// FunctionalMatcher scores how well a candidate satisfies a free-text
// requirement statement.
type FunctionalMatcher struct{}

// NewFunctionalMatcher creates a functional matcher.
func NewFunctionalMatcher() *FunctionalMatcher {
	return &FunctionalMatcher{}
}

// Match evaluates the candidate against the requirement, yielding three
// sub-scores bounded to [0, 10] each.
func (m *FunctionalMatcher) Match(md *skill.Metadata, requirement string) *skill.FunctionalMatch {
	keywords := extractKeywords(strings.ToLower(requirement))
	return &skill.FunctionalMatch{
		Core:      m.scoreCore(md, keywords),
		Edge:      m.scoreEdge(md),
		Extension: m.scoreExtension(md),
	}
}

// scoreCore rewards keyword overlap with the candidate's name,
// description, and triggers.
func (m *FunctionalMatcher) scoreCore(md *skill.Metadata, keywords []string) float64 {
	score := 0.0

	name := strings.ToLower(md.Name)
	desc := strings.ToLower(md.Description)

	if containsAny(name, keywords) {
		score += 4
	} else if containsAny(desc, keywords) {
		score += 2
	}

	if len(desc) > 200 && containsAny(desc, keywords) {
		score += 3
	} else if len(desc) > 100 && containsAny(desc, keywords) {
		score += 2
	}

	relevance := 0
	for _, trigger := range md.FlatTriggers() {
		if containsAny(trigger, keywords) {
			relevance++
		}
	}
	if relevance >= 3 {
		score += 3
	} else if relevance >= 1 {
		score += 1.5
	}

	return skill.Clamp(score, 0, 10)
}

// scoreEdge rewards presence signals for edge-case support: a rich file
// structure and documentation that mentions boundaries and failure modes.
func (m *FunctionalMatcher) scoreEdge(md *skill.Metadata) float64 {
	score := 0.0

	if len(md.FileList) > 10 {
		score += 3
	} else if len(md.FileList) > 5 {
		score += 2
	}

	if md.HasFile("example") {
		score += 2
	}
	if md.HasFile("reference") {
		score += 1
	}
	if md.HasFile("test") {
		score += 2
	}

	readme := strings.ToLower(md.ReadmePreview)
	for _, kw := range edgeKeywords {
		if strings.Contains(readme, kw) {
			score += 2
			break
		}
	}

	return skill.Clamp(score, 0, 10)
}

// scoreExtension rewards modular structure: multiple files, a config
// file, extensibility language, a sane dependency count, and evidence of
// an update history.
func (m *FunctionalMatcher) scoreExtension(md *skill.Metadata) float64 {
	score := 0.0

	if len(md.FileList) > 3 {
		score += 3
	}
	if md.HasFile("config") || md.HasFile("setting") {
		score += 2
	}

	readme := strings.ToLower(md.ReadmePreview)
	for _, kw := range extensionKeywords {
		if strings.Contains(readme, kw) {
			score += 2
			break
		}
	}

	if n := len(md.Dependencies); n > 0 && n <= 5 {
		score += 1
	}
	if md.Popularity != nil && md.Popularity.LastCommit != nil {
		score += 2
	}

	return skill.Clamp(score, 0, 10)
}

// extractKeywords pulls up to maxKeywords stop-worded keywords from the
// requirement text.
func extractKeywords(text string) []string {
	words := keywordRe.FindAllString(text, -1)
	keywords := make([]string, 0, maxKeywords)
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[strings.ToLower(w)]; stop {
			continue
		}
		keywords = append(keywords, strings.ToLower(w))
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
