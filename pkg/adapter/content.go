package adapter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

var marketingRes = []*regexp.Regexp{
	regexp.MustCompile(`🚀\s*`),
	regexp.MustCompile(`✨\s*`),
	regexp.MustCompile(`⭐\s*`),
	regexp.MustCompile(`(?i)amazing|awesome|incredible|unbelievable`),
	regexp.MustCompile(`(?i)best|top|#1|first`),
}

var (
	skillWordRe   = regexp.MustCompile(`\b[Ss]kill\b`)
	catalogNameRe = regexp.MustCompile(`(?i)\bmindsymphony\b`)
)

// rewriteBody applies the full structural rewrite: marketing strip,
// terminology canonicalisation, and the two standard sections. It is
// idempotent so a second adapt run produces the same body.
func rewriteBody(content string, md *skill.Metadata, triggers triggerMap, requirement string) string {
	content = stripMarketing(content)
	content = standardizeTerms(content)
	content = ensureCoreCapabilities(content, md, requirement)
	content = ensureUsageExample(content, md, triggers)
	return content
}

func stripMarketing(content string) string {
	for _, re := range marketingRes {
		content = re.ReplaceAllString(content, "")
	}
	return content
}

func standardizeTerms(content string) string {
	content = skillWordRe.ReplaceAllString(content, "Skill")
	content = catalogNameRe.ReplaceAllString(content, "MindSymphony")
	return content
}

// ensureCoreCapabilities inserts the capabilities section right after the
// first heading when the document lacks one.
func ensureCoreCapabilities(content string, md *skill.Metadata, requirement string) string {
	if strings.Contains(content, "## Core Capabilities") {
		return content
	}

	desc := md.Description
	if len(desc) > 100 {
		desc = desc[:100]
	}
	scenario := requirement
	if scenario == "" {
		scenario = "determined by the task at hand"
	}
	section := fmt.Sprintf(`
## Core Capabilities

1. **Primary function**: %s...
2. **Applicable scenarios**: %s
3. **Distinct value**: %s

`, desc, scenario, md.Name)

	lines := strings.Split(content, "\n")
	insertPos := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			insertPos = i + 1
			break
		}
	}

	rebuilt := make([]string, 0, len(lines)+1)
	rebuilt = append(rebuilt, lines[:insertPos]...)
	rebuilt = append(rebuilt, section)
	rebuilt = append(rebuilt, lines[insertPos:]...)
	return strings.Join(rebuilt, "\n")
}

// ensureUsageExample appends a standard usage section naming the primary
// trigger when the document lacks one.
func ensureUsageExample(content string, md *skill.Metadata, triggers triggerMap) string {
	if strings.Contains(content, "## Usage") {
		return content
	}

	return content + fmt.Sprintf(`

## Usage

`+"```"+`
# Invoke directly
Use %s to [task description]

# Or via trigger word
%s
`+"```"+`
`, md.Name, primaryTrigger(md, triggers))
}

// primaryTrigger prefers the first English trigger, then the first phrase
// of the lexicographically first language, then the skill name.
func primaryTrigger(md *skill.Metadata, triggers triggerMap) string {
	if en := triggers["en"]; len(en) > 0 {
		return en[0]
	}
	langs := make([]string, 0, len(triggers))
	for lang := range triggers {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if phrases := triggers[lang]; len(phrases) > 0 {
			return phrases[0]
		}
	}
	return md.Name
}
