package adapter

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// Frontmatter is the canonical header written to every adapted skill.
// Field order here is serialisation order, which keeps repeated adapt
// runs byte-stable.
type Frontmatter struct {
	Name     string     `yaml:"name"`
	Module   string     `yaml:"module"`
	Layer    string     `yaml:"layer"`
	Triggers triggerMap `yaml:"triggers"`
	Type     string     `yaml:"type"`
	Version  string     `yaml:"version"`
	Source   string     `yaml:"source,omitempty"`
	URL      string     `yaml:"original_url,omitempty"`
	Adapted  time.Time  `yaml:"adapted_at"`
}

// triggerMap marshals with sorted language keys so output does not
// depend on map iteration order.
type triggerMap map[string][]string

func (t triggerMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	langs := make([]string, 0, len(t))
	for lang := range t {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: lang}
		valNode := &yaml.Node{Kind: yaml.SequenceNode}
		for _, phrase := range t[lang] {
			valNode.Content = append(valNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: phrase})
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

var (
	nameSeparatorRe   = regexp.MustCompile(`[\s_]+`)
	nameInvalidRe     = regexp.MustCompile(`[^a-z0-9-]`)
	nameLeadingRe     = regexp.MustCompile(`^[0-9-]+`)
	descriptionWordRe = regexp.MustCompile(`\b\w{3,}\b`)
)

// NormalizeName converts an arbitrary skill name to the catalogue's
// lowercase-hyphen convention. Leading digits and hyphens are dropped so
// the result can serve as an identifier.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = nameSeparatorRe.ReplaceAllString(name, "-")
	name = nameInvalidRe.ReplaceAllString(name, "")
	name = nameLeadingRe.ReplaceAllString(name, "")
	return name
}

func inferModule(md *skill.Metadata) string {
	return inferCategory(md, moduleOrder, moduleKeywords, defaultModule)
}

func inferLayer(md *skill.Metadata) string {
	return inferCategory(md, layerOrder, layerKeywords, defaultLayer)
}

func inferCategory(md *skill.Metadata, order []string, table map[string][]string, fallback string) string {
	nameLower := strings.ToLower(md.Name)
	descLower := strings.ToLower(md.Description)
	for _, category := range order {
		for _, keyword := range table[category] {
			if strings.Contains(nameLower, keyword) || strings.Contains(descLower, keyword) {
				return category
			}
		}
	}
	return fallback
}

func inferType(md *skill.Metadata) string {
	descLower := strings.ToLower(md.Description)
	switch {
	case containsAnyWord(descLower, "create", "generate", "design", "art"):
		return "creative"
	case containsAnyWord(descLower, "analyze", "research", "study"):
		return "analytical"
	default:
		return "execution"
	}
}

func containsAnyWord(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// buildTriggers returns bilingual triggers: supplied languages are kept,
// a missing "en" set is synthesised from the name and the first three
// description keywords, and a missing "zh" set comes from the fixed
// translation table with the skill name as fallback.
func buildTriggers(md *skill.Metadata) triggerMap {
	triggers := triggerMap{}
	for lang, phrases := range md.Triggers {
		triggers[lang] = append([]string(nil), phrases...)
	}

	if _, ok := triggers["en"]; !ok {
		en := []string{md.Name}
		words := descriptionWordRe.FindAllString(md.Description, 3)
		en = append(en, words...)
		triggers["en"] = en
	}

	if _, ok := triggers["zh"]; !ok {
		triggers["zh"] = chineseTriggers(md)
	}

	return triggers
}

func chineseTriggers(md *skill.Metadata) []string {
	nameLower := strings.ToLower(md.Name)
	var zh []string
	for _, entry := range triggerTranslations {
		if strings.Contains(nameLower, entry.en) {
			zh = append(zh, entry.zh)
		}
	}
	if len(zh) == 0 {
		zh = append(zh, md.Name)
	}
	return zh
}

// buildFrontmatter assembles the adapted header. Provenance fields are
// only recorded for non-local candidates.
func buildFrontmatter(md *skill.Metadata, now time.Time) Frontmatter {
	fm := Frontmatter{
		Name:     NormalizeName(md.Name),
		Module:   inferModule(md),
		Layer:    inferLayer(md),
		Triggers: buildTriggers(md),
		Type:     inferType(md),
		Version:  "1.0",
		Adapted:  now,
	}
	if md.Source != skill.SourceLocal {
		fm.Source = string(md.Source)
		fm.URL = md.URL
	}
	return fm
}
