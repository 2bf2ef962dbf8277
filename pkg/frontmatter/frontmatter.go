// Package frontmatter parses the YAML header block of skill documents.
// A skill document starts with a fenced block delimited by `---` lines;
// unknown keys are preserved verbatim so that the adapter can round-trip
// them into the local catalogue format.
package frontmatter

import (
	"bytes"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Header is the set of keys the hub recognises in a skill document.
// Everything else stays in the raw map returned by Parse.
type Header struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Author      string `mapstructure:"author"`
	Type        string `mapstructure:"type"`
	Module      string `mapstructure:"module"`
	Layer       string `mapstructure:"layer"`
	Version     string `mapstructure:"version"`
	Triggers    any    `mapstructure:"triggers"`
	Tags        any    `mapstructure:"tags"`
}

// Parse splits a document into its frontmatter map and body. A document
// without a frontmatter block yields an empty map and the full content as
// body; a malformed block is a parse error.
func Parse(content []byte) (map[string]any, string, error) {
	if !bytes.HasPrefix(content, []byte("---")) {
		return map[string]any{}, string(content), nil
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, "", errors.Wrap(err, "failed to parse document")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		// Leading --- but no closing fence; treat the whole thing as body.
		return map[string]any{}, string(content), nil
	}

	return metaData, extractBody(string(content)), nil
}

// Decode maps the recognised frontmatter keys onto a Header.
func Decode(metaData map[string]any) (*Header, error) {
	h := &Header{}
	if err := mapstructure.WeakDecode(metaData, h); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}
	return h, nil
}

// extractBody removes the YAML frontmatter fence and returns the body.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	fenceEnd := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fenceEnd = i
			break
		}
	}
	if fenceEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[fenceEnd+1:], "\n"), "\n")
}

// FirstParagraph returns the first non-empty paragraph of a body, used as
// the description fallback when the frontmatter omits one.
func FirstParagraph(body string) string {
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			return para
		}
	}
	return ""
}

// NormalizeTriggers coerces the frontmatter triggers value into the
// canonical language-tag mapping. A flat list becomes {"en": list} for
// compatibility; a bare string becomes a single-entry list.
func NormalizeTriggers(v any) map[string][]string {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string][]string, len(t))
		for lang, entry := range t {
			out[lang] = toStringList(entry)
		}
		return out
	case map[any]any:
		// goldmark-meta yields yaml.v2 style maps
		out := make(map[string][]string, len(t))
		for lang, entry := range t {
			key, ok := lang.(string)
			if !ok {
				continue
			}
			out[key] = toStringList(entry)
		}
		return out
	case []any, []string:
		if list := toStringList(t); len(list) > 0 {
			return map[string][]string{"en": list}
		}
	case string:
		if t != "" {
			return map[string][]string{"en": {t}}
		}
	}
	return nil
}

// NormalizeTags coerces the frontmatter tags value into a string list.
func NormalizeTags(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return toStringList(v)
	}
}

func toStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{list}
	}
	return nil
}
