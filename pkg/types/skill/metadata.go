package skill

import (
	"sort"
	"strings"
	"time"
)

// PopularityStats carries community signals reported by the upstream,
// typically a code-hosting platform.
type PopularityStats struct {
	Stars      int        `json:"stars"`
	Forks      int        `json:"forks"`
	Watchers   int        `json:"watchers"`
	OpenIssues int        `json:"open_issues"`
	LastCommit *time.Time `json:"last_commit,omitempty"`
	License    string     `json:"license,omitempty"`
}

// Metadata is the canonical description of a skill. A record is uniquely
// identified by (Source, Name); names are case-insensitive-unique within a
// source. Everything here comes from untrusted upstream input; nothing in
// the pipeline executes it.
type Metadata struct {
	Name        string     `json:"name"`
	Source      SourceType `json:"source"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author,omitempty"`
	URL         string     `json:"url,omitempty"`
	RepoURL     string     `json:"repo_url,omitempty"`

	// Content fingerprint used by overlap detection
	Triggers map[string][]string `json:"triggers,omitempty"` // language tag -> ordered phrases
	Tags     []string            `json:"tags,omitempty"`
	FileList []string            `json:"file_list,omitempty"` // paths relative to the skill root

	// Frontmatter preserves the candidate's header block verbatim,
	// including keys the hub does not recognise.
	Frontmatter map[string]any `json:"frontmatter,omitempty"`

	Popularity    *PopularityStats `json:"popularity_stats,omitempty"`
	UserRating    *float64         `json:"user_rating,omitempty"` // 0-5
	DownloadCount int              `json:"download_count,omitempty"`

	Dependencies []string `json:"dependencies,omitempty"`

	// ReadmePreview is a truncated rendering of the primary documentation
	// file, enough for keyword scanning.
	ReadmePreview string `json:"readme_preview,omitempty"`

	CachedAt time.Time `json:"cached_at,omitempty"`
}

// ID returns the store key for this record.
func (m *Metadata) ID() string {
	return string(m.Source) + ":" + strings.ToLower(m.Name)
}

// FlatTriggers returns all trigger phrases across languages, lowercased
// and trimmed, in language-sorted insertion order.
func (m *Metadata) FlatTriggers() []string {
	if len(m.Triggers) == 0 {
		return nil
	}
	langs := make([]string, 0, len(m.Triggers))
	for lang := range m.Triggers {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var flat []string
	for _, lang := range langs {
		for _, t := range m.Triggers[lang] {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				flat = append(flat, t)
			}
		}
	}
	return flat
}

// HasFile reports whether any path in the file list contains the given
// lowercase substring.
func (m *Metadata) HasFile(substr string) bool {
	for _, f := range m.FileList {
		if strings.Contains(strings.ToLower(f), substr) {
			return true
		}
	}
	return false
}

// License returns the declared licence identifier, if any.
func (m *Metadata) License() string {
	if m.Popularity == nil {
		return ""
	}
	return m.Popularity.License
}

// SearchResult is a single hit returned by a source adapter.
type SearchResult struct {
	Name        string     `json:"name"`
	Source      SourceType `json:"source"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`

	// Metadata is populated when the adapter could fetch it cheaply
	// (e.g. the local source); otherwise it requires a GetMetadata call.
	Metadata *Metadata `json:"metadata,omitempty"`
}
