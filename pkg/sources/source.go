// Package sources provides a uniform query/fetch interface over the
// heterogeneous skill upstreams: the official registry CLI, the plugin
// marketplace, code-host search, and the local skills directory.
//
// Adapters degrade rather than fail: a missing tool, credential, or
// network yields empty results and IsAvailable() == false. Everything an
// adapter returns is untrusted input; nothing fetched is ever executed.
package sources

import (
	"context"
	"strings"
	"time"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// defaultTimeout bounds a single upstream call (subprocess or HTTP).
const defaultTimeout = 30 * time.Second

// SearchOptions narrows a search.
type SearchOptions struct {
	// Limit caps the number of results; zero means adapter default.
	Limit int
}

// Source is the contract every upstream adapter implements.
type Source interface {
	// Type is the stable tag identifying the upstream.
	Type() skill.SourceType

	// IsAvailable reports whether the adapter's external requirements
	// (tool on PATH, credential, network library) are satisfied.
	IsAvailable() bool

	// Search returns matching skills. An unavailable adapter returns an
	// empty slice and no error.
	Search(ctx context.Context, query string, opts SearchOptions) ([]skill.SearchResult, error)

	// GetMetadata fetches the full metadata record for one skill without
	// downloading its content. A miss returns (nil, nil).
	GetMetadata(ctx context.Context, name, url string) (*skill.Metadata, error)

	// List enumerates the upstream catalogue, best effort.
	List(ctx context.Context) ([]skill.SearchResult, error)

	// Download materialises the skill at dest. Read-only sources may
	// report success without copying anything.
	Download(ctx context.Context, name, dest string) error
}

// matchesQuery implements the shared local filter: case-insensitive
// substring match on name or description.
func matchesQuery(query, name, description string) bool {
	q := strings.ToLower(query)
	return q == "" ||
		strings.Contains(strings.ToLower(name), q) ||
		strings.Contains(strings.ToLower(description), q)
}

// limitResults truncates to the requested cap.
func limitResults(results []skill.SearchResult, limit int) []skill.SearchResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
