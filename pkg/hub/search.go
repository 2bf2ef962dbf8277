package hub

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/sources"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// SearchOptions narrows a hub-level search.
type SearchOptions struct {
	// Source restricts the fan-out to one adapter.
	Source skill.SourceType
	// Limit caps the results per adapter.
	Limit int
}

// SearchAll queries every enabled, available source concurrently and
// merges the results in source priority order. A failing source is
// logged and reported in the returned error, but never hides the other
// sources' hits. The query lands in the search history either way.
func (h *Hub) SearchAll(ctx context.Context, query string, opts SearchOptions) ([]skill.SearchResult, error) {
	targets := h.searchTargets(opts.Source)

	perSource := make([][]skill.SearchResult, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, src := range targets {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			results, err := src.Search(ctx, query, sources.SearchOptions{Limit: opts.Limit})
			if err != nil {
				logger.G(ctx).WithField("source", src.Type()).WithError(err).Warn("source search failed")
				errs[i] = err
				return
			}
			perSource[i] = results
		}(i, src)
	}
	wg.Wait()

	var merged []skill.SearchResult
	var searched []string
	for i, src := range targets {
		merged = append(merged, perSource[i]...)
		searched = append(searched, string(src.Type()))
	}

	var combined *multierror.Error
	for _, err := range errs {
		combined = multierror.Append(combined, err)
	}

	if err := h.store.SaveSearch(ctx, query, searched, len(merged)); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to record search history")
	}

	return merged, combined.ErrorOrNil()
}

// searchTargets returns the available adapters to query, optionally
// restricted to one source type.
func (h *Hub) searchTargets(only skill.SourceType) []sources.Source {
	var targets []sources.Source
	for _, src := range h.sources {
		if only != "" && src.Type() != only {
			continue
		}
		if !src.IsAvailable() {
			continue
		}
		targets = append(targets, src)
	}
	return targets
}
