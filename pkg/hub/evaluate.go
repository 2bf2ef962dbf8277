package hub

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// Candidate names one remote skill to evaluate.
type Candidate struct {
	Source skill.SourceType
	Name   string
	URL    string
}

// Evaluate runs the full scoring pipeline for one candidate. Metadata
// comes from the cache when present, otherwise from the source adapter
// (and is cached on the way through). The local inventory is read from
// the store.
func (h *Hub) Evaluate(ctx context.Context, candidate Candidate, requirement string) (*skill.PreEvaluationReport, error) {
	md, err := h.resolveMetadata(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if md == nil {
		return nil, errors.Errorf("no metadata for %s from %s", candidate.Name, candidate.Source)
	}

	locals, err := h.localInventory(ctx)
	if err != nil {
		return nil, err
	}

	report := h.engine.Evaluate(ctx, md, locals, requirement)
	logger.G(ctx).
		WithField("skill", report.SkillName).
		WithField("recommendation", report.Recommendation).
		Info("candidate evaluated")
	return report, nil
}

// EvaluateBatch evaluates candidates concurrently. Each candidate gets
// its own report slot; a failure fills the slot with nil and joins the
// aggregate error without aborting the rest.
func (h *Hub) EvaluateBatch(ctx context.Context, candidates []Candidate, requirement string) ([]*skill.PreEvaluationReport, error) {
	reports := make([]*skill.PreEvaluationReport, len(candidates))
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c Candidate) {
			defer wg.Done()
			report, err := h.Evaluate(ctx, c, requirement)
			if err != nil {
				errs[i] = errors.Wrapf(err, "evaluate %s", c.Name)
				return
			}
			reports[i] = report
		}(i, c)
	}
	wg.Wait()

	var combined *multierror.Error
	for _, err := range errs {
		combined = multierror.Append(combined, err)
	}
	return reports, combined.ErrorOrNil()
}

// resolveMetadata is cache-first: a store hit short-circuits the source
// adapter, a miss fetches and caches.
func (h *Hub) resolveMetadata(ctx context.Context, candidate Candidate) (*skill.Metadata, error) {
	cached, err := h.store.GetRemote(ctx, candidate.Source, candidate.Name)
	if err != nil {
		return nil, errors.Wrap(err, "read metadata cache")
	}
	if cached != nil {
		return cached, nil
	}

	src := h.Source(candidate.Source)
	if src == nil || !src.IsAvailable() {
		return nil, errors.Errorf("source %s unavailable", candidate.Source)
	}

	md, err := src.GetMetadata(ctx, candidate.Name, candidate.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch metadata from %s", candidate.Source)
	}
	if md == nil {
		return nil, nil
	}

	if err := h.store.UpsertRemote(ctx, md); err != nil {
		logger.G(ctx).WithField("skill", md.Name).WithError(err).Warn("failed to cache metadata")
	}
	return md, nil
}

// localInventory returns every known local skill as metadata for overlap
// detection.
func (h *Hub) localInventory(ctx context.Context) ([]*skill.Metadata, error) {
	locals, err := h.store.ListLocal(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list local skills")
	}
	mds := make([]*skill.Metadata, 0, len(locals))
	for _, l := range locals {
		mds = append(mds, l.ToMetadata())
	}
	return mds, nil
}
