package hub

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/adapter"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/store"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// FetchOptions controls a fetch.
type FetchOptions struct {
	// Dest is the download directory; empty means the cache downloads
	// directory.
	Dest string
	// Adapt runs the evaluation and, when permitted, the adapter after
	// download.
	Adapt       bool
	Requirement string
}

// FetchResult reports what a fetch did.
type FetchResult struct {
	Path    string
	Report  *skill.PreEvaluationReport
	Adapted *adapter.Result
}

// Fetch downloads a skill and optionally pushes it through evaluation
// and adaptation. A skill whose report forbids adaptation is downloaded
// but left untouched.
func (h *Hub) Fetch(ctx context.Context, candidate Candidate, opts FetchOptions) (*FetchResult, error) {
	src := h.Source(candidate.Source)
	if src == nil || !src.IsAvailable() {
		return nil, errors.Errorf("source %s unavailable", candidate.Source)
	}

	dest := opts.Dest
	if dest == "" {
		dest = filepath.Join(h.cfg.Cache.Dir, "downloads", candidate.Name)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, errors.Wrap(err, "create download directory")
	}

	if err := src.Download(ctx, candidate.Name, dest); err != nil {
		return nil, errors.Wrapf(err, "download %s", candidate.Name)
	}
	result := &FetchResult{Path: dest}
	logger.G(ctx).WithField("skill", candidate.Name).WithField("dest", dest).Info("skill downloaded")

	if !opts.Adapt {
		return result, nil
	}

	report, err := h.Evaluate(ctx, candidate, opts.Requirement)
	if err != nil {
		return result, errors.Wrap(err, "evaluate after fetch")
	}
	result.Report = report

	if !report.Adaptable() {
		logger.G(ctx).
			WithField("skill", candidate.Name).
			WithField("recommendation", report.Recommendation).
			Info("skipping adaptation")
		return result, nil
	}

	adapted, err := h.AdaptCandidate(ctx, report, dest, opts.Requirement)
	if err != nil {
		return result, err
	}
	result.Adapted = adapted
	return result, nil
}

// ScanLocal refreshes the store's local skill inventory from the local
// source adapter.
func (h *Hub) ScanLocal(ctx context.Context) error {
	src := h.Source(skill.SourceLocal)
	if src == nil {
		return errors.New("local source disabled")
	}

	results, err := src.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list local skills")
	}

	for _, r := range results {
		md := r.Metadata
		if md == nil {
			continue
		}
		local := &store.LocalSkill{
			Name:        md.Name,
			Path:        md.URL,
			Description: md.Description,
			Triggers:    md.Triggers,
			Tags:        md.Tags,
			LastScanned: time.Now(),
		}
		if err := h.store.UpsertLocal(ctx, local); err != nil {
			logger.G(ctx).WithField("skill", md.Name).WithError(err).Warn("failed to record local skill")
		}
	}

	logger.G(ctx).WithField("count", len(results)).Debug("local skills scanned")
	return nil
}

// Cleanup drops cached remote metadata and search history older than the
// given number of days; days <= 0 uses the configured retention.
func (h *Hub) Cleanup(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = h.cfg.Cache.RetentionDays
	}
	if days <= 0 {
		return 0, nil
	}
	return h.store.CleanupOlderThan(ctx, time.Duration(days)*24*time.Hour)
}
