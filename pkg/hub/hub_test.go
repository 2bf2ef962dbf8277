package hub

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsymphony/skillhub/pkg/adapter"
	"github.com/mindsymphony/skillhub/pkg/config"
	"github.com/mindsymphony/skillhub/pkg/evaluate"
	"github.com/mindsymphony/skillhub/pkg/sources"
	"github.com/mindsymphony/skillhub/pkg/store"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// stubSource is a canned in-memory source adapter.
type stubSource struct {
	sourceType skill.SourceType
	available  bool
	results    []skill.SearchResult
	metadata   map[string]*skill.Metadata
	searchErr  error
	downloaded []string
}

func (s *stubSource) Type() skill.SourceType { return s.sourceType }
func (s *stubSource) IsAvailable() bool      { return s.available }

func (s *stubSource) Search(ctx context.Context, query string, opts sources.SearchOptions) ([]skill.SearchResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *stubSource) GetMetadata(ctx context.Context, name, url string) (*skill.Metadata, error) {
	return s.metadata[name], nil
}

func (s *stubSource) List(ctx context.Context) ([]skill.SearchResult, error) {
	return s.Search(ctx, "", sources.SearchOptions{})
}

func (s *stubSource) Download(ctx context.Context, name, dest string) error {
	s.downloaded = append(s.downloaded, name)
	return os.WriteFile(dest, []byte("# "+name+"\n"), 0o644)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Evaluation.OverlapThreshold = 0.8
	cfg.Evaluation.QualityThreshold = 0.6
	cfg.Evaluation.AutoAdapt = true
	cfg.Integration.SkillsPath = t.TempDir()
	cfg.Security.RiskyDependencies = config.DefaultRiskyDependencies
	cfg.Security.AntiPatterns = config.DefaultAntiPatterns
	cfg.Cache.Dir = t.TempDir()
	cfg.Cache.RetentionDays = 7
	return cfg
}

func newTestHub(t *testing.T, cfg *config.Config, srcs ...sources.Source) *Hub {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return &Hub{
		cfg:     cfg,
		store:   st,
		engine:  evaluate.NewEngine(cfg),
		adapter: adapter.New(cfg.Integration.SkillsPath),
		sources: srcs,
	}
}

func remoteCandidate() *skill.Metadata {
	return &skill.Metadata{
		Name:        "data-viz",
		Source:      skill.SourceCodeHost,
		Description: "Draws publication quality charts from tabular data sources.",
		URL:         "https://github.com/acme/data-viz",
		Triggers:    map[string][]string{"en": {"chart", "plot"}},
		FileList:    []string{"SKILL.md", "README.md"},
		ReadmePreview: "The purpose is charting. Example: plot a CSV. " +
			"The scope is static charts. Its unique value is layout.",
		Popularity: &skill.PopularityStats{Stars: 150, License: "MIT"},
	}
}

func TestSearchAllMergesInPriorityOrder(t *testing.T) {
	first := &stubSource{
		sourceType: skill.SourceLocal,
		available:  true,
		results:    []skill.SearchResult{{Name: "local-hit", Source: skill.SourceLocal}},
	}
	second := &stubSource{
		sourceType: skill.SourceCodeHost,
		available:  true,
		results:    []skill.SearchResult{{Name: "remote-hit", Source: skill.SourceCodeHost}},
	}
	h := newTestHub(t, testConfig(t), first, second)

	results, err := h.SearchAll(context.Background(), "charts", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "local-hit", results[0].Name)
	assert.Equal(t, "remote-hit", results[1].Name)

	recent, err := h.Store().RecentSearches(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "charts", recent[0].Query)
	assert.Equal(t, 2, recent[0].ResultCount)
}

func TestSearchAllSkipsUnavailableSources(t *testing.T) {
	down := &stubSource{sourceType: skill.SourceCodeHost, available: false,
		results: []skill.SearchResult{{Name: "never"}}}
	up := &stubSource{sourceType: skill.SourceLocal, available: true,
		results: []skill.SearchResult{{Name: "hit"}}}
	h := newTestHub(t, testConfig(t), down, up)

	results, err := h.SearchAll(context.Background(), "", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hit", results[0].Name)
}

func TestSearchAllPartialFailureKeepsResults(t *testing.T) {
	broken := &stubSource{sourceType: skill.SourceCodeHost, available: true,
		searchErr: errors.New("rate limited")}
	working := &stubSource{sourceType: skill.SourceLocal, available: true,
		results: []skill.SearchResult{{Name: "hit"}}}
	h := newTestHub(t, testConfig(t), broken, working)

	results, err := h.SearchAll(context.Background(), "", SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	require.Len(t, results, 1)
	assert.Equal(t, "hit", results[0].Name)
}

func TestSearchAllSourceFilter(t *testing.T) {
	local := &stubSource{sourceType: skill.SourceLocal, available: true,
		results: []skill.SearchResult{{Name: "local-hit"}}}
	host := &stubSource{sourceType: skill.SourceCodeHost, available: true,
		results: []skill.SearchResult{{Name: "remote-hit"}}}
	h := newTestHub(t, testConfig(t), local, host)

	results, err := h.SearchAll(context.Background(), "",
		SearchOptions{Source: skill.SourceCodeHost})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "remote-hit", results[0].Name)
}

func TestEvaluateFetchesAndCachesMetadata(t *testing.T) {
	src := &stubSource{
		sourceType: skill.SourceCodeHost,
		available:  true,
		metadata:   map[string]*skill.Metadata{"data-viz": remoteCandidate()},
	}
	h := newTestHub(t, testConfig(t), src)
	ctx := context.Background()

	report, err := h.Evaluate(ctx,
		Candidate{Source: skill.SourceCodeHost, Name: "data-viz"}, "")
	require.NoError(t, err)
	assert.Equal(t, "data-viz", report.SkillName)

	cached, err := h.Store().GetRemote(ctx, skill.SourceCodeHost, "data-viz")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "data-viz", cached.Name)
}

func TestEvaluatePrefersCache(t *testing.T) {
	// The adapter has no record; only the cache can serve the candidate.
	src := &stubSource{sourceType: skill.SourceCodeHost, available: true}
	h := newTestHub(t, testConfig(t), src)
	ctx := context.Background()

	require.NoError(t, h.Store().UpsertRemote(ctx, remoteCandidate()))

	report, err := h.Evaluate(ctx,
		Candidate{Source: skill.SourceCodeHost, Name: "data-viz"}, "")
	require.NoError(t, err)
	assert.Equal(t, "data-viz", report.SkillName)
}

func TestEvaluateUnavailableSource(t *testing.T) {
	src := &stubSource{sourceType: skill.SourceCodeHost, available: false}
	h := newTestHub(t, testConfig(t), src)

	_, err := h.Evaluate(context.Background(),
		Candidate{Source: skill.SourceCodeHost, Name: "data-viz"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestEvaluateUsesLocalInventoryForOverlap(t *testing.T) {
	src := &stubSource{
		sourceType: skill.SourceCodeHost,
		available:  true,
		metadata:   map[string]*skill.Metadata{"data-viz": remoteCandidate()},
	}
	h := newTestHub(t, testConfig(t), src)
	ctx := context.Background()

	twin := remoteCandidate()
	require.NoError(t, h.Store().UpsertLocal(ctx, &store.LocalSkill{
		Name:        twin.Name,
		Path:        "/skills/data-viz",
		Description: twin.Description,
		Triggers:    twin.Triggers,
	}))

	report, err := h.Evaluate(ctx,
		Candidate{Source: skill.SourceCodeHost, Name: "data-viz"}, "")
	require.NoError(t, err)
	assert.Equal(t, "data-viz", report.Overlap.MostSimilar)
	assert.Greater(t, report.Overlap.Score, 0.5)
}

func TestEvaluateBatchIsolatesFailures(t *testing.T) {
	src := &stubSource{
		sourceType: skill.SourceCodeHost,
		available:  true,
		metadata:   map[string]*skill.Metadata{"data-viz": remoteCandidate()},
	}
	h := newTestHub(t, testConfig(t), src)

	reports, err := h.EvaluateBatch(context.Background(), []Candidate{
		{Source: skill.SourceCodeHost, Name: "data-viz"},
		{Source: skill.SourceCodeHost, Name: "missing"},
	}, "")

	require.Error(t, err)
	require.Len(t, reports, 2)
	assert.NotNil(t, reports[0])
	assert.Nil(t, reports[1])
}

func TestAdaptCandidateHonoursAutoAdaptSwitch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Evaluation.AutoAdapt = false
	h := newTestHub(t, cfg)

	_, err := h.AdaptCandidate(context.Background(),
		&skill.PreEvaluationReport{}, "/tmp/x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestAdaptCandidateRejectsNonAdaptableReport(t *testing.T) {
	h := newTestHub(t, testConfig(t))

	report := &skill.PreEvaluationReport{
		Recommendation: skill.RecommendReject,
		Safety:         skill.NewSafetyReport(),
	}
	_, err := h.AdaptCandidate(context.Background(), report, "/tmp/x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not permit adaptation")
}

func TestAdaptCandidateWritesSkill(t *testing.T) {
	cfg := testConfig(t)
	h := newTestHub(t, cfg)

	source := filepath.Join(t.TempDir(), "SKILL.md")
	require.NoError(t, os.WriteFile(source, []byte("# Data Viz\n\nDraws charts.\n"), 0o644))

	report := &skill.PreEvaluationReport{
		Recommendation: skill.RecommendAdopt,
		Safety:         skill.NewSafetyReport(),
		Metadata:       remoteCandidate(),
	}

	result, err := h.AdaptCandidate(context.Background(), report, source, "plot sales")
	require.NoError(t, err)
	assert.Equal(t, adapter.StatusSuccess, result.Status)
	assert.FileExists(t, result.TargetPath)
	assert.Contains(t, result.TargetPath, cfg.Integration.SkillsPath)
}

func TestAdaptPathReadsFrontmatter(t *testing.T) {
	cfg := testConfig(t)
	h := newTestHub(t, cfg)

	source := filepath.Join(t.TempDir(), "chart-maker.md")
	require.NoError(t, os.WriteFile(source, []byte(`---
name: chart-maker
description: Builds charts on demand.
---

# Chart Maker
`), 0o644))

	result, err := h.AdaptPath(context.Background(), source, "", false)
	require.NoError(t, err)
	assert.Equal(t, adapter.StatusSuccess, result.Status)
	assert.Contains(t, result.TargetPath, "chart-maker.md")
}

func TestScanLocalPopulatesInventory(t *testing.T) {
	local := &stubSource{
		sourceType: skill.SourceLocal,
		available:  true,
		results: []skill.SearchResult{
			{
				Name:   "data-viz",
				Source: skill.SourceLocal,
				Metadata: &skill.Metadata{
					Name:        "data-viz",
					Source:      skill.SourceLocal,
					Description: "Draws charts.",
					URL:         "/skills/data-viz",
					Tags:        []string{"viz"},
				},
			},
			{Name: "no-metadata", Source: skill.SourceLocal},
		},
	}
	h := newTestHub(t, testConfig(t), local)
	ctx := context.Background()

	require.NoError(t, h.ScanLocal(ctx))

	all, err := h.Store().ListLocal(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "data-viz", all[0].Name)
	assert.Equal(t, "/skills/data-viz", all[0].Path)
}

func TestScanLocalWithoutLocalSource(t *testing.T) {
	h := newTestHub(t, testConfig(t))
	assert.Error(t, h.ScanLocal(context.Background()))
}

func TestFetchDownloads(t *testing.T) {
	src := &stubSource{
		sourceType: skill.SourceCodeHost,
		available:  true,
		metadata:   map[string]*skill.Metadata{"data-viz": remoteCandidate()},
	}
	h := newTestHub(t, testConfig(t), src)

	result, err := h.Fetch(context.Background(),
		Candidate{Source: skill.SourceCodeHost, Name: "data-viz"},
		FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"data-viz"}, src.downloaded)
	assert.FileExists(t, result.Path)
	assert.Nil(t, result.Report)
}

func TestFetchWithAdaptRunsThePipeline(t *testing.T) {
	src := &stubSource{
		sourceType: skill.SourceCodeHost,
		available:  true,
		metadata:   map[string]*skill.Metadata{"data-viz": remoteCandidate()},
	}
	h := newTestHub(t, testConfig(t), src)

	result, err := h.Fetch(context.Background(),
		Candidate{Source: skill.SourceCodeHost, Name: "data-viz"},
		FetchOptions{Adapt: true, Requirement: "plot charts from tabular data"})
	require.NoError(t, err)
	require.NotNil(t, result.Report)

	if result.Report.Adaptable() {
		require.NotNil(t, result.Adapted)
		assert.FileExists(t, result.Adapted.TargetPath)
	} else {
		assert.Nil(t, result.Adapted)
	}
}

func TestFetchUnknownSource(t *testing.T) {
	h := newTestHub(t, testConfig(t))

	_, err := h.Fetch(context.Background(),
		Candidate{Source: skill.SourceCodeHost, Name: "x"}, FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestCleanupUsesConfiguredRetention(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.RetentionDays = 0
	h := newTestHub(t, cfg)

	n, err := h.Cleanup(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSourceLookup(t *testing.T) {
	local := &stubSource{sourceType: skill.SourceLocal}
	h := newTestHub(t, testConfig(t), local)

	assert.Equal(t, local, h.Source(skill.SourceLocal))
	assert.Nil(t, h.Source(skill.SourceCodeHost))
}
