package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalogue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func remoteFixture(name string, source skill.SourceType) *skill.Metadata {
	return &skill.Metadata{
		Name:        name,
		Source:      source,
		Description: "Draws charts from tabular data.",
		Author:      "acme",
		URL:         "https://example.com/" + name,
		Triggers:    map[string][]string{"en": {"chart"}},
		Tags:        []string{"visualization"},
		FileList:    []string{"SKILL.md"},
	}
}

func TestRemoteRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	md := remoteFixture("data-viz", skill.SourceCodeHost)
	md.Popularity = &skill.PopularityStats{Stars: 150, License: "MIT"}
	require.NoError(t, s.UpsertRemote(ctx, md))

	got, err := s.GetRemote(ctx, skill.SourceCodeHost, "data-viz")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "data-viz", got.Name)
	assert.Equal(t, skill.SourceCodeHost, got.Source)
	assert.Equal(t, "acme", got.Author)
	assert.Equal(t, []string{"chart"}, got.Triggers["en"])
	require.NotNil(t, got.Popularity)
	assert.Equal(t, 150, got.Popularity.Stars)
	assert.False(t, got.CachedAt.IsZero())
}

func TestGetRemoteMissReturnsNil(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetRemote(context.Background(), skill.SourceCodeHost, "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetRemoteNameIsCaseInsensitive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertRemote(ctx, remoteFixture("Data-Viz", skill.SourceCodeHost)))

	got, err := s.GetRemote(ctx, skill.SourceCodeHost, "data-viz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Data-Viz", got.Name)
}

func TestUpsertRemoteReplacesExistingRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	md := remoteFixture("data-viz", skill.SourceCodeHost)
	require.NoError(t, s.UpsertRemote(ctx, md))

	md.Description = "Updated description."
	require.NoError(t, s.UpsertRemote(ctx, md))

	all, err := s.ListRemote(ctx, skill.SourceCodeHost)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Updated description.", all[0].Description)
}

func TestSameNameDifferentSourcesCoexist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRemote(ctx, remoteFixture("data-viz", skill.SourceCodeHost)))
	require.NoError(t, s.UpsertRemote(ctx, remoteFixture("data-viz", skill.SourcePluginMarketplace)))

	all, err := s.ListRemote(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyHost, err := s.ListRemote(ctx, skill.SourceCodeHost)
	require.NoError(t, err)
	require.Len(t, onlyHost, 1)
	assert.Equal(t, skill.SourceCodeHost, onlyHost[0].Source)
}

func TestSearchRemote(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRemote(ctx, remoteFixture("data-viz", skill.SourceCodeHost)))
	poem := remoteFixture("poem-writer", skill.SourceCodeHost)
	poem.Description = "Composes rhyming verse."
	require.NoError(t, s.UpsertRemote(ctx, poem))

	t.Run("matches name", func(t *testing.T) {
		hits, err := s.SearchRemote(ctx, "VIZ", "")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "data-viz", hits[0].Name)
	})

	t.Run("matches description", func(t *testing.T) {
		hits, err := s.SearchRemote(ctx, "rhyming", "")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "poem-writer", hits[0].Name)
	})

	t.Run("source filter", func(t *testing.T) {
		hits, err := s.SearchRemote(ctx, "viz", skill.SourcePluginMarketplace)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestLocalRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l := &LocalSkill{
		Name:        "data-viz",
		Path:        "/skills/extensions/creative/data-viz.md",
		Description: "Draws charts.",
		Triggers:    map[string][]string{"en": {"chart"}},
		Tags:        []string{"visualization"},
	}
	require.NoError(t, s.UpsertLocal(ctx, l))

	got, err := s.GetLocal(ctx, "data-viz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, l.Path, got.Path)
	assert.Equal(t, []string{"chart"}, got.Triggers["en"])
	assert.False(t, got.LastScanned.IsZero())

	missing, err := s.GetLocal(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLocalSkillToMetadata(t *testing.T) {
	l := &LocalSkill{
		Name:        "data-viz",
		Path:        "/skills/data-viz.md",
		Description: "Draws charts.",
		Triggers:    map[string][]string{"en": {"chart"}},
		Tags:        []string{"viz"},
	}

	md := l.ToMetadata()
	assert.Equal(t, skill.SourceLocal, md.Source)
	assert.Equal(t, l.Path, md.URL)
	assert.Equal(t, l.Triggers, md.Triggers)
}

func TestListLocalOrdersByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.UpsertLocal(ctx, &LocalSkill{Name: name, Path: "/" + name}))
	}

	all, err := s.ListLocal(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "mid", all[1].Name)
	assert.Equal(t, "zeta", all[2].Name)
}

func TestSearchLocal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertLocal(ctx, &LocalSkill{
		Name: "data-viz", Path: "/a", Description: "Draws charts.",
	}))
	require.NoError(t, s.UpsertLocal(ctx, &LocalSkill{
		Name: "poem-writer", Path: "/b", Description: "Composes verse.",
	}))

	hits, err := s.SearchLocal(ctx, "charts")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "data-viz", hits[0].Name)
}

func TestSearchHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSearch(ctx, "charts", []string{"code_host"}, 3))
	require.NoError(t, s.SaveSearch(ctx, "poems", nil, 0))

	recent, err := s.RecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	queries := []string{recent[0].Query, recent[1].Query}
	assert.ElementsMatch(t, []string{"charts", "poems"}, queries)
	for _, rec := range recent {
		assert.NotEmpty(t, rec.ID)
		assert.NotNil(t, rec.Sources)
		assert.False(t, rec.Timestamp.IsZero())
	}
}

func TestRecentSearchesLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveSearch(ctx, "q", nil, i))
	}

	recent, err := s.RecentSearches(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestCleanupOlderThan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	stale := remoteFixture("stale", skill.SourceCodeHost)
	stale.CachedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, s.UpsertRemote(ctx, stale))

	fresh := remoteFixture("fresh", skill.SourceCodeHost)
	require.NoError(t, s.UpsertRemote(ctx, fresh))

	n, err := s.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := s.ListRemote(ctx, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Name)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRemote(ctx, remoteFixture("a", skill.SourceCodeHost)))
	require.NoError(t, s.UpsertRemote(ctx, remoteFixture("b", skill.SourceCodeHost)))
	require.NoError(t, s.UpsertRemote(ctx, remoteFixture("c", skill.SourcePluginMarketplace)))
	require.NoError(t, s.UpsertLocal(ctx, &LocalSkill{Name: "local-one", Path: "/l"}))
	require.NoError(t, s.SaveSearch(ctx, "q", nil, 1))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.RemoteSkills)
	assert.Equal(t, 1, st.LocalSkills)
	assert.Equal(t, 1, st.Searches)
	assert.Equal(t, 2, st.RemoteBySource[skill.SourceCodeHost])
	assert.Equal(t, 1, st.RemoteBySource[skill.SourcePluginMarketplace])
}

func TestStoreErrorWrapsOperation(t *testing.T) {
	err := storeErr("upsert_remote", assert.AnError)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store upsert_remote")
	assert.ErrorIs(t, err, assert.AnError)
}
