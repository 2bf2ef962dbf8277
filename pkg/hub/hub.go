// Package hub orchestrates the skill pipeline end to end: source fan-out,
// metadata caching, evaluation, and adaptation into the local catalogue.
package hub

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/adapter"
	"github.com/mindsymphony/skillhub/pkg/config"
	"github.com/mindsymphony/skillhub/pkg/db"
	"github.com/mindsymphony/skillhub/pkg/evaluate"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/sources"
	"github.com/mindsymphony/skillhub/pkg/store"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// Hub owns the pipeline's collaborators. All construction is explicit;
// there are no package-level default instances.
type Hub struct {
	cfg     *config.Config
	store   *store.Store
	engine  *evaluate.Engine
	adapter *adapter.Adapter
	sources []sources.Source
}

// New wires a hub from configuration: opens the cache store, constructs
// the enabled source adapters in priority order, and builds the
// evaluation engine and format adapter.
func New(ctx context.Context, cfg *config.Config) (*Hub, error) {
	dbPath := cfg.Cache.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = db.DefaultDBPath()
		if err != nil {
			return nil, errors.Wrap(err, "resolve cache database path")
		}
	}

	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open catalogue store")
	}

	h := &Hub{
		cfg:     cfg,
		store:   st,
		engine:  evaluate.NewEngine(cfg),
		adapter: adapter.New(cfg.Integration.SkillsPath),
		sources: buildSources(ctx, cfg),
	}

	if cfg.Integration.ScanOnStartup {
		if err := h.ScanLocal(ctx); err != nil {
			logger.G(ctx).WithError(err).Warn("startup scan of local skills failed")
		}
	}
	return h, nil
}

// Close releases the store.
func (h *Hub) Close() error {
	return h.store.Close()
}

// Store exposes the catalogue store for read-only queries.
func (h *Hub) Store() *store.Store {
	return h.store
}

// Config returns the hub's configuration.
func (h *Hub) Config() *config.Config {
	return h.cfg
}

// Sources returns the enabled adapters, highest priority first.
func (h *Hub) Sources() []sources.Source {
	return h.sources
}

// Source returns the adapter for the given source type, or nil.
func (h *Hub) Source(t skill.SourceType) sources.Source {
	for _, s := range h.sources {
		if s.Type() == t {
			return s
		}
	}
	return nil
}

func buildSources(ctx context.Context, cfg *config.Config) []sources.Source {
	type prioritized struct {
		source   sources.Source
		priority int
	}
	var enabled []prioritized

	if cfg.Sources.OfficialRegistry.Enabled {
		enabled = append(enabled, prioritized{
			source:   sources.NewRegistrySource(ctx, cfg.Sources.OfficialRegistry),
			priority: cfg.Sources.OfficialRegistry.Priority,
		})
	}
	if cfg.Sources.Local.Enabled {
		root := cfg.Sources.Local.Path
		if root == "" {
			root = cfg.Integration.SkillsPath
		}
		enabled = append(enabled, prioritized{
			source:   sources.NewLocalSource(root),
			priority: cfg.Sources.Local.Priority,
		})
	}
	if cfg.Sources.PluginMarketplace.Enabled {
		enabled = append(enabled, prioritized{
			source:   sources.NewMarketplaceSource(ctx, cfg.Sources.PluginMarketplace),
			priority: cfg.Sources.PluginMarketplace.Priority,
		})
	}
	if cfg.Sources.CodeHost.Enabled {
		enabled = append(enabled, prioritized{
			source:   sources.NewGitHubSource(ctx, cfg.Sources.CodeHost.APIKey()),
			priority: cfg.Sources.CodeHost.Priority,
		})
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].priority < enabled[j].priority
	})

	out := make([]sources.Source, 0, len(enabled))
	for _, e := range enabled {
		out = append(out, e.source)
	}
	return out
}
