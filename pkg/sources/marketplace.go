package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/config"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

const (
	marketplaceAPIBase = "https://42plugin.com/api"
	marketplaceWebBase = "https://42plugin.com"
)

// MarketplaceSource talks to the plugin marketplace. It prefers the
// marketplace CLI when installed and falls back to the HTTP API; with
// neither it declares itself unavailable.
type MarketplaceSource struct {
	tool    string
	cliPath string
	apiKey  string
	client  *http.Client
}

// NewMarketplaceSource probes for the marketplace CLI and reads the API
// key from the configured environment variable.
func NewMarketplaceSource(ctx context.Context, cfg config.SourceConfig) *MarketplaceSource {
	s := &MarketplaceSource{
		tool:   cfg.Tool,
		apiKey: cfg.APIKey(),
		client: &http.Client{Timeout: defaultTimeout},
	}
	if s.tool == "" {
		s.tool = "42plugin"
	}

	if path, err := exec.LookPath(s.tool); err == nil {
		s.cliPath = path
	} else {
		logger.G(ctx).WithField("tool", s.tool).Debug("marketplace tool not on PATH, will use HTTP API")
	}
	return s
}

func (s *MarketplaceSource) Type() skill.SourceType {
	return skill.SourcePluginMarketplace
}

// IsAvailable holds when either access path exists: the CLI, or the API
// with a credential.
func (s *MarketplaceSource) IsAvailable() bool {
	return s.cliPath != "" || s.apiKey != ""
}

func (s *MarketplaceSource) Search(ctx context.Context, query string, opts SearchOptions) ([]skill.SearchResult, error) {
	if s.cliPath != "" {
		return limitResults(s.searchViaCLI(ctx, query), opts.Limit), nil
	}
	if s.apiKey != "" {
		results, err := s.searchViaAPI(ctx, query)
		if err != nil {
			logger.G(ctx).WithError(err).Info("marketplace API search failed")
			return nil, nil
		}
		return limitResults(results, opts.Limit), nil
	}
	return nil, nil
}

func (s *MarketplaceSource) searchViaCLI(ctx context.Context, query string) []skill.SearchResult {
	callCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out, err := exec.CommandContext(callCtx, s.cliPath, "search", query, "--type", "skill", "--json").Output()
	if err != nil {
		logger.G(ctx).WithError(err).Info("marketplace CLI search failed")
		return nil
	}
	return parseMarketplaceOutput(string(out))
}

// marketplacePlugin is the wire shape of one marketplace entry.
type marketplacePlugin struct {
	Name        string   `json:"name"`
	FullName    string   `json:"fullName"`
	Description string   `json:"description"`
	Rating      *float64 `json:"rating,omitempty"`
	Downloads   int      `json:"downloads,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type marketplaceListing struct {
	Plugins []marketplacePlugin `json:"plugins"`
}

// parseMarketplaceOutput decodes the CLI's JSON listing, degrading to a
// line-per-name reading for tools that print plain text.
func parseMarketplaceOutput(output string) []skill.SearchResult {
	var listing marketplaceListing
	if err := json.Unmarshal([]byte(output), &listing); err == nil {
		results := make([]skill.SearchResult, 0, len(listing.Plugins))
		for _, p := range listing.Plugins {
			results = append(results, skill.SearchResult{
				Name:        p.Name,
				Source:      skill.SourcePluginMarketplace,
				Description: p.Description,
				URL:         fmt.Sprintf("%s/plugins/%s", marketplaceWebBase, p.FullName),
			})
		}
		return results
	}

	var results []skill.SearchResult
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		results = append(results, skill.SearchResult{
			Name:        line,
			Source:      skill.SourcePluginMarketplace,
			Description: "Plugin from the marketplace",
			URL:         fmt.Sprintf("%s/search?q=%s", marketplaceWebBase, url.QueryEscape(line)),
		})
	}
	return results
}

func (s *MarketplaceSource) searchViaAPI(ctx context.Context, query string) ([]skill.SearchResult, error) {
	endpoint := fmt.Sprintf("%s/plugins?type=skill&q=%s", marketplaceAPIBase, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build marketplace request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "marketplace request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("marketplace API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read marketplace response")
	}
	return parseMarketplaceOutput(string(body)), nil
}

// GetMetadata fetches the plugin detail record via the API when a
// credential exists, otherwise it synthesises a minimal record.
func (s *MarketplaceSource) GetMetadata(ctx context.Context, name, skillURL string) (*skill.Metadata, error) {
	if !s.IsAvailable() {
		return nil, nil
	}

	md := &skill.Metadata{
		Name:        name,
		Source:      skill.SourcePluginMarketplace,
		Description: fmt.Sprintf("Plugin from the marketplace: %s", name),
		URL:         skillURL,
		CachedAt:    time.Now(),
	}
	if md.URL == "" {
		md.URL = fmt.Sprintf("%s/plugins/%s", marketplaceWebBase, name)
	}

	if s.apiKey == "" {
		return md, nil
	}

	detail, err := s.fetchDetail(ctx, name)
	if err != nil {
		logger.G(ctx).WithField("plugin", name).WithError(err).Info("marketplace detail fetch failed, returning minimal metadata")
		return md, nil
	}
	if detail == nil {
		return md, nil
	}

	if detail.Description != "" {
		md.Description = detail.Description
	}
	md.UserRating = detail.Rating
	md.DownloadCount = detail.Downloads
	md.Tags = detail.Tags
	return md, nil
}

func (s *MarketplaceSource) fetchDetail(ctx context.Context, name string) (*marketplacePlugin, error) {
	endpoint := fmt.Sprintf("%s/plugins/%s", marketplaceAPIBase, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build detail request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "detail request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("marketplace API returned %d", resp.StatusCode)
	}

	var plugin marketplacePlugin
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&plugin); err != nil {
		return nil, errors.Wrap(err, "decode detail response")
	}
	return &plugin, nil
}

// List enumerates skill-typed plugins with an empty query.
func (s *MarketplaceSource) List(ctx context.Context) ([]skill.SearchResult, error) {
	return s.Search(ctx, "", SearchOptions{})
}

// Download shells the marketplace CLI's install command; the API path
// offers no download.
func (s *MarketplaceSource) Download(ctx context.Context, name, dest string) error {
	if s.cliPath == "" {
		return errors.New("marketplace tool unavailable")
	}

	callCtx, cancel := context.WithTimeout(ctx, 2*defaultTimeout)
	defer cancel()

	if out, err := exec.CommandContext(callCtx, s.cliPath, "install", name).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "install %s: %s", name, strings.TrimSpace(string(out)))
	}
	return nil
}
