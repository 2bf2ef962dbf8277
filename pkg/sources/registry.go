package sources

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/config"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// officialRepoURL is the URL scheme of the registry's backing repository.
const officialRepoURL = "https://github.com/anthropics/skills/tree/main/%s"

// RegistrySource wraps the official registry CLI. The tool has no
// server-side search, so Search filters the full listing locally.
type RegistrySource struct {
	tool    string
	cliPath string
}

// NewRegistrySource locates the registry tool and runs the --version
// pre-flight. A missing or broken tool leaves the source unavailable.
func NewRegistrySource(ctx context.Context, cfg config.SourceConfig) *RegistrySource {
	s := &RegistrySource{tool: cfg.Tool}
	if s.tool == "" {
		s.tool = "skillslm"
	}

	path, err := exec.LookPath(s.tool)
	if err != nil {
		logger.G(ctx).WithField("tool", s.tool).Info("registry tool not on PATH, source unavailable")
		return s
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(probeCtx, path, "--version").Run(); err != nil {
		logger.G(ctx).WithField("tool", s.tool).WithError(err).Info("registry tool pre-flight failed, source unavailable")
		return s
	}

	s.cliPath = path
	return s
}

func (s *RegistrySource) Type() skill.SourceType {
	return skill.SourceOfficialRegistry
}

func (s *RegistrySource) IsAvailable() bool {
	return s.cliPath != ""
}

// Search lists the full catalogue and filters locally on name and
// description.
func (s *RegistrySource) Search(ctx context.Context, query string, opts SearchOptions) ([]skill.SearchResult, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var results []skill.SearchResult
	for _, r := range all {
		if matchesQuery(query, r.Name, r.Description) {
			results = append(results, r)
		}
	}
	return limitResults(results, opts.Limit), nil
}

// GetMetadata synthesises a record from the official repository layout.
// The registry tool exposes no metadata command, so richer fields arrive
// only after download.
func (s *RegistrySource) GetMetadata(ctx context.Context, name, url string) (*skill.Metadata, error) {
	if !s.IsAvailable() {
		return nil, nil
	}
	skillURL := url
	if skillURL == "" {
		skillURL = fmt.Sprintf(officialRepoURL, name)
	}
	return &skill.Metadata{
		Name:        name,
		Source:      skill.SourceOfficialRegistry,
		Description: fmt.Sprintf("Official skill: %s", name),
		Author:      "anthropics",
		URL:         skillURL,
		RepoURL:     skillURL,
		CachedAt:    time.Now(),
	}, nil
}

// List shells the tool's list command and parses its whitespace-separated
// output, skipping decorative banner lines.
func (s *RegistrySource) List(ctx context.Context) ([]skill.SearchResult, error) {
	if !s.IsAvailable() {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out, err := exec.CommandContext(callCtx, s.cliPath, "list").Output()
	if err != nil {
		logger.G(ctx).WithError(err).Info("registry list failed")
		return nil, nil
	}
	return parseRegistryListing(string(out)), nil
}

// Download shells the tool's install command.
func (s *RegistrySource) Download(ctx context.Context, name, dest string) error {
	if !s.IsAvailable() {
		return errors.New("registry tool unavailable")
	}

	callCtx, cancel := context.WithTimeout(ctx, 2*defaultTimeout)
	defer cancel()

	if out, err := exec.CommandContext(callCtx, s.cliPath, "install", name).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "install %s: %s", name, strings.TrimSpace(string(out)))
	}
	return nil
}

// bannerPrefixes are the decorative line markers the tool prints around
// its listing.
var bannerPrefixes = []string{"🎯", "💡", "📚"}

func parseRegistryListing(output string) []skill.SearchResult {
	var results []skill.SearchResult
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBannerLine(line) {
			continue
		}
		for _, name := range strings.Fields(line) {
			results = append(results, skill.SearchResult{
				Name:        name,
				Source:      skill.SourceOfficialRegistry,
				Description: fmt.Sprintf("Official skill: %s", name),
				URL:         fmt.Sprintf(officialRepoURL, name),
			})
		}
	}
	return results
}

func isBannerLine(line string) bool {
	for _, prefix := range bannerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
