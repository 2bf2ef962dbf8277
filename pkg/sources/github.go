package sources

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/mindsymphony/skillhub/pkg/frontmatter"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// codeHostQualifier scopes repository search to skill repositories.
const codeHostQualifier = "claude skill in:readme filename:SKILL.md"

var repoURLRe = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// GitHubSource searches code-host repositories for skills and builds rich
// metadata (popularity stats, licence, documents) per result.
type GitHubSource struct {
	client *gogithub.Client
}

// NewGitHubSource creates the code-host adapter. Without a token the
// client still works against public data under reduced rate limits.
func NewGitHubSource(ctx context.Context, token string) *GitHubSource {
	if token == "" {
		logger.G(ctx).Info("no code-host token provided, API rate limits will be restricted")
		return &GitHubSource{client: gogithub.NewClient(nil)}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &GitHubSource{client: gogithub.NewClient(tc)}
}

func (s *GitHubSource) Type() skill.SourceType {
	return skill.SourceCodeHost
}

// IsAvailable requires git for downloads; search itself needs only the
// API client, which always exists.
func (s *GitHubSource) IsAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func (s *GitHubSource) Search(ctx context.Context, query string, opts SearchOptions) ([]skill.SearchResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	perPage := 30
	if opts.Limit > 0 && opts.Limit < perPage {
		perPage = opts.Limit
	}

	q := strings.TrimSpace(query + " " + codeHostQualifier)
	result, _, err := s.client.Search.Repositories(callCtx, q, &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	})
	if err != nil {
		logger.G(ctx).WithError(err).Info("code-host search failed")
		return nil, nil
	}

	results := make([]skill.SearchResult, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		results = append(results, skill.SearchResult{
			Name:        repo.GetName(),
			Source:      skill.SourceCodeHost,
			Description: repo.GetDescription(),
			URL:         repo.GetHTMLURL(),
		})
	}
	return limitResults(results, opts.Limit), nil
}

// GetMetadata resolves the repository behind url and assembles the full
// record: stats and licence from the repository, frontmatter and
// description from its SKILL.md, readme preview from its README.
func (s *GitHubSource) GetMetadata(ctx context.Context, name, url string) (*skill.Metadata, error) {
	owner, repoName, ok := splitRepoURL(url)
	if !ok {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	repo, _, err := s.client.Repositories.Get(callCtx, owner, repoName)
	if err != nil {
		return nil, errors.Wrapf(err, "get repository %s/%s", owner, repoName)
	}

	skillDoc := s.fetchFile(callCtx, owner, repoName, "SKILL.md")
	readme := s.fetchFile(callCtx, owner, repoName, "README.md")

	md := &skill.Metadata{
		Name:          name,
		Source:        skill.SourceCodeHost,
		Description:   repo.GetDescription(),
		Author:        repo.GetOwner().GetLogin(),
		URL:           url,
		RepoURL:       url,
		ReadmePreview: readme,
		CachedAt:      time.Now(),
	}

	md.Popularity = &skill.PopularityStats{
		Stars:      repo.GetStargazersCount(),
		Forks:      repo.GetForksCount(),
		Watchers:   repo.GetWatchersCount(),
		OpenIssues: repo.GetOpenIssuesCount(),
		License:    repo.GetLicense().GetName(),
	}
	if pushed := repo.GetPushedAt(); !pushed.IsZero() {
		t := pushed.Time
		md.Popularity.LastCommit = &t
	}

	if skillDoc != "" {
		meta, body, err := frontmatter.Parse([]byte(skillDoc))
		if err == nil {
			header, derr := frontmatter.Decode(meta)
			if derr == nil {
				if header.Description != "" {
					md.Description = header.Description
				} else if md.Description == "" {
					md.Description = frontmatter.FirstParagraph(body)
				}
				md.Triggers = frontmatter.NormalizeTriggers(header.Triggers)
				md.Tags = frontmatter.NormalizeTags(header.Tags)
			}
			md.Frontmatter = meta
		}
	}

	return md, nil
}

func (s *GitHubSource) fetchFile(ctx context.Context, owner, repo, path string) string {
	content, _, _, err := s.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil || content == nil {
		return ""
	}
	text, err := content.GetContent()
	if err != nil {
		return ""
	}
	return text
}

// List is search with an empty query: the qualifier alone enumerates
// skill repositories.
func (s *GitHubSource) List(ctx context.Context) ([]skill.SearchResult, error) {
	return s.Search(ctx, "", SearchOptions{})
}

// Download shallow-clones the repository into dest. name is the
// owner/repo slug.
func (s *GitHubSource) Download(ctx context.Context, name, dest string) error {
	if !s.IsAvailable() {
		return errors.New("git not on PATH")
	}

	callCtx, cancel := context.WithTimeout(ctx, 4*defaultTimeout)
	defer cancel()

	cloneURL := fmt.Sprintf("https://github.com/%s", name)
	if out, err := exec.CommandContext(callCtx, "git", "clone", "--depth", "1", cloneURL, dest).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "clone %s: %s", cloneURL, strings.TrimSpace(string(out)))
	}
	return nil
}

func splitRepoURL(url string) (owner, repo string, ok bool) {
	m := repoURLRe.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), true
}
