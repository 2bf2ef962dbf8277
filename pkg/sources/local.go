package sources

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/frontmatter"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// readmePreviewLimit caps how much of the primary document is carried in
// metadata for keyword scanning.
const readmePreviewLimit = 1000

// localIgnoreGlobs are path patterns excluded from a skill's file list.
var localIgnoreGlobs = []string{
	".*",
	"**/.*",
	"venv",
	"**/venv",
}

// LocalSource scans the catalogue's own skills directory. It needs no
// external tool and is available whenever the root exists.
type LocalSource struct {
	root string
}

// NewLocalSource creates a scanner over the given skills root.
func NewLocalSource(root string) *LocalSource {
	return &LocalSource{root: root}
}

func (s *LocalSource) Type() skill.SourceType {
	return skill.SourceLocal
}

func (s *LocalSource) IsAvailable() bool {
	info, err := os.Stat(s.root)
	return err == nil && info.IsDir()
}

func (s *LocalSource) Search(ctx context.Context, query string, opts SearchOptions) ([]skill.SearchResult, error) {
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

// GetMetadata loads one skill, by path when url is set, otherwise by
// directory basename.
func (s *LocalSource) GetMetadata(ctx context.Context, name, url string) (*skill.Metadata, error) {
	if url != "" {
		return s.loadSkill(ctx, url)
	}

	dirs, err := s.skillDirs()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if filepath.Base(dir) == name {
			return s.loadSkill(ctx, dir)
		}
	}
	return nil, nil
}

func (s *LocalSource) List(ctx context.Context) ([]skill.SearchResult, error) {
	dirs, err := s.skillDirs()
	if err != nil {
		return nil, err
	}

	var results []skill.SearchResult
	for _, dir := range dirs {
		md, err := s.loadSkill(ctx, dir)
		if err != nil {
			logger.G(ctx).WithField("path", dir).WithError(err).Warn("skipping unreadable skill")
			continue
		}
		results = append(results, skill.SearchResult{
			Name:        md.Name,
			Source:      skill.SourceLocal,
			Description: md.Description,
			URL:         dir,
			Metadata:    md,
		})
	}
	return results, nil
}

// Download is a no-op: local skills are already on disk.
func (s *LocalSource) Download(ctx context.Context, name, dest string) error {
	return nil
}

func (s *LocalSource) skillDirs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read skills root")
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !isHidden(entry.Name()) {
			dirs = append(dirs, filepath.Join(s.root, entry.Name()))
		}
	}
	return dirs, nil
}

// loadSkill parses the skill's primary document. A directory without one
// still yields a minimal record, the catalogue may hold bare prompts.
func (s *LocalSource) loadSkill(ctx context.Context, dir string) (*skill.Metadata, error) {
	name := filepath.Base(dir)

	var content []byte
	for _, filename := range []string{"SKILL.md", "skill.md"} {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err == nil {
			content = data
			break
		}
	}

	if content == nil {
		return &skill.Metadata{
			Name:        name,
			Source:      skill.SourceLocal,
			Description: "Local skill: " + name,
			URL:         dir,
			CachedAt:    time.Now(),
		}, nil
	}

	meta, body, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}

	header, err := frontmatter.Decode(meta)
	if err != nil {
		return nil, errors.Wrapf(err, "decode frontmatter of %s", name)
	}

	description := header.Description
	if description == "" {
		description = frontmatter.FirstParagraph(body)
	}

	preview := body
	if len(preview) > readmePreviewLimit {
		preview = preview[:readmePreviewLimit]
	}

	files, err := listSkillFiles(dir)
	if err != nil {
		logger.G(ctx).WithField("path", dir).WithError(err).Warn("file listing incomplete")
	}

	return &skill.Metadata{
		Name:          name,
		Source:        skill.SourceLocal,
		Description:   description,
		Author:        header.Author,
		URL:           dir,
		Triggers:      frontmatter.NormalizeTriggers(header.Triggers),
		Tags:          frontmatter.NormalizeTags(header.Tags),
		Frontmatter:   meta,
		FileList:      files,
		ReadmePreview: preview,
		CachedAt:      time.Now(),
	}, nil
}

// listSkillFiles walks the skill directory, relative paths only, with
// hidden entries and virtualenvs ignored.
func listSkillFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if ignoredPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, rel)
		}
		return nil
	})
	return files, err
}

func ignoredPath(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range localIgnoreGlobs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
