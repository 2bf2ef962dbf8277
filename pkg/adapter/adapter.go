// Package adapter rewrites accepted candidate skills into the catalogue's
// canonical form: normalised frontmatter, bilingual triggers, a unified
// document structure, and a deterministic location under the extensions
// tree.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mindsymphony/skillhub/pkg/frontmatter"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// Status classifies the outcome of an adaptation run.
type Status string

// Statuses
const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Result reports what an adaptation run did.
type Result struct {
	Status     Status   `json:"status"`
	TargetPath string   `json:"target_path,omitempty"`
	Changes    []string `json:"changes,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// sourceFilenames is the lookup order for the primary document when the
// source path is a directory.
var sourceFilenames = []string{"SKILL.md", "README.md", "skill.md", "readme.md"}

// Adapter writes adapted skills beneath a single root. It owns the
// extensions subtree; concurrent adaptations of the same normalised name
// are rejected as write conflicts.
type Adapter struct {
	root string

	mu       sync.Mutex
	inFlight map[string]struct{}

	// now is injectable so tests can pin the adapted_at timestamp.
	now func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// New creates an adapter rooted at the catalogue skills path.
func New(root string, opts ...Option) *Adapter {
	a := &Adapter{
		root:     root,
		inFlight: make(map[string]struct{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TargetPath returns where the adapted file for the given metadata would
// be written.
func (a *Adapter) TargetPath(md *skill.Metadata) string {
	return filepath.Join(a.root, "extensions", inferModule(md), NormalizeName(md.Name)+".md")
}

// Adapt reads the candidate's primary document from sourcePath, rewrites
// it, and files it under the extensions tree. A non-empty requirement is
// woven into the capabilities section. Adapt never executes any candidate
// content.
func (a *Adapter) Adapt(ctx context.Context, sourcePath string, md *skill.Metadata, requirement string) *Result {
	result := &Result{Status: StatusSuccess}

	name := NormalizeName(md.Name)
	if name == "" {
		result.Status = StatusFailed
		result.Warnings = append(result.Warnings, fmt.Sprintf("name %q normalises to nothing", md.Name))
		return result
	}

	if !a.acquire(name) {
		result.Status = StatusFailed
		result.Warnings = append(result.Warnings, fmt.Sprintf("write conflict: %s is already being adapted", name))
		return result
	}
	defer a.release(name)

	content, err := readSkillContent(sourcePath)
	if err != nil {
		result.Status = StatusFailed
		result.Warnings = append(result.Warnings, fmt.Sprintf("can't read skill content: %v", err))
		return result
	}
	// Drop any pre-existing header so repeated runs do not stack blocks.
	if _, body, err := frontmatter.Parse([]byte(content)); err == nil {
		content = body
	}

	fm := buildFrontmatter(md, a.now())
	result.Changes = append(result.Changes, "normalized frontmatter")

	body := rewriteBody(content, md, fm.Triggers, requirement)
	result.Changes = append(result.Changes, "unified document structure")

	targetPath := a.TargetPath(md)
	result.TargetPath = targetPath

	if err := writeAdapted(targetPath, fm, body); err != nil {
		result.Status = StatusFailed
		result.Warnings = append(result.Warnings, fmt.Sprintf("write failed: %v", err))
		return result
	}
	result.Changes = append(result.Changes, fmt.Sprintf("wrote %s", targetPath))

	logger.G(ctx).WithField("skill", name).WithField("target", targetPath).Info("skill adapted")

	if len(result.Warnings) > 0 {
		result.Status = StatusPartial
	}
	return result
}

func (a *Adapter) acquire(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.inFlight[name]; busy {
		return false
	}
	a.inFlight[name] = struct{}{}
	return true
}

func (a *Adapter) release(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.inFlight, name)
}

// readSkillContent reads the primary document. A directory is searched
// for the conventional filenames in order.
func readSkillContent(sourcePath string) (string, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", errors.Wrap(err, "stat source")
	}

	if !info.IsDir() {
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			return "", errors.Wrap(err, "read source file")
		}
		return string(data), nil
	}

	for _, filename := range sourceFilenames {
		data, err := os.ReadFile(filepath.Join(sourcePath, filename))
		if err == nil {
			return string(data), nil
		}
	}
	return "", errors.Errorf("no skill document found in %s (tried %s)",
		sourcePath, strings.Join(sourceFilenames, ", "))
}

// writeAdapted serialises frontmatter plus body atomically: the file is
// staged in the target directory and renamed into place.
func writeAdapted(targetPath string, fm Frontmatter, body string) error {
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create target directory")
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return errors.Wrap(err, "marshal frontmatter")
	}

	tmp, err := os.CreateTemp(dir, ".adapt-*")
	if err != nil {
		return errors.Wrap(err, "create staging file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := fmt.Fprintf(tmp, "---\n%s---\n\n%s", header, body); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write staging file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close staging file")
	}
	if err := os.Rename(tmpName, targetPath); err != nil {
		return errors.Wrap(err, "rename into place")
	}
	return nil
}
