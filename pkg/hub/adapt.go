package hub

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/adapter"
	"github.com/mindsymphony/skillhub/pkg/frontmatter"
	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// AdaptCandidate turns an evaluated candidate into a local catalogue
// entry. It refuses candidates whose report does not permit adaptation,
// and respects the auto_adapt switch.
func (h *Hub) AdaptCandidate(ctx context.Context, report *skill.PreEvaluationReport, sourcePath, requirement string) (*adapter.Result, error) {
	if !h.cfg.Evaluation.AutoAdapt {
		return nil, errors.New("auto adaptation is disabled in configuration")
	}
	if !report.Adaptable() {
		return nil, errors.Errorf("recommendation %s does not permit adaptation", report.Recommendation)
	}
	if report.Metadata == nil {
		return nil, errors.New("report carries no metadata")
	}

	result := h.adapter.Adapt(ctx, sourcePath, report.Metadata, requirement)
	if result.Status == adapter.StatusFailed {
		return result, errors.Errorf("adaptation failed: %v", result.Warnings)
	}

	h.registerRouter(ctx, report.Metadata)
	return result, nil
}

// AdaptPath adapts a skill document or directory directly, without a
// prior evaluation. Metadata is read from the document itself; this is
// the path behind the CLI's adapt command.
func (h *Hub) AdaptPath(ctx context.Context, sourcePath, requirement string, register bool) (*adapter.Result, error) {
	md, err := metadataFromPath(sourcePath)
	if err != nil {
		return nil, err
	}

	result := h.adapter.Adapt(ctx, sourcePath, md, requirement)
	if result.Status == adapter.StatusFailed {
		return result, errors.Errorf("adaptation failed: %v", result.Warnings)
	}

	if register {
		h.registerRouter(ctx, md)
	}
	return result, nil
}

func (h *Hub) registerRouter(ctx context.Context, md *skill.Metadata) {
	if !h.cfg.Integration.AutoRegister || h.cfg.Integration.RouterPath == "" {
		return
	}
	if err := h.adapter.RegisterToRouter(ctx, h.cfg.Integration.RouterPath, md); err != nil {
		logger.G(ctx).WithField("skill", md.Name).WithError(err).Warn("router registration failed")
	}
}

// metadataFromPath builds a metadata record for a skill that exists only
// as a file or directory, using its frontmatter when present.
func metadataFromPath(sourcePath string) (*skill.Metadata, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, "stat skill path")
	}

	name := filepath.Base(sourcePath)
	if !info.IsDir() {
		name = trimDocSuffix(name)
	}

	md := &skill.Metadata{
		Name:   name,
		Source: skill.SourceLocal,
		URL:    sourcePath,
	}

	docPath := sourcePath
	if info.IsDir() {
		for _, filename := range []string{"SKILL.md", "README.md", "skill.md", "readme.md"} {
			p := filepath.Join(sourcePath, filename)
			if _, err := os.Stat(p); err == nil {
				docPath = p
				break
			}
		}
	}

	content, err := os.ReadFile(docPath)
	if err != nil {
		// Adapt will surface the read failure; return the bare record.
		return md, nil
	}

	meta, body, err := frontmatter.Parse(content)
	if err != nil {
		return md, nil
	}
	header, err := frontmatter.Decode(meta)
	if err != nil {
		return md, nil
	}

	if header.Name != "" {
		md.Name = header.Name
	}
	md.Description = header.Description
	if md.Description == "" {
		md.Description = frontmatter.FirstParagraph(body)
	}
	md.Author = header.Author
	md.Triggers = frontmatter.NormalizeTriggers(header.Triggers)
	md.Tags = frontmatter.NormalizeTags(header.Tags)
	md.Frontmatter = meta
	return md, nil
}

func trimDocSuffix(name string) string {
	ext := filepath.Ext(name)
	if ext == ".md" {
		return name[:len(name)-len(ext)]
	}
	return name
}
