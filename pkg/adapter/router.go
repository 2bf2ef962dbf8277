package adapter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/logger"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// RegisterToRouter appends the adapted skill's row to the router table
// file. Registration is idempotent: a skill already named in the file is
// left alone. A missing router file is not an error, the catalogue may
// simply not use one.
func (a *Adapter) RegisterToRouter(ctx context.Context, routerPath string, md *skill.Metadata) error {
	data, err := os.ReadFile(routerPath)
	if os.IsNotExist(err) {
		logger.G(ctx).WithField("router", routerPath).Debug("router file absent, skipping registration")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read router file")
	}

	content := string(data)
	if strings.Contains(content, md.Name) {
		return nil
	}

	row := fmt.Sprintf("| **%s** | %s | 100%% |", md.Name, inferModule(md))
	lines := strings.Split(content, "\n")
	insertPos := lastTableRow(lines)

	rebuilt := make([]string, 0, len(lines)+1)
	rebuilt = append(rebuilt, lines[:insertPos]...)
	rebuilt = append(rebuilt, row)
	rebuilt = append(rebuilt, lines[insertPos:]...)

	if err := os.WriteFile(routerPath, []byte(strings.Join(rebuilt, "\n")), 0o644); err != nil {
		return errors.Wrap(err, "write router file")
	}

	logger.G(ctx).WithField("skill", md.Name).WithField("router", routerPath).Info("registered skill in router table")
	return nil
}

// lastTableRow returns the index just past the final markdown table row,
// or the end of the file when no table exists.
func lastTableRow(lines []string) int {
	pos := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
			return i + 1
		}
	}
	return pos
}
