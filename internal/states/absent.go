package states

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
)

const globChars = "*?["

// applyAbsent removes the destination. Glob metacharacters in the final path
// segment expand to every match; directories are removed recursively. A path
// that is already gone (or a glob with zero matches) is never an error.
func applyAbsent(_ context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	matches, globbed, err := expandTargets(item.Dest)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &model.Outcome{Message: "already absent"}, nil
	}

	outcome := &model.Outcome{Changed: true}
	if globbed {
		outcome.Message = fmt.Sprintf("removed %d matching paths", len(matches))
		outcome.Diff = &model.Diff{Before: strings.Join(matches, "\n") + "\n", After: ""}
	} else {
		outcome.Message = "path removed"
	}

	if env.DryRun {
		if globbed {
			outcome.Message = fmt.Sprintf("would remove %d matching paths", len(matches))
		} else {
			outcome.Message = "path would be removed"
		}
		return outcome, nil
	}

	for _, match := range matches {
		info, statErr := os.Lstat(match)
		if os.IsNotExist(statErr) {
			continue
		}
		if statErr != nil {
			return nil, statErr
		}
		if info.IsDir() {
			if rmErr := os.RemoveAll(match); rmErr != nil {
				return nil, rmErr
			}
			continue
		}
		if rmErr := os.Remove(match); rmErr != nil {
			return nil, rmErr
		}
	}

	return outcome, nil
}

// expandTargets resolves a removal target to the concrete paths it names and
// reports whether glob expansion applied. Only the final segment is treated
// as a pattern.
func expandTargets(dest string) ([]string, bool, error) {
	if strings.ContainsAny(filepath.Base(dest), globChars) {
		matches, err := filepath.Glob(dest)
		if err != nil {
			return nil, true, fmt.Errorf("invalid glob pattern %q: %w", dest, err)
		}
		return matches, true, nil
	}

	_, err := os.Lstat(dest)
	switch {
	case err == nil:
		return []string{dest}, false, nil
	case os.IsNotExist(err):
		return nil, false, nil
	default:
		return nil, false, err
	}
}
