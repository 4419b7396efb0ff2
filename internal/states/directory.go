package states

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
)

const defaultDirMode os.FileMode = 0o755

func applyDirectory(_ context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	dest := strings.TrimRight(item.Dest, string(os.PathSeparator))
	if dest == "" {
		dest = string(os.PathSeparator)
	}

	normalized := withDest(item, dest)
	if err := ensureParent(&normalized, env); err != nil {
		return nil, err
	}

	renamed := ""
	info, err := os.Lstat(dest)
	switch {
	case err == nil && info.IsDir():
		outcome := &model.Outcome{Message: "directory already exists"}
		if item.Recurse {
			changed, walkErr := applyAttrsRecursively(dest, item.Attrs, env.DryRun)
			if walkErr != nil {
				return nil, walkErr
			}
			if changed {
				outcome.Changed = true
				outcome.Message = "directory attributes changed"
			}
		}
		return outcome, nil

	case err == nil:
		// Exists but is a file or symlink.
		moved, conflictErr := clearConflict(item, env, "exists but is not a directory")
		if conflictErr != nil {
			return nil, conflictErr
		}
		renamed = moved

	case !os.IsNotExist(err):
		return nil, err
	}

	if env.DryRun {
		return &model.Outcome{Changed: true, Message: "directory would be created"}, nil
	}

	mode := defaultDirMode
	if item.Attrs.Mode != nil {
		mode = item.Attrs.Mode.Perm()
	}
	if err := os.MkdirAll(dest, mode); err != nil {
		return nil, err
	}

	outcome := &model.Outcome{Changed: true, Message: "directory created", BackupPath: renamed}
	if item.Recurse {
		if _, walkErr := applyAttrsRecursively(dest, item.Attrs, env.DryRun); walkErr != nil {
			return nil, walkErr
		}
	}
	return outcome, nil
}

// applyAttrsRecursively applies ownership/mode to every descendant of root.
// The root itself is handled by the attribute step the engine composes after
// each handler.
func applyAttrsRecursively(root string, attrs fsops.Attrs, dryRun bool) (bool, error) {
	if !attrs.Managed() {
		return false, nil
	}

	changed := false
	err := filepath.WalkDir(root, func(path string, _ os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		applied, applyErr := fsops.ApplyAttrs(path, attrs, dryRun)
		if applyErr != nil {
			return applyErr
		}
		changed = changed || applied
		return nil
	})
	return changed, err
}

func withDest(item *resolve.Item, dest string) resolve.Item {
	clone := *item
	clone.Dest = dest
	return clone
}
