package states

import (
	"context"
	"fmt"
	"os"

	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
)

// applyLink ensures the destination is a symlink pointing at src. The link
// target is compared literally; src is not required to exist, dangling links
// are legal.
func applyLink(_ context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	src := *item.Src

	if err := ensureParent(item, env); err != nil {
		return nil, err
	}

	renamed := ""
	info, err := os.Lstat(item.Dest)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		target, readErr := os.Readlink(item.Dest)
		if readErr != nil {
			return nil, readErr
		}
		if target == src {
			return &model.Outcome{Message: fmt.Sprintf("symlink already points at %s", src)}, nil
		}
		moved, conflictErr := clearConflict(item, env, fmt.Sprintf("symlink points at %s", target))
		if conflictErr != nil {
			return nil, conflictErr
		}
		renamed = moved

	case err == nil:
		moved, conflictErr := clearConflict(item, env, "exists but is not a symlink")
		if conflictErr != nil {
			return nil, conflictErr
		}
		renamed = moved

	case !os.IsNotExist(err):
		return nil, err
	}

	if env.DryRun {
		return &model.Outcome{Changed: true, Message: fmt.Sprintf("symlink to %s would be created", src)}, nil
	}

	if err := os.Symlink(src, item.Dest); err != nil {
		return nil, err
	}
	return &model.Outcome{Changed: true, Message: fmt.Sprintf("symlink to %s created", src), BackupPath: renamed}, nil
}

// applyHard ensures the destination is a hard link to src, compared by inode
// identity rather than by path. Unlike symlinks, the source must exist.
func applyHard(_ context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	src := *item.Src

	srcInfo, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("hard link source: %w", err)
	}

	if err := ensureParent(item, env); err != nil {
		return nil, err
	}

	renamed := ""
	destInfo, err := os.Lstat(item.Dest)
	switch {
	case err == nil && os.SameFile(srcInfo, destInfo):
		return &model.Outcome{Message: fmt.Sprintf("already linked to %s", src)}, nil

	case err == nil:
		moved, conflictErr := clearConflict(item, env, "exists but is not linked to the source")
		if conflictErr != nil {
			return nil, conflictErr
		}
		renamed = moved

	case !os.IsNotExist(err):
		return nil, err
	}

	if env.DryRun {
		return &model.Outcome{Changed: true, Message: fmt.Sprintf("hard link to %s would be created", src)}, nil
	}

	if err := os.Link(src, item.Dest); err != nil {
		return nil, err
	}
	return &model.Outcome{Changed: true, Message: fmt.Sprintf("hard link to %s created", src), BackupPath: renamed}, nil
}
