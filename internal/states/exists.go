package states

import (
	"context"
	"os"

	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
)

// applyExists guarantees a regular file is present at the destination but
// never rewrites one that already is: existing content is left alone.
func applyExists(_ context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	renamed := ""
	info, err := os.Lstat(item.Dest)
	switch {
	case err == nil && info.Mode().IsRegular():
		return &model.Outcome{Message: "file already exists"}, nil

	case err == nil:
		moved, conflictErr := clearConflict(item, env, "exists but is not a regular file")
		if conflictErr != nil {
			return nil, conflictErr
		}
		renamed = moved

	case !os.IsNotExist(err):
		return nil, err
	}

	if err := ensureParent(item, env); err != nil {
		return nil, err
	}

	if env.DryRun {
		return &model.Outcome{Changed: true, Message: "empty file would be created"}, nil
	}

	mode := fsops.DefaultFileMode
	if item.Attrs.Mode != nil {
		mode = item.Attrs.Mode.Perm()
	}
	f, err := os.OpenFile(item.Dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return &model.Outcome{Changed: true, Message: "empty file created", BackupPath: renamed}, nil
}
