package states

import (
	"context"
	"os"

	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

// applyCopy installs file content at the destination, either from a literal
// content string or from a pre-transferred source file. Upstream tooling is
// responsible for rendering templates and moving sources onto this machine;
// by the time this handler runs both are plain local inputs.
func applyCopy(ctx context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	if item.Content == nil && item.Src == nil {
		return nil, forgeerrors.NewMissingFieldError(item.Dest, string(item.State), "content or src")
	}

	if err := ensureParent(item, env); err != nil {
		return nil, err
	}

	renamed := ""
	if info, err := os.Lstat(item.Dest); err == nil && !info.Mode().IsRegular() {
		moved, err := clearConflict(item, env, "exists but is not a regular file")
		if err != nil {
			return nil, err
		}
		renamed = moved
	}

	if item.Content != nil {
		encoded, err := fsops.EncodeContent(*item.Content, item.Encoding)
		if err != nil {
			return nil, err
		}
		result, err := fsops.Write(ctx, item.Dest, encoded, writeOptions(item, env))
		if err != nil {
			return nil, err
		}
		outcome := outcomeFromWrite(result, "content updated", "content already correct")
		if renamed != "" {
			outcome.BackupPath = renamed
		}
		return outcome, nil
	}

	result, err := fsops.CopyFile(ctx, item.Dest, *item.Src, writeOptions(item, env))
	if err != nil {
		return nil, err
	}
	outcome := outcomeFromWrite(result, "file updated", "file already correct")
	if renamed != "" {
		outcome.BackupPath = renamed
	}
	return outcome, nil
}
