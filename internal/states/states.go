package states

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/fsforge/internal/execx"
	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

// Env carries run-scoped capabilities into handlers.
type Env struct {
	DryRun bool
	Runner execx.Runner
}

// Handler converges one resolved item toward its declared state. Handlers
// follow a shared idempotency pattern: inspect, compare, return unchanged
// when satisfied, report without mutating in dry-run, otherwise mutate. A
// returned error marks the item failed; the outcome is only valid when the
// error is nil.
type Handler func(ctx context.Context, env *Env, item *resolve.Item) (*model.Outcome, error)

// handlers is the static dispatch table, one entry per state. Built once;
// the state set is closed.
var handlers = map[resolve.State]Handler{
	resolve.StateCopy:        applyCopy,
	resolve.StateDirectory:   applyDirectory,
	resolve.StateExists:      applyExists,
	resolve.StateTouch:       applyTouch,
	resolve.StateAbsent:      applyAbsent,
	resolve.StateLink:        applyLink,
	resolve.StateHard:        applyHard,
	resolve.StateLineInFile:  applyLineInFile,
	resolve.StateBlockInFile: applyBlockInFile,
}

// Lookup returns the handler for a state.
func Lookup(state resolve.State) (Handler, bool) {
	h, ok := handlers[state]
	return h, ok
}

// ProducesContent reports whether a state installs file content, which is
// the only case where a validate command applies.
func ProducesContent(state resolve.State) bool {
	switch state {
	case resolve.StateCopy, resolve.StateLineInFile, resolve.StateBlockInFile:
		return true
	}
	return false
}

func writeOptions(item *resolve.Item, env *Env) fsops.WriteOptions {
	opts := fsops.WriteOptions{
		Backup:   item.Backup,
		Validate: item.Validate,
		DryRun:   env.DryRun,
		Runner:   env.Runner,
	}
	if item.Attrs.Mode != nil {
		opts.Mode = *item.Attrs.Mode
	}
	return opts
}

// ensureParent guarantees the destination's parent directory exists,
// creating the chain when makedirs is set.
func ensureParent(item *resolve.Item, env *Env) error {
	if fsops.ParentExists(item.Dest) {
		return nil
	}
	if !item.MakeDirs {
		return fmt.Errorf("parent directory missing for %s (set makedirs to create it)", item.Dest)
	}
	_, err := fsops.MakeParents(item.Dest, env.DryRun)
	return err
}

// clearConflict handles a destination that exists in an incompatible form.
// Without force it fails; with force the path is deleted, or renamed to a
// .old sibling when force_backup is set. The rename target is returned.
func clearConflict(item *resolve.Item, env *Env, detail string) (string, error) {
	if !item.Force {
		return "", forgeerrors.NewConflictError(item.Dest, detail)
	}
	if env.DryRun {
		return "", nil
	}
	return fsops.ForceRemove(item.Dest, item.ForceBackup)
}

func outcomeFromWrite(result *fsops.WriteResult, changedMsg, unchangedMsg string) *model.Outcome {
	outcome := &model.Outcome{Changed: result.Changed, BackupPath: result.BackupPath}
	if result.Changed {
		outcome.Message = changedMsg
		if !result.Binary {
			outcome.Diff = &model.Diff{Before: result.Before, After: result.After}
		}
	} else {
		outcome.Message = unchangedMsg
	}
	return outcome
}
