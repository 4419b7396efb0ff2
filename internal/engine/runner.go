package engine

import (
	"context"
	"os"
	"time"

	"github.com/alexisbeaulieu97/fsforge/internal/config"
	"github.com/alexisbeaulieu97/fsforge/internal/execx"
	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/guard"
	"github.com/alexisbeaulieu97/fsforge/internal/logger"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	"github.com/alexisbeaulieu97/fsforge/internal/states"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

// Options configures an Engine for one or more runs. OnError and DryRun
// override the manifest's settings when set.
type Options struct {
	DryRun  bool
	OnError string
	Logger  *logger.Logger
	Runner  execx.Runner
}

// Engine reconciles manifests against the local filesystem. Items run
// single-threaded in declaration order; the engine holds no locks and keeps
// no state between runs.
type Engine struct {
	opts Options
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Runner == nil {
		opts.Runner = &execx.ShellRunner{}
	}
	return &Engine{opts: opts}
}

// Run reconciles every item in the manifest and returns the ordered result.
// A failing item stops the run under the fail policy and is recorded and
// passed over under continue; either way every item processed so far has a
// record.
func (e *Engine) Run(ctx context.Context, manifest *config.Manifest) *model.RunResult {
	result := &model.RunResult{}
	dryRun := e.opts.DryRun || manifest.Settings.DryRun
	env := &states.Env{DryRun: dryRun, Runner: e.opts.Runner}

	for _, raw := range manifest.Items {
		outcome := e.runItem(ctx, env, manifest.Defaults, raw)
		result.Append(*outcome)

		if outcome.Failed && e.policy(manifest, raw) == resolve.OnErrorFail {
			break
		}
	}

	return result
}

func (e *Engine) runItem(ctx context.Context, env *states.Env, defaults config.Params, raw config.Item) *model.Outcome {
	start := time.Now()

	item, err := resolve.Resolve(defaults, raw)
	if err != nil {
		return e.failed(raw.Dest, "", nil, err, start)
	}

	if err := expandPaths(item); err != nil {
		return e.failed(item.Dest, string(item.State), item.Notify, err, start)
	}

	log := e.opts.Logger.WithItem(item.Dest, string(item.State))

	decision, err := guard.Evaluate(item)
	if err != nil {
		return e.failed(item.Dest, string(item.State), item.Notify, err, start)
	}
	if decision != nil {
		log.Info("item skipped: " + decision.Reason)
		return &model.Outcome{
			Dest:       item.Dest,
			State:      string(item.State),
			Skipped:    true,
			SkipReason: decision.Reason,
			Notify:     item.Notify,
			Duration:   time.Since(start),
		}
	}

	if item.Validate != "" && !states.ProducesContent(item.State) {
		log.Warn("validate is ignored for states that install no content")
	}

	handler, ok := states.Lookup(item.State)
	if !ok {
		return e.failed(item.Dest, string(item.State), item.Notify,
			forgeerrors.NewValidationError("state", "no handler for state "+string(item.State), nil), start)
	}

	outcome, err := handler(ctx, env, item)
	if err != nil {
		return e.failed(item.Dest, string(item.State), item.Notify, err, start)
	}

	if item.State != resolve.StateAbsent && item.Attrs.Managed() {
		attrsChanged, attrErr := applyAttrs(item, env.DryRun)
		if attrErr != nil {
			return e.failed(item.Dest, string(item.State), item.Notify, attrErr, start)
		}
		if attrsChanged && !outcome.Changed {
			outcome.Changed = true
			outcome.Message = "attributes changed"
		}
	}

	outcome.Dest = item.Dest
	outcome.State = string(item.State)
	outcome.Notify = item.Notify
	outcome.Duration = time.Since(start)

	if outcome.Changed {
		log.Info(outcome.Message)
	} else {
		log.Debug(outcome.Message)
	}
	return outcome
}

func (e *Engine) failed(dest, state string, notify []string, err error, start time.Time) *model.Outcome {
	execErr := forgeerrors.NewExecutionError(dest, err)
	e.opts.Logger.WithItem(dest, state).Error(err, "item failed")
	return &model.Outcome{
		Dest:     dest,
		State:    state,
		Failed:   true,
		Err:      execErr,
		Message:  err.Error(),
		Notify:   notify,
		Duration: time.Since(start),
	}
}

// policy returns the error policy governing a single item: per-item setting,
// then manifest defaults, then engine options, then run settings.
func (e *Engine) policy(manifest *config.Manifest, raw config.Item) string {
	if raw.OnError != nil {
		return *raw.OnError
	}
	if manifest.Defaults.OnError != nil {
		return *manifest.Defaults.OnError
	}
	if e.opts.OnError != "" {
		return e.opts.OnError
	}
	if manifest.Settings.OnError != "" {
		return manifest.Settings.OnError
	}
	return resolve.OnErrorFail
}

// expandPaths normalizes the user-supplied paths on a resolved item: tilde
// expansion and absolutization for the destination, source and guard paths.
func expandPaths(item *resolve.Item) error {
	dest, err := fsops.ExpandPath(item.Dest)
	if err != nil {
		return err
	}
	item.Dest = dest

	if item.Src != nil {
		src, err := fsops.ExpandPath(*item.Src)
		if err != nil {
			return err
		}
		item.Src = &src
	}
	if item.Creates != "" {
		if item.Creates, err = fsops.ExpandPath(item.Creates); err != nil {
			return err
		}
	}
	if item.Removes != "" {
		if item.Removes, err = fsops.ExpandPath(item.Removes); err != nil {
			return err
		}
	}
	return nil
}

// applyAttrs runs the ownership and mode step composed after a completing
// handler. In dry-run a path the handler would have created does not exist
// yet; attributes are assumed applied at creation and report no extra change.
func applyAttrs(item *resolve.Item, dryRun bool) (bool, error) {
	if _, err := os.Lstat(item.Dest); err != nil {
		if dryRun {
			return false, nil
		}
		return false, err
	}
	return fsops.ApplyAttrs(item.Dest, item.Attrs, dryRun)
}
