package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/fsforge/internal/config"
	"github.com/alexisbeaulieu97/fsforge/internal/engine"
	"github.com/alexisbeaulieu97/fsforge/internal/logger"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/pkg/diff"
)

type applyOptions struct {
	ConfigPath string
	DryRun     bool
	Verbose    bool
	ShowDiff   bool
	OnError    string
}

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a manifest against the local filesystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose
			return applyCmdRunner(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to manifest file")
	cmd.Flags().BoolVar(&opts.ShowDiff, "show-diff", false, "Print unified diffs for content changes")
	cmd.Flags().StringVar(&opts.OnError, "on-error", "", "Error policy: fail or continue")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runApply(out io.Writer, opts applyOptions) error {
	manifest, err := config.ParseManifest(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	eng := engine.New(engine.Options{
		DryRun:  opts.DryRun,
		OnError: opts.OnError,
		Logger:  log,
	})
	result := eng.Run(context.Background(), manifest)

	showDiff := opts.ShowDiff || manifest.Settings.ShowDiff
	printResult(out, result, showDiff)

	if result.HasFailures() {
		return fmt.Errorf("%d of %d items failed", result.Failed, len(result.Records))
	}
	return nil
}

func printResult(w io.Writer, result *model.RunResult, showDiff bool) {
	for _, rec := range result.Records {
		fmt.Fprintf(w, "%-9s %s (%s): %s\n", recordStatus(&rec), rec.Dest, rec.State, recordDetail(&rec))
		if rec.BackupPath != "" {
			fmt.Fprintf(w, "          backup: %s\n", rec.BackupPath)
		}
		if showDiff && rec.Diff != nil {
			fmt.Fprint(w, diff.Unified(rec.Diff.Before, rec.Diff.After, "before", "after"))
		}
	}

	fmt.Fprintf(w, "\n%d changed, %d unchanged, %d skipped, %d failed\n",
		result.Changed, result.Unchanged, result.Skipped, result.Failed)
}

func recordStatus(rec *model.Outcome) string {
	switch {
	case rec.Skipped:
		return "skipped"
	case rec.Failed:
		return "failed"
	case rec.Changed:
		return "changed"
	default:
		return "ok"
	}
}

func recordDetail(rec *model.Outcome) string {
	if rec.Skipped {
		return rec.SkipReason
	}
	return rec.Message
}
