package states

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/fsforge/internal/execx"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

func strPtr(s string) *string { return &s }

func testEnv() *Env {
	return &Env{Runner: &execx.ShellRunner{}}
}

func dryEnv() *Env {
	return &Env{DryRun: true, Runner: &execx.ShellRunner{}}
}

func apply(t *testing.T, env *Env, item *resolve.Item) *model.Outcome {
	t.Helper()
	handler, ok := Lookup(item.State)
	require.True(t, ok, "no handler for state %s", item.State)
	outcome, err := handler(context.Background(), env, item)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	return outcome
}

func applyErr(t *testing.T, env *Env, item *resolve.Item) error {
	t.Helper()
	handler, ok := Lookup(item.State)
	require.True(t, ok, "no handler for state %s", item.State)
	_, err := handler(context.Background(), env, item)
	require.Error(t, err)
	return err
}

func TestLookupCoversEveryState(t *testing.T) {
	t.Parallel()

	for _, state := range []resolve.State{
		resolve.StateCopy, resolve.StateDirectory, resolve.StateExists,
		resolve.StateTouch, resolve.StateAbsent, resolve.StateLink,
		resolve.StateHard, resolve.StateLineInFile, resolve.StateBlockInFile,
	} {
		_, ok := Lookup(state)
		assert.True(t, ok, "state %s", state)
	}

	_, ok := Lookup(resolve.State("bogus"))
	assert.False(t, ok)
}

func TestProducesContent(t *testing.T) {
	t.Parallel()

	assert.True(t, ProducesContent(resolve.StateCopy))
	assert.True(t, ProducesContent(resolve.StateLineInFile))
	assert.True(t, ProducesContent(resolve.StateBlockInFile))
	assert.False(t, ProducesContent(resolve.StateDirectory))
	assert.False(t, ProducesContent(resolve.StateAbsent))
	assert.False(t, ProducesContent(resolve.StateLink))
}

func TestEnsureParentFailsWithoutMakeDirs(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "missing", "deep", "file.txt")
	item := &resolve.Item{Dest: dest, State: resolve.StateCopy, Content: strPtr("x")}

	err := applyErr(t, testEnv(), item)
	assert.Contains(t, err.Error(), "parent directory missing")
}

func TestEnsureParentCreatesChainWithMakeDirs(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "missing", "deep", "file.txt")
	item := &resolve.Item{Dest: dest, State: resolve.StateCopy, Content: strPtr("x"), MakeDirs: true}

	outcome := apply(t, testEnv(), item)
	assert.True(t, outcome.Changed)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestClearConflictRequiresForce(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	item := &resolve.Item{Dest: dest, State: resolve.StateCopy, Content: strPtr("x")}
	err := applyErr(t, testEnv(), item)

	var conflict *forgeerrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, dest, conflict.Path)
}

func TestClearConflictForceReplaces(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	item := &resolve.Item{Dest: dest, State: resolve.StateCopy, Content: strPtr("x"), Force: true}
	outcome := apply(t, testEnv(), item)
	assert.True(t, outcome.Changed)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestClearConflictForceBackupRenames(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))
	require.NoError(t, os.Symlink(dest, dest+".tmp"))
	require.NoError(t, os.Rename(dest+".tmp", dest+".link"))

	item := &resolve.Item{
		Dest: dest + ".link", State: resolve.StateCopy,
		Content: strPtr("x"), Force: true, ForceBackup: true,
	}
	outcome := apply(t, testEnv(), item)
	assert.True(t, outcome.Changed)

	// The conflicting symlink was renamed aside, not deleted, and the
	// record reports where it went.
	_, err := os.Lstat(dest + ".link.old")
	assert.NoError(t, err)
	assert.Equal(t, dest+".link.old", outcome.BackupPath)
}
