package guard

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

func boolPtr(b bool) *bool { return &b }

func TestEvaluateNoGuards(t *testing.T) {
	t.Parallel()

	decision, err := Evaluate(&resolve.Item{Dest: "/tmp/x"})
	require.NoError(t, err)
	assert.Nil(t, decision)
}

func TestEvaluateCreatesSkipsWhenPathExists(t *testing.T) {
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "done")
	require.NoError(t, os.WriteFile(marker, nil, 0o644))

	decision, err := Evaluate(&resolve.Item{Dest: "/tmp/x", Creates: marker})
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Contains(t, decision.Reason, "creates path exists")
}

func TestEvaluateCreatesRunsWhenPathMissing(t *testing.T) {
	t.Parallel()

	decision, err := Evaluate(&resolve.Item{
		Dest:    "/tmp/x",
		Creates: filepath.Join(t.TempDir(), "missing"),
	})
	require.NoError(t, err)
	assert.Nil(t, decision)
}

func TestEvaluateRemovesSkipsWhenPathMissing(t *testing.T) {
	t.Parallel()

	decision, err := Evaluate(&resolve.Item{
		Dest:    "/tmp/x",
		Removes: filepath.Join(t.TempDir(), "missing"),
	})
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Contains(t, decision.Reason, "removes path does not exist")
}

func TestEvaluateWhenFalseSkips(t *testing.T) {
	t.Parallel()

	decision, err := Evaluate(&resolve.Item{Dest: "/tmp/x", When: boolPtr(false)})
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Contains(t, decision.Reason, "condition")
}

func TestEvaluateWhenTrueRuns(t *testing.T) {
	t.Parallel()

	decision, err := Evaluate(&resolve.Item{Dest: "/tmp/x", When: boolPtr(true)})
	require.NoError(t, err)
	assert.Nil(t, decision)
}

func TestEvaluateCreatesTakesPrecedenceOverWhen(t *testing.T) {
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "done")
	require.NoError(t, os.WriteFile(marker, nil, 0o644))

	decision, err := Evaluate(&resolve.Item{
		Dest:    "/tmp/x",
		Creates: marker,
		When:    boolPtr(false),
	})
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Contains(t, decision.Reason, "creates")
}

func TestEvaluateProbeFailureIsError(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission probes require an unprivileged unix user")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "inner"), nil, 0o644))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := Evaluate(&resolve.Item{
		Dest:    "/tmp/x",
		Creates: filepath.Join(locked, "inner"),
	})

	var probeErr *forgeerrors.GuardProbeError
	require.ErrorAs(t, err, &probeErr)
	assert.Equal(t, "creates", probeErr.Guard)
}
