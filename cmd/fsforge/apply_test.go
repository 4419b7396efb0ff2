package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyCommandRequiresConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestRunApplyEndToEnd(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "greeting.txt")
	manifest := writeManifest(t, fmt.Sprintf(`
items:
  - dest: %s
    content: "hello\n"
`, dest))

	var out bytes.Buffer
	err := runApply(&out, applyOptions{ConfigPath: manifest})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
	assert.Contains(t, out.String(), "changed")
	assert.Contains(t, out.String(), "1 changed, 0 unchanged, 0 skipped, 0 failed")
}

func TestRunApplyDryRunViaRootFlag(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "never.txt")
	manifest := writeManifest(t, fmt.Sprintf(`
items:
  - dest: %s
    content: "hello"
`, dest))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply", "--dry-run", "-c", manifest})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}

func TestRunApplyFailureReturnsError(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "broken.txt")
	// copy state with neither content nor src fails at apply time
	manifest := writeManifest(t, fmt.Sprintf(`
items:
  - dest: %s
`, dest))

	var out bytes.Buffer
	err := runApply(&out, applyOptions{ConfigPath: manifest})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 items failed")
	assert.Contains(t, out.String(), "failed")
}

func TestRunApplyShowDiffPrintsUnifiedDiff(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(dest, []byte("old\n"), 0o644))

	manifest := writeManifest(t, fmt.Sprintf(`
items:
  - dest: %s
    content: "new\n"
`, dest))

	var out bytes.Buffer
	err := runApply(&out, applyOptions{ConfigPath: manifest, ShowDiff: true})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "-old")
	assert.Contains(t, out.String(), "+new")
}

func TestRunApplyRejectsMalformedManifest(t *testing.T) {
	manifest := writeManifest(t, "items: [\n")

	var out bytes.Buffer
	err := runApply(&out, applyOptions{ConfigPath: manifest})
	require.Error(t, err)
}

func TestValidateCommandReportsItemCount(t *testing.T) {
	manifest := writeManifest(t, `
items:
  - dest: /tmp/a
    content: "x"
  - dest: /tmp/b
    state: directory
`)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"validate", "-c", manifest})
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "2 item(s) OK")
}

func TestValidateCommandRejectsUnknownState(t *testing.T) {
	manifest := writeManifest(t, `
items:
  - dest: /tmp/a
    state: teleport
`)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"validate", "-c", manifest})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.Error(t, cmd.Execute())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "fsforge")
}
