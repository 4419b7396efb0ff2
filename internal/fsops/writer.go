package fsops

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alexisbeaulieu97/fsforge/internal/execx"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

// DefaultFileMode is applied to files the writer creates when the item does
// not declare a mode and no prior file existed.
const DefaultFileMode os.FileMode = 0o644

// WriteOptions control a single content installation.
type WriteOptions struct {
	Backup   bool
	Validate string
	Mode     os.FileMode
	DryRun   bool
	Runner   execx.Runner
}

// WriteResult reports what a write did. Before and After hold the text pair
// for diff consumers; both are empty when Binary is set.
type WriteResult struct {
	Changed    bool
	BackupPath string
	Before     string
	After      string
	Binary     bool
}

// Write installs content at dest atomically: the new content goes to a
// temporary file in dest's directory, is optionally validated by an external
// command, and is renamed over dest so a concurrent reader never observes a
// partial write. An aborted run leaves dest untouched.
func Write(ctx context.Context, dest string, content []byte, opts WriteOptions) (*WriteResult, error) {
	result := &WriteResult{}

	existing, exists, err := readIfFile(dest)
	if err != nil {
		return nil, err
	}
	if exists && bytes.Equal(existing, content) {
		return result, nil
	}

	result.Changed = true
	result.Binary = isBinary(existing) || isBinary(content)
	if !result.Binary {
		result.Before = string(existing)
		result.After = string(content)
	}

	if opts.DryRun {
		return result, nil
	}

	perm := opts.Mode
	if perm == 0 {
		perm = DefaultFileMode
	}
	if exists {
		if info, statErr := os.Stat(dest); statErr == nil {
			perm = info.Mode().Perm()
		}
	}

	tmpPath, err := writeTemp(dest, content, perm)
	if err != nil {
		return nil, err
	}

	if opts.Validate != "" {
		if err := validateTemp(ctx, tmpPath, opts.Validate, opts.Runner); err != nil {
			os.Remove(tmpPath)
			return nil, err
		}
	}

	if opts.Backup && exists {
		backupPath, backupErr := CreateBackup(dest, existing, perm)
		if backupErr != nil {
			os.Remove(tmpPath)
			return nil, backupErr
		}
		result.BackupPath = backupPath
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	return result, nil
}

// CopyFile installs the content of src at dest using the same temp-validate-
// backup-rename sequence as Write. The source file is never moved, so a
// pre-transferred source survives the operation.
func CopyFile(ctx context.Context, dest, src string, opts WriteOptions) (*WriteResult, error) {
	result := &WriteResult{}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("source file not found: %s", src)
	}

	srcSum, err := checksum(src)
	if err != nil {
		return nil, err
	}

	existing, exists, err := readIfFile(dest)
	if err != nil {
		return nil, err
	}
	if exists {
		destSum := sha256.Sum256(existing)
		if bytes.Equal(srcSum, destSum[:]) {
			return result, nil
		}
	}

	srcContent, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}

	result.Changed = true
	result.Binary = isBinary(existing) || isBinary(srcContent)
	if !result.Binary {
		result.Before = string(existing)
		result.After = string(srcContent)
	}

	if opts.DryRun {
		return result, nil
	}

	perm := srcInfo.Mode().Perm()
	if exists {
		if info, statErr := os.Stat(dest); statErr == nil {
			perm = info.Mode().Perm()
		}
	}

	tmpPath, err := writeTemp(dest, srcContent, perm)
	if err != nil {
		return nil, err
	}

	if opts.Validate != "" {
		if err := validateTemp(ctx, tmpPath, opts.Validate, opts.Runner); err != nil {
			os.Remove(tmpPath)
			return nil, err
		}
	}

	if opts.Backup && exists {
		backupPath, backupErr := CreateBackup(dest, existing, perm)
		if backupErr != nil {
			os.Remove(tmpPath)
			return nil, backupErr
		}
		result.BackupPath = backupPath
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	return result, nil
}

func readIfFile(path string) ([]byte, bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !info.Mode().IsRegular() {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// writeTemp creates the temporary file in dest's own directory so the final
// rename stays on one filesystem.
func writeTemp(dest string, content []byte, perm os.FileMode) (string, error) {
	dir := filepath.Dir(dest)

	tmp, err := os.CreateTemp(dir, ".fsforge-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	return tmpName, nil
}

func validateTemp(ctx context.Context, tmpPath, validate string, runner execx.Runner) error {
	if strings.Count(validate, "%s") != 1 {
		return fmt.Errorf("validate command must contain exactly one %%s placeholder: %s", validate)
	}
	if runner == nil {
		return fmt.Errorf("validate command configured but no command runner available")
	}

	cmd := fmt.Sprintf(validate, tmpPath)
	result, err := runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return forgeerrors.NewCommandValidationError(cmd, result.ExitCode, result.Stdout, result.Stderr)
	}
	return nil
}

func checksum(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// isBinary applies the diff-suppression heuristic: a NUL byte or invalid
// UTF-8 marks content as binary.
func isBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}
