package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExpandPath normalizes a user-supplied path: tilde expansion and conversion
// to an absolute path.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			path = home
		} else if strings.HasPrefix(path, "~/") {
			path = filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(path)
}

// CreateBackup writes content to a timestamped sibling of path and returns
// the backup path.
func CreateBackup(path string, content []byte, perm os.FileMode) (string, error) {
	timestamp := time.Now().UTC().Format("20060102T150405")
	backupPath := fmt.Sprintf("%s.%s.bak", path, timestamp)

	if err := os.WriteFile(backupPath, content, perm); err != nil {
		return "", err
	}
	return backupPath, nil
}

// ForceRemove clears a conflicting path so the desired state can be created.
// With backup set, the path is renamed to a .old sibling (or .old.<epoch>
// when that name is taken) instead of being deleted; the new name is
// returned. Directories are removed recursively; symlinks are removed
// without following.
func ForceRemove(path string, backup bool) (string, error) {
	if backup {
		renamed := path + ".old"
		if _, err := os.Lstat(renamed); err == nil {
			renamed = fmt.Sprintf("%s.old.%d", path, time.Now().Unix())
		}
		if err := os.Rename(path, renamed); err != nil {
			return "", err
		}
		return renamed, nil
	}

	info, err := os.Lstat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", os.RemoveAll(path)
	}
	return "", os.Remove(path)
}

// MakeParents creates missing parent directories for path. Returns whether
// anything was created.
func MakeParents(path string, dryRun bool) (bool, error) {
	parent := filepath.Dir(path)
	if info, err := os.Stat(parent); err == nil && info.IsDir() {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return false, err
	}
	return true, nil
}

// ParentExists reports whether the immediate parent of path is a directory.
func ParentExists(path string) bool {
	info, err := os.Stat(filepath.Dir(path))
	return err == nil && info.IsDir()
}
