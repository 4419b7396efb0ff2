package fsops

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// Attrs describes desired ownership and permission metadata. Empty owner or
// group and nil mode mean unmanaged.
type Attrs struct {
	Owner string
	Group string
	Mode  *os.FileMode
}

// Managed reports whether any attribute is declared.
func (a Attrs) Managed() bool {
	return a.Owner != "" || a.Group != "" || a.Mode != nil
}

// ParseMode converts an octal mode string such as "0644" to a file mode.
func ParseMode(s string) (os.FileMode, error) {
	parsed, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	return os.FileMode(parsed), nil
}

// ApplyAttrs compares the desired attributes against the path's current
// metadata and applies only the differences. It is idempotent and reports
// whether anything changed (or would change, in dry-run).
func ApplyAttrs(path string, attrs Attrs, dryRun bool) (bool, error) {
	if !attrs.Managed() {
		return false, nil
	}

	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}

	changed := false
	isLink := info.Mode()&os.ModeSymlink != 0

	// Mode bits on a symlink itself are not meaningful on most platforms.
	if attrs.Mode != nil && !isLink {
		if info.Mode().Perm() != attrs.Mode.Perm() {
			changed = true
			if !dryRun {
				if err := os.Chmod(path, attrs.Mode.Perm()); err != nil {
					return changed, err
				}
			}
		}
	}

	if attrs.Owner != "" || attrs.Group != "" {
		uid, gid, err := resolveIDs(attrs.Owner, attrs.Group)
		if err != nil {
			return changed, err
		}

		currentUID, currentGID, ok := statIDs(info)
		if !ok {
			return changed, fmt.Errorf("ownership not supported on this platform")
		}

		wantUID := currentUID
		if uid >= 0 {
			wantUID = uid
		}
		wantGID := currentGID
		if gid >= 0 {
			wantGID = gid
		}

		if wantUID != currentUID || wantGID != currentGID {
			changed = true
			if !dryRun {
				if err := os.Lchown(path, wantUID, wantGID); err != nil {
					return changed, err
				}
			}
		}
	}

	return changed, nil
}

// resolveIDs maps owner/group names (or numeric strings) to uid/gid. A -1
// means the corresponding attribute is unmanaged.
func resolveIDs(owner, group string) (int, int, error) {
	uid := -1
	gid := -1

	if owner != "" {
		if n, err := strconv.Atoi(owner); err == nil {
			uid = n
		} else {
			u, lookupErr := user.Lookup(owner)
			if lookupErr != nil {
				return 0, 0, fmt.Errorf("unknown owner %q: %w", owner, lookupErr)
			}
			parsed, parseErr := strconv.Atoi(u.Uid)
			if parseErr != nil {
				return 0, 0, parseErr
			}
			uid = parsed
		}
	}

	if group != "" {
		if n, err := strconv.Atoi(group); err == nil {
			gid = n
		} else {
			g, lookupErr := user.LookupGroup(group)
			if lookupErr != nil {
				return 0, 0, fmt.Errorf("unknown group %q: %w", group, lookupErr)
			}
			parsed, parseErr := strconv.Atoi(g.Gid)
			if parseErr != nil {
				return 0, 0, parseErr
			}
			gid = parsed
		}
	}

	return uid, gid, nil
}

func statIDs(info os.FileInfo) (int, int, bool) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return int(sys.Uid), int(sys.Gid), true
}
