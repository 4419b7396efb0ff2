package states

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
)

// Datetime layouts accepted for access_time and modification_time, tried in
// order after epoch seconds.
var touchTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// applyTouch creates the destination if missing and stamps its access and
// modification times. Touch always reports a change: stamping times is the
// point, even when the file already exists.
func applyTouch(_ context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	now := time.Now()
	atime, err := parseTimestamp(item.AccessTime, now)
	if err != nil {
		return nil, fmt.Errorf("access_time: %w", err)
	}
	mtime, err := parseTimestamp(item.ModificationTime, now)
	if err != nil {
		return nil, fmt.Errorf("modification_time: %w", err)
	}

	_, statErr := os.Lstat(item.Dest)
	missing := os.IsNotExist(statErr)
	if statErr != nil && !missing {
		return nil, statErr
	}

	if missing {
		if err := ensureParent(item, env); err != nil {
			return nil, err
		}
	}

	if env.DryRun {
		if missing {
			return &model.Outcome{Changed: true, Message: "file would be created and touched"}, nil
		}
		return &model.Outcome{Changed: true, Message: "timestamps would be updated"}, nil
	}

	message := "timestamps updated"
	if missing {
		mode := fsops.DefaultFileMode
		if item.Attrs.Mode != nil {
			mode = item.Attrs.Mode.Perm()
		}
		f, err := os.OpenFile(item.Dest, os.O_WRONLY|os.O_CREATE, mode)
		if err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		message = "file created and touched"
	}

	if err := os.Chtimes(item.Dest, atime, mtime); err != nil {
		return nil, err
	}

	return &model.Outcome{Changed: true, Message: message}, nil
}

// parseTimestamp turns a touch time value into a time. Empty and "now" mean
// the current time; a bare integer is epoch seconds; otherwise the datetime
// layouts are tried in the local timezone.
func parseTimestamp(value string, now time.Time) (time.Time, error) {
	if value == "" || value == "now" {
		return now, nil
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	for _, layout := range touchTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", value)
}
