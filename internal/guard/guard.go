package guard

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

// Decision explains why an item is skipped before its handler runs.
type Decision struct {
	Reason string
}

// Evaluate checks an item's guards against the filesystem. Guards are
// checked in a fixed order: creates, then removes, then the pre-evaluated
// when condition; the first guard that fires provides the reason. A probe
// that cannot answer (e.g. permission denied) is an error, never treated as
// "does not exist".
func Evaluate(item *resolve.Item) (*Decision, error) {
	if item.Creates != "" {
		exists, err := probe("creates", item.Creates)
		if err != nil {
			return nil, err
		}
		if exists {
			return &Decision{Reason: fmt.Sprintf("creates path exists: %s", item.Creates)}, nil
		}
	}

	if item.Removes != "" {
		exists, err := probe("removes", item.Removes)
		if err != nil {
			return nil, err
		}
		if !exists {
			return &Decision{Reason: fmt.Sprintf("removes path does not exist: %s", item.Removes)}, nil
		}
	}

	if item.When != nil && !*item.When {
		return &Decision{Reason: "condition evaluated to false"}, nil
	}

	return nil, nil
}

func probe(guard, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, forgeerrors.NewGuardProbeError(guard, path, err)
}
