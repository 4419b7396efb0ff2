package resolve

import (
	"fmt"
	"strings"

	"dario.cat/mergo"

	"github.com/alexisbeaulieu97/fsforge/internal/config"
	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/textedit"
	forgeerrors "github.com/alexisbeaulieu97/fsforge/pkg/errors"
)

// State identifies the desired filesystem state of an item. The set is
// closed; the dispatcher holds one handler per value.
type State string

const (
	StateCopy        State = "copy"
	StateDirectory   State = "directory"
	StateExists      State = "exists"
	StateTouch       State = "touch"
	StateAbsent      State = "absent"
	StateLink        State = "link"
	StateHard        State = "hard"
	StateLineInFile  State = "lineinfile"
	StateBlockInFile State = "blockinfile"
)

// Error policies for a failed item.
const (
	OnErrorFail     = "fail"
	OnErrorContinue = "continue"
)

// Built-in defaults applied when neither the item nor the manifest defaults
// declare a field.
const (
	defaultMarker      = "# {mark} MANAGED BLOCK"
	defaultMarkerBegin = "BEGIN"
	defaultMarkerEnd   = "END"
)

// Item is a fully resolved desired-state declaration: every field is either
// a concrete value or an explicit nil for "unset". Src and Content stay
// pointers because empty content is legal and must remain distinguishable
// from absent content.
type Item struct {
	Dest    string
	State   State
	Src     *string
	Content *string

	Attrs fsops.Attrs

	Force       bool
	ForceBackup bool
	Backup      bool
	RemoteSrc   bool
	MakeDirs    bool
	Recurse     bool
	Follow      bool

	Validate string
	Encoding string

	AccessTime       string
	ModificationTime string

	Creates string
	Removes string
	When    *bool

	OnError string

	Line         *string
	Regexp       string
	InsertAfter  string
	InsertBefore string
	LineAbsent   bool

	Block       *string
	Marker      string
	MarkerBegin string
	MarkerEnd   string
	BlockAbsent bool

	Notify []string
}

// Resolve merges manifest defaults under an item's own fields and fills the
// built-in defaults, producing a concrete Item. Precedence is fixed:
// per-item over manifest default over built-in. Resolution performs no I/O.
func Resolve(defaults config.Params, raw config.Item) (*Item, error) {
	dest := strings.TrimSpace(raw.Dest)
	if dest == "" {
		return nil, forgeerrors.NewValidationError("dest", "dest is required", nil)
	}

	merged := raw.Params
	// Mergo fills only unset (nil) fields, so item values always win.
	// WithoutDereference keeps pointer fields opaque: an explicit empty
	// string or false is a set value, not a hole for a default to fill.
	if err := mergo.Merge(&merged, defaults, mergo.WithoutDereference); err != nil {
		return nil, forgeerrors.NewValidationError("defaults", "cannot merge defaults", err)
	}

	if merged.Content != nil && merged.Src != nil {
		return nil, forgeerrors.NewMutualExclusionError(dest, "content", "src")
	}
	if merged.InsertAfter != nil && merged.InsertBefore != nil {
		return nil, forgeerrors.NewMutualExclusionError(dest, "insertafter", "insertbefore")
	}

	item := &Item{
		Dest:             dest,
		State:            State(stringOr(merged.State, string(StateCopy))),
		Src:              merged.Src,
		Content:          merged.Content,
		Force:            boolOr(merged.Force, false),
		ForceBackup:      boolOr(merged.ForceBackup, false),
		Backup:           boolOr(merged.Backup, false),
		RemoteSrc:        boolOr(merged.RemoteSrc, false),
		MakeDirs:         boolOr(merged.MakeDirs, false),
		Recurse:          boolOr(merged.Recurse, false),
		Follow:           boolOr(merged.Follow, true),
		Validate:         stringOr(merged.Validate, ""),
		Encoding:         stringOr(merged.Encoding, ""),
		AccessTime:       stringOr(merged.AccessTime, ""),
		ModificationTime: stringOr(merged.ModificationTime, ""),
		Creates:          stringOr(merged.Creates, ""),
		Removes:          stringOr(merged.Removes, ""),
		When:             merged.When,
		OnError:          stringOr(merged.OnError, OnErrorFail),
		Line:             merged.Line,
		Regexp:           stringOr(merged.Regexp, ""),
		InsertAfter:      stringOr(merged.InsertAfter, ""),
		InsertBefore:     stringOr(merged.InsertBefore, ""),
		LineAbsent:       stringOr(merged.LineState, "present") == "absent",
		Block:            merged.Block,
		Marker:           stringOr(merged.Marker, defaultMarker),
		MarkerBegin:      stringOr(merged.MarkerBegin, defaultMarkerBegin),
		MarkerEnd:        stringOr(merged.MarkerEnd, defaultMarkerEnd),
		BlockAbsent:      stringOr(merged.BlockState, "present") == "absent",
		Notify:           merged.Notify,
	}

	item.Attrs = fsops.Attrs{
		Owner: stringOr(merged.Owner, ""),
		Group: stringOr(merged.Group, ""),
	}
	if merged.Mode != nil {
		mode, err := fsops.ParseMode(*merged.Mode)
		if err != nil {
			return nil, forgeerrors.NewValidationError("mode", err.Error(), err)
		}
		item.Attrs.Mode = &mode
	}

	if err := checkStateRequirements(item); err != nil {
		return nil, err
	}

	if !fsops.SupportedEncoding(item.Encoding) {
		return nil, forgeerrors.NewValidationError("encoding", fmt.Sprintf("unsupported encoding %q", item.Encoding), nil)
	}

	return item, nil
}

func checkStateRequirements(item *Item) error {
	switch item.State {
	case StateLink, StateHard:
		if item.Src == nil || strings.TrimSpace(*item.Src) == "" {
			return forgeerrors.NewMissingFieldError(item.Dest, string(item.State), "src")
		}
	case StateLineInFile:
		if !item.LineAbsent && item.Line == nil {
			return forgeerrors.NewMissingFieldError(item.Dest, string(item.State), "line")
		}
		if item.LineAbsent && item.Line == nil && item.Regexp == "" {
			return forgeerrors.NewMissingFieldError(item.Dest, string(item.State), "line or regexp")
		}
	case StateBlockInFile:
		if !item.BlockAbsent && item.Block == nil {
			return forgeerrors.NewMissingFieldError(item.Dest, string(item.State), "block")
		}
		if !strings.Contains(item.Marker, textedit.MarkToken) {
			return forgeerrors.NewValidationError("marker", fmt.Sprintf("marker must contain %s", textedit.MarkToken), nil)
		}
	case StateCopy, StateDirectory, StateExists, StateTouch, StateAbsent:
	default:
		return forgeerrors.NewValidationError("state", fmt.Sprintf("unknown state %q", item.State), nil)
	}
	return nil
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
