package config

// Manifest is the full reconciliation document: shared defaults plus an
// ordered list of items. Item order is execution order.
type Manifest struct {
	Version  string   `yaml:"version,omitempty" validate:"omitempty,semver"`
	Name     string   `yaml:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Settings Settings `yaml:"settings,omitempty"`
	Defaults Params   `yaml:"defaults,omitempty"`
	Items    []Item   `yaml:"items" validate:"required,min=1,dive"`
}

// Settings holds run-level execution parameters.
type Settings struct {
	OnError  string `yaml:"on_error,omitempty" validate:"omitempty,oneof=fail continue"`
	DryRun   bool   `yaml:"dry_run,omitempty"`
	ShowDiff bool   `yaml:"show_diff,omitempty"`
}

// Item is one declarative desired-state record. Every field except Dest is
// optional; pointer fields keep "unset" distinguishable from an intentional
// zero value (an empty string is legal content).
type Item struct {
	Dest   string `yaml:"dest" validate:"required"`
	Params `yaml:",inline"`
}

// Params are the per-item fields that can also be declared once as manifest
// defaults. Per-item values win over defaults, which win over built-ins.
type Params struct {
	State   *string `yaml:"state,omitempty"`
	Src     *string `yaml:"src,omitempty"`
	Content *string `yaml:"content,omitempty"`

	Owner *string `yaml:"owner,omitempty"`
	Group *string `yaml:"group,omitempty"`
	Mode  *string `yaml:"mode,omitempty"`

	Force       *bool `yaml:"force,omitempty"`
	ForceBackup *bool `yaml:"force_backup,omitempty"`
	Backup      *bool `yaml:"backup,omitempty"`
	RemoteSrc   *bool `yaml:"remote_src,omitempty"`
	MakeDirs    *bool `yaml:"makedirs,omitempty"`
	Recurse     *bool `yaml:"recurse,omitempty"`
	Follow      *bool `yaml:"follow,omitempty"`

	Validate *string `yaml:"validate,omitempty"`
	Encoding *string `yaml:"encoding,omitempty"`

	AccessTime       *string `yaml:"access_time,omitempty"`
	ModificationTime *string `yaml:"modification_time,omitempty"`

	Creates *string `yaml:"creates,omitempty"`
	Removes *string `yaml:"removes,omitempty"`
	// When is the pre-evaluated condition result supplied by the caller;
	// the engine never parses conditional expressions itself.
	When *bool `yaml:"when,omitempty"`

	OnError *string `yaml:"on_error,omitempty"`

	Line         *string `yaml:"line,omitempty"`
	Regexp       *string `yaml:"regexp,omitempty"`
	InsertAfter  *string `yaml:"insertafter,omitempty"`
	InsertBefore *string `yaml:"insertbefore,omitempty"`
	LineState    *string `yaml:"line_state,omitempty"`

	Block       *string `yaml:"block,omitempty"`
	Marker      *string `yaml:"marker,omitempty"`
	MarkerBegin *string `yaml:"marker_begin,omitempty"`
	MarkerEnd   *string `yaml:"marker_end,omitempty"`
	BlockState  *string `yaml:"block_state,omitempty"`

	Notify []string `yaml:"notify,omitempty"`
}
